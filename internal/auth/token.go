package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 3600 * time.Second

var (
	// ErrSigning means a token could not be produced, usually because no
	// secret is configured.
	ErrSigning = errors.New("token signing failed")
	// ErrInvalidToken covers expired, malformed and badly signed tokens alike.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the token payload: {"user":{"id":...}} plus registered claims.
type Claims struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for userID that expires TokenTTL from now.
func (s *TokenService) Issue(userID string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: no secret configured", ErrSigning)
	}

	now := s.now()
	var claims Claims
	claims.User.ID = userID
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded user id.
func (s *TokenService) Verify(token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || len(s.secret) == 0 {
		return "", ErrInvalidToken
	}
	if claims.User.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.User.ID, nil
}
