package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/store"
)

const (
	// hashCost is the bcrypt work factor for stored passwords.
	hashCost = 10
	// maxPasswordBytes is the most bcrypt reads; longer input is cut, not refused.
	maxPasswordBytes = 72
)

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Directory registers users and checks their credentials.
type Directory struct {
	users  UserStore
	tokens *TokenService
}

func NewDirectory(users UserStore, tokens *TokenService) *Directory {
	return &Directory{users: users, tokens: tokens}
}

// Register stores a new user and returns a token for it. Input is expected to
// be validated already.
func (d *Directory) Register(ctx context.Context, name, email, password string) (string, error) {
	_, err := d.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrDuplicateUser
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword(passwordBytes(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Avatar:   gravatarURL(email),
	}
	if err := d.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", ErrDuplicateUser
		}
		return "", err
	}

	return d.tokens.Issue(user.ID)
}

// Authenticate returns a fresh token when email and password match. Unknown
// email and wrong password produce the same error.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := d.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), passwordBytes(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return d.tokens.Issue(user.ID)
}

// Profile loads a user with the password hash cleared.
func (d *Directory) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := d.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
