package models

import "time"

// User is a registered account. ID is opaque: a Mongo ObjectID hex string or
// a Postgres UUID depending on the configured user store.
type User struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"-"` // never serialize
	Avatar   string    `json:"avatar"`
	Date     time.Time `json:"date"`
}

// RegisterRequest is the JSON body for POST /api/users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
}
