package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ayush/devconnector/backend/internal/middleware"
	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/respond"
	"github.com/ayush/devconnector/backend/internal/validate"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

// Register creates a new user and returns a token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Errors(w, http.StatusBadRequest, validate.Message("Invalid request body"))
		return
	}

	var v validate.Body
	v.NotEmpty("name", req.Name, "Name is Required").
		Email("email", req.Email, "Please Include a valid email").
		MinLength("password", req.Password, 6, "Please enter a password with 6 or more characters")
	if err := v.Err(); err != nil {
		respond.Errors(w, http.StatusBadRequest, err)
		return
	}

	token, err := h.dir.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, ErrDuplicateUser) {
		respond.Errors(w, http.StatusBadRequest, validate.Message("User already exists"))
		return
	}
	if err != nil {
		log.Printf("register error: %v", err)
		respond.ServerError(w, "Server Error")
		return
	}

	respond.JSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Login checks credentials and returns a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Errors(w, http.StatusBadRequest, validate.Message("Invalid request body"))
		return
	}

	var v validate.Body
	v.Email("email", req.Email, "Please Include a valid email").
		NotEmpty("password", req.Password, "Please enter a valid password")
	if err := v.Err(); err != nil {
		respond.Errors(w, http.StatusBadRequest, err)
		return
	}

	token, err := h.dir.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		respond.Errors(w, http.StatusBadRequest, validate.Message("Invalid Credentials"))
		return
	}
	if err != nil {
		log.Printf("login error: %v", err)
		respond.ServerError(w, "Server Error")
		return
	}

	respond.JSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.dir.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		log.Printf("profile error: %v", err)
		respond.ServerError(w, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
