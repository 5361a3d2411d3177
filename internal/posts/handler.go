package posts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/devconnector/backend/internal/middleware"
	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/respond"
	"github.com/ayush/devconnector/backend/internal/validate"
)

// Handler holds post HTTP handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create stores a post authored by the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	post, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), text)
	if err != nil {
		log.Printf("create post error: %v", err)
		respond.ServerError(w, "server error")
		return
	}
	respond.JSON(w, http.StatusOK, post)
}

// List returns all posts, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("list posts error: %v", err)
		respond.ServerError(w, "server error")
		return
	}
	respond.JSON(w, http.StatusOK, posts)
}

// Get returns a single post.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get post", http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, post)
}

// Delete removes a post owned by the current user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, "delete post", http.StatusBadRequest, err)
		return
	}
	respond.Msg(w, http.StatusOK, "Post removed")
}

// Like adds the current user to the post's likes.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	likes, err := h.svc.Like(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, "like post", http.StatusNotFound, err)
		return
	}
	respond.JSON(w, http.StatusOK, likes)
}

// Unlike removes the current user from the post's likes.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	likes, err := h.svc.Unlike(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, "unlike post", http.StatusNotFound, err)
		return
	}
	respond.JSON(w, http.StatusOK, likes)
}

// AddComment adds a comment by the current user.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	comments, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), text)
	if err != nil {
		writeError(w, "add comment", http.StatusNotFound, err)
		return
	}
	respond.JSON(w, http.StatusOK, comments)
}

// DeleteComment removes a comment written by the current user.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.DeleteComment(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "comment_id"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, "delete comment", http.StatusNotFound, err)
		return
	}
	respond.JSON(w, http.StatusOK, comments)
}

func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Errors(w, http.StatusBadRequest, validate.Message("Invalid request body"))
		return "", false
	}

	var v validate.Body
	if err := v.NotEmpty("text", req.Text, "text is required").Err(); err != nil {
		respond.Errors(w, http.StatusBadRequest, err)
		return "", false
	}
	return req.Text, true
}

// writeError maps service errors to status codes. Lookups by id answer a
// missing post with 400, mutations with 404.
func writeError(w http.ResponseWriter, op string, notFound int, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Msg(w, notFound, "Post not found")
	case errors.Is(err, ErrUnauthorized):
		respond.Msg(w, http.StatusUnauthorized, "user not authorized")
	case errors.Is(err, ErrAlreadyLiked):
		respond.Msg(w, http.StatusBadRequest, "Post already liked")
	case errors.Is(err, ErrNotLiked):
		respond.Msg(w, http.StatusBadRequest, "Post has not yet been liked")
	case errors.Is(err, ErrCommentNotFound):
		respond.Msg(w, http.StatusNotFound, "Comment does not exist")
	default:
		log.Printf("%s error: %v", op, err)
		respond.ServerError(w, "server error")
	}
}
