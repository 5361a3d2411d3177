package posts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/store"
)

// maxWriteAttempts bounds how often a read-modify-write is replayed after
// losing a revision race.
const maxWriteAttempts = 5

var (
	ErrNotFound        = errors.New("post not found")
	ErrUnauthorized    = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post has not yet been liked")
	ErrCommentNotFound = errors.New("comment does not exist")
)

// PostStore defines the interface for post persistence.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) error
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Replace(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserLookup resolves authors for the name/avatar snapshot.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Archiver keeps a copy of a post before it is deleted.
type Archiver interface {
	Archive(ctx context.Context, post *models.Post) error
}

// Service implements post, like and comment operations.
type Service struct {
	posts   PostStore
	users   UserLookup
	archive Archiver
	now     func() time.Time
}

// NewService builds a Service. archive may be nil.
func NewService(posts PostStore, users UserLookup, archive Archiver) *Service {
	return &Service{posts: posts, users: users, archive: archive, now: time.Now}
}

// Create stores a new post with a snapshot of the author's name and avatar.
func (s *Service) Create(ctx context.Context, authorID, text string) (*models.Post, error) {
	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	post := &models.Post{
		User:     authorID,
		Text:     text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     s.now(),
	}
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Get returns one post. A malformed id reads as not found.
func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return nil, ErrNotFound
	}
	return post, err
}

// Delete removes a post owned by requesterID. Not found wins over unauthorized.
func (s *Service) Delete(ctx context.Context, id, requesterID string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.User != requesterID {
		return ErrUnauthorized
	}

	if s.archive != nil {
		if err := s.archive.Archive(ctx, post); err != nil {
			log.Printf("archive post %s error (non-fatal): %v", post.ID.Hex(), err)
		}
	}
	return s.posts.Delete(ctx, post.ID)
}

// Like puts userID at the front of the post's likes.
func (s *Service) Like(ctx context.Context, id, userID string) ([]models.Like, error) {
	post, err := s.update(ctx, id, func(p *models.Post) error {
		if likeIndex(p.Likes, userID) >= 0 {
			return ErrAlreadyLiked
		}
		p.Likes = append([]models.Like{{User: userID}}, p.Likes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Unlike removes userID's like from the post.
func (s *Service) Unlike(ctx context.Context, id, userID string) ([]models.Like, error) {
	post, err := s.update(ctx, id, func(p *models.Post) error {
		i := likeIndex(p.Likes, userID)
		if i < 0 {
			return ErrNotLiked
		}
		p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment puts a new comment at the front of the post's comments.
func (s *Service) AddComment(ctx context.Context, id, userID, text string) ([]models.Comment, error) {
	author, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load commenter: %w", err)
	}

	comment := models.Comment{
		ID:     primitive.NewObjectID(),
		User:   userID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now(),
	}
	post, err := s.update(ctx, id, func(p *models.Post) error {
		p.Comments = append([]models.Comment{comment}, p.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// DeleteComment removes a comment written by requesterID.
func (s *Service) DeleteComment(ctx context.Context, id, commentID, requesterID string) ([]models.Comment, error) {
	post, err := s.update(ctx, id, func(p *models.Post) error {
		i := commentIndex(p.Comments, commentID)
		if i < 0 {
			return ErrCommentNotFound
		}
		if p.Comments[i].User != requesterID {
			return ErrUnauthorized
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// update loads the post, applies fn and writes it back, replaying the whole
// cycle when another writer got there first. Malformed ids are passed
// through as store errors rather than read as not found.
func (s *Service) update(ctx context.Context, id string, fn func(p *models.Post) error) (*models.Post, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		post, err := s.posts.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}

		if err := fn(post); err != nil {
			return nil, err
		}

		err = s.posts.Replace(ctx, post)
		switch {
		case err == nil:
			return post, nil
		case errors.Is(err, store.ErrConflict):
			continue
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("post %s: gave up after %d conflicting writes", id, maxWriteAttempts)
}

func likeIndex(likes []models.Like, userID string) int {
	for i, l := range likes {
		if l.User == userID {
			return i
		}
	}
	return -1
}

func commentIndex(comments []models.Comment, commentID string) int {
	for i, c := range comments {
		if c.ID.Hex() == commentID {
			return i
		}
	}
	return -1
}
