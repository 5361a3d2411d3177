package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/models"
)

// MemoryPostStore keeps posts in process memory. It honours the same id and
// revision rules as MongoPostStore and is used for local runs and tests.
type MemoryPostStore struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*models.Post
}

func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (s *MemoryPostStore) Insert(_ context.Context, post *models.Post) error {
	if post.Date.IsZero() {
		post.Date = time.Now()
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	post.Version = 0

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post.Clone()
	return nil
}

func (s *MemoryPostStore) List(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *MemoryPostStore) Get(_ context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryPostStore) Replace(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != post.Version {
		return ErrConflict
	}
	post.Version++
	s.posts[post.ID] = post.Clone()
	return nil
}

func (s *MemoryPostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	return nil
}

// MemoryUserStore keeps users in process memory with a unique email index.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := u.Email
	if _, taken := s.byEmail[key]; taken {
		return ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.Date = time.Now()
	s.byID[u.ID] = *u
	s.byEmail[key] = u.ID
	return nil
}

func (s *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *MemoryUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
