package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/models"
)

func TestMemoryPostStoreReplaceDetectsConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()

	post := &models.Post{User: "u1", Text: "hello"}
	require.NoError(t, s.Insert(ctx, post))

	a, err := s.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	b, err := s.Get(ctx, post.ID.Hex())
	require.NoError(t, err)

	a.Likes = append(a.Likes, models.Like{User: "u2"})
	require.NoError(t, s.Replace(ctx, a))
	assert.Equal(t, int64(1), a.Version)

	b.Likes = append(b.Likes, models.Like{User: "u3"})
	assert.ErrorIs(t, s.Replace(ctx, b), ErrConflict)

	got, err := s.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: "u2"}}, got.Likes)
}

func TestMemoryPostStoreGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()

	_, err := s.Get(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = s.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPostStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()

	post := &models.Post{User: "u1", Text: "hello"}
	require.NoError(t, s.Insert(ctx, post))

	got, err := s.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	got.Likes = append(got.Likes, models.Like{User: "u9"})

	again, err := s.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, again.Likes)
}

func TestMemoryPostStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPostStore()
	base := time.Now()

	for i, text := range []string{"old", "newest", "middle"} {
		offset := []time.Duration{0, 2 * time.Minute, time.Minute}[i]
		require.NoError(t, s.Insert(ctx, &models.Post{Text: text, Date: base.Add(offset)}))
	}

	posts, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Text)
	assert.Equal(t, "middle", posts[1].Text)
	assert.Equal(t, "old", posts[2].Text)
}

func TestMemoryUserStoreUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	u := &models.User{Name: "Alice", Email: "a@x.com", Password: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotEmpty(t, u.ID)

	err := s.CreateUser(ctx, &models.User{Name: "Other", Email: "a@x.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)

	byEmail, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
