package posts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/devconnector/backend/internal/models"
	"github.com/ayush/devconnector/backend/internal/store"
)

type recordingArchive struct {
	mu    sync.Mutex
	posts []models.Post
	err   error
}

func (a *recordingArchive) Archive(_ context.Context, post *models.Post) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posts = append(a.posts, *post)
	return a.err
}

type fixture struct {
	svc     *Service
	posts   *store.MemoryPostStore
	archive *recordingArchive
	alice   string
	bob     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	users := store.NewMemoryUserStore()

	alice := &models.User{Name: "Alice", Email: "a@x.com", Password: "h", Avatar: "//avatar/alice"}
	bob := &models.User{Name: "Bob", Email: "b@x.com", Password: "h", Avatar: "//avatar/bob"}
	require.NoError(t, users.CreateUser(ctx, alice))
	require.NoError(t, users.CreateUser(ctx, bob))

	posts := store.NewMemoryPostStore()
	archive := &recordingArchive{}
	return &fixture{
		svc:     NewService(posts, users, archive),
		posts:   posts,
		archive: archive,
		alice:   alice.ID,
		bob:     bob.ID,
	}
}

func (f *fixture) post(t *testing.T, author, text string) *models.Post {
	t.Helper()
	p, err := f.svc.Create(context.Background(), author, text)
	require.NoError(t, err)
	return p
}

func TestCreateSnapshotsAuthor(t *testing.T) {
	f := newFixture(t)
	p := f.post(t, f.alice, "hello")

	assert.False(t, p.ID.IsZero())
	assert.Equal(t, f.alice, p.User)
	assert.Equal(t, "hello", p.Text)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "//avatar/alice", p.Avatar)
	assert.Empty(t, p.Likes)
	assert.Empty(t, p.Comments)
}

func TestCreateUnknownAuthor(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "ghost", "hello")
	assert.Error(t, err)
}

func TestGetMissingOrMalformed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Get(ctx, "123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, f.alice, "hello")

	assert.ErrorIs(t, f.svc.Delete(ctx, p.ID.Hex(), f.bob), ErrUnauthorized)
	_, err := f.svc.Get(ctx, p.ID.Hex())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, p.ID.Hex(), f.alice))
	_, err = f.svc.Get(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, f.archive.posts, 1)
	assert.Equal(t, p.ID, f.archive.posts[0].ID)
}

func TestDeleteNotFoundBeforeUnauthorized(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Delete(context.Background(), primitive.NewObjectID().Hex(), f.bob)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSurvivesArchiveFailure(t *testing.T) {
	f := newFixture(t)
	f.archive.err = errors.New("bucket gone")
	ctx := context.Background()
	p := f.post(t, f.alice, "hello")

	require.NoError(t, f.svc.Delete(ctx, p.ID.Hex(), f.alice))
	_, err := f.svc.Get(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeUnlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, f.alice, "hello")
	id := p.ID.Hex()

	likes, err := f.svc.Like(ctx, id, f.bob)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: f.bob}}, likes)

	likes, err = f.svc.Like(ctx, id, f.alice)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: f.alice}, {User: f.bob}}, likes, "newest like first")

	_, err = f.svc.Like(ctx, id, f.alice)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	likes, err = f.svc.Unlike(ctx, id, f.alice)
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: f.bob}}, likes)

	_, err = f.svc.Unlike(ctx, id, f.alice)
	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestLikeMissingPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Like(ctx, primitive.NewObjectID().Hex(), f.bob)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Unlike(ctx, primitive.NewObjectID().Hex(), f.bob)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeMalformedIDIsNotNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Like(context.Background(), "not-an-id", f.bob)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, f.alice, "hello")
	id := p.ID.Hex()

	comments, err := f.svc.AddComment(ctx, id, f.bob, "first")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Bob", comments[0].Name)
	assert.Equal(t, "//avatar/bob", comments[0].Avatar)
	assert.Equal(t, f.bob, comments[0].User)

	comments, err = f.svc.AddComment(ctx, id, f.alice, "second")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text, "newest comment first")
	bobComment := comments[1].ID.Hex()

	_, err = f.svc.DeleteComment(ctx, id, primitive.NewObjectID().Hex(), f.bob)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = f.svc.DeleteComment(ctx, id, bobComment, f.alice)
	assert.ErrorIs(t, err, ErrUnauthorized)

	comments, err = f.svc.DeleteComment(ctx, id, bobComment, f.bob)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "second", comments[0].Text)

	_, err = f.svc.DeleteComment(ctx, primitive.NewObjectID().Hex(), bobComment, f.bob)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AddComment(ctx, primitive.NewObjectID().Hex(), f.bob, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	posts, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	f.post(t, f.alice, "one")
	f.post(t, f.bob, "two")

	posts, err = f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.False(t, posts[0].Date.Before(posts[1].Date))
}

func TestConcurrentLikesAllLand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, f.alice, "popular")

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Like(ctx, p.ID.Hex(), primitive.NewObjectID().Hex())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	got, err := f.svc.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, got.Likes, n)
}

// conflictOnce makes the first Replace lose the race.
type conflictOnce struct {
	*store.MemoryPostStore
	tripped bool
}

func (c *conflictOnce) Replace(ctx context.Context, post *models.Post) error {
	if !c.tripped {
		c.tripped = true
		return store.ErrConflict
	}
	return c.MemoryPostStore.Replace(ctx, post)
}

func TestUpdateRetriesOnConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, f.alice, "hello")

	flaky := &conflictOnce{MemoryPostStore: f.posts}
	svc := NewService(flaky, nil, nil)

	likes, err := svc.Like(ctx, p.ID.Hex(), f.bob)
	require.NoError(t, err)
	assert.True(t, flaky.tripped)
	assert.Equal(t, []models.Like{{User: f.bob}}, likes)
}
