package comment

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/notify"
	"lifelessons/internal/workspace"
	"lifelessons/internal/workspace/wstest"
)

type fakeBackend struct {
	mu       sync.Mutex
	comments []domain.Comment
	fail     bool
	posts    atomic.Int32
	gets     atomic.Int32
	onPost   func()
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /comments", func(w http.ResponseWriter, r *http.Request) {
		b.gets.Add(1)
		b.mu.Lock()
		defer b.mu.Unlock()
		wstest.JSON(w, http.StatusOK, b.comments)
	})
	mux.HandleFunc("POST /comments", func(w http.ResponseWriter, r *http.Request) {
		b.posts.Add(1)
		if b.onPost != nil {
			b.onPost()
		}
		var c domain.Comment
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.fail {
			wstest.JSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		c.ID = "srv-" + c.CommentText
		b.comments = append(b.comments, c)
		wstest.JSON(w, http.StatusCreated, map[string]any{"insertedId": c.ID})
	})
	return mux
}

var author = &domain.User{ID: "u1", UserName: "Ann", UserImage: "ann.png"}

func existing() []domain.Comment {
	return []domain.Comment{{ID: "c1", LessonID: "l1", UserID: "u2", CommentText: "first"}}
}

func setupThread(t *testing.T, b *fakeBackend) *workspace.Workspace {
	t.Helper()
	env := wstest.New(t, b.handler(t))
	return env.SignIn(t, "ann@example.com")
}

func TestThread_SubmitShowsOptimisticEntryThenConfirms(t *testing.T) {
	b := &fakeBackend{comments: existing()}
	ws := setupThread(t, b)
	key := commentsKey("l1")
	ws.Cache.Set(key, existing())

	var during []domain.Comment
	b.onPost = func() { during, _ = cache.Value[[]domain.Comment](ws.Cache, key) }

	th := NewThread("l1")
	th.newID = func() string { return "tmp-1" }

	list, err := th.Submit(context.Background(), ws, author, "hello")
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, th.State())

	require.Len(t, during, 2)
	assert.Equal(t, "tmp-1", during[1].ID)
	assert.True(t, during[1].Pending)
	assert.Equal(t, "hello", during[1].CommentText)
	assert.Equal(t, "Ann", during[1].UserName)

	require.Len(t, list, 2)
	assert.Equal(t, "srv-hello", list[1].ID)
	assert.False(t, list[1].Pending)
	assert.Equal(t, int32(1), b.gets.Load(), "confirmed list is refetched")
	assert.Zero(t, ws.Notices.Len())
}

func TestThread_FailureRestoresSnapshotExactly(t *testing.T) {
	b := &fakeBackend{fail: true}
	ws := setupThread(t, b)
	key := commentsKey("l1")
	snapshot := existing()
	ws.Cache.Set(key, snapshot)

	th := NewThread("l1")
	_, err := th.Submit(context.Background(), ws, author, "nope")
	require.Error(t, err)
	assert.Equal(t, StateRolledBack, th.State())

	got, ok := cache.Value[[]domain.Comment](ws.Cache, key)
	require.True(t, ok)
	assert.Equal(t, snapshot, got)
	assert.Zero(t, b.gets.Load(), "no refetch and no retry")
	assert.Equal(t, int32(1), b.posts.Load())

	notices := ws.Notices.Drain(0)
	require.Len(t, notices, 1)
	assert.Equal(t, notify.LevelError, notices[0].Level)
	assert.Equal(t, MsgSubmitFailed, notices[0].Message)
}

func TestThread_FailureWithoutCachedListLeavesNothing(t *testing.T) {
	b := &fakeBackend{fail: true}
	ws := setupThread(t, b)

	_, err := NewThread("l1").Submit(context.Background(), ws, author, "nope")
	require.Error(t, err)

	_, ok, _ := ws.Cache.Peek(commentsKey("l1"))
	assert.False(t, ok)
}

func TestThread_BlankTextMakesNoCall(t *testing.T) {
	b := &fakeBackend{}
	ws := setupThread(t, b)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := NewThread("l1").Submit(context.Background(), ws, author, text)
		assert.ErrorIs(t, err, ErrEmptyComment)
	}
	assert.Zero(t, b.posts.Load())
	_, ok, _ := ws.Cache.Peek(commentsKey("l1"))
	assert.False(t, ok)
}

func TestThread_RejectsOverlappingSubmit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	b := &fakeBackend{}
	b.onPost = func() {
		close(entered)
		<-release
	}
	ws := setupThread(t, b)
	th := NewThread("l1")

	done := make(chan error, 1)
	go func() {
		_, err := th.Submit(context.Background(), ws, author, "one")
		done <- err
	}()

	<-entered
	assert.Equal(t, StateSubmitting, th.State())
	_, err := th.Submit(context.Background(), ws, author, "two")
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestService_SubmitRequiresSession(t *testing.T) {
	b := &fakeBackend{}
	env := wstest.New(t, b.handler(t))
	svc := NewService(nil, nil, nil)

	_, err := svc.Submit(context.Background(), env.Registry.Anonymous(), "l1", "hi")
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, b.posts.Load())
}

func TestPoller_RefreshesUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(5*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(stopped)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
