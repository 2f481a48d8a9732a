package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelessons/internal/domain"
	"lifelessons/internal/session"
)

type countingMinter struct {
	mu sync.Mutex
	n  int
}

func (m *countingMinter) MintIdentityToken(sess *session.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("tok-%s-%d", sess.UID(), m.n), nil
}

type recordingLimiter struct {
	keys []string
}

func (l *recordingLimiter) Wait(_ context.Context, key string) error {
	l.keys = append(l.keys, key)
	return nil
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New(session.Identity{UID: "u1", Email: "reader@example.com"}, time.Hour, time.Now())
	require.NoError(t, err)
	return s
}

func newTestClient(t *testing.T, h http.Handler, sess *session.Session, opts ...Option) (*Client, *countingMinter) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	minter := &countingMinter{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{BaseURL: srv.URL + "/"}, sess, minter, logger, opts...), minter
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_AttachesFreshTokenPerRequest(t *testing.T) {
	var (
		mu      sync.Mutex
		headers []string
	)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = append(headers, r.Header.Get("Authorization"))
		mu.Unlock()
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, []domain.Lesson{})
	})

	client, minter := newTestClient(t, h, testSession(t))
	ctx := context.Background()

	_, err := client.Lessons(ctx)
	require.NoError(t, err)
	_, err = client.Lessons(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, minter.n)
	assert.Equal(t, []string{"Bearer tok-u1-1", "Bearer tok-u1-2"}, headers)
}

func TestClient_AnonymousOmitsAuthorization(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []domain.Lesson{{ID: "l1"}})
	})

	client, minter := newTestClient(t, h, nil)

	lessons, err := client.FeaturedLessons(context.Background())
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
	assert.Zero(t, minter.n)
}

func TestClient_UsesLimiterKey(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Favorite{})
	})

	lim := &recordingLimiter{}
	sess := testSession(t)
	client, _ := newTestClient(t, h, sess, WithLimiter(lim))
	anon, _ := newTestClient(t, h, nil, WithLimiter(lim))

	_, err := client.Favorites(context.Background())
	require.NoError(t, err)
	_, err = anon.Favorites(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{sess.ID(), "anonymous"}, lim.keys)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, body: map[string]string{"message": "User not found"}, want: ErrNotFound},
		{name: "conflict status", status: http.StatusConflict, body: map[string]string{"message": "dup"}, want: ErrConflict},
		{name: "already favorited message", status: http.StatusBadRequest, body: map[string]string{"message": "Already favorited"}, want: ErrConflict},
		{name: "unauthorized", status: http.StatusUnauthorized, body: map[string]string{"message": "no"}, want: ErrUnauthorized},
		{name: "server", status: http.StatusBadGateway, body: "boom", want: ErrServer},
		{name: "bad request", status: http.StatusBadRequest, body: map[string]string{"error": "missing"}, want: ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			client, _ := newTestClient(t, h, testSession(t))

			err := client.CreateFavorite(context.Background(), domain.Favorite{UserID: "u", LessonID: "l"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestClient_ConflictCarriesMessage(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Already favorited"})
	})
	client, _ := newTestClient(t, h, testSession(t))

	err := client.CreateFavorite(context.Background(), domain.Favorite{UserID: "u", LessonID: "l"})
	assert.Equal(t, "Already favorited", MessageOf(err))
}

func TestClient_InvalidBodyIsNotSent(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	client, _ := newTestClient(t, h, testSession(t))

	err := client.CreateFavorite(context.Background(), domain.Favorite{LessonID: "l"})
	assert.ErrorIs(t, err, ErrInvalidBody)
	assert.Contains(t, err.Error(), "UserID=required")

	err = client.ReportLesson(context.Background(), domain.LessonReport{LessonID: "l", ReporterEmail: "a@x.io"})
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestClient_LessonEmptyBodyIsNotFound(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lessons/abc", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("null"))
	})
	client, _ := newTestClient(t, h, testSession(t))

	_, err := client.Lesson(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UsersAcceptsObjectOrArray(t *testing.T) {
	var single atomic.Bool
	single.Store(true)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if single.Load() {
			writeJSON(w, http.StatusOK, domain.User{ID: "u1", Email: "a@x.io"})
			return
		}
		writeJSON(w, http.StatusOK, []domain.User{{ID: "u1"}, {ID: "u2"}})
	})
	client, _ := newTestClient(t, h, testSession(t))

	users, err := client.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@x.io", users[0].Email)

	single.Store(false)
	users, err = client.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestClient_CreateUserReadsOps(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in domain.User
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "new-id"
		writeJSON(w, http.StatusCreated, map[string]any{"result": map[string]any{"ops": []domain.User{in}}})
	})
	client, _ := newTestClient(t, h, testSession(t))

	u, err := client.CreateUser(context.Background(), domain.User{Email: "a@x.io", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "new-id", u.ID)
	assert.Equal(t, "a@x.io", u.Email)
}

func TestClient_CreateUserFallsBackToInsertedID(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"insertedId": "ins-1"})
	})
	client, _ := newTestClient(t, h, testSession(t))

	u, err := client.CreateUser(context.Background(), domain.User{Email: "a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "ins-1", u.ID)
	assert.Equal(t, "a@x.io", u.Email)
}

func TestClient_QueryParameters(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lessons":
			assert.Equal(t, "Career", r.URL.Query().Get("category"))
			assert.Equal(t, "Calm", r.URL.Query().Get("emotionalTone"))
			writeJSON(w, http.StatusOK, []domain.Lesson{})
		case "/comments":
			assert.Equal(t, "l 1", r.URL.Query().Get("lessonId"))
			writeJSON(w, http.StatusOK, []domain.Comment{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	client, _ := newTestClient(t, h, testSession(t))

	_, err := client.LessonsByCategoryTone(context.Background(), "Career", "Calm")
	require.NoError(t, err)
	_, err = client.Comments(context.Background(), "l 1")
	require.NoError(t, err)
}

func TestClient_LoginRequiresUser(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	client, _ := newTestClient(t, h, nil)

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@x.io", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmptyBody)
}
