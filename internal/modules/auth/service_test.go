package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/pkg/idtoken"
	"lifelessons/internal/pkg/jwt"
	"lifelessons/internal/session"
	"lifelessons/internal/workspace/wstest"
)

// Mock session store
type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Create(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubVerifier accepts exactly one raw token.
type stubVerifier struct {
	valid  string
	claims idtoken.Claims
}

func (v stubVerifier) Verify(_ context.Context, raw string) (*idtoken.Claims, error) {
	if raw != v.valid {
		return nil, idtoken.ErrInvalidToken
	}
	c := v.claims
	return &c, nil
}

var ginaToken = stubVerifier{
	valid:  "signed-by-google",
	claims: idtoken.Claims{UID: "g-uid", Email: "gina@example.com"},
}

type capture struct {
	mu   sync.Mutex
	body map[string]any
}

func (c *capture) set(v map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = v
}

func (c *capture) get() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body
}

func upstream(t *testing.T, seen *capture) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "secret" {
			wstest.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid password"})
			return
		}
		wstest.JSON(w, http.StatusOK, map[string]any{"user": domain.User{
			ID: "u1", Email: req["email"], UserName: "Ann", Role: domain.RoleUser,
		}})
	})
	mux.HandleFunc("POST /users/google", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		seen.set(body)
		wstest.JSON(w, http.StatusOK, map[string]any{"user": map[string]any{
			"_id": "g1", "email": body["email"], "name": body["name"], "role": "user",
		}})
	})
	return mux
}

func newTestService(t *testing.T, store SessionStore) (*Service, *wstest.Env, *jwt.Service) {
	env := wstest.New(t, upstream(t, &capture{}))
	tokens := jwt.New("test-secret", time.Hour)
	return NewService(store, tokens, env.Registry, ginaToken, time.Hour, nil), env, tokens
}

func TestLogin_Success(t *testing.T) {
	store := &mockSessionStore{}
	store.On("Create", mock.Anything, mock.MatchedBy(func(s *session.Session) bool {
		return s.Email() == "ann@example.com" && s.Provider() == session.ProviderPassword
	})).Return(nil)
	svc, env, tokens := newTestService(t, store)

	res, err := svc.Login(context.Background(), " Ann@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ann", res.Session.DisplayName())
	assert.Equal(t, "u1", res.User.ID)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID(), claims.SessionID)

	ws := env.Registry.Get(res.Session)
	cached, ok := cache.Value[*domain.User](ws.Cache, cache.NewKey(cache.KindUser, "ann@example.com"))
	require.True(t, ok, "login seeds the user resolver")
	assert.Equal(t, "u1", cached.ID)
	assert.Equal(t, 1, env.Registry.Len())
	store.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	store := &mockSessionStore{}
	svc, env, _ := newTestService(t, store)

	_, err := svc.Login(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Zero(t, env.Registry.Len())
}

func TestLogin_PersistFailure(t *testing.T) {
	store := &mockSessionStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	svc, env, _ := newTestService(t, store)

	_, err := svc.Login(context.Background(), "ann@example.com", "secret")
	require.Error(t, err)
	assert.Zero(t, env.Registry.Len())
}

func TestGoogle_SendsVerifiedProfile(t *testing.T) {
	seen := &capture{}
	env := wstest.New(t, upstream(t, seen))
	store := &mockSessionStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(store, jwt.New("test-secret", time.Hour), env.Registry, ginaToken, time.Hour, nil)

	res, err := svc.Google(context.Background(), GoogleRequest{IDToken: "signed-by-google"})
	require.NoError(t, err)

	body := seen.get()
	assert.Equal(t, "g-uid", body["uid"])
	assert.Equal(t, "gina@example.com", body["email"])
	assert.Equal(t, "No Name", body["name"])
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, "free", body["plan"])
	assert.Equal(t, false, body["isPremium"])

	assert.Equal(t, session.ProviderGoogle, res.Session.Provider())
	assert.Equal(t, "g-uid", res.Session.UID())
	assert.Equal(t, "g1", res.User.ID)
}

func TestGoogle_RejectsUnverifiedToken(t *testing.T) {
	seen := &capture{}
	env := wstest.New(t, upstream(t, seen))
	store := &mockSessionStore{}
	svc := NewService(store, jwt.New("test-secret", time.Hour), env.Registry, ginaToken, time.Hour, nil)

	_, err := svc.Google(context.Background(), GoogleRequest{IDToken: "forged"})
	assert.ErrorIs(t, err, ErrInvalidIDToken)
	assert.Nil(t, seen.get(), "backend is never told about an unverified sign-in")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Zero(t, env.Registry.Len())
}

func TestGoogle_DisabledWithoutVerifier(t *testing.T) {
	env := wstest.New(t, upstream(t, &capture{}))
	store := &mockSessionStore{}
	svc := NewService(store, jwt.New("test-secret", time.Hour), env.Registry, nil, time.Hour, nil)

	_, err := svc.Google(context.Background(), GoogleRequest{IDToken: "signed-by-google"})
	assert.ErrorIs(t, err, ErrGoogleDisabled)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogout_DropsWorkspace(t *testing.T) {
	store := &mockSessionStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc, env, _ := newTestService(t, store)

	res, err := svc.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	ws := env.Registry.Get(res.Session)

	store.On("Delete", mock.Anything, res.Session.ID()).Return(nil)
	require.NoError(t, svc.Logout(context.Background(), res.Session.ID()))

	assert.Zero(t, env.Registry.Len())
	select {
	case <-ws.Context().Done():
	default:
		t.Fatal("workspace context still live after logout")
	}
	assert.ErrorIs(t, svc.Logout(context.Background(), ""), ErrUnauthorized)
}

func TestHandler_LoginValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &mockSessionStore{}
	svc, _, _ := newTestService(t, store)
	r := gin.New()
	NewHandler(svc).RegisterPublicRoutes(r.Group("/api/v1"))

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing password", body: `{"email":"ann@example.com"}`, want: http.StatusBadRequest},
		{name: "bad email", body: `{"email":"nope","password":"x"}`, want: http.StatusBadRequest},
		{name: "wrong password", body: `{"email":"ann@example.com","password":"x"}`, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandler_GoogleNeedsVerifiedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &mockSessionStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc, _, _ := newTestService(t, store)
	r := gin.New()
	NewHandler(svc).RegisterPublicRoutes(r.Group("/api/v1"))

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "bare profile", body: `{"uid":"anything","email":"admin@gmail.com"}`, want: http.StatusBadRequest},
		{name: "made-up token", body: `{"idToken":"made-up"}`, want: http.StatusUnauthorized},
		{name: "verified token", body: `{"idToken":"signed-by-google"}`, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/google", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
