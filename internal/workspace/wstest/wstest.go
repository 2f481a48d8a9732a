// Package wstest builds workspaces backed by a fake upstream for package
// tests.
package wstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lifelessons/internal/apiclient"
	"lifelessons/internal/session"
	"lifelessons/internal/workspace"
)

type minter struct{}

func (minter) MintIdentityToken(sess *session.Session) (string, error) {
	return "identity-" + sess.Email(), nil
}

// Env is a registry wired to an httptest upstream.
type Env struct {
	Upstream *httptest.Server
	Registry *workspace.Registry
}

// New starts upstream and a registry pointing at it. Both are torn down with t.
func New(t *testing.T, upstream http.Handler) *Env {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	reg := workspace.NewRegistry(workspace.Config{
		API:      apiclient.Config{BaseURL: srv.URL, Timeout: 5 * time.Second},
		CacheTTL: time.Minute,
	}, minter{}, nil)
	return &Env{Upstream: srv, Registry: reg}
}

// SignIn returns the workspace of a fresh password session for email.
func (e *Env) SignIn(t *testing.T, email string) *workspace.Workspace {
	t.Helper()
	return e.SignInAs(t, session.Identity{Email: email, DisplayName: "Test User", Provider: session.ProviderPassword})
}

func (e *Env) SignInAs(t *testing.T, id session.Identity) *workspace.Workspace {
	t.Helper()
	sess, err := session.New(id, time.Hour, time.Now())
	require.NoError(t, err)
	return e.Registry.Get(sess)
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
