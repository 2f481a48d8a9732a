package auth

import (
	"context"

	"lifelessons/internal/pkg/idtoken"
	"lifelessons/internal/session"
	"lifelessons/internal/workspace"
)

// SessionStore persists signed-in sessions.
type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenIssuer hands out the session token a portal client keeps.
type TokenIssuer interface {
	GenerateToken(sess *session.Session) (string, error)
}

// Workspaces is the slice of the workspace registry auth needs.
type Workspaces interface {
	Get(sess *session.Session) *workspace.Workspace
	Anonymous() *workspace.Workspace
	Drop(sessionID string)
}

// IDTokenVerifier checks a Google sign-in ID token and returns the identity
// it proves.
type IDTokenVerifier interface {
	Verify(ctx context.Context, raw string) (*idtoken.Claims, error)
}
