package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/pkg/jwt"
	"lifelessons/internal/pkg/response"
	"lifelessons/internal/session"
	"lifelessons/internal/workspace"
)

var (
	ErrAuthHeaderMissing = errors.New("authorization header is required")
	ErrInvalidAuthFormat = errors.New("authorization header must be 'Bearer <token>'")
	ErrInvalidToken      = errors.New("invalid token")
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type SessionLookup interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Workspaces is the part of the workspace registry the middleware needs.
type Workspaces interface {
	Get(sess *session.Session) *workspace.Workspace
	Anonymous() *workspace.Workspace
	Drop(sessionID string)
}

// SessionAuth turns a session token into the request's workspace.
type SessionAuth struct {
	tokens     TokenValidator
	sessions   SessionLookup
	workspaces Workspaces
	now        func() time.Time
}

func NewSessionAuth(tokens TokenValidator, sessions SessionLookup, workspaces Workspaces) *SessionAuth {
	return &SessionAuth{tokens: tokens, sessions: sessions, workspaces: workspaces, now: time.Now}
}

// WorkspaceForToken validates token and returns the workspace of its session.
func (a *SessionAuth) WorkspaceForToken(ctx context.Context, token string) (*workspace.Workspace, error) {
	claims, err := a.tokens.ValidateToken(token)
	if err != nil || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	sess, err := a.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			a.workspaces.Drop(claims.SessionID)
		}
		return nil, err
	}
	if sess.Expired(a.now()) {
		a.workspaces.Drop(sess.ID())
		return nil, session.ErrSessionExpired
	}
	return a.workspaces.Get(sess), nil
}

// Required rejects requests without a live session.
func (a *SessionAuth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortAuth(c, err)
			return
		}

		ws, err := a.WorkspaceForToken(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, err)
			return
		}

		attach(c, ws)
		c.Next()
	}
}

// Optional attaches the session's workspace when the request carries a valid
// token and the shared anonymous workspace otherwise.
func (a *SessionAuth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c); err == nil {
			if ws, err := a.WorkspaceForToken(c.Request.Context(), token); err == nil {
				attach(c, ws)
				c.Next()
				return
			}
		}
		workspace.Set(c, a.workspaces.Anonymous())
		c.Next()
	}
}

func attach(c *gin.Context, ws *workspace.Workspace) {
	workspace.Set(c, ws)
	c.Set("session_id", ws.Session.ID())
	c.Set("email", ws.Session.Email())
}

func bearerToken(c *gin.Context) (string, error) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return "", ErrAuthHeaderMissing
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidAuthFormat
	}
	return strings.TrimSpace(parts[1]), nil
}

func abortAuth(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAuthHeaderMissing):
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
	case errors.Is(err, ErrInvalidAuthFormat):
		response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
	case errors.Is(err, ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
	case errors.Is(err, session.ErrSessionNotFound):
		response.Error(c, http.StatusUnauthorized, "SESSION_NOT_FOUND", "Session is closed")
	case errors.Is(err, session.ErrSessionExpired):
		response.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "SESSION_LOOKUP_FAILED", "Failed to load session")
	}
	c.Abort()
}
