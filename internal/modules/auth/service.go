package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lifelessons/internal/apiclient"
	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/pkg/idtoken"
	"lifelessons/internal/session"
)

// Service signs people in and out. A sign-in creates a Session, persists it
// and returns the token the client presents on later requests.
type Service struct {
	sessions   SessionStore
	tokens     TokenIssuer
	workspaces Workspaces
	google     IDTokenVerifier
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

type LoginResult struct {
	Session *session.Session
	User    *domain.User
	Token   string
}

// NewService builds the sign-in service. A nil google verifier turns Google
// sign-in off.
func NewService(sessions SessionStore, tokens TokenIssuer, workspaces Workspaces, google IDTokenVerifier, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:   sessions,
		tokens:     tokens,
		workspaces: workspaces,
		google:     google,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// Login checks email/password with the backend.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	api := s.workspaces.Anonymous().API

	u, err := api.Login(ctx, apiclient.LoginRequest{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrNotFound) || errors.Is(err, apiclient.ErrBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	id := session.Identity{
		UID:         u.UID,
		Email:       email,
		DisplayName: u.DisplayName(),
		PhotoURL:    u.Avatar(),
		Provider:    session.ProviderPassword,
	}
	if u.Email != "" {
		id.Email = u.Email
	}
	return s.start(ctx, id, u)
}

// Google verifies the Google ID token and records the sign-in with the
// backend. uid, email, name and photo all come from the verified token.
func (s *Service) Google(ctx context.Context, req GoogleRequest) (*LoginResult, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	claims, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		s.logger.Warn("google sign-in rejected", "error", err)
		if errors.Is(err, idtoken.ErrInvalidToken) || errors.Is(err, idtoken.ErrEmailUnverified) {
			return nil, ErrInvalidIDToken
		}
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	name := claims.Name
	if name == "" {
		name = "No Name"
	}
	now := s.now().UTC()

	u, err := s.workspaces.Anonymous().API.GoogleUser(ctx, domain.User{
		UID:       claims.UID,
		Name:      name,
		Email:     claims.Email,
		PhotoURL:  claims.Picture,
		Role:      domain.RoleUser,
		Plan:      "free",
		IsPremium: false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("google sign-in: %w", err)
	}

	return s.start(ctx, session.Identity{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: name,
		PhotoURL:    claims.Picture,
		Provider:    session.ProviderGoogle,
	}, u)
}

// Logout removes the session and its workspace. Unknown ids are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.workspaces.Drop(sessionID)
	s.logger.Info("session closed", "session_id", sessionID)
	return nil
}

func (s *Service) start(ctx context.Context, id session.Identity, u *domain.User) (*LoginResult, error) {
	sess, err := session.New(id, s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	token, err := s.tokens.GenerateToken(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID())
		return nil, fmt.Errorf("issue token: %w", err)
	}

	// seed the resolver with the record the sign-in returned
	ws := s.workspaces.Get(sess)
	if u != nil && u.ID != "" && strings.EqualFold(u.Email, sess.Email()) {
		ws.Cache.Set(cache.NewKey(cache.KindUser, sess.Email()), u)
	}

	s.logger.Info("session opened", "session_id", sess.ID(), "email", sess.Email(), "provider", sess.Provider())
	return &LoginResult{Session: sess, User: u, Token: token}, nil
}
