// Package idtoken verifies the ID tokens Google sign-in (through Firebase
// Auth) hands to the browser. Only a verified token may open a session.
package idtoken

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

var (
	ErrInvalidToken    = errors.New("invalid id token")
	ErrEmailUnverified = errors.New("id token email is not verified")
)

// Config names the token issuer, the expected audience (the Firebase
// project id) and where the signing keys are published.
type Config struct {
	ProjectID string
	Issuer    string
	JWKSURL   string
}

// Claims is the verified identity carried by a token.
type Claims struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type rawClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// New verifies against the keys published at cfg.JWKSURL. Keys are fetched
// lazily and cached by key id, so nothing is fetched until the first token.
func New(ctx context.Context, cfg Config) *Verifier {
	return NewWithKeySet(cfg, oidc.NewRemoteKeySet(ctx, cfg.JWKSURL), nil)
}

// NewWithKeySet verifies against an explicit key set. A nil now uses the
// wall clock.
func NewWithKeySet(cfg Config, keys oidc.KeySet, now func() time.Time) *Verifier {
	return &Verifier{
		verifier: oidc.NewVerifier(cfg.Issuer, keys, &oidc.Config{
			ClientID:             cfg.ProjectID,
			SupportedSigningAlgs: []string{oidc.RS256},
			Now:                  now,
		}),
	}
}

// Verify checks signature, issuer, audience and expiry of raw and returns
// its identity. Tokens whose email is missing or unverified are rejected.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}

	tok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var rc rawClaims
	if err := tok.Claims(&rc); err != nil {
		return nil, fmt.Errorf("%w: claims: %v", ErrInvalidToken, err)
	}
	if tok.Subject == "" || rc.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidToken)
	}
	if !rc.EmailVerified {
		return nil, ErrEmailUnverified
	}

	return &Claims{
		UID:     tok.Subject,
		Email:   strings.ToLower(strings.TrimSpace(rc.Email)),
		Name:    strings.TrimSpace(rc.Name),
		Picture: rc.Picture,
	}, nil
}
