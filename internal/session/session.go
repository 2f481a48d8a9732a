// Package session holds the explicit signed-in identity that is threaded into
// the upstream client and the resolvers. A Session is created at sign-in,
// removed at sign-out and never mutated in between.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionExists   = errors.New("session already exists")
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Identity is what the identity provider knows about a signed-in person.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Provider    Provider
}

// Session is read-only to consumers.
type Session struct {
	id        string
	identity  Identity
	createdAt time.Time
	expiresAt time.Time
}

// New creates a session for identity valid for ttl starting at now.
func New(identity Identity, ttl time.Duration, now time.Time) (*Session, error) {
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	if identity.Email == "" {
		return nil, ErrInvalidIdentity
	}
	if identity.UID == "" {
		identity.UID = identity.Email
	}
	return &Session{
		id:        uuid.NewString(),
		identity:  identity,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}, nil
}

// Restore rebuilds a session loaded from storage.
func Restore(id string, identity Identity, createdAt, expiresAt time.Time) *Session {
	return &Session{id: id, identity: identity, createdAt: createdAt, expiresAt: expiresAt}
}

func (s *Session) ID() string { return s.id }
func (s *Session) Identity() Identity { return s.identity }
func (s *Session) UID() string { return s.identity.UID }
func (s *Session) Email() string { return s.identity.Email }
func (s *Session) DisplayName() string { return s.identity.DisplayName }
func (s *Session) PhotoURL() string { return s.identity.PhotoURL }
func (s *Session) Provider() Provider { return s.identity.Provider }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }
func (s *Session) Expired(now time.Time) bool { return !now.Before(s.expiresAt) }
