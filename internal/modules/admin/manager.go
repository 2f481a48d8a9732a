package admin

import (
	"slices"
	"strings"
	"sync"

	"lifelessons/internal/domain"
)

// Manager is the admin's local copy of the user list. Rows change only after
// the backend confirmed the action; every row can have at most one action in
// flight.
type Manager struct {
	protected string

	mu     sync.Mutex
	users  []domain.User
	loaded bool
	busy   map[string]struct{}
}

func NewManager(protectedEmail string) *Manager {
	return &Manager{
		protected: strings.ToLower(strings.TrimSpace(protectedEmail)),
		busy:      make(map[string]struct{}),
	}
}

// Replace swaps the whole snapshot.
func (m *Manager) Replace(users []domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = slices.Clone(users)
	m.loaded = true
}

func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Users returns a copy of the snapshot.
func (m *Manager) Users() []domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.users)
}

func (m *Manager) Busy(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.busy[id]
	return ok
}

// Protected reports whether email belongs to the account no one may touch.
func (m *Manager) Protected(email string) bool {
	return m.protected != "" && strings.EqualFold(strings.TrimSpace(email), m.protected)
}

// begin marks row id busy and returns its current value.
func (m *Manager) begin(id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return domain.User{}, ErrUserNotFound
	}
	u := m.users[i]
	if m.Protected(u.Email) {
		return u, ErrProtectedAccount
	}
	if _, ok := m.busy[id]; ok {
		return u, ErrRowBusy
	}
	m.busy[id] = struct{}{}
	return u, nil
}

func (m *Manager) end(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.busy, id)
}

func (m *Manager) setRole(id string, role domain.UserRole) (domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return domain.User{}, false
	}
	m.users[i].Role = role
	return m.users[i], true
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		m.users = slices.Delete(m.users, i, i+1)
	}
}

func (m *Manager) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(m.users, func(u domain.User) bool { return u.ID == id })
}
