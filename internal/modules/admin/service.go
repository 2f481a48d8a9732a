package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

const managerSlot = "admin.manager"

type Service struct {
	protected string
	logger    *slog.Logger
}

func NewService(protectedEmail string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{protected: protectedEmail, logger: logger}
}

// Manager returns the per-session manager, creating it on first use.
func (s *Service) Manager(ws *workspace.Workspace) *Manager {
	return workspace.SlotOf(ws, managerSlot, func() *Manager { return NewManager(s.protected) })
}

// Users returns the manager snapshot, loading it on first use or when
// refresh is set.
func (s *Service) Users(ctx context.Context, ws *workspace.Workspace, refresh bool) ([]domain.User, error) {
	if ws.Anonymous() {
		return nil, ErrNotSignedIn
	}
	m := s.Manager(ws)
	if m.Loaded() && !refresh {
		return m.Users(), nil
	}

	key := cache.NewKey(cache.KindUsers)
	if refresh {
		ws.Cache.Invalidate(key)
	}
	users, err := cache.Fetch(ctx, ws.Cache, key, ws.API.Users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	m.Replace(users)
	return m.Users(), nil
}

// ToggleRole flips user id between user and admin.
func (s *Service) ToggleRole(ctx context.Context, ws *workspace.Workspace, id string) (*domain.User, error) {
	m, err := s.loaded(ctx, ws)
	if err != nil {
		return nil, err
	}

	current, err := m.begin(id)
	if err != nil {
		if errors.Is(err, ErrProtectedAccount) {
			ws.Notices.Error(MsgRoleProtected)
		}
		return nil, err
	}
	defer m.end(id)

	newRole := current.Role.Toggled()
	updated, err := ws.API.PatchUser(ctx, id, map[string]any{"role": newRole})
	if err != nil {
		s.logger.Error("update user role failed", "user_id", id, "role", newRole, "error", err)
		ws.Notices.Error(MsgRoleFailed)
		return nil, err
	}

	role := updated.Role
	if role == "" {
		role = newRole
	}
	row, ok := m.setRole(id, role)
	if !ok {
		return nil, ErrUserNotFound
	}
	ws.Cache.Invalidate(cache.NewKey(cache.KindUsers))

	s.logger.Info("user role updated", "user_id", id, "role", role)
	ws.Notices.Success(MsgRoleUpdated + string(newRole))
	return &row, nil
}

// Delete removes user id from the backend and then from the snapshot.
func (s *Service) Delete(ctx context.Context, ws *workspace.Workspace, id string) error {
	m, err := s.loaded(ctx, ws)
	if err != nil {
		return err
	}

	if _, err := m.begin(id); err != nil {
		if errors.Is(err, ErrProtectedAccount) {
			ws.Notices.Error(MsgDeleteProtected)
		}
		return err
	}
	defer m.end(id)

	if err := ws.API.DeleteUser(ctx, id); err != nil {
		s.logger.Error("delete user failed", "user_id", id, "error", err)
		ws.Notices.Error(MsgDeleteFailed)
		return err
	}

	m.remove(id)
	ws.Cache.Invalidate(cache.NewKey(cache.KindUsers))

	s.logger.Info("user deleted", "user_id", id)
	ws.Notices.Success(MsgDeleted)
	return nil
}

func (s *Service) loaded(ctx context.Context, ws *workspace.Workspace) (*Manager, error) {
	m := s.Manager(ws)
	if !m.Loaded() {
		if _, err := s.Users(ctx, ws, false); err != nil {
			return nil, err
		}
	}
	return m, nil
}
