package favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

var ErrNotSignedIn = errors.New("not signed in")

// UserResolver maps a workspace to its backend user record.
type UserResolver interface {
	Resolve(ctx context.Context, ws *workspace.Workspace) (*domain.User, error)
}

type Service struct {
	users  UserResolver
	logger *slog.Logger
}

func NewService(users UserResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, logger: logger}
}

// All returns the global favorites collection.
func (s *Service) All(ctx context.Context, ws *workspace.Workspace) ([]domain.Favorite, error) {
	return cache.Fetch(ctx, ws.Cache, cache.NewKey(cache.KindFavorites), ws.API.Favorites)
}

// Mine returns the favorites of the signed-in person.
func (s *Service) Mine(ctx context.Context, ws *workspace.Workspace) ([]domain.Favorite, error) {
	if ws.Anonymous() {
		return nil, ErrNotSignedIn
	}
	u, err := s.users.Resolve(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return cache.Fetch(ctx, ws.Cache, cache.NewKey(cache.KindFavorites, u.ID), func(ctx context.Context) ([]domain.Favorite, error) {
		return ws.API.FavoritesByUser(ctx, u.ID)
	})
}

// MostSaved ranks the global collection. A failed load is logged and treated
// as an empty collection, which yields the static list.
func (s *Service) MostSaved(ctx context.Context, ws *workspace.Workspace) []domain.SavedLesson {
	favs, err := s.All(ctx, ws)
	if err != nil {
		s.logger.Warn("load favorites failed, using fallback", "error", err)
		favs = nil
	}
	return MostSaved(favs, MostSavedLimit)
}
