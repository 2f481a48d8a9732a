package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"lifelessons/internal/apiclient"
	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

// Service resolves the signed-in person to their backend user record.
type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, now: time.Now}
}

func userKey(email string) cache.Key { return cache.NewKey(cache.KindUser, email) }

func lessonsKey(email string) cache.Key { return cache.NewKey(cache.KindMyLessons, email) }

// Resolve returns the user record of the signed-in person, provisioning it on
// first sign-in. Only a not-found lookup leads to provisioning; any other
// failure is returned as is.
func (s *Service) Resolve(ctx context.Context, ws *workspace.Workspace) (*domain.User, error) {
	if ws.Anonymous() {
		return nil, ErrNotSignedIn
	}
	email := ws.Email()

	return cache.Fetch(ctx, ws.Cache, userKey(email), func(ctx context.Context) (*domain.User, error) {
		u, err := ws.API.UserByEmail(ctx, email)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, apiclient.ErrNotFound) {
			return nil, fmt.Errorf("lookup user %s: %w", email, err)
		}

		sess := ws.Session
		created, err := ws.API.CreateUser(ctx, domain.User{
			Email:     email,
			UserName:  sess.DisplayName(),
			UserImage: sess.PhotoURL(),
			Role:      domain.RoleUser,
			IsPremium: false,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("provision user %s: %w", email, err)
		}
		s.logger.Info("user provisioned", "email", email, "user_id", created.ID)
		return created, nil
	})
}

// Viewer is Resolve for gating decisions: signed-out requests and failed
// lookups yield nil, which callers treat as a non-premium viewer.
func (s *Service) Viewer(ctx context.Context, ws *workspace.Workspace) *domain.User {
	if ws.Anonymous() {
		return nil
	}
	u, err := s.Resolve(ctx, ws)
	if err != nil {
		s.logger.Warn("resolve viewer failed", "email", ws.Email(), "error", err)
		return nil
	}
	return u
}

// Lessons returns the lessons authored by the signed-in person.
func (s *Service) Lessons(ctx context.Context, ws *workspace.Workspace) ([]domain.Lesson, error) {
	if ws.Anonymous() {
		return nil, ErrNotSignedIn
	}
	email := ws.Email()
	return cache.Fetch(ctx, ws.Cache, lessonsKey(email), func(ctx context.Context) ([]domain.Lesson, error) {
		return ws.API.LessonsByEmail(ctx, email)
	})
}

// Profile is the dashboard summary of one person.
type Profile struct {
	User           *domain.User    `json:"user"`
	TotalLessons   int             `json:"totalLessons"`
	TotalLikes     int             `json:"totalLikes"`
	TotalFavorites int             `json:"totalFavorites"`
	TotalViews     int             `json:"totalViews"`
	Lessons        []domain.Lesson `json:"lessons"`
}

// BuildProfile sums the engagement counters of lessons and orders them newest
// first. lessons is not modified.
func BuildProfile(u *domain.User, lessons []domain.Lesson) Profile {
	p := Profile{User: u, TotalLessons: len(lessons)}
	for _, l := range lessons {
		p.TotalLikes += l.LikesCount
		p.TotalFavorites += l.FavoritesCount
		p.TotalViews += l.ViewsCount
	}
	p.Lessons = slices.Clone(lessons)
	if p.Lessons == nil {
		p.Lessons = []domain.Lesson{}
	}
	slices.SortStableFunc(p.Lessons, func(a, b domain.Lesson) int {
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	})
	return p
}

func (s *Service) Profile(ctx context.Context, ws *workspace.Workspace) (*Profile, error) {
	u, err := s.Resolve(ctx, ws)
	if err != nil {
		return nil, err
	}
	lessons, err := s.Lessons(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	p := BuildProfile(u, lessons)
	return &p, nil
}

// UpdateName renames the signed-in person.
func (s *Service) UpdateName(ctx context.Context, ws *workspace.Workspace, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	u, err := s.patch(ctx, ws, map[string]any{"userName": name}, func(u *domain.User) { u.UserName = name })
	if err != nil {
		ws.Notices.Error("Failed to update name")
		return nil, err
	}
	ws.Notices.Success("Name updated successfully!")
	return u, nil
}

// UpdatePhoto replaces the avatar. photo is a URL or a data URI.
func (s *Service) UpdatePhoto(ctx context.Context, ws *workspace.Workspace, photo string) (*domain.User, error) {
	photo = strings.TrimSpace(photo)
	if photo == "" {
		return nil, ErrEmptyPhoto
	}
	u, err := s.patch(ctx, ws, map[string]any{"userImage": photo}, func(u *domain.User) { u.UserImage = photo })
	if err != nil {
		ws.Notices.Error("Failed to update photo")
		return nil, err
	}
	ws.Notices.Success("Photo updated successfully!")
	return u, nil
}

func (s *Service) patch(ctx context.Context, ws *workspace.Workspace, fields map[string]any, apply func(*domain.User)) (*domain.User, error) {
	current, err := s.Resolve(ctx, ws)
	if err != nil {
		return nil, err
	}
	if current.ID == "" {
		return nil, ErrNoUserID
	}

	if _, err := ws.API.PatchUser(ctx, current.ID, fields); err != nil {
		s.logger.Error("patch user failed", "user_id", current.ID, "error", err)
		return nil, fmt.Errorf("patch user %s: %w", current.ID, err)
	}

	updated := *current
	apply(&updated)
	updated.UpdatedAt = s.now().UTC()
	ws.Cache.Set(userKey(ws.Email()), &updated)
	return &updated, nil
}
