package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

const (
	relatedLimit = 6
	browserSlot  = "catalog.browser"
)

var ErrLessonNotFound = errors.New("lesson not found")

// ViewerResolver returns the viewer used for access gating; nil means a
// non-premium viewer.
type ViewerResolver interface {
	Viewer(ctx context.Context, ws *workspace.Workspace) *domain.User
}

type Service struct {
	viewers  ViewerResolver
	pageSize int
	logger   *slog.Logger
}

func NewService(viewers ViewerResolver, pageSize int, logger *slog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{viewers: viewers, pageSize: pageSize, logger: logger}
}

// Lessons returns every lesson the backend lists, private ones included.
func (s *Service) Lessons(ctx context.Context, ws *workspace.Workspace) ([]domain.Lesson, error) {
	return cache.Fetch(ctx, ws.Cache, cache.NewKey(cache.KindLessons), ws.API.Lessons)
}

// Browser returns the catalog state of ws.
func (s *Service) Browser(ws *workspace.Workspace) *Browser {
	return workspace.SlotOf(ws, browserSlot, func() *Browser { return NewBrowser(s.pageSize) })
}

// Query carries the catalog parameters of one request; nil fields keep the
// stored state.
type Query struct {
	Search   *string
	Category *string
	Tone     *string
	Sort     *string
	Page     *int
}

// Browse applies q to the browser of ws and renders the current page.
func (s *Service) Browse(ctx context.Context, ws *workspace.Workspace, q Query) (*Result, error) {
	b := s.Browser(ws)
	if q.Search != nil {
		b.SetSearch(*q.Search)
	}
	if q.Category != nil {
		b.SetCategory(*q.Category)
	}
	if q.Tone != nil {
		b.SetTone(*q.Tone)
	}
	if q.Sort != nil {
		b.SetSort(*q.Sort)
	}
	if q.Page != nil {
		b.SetPage(*q.Page)
	}

	lessons, err := s.Lessons(ctx, ws)
	if err != nil {
		return nil, err
	}
	res := b.View(lessons, s.viewers.Viewer(ctx, ws))
	return &res, nil
}

// Featured returns the featured lessons as gated cards.
func (s *Service) Featured(ctx context.Context, ws *workspace.Workspace) ([]Card, error) {
	lessons, err := cache.Fetch(ctx, ws.Cache, cache.NewKey(cache.KindFeatured), ws.API.FeaturedLessons)
	if err != nil {
		return nil, err
	}
	return Cards(lessons, s.viewers.Viewer(ctx, ws)), nil
}

// Lesson loads one lesson through the cache.
func (s *Service) Lesson(ctx context.Context, ws *workspace.Workspace, id string) (*domain.Lesson, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrLessonNotFound
	}
	return cache.Fetch(ctx, ws.Cache, cache.NewKey(cache.KindLesson, id), func(ctx context.Context) (*domain.Lesson, error) {
		return ws.API.Lesson(ctx, id)
	})
}

// Detail returns the lesson page for the viewer of ws.
func (s *Service) Detail(ctx context.Context, ws *workspace.Workspace, id string) (*Detail, error) {
	l, err := s.Lesson(ctx, ws, id)
	if err != nil {
		return nil, err
	}
	d := NewDetail(*l, s.viewers.Viewer(ctx, ws))
	return &d, nil
}

// Related returns up to six other lessons sharing category and tone.
func (s *Service) Related(ctx context.Context, ws *workspace.Workspace, id string) ([]Card, error) {
	l, err := s.Lesson(ctx, ws, id)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey(cache.KindRelated, l.Category, l.EmotionalTone)
	candidates, err := cache.Fetch(ctx, ws.Cache, key, func(ctx context.Context) ([]domain.Lesson, error) {
		return ws.API.LessonsByCategoryTone(ctx, l.Category, l.EmotionalTone)
	})
	if err != nil {
		return nil, err
	}

	return Cards(Related(candidates, l.ID, relatedLimit), s.viewers.Viewer(ctx, ws)), nil
}

// Related drops currentID from candidates and keeps at most limit.
func Related(candidates []domain.Lesson, currentID string, limit int) []domain.Lesson {
	out := make([]domain.Lesson, 0, limit)
	for _, c := range candidates {
		if c.ID == currentID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, c)
	}
	return out
}
