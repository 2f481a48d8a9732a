package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lifelessons/internal/apiclient"
	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

// UserResolver maps a workspace to its backend user record.
type UserResolver interface {
	Resolve(ctx context.Context, ws *workspace.Workspace) (*domain.User, error)
}

// LessonLoader loads a lesson through the workspace cache.
type LessonLoader interface {
	Lesson(ctx context.Context, ws *workspace.Workspace, id string) (*domain.Lesson, error)
}

type Service struct {
	users   UserResolver
	lessons LessonLoader
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(users UserResolver, lessons LessonLoader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, lessons: lessons, logger: logger, now: time.Now}
}

func viewSlot(lessonID string) string { return "lesson.view:" + lessonID }

// view returns the engagement state of ws on lessonID, synced with the
// lesson's current like/favorite lists.
func (s *Service) view(ctx context.Context, ws *workspace.Workspace, lessonID string) (*View, *domain.Lesson, *domain.User, error) {
	if ws.Anonymous() {
		return nil, nil, nil, ErrNotSignedIn
	}
	u, err := s.users.Resolve(ctx, ws)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve user: %w", err)
	}
	l, err := s.lessons.Lesson(ctx, ws, lessonID)
	if err != nil {
		return nil, nil, nil, err
	}

	v := workspace.SlotOf(ws, viewSlot(lessonID), func() *View { return &View{} })
	v.Sync(l, u.ID)
	return v, l, u, nil
}

// State returns the like/favorite flags of the signed-in person.
func (s *Service) State(ctx context.Context, ws *workspace.Workspace, lessonID string) (ViewState, error) {
	v, _, _, err := s.view(ctx, ws, lessonID)
	if err != nil {
		return ViewState{}, err
	}
	liked, favorited := v.State()
	return ViewState{LessonID: lessonID, Liked: liked, Favorited: favorited}, nil
}

// Like likes the lesson once. A repeated like is rejected without a call.
func (s *Service) Like(ctx context.Context, ws *workspace.Workspace, lessonID string) (ViewState, error) {
	v, l, _, err := s.view(ctx, ws, lessonID)
	if err != nil {
		return ViewState{}, err
	}
	if err := v.begin(func() error {
		if v.liked {
			return ErrAlreadyLiked
		}
		return nil
	}); err != nil {
		return ViewState{}, err
	}

	if err := ws.API.LikeLesson(ctx, l.ID); err != nil {
		v.end(nil)
		s.logger.Error("like lesson failed", "lesson_id", l.ID, "error", err)
		ws.Notices.Error(MsgLikeFailed)
		return ViewState{}, err
	}

	v.end(func() { v.liked = true })
	ws.Cache.Invalidate(cache.NewKey(cache.KindLesson, l.ID))
	ws.Notices.Success(MsgLiked)
	return s.state(v, l.ID), nil
}

// Favorite saves the lesson, then bumps its favorite counter. The flag stays
// false on any failure and is never cleared once set.
func (s *Service) Favorite(ctx context.Context, ws *workspace.Workspace, lessonID string) (ViewState, error) {
	v, l, u, err := s.view(ctx, ws, lessonID)
	if err != nil {
		return ViewState{}, err
	}
	if err := v.begin(func() error {
		if v.favorited {
			return ErrAlreadyFavorited
		}
		return nil
	}); err != nil {
		return ViewState{}, err
	}

	err = ws.API.CreateFavorite(ctx, domain.Favorite{
		UserID:            u.ID,
		LessonID:          l.ID,
		LessonTitle:       l.Title,
		LessonCategory:    l.Category,
		LessonTone:        l.EmotionalTone,
		LessonImage:       l.UserImage,
		LessonDescription: l.Description,
		CreatedAt:         domain.At(s.now().UTC()),
	})
	if err == nil {
		err = ws.API.FavoriteLesson(ctx, l.ID)
	}
	if err != nil {
		v.end(nil)
		if errors.Is(err, apiclient.ErrConflict) {
			ws.Notices.Error(MsgAlreadyFavorited)
		} else {
			s.logger.Error("favorite lesson failed", "lesson_id", l.ID, "error", err)
			ws.Notices.Error(MsgFavoriteFailed)
		}
		return ViewState{}, err
	}

	v.end(func() { v.favorited = true })
	ws.Cache.Invalidate(cache.NewKey(cache.KindLesson, l.ID))
	ws.Cache.InvalidateKind(cache.KindFavorites)
	ws.Notices.Success(MsgFavorited)
	return s.state(v, l.ID), nil
}

// Report files a report with one of the fixed reasons.
func (s *Service) Report(ctx context.Context, ws *workspace.Workspace, lessonID, reason string) error {
	if !domain.IsReportReason(reason) {
		return ErrInvalidReason
	}
	_, l, u, err := s.view(ctx, ws, lessonID)
	if err != nil {
		return err
	}

	err = ws.API.ReportLesson(ctx, domain.LessonReport{
		LessonID:         l.ID,
		LessonTitle:      l.Title,
		ReporterUserID:   u.ID,
		ReporterEmail:    u.Email,
		ReporterUserName: u.UserName,
		Reason:           []string{reason},
		Timestamp:        s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("report lesson failed", "lesson_id", l.ID, "error", err)
		ws.Notices.Error(MsgReportFailed)
		return err
	}
	s.logger.Info("lesson reported", "lesson_id", l.ID, "reason", reason)
	ws.Notices.Success(MsgReported)
	return nil
}

func (s *Service) state(v *View, lessonID string) ViewState {
	liked, favorited := v.State()
	return ViewState{LessonID: lessonID, Liked: liked, Favorited: favorited}
}
