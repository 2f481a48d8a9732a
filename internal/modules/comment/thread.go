package comment

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateConfirmed
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "idle"
	}
}

func commentsKey(lessonID string) cache.Key { return cache.NewKey(cache.KindComments, lessonID) }

// Thread is the comment list of one lesson as one person sees it, with at
// most one optimistic submission at a time.
type Thread struct {
	lessonID string
	newID    func() string
	now      func() time.Time

	mu    sync.Mutex
	state State
}

func NewThread(lessonID string) *Thread {
	return &Thread{
		lessonID: lessonID,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (t *Thread) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Submit shows the comment immediately, then asks the backend to store it.
// On success the list is reloaded from the backend. On failure the list is
// put back exactly as it was before the submission and one error notice is
// emitted. Blank text is rejected before anything changes.
func (t *Thread) Submit(ctx context.Context, ws *workspace.Workspace, author *domain.User, text string) ([]domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	t.mu.Lock()
	if t.state == StateSubmitting {
		t.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	t.state = StateSubmitting
	t.mu.Unlock()

	key := commentsKey(t.lessonID)
	snapshot, hadSnapshot := cache.Value[[]domain.Comment](ws.Cache, key)

	c := domain.Comment{
		LessonID:    t.lessonID,
		UserID:      author.ID,
		UserName:    author.UserName,
		UserImage:   author.UserImage,
		CommentText: text,
		CreatedAt:   domain.At(t.now().UTC()),
	}
	optimistic := c
	optimistic.ID = t.newID()
	optimistic.Pending = true
	ws.Cache.Set(key, append(slices.Clone(snapshot), optimistic))

	if err := ws.API.CreateComment(ctx, c); err != nil {
		if hadSnapshot {
			ws.Cache.Set(key, snapshot)
		} else {
			ws.Cache.Delete(key)
			ws.Cache.Invalidate(key)
		}
		ws.Notices.Error(MsgSubmitFailed)
		t.finish(StateRolledBack)
		return nil, err
	}

	t.finish(StateConfirmed)
	ws.Cache.Invalidate(key)
	list, err := Load(ctx, ws, t.lessonID)
	if err != nil {
		// комментарий уже сохранён, отдаём то, что есть в кеше
		list, _ = cache.Value[[]domain.Comment](ws.Cache, key)
	}
	return list, nil
}

func (t *Thread) finish(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Load returns the comments of lessonID through the workspace cache.
func Load(ctx context.Context, ws *workspace.Workspace, lessonID string) ([]domain.Comment, error) {
	return cache.Fetch(ctx, ws.Cache, commentsKey(lessonID), func(ctx context.Context) ([]domain.Comment, error) {
		return ws.API.Comments(ctx, lessonID)
	})
}

// Refresh reloads the comments of lessonID from the backend unconditionally.
func Refresh(ctx context.Context, ws *workspace.Workspace, lessonID string) ([]domain.Comment, error) {
	list, err := ws.API.Comments(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	ws.Cache.Set(commentsKey(lessonID), list)
	return list, nil
}
