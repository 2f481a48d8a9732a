package lesson

import (
	"sync"

	"lifelessons/internal/domain"
)

// View is the engagement state of one person on one lesson.
// Flags only ever go from false to true.
type View struct {
	mu        sync.Mutex
	liked     bool
	favorited bool
	busy      bool
}

// ViewState is a snapshot of View.
type ViewState struct {
	LessonID  string `json:"lessonId"`
	Liked     bool   `json:"isLiked"`
	Favorited bool   `json:"isFavorited"`
}

// Sync folds the lesson's like/favorite lists into the flags.
func (v *View) Sync(l *domain.Lesson, userID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.liked = v.liked || l.LikedBy(userID)
	v.favorited = v.favorited || l.FavoritedBy(userID)
}

func (v *View) State() (liked, favorited bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.liked, v.favorited
}

// begin claims the view for one action. check reports the guard error, if any.
func (v *View) begin(check func() error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.busy {
		return ErrActionInFlight
	}
	if err := check(); err != nil {
		return err
	}
	v.busy = true
	return nil
}

func (v *View) end(apply func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if apply != nil {
		apply()
	}
	v.busy = false
}
