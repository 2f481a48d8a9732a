package catalog

import (
	"time"

	"lifelessons/internal/domain"
)

const (
	UpgradeRoute      = "/dashboard/pricing"
	DetailRoutePrefix = "/public-lessons-details/"
)

// Card — урок в списке. Закрытые карточки ведут на страницу оплаты.
type Card struct {
	ID            string             `json:"_id"`
	Title         string             `json:"title"`
	Category      string             `json:"category"`
	EmotionalTone string             `json:"emotionalTone"`
	AccessLevel   domain.AccessLevel `json:"accessLevel"`
	Image         string             `json:"userImage,omitempty"`
	CreatorName   string             `json:"creatorName,omitempty"`
	SavedCount    int                `json:"savedCount"`
	CreatedAt     time.Time          `json:"createdAt"`
	Locked        bool               `json:"locked"`
	Route         string             `json:"route"`
}

func NewCard(l domain.Lesson, viewer *domain.User) Card {
	locked := l.LockedFor(viewer)
	route := DetailRoutePrefix + l.ID
	if locked {
		route = UpgradeRoute
	}
	return Card{
		ID:            l.ID,
		Title:         l.Title,
		Category:      l.Category,
		EmotionalTone: l.EmotionalTone,
		AccessLevel:   l.AccessLevel,
		Image:         l.UserImage,
		CreatorName:   l.CreatorName,
		SavedCount:    l.SavedCount,
		CreatedAt:     l.CreatedAt.Time,
		Locked:        locked,
		Route:         route,
	}
}

func Cards(lessons []domain.Lesson, viewer *domain.User) []Card {
	out := make([]Card, len(lessons))
	for i, l := range lessons {
		out[i] = NewCard(l, viewer)
	}
	return out
}

// Detail is a lesson page. For locked lessons the body is withheld.
type Detail struct {
	Lesson         domain.Lesson `json:"lesson"`
	Locked         bool          `json:"locked"`
	UpgradeRoute   string        `json:"upgradeRoute,omitempty"`
	ReadingMinutes int           `json:"readingMinutes"`
	LikedByMe      bool          `json:"likedByMe"`
	FavoritedByMe  bool          `json:"favoritedByMe"`
}

func NewDetail(l domain.Lesson, viewer *domain.User) Detail {
	d := Detail{
		Lesson:         l,
		Locked:         l.LockedFor(viewer),
		ReadingMinutes: l.MinutesToRead(),
	}
	if viewer != nil {
		d.LikedByMe = l.LikedBy(viewer.ID)
		d.FavoritedByMe = l.FavoritedBy(viewer.ID)
	}
	if d.Locked {
		d.Lesson.Description = ""
		d.UpgradeRoute = UpgradeRoute
	}
	return d
}
