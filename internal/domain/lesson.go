package domain

import (
	"math"
	"slices"
	"strings"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

type AccessLevel string

const (
	AccessFree    AccessLevel = "Free"
	AccessPremium AccessLevel = "Premium"
)

const wordsPerMinute = 200

// Lesson is a piece of user-authored content.
// A Private lesson never shows up in public listings; a Premium lesson's body
// is withheld from non-premium viewers.
type Lesson struct {
	ID              string      `json:"_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	EmotionalTone   string      `json:"emotionalTone"`
	Visibility      Visibility  `json:"visibility"`
	AccessLevel     AccessLevel `json:"accessLevel"`
	UserImage       string      `json:"userImage,omitempty"`
	CreatorName     string      `json:"creatorName,omitempty"`
	CreatorEmail    string      `json:"creatorEmail,omitempty"`
	CreatorPhotoURL string      `json:"creatorPhotoURL,omitempty"`
	Likes           []string    `json:"likes,omitempty"`
	Favorites       []string    `json:"favorites,omitempty"`
	LikesCount      int         `json:"likesCount,omitempty"`
	FavoritesCount  int         `json:"favoritesCount,omitempty"`
	ViewsCount      int         `json:"viewsCount,omitempty"`
	SavedCount      int         `json:"savedCount,omitempty"`
	ReadingTime     int         `json:"readingTime,omitempty"`
	CreatedAt       Timestamp   `json:"createdAt"`
	UpdatedAt       Timestamp   `json:"updatedAt"`
}

func (l *Lesson) IsPrivate() bool { return l.Visibility == VisibilityPrivate }

func (l *Lesson) IsPremium() bool { return l.AccessLevel == AccessPremium }

// LockedFor reports whether the lesson must be obscured for the viewer.
// A nil viewer is treated as non-premium.
func (l *Lesson) LockedFor(viewer *User) bool {
	if !l.IsPremium() {
		return false
	}
	return viewer == nil || !viewer.IsPremium
}

// LikedBy reports whether userID is in the lesson's like list.
func (l *Lesson) LikedBy(userID string) bool {
	return userID != "" && slices.Contains(l.Likes, userID)
}

// FavoritedBy reports whether userID is in the lesson's favorites list.
func (l *Lesson) FavoritedBy(userID string) bool {
	return userID != "" && slices.Contains(l.Favorites, userID)
}

// MinutesToRead returns the stored reading time or estimates it at 200 wpm,
// never less than a minute.
func (l *Lesson) MinutesToRead() int {
	if l.ReadingTime > 0 {
		return l.ReadingTime
	}
	words := len(strings.Fields(l.Description))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}
