package favorite

import (
	"time"

	"lifelessons/internal/domain"
)

// FavoriteResponse — одна запись избранного
type FavoriteResponse struct {
	ID        string       `json:"id"`
	LessonID  string       `json:"lesson_id"`
	Lesson    *LessonBrief `json:"lesson,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// LessonBrief — краткая информация об уроке для списка избранного
type LessonBrief struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Tone        string `json:"tone"`
	Image       string `json:"image"`
	Description string `json:"description,omitempty"`
}

// FavoriteListResponse — ответ со списком избранного
type FavoriteListResponse struct {
	Favorites  []FavoriteResponse `json:"favorites"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalPages int                `json:"total_pages"`
}

// MostSavedResponse — топ сохранённых уроков
type MostSavedResponse struct {
	Lessons []domain.SavedLesson `json:"lessons"`
}

func ToFavoriteResponse(f *domain.Favorite) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        f.ID,
		LessonID:  f.LessonID,
		CreatedAt: f.CreatedAt.Time,
	}
	if f.LessonTitle != "" {
		resp.Lesson = &LessonBrief{
			Title:       f.LessonTitle,
			Category:    f.LessonCategory,
			Tone:        f.LessonTone,
			Image:       f.LessonImage,
			Description: f.LessonDescription,
		}
	}
	return resp
}

// ToFavoriteListResponse режет уже загруженный список на страницу
func ToFavoriteListResponse(favorites []domain.Favorite, page, perPage int) FavoriteListResponse {
	total := len(favorites)
	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	items := make([]FavoriteResponse, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, ToFavoriteResponse(&favorites[i]))
	}

	return FavoriteListResponse{
		Favorites:  items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
