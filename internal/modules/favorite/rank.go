package favorite

import (
	"slices"

	"lifelessons/internal/domain"
)

const (
	PlaceholderImage = "https://via.placeholder.com/400x200"
	MostSavedLimit   = 3
)

// fallbackLessons показываются, когда в коллекции избранного ничего нет.
var fallbackLessons = []domain.SavedLesson{
	{
		LessonID:   "static-1",
		Title:      "Building Daily Habits That Stick",
		Category:   "Self Growth",
		Tone:       "Motivational",
		Image:      "https://images.unsplash.com/photo-1506784983877-45594efa4cbe",
		SavedCount: 120,
	},
	{
		LessonID:   "static-2",
		Title:      "Managing Stress in a Fast-Paced World",
		Category:   "Mental Health",
		Tone:       "Calm",
		Image:      "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee",
		SavedCount: 98,
	},
	{
		LessonID:   "static-3",
		Title:      "Effective Communication for Real Life",
		Category:   "Life Skills",
		Tone:       "Practical",
		Image:      "https://images.unsplash.com/photo-1517245386807-bb43f82c33c4",
		SavedCount: 75,
	},
}

// Fallback returns a copy of the static most-saved list.
func Fallback() []domain.SavedLesson {
	return slices.Clone(fallbackLessons)
}

// Rank groups favorites by lesson. The first record seen for a lesson
// supplies its display fields; the count is the number of records in the
// group, duplicates included. Ties keep first-appearance order.
func Rank(favs []domain.Favorite) []domain.SavedLesson {
	index := make(map[string]int, len(favs))
	out := make([]domain.SavedLesson, 0, len(favs))

	for _, f := range favs {
		if i, ok := index[f.LessonID]; ok {
			out[i].SavedCount++
			continue
		}
		image := f.LessonImage
		if image == "" {
			image = PlaceholderImage
		}
		index[f.LessonID] = len(out)
		out = append(out, domain.SavedLesson{
			LessonID:   f.LessonID,
			Title:      f.LessonTitle,
			Category:   f.LessonCategory,
			Tone:       f.LessonTone,
			Image:      image,
			SavedCount: 1,
		})
	}

	slices.SortStableFunc(out, func(a, b domain.SavedLesson) int {
		return b.SavedCount - a.SavedCount
	})
	return out
}

// MostSaved returns the top n of Rank(favs), or the fallback list when favs
// is empty.
func MostSaved(favs []domain.Favorite, n int) []domain.SavedLesson {
	if len(favs) == 0 {
		return Fallback()[:min(n, len(fallbackLessons))]
	}
	ranked := Rank(favs)
	return ranked[:min(n, len(ranked))]
}
