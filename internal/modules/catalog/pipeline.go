package catalog

import (
	"slices"
	"strings"

	"lifelessons/internal/domain"
)

const (
	All           = "All"
	SortNewest    = "Newest"
	SortMostSaved = "Most Saved"

	DefaultPageSize = 8
)

// Filter — состояние поиска/фильтров/сортировки каталога
type Filter struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Tone     string `json:"tone"`
	Sort     string `json:"sort"`
}

// DefaultFilter matches every public lesson, newest first.
func DefaultFilter() Filter {
	return Filter{Category: All, Tone: All, Sort: SortNewest}
}

// Apply runs the catalog pipeline: drop private lessons, keep those matching
// category, tone and title search, then sort. Unknown sort keys leave the
// filtered order untouched. The input slice is not modified.
func Apply(lessons []domain.Lesson, f Filter) []domain.Lesson {
	search := strings.ToLower(f.Search)

	out := make([]domain.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.IsPrivate() {
			continue
		}
		if !matches(f.Category, l.Category) || !matches(f.Tone, l.EmotionalTone) {
			continue
		}
		if !strings.Contains(strings.ToLower(l.Title), search) {
			continue
		}
		out = append(out, l)
	}

	switch f.Sort {
	case SortNewest:
		slices.SortStableFunc(out, func(a, b domain.Lesson) int {
			return b.CreatedAt.Compare(a.CreatedAt.Time)
		})
	case SortMostSaved:
		slices.SortStableFunc(out, func(a, b domain.Lesson) int {
			return b.SavedCount - a.SavedCount
		})
	}
	return out
}

// пустое значение тоже считаем "All"
func matches(want, got string) bool {
	return want == "" || want == All || want == got
}

// PageCount is ceil(n/size).
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page of lessons. Pages outside 1..PageCount
// are empty.
func Paginate(lessons []domain.Lesson, page, size int) []domain.Lesson {
	if page < 1 || size <= 0 {
		return []domain.Lesson{}
	}
	start := (page - 1) * size
	if start >= len(lessons) {
		return []domain.Lesson{}
	}
	end := min(start+size, len(lessons))
	return lessons[start:end]
}

// Options returns "All" followed by the distinct categories and tones of
// lessons, in first-seen order.
func Options(lessons []domain.Lesson) (categories, tones []string) {
	categories = []string{All}
	tones = []string{All}
	seenCat := map[string]bool{}
	seenTone := map[string]bool{}
	for _, l := range lessons {
		if !seenCat[l.Category] {
			seenCat[l.Category] = true
			categories = append(categories, l.Category)
		}
		if !seenTone[l.EmotionalTone] {
			seenTone[l.EmotionalTone] = true
			tones = append(tones, l.EmotionalTone)
		}
	}
	return categories, tones
}
