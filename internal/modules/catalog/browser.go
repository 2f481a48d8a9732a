package catalog

import (
	"sync"

	"lifelessons/internal/domain"
)

// Browser holds one person's catalog state between requests.
// Changing search, filters or sort keeps the current page.
type Browser struct {
	mu       sync.Mutex
	filter   Filter
	page     int
	pageSize int
}

func NewBrowser(pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Browser{filter: DefaultFilter(), page: 1, pageSize: pageSize}
}

func (b *Browser) SetSearch(s string) {
	b.mu.Lock()
	b.filter.Search = s
	b.mu.Unlock()
}

func (b *Browser) SetCategory(c string) {
	b.mu.Lock()
	b.filter.Category = c
	b.mu.Unlock()
}

func (b *Browser) SetTone(t string) {
	b.mu.Lock()
	b.filter.Tone = t
	b.mu.Unlock()
}

func (b *Browser) SetSort(s string) {
	b.mu.Lock()
	b.filter.Sort = s
	b.mu.Unlock()
}

func (b *Browser) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	b.mu.Lock()
	b.page = p
	b.mu.Unlock()
}

func (b *Browser) State() (Filter, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter, b.page
}

// Result is one rendered catalog page.
type Result struct {
	Filter     Filter   `json:"filter"`
	Items      []Card   `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	Categories []string `json:"categories"`
	Tones      []string `json:"tones"`
}

// View renders the current page of lessons for viewer.
func (b *Browser) View(lessons []domain.Lesson, viewer *domain.User) Result {
	f, page := b.State()

	filtered := Apply(lessons, f)
	categories, tones := Options(lessons)

	return Result{
		Filter:     f,
		Items:      Cards(Paginate(filtered, page, b.pageSize), viewer),
		Page:       page,
		PageSize:   b.pageSize,
		Total:      len(filtered),
		TotalPages: PageCount(len(filtered), b.pageSize),
		Categories: categories,
		Tones:      tones,
	}
}
