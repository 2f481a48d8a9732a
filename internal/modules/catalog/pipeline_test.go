package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelessons/internal/domain"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func lesson(id, title, category, tone string, day, saved int) domain.Lesson {
	return domain.Lesson{
		ID:            id,
		Title:         title,
		Category:      category,
		EmotionalTone: tone,
		Visibility:    domain.VisibilityPublic,
		AccessLevel:   domain.AccessFree,
		SavedCount:    saved,
		CreatedAt:     domain.At(base.AddDate(0, 0, day)),
	}
}

func ids(lessons []domain.Lesson) []string {
	out := make([]string, len(lessons))
	for i, l := range lessons {
		out[i] = l.ID
	}
	return out
}

func sample() []domain.Lesson {
	private := lesson("p", "Private Growth", "Growth", "Calm", 9, 99)
	private.Visibility = domain.VisibilityPrivate
	return []domain.Lesson{
		lesson("a", "Morning Habits", "Growth", "Motivational", 1, 5),
		lesson("b", "Handling Grief", "Mental Health", "Calm", 3, 10),
		private,
		lesson("c", "Small habits, big wins", "Growth", "Calm", 2, 10),
		lesson("d", "Talking to Strangers", "Life Skills", "Practical", 4, 0),
	}
}

func TestApply_NeverShowsPrivate(t *testing.T) {
	for _, sort := range []string{SortNewest, SortMostSaved, "weird"} {
		got := Apply(sample(), Filter{Category: All, Tone: All, Sort: sort})
		assert.NotContains(t, ids(got), "p")
		assert.Len(t, got, 4)
	}
}

func TestApply_FiltersAreConjunctive(t *testing.T) {
	got := Apply(sample(), Filter{Category: "Growth", Tone: "Calm", Search: "HABITS"})
	assert.Equal(t, []string{"c"}, ids(got))

	got = Apply(sample(), Filter{Category: "Growth", Tone: All})
	assert.ElementsMatch(t, []string{"a", "c"}, ids(got))

	got = Apply(sample(), Filter{Category: All, Tone: All, Search: "nothing matches"})
	assert.Empty(t, got)
}

func TestApply_SortNewest(t *testing.T) {
	got := Apply(sample(), Filter{Category: All, Tone: All, Sort: SortNewest})
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(got))
}

func TestApply_SortNewestPutsUndatedLast(t *testing.T) {
	undated := lesson("x", "No date", "Growth", "Calm", 0, 0)
	undated.CreatedAt = domain.Timestamp{}
	lessons := append([]domain.Lesson{undated}, sample()...)

	got := Apply(lessons, Filter{Category: All, Tone: All, Sort: SortNewest})
	assert.Equal(t, []string{"d", "b", "c", "a", "x"}, ids(got))
}

func TestApply_SortMostSavedIsStable(t *testing.T) {
	got := Apply(sample(), Filter{Category: All, Tone: All, Sort: SortMostSaved})
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(got), "b and c tie and keep input order")
}

func TestApply_UnknownSortKeepsOrder(t *testing.T) {
	got := Apply(sample(), Filter{Category: All, Tone: All, Sort: "Alphabetical"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := sample()
	Apply(in, Filter{Sort: SortNewest})
	assert.Equal(t, []string{"a", "b", "p", "c", "d"}, ids(in))
}

func TestPaginate_ConcatenationReproducesInput(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 16, 17} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var in []domain.Lesson
			for i := range n {
				in = append(in, lesson(fmt.Sprint(i), "t", "c", "t", i, 0))
			}

			pages := PageCount(n, DefaultPageSize)
			assert.Equal(t, (n+7)/8, pages)

			var joined []domain.Lesson
			for p := 1; p <= pages; p++ {
				page := Paginate(in, p, DefaultPageSize)
				assert.LessOrEqual(t, len(page), DefaultPageSize)
				joined = append(joined, page...)
			}
			assert.Equal(t, ids(in), ids(joined))
			assert.Empty(t, Paginate(in, pages+1, DefaultPageSize))
		})
	}
}

func TestPaginate_InvalidPage(t *testing.T) {
	assert.Empty(t, Paginate(sample(), 0, 8))
	assert.Empty(t, Paginate(sample(), -1, 8))
}

func TestOptions(t *testing.T) {
	cats, tones := Options(sample())
	require.NotEmpty(t, cats)
	assert.Equal(t, []string{All, "Growth", "Mental Health", "Life Skills"}, cats)
	assert.Equal(t, []string{All, "Motivational", "Calm", "Practical"}, tones)

	cats, tones = Options(nil)
	assert.Equal(t, []string{All}, cats)
	assert.Equal(t, []string{All}, tones)
}

func TestRelated(t *testing.T) {
	var in []domain.Lesson
	for i := range 9 {
		in = append(in, lesson(fmt.Sprint(i), "t", "c", "t", i, 0))
	}

	got := Related(in, "2", 6)
	assert.Equal(t, []string{"0", "1", "3", "4", "5", "6"}, ids(got))
	assert.Empty(t, Related([]domain.Lesson{lesson("x", "", "", "", 0, 0)}, "x", 6))
}
