package favorite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelessons/internal/domain"
)

func fav(lessonID, title, image string) domain.Favorite {
	return domain.Favorite{LessonID: lessonID, LessonTitle: title, LessonImage: image}
}

func TestRank_GroupsAndSortsByCount(t *testing.T) {
	favs := []domain.Favorite{
		fav("a", "A first", "a.png"),
		fav("b", "B", ""),
		fav("a", "A second", "other.png"),
		fav("c", "C", "c.png"),
		fav("b", "B", ""),
		fav("a", "A third", ""),
	}

	got := Rank(favs)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].LessonID)
	assert.Equal(t, 3, got[0].SavedCount)
	assert.Equal(t, "A first", got[0].Title, "first record is the representative")
	assert.Equal(t, "a.png", got[0].Image)

	assert.Equal(t, "b", got[1].LessonID)
	assert.Equal(t, 2, got[1].SavedCount)
	assert.Equal(t, PlaceholderImage, got[1].Image)

	assert.Equal(t, "c", got[2].LessonID)
	assert.Equal(t, 1, got[2].SavedCount)
}

func TestRank_CountsSumToInput(t *testing.T) {
	favs := []domain.Favorite{fav("x", "", ""), fav("y", "", ""), fav("x", "", ""), fav("z", "", ""), fav("y", "", "")}

	total := 0
	seen := map[string]bool{}
	for _, s := range Rank(favs) {
		assert.False(t, seen[s.LessonID], "lesson %s listed twice", s.LessonID)
		seen[s.LessonID] = true
		total += s.SavedCount
	}
	assert.Equal(t, len(favs), total)
}

func TestRank_TiesKeepFirstAppearance(t *testing.T) {
	favs := []domain.Favorite{fav("p", "", ""), fav("q", "", ""), fav("r", "", ""), fav("r", "", ""), fav("q", "", ""), fav("p", "", "")}

	got := Rank(favs)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"p", "q", "r"}, []string{got[0].LessonID, got[1].LessonID, got[2].LessonID})
}

func TestRank_DuplicateUserSavesCountTwice(t *testing.T) {
	favs := []domain.Favorite{
		{UserID: "u1", LessonID: "l1"},
		{UserID: "u1", LessonID: "l1"},
	}

	got := Rank(favs)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].SavedCount)
}

func TestMostSaved_TopN(t *testing.T) {
	favs := []domain.Favorite{
		fav("a", "", ""), fav("b", "", ""), fav("b", "", ""), fav("c", "", ""),
		fav("d", "", ""), fav("d", "", ""), fav("d", "", ""),
	}

	got := MostSaved(favs, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].LessonID)
	assert.Equal(t, "b", got[1].LessonID)
	assert.Equal(t, "a", got[2].LessonID)
}

func TestMostSaved_EmptyUsesFallback(t *testing.T) {
	got := MostSaved(nil, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "Building Daily Habits That Stick", got[0].Title)
	assert.Equal(t, 120, got[0].SavedCount)
	assert.Equal(t, "Managing Stress in a Fast-Paced World", got[1].Title)
	assert.Equal(t, 98, got[1].SavedCount)
	assert.Equal(t, "Effective Communication for Real Life", got[2].Title)
	assert.Equal(t, 75, got[2].SavedCount)

	got[0].Title = "mutated"
	assert.Equal(t, "Building Daily Habits That Stick", Fallback()[0].Title)
}
