package services

import (
	"testing"

	"healsyAPI/internal/challenge"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func catalogEntry(title, description string, cat challenge.Category, diff challenge.Difficulty, premium bool) *challenge.Challenge {
	return &challenge.Challenge{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Category:    cat,
		Difficulty:  diff,
		IsPremium:   premium,
	}
}

func testCatalog() []*challenge.Challenge {
	return []*challenge.Challenge{
		catalogEntry("Morning Yoga Flow", "Ten minutes of yoga after waking up", challenge.CategoryBody, challenge.DifficultyEasy, false),
		catalogEntry("Hydration Reset", "Drink eight glasses of water daily", challenge.CategoryHydration, challenge.DifficultyEasy, false),
		catalogEntry("Deep Sleep Protocol", "No screens an hour before bed", challenge.CategorySleep, challenge.DifficultyMedium, true),
		catalogEntry("Glow Up", "A skincare routine with evening yoga stretches", challenge.CategorySkin, challenge.DifficultyHard, true),
	}
}

func TestFilterChallenges_QueryMatchesTitleAndDescription(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{
		Query:      "yoga",
		Category:   "all",
		Difficulty: "all",
	})

	// "yoga" appears in one title and one description.
	assert.Len(t, got, 2)
	assert.Equal(t, "Morning Yoga Flow", got[0].Title)
	assert.Equal(t, "Glow Up", got[1].Title)
}

func TestFilterChallenges_QueryIsCaseInsensitive(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{Query: "YOGA"})
	assert.Len(t, got, 2)
}

func TestFilterChallenges_AllSentinelDisablesFilters(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{
		Category:   "all",
		Difficulty: "all",
	})
	assert.Len(t, got, 4)
}

func TestFilterChallenges_CategoryExactMatch(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{Category: "sleep"})

	assert.Len(t, got, 1)
	assert.Equal(t, "Deep Sleep Protocol", got[0].Title)
}

func TestFilterChallenges_DifficultyExactMatch(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{Difficulty: "easy"})

	assert.Len(t, got, 2)
}

func TestFilterChallenges_PremiumOnly(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{PremiumOnly: true})

	assert.Len(t, got, 2)
	for _, c := range got {
		assert.True(t, c.IsPremium)
	}
}

func TestFilterChallenges_CombinedFilters(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{
		Query:       "yoga",
		Category:    "skin",
		Difficulty:  "hard",
		PremiumOnly: true,
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "Glow Up", got[0].Title)
}

func TestFilterChallenges_PreservesInputOrder(t *testing.T) {
	catalog := testCatalog()
	got := FilterChallenges(catalog, challenge.CatalogFilter{})

	assert.Len(t, got, len(catalog))
	for i := range got {
		assert.Equal(t, catalog[i].Title, got[i].Title)
	}
}

func TestFilterChallenges_NoMatches(t *testing.T) {
	got := FilterChallenges(testCatalog(), challenge.CatalogFilter{Query: "pilates"})
	assert.Empty(t, got)
}
