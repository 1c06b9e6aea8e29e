package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/pageza/recipeshare/backend/internal/types"
)

func TestSearchMatchesTitleOrDescription(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	base := fixedTime()

	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Chocolate Cake", CreatedAt: base})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Brownies", Description: "Rich CHOCOLATE squares", CreatedAt: base.Add(time.Minute)})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Vanilla Cake", CreatedAt: base.Add(2 * time.Minute)})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Chocolate Draft", Status: models.StatusDraft, CreatedAt: base})

	got, err := svc.SearchRecipes(context.Background(), types.SearchParams{Query: "  chocolate "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Brownies", "Chocolate Cake"}, summaryTitles(got))
}

func TestSearchEmptyResultIsEmptySlice(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Soup"})

	got, err := svc.SearchRecipes(context.Background(), types.SearchParams{Query: "lasagne"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchQuickestPutsMissingCookTimeLast(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	base := fixedTime()

	for i, ct := range []*int{testhelpers.IntPtr(30), nil, testhelpers.IntPtr(10), testhelpers.IntPtr(20)} {
		testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{
			Title:     fmt.Sprintf("Recipe %d", i),
			CookTime:  ct,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got, err := svc.SearchRecipes(context.Background(), types.SearchParams{SortBy: types.SortQuickest})
	require.NoError(t, err)
	require.Len(t, got, 4)

	var times []interface{}
	for _, r := range got {
		if r.CookTime == nil {
			times = append(times, nil)
		} else {
			times = append(times, *r.CookTime)
		}
	}
	assert.Equal(t, []interface{}{10, 20, 30, nil}, times)
}

func TestSearchSortOrders(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	base := fixedTime()
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "First", CreatedAt: base})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Second", CreatedAt: base.Add(time.Hour)})

	newest, err := svc.SearchRecipes(context.Background(), types.SearchParams{SortBy: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First"}, summaryTitles(newest))

	oldest, err := svc.SearchRecipes(context.Background(), types.SearchParams{SortBy: "OLDEST"})
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, summaryTitles(oldest))
}

func TestSearchFiltersDifficulty(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Toast", Difficulty: models.DifficultyEasy})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Souffle", Difficulty: models.DifficultyHard})

	hard, err := svc.SearchRecipes(context.Background(), types.SearchParams{Difficulty: "hard"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Souffle"}, summaryTitles(hard))

	all, err := svc.SearchRecipes(context.Background(), types.SearchParams{Difficulty: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "100% Rye Bread"})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "1000 Layer Cake"})

	got, err := svc.SearchRecipes(context.Background(), types.SearchParams{Query: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Rye Bread"}, summaryTitles(got))
}

func TestSearchCategoryFilterIsAnyOf(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	vegan := testhelpers.CreateCategory(t, db, "Vegan", "vegan")
	dessert := testhelpers.CreateCategory(t, db, "Dessert", "dessert")
	soup := testhelpers.CreateCategory(t, db, "Soup", "soup")
	base := fixedTime()

	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Sorbet", CreatedAt: base, Categories: []uuid.UUID{vegan.ID, dessert.ID}})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Cheesecake", CreatedAt: base.Add(time.Minute), Categories: []uuid.UUID{dessert.ID}})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Minestrone", CreatedAt: base.Add(2 * time.Minute), Categories: []uuid.UUID{soup.ID}})
	testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Plain", CreatedAt: base.Add(3 * time.Minute)})

	got, err := svc.SearchRecipes(context.Background(), types.SearchParams{CategoryIDs: []uuid.UUID{vegan.ID, soup.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Minestrone", "Sorbet"}, summaryTitles(got))

	require.Len(t, got[1].Categories, 2)
	assert.Equal(t, "Dessert", got[1].Categories[0].Name)
	assert.Equal(t, "Vegan", got[1].Categories[1].Name)
}

// Category filtering only sees the first SearchCandidateLimit rows, so older
// matches beyond the cap are not returned.
func TestSearchCategoryFilterOnlySeesCandidateWindow(t *testing.T) {
	svc, db, _ := newRecipeService(t)
	owner := testhelpers.CreateProfile(t, db, "cook")
	baking := testhelpers.CreateCategory(t, db, "Baking", "baking")
	base := fixedTime()

	for i := 0; i < 3; i++ {
		testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{
			Title:      fmt.Sprintf("Old loaf %d", i),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
			Categories: []uuid.UUID{baking.ID},
		})
	}
	for i := 0; i < types.SearchCandidateLimit; i++ {
		testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{
			Title:     fmt.Sprintf("Newer %d", i),
			CreatedAt: base.Add(time.Hour + time.Duration(i)*time.Second),
		})
	}

	got, err := svc.SearchRecipes(context.Background(), types.SearchParams{CategoryIDs: []uuid.UUID{baking.ID}})
	require.NoError(t, err)
	assert.Empty(t, got)

	oldest, err := svc.SearchRecipes(context.Background(), types.SearchParams{SortBy: types.SortOldest, CategoryIDs: []uuid.UUID{baking.ID}})
	require.NoError(t, err)
	assert.Len(t, oldest, 3)
}
