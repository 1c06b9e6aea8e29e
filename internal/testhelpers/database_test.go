package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/models"
)

func TestDatabaseSetup(t *testing.T) {
	db := NewTestDB(t)
	require.NotNil(t, db)

	owner := CreateProfile(t, db, "fixture_cook")
	soup := CreateCategory(t, db, "Soup", "soup")
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	recipe := InsertRecipe(t, db, owner.ID, RecipeFixture{
		Title:      "Leek Soup",
		CookTime:   IntPtr(25),
		CreatedAt:  created,
		Categories: []uuid.UUID{soup.ID},
	})

	var loaded models.Recipe
	require.NoError(t, db.Preload("RecipeCategories").First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, "Leek Soup", loaded.Title)
	assert.Equal(t, models.DifficultyEasy, loaded.Difficulty)
	assert.Equal(t, models.StatusPublished, loaded.Status)
	assert.True(t, loaded.CreatedAt.Equal(created))
	require.Len(t, loaded.RecipeCategories, 1)
	assert.Equal(t, soup.ID, loaded.RecipeCategories[0].CategoryID)
}

func TestNewTestDBIsIsolated(t *testing.T) {
	a := NewTestDB(t)
	CreateProfile(t, a, "only_in_a")

	b := NewTestDB(t)
	var n int64
	require.NoError(t, b.Model(&models.Profile{}).Count(&n).Error)
	assert.Zero(t, n)
}
