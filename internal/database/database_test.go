package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		Environment: config.Test,
		DBDriver:    config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "app.db"),
	}

	db, err := database.New(cfg)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, ""))

	for _, table := range []string{"users", "profiles", "recipes", "ingredients", "instructions",
		"categories", "recipe_categories", "recipe_images", "likes", "saved_recipes", "comments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := database.New(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestDeletingRecipeCascadesToChildren(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	owner := testhelpers.CreateProfile(t, db, "owner")
	fan := testhelpers.CreateProfile(t, db, "fan")
	cat := testhelpers.CreateCategory(t, db, "Dinner", "dinner")
	recipe := testhelpers.InsertRecipe(t, db, owner.ID, testhelpers.RecipeFixture{Title: "Stew", Categories: []uuid.UUID{cat.ID}})

	require.NoError(t, db.Create(&models.Ingredient{RecipeID: recipe.ID, Name: "beef", Position: 1}).Error)
	require.NoError(t, db.Create(&models.Instruction{RecipeID: recipe.ID, StepNumber: 1, Description: "simmer"}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.SavedRecipe{UserID: fan.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: fan.ID, RecipeID: recipe.ID, Content: "yum"}).Error)
	require.NoError(t, db.Create(&models.RecipeImage{RecipeID: recipe.ID, ImageURL: "https://img/1.jpg"}).Error)

	require.NoError(t, db.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error)

	for _, m := range []interface{}{&models.Ingredient{}, &models.Instruction{}, &models.RecipeCategory{},
		&models.Like{}, &models.SavedRecipe{}, &models.Comment{}, &models.RecipeImage{}} {
		var n int64
		require.NoError(t, db.Model(m).Where("recipe_id = ?", recipe.ID).Count(&n).Error)
		assert.Zero(t, n, "%T rows left behind", m)
	}

	var cats int64
	db.Model(&models.Category{}).Count(&cats)
	assert.Equal(t, int64(1), cats, "categories are not owned by the recipe")
}

func TestPendingFilesSortsAndSkipsRollbacks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "rollback"), 0o755))

	files, err := database.PendingFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, files)
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := database.PendingFiles(testhelpers.MigrationsDir())
	require.NoError(t, err)
	assert.Contains(t, files, "0001_init.sql")
}
