package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
)

func TestLoadRepositorySeedFile(t *testing.T) {
	f, err := loadSeedFile(filepath.Join("..", "..", "seeds", "categories.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, f.Categories)
	assert.NotEmpty(t, f.DemoUsers)
	for _, c := range f.Categories {
		assert.NotEmpty(t, c.Name)
	}
}

func TestLoadSeedFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: Soup\n    colour: red\n"), 0o600))

	_, err := loadSeedFile(path)
	assert.Error(t, err)
}

func TestSeedIsRepeatable(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	categories := service.NewCategoryService(db, nil)
	auth := service.NewAuthService(db, nil, "seed-test-secret-0123456789abcdefghij", time.Hour)

	f := &SeedFile{
		Categories: []models.Category{{Name: "Soups & Stews"}, {Name: "Baking"}},
		DemoUsers:  []DemoUser{{Email: "demo@example.com", Password: "demopassword123", Username: "demo_cook", FullName: "Demo Cook"}},
	}

	res, err := seed(ctx, f, categories, auth, true)
	require.NoError(t, err)
	assert.Equal(t, seedResult{Categories: 2, Users: 1}, res)

	res, err = seed(ctx, f, categories, auth, true)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Users)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var profile models.Profile
	require.NoError(t, db.Where("username = ?", "demo_cook").First(&profile).Error)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Demo Cook", *profile.FullName)
}
