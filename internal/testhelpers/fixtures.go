package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/models"
)

// CreateProfile inserts a user and its profile and returns the profile.
func CreateProfile(t *testing.T, db *gorm.DB, username string) *models.Profile {
	t.Helper()
	id := uuid.New()
	user := &models.User{ID: id, Email: username + "@example.com", PasswordHash: "not-a-real-hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	profile := &models.Profile{ID: id, Username: username}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: slug}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return c
}

// RecipeFixture describes a recipe row inserted directly, bypassing the service.
type RecipeFixture struct {
	Title       string
	Description string
	CookTime    *int
	Difficulty  string
	Status      string
	CreatedAt   time.Time
	Categories  []uuid.UUID
}

// InsertRecipe writes a recipe row plus category links. Timestamps are explicit
// so ordering tests are deterministic.
func InsertRecipe(t *testing.T, db *gorm.DB, ownerID uuid.UUID, f RecipeFixture) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		UserID:     ownerID,
		Title:      f.Title,
		CookTime:   f.CookTime,
		Difficulty: f.Difficulty,
		Status:     f.Status,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.CreatedAt,
	}
	if f.Description != "" {
		r.Description = &f.Description
	}
	if r.Difficulty == "" {
		r.Difficulty = models.DifficultyEasy
	}
	if r.Status == "" {
		r.Status = models.StatusPublished
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
		r.UpdatedAt = r.CreatedAt
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to insert recipe: %v", err)
	}
	for _, cid := range f.Categories {
		if err := db.Create(&models.RecipeCategory{RecipeID: r.ID, CategoryID: cid}).Error; err != nil {
			t.Fatalf("failed to link category: %v", err)
		}
	}
	return r
}

func IntPtr(v int) *int { return &v }

func StrPtr(v string) *string { return &v }
