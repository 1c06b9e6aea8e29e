package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// EngagementService records likes and saves.
type EngagementService struct {
	db *gorm.DB
}

var _ IEngagementService = (*EngagementService)(nil)

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

func (s *EngagementService) ToggleLike(ctx context.Context, userID, recipeID uuid.UUID, current types.ToggleState) (types.ToggleState, error) {
	return OptimisticToggle(ctx, current, func(ctx context.Context, active bool) error {
		return s.setPair(ctx, userID, recipeID, &models.Like{UserID: userID, RecipeID: recipeID}, active)
	})
}

func (s *EngagementService) ToggleSave(ctx context.Context, userID, recipeID uuid.UUID, current types.ToggleState) (types.ToggleState, error) {
	return OptimisticToggle(ctx, current, func(ctx context.Context, active bool) error {
		return s.setPair(ctx, userID, recipeID, &models.SavedRecipe{UserID: userID, RecipeID: recipeID}, active)
	})
}

// setPair inserts or removes a (user, recipe) row. Inserting a row that
// already exists and removing one that does not are both successes. Only
// recipes the user can see may be liked or saved.
func (s *EngagementService) setPair(ctx context.Context, userID, recipeID uuid.UUID, row interface{}, active bool) error {
	db := s.db.WithContext(ctx)
	if !active {
		if err := db.Where(row).Delete(row).Error; err != nil {
			return storeError("remove engagement", err)
		}
		return nil
	}

	if err := visibleRecipe(db, recipeID, userID); err != nil {
		return err
	}
	err := storeError("add engagement", db.Create(row).Error)
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	if err != nil {
		log.Printf("[EngagementService] insert failed: %v", err)
	}
	return err
}

// LikeCount returns the number of likes on a recipe.
func (s *EngagementService) LikeCount(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	return countPairs(s.db.WithContext(ctx), &models.Like{}, nil, recipeID)
}

func (s *EngagementService) IsLiked(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return hasPair(s.db.WithContext(ctx), &models.Like{}, userID, recipeID)
}

func (s *EngagementService) IsSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return hasPair(s.db.WithContext(ctx), &models.SavedRecipe{}, userID, recipeID)
}

// ListSavedRecipes returns the user's saved recipes, most recently saved first.
// Drafts saved before they were unpublished are hidden unless the user owns them.
func (s *EngagementService) ListSavedRecipes(ctx context.Context, userID uuid.UUID) ([]types.RecipeSummary, error) {
	var saves []models.SavedRecipe
	err := s.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Recipe.Author").
		Preload("Recipe.Images").
		Preload("Recipe.RecipeCategories.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saves).Error
	if err != nil {
		return nil, storeError("list saved recipes", err)
	}

	out := make([]types.RecipeSummary, 0, len(saves))
	for _, save := range saves {
		r := save.Recipe
		if r == nil || (r.Status != models.StatusPublished && r.UserID != userID) {
			continue
		}
		out = append(out, types.NewRecipeSummary(r))
	}
	return out, nil
}

// visibleRecipe returns NotFound for a missing recipe and for a draft the
// requester does not own, matching what GetRecipe shows.
func visibleRecipe(db *gorm.DB, recipeID, requesterID uuid.UUID) error {
	var r models.Recipe
	err := db.Select("id", "user_id", "status").First(&r, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("recipe")
	}
	if err != nil {
		return storeError("load recipe", err)
	}
	if r.Status != models.StatusPublished && r.UserID != requesterID {
		return apperr.NotFound("recipe")
	}
	return nil
}

func countPairs(db *gorm.DB, model interface{}, userID *uuid.UUID, recipeID uuid.UUID) (int64, error) {
	q := db.Model(model).Where("recipe_id = ?", recipeID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, storeError("count engagement", err)
	}
	return n, nil
}

func hasPair(db *gorm.DB, model interface{}, userID, recipeID uuid.UUID) (bool, error) {
	n, err := countPairs(db, model, &userID, recipeID)
	return n > 0, err
}
