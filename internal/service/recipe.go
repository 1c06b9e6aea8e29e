package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// RecipeService owns the recipe aggregate: the recipe row plus its ordered
// ingredients, ordered instructions and category links.
//
// Writes are issued as a sequence of independent statements. A failure part
// way through leaves the rows already written in place; callers see the error
// but no rollback happens.
type RecipeService struct {
	db     *gorm.DB
	images IImageService
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images IImageService) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// recipeFields is the validated, normalised scalar part of a recipe form.
type recipeFields struct {
	Title        string               `json:"title" validate:"required,min=3,max=100"`
	PrepTime     *int                 `json:"prep_time" validate:"omitempty,min=1,max=1440"`
	CookTime     *int                 `json:"cook_time" validate:"omitempty,min=1,max=1440"`
	Servings     *int                 `json:"servings" validate:"omitempty,min=1,max=100"`
	Difficulty   string               `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Status       string               `json:"status" validate:"required,oneof=draft published"`
	Ingredients  []models.Ingredient  `json:"ingredients" validate:"min=1"`
	Instructions []models.Instruction `json:"instructions" validate:"min=1"`
}

type recipeDraft struct {
	recipeFields
	description *string
	categoryIDs []uuid.UUID
}

// buildDraft trims and validates a form. Blank ingredient and instruction rows
// are dropped and the survivors are numbered 1..N by array position. When base
// is non-nil (edit), omitted numeric fields, difficulty and status keep their
// stored values; on create the numeric fields are required.
func buildDraft(req *types.RecipeRequest, base *models.Recipe) (*recipeDraft, error) {
	d := &recipeDraft{
		recipeFields: recipeFields{
			Title:      strings.TrimSpace(req.Title),
			PrepTime:   req.PrepTime,
			CookTime:   req.CookTime,
			Servings:   req.Servings,
			Difficulty: strings.ToLower(strings.TrimSpace(req.Difficulty)),
			Status:     strings.ToLower(strings.TrimSpace(req.Status)),
		},
		description: optionalString(req.Description),
	}

	if base != nil {
		if d.PrepTime == nil {
			d.PrepTime = base.PrepTime
		}
		if d.CookTime == nil {
			d.CookTime = base.CookTime
		}
		if d.Servings == nil {
			d.Servings = base.Servings
		}
		if d.Difficulty == "" {
			d.Difficulty = base.Difficulty
		}
		if d.Status == "" {
			d.Status = base.Status
		}
	} else if d.Status == "" {
		d.Status = models.StatusPublished
	}

	for _, in := range req.Ingredients {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		d.Ingredients = append(d.Ingredients, models.Ingredient{
			Name:     name,
			Quantity: optionalString(in.Quantity),
			Unit:     optionalString(in.Unit),
			Position: len(d.Ingredients) + 1,
		})
	}
	for _, in := range req.Instructions {
		text := strings.TrimSpace(in.Description)
		if text == "" {
			continue
		}
		d.Instructions = append(d.Instructions, models.Instruction{
			StepNumber:  len(d.Instructions) + 1,
			Description: text,
		})
	}

	seen := make(map[uuid.UUID]bool, len(req.CategoryIDs))
	for _, id := range req.CategoryIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		d.categoryIDs = append(d.categoryIDs, id)
	}

	if err := validateStruct(&d.recipeFields); err != nil {
		return nil, err
	}
	if base == nil {
		switch {
		case d.PrepTime == nil:
			return nil, apperr.Validation("prep_time", "is required")
		case d.CookTime == nil:
			return nil, apperr.Validation("cook_time", "is required")
		case d.Servings == nil:
			return nil, apperr.Validation("servings", "is required")
		}
	}
	return d, nil
}

// CreateRecipe inserts the recipe row, then ingredients, then instructions,
// then category links.
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error) {
	draft, err := buildDraft(req, nil)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      ownerID,
		Title:       draft.Title,
		Description: draft.description,
		PrepTime:    draft.PrepTime,
		CookTime:    draft.CookTime,
		Servings:    draft.Servings,
		Difficulty:  draft.Difficulty,
		Status:      draft.Status,
	}

	db := s.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		return nil, storeError("create recipe", err)
	}
	if err := insertChildren(db, recipe.ID, draft); err != nil {
		log.Printf("[RecipeService] recipe %s left incomplete: %v", recipe.ID, err)
		return nil, err
	}

	log.Printf("[RecipeService] user %s created recipe %s", ownerID, recipe.ID)
	return s.GetRecipe(ctx, recipe.ID, &ownerID)
}

// UpdateRecipe replaces the aggregate: the recipe row is updated, every child
// row is deleted and the submitted children are inserted again.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, requesterID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error) {
	existing, err := s.ownedRecipe(ctx, recipeID, requesterID)
	if err != nil {
		return nil, err
	}
	draft, err := buildDraft(req, existing)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	err = db.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
		"title":       draft.Title,
		"description": draft.description,
		"prep_time":   draft.PrepTime,
		"cook_time":   draft.CookTime,
		"servings":    draft.Servings,
		"difficulty":  draft.Difficulty,
		"status":      draft.Status,
	}).Error
	if err != nil {
		return nil, storeError("update recipe", err)
	}

	for _, child := range []interface{}{&models.Ingredient{}, &models.Instruction{}, &models.RecipeCategory{}} {
		if err := db.Where("recipe_id = ?", recipeID).Delete(child).Error; err != nil {
			log.Printf("[RecipeService] recipe %s left incomplete: %v", recipeID, err)
			return nil, storeError("replace recipe children", err)
		}
	}
	if err := insertChildren(db, recipeID, draft); err != nil {
		log.Printf("[RecipeService] recipe %s left incomplete: %v", recipeID, err)
		return nil, err
	}

	log.Printf("[RecipeService] user %s updated recipe %s", requesterID, recipeID)
	return s.GetRecipe(ctx, recipeID, &requesterID)
}

func insertChildren(db *gorm.DB, recipeID uuid.UUID, d *recipeDraft) error {
	for i := range d.Ingredients {
		d.Ingredients[i].RecipeID = recipeID
	}
	if len(d.Ingredients) > 0 {
		if err := db.Create(&d.Ingredients).Error; err != nil {
			return storeError("insert ingredients", err)
		}
	}

	for i := range d.Instructions {
		d.Instructions[i].RecipeID = recipeID
	}
	if len(d.Instructions) > 0 {
		if err := db.Create(&d.Instructions).Error; err != nil {
			return storeError("insert instructions", err)
		}
	}

	if len(d.categoryIDs) > 0 {
		links := make([]models.RecipeCategory, len(d.categoryIDs))
		for i, id := range d.categoryIDs {
			links[i] = models.RecipeCategory{RecipeID: recipeID, CategoryID: id}
		}
		if err := db.Omit(clause.Associations).Create(&links).Error; err != nil {
			return storeError("link categories", err)
		}
	}
	return nil
}

// DeleteRecipe removes the recipe; the store cascades to every child row.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, requesterID uuid.UUID) error {
	if _, err := s.ownedRecipe(ctx, recipeID, requesterID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", recipeID).Error; err != nil {
		return storeError("delete recipe", err)
	}
	log.Printf("[RecipeService] user %s deleted recipe %s", requesterID, recipeID)
	return nil
}

func (s *RecipeService) ownedRecipe(ctx context.Context, recipeID, requesterID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe")
		}
		return nil, storeError("load recipe", err)
	}
	if recipe.UserID != requesterID {
		return nil, apperr.ErrUnauthorized
	}
	return &recipe, nil
}

// GetRecipe loads the full aggregate. Drafts are visible to their owner only.
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*types.RecipeDetail, error) {
	db := s.db.WithContext(ctx)

	var r models.Recipe
	err := db.
		Preload("Author").
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Instructions", func(tx *gorm.DB) *gorm.DB { return tx.Order("step_number ASC") }).
		Preload("RecipeCategories.Category").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("is_primary DESC").Order("created_at ASC") }).
		First(&r, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe")
		}
		return nil, storeError("load recipe", err)
	}

	isOwner := viewerID != nil && *viewerID == r.UserID
	if r.Status != models.StatusPublished && !isOwner {
		return nil, apperr.NotFound("recipe")
	}

	detail := &types.RecipeDetail{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Author:       types.NewAuthorSummary(r.Author),
		Ingredients:  nonNil(r.Ingredients),
		Instructions: nonNil(r.Instructions),
		Categories:   types.CategoriesOf(&r),
		Images:       nonNil(r.Images),
		IsOwner:      isOwner,
	}

	if detail.LikeCount, err = countPairs(db, &models.Like{}, nil, r.ID); err != nil {
		return nil, err
	}
	if viewerID != nil {
		if detail.IsLiked, err = hasPair(db, &models.Like{}, *viewerID, r.ID); err != nil {
			return nil, err
		}
		if detail.IsSaved, err = hasPair(db, &models.SavedRecipe{}, *viewerID, r.ID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// ListRecipes returns one page of published recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, offset, limit int) (*types.RecipePage, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var recipes []models.Recipe
	err := s.summaryQuery(ctx).
		Where("status = ?", models.StatusPublished).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit + 1).
		Find(&recipes).Error
	if err != nil {
		return nil, storeError("list recipes", err)
	}

	page := &types.RecipePage{Offset: offset, Limit: limit}
	if len(recipes) > limit {
		page.HasMore = true
		recipes = recipes[:limit]
	}
	page.Recipes = summaries(recipes)
	return page, nil
}

// ListUserRecipes returns a profile's published recipes, newest first.
func (s *RecipeService) ListUserRecipes(ctx context.Context, username string) ([]types.RecipeSummary, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("profile")
		}
		return nil, storeError("load profile", err)
	}

	var recipes []models.Recipe
	err := s.summaryQuery(ctx).
		Where("user_id = ? AND status = ?", profile.ID, models.StatusPublished).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, storeError("list user recipes", err)
	}
	return summaries(recipes), nil
}

// AddImage uploads an image for the recipe. The first image, or any image
// flagged primary, becomes the single primary image.
func (s *RecipeService) AddImage(ctx context.Context, recipeID, requesterID uuid.UUID, contentType string, file io.Reader, primary bool) (*models.RecipeImage, error) {
	if _, err := s.ownedRecipe(ctx, recipeID, requesterID); err != nil {
		return nil, err
	}
	url, err := s.images.UploadRecipeImage(ctx, recipeID, contentType, file)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.RecipeImage{}).Where("recipe_id = ?", recipeID).Count(&existing).Error; err != nil {
		return nil, storeError("count images", err)
	}

	img := &models.RecipeImage{RecipeID: recipeID, ImageURL: url, IsPrimary: primary || existing == 0}
	if img.IsPrimary && existing > 0 {
		if err := db.Model(&models.RecipeImage{}).Where("recipe_id = ?", recipeID).Update("is_primary", false).Error; err != nil {
			return nil, storeError("reset primary image", err)
		}
	}
	if err := db.Create(img).Error; err != nil {
		return nil, storeError("save image", err)
	}
	return img, nil
}

func (s *RecipeService) summaryQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Images").
		Preload("RecipeCategories.Category")
}

func summaries(recipes []models.Recipe) []types.RecipeSummary {
	out := make([]types.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, types.NewRecipeSummary(&recipes[i]))
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
