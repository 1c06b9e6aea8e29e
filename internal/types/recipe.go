package types

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/models"
)

// RecipeSummary is a recipe card as listed by browse, search and profile pages.
type RecipeSummary struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	CookTime    *int              `json:"cook_time"`
	Servings    *int              `json:"servings"`
	Difficulty  string            `json:"difficulty"`
	CreatedAt   time.Time         `json:"created_at"`
	ImageURL    *string           `json:"image_url"`
	Author      *AuthorSummary    `json:"author"`
	Categories  []models.Category `json:"categories"`
}

// RecipeDetail is the full aggregate plus engagement state for one viewer.
type RecipeDetail struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	Description  *string              `json:"description"`
	PrepTime     *int                 `json:"prep_time"`
	CookTime     *int                 `json:"cook_time"`
	Servings     *int                 `json:"servings"`
	Difficulty   string               `json:"difficulty"`
	Status       string               `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Author       *AuthorSummary       `json:"author"`
	Ingredients  []models.Ingredient  `json:"ingredients"`
	Instructions []models.Instruction `json:"instructions"`
	Categories   []models.Category    `json:"categories"`
	Images       []models.RecipeImage `json:"images"`
	LikeCount    int64                `json:"like_count"`
	IsLiked      bool                 `json:"is_liked"`
	IsSaved      bool                 `json:"is_saved"`
	IsOwner      bool                 `json:"is_owner"`
}

// RecipePage is one page of the browse listing.
type RecipePage struct {
	Recipes []RecipeSummary `json:"recipes"`
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
	HasMore bool            `json:"has_more"`
}

// CommentView is a comment with its author, as rendered in a thread.
type CommentView struct {
	ID        uuid.UUID      `json:"id"`
	RecipeID  uuid.UUID      `json:"recipe_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Edited    bool           `json:"edited"`
	Author    *AuthorSummary `json:"author"`
}

func NewCommentView(c *models.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Edited:    c.Edited(),
		Author:    NewAuthorSummary(c.Author),
	}
}

// NewRecipeSummary flattens a recipe loaded with Author, Images and
// RecipeCategories.Category.
func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CookTime:    r.CookTime,
		Servings:    r.Servings,
		Difficulty:  r.Difficulty,
		CreatedAt:   r.CreatedAt,
		ImageURL:    PrimaryImageURL(r.Images),
		Author:      NewAuthorSummary(r.Author),
		Categories:  CategoriesOf(r),
	}
}

// PrimaryImageURL picks the primary image, falling back to the first one.
func PrimaryImageURL(images []models.RecipeImage) *string {
	for i := range images {
		if images[i].IsPrimary {
			return &images[i].ImageURL
		}
	}
	if len(images) > 0 {
		return &images[0].ImageURL
	}
	return nil
}

// CategoriesOf returns the recipe's categories sorted by name.
func CategoriesOf(r *models.Recipe) []models.Category {
	out := make([]models.Category, 0, len(r.RecipeCategories))
	for _, rc := range r.RecipeCategories {
		out = append(out, rc.Category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
