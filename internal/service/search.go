package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchRecipes filters published recipes in two phases. The store applies the
// text, difficulty and sort filters and returns at most SearchCandidateLimit
// rows; the category filter then runs over those rows. A matching recipe
// outside the first SearchCandidateLimit candidates is therefore never
// returned, even when category filtering removed most of the page.
func (s *RecipeService) SearchRecipes(ctx context.Context, params types.SearchParams) ([]types.RecipeSummary, error) {
	params = params.Normalize()

	q := s.summaryQuery(ctx).Where("status = ?", models.StatusPublished)

	if params.Query != "" {
		term := "%" + likeEscaper.Replace(strings.ToLower(params.Query)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`, term, term)
	}
	if params.Difficulty != types.DifficultyAll {
		q = q.Where("difficulty = ?", params.Difficulty)
	}

	switch params.SortBy {
	case types.SortOldest:
		q = q.Order("created_at ASC")
	case types.SortQuickest:
		q = q.Order("cook_time IS NULL").Order("cook_time ASC").Order("created_at DESC")
	default:
		q = q.Order("created_at DESC")
	}

	var candidates []models.Recipe
	if err := q.Limit(types.SearchCandidateLimit).Find(&candidates).Error; err != nil {
		return nil, storeError("search recipes", err)
	}

	out := make([]types.RecipeSummary, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		ids := make([]uuid.UUID, len(r.RecipeCategories))
		for j, rc := range r.RecipeCategories {
			ids[j] = rc.CategoryID
		}
		if params.MatchesCategories(ids) {
			out = append(out, types.NewRecipeSummary(r))
		}
	}
	return out, nil
}
