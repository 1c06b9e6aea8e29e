package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// IAuthService defines the identity operations
type IAuthService interface {
	SignUp(ctx context.Context, req *types.SignUpRequest) (*types.Session, error)
	SignIn(ctx context.Context, email, password string) (*types.Session, error)
	SignOut(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.Profile, error)
}

// IRecipeService defines the recipe aggregate and browse operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, ownerID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error)
	UpdateRecipe(ctx context.Context, recipeID, requesterID uuid.UUID, req *types.RecipeRequest) (*types.RecipeDetail, error)
	DeleteRecipe(ctx context.Context, recipeID, requesterID uuid.UUID) error
	GetRecipe(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*types.RecipeDetail, error)
	ListRecipes(ctx context.Context, offset, limit int) (*types.RecipePage, error)
	ListUserRecipes(ctx context.Context, username string) ([]types.RecipeSummary, error)
	SearchRecipes(ctx context.Context, params types.SearchParams) ([]types.RecipeSummary, error)
	AddImage(ctx context.Context, recipeID, requesterID uuid.UUID, contentType string, file io.Reader, primary bool) (*models.RecipeImage, error)
}

// IEngagementService defines like and save toggles
type IEngagementService interface {
	ToggleLike(ctx context.Context, userID, recipeID uuid.UUID, current types.ToggleState) (types.ToggleState, error)
	ToggleSave(ctx context.Context, userID, recipeID uuid.UUID, current types.ToggleState) (types.ToggleState, error)
	ListSavedRecipes(ctx context.Context, userID uuid.UUID) ([]types.RecipeSummary, error)
}

// ICommentService defines the comment thread operations
type ICommentService interface {
	AddComment(ctx context.Context, userID, recipeID uuid.UUID, content string) (*types.CommentView, error)
	EditComment(ctx context.Context, commentID, requesterID uuid.UUID, content string) (*types.CommentView, error)
	DeleteComment(ctx context.Context, commentID, requesterID uuid.UUID) (uuid.UUID, error)
	ListComments(ctx context.Context, recipeID uuid.UUID) ([]types.CommentView, error)
}

type ICategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	SeedCategories(ctx context.Context, categories []models.Category) (int, error)
}

// IImageService uploads user media to object storage
type IImageService interface {
	UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (string, error)
	UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, file io.Reader) (string, error)
}

// ObjectStore is the object storage client; *config.S3Config satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
