package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeshare/backend/internal/api"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
)

// Services bundles everything the HTTP layer needs.
type Services struct {
	Auth       service.IAuthService
	Profile    service.IProfileService
	Recipe     service.IRecipeService
	Engagement service.IEngagementService
	Comment    service.ICommentService
	Category   service.ICategoryService

	// Optional.
	RecipeCreationLimiter *middleware.RateLimiter
	CommentLimiter        *middleware.RateLimiter
	HealthChecks          map[string]api.HealthChecker
}

// SetupRouter configures the application routes
func SetupRouter(svc Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(allowedOrigins))

	// API v1 routes
	v1 := router.Group("/api/v1")

	api.NewHealthHandler(svc.HealthChecks).RegisterRoutes(v1)
	api.NewAuthHandler(svc.Auth, svc.Profile).RegisterRoutes(v1)
	api.NewCategoryHandler(svc.Category).RegisterRoutes(v1)
	api.NewRecipeHandler(svc.Recipe, svc.Auth, svc.RecipeCreationLimiter).RegisterRoutes(v1)
	api.NewEngagementHandler(svc.Engagement, svc.Auth).RegisterRoutes(v1)
	api.NewCommentHandler(svc.Comment, svc.Auth, svc.CommentLimiter).RegisterRoutes(v1)
	api.NewProfileHandler(svc.Profile, svc.Auth).RegisterRoutes(v1)

	return router
}
