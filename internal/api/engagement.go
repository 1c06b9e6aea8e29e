package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

type EngagementHandler struct {
	engagementService service.IEngagementService
	authService       service.IAuthService
}

func NewEngagementHandler(engagementService service.IEngagementService, authService service.IAuthService) *EngagementHandler {
	return &EngagementHandler{
		engagementService: engagementService,
		authService:       authService,
	}
}

func (h *EngagementHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	router.POST("/recipes/:id/like", requireAuth, h.ToggleLike)
	router.POST("/recipes/:id/save", requireAuth, h.ToggleSave)
	router.GET("/saved", requireAuth, h.ListSaved)
}

type toggleFunc func(ctx context.Context, userID, recipeID uuid.UUID, current types.ToggleState) (types.ToggleState, error)

// ToggleLike takes the state the client is showing and returns the state
// after the toggle. On failure the response carries the unchanged state so
// the client can revert.
func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	h.toggle(c, h.engagementService.ToggleLike)
}

func (h *EngagementHandler) ToggleSave(c *gin.Context) {
	h.toggle(c, h.engagementService.ToggleSave)
}

func (h *EngagementHandler) toggle(c *gin.Context, fn toggleFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var current types.ToggleState
	if c.Request.ContentLength != 0 && !bindJSON(c, &current) {
		return
	}

	state, err := fn(c.Request.Context(), userID, recipeID, current)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error(), "state": state})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *EngagementHandler) ListSaved(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipes, err := h.engagementService.ListSavedRecipes(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
