package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// CommentHandler serves recipe comment threads. Every mutation responds with
// the freshly loaded thread.
type CommentHandler struct {
	commentService service.ICommentService
	authService    service.IAuthService
	postLimiter    *middleware.RateLimiter
}

func NewCommentHandler(commentService service.ICommentService, authService service.IAuthService, postLimiter *middleware.RateLimiter) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authService:    authService,
		postLimiter:    postLimiter,
	}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)

	post := []gin.HandlerFunc{requireAuth}
	if h.postLimiter != nil {
		post = append(post, h.postLimiter.RateLimitMiddleware())
	}

	router.GET("/recipes/:id/comments", h.ListComments)
	router.POST("/recipes/:id/comments", append(post, h.AddComment)...)
	router.PUT("/comments/:id", requireAuth, h.EditComment)
	router.DELETE("/comments/:id", requireAuth, h.DeleteComment)
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respondWithThread(c, http.StatusOK, recipeID)
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.commentService.AddComment(c.Request.Context(), userID, recipeID, req.Content); err != nil {
		_ = c.Error(err)
		return
	}
	h.respondWithThread(c, http.StatusCreated, recipeID)
}

func (h *CommentHandler) EditComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.commentService.EditComment(c.Request.Context(), commentID, userID, req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondWithThread(c, http.StatusOK, view.RecipeID)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipeID, err := h.commentService.DeleteComment(c.Request.Context(), commentID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondWithThread(c, http.StatusOK, recipeID)
}

func (h *CommentHandler) respondWithThread(c *gin.Context, status int, recipeID uuid.UUID) {
	comments, err := h.commentService.ListComments(c.Request.Context(), recipeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(status, gin.H{"comments": comments})
}
