package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// CommentService manages the comment thread under a recipe.
type CommentService struct {
	db *gorm.DB
}

var _ ICommentService = (*CommentService)(nil)

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type commentInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

func commentContent(raw string) (string, error) {
	in := commentInput{Content: strings.TrimSpace(raw)}
	if err := validateStruct(&in); err != nil {
		return "", err
	}
	return in.Content, nil
}

func (s *CommentService) AddComment(ctx context.Context, userID, recipeID uuid.UUID, content string) (*types.CommentView, error) {
	text, err := commentContent(content)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := visibleRecipe(db, recipeID, userID); err != nil {
		return nil, err
	}

	c := &models.Comment{RecipeID: recipeID, UserID: userID, Content: text}
	if err := db.Create(c).Error; err != nil {
		return nil, storeError("add comment", err)
	}
	log.Printf("[CommentService] user %s commented on recipe %s", userID, recipeID)
	return s.view(ctx, c.ID)
}

// EditComment replaces the content of the requester's own comment.
func (s *CommentService) EditComment(ctx context.Context, commentID, requesterID uuid.UUID, content string) (*types.CommentView, error) {
	c, err := s.owned(ctx, commentID, requesterID)
	if err != nil {
		return nil, err
	}
	text, err := commentContent(content)
	if err != nil {
		return nil, err
	}

	updatedAt := time.Now()
	if !updatedAt.After(c.CreatedAt) {
		updatedAt = c.CreatedAt.Add(time.Millisecond)
	}
	err = s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", commentID).
		Updates(map[string]interface{}{"content": text, "updated_at": updatedAt}).Error
	if err != nil {
		return nil, storeError("edit comment", err)
	}
	return s.view(ctx, commentID)
}

// DeleteComment removes the requester's own comment and returns its recipe id
// so the caller can re-fetch the thread.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID uuid.UUID) (uuid.UUID, error) {
	c, err := s.owned(ctx, commentID, requesterID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
		return uuid.Nil, storeError("delete comment", err)
	}
	log.Printf("[CommentService] user %s deleted comment %s", requesterID, commentID)
	return c.RecipeID, nil
}

// ListComments returns the thread newest first.
func (s *CommentService) ListComments(ctx context.Context, recipeID uuid.UUID) ([]types.CommentView, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, storeError("list comments", err)
	}

	out := make([]types.CommentView, 0, len(comments))
	for i := range comments {
		out = append(out, types.NewCommentView(&comments[i]))
	}
	return out, nil
}

func (s *CommentService) owned(ctx context.Context, commentID, requesterID uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).First(&c, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment")
		}
		return nil, storeError("load comment", err)
	}
	if c.UserID != requesterID {
		return nil, apperr.ErrUnauthorized
	}
	return &c, nil
}

func (s *CommentService) view(ctx context.Context, commentID uuid.UUID) (*types.CommentView, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").First(&c, "id = ?", commentID).Error; err != nil {
		return nil, storeError("load comment", err)
	}
	v := types.NewCommentView(&c)
	return &v, nil
}
