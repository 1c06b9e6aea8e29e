package types

import (
	"github.com/google/uuid"
)

// SignUpRequest represents the request body for creating an account
type SignUpRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Username string  `json:"username" binding:"required"`
	FullName *string `json:"full_name"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IngredientInput is one ingredient row as submitted by the recipe form.
type IngredientInput struct {
	Name     string  `json:"name"`
	Quantity *string `json:"quantity"`
	Unit     *string `json:"unit"`
}

// InstructionInput is one instruction step as submitted by the recipe form.
type InstructionInput struct {
	Description string `json:"description"`
}

// RecipeRequest is the full recipe form, used for both create and edit.
// Array order is authoritative for ingredient order and step numbers.
type RecipeRequest struct {
	Title        string             `json:"title"`
	Description  *string            `json:"description"`
	PrepTime     *int               `json:"prep_time"`
	CookTime     *int               `json:"cook_time"`
	Servings     *int               `json:"servings"`
	Difficulty   string             `json:"difficulty"`
	Status       string             `json:"status"`
	Ingredients  []IngredientInput  `json:"ingredients"`
	Instructions []InstructionInput `json:"instructions"`
	CategoryIDs  []uuid.UUID        `json:"category_ids"`
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

// ToggleState is the displayed state of a like or save control.
type ToggleState struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// Flipped returns the state after one toggle. Count never drops below zero.
func (s ToggleState) Flipped() ToggleState {
	next := ToggleState{Active: !s.Active, Count: s.Count}
	if next.Active {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	return next
}
