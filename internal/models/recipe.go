package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Recipe is the aggregate root. Child rows reference it with ON DELETE CASCADE,
// so deleting the recipe row removes the whole aggregate.
type Recipe struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	PrepTime    *int      `json:"prep_time"`
	CookTime    *int      `json:"cook_time"`
	Servings    *int      `json:"servings"`
	Difficulty  string    `gorm:"size:10;not null" json:"difficulty"`
	Status      string    `gorm:"size:10;not null;index" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author           *Profile         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Ingredients      []Ingredient     `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Instructions     []Instruction    `gorm:"constraint:OnDelete:CASCADE" json:"instructions,omitempty"`
	RecipeCategories []RecipeCategory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Images           []RecipeImage    `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Likes            []Like           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Saves            []SavedRecipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments         []Comment        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Ingredient positions are contiguous from 1 within a recipe.
type Ingredient struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_ingredients_recipe_position,priority:1" json:"recipe_id"`
	Name     string    `gorm:"size:200;not null" json:"name"`
	Quantity *string   `gorm:"size:50" json:"quantity"`
	Unit     *string   `gorm:"size:50" json:"unit"`
	Position int       `gorm:"not null;uniqueIndex:idx_ingredients_recipe_position,priority:2" json:"order"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Instruction step numbers are contiguous from 1 within a recipe.
type Instruction struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_instructions_recipe_step,priority:1" json:"recipe_id"`
	StepNumber  int       `gorm:"not null;uniqueIndex:idx_instructions_recipe_step,priority:2" json:"step_number"`
	Description string    `gorm:"type:text;not null" json:"description"`
}

func (i *Instruction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type RecipeImage struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	ImageURL  string    `gorm:"size:512;not null" json:"image_url"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *RecipeImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
