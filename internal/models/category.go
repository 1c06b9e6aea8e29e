package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id" yaml:"-"`
	Name string    `gorm:"size:100;not null" json:"name" yaml:"name"`
	Slug string    `gorm:"size:100;not null;uniqueIndex" json:"slug" yaml:"slug"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RecipeCategory links a recipe to a category.
type RecipeCategory struct {
	RecipeID   uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	CategoryID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"category_id"`
	Category   Category  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
