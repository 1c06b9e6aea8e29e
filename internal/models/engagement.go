package models

import (
	"time"

	"github.com/google/uuid"
)

// Like is unique per (user, recipe) through its composite key.
type Like struct {
	UserID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primaryKey;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
	Profile   *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// SavedRecipe is unique per (user, recipe) through its composite key.
type SavedRecipe struct {
	UserID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primaryKey;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Profile   *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}
