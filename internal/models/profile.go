package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public face of a user account.
type Profile struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Username  string    `gorm:"size:20;not null;uniqueIndex" json:"username"`
	FullName  *string   `gorm:"size:100" json:"full_name"`
	Bio       *string   `gorm:"size:500" json:"bio"`
	AvatarURL *string   `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
