package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/models"
)

// ProfileView is the public representation of a profile.
type ProfileView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  *string   `json:"full_name"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorSummary is the author block shown on recipe cards and comments.
type AuthorSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
}

func NewProfileView(p *models.Profile) ProfileView {
	return ProfileView{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
	}
}

func NewAuthorSummary(p *models.Profile) *AuthorSummary {
	if p == nil {
		return nil
	}
	return &AuthorSummary{ID: p.ID, Username: p.Username, AvatarURL: p.AvatarURL}
}
