package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db     *gorm.DB
	images IImageService
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB, images IImageService) *ProfileService {
	return &ProfileService{
		db:     db,
		images: images,
	}
}

type profileFields struct {
	Username string  `json:"username" validate:"required,min=3,max=20,username"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.find(ctx, "id = ?", userID)
}

func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.find(ctx, "username = ?", strings.TrimSpace(username))
}

func (s *ProfileService) find(ctx context.Context, query string, arg interface{}) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where(query, arg).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("profile")
		}
		return nil, storeError("load profile", err)
	}
	return &profile, nil
}

// UpdateProfile updates a user's profile. Blank full name or bio clears it.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error) {
	fields := profileFields{
		Username: strings.TrimSpace(req.Username),
		FullName: optionalString(req.FullName),
		Bio:      optionalString(req.Bio),
	}
	if err := validateStruct(&fields); err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if fields.Username != profile.Username {
		var taken int64
		if err := db.Model(&models.Profile{}).
			Where("username = ? AND id <> ?", fields.Username, userID).
			Count(&taken).Error; err != nil {
			return nil, storeError("check username", err)
		}
		if taken > 0 {
			return nil, apperr.New(apperr.ErrConflict, "username %q is already taken", fields.Username)
		}
	}

	err = db.Model(profile).Updates(map[string]interface{}{
		"username":  fields.Username,
		"full_name": fields.FullName,
		"bio":       fields.Bio,
	}).Error
	if err != nil {
		return nil, storeError("update profile", err)
	}

	log.Printf("[ProfileService] profile %s updated", userID)
	return s.GetProfile(ctx, userID)
}

// UploadAvatar stores a new avatar image and points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.images.UploadAvatar(ctx, userID, file)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(profile).Update("avatar_url", url).Error; err != nil {
		return nil, storeError("update avatar", err)
	}
	return s.GetProfile(ctx, userID)
}
