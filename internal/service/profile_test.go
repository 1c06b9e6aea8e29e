package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/mocks"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/pageza/recipeshare/backend/internal/types"
)

func TestUpdateProfileUsernameRules(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db, new(mocks.MockImageService))
	p := testhelpers.CreateProfile(t, db, "original")
	ctx := context.Background()

	cases := map[string]bool{
		"ab":                    false,
		"valid_user1":           true,
		"has space":             false,
		"dash-name":             false,
		strings.Repeat("x", 21): false,
		"abc":                   true,
	}
	for username, ok := range cases {
		t.Run(username, func(t *testing.T) {
			got, err := svc.UpdateProfile(ctx, p.ID, &types.UpdateProfileRequest{Username: username})
			if ok {
				require.NoError(t, err)
				assert.Equal(t, username, got.Username)
				return
			}
			require.Error(t, err)
			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "username", ve.Field)
		})
	}
}

func TestUpdateProfileFields(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db, new(mocks.MockImageService))
	p := testhelpers.CreateProfile(t, db, "baker")
	ctx := context.Background()

	got, err := svc.UpdateProfile(ctx, p.ID, &types.UpdateProfileRequest{
		Username: " baker ",
		FullName: testhelpers.StrPtr(" Pat Baker "),
		Bio:      testhelpers.StrPtr("Sourdough every weekend"),
	})
	require.NoError(t, err)
	assert.Equal(t, "baker", got.Username)
	require.NotNil(t, got.FullName)
	assert.Equal(t, "Pat Baker", *got.FullName)
	require.NotNil(t, got.Bio)

	cleared, err := svc.UpdateProfile(ctx, p.ID, &types.UpdateProfileRequest{Username: "baker", Bio: testhelpers.StrPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Bio)

	_, err = svc.UpdateProfile(ctx, p.ID, &types.UpdateProfileRequest{Username: "baker", Bio: testhelpers.StrPtr(strings.Repeat("b", 501))})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UpdateProfile(ctx, p.ID, &types.UpdateProfileRequest{Username: "baker", FullName: testhelpers.StrPtr(strings.Repeat("n", 101))})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db, new(mocks.MockImageService))
	testhelpers.CreateProfile(t, db, "taken")
	p := testhelpers.CreateProfile(t, db, "mine")

	_, err := svc.UpdateProfile(context.Background(), p.ID, &types.UpdateProfileRequest{Username: "taken"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.UpdateProfile(context.Background(), uuid.New(), &types.UpdateProfileRequest{Username: "ghost"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetProfileByUsername(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewProfileService(db, new(mocks.MockImageService))
	p := testhelpers.CreateProfile(t, db, "chef")

	got, err := svc.GetProfileByUsername(context.Background(), "chef")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetProfileByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUploadAvatarStoresURL(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	images := new(mocks.MockImageService)
	svc := service.NewProfileService(db, images)
	p := testhelpers.CreateProfile(t, db, "chef")

	images.On("UploadAvatar", mock.Anything, p.ID).Return("https://cdn.example.com/avatars/a.jpg", nil).Once()
	got, err := svc.UploadAvatar(context.Background(), p.ID, strings.NewReader("img"))
	require.NoError(t, err)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/avatars/a.jpg", *got.AvatarURL)

	images.On("UploadAvatar", mock.Anything, p.ID).Return("", apperr.Backend("upload image", errors.New("bucket missing"))).Once()
	_, err = svc.UploadAvatar(context.Background(), p.ID, strings.NewReader("img"))
	require.Error(t, err)
	assert.Equal(t, "bucket missing", err.Error())

	images.AssertExpectations(t)
}
