package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/apperr"
)

const (
	AvatarSize         = 512
	MaxImageBytes      = 5 << 20
	avatarJPEGQuality  = 85
	avatarContentType  = "image/jpeg"
	avatarKeyPrefix    = "avatars"
	recipeImageKeyRoot = "recipe-images"
)

var recipeImageExt = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageService handles image processing and storage operations
type ImageService struct {
	store ObjectStore
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates a new ImageService instance
func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// UploadAvatar decodes the image, fits it inside AvatarSize x AvatarSize,
// re-encodes it as JPEG and uploads it under avatars/<user id>/.
func (s *ImageService) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (string, error) {
	data, err := readLimited(file)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.Validation("avatar", "must be a JPEG, PNG or GIF image")
	}
	if b := img.Bounds(); b.Dx() > AvatarSize || b.Dy() > AvatarSize {
		img = imaging.Fit(img, AvatarSize, AvatarSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(avatarJPEGQuality)); err != nil {
		return "", apperr.Backend("encode avatar", err)
	}

	key := fmt.Sprintf("%s/%s/%s.jpg", avatarKeyPrefix, userID, uuid.New())
	return s.upload(ctx, key, avatarContentType, &buf)
}

// UploadRecipeImage uploads a JPEG, PNG or WebP file unchanged under
// recipe-images/<recipe id>/.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, file io.Reader) (string, error) {
	data, err := readLimited(file)
	if err != nil {
		return "", err
	}

	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	ext, ok := recipeImageExt[contentType]
	if !ok {
		return "", apperr.Validation("image", "must be a JPEG, PNG or WebP image")
	}

	key := fmt.Sprintf("%s/%s/%s.%s", recipeImageKeyRoot, recipeID, uuid.New(), ext)
	return s.upload(ctx, key, contentType, bytes.NewReader(data))
}

func (s *ImageService) upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	url, err := s.store.Upload(ctx, key, contentType, body)
	if err != nil {
		log.Printf("[ImageService] upload of %s failed: %v", key, err)
		return "", apperr.Backend("upload image", err)
	}
	return url, nil
}

func readLimited(file io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, apperr.Backend("read image", err)
	}
	if len(data) == 0 {
		return nil, apperr.Validation("image", "is required")
	}
	if len(data) > MaxImageBytes {
		return nil, apperr.Validation("image", "must be at most %d MB", MaxImageBytes>>20)
	}
	return data, nil
}
