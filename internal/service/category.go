package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = 10 * time.Minute
)

// CategoryService serves the category catalogue, cached in Redis when a
// client is configured.
type CategoryService struct {
	db    *gorm.DB
	redis *redis.Client
}

var _ ICategoryService = (*CategoryService)(nil)

func NewCategoryService(db *gorm.DB, rdb *redis.Client) *CategoryService {
	return &CategoryService{db: db, redis: rdb}
}

// ListCategories returns every category ordered by name. Cache failures are
// logged and the database is used instead.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, categoriesCacheKey).Bytes()
		switch {
		case err == nil:
			var categories []models.Category
			if jerr := json.Unmarshal(cached, &categories); jerr == nil {
				return categories, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Printf("[CategoryService] cache read failed: %v", err)
		}
	}

	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, storeError("list categories", err)
	}

	if s.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := s.redis.Set(ctx, categoriesCacheKey, data, categoriesCacheTTL).Err(); err != nil {
				log.Printf("[CategoryService] cache write failed: %v", err)
			}
		}
	}
	return categories, nil
}

// SeedCategories upserts categories by slug, deriving missing slugs from the
// name, and returns how many rows were written.
func (s *CategoryService) SeedCategories(ctx context.Context, categories []models.Category) (int, error) {
	rows := make([]models.Category, 0, len(categories))
	seen := map[string]bool{}
	for _, c := range categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return 0, apperr.Validation("name", "is required")
		}
		if c.Slug = Slugify(c.Slug); c.Slug == "" {
			c.Slug = Slugify(c.Name)
		}
		if c.Slug == "" || seen[c.Slug] {
			continue
		}
		seen[c.Slug] = true
		rows = append(rows, c)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&rows).Error
	if err != nil {
		return 0, storeError("seed categories", err)
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, categoriesCacheKey).Err(); err != nil {
			log.Printf("[CategoryService] cache invalidation failed: %v", err)
		}
	}
	log.Printf("[CategoryService] seeded %d categories", len(rows))
	return len(rows), nil
}

// Slugify lowercases s, strips accents and joins the remaining letters and
// digits with single hyphens: "Crème Brûlée" becomes "creme-brulee".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
