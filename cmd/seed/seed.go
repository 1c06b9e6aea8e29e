package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// SeedFile is the layout of seeds/categories.yaml.
type SeedFile struct {
	Categories []models.Category `yaml:"categories"`
	DemoUsers  []DemoUser        `yaml:"demo_users"`
}

type DemoUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
}

func loadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &f, nil
}

type seedResult struct {
	Categories int
	Users      int
}

// seed upserts the categories and signs up demo users. Users that already
// exist are skipped, so running it twice is harmless.
func seed(ctx context.Context, f *SeedFile, categories service.ICategoryService, auth service.IAuthService, withUsers bool) (seedResult, error) {
	var res seedResult

	n, err := categories.SeedCategories(ctx, f.Categories)
	if err != nil {
		return res, fmt.Errorf("failed to seed categories: %w", err)
	}
	res.Categories = n
	log.Printf("[Seed] upserted %d categories", n)

	if !withUsers {
		return res, nil
	}
	for _, u := range f.DemoUsers {
		req := &types.SignUpRequest{Email: u.Email, Password: u.Password, Username: u.Username}
		if u.FullName != "" {
			name := u.FullName
			req.FullName = &name
		}
		if _, err := auth.SignUp(ctx, req); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				log.Printf("[Seed] user %s already exists, skipping", u.Username)
				continue
			}
			return res, fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
		res.Users++
		log.Printf("[Seed] created user %s", u.Username)
	}
	return res, nil
}
