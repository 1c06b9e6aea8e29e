package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const revokedTokenPrefix = "revoked_token:"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// AuthService issues and checks session tokens. Revocation needs Redis; with
// a nil client sign-out only discards the token on the client side.
type AuthService struct {
	db        *gorm.DB
	redis     *redis.Client
	jwtSecret string
	ttl       time.Duration
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, rdb *redis.Client, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		redis:     rdb,
		jwtSecret: jwtSecret,
		ttl:       ttl,
	}
}

type signUpFields struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Username string  `json:"username" validate:"required,min=3,max=20,username"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

// SignUp creates the account and its profile in one transaction and returns
// a session for the new user.
func (s *AuthService) SignUp(ctx context.Context, req *types.SignUpRequest) (*types.Session, error) {
	fields := signUpFields{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Username: strings.TrimSpace(req.Username),
		FullName: optionalString(req.FullName),
	}
	if err := validateStruct(&fields); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Backend("hash password", err)
	}

	user := &models.User{Email: fields.Email, PasswordHash: string(hash)}
	var profile *models.Profile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", fields.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.New(apperr.ErrConflict, "an account with this email already exists")
		}
		if err := tx.Model(&models.Profile{}).Where("username = ?", fields.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.New(apperr.ErrConflict, "username %q is already taken", fields.Username)
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile = &models.Profile{ID: user.ID, Username: fields.Username, FullName: fields.FullName}
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, storeError("sign up", err)
	}

	log.Printf("[AuthService] new account %s (%s)", user.ID, profile.Username)
	return s.newSession(profile)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	invalid := apperr.New(apperr.ErrUnauthenticated, "invalid credentials")

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, storeError("sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", user.ID).Error; err != nil {
		return nil, storeError("load profile", err)
	}
	return s.newSession(&profile)
}

// SignOut revokes the token until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, claims *types.TokenClaims) error {
	if s.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedTokenPrefix+claims.ID, claims.UserID.String(), ttl).Err(); err != nil {
		return apperr.Backend("revoke token", err)
	}
	log.Printf("[AuthService] user %s signed out", claims.UserID)
	return nil
}

// ValidateToken verifies the signature and expiry and rejects revoked tokens.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	if s.redis != nil && claims.ID != "" {
		n, err := s.redis.Exists(ctx, revokedTokenPrefix+claims.ID).Result()
		if err != nil {
			log.Printf("[AuthService] revocation check failed: %v", err)
		} else if n > 0 {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *AuthService) newSession(profile *models.Profile) (*types.Session, error) {
	now := time.Now()
	expires := now.Add(s.ttl)
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profile.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID:   profile.ID,
		Username: profile.Username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, apperr.Backend("sign token", err)
	}
	return &types.Session{
		Token:     signed,
		ExpiresAt: expires.Unix(),
		Profile:   types.NewProfileView(profile),
	}, nil
}
