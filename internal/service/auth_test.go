package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/apperr"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const testSecret = "test-secret-with-at-least-32-characters"

func setupAuth(t *testing.T) (*service.AuthService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return service.NewAuthService(db, rdb, testSecret, time.Hour), db, mr
}

func signUpRequest() *types.SignUpRequest {
	return &types.SignUpRequest{
		Email:    " Cook@Example.com ",
		Password: "secret123",
		Username: "home_cook",
		FullName: testhelpers.StrPtr("Home Cook"),
	}
}

func TestSignUpCreatesUserAndProfile(t *testing.T) {
	svc, db, _ := setupAuth(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "home_cook", session.Profile.Username)
	assert.Greater(t, session.ExpiresAt, time.Now().Unix())

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "cook@example.com").Error)
	assert.Equal(t, session.Profile.ID, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	claims, err := svc.ValidateToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "home_cook", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestSignUpRejectsDuplicates(t *testing.T) {
	svc, db, _ := setupAuth(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, signUpRequest())
	assert.ErrorIs(t, err, apperr.ErrConflict)

	sameName := signUpRequest()
	sameName.Email = "other@example.com"
	_, err = svc.SignUp(ctx, sameName)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 1, users, "a rejected sign-up must not leave a user behind")
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := setupAuth(t)

	cases := map[string]func(*types.SignUpRequest){
		"bad email":      func(r *types.SignUpRequest) { r.Email = "not-an-email" },
		"short password": func(r *types.SignUpRequest) { r.Password = "12345" },
		"short username": func(r *types.SignUpRequest) { r.Username = "ab" },
		"bad username":   func(r *types.SignUpRequest) { r.Username = "no spaces" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := signUpRequest()
			mutate(req)
			_, err := svc.SignUp(context.Background(), req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestSignIn(t *testing.T) {
	svc, _, _ := setupAuth(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	session, err := svc.SignIn(ctx, "cook@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "home_cook", session.Profile.Username)

	_, err = svc.SignIn(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, _, mr := setupAuth(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, claims))
	assert.True(t, mr.Exists("revoked_token:"+claims.ID))
	assert.Greater(t, mr.TTL("revoked_token:"+claims.ID), time.Duration(0))

	_, err = svc.ValidateToken(ctx, session.Token)
	assert.ErrorIs(t, err, service.ErrTokenRevoked)
}

func TestSignOutWithoutRedisIsNoop(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewAuthService(db, nil, testSecret, time.Hour)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, claims))
	_, err = svc.ValidateToken(ctx, session.Token)
	assert.NoError(t, err)
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	svc, _, _ := setupAuth(t)
	ctx := context.Background()

	_, err := svc.ValidateToken(ctx, "invalid.token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           uuid.New(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, signed)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uuid.New(),
	})
	signed, err = forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, signed)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
