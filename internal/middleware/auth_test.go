package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/mocks"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

func whoAmI(c *gin.Context) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.String())
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: userID, Username: "cook"}, nil)
	auth.On("ValidateToken", mock.Anything, "bad").Return(nil, service.ErrInvalidToken)

	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(auth), whoAmI)

	cases := map[string]struct {
		header string
		status int
	}{
		"valid":     {"Bearer good", http.StatusOK},
		"lowercase": {"bearer good", http.StatusOK},
		"invalid":   {"Bearer bad", http.StatusUnauthorized},
		"missing":   {"", http.StatusUnauthorized},
		"malformed": {"Token good", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"login_required":true`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	auth := new(mocks.MockAuthService)
	auth.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: userID}, nil)
	auth.On("ValidateToken", mock.Anything, "expired").Return(nil, service.ErrInvalidToken)

	router := gin.New()
	router.GET("/me", middleware.OptionalAuth(auth), whoAmI)

	for header, want := range map[string]string{
		"":               "anonymous",
		"Bearer expired": "anonymous",
		"Bearer good":    userID.String(),
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Body.String())
	}
}
