package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stature-backend/internal/config"
	"stature-backend/internal/middleware"
	"stature-backend/internal/models"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tokenString
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SupabaseJWTSecret: testSecret}

	router := gin.New()
	router.Use(middleware.AuthMiddleware(cfg))
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/test", chain...)
	router.GET("/orders/:uid", append([]gin.HandlerFunc{middleware.RequireSelfOrAdmin("uid")}, chain...)...)
	return router
}

func do(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	w := do(newRouter(), "/test", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized: No token provided.", body.Error)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	w := do(newRouter(), "/test", "Bearer invalid-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(newRouter(), "/test", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	w := do(newRouter(), "/test", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"})
	tokenString, err := token.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	w := do(newRouter(), "/test", "Bearer "+tokenString)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "ada@example.com",
	})

	router := newRouter(func(c *gin.Context) {
		assert.Equal(t, "user-123", middleware.GetUserID(c))
		assert.Equal(t, "ada@example.com", middleware.GetUserEmail(c))
		assert.False(t, middleware.IsAdmin(c))
		c.Next()
	})

	w := do(router, "/test", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	router := newRouter(middleware.RequireAdmin())

	userToken := signToken(t, jwt.MapClaims{"sub": "user-1", "app_metadata": map[string]any{"role": "user"}})
	w := do(router, "/test", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	adminToken := signToken(t, jwt.MapClaims{"sub": "admin-1", "app_metadata": map[string]any{"role": "admin", "admin": true}})
	w = do(router, "/test", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	legacyToken := signToken(t, jwt.MapClaims{"sub": "admin-2", "app_metadata": map[string]any{"admin": true}})
	w = do(router, "/test", "Bearer "+legacyToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	router := newRouter()

	self := signToken(t, jwt.MapClaims{"sub": "user-1"})
	assert.Equal(t, http.StatusOK, do(router, "/orders/user-1", "Bearer "+self).Code)
	assert.Equal(t, http.StatusForbidden, do(router, "/orders/user-2", "Bearer "+self).Code)

	admin := signToken(t, jwt.MapClaims{"sub": "admin-1", "app_metadata": map[string]any{"role": "admin"}})
	assert.Equal(t, http.StatusOK, do(router, "/orders/user-2", "Bearer "+admin).Code)
}
