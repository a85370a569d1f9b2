package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"stature-backend/internal/config"
	"stature-backend/internal/models"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

const (
	msgNoToken       = "Unauthorized: No token provided."
	msgInvalidToken  = "Unauthorized: Invalid token."
	msgAdminRequired = "Unauthorized: Admin access required."
	msgForbidden     = "Forbidden"
)

// AuthMiddleware verifies the Supabase access token (HS256) and stores the
// caller's id, email and role in the gin context. The role comes from the
// token's app_metadata, so a promotion only shows up after a token refresh.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusForbidden, msgNoToken, "")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, msgInvalidToken, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abort(c, http.StatusForbidden, msgNoToken, "")
			return
		}

		// Try URL decoding in case the token was URL-encoded
		decodedToken, err := url.QueryUnescape(tokenString)
		if err == nil && decodedToken != tokenString {
			tokenString = decodedToken
		}

		if len(strings.Split(tokenString, ".")) != 3 {
			abort(c, http.StatusUnauthorized, msgInvalidToken, "JWT token must have 3 parts separated by dots")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			if cfg.SupabaseJWTSecret == "" {
				return nil, jwt.ErrSignatureInvalid
			}
			// Supabase JWT secret is used directly as the signing key
			return []byte(cfg.SupabaseJWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			var errorMsg string
			switch {
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				errorMsg = "token signature is invalid"
			case errors.Is(err, jwt.ErrTokenExpired):
				errorMsg = "token has expired"
			case errors.Is(err, jwt.ErrTokenMalformed):
				errorMsg = "token is malformed"
			default:
				errorMsg = err.Error()
			}
			abort(c, http.StatusUnauthorized, msgInvalidToken, errorMsg)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			abort(c, http.StatusUnauthorized, msgInvalidToken, "invalid token claims")
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			abort(c, http.StatusUnauthorized, msgInvalidToken, "missing user id in token")
			return
		}

		email, _ := claims["email"].(string)

		c.Set(UserIDKey, sub)
		c.Set(UserEmailKey, email)
		c.Set(UserRoleKey, roleFromClaims(claims))
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			abort(c, http.StatusForbidden, msgAdminRequired, "")
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin lets the request through when the path parameter
// matches the caller's id or the caller is an admin.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(param) == GetUserID(c) || IsAdmin(c) {
			c.Next()
			return
		}
		abort(c, http.StatusForbidden, msgForbidden, "")
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(UserRoleKey) == models.RoleAdmin
}

// roleFromClaims reads app_metadata.role, honouring the legacy admin flag.
func roleFromClaims(claims jwt.MapClaims) string {
	meta, ok := claims["app_metadata"].(map[string]interface{})
	if !ok {
		return models.RoleUser
	}
	if admin, ok := meta["admin"].(bool); ok && admin {
		return models.RoleAdmin
	}
	if role, ok := meta["role"].(string); ok && role == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func abort(c *gin.Context, status int, msg, detail string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: msg, Message: detail})
}
