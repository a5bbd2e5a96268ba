package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// TokenValidator is satisfied by *jwt.Service.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// UserLookup resolves the current role of a token's subject. found is false
// once the user has been deleted.
type UserLookup interface {
	RoleOf(ctx context.Context, userID int64) (role string, found bool, err error)
}

// JWTAuth rejects requests without a valid "Bearer <jwt>" (or "Token <jwt>")
// Authorization header and stores user_id and role in the context. The role
// comes from storage, not from the token.
func JWTAuth(tokens TokenValidator, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		raw, ok := bearerToken(header)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		if !setIdentity(c, users, claims) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through. A malformed or expired token is still a 401,
// so clients are not silently downgraded to anonymous.
func OptionalAuth(tokens TokenValidator, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw, ok := bearerToken(header)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}
		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}
		if !setIdentity(c, users, claims) {
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id; ok is false for anonymous requests.
func UserID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(ContextUserID)
	return id, id > 0
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == "admin"
}

// setIdentity stores the caller in the context, aborting with 401 when the
// token's user no longer exists.
func setIdentity(c *gin.Context, users UserLookup, claims *jwt.Claims) bool {
	role, found, err := users.RoleOf(c.Request.Context(), claims.UserID)
	if err != nil {
		_ = c.Error(err)
		response.AbortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve user")
		return false
	}
	if !found {
		response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return false
	}
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, role)
	return true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "bearer" && scheme != "token" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
