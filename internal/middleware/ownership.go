package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

// AuthorLookup resolves the author of the resource addressed by id.
// found is false when the resource does not exist.
type AuthorLookup interface {
	AuthorOf(ctx context.Context, id int64) (authorID int64, found bool, err error)
}

// AuthorOrAdminOrReadOnly lets safe methods through and requires the caller to be
// the resource author (or an admin) for everything else. The resource id is
// taken from the named URL parameter.
func AuthorOrAdminOrReadOnly(lookup AuthorLookup, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		userID, ok := UserID(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || id <= 0 {
			response.AbortError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}

		authorID, found, err := lookup.AuthorOf(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			response.AbortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check permissions")
			return
		}
		if !found {
			response.AbortError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}

		if authorID != userID && !IsAdmin(c) {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Only the author can modify this resource")
			return
		}

		c.Next()
	}
}
