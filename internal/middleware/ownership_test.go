package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubLookup map[int64]int64

func (s stubLookup) AuthorOf(_ context.Context, id int64) (int64, bool, error) {
	if id == 999 {
		return 0, false, errors.New("db down")
	}
	author, ok := s[id]
	return author, ok, nil
}

func ownershipRouter(userID int64, role string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID > 0 {
			c.Set(ContextUserID, userID)
			c.Set(ContextRole, role)
		}
		c.Next()
	})
	guard := AuthorOrAdminOrReadOnly(stubLookup{1: 10}, "id")
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/recipes/:id", guard, ok)
	router.PATCH("/recipes/:id", guard, ok)
	router.DELETE("/recipes/:id", guard, ok)
	return router
}

func request(router http.Handler, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestAuthorOrAdminOrReadOnly(t *testing.T) {
	cases := []struct {
		name   string
		userID int64
		role   string
		method string
		path   string
		want   int
	}{
		{"anonymous read", 0, "", http.MethodGet, "/recipes/1", http.StatusOK},
		{"anonymous write", 0, "", http.MethodPatch, "/recipes/1", http.StatusUnauthorized},
		{"author write", 10, "user", http.MethodPatch, "/recipes/1", http.StatusOK},
		{"stranger write", 11, "user", http.MethodDelete, "/recipes/1", http.StatusForbidden},
		{"admin write", 11, "admin", http.MethodDelete, "/recipes/1", http.StatusOK},
		{"missing resource", 10, "user", http.MethodPatch, "/recipes/2", http.StatusNotFound},
		{"bad id", 10, "user", http.MethodPatch, "/recipes/abc", http.StatusNotFound},
		{"lookup failure", 10, "user", http.MethodPatch, "/recipes/999", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, request(ownershipRouter(tc.userID, tc.role), tc.method, tc.path))
		})
	}
}

func TestRequestIDAndCORS(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), CORS([]string{"https://app.example"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example")
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set(HeaderRequestID, "fixed-id")
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "fixed-id", w.Header().Get(HeaderRequestID))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorLogger_RecoversPanic(t *testing.T) {
	router := gin.New()
	router.Use(ErrorLogger())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
