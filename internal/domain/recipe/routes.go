package recipe

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
)

// RegisterPublicRoutes mounts the read endpoints; the group runs OptionalAuth
// so viewer flags are filled for logged-in callers.
func (h *Handler) RegisterPublicRoutes(public *gin.RouterGroup) {
	public.GET("/recipes", h.List)
	public.GET("/recipes/:id", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	owner := middleware.AuthorOrAdminOrReadOnly(h.service, "id")

	protected.POST("/recipes", h.Create)
	protected.PATCH("/recipes/:id", owner, h.Update)
	protected.DELETE("/recipes/:id", owner, h.Delete)
}
