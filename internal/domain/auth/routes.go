package auth

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
)

// RegisterPublicRoutes mounts routes open to anonymous callers. The group is
// expected to run OptionalAuth so is_subscribed can be computed.
func (h *Handler) RegisterPublicRoutes(public *gin.RouterGroup) {
	public.POST("/auth/token/login", h.Login)
	public.POST("/users", h.Register)
	public.GET("/users", h.List)
	public.GET("/users/:id", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.Me)
	protected.POST("/users/set_password", h.SetPassword)
	protected.DELETE("/users/:id", middleware.AdminOnly(), h.Delete)
}
