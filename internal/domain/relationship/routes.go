package relationship

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts follow management on an authenticated group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	users := r.Group("/users")
	{
		users.GET("/subscriptions", h.ListSubscriptions)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}
