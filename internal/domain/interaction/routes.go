package interaction

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/domain"
)

// RegisterRoutes mounts favorite and cart toggles on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	recipes := r.Group("/recipes/:id")
	{
		recipes.POST("/favorite", h.Add(domain.MarkFavorite))
		recipes.DELETE("/favorite", h.Remove(domain.MarkFavorite))
		recipes.POST("/shopping_cart", h.Add(domain.MarkShoppingCart))
		recipes.DELETE("/shopping_cart", h.Remove(domain.MarkShoppingCart))
	}
}
