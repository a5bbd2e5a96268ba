package catalog

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the read-only catalog; everything here is public.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ingredients := r.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}

	tags := r.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}
