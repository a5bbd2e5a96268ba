package shoppinglist

import (
	"errors"

	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Download godoc
// @Summary Download the aggregated shopping list
// @Tags Recipes
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) Download(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	filename, body, err := h.service.Export(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		_ = c.Error(err)
		response.Internal(c, "Failed to build shopping list")
		return
	}
	response.Attachment(c, filename, body)
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/recipes/download_shopping_cart", h.Download)
}
