package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListIngredients returns the ingredient catalog, filtered by ?name= prefix.
// Not paginated: the frontend uses it for autocomplete.
func (h *Handler) ListIngredients(c *gin.Context) {
	items, err := h.service.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		_ = c.Error(err)
		response.Internal(c, "Failed to list ingredients")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, ErrIngredientNotFound.Error())
		return
	}
	ing, err := h.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrIngredientNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		_ = c.Error(err)
		response.Internal(c, "Failed to load ingredient")
		return
	}
	response.Success(c, http.StatusOK, ing)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Internal(c, "Failed to list tags")
		return
	}
	response.Success(c, http.StatusOK, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, ErrTagNotFound.Error())
		return
	}
	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		_ = c.Error(err)
		response.Internal(c, "Failed to load tag")
		return
	}
	response.Success(c, http.StatusOK, tag)
}
