package recipe

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// List godoc
// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs, any-of"
// @Param is_favorited query int false "1 to list only favorites"
// @Param is_in_shopping_cart query int false "1 to list only cart recipes"
// @Success 200 {object} map[string]interface{}
// @Router /recipes [get]
func (h *Handler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	viewerID, _ := middleware.UserID(c)

	result, err := h.service.List(c.Request.Context(), viewerID, filter, pagination.FromQuery(c, h.pageSize))
	if err != nil {
		_ = c.Error(err)
		response.Internal(c, "Failed to list recipes")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Get godoc
// @Summary Recipe detail
// @Tags Recipes
// @Param id path int true "Recipe ID"
// @Success 200 {object} View
// @Router /recipes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	viewerID, _ := middleware.UserID(c)

	view, err := h.service.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		h.writeError(c, err, "Failed to load recipe")
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Create godoc
// @Summary Publish a recipe
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Param body body WriteRequest true "Recipe"
// @Success 201 {object} View
// @Router /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	var req WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}
	userID, _ := middleware.UserID(c)

	view, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err, "Failed to create recipe")
		return
	}
	logging.WithFields(c.Request.Context(), map[string]interface{}{
		"recipe_id": view.ID,
		"author_id": userID,
	}).Info("recipe created")
	response.Success(c, http.StatusCreated, view)
}

// Update godoc
// @Summary Replace a recipe
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param body body WriteRequest true "Recipe"
// @Success 200 {object} View
// @Router /recipes/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}
	userID, _ := middleware.UserID(c)

	view, err := h.service.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.writeError(c, err, "Failed to update recipe")
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Delete godoc
// @Summary Delete a recipe
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Router /recipes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete recipe")
		return
	}
	userID, _ := middleware.UserID(c)
	logging.WithFields(c.Request.Context(), map[string]interface{}{
		"recipe_id": id,
		"user_id":   userID,
	}).Info("recipe deleted")
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var ve *validator.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe", validator.Details(ve))
	case errors.Is(err, ErrRecipeNotFound):
		response.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		response.Internal(c, fallback)
	}
}

func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c, ErrRecipeNotFound.Error())
		return 0, false
	}
	return id, true
}

// parseFilter reads the list query. tags may repeat (?tags=a&tags=b) or be
// comma separated.
func parseFilter(c *gin.Context) (Filter, bool) {
	var f Filter

	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid filter",
				validator.Details(validator.NewError("author", "must be a user id")))
			return f, false
		}
		f.AuthorID = &id
	}

	for _, raw := range c.QueryArray("tags") {
		for _, slug := range strings.Split(raw, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				f.TagSlugs = append(f.TagSlugs, slug)
			}
		}
	}

	f.IsFavorited = truthy(c.Query("is_favorited"))
	f.IsInShoppingCart = truthy(c.Query("is_in_shopping_cart"))
	return f, true
}

func truthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
