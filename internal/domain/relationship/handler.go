package relationship

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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

// Subscribe godoc
// @Summary Follow an author
// @Tags Users
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes per author"
// @Success 201 {object} map[string]interface{}
// @Router /users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	userID, authorID, ok := h.ids(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), userID, authorID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sub)
}

// Unsubscribe godoc
// @Summary Unfollow an author
// @Tags Users
// @Security BearerAuth
// @Param id path int true "Author ID"
// @Success 204
// @Router /users/{id}/subscribe [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	userID, authorID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.service.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions godoc
// @Summary Authors the caller follows
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	result, err := h.service.ListSubscriptions(c.Request.Context(), userID, pagination.FromQuery(c, h.pageSize), limit)
	if err != nil {
		_ = c.Error(err)
		response.Internal(c, "Failed to list subscriptions")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ids(c *gin.Context) (int64, int64, bool) {
	userID, _ := middleware.UserID(c)
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "Author not found")
		return 0, 0, false
	}
	return userID, authorID, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCannotSubscribeSelf):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(),
			validator.Details(validator.NewError("author", err.Error())))
	case errors.Is(err, ErrAlreadySubscribed):
		response.Error(c, http.StatusBadRequest, "ALREADY_SUBSCRIBED", err.Error())
	case errors.Is(err, ErrAuthorNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ErrNotSubscribed):
		response.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		response.Internal(c, "Failed to update subscription")
	}
}

// recipesLimit parses ?recipes_limit=; absent means no limit.
func recipesLimit(c *gin.Context) (*int, bool) {
	raw, present := c.GetQuery("recipes_limit")
	if !present || raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipes_limit",
			validator.Details(validator.NewError("recipes_limit", "must be a non-negative integer")))
		return nil, false
	}
	return &n, true
}
