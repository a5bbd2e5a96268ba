package interaction

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain"
	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Add returns a handler that marks the recipe in the URL with kind.
// @Router /recipes/{id}/favorite [post]
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) Add(kind domain.MarkKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, recipeID, ok := ids(c)
		if !ok {
			return
		}
		short, err := h.store.Add(c.Request.Context(), kind, userID, recipeID)
		if err != nil {
			writeError(c, err)
			return
		}
		logging.WithFields(c.Request.Context(), map[string]interface{}{
			"kind":      kind,
			"user_id":   userID,
			"recipe_id": recipeID,
		}).Info("recipe marked")
		response.Success(c, http.StatusCreated, short)
	}
}

// Remove returns a handler that clears the kind's mark on the recipe.
// @Router /recipes/{id}/favorite [delete]
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) Remove(kind domain.MarkKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, recipeID, ok := ids(c)
		if !ok {
			return
		}
		if err := h.store.Remove(c.Request.Context(), kind, userID, recipeID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func ids(c *gin.Context) (int64, int64, bool) {
	userID, _ := middleware.UserID(c)
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || recipeID <= 0 {
		response.NotFound(c, ErrRecipeNotFound.Error())
		return 0, 0, false
	}
	return userID, recipeID, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, ErrRecipeNotFound), errors.Is(err, ErrNotInList):
		response.NotFound(c, err.Error())
	default:
		_ = c.Error(err)
		response.Internal(c, "Failed to update list")
	}
}
