package auth

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

// Handler manages HTTP interactions for users and tokens
type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// Register creates a new account.
// @Router /users [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "User already exists",
				validator.Details(validator.NewError("email", "a user with this email already exists")))
		case errors.Is(err, ErrUsernameAlreadyExists):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "User already exists",
				validator.Details(validator.NewError("username", "a user with this username already exists")))
		default:
			_ = c.Error(err)
			response.Internal(c, "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// Login issues an access token.
// @Router /auth/token/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Unable to log in with provided credentials")
			return
		}
		_ = c.Error(err)
		response.Internal(c, "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"auth_token": token})
}

// List returns users, paginated, with is_subscribed relative to the caller.
// @Router /users [get]
func (h *Handler) List(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)
	result, err := h.service.ListUsers(c.Request.Context(), viewerID, pagination.FromQuery(c, h.pageSize))
	if err != nil {
		_ = c.Error(err)
		response.Internal(c, "Failed to list users")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// @Router /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}
	viewerID, _ := middleware.UserID(c)

	user, err := h.service.GetUser(c.Request.Context(), viewerID, id)
	h.writeUser(c, user, err)
}

// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.service.Me(c.Request.Context(), userID)
	h.writeUser(c, user, err)
}

func (h *Handler) writeUser(c *gin.Context, user *UserDetail, err error) {
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		_ = c.Error(err)
		response.Internal(c, "Failed to load user")
		return
	}
	response.Success(c, http.StatusOK, user)
}

// @Router /users/set_password [post]
func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.service.SetPassword(c.Request.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid password",
				validator.Details(validator.NewError("current_password", err.Error())))
		case errors.Is(err, ErrSamePassword):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid password",
				validator.Details(validator.NewError("new_password", err.Error())))
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(c, "User not found")
		default:
			_ = c.Error(err)
			response.Internal(c, "Failed to change password")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes a user and everything they own. Admin only.
// @Router /users/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		_ = c.Error(err)
		response.Internal(c, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
