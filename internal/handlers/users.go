package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"stature-backend/internal/middleware"
	"stature-backend/internal/models"
)

// AccountManager is implemented by services.UserService.
type AccountManager interface {
	EnsureUser(ctx context.Context, uid, email string) (*models.User, error)
	Promote(ctx context.Context, uid string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type UsersHandler struct {
	users AccountManager
}

func NewUsersHandler(users AccountManager) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me godoc
// @Summary     Current account
// @Description Returns the caller's account, creating it on first call
// @Tags        users
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UserResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /me [get]
func (h *UsersHandler) Me(c *gin.Context) {
	user, err := h.users.EnsureUser(c.Request.Context(), middleware.GetUserID(c), middleware.GetUserEmail(c))
	if err != nil {
		respondError(c, err, "Failed to load account.")
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// ListUsers godoc
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.UserResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /users [get]
func (h *UsersHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch users.")
		return
	}

	out := make([]models.UserResponse, len(users))
	for i := range users {
		out[i] = models.NewUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, out)
}

// SetAdmin godoc
// @Summary     Promote a user to admin
// @Description One-way promotion. The user sees the new role after their token refreshes.
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SetAdminRequest true "User id"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /setAdmin [post]
func (h *UsersHandler) SetAdmin(c *gin.Context) {
	var req models.SetAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "UID is required."})
		return
	}

	if _, err := h.users.Promote(c.Request.Context(), req.UID); err != nil {
		respondError(c, err, "Failed to set admin.")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("Successfully made %s an admin.", req.UID)})
}
