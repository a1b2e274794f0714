package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type UserHandler struct {
	log   *logger.Logger
	users services.UserService
}

func NewUserHandler(log *logger.Logger, users services.UserService) *UserHandler {
	return &UserHandler{
		log:   log.With("handler", "UserHandler"),
		users: users,
	}
}

// GET /api/users?role=
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		users []services.UserView
		err   error
	)
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		role, ok := types.ParseRole(raw)
		if !ok {
			response.RespondError(c, http.StatusBadRequest, "invalid_role", errors.New("unknown role"))
			return
		}
		users, err = h.users.ByRole(ctx, role)
	} else {
		users, err = h.users.List(ctx)
	}
	if err != nil {
		h.log.Error("List users failed", "error", err)
		response.RespondServiceError(c, "load_users_failed", err)
		return
	}
	if users == nil {
		users = []services.UserView{}
	}
	response.RespondOK(c, gin.H{"users": users})
}

type setRolesRequest struct {
	Roles []types.Role `json:"roles"`
}

// PUT /api/users/:id/roles
func (h *UserHandler) SetRoles(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req setRolesRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.SetRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		response.RespondServiceError(c, "set_roles_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
