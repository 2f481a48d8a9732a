package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group that already enforces the admin role.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	users := admin.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PATCH("/:id/role", h.ToggleRole)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// ListUsers возвращает список пользователей для админки.
// @Summary		Пользователи
// @Tags		Admin
// @Security	BearerAuth
// @Param		refresh	query	bool	false	"перечитать список из бэкенда"
// @Success		200	{object}	UserListResponse
// @Failure		403	{object}	map[string]interface{}
// @Router		/admin/users [GET]
func (h *Handler) ListUsers(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	users, err := h.service.Users(c.Request.Context(), ws, req.Refresh)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toList(h.service.Manager(ws), users))
}

// ToggleRole переключает роль user <-> admin.
// @Summary		Сменить роль
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	string	true	"User ID"
// @Success		200	{object}	UserRowDTO
// @Failure		403	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Router		/admin/users/{id}/role [PATCH]
func (h *Handler) ToggleRole(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	u, err := h.service.ToggleRole(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toRow(h.service.Manager(ws), *u)})
}

// DeleteUser удаляет пользователя.
// @Summary		Удалить пользователя
// @Tags		Admin
// @Security	BearerAuth
// @Param		id	path	string	true	"User ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/users/{id} [DELETE]
func (h *Handler) DeleteUser(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), ws, id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotSignedIn):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	case errors.Is(err, ErrProtectedAccount):
		response.Error(c, http.StatusForbidden, "PROTECTED_ACCOUNT", err.Error())
	case errors.Is(err, ErrRowBusy):
		response.Error(c, http.StatusConflict, "ROW_BUSY", err.Error())
	default:
		response.Upstream(c, err)
	}
}
