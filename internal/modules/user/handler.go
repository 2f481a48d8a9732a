package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/domain"
	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	me := protected.Group("/me")
	{
		me.GET("", h.GetMe)
		me.GET("/lessons", h.GetMyLessons)
		me.GET("/profile", h.GetProfile)
		me.PATCH("/profile", h.UpdateProfile)
	}
}

// GetMe возвращает запись пользователя текущей сессии.
// Если пользователя ещё нет в бэкенде, он создаётся.
// @Summary		Текущий пользователь
// @Tags		Me
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Router		/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	u, err := h.service.Resolve(c.Request.Context(), ws)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) GetMyLessons(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	lessons, err := h.service.Lessons(c.Request.Context(), ws)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}
	response.Success(c, http.StatusOK, gin.H{"lessons": lessons, "count": len(lessons)})
}

func (h *Handler) GetProfile(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	p, err := h.service.Profile(c.Request.Context(), ws)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// UpdateProfile меняет имя и/или фото.
// @Summary		Обновить профиль
// @Tags		Me
// @Security	BearerAuth
// @Param		request	body	UpdateProfileRequest	true	"userName / userImage"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/me/profile [PATCH]
func (h *Handler) UpdateProfile(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.UserName == nil && req.UserImage == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Nothing to update")
		return
	}

	var (
		u   *domain.User
		err error
	)
	if req.UserName != nil {
		if u, err = h.service.UpdateName(c.Request.Context(), ws, *req.UserName); err != nil {
			h.writeError(c, err)
			return
		}
	}
	if req.UserImage != nil {
		if u, err = h.service.UpdatePhoto(c.Request.Context(), ws, *req.UserImage); err != nil {
			h.writeError(c, err)
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotSignedIn):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, ErrEmptyName), errors.Is(err, ErrEmptyPhoto):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNoUserID):
		response.Error(c, http.StatusConflict, "USER_NOT_PROVISIONED", err.Error())
	default:
		response.Upstream(c, err)
	}
}
