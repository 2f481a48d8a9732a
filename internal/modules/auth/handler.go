package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/google", h.Google)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/auth/logout", h.Logout)
}

// Login входит по email и паролю.
// @Summary		Вход по email
// @Description	Проверяет email/пароль в бэкенде, открывает сессию и возвращает токен сессии.
// @Tags		Аутентификация
// @Param		request	body	LoginRequest	true	"email, password"
// @Success		200	{object}	SessionResponse
// @Failure		400	{object}	map[string]interface{}	"Ошибка валидации"
// @Failure		401	{object}	map[string]interface{}	"Неверный email или пароль"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		response.Upstream(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(res))
}

// Google открывает сессию по проверенному ID-токену Google.
// @Summary		Вход через Google
// @Tags		Аутентификация
// @Param		request	body	GoogleRequest	true	"idToken"
// @Success		200	{object}	SessionResponse
// @Failure		400	{object}	map[string]interface{}	"Ошибка валидации"
// @Failure		401	{object}	map[string]interface{}	"Токен не прошёл проверку"
// @Failure		503	{object}	map[string]interface{}	"Вход через Google выключен"
// @Router		/auth/google [POST]
func (h *Handler) Google(c *gin.Context) {
	var req GoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Google(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidIDToken):
			response.Error(c, http.StatusUnauthorized, "INVALID_ID_TOKEN", "Google sign-in could not be verified")
			return
		case errors.Is(err, ErrGoogleDisabled):
			response.Error(c, http.StatusServiceUnavailable, "GOOGLE_SIGNIN_DISABLED", "Google sign-in is not available")
			return
		}
		response.Upstream(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(res))
}

// Logout закрывает текущую сессию.
// @Summary		Выход
// @Tags		Аутентификация
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/auth/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), ws.Session.ID()); err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to close session")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Signed out"})
}

func toSessionResponse(res *LoginResult) SessionResponse {
	out := SessionResponse{
		Token:     res.Token,
		ExpiresAt: res.Session.ExpiresAt().UTC().Format(time.RFC3339),
	}
	if res.User != nil {
		out.User = toUserPublic(res.User)
	}
	if out.User.Email == "" {
		out.User.Email = res.Session.Email()
		out.User.Name = res.Session.DisplayName()
		out.User.Photo = res.Session.PhotoURL()
	}
	return out
}
