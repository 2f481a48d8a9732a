package comment

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

// TokenWorkspaces resolves a session token passed outside the Authorization
// header (websocket clients cannot set headers).
type TokenWorkspaces interface {
	WorkspaceForToken(ctx context.Context, token string) (*workspace.Workspace, error)
}

type Handler struct {
	service *Service
	hub     *Hub
	tokens  TokenWorkspaces
}

func NewHandler(service *Service, hub *Hub, tokens TokenWorkspaces) *Handler {
	return &Handler{service: service, hub: hub, tokens: tokens}
}

// RegisterPublicRoutes — чтение комментариев и websocket-лента
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/lessons/:id/comments", h.List)
	v1.GET("/ws/comments", h.Stream)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/lessons/:id/comments", h.Create)
}

func (h *Handler) List(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil {
		response.Error(c, http.StatusInternalServerError, "NO_WORKSPACE", "Workspace missing")
		return
	}

	list, err := h.service.List(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		response.Upstream(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comments": list, "count": len(list)})
}

// Create добавляет комментарий. Комментарий сразу виден в ленте, при ошибке
// лента откатывается к прежнему состоянию.
// @Summary		Добавить комментарий
// @Tags		Comments
// @Security	BearerAuth
// @Param		id		path	string					true	"ID урока"
// @Param		request	body	CreateCommentRequest	true	"Текст"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/lessons/{id}/comments [POST]
func (h *Handler) Create(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	list, err := h.service.Submit(c.Request.Context(), ws, c.Param("id"), req.CommentText)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotSignedIn):
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		case errors.Is(err, ErrEmptyComment):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrSubmitInFlight):
			response.Error(c, http.StatusConflict, "IN_PROGRESS", err.Error())
		default:
			response.Upstream(c, err)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"comments": list, "count": len(list)})
}

// Stream handles GET /api/v1/ws/comments?lessonId=...&token=...
//
// Без токена лента открывается анонимно.
func (h *Handler) Stream(c *gin.Context) {
	lessonID := c.Query("lessonId")
	if lessonID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "lessonId is required")
		return
	}

	ws := workspace.FromGin(c)
	if token := c.Query("token"); token != "" {
		var err error
		ws, err = h.tokens.WorkspaceForToken(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}
	}
	if ws == nil {
		response.Error(c, http.StatusInternalServerError, "NO_WORKSPACE", "Workspace missing")
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, ws, lessonID); err != nil {
		// Upgrade уже ответил клиенту
		_ = c.Error(err)
	}
}
