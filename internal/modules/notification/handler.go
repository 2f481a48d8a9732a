package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/notify"
	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

const (
	defaultLimit = 20
	maxLimit     = notify.DefaultCapacity
)

// Handler отдаёт тосты, накопленные в workspace сессии.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/notifications")
	{
		g.GET("", h.GetNotifications)
		g.GET("/count", h.CountNotifications)
	}
}

// GetNotifications забирает (и удаляет) накопленные уведомления, старые первыми.
// @Summary		Уведомления
// @Tags		Notifications
// @Security	BearerAuth
// @Param		limit	query	int	false	"сколько забрать (1-50)"
// @Success		200	{object}	map[string]interface{}
// @Router		/notifications [GET]
func (h *Handler) GetNotifications(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit := defaultLimit
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = min(v, maxLimit)
		}
	}

	list := ws.Notices.Drain(limit)
	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"remaining":     ws.Notices.Len(),
	})
}

func (h *Handler) CountNotifications(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pending_count": ws.Notices.Len()})
}
