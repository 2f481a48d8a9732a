package lesson

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/apiclient"
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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/reports/reasons", h.GetReportReasons)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	lessons := protected.Group("/lessons")
	{
		lessons.GET("/:id/engagement", h.GetEngagement)
		lessons.POST("/:id/like", h.Like)
		lessons.POST("/:id/favorite", h.Favorite)
		lessons.POST("/:id/report", h.Report)
	}
}

func (h *Handler) GetReportReasons(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"reasons": domain.ReportReasons()})
}

func (h *Handler) GetEngagement(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	st, err := h.service.State(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Like ставит лайк уроку. Повторный лайк отклоняется без запроса к API.
// @Summary		Лайкнуть урок
// @Tags		Lessons
// @Security	BearerAuth
// @Param		id	path	string	true	"ID урока"
// @Success		200	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{} "Уже лайкнут"
// @Router		/lessons/{id}/like [POST]
func (h *Handler) Like(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	st, err := h.service.Like(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Favorite добавляет урок в избранное.
// @Summary		Добавить урок в избранное
// @Tags		Lessons
// @Security	BearerAuth
// @Param		id	path	string	true	"ID урока"
// @Success		200	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{} "Уже в избранном"
// @Router		/lessons/{id}/favorite [POST]
func (h *Handler) Favorite(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	st, err := h.service.Favorite(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) Report(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.service.Report(c.Request.Context(), ws, c.Param("id"), req.Reason); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": MsgReported})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotSignedIn):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, ErrAlreadyLiked):
		response.Error(c, http.StatusConflict, "ALREADY_LIKED", err.Error())
	case errors.Is(err, ErrAlreadyFavorited):
		response.Error(c, http.StatusConflict, "ALREADY_FAVORITED", err.Error())
	case errors.Is(err, apiclient.ErrConflict):
		response.Error(c, http.StatusConflict, "ALREADY_FAVORITED", MsgAlreadyFavorited)
	case errors.Is(err, ErrActionInFlight):
		response.Error(c, http.StatusConflict, "IN_PROGRESS", err.Error())
	case errors.Is(err, ErrInvalidReason):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REASON", err.Error(), gin.H{"reasons": domain.ReportReasons()})
	default:
		response.Upstream(c, err)
	}
}
