package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/apiclient"
	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes — всё публичное, сессия нужна только для премиум-доступа
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/catalog", h.Browse)

	lessons := v1.Group("/lessons")
	{
		lessons.GET("/featured", h.GetFeatured)
		lessons.GET("/:id", h.GetLesson)
		lessons.GET("/:id/related", h.GetRelated)
	}
}

// Browse handles GET /api/v1/catalog.
// Параметры запоминаются в сессии: страница не сбрасывается при смене фильтра.
func (h *Handler) Browse(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil {
		response.Error(c, http.StatusInternalServerError, "NO_WORKSPACE", "Workspace missing")
		return
	}

	var req BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.service.Browse(c.Request.Context(), ws, req.Query())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"lessons":    res.Items,
			"filter":     res.Filter,
			"categories": res.Categories,
			"tones":      res.Tones,
			"pagination": gin.H{
				"page":        res.Page,
				"limit":       res.PageSize,
				"total":       res.Total,
				"total_pages": res.TotalPages,
			},
		},
	})
}

// GetFeatured handles GET /api/v1/lessons/featured
func (h *Handler) GetFeatured(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil {
		response.Error(c, http.StatusInternalServerError, "NO_WORKSPACE", "Workspace missing")
		return
	}

	cards, err := h.service.Featured(c.Request.Context(), ws)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lessons": cards})
}

// GetLesson handles GET /api/v1/lessons/:id
func (h *Handler) GetLesson(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil {
		response.Error(c, http.StatusInternalServerError, "NO_WORKSPACE", "Workspace missing")
		return
	}

	d, err := h.service.Detail(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

// GetRelated handles GET /api/v1/lessons/:id/related
func (h *Handler) GetRelated(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil {
		response.Error(c, http.StatusInternalServerError, "NO_WORKSPACE", "Workspace missing")
		return
	}

	cards, err := h.service.Related(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lessons": cards})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLessonNotFound), errors.Is(err, apiclient.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lesson not found")
	default:
		response.Upstream(c, err)
	}
}
