package favorite

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lifelessons/internal/pkg/response"
	"lifelessons/internal/workspace"
)

// Handler обрабатывает HTTP запросы для избранного
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes — рейтинг доступен без входа
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/favorites/most-saved", h.GetMostSaved)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me/favorites", h.GetMyFavorites)
}

// GetMostSaved возвращает три самых сохраняемых урока
//
// @Summary Самые сохраняемые уроки
// @Description Группирует всю коллекцию избранного по уроку и сортирует по количеству сохранений. Если коллекция пуста, возвращается статический список
// @Tags Favorite
// @Produce json
// @Success 200 {object} MostSavedResponse
// @Router /favorites/most-saved [get]
func (h *Handler) GetMostSaved(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil {
		response.Error(c, http.StatusInternalServerError, "NO_WORKSPACE", "Workspace missing")
		return
	}

	response.Success(c, http.StatusOK, MostSavedResponse{Lessons: h.service.MostSaved(c.Request.Context(), ws)})
}

// GetMyFavorites возвращает избранное текущего пользователя
//
// @Summary Получить список избранных уроков
// @Tags Favorite
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Элементов на страницу" default(20)
// @Success 200 {object} FavoriteListResponse
// @Failure 401 {object} map[string]interface{}
// @Router /me/favorites [get]
func (h *Handler) GetMyFavorites(c *gin.Context) {
	ws := workspace.FromGin(c)
	if ws == nil || ws.Anonymous() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	// Парсим pagination параметры
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	favs, err := h.service.Mine(c.Request.Context(), ws)
	if err != nil {
		if errors.Is(err, ErrNotSignedIn) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		response.Upstream(c, err)
		return
	}

	response.Success(c, http.StatusOK, ToFavoriteListResponse(favs, page, perPage))
}
