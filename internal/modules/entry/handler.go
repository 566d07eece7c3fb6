package entry

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/core/internal/middleware"
	"github.com/moodtrack/core/internal/models"
	"github.com/moodtrack/core/internal/modules/analysis"
	"github.com/moodtrack/core/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/entries", h.create)
	r.GET("/entries", h.list)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	row, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toEntryResponse(*row))
}

func (h *Handler) list(c *gin.Context) {
	period, err := analysis.ParsePeriod(c.DefaultQuery("period", string(analysis.PeriodAll)))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows, pag, err := h.service.List(c.Request.Context(), middleware.CurrentUserID(c), period, time.Now(), listQueryFromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	out := make([]entryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toEntryResponse(row))
	}
	response.Paged(c, out, pag)
}

func toEntryResponse(row models.MoodEntryModel) entryResponse {
	return entryResponse{
		ID:          row.ID,
		Date:        row.Date,
		Mood:        row.Mood,
		Description: row.Description,
		Created:     row.CreatedAt,
	}
}
