package summary

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/core/internal/middleware"
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
	r.GET("/summaries/:period", h.get)
}

func (h *Handler) get(c *gin.Context) {
	period, err := analysis.ParsePeriod(c.Param("period"))
	if err != nil || period == analysis.PeriodAll {
		response.BadRequest(c, "period must be daily or weekly")
		return
	}

	body, err := h.service.Fetch(c.Request.Context(), middleware.CurrentUserID(c), period, time.Now())
	if errors.Is(err, ErrObjectNotFound) {
		response.NotFoundMsg(c, "no summary for this period yet")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}
