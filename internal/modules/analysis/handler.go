package analysis

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/core/internal/middleware"
	"github.com/moodtrack/core/internal/pkg/response"
)

// Handler exposes analysis rows and a manual pipeline trigger.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/analysis", h.list)
	r.POST("/analysis/run", h.run)
}

func (h *Handler) list(c *gin.Context) {
	period, err := ParsePeriod(c.DefaultQuery("period", string(PeriodAll)))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows, err := h.service.Records(c.Request.Context(), middleware.CurrentUserID(c), period, time.Now())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

type runRequest struct {
	Period string `json:"period"`
}

// run triggers the pipeline for the caller synchronously. Scheduled runs go
// through the cron jobs; this exists for debugging and backfill.
func (h *Handler) run(c *gin.Context) {
	var req runRequest
	_ = c.ShouldBindJSON(&req) // body is optional
	if req.Period == "" {
		req.Period = string(PeriodDaily)
	}
	period, err := ParsePeriod(req.Period)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err = h.service.RunPipeline(c.Request.Context(), middleware.CurrentUserID(c), period, time.Now())
	if errors.Is(err, ErrEmptyWindow) {
		response.OK(c, gin.H{"status": "skipped", "reason": "no entries in window"})
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"status": "completed", "period": string(period)})
}
