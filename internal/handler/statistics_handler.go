package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/pkg/response"
)

type statisticsService interface {
	StaffStats(ctx context.Context, runID string) ([]dto.StaffDutyStat, error)
	RoomStats(ctx context.Context, runID string) ([]dto.RoomUsageStat, error)
	AbnormalDuties(ctx context.Context, runID string) ([]dto.AbnormalDuty, error)
}

// StatisticsHandler exposes duty statistics. The optional runId query param
// targets a specific run; the default is the latest one.
type StatisticsHandler struct {
	service statisticsService
}

// NewStatisticsHandler builds a new handler.
func NewStatisticsHandler(service statisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// StaffStats godoc
// @Summary Per-staff duty counts, busiest first
// @Tags Statistics
// @Produce json
// @Param runId query string false "Run ID (defaults to latest)"
// @Success 200 {object} response.Envelope
// @Router /statistics/staff [get]
func (h *StatisticsHandler) StaffStats(c *gin.Context) {
	stats, err := h.service.StaffStats(c.Request.Context(), c.Query("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// RoomStats godoc
// @Summary Per-room usage counts, busiest first
// @Tags Statistics
// @Produce json
// @Param runId query string false "Run ID (defaults to latest)"
// @Success 200 {object} response.Envelope
// @Router /statistics/rooms [get]
func (h *StatisticsHandler) RoomStats(c *gin.Context) {
	stats, err := h.service.RoomStats(c.Request.Context(), c.Query("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Abnormal godoc
// @Summary Staff with more than one duty on a single date
// @Tags Statistics
// @Produce json
// @Param runId query string false "Run ID (defaults to latest)"
// @Success 200 {object} response.Envelope
// @Router /statistics/abnormal [get]
func (h *StatisticsHandler) Abnormal(c *gin.Context) {
	findings, err := h.service.AbnormalDuties(c.Request.Context(), c.Query("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, findings, nil)
}
