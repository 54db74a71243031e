package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
	"github.com/lifeng-edu/exam-duty-api/pkg/response"
)

type allocationService interface {
	Run(ctx context.Context, req dto.RunAllocationRequest) (*dto.RunSummary, error)
	LatestRun(ctx context.Context) (*dto.RunSummary, error)
	GetRun(ctx context.Context, id string) (*dto.RunSummary, error)
	ListAssignments(ctx context.Context, runID string, query dto.AssignmentQuery) ([]dto.AssignmentItem, *models.Pagination, error)
}

type csvExportService interface {
	RenderCSV(ctx context.Context, runID string) ([]byte, error)
}

// AllocationHandler exposes allocation runs and their duty tables.
type AllocationHandler struct {
	service allocationService
	exports csvExportService
}

// NewAllocationHandler builds a new handler.
func NewAllocationHandler(service allocationService, exports csvExportService) *AllocationHandler {
	return &AllocationHandler{service: service, exports: exports}
}

// Run godoc
// @Summary Execute an allocation run over the stored rosters
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body dto.RunAllocationRequest false "Run options"
// @Success 201 {object} response.Envelope
// @Router /allocations/run [post]
func (h *AllocationHandler) Run(c *gin.Context) {
	var req dto.RunAllocationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run payload"))
			return
		}
	}
	summary, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}

// Latest godoc
// @Summary Get the most recent allocation run
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allocations/latest [get]
func (h *AllocationHandler) Latest(c *gin.Context) {
	summary, err := h.service.LatestRun(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Get godoc
// @Summary Get one allocation run
// @Tags Allocations
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /allocations/{id} [get]
func (h *AllocationHandler) Get(c *gin.Context) {
	summary, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ListAssignments godoc
// @Summary List the duty table of a run
// @Tags Allocations
// @Produce json
// @Param id path string true "Run ID"
// @Param staff query string false "Filter by invigilator"
// @Param room query string false "Filter by room"
// @Param date query string false "Filter by date"
// @Param class query string false "Filter by class"
// @Param status query string false "Filter by status" Enums(ok, partial, unassigned)
// @Success 200 {object} response.Envelope
// @Router /allocations/{id}/assignments [get]
func (h *AllocationHandler) ListAssignments(c *gin.Context) {
	var query dto.AssignmentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment query"))
		return
	}
	items, pagination, err := h.service.ListAssignments(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// ExportCSV godoc
// @Summary Download the duty table of a run as CSV
// @Tags Allocations
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {string} string "CSV content"
// @Router /allocations/{id}/export.csv [get]
func (h *AllocationHandler) ExportCSV(c *gin.Context) {
	payload, err := h.exports.RenderCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="duty-table.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
