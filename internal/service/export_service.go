package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
	"github.com/lifeng-edu/exam-duty-api/pkg/export"
)

type dutyTableSource interface {
	DutyTable(ctx context.Context, runID string) ([]models.Assignment, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(title string, sheets []export.DutySheet) ([]byte, error)
}

var dutyTableHeaders = []string{
	"class", "subject", "examType", "date", "period", "room",
	"invigilator1", "invigilator2", "status", "reason",
}

// ExportService renders duty tables into downloadable files.
type ExportService struct {
	source  dutyTableSource
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(source dutyTableSource, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{source: source, csv: csv, pdf: pdf, metrics: metrics, logger: logger}
}

// RenderCSV produces the full duty table of a run as CSV.
func (s *ExportService) RenderCSV(ctx context.Context, runID string) ([]byte, error) {
	rows, err := s.source.DutyTable(ctx, runID)
	if err != nil {
		s.metrics.RecordExport(models.ExportFormatCSV, false)
		return nil, err
	}

	dataset := export.Dataset{Headers: dutyTableHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"class":        row.Class,
			"subject":      row.Subject,
			"examType":     row.ExamType,
			"date":         row.Date,
			"period":       row.Period,
			"room":         row.Room,
			"invigilator1": row.Invigilator1,
			"invigilator2": row.Invigilator2,
			"status":       row.Status,
			"reason":       row.Reason,
		})
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		s.metrics.RecordExport(models.ExportFormatCSV, false)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	s.metrics.RecordExport(models.ExportFormatCSV, true)
	return payload, nil
}

// RenderPDF produces printable duty sheets, one page per (timeslot, room)
// pair, covering every committed assignment of a run.
func (s *ExportService) RenderPDF(ctx context.Context, runID string) ([]byte, error) {
	rows, err := s.source.DutyTable(ctx, runID)
	if err != nil {
		s.metrics.RecordExport(models.ExportFormatPDF, false)
		return nil, err
	}

	type sheetKey struct {
		date, period, room string
	}
	index := make(map[sheetKey]int)
	var sheets []export.DutySheet
	for _, row := range rows {
		if row.Status == models.AssignmentStatusUnassigned || row.Room == "" {
			continue
		}
		key := sheetKey{date: row.Date, period: row.Period, room: row.Room}
		i, ok := index[key]
		if !ok {
			i = len(sheets)
			index[key] = i
			sheets = append(sheets, export.DutySheet{Date: row.Date, Period: row.Period, Room: row.Room})
		}
		sheets[i].Rows = append(sheets[i].Rows, export.DutyRow{
			Class:        row.Class,
			Subject:      row.Subject,
			ExamType:     row.ExamType,
			Invigilators: joinInvigilators(row.Invigilator1, row.Invigilator2),
			Status:       row.Status,
		})
	}
	if len(sheets) == 0 {
		s.metrics.RecordExport(models.ExportFormatPDF, false)
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "run has no committed assignments to print")
	}

	payload, err := s.pdf.Render("Invigilation Duty Roster", sheets)
	if err != nil {
		s.metrics.RecordExport(models.ExportFormatPDF, false)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	s.metrics.RecordExport(models.ExportFormatPDF, true)
	return payload, nil
}

// Render dispatches on the requested format.
func (s *ExportService) Render(ctx context.Context, runID, format string) ([]byte, string, error) {
	switch format {
	case models.ExportFormatCSV:
		payload, err := s.RenderCSV(ctx, runID)
		return payload, fmt.Sprintf("duty-table-%s.csv", runID), err
	case models.ExportFormatPDF:
		payload, err := s.RenderPDF(ctx, runID)
		return payload, fmt.Sprintf("duty-sheets-%s.pdf", runID), err
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func joinInvigilators(first, second string) string {
	names := make([]string, 0, 2)
	if first != "" {
		names = append(names, first)
	}
	if second != "" {
		names = append(names, second)
	}
	return strings.Join(names, ", ")
}
