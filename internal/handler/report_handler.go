package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kidsread/kidsread-api/internal/middleware"
	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/report"
	"github.com/kidsread/kidsread-api/internal/service"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
	"github.com/kidsread/kidsread-api/pkg/response"
)

type adviceService interface {
	Report(ctx context.Context, studentID int64, p report.Period) (*models.AdviceReport, error)
	ShortReport(ctx context.Context, studentID int64, p report.Period) (*models.ShortAdvice, error)
}

type reportExportService interface {
	Export(ctx context.Context, studentID int64, p report.Period, format service.ExportFormat) (*service.ExportFile, error)
}

// ReportHandler wires the advice report endpoints.
type ReportHandler struct {
	advice adviceService
	export reportExportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(advice adviceService, export reportExportService) *ReportHandler {
	return &ReportHandler{advice: advice, export: export}
}

// Weekly godoc
// @Summary Weekly reading advice report
// @Tags Reports
// @Produce json
// @Param student_id query int true "Kid student ID"
// @Param week_offset query int false "Week offset relative to the current week, e.g. -1 for last week"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/advice/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	h.serveReport(c, report.Week(queryInt(c, "week_offset", 0)))
}

// Monthly godoc
// @Summary Monthly reading advice report
// @Tags Reports
// @Produce json
// @Param student_id query int true "Kid student ID"
// @Param month_offset query int false "Month offset relative to the current month"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/advice/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	h.serveReport(c, report.Month(queryInt(c, "month_offset", 0)))
}

// Yearly godoc
// @Summary Yearly reading advice report
// @Tags Reports
// @Produce json
// @Param student_id query int true "Kid student ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/advice/yearly [get]
func (h *ReportHandler) Yearly(c *gin.Context) {
	h.serveReport(c, report.Year())
}

// Custom godoc
// @Summary Reading advice report for a custom date range
// @Tags Reports
// @Produce json
// @Param student_id query int true "Kid student ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/advice/custom [get]
func (h *ReportHandler) Custom(c *gin.Context) {
	h.serveReport(c, report.Custom(c.Query("start_date"), c.Query("end_date")))
}

// History godoc
// @Summary Historical advice reports
// @Tags Reports
// @Produce json
// @Param student_id query int true "Kid student ID"
// @Success 501 {object} response.Envelope
// @Router /reports/advice/history [get]
func (h *ReportHandler) History(c *gin.Context) {
	h.serveReport(c, report.Period{Kind: report.KindHistory})
}

// Short godoc
// @Summary Short one-line reading advice
// @Tags Reports
// @Produce json
// @Param student_id query int true "Kid student ID"
// @Param period query string false "Period kind: week, month or year (default week)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/advice/short [get]
func (h *ReportHandler) Short(c *gin.Context) {
	studentID, err := studentIDQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	kind, err := report.ParseKind(c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.advice.ShortReport(c.Request.Context(), studentID, report.Period{Kind: kind})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "short advice generated", result)
}

// Export godoc
// @Summary Download an advice report as PDF or CSV
// @Tags Reports
// @Produce application/pdf,text/csv
// @Param student_id query int true "Kid student ID"
// @Param period query string false "Period kind: week, month, year or custom (default week)"
// @Param week_offset query int false "Week offset when period is week"
// @Param month_offset query int false "Month offset when period is month"
// @Param start_date query string false "Start date for custom periods (YYYY-MM-DD)"
// @Param end_date query string false "End date for custom periods (YYYY-MM-DD)"
// @Param format query string false "Export format: pdf or csv (default pdf)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/advice/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	studentID, err := studentIDQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.export.Export(c.Request.Context(), studentID, period, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *ReportHandler) serveReport(c *gin.Context, p report.Period) {
	studentID, err := studentIDQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx, trace := service.WithCacheTrace(c.Request.Context())
	result, err := h.advice.Report(ctx, studentID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	if trace.Observed() {
		middleware.SetCacheHit(c, trace.Hit())
	}
	response.JSON(c, http.StatusOK, "advice report generated", result, nil, middleware.Meta(c))
}

func studentIDQuery(c *gin.Context) (int64, error) {
	raw := c.Query("student_id")
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "student_id must be a positive integer")
	}
	return id, nil
}

func periodFromQuery(c *gin.Context) (report.Period, error) {
	kind, err := report.ParseKind(c.Query("period"))
	if err != nil {
		return report.Period{}, err
	}
	switch kind {
	case report.KindWeek:
		return report.Week(queryInt(c, "week_offset", 0)), nil
	case report.KindMonth:
		return report.Month(queryInt(c, "month_offset", 0)), nil
	case report.KindYear:
		return report.Year(), nil
	case report.KindCustom:
		return report.Custom(c.Query("start_date"), c.Query("end_date")), nil
	default:
		return report.Period{Kind: kind}, nil
	}
}
