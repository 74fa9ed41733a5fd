package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/report"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
	"github.com/kidsread/kidsread-api/pkg/export"
)

// ExportFormat enumerates supported report download formats.
type ExportFormat string

const (
	FormatPDF ExportFormat = "pdf"
	FormatCSV ExportFormat = "csv"
)

// ParseExportFormat validates a format query value.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatPDF, "":
		return FormatPDF, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}
}

type adviceReporter interface {
	Report(ctx context.Context, studentID int64, p report.Period) (*models.AdviceReport, error)
}

type csvRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportFile carries a rendered report ready to be written to the response.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders advice reports as downloadable documents.
type ExportService struct {
	advice adviceReporter
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(advice adviceReporter, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{advice: advice, csv: csv, pdf: pdf, logger: logger}
}

// Export generates the advice report and renders it in the requested format.
func (s *ExportService) Export(ctx context.Context, studentID int64, p report.Period, format ExportFormat) (*ExportFile, error) {
	adviceReport, err := s.advice.Report(ctx, studentID, p)
	if err != nil {
		return nil, err
	}

	doc := buildReportDocument(adviceReport)
	base := fmt.Sprintf("reading-report-%d-%s-%s", studentID, adviceReport.Period, time.Now().UTC().Format("20060102"))

	switch format {
	case FormatCSV:
		content, err := s.csv.Render(doc)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Content: content}, nil
	case FormatPDF:
		content, err := s.pdf.Render(doc)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}
}

func buildReportDocument(r *models.AdviceReport) export.Document {
	sum := r.LearningSummary
	cmp := r.ClassComparison
	fields := []export.Field{
		{Label: "Student", Value: r.StudentName},
		{Label: "Period", Value: fmt.Sprintf("%s (%s to %s)", r.Period, r.StartDate, r.EndDate)},
		{Label: "Total readings", Value: strconv.Itoa(sum.TotalReadings)},
		{Label: "Completed readings", Value: strconv.Itoa(sum.CompletedReadings)},
		{Label: "Average score", Value: formatFloat(sum.AverageScore)},
		{Label: "Average stars", Value: formatFloat(sum.AverageStars)},
		{Label: "Completion rate", Value: formatFloat(sum.CompletionRate) + "%"},
		{Label: "Pass rate", Value: formatFloat(sum.PassRate) + "%"},
		{Label: "Study time (hours)", Value: formatFloat(sum.TotalStudyTime)},
		{Label: "Improvement trend", Value: formatFloat(sum.ImprovementTrend)},
		{Label: "Best day", Value: sum.BestDay},
		{Label: "Best time slot", Value: sum.BestTimeSlot},
		{Label: "Class average", Value: formatFloat(cmp.ClassAverage)},
		{Label: "Class rank", Value: fmt.Sprintf("%d of %d", cmp.ClassRank, cmp.TotalClassmates)},
		{Label: "Percentile", Value: formatFloat(cmp.Percentile)},
	}

	var paragraphs []string
	for _, line := range strings.Split(r.Advice, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paragraphs = append(paragraphs, line)
	}

	return export.Document{
		Title:    fmt.Sprintf("Reading Report - %s", r.StudentName),
		Subtitle: fmt.Sprintf("%s period, %s to %s", r.Period, r.StartDate, r.EndDate),
		Fields:   fields,
		Sections: []export.Section{{Heading: "Advice", Paragraphs: paragraphs}},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
