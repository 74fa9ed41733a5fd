package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/report"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type fakeAdviceReporter struct {
	report *models.AdviceReport
	err    error
}

func (f *fakeAdviceReporter) Report(_ context.Context, _ int64, _ report.Period) (*models.AdviceReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func sampleAdviceReport() *models.AdviceReport {
	return &models.AdviceReport{
		KidStudentID: 42,
		StudentName:  "Mia Tan",
		Period:       string(report.KindWeek),
		StartDate:    "2024-05-13",
		EndDate:      "2024-05-19",
		LearningSummary: models.LearningSummary{
			TotalReadings: 10,
			AverageScore:  7.4,
		},
		Advice:      "Hi Mia!\n\nKeep reading every day.",
		GeneratedAt: time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC),
	}
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	format, err = ParseExportFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	_, err = ParseExportFormat("xlsx")
	require.Error(t, err)
	assert.Equal(t, "format must be pdf or csv", appErrors.FromError(err).Message)
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(&fakeAdviceReporter{report: sampleAdviceReport()}, nil, nil, nil)

	file, err := svc.Export(context.Background(), 42, report.Period{Kind: report.KindWeek}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, file.Filename, "reading-report-42-week-")

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Student", "Mia Tan"}, records[2])
	assert.Equal(t, []string{"Advice 1", "Hi Mia!"}, records[len(records)-2])
	assert.Equal(t, []string{"Advice 2", "Keep reading every day."}, records[len(records)-1])
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(&fakeAdviceReporter{report: sampleAdviceReport()}, nil, nil, nil)

	file, err := svc.Export(context.Background(), 42, report.Period{Kind: report.KindWeek}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestExportServicePropagatesReportError(t *testing.T) {
	notFound := appErrors.Clone(appErrors.ErrNotFound, "student not found")
	svc := NewExportService(&fakeAdviceReporter{err: notFound}, nil, nil, nil)

	_, err := svc.Export(context.Background(), 42, report.Period{Kind: report.KindWeek}, FormatPDF)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
