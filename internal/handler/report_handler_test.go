package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/report"
	"github.com/kidsread/kidsread-api/internal/service"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type fakeAdviceSrv struct {
	reportResp *models.AdviceReport
	reportErr  error
	shortResp  *models.ShortAdvice
	shortErr   error
	lastPeriod report.Period
	lastID     int64
}

func (f *fakeAdviceSrv) Report(_ context.Context, studentID int64, p report.Period) (*models.AdviceReport, error) {
	f.lastID = studentID
	f.lastPeriod = p
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.reportResp, nil
}

func (f *fakeAdviceSrv) ShortReport(_ context.Context, studentID int64, p report.Period) (*models.ShortAdvice, error) {
	f.lastID = studentID
	f.lastPeriod = p
	if f.shortErr != nil {
		return nil, f.shortErr
	}
	return f.shortResp, nil
}

type testEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Error   *appErrors.Error       `json:"error"`
}

func performReportRequest(handler *ReportHandler, method func(*gin.Context), target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	method(c)
	return rec
}

func TestReportHandlerWeeklyRequiresStudentID(t *testing.T) {
	srv := &fakeAdviceSrv{}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Weekly, "/reports/advice/weekly")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Zero(t, srv.lastID)
}

func TestReportHandlerWeeklyPassesOffset(t *testing.T) {
	srv := &fakeAdviceSrv{reportResp: &models.AdviceReport{KidStudentID: 42, Period: "week"}}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Weekly, "/reports/advice/weekly?student_id=42&week_offset=-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), srv.lastID)
	assert.Equal(t, report.KindWeek, srv.lastPeriod.Kind)
	assert.Equal(t, -1, srv.lastPeriod.Offset)
}

func TestReportHandlerMonthlyPassesOffset(t *testing.T) {
	srv := &fakeAdviceSrv{reportResp: &models.AdviceReport{KidStudentID: 42, Period: "month"}}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Monthly, "/reports/advice/monthly?student_id=42&month_offset=-2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.KindMonth, srv.lastPeriod.Kind)
	assert.Equal(t, -2, srv.lastPeriod.Offset)
}

func TestReportHandlerCustomForwardsDates(t *testing.T) {
	srv := &fakeAdviceSrv{reportResp: &models.AdviceReport{KidStudentID: 42, Period: "custom"}}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Custom, "/reports/advice/custom?student_id=42&start_date=2024-05-01&end_date=2024-05-10")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.KindCustom, srv.lastPeriod.Kind)
	assert.Equal(t, "2024-05-01", srv.lastPeriod.StartDate)
	assert.Equal(t, "2024-05-10", srv.lastPeriod.EndDate)
}

func TestReportHandlerCustomValidationError(t *testing.T) {
	srv := &fakeAdviceSrv{reportErr: appErrors.Clone(appErrors.ErrValidation, "missing date")}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Custom, "/reports/advice/custom?student_id=42")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "missing date", envelope.Message)
}

func TestReportHandlerHistoryNotImplemented(t *testing.T) {
	srv := &fakeAdviceSrv{reportErr: appErrors.Clone(appErrors.ErrNotImplemented, "history reports are not available yet")}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.History, "/reports/advice/history?student_id=42")

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, report.KindHistory, srv.lastPeriod.Kind)
}

func TestReportHandlerShortDefaultsToWeek(t *testing.T) {
	srv := &fakeAdviceSrv{shortResp: &models.ShortAdvice{KidStudentID: 42, Period: "week"}}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Short, "/reports/advice/short?student_id=42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.KindWeek, srv.lastPeriod.Kind)
}

func TestReportHandlerShortRejectsUnknownPeriod(t *testing.T) {
	srv := &fakeAdviceSrv{shortResp: &models.ShortAdvice{}}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Short, "/reports/advice/short?student_id=42&period=decade")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, srv.lastID)
}

func TestReportHandlerStudentNotFound(t *testing.T) {
	srv := &fakeAdviceSrv{reportErr: appErrors.Clone(appErrors.ErrNotFound, "student not found")}
	handler := NewReportHandler(srv, nil)

	rec := performReportRequest(handler, handler.Monthly, "/reports/advice/monthly?student_id=9999")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "student not found", envelope.Message)
}

type fakeExportSrv struct {
	file       *service.ExportFile
	err        error
	lastFormat service.ExportFormat
}

func (f *fakeExportSrv) Export(_ context.Context, studentID int64, p report.Period, format service.ExportFormat) (*service.ExportFile, error) {
	f.lastFormat = format
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

func TestReportHandlerExportCSV(t *testing.T) {
	exportSrv := &fakeExportSrv{file: &service.ExportFile{
		Filename:    "reading-report-42-week.csv",
		ContentType: "text/csv",
		Content:     []byte("Metric,Value\n"),
	}}
	handler := NewReportHandler(&fakeAdviceSrv{}, exportSrv)

	rec := performReportRequest(handler, handler.Export, "/reports/advice/export?student_id=42&format=csv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.FormatCSV, exportSrv.lastFormat)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reading-report-42-week.csv")
}

func TestReportHandlerExportRejectsBadFormat(t *testing.T) {
	handler := NewReportHandler(&fakeAdviceSrv{}, &fakeExportSrv{})

	rec := performReportRequest(handler, handler.Export, "/reports/advice/export?student_id=42&format=xlsx")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
