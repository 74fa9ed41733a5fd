package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/report"
	"github.com/kidsread/kidsread-api/internal/service"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
	"github.com/kidsread/kidsread-api/pkg/response"
)

// ReadingHandler wires reading session endpoints.
type ReadingHandler struct {
	service *service.ReadingService
}

// NewReadingHandler constructs the handler.
func NewReadingHandler(svc *service.ReadingService) *ReadingHandler {
	return &ReadingHandler{service: svc}
}

// List godoc
// @Summary List reading sessions
// @Tags Readings
// @Produce json
// @Param kid_student_id query int false "Filter by kid student"
// @Param ebook_id query int false "Filter by e-book"
// @Param status query string false "Filter by status (in_progress, completed)"
// @Param date_from query string false "Only sessions on or after this date (YYYY-MM-DD)"
// @Param date_to query string false "Only sessions on or before this date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /readings [get]
func (h *ReadingHandler) List(c *gin.Context) {
	filter := models.ReadingFilter{
		KidStudentID: queryInt64Ptr(c, "kid_student_id"),
		EbookID:      queryInt64Ptr(c, "ebook_id"),
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", 20),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		typed := models.ReadingStatus(status)
		filter.Status = &typed
	}
	for name, dest := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		if raw := c.Query(name); raw != "" {
			parsed, err := time.Parse(report.DateLayout, raw)
			if err != nil {
				response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must use YYYY-MM-DD"))
				return
			}
			*dest = &parsed
		}
	}

	readings, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", readings, pagination)
}

// Get godoc
// @Summary Get one reading session
// @Tags Readings
// @Produce json
// @Param id path int true "Reading ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /readings/{id} [get]
func (h *ReadingHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	reading, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", reading)
}

// Create godoc
// @Summary Record a reading session
// @Tags Readings
// @Accept json
// @Produce json
// @Param payload body service.CreateReadingRequest true "Reading payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /readings [post]
func (h *ReadingHandler) Create(c *gin.Context) {
	var req service.CreateReadingRequest
	if !bindJSON(c, &req, "invalid reading payload") {
		return
	}
	reading, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "reading recorded", reading)
}

// Update godoc
// @Summary Update a reading session
// @Tags Readings
// @Accept json
// @Produce json
// @Param id path int true "Reading ID"
// @Param payload body service.UpdateReadingRequest true "Reading payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /readings/{id} [put]
func (h *ReadingHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateReadingRequest
	if !bindJSON(c, &req, "invalid reading payload") {
		return
	}
	reading, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "reading updated", reading)
}

// Delete godoc
// @Summary Delete a reading session
// @Tags Readings
// @Produce json
// @Param id path int true "Reading ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /readings/{id} [delete]
func (h *ReadingHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
