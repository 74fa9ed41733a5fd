package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/service"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
	"github.com/kidsread/kidsread-api/pkg/response"
)

// FeedbackHandler wires feedback endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// List godoc
// @Summary List feedback entries
// @Tags Feedback
// @Produce json
// @Param user_id query int false "Filter by submitting user"
// @Param kid_student_id query int false "Filter by kid student"
// @Param status query string false "Filter by status (open, resolved)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	filter := models.FeedbackFilter{
		UserID:       queryInt64Ptr(c, "user_id"),
		KidStudentID: queryInt64Ptr(c, "kid_student_id"),
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "page_size", 20),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		typed := models.FeedbackStatus(status)
		filter.Status = &typed
	}

	entries, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", entries, pagination)
}

// Get godoc
// @Summary Get one feedback entry
// @Tags Feedback
// @Produce json
// @Param id path int true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback/{id} [get]
func (h *FeedbackHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	feedback, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", feedback)
}

// Create godoc
// @Summary Submit feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.CreateFeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateFeedbackRequest
	if !bindJSON(c, &req, "invalid feedback payload") {
		return
	}
	feedback, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "feedback submitted", feedback)
}

// Resolve godoc
// @Summary Mark feedback as resolved
// @Tags Feedback
// @Produce json
// @Param id path int true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /feedback/{id}/resolve [post]
func (h *FeedbackHandler) Resolve(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	feedback, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "feedback resolved", feedback)
}

// Delete godoc
// @Summary Delete a feedback entry
// @Tags Feedback
// @Produce json
// @Param id path int true "Feedback ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c *gin.Context) {
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
