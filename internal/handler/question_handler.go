package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/service"
	"github.com/kidsread/kidsread-api/pkg/response"
)

// QuestionHandler wires quiz question endpoints.
type QuestionHandler struct {
	service *service.QuestionService
}

// NewQuestionHandler constructs the handler.
func NewQuestionHandler(svc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: svc}
}

// List godoc
// @Summary List quiz questions
// @Tags Questions
// @Produce json
// @Param ebook_id query int false "Filter by e-book"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	filter := models.QuestionFilter{
		EbookID:  queryInt64Ptr(c, "ebook_id"),
		Active:   queryBoolPtr(c, "active"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}

	questions, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", questions, pagination)
}

// Get godoc
// @Summary Get one quiz question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /questions/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	question, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", question)
}

// Create godoc
// @Summary Create a quiz question
// @Tags Questions
// @Accept json
// @Produce json
// @Param payload body service.QuestionRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	var req service.QuestionRequest
	if !bindJSON(c, &req, "invalid question payload") {
		return
	}
	question, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "question created", question)
}

// Update godoc
// @Summary Update a quiz question
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param payload body service.QuestionRequest true "Question payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /questions/{id} [put]
func (h *QuestionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.QuestionRequest
	if !bindJSON(c, &req, "invalid question payload") {
		return
	}
	question, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "question updated", question)
}

// Delete godoc
// @Summary Delete a quiz question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /questions/{id} [delete]
func (h *QuestionHandler) Delete(c *gin.Context) {
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
