package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidsread/kidsread-api/internal/middleware"
	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/service"
	"github.com/kidsread/kidsread-api/pkg/response"
)

// EbookHandler wires reading catalogue endpoints.
type EbookHandler struct {
	service *service.EbookService
}

// NewEbookHandler constructs the handler.
func NewEbookHandler(svc *service.EbookService) *EbookHandler {
	return &EbookHandler{service: svc}
}

// List godoc
// @Summary List catalogue e-books
// @Tags Ebooks
// @Produce json
// @Param category_id query int false "Filter by category"
// @Param grade_id query int false "Filter by grade"
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Search in title and author"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /ebooks [get]
func (h *EbookHandler) List(c *gin.Context) {
	filter := models.EbookFilter{
		CategoryID: queryInt64Ptr(c, "category_id"),
		GradeID:    queryIntPtr(c, "grade_id"),
		Active:     queryBoolPtr(c, "active"),
		Search:     strings.TrimSpace(c.Query("search")),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	ebooks, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", ebooks, pagination)
}

// Get godoc
// @Summary Get one e-book
// @Tags Ebooks
// @Produce json
// @Param id path int true "Ebook ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ebooks/{id} [get]
func (h *EbookHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ctx, trace := service.WithCacheTrace(c.Request.Context())
	ebook, err := h.service.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if trace.Observed() {
		middleware.SetCacheHit(c, trace.Hit())
	}
	response.JSON(c, http.StatusOK, "", ebook, nil, middleware.Meta(c))
}

// Create godoc
// @Summary Add an e-book to the catalogue
// @Tags Ebooks
// @Accept json
// @Produce json
// @Param payload body service.EbookRequest true "Ebook payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /ebooks [post]
func (h *EbookHandler) Create(c *gin.Context) {
	var req service.EbookRequest
	if !bindJSON(c, &req, "invalid ebook payload") {
		return
	}
	ebook, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "ebook created", ebook)
}

// Update godoc
// @Summary Update an e-book
// @Tags Ebooks
// @Accept json
// @Produce json
// @Param id path int true "Ebook ID"
// @Param payload body service.EbookRequest true "Ebook payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ebooks/{id} [put]
func (h *EbookHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.EbookRequest
	if !bindJSON(c, &req, "invalid ebook payload") {
		return
	}
	ebook, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ebook updated", ebook)
}

// Delete godoc
// @Summary Deactivate an e-book
// @Tags Ebooks
// @Produce json
// @Param id path int true "Ebook ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ebooks/{id} [delete]
func (h *EbookHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
