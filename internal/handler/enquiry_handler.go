package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admissions-api/internal/models"
	"github.com/noah-isme/school-admissions-api/internal/service"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
	"github.com/noah-isme/school-admissions-api/pkg/response"
)

// EnquiryHandler exposes the enquiry lifecycle endpoints.
type EnquiryHandler struct {
	enquiries *service.EnquiryService
}

// NewEnquiryHandler constructs EnquiryHandler.
func NewEnquiryHandler(enquiries *service.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries}
}

// Create godoc
// @Summary Submit a new admission enquiry
// @Tags Enquiries
// @Accept json
// @Produce json
// @Param payload body service.CreateEnquiryRequest true "Enquiry payload"
// @Success 201 {object} response.Envelope
// @Router /enquiries [post]
func (h *EnquiryHandler) Create(c *gin.Context) {
	var req service.CreateEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enquiry, err := h.enquiries.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enquiry)
}

// Verify godoc
// @Summary Verify an enquiry number before admission
// @Tags Enquiries
// @Accept json
// @Produce json
// @Param payload body handler.VerifyEnquiryRequest true "Enquiry number"
// @Success 200 {object} response.Envelope
// @Router /enquiries/verify [post]
func (h *EnquiryHandler) Verify(c *gin.Context) {
	var req VerifyEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.enquiries.Verify(c.Request.Context(), req.EnquiryNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// VerifyEnquiryRequest carries the number to check.
type VerifyEnquiryRequest struct {
	EnquiryNumber string `json:"enquiry_number" binding:"required"`
}

// List godoc
// @Summary List enquiries
// @Tags Enquiries
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search student/parent/number"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enquiries [get]
func (h *EnquiryHandler) List(c *gin.Context) {
	var filter models.EnquiryFilter
	filter.Status = models.EnquiryStatus(c.Query("status"))
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	enquiries, pagination, err := h.enquiries.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiries, pagination)
}

// Get godoc
// @Summary Get an enquiry
// @Tags Enquiries
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id} [get]
func (h *EnquiryHandler) Get(c *gin.Context) {
	enquiry, err := h.enquiries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}

// UpdateStatus godoc
// @Summary Update enquiry status
// @Tags Enquiries
// @Accept json
// @Produce json
// @Param id path string true "Enquiry ID"
// @Param payload body service.UpdateEnquiryStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id}/status [put]
func (h *EnquiryHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateEnquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enquiry, err := h.enquiries.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}

// Delete godoc
// @Summary Delete an enquiry
// @Tags Enquiries
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 204
// @Router /enquiries/{id} [delete]
func (h *EnquiryHandler) Delete(c *gin.Context) {
	if err := h.enquiries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
