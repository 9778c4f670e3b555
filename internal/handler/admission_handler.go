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

// AdmissionHandler exposes the admission lifecycle endpoints.
type AdmissionHandler struct {
	admissions *service.AdmissionService
}

// NewAdmissionHandler constructs AdmissionHandler.
func NewAdmissionHandler(admissions *service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions}
}

// Create godoc
// @Summary Submit an admission application
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body service.CreateAdmissionRequest true "Admission payload"
// @Success 201 {object} response.Envelope
// @Router /admissions [post]
func (h *AdmissionHandler) Create(c *gin.Context) {
	var req service.CreateAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admission, err := h.admissions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admission)
}

// List godoc
// @Summary List admissions
// @Tags Admissions
// @Produce json
// @Param status query string false "Filter by status"
// @Param class query string false "Filter by class applied"
// @Param enquiryNumber query string false "Filter by enquiry number"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admissions [get]
func (h *AdmissionHandler) List(c *gin.Context) {
	filter := admissionFilterFromQuery(c)
	admissions, pagination, err := h.admissions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admissions, pagination)
}

// Get godoc
// @Summary Get an admission with academics and siblings
// @Tags Admissions
// @Produce json
// @Param id path string true "Admission ID"
// @Success 200 {object} response.Envelope
// @Router /admissions/{id} [get]
func (h *AdmissionHandler) Get(c *gin.Context) {
	admission, err := h.admissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admission, nil)
}

// UpdateStatus godoc
// @Summary Update admission status and numbering
// @Tags Admissions
// @Accept json
// @Produce json
// @Param id path string true "Admission ID"
// @Param payload body service.UpdateAdmissionStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /admissions/{id}/status [put]
func (h *AdmissionHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateAdmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admission, err := h.admissions.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admission, nil)
}

// Delete godoc
// @Summary Delete an admission
// @Tags Admissions
// @Produce json
// @Param id path string true "Admission ID"
// @Success 204
// @Router /admissions/{id} [delete]
func (h *AdmissionHandler) Delete(c *gin.Context) {
	if err := h.admissions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export admissions as CSV
// @Tags Admissions
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {string} string "CSV payload"
// @Router /admissions/export [get]
func (h *AdmissionHandler) Export(c *gin.Context) {
	filter := admissionFilterFromQuery(c)
	payload, err := h.admissions.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="admissions.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

func admissionFilterFromQuery(c *gin.Context) models.AdmissionFilter {
	var filter models.AdmissionFilter
	filter.Status = models.AdmissionStatus(c.Query("status"))
	filter.ClassApplied = c.Query("class")
	filter.EnquiryNumber = c.Query("enquiryNumber")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}
