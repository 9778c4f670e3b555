package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admissions-api/internal/service"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
	"github.com/noah-isme/school-admissions-api/pkg/response"
)

// DocumentHandler exposes admit-card and approval-letter generation.
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Generate godoc
// @Summary Generate an admit card or admission approval letter
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body service.GenerateDocumentRequest true "Document request"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /documents/generate [post]
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req service.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	doc, err := h.documents.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// Download godoc
// @Summary Download a generated document via signed token
// @Tags Documents
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /documents/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.documents.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat document"))
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+info.Name()+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}
