package handler

import (
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admissions-api/pkg/config"
	appErrors "github.com/noah-isme/school-admissions-api/pkg/errors"
	"github.com/noah-isme/school-admissions-api/pkg/response"
)

type uploadStore interface {
	Save(filename string, data []byte) (string, error)
}

// UploadHandler accepts applicant attachments (photos, birth certificates)
// ahead of form submission and returns the stored path to reference.
type UploadHandler struct {
	store  uploadStore
	cfg    config.UploadsConfig
	logger *zap.Logger
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(store uploadStore, cfg config.UploadsConfig, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{store: store, cfg: cfg, logger: logger}
}

// UploadedFile describes a stored attachment.
type UploadedFile struct {
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload godoc
// @Summary Upload an applicant attachment
// @Description Accepts multipart form field "file"; returns the stored path to use in photo_path / birth_certificate_path.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Attachment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "multipart field 'file' is required"))
		return
	}
	if header.Size > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file exceeds the maximum allowed size"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxFileSizeBytes+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	if int64(len(data)) > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file exceeds the maximum allowed size"))
		return
	}

	contentType := http.DetectContentType(data)
	if !h.allowed(contentType) {
		response.Error(c, appErrors.New("UNSUPPORTED_FILE_TYPE", http.StatusBadRequest, "file type "+contentType+" is not accepted"))
		return
	}

	stored := path.Join("attachments", uuid.NewString()+strings.ToLower(filepath.Ext(header.Filename)))
	relPath, err := h.store.Save(stored, data)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload"))
		return
	}

	h.logger.Info("attachment stored",
		zap.String("path", relPath),
		zap.String("content_type", contentType),
		zap.Int64("size", header.Size))

	response.Created(c, UploadedFile{
		Path:        relPath,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
	})
}

func (h *UploadHandler) allowed(contentType string) bool {
	if len(h.cfg.AllowedMIMEs) == 0 {
		return true
	}
	for _, mime := range h.cfg.AllowedMIMEs {
		if strings.EqualFold(mime, contentType) {
			return true
		}
	}
	return false
}
