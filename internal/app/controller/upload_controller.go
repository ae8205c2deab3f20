package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/internal/storage"
	"github.com/noirparfum/noir-backend/pkg/response"
)

type UploadController struct {
	store storage.ObjectStore
}

func NewUploadController(store storage.ObjectStore) *UploadController {
	return &UploadController{store: store}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // defaults to "uploads"
}

// UploadImage streams a multipart image to object storage
// POST /api/v1/admin/upload
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"file": "is required"})
		return
	}
	if header.Size > storage.MaxImageSize {
		respondError(c, storage.ErrFileTooLarge, "upload")
		return
	}

	file, err := header.Open()
	if err != nil {
		apperrors.InternalError(c, err)
		return
	}
	defer file.Close()

	// trust the bytes, not the client's Content-Type
	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		apperrors.InternalError(c, err)
		return
	}
	contentType := http.DetectContentType(sniff[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		apperrors.InternalError(c, err)
		return
	}

	result, err := ctrl.store.Upload(c.Request.Context(), c.PostForm("folder"), header.Filename, contentType, file, header.Size)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrFileTooLarge) {
			respondError(c, err, "upload")
			return
		}
		log.Error("Image upload failed", err, map[string]interface{}{
			"filename": header.Filename,
			"size":     header.Size,
		})
		apperrors.RespondWithCause(c, http.StatusBadGateway, apperrors.UploadFailed, "Could not store the image, please retry", err)
		return
	}

	response.Created(c, result)
}

// GeneratePresignedURL returns a URL the browser can PUT the image to
// POST /api/v1/admin/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	presigned, err := ctrl.store.PresignUpload(c.Request.Context(), req.Folder, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			respondError(c, err, "upload")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithCause(c, http.StatusBadGateway, apperrors.UploadFailed, "Could not prepare the upload, please retry", err)
		return
	}

	response.OK(c, presigned)
}
