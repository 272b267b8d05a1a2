package handlers

import (
	"errors"
	"io"
	"net/http"

	"campaign-studio-backend/internal/middleware"
	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for boundaries and the documentType field.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	intake   *services.IntakeService
	storage  *services.StorageService
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadHandler(intake *services.IntakeService, storage *services.StorageService, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		intake:   intake,
		storage:  storage,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload godoc
// @Summary     Upload a campaign PDF
// @Description Stores one PDF (max 32MB) and records it for the caller. The
// @Description returned pdfId can be passed straight to /pdfs/process.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file formData file true "PDF file"
// @Param       documentType formData string false "brand-voice, marketing, audience-data, press, series-bible, glossary, series-credits or other"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     415 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := h.intake.Authorize(userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !h.storage.Enabled() {
		respondError(c, h.logger, models.ErrServiceUnavailable)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file too large", Message: "maximum upload size is 32MB"})
			return
		}
		badRequest(c, "failed to parse multipart form")
		return
	}

	files := c.Request.MultipartForm.File["file"]
	if len(files) != 1 {
		badRequest(c, "exactly one file is required in field \"file\"")
		return
	}
	header := files[0]
	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file too large", Message: "maximum upload size is 32MB"})
		return
	}

	f, err := header.Open()
	if err != nil {
		badRequest(c, "failed to open uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, "failed to read uploaded file")
		return
	}
	if len(data) == 0 {
		badRequest(c, "uploaded file is empty")
		return
	}

	if contentType := http.DetectContentType(data); contentType != "application/pdf" {
		c.JSON(http.StatusUnsupportedMediaType, models.ErrorResponse{
			Error:   "unsupported file type",
			Message: "only PDF files are accepted, got " + contentType,
		})
		return
	}

	doc, err := h.storage.StorePDF(c.Request.Context(), userID, header.Filename, data, c.Request.FormValue("documentType"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		UploadedBy: userID,
		PdfID:      doc.ID,
		Name:       doc.Name,
		URL:        doc.URL,
	})
}

// Complete godoc
// @Summary     Record a completed upload
// @Description Callback for the upload provider once a file is stored. Creates
// @Description the PDF record owned by the caller.
// @Tags        upload
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UploadCompleteRequest true "Completed upload"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /uploads/complete [post]
func (h *UploadHandler) Complete(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := h.intake.Authorize(userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req models.UploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be a JSON object")
		return
	}

	doc, err := h.intake.Complete(c.Request.Context(), userID, services.CompletedUpload{
		Name:         req.Name,
		URL:          req.URL,
		DocumentType: req.ServerData.DocumentType,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		UploadedBy: userID,
		PdfID:      doc.ID,
	})
}
