package handlers

import (
	"net/http"
	"strconv"

	"campaign-studio-backend/internal/middleware"
	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PDFHandler struct {
	pdfs   *services.PDFService
	chat   *services.ChatService
	logger *zap.Logger
}

func NewPDFHandler(pdfs *services.PDFService, chat *services.ChatService, logger *zap.Logger) *PDFHandler {
	return &PDFHandler{pdfs: pdfs, chat: chat, logger: logger}
}

// Process godoc
// @Summary     Extract and analyze a PDF
// @Description Downloads a stored PDF, extracts its text and asks the model for
// @Description campaign parameters. Send the pdfId returned by an upload, or a
// @Description fileUrl of one of the caller's uploads with an optional documentType.
// @Description Other URLs are refused with 403. If the model output is
// @Description unusable the default parameters are returned.
// @Tags        pdfs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ProcessPDFRequest true "PDF to process"
// @Success     200 {object} models.ProcessPDFResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     410 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /pdfs/process [post]
func (h *PDFHandler) Process(c *gin.Context) {
	var req models.ProcessPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be a JSON object")
		return
	}

	userID := middleware.UserID(c)
	var (
		result *services.ProcessResult
		err    error
	)
	switch {
	case req.PdfID > 0:
		result, err = h.pdfs.ProcessByID(c.Request.Context(), userID, req.PdfID)
	case req.FileURL != "":
		result, err = h.pdfs.ProcessURL(c.Request.Context(), userID, req.FileURL, req.DocumentType)
	default:
		err = models.NewValidationError("pdfId", "pdfId or fileUrl is required")
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.ProcessPDFResponse{
		PdfID:         result.PdfID,
		FileName:      result.FileName,
		ExtractedText: result.ExtractedText,
		AnalyzedData:  result.Analysis.Parameters,
	})
}

// List godoc
// @Summary     List uploaded PDFs
// @Tags        pdfs
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.PDFListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /pdfs [get]
func (h *PDFHandler) List(c *gin.Context) {
	docs, err := h.pdfs.ListDocuments(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]models.PDFResponse, len(docs))
	for i := range docs {
		out[i] = models.NewPDFResponse(&docs[i])
	}
	c.JSON(http.StatusOK, models.PDFListResponse{PDFs: out})
}

// Get godoc
// @Summary     Get an uploaded PDF record
// @Tags        pdfs
// @Produce     json
// @Security    Bearer
// @Param       pdf_id path int true "PDF ID"
// @Success     200 {object} models.PDFResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /pdfs/{pdf_id} [get]
func (h *PDFHandler) Get(c *gin.Context) {
	id, ok := pdfIDParam(c)
	if !ok {
		return
	}

	doc, err := h.pdfs.GetDocument(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.NewPDFResponse(doc))
}

// Chat godoc
// @Summary     Ask a question about a PDF
// @Description Forwards the question and the PDF location to the document
// @Description processing service.
// @Tags        pdfs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       pdf_id path int true "PDF ID"
// @Param       request body models.ChatRequest true "Question"
// @Success     200 {object} models.ChatResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /pdfs/{pdf_id}/chat [post]
func (h *PDFHandler) Chat(c *gin.Context) {
	id, ok := pdfIDParam(c)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be a JSON object")
		return
	}

	resp, err := h.chat.Ask(c.Request.Context(), middleware.UserID(c), id, req.Question)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Answer:         resp.Answer,
		Sources:        resp.Sources,
		ProcessingTime: resp.ProcessingTime,
	})
}

func pdfIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("pdf_id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid pdf id")
		return 0, false
	}
	return id, true
}
