package services

import (
	"context"
	"fmt"
	"strings"

	"campaign-studio-backend/internal/langchain"
	"campaign-studio-backend/internal/models"

	"go.uber.org/zap"
)

// DelegatedProcessor answers questions about a stored PDF.
type DelegatedProcessor interface {
	ProcessPDF(ctx context.Context, in langchain.ProcessRequest) (*langchain.ProcessResponse, error)
	RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error
}

// ChatService forwards questions about an owned PDF to the delegated service.
type ChatService struct {
	pdfs      *PDFService
	processor DelegatedProcessor
	logger    *zap.Logger
}

func NewChatService(pdfs *PDFService, processor DelegatedProcessor, logger *zap.Logger) *ChatService {
	return &ChatService{pdfs: pdfs, processor: processor, logger: logger}
}

func (s *ChatService) Ask(ctx context.Context, userID string, pdfID int64, question string) (*langchain.ProcessResponse, error) {
	if s.processor == nil {
		return nil, fmt.Errorf("%w: delegated processing service not configured", models.ErrServiceUnavailable)
	}
	if strings.TrimSpace(question) == "" {
		return nil, models.NewValidationError("question", "is required")
	}

	doc, err := s.pdfs.GetDocument(ctx, userID, pdfID)
	if err != nil {
		return nil, err
	}

	var resp *langchain.ProcessResponse
	err = s.processor.RetryWithBackoff(ctx, func() error {
		var err error
		resp, err = s.processor.ProcessPDF(ctx, langchain.ProcessRequest{
			PdfURL:   doc.URL,
			PdfName:  doc.Name,
			PdfType:  string(doc.DocumentType),
			UserID:   userID,
			Question: question,
		})
		return err
	}, 3)
	if err != nil {
		s.logger.Error("delegated pdf processing failed",
			zap.Int64("pdf_id", pdfID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to process pdf: %w", err)
	}

	return resp, nil
}
