package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"campaign-studio-backend/internal/models"

	"go.uber.org/zap"
)

// ProcessResult is the outcome of fetch -> extract -> analyze for one PDF.
type ProcessResult struct {
	PdfID         int64
	FileName      string
	ExtractedText string
	Analysis      AnalysisResult
}

// PDFService owns the PDF side of the workflow: record lookup with ownership
// checks, byte retrieval, text extraction and parameter analysis.
type PDFService struct {
	docs      DocumentStore
	fetcher   FileFetcher
	extractor TextExtractor
	analyzer  *Analyzer
	events    EventPublisher
	logger    *zap.Logger
}

func NewPDFService(docs DocumentStore, fetcher FileFetcher, extractor TextExtractor, analyzer *Analyzer, events EventPublisher, logger *zap.Logger) *PDFService {
	if events == nil {
		events = NopPublisher{}
	}
	return &PDFService{
		docs:      docs,
		fetcher:   fetcher,
		extractor: extractor,
		analyzer:  analyzer,
		events:    events,
		logger:    logger,
	}
}

// GetDocument returns the record only if userID owns it.
func (s *PDFService) GetDocument(ctx context.Context, userID string, id int64) (*models.UploadedDocument, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if s.docs == nil {
		return nil, fmt.Errorf("%w: document store not configured", models.ErrPersistence)
	}

	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	if doc.OwnerUserID != userID {
		return nil, models.ErrForbidden
	}
	return doc, nil
}

func (s *PDFService) ListDocuments(ctx context.Context, userID string) ([]models.UploadedDocument, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}
	if s.docs == nil {
		return nil, fmt.Errorf("%w: document store not configured", models.ErrPersistence)
	}

	docs, err := s.docs.ListDocuments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	return docs, nil
}

// ProcessByID analyzes a previously uploaded PDF owned by userID.
func (s *PDFService) ProcessByID(ctx context.Context, userID string, pdfID int64) (*ProcessResult, error) {
	doc, err := s.GetDocument(ctx, userID, pdfID)
	if err != nil {
		return nil, err
	}

	result, err := s.process(ctx, userID, doc.URL, doc.Name, doc.DocumentType)
	if err != nil {
		return nil, err
	}
	result.PdfID = doc.ID
	return result, nil
}

// ProcessURL analyzes a PDF by its stored URL. The URL must belong to one of
// userID's uploaded documents; anything else is refused before a fetch.
func (s *PDFService) ProcessURL(ctx context.Context, userID, fileURL, documentType string) (*ProcessResult, error) {
	if userID == "" {
		return nil, models.ErrUnauthorized
	}

	raw := strings.TrimSpace(fileURL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, models.NewValidationError("fileUrl", "must be an absolute http(s) URL")
	}

	doc, err := s.documentByURL(ctx, userID, raw, u.String())
	if err != nil {
		return nil, err
	}

	docType := doc.DocumentType
	if strings.TrimSpace(documentType) != "" {
		docType = models.ParseDocumentType(documentType)
	}

	result, err := s.process(ctx, userID, doc.URL, doc.Name, docType)
	if err != nil {
		return nil, err
	}
	result.PdfID = doc.ID
	return result, nil
}

// documentByURL finds the caller's record for a file URL. URLs outside the
// caller's documents, including other users' files, are forbidden.
func (s *PDFService) documentByURL(ctx context.Context, userID string, candidates ...string) (*models.UploadedDocument, error) {
	docs, err := s.ListDocuments(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		for _, c := range candidates {
			if docs[i].URL == c {
				return &docs[i], nil
			}
		}
	}

	s.logger.Warn("refused to process unowned file url",
		zap.String("user_id", userID),
		zap.String("file_url", candidates[0]),
	)
	return nil, models.ErrForbidden
}

func (s *PDFService) process(ctx context.Context, userID, fileURL, fileName string, documentType models.DocumentType) (*ProcessResult, error) {
	data, err := s.fetcher.Fetch(ctx, fileURL)
	if err != nil {
		s.logger.Warn("failed to fetch pdf",
			zap.String("user_id", userID),
			zap.String("file_name", fileName),
			zap.Error(err),
		)
		return nil, err
	}

	text, err := s.extractor.Extract(data)
	if err != nil {
		s.logger.Warn("failed to extract pdf text",
			zap.String("user_id", userID),
			zap.String("file_name", fileName),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("pdf text extracted",
		zap.String("file_name", fileName),
		zap.Int("text_length", len(text)),
	)

	analysis := s.analyzer.AnalyzeDetailed(ctx, text, documentType)

	event := "analysis_completed"
	payload := map[string]interface{}{
		"file_name":     fileName,
		"document_type": string(documentType),
	}
	if analysis.Degraded {
		event = "analysis_degraded"
		payload["stage"] = analysis.Stage
	}
	if err := s.events.PublishUserEvent(userID, event, payload); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event", event), zap.Error(err))
	}

	return &ProcessResult{
		FileName:      fileName,
		ExtractedText: text,
		Analysis:      analysis,
	}, nil
}
