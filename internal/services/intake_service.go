package services

import (
	"context"
	"fmt"
	"strings"

	"campaign-studio-backend/internal/models"

	"go.uber.org/zap"
)

// CompletedUpload is what the upload provider reports once a file is stored.
type CompletedUpload struct {
	Name         string
	URL          string
	DocumentType string
}

// IntakeService records uploads so the client can chain into analysis by id.
type IntakeService struct {
	docs   DocumentStore
	events EventPublisher
	logger *zap.Logger
}

func NewIntakeService(docs DocumentStore, events EventPublisher, logger *zap.Logger) *IntakeService {
	if events == nil {
		events = NopPublisher{}
	}
	return &IntakeService{docs: docs, events: events, logger: logger}
}

// Authorize runs before a file is accepted.
func (s *IntakeService) Authorize(userID string) error {
	if userID == "" {
		return models.ErrUnauthorized
	}
	return nil
}

// Complete creates the UploadedDocument for userID. A store failure is terminal.
func (s *IntakeService) Complete(ctx context.Context, userID string, upload CompletedUpload) (*models.UploadedDocument, error) {
	if err := s.Authorize(userID); err != nil {
		return nil, err
	}

	verr := &models.ValidationError{}
	if strings.TrimSpace(upload.Name) == "" {
		verr.Fields = append(verr.Fields, models.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(upload.URL) == "" {
		verr.Fields = append(verr.Fields, models.FieldError{Field: "url", Message: "is required"})
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	if s.docs == nil {
		return nil, fmt.Errorf("%w: document store not configured", models.ErrPersistence)
	}

	doc := &models.UploadedDocument{
		Name:         upload.Name,
		URL:          upload.URL,
		DocumentType: models.ParseDocumentType(upload.DocumentType),
		OwnerUserID:  userID,
	}
	if err := s.docs.CreateDocument(ctx, doc); err != nil {
		s.logger.Error("failed to save pdf record",
			zap.String("user_id", userID),
			zap.String("name", upload.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}

	s.logger.Info("pdf upload recorded",
		zap.Int64("pdf_id", doc.ID),
		zap.String("user_id", userID),
		zap.String("document_type", string(doc.DocumentType)),
	)
	if err := s.events.PublishUserEvent(userID, "pdf_uploaded", map[string]interface{}{
		"pdf_id":        doc.ID,
		"name":          doc.Name,
		"document_type": string(doc.DocumentType),
	}); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event", "pdf_uploaded"), zap.Error(err))
	}

	return doc, nil
}
