package services

import (
	"context"
	"fmt"

	"campaign-studio-backend/internal/models"

	"go.uber.org/zap"
)

// ObjectStore is the hosted bucket direct uploads are written to.
type ObjectStore interface {
	UploadPDF(userID, filename string, data []byte) (storagePath, publicURL string, err error)
	DeleteFile(storagePath string) error
}

// StorageService stores uploaded bytes and then records them through intake,
// so a direct upload ends in the same state as a provider callback.
type StorageService struct {
	store  ObjectStore
	intake *IntakeService
	logger *zap.Logger
}

func NewStorageService(store ObjectStore, intake *IntakeService, logger *zap.Logger) *StorageService {
	return &StorageService{store: store, intake: intake, logger: logger}
}

// Enabled reports whether an object store is configured.
func (s *StorageService) Enabled() bool {
	return s != nil && s.store != nil
}

// StorePDF uploads data for userID and creates its UploadedDocument. If the
// record cannot be created the stored object is removed again.
func (s *StorageService) StorePDF(ctx context.Context, userID, filename string, data []byte, documentType string) (*models.UploadedDocument, error) {
	if err := s.intake.Authorize(userID); err != nil {
		return nil, err
	}
	if !s.Enabled() {
		return nil, fmt.Errorf("%w: upload storage not configured", models.ErrServiceUnavailable)
	}

	storagePath, publicURL, err := s.store.UploadPDF(userID, filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store pdf: %w", err)
	}

	doc, err := s.intake.Complete(ctx, userID, CompletedUpload{
		Name:         filename,
		URL:          publicURL,
		DocumentType: documentType,
	})
	if err != nil {
		// Best-effort cleanup so a failed record does not leave an orphan.
		if delErr := s.store.DeleteFile(storagePath); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("storage_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.logger.Debug("pdf stored",
		zap.String("storage_path", storagePath),
		zap.Int("size", len(data)),
	)
	return doc, nil
}
