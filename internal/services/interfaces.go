package services

import (
	"context"

	"campaign-studio-backend/internal/models"
)

// DocumentStore persists uploaded PDF records.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *models.UploadedDocument) error
	GetDocument(ctx context.Context, id int64) (*models.UploadedDocument, error)
	ListDocuments(ctx context.Context, userID string) ([]models.UploadedDocument, error)
}

// MarketingStrengthStore persists generation results.
type MarketingStrengthStore interface {
	CreateMarketingStrength(ctx context.Context, record *models.GeneratedMarketingStrength) error
	ListMarketingStrengths(ctx context.Context, userID string, limit int) ([]models.GeneratedMarketingStrength, error)
}

// EventPublisher pushes workflow events to subscribed clients. Best effort.
type EventPublisher interface {
	PublishUserEvent(userID, event string, payload map[string]interface{}) error
}

type TextExtractor interface {
	Extract(content []byte) (string, error)
}

type FileFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NopPublisher drops every event; used when Supabase is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishUserEvent(string, string, map[string]interface{}) error { return nil }
