package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/models"
)

type fakeLLM struct {
	mu       sync.Mutex
	requests []llm.Request
	respond  func(req llm.Request) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeLLM) calls() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

type memoryDocs struct {
	mu     sync.Mutex
	nextID int64
	docs   map[int64]models.UploadedDocument
	err    error
}

func newMemoryDocs() *memoryDocs {
	return &memoryDocs{docs: make(map[int64]models.UploadedDocument)}
}

func (m *memoryDocs) CreateDocument(ctx context.Context, doc *models.UploadedDocument) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	doc.ID = m.nextID
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memoryDocs) GetDocument(ctx context.Context, id int64) (*models.UploadedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &doc, nil
}

func (m *memoryDocs) ListDocuments(ctx context.Context, userID string) ([]models.UploadedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UploadedDocument
	for _, d := range m.docs {
		if d.OwnerUserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

type memoryStrengths struct {
	mu      sync.Mutex
	records []models.GeneratedMarketingStrength
	err     error
}

func (m *memoryStrengths) CreateMarketingStrength(ctx context.Context, record *models.GeneratedMarketingStrength) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = int64(len(m.records) + 1)
	record.CreatedAt = time.Now()
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryStrengths) ListMarketingStrengths(ctx context.Context, userID string, limit int) ([]models.GeneratedMarketingStrength, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GeneratedMarketingStrength
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].OwnerUserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

type recordedEvent struct {
	UserID  string
	Event   string
	Payload map[string]interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingPublisher) PublishUserEvent(userID, event string, payload map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Event: event, Payload: payload})
	return nil
}

func (r *recordingPublisher) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Event
	}
	return out
}

type fakeFetcher struct {
	data    map[string][]byte
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.fetched = append(f.fetched, url)
	if d, ok := f.data[url]; ok {
		return d, nil
	}
	return nil, models.ErrFileUnavailable
}

var errCorrupt = errors.New("corrupt")

type fakeExtractor struct{}

// Extract treats the bytes as the text; "corrupt" input fails.
func (fakeExtractor) Extract(content []byte) (string, error) {
	if string(content) == "corrupt" {
		return "", errCorrupt
	}
	return string(content), nil
}
