package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"campaign-studio-backend/internal/config"
	"campaign-studio-backend/internal/extractor"
	"campaign-studio-backend/internal/handlers"
	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/middleware"
	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

type scriptedLLM struct {
	respond func(req llm.Request) (string, error)
}

func (s *scriptedLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	return s.respond(req)
}

type memoryStore struct {
	mu        sync.Mutex
	nextID    int64
	docs      map[int64]models.UploadedDocument
	strengths []models.GeneratedMarketingStrength
	failWrite bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[int64]models.UploadedDocument{}}
}

func (m *memoryStore) CreateDocument(ctx context.Context, doc *models.UploadedDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("pq: connection refused")
	}
	m.nextID++
	doc.ID = m.nextID
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memoryStore) GetDocument(ctx context.Context, id int64) (*models.UploadedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &doc, nil
}

func (m *memoryStore) ListDocuments(ctx context.Context, userID string) ([]models.UploadedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UploadedDocument{}
	for id := int64(1); id <= m.nextID; id++ {
		if d, ok := m.docs[id]; ok && d.OwnerUserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateMarketingStrength(ctx context.Context, record *models.GeneratedMarketingStrength) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("pq: connection refused")
	}
	record.ID = int64(len(m.strengths) + 1)
	record.CreatedAt = time.Now()
	m.strengths = append(m.strengths, *record)
	return nil
}

func (m *memoryStore) ListMarketingStrengths(ctx context.Context, userID string, limit int) ([]models.GeneratedMarketingStrength, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GeneratedMarketingStrength
	for i := len(m.strengths) - 1; i >= 0 && len(out) < limit; i-- {
		if m.strengths[i].OwnerUserID == userID {
			out = append(out, m.strengths[i])
		}
	}
	return out, nil
}

type mapFetcher map[string][]byte

func (f mapFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if d, ok := f[url]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: status 404", models.ErrFileUnavailable)
}

type textExtractor struct{}

func (textExtractor) Extract(content []byte) (string, error) {
	if string(content) == "corrupt" {
		return "", fmt.Errorf("%w: malformed xref table", extractor.ErrExtraction)
	}
	return string(content), nil
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	fail    bool
}

func (s *memoryStorage) UploadPDF(userID, filename string, data []byte) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", "", errors.New("storage quota exceeded")
	}
	p := fmt.Sprintf("users/%s/pdfs/%d-%s", userID, len(s.objects)+1, filename)
	s.objects[p] = data
	return p, "https://proj.supabase.co/storage/v1/object/public/pdfs/" + p, nil
}

func (s *memoryStorage) DeleteFile(storagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storagePath)
	s.deleted = append(s.deleted, storagePath)
	return nil
}

type testServer struct {
	router  *gin.Engine
	store   *memoryStore
	fetcher mapFetcher
	storage *memoryStorage
}

type serverOptions struct {
	llm       func(req llm.Request) (string, error)
	processor services.DelegatedProcessor
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if opts.llm == nil {
		opts.llm = func(req llm.Request) (string, error) {
			return fmt.Sprintf("variation at %.1f", req.Temperature), nil
		}
	}

	logger := zap.NewNop()
	store := newMemoryStore()
	fetcher := mapFetcher{}
	storage := &memoryStorage{objects: map[string][]byte{}}
	client := &scriptedLLM{respond: opts.llm}

	analyzer := services.NewAnalyzer(client, services.DefaultAnalyzerConfig(), logger)
	generator := services.NewGenerator(client, store, nil, services.DefaultGeneratorConfig(), logger)
	pdfService := services.NewPDFService(store, fetcher, textExtractor{}, analyzer, nil, logger)
	chatService := services.NewChatService(pdfService, opts.processor, logger)
	intake := services.NewIntakeService(store, nil, logger)

	healthHandler := handlers.NewHealthHandler(nil, true)
	marketingHandler := handlers.NewMarketingHandler(generator, logger)
	pdfHandler := handlers.NewPDFHandler(pdfService, chatService, logger)
	uploadHandler := handlers.NewUploadHandler(intake, services.NewStorageService(storage, intake, logger), 32<<20, logger)

	cfg := &config.Config{SupabaseJWTSecret: testSecret}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		api.POST("/marketing-strengths", marketingHandler.Generate)
		api.GET("/marketing-strengths", marketingHandler.History)
		api.POST("/pdfs/process", pdfHandler.Process)
		api.GET("/pdfs", pdfHandler.List)
		api.GET("/pdfs/:pdf_id", pdfHandler.Get)
		api.POST("/pdfs/:pdf_id/chat", pdfHandler.Chat)
		api.POST("/uploads", uploadHandler.Upload)
		api.POST("/uploads/complete", uploadHandler.Complete)
	}

	return &testServer{router: router, store: store, fetcher: fetcher, storage: storage}
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// do sends body as JSON; a string body is sent verbatim.
func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedDocument(t *testing.T, owner, name string, content []byte) *models.UploadedDocument {
	t.Helper()
	url := "https://cdn.example.com/" + name
	doc := &models.UploadedDocument{
		Name:         name,
		URL:          url,
		DocumentType: models.DocumentTypeMarketing,
		OwnerUserID:  owner,
	}
	if err := s.store.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}
	if content != nil {
		s.fetcher[url] = content
	}
	return doc
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return out
}
