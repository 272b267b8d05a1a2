package services_test

import (
	"context"
	"testing"

	"campaign-studio-backend/internal/llm"
	"campaign-studio-backend/internal/models"
	"campaign-studio-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pdfFixture struct {
	docs    *memoryDocs
	fetcher *fakeFetcher
	llm     *fakeLLM
	events  *recordingPublisher
	svc     *services.PDFService
}

func newPDFFixture(respond func(llm.Request) (string, error)) *pdfFixture {
	f := &pdfFixture{
		docs:    newMemoryDocs(),
		fetcher: &fakeFetcher{data: map[string][]byte{}},
		llm:     &fakeLLM{respond: respond},
		events:  &recordingPublisher{},
	}
	analyzer := services.NewAnalyzer(f.llm, services.DefaultAnalyzerConfig(), zap.NewNop())
	f.svc = services.NewPDFService(f.docs, f.fetcher, fakeExtractor{}, analyzer, f.events, zap.NewNop())
	return f
}

func (f *pdfFixture) addDoc(t *testing.T, owner, name, url string, content []byte) *models.UploadedDocument {
	t.Helper()
	doc := &models.UploadedDocument{
		Name:         name,
		URL:          url,
		DocumentType: models.DocumentTypeMarketing,
		OwnerUserID:  owner,
	}
	require.NoError(t, f.docs.CreateDocument(context.Background(), doc))
	if content != nil {
		f.fetcher.data[url] = content
	}
	return doc
}

func TestPDFService_GetDocumentOwnership(t *testing.T) {
	f := newPDFFixture(nil)
	doc := f.addDoc(t, "user-a", "brief.pdf", "https://cdn.example.com/a.pdf", nil)

	got, err := f.svc.GetDocument(context.Background(), "user-a", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.URL, got.URL)

	_, err = f.svc.GetDocument(context.Background(), "user-b", doc.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.GetDocument(context.Background(), "user-a", 999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.GetDocument(context.Background(), "", doc.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestPDFService_ListDocumentsScopedToUser(t *testing.T) {
	f := newPDFFixture(nil)
	f.addDoc(t, "user-a", "one.pdf", "https://cdn.example.com/1.pdf", nil)
	f.addDoc(t, "user-b", "two.pdf", "https://cdn.example.com/2.pdf", nil)

	docs, err := f.svc.ListDocuments(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "one.pdf", docs[0].Name)
}

func TestPDFService_ProcessByID(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	doc := f.addDoc(t, "user-a", "brief.pdf", "https://cdn.example.com/a.pdf", []byte("Campaign brief for Law And Order"))

	result, err := f.svc.ProcessByID(context.Background(), "user-a", doc.ID)
	require.NoError(t, err)

	assert.Equal(t, doc.ID, result.PdfID)
	assert.Equal(t, "brief.pdf", result.FileName)
	assert.Equal(t, "Campaign brief for Law And Order", result.ExtractedText)
	assert.False(t, result.Analysis.Degraded)
	assert.Equal(t, "Women", result.Analysis.Parameters.Gender)
	assert.Equal(t, []string{"analysis_completed"}, f.events.names())
}

func TestPDFService_ProcessByIDForbiddenForOtherUser(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	doc := f.addDoc(t, "user-a", "brief.pdf", "https://cdn.example.com/a.pdf", []byte("text"))

	_, err := f.svc.ProcessByID(context.Background(), "user-b", doc.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Empty(t, f.llm.calls())
}

func TestPDFService_ProcessDegradedAnalysisStillSucceeds(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return "no json here", nil })
	doc := f.addDoc(t, "user-a", "brief.pdf", "https://cdn.example.com/a.pdf", []byte("text"))

	result, err := f.svc.ProcessByID(context.Background(), "user-a", doc.ID)
	require.NoError(t, err)
	assert.True(t, result.Analysis.Degraded)
	assert.Equal(t, models.DefaultCampaignParameters(), result.Analysis.Parameters)
	assert.Equal(t, []string{"analysis_degraded"}, f.events.names())
}

func TestPDFService_ProcessMissingFile(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	doc := f.addDoc(t, "user-a", "brief.pdf", "https://cdn.example.com/gone.pdf", nil)

	_, err := f.svc.ProcessByID(context.Background(), "user-a", doc.ID)
	assert.ErrorIs(t, err, models.ErrFileUnavailable)
	assert.Empty(t, f.llm.calls())
}

func TestPDFService_ProcessExtractionFailure(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	doc := f.addDoc(t, "user-a", "brief.pdf", "https://cdn.example.com/a.pdf", []byte("corrupt"))

	_, err := f.svc.ProcessByID(context.Background(), "user-a", doc.ID)
	assert.ErrorIs(t, err, errCorrupt)
	assert.Empty(t, f.llm.calls())
}

func TestPDFService_ProcessURL(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	doc := f.addDoc(t, "user-a", "media-kit.pdf", "https://cdn.example.com/files/media-kit.pdf", []byte("media kit"))

	result, err := f.svc.ProcessURL(context.Background(), "user-a", " https://cdn.example.com/files/media-kit.pdf ", "press")
	require.NoError(t, err)
	assert.Equal(t, "media-kit.pdf", result.FileName)
	assert.Equal(t, doc.ID, result.PdfID)

	calls := f.llm.calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "Document Type: press")
}

func TestPDFService_ProcessURLUsesStoredTypeByDefault(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	f.addDoc(t, "user-a", "brief.pdf", "https://cdn.example.com/a.pdf", []byte("brief"))

	_, err := f.svc.ProcessURL(context.Background(), "user-a", "https://cdn.example.com/a.pdf", "")
	require.NoError(t, err)

	calls := f.llm.calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "Document Type: marketing")
}

func TestPDFService_ProcessURLForbiddenForOtherUser(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	url := "https://example.supabase.co/storage/v1/object/public/pdfs/users/alice/pdfs/brief.pdf"
	doc := f.addDoc(t, "alice", "brief.pdf", url, []byte("ALICE CONFIDENTIAL BRIEF"))

	_, err := f.svc.ProcessByID(context.Background(), "bob", doc.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	result, err := f.svc.ProcessURL(context.Background(), "bob", url, "marketing")
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Nil(t, result)
	assert.Empty(t, f.fetcher.fetched)
	assert.Empty(t, f.llm.calls())
	assert.Empty(t, f.events.names())
}

func TestPDFService_ProcessURLRefusesUnregisteredURL(t *testing.T) {
	f := newPDFFixture(func(llm.Request) (string, error) { return validAnalysis, nil })
	f.fetcher.data["http://169.254.169.254/latest/meta-data"] = []byte("secret")

	_, err := f.svc.ProcessURL(context.Background(), "user-a", "http://169.254.169.254/latest/meta-data", "")
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Empty(t, f.fetcher.fetched)
}

func TestPDFService_ProcessURLRejectsRelative(t *testing.T) {
	f := newPDFFixture(nil)

	_, err := f.svc.ProcessURL(context.Background(), "user-a", "/files/media-kit.pdf", "")

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fileUrl", verr.Fields[0].Field)
}
