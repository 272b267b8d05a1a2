package models

import "time"

type GenerateResponse struct {
	Strengths []string          `json:"strengths"`
	ID        int64             `json:"id"`
	Variants  []VariantResponse `json:"variants"`
}

type VariantResponse struct {
	Temperature float32 `json:"temperature"`
	Succeeded   bool    `json:"succeeded"`
}

type MarketingStrengthResponse struct {
	ID         int64              `json:"id"`
	Parameters CampaignParameters `json:"campaignParameters"`
	Outputs    []string           `json:"outputs"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type MarketingStrengthHistoryResponse struct {
	History []MarketingStrengthResponse `json:"history"`
}

type ProcessPDFResponse struct {
	PdfID         int64              `json:"pdfId,omitempty"`
	FileName      string             `json:"fileName"`
	ExtractedText string             `json:"extractedText"`
	AnalyzedData  CampaignParameters `json:"analyzedData"`
}

type PDFResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PDFListResponse struct {
	PDFs []PDFResponse `json:"pdfs"`
}

type UploadResponse struct {
	UploadedBy string `json:"uploadedBy"`
	PdfID      int64  `json:"pdfId"`
	Name       string `json:"name,omitempty"`
	URL        string `json:"url,omitempty"`
}

type ChatResponse struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources,omitempty"`
	ProcessingTime float64  `json:"processingTime,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

func NewPDFResponse(doc *UploadedDocument) PDFResponse {
	return PDFResponse{
		ID:        doc.ID,
		Name:      doc.Name,
		URL:       doc.URL,
		Type:      string(doc.DocumentType),
		UserID:    doc.OwnerUserID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func NewMarketingStrengthResponse(g *GeneratedMarketingStrength) MarketingStrengthResponse {
	outputs := g.Outputs()
	return MarketingStrengthResponse{
		ID:         g.ID,
		Parameters: g.Parameters,
		Outputs:    outputs[:],
		CreatedAt:  g.CreatedAt,
	}
}
