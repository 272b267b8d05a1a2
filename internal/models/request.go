package models

// ProcessPDFRequest accepts either a pdfId returned by an upload or a raw file URL.
type ProcessPDFRequest struct {
	PdfID        int64  `json:"pdfId,omitempty" example:"42"`
	FileURL      string `json:"fileUrl,omitempty" example:"https://example.supabase.co/storage/v1/object/public/pdfs/users/u/pdfs/brief.pdf"`
	DocumentType string `json:"documentType,omitempty" example:"marketing"`
}

// UploadCompleteRequest is the upload provider's completion payload.
type UploadCompleteRequest struct {
	Name       string           `json:"name"`
	URL        string           `json:"url"`
	ServerData UploadServerData `json:"serverData"`
}

// UploadServerData is the out-of-band input chosen by the user before upload.
type UploadServerData struct {
	DocumentType string `json:"documentType"`
}

type ChatRequest struct {
	Question string `json:"question" example:"Who is the target audience?"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}
