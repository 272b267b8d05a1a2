package models

import (
	"strings"
	"time"
)

type DocumentType string

const (
	DocumentTypeBrandVoice    DocumentType = "brand-voice"
	DocumentTypeMarketing     DocumentType = "marketing"
	DocumentTypeAudienceData  DocumentType = "audience-data"
	DocumentTypePress         DocumentType = "press"
	DocumentTypeSeriesBible   DocumentType = "series-bible"
	DocumentTypeGlossary      DocumentType = "glossary"
	DocumentTypeSeriesCredits DocumentType = "series-credits"
	DocumentTypeOther         DocumentType = "other"
)

var documentTypes = map[DocumentType]bool{
	DocumentTypeBrandVoice:    true,
	DocumentTypeMarketing:     true,
	DocumentTypeAudienceData:  true,
	DocumentTypePress:         true,
	DocumentTypeSeriesBible:   true,
	DocumentTypeGlossary:      true,
	DocumentTypeSeriesCredits: true,
	DocumentTypeOther:         true,
}

// ParseDocumentType maps missing or unrecognized values to DocumentTypeOther.
func ParseDocumentType(raw string) DocumentType {
	dt := DocumentType(strings.ToLower(strings.TrimSpace(raw)))
	if documentTypes[dt] {
		return dt
	}
	return DocumentTypeOther
}

// UploadedDocument is a PDF stored by the upload provider and owned by one user.
type UploadedDocument struct {
	ID           int64
	Name         string
	URL          string
	DocumentType DocumentType
	OwnerUserID  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
