// Package extractor turns PDF bytes into plain text.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction wraps every failure to read text out of a PDF.
var ErrExtraction = errors.New("pdf extraction failed")

type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Extract returns the document text with pages separated by blank lines.
// Corrupt or non-PDF input yields ErrExtraction instead of a panic.
func (e *PDFExtractor) Extract(content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty content", ErrExtraction)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\x00\t\r\n "), []byte("%PDF-")) {
		return "", fmt.Errorf("%w: missing PDF header", ErrExtraction)
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}
