package pdfsearch

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Method identifies which extraction path produced document text.
type Method string

const (
	MethodText Method = "text_extraction"
	MethodOCR  Method = "ocr"
)

// TextExtractor turns raw PDF bytes into searchable text. Implementations
// fall back to OCR on their own when native extraction yields nothing; the
// returned method tells callers which path produced the text.
type TextExtractor interface {
	Extract(data []byte) (string, Method, error)
}

// OCRFunc recognizes text in a rendered document. Wired in externally;
// scanned invoices have no text layer at all.
type OCRFunc func(data []byte) (string, error)

// Extractor reads the PDF text layer natively and defers to an optional OCR
// collaborator when the document has none.
type Extractor struct {
	OCR OCRFunc
}

// Extract implements TextExtractor.
func (e *Extractor) Extract(data []byte) (string, Method, error) {
	text, err := nativeText(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, MethodText, nil
	}

	if e.OCR == nil {
		if err != nil {
			return "", MethodText, fmt.Errorf("failed to extract PDF text: %w", err)
		}
		return "", MethodText, fmt.Errorf("PDF has no text layer and no OCR fallback is configured")
	}

	ocrText, ocrErr := e.OCR(data)
	if ocrErr != nil {
		return "", MethodOCR, fmt.Errorf("OCR fallback failed: %w", ocrErr)
	}
	return ocrText, MethodOCR, nil
}

func nativeText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return sb.String(), nil
}
