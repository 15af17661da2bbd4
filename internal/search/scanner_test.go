package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/dzieju/dzieju-app2/internal/pdfsearch"
)

// stubExtractor treats the attachment bytes as the extracted text, so each
// test attachment carries its own document content.
type stubExtractor struct {
	method pdfsearch.Method
	err    error
}

func (s stubExtractor) Extract(data []byte) (string, pdfsearch.Method, error) {
	if s.err != nil {
		return "", s.method, s.err
	}
	return string(data), s.method, nil
}

func newTestScanner(method pdfsearch.Method, err error) *Scanner {
	return NewScanner(stubExtractor{method: method, err: err}, nil)
}

func staticAttachments(atts ...Attachment) AttachmentLister {
	return func() ([]Attachment, error) { return atts, nil }
}

func pdfAttachment(name, text string) Attachment {
	return Attachment{
		Filename: name,
		Content:  func() ([]byte, error) { return []byte(text), nil },
	}
}

func TestScanEmptySearchTextCheckedFirst(t *testing.T) {
	touched := false
	msg := &Message{
		HasAttachments: true,
		Attachments: func() ([]Attachment, error) {
			touched = true
			return nil, errors.New("must not be called")
		},
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "")
	if out.Tag != OutcomeNoSearchText {
		t.Errorf("Tag = %q, want %q", out.Tag, OutcomeNoSearchText)
	}
	if out.Found {
		t.Error("Found = true for empty search text")
	}
	if touched {
		t.Error("attachment list materialized despite empty search text")
	}
}

func TestScanNoAttachmentsFlagSkipsList(t *testing.T) {
	touched := false
	msg := &Message{
		HasAttachments: false,
		Attachments: func() ([]Attachment, error) {
			touched = true
			return nil, errors.New("must not be called")
		},
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "5732475751")
	if out.Tag != OutcomeNoAttachmentsFlag {
		t.Errorf("Tag = %q, want %q", out.Tag, OutcomeNoAttachmentsFlag)
	}
	if touched {
		t.Error("attachment list accessed despite has-attachments=false")
	}
}

func TestScanAttachmentsNotLoaded(t *testing.T) {
	tests := []struct {
		name   string
		lister AttachmentLister
	}{
		{"empty list", staticAttachments()},
		{"absent accessor", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{HasAttachments: true, Attachments: tt.lister}
			out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "5732475751")
			if out.Tag != OutcomeAttachmentsNotLoaded {
				t.Errorf("Tag = %q, want %q", out.Tag, OutcomeAttachmentsNotLoaded)
			}
			if out.Found {
				t.Error("Found = true for unloaded attachments")
			}
		})
	}
}

func TestScanAttachmentAccessError(t *testing.T) {
	msg := &Message{
		HasAttachments: true,
		Attachments: func() ([]Attachment, error) {
			return nil, errors.New("attachment access failed")
		},
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "5732475751")
	if out.Tag != OutcomeAttachmentAccessError {
		t.Errorf("Tag = %q, want %q", out.Tag, OutcomeAttachmentAccessError)
	}
	if out.Err == "" {
		t.Error("access error outcome carries no error description")
	}
}

func TestScanContentReadError(t *testing.T) {
	msg := &Message{
		HasAttachments: true,
		Attachments: staticAttachments(Attachment{
			Filename: "invoice.pdf",
			Content:  func() ([]byte, error) { return nil, errors.New("read failed") },
		}),
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "5732475751")
	if out.Tag != OutcomeAttachmentAccessError {
		t.Errorf("Tag = %q, want %q", out.Tag, OutcomeAttachmentAccessError)
	}
}

func TestScanNonPDFAttachmentsOnly(t *testing.T) {
	msg := &Message{
		HasAttachments: true,
		Attachments:    staticAttachments(pdfAttachment("document.docx", "5732475751")),
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "5732475751")
	if out.Tag != OutcomeNotFoundInPDFs {
		t.Errorf("Tag = %q, want %q", out.Tag, OutcomeNotFoundInPDFs)
	}
}

func TestScanNoMatchInPDFs(t *testing.T) {
	msg := &Message{
		HasAttachments: true,
		Attachments:    staticAttachments(pdfAttachment("invoice.pdf", "nothing relevant here")),
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "5732475751")
	if out.Tag != OutcomeNotFoundInPDFs {
		t.Errorf("Tag = %q, want %q", out.Tag, OutcomeNotFoundInPDFs)
	}
}

func TestScanTextExtractionHit(t *testing.T) {
	msg := &Message{
		Subject:        "Play - e-korekta do pobrania",
		HasAttachments: true,
		Attachments: staticAttachments(
			pdfAttachment("KOREKTA-K_00025405_10_25-KONTO_12629296.pdf", "NIP: 123-456-789 na fakturze"),
		),
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "123456789")
	if out.Tag != OutcomeTextExtraction {
		t.Fatalf("Tag = %q, want %q", out.Tag, OutcomeTextExtraction)
	}
	if !out.Found {
		t.Error("Found = false for a matching PDF")
	}
	if out.Attachment != "KOREKTA-K_00025405_10_25-KONTO_12629296.pdf" {
		t.Errorf("Attachment = %q", out.Attachment)
	}
	if len(out.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(out.Matches))
	}
	if !out.Matches[0].Approximate {
		t.Error("dashed-form hit not tagged approximate")
	}
	if !strings.Contains(out.Matches[0].Excerpt, "123-456-789") {
		t.Errorf("excerpt %q missing the dashed form", out.Matches[0].Excerpt)
	}
}

func TestScanOCRHit(t *testing.T) {
	msg := &Message{
		HasAttachments: true,
		Attachments:    staticAttachments(pdfAttachment("scan.pdf", "zeskanowany NIP 5732475751")),
	}

	out := newTestScanner(pdfsearch.MethodOCR, nil).Scan(msg, "5732475751")
	if out.Tag != OutcomeOCR {
		t.Errorf("Tag = %q, want %q", out.Tag, OutcomeOCR)
	}
	if !out.Found {
		t.Error("Found = false for an OCR hit")
	}
}

func TestScanExtractionErrorAbsorbed(t *testing.T) {
	msg := &Message{
		HasAttachments: true,
		Attachments:    staticAttachments(pdfAttachment("broken.pdf", "whatever")),
	}

	out := newTestScanner(pdfsearch.MethodText, errors.New("corrupt xref table")).Scan(msg, "5732475751")
	if out.Tag != OutcomeNotFoundInPDFs {
		t.Errorf("Tag = %q, want %q (extraction failures must not escape)", out.Tag, OutcomeNotFoundInPDFs)
	}
}

func TestScanSecondPDFMatches(t *testing.T) {
	msg := &Message{
		HasAttachments: true,
		Attachments: staticAttachments(
			pdfAttachment("first.pdf", "nothing here"),
			pdfAttachment("second.pdf", "identyfikator 5732475751"),
		),
	}

	out := newTestScanner(pdfsearch.MethodText, nil).Scan(msg, "5732475751")
	if !out.Found || out.Attachment != "second.pdf" {
		t.Errorf("Found=%v Attachment=%q, want hit from second.pdf", out.Found, out.Attachment)
	}
}
