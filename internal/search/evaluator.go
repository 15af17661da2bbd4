package search

import (
	"strings"
	"time"
)

// Result couples the evaluator's verdict with the attachment scan outcome
// when a PDF term was part of the criteria.
type Result struct {
	Matched bool
	PDF     *Outcome
}

// Evaluator applies search criteria to messages. All active predicates are
// ANDed; the PDF content check is the most expensive and runs last, only
// when every other predicate already passed.
type Evaluator struct {
	scanner *Scanner

	// now is the evaluation-time anchor for date windows. Injectable for
	// tests; defaults to time.Now.
	now func() time.Time
}

// NewEvaluator creates an evaluator backed by the given attachment scanner.
func NewEvaluator(scanner *Scanner) *Evaluator {
	return &Evaluator{scanner: scanner, now: time.Now}
}

// Evaluate reports whether the message satisfies the criteria. Criteria are
// assumed validated at construction (see Criteria.Validate).
func (e *Evaluator) Evaluate(msg *Message, c Criteria) Result {
	if c.Subject != "" && !containsFold(msg.Subject, c.Subject) {
		return Result{}
	}
	if c.Sender != "" && !containsFold(msg.SenderEmail, c.Sender) && !containsFold(msg.SenderName, c.Sender) {
		return Result{}
	}
	if c.Body != "" && !containsFold(msg.Body, c.Body) {
		return Result{}
	}
	if c.UnreadOnly && !msg.Unread {
		return Result{}
	}
	if c.AttachmentsRequired && !msg.HasAttachments {
		return Result{}
	}
	if c.NoAttachmentsOnly && msg.HasAttachments {
		return Result{}
	}

	if cutoff, ok := c.Period.Cutoff(e.now()); ok {
		if msg.ReceivedAt.IsZero() || msg.ReceivedAt.Before(cutoff) {
			return Result{}
		}
	}

	if c.AttachmentName != "" || c.AttachmentExt != "" {
		if !e.attachmentPredicates(msg, c) {
			return Result{}
		}
	}

	if c.PDFText != "" {
		outcome := e.scanner.Scan(msg, c.PDFText)
		return Result{Matched: outcome.Found, PDF: &outcome}
	}

	return Result{Matched: true}
}

// attachmentPredicates checks the attachment-name substring and
// attachment-extension equality predicates. A message whose list cannot be
// materialized simply fails the predicate; the scanner is where access
// failures get a named outcome.
func (e *Evaluator) attachmentPredicates(msg *Message, c Criteria) bool {
	if !msg.HasAttachments || msg.Attachments == nil {
		return false
	}
	attachments, err := msg.Attachments()
	if err != nil || len(attachments) == 0 {
		return false
	}

	nameOK := c.AttachmentName == ""
	extOK := c.AttachmentExt == ""
	wantExt := strings.ToLower(strings.TrimPrefix(c.AttachmentExt, "."))

	for _, att := range attachments {
		if !nameOK && containsFold(att.Filename, c.AttachmentName) {
			nameOK = true
		}
		if !extOK {
			name := strings.ToLower(att.Filename)
			if idx := strings.LastIndex(name, "."); idx >= 0 && name[idx+1:] == wantExt {
				extOK = true
			}
		}
	}
	return nameOK && extOK
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
