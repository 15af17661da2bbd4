package search

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/pdfsearch"
)

// OutcomeTag names the terminal state of one attachment scan.
type OutcomeTag string

const (
	// Degenerate and failure states.
	OutcomeNoSearchText          OutcomeTag = "no_search_text"
	OutcomeNoAttachmentsFlag     OutcomeTag = "no_attachments_flag"
	OutcomeAttachmentsNotLoaded  OutcomeTag = "attachments_not_loaded"
	OutcomeAttachmentAccessError OutcomeTag = "attachment_access_error"

	// Content states.
	OutcomeNotFoundInPDFs OutcomeTag = "not_found_in_pdfs"
	OutcomeTextExtraction OutcomeTag = "text_extraction"
	OutcomeOCR            OutcomeTag = "ocr"
)

// Outcome is the result of scanning one message's attachments for a search
// term. It is created fresh per (message, term) evaluation and never cached:
// the remote attachment state can change between fetches.
type Outcome struct {
	Tag        OutcomeTag        `json:"tag"`
	Found      bool              `json:"found"`
	Matches    []pdfsearch.Match `json:"matches,omitempty"`
	Attachment string            `json:"attachment,omitempty"`
	Err        string            `json:"error,omitempty"`
}

// Scanner drives attachment retrieval and PDF content matching for one
// message at a time. Every failure mode is absorbed here and converted into
// an outcome tag; nothing propagates to the criteria evaluator as a fault.
type Scanner struct {
	extractor pdfsearch.TextExtractor
	logger    *logrus.Logger
}

// NewScanner creates a scanner using the given text extractor.
func NewScanner(extractor pdfsearch.TextExtractor, logger *logrus.Logger) *Scanner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scanner{extractor: extractor, logger: logger}
}

// Scan decides whether and how to read the message's attachments and runs
// the PDF matcher over each PDF until one yields matches.
//
// Checks are ordered cheapest first: an empty term rejects before the
// attachment flag is consulted, and the flag rejects before any remote list
// materialization. A true flag with an empty or absent materialized list is
// reported as OutcomeAttachmentsNotLoaded, a real lazy-load artifact of
// remote stores that must stay distinguishable from "no attachments".
func (s *Scanner) Scan(msg *Message, searchText string) Outcome {
	if searchText == "" {
		return Outcome{Tag: OutcomeNoSearchText}
	}
	if !msg.HasAttachments {
		return Outcome{Tag: OutcomeNoAttachmentsFlag}
	}

	var attachments []Attachment
	if msg.Attachments != nil {
		var err error
		attachments, err = msg.Attachments()
		if err != nil {
			s.logger.WithError(err).WithField("subject", msg.Subject).Warn("Attachment access failed")
			return Outcome{Tag: OutcomeAttachmentAccessError, Err: err.Error()}
		}
	}

	if len(attachments) == 0 {
		s.logger.WithField("subject", msg.Subject).Warn("Message reports attachments but none were loaded")
		return Outcome{Tag: OutcomeAttachmentsNotLoaded}
	}

	for _, att := range attachments {
		if !strings.HasSuffix(strings.ToLower(att.Filename), ".pdf") {
			continue
		}

		data, err := att.Content()
		if err != nil {
			s.logger.WithError(err).WithField("attachment", att.Filename).Warn("Attachment content read failed")
			return Outcome{Tag: OutcomeAttachmentAccessError, Err: err.Error()}
		}

		text, method, err := s.extractor.Extract(data)
		if err != nil {
			s.logger.WithError(err).WithField("attachment", att.Filename).Warn("PDF text extraction failed")
			continue
		}

		matches := pdfsearch.ExtractMatches(text, searchText)
		if len(matches) == 0 {
			continue
		}

		tag := OutcomeTextExtraction
		if method == pdfsearch.MethodOCR {
			tag = OutcomeOCR
		}
		return Outcome{
			Tag:        tag,
			Found:      true,
			Matches:    matches,
			Attachment: att.Filename,
		}
	}

	return Outcome{Tag: OutcomeNotFoundInPDFs}
}
