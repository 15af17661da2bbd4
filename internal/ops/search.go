package ops

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/mail"
	"github.com/dzieju/dzieju-app2/internal/pdfsearch"
	"github.com/dzieju/dzieju-app2/internal/search"
	"github.com/dzieju/dzieju-app2/internal/worker"
	"github.com/dzieju/dzieju-app2/pkg/types"
)

// SearchOp runs a live multi-criteria search against the server, including
// PDF content scanning of attachments.
type SearchOp struct {
	config  *config.Config
	manager *mail.Manager
	logger  *logrus.Logger

	// OCR is optional; without it scanned PDFs that yield no native text
	// simply produce no matches.
	OCR pdfsearch.OCRFunc
}

// NewSearchOp creates the live search operation.
func NewSearchOp(cfg *config.Config, manager *mail.Manager, logger *logrus.Logger) *SearchOp {
	return &SearchOp{config: cfg, manager: manager, logger: logger}
}

// Name returns the operation name.
func (o *SearchOp) Name() string {
	return "search.run"
}

// Description returns the operation description.
func (o *SearchOp) Description() string {
	return "Search messages across folders by subject, sender, body, attachments, date period and PDF content"
}

// Execute executes the operation.
func (o *SearchOp) Execute(params map[string]interface{}, token *worker.Token) (interface{}, error) {
	accountName, _ := params["account"].(string)
	criteria := criteriaFromParams(params)

	source, err := o.manager.Source(accountName)
	if err != nil {
		return nil, err
	}

	extractor := &pdfsearch.Extractor{OCR: o.OCR}
	scanner := search.NewScanner(extractor, o.logger)
	engine := search.NewEngine(source, search.NewEvaluator(scanner), o.logger)

	var cancelled func() bool
	if token != nil {
		cancelled = token.Cancelled
	}

	// Partial hits gathered before cancellation are still delivered; the
	// runner marks the outcome cancelled from the token state.
	hits, err := engine.Run(cancelled, criteria)
	if err != nil && err != search.ErrCancelled {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	limit := o.config.SearchResultLimit
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]types.SearchHit, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hitToResult(hit))
	}
	return out, nil
}

// criteriaFromParams maps the loose params document onto the typed criteria.
func criteriaFromParams(params map[string]interface{}) search.Criteria {
	c := search.Criteria{}
	if v, ok := params["folder"].(string); ok {
		c.Folder = v
	}
	if v, ok := params["excluded_folders"].([]interface{}); ok {
		for _, item := range v {
			if name, ok := item.(string); ok {
				c.ExcludedFolders = append(c.ExcludedFolders, name)
			}
		}
	}
	if v, ok := params["subject"].(string); ok {
		c.Subject = v
	}
	if v, ok := params["body"].(string); ok {
		c.Body = v
	}
	if v, ok := params["pdf_text"].(string); ok {
		c.PDFText = v
	}
	if v, ok := params["sender"].(string); ok {
		c.Sender = v
	}
	if v, ok := params["attachment_name"].(string); ok {
		c.AttachmentName = v
	}
	if v, ok := params["attachment_ext"].(string); ok {
		c.AttachmentExt = v
	}
	if v, ok := params["unread_only"].(bool); ok {
		c.UnreadOnly = v
	}
	if v, ok := params["attachments_required"].(bool); ok {
		c.AttachmentsRequired = v
	}
	if v, ok := params["no_attachments_only"].(bool); ok {
		c.NoAttachmentsOnly = v
	}
	if v, ok := params["period"].(string); ok {
		c.Period = search.Period(v)
	}
	return c
}

// hitToResult flattens an engine hit into the serializable result row.
func hitToResult(hit *search.Hit) types.SearchHit {
	msg := hit.Message
	out := types.SearchHit{
		FolderPath:  msg.Folder,
		UID:         msg.UID,
		Subject:     msg.Subject,
		SenderName:  msg.SenderName,
		SenderEmail: msg.SenderEmail,
		Date:        msg.ReceivedAt.Truncate(time.Second),
		Unread:      msg.Unread,
	}
	if hit.PDF != nil {
		out.PDFOutcome = string(hit.PDF.Tag)
		if hit.PDF.Attachment != "" {
			out.PDFAttachment = hit.PDF.Attachment
		}
		for _, m := range hit.PDF.Matches {
			out.PDFMatches = append(out.PDFMatches, m.Annotated())
		}
	}
	return out
}
