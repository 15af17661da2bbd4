package search

import (
	"fmt"
	"time"
)

// Period tags a relative search window anchored at evaluation time.
type Period string

const (
	PeriodAll        Period = "all"
	PeriodWeek       Period = "1w"
	PeriodTwoWeeks   Period = "2w"
	PeriodMonth      Period = "1m"
	PeriodThreeMonth Period = "3m"
	PeriodSixMonth   Period = "6m"
	PeriodYear       Period = "1y"
)

// Cutoff returns the earliest acceptable message time for the period. The
// second return is false for PeriodAll (and the empty period), which impose
// no constraint.
func (p Period) Cutoff(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodTwoWeeks:
		return now.AddDate(0, 0, -14), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodThreeMonth:
		return now.AddDate(0, -3, 0), true
	case PeriodSixMonth:
		return now.AddDate(0, -6, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

func (p Period) valid() bool {
	switch p {
	case "", PeriodAll, PeriodWeek, PeriodTwoWeeks, PeriodMonth, PeriodThreeMonth, PeriodSixMonth, PeriodYear:
		return true
	}
	return false
}

// Criteria is an immutable multi-field search specification. All substring
// predicates are case-insensitive and empty fields impose no constraint;
// active predicates are AND-combined.
type Criteria struct {
	Folder          string   `json:"folder,omitempty"`
	ExcludedFolders []string `json:"excluded_folders,omitempty"`

	Subject       string `json:"subject,omitempty"`
	Body          string `json:"body,omitempty"`
	PDFText       string `json:"pdf_text,omitempty"`
	Sender        string `json:"sender,omitempty"`
	AttachmentName string `json:"attachment_name,omitempty"`
	AttachmentExt  string `json:"attachment_ext,omitempty"`

	UnreadOnly          bool `json:"unread_only,omitempty"`
	AttachmentsRequired bool `json:"attachments_required,omitempty"`
	NoAttachmentsOnly   bool `json:"no_attachments_only,omitempty"`

	Period Period `json:"period,omitempty"`
}

// Validate rejects contradictory or malformed criteria before any remote
// work starts.
func (c Criteria) Validate() error {
	if c.AttachmentsRequired && c.NoAttachmentsOnly {
		return fmt.Errorf("attachments-required and no-attachments-only are mutually exclusive")
	}
	if !c.Period.valid() {
		return fmt.Errorf("unknown date period: %q", c.Period)
	}
	return nil
}
