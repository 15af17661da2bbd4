package types

import "time"

// Email represents a cached email message.
type Email struct {
	ID              int64     `json:"id"`
	AccountID       int       `json:"account_id"`
	AccountName     string    `json:"account_name"`
	FolderID        int       `json:"folder_id"`
	FolderPath      string    `json:"folder_path"`
	UID             uint32    `json:"uid"`
	MessageID       string    `json:"message_id"`
	Subject         string    `json:"subject"`
	SenderName      string    `json:"sender_name"`
	SenderEmail     string    `json:"sender_email"`
	Date            time.Time `json:"date"`
	BodyText        string    `json:"body_text,omitempty"`
	IsRead          bool      `json:"is_read"`
	HasAttachments  bool      `json:"has_attachments"`
	AttachmentNames []string  `json:"attachment_names,omitempty"`
	CachedAt        time.Time `json:"cached_at"`
}

// EmailSummary represents a summary of an email (for search results).
type EmailSummary struct {
	ID             int64     `json:"id"`
	AccountName    string    `json:"account_name"`
	FolderPath     string    `json:"folder_path"`
	Subject        string    `json:"subject"`
	SenderName     string    `json:"sender_name"`
	SenderEmail    string    `json:"sender_email"`
	Date           time.Time `json:"date"`
	IsRead         bool      `json:"is_read"`
	HasAttachments bool      `json:"has_attachments"`
	Snippet        string    `json:"snippet,omitempty"`
}

// SearchHit is one search result as delivered to the UI: the matched
// message plus, when PDF content was searched, the scan outcome tag and
// the annotated excerpts (approximate hits carry their marker prefix).
type SearchHit struct {
	FolderPath    string    `json:"folder_path"`
	UID           uint32    `json:"uid"`
	Subject       string    `json:"subject"`
	SenderName    string    `json:"sender_name"`
	SenderEmail   string    `json:"sender_email"`
	Date          time.Time `json:"date"`
	Unread        bool      `json:"unread"`
	PDFOutcome    string    `json:"pdf_outcome,omitempty"`
	PDFAttachment string    `json:"pdf_attachment,omitempty"`
	PDFMatches    []string  `json:"pdf_matches,omitempty"`
}

// FolderListing is the classified folder forest delivered to the UI,
// flattened depth-first with per-entry depth for tree rendering.
type FolderListing struct {
	AccountName string        `json:"account_name"`
	Folders     []FolderEntry `json:"folders"`
}

// FolderEntry is one row of the folder listing.
type FolderEntry struct {
	Path          string `json:"path"`
	Label         string `json:"label"`
	Icon          string `json:"icon"`
	Role          string `json:"role,omitempty"`
	Depth         int    `json:"depth"`
	MessageCount  int    `json:"message_count"`
	SizeFormatted string `json:"size"`
}
