package search

import "time"

// Attachment is one message attachment: a filename plus a deferred content
// accessor. Remote stores materialize bytes lazily, so reading can fail
// long after the attachment was listed.
type Attachment struct {
	Filename string
	Content  func() ([]byte, error)
}

// AttachmentLister materializes a message's attachment list on demand.
type AttachmentLister func() ([]Attachment, error)

// Message is the protocol-neutral message shape the engine evaluates.
//
// HasAttachments is the server's own indicator and the Attachments accessor
// may legitimately disagree with it: some stores report the flag eagerly but
// load the list lazily. The scanner models that disagreement as a distinct
// outcome rather than an error.
type Message struct {
	Folder      string    `json:"folder"`
	UID         uint32    `json:"uid"`
	Subject     string    `json:"subject"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Body        string    `json:"-"`
	ReceivedAt  time.Time `json:"received_at"`
	Unread      bool      `json:"unread"`

	HasAttachments bool             `json:"has_attachments"`
	Attachments    AttachmentLister `json:"-"`
}
