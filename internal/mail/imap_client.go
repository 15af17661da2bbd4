package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"
	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/folders"
	"github.com/dzieju/dzieju-app2/internal/search"
)

// fetchWindow bounds how many of the most recent messages a single folder
// fetch pulls down.
const fetchWindow = 100

// IMAPClient wraps an IMAP connection to one account.
type IMAPClient struct {
	config    *config.Account
	client    *client.Client
	logger    *logrus.Logger
	connected bool
}

// NewIMAPClient creates a new IMAP client (does not connect immediately).
func NewIMAPClient(cfg *config.Account) *IMAPClient {
	return &IMAPClient{
		config: cfg,
		logger: logrus.New(),
	}
}

// Connect establishes a connection to the IMAP server.
func (c *IMAPClient) Connect() error {
	if c.connected && c.client != nil {
		return nil
	}

	port := c.config.IMAPPort
	if port == 0 {
		port = 993
	}
	addr := fmt.Sprintf("%s:%d", c.config.IMAPServer, port)

	cl, err := client.DialTLS(addr, &tls.Config{
		ServerName: c.config.IMAPServer,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	c.client = cl

	username := c.config.Username
	if username == "" {
		username = c.config.Email
	}
	if err := c.client.Login(username, c.config.Password); err != nil {
		c.logger.WithError(err).Error("Failed to login to IMAP server")
		c.client.Logout() //nolint:errcheck
		c.client = nil
		return fmt.Errorf("failed to login to IMAP server: %w", err)
	}

	c.connected = true
	c.logger.WithField("account", c.config.Name).Info("Connected to IMAP server")
	return nil
}

// Close closes the IMAP connection.
func (c *IMAPClient) Close() error {
	if c.client != nil {
		if err := c.client.Logout(); err != nil {
			return err
		}
		c.client = nil
		c.connected = false
	}
	return nil
}

// TestConnection verifies that the server accepts the configured credentials
// and tears the session back down.
func (c *IMAPClient) TestConnection() error {
	if err := c.Connect(); err != nil {
		return err
	}
	return c.Close()
}

// ListFolders lists all mailboxes with their SPECIAL-USE flags, delimiter and
// message counts, already classified into folder records.
func (c *IMAPClient) ListFolders() ([]*folders.Folder, error) {
	if err := c.Connect(); err != nil {
		return nil, err
	}

	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)

	go func() {
		done <- c.client.List("", "*", mailboxes)
	}()

	type listed struct {
		name      string
		flags     []string
		delimiter string
	}
	var infos []listed
	for m := range mailboxes {
		infos = append(infos, listed{name: m.Name, flags: m.Attributes, delimiter: m.Delimiter})
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	out := make([]*folders.Folder, 0, len(infos))
	for _, info := range infos {
		count := 0
		if !hasNoselect(info.flags) {
			status, err := c.client.Status(info.name, []imap.StatusItem{imap.StatusMessages})
			if err != nil {
				c.logger.WithError(err).WithField("folder", info.name).Warn("Failed to get folder status")
			} else {
				count = int(status.Messages)
			}
		}
		f := folders.New(info.name, info.name, count, 0, info.flags, info.delimiter)
		f.Protocol = "imap"
		out = append(out, f)
	}
	return out, nil
}

// FolderSize sums the RFC822.SIZE of every message in the folder. Servers do
// not report mailbox sizes directly, so this walks the whole folder and can
// be slow on large mailboxes.
func (c *IMAPClient) FolderSize(folderName string) (int64, error) {
	if err := c.Connect(); err != nil {
		return 0, err
	}

	mbox, err := c.client.Select(folderName, true)
	if err != nil {
		return 0, fmt.Errorf("failed to select folder: %w", err)
	}
	if mbox.Messages == 0 {
		return 0, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddRange(1, mbox.Messages)

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.client.Fetch(seqSet, []imap.FetchItem{imap.FetchRFC822Size}, messages)
	}()

	var total int64
	for msg := range messages {
		total += int64(msg.Size)
	}
	if err := <-done; err != nil {
		return 0, fmt.Errorf("failed to fetch message sizes: %w", err)
	}
	return total, nil
}

// FetchMessages fetches the most recent messages from a folder, parsed into
// the protocol-neutral shape the evaluator works on.
func (c *IMAPClient) FetchMessages(folderName string) ([]*search.Message, error) {
	if err := c.Connect(); err != nil {
		return nil, err
	}

	mbox, err := c.client.Select(folderName, false)
	if err != nil {
		return nil, fmt.Errorf("failed to select folder: %w", err)
	}
	if mbox.Messages == 0 {
		return []*search.Message{}, nil
	}

	seqSet := new(imap.SeqSet)
	start := uint32(1)
	if mbox.Messages > fetchWindow {
		start = mbox.Messages - fetchWindow + 1
	}
	seqSet.AddRange(start, mbox.Messages)

	items := []imap.FetchItem{
		imap.FetchEnvelope,
		imap.FetchFlags,
		imap.FetchInternalDate,
		imap.FetchUid,
		imap.FetchBodyStructure,
		imap.FetchRFC822,
	}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.client.Fetch(seqSet, items, messages)
	}()

	var out []*search.Message
	for msg := range messages {
		out = append(out, c.parseMessage(msg, folderName))
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return out, nil
}

// parseMessage converts an IMAP message into the evaluator's message shape.
func (c *IMAPClient) parseMessage(msg *imap.Message, folderName string) *search.Message {
	out := &search.Message{
		Folder: folderName,
		UID:    msg.Uid,
		Unread: !hasFlag(msg.Flags, imap.SeenFlag),
	}

	if msg.Envelope != nil {
		out.Subject = msg.Envelope.Subject
		out.ReceivedAt = msg.Envelope.Date
		if len(msg.Envelope.From) > 0 {
			addr := msg.Envelope.From[0]
			out.SenderName = addr.PersonalName
			out.SenderEmail = addr.Address()
		}
	}
	if out.ReceivedAt.IsZero() {
		out.ReceivedAt = msg.InternalDate
	}

	// The server-side indicator comes from the body structure; the actual
	// attachment list is materialized lazily from the raw message.
	if msg.BodyStructure != nil {
		out.HasAttachments = structureHasAttachments(msg.BodyStructure)
	}

	raw := c.readBody(msg)
	if len(raw) > 0 {
		if env, err := enmime.ReadEnvelope(bytes.NewReader(raw)); err == nil {
			out.Body = env.Text
		} else {
			c.logger.WithError(err).Debug("Failed to parse message, using raw body")
			out.Body = string(raw)
		}
		out.Attachments = attachmentLister(raw)
	}

	return out
}

// attachmentLister defers MIME parsing of the attachment list until a scan
// actually needs it.
func attachmentLister(raw []byte) search.AttachmentLister {
	return func() ([]search.Attachment, error) {
		env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse message parts: %w", err)
		}
		var atts []search.Attachment
		for _, part := range env.Attachments {
			content := part.Content
			atts = append(atts, search.Attachment{
				Filename: part.FileName,
				Content:  func() ([]byte, error) { return content, nil },
			})
		}
		return atts, nil
	}
}

// structureHasAttachments walks a BODYSTRUCTURE looking for attachment parts.
func structureHasAttachments(bs *imap.BodyStructure) bool {
	if bs == nil {
		return false
	}
	if strings.EqualFold(bs.Disposition, "attachment") {
		return true
	}
	for _, part := range bs.Parts {
		if structureHasAttachments(part) {
			return true
		}
	}
	return false
}

// readBody reads the RFC822 literal from a fetched message.
func (c *IMAPClient) readBody(msg *imap.Message) []byte {
	if msg.Body == nil {
		return nil
	}
	for _, literal := range msg.Body {
		if b := c.readLiteral(literal); len(b) > 0 {
			return b
		}
	}
	return nil
}

// readLiteral reads the content of an IMAP literal into memory.
func (c *IMAPClient) readLiteral(literal imap.Literal) []byte {
	body := make([]byte, 0, 8192)
	buf := make([]byte, 1024)
	for {
		n, err := literal.Read(buf)
		if n > 0 {
			body = append(body, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			c.logger.WithError(err).Error("Error reading literal")
			break
		}
	}
	return body
}

// SetLogger sets the logger for the client.
func (c *IMAPClient) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

func hasNoselect(flags []string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, imap.NoSelectAttr) {
			return true
		}
	}
	return false
}
