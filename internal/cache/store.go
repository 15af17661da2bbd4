package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/folders"
	"github.com/dzieju/dzieju-app2/pkg/types"
)

// Store provides methods for storing and retrieving data from the cache
type Store struct {
	cache  *Cache
	logger *logrus.Logger
}

// NewStore creates a new store instance
func NewStore(cache *Cache, logger *logrus.Logger) *Store {
	return &Store{
		cache:  cache,
		logger: logger,
	}
}

// UpsertAccount upserts an account in the cache. Passwords are never cached.
func (s *Store) UpsertAccount(acc *config.Account) (int, error) {
	accType := acc.Type
	if accType == "" {
		accType = config.AccountIMAP
	}
	host := acc.IMAPServer
	port := acc.IMAPPort
	if accType == config.AccountExchange {
		host = acc.ExchangeServer
		port = 0
	}

	query := `
		INSERT INTO accounts (name, email, account_type, server_host, server_port, username, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			email = excluded.email,
			account_type = excluded.account_type,
			server_host = excluded.server_host,
			server_port = excluded.server_port,
			username = excluded.username,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.cache.DB().Exec(query, acc.Name, acc.Email, string(accType), host, port, acc.Username); err != nil {
		return 0, fmt.Errorf("failed to upsert account: %w", err)
	}

	// last_insert_rowid is stale after the UPDATE arm of an upsert, so the ID
	// is always read back by key.
	var accountID int
	if err := s.cache.DB().QueryRow("SELECT id FROM accounts WHERE name = ?", acc.Name).Scan(&accountID); err != nil {
		return 0, fmt.Errorf("failed to get account ID: %w", err)
	}
	return accountID, nil
}

// GetAccountID returns the account ID by name
func (s *Store) GetAccountID(name string) (int, error) {
	var id int
	err := s.cache.DB().QueryRow("SELECT id FROM accounts WHERE name = ?", name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("account not found: %s", name)
	}
	return id, nil
}

// UpsertFolder upserts a classified folder record in the cache
func (s *Store) UpsertFolder(accountID int, folder *folders.Folder) (int, error) {
	flagsJSON, err := json.Marshal(folder.Flags)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal flags: %w", err)
	}

	query := `
		INSERT INTO folders (account_id, path, delimiter, flags, special_role, message_count, size_bytes, last_synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(account_id, path) DO UPDATE SET
			delimiter = excluded.delimiter,
			flags = excluded.flags,
			special_role = excluded.special_role,
			message_count = excluded.message_count,
			size_bytes = excluded.size_bytes,
			last_synced = CURRENT_TIMESTAMP
	`
	if _, err := s.cache.DB().Exec(query, accountID, folder.Name, folder.Delimiter,
		string(flagsJSON), string(folder.Role), folder.MessageCount, folder.SizeBytes); err != nil {
		return 0, fmt.Errorf("failed to upsert folder: %w", err)
	}

	var folderID int
	if err := s.cache.DB().QueryRow("SELECT id FROM folders WHERE account_id = ? AND path = ?", accountID, folder.Name).Scan(&folderID); err != nil {
		return 0, fmt.Errorf("failed to get folder ID: %w", err)
	}
	return folderID, nil
}

// UpsertEmail upserts an email in the cache
func (s *Store) UpsertEmail(email *types.Email) error {
	namesJSON, err := json.Marshal(email.AttachmentNames)
	if err != nil {
		return fmt.Errorf("failed to marshal attachment names: %w", err)
	}

	query := `
		INSERT INTO emails (account_id, folder_id, uid, message_id, subject, sender_name, sender_email, date, body_text, is_read, has_attachments, attachment_names)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, folder_id, uid) DO UPDATE SET
			message_id = excluded.message_id,
			subject = excluded.subject,
			sender_name = excluded.sender_name,
			sender_email = excluded.sender_email,
			date = excluded.date,
			body_text = excluded.body_text,
			is_read = excluded.is_read,
			has_attachments = excluded.has_attachments,
			attachment_names = excluded.attachment_names,
			cached_at = CURRENT_TIMESTAMP
	`
	_, err = s.cache.DB().Exec(query,
		email.AccountID,
		email.FolderID,
		email.UID,
		email.MessageID,
		email.Subject,
		email.SenderName,
		email.SenderEmail,
		email.Date.UTC().Format(time.RFC3339),
		email.BodyText,
		email.IsRead,
		email.HasAttachments,
		string(namesJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert email: %w", err)
	}

	return nil
}

// GetEmail retrieves an email by ID
func (s *Store) GetEmail(emailID int64) (*types.Email, error) {
	query := `
		SELECT e.id, e.account_id, a.name, e.folder_id, f.path, e.uid, e.message_id, e.subject, e.sender_name, e.sender_email, e.date, e.body_text, e.is_read, e.has_attachments, e.attachment_names, e.cached_at
		FROM emails e
		JOIN accounts a ON e.account_id = a.id
		JOIN folders f ON e.folder_id = f.id
		WHERE e.id = ?
	`
	var email types.Email
	var namesJSON string
	var dateStr, cachedStr string

	err := s.cache.DB().QueryRow(query, emailID).Scan(
		&email.ID,
		&email.AccountID,
		&email.AccountName,
		&email.FolderID,
		&email.FolderPath,
		&email.UID,
		&email.MessageID,
		&email.Subject,
		&email.SenderName,
		&email.SenderEmail,
		&dateStr,
		&email.BodyText,
		&email.IsRead,
		&email.HasAttachments,
		&namesJSON,
		&cachedStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("email not found: %d", emailID)
		}
		return nil, fmt.Errorf("failed to get email: %w", err)
	}

	email.Date = parseStoredTime(dateStr)
	email.CachedAt = parseStoredTime(cachedStr)
	if namesJSON != "" {
		if err := json.Unmarshal([]byte(namesJSON), &email.AttachmentNames); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attachment names: %w", err)
		}
	}

	return &email, nil
}

// ListFolders lists cached folders for an account, rebuilt into classified
// folder records.
func (s *Store) ListFolders(accountID int) ([]*folders.Folder, error) {
	query := `
		SELECT path, delimiter, flags, message_count, size_bytes
		FROM folders
		WHERE account_id = ?
		ORDER BY path
	`
	rows, err := s.cache.DB().Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	var out []*folders.Folder
	for rows.Next() {
		var path, delimiter string
		var flagsJSON sql.NullString
		var messageCount int
		var sizeBytes int64

		if err := rows.Scan(&path, &delimiter, &flagsJSON, &messageCount, &sizeBytes); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}

		var flags []string
		if flagsJSON.Valid && flagsJSON.String != "" {
			if err := json.Unmarshal([]byte(flagsJSON.String), &flags); err != nil {
				return nil, fmt.Errorf("failed to unmarshal flags: %w", err)
			}
		}

		// Classification is a pure function of (path, flags), so the role is
		// re-derived rather than trusted from the stored column.
		out = append(out, folders.New(path, path, messageCount, sizeBytes, flags, delimiter))
	}

	return out, rows.Err()
}

// HasEmails checks if an account has any cached emails
func (s *Store) HasEmails(accountID int) (bool, error) {
	var count int
	err := s.cache.DB().QueryRow("SELECT COUNT(*) FROM emails WHERE account_id = ?", accountID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check emails count: %w", err)
	}
	return count > 0, nil
}

// HasAnyEmails checks if there are any cached emails
func (s *Store) HasAnyEmails() (bool, error) {
	var count int
	err := s.cache.DB().QueryRow("SELECT COUNT(*) FROM emails").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check emails count: %w", err)
	}
	return count > 0, nil
}

// parseStoredTime tolerates both SQLite datetime renderings.
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
