package cache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dzieju/dzieju-app2/pkg/types"
)

// SearchOptions contains cached-search parameters
type SearchOptions struct {
	AccountID      *int
	FolderPath     *string
	Sender         *string
	Subject        *string
	Body           *string
	Unread         *bool
	HasAttachments *bool
	DateFrom       *time.Time
	DateTo         *time.Time
	Limit          int
}

// Search performs a search on cached emails
func (s *Store) Search(opts SearchOptions) ([]types.EmailSummary, error) {
	var conditions []string
	var args []interface{}

	// Build WHERE clause
	if opts.AccountID != nil {
		conditions = append(conditions, "e.account_id = ?")
		args = append(args, *opts.AccountID)
	}

	if opts.FolderPath != nil {
		conditions = append(conditions, "f.path = ?")
		args = append(args, *opts.FolderPath)
	}

	if opts.Sender != nil {
		conditions = append(conditions, "(e.sender_email LIKE ? OR e.sender_name LIKE ?)")
		searchTerm := "%" + *opts.Sender + "%"
		args = append(args, searchTerm, searchTerm)
	}

	if opts.Subject != nil {
		conditions = append(conditions, "e.subject LIKE ?")
		args = append(args, "%"+*opts.Subject+"%")
	}

	if opts.Unread != nil {
		conditions = append(conditions, "e.is_read = ?")
		args = append(args, !*opts.Unread)
	}

	if opts.HasAttachments != nil {
		conditions = append(conditions, "e.has_attachments = ?")
		args = append(args, *opts.HasAttachments)
	}

	// Dates are stored as UTC RFC 3339 text, which orders lexicographically.
	if opts.DateFrom != nil {
		conditions = append(conditions, "e.date >= ?")
		args = append(args, opts.DateFrom.UTC().Format(time.RFC3339))
	}

	if opts.DateTo != nil {
		conditions = append(conditions, "e.date <= ?")
		args = append(args, opts.DateTo.UTC().Format(time.RFC3339))
	}

	// Full-text search on body
	if opts.Body != nil {
		// Use FTS5 for body search
		conditions = append(conditions, "e.id IN (SELECT rowid FROM emails_fts WHERE emails_fts MATCH ?)")
		// Escape special characters for FTS5
		bodyQuery := strings.ReplaceAll(*opts.Body, "\"", "\"\"")
		bodyQuery = strings.ReplaceAll(bodyQuery, "'", "''")
		args = append(args, bodyQuery)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Set default limit
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := fmt.Sprintf(`
		SELECT e.id, a.name, f.path, e.subject, e.sender_name, e.sender_email, e.date, e.is_read, e.has_attachments, e.body_text
		FROM emails e
		JOIN accounts a ON e.account_id = a.id
		JOIN folders f ON e.folder_id = f.id
		%s
		ORDER BY e.date DESC
		LIMIT ?
	`, whereClause)

	args = append(args, limit)

	rows, err := s.cache.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}
	defer rows.Close()

	var results []types.EmailSummary
	for rows.Next() {
		var summary types.EmailSummary
		var dateStr string
		var bodyText sql.NullString

		err := rows.Scan(
			&summary.ID,
			&summary.AccountName,
			&summary.FolderPath,
			&summary.Subject,
			&summary.SenderName,
			&summary.SenderEmail,
			&dateStr,
			&summary.IsRead,
			&summary.HasAttachments,
			&bodyText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}

		summary.Date = parseStoredTime(dateStr)

		// Create snippet from body
		if bodyText.Valid && len(bodyText.String) > 0 {
			snippet := bodyText.String
			if len(snippet) > 200 {
				snippet = snippet[:200] + "..."
			}
			summary.Snippet = snippet
		}

		results = append(results, summary)
	}

	return results, rows.Err()
}

// SearchFTS performs a full-text search using FTS5
func (s *Store) SearchFTS(query string, accountID *int, limit int) ([]types.EmailSummary, error) {
	escaped := strings.ReplaceAll(query, "\"", "\"\"")
	escaped = strings.ReplaceAll(escaped, "'", "''")
	return s.Search(SearchOptions{
		AccountID: accountID,
		Body:      &escaped,
		Limit:     limit,
	})
}
