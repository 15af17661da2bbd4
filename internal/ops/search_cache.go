package ops

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/cache"
	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/worker"
)

// SearchCacheOp searches previously synced messages in the local cache,
// without touching the server.
type SearchCacheOp struct {
	config *config.Config
	store  *cache.Store
	logger *logrus.Logger
}

// NewSearchCacheOp creates the cached-search operation.
func NewSearchCacheOp(cfg *config.Config, store *cache.Store, logger *logrus.Logger) *SearchCacheOp {
	return &SearchCacheOp{config: cfg, store: store, logger: logger}
}

// Name returns the operation name.
func (o *SearchCacheOp) Name() string {
	return "search.cache"
}

// Description returns the operation description.
func (o *SearchCacheOp) Description() string {
	return "Search locally cached messages with sender, subject, body, read-state and date filters"
}

// Execute executes the operation.
func (o *SearchCacheOp) Execute(params map[string]interface{}, token *worker.Token) (interface{}, error) {
	opts := cache.SearchOptions{Limit: o.config.SearchResultLimit}

	if accountName, ok := params["account"].(string); ok && accountName != "" {
		accountID, err := o.store.GetAccountID(accountName)
		if err != nil {
			return nil, err
		}
		opts.AccountID = &accountID
	}
	if v, ok := params["folder"].(string); ok && v != "" {
		opts.FolderPath = &v
	}
	if v, ok := params["sender"].(string); ok && v != "" {
		opts.Sender = &v
	}
	if v, ok := params["subject"].(string); ok && v != "" {
		opts.Subject = &v
	}
	if v, ok := params["body"].(string); ok && v != "" {
		opts.Body = &v
	}
	if v, ok := params["unread_only"].(bool); ok && v {
		opts.Unread = &v
	}
	if v, ok := params["has_attachments"].(bool); ok {
		opts.HasAttachments = &v
	}
	if v, ok := params["date_from"].(string); ok && v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date_from format: %w", err)
		}
		opts.DateFrom = &from
	}
	if v, ok := params["date_to"].(string); ok && v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date_to format: %w", err)
		}
		opts.DateTo = &to
	}
	if v, ok := params["limit"].(float64); ok && v > 0 {
		opts.Limit = int(v)
	}

	results, err := o.store.Search(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search cache: %w", err)
	}
	return results, nil
}
