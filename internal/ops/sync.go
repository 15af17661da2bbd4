package ops

import (
	"fmt"

	"github.com/dzieju/dzieju-app2/internal/mail"
	"github.com/dzieju/dzieju-app2/internal/worker"
)

// SyncOp pulls an account's folders and recent messages into the local
// cache.
type SyncOp struct {
	manager *mail.Manager
}

// NewSyncOp creates the sync operation.
func NewSyncOp(manager *mail.Manager) *SyncOp {
	return &SyncOp{manager: manager}
}

// Name returns the operation name.
func (o *SyncOp) Name() string {
	return "account.sync"
}

// Description returns the operation description.
func (o *SyncOp) Description() string {
	return "Sync an account's folders and recent messages into the local cache"
}

// Execute executes the operation.
func (o *SyncOp) Execute(params map[string]interface{}, token *worker.Token) (interface{}, error) {
	accountName, _ := params["account"].(string)
	folderName, _ := params["folder"].(string)

	if token != nil && token.Cancelled() {
		return nil, nil
	}
	if err := o.manager.SyncAccount(accountName, folderName); err != nil {
		return nil, fmt.Errorf("sync failed: %w", err)
	}
	return map[string]interface{}{"status": "synced"}, nil
}
