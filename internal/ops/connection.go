package ops

import (
	"fmt"

	"github.com/dzieju/dzieju-app2/internal/mail"
	"github.com/dzieju/dzieju-app2/internal/worker"
)

// TestConnectionOp verifies that an account's server accepts its configured
// credentials. It is the canonical background operation: slow, cancellable
// between its steps, and reporting a single terminal outcome.
type TestConnectionOp struct {
	manager *mail.Manager
}

// NewTestConnectionOp creates the connection-test operation.
func NewTestConnectionOp(manager *mail.Manager) *TestConnectionOp {
	return &TestConnectionOp{manager: manager}
}

// Name returns the operation name.
func (o *TestConnectionOp) Name() string {
	return "connection.test"
}

// Description returns the operation description.
func (o *TestConnectionOp) Description() string {
	return "Verify that the account's mail server accepts the configured credentials"
}

// Execute executes the operation.
func (o *TestConnectionOp) Execute(params map[string]interface{}, token *worker.Token) (interface{}, error) {
	accountName, _ := params["account"].(string)

	if token != nil && token.Cancelled() {
		return nil, nil
	}
	if err := o.manager.TestConnection(accountName); err != nil {
		return nil, fmt.Errorf("connection test failed: %w", err)
	}
	return map[string]interface{}{"status": "ok"}, nil
}
