package ops

import (
	"fmt"

	"github.com/dzieju/dzieju-app2/internal/cache"
	"github.com/dzieju/dzieju-app2/internal/worker"
)

// GetEmailOp fetches a single cached email, body included.
type GetEmailOp struct {
	store *cache.Store
}

// NewGetEmailOp creates the email-retrieval operation.
func NewGetEmailOp(store *cache.Store) *GetEmailOp {
	return &GetEmailOp{store: store}
}

// Name returns the operation name.
func (o *GetEmailOp) Name() string {
	return "email.get"
}

// Description returns the operation description.
func (o *GetEmailOp) Description() string {
	return "Retrieve a cached email by its cache ID, including the body text"
}

// Execute executes the operation.
func (o *GetEmailOp) Execute(params map[string]interface{}, token *worker.Token) (interface{}, error) {
	var emailID int64
	switch v := params["email_id"].(type) {
	case float64:
		emailID = int64(v)
	case int64:
		emailID = v
	case int:
		emailID = int64(v)
	default:
		return nil, fmt.Errorf("email_id is required")
	}

	email, err := o.store.GetEmail(emailID)
	if err != nil {
		return nil, err
	}
	return email, nil
}
