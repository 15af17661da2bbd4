// Package ops exposes the application's operations behind a uniform
// name/params interface so the CLI front end can dispatch them, and runs the
// long ones on the background worker.
package ops

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/cache"
	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/mail"
	"github.com/dzieju/dzieju-app2/internal/worker"
)

// Operation is one dispatchable operation.
type Operation interface {
	Name() string
	Description() string
	Execute(params map[string]interface{}, token *worker.Token) (interface{}, error)
}

// Registry manages the available operations and the background runner that
// executes them.
type Registry struct {
	config  *config.Config
	logger  *logrus.Logger
	manager *mail.Manager
	store   *cache.Store
	runner  *worker.Runner
	ops     map[string]Operation
}

// NewRegistry creates a registry with all operations registered.
func NewRegistry(cfg *config.Config, manager *mail.Manager, store *cache.Store, logger *logrus.Logger) *Registry {
	reg := &Registry{
		config:  cfg,
		logger:  logger,
		manager: manager,
		store:   store,
		runner:  worker.NewRunner(0),
		ops:     make(map[string]Operation),
	}

	reg.register(
		NewListFoldersOp(manager, logger),
		NewSearchOp(cfg, manager, logger),
		NewSearchCacheOp(cfg, store, logger),
		NewTestConnectionOp(manager),
		NewSyncOp(manager),
		NewGetEmailOp(store),
	)

	return reg
}

func (r *Registry) register(ops ...Operation) {
	for _, op := range ops {
		r.ops[op.Name()] = op
		r.logger.WithField("op", op.Name()).Debug("Registered operation")
	}
	r.logger.WithField("count", len(r.ops)).Info("Registered operations")
}

// Get returns an operation by name.
func (r *Registry) Get(name string) (Operation, bool) {
	op, exists := r.ops[name]
	return op, exists
}

// List returns all registered operations.
func (r *Registry) List() []Operation {
	ops := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		ops = append(ops, op)
	}
	return ops
}

// Execute runs an operation synchronously, without cancellation support.
func (r *Registry) Execute(name string, params map[string]interface{}) (interface{}, error) {
	op, exists := r.ops[name]
	if !exists {
		return nil, fmt.Errorf("unknown operation: %s", name)
	}
	return op.Execute(params, nil)
}

// Start launches an operation on the background runner. It reports false
// when another operation is still in flight; per the runner contract that
// call doubles as a cancellation request for the running one.
func (r *Registry) Start(name string, params map[string]interface{}) (bool, error) {
	op, exists := r.ops[name]
	if !exists {
		return false, fmt.Errorf("unknown operation: %s", name)
	}

	started := r.runner.Start(name, func(token *worker.Token) worker.Result {
		payload, err := op.Execute(params, token)
		if err != nil {
			return worker.Result{Kind: worker.KindError, Message: err.Error()}
		}
		return worker.Result{Kind: worker.KindSuccess, Payload: payload}
	})
	return started, nil
}

// Cancel requests cancellation of the in-flight operation.
func (r *Registry) Cancel() {
	r.runner.Cancel()
}

// Busy reports whether an operation is in flight.
func (r *Registry) Busy() bool {
	return r.runner.Busy()
}

// Poll drains pending background results.
func (r *Registry) Poll() []worker.Result {
	return r.runner.Poll()
}
