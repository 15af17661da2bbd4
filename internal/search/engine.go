package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/folders"
)

// ErrCancelled is returned by Run when the cancellation flag was observed;
// hits gathered before that point are still returned.
var ErrCancelled = errors.New("search cancelled")

// Source supplies the folder listing and per-folder message streams.
// Protocol adapters (IMAP, Exchange) implement it.
type Source interface {
	ListFolders() ([]*folders.Folder, error)
	Messages(folder string) ([]*Message, error)
}

// Hit is one matching message, annotated with the PDF scan outcome when a
// PDF term was part of the criteria.
type Hit struct {
	Message *Message `json:"message"`
	PDF     *Outcome `json:"pdf,omitempty"`
}

// Engine walks the message stream of every included folder and applies the
// criteria evaluator, reporting progress and hits through callbacks so a UI
// can render incrementally.
type Engine struct {
	source    Source
	evaluator *Evaluator
	logger    *logrus.Logger

	// OnProgress and OnResult are invoked from the worker goroutine running
	// Run; coordinators must hand their effects back to the controlling
	// thread (see worker.Runner).
	OnProgress func(status string)
	OnResult   func(hit *Hit)
}

// NewEngine creates a search engine over the given source.
func NewEngine(source Source, evaluator *Evaluator, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{source: source, evaluator: evaluator, logger: logger}
}

// Run executes one search. The cancelled func is the cooperative
// cancellation flag from the coordinator; it is checked before each folder
// and each message so no further remote calls are issued once it trips.
//
// Folder exclusion happens here, at enumeration time: messages arrive at the
// evaluator already scoped to an included folder.
func (e *Engine) Run(cancelled func() bool, c Criteria) ([]*Hit, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search criteria: %w", err)
	}

	all, err := e.source.ListFolders()
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	included := e.includedFolders(all, c)

	var hits []*Hit
	for i, f := range included {
		if cancelled != nil && cancelled() {
			return hits, ErrCancelled
		}
		e.progress(fmt.Sprintf("Searching folder %d/%d: %s", i+1, len(included), f.Name))

		messages, err := e.source.Messages(f.Name)
		if err != nil {
			e.logger.WithError(err).WithField("folder", f.Name).Warn("Failed to fetch folder messages")
			continue
		}

		for _, msg := range messages {
			if cancelled != nil && cancelled() {
				return hits, ErrCancelled
			}
			res := e.evaluator.Evaluate(msg, c)
			if !res.Matched {
				continue
			}
			hit := &Hit{Message: msg, PDF: res.PDF}
			hits = append(hits, hit)
			if e.OnResult != nil {
				e.OnResult(hit)
			}
		}
	}

	e.progress(fmt.Sprintf("Search finished: %d matches", len(hits)))
	return hits, nil
}

// includedFolders applies the folder scope and the exclusion set. The scope
// folder includes its subfolders (delimiter-prefixed paths).
func (e *Engine) includedFolders(all []*folders.Folder, c Criteria) []*folders.Folder {
	excluded := make(map[string]bool, len(c.ExcludedFolders))
	for _, name := range c.ExcludedFolders {
		excluded[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var out []*folders.Folder
	for _, f := range all {
		if excluded[strings.ToLower(f.Name)] {
			continue
		}
		if c.Folder != "" && !inScope(f, c.Folder) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func inScope(f *folders.Folder, scope string) bool {
	if strings.EqualFold(f.Name, scope) {
		return true
	}
	delim := f.Delimiter
	if delim == "" {
		delim = "/"
	}
	return strings.HasPrefix(strings.ToLower(f.Name), strings.ToLower(scope)+delim)
}

func (e *Engine) progress(status string) {
	e.logger.Debug(status)
	if e.OnProgress != nil {
		e.OnProgress(status)
	}
}
