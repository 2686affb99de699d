package source

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/errors"
)

// Loader wraps a Source with supersede semantics for interactive callers.
//
// When documents are switched faster than loads complete, Loader guarantees
// that a stale result can never be applied after a newer one: each Load
// cancels the previous in-flight load, and a load that finishes after being
// superseded returns a LOAD_SUPERSEDED error instead of its document.
//
// Loader is safe for concurrent use. The zero value is not usable; create
// one with NewLoader.
type Loader struct {
	src    Source
	logger *log.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewLoader creates a loader over src. The logger may be nil, in which case
// the default logger is used.
func NewLoader(src Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{src: src, logger: logger}
}

// Load fetches the named document, superseding any load still in flight.
//
// The returned document is guaranteed to be the most recently requested one
// at the time Load returns. A load overtaken by a newer request returns a
// LOAD_SUPERSEDED error; callers should discard it silently.
func (l *Loader) Load(ctx context.Context, name string) (*chain.Document, error) {
	requestID := uuid.NewString()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	loadCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	defer cancel()

	l.logger.Debug("loading document", "name", name, "request_id", requestID)

	doc, err := l.src.Load(loadCtx, name)

	l.mu.Lock()
	current := gen == l.gen
	l.mu.Unlock()

	if !current {
		l.logger.Debug("discarding superseded load", "name", name, "request_id", requestID)
		return nil, errors.New(errors.ErrCodeSuperseded, "load of %q superseded by a newer request", name)
	}
	if err != nil {
		return nil, err
	}

	l.logger.Debug("document loaded", "name", name, "request_id", requestID,
		"entities", len(doc.EntityDetails))
	return doc, nil
}
