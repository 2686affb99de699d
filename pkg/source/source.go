// Package source provides document sources for the chainviz viewer.
//
// A Source lists the value-chain documents available from a backing store
// and loads them by name. Two backends are provided:
//   - Dir: a directory of JSON files written by the extraction backend
//   - Mongo: a MongoDB collection the extraction backend writes into
//
// Loads are atomic: a Source either returns a complete, validated document
// or an error. The transformation core never sees a partial document.
//
// The Loader type wraps a Source with supersede semantics for interactive
// callers: when the user switches documents faster than loads complete, the
// stale in-flight load is cancelled and its result discarded.
package source

import (
	"context"

	"github.com/mhalbert/chainviz/pkg/chain"
)

// FileInfo describes one available document.
type FileInfo struct {
	// Name is the stable identifier used to load the document
	// (file name for Dir, document name for Mongo).
	Name string `json:"name"`
	// Label is the human-readable title, typically the document's root
	// topic. Falls back to Name when the title is unavailable.
	Label string `json:"label"`
}

// Source lists and loads value-chain documents.
type Source interface {
	// List returns the available documents sorted by name.
	List(ctx context.Context) ([]FileInfo, error)

	// Load fetches and validates the named document.
	// Returns a DOCUMENT_NOT_FOUND error when the name is unknown.
	Load(ctx context.Context, name string) (*chain.Document, error)
}
