package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/errors"
)

// Dir serves documents from a directory of JSON files.
// Every *.json file in the directory is one document; subdirectories are
// ignored. The document name is the file name without extension.
type Dir struct {
	path string
}

// NewDir creates a directory source rooted at path.
// Returns an error if the directory does not exist or is not readable.
func NewDir(path string) (*Dir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "open data directory %s", path)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeSource, "%s is not a directory", path)
	}
	return &Dir{path: path}, nil
}

// List returns the documents in the directory, sorted by name.
// Labels are the root topics read from the files; files that cannot be
// decoded still appear in the listing with the name as label, so a single
// corrupt file does not hide the rest.
func (d *Dir) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read data directory %s", d.path)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		files = append(files, FileInfo{
			Name:  name,
			Label: d.label(entry.Name(), name),
		})
	}

	slices.SortFunc(files, func(a, b FileInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return files, nil
}

// label extracts the root topic from a document file without a full decode.
func (d *Dir) label(filename, fallback string) string {
	data, err := os.ReadFile(filepath.Join(d.path, filename))
	if err != nil {
		return fallback
	}
	var head struct {
		RootTopic string `json:"root_topic"`
	}
	if err := json.Unmarshal(data, &head); err != nil || head.RootTopic == "" {
		return fallback
	}
	return head.RootTopic
}

// Load reads and validates the named document.
func (d *Dir) Load(ctx context.Context, name string) (*chain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(d.path, filepath.Base(name)+".json")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
		}
		return nil, errors.Wrap(errors.ErrCodeSource, err, "open %s", path)
	}
	defer f.Close()

	return chain.ReadDocument(f)
}

// Ensure Dir implements Source.
var _ Source = (*Dir)(nil)
