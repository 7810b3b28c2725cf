package input

import (
	"context"
	"os"

	"github.com/jmylchreest/uisync/internal/engine"
)

// FileAdapter reads key/value pairs from a file on disk.
type FileAdapter struct {
	path string
}

// NewFileAdapter creates a FileAdapter for path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Name returns the adapter identifier.
func (a *FileAdapter) Name() string {
	return "file"
}

// Import reads the whole file and parses it like stdin input.
func (a *FileAdapter) Import(ctx context.Context) ([]engine.KeyValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, &AdapterError{Source: a.Name(), Message: "failed to read " + a.path, Err: err}
	}
	return Parse(a.Name(), data)
}
