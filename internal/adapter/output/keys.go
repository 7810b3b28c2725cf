package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/uisync/internal/engine"
)

// KeysFormatter outputs just the keys, one per line.
// Useful for piping to other commands (e.g., uisync values | xargs).
type KeysFormatter struct{}

// NewKeysFormatter creates a new keys formatter.
func NewKeysFormatter() *KeysFormatter {
	return &KeysFormatter{}
}

// Format writes keys to the writer, one per line.
func (f *KeysFormatter) Format(w io.Writer, values []engine.KeyValue) error {
	for _, kv := range values {
		if _, err := fmt.Fprintln(w, kv.Key); err != nil {
			return err
		}
	}
	return nil
}
