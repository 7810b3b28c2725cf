package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/uisync/internal/engine"
)

// JSONFormatter formats entries as an indented JSON array, or as one compact
// object per line when lines is set.
type JSONFormatter struct {
	opts  FormatterOptions
	lines bool
}

// NewJSONFormatter creates a formatter writing a JSON array.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// NewJSONLinesFormatter creates a formatter writing JSON Lines.
func NewJSONLinesFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts, lines: true}
}

// Format writes entries.
func (f *JSONFormatter) Format(w io.Writer, values []engine.KeyValue) error {
	entries := toEntries(values, f.opts.ListSeparator)
	enc := json.NewEncoder(w)
	if !f.lines {
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
