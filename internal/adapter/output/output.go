// Package output provides output formatters for engine values.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/uisync/internal/engine"
)

// Formatter formats key/value entries for output.
type Formatter interface {
	// Format writes formatted entries to the writer.
	Format(w io.Writer, values []engine.KeyValue) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatJSONL FormatType = "jsonl"
	FormatYAML  FormatType = "yaml"
	FormatKeys  FormatType = "keys"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (FormatType, error) {
	switch f := FormatType(strings.ToLower(s)); f {
	case FormatPlain, FormatJSON, FormatJSONL, FormatYAML, FormatKeys:
		return f, nil
	case "":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("unknown format %q (want plain, json, jsonl, yaml or keys)", s)
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatJSONL:
		return NewJSONLinesFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatKeys:
		return NewKeysFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template      string // Custom template for plain format
	ShowIndex     bool   // Show 1-based index prefix
	ValueMaxLen   int    // Maximum value length in plain output (0 = unlimited)
	Separator     string // Between key and value in plain output
	ListSeparator string // Splits list values in structured output (empty = keep as string)
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		Separator: " = ",
	}
}

// entry is the structured form of a value. List values are split when a
// list separator is configured.
type entry struct {
	Key   string   `json:"key" yaml:"key"`
	Value string   `json:"value" yaml:"value"`
	List  []string `json:"list,omitempty" yaml:"list,omitempty"`
}

func toEntries(values []engine.KeyValue, listSep string) []entry {
	out := make([]entry, 0, len(values))
	for _, kv := range values {
		e := entry{Key: kv.Key, Value: kv.Value}
		if listSep != "" && strings.Contains(kv.Value, listSep) {
			e.List = strings.Split(kv.Value, listSep)
		}
		out = append(out, e)
	}
	return out
}
