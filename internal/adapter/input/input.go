// Package input reads key/value pairs for bulk updates.
package input

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmylchreest/uisync/internal/engine"
)

// InputAdapter fetches key/value pairs from a source.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "stdin").
	Name() string

	// Import reads the pairs from the source.
	Import(ctx context.Context) ([]engine.KeyValue, error)
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// Parse decodes pairs read from source. Three formats are accepted:
//  1. a JSON array of {"key": ..., "value": ...} objects, as printed by
//     `uisync values --format json`
//  2. one such object per line, as printed by `--format jsonl`
//  3. KEY=VALUE lines; blank lines and lines starting with # are skipped
//
// Entries with an empty key are dropped from JSON input.
func Parse(source string, data []byte) ([]engine.KeyValue, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		return parseJSONArray(source, trimmed)
	case '{':
		return parseJSONLines(source, string(trimmed))
	}
	return parseLines(source, string(data))
}

func parseJSONArray(source string, data []byte) ([]engine.KeyValue, error) {
	var entries []engine.KeyValue
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &AdapterError{Source: source, Message: "failed to parse JSON input", Err: err}
	}

	out := entries[:0]
	for _, e := range entries {
		if e.Key != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

func parseJSONLines(source, data string) ([]engine.KeyValue, error) {
	var out []engine.KeyValue
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e engine.KeyValue
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, &AdapterError{
				Source:  source,
				Message: fmt.Sprintf("line %d: failed to parse JSON input", i+1),
				Err:     err,
			}
		}
		if e.Key != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

func parseLines(source, data string) ([]engine.KeyValue, error) {
	var out []engine.KeyValue
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &AdapterError{
				Source:  source,
				Message: fmt.Sprintf("line %d: expected KEY=VALUE", i+1),
			}
		}
		out = append(out, engine.KeyValue{Key: key, Value: value})
	}
	return out, nil
}
