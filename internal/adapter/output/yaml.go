package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/uisync/internal/engine"
)

// YAMLFormatter formats entries as a YAML sequence.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes entries as YAML.
func (f *YAMLFormatter) Format(w io.Writer, values []engine.KeyValue) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toEntries(values, f.opts.ListSeparator)); err != nil {
		return err
	}
	return enc.Close()
}

// Marshal renders values as a YAML document.
func Marshal(values []engine.KeyValue) (string, error) {
	b, err := yaml.Marshal(toEntries(values, ""))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
