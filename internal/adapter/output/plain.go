package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/uisync/internal/engine"
)

// PlainFormatter formats entries as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// templateData provides data for custom templates.
type templateData struct {
	Index int
	Key   string
	Value string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"split": func(s, sep string) []string {
			if s == "" {
				return nil
			}
			return strings.Split(s, sep)
		},
	}
}

// Format writes entries as plain text, one per line.
func (f *PlainFormatter) Format(w io.Writer, values []engine.KeyValue) error {
	for i, kv := range values {
		if err := f.formatEntry(w, i+1, kv); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatEntry(w io.Writer, index int, kv engine.KeyValue) error {
	if f.template != nil {
		if err := f.template.Execute(w, templateData{Index: index, Key: kv.Key, Value: kv.Value}); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}
	sep := f.opts.Separator
	if sep == "" {
		sep = " = "
	}
	sb.WriteString(kv.Key)
	sb.WriteString(sep)
	sb.WriteString(sanitizeValue(kv.Value, f.opts.ValueMaxLen))
	sb.WriteString("\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// sanitizeValue makes a value printable on one line.
func sanitizeValue(v string, maxLen int) string {
	v = strings.ReplaceAll(v, "\r", "")
	v = strings.ReplaceAll(v, "\n", "\\n")
	v = strings.ReplaceAll(v, "\t", "\\t")
	return truncate(v, maxLen)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
