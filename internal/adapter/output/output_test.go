package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/uisync/internal/engine"
)

func testValues() []engine.KeyValue {
	return []engine.KeyValue{
		{Key: "Inv.IniState", Value: "0.5|0.25"},
		{Key: "Inv.Title", Value: "Bags\nand boxes"},
	}
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	err := NewPlainFormatter(DefaultFormatterOptions()).Format(&buf, testValues())
	require.NoError(t, err)

	assert.Equal(t, "Inv.IniState = 0.5|0.25\nInv.Title = Bags\\nand boxes\n", buf.String())
}

func TestPlainFormatter_IndexAndTruncate(t *testing.T) {
	var buf bytes.Buffer
	opts := FormatterOptions{ShowIndex: true, ValueMaxLen: 6, Separator: ": "}

	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testValues()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[1] Inv.IniState: 0.5...", lines[0])
	assert.Equal(t, "[2] Inv.Title: Bag...", lines[1])
}

func TestPlainFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer
	opts := FormatterOptions{Template: `{{.Index}} {{.Key}} {{range split .Value "|"}}<{{.}}>{{end}}`}

	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testValues()[:1]))

	assert.Equal(t, "1 Inv.IniState <0.5><0.25>\n", buf.String())
}

func TestPlainFormatter_BadTemplateFallsBack(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewPlainFormatter(FormatterOptions{Template: "{{"}).Format(&buf, testValues()[:1]))

	assert.Equal(t, "Inv.IniState = 0.5|0.25\n", buf.String())
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	err := NewJSONFormatter(FormatterOptions{ListSeparator: "|"}).Format(&buf, testValues())
	require.NoError(t, err)

	var got []entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, []string{"0.5", "0.25"}, got[0].List)
	assert.Nil(t, got[1].List)
	assert.Equal(t, "Bags\nand boxes", got[1].Value)
}

func TestJSONLinesFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewJSONLinesFormatter(FormatterOptions{}).Format(&buf, testValues()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"key":"Inv.IniState","value":"0.5|0.25"}`, lines[0])
	assert.Equal(t, `{"key":"Inv.Title","value":"Bags\nand boxes"}`, lines[1])
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewYAMLFormatter(FormatterOptions{}).Format(&buf, testValues()))

	var got []entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Inv.IniState", got[0].Key)
	assert.Contains(t, buf.String(), "key: Inv.Title")
}

func TestKeysFormatter(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewKeysFormatter().Format(&buf, testValues()))

	assert.Equal(t, "Inv.IniState\nInv.Title\n", buf.String())
}

func TestMarshal(t *testing.T) {
	s, err := Marshal(testValues()[:1])
	require.NoError(t, err)
	assert.Contains(t, s, "key: Inv.IniState")
	assert.Contains(t, s, "value: 0.5|0.25")
	assert.NotContains(t, s, "list:")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    FormatType
		wantErr bool
	}{
		{"", FormatPlain, false},
		{"plain", FormatPlain, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"keys", FormatKeys, false},
		{"jsonl", FormatJSONL, false},
		{"dmenu", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format   FormatType
		expected string
	}{
		{FormatJSON, "*output.JSONFormatter"},
		{FormatYAML, "*output.YAMLFormatter"},
		{FormatKeys, "*output.KeysFormatter"},
		{FormatPlain, "*output.PlainFormatter"},
		{"unknown", "*output.PlainFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format, DefaultFormatterOptions())
			assert.Equal(t, tt.expected, typeName(f))
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *JSONFormatter:
		return "*output.JSONFormatter"
	case *YAMLFormatter:
		return "*output.YAMLFormatter"
	case *KeysFormatter:
		return "*output.KeysFormatter"
	case *PlainFormatter:
		return "*output.PlainFormatter"
	}
	return "unknown"
}
