package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/noodle-lang/noodlec/internal/diag"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func newTestRenderer(mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewRenderer(&out, &errOut, mode, true), &out, &errOut
}

func TestStructured(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON)
		ok, err := r.Structured(sample{Name: "a", Count: 2})
		require.NoError(t, err)
		assert.True(t, ok)

		var got sample
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, sample{Name: "a", Count: 2}, got)
		assert.Contains(t, out.String(), "\n  \"name\"")
	})

	t.Run("yaml", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeYAML)
		ok, err := r.Structured(sample{Name: "b", Count: 3})
		require.NoError(t, err)
		assert.True(t, ok)

		var got sample
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, sample{Name: "b", Count: 3}, got)
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText)
		ok, err := r.Structured(sample{})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, out.String())
	})
}

func TestNonTerminalIsPlain(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText)
	assert.False(t, IsTerminal(out))

	r.Success("built %d file(s)", 2)
	r.Warn("careful")
	assert.Equal(t, "built 2 file(s)\n", out.String())
	assert.Equal(t, "careful\n", errOut.String())
}

func TestDiagnostics(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText)

	r.Diagnostics(nil, nil)
	assert.Empty(t, errOut.String())

	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Message:  "unexpected token",
		Span:     diag.Span{Filename: "a.nd", Line: 1, Column: 5, Start: 4, End: 5},
	}
	r.Diagnostics(map[string]string{"a.nd": "let = 1;"}, []diag.Diagnostic{d})
	assert.Contains(t, errOut.String(), "unexpected token")
	assert.Contains(t, errOut.String(), "let = 1;")
	assert.Empty(t, out.String())
}

func TestTable(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText)
	r.Table(table.Row{"File", "Status"}, []table.Row{{"a.nd", "ok"}, {"b.nd", "failed"}})

	text := out.String()
	assert.Contains(t, text, "FILE")
	assert.Contains(t, text, "a.nd")
	assert.Contains(t, text, "failed")
}
