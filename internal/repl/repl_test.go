package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/testutil"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return New(&out, Config{Styles: diag.PlainStyles(), Logger: testutil.NewTestLogger(t)}), &out
}

func TestFeedCompilesCompleteInput(t *testing.T) {
	r, out := newTestREPL(t)

	unit, quit := r.Feed("let x: number = 42;")
	assert.False(t, quit)
	assert.Equal(t, "let x: number = 42;", unit)
	assert.Contains(t, out.String(), "Constants (1):")
	assert.Contains(t, out.String(), "PUSH_CONST")
	assert.Contains(t, out.String(), "STORE_LOCAL")
	assert.Equal(t, Prompt, r.Prompt())
}

func TestFeedBuffersOpenBlocks(t *testing.T) {
	r, out := newTestREPL(t)

	unit, _ := r.Feed("def add(a, b) {")
	assert.Empty(t, unit)
	assert.Equal(t, ContinuationPrompt, r.Prompt())
	assert.Empty(t, out.String())

	unit, _ = r.Feed("  return a + b;")
	assert.Empty(t, unit)

	unit, _ = r.Feed("}")
	assert.Equal(t, "def add(a, b) {\n  return a + b;\n}", unit)
	assert.Equal(t, Prompt, r.Prompt())
	assert.Contains(t, out.String(), "MAKE_FUNCTION")
}

func TestFeedPrintsDiagnostics(t *testing.T) {
	r, out := newTestREPL(t)

	r.Feed("let = 1;")
	assert.Contains(t, out.String(), "error")
	assert.NotContains(t, out.String(), "Instructions")
}

func TestFeedQuitAndBlankLines(t *testing.T) {
	r, out := newTestREPL(t)

	unit, quit := r.Feed("   ")
	assert.Empty(t, unit)
	assert.False(t, quit)

	_, quit = r.Feed("exit")
	assert.True(t, quit)
	_, quit = r.Feed("quit")
	assert.True(t, quit)
	assert.Empty(t, out.String())
}

func TestCommands(t *testing.T) {
	r, out := newTestREPL(t)

	r.Feed(":optimize")
	assert.True(t, r.opts.Optimize)
	r.Feed(":debug")
	assert.True(t, r.opts.Debug)
	r.Feed(":stats")
	r.Feed(":tokens")
	r.Feed(":bogus")

	text := out.String()
	assert.Contains(t, text, "optimize: on")
	assert.Contains(t, text, "debug: on")
	assert.Contains(t, text, "stats: on")
	assert.Contains(t, text, "tokens: on")
	assert.Contains(t, text, "Unknown command: :bogus")

	out.Reset()
	r.Feed("let x = 1 + 2;")
	text = out.String()
	assert.Contains(t, text, "optimizations=1")
	assert.Contains(t, text, `"let"`)
	assert.Regexp(t, `int\s+│ 3\s`, text)
	// The header row renders as ADDR, so match the opcode cell only.
	assert.NotContains(t, text, "│ ADD ")
}

func TestRunBatch(t *testing.T) {
	r, out := newTestREPL(t)

	err := r.RunBatch(strings.NewReader("let a = 1;\nlet b = a + 2;\n"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "│ ADD ")

	r, _ = newTestREPL(t)
	err = r.RunBatch(strings.NewReader("let = ;"))
	assert.ErrorContains(t, err, "compilation failed")
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"let x = 1;", false},
		{"def f() {", true},
		{"foo(1,", true},
		{"let a = [1, 2", true},
		{"let s = \"{\";", false},
		{"/* open", true},
		{"}", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, needsMoreInput(tt.src), tt.src)
	}
}

func TestComplete(t *testing.T) {
	assert.Equal(t, []string{"let x = 1; le" + "t"}, complete("let x = 1; le"))
	assert.Contains(t, complete("wh"), "while")
	assert.Nil(t, complete("let "))
	assert.Nil(t, complete(""))
}
