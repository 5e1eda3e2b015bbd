// Package repl is an interactive front end to the compiler: each complete
// input is compiled on its own and its diagnostics and disassembly are
// printed.
package repl

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/compiler"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

const (
	Prompt             = "noodle> "
	ContinuationPrompt = "   ...> "
)

// inputName labels diagnostics for REPL input.
const inputName = "<repl>"

// Config configures a REPL.
type Config struct {
	// Compile holds the initial compiler options; :optimize and :debug
	// toggle them.
	Compile compiler.Options
	// Styles colour diagnostics.
	Styles diag.Styles
	// HistoryFile persists line history. Empty uses the user cache dir.
	HistoryFile string
	// Version is shown in the banner.
	Version string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// REPL holds the state of one session.
type REPL struct {
	out        io.Writer
	cfg        Config
	opts       compiler.Options
	showTokens bool
	showStats  bool
	buf        strings.Builder
	logger     *slog.Logger
}

// New creates a session writing to out.
func New(out io.Writer, cfg Config) *REPL {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &REPL{out: out, cfg: cfg, opts: cfg.Compile, logger: logger}
}

// Start runs an interactive session when in is a terminal. Otherwise the
// whole input is compiled as one unit.
func Start(in *os.File, out io.Writer, cfg Config) error {
	r := New(out, cfg)
	if !term.IsTerminal(int(in.Fd())) {
		return r.RunBatch(in)
	}
	return r.runInteractive()
}

// RunBatch compiles everything read from in as a single unit. It returns
// an error when the input has compile errors.
func (r *REPL) RunBatch(in io.Reader) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if res := r.compile(string(src)); res.HasErrors() {
		return fmt.Errorf("compilation failed with %d error(s)", res.Statistics.ErrorCount)
	}
	return nil
}

func (r *REPL) runInteractive() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	historyFile := r.historyFile()
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
			r.logger.Debug("cannot create history dir", slog.String("error", err.Error()))
			return
		}
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(r.out, "noodlec %s\n", r.cfg.Version)
	fmt.Fprintln(r.out, "Type ':help' for commands, 'exit' or Ctrl+D to quit")

	for {
		input, err := line.Prompt(r.Prompt())
		if err == liner.ErrPromptAborted {
			if r.buf.Len() > 0 {
				fmt.Fprintln(r.out, "^C (cleared)")
			}
			r.buf.Reset()
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		unit, quit := r.Feed(input)
		if quit {
			return nil
		}
		if unit != "" {
			line.AppendHistory(unit)
		}
	}
}

func (r *REPL) historyFile() string {
	if r.cfg.HistoryFile != "" {
		return r.cfg.HistoryFile
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "noodlec", "history")
}

// Prompt returns the prompt for the next line.
func (r *REPL) Prompt() string {
	if r.buf.Len() > 0 {
		return ContinuationPrompt
	}
	return Prompt
}

// Feed handles one line of input. It returns the complete input once a
// unit has been compiled, and quit when the session should end.
func (r *REPL) Feed(input string) (unit string, quit bool) {
	trimmed := strings.TrimSpace(input)

	if r.buf.Len() == 0 {
		switch {
		case trimmed == "":
			return "", false
		case trimmed == "exit" || trimmed == "quit":
			return "", true
		case strings.HasPrefix(trimmed, ":"):
			r.command(trimmed)
			return "", false
		}
	}

	if r.buf.Len() > 0 {
		r.buf.WriteByte('\n')
	}
	r.buf.WriteString(input)

	src := r.buf.String()
	if needsMoreInput(src) {
		return "", false
	}
	r.buf.Reset()

	r.compile(src)
	return src, false
}

func (r *REPL) command(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(r.out, "Commands:")
		fmt.Fprintln(r.out, "  :help       show this help")
		fmt.Fprintln(r.out, "  :optimize   toggle optimizations")
		fmt.Fprintln(r.out, "  :debug      toggle source locations")
		fmt.Fprintln(r.out, "  :tokens     toggle the token listing")
		fmt.Fprintln(r.out, "  :stats      toggle compilation statistics")
		fmt.Fprintln(r.out, "  exit, quit  leave the REPL")
	case ":optimize":
		r.opts.Optimize = !r.opts.Optimize
		fmt.Fprintf(r.out, "optimize: %s\n", onOff(r.opts.Optimize))
	case ":debug":
		r.opts.Debug = !r.opts.Debug
		fmt.Fprintf(r.out, "debug: %s\n", onOff(r.opts.Debug))
	case ":tokens":
		r.showTokens = !r.showTokens
		fmt.Fprintf(r.out, "tokens: %s\n", onOff(r.showTokens))
	case ":stats":
		r.showStats = !r.showStats
		fmt.Fprintf(r.out, "stats: %s\n", onOff(r.showStats))
	default:
		fmt.Fprintf(r.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func (r *REPL) compile(src string) *compiler.Result {
	if r.showTokens {
		tokens, _ := lexer.Tokenize(src, inputName)
		for _, tok := range tokens {
			fmt.Fprintf(r.out, "%d:%d\t%s\t%q\n", tok.Span.Line, tok.Span.Column, tok.Type, tok.Raw)
		}
	}

	opts := r.opts
	opts.Logger = r.logger
	res := compiler.Compile(src, inputName, opts)

	if len(res.Diagnostics) > 0 {
		f := diag.NewFormatter(r.out, r.cfg.Styles)
		f.AddSource(inputName, src)
		f.FormatAll(res.Diagnostics)
		fmt.Fprintln(r.out)
	}
	if !res.HasErrors() {
		bytecode.Disassemble(r.out, res.Instructions, res.Constants)
	}
	if r.showStats {
		s := res.Statistics
		fmt.Fprintf(r.out, "tokens=%d nodes=%d instructions=%d constants=%d optimizations=%d time=%.6fs\n",
			s.TokenCount, s.NodeCount, s.InstructionCount, s.ConstantCount, s.OptimizationsApplied,
			res.CompilationTimeSeconds)
	}
	return res
}

// needsMoreInput reports whether src is cut off inside a bracket pair, a
// block string or a block comment.
func needsMoreInput(src string) bool {
	tokens, errs := lexer.Tokenize(src, inputName)
	for _, e := range errs {
		if e.Kind == lexer.ErrUnterminatedBlockString || e.Kind == lexer.ErrUnterminatedBlockComment {
			return true
		}
	}

	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.LBRACE, lexer.LPAREN, lexer.LBRACKET:
			depth++
		case lexer.RBRACE, lexer.RPAREN, lexer.RBRACKET:
			depth--
		}
	}
	return depth > 0
}

// complete offers keywords matching the last word of the line.
func complete(line string) []string {
	if line == "" || strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	last := words[len(words)-1]
	prefix := line[:len(line)-len(last)]

	var matches []string
	for _, kw := range lexer.Keywords() {
		if strings.HasPrefix(kw, last) {
			matches = append(matches, prefix+kw)
		}
	}
	return matches
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
