// Package compiler runs the full pipeline from source text to bytecode:
// lexing, parsing, optional AST optimization, code generation and jump
// threading.
package compiler

import (
	"log/slog"
	"time"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/codegen"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/optimize"
	"github.com/noodle-lang/noodlec/internal/parser"
)

// Options configures a compilation.
type Options struct {
	// Optimize enables constant folding, match pruning and jump threading.
	Optimize bool
	// Debug keeps the source location of every instruction.
	Debug bool
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Statistics summarizes one compilation.
type Statistics struct {
	InstructionCount     int `json:"instruction_count" yaml:"instruction_count"`
	ConstantCount        int `json:"constant_count" yaml:"constant_count"`
	OptimizationsApplied int `json:"optimizations_applied" yaml:"optimizations_applied"`
	TokenCount           int `json:"token_count" yaml:"token_count"`
	NodeCount            int `json:"node_count" yaml:"node_count"`
	ErrorCount           int `json:"error_count" yaml:"error_count"`
	WarningCount         int `json:"warning_count" yaml:"warning_count"`
}

// Result is the outcome of compiling one source unit.
type Result struct {
	Filename               string                 `json:"file,omitempty" yaml:"file,omitempty"`
	Success                bool                   `json:"success" yaml:"success"`
	Instructions           []bytecode.Instruction `json:"instructions" yaml:"instructions"`
	Constants              []any                  `json:"constants" yaml:"constants"`
	Globals                map[string]int         `json:"globals" yaml:"globals"`
	Statistics             Statistics             `json:"statistics" yaml:"statistics"`
	CompilationTimeSeconds float64                `json:"compilation_time_seconds" yaml:"compilation_time_seconds"`
	Diagnostics            []diag.Diagnostic      `json:"diagnostics" yaml:"diagnostics"`
}

// HasErrors reports whether any diagnostic is an error. A result can be
// successful and still carry errors.
func (r *Result) HasErrors() bool {
	return diag.HasErrors(r.Diagnostics)
}

// Compile compiles source. It never fails: every problem is reported as a
// diagnostic on the result, in lexer, parser, codegen order.
func Compile(source, filename string, opts Options) *Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("file", filename))

	start := time.Now()
	res := &Result{
		Filename:     filename,
		Instructions: []bytecode.Instruction{},
		Constants:    []any{},
		Globals:      map[string]int{},
		Diagnostics:  []diag.Diagnostic{},
	}

	p := parser.New(source, parser.WithFilename(filename))
	prog := p.ParseProgram()

	for _, lexErr := range p.LexErrors() {
		res.Diagnostics = append(res.Diagnostics, lexErr.ToDiagnostic())
	}
	for _, parseErr := range p.Errors() {
		res.Diagnostics = append(res.Diagnostics, parseErr.ToDiagnostic())
	}

	res.Statistics.TokenCount = p.TokenCount()
	res.Statistics.NodeCount = ast.Count(prog)
	logger.Debug("parsed",
		slog.Int("tokens", res.Statistics.TokenCount),
		slog.Int("nodes", res.Statistics.NodeCount),
		slog.Int("statements", len(prog.Stmts)),
		slog.Int("lexer_errors", len(p.LexErrors())),
		slog.Int("parser_errors", len(p.Errors())),
	)

	optimizations := 0
	if opts.Optimize {
		folds := optimize.FoldConstants(prog)
		pruned := optimize.PruneMatches(prog)
		optimizations += folds + pruned
		logger.Debug("optimized ast", slog.Int("folds", folds), slog.Int("pruned_matches", pruned))
	}

	gen := codegen.Generate(prog, codegen.Options{Debug: opts.Debug})
	res.Diagnostics = append(res.Diagnostics, gen.Diagnostics...)
	res.Instructions = gen.Instructions
	res.Constants = gen.Constants
	res.Globals = gen.Globals
	logger.Debug("generated",
		slog.Int("instructions", len(gen.Instructions)),
		slog.Int("constants", len(gen.Constants)),
		slog.Int("diagnostics", len(gen.Diagnostics)),
	)

	if opts.Optimize {
		var threaded int
		res.Instructions, threaded = optimize.ThreadJumps(res.Instructions)
		optimizations += threaded
		logger.Debug("threaded jumps", slog.Int("rewrites", threaded))
	}

	res.Success = len(prog.Stmts) > 0
	res.Statistics.InstructionCount = len(res.Instructions)
	res.Statistics.ConstantCount = len(res.Constants)
	res.Statistics.OptimizationsApplied = optimizations
	res.Statistics.ErrorCount = diag.Count(res.Diagnostics, diag.SeverityError)
	res.Statistics.WarningCount = diag.Count(res.Diagnostics, diag.SeverityWarning)
	res.CompilationTimeSeconds = time.Since(start).Seconds()

	logger.Debug("compiled",
		slog.Bool("success", res.Success),
		slog.Int("errors", res.Statistics.ErrorCount),
		slog.Int("warnings", res.Statistics.WarningCount),
	)

	return res
}
