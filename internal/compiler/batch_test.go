package compiler_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noodle-lang/noodlec/internal/compiler"
)

func TestCompileAll_PreservesOrder(t *testing.T) {
	units := make([]compiler.Unit, 8)
	for i := range units {
		units[i] = compiler.Unit{
			Filename: fmt.Sprintf("unit%d.nd", i),
			Source:   fmt.Sprintf("let v = %d;", i),
		}
	}

	results, err := compiler.CompileAll(context.Background(), units, compiler.Options{}, 3)
	require.NoError(t, err)
	require.Len(t, results, len(units))

	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, units[i].Filename, res.Filename)
		assert.Equal(t, []any{int64(i)}, res.Constants)
	}
}

func TestCompileAll_MatchesSequential(t *testing.T) {
	units := []compiler.Unit{
		{Filename: "a.nd", Source: `def f(x) { return x * 2; }`},
		{Filename: "b.nd", Source: `match y { 1 => "one", _ => "many" }`},
		{Filename: "c.nd", Source: `class {`},
	}
	opts := compiler.Options{Optimize: true}

	results, err := compiler.CompileAll(context.Background(), units, opts, 0)
	require.NoError(t, err)

	for i, unit := range units {
		want := compiler.Compile(unit.Source, unit.Filename, opts)
		assert.Equal(t, want.Instructions, results[i].Instructions, unit.Filename)
		assert.Equal(t, want.Diagnostics, results[i].Diagnostics, unit.Filename)
	}
}

func TestCompileAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := compiler.CompileAll(ctx, []compiler.Unit{{Filename: "a.nd", Source: "let a = 1;"}}, compiler.Options{}, 1)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Nil(t, results[0])
}
