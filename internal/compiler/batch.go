package compiler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Unit is one source file handed to CompileAll.
type Unit struct {
	Filename string
	Source   string
}

// CompileAll compiles independent units concurrently, at most jobs at a
// time (GOMAXPROCS when jobs is not positive). Results keep the order of
// units. Once ctx is cancelled no further units are started; their slots
// stay nil and the context error is returned.
func CompileAll(ctx context.Context, units []Unit, opts Options, jobs int) ([]*Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(units))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for i, unit := range units {
		if egctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results[i] = Compile(unit.Source, unit.Filename, opts)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
