// Package jsfilter evaluates a user-supplied JavaScript predicate against
// candidate file paths. The VM exposes a single `path` global and is
// interrupted when it exceeds its wall-clock budget.
package jsfilter

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/hyperifyio/runcheck/internal/iolimit"
)

// ErrTimeout is returned when the predicate exceeds its wall-time budget.
var ErrTimeout = errors.New("filter timed out")

// defaultWallMS bounds a single predicate evaluation when no budget is given.
const defaultWallMS = 1000

// Predicate is a compiled JS expression applied to one path at a time.
type Predicate struct {
	prog   *goja.Program
	wallMS int
}

// Compile parses source once so per-path evaluation does not re-parse.
// wallMS <= 0 selects the default budget.
func Compile(source string, wallMS int) (*Predicate, error) {
	if source == "" {
		return nil, errors.New("empty filter source")
	}
	prog, err := goja.Compile("filter", source, false)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	if wallMS <= 0 {
		wallMS = defaultWallMS
	}
	return &Predicate{prog: prog, wallMS: wallMS}, nil
}

// Keep runs the predicate for one path and returns the truthiness of the
// expression's value.
func (p *Predicate) Keep(path string) (bool, error) {
	vm := goja.New()
	if err := vm.Set("path", path); err != nil {
		return false, fmt.Errorf("bind path: %w", err)
	}

	ctx, cancel := iolimit.WithWallTimeout(context.Background(), p.wallMS)
	defer cancel()

	done := make(chan struct{})
	var (
		val    goja.Value
		runErr error
	)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("panic: %v", r)
			}
		}()
		val, runErr = vm.RunProgram(p.prog)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		vm.Interrupt("timeout")
		<-done
		return false, ErrTimeout
	}

	if runErr != nil {
		var intr *goja.InterruptedError
		if errors.As(runErr, &intr) {
			return false, ErrTimeout
		}
		return false, fmt.Errorf("eval filter: %w", runErr)
	}
	if val == nil {
		return false, nil
	}
	return val.ToBoolean(), nil
}
