package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/detgeom/pkg/config"
)

// EvalTimeout bounds a single Evaluate call unless the Engine was built
// with a different limit.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a program runs past the engine's limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a later Evaluate call had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	tree   config.Tree
	errors []EvalError
	err    error
}

// begin claims the next generation number.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) latest() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// await blocks until the evaluation of generation gen reports on ch or the
// limit passes. A goroutine left running after a timeout sends into the
// buffered channel and exits; nobody reads that result.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (config.Tree, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	case res := <-ch:
		if gen != e.latest() {
			return nil, nil, ErrSuperseded
		}
		return res.tree, res.errors, res.err
	}
}
