package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/wingsmith/pkg/design"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started first.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// outcome is what an evaluation goroutine hands back.
type outcome struct {
	project *design.Project
	errors  []EvalError
	err     error
}

// generations numbers evaluations so that only the newest one may deliver
// a project.
type generations struct {
	mu sync.Mutex
	n  uint64
}

func (g *generations) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.n
}

func (g *generations) latest(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gen == g.n
}

// await blocks for the outcome of evaluation gen for at most limit. A
// script still running at the deadline is abandoned; if its outcome
// arrives later nobody reads it.
func (g *generations) await(ch <-chan outcome, gen uint64, limit time.Duration) (*design.Project, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !g.latest(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.project, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}
