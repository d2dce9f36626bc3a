// SPDX-License-Identifier: MIT

package flow

import (
	"errors"
	"fmt"
	"time"
)

// ErrNodeOutOfRange is returned when a node index is outside [0, n).
var ErrNodeOutOfRange = fmt.Errorf("flow: %w", errNodeOutOfRange)
var errNodeOutOfRange = errors.New("node index out of range")

// ErrSourceIsSink is returned when source == sink.
var ErrSourceIsSink = fmt.Errorf("flow: %w", errSourceIsSink)
var errSourceIsSink = errors.New("source and sink are the same node")

// ErrBudgetExhausted is returned when the deadline or iteration cap is hit.
// The accompanying values are valid partial results.
var ErrBudgetExhausted = errors.New("flow: budget exhausted")

// ArcError is returned when an arc has a negative capacity or a non-finite cost.
type ArcError struct {
	From, To int
	Cap      int64
	Cost     float64
}

func (e *ArcError) Error() string {
	return fmt.Sprintf("flow: invalid arc %d→%d (cap %d, cost %g)", e.From, e.To, e.Cap, e.Cost)
}

// Algorithm selects the max-flow routine used by MaxFlow.
type Algorithm int

const (
	// Dinic uses level graphs and blocking flows.
	Dinic Algorithm = iota

	// EdmondsKarp uses BFS shortest augmenting paths.
	EdmondsKarp
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case Dinic:
		return "dinic"
	case EdmondsKarp:
		return "edmonds-karp"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// Options configures all routines.
//   - Algorithm: max-flow routine for MaxFlow (default Dinic).
//   - Epsilon: cost tolerance for negative-cycle detection (default 1e-9).
//   - Deadline: wall-clock budget; zero disables it.
//   - MaxIterations: cap on augmentations / cancelled cycles; 0 disables it.
//   - LevelRebuildInterval: Dinic only, rebuild the level graph every N pushes (0 = never early).
type Options struct {
	Algorithm            Algorithm
	Epsilon              float64
	Deadline             time.Time
	MaxIterations        int
	LevelRebuildInterval int
}

// DefaultEpsilon is the default cost tolerance.
const DefaultEpsilon = 1e-9

// DefaultOptions returns production-safe defaults: Dinic, Epsilon 1e-9, no budget.
func DefaultOptions() Options {
	return Options{Algorithm: Dinic, Epsilon: DefaultEpsilon}
}

// normalize fills zero-valued tolerances with defaults.
func (o *Options) normalize() {
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
}

// budget tracks Deadline and MaxIterations for one routine call.
type budget struct {
	deadline time.Time
	max      int
	used     int
}

func newBudget(o Options) *budget {
	return &budget{deadline: o.Deadline, max: o.MaxIterations}
}

// spend records one unit of work.
func (b *budget) spend() { b.used++ }

// exhausted reports whether either limit has been reached.
func (b *budget) exhausted() bool {
	if b.max > 0 && b.used >= b.max {
		return true
	}

	return !b.deadline.IsZero() && time.Now().After(b.deadline)
}
