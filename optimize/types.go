// SPDX-License-Identifier: MIT

package optimize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/flow"
)

// Sentinel errors.
var (
	// ErrNilInstance is returned when Solve receives a nil instance.
	ErrNilInstance = errors.New("optimize: nil instance")

	// ErrBadEpsilon indicates an integrality tolerance outside (0, 0.5).
	ErrBadEpsilon = errors.New("optimize: epsilon must be in (0, 0.5)")

	// ErrBadTimeLimit indicates a negative time limit.
	ErrBadTimeLimit = errors.New("optimize: time limit must be non-negative")

	// ErrBadIterations indicates a negative iteration cap.
	ErrBadIterations = errors.New("optimize: max iterations must be non-negative")

	// ErrUnsupportedBackend indicates an unknown Backend value or name.
	ErrUnsupportedBackend = errors.New("optimize: unsupported backend")

	// ErrInfeasible is returned when Stage 1 finds no feasible allocation.
	ErrInfeasible = errors.New("optimize: maximum-service stage infeasible")

	// ErrServiceNotPreserved is returned when Stage 2 cannot keep Σx = V*.
	ErrServiceNotPreserved = errors.New("optimize: minimum-distance stage cannot preserve maximum service")

	// ErrFractional is returned when a solver value is not integral within Epsilon.
	ErrFractional = errors.New("optimize: non-integral solution")
)

// Backend selects the solver used by both stages.
type Backend int

const (
	// BackendNetwork solves both stages as network-flow problems.
	BackendNetwork Backend = iota

	// BackendSimplex solves both stages as explicit linear programs.
	BackendSimplex
)

// String returns the backend name accepted by ParseBackend.
func (b Backend) String() string {
	switch b {
	case BackendNetwork:
		return "network"
	case BackendSimplex:
		return "simplex"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend maps "network"/"flow" and "simplex"/"lp" to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "network", "flow":
		return BackendNetwork, nil
	case "simplex", "lp":
		return BackendSimplex, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedBackend, s)
	}
}

// Status qualifies a Result.
type Status int

const (
	// StatusOptimal means both stages finished: V* is maximal and the
	// distance is minimal among allocations serving V*.
	StatusOptimal Status = iota

	// StatusBudgetExhausted means the budget ran out; the allocation is the
	// best known and feasible, possibly suboptimal.
	StatusBudgetExhausted
)

// String returns a short label.
func (s Status) String() string {
	if s == StatusOptimal {
		return "optimal"
	}

	return "budget-exhausted"
}

// Stage names one of the two solves.
type Stage int

const (
	// StageNone is reported when no stage was interrupted.
	StageNone Stage = iota

	// StageMaxService is Stage 1.
	StageMaxService

	// StageMinDistance is Stage 2.
	StageMinDistance
)

// String returns a short label.
func (s Stage) String() string {
	switch s {
	case StageMaxService:
		return "max-service"
	case StageMinDistance:
		return "min-distance"
	default:
		return "none"
	}
}

// DefaultEpsilon is the default integrality tolerance.
const DefaultEpsilon = 1e-6

// Options configures Solve.
type Options struct {
	// Backend selects the solver (default BackendNetwork).
	Backend Backend

	// Epsilon is the tolerance for rounding V* and flows to integers.
	Epsilon float64

	// TimeLimit bounds wall-clock time across both stages. 0 means unlimited
	// for the network backend and DefaultSimplexTimeLimit for the simplex one.
	TimeLimit time.Duration

	// MaxIterations caps augmentations in Stage 1 and cancelled cycles in
	// Stage 2, per stage (0 = unlimited). Network backend only.
	MaxIterations int

	// MaxFlow selects the Stage-1 max-flow routine of the network backend.
	MaxFlow flow.Algorithm

	// Logger receives stage-level events; nil disables logging.
	Logger *zerolog.Logger
}

// DefaultOptions returns BackendNetwork, Epsilon 1e-6, Dinic, no budget.
func DefaultOptions() Options {
	return Options{
		Backend: BackendNetwork,
		Epsilon: DefaultEpsilon,
		MaxFlow: flow.Dinic,
	}
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}

	return *o.Logger
}

// Result is the outcome of Solve.
type Result struct {
	// Allocation is feasible for the solved instance.
	Allocation *core.Allocation

	// MaxService is V*, the Stage-1 optimum (or best known on exhaustion).
	MaxService int64

	// TotalDistance is Σ flow·distance of Allocation.
	TotalDistance float64

	// Status is StatusOptimal or StatusBudgetExhausted.
	Status Status

	// Exhausted names the interrupted stage when Status is StatusBudgetExhausted.
	Exhausted Stage

	// Backend that produced the result.
	Backend Backend

	// Elapsed is the wall-clock time spent in Solve.
	Elapsed time.Duration
}
