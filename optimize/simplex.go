// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultSimplexTimeLimit bounds the simplex backend when Options.TimeLimit
// is zero. gonum's simplex has no iteration hook and may cycle on degenerate
// vertices, so it never runs without a deadline.
const DefaultSimplexTimeLimit = time.Minute

const (
	// simplexTol is passed to lp.Simplex; zero selects gonum's default.
	simplexTol = 0

	// independenceTol is the residual norm below which a column is taken
	// as dependent on the columns already in a basis.
	independenceTol = 1e-9

	// basisTol bounds how far a warm basis may reproduce the Stage-1 point.
	basisTol = 1e-9
)

var (
	// errLPExpired reports that the deadline passed while lp.Simplex ran.
	errLPExpired = errors.New("optimize: simplex deadline passed")

	// errLPPanic reports a panic inside lp.Simplex (e.g. a rejected basis).
	errLPPanic = errors.New("optimize: simplex panicked")
)

// lpModel is the standard-form system A·z = b, z ≥ 0 over
// z = [x (one per variable) | demand slacks (K) | capacity slacks (M)].
type lpModel struct {
	p    *problem
	rows int // K + M
	cols int // n + K + M
}

func newLPModel(p *problem) *lpModel {
	return &lpModel{
		p:    p,
		rows: len(p.sources) + len(p.shelters),
		cols: len(p.vars) + len(p.sources) + len(p.shelters),
	}
}

// constraints fills the demand and capacity rows; extra appends one more
// equality row Σx = total when withTotal is set.
//
//	row i       (i < K):  Σ_s x(i, s) + slack_i          = demand_i
//	row K + r   (r < M):  Σ_i x(i, s_r) + slack_{K+r}    = capacity(s_r)
//	row K + M   (stage 2): Σ x                           = V*
func (m *lpModel) constraints(withTotal bool, total int64) (*mat.Dense, []float64) {
	var (
		n    = len(m.p.vars)
		k    = len(m.p.sources)
		rows = m.rows
	)
	if withTotal {
		rows++
	}
	A := mat.NewDense(rows, m.cols, nil)
	b := make([]float64, rows)

	for i, src := range m.p.sources {
		A.Set(i, n+i, 1)
		b[i] = float64(src.demand)
	}
	for r, s := range m.p.shelters {
		A.Set(k+r, n+k+r, 1)
		b[k+r] = float64(m.p.inst.Capacity(s))
	}
	for j, v := range m.p.vars {
		A.Set(v.src, j, 1)
		A.Set(k+m.p.row[v.s], j, 1)
		if withTotal {
			A.Set(m.rows, j, 1)
		}
	}
	if withTotal {
		b[m.rows] = float64(total)
	}

	return A, b
}

// lpOutcome carries the return values of one lp.Simplex call across goroutines.
type lpOutcome struct {
	opt float64
	z   []float64
	err error
}

// runLP runs lp.Simplex on its own goroutine and waits for it, for ctx, or
// for the deadline, whichever comes first. gonum offers no way to stop a
// running solve: an interrupted one is abandoned and its result discarded.
// A panic inside gonum is returned as errLPPanic.
func runLP(ctx context.Context, deadline time.Time, c []float64, A mat.Matrix, b []float64, basic []int) (float64, []float64, error) {
	done := make(chan lpOutcome, 1)
	go func() {
		var out lpOutcome
		defer func() {
			if r := recover(); r != nil {
				out = lpOutcome{err: fmt.Errorf("%w: %v", errLPPanic, r)}
			}
			done <- out
		}()
		out.opt, out.z, out.err = lp.Simplex(c, A, b, simplexTol, basic)
	}()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case out := <-done:
		return out.opt, out.z, out.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	case <-timer.C:
		return 0, nil, errLPExpired
	}
}

// maxService solves Stage 1: minimize −Σx. The slack columns form an
// identity basis that is feasible because b ≥ 0.
func (m *lpModel) maxService(ctx context.Context, deadline time.Time) (float64, []float64, error) {
	n := len(m.p.vars)
	c := make([]float64, m.cols)
	for j := 0; j < n; j++ {
		c[j] = -1
	}
	basic := make([]int, m.rows)
	for i := range basic {
		basic[i] = n + i
	}
	A, b := m.constraints(false, 0)
	opt, z, err := runLP(ctx, deadline, c, A, b, basic)
	if err != nil {
		return 0, nil, err
	}

	return -opt, z[:n], nil
}

// minDistance solves Stage 2: minimize Σ x·d subject to Σx = total.
// It starts from a basis of the Stage-1 point x when one can be assembled,
// and from gonum's own Phase I otherwise (or when the warm start is rejected).
func (m *lpModel) minDistance(ctx context.Context, deadline time.Time, total int64, x []int64) ([]float64, bool, error) {
	n := len(m.p.vars)
	c := make([]float64, m.cols)
	for j, v := range m.p.vars {
		c[j] = v.dist
	}
	A, b := m.constraints(true, total)

	basic := m.warmBasis(A, b, x)
	_, z, err := runLP(ctx, deadline, c, A, b, basic)
	if basic != nil && errors.Is(err, errLPPanic) {
		basic = nil
		_, z, err = runLP(ctx, deadline, c, A, b, nil)
	}
	if err != nil {
		return nil, basic != nil, err
	}

	return z[:n], basic != nil, nil
}

// point returns the full standard-form vector [x | slacks] of an integral
// Stage-1 allocation.
func (m *lpModel) point(x []int64) []float64 {
	var (
		n = len(m.p.vars)
		k = len(m.p.sources)
		z = make([]float64, m.cols)
	)
	for i, src := range m.p.sources {
		z[n+i] = float64(src.demand)
	}
	for r, s := range m.p.shelters {
		z[n+k+r] = float64(m.p.inst.Capacity(s))
	}
	for j, v := range m.p.vars {
		z[j] = float64(x[j])
		z[n+v.src] -= float64(x[j])
		z[n+k+m.p.row[v.s]] -= float64(x[j])
	}

	return z
}

// warmBasis returns a feasible starting basis of the Stage-2 system A·z = b
// at the Stage-1 point x, or nil when none can be assembled.
//
// Steps:
//  1. Columns where the point is positive enter first; at a vertex they are
//     linearly independent, so a rejection means x is not a vertex: give up.
//  2. Complete the basis with slack columns, then flow columns, keeping each
//     candidate only when it is independent of those already chosen
//     (modified Gram–Schmidt).
//  3. Solve B·z_B = b and accept only if z_B reproduces the point within
//     basisTol and is non-negative.
//
// Complexity: O(cols·rows²) time, O(rows²) memory.
func (m *lpModel) warmBasis(A *mat.Dense, b []float64, x []int64) []int {
	if x == nil {
		return nil
	}
	var (
		rows, cols = A.Dims()
		n          = len(m.p.vars)
		z          = m.point(x)
		basis      = make([]int, 0, rows)
		chosen     = make([]bool, cols)
		q          = make([][]float64, 0, rows)
	)
	for _, v := range z {
		if v < 0 {
			return nil
		}
	}

	add := func(j int) bool {
		if len(basis) == rows || chosen[j] {
			return false
		}
		v := mat.Col(nil, j, A)
		for _, u := range q {
			floats.AddScaled(v, -floats.Dot(u, v), u)
		}
		norm := floats.Norm(v, 2)
		if norm < independenceTol {
			return false
		}
		floats.Scale(1/norm, v)
		q = append(q, v)
		basis = append(basis, j)
		chosen[j] = true
		return true
	}

	// 1) Support of the point.
	for j, v := range z {
		if v > 0 && !add(j) {
			return nil
		}
	}
	// 2) Slacks, then flows.
	for j := n; j < cols && len(basis) < rows; j++ {
		add(j)
	}
	for j := 0; j < n && len(basis) < rows; j++ {
		add(j)
	}
	if len(basis) != rows {
		return nil
	}

	// 3) Verify.
	B := mat.NewDense(rows, rows, nil)
	for i, j := range basis {
		B.SetCol(i, mat.Col(nil, j, A))
	}
	var zb mat.VecDense
	if err := zb.SolveVec(B, mat.NewVecDense(rows, b)); err != nil {
		return nil
	}
	for i, j := range basis {
		got := zb.AtVec(i)
		if got < 0 || math.Abs(got-z[j]) > basisTol {
			return nil
		}
	}

	return basis
}

// integral rounds every value, failing with ErrFractional beyond eps.
func integral(xs []float64, eps float64) ([]int64, error) {
	out := make([]int64, len(xs))
	for i, x := range xs {
		v, err := roundIntegral(x, eps)
		if err != nil {
			return nil, fmt.Errorf("%w: variable %d = %g", err, i, x)
		}
		out[i] = v
	}

	return out, nil
}

// solveSimplex runs both stages as linear programs.
//
// Steps:
//  1. Stage 1 with the slack basis; round V* (ErrFractional beyond Epsilon).
//  2. Stage 2 with Σx = V* added, warm-started from the Stage-1 vertex;
//     infeasibility there is ErrServiceNotPreserved.
//  3. Round and verify every variable.
//
// Each lp.Simplex call runs under the deadline (DefaultSimplexTimeLimit when
// TimeLimit is zero) and ctx. gonum's simplex has no iteration hook, so
// MaxIterations does not apply. A deadline in Stage 1 yields the empty
// allocation, in Stage 2 the Stage-1 allocation, both with
// StatusBudgetExhausted.
func solveSimplex(ctx context.Context, p *problem, opts Options, deadline time.Time, log zerolog.Logger) (*Result, error) {
	res := &Result{Backend: BackendSimplex}
	if len(p.vars) == 0 {
		log.Debug().Msg("no eligible variables; empty allocation")
		res.Allocation = p.allocation(nil)
		return res, nil
	}
	if deadline.IsZero() {
		deadline = time.Now().Add(DefaultSimplexTimeLimit)
	}
	expired := func() bool { return time.Now().After(deadline) }
	exhausted := func(stage Stage, values []int64) *Result {
		res.Status, res.Exhausted = StatusBudgetExhausted, stage
		res.Allocation = p.allocation(values)
		return res
	}

	m := newLPModel(p)
	if expired() {
		return exhausted(StageMaxService, make([]int64, len(p.vars))), nil
	}

	// Stage 1.
	v, x1, err := m.maxService(ctx, deadline)
	switch {
	case errors.Is(err, errLPExpired):
		log.Warn().Msg("stage 1 budget exhausted")
		return exhausted(StageMaxService, make([]int64, len(p.vars))), nil
	case errors.Is(err, lp.ErrInfeasible):
		return nil, ErrInfeasible
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		return nil, fmt.Errorf("optimize: stage 1 simplex: %w", err)
	}
	vstar, err := roundIntegral(v, opts.Epsilon)
	if err != nil {
		return nil, fmt.Errorf("%w: V* = %g", err, v)
	}
	stage1, err := integral(x1, opts.Epsilon)
	if err != nil {
		return nil, err
	}
	res.MaxService = vstar
	log.Debug().Int64("v_star", vstar).Int("vars", len(p.vars)).Msg("stage 1 done")

	if vstar == 0 {
		res.Allocation = p.allocation(stage1)
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if expired() {
		log.Warn().Int64("v_star", vstar).Msg("budget exhausted before stage 2")
		return exhausted(StageMinDistance, stage1), nil
	}

	// Stage 2.
	x2, warm, err := m.minDistance(ctx, deadline, vstar, stage1)
	switch {
	case errors.Is(err, errLPExpired):
		log.Warn().Int64("v_star", vstar).Bool("warm", warm).Msg("stage 2 budget exhausted")
		return exhausted(StageMinDistance, stage1), nil
	case errors.Is(err, lp.ErrInfeasible):
		return nil, ErrServiceNotPreserved
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		return nil, fmt.Errorf("optimize: stage 2 simplex: %w", err)
	}
	stage2, err := integral(x2, opts.Epsilon)
	if err != nil {
		return nil, err
	}
	var served int64
	for _, f := range stage2 {
		served += f
	}
	if served != vstar {
		return nil, fmt.Errorf("%w: served %d, want %d", ErrServiceNotPreserved, served, vstar)
	}
	log.Debug().Bool("warm", warm).Msg("stage 2 done")
	res.Allocation = p.allocation(stage2)

	return res, nil
}
