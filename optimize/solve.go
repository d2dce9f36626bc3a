// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/shelterflow/core"
)

// Solve computes a maximal-service, minimum-distance allocation for inst.
//
// Steps:
//  1. Validate options; start the wall-clock budget.
//  2. Enumerate (hotspot, gender) sources and eligible variables.
//  3. Run Stage 1 and Stage 2 on the selected backend.
//  4. Check the feasibility law on the result and compute its distance.
//
// Solve never returns an infeasible allocation: a failed final check is
// reported as an error wrapping core.ErrInfeasibleAlloc.
func Solve(ctx context.Context, inst *core.Instance, opts Options) (*Result, error) {
	if err := validate(inst, opts); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var deadline time.Time
	if opts.TimeLimit > 0 {
		deadline = start.Add(opts.TimeLimit)
	}
	log := opts.logger().With().Str("component", "optimize").Str("backend", opts.Backend.String()).Logger()

	p := newProblem(inst)
	log.Debug().
		Int("sources", len(p.sources)).
		Int("shelters", len(p.shelters)).
		Int("vars", len(p.vars)).
		Msg("problem built")

	var (
		res *Result
		err error
	)
	switch opts.Backend {
	case BackendSimplex:
		res, err = solveSimplex(ctx, p, opts, deadline, log)
	default:
		res, err = solveNetwork(ctx, p, opts, deadline, log)
	}
	if err != nil {
		return nil, err
	}

	if err := res.Allocation.Check(inst); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	res.TotalDistance = res.Allocation.TotalDistance(inst)
	res.Elapsed = time.Since(start)
	log.Info().
		Int64("v_star", res.MaxService).
		Float64("distance", res.TotalDistance).
		Str("status", res.Status.String()).
		Dur("elapsed", res.Elapsed).
		Msg("solved")

	return res, nil
}
