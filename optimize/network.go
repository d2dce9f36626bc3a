// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/shelterflow/flow"
)

// flowModel is the network built from a problem.
//
//	node 0                      super source
//	nodes 1..K                  (hotspot, gender) sources
//	nodes K+1..K+M              shelters in use
//	node K+M+1                  super sink
type flowModel struct {
	nw     *flow.Network
	source int
	sink   int
	refs   []flow.ArcRef // one per problem variable
}

func newFlowModel(p *problem) (*flowModel, error) {
	var (
		k    = len(p.sources)
		m    = len(p.shelters)
		fm   = &flowModel{nw: flow.NewNetwork(k + m + 2), source: 0, sink: k + m + 1}
		refs = make([]flow.ArcRef, len(p.vars))
	)

	for i, src := range p.sources {
		if _, err := fm.nw.AddArc(fm.source, 1+i, src.demand, 0); err != nil {
			return nil, err
		}
	}
	for r, s := range p.shelters {
		if _, err := fm.nw.AddArc(1+k+r, fm.sink, p.inst.Capacity(s), 0); err != nil {
			return nil, err
		}
	}
	for i, v := range p.vars {
		ref, err := fm.nw.AddArc(1+v.src, 1+k+p.row[v.s], p.sources[v.src].demand, v.dist)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	fm.refs = refs

	return fm, nil
}

// values reads the current flow of every variable arc.
func (fm *flowModel) values() []int64 {
	out := make([]int64, len(fm.refs))
	for i, ref := range fm.refs {
		out[i] = fm.nw.Flow(ref)
	}

	return out
}

// solveNetwork runs both stages on the flow network.
//
// Steps:
//  1. Build the layered network; arcs (h,g)→s carry cost d(h,s).
//  2. Stage 1: max flow from source to sink gives V*.
//  3. Stage 2: cancel negative residual cycles from the Stage-1 flow. Every
//     cancellation is a circulation, so the source outflow stays V*; when no
//     negative cycle remains the flow has minimum cost for its value.
//  4. Read variable flows and verify the outflow is still V*.
//
// A budget stop in either stage keeps the network feasible; the current flow
// is returned with StatusBudgetExhausted.
func solveNetwork(ctx context.Context, p *problem, opts Options, deadline time.Time, log zerolog.Logger) (*Result, error) {
	res := &Result{Backend: BackendNetwork}
	if len(p.vars) == 0 {
		log.Debug().Msg("no eligible variables; empty allocation")
		res.Allocation = p.allocation(nil)
		return res, nil
	}

	fm, err := newFlowModel(p)
	if err != nil {
		return nil, fmt.Errorf("optimize: build network: %w", err)
	}
	fopts := flow.Options{
		Algorithm:     opts.MaxFlow,
		Deadline:      deadline,
		MaxIterations: opts.MaxIterations,
	}

	// Stage 1: maximum service.
	vstar, err := fm.nw.MaxFlow(ctx, fm.source, fm.sink, fopts)
	res.MaxService = vstar
	switch {
	case errors.Is(err, flow.ErrBudgetExhausted):
		log.Warn().Int64("served", vstar).Msg("stage 1 budget exhausted")
		res.Status, res.Exhausted = StatusBudgetExhausted, StageMaxService
		res.Allocation = p.allocation(fm.values())
		return res, nil
	case err != nil:
		return nil, fmt.Errorf("optimize: stage 1: %w", err)
	}
	log.Debug().Int64("v_star", vstar).Int("vars", len(p.vars)).Msg("stage 1 done")

	// Stage 2: minimum distance at fixed V*.
	if vstar > 0 {
		cycles, err := fm.nw.CancelNegativeCycles(ctx, fopts)
		switch {
		case errors.Is(err, flow.ErrBudgetExhausted):
			log.Warn().Int("cycles", cycles).Msg("stage 2 budget exhausted")
			res.Status, res.Exhausted = StatusBudgetExhausted, StageMinDistance
		case err != nil:
			return nil, fmt.Errorf("optimize: stage 2: %w", err)
		default:
			log.Debug().Int("cycles", cycles).Msg("stage 2 done")
		}
		if got := fm.nw.Outflow(fm.source); got != vstar {
			return nil, fmt.Errorf("%w: served %d, want %d", ErrServiceNotPreserved, got, vstar)
		}
	}
	res.Allocation = p.allocation(fm.values())

	return res, nil
}
