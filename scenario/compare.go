// SPDX-License-Identifier: MIT

package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/metrics"
	"github.com/katalvlaran/shelterflow/optimize"
	"github.com/katalvlaran/shelterflow/simulate"
)

// Engine names used in comparison rows.
const (
	EngineRandom    = "random"
	EngineGreedy    = "greedy"
	EngineOptimized = "optimized"
)

// Settings bundles the engine options used by Compare.
type Settings struct {
	Optimize optimize.Options
	Trials   simulate.TrialOptions
	Logger   *zerolog.Logger
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Optimize: optimize.DefaultOptions(),
		Trials:   simulate.DefaultTrialOptions(),
	}
}

// Row is one engine's line in a comparison table. Random rows carry the
// trial Summary; the other engines carry the Metrics of their allocation.
type Row struct {
	Engine  string           `json:"engine"`
	Metrics *metrics.Metrics `json:"metrics,omitempty"`
	Summary *metrics.Summary `json:"summary,omitempty"`
	Status  string           `json:"status,omitempty"`
}

// Unsheltered returns the unsheltered count (trial mean for random rows).
func (r Row) Unsheltered() float64 {
	if r.Summary != nil {
		return r.Summary.Unsheltered.Mean
	}

	return float64(r.Metrics.Unsheltered)
}

// TotalDistance returns the total distance (trial mean for random rows).
func (r Row) TotalDistance() float64 {
	if r.Summary != nil {
		return r.Summary.TotalDistance.Mean
	}

	return r.Metrics.TotalDistance
}

// MeanDistance returns the mean distance per served individual, or nil when
// undefined (no trial or allocation served anyone).
func (r Row) MeanDistance() *float64 {
	if r.Summary != nil {
		if r.Summary.MeanDistance.N == 0 {
			return nil
		}
		v := r.Summary.MeanDistance.Mean
		return &v
	}

	return r.Metrics.MeanDistance
}

// Comparison is the random vs. greedy vs. optimized table for one instance.
type Comparison struct {
	RunID     uuid.UUID `json:"run_id"`
	Scenario  string    `json:"scenario,omitempty"`
	Period    string    `json:"period,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Rows      []Row     `json:"rows"`

	// Allocations of the deterministic engines, for callers that need flows.
	Greedy    *core.Allocation `json:"-"`
	Optimized *optimize.Result `json:"-"`
}

// Row returns the row of the named engine.
func (c *Comparison) Row(engine string) (Row, bool) {
	for _, r := range c.Rows {
		if r.Engine == engine {
			return r, true
		}
	}

	return Row{}, false
}

// Compare runs the three engines on inst, one after the other.
//
// Steps:
//  1. Greedy allocation and its metrics.
//  2. Random trials (parallel inside RunTrials) and their summary.
//  3. Two-stage optimization and its metrics.
//
// Rows are returned in the order random, greedy, optimized.
func Compare(ctx context.Context, inst *core.Instance, set Settings) (*Comparison, error) {
	log := zerolog.Nop()
	if set.Logger != nil {
		log = *set.Logger
	}
	cmp := &Comparison{RunID: uuid.New(), CreatedAt: time.Now().UTC()}
	log = log.With().Str("run_id", cmp.RunID.String()).Logger()

	greedy := simulate.Greedy(inst)
	gm, err := metrics.Compute(inst, greedy)
	if err != nil {
		return nil, fmt.Errorf("scenario: greedy: %w", err)
	}
	cmp.Greedy = greedy

	trialOpts := set.Trials
	if trialOpts.Logger == nil {
		trialOpts.Logger = &log
	}
	trials, err := simulate.RunTrials(ctx, inst, trialOpts)
	if err != nil {
		return nil, fmt.Errorf("scenario: random: %w", err)
	}

	optOpts := set.Optimize
	if optOpts.Logger == nil {
		optOpts.Logger = &log
	}
	res, err := optimize.Solve(ctx, inst, optOpts)
	if err != nil {
		return nil, fmt.Errorf("scenario: optimize: %w", err)
	}
	om, err := metrics.Compute(inst, res.Allocation)
	if err != nil {
		return nil, fmt.Errorf("scenario: optimize: %w", err)
	}
	cmp.Optimized = res

	cmp.Rows = []Row{
		{Engine: EngineRandom, Summary: &trials.Summary},
		{Engine: EngineGreedy, Metrics: &gm},
		{Engine: EngineOptimized, Metrics: &om, Status: res.Status.String()},
	}
	log.Info().
		Float64("greedy_distance", gm.TotalDistance).
		Float64("optimized_distance", om.TotalDistance).
		Int64("v_star", res.MaxService).
		Msg("comparison done")

	return cmp, nil
}

// ComparePeriods runs Compare on the base demand and then on every period,
// in file order. All comparisons share the scenario name.
func ComparePeriods(ctx context.Context, sc *Scenario, set Settings) ([]*Comparison, error) {
	out := make([]*Comparison, 0, 1+len(sc.Periods))

	inst, err := sc.Build()
	if err != nil {
		return nil, err
	}
	cmp, err := Compare(ctx, inst, set)
	if err != nil {
		return nil, err
	}
	cmp.Scenario = sc.Name
	out = append(out, cmp)

	for _, name := range sc.PeriodNames() {
		inst, err := sc.BuildPeriod(name)
		if err != nil {
			return nil, err
		}
		cmp, err := Compare(ctx, inst, set)
		if err != nil {
			return nil, fmt.Errorf("scenario: period %q: %w", name, err)
		}
		cmp.Scenario, cmp.Period = sc.Name, name
		out = append(out, cmp)
	}

	return out, nil
}
