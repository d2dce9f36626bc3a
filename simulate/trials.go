// SPDX-License-Identifier: MIT

package simulate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/metrics"
)

// Sentinel errors for RunTrials.
var (
	// ErrNilInstance is returned when RunTrials receives a nil instance.
	ErrNilInstance = errors.New("simulate: nil instance")

	// ErrBadTrials indicates a trial count below one.
	ErrBadTrials = errors.New("simulate: trials must be at least 1")

	// ErrBadWorkers indicates a negative worker count.
	ErrBadWorkers = errors.New("simulate: workers must be non-negative")
)

// DefaultTrials is the trial count used by DefaultTrialOptions.
const DefaultTrials = 100

// TrialOptions configures RunTrials.
type TrialOptions struct {
	// Trials is the number of independent random runs (≥ 1).
	Trials int

	// Seed roots every trial generator; 0 selects DefaultSeed.
	Seed int64

	// Workers bounds parallel trials; 0 means GOMAXPROCS.
	Workers int

	// Logger receives a summary event; nil disables logging.
	Logger *zerolog.Logger
}

// DefaultTrialOptions returns 100 trials, the default seed and GOMAXPROCS workers.
func DefaultTrialOptions() TrialOptions {
	return TrialOptions{Trials: DefaultTrials}
}

// TrialResult holds every trial's metrics, in trial order, and their summary.
type TrialResult struct {
	Seed    int64             `json:"seed"`
	Trials  []metrics.Metrics `json:"-"`
	Summary metrics.Summary   `json:"summary"`
}

// RunTrials runs opts.Trials independent random simulations in parallel.
//
// Steps:
//  1. Validate options.
//  2. Start an errgroup limited to Workers goroutines.
//  3. Trial i runs Random with TrialRand(Seed, i) and stores its metrics in
//     slot i; no state is shared between trials.
//  4. Summarize the metrics in trial order.
//
// Cancelling ctx stops scheduling new trials and returns the context error.
func RunTrials(ctx context.Context, inst *core.Instance, opts TrialOptions) (*TrialResult, error) {
	if inst == nil {
		return nil, ErrNilInstance
	}
	if opts.Trials < 1 {
		return nil, ErrBadTrials
	}
	if opts.Workers < 0 {
		return nil, ErrBadWorkers
	}
	if ctx == nil {
		ctx = context.Background()
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	start := time.Now()
	results := make([]metrics.Metrics, opts.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Trials; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			alloc := Random(inst, TrialRand(seed, i))
			m, err := metrics.Compute(inst, alloc)
			if err != nil {
				return fmt.Errorf("simulate: trial %d: %w", i, err)
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, err := metrics.Summarize(results)
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Info().
			Str("component", "simulate").
			Int("trials", opts.Trials).
			Int("workers", workers).
			Float64("unsheltered_mean", summary.Unsheltered.Mean).
			Float64("distance_mean", summary.TotalDistance.Mean).
			Dur("elapsed", time.Since(start)).
			Msg("random trials done")
	}

	return &TrialResult{Seed: seed, Trials: results, Summary: summary}, nil
}
