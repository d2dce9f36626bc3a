// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/shelterflow/config"
	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/metrics"
	"github.com/katalvlaran/shelterflow/optimize"
	"github.com/katalvlaran/shelterflow/scenario"
	"github.com/katalvlaran/shelterflow/simulate"
)

// setup loads configuration, installs the global logger and builds the
// requested instance of the scenario.
func (a *app) setup(cmd *cobra.Command, path string) (config.Config, *scenario.Scenario, *core.Instance, error) {
	cfg, err := config.Read(a.v, a.configPath)
	if err != nil {
		return cfg, nil, nil, err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return cfg, nil, nil, err
	}
	log.Logger = logger

	sc, err := scenario.Load(path)
	if err != nil {
		return cfg, nil, nil, err
	}
	var inst *core.Instance
	if a.period != "" {
		inst, err = sc.BuildPeriod(a.period)
	} else {
		inst, err = sc.Build()
	}
	if err != nil {
		return cfg, sc, nil, fmt.Errorf("loading %s: %w", path, err)
	}
	log.Debug().
		Str("scenario", sc.Name).
		Int("hotspots", inst.NumHotspots()).
		Int("shelters", inst.NumShelters()).
		Int64("demand", inst.TotalDemand()).
		Int64("capacity", inst.TotalCapacity()).
		Msg("scenario loaded")

	return cfg, sc, inst, nil
}

func (a *app) runValidate(cmd *cobra.Command, path string) error {
	_, sc, inst, err := a.setup(cmd, path)
	if err != nil {
		return err
	}
	for _, name := range sc.PeriodNames() {
		if _, err := sc.BuildPeriod(name); err != nil {
			return fmt.Errorf("period %q: %w", name, err)
		}
	}
	out := cmd.OutOrStdout()
	if a.jsonOut {
		return writeJSON(out, map[string]any{
			"valid":    true,
			"hotspots": inst.NumHotspots(),
			"shelters": inst.NumShelters(),
			"demand":   inst.TotalDemand(),
			"capacity": inst.TotalCapacity(),
			"periods":  sc.PeriodNames(),
		})
	}
	fmt.Fprintf(out, "Result: VALID (%d hotspots, %d shelters, demand %d, capacity %d, %d periods)\n",
		inst.NumHotspots(), inst.NumShelters(), inst.TotalDemand(), inst.TotalCapacity(), len(sc.Periods))

	return nil
}

func (a *app) runOptimize(cmd *cobra.Command, path string) error {
	cfg, _, inst, err := a.setup(cmd, path)
	if err != nil {
		return err
	}
	opts, err := cfg.OptimizeOptions(&log.Logger)
	if err != nil {
		return err
	}
	res, err := optimize.Solve(cmd.Context(), inst, opts)
	if err != nil {
		return err
	}
	m, err := metrics.Compute(inst, res.Allocation)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.jsonOut {
		return writeJSON(out, map[string]any{
			"max_service": res.MaxService,
			"status":      res.Status.String(),
			"exhausted":   res.Exhausted.String(),
			"backend":     res.Backend.String(),
			"metrics":     m,
			"flows":       flows(inst, res.Allocation),
		})
	}
	fmt.Fprintf(out, "Optimized allocation (%s, %s)\n", res.Backend, res.Status)
	if res.Status == optimize.StatusBudgetExhausted {
		fmt.Fprintf(out, "  budget exhausted in stage %s: best known, possibly suboptimal\n", res.Exhausted)
	}
	printMetrics(out, m)
	fmt.Fprintln(out)
	printFlows(out, inst, res.Allocation)

	return nil
}

func (a *app) runGreedy(cmd *cobra.Command, path string) error {
	_, _, inst, err := a.setup(cmd, path)
	if err != nil {
		return err
	}
	alloc := simulate.Greedy(inst)
	m, err := metrics.Compute(inst, alloc)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.jsonOut {
		return writeJSON(out, map[string]any{"metrics": m, "flows": flows(inst, alloc)})
	}
	fmt.Fprintln(out, "Greedy allocation")
	printMetrics(out, m)
	fmt.Fprintln(out)
	printFlows(out, inst, alloc)

	return nil
}

func (a *app) runRandom(cmd *cobra.Command, path string) error {
	cfg, _, inst, err := a.setup(cmd, path)
	if err != nil {
		return err
	}
	res, err := simulate.RunTrials(cmd.Context(), inst, cfg.TrialOptions(&log.Logger))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.jsonOut {
		return writeJSON(out, res)
	}
	fmt.Fprintf(out, "Random allocation (%d trials, seed %d)\n", res.Summary.Trials, res.Seed)
	printSummary(out, res.Summary)

	return nil
}

func (a *app) runCompare(cmd *cobra.Command, path string, all bool) error {
	cfg, sc, inst, err := a.setup(cmd, path)
	if err != nil {
		return err
	}
	set, err := settings(cfg, &log.Logger)
	if err != nil {
		return err
	}

	var cmps []*scenario.Comparison
	if all {
		cmps, err = scenario.ComparePeriods(cmd.Context(), sc, set)
	} else {
		var c *scenario.Comparison
		c, err = scenario.Compare(cmd.Context(), inst, set)
		if c != nil {
			c.Scenario, c.Period = sc.Name, a.period
			cmps = append(cmps, c)
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		return writeJSON(out, cmps)
	}
	for i, c := range cmps {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printComparison(out, c)
	}

	return nil
}

func settings(cfg config.Config, logger *zerolog.Logger) (scenario.Settings, error) {
	opts, err := cfg.OptimizeOptions(logger)
	if err != nil {
		return scenario.Settings{}, err
	}

	return scenario.Settings{Optimize: opts, Trials: cfg.TrialOptions(logger), Logger: logger}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
