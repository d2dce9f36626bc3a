// SPDX-License-Identifier: MIT

// Command shelterflow allocates shelter seekers from demand hotspots to
// gender-designated shelters and compares random, greedy and optimal plans.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/shelterflow/config"
)

// app carries the state shared by all subcommands.
type app struct {
	v          *viper.Viper
	configPath string
	jsonOut    bool
	period     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("shelterflow failed")
		stop()
		os.Exit(1)
	}
}

// configFlags maps config keys to the persistent flags that override them.
var configFlags = map[string]string{
	"seed":           "seed",
	"trials":         "trials",
	"workers":        "workers",
	"backend":        "backend",
	"max_flow":       "max-flow",
	"time_limit":     "time-limit",
	"max_iterations": "max-iterations",
	"log_level":      "log-level",
	"log_format":     "log-format",
}

// bindFlags binds each flag of fs to its config key in v. A missing flag is
// an error: it would otherwise never override the config file.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:           "shelterflow",
		Short:         "Two-stage shelter allocation with random and greedy baselines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (YAML)")
	pf.BoolVar(&a.jsonOut, "json", false, "print results as JSON")
	pf.StringVar(&a.period, "period", "", "use the demand of this scenario period")
	pf.Int64("seed", 0, "random seed (0 = default seed)")
	pf.Int("trials", 100, "number of random trials")
	pf.Int("workers", 0, "parallel random trials (0 = GOMAXPROCS)")
	pf.String("backend", "network", "optimizer backend: network or simplex")
	pf.String("max-flow", "dinic", "stage 1 max-flow routine: dinic or edmonds-karp")
	pf.Duration("time-limit", 0, "optimizer wall-clock budget (0 = unlimited)")
	pf.Int("max-iterations", 0, "optimizer iteration budget per stage (0 = unlimited)")
	pf.String("log-level", "info", "log level")
	pf.String("log-format", "console", "log format: console or json")
	if err := bindFlags(a.v, pf, configFlags); err != nil {
		panic(err)
	}

	root.AddCommand(a.validateCmd())
	root.AddCommand(a.optimizeCmd())
	root.AddCommand(a.greedyCmd())
	root.AddCommand(a.randomCmd())
	root.AddCommand(a.compareCmd())

	return root
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml]",
		Short: "Validate a scenario without running any engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args[0])
		},
	}
}

func (a *app) optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize [scenario.yaml]",
		Short: "Compute the maximal-service, minimum-distance allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOptimize(cmd, args[0])
		},
	}
}

func (a *app) greedyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "greedy [scenario.yaml]",
		Short: "Run the nearest-first baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGreedy(cmd, args[0])
		},
	}
}

func (a *app) randomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random [scenario.yaml]",
		Short: "Run repeated random-allocation trials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRandom(cmd, args[0])
		},
	}
}

func (a *app) compareCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "compare [scenario.yaml]",
		Short: "Compare random, greedy and optimized allocations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompare(cmd, args[0], all)
		},
	}
	cmd.Flags().BoolVar(&all, "all-periods", false, "compare the base demand and every period")

	return cmd
}
