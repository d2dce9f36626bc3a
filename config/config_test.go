// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/shelterflow/config"
	"github.com/katalvlaran/shelterflow/flow"
	"github.com/katalvlaran/shelterflow/optimize"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 100, c.Trials)
	require.Equal(t, "network", c.Backend)
	require.Equal(t, optimize.DefaultEpsilon, c.Epsilon)
	require.Zero(t, c.TimeLimit)
	require.Equal(t, "info", c.LogLevel)

	o, err := c.OptimizeOptions(nil)
	require.NoError(t, err)
	require.Equal(t, optimize.BackendNetwork, o.Backend)
	require.Equal(t, flow.Dinic, o.MaxFlow)
}

func TestLoad_File(t *testing.T) {
	c, err := config.Load("testdata/shelterflow.yaml")
	require.NoError(t, err)
	require.EqualValues(t, 123, c.Seed)
	require.Equal(t, 250, c.Trials)
	require.Equal(t, 4, c.Workers)
	require.Equal(t, 30*time.Second, c.TimeLimit)
	require.Equal(t, "json", c.LogFormat)

	o, err := c.OptimizeOptions(nil)
	require.NoError(t, err)
	require.Equal(t, optimize.BackendSimplex, o.Backend)
	require.Equal(t, 1e-4, o.Epsilon)
	require.Equal(t, 30*time.Second, o.TimeLimit)

	to := c.TrialOptions(nil)
	require.Equal(t, 250, to.Trials)
	require.EqualValues(t, 123, to.Seed)
	require.Equal(t, 4, to.Workers)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SHELTERFLOW_TRIALS", "7")
	t.Setenv("SHELTERFLOW_MAX_FLOW", "edmonds-karp")
	c, err := config.Load("testdata/shelterflow.yaml")
	require.NoError(t, err)
	require.Equal(t, 7, c.Trials)

	o, err := c.OptimizeOptions(nil)
	require.NoError(t, err)
	require.Equal(t, flow.EdmondsKarp, o.MaxFlow)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load("testdata/bad.yaml")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.Load("testdata/missing.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := config.Load("")
	require.NoError(t, err)

	cases := map[string]func(*config.Config){
		"workers":    func(c *config.Config) { c.Workers = -1 },
		"backend":    func(c *config.Config) { c.Backend = "quantum" },
		"max flow":   func(c *config.Config) { c.MaxFlow = "push-relabel" },
		"epsilon":    func(c *config.Config) { c.Epsilon = 0 },
		"time limit": func(c *config.Config) { c.TimeLimit = -time.Second },
		"iterations": func(c *config.Config) { c.MaxIterations = -2 },
		"log level":  func(c *config.Config) { c.LogLevel = "loud" },
		"log format": func(c *config.Config) { c.LogFormat = "xml" },
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mut(&c)
			require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	c, err := config.Load("testdata/shelterflow.yaml")
	require.NoError(t, err)

	log, err := c.Logger(&buf)
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, log.GetLevel())
	log.Debug().Str("k", "v").Msg("hello")
	require.Contains(t, buf.String(), `"message":"hello"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}
