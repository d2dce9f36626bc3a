// SPDX-License-Identifier: MIT

package simulate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/eligibility"
	"github.com/katalvlaran/shelterflow/internal/fixture"
	"github.com/katalvlaran/shelterflow/metrics"
	"github.com/katalvlaran/shelterflow/optimize"
	"github.com/katalvlaran/shelterflow/simulate"
)

// RandomSuite covers the random simulator.
type RandomSuite struct {
	suite.Suite
}

// TestFeasibleAndBounded: every trial respects the feasibility law and never
// serves more than the optimizer's V*.
func (s *RandomSuite) TestFeasibleAndBounded() {
	for seed := int64(1); seed <= 10; seed++ {
		inst := fixture.Random(seed, 5, 4, 9, 12)
		opt, err := optimize.Solve(context.Background(), inst, optimize.DefaultOptions())
		require.NoError(s.T(), err)
		for trial := 0; trial < 5; trial++ {
			a := simulate.Random(inst, simulate.TrialRand(seed, trial))
			require.NoError(s.T(), a.Check(inst))
			require.LessOrEqual(s.T(), a.Served(), opt.MaxService)
		}
	}
}

// TestSeedReproducible: equal seeds give equal allocations.
func (s *RandomSuite) TestSeedReproducible() {
	inst := fixture.Random(4, 6, 5, 10, 8)
	a := simulate.Random(inst, simulate.NewRand(42))
	b := simulate.Random(inst, simulate.NewRand(42))
	require.True(s.T(), a.Equal(b))

	c := simulate.Random(inst, nil)
	d := simulate.Random(inst, simulate.NewRand(0))
	require.True(s.T(), c.Equal(d))
}

// TestExhaustsPlaceable: the run ends only when no remaining individual can
// be placed, so every gender is either fully served or out of capacity.
func (s *RandomSuite) TestExhaustsPlaceable() {
	for seed := int64(1); seed <= 10; seed++ {
		inst := fixture.Random(seed, 4, 3, 10, 10)
		a := simulate.Random(inst, simulate.NewRand(seed))
		for _, g := range eligibility.Genders {
			if a.ServedBy(g) == inst.DemandBy(g) {
				continue
			}
			for _, sh := range inst.EligibleShelters(g) {
				require.Equal(s.T(), inst.Capacity(sh), a.Inflow(sh), "seed %d: open shelter left for %s", seed, g)
			}
		}
	}
}

// TestDegenerate: unplaceable women are dropped, men are all placed.
func (s *RandomSuite) TestDegenerate() {
	inst := fixture.Degenerate()
	a := simulate.Random(inst, simulate.NewRand(9))
	require.NoError(s.T(), a.Check(inst))
	require.Zero(s.T(), a.ServedBy(eligibility.Women))
	require.EqualValues(s.T(), 4, a.ServedBy(eligibility.Men))
}

func TestRandomSuite(t *testing.T) {
	suite.Run(t, new(RandomSuite))
}

// GreedySuite covers the nearest-first simulator.
type GreedySuite struct {
	suite.Suite
}

// TestComparative: greedy matches the optimum on the comparison scenario.
func (s *GreedySuite) TestComparative() {
	inst := fixture.Comparative()
	a := simulate.Greedy(inst)
	require.NoError(s.T(), a.Check(inst))
	require.EqualValues(s.T(), 8, a.At(0, 0, eligibility.Women))
	require.EqualValues(s.T(), 2, a.At(0, 1, eligibility.Women))
	require.EqualValues(s.T(), 5, a.At(1, 1, eligibility.Men))
	require.InDelta(s.T(), 19.0, a.TotalDistance(inst), 1e-12)
}

// TestDeterministic: repeated runs are identical.
func (s *GreedySuite) TestDeterministic() {
	inst := fixture.Random(11, 7, 5, 12, 9)
	require.True(s.T(), simulate.Greedy(inst).Equal(simulate.Greedy(inst)))
}

// TestTieBreakByShelterID: equal distances go to the lower shelter ID.
func (s *GreedySuite) TestTieBreakByShelterID() {
	inst := fixture.MustInstance(
		[]core.Hotspot{{ID: "H1", Demand: fixture.Demand(3, 0)}},
		[]core.Shelter{
			{ID: "SB", Capacity: 5, Designation: eligibility.Mixed},
			{ID: "SA", Capacity: 5, Designation: eligibility.Mixed},
		},
		map[string]map[string]float64{"H1": {"SA": 2, "SB": 2}},
	)
	a := simulate.Greedy(inst)
	sa, _ := inst.ShelterIndex("SA")
	require.EqualValues(s.T(), 3, a.At(0, sa, eligibility.Men))
}

// TestMenBeforeWomen: within one hotspot men are placed first.
func (s *GreedySuite) TestMenBeforeWomen() {
	inst := fixture.MustInstance(
		[]core.Hotspot{{ID: "H1", Demand: fixture.Demand(4, 4)}},
		[]core.Shelter{{ID: "S1", Capacity: 5, Designation: eligibility.Mixed}},
		map[string]map[string]float64{"H1": {"S1": 1}},
	)
	a := simulate.Greedy(inst)
	require.EqualValues(s.T(), 4, a.At(0, 0, eligibility.Men))
	require.EqualValues(s.T(), 1, a.At(0, 0, eligibility.Women))
}

// TestHotspotOrder: earlier hotspot IDs take the nearest places first, which
// can be worse than optimal.
func (s *GreedySuite) TestHotspotOrder() {
	inst := fixture.MustInstance(
		[]core.Hotspot{
			{ID: "H1", Demand: fixture.Demand(2, 0)},
			{ID: "H2", Demand: fixture.Demand(2, 0)},
		},
		[]core.Shelter{
			{ID: "S1", Capacity: 2, Designation: eligibility.MenOnly},
			{ID: "S2", Capacity: 2, Designation: eligibility.MenOnly},
		},
		map[string]map[string]float64{
			"H1": {"S1": 1, "S2": 2},
			"H2": {"S1": 1, "S2": 10},
		},
	)
	a := simulate.Greedy(inst)
	require.EqualValues(s.T(), 2, a.At(0, 0, eligibility.Men))
	require.EqualValues(s.T(), 2, a.At(1, 1, eligibility.Men))
	require.InDelta(s.T(), 22.0, a.TotalDistance(inst), 1e-12)

	opt, err := optimize.Solve(context.Background(), inst, optimize.DefaultOptions())
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 6.0, opt.TotalDistance, 1e-12)
}

// TestDegenerate: no flow for the unservable hotspot.
func (s *GreedySuite) TestDegenerate() {
	inst := fixture.Degenerate()
	a := simulate.Greedy(inst)
	require.Zero(s.T(), a.ServedBy(eligibility.Women))
	m, err := metrics.Compute(inst, a)
	require.NoError(s.T(), err)
	require.EqualValues(s.T(), 6, m.Gender(eligibility.Women).Unsheltered)
	require.Nil(s.T(), m.Gender(eligibility.Women).MeanDistance)
	// HM: SA (1.5) takes 3, SB (4.0) takes 1.
	require.InDelta(s.T(), 8.5, m.TotalDistance, 1e-12)
}

func TestGreedySuite(t *testing.T) {
	suite.Run(t, new(GreedySuite))
}
