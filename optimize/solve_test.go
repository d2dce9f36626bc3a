// SPDX-License-Identifier: MIT

package optimize_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/eligibility"
	"github.com/katalvlaran/shelterflow/flow"
	"github.com/katalvlaran/shelterflow/internal/fixture"
	"github.com/katalvlaran/shelterflow/optimize"
)

// SolveSuite runs every scenario against one backend.
type SolveSuite struct {
	suite.Suite
	backend optimize.Backend
}

func (s *SolveSuite) opts() optimize.Options {
	o := optimize.DefaultOptions()
	o.Backend = s.backend
	return o
}

func (s *SolveSuite) solve(inst *core.Instance) *optimize.Result {
	res, err := optimize.Solve(context.Background(), inst, s.opts())
	require.NoError(s.T(), err)
	require.NoError(s.T(), res.Allocation.Check(inst))
	require.Equal(s.T(), s.backend, res.Backend)
	return res
}

// TestComparative checks the two-hotspot, two-shelter scenario.
func (s *SolveSuite) TestComparative() {
	inst := fixture.Comparative()
	res := s.solve(inst)

	require.Equal(s.T(), optimize.StatusOptimal, res.Status)
	require.EqualValues(s.T(), 15, res.MaxService)
	require.EqualValues(s.T(), 15, res.Allocation.Served())
	require.InDelta(s.T(), 19.0, res.TotalDistance, 1e-9)

	h1, _ := inst.HotspotIndex("H1")
	h2, _ := inst.HotspotIndex("H2")
	s1, _ := inst.ShelterIndex("S1")
	s2, _ := inst.ShelterIndex("S2")
	require.EqualValues(s.T(), 8, res.Allocation.At(h1, s1, eligibility.Women))
	require.EqualValues(s.T(), 2, res.Allocation.At(h1, s2, eligibility.Women))
	require.EqualValues(s.T(), 5, res.Allocation.At(h2, s2, eligibility.Men))
	require.EqualValues(s.T(), 0, res.Allocation.At(h2, s1, eligibility.Men))
}

// TestDegenerate: women have no eligible shelter; men fill the nearer one first.
func (s *SolveSuite) TestDegenerate() {
	inst := fixture.Degenerate()
	res := s.solve(inst)

	require.EqualValues(s.T(), 4, res.MaxService)
	require.EqualValues(s.T(), 0, res.Allocation.ServedBy(eligibility.Women))
	require.InDelta(s.T(), 3*1.5+1*4.0, res.TotalDistance, 1e-9)
}

// TestZeroCapacity: nothing can be served.
func (s *SolveSuite) TestZeroCapacity() {
	inst := fixture.WithCapacity(fixture.WithCapacity(fixture.Comparative(), 0, 0), 1, 0)
	res := s.solve(inst)

	require.Equal(s.T(), optimize.StatusOptimal, res.Status)
	require.Zero(s.T(), res.MaxService)
	require.Zero(s.T(), res.Allocation.Served())
	require.Zero(s.T(), res.TotalDistance)
}

// TestZeroDemand: an instance without demand yields the zero allocation.
func (s *SolveSuite) TestZeroDemand() {
	inst := fixture.MustInstance(
		[]core.Hotspot{{ID: "H1"}},
		[]core.Shelter{{ID: "S1", Capacity: 4, Designation: eligibility.Mixed}},
		map[string]map[string]float64{"H1": {"S1": 2}},
	)
	res := s.solve(inst)
	require.Zero(s.T(), res.MaxService)
}

// TestCapacityBinding: demand exceeds capacity; V* equals total capacity.
func (s *SolveSuite) TestCapacityBinding() {
	inst := fixture.MustInstance(
		[]core.Hotspot{
			{ID: "H1", Demand: fixture.Demand(6, 6)},
			{ID: "H2", Demand: fixture.Demand(3, 0)},
		},
		[]core.Shelter{
			{ID: "S1", Capacity: 5, Designation: eligibility.MenOnly},
			{ID: "S2", Capacity: 4, Designation: eligibility.Mixed},
		},
		map[string]map[string]float64{
			"H1": {"S1": 2, "S2": 1},
			"H2": {"S1": 1, "S2": 9},
		},
	)
	res := s.solve(inst)
	require.EqualValues(s.T(), 9, res.MaxService)
	// S1: 3 men from H2 (1) + 2 men from H1 (2); S2: 4 from H1 (1).
	require.InDelta(s.T(), 3*1.0+2*2.0+4*1.0, res.TotalDistance, 1e-9)
}

// TestMatchesBruteForce compares against exhaustive enumeration on tiny instances.
func (s *SolveSuite) TestMatchesBruteForce() {
	for seed := int64(1); seed <= 12; seed++ {
		inst := fixture.Random(seed, 2, 2, 3, 4)
		res := s.solve(inst)
		wantV, wantD := bruteForce(inst)
		require.Equal(s.T(), wantV, res.MaxService, "seed %d", seed)
		require.InDelta(s.T(), wantD, res.TotalDistance, 1e-9, "seed %d", seed)
	}
}

// TestCapacityMonotonicity: raising one capacity never lowers V*, and at an
// unchanged V* never raises the optimized distance.
func (s *SolveSuite) TestCapacityMonotonicity() {
	for seed := int64(20); seed < 26; seed++ {
		inst := fixture.Random(seed, 4, 3, 8, 6)
		base := s.solve(inst)
		for j := 0; j < inst.NumShelters(); j++ {
			more := s.solve(fixture.WithCapacity(inst, j, inst.Capacity(j)+5))
			require.GreaterOrEqual(s.T(), more.MaxService, base.MaxService, "seed %d shelter %d", seed, j)
			if more.MaxService == base.MaxService {
				require.LessOrEqual(s.T(), more.TotalDistance, base.TotalDistance+1e-9, "seed %d shelter %d", seed, j)
			}
		}
	}
}

// TestFarCapacityKeepsDistance: all demand is already served, and S2 is
// never nearer than S1 for women, so growing S2 changes neither V* nor distance.
func (s *SolveSuite) TestFarCapacityKeepsDistance() {
	inst := fixture.Comparative()
	base := s.solve(inst)
	s2, _ := inst.ShelterIndex("S2")
	more := s.solve(fixture.WithCapacity(inst, s2, inst.Capacity(s2)+10))
	require.Equal(s.T(), base.MaxService, more.MaxService)
	require.InDelta(s.T(), base.TotalDistance, more.TotalDistance, 1e-9)
}

// TestExpiredTimeLimit returns a feasible, qualified result.
func (s *SolveSuite) TestExpiredTimeLimit() {
	o := s.opts()
	o.TimeLimit = time.Nanosecond
	inst := fixture.Random(3, 6, 5, 10, 10)
	res, err := optimize.Solve(context.Background(), inst, o)
	require.NoError(s.T(), err)
	require.Equal(s.T(), optimize.StatusBudgetExhausted, res.Status)
	require.NotEqual(s.T(), optimize.StageNone, res.Exhausted)
	require.NoError(s.T(), res.Allocation.Check(inst))
}

// TestCancelledContext aborts with the context error.
func (s *SolveSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := optimize.Solve(ctx, fixture.Comparative(), s.opts())
	require.ErrorIs(s.T(), err, context.Canceled)
}

func TestSolveSuite(t *testing.T) {
	for _, b := range []optimize.Backend{optimize.BackendNetwork, optimize.BackendSimplex} {
		b := b
		t.Run(b.String(), func(t *testing.T) {
			suite.Run(t, &SolveSuite{backend: b})
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	for seed := int64(100); seed < 116; seed++ {
		inst := fixture.Random(seed, 6, 4, 12, 15)
		net, err := optimize.Solve(context.Background(), inst, optimize.DefaultOptions())
		require.NoError(t, err)

		o := optimize.DefaultOptions()
		o.Backend = optimize.BackendSimplex
		lp, err := optimize.Solve(context.Background(), inst, o)
		require.NoError(t, err)

		require.Equal(t, net.MaxService, lp.MaxService, "seed %d", seed)
		require.InDelta(t, net.TotalDistance, lp.TotalDistance, 1e-6, "seed %d", seed)
	}
}

// TestSimplexReturnsWithinBudget sweeps degenerate random instances: the
// simplex backend must come back within its time limit, feasible, and agree
// with the network backend whenever it reports an optimum.
func TestSimplexReturnsWithinBudget(t *testing.T) {
	type shape struct {
		seed   int64
		nh, ns int
	}
	shapes := []shape{{5, 6, 4}, {2, 8, 6}, {1, 12, 10}, {1, 15, 12}}
	for seed := int64(1); seed <= 60; seed++ {
		shapes = append(shapes, shape{seed, 7, 5})
	}

	for _, sh := range shapes {
		inst := fixture.Random(sh.seed, sh.nh, sh.ns, 12, 15)
		net, err := optimize.Solve(context.Background(), inst, optimize.DefaultOptions())
		require.NoError(t, err)

		o := optimize.DefaultOptions()
		o.Backend = optimize.BackendSimplex
		o.TimeLimit = 2 * time.Second

		var (
			res  *optimize.Result
			serr error
			done = make(chan struct{})
		)
		go func() {
			defer close(done)
			res, serr = optimize.Solve(context.Background(), inst, o)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatalf("%dx%d seed %d: simplex did not return within 10s", sh.nh, sh.ns, sh.seed)
		}

		require.NoError(t, serr, "%dx%d seed %d", sh.nh, sh.ns, sh.seed)
		require.NoError(t, res.Allocation.Check(inst))
		switch res.Exhausted {
		case optimize.StageNone:
			require.Equal(t, net.MaxService, res.MaxService, "%dx%d seed %d", sh.nh, sh.ns, sh.seed)
			require.InDelta(t, net.TotalDistance, res.TotalDistance, 1e-6, "%dx%d seed %d", sh.nh, sh.ns, sh.seed)
		case optimize.StageMinDistance:
			// Stage-1 allocation: maximal service, distance not yet minimized.
			require.Equal(t, net.MaxService, res.MaxService, "%dx%d seed %d", sh.nh, sh.ns, sh.seed)
			require.EqualValues(t, res.MaxService, res.Allocation.Served())
			require.GreaterOrEqual(t, res.TotalDistance, net.TotalDistance-1e-6)
		}
	}
}

// TestSimplexContextDeadline: an expired caller deadline is reported as the
// context error, not as an exhausted budget.
func TestSimplexContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	o := optimize.DefaultOptions()
	o.Backend = optimize.BackendSimplex
	_, err := optimize.Solve(ctx, fixture.Random(1, 15, 12, 12, 15), o)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMaxFlowAlgorithmsAgree(t *testing.T) {
	inst := fixture.Random(7, 8, 6, 20, 25)
	a, err := optimize.Solve(context.Background(), inst, optimize.DefaultOptions())
	require.NoError(t, err)

	o := optimize.DefaultOptions()
	o.MaxFlow = flow.EdmondsKarp
	b, err := optimize.Solve(context.Background(), inst, o)
	require.NoError(t, err)
	require.Equal(t, a.MaxService, b.MaxService)
	require.InDelta(t, a.TotalDistance, b.TotalDistance, 1e-9)
}

func TestIterationBudget(t *testing.T) {
	inst := fixture.Comparative()
	o := optimize.DefaultOptions()
	o.MaxIterations = 1
	res, err := optimize.Solve(context.Background(), inst, o)
	require.NoError(t, err)
	require.Equal(t, optimize.StatusBudgetExhausted, res.Status)
	require.Equal(t, optimize.StageMaxService, res.Exhausted)
	require.Less(t, res.MaxService, int64(15))
	require.NoError(t, res.Allocation.Check(inst))
	require.EqualValues(t, res.MaxService, res.Allocation.Served())
}

func TestOptionsValidation(t *testing.T) {
	inst := fixture.Comparative()
	cases := []struct {
		name string
		mut  func(*optimize.Options)
		want error
	}{
		{"zero epsilon", func(o *optimize.Options) { o.Epsilon = 0 }, optimize.ErrBadEpsilon},
		{"half epsilon", func(o *optimize.Options) { o.Epsilon = 0.5 }, optimize.ErrBadEpsilon},
		{"negative time", func(o *optimize.Options) { o.TimeLimit = -time.Second }, optimize.ErrBadTimeLimit},
		{"negative iterations", func(o *optimize.Options) { o.MaxIterations = -1 }, optimize.ErrBadIterations},
		{"unknown backend", func(o *optimize.Options) { o.Backend = 9 }, optimize.ErrUnsupportedBackend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := optimize.DefaultOptions()
			tc.mut(&o)
			_, err := optimize.Solve(context.Background(), inst, o)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := optimize.Solve(context.Background(), nil, optimize.DefaultOptions())
	require.ErrorIs(t, err, optimize.ErrNilInstance)
}

func TestParseBackend(t *testing.T) {
	b, err := optimize.ParseBackend("LP")
	require.NoError(t, err)
	require.Equal(t, optimize.BackendSimplex, b)

	b, err = optimize.ParseBackend("")
	require.NoError(t, err)
	require.Equal(t, optimize.BackendNetwork, b)

	_, err = optimize.ParseBackend("quantum")
	require.ErrorIs(t, err, optimize.ErrUnsupportedBackend)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	o := optimize.DefaultOptions()
	o.Logger = &logger

	_, err := optimize.Solve(context.Background(), fixture.Comparative(), o)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"solved"`)
	require.Contains(t, buf.String(), `"v_star":15`)
}

// bruteForce enumerates every integral allocation of a tiny instance and
// returns the lexicographic optimum (max served, then min distance).
func bruteForce(inst *core.Instance) (int64, float64) {
	type cell struct {
		h, s int
		g    eligibility.Gender
	}
	var cells []cell
	for h := 0; h < inst.NumHotspots(); h++ {
		for sh := 0; sh < inst.NumShelters(); sh++ {
			for _, g := range eligibility.Genders {
				if inst.Eligible(sh, g) && inst.Demand(h, g) > 0 && inst.Capacity(sh) > 0 {
					cells = append(cells, cell{h, sh, g})
				}
			}
		}
	}

	var (
		bestV int64 = -1
		bestD float64
		alloc = core.NewAllocation(inst)
	)
	var rec func(i int)
	rec = func(i int) {
		if i == len(cells) {
			if alloc.Check(inst) != nil {
				return
			}
			v, d := alloc.Served(), alloc.TotalDistance(inst)
			if v > bestV || (v == bestV && d < bestD) {
				bestV, bestD = v, d
			}
			return
		}
		c := cells[i]
		limit := inst.Demand(c.h, c.g)
		if cp := inst.Capacity(c.s); cp < limit {
			limit = cp
		}
		for f := int64(0); f <= limit; f++ {
			alloc.Set(c.h, c.s, c.g, f)
			rec(i + 1)
		}
		alloc.Set(c.h, c.s, c.g, 0)
	}
	rec(0)

	return bestV, bestD
}
