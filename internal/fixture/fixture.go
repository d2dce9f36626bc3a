// SPDX-License-Identifier: MIT

// Package fixture builds small, well-known instances shared by the test
// suites of the engine packages.
package fixture

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/distance"
	"github.com/katalvlaran/shelterflow/eligibility"
)

// Demand is a shorthand for a per-gender demand array.
func Demand(men, women int64) [eligibility.NumGenders]int64 {
	var d [eligibility.NumGenders]int64
	d[eligibility.Men] = men
	d[eligibility.Women] = women

	return d
}

// MustInstance builds an instance from a nested distance map and panics on error.
func MustInstance(hs []core.Hotspot, ss []core.Shelter, rows map[string]map[string]float64) *core.Instance {
	hIDs := make([]string, len(hs))
	for i, h := range hs {
		hIDs[i] = h.ID
	}
	sIDs := make([]string, len(ss))
	for j, s := range ss {
		sIDs[j] = s.ID
	}
	m, err := distance.FromRows(hIDs, sIDs, rows)
	if err != nil {
		panic(err)
	}
	inst, err := core.NewInstance(hs, ss, m)
	if err != nil {
		panic(err)
	}

	return inst
}

// Comparative is the two-hotspot, two-shelter scenario:
//
//	H1: 10 women          S1: cap 8, women-only   d(H1,S1)=1  d(H2,S1)=5
//	H2:  5 men            S2: cap 7, mixed        d(H1,S2)=3  d(H2,S2)=1
//
// V* = 15 and the minimum total distance is 8·1 + 2·3 + 5·1 = 19.
func Comparative() *core.Instance {
	return MustInstance(
		[]core.Hotspot{
			{ID: "H1", Demand: Demand(0, 10)},
			{ID: "H2", Demand: Demand(5, 0)},
		},
		[]core.Shelter{
			{ID: "S1", Capacity: 8, Designation: eligibility.WomenOnly},
			{ID: "S2", Capacity: 7, Designation: eligibility.Mixed},
		},
		map[string]map[string]float64{
			"H1": {"S1": 1.0, "S2": 3.0},
			"H2": {"S1": 5.0, "S2": 1.0},
		},
	)
}

// Degenerate has an all-female hotspot facing men-only shelters only,
// next to an all-male hotspot that can be served.
func Degenerate() *core.Instance {
	return MustInstance(
		[]core.Hotspot{
			{ID: "HF", Demand: Demand(0, 6)},
			{ID: "HM", Demand: Demand(4, 0)},
		},
		[]core.Shelter{
			{ID: "SA", Capacity: 3, Designation: eligibility.MenOnly},
			{ID: "SB", Capacity: 5, Designation: eligibility.MenOnly},
		},
		map[string]map[string]float64{
			"HF": {"SA": 2.0, "SB": 1.0},
			"HM": {"SA": 1.5, "SB": 4.0},
		},
	)
}

// Random builds a reproducible instance with nh hotspots and ns shelters.
// Demands are drawn in [0, maxDemand], capacities in [0, maxCap], distances
// in [0.5, 20.5) and designations uniformly.
func Random(seed int64, nh, ns int, maxDemand, maxCap int64) *core.Instance {
	r := rand.New(rand.NewSource(seed))
	hs := make([]core.Hotspot, nh)
	for i := range hs {
		hs[i] = core.Hotspot{
			ID:     fmt.Sprintf("H%02d", i),
			Demand: Demand(r.Int63n(maxDemand+1), r.Int63n(maxDemand+1)),
		}
	}
	designations := []eligibility.Designation{eligibility.Mixed, eligibility.MenOnly, eligibility.WomenOnly}
	ss := make([]core.Shelter, ns)
	for j := range ss {
		ss[j] = core.Shelter{
			ID:          fmt.Sprintf("S%02d", j),
			Capacity:    r.Int63n(maxCap + 1),
			Designation: designations[r.Intn(len(designations))],
		}
	}
	rows := make(map[string]map[string]float64, nh)
	for _, h := range hs {
		rows[h.ID] = make(map[string]float64, ns)
		for _, s := range ss {
			// Quarter-unit grid keeps float sums exact.
			rows[h.ID][s.ID] = 0.5 + float64(r.Intn(80))/4
		}
	}

	return MustInstance(hs, ss, rows)
}

// WithCapacity returns a copy of inst whose shelter s has capacity c.
func WithCapacity(inst *core.Instance, s int, c int64) *core.Instance {
	hs := inst.Hotspots()
	ss := inst.Shelters()
	ss[s].Capacity = c
	rows := make(map[string]map[string]float64, len(hs))
	for i, h := range hs {
		rows[h.ID] = make(map[string]float64, len(ss))
		for j, sh := range ss {
			rows[h.ID][sh.ID] = inst.Dist(i, j)
		}
	}

	return MustInstance(hs, ss, rows)
}
