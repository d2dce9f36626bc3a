// SPDX-License-Identifier: MIT

package metrics

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/eligibility"
)

// GenderMetrics restricts the distance figures to one gender.
type GenderMetrics struct {
	Demand        int64    `json:"demand"`
	Served        int64    `json:"served"`
	Unsheltered   int64    `json:"unsheltered"`
	TotalDistance float64  `json:"total_distance"`
	MeanDistance  *float64 `json:"mean_distance"`
}

// ShelterUse is the occupancy of one shelter.
type ShelterUse struct {
	ID          string  `json:"id"`
	Used        int64   `json:"used"`
	Capacity    int64   `json:"capacity"`
	Utilization float64 `json:"utilization_pct"` // 0 when capacity is 0
}

// HotspotUse is the service of one (hotspot, gender) demand bucket.
type HotspotUse struct {
	ID          string             `json:"id"`
	Gender      eligibility.Gender `json:"gender"`
	Demand      int64              `json:"demand"`
	Served      int64              `json:"served"`
	Unsheltered int64              `json:"unsheltered"`
}

// Metrics is a snapshot of one allocation.
type Metrics struct {
	Demand        int64                                 `json:"demand"`
	Served        int64                                 `json:"served"`
	Unsheltered   int64                                 `json:"unsheltered"`
	TotalDistance float64                               `json:"total_distance"`
	MeanDistance  *float64                              `json:"mean_distance"`
	ByGender      [eligibility.NumGenders]GenderMetrics `json:"by_gender"`
	Hotspots      []HotspotUse                          `json:"hotspots"` // buckets with demand > 0
	Shelters      []ShelterUse                          `json:"shelters"`
}

// Gender returns the figures for g.
func (m Metrics) Gender(g eligibility.Gender) GenderMetrics { return m.ByGender[g] }

// TopUnsheltered returns at most n buckets that left someone unsheltered,
// most unsheltered first; ties keep hotspot ID then gender order.
func (m Metrics) TopUnsheltered(n int) []HotspotUse {
	var out []HotspotUse
	for _, hu := range m.Hotspots {
		if hu.Unsheltered > 0 {
			out = append(out, hu)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Unsheltered > out[j].Unsheltered })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}

	return out
}

// Compute derives Metrics from alloc.
//
// The allocation is checked against the feasibility law first; an infeasible
// allocation has no meaningful metrics and yields an error wrapping
// core.ErrInfeasibleAlloc (or core.ErrShapeMismatch).
//
// Hotspots lists buckets in hotspot ID order, genders in canonical order.
//
// Complexity: O(|H|·|S|·|G|).
func Compute(inst *core.Instance, alloc *core.Allocation) (Metrics, error) {
	if err := alloc.Check(inst); err != nil {
		return Metrics{}, fmt.Errorf("metrics: %w", err)
	}

	var m Metrics
	for h := 0; h < inst.NumHotspots(); h++ {
		for s := 0; s < inst.NumShelters(); s++ {
			d := inst.Dist(h, s)
			for _, g := range eligibility.Genders {
				f := alloc.At(h, s, g)
				if f == 0 {
					continue
				}
				m.ByGender[g].Served += f
				m.ByGender[g].TotalDistance += float64(f) * d
			}
		}
	}

	for _, g := range eligibility.Genders {
		gm := &m.ByGender[g]
		gm.Demand = inst.DemandBy(g)
		gm.Unsheltered = gm.Demand - gm.Served
		gm.MeanDistance = mean(gm.TotalDistance, gm.Served)

		m.Demand += gm.Demand
		m.Served += gm.Served
		m.TotalDistance += gm.TotalDistance
	}
	m.Unsheltered = m.Demand - m.Served
	m.MeanDistance = mean(m.TotalDistance, m.Served)

	for h := 0; h < inst.NumHotspots(); h++ {
		id := inst.Hotspot(h).ID
		for _, g := range eligibility.Genders {
			d := inst.Demand(h, g)
			if d == 0 {
				continue
			}
			served := alloc.Outflow(h, g)
			m.Hotspots = append(m.Hotspots, HotspotUse{
				ID: id, Gender: g, Demand: d, Served: served, Unsheltered: d - served,
			})
		}
	}

	m.Shelters = make([]ShelterUse, inst.NumShelters())
	for s := range m.Shelters {
		sh := inst.Shelter(s)
		use := ShelterUse{ID: sh.ID, Used: alloc.Inflow(s), Capacity: sh.Capacity}
		if sh.Capacity > 0 {
			use.Utilization = 100 * float64(use.Used) / float64(sh.Capacity)
		}
		m.Shelters[s] = use
	}

	return m, nil
}

// mean returns total/n, or nil when nothing was served.
func mean(total float64, n int64) *float64 {
	if n == 0 {
		return nil
	}
	v := total / float64(n)

	return &v
}
