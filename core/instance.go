// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/shelterflow/distance"
	"github.com/katalvlaran/shelterflow/eligibility"
)

// Instance is a validated, read-only allocation problem.
// Hotspots and shelters are stored sorted by ID; engines address them by index.
type Instance struct {
	hotspots []Hotspot
	shelters []Shelter
	hIndex   map[string]int
	sIndex   map[string]int
	dist     []float64 // row-major |H|×|S| cache
	elig     eligibility.Table
}

// NewInstance validates the inputs and builds an Instance.
//
// Steps:
//  1. Sort copies of hotspots and shelters by ID (deterministic engine order).
//  2. Validate identifiers (non-empty, unique), demand ≥ 0, capacity ≥ 0,
//     designation in the fixed set.
//  3. Pull every (hotspot, shelter) distance from the provider into a dense cache,
//     rejecting missing, negative or non-finite entries.
//  4. Precompute the shelter × gender eligibility table.
//
// The first defect found is returned as a *ValidationError wrapping ErrInvalidInput.
//
// Complexity: O(|H| log |H| + |S| log |S| + |H|·|S|) time, O(|H|·|S|) memory.
func NewInstance(hotspots []Hotspot, shelters []Shelter, provider distance.Provider) (*Instance, error) {
	if len(hotspots) == 0 {
		return nil, invalid("instance", "", "hotspots", "at least one hotspot is required")
	}
	if len(shelters) == 0 {
		return nil, invalid("instance", "", "shelters", "at least one shelter is required")
	}
	if provider == nil {
		return nil, invalid("instance", "", "distances", "distance provider is nil")
	}

	// 1) Sorted copies.
	hs := append([]Hotspot(nil), hotspots...)
	sort.Slice(hs, func(i, j int) bool { return hs[i].ID < hs[j].ID })
	ss := append([]Shelter(nil), shelters...)
	sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })

	// 2) Entity validation.
	hIndex := make(map[string]int, len(hs))
	for i, h := range hs {
		if strings.TrimSpace(h.ID) == "" {
			return nil, invalid("hotspot", "", "id", "identifier is empty")
		}
		if _, dup := hIndex[h.ID]; dup {
			return nil, invalid("hotspot", h.ID, "id", "duplicate identifier")
		}
		hIndex[h.ID] = i
		for _, g := range eligibility.Genders {
			if h.Demand[g] < 0 {
				return nil, invalid("hotspot", h.ID, "demand."+g.String(), "must be non-negative, got %d", h.Demand[g])
			}
		}
	}

	sIndex := make(map[string]int, len(ss))
	designations := make([]eligibility.Designation, len(ss))
	for j, s := range ss {
		if strings.TrimSpace(s.ID) == "" {
			return nil, invalid("shelter", "", "id", "identifier is empty")
		}
		if _, dup := sIndex[s.ID]; dup {
			return nil, invalid("shelter", s.ID, "id", "duplicate identifier")
		}
		sIndex[s.ID] = j
		if s.Capacity < 0 {
			return nil, invalid("shelter", s.ID, "capacity", "must be non-negative, got %d", s.Capacity)
		}
		if !s.Designation.Valid() {
			return nil, invalid("shelter", s.ID, "designation", "unknown designation %v", s.Designation)
		}
		designations[j] = s.Designation
	}

	// 3) Distance cache.
	dist := make([]float64, len(hs)*len(ss))
	for i, h := range hs {
		for j, s := range ss {
			d, err := provider.Distance(h.ID, s.ID)
			if err != nil {
				reason := err.Error()
				if errors.Is(err, distance.ErrMissing) || errors.Is(err, distance.ErrUnknownHotspot) ||
					errors.Is(err, distance.ErrUnknownShelter) {
					reason = "no distance entry: " + reason
				}
				return nil, invalid("distance", h.ID+"→"+s.ID, "value", "%s", reason)
			}
			if !finiteNonNegative(d) {
				return nil, invalid("distance", h.ID+"→"+s.ID, "value", "must be finite and non-negative, got %g", d)
			}
			dist[i*len(ss)+j] = d
		}
	}

	return &Instance{
		hotspots: hs,
		shelters: ss,
		hIndex:   hIndex,
		sIndex:   sIndex,
		dist:     dist,
		elig:     eligibility.NewTable(designations),
	}, nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// NumHotspots returns |H|.
func (in *Instance) NumHotspots() int { return len(in.hotspots) }

// NumShelters returns |S|.
func (in *Instance) NumShelters() int { return len(in.shelters) }

// Hotspot returns the hotspot at index h.
func (in *Instance) Hotspot(h int) Hotspot { return in.hotspots[h] }

// Shelter returns the shelter at index s.
func (in *Instance) Shelter(s int) Shelter { return in.shelters[s] }

// Hotspots returns a copy of the hotspots in index (ID) order.
func (in *Instance) Hotspots() []Hotspot { return append([]Hotspot(nil), in.hotspots...) }

// Shelters returns a copy of the shelters in index (ID) order.
func (in *Instance) Shelters() []Shelter { return append([]Shelter(nil), in.shelters...) }

// HotspotIndex resolves a hotspot ID.
func (in *Instance) HotspotIndex(id string) (int, bool) {
	i, ok := in.hIndex[id]
	return i, ok
}

// ShelterIndex resolves a shelter ID.
func (in *Instance) ShelterIndex(id string) (int, bool) {
	j, ok := in.sIndex[id]
	return j, ok
}

// Dist returns distance(h, s) from the dense cache.
func (in *Instance) Dist(h, s int) float64 { return in.dist[h*len(in.shelters)+s] }

// Demand returns demand(h, g).
func (in *Instance) Demand(h int, g eligibility.Gender) int64 { return in.hotspots[h].Demand[g] }

// Capacity returns capacity(s).
func (in *Instance) Capacity(s int) int64 { return in.shelters[s].Capacity }

// Eligible reports whether shelter s accepts gender g.
func (in *Instance) Eligible(s int, g eligibility.Gender) bool { return in.elig.Allows(s, g) }

// EligibleShelters returns the shelter indices accepting g, in ID order.
func (in *Instance) EligibleShelters(g eligibility.Gender) []int { return in.elig.Shelters(g) }

// PairEligible reports whether (h, s) is an eligible pair: s accepts at least
// one gender present in h's demand.
func (in *Instance) PairEligible(h, s int) bool {
	return eligibility.PairEligible(in.shelters[s].Designation, in.hotspots[h].Demand)
}

// TotalDemand returns Σ demand over all hotspots and genders.
func (in *Instance) TotalDemand() int64 {
	var sum int64
	for _, h := range in.hotspots {
		sum += h.TotalDemand()
	}

	return sum
}

// DemandBy returns Σ_h demand(h, g).
func (in *Instance) DemandBy(g eligibility.Gender) int64 {
	var sum int64
	for _, h := range in.hotspots {
		sum += h.Demand[g]
	}

	return sum
}

// TotalCapacity returns Σ capacity over all shelters.
func (in *Instance) TotalCapacity() int64 {
	var sum int64
	for _, s := range in.shelters {
		sum += s.Capacity
	}

	return sum
}
