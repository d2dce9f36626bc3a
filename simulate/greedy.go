// SPDX-License-Identifier: MIT

package simulate

import (
	"sort"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/eligibility"
)

// Greedy runs the nearest-first allocation.
//
// Order is fixed and not configurable:
//   - hotspots ascending by ID;
//   - within a hotspot, men before women;
//   - eligible shelters ascending by distance, ties by shelter ID.
//
// Each (hotspot, gender) fills shelters in that order with
// min(remaining demand, remaining capacity) until its demand is met or its
// eligible shelters are full.
//
// Complexity: O(|H|·|G|·|S| log |S|).
func Greedy(inst *core.Instance) *core.Allocation {
	var (
		alloc   = core.NewAllocation(inst)
		capLeft = make([]int64, inst.NumShelters())
	)
	for s := range capLeft {
		capLeft[s] = inst.Capacity(s)
	}

	for h := 0; h < inst.NumHotspots(); h++ {
		for _, g := range eligibility.Genders {
			left := inst.Demand(h, g)
			if left <= 0 {
				continue
			}
			for _, s := range nearest(inst, h, g) {
				if left == 0 {
					break
				}
				n := min(left, capLeft[s])
				if n <= 0 {
					continue
				}
				alloc.Add(h, s, g, n)
				capLeft[s] -= n
				left -= n
			}
		}
	}

	return alloc
}

// nearest lists the shelters accepting g ordered by (distance from h, ID).
// Shelter indices already follow ID order, so the index breaks ties.
func nearest(inst *core.Instance, h int, g eligibility.Gender) []int {
	order := inst.EligibleShelters(g)
	sort.Slice(order, func(i, j int) bool {
		di, dj := inst.Dist(h, order[i]), inst.Dist(h, order[j])
		if di != dj {
			return di < dj
		}
		return order[i] < order[j]
	})

	return order
}
