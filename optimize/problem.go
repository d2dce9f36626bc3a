// SPDX-License-Identifier: MIT

package optimize

import (
	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/eligibility"
)

// source is one (hotspot, gender) demand bucket with positive demand.
type source struct {
	h      int
	g      eligibility.Gender
	demand int64
}

// variable is one decision variable x(h, s, g).
type variable struct {
	src  int // index into problem.sources
	s    int // shelter index
	dist float64
}

// problem is the backend-neutral formulation shared by both stages.
type problem struct {
	inst     *core.Instance
	sources  []source
	shelters []int // shelter indices with positive capacity and at least one variable
	row      []int // shelter index → position in shelters, -1 if unused
	vars     []variable
}

// newProblem enumerates sources and variables.
//
// Steps:
//  1. For every hotspot h and gender g with demand(h,g) > 0, create a source.
//  2. For every shelter s accepting g with capacity(s) > 0, create x(h,s,g).
//  3. Record the shelters that appear in at least one variable.
//
// Complexity: O(|H|·|S|·|G|).
func newProblem(inst *core.Instance) *problem {
	p := &problem{inst: inst, row: make([]int, inst.NumShelters())}
	for j := range p.row {
		p.row[j] = -1
	}

	for h := 0; h < inst.NumHotspots(); h++ {
		for _, g := range eligibility.Genders {
			d := inst.Demand(h, g)
			if d <= 0 {
				continue
			}
			src := len(p.sources)
			p.sources = append(p.sources, source{h: h, g: g, demand: d})
			for _, s := range inst.EligibleShelters(g) {
				if inst.Capacity(s) <= 0 {
					continue
				}
				if p.row[s] < 0 {
					p.row[s] = len(p.shelters)
					p.shelters = append(p.shelters, s)
				}
				p.vars = append(p.vars, variable{src: src, s: s, dist: inst.Dist(h, s)})
			}
		}
	}

	return p
}

// allocation materializes integral variable values into a core.Allocation.
func (p *problem) allocation(values []int64) *core.Allocation {
	a := core.NewAllocation(p.inst)
	for k, v := range p.vars {
		if values[k] == 0 {
			continue
		}
		src := p.sources[v.src]
		a.Add(src.h, v.s, src.g, values[k])
	}

	return a
}
