// SPDX-License-Identifier: MIT

package core

import (
	"fmt"

	"github.com/katalvlaran/shelterflow/eligibility"
)

const numGenders = eligibility.NumGenders

// Allocation is a dense flow tensor flow(h, s, g) for one Instance.
// The zero value is unusable; create with NewAllocation.
type Allocation struct {
	nh, ns int
	flow   []int64 // index ((h*ns)+s)*numGenders + g
}

// Entry is one non-zero cell of an Allocation.
type Entry struct {
	Hotspot int
	Shelter int
	Gender  eligibility.Gender
	Flow    int64
}

// NewAllocation returns an all-zero allocation shaped for inst.
func NewAllocation(inst *Instance) *Allocation {
	return newAllocation(inst.NumHotspots(), inst.NumShelters())
}

func newAllocation(nh, ns int) *Allocation {
	return &Allocation{nh: nh, ns: ns, flow: make([]int64, nh*ns*numGenders)}
}

func (a *Allocation) idx(h, s int, g eligibility.Gender) int {
	return (h*a.ns+s)*numGenders + int(g)
}

// Add increments flow(h, s, g) by n.
func (a *Allocation) Add(h, s int, g eligibility.Gender, n int64) {
	a.flow[a.idx(h, s, g)] += n
}

// Set overwrites flow(h, s, g).
func (a *Allocation) Set(h, s int, g eligibility.Gender, n int64) {
	a.flow[a.idx(h, s, g)] = n
}

// At returns flow(h, s, g).
func (a *Allocation) At(h, s int, g eligibility.Gender) int64 {
	return a.flow[a.idx(h, s, g)]
}

// Pair returns the flow on (h, s) summed across genders.
func (a *Allocation) Pair(h, s int) int64 {
	base := a.idx(h, s, 0)
	var sum int64
	for g := 0; g < numGenders; g++ {
		sum += a.flow[base+g]
	}

	return sum
}

// Outflow returns Σ_s flow(h, s, g).
func (a *Allocation) Outflow(h int, g eligibility.Gender) int64 {
	var sum int64
	for s := 0; s < a.ns; s++ {
		sum += a.At(h, s, g)
	}

	return sum
}

// Inflow returns Σ_h,g flow(h, s, g).
func (a *Allocation) Inflow(s int) int64 {
	var sum int64
	for h := 0; h < a.nh; h++ {
		sum += a.Pair(h, s)
	}

	return sum
}

// Served returns the total flow.
func (a *Allocation) Served() int64 {
	var sum int64
	for _, f := range a.flow {
		sum += f
	}

	return sum
}

// ServedBy returns the total flow of gender g.
func (a *Allocation) ServedBy(g eligibility.Gender) int64 {
	var sum int64
	for i := int(g); i < len(a.flow); i += numGenders {
		sum += a.flow[i]
	}

	return sum
}

// TotalDistance returns Σ flow(h,s,g)·distance(h,s).
func (a *Allocation) TotalDistance(inst *Instance) float64 {
	var total float64
	for h := 0; h < a.nh; h++ {
		for s := 0; s < a.ns; s++ {
			if f := a.Pair(h, s); f != 0 {
				total += float64(f) * inst.Dist(h, s)
			}
		}
	}

	return total
}

// Entries returns the non-zero cells in (hotspot, shelter, gender) order.
func (a *Allocation) Entries() []Entry {
	var out []Entry
	for h := 0; h < a.nh; h++ {
		for s := 0; s < a.ns; s++ {
			for _, g := range eligibility.Genders {
				if f := a.At(h, s, g); f != 0 {
					out = append(out, Entry{Hotspot: h, Shelter: s, Gender: g, Flow: f})
				}
			}
		}
	}

	return out
}

// Clone returns a deep copy.
func (a *Allocation) Clone() *Allocation {
	return &Allocation{nh: a.nh, ns: a.ns, flow: append([]int64(nil), a.flow...)}
}

// Equal reports whether both allocations have identical shape and cells.
func (a *Allocation) Equal(b *Allocation) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.nh != b.nh || a.ns != b.ns {
		return false
	}
	for i := range a.flow {
		if a.flow[i] != b.flow[i] {
			return false
		}
	}

	return true
}

// Check verifies the feasibility law against inst.
//
// Order of checks: shape, negative or ineligible cells, per-(hotspot, gender)
// demand, per-shelter capacity. The first violation is returned as a
// *ViolationError wrapping ErrInfeasibleAlloc.
//
// Complexity: O(|H|·|S|·|G|).
func (a *Allocation) Check(inst *Instance) error {
	if a.nh != inst.NumHotspots() || a.ns != inst.NumShelters() {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.nh, a.ns, inst.NumHotspots(), inst.NumShelters())
	}

	for h := 0; h < a.nh; h++ {
		for s := 0; s < a.ns; s++ {
			for _, g := range eligibility.Genders {
				f := a.At(h, s, g)
				if f < 0 {
					return &ViolationError{Constraint: "demand", Hotspot: inst.Hotspot(h).ID,
						Shelter: inst.Shelter(s).ID, Gender: g, Got: f, Limit: 0}
				}
				if f > 0 && !inst.Eligible(s, g) {
					return &ViolationError{Constraint: "eligibility", Hotspot: inst.Hotspot(h).ID,
						Shelter: inst.Shelter(s).ID, Gender: g, Got: f}
				}
			}
		}
	}

	for h := 0; h < a.nh; h++ {
		for _, g := range eligibility.Genders {
			if out, d := a.Outflow(h, g), inst.Demand(h, g); out > d {
				return &ViolationError{Constraint: "demand", Hotspot: inst.Hotspot(h).ID, Gender: g, Got: out, Limit: d}
			}
		}
	}

	for s := 0; s < a.ns; s++ {
		if in, c := a.Inflow(s), inst.Capacity(s); in > c {
			return &ViolationError{Constraint: "capacity", Shelter: inst.Shelter(s).ID, Got: in, Limit: c}
		}
	}

	return nil
}
