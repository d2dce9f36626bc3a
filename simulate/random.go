// SPDX-License-Identifier: MIT

package simulate

import (
	"math/rand"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/eligibility"
)

// bucket is the remaining demand of one (hotspot, gender).
type bucket struct {
	h    int
	g    eligibility.Gender
	left int64
}

// randomState is the per-run state of the random simulator.
type randomState struct {
	inst    *core.Instance
	rng     *rand.Rand
	capLeft []int64
	buckets []bucket
	pool    int64                         // Σ left over buckets
	open    [eligibility.NumGenders][]int // shelters accepting g with capLeft > 0
	alloc   *core.Allocation
}

func newRandomState(inst *core.Instance, rng *rand.Rand) *randomState {
	st := &randomState{
		inst:    inst,
		rng:     rng,
		capLeft: make([]int64, inst.NumShelters()),
		alloc:   core.NewAllocation(inst),
	}
	for s := range st.capLeft {
		st.capLeft[s] = inst.Capacity(s)
	}
	for h := 0; h < inst.NumHotspots(); h++ {
		for _, g := range eligibility.Genders {
			if d := inst.Demand(h, g); d > 0 {
				st.buckets = append(st.buckets, bucket{h: h, g: g, left: d})
				st.pool += d
			}
		}
	}
	for _, g := range eligibility.Genders {
		for _, s := range inst.EligibleShelters(g) {
			if st.capLeft[s] > 0 {
				st.open[g] = append(st.open[g], s)
			}
		}
	}

	return st
}

// draw picks one remaining individual uniformly and returns its bucket index.
func (st *randomState) draw() int {
	r := st.rng.Int63n(st.pool)
	for i, b := range st.buckets {
		if r < b.left {
			return i
		}
		r -= b.left
	}

	return len(st.buckets) - 1
}

// dropGender removes every remaining individual of gender g from the pool.
func (st *randomState) dropGender(g eligibility.Gender) {
	kept := st.buckets[:0]
	for _, b := range st.buckets {
		if b.g == g {
			st.pool -= b.left
			continue
		}
		kept = append(kept, b)
	}
	st.buckets = kept
}

// place assigns one individual of bucket i to shelter s.
func (st *randomState) place(i, s int) {
	b := &st.buckets[i]
	st.alloc.Add(b.h, s, b.g, 1)
	b.left--
	st.pool--
	if b.left == 0 {
		last := len(st.buckets) - 1
		st.buckets[i] = st.buckets[last]
		st.buckets = st.buckets[:last]
	}

	st.capLeft[s]--
	if st.capLeft[s] == 0 {
		for _, g := range eligibility.Genders {
			st.open[g] = removeInt(st.open[g], s)
		}
	}
}

func removeInt(xs []int, v int) []int {
	for i, x := range xs {
		if x == v {
			return append(xs[:i], xs[i+1:]...)
		}
	}

	return xs
}

// Random runs one trial of the random allocation simulator.
//
// Steps:
//  1. Initialize remaining capacity per shelter and remaining demand per
//     (hotspot, gender).
//  2. While individuals remain: draw one uniformly (so hotspot and gender
//     follow the remaining distribution).
//  3. If no shelter accepting its gender has capacity left, nobody of that
//     gender can be placed any more: drop them all.
//  4. Otherwise pick a shelter uniformly among the open eligible ones, place
//     the individual, and decrement both counters.
//
// rng may be nil, in which case NewRand(0) is used. The same generator state
// always yields the same allocation.
//
// Complexity: O(P·(K + |S|)) for P placed individuals and K demand buckets.
func Random(inst *core.Instance, rng *rand.Rand) *core.Allocation {
	if rng == nil {
		rng = NewRand(0)
	}
	st := newRandomState(inst, rng)

	for st.pool > 0 {
		i := st.draw()
		g := st.buckets[i].g
		open := st.open[g]
		if len(open) == 0 {
			st.dropGender(g)
			continue
		}
		st.place(i, open[st.rng.Intn(len(open))])
	}

	return st.alloc
}
