// SPDX-License-Identifier: MIT

package flow

import (
	"math"
)

// arc is one residual arc. Forward arcs have orig == initial capacity;
// reverse arcs have orig == 0 and cost == -forward cost.
type arc struct {
	to   int
	rev  int // index of the paired arc in adj[to]
	cap  int64
	orig int64
	cost float64
}

// ArcRef addresses a forward arc returned by AddArc.
type ArcRef struct {
	From  int
	Index int
}

// Network is a residual flow network over nodes [0, n).
// It is not safe for concurrent mutation.
type Network struct {
	adj [][]arc
}

// NewNetwork allocates a network with n nodes and no arcs.
func NewNetwork(n int) *Network {
	return &Network{adj: make([][]arc, n)}
}

// NumNodes returns n.
func (nw *Network) NumNodes() int { return len(nw.adj) }

func (nw *Network) valid(u int) bool { return u >= 0 && u < len(nw.adj) }

// AddArc inserts u→v with the given capacity and per-unit cost, plus the
// paired reverse arc v→u (capacity 0, cost −cost).
//
// Complexity: O(1) amortized.
func (nw *Network) AddArc(u, v int, capacity int64, cost float64) (ArcRef, error) {
	if !nw.valid(u) || !nw.valid(v) {
		return ArcRef{}, ErrNodeOutOfRange
	}
	if capacity < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return ArcRef{}, &ArcError{From: u, To: v, Cap: capacity, Cost: cost}
	}
	fwd := len(nw.adj[u])
	bwd := len(nw.adj[v])
	if u == v {
		bwd++ // the reverse arc lands right after the forward one
	}
	nw.adj[u] = append(nw.adj[u], arc{to: v, rev: bwd, cap: capacity, orig: capacity, cost: cost})
	nw.adj[v] = append(nw.adj[v], arc{to: u, rev: fwd, cap: 0, orig: 0, cost: -cost})

	return ArcRef{From: u, Index: fwd}, nil
}

// Flow returns the flow currently carried by the forward arc ref.
func (nw *Network) Flow(ref ArcRef) int64 {
	a := nw.adj[ref.From][ref.Index]
	return a.orig - a.cap
}

// Residual returns the remaining capacity of the forward arc ref.
func (nw *Network) Residual(ref ArcRef) int64 {
	return nw.adj[ref.From][ref.Index].cap
}

// Cost returns Σ flow·cost over all forward arcs.
func (nw *Network) Cost() float64 {
	var total float64
	for u := range nw.adj {
		for _, a := range nw.adj[u] {
			if a.orig > 0 {
				total += float64(a.orig-a.cap) * a.cost
			}
		}
	}

	return total
}

// Outflow returns the net flow leaving u over forward arcs.
func (nw *Network) Outflow(u int) int64 {
	var sum int64
	for _, a := range nw.adj[u] {
		if a.orig > 0 {
			sum += a.orig - a.cap
		}
	}

	return sum
}

// push moves f units along adj[u][k] and updates the paired arc.
func (nw *Network) push(u, k int, f int64) {
	a := &nw.adj[u][k]
	a.cap -= f
	nw.adj[a.to][a.rev].cap += f
}

// Reset zeroes all flow, restoring original capacities.
func (nw *Network) Reset() {
	for u := range nw.adj {
		for k := range nw.adj[u] {
			nw.adj[u][k].cap = nw.adj[u][k].orig
		}
	}
}
