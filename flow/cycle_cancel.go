// SPDX-License-Identifier: MIT

package flow

import (
	"context"
	"math"
)

// step is one arc on a residual cycle: adj[node][index].
type step struct {
	node  int
	index int
}

// CancelNegativeCycles lowers the network's total cost without changing any
// node's net flow, by repeatedly saturating negative-cost residual cycles.
//
// Steps:
//  1. Bellman–Ford from a virtual root (all potentials 0) over arcs with
//     residual capacity; relaxations must improve by more than Epsilon.
//  2. If no relaxation happens in the n-th pass, no negative cycle exists:
//     the current flow is a minimum-cost flow of its value. Stop.
//  3. Otherwise walk predecessors n times to land on a cycle, extract it,
//     and push its bottleneck capacity around it.
//
// It returns the number of cycles cancelled. On ErrBudgetExhausted or a
// context error the network still holds a feasible flow of the same value,
// with cost no higher than on entry.
//
// Complexity: O(V·E) per cycle; the number of cycles is bounded because each
// cancellation lowers the integral-flow cost by more than Epsilon.
func (nw *Network) CancelNegativeCycles(ctx context.Context, opts Options) (int, error) {
	opts.normalize()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		n     = len(nw.adj)
		dist  = make([]float64, n)
		pred  = make([]step, n)
		b     = newBudget(opts)
		count int
	)

	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		cycle := nw.findNegativeCycle(dist, pred, opts.Epsilon)
		if cycle == nil {
			return count, nil
		}
		if b.exhausted() {
			return count, ErrBudgetExhausted
		}

		bottle := int64(math.MaxInt64)
		for _, st := range cycle {
			if c := nw.adj[st.node][st.index].cap; c < bottle {
				bottle = c
			}
		}
		for _, st := range cycle {
			nw.push(st.node, st.index, bottle)
		}
		count++
		b.spend()
	}
}

// findNegativeCycle returns the arcs of one residual cycle whose cost is
// below −eps, or nil when none exists. dist and pred are scratch buffers.
func (nw *Network) findNegativeCycle(dist []float64, pred []step, eps float64) []step {
	n := len(nw.adj)
	for i := range dist {
		dist[i] = 0
		pred[i] = step{node: -1, index: -1}
	}

	last := -1
	for pass := 0; pass < n; pass++ {
		last = -1
		for u := 0; u < n; u++ {
			for k, a := range nw.adj[u] {
				if a.cap <= 0 {
					continue
				}
				if cand := dist[u] + a.cost; cand < dist[a.to]-eps {
					dist[a.to] = cand
					pred[a.to] = step{node: u, index: k}
					last = a.to
				}
			}
		}
		if last < 0 {
			return nil
		}
	}

	// A relaxation in pass n implies a cycle in the predecessor graph.
	x := last
	for i := 0; i < n; i++ {
		if pred[x].node < 0 {
			return nil
		}
		x = pred[x].node
	}

	var (
		cycle []step
		cost  float64
	)
	for v := x; ; {
		p := pred[v]
		if p.node < 0 || len(cycle) > n {
			return nil
		}
		cycle = append(cycle, p)
		cost += nw.adj[p.node][p.index].cost
		v = p.node
		if v == x {
			break
		}
	}
	if cost >= -eps {
		return nil
	}

	return cycle
}
