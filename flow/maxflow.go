// SPDX-License-Identifier: MIT

package flow

import (
	"context"
	"math"
)

// MaxFlow pushes as much flow as possible from source to sink using the
// algorithm selected in opts, starting from the network's current flow.
//
// It returns the amount of flow added by this call. On ErrBudgetExhausted or
// a context error the network holds a valid, possibly non-maximal flow and the
// returned value counts what was pushed so far.
func (nw *Network) MaxFlow(ctx context.Context, source, sink int, opts Options) (int64, error) {
	opts.normalize()
	if !nw.valid(source) || !nw.valid(sink) {
		return 0, ErrNodeOutOfRange
	}
	if source == sink {
		return 0, ErrSourceIsSink
	}
	if ctx == nil {
		ctx = context.Background()
	}

	switch opts.Algorithm {
	case EdmondsKarp:
		return nw.edmondsKarp(ctx, source, sink, opts)
	default:
		return nw.dinic(ctx, source, sink, opts)
	}
}

// dinic computes a maximum flow with Dinic's algorithm.
//
// Steps:
//  1. Repeat until the sink is unreachable in the residual graph:
//     a. Check cancellation and budget.
//     b. BFS from source to label levels (O(V + E)).
//     c. If sink unreachable, stop: the flow is maximum.
//     d. DFS-based blocking flow along level-increasing arcs, with a
//     per-node arc iterator so each arc is skipped at most once per phase;
//     optionally rebuild the level graph every LevelRebuildInterval pushes.
//
// Complexity:
//
//	Time:   O(V²·E) worst case.
//	Memory: O(V) for level and iterator slices.
func (nw *Network) dinic(ctx context.Context, source, sink int, opts Options) (int64, error) {
	var (
		total int64
		n     = len(nw.adj)
		level = make([]int, n)
		iter  = make([]int, n)
		b     = newBudget(opts)
		queue = make([]int, 0, n)
	)

	for {
		// 1a) Cancellation before BFS
		if err := ctx.Err(); err != nil {
			return total, err
		}

		// 1b) BFS levels
		for i := range level {
			level[i] = -1
		}
		level[source] = 0
		queue = append(queue[:0], source)
		for i := 0; i < len(queue); i++ {
			u := queue[i]
			for _, a := range nw.adj[u] {
				if a.cap > 0 && level[a.to] < 0 {
					level[a.to] = level[u] + 1
					queue = append(queue, a.to)
				}
			}
		}

		// 1c) Sink unreachable: maximum reached
		if level[sink] < 0 {
			return total, nil
		}
		// An augmenting path exists; only now does the budget matter.
		if b.exhausted() {
			return total, ErrBudgetExhausted
		}

		// 1d) Blocking flow
		for i := range iter {
			iter[i] = 0
		}
		pushes := 0
		for {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			if b.exhausted() {
				break
			}
			pushed := nw.dinicPush(level, iter, source, sink, math.MaxInt64)
			if pushed == 0 {
				break
			}
			total += pushed
			b.spend()
			pushes++
			if opts.LevelRebuildInterval > 0 && pushes%opts.LevelRebuildInterval == 0 {
				break
			}
		}
	}
}

// dinicPush recursively pushes flow along the level graph and returns the
// amount actually sent.
func (nw *Network) dinicPush(level, iter []int, u, sink int, available int64) int64 {
	if u == sink {
		return available
	}
	for ; iter[u] < len(nw.adj[u]); iter[u]++ {
		a := nw.adj[u][iter[u]]
		if a.cap <= 0 || level[a.to] != level[u]+1 {
			continue
		}
		send := available
		if a.cap < send {
			send = a.cap
		}
		if pushed := nw.dinicPush(level, iter, a.to, sink, send); pushed > 0 {
			nw.push(u, iter[u], pushed)
			return pushed
		}
	}

	return 0
}

// edmondsKarp computes a maximum flow by repeatedly augmenting along a
// fewest-arc path found with BFS.
//
// Complexity: O(V·E²) time, O(V) memory.
func (nw *Network) edmondsKarp(ctx context.Context, source, sink int, opts Options) (int64, error) {
	var (
		total  int64
		n      = len(nw.adj)
		parent = make([]int, n) // node we came from
		via    = make([]int, n) // arc index in adj[parent]
		b      = newBudget(opts)
		queue  = make([]int, 0, n)
	)

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		for i := range parent {
			parent[i] = -1
		}
		parent[source] = source
		queue = append(queue[:0], source)
		for i := 0; i < len(queue) && parent[sink] < 0; i++ {
			u := queue[i]
			for k, a := range nw.adj[u] {
				if a.cap > 0 && parent[a.to] < 0 {
					parent[a.to] = u
					via[a.to] = k
					queue = append(queue, a.to)
				}
			}
		}
		if parent[sink] < 0 {
			return total, nil
		}
		if b.exhausted() {
			return total, ErrBudgetExhausted
		}

		// Bottleneck along the path, then augment.
		bottle := int64(math.MaxInt64)
		for v := sink; v != source; v = parent[v] {
			if c := nw.adj[parent[v]][via[v]].cap; c < bottle {
				bottle = c
			}
		}
		for v := sink; v != source; v = parent[v] {
			nw.push(parent[v], via[v], bottle)
		}
		total += bottle
		b.spend()
	}
}
