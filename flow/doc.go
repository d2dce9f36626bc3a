// SPDX-License-Identifier: MIT

// Package flow implements integral network-flow routines on a compact,
// index-addressed residual network.
//
// The routines offered are:
//
//   - Dinic
//
//   - Method: level graph construction + blocking flow via DFS.
//
//   - Time:   O(V²·E) worst case; near O(E·√V) on the layered
//     source → demand → shelter → sink networks built by package optimize.
//
//   - EdmondsKarp
//
//   - Method: breadth-first search for shortest augmenting paths.
//
//   - Time:   O(V·E²).
//
//   - CancelNegativeCycles
//
//   - Method: Bellman–Ford negative-cycle detection on the residual graph,
//     saturating the bottleneck of each cycle found.
//
//   - Keeps the total s→t flow unchanged while strictly lowering cost, and
//     stops at a minimum-cost flow of that value (no negative residual cycle).
//
//   - Time:   O(V·E) per cancelled cycle.
//
// # Network model
//
// Nodes are dense integers [0, n). AddArc inserts a forward arc with an int64
// capacity and a float64 per-unit cost, plus its zero-capacity reverse arc
// of negated cost. Capacities are integral, so every flow produced here is
// integral.
//
// # Budgets
//
// Options carries a wall-clock Deadline and a MaxIterations cap (augmentations
// or cancelled cycles). When either runs out the routine stops, leaves the
// network in a valid (feasible) state and returns ErrBudgetExhausted together
// with the progress made so far. Context cancellation is checked at the same
// points and returns the context error.
//
// # Errors
//
//	ErrNodeOutOfRange   - arc endpoint, source or sink outside [0, n).
//	ErrSourceIsSink     - source and sink coincide.
//	ErrBudgetExhausted  - deadline or iteration cap reached; partial result.
//	*ArcError           - negative capacity or non-finite cost on AddArc.
package flow
