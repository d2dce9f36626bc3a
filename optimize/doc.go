// SPDX-License-Identifier: MIT

// Package optimize computes provably optimal shelter allocations by
// lexicographic optimization in two separate solves.
//
//   - Stage 1 (maximum service): maximize Σ x(h,s,g) subject to the
//     feasibility law. The optimum is V*.
//   - Stage 2 (minimum distance): minimize Σ x(h,s,g)·d(h,s) subject to the
//     feasibility law and Σ x(h,s,g) = V*.
//
// Decision variables exist only for eligible (shelter, gender) pairs with
// positive demand, so ineligible flow is impossible by construction. The
// constraint system is a bipartite transportation polytope between
// (hotspot, gender) sources and shelters; its matrix is totally unimodular and
// every vertex optimum is integral. Integrality is still verified after
// solving.
//
// # Backends
//
// BackendNetwork (the default) solves Stage 1 with Dinic max flow on the
// network source → (h,g) → shelter → sink, then runs Stage 2 as
// negative-cycle cancelling on the Stage-1 residual network: the flow value
// stays exactly V* while distance drops to its minimum. TimeLimit and
// MaxIterations are enforced inside both stages.
//
// BackendSimplex states both stages as explicit linear programs in standard
// form and solves them with gonum's simplex method
// (gonum.org/v1/gonum/optimize/convex/lp). Stage 2 adds the equality row
// Σ x = V* and starts from a basis of the Stage-1 vertex. Each solve runs
// under the TimeLimit deadline (DefaultSimplexTimeLimit when TimeLimit is
// zero) and the caller's context; MaxIterations does not apply.
//
// # Budgets
//
// When a budget runs out the result carries StatusBudgetExhausted, the stage
// that was interrupted, and the best feasible allocation known at that point
// (possibly suboptimal). Cancellation of the caller's context is not a budget:
// Solve returns the context error.
//
// # Errors
//
//	ErrNilInstance          - instance is nil.
//	ErrBadEpsilon           - Epsilon not in (0, 0.5).
//	ErrBadTimeLimit         - TimeLimit < 0.
//	ErrBadIterations        - MaxIterations < 0.
//	ErrUnsupportedBackend   - unknown Backend.
//	ErrInfeasible           - Stage 1 reported no feasible allocation.
//	ErrServiceNotPreserved  - Stage 2 could not hold total flow at V*.
//	ErrFractional           - a solver value is farther than Epsilon from an integer.
package optimize
