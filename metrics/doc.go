// SPDX-License-Identifier: MIT

// Package metrics derives read-only summaries from allocations.
//
// Compute works on any core.Allocation regardless of the engine that produced
// it, which is what makes the random, greedy and optimized engines directly
// comparable:
//
//	unsheltered    = Σ demand − Σ flow
//	total distance = Σ flow(h,s,g)·d(h,s)
//	mean distance  = total distance / Σ flow      (nil when Σ flow = 0)
//
// The same figures are reported per gender, plus per-shelter utilization.
//
// Summarize folds the metrics of repeated random trials into mean, variance
// and range per figure using gonum's stat and floats packages.
package metrics
