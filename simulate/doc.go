// SPDX-License-Identifier: MIT

// Package simulate provides the two behavioural baselines the optimizer is
// compared against.
//
//   - Random: uninformed search. Individuals are drawn one at a time from
//     the remaining population, each placed in a shelter picked uniformly
//     among those that accept the individual's gender and still have room.
//     Driven by an injected *rand.Rand; repeated with RunTrials.
//   - Greedy: nearest-first search. Hotspots in ID order, genders in fixed
//     order (men, then women), shelters by (distance, ID). Deterministic.
//
// Every run owns its state (remaining capacity, remaining demand, the
// allocation under construction); nothing is shared between runs except the
// read-only core.Instance, so trials parallelize safely.
//
// # Reproducibility
//
// RunTrials derives the generator of trial i from (Seed, i) with a
// SplitMix64 mix. Results are therefore identical for a given Seed whatever
// the number of workers.
package simulate
