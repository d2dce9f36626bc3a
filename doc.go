// SPDX-License-Identifier: MIT

// Package shelterflow allocates shelter-seeking individuals from demand
// hotspots to shelters with finite, gender-restricted capacity.
//
// The optimizer serves as many people as possible and, among all
// maximal-service allocations, minimizes total travel distance. Two
// behavioural baselines (random and nearest-first greedy) produce
// allocations of the same shape, so one metrics routine compares all three.
//
// Packages:
//
//	eligibility/ — genders, shelter designations, who may go where
//	distance/    — distance Provider interface and dense hotspot × shelter Matrix
//	core/        — Hotspot, Shelter, validated Instance, Allocation + feasibility check
//	flow/        — integral residual networks: Dinic, Edmonds–Karp, cycle cancelling
//	optimize/    — two-stage optimizer (network-flow and simplex backends)
//	simulate/    — random and greedy simulators, parallel random trials
//	metrics/     — unsheltered, total and mean distance, utilization, trial summaries
//	scenario/    — YAML scenarios, monthly periods, engine comparison tables
//	config/      — engine settings from file and environment
//	cmd/shelterflow — command-line front end
//
// Quick start:
//
//	sc, _ := scenario.Load("winter.yaml")
//	inst, _ := sc.Build()
//	res, _ := optimize.Solve(ctx, inst, optimize.DefaultOptions())
//	m, _ := metrics.Compute(inst, res.Allocation)
package shelterflow
