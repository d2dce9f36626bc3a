// SPDX-License-Identifier: MIT

// Package scenario loads allocation scenarios from YAML and runs the three
// engines side by side.
//
// A scenario file lists hotspots (demand by gender), shelters (capacity and
// designation), the full hotspot × shelter distance table and, optionally,
// a sequence of periods (for example months) that each replace the hotspot
// demand while keeping shelters and distances:
//
//	name: winter
//	hotspots:
//	  - {id: H1, lat: 41.88, lon: -87.63, demand: {women: 10}}
//	shelters:
//	  - {id: S1, capacity: 8, designation: women-only}
//	distances:
//	  H1: {S1: 1.0}
//	periods:
//	  - {name: 2024-01, demand: {H1: {women: 12}}}
//
// Build and BuildPeriod turn a Scenario into a validated core.Instance;
// Compare and ComparePeriods produce the random vs. greedy vs. optimized
// comparison table.
package scenario
