// SPDX-License-Identifier: MIT

// Package distance exposes precomputed hotspot→shelter distances.
//
// Distances are produced upstream (projection, routing, haversine, …) and
// arrive here as a complete table. This package only stores and serves them:
//
//   - Provider is the read-only lookup contract consumed by core.NewInstance.
//   - Matrix is a dense, row-major implementation (rows = hotspots,
//     columns = shelters) addressed either by ID or by index.
//
// Every (hotspot, shelter) pair must be covered, including pairs that are
// ineligible under gender rules: counterfactual analysis needs them. Values
// must be finite and non-negative; Set rejects anything else.
//
// A Matrix is safe for concurrent readers once construction is finished.
package distance
