// SPDX-License-Identifier: MIT

// Package core defines the data model shared by every allocation engine:
// Hotspot, Shelter, Instance and Allocation.
//
// An Instance is the validated, immutable bundle of inputs:
//
//	hotspots  (sorted by ID)      demand per gender
//	shelters  (sorted by ID)      capacity + designation
//	distances (dense cache)       every hotspot × shelter pair
//	eligibility table             shelter × gender
//
// NewInstance fails fast on data-preparation defects (negative demand or
// capacity, malformed designation, duplicate IDs, missing distance entries),
// returning a *ValidationError that names the offending entity and the
// violated constraint. Instances are read-only after construction and may be
// shared across engines and goroutines without locking.
//
// An Allocation is a dense flow tensor flow(h, s, g) produced fresh by each
// engine run. Check verifies the feasibility law:
//
//	Σ_s flow(h,s,g) ≤ demand(h,g)   for every hotspot h and gender g
//	Σ_h,g flow(h,s,g) ≤ capacity(s) for every shelter s
//	flow(h,s,g) = 0                 whenever shelter s does not accept g
//
// Errors:
//
//	ErrInvalidInput     - wrapped by every *ValidationError.
//	ErrInfeasibleAlloc  - wrapped by every *ViolationError returned from Check.
//	ErrShapeMismatch    - allocation and instance dimensions differ.
package core
