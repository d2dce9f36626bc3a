// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/shelterflow/eligibility"
)

// Sentinel errors for the data model.
var (
	// ErrInvalidInput is wrapped by every input validation failure.
	ErrInvalidInput = errors.New("core: invalid input")

	// ErrInfeasibleAlloc is wrapped by every feasibility-law violation.
	ErrInfeasibleAlloc = errors.New("core: allocation violates feasibility")

	// ErrShapeMismatch indicates an allocation built for a different instance.
	ErrShapeMismatch = errors.New("core: allocation shape does not match instance")
)

// Location is a WGS84 coordinate pair. It is carried for reporting only;
// distances come from the distance.Provider.
type Location struct {
	Lat float64
	Lon float64
}

// Hotspot is a demand origin with a per-gender count of individuals.
type Hotspot struct {
	// ID is the geographic area code.
	ID string

	// Location is the area centroid.
	Location Location

	// Demand holds the number of individuals per gender.
	Demand [eligibility.NumGenders]int64
}

// TotalDemand returns the demand summed across genders.
func (h Hotspot) TotalDemand() int64 {
	var sum int64
	for _, g := range eligibility.Genders {
		sum += h.Demand[g]
	}

	return sum
}

// Shelter is a capacity-bounded placement target.
type Shelter struct {
	ID          string
	Location    Location
	Capacity    int64
	Designation eligibility.Designation
}

// ValidationError locates a data-preparation defect.
type ValidationError struct {
	Entity string // "hotspot", "shelter", "distance", ...
	ID     string // offending identifier (may be a pair "H1→S2")
	Field  string // offending field
	Reason string // the violated constraint
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("core: invalid %s %s: %s", e.Entity, e.Field, e.Reason)
	}

	return fmt.Sprintf("core: invalid %s %q %s: %s", e.Entity, e.ID, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) succeed.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(entity, id, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Entity: entity, ID: id, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ViolationError reports the first feasibility-law breach found by Allocation.Check.
type ViolationError struct {
	Constraint string // "demand", "capacity" or "eligibility"
	Hotspot    string
	Shelter    string
	Gender     eligibility.Gender
	Got, Limit int64
}

func (e *ViolationError) Error() string {
	switch e.Constraint {
	case "capacity":
		return fmt.Sprintf("core: shelter %q receives %d > capacity %d", e.Shelter, e.Got, e.Limit)
	case "demand":
		return fmt.Sprintf("core: hotspot %q sends %d %s > demand %d", e.Hotspot, e.Got, e.Gender, e.Limit)
	default:
		return fmt.Sprintf("core: %d %s routed %q→%q on ineligible pair", e.Got, e.Gender, e.Hotspot, e.Shelter)
	}
}

// Unwrap lets errors.Is(err, ErrInfeasibleAlloc) succeed.
func (e *ViolationError) Unwrap() error { return ErrInfeasibleAlloc }
