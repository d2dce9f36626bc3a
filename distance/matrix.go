// SPDX-License-Identifier: MIT

package distance

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for distance lookups and construction.
var (
	// ErrInvalidDimensions indicates that no hotspot or no shelter IDs were supplied.
	ErrInvalidDimensions = errors.New("distance: dimensions must be > 0")

	// ErrDuplicateID indicates a repeated hotspot or shelter ID.
	ErrDuplicateID = errors.New("distance: duplicate id")

	// ErrUnknownHotspot indicates a lookup for an ID that has no row.
	ErrUnknownHotspot = errors.New("distance: unknown hotspot")

	// ErrUnknownShelter indicates a lookup for an ID that has no column.
	ErrUnknownShelter = errors.New("distance: unknown shelter")

	// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
	ErrIndexOutOfBounds = errors.New("distance: index out of bounds")

	// ErrBadDistance indicates a negative, NaN or infinite distance.
	ErrBadDistance = errors.New("distance: value must be finite and non-negative")

	// ErrMissing indicates a pair that was never assigned a distance.
	ErrMissing = errors.New("distance: missing entry")
)

// Provider serves distance(hotspot, shelter) lookups. Implementations must be
// safe for concurrent reads.
type Provider interface {
	// Distance returns the distance for the pair, or an error wrapping
	// ErrUnknownHotspot, ErrUnknownShelter or ErrMissing.
	Distance(hotspotID, shelterID string) (float64, error)
}

// Matrix is a dense hotspot × shelter table stored row-major in a flat slice.
// Entries start out missing (NaN) until Set assigns them.
type Matrix struct {
	hotspots []string
	shelters []string
	rowOf    map[string]int
	colOf    map[string]int
	data     []float64 // len == len(hotspots)*len(shelters)
}

var _ Provider = (*Matrix)(nil)

// NewMatrix allocates an empty table for the given IDs.
// Stage 1 (Validate): non-empty, unique IDs on both axes.
// Stage 2 (Prepare): index maps and a NaN-filled backing slice.
// Complexity: O(|H|·|S|) time and memory.
func NewMatrix(hotspotIDs, shelterIDs []string) (*Matrix, error) {
	if len(hotspotIDs) == 0 || len(shelterIDs) == 0 {
		return nil, ErrInvalidDimensions
	}
	rowOf, err := indexIDs(hotspotIDs)
	if err != nil {
		return nil, fmt.Errorf("hotspots: %w", err)
	}
	colOf, err := indexIDs(shelterIDs)
	if err != nil {
		return nil, fmt.Errorf("shelters: %w", err)
	}

	data := make([]float64, len(hotspotIDs)*len(shelterIDs))
	for i := range data {
		data[i] = math.NaN()
	}

	return &Matrix{
		hotspots: append([]string(nil), hotspotIDs...),
		shelters: append([]string(nil), shelterIDs...),
		rowOf:    rowOf,
		colOf:    colOf,
		data:     data,
	}, nil
}

// FromRows builds a Matrix from a nested map hotspot → shelter → distance.
// Every pair in hotspotIDs × shelterIDs must be present.
func FromRows(hotspotIDs, shelterIDs []string, rows map[string]map[string]float64) (*Matrix, error) {
	m, err := NewMatrix(hotspotIDs, shelterIDs)
	if err != nil {
		return nil, err
	}
	for h, row := range rows {
		for s, v := range row {
			if err = m.Set(h, s, v); err != nil {
				return nil, err
			}
		}
	}
	if err = m.Complete(); err != nil {
		return nil, err
	}

	return m, nil
}

func indexIDs(ids []string) (map[string]int, error) {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: empty id at position %d", ErrInvalidDimensions, i)
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		out[id] = i
	}

	return out, nil
}

// Rows returns the number of hotspots.
func (m *Matrix) Rows() int { return len(m.hotspots) }

// Cols returns the number of shelters.
func (m *Matrix) Cols() int { return len(m.shelters) }

// HotspotIDs returns the row IDs in storage order.
func (m *Matrix) HotspotIDs() []string { return append([]string(nil), m.hotspots...) }

// ShelterIDs returns the column IDs in storage order.
func (m *Matrix) ShelterIDs() []string { return append([]string(nil), m.shelters...) }

// indexOf computes the flat index for (row, col) or returns ErrIndexOutOfBounds.
func (m *Matrix) indexOf(row, col int) (int, error) {
	if row < 0 || row >= len(m.hotspots) || col < 0 || col >= len(m.shelters) {
		return 0, fmt.Errorf("Matrix(%d,%d): %w", row, col, ErrIndexOutOfBounds)
	}

	return row*len(m.shelters) + col, nil
}

// SetAt assigns v at (row, col).
func (m *Matrix) SetAt(row, col int, v float64) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: (%s,%s)=%g", ErrBadDistance, m.hotspots[row], m.shelters[col], v)
	}
	m.data[idx] = v

	return nil
}

// Set assigns v to the pair addressed by ID.
func (m *Matrix) Set(hotspotID, shelterID string, v float64) error {
	row, col, err := m.locate(hotspotID, shelterID)
	if err != nil {
		return err
	}

	return m.SetAt(row, col, v)
}

// At returns the value at (row, col). Missing entries yield ErrMissing.
func (m *Matrix) At(row, col int) (float64, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return 0, err
	}
	v := m.data[idx]
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: (%s,%s)", ErrMissing, m.hotspots[row], m.shelters[col])
	}

	return v, nil
}

// Distance implements Provider.
func (m *Matrix) Distance(hotspotID, shelterID string) (float64, error) {
	row, col, err := m.locate(hotspotID, shelterID)
	if err != nil {
		return 0, err
	}

	return m.At(row, col)
}

func (m *Matrix) locate(hotspotID, shelterID string) (int, int, error) {
	row, ok := m.rowOf[hotspotID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownHotspot, hotspotID)
	}
	col, ok := m.colOf[shelterID]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownShelter, shelterID)
	}

	return row, col, nil
}

// Complete verifies that every pair has been assigned. The first missing
// pair (row-major order) is reported.
// Complexity: O(|H|·|S|).
func (m *Matrix) Complete() error {
	for i, v := range m.data {
		if math.IsNaN(v) {
			row, col := i/len(m.shelters), i%len(m.shelters)
			return fmt.Errorf("%w: (%s,%s)", ErrMissing, m.hotspots[row], m.shelters[col])
		}
	}

	return nil
}

// String implements fmt.Stringer for debugging.
func (m *Matrix) String() string {
	var b strings.Builder
	for i, h := range m.hotspots {
		b.WriteString(h)
		b.WriteString(" [")
		for j := range m.shelters {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", m.data[i*len(m.shelters)+j])
		}
		b.WriteString("]\n")
	}

	return b.String()
}
