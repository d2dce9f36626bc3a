// SPDX-License-Identifier: MIT

package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/distance"
	"github.com/katalvlaran/shelterflow/eligibility"
	"github.com/katalvlaran/shelterflow/internal/fixture"
)

// InstanceSuite covers NewInstance validation and accessors.
type InstanceSuite struct {
	suite.Suite
	matrix *distance.Matrix
}

func (s *InstanceSuite) SetupTest() {
	m, err := distance.FromRows([]string{"H1", "H2"}, []string{"S1", "S2"}, map[string]map[string]float64{
		"H1": {"S1": 1, "S2": 3},
		"H2": {"S1": 5, "S2": 1},
	})
	require.NoError(s.T(), err)
	s.matrix = m
}

func (s *InstanceSuite) hotspots() []core.Hotspot {
	return []core.Hotspot{
		{ID: "H2", Demand: fixture.Demand(5, 0)},
		{ID: "H1", Demand: fixture.Demand(0, 10)},
	}
}

func (s *InstanceSuite) shelters() []core.Shelter {
	return []core.Shelter{
		{ID: "S2", Capacity: 7, Designation: eligibility.Mixed},
		{ID: "S1", Capacity: 8, Designation: eligibility.WomenOnly},
	}
}

// TestSortedByID verifies that engines see a deterministic, ID-sorted order.
func (s *InstanceSuite) TestSortedByID() {
	inst, err := core.NewInstance(s.hotspots(), s.shelters(), s.matrix)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "H1", inst.Hotspot(0).ID)
	require.Equal(s.T(), "S1", inst.Shelter(0).ID)
	require.Equal(s.T(), 3.0, inst.Dist(0, 1))
	require.Equal(s.T(), 5.0, inst.Dist(1, 0))

	h, ok := inst.HotspotIndex("H2")
	require.True(s.T(), ok)
	require.Equal(s.T(), 1, h)
	_, ok = inst.ShelterIndex("nope")
	require.False(s.T(), ok)

	require.EqualValues(s.T(), 15, inst.TotalDemand())
	require.EqualValues(s.T(), 15, inst.TotalCapacity())
	require.EqualValues(s.T(), 10, inst.DemandBy(eligibility.Women))
	require.Equal(s.T(), []int{1}, inst.EligibleShelters(eligibility.Men))
	require.False(s.T(), inst.PairEligible(1, 0), "men-only demand vs women-only shelter")
	require.True(s.T(), inst.PairEligible(0, 0))
}

// TestNegativeDemand fails fast and names the hotspot.
func (s *InstanceSuite) TestNegativeDemand() {
	hs := s.hotspots()
	hs[0].Demand[eligibility.Men] = -1
	_, err := core.NewInstance(hs, s.shelters(), s.matrix)
	require.ErrorIs(s.T(), err, core.ErrInvalidInput)

	var verr *core.ValidationError
	require.True(s.T(), errors.As(err, &verr))
	require.Equal(s.T(), "hotspot", verr.Entity)
	require.Equal(s.T(), "H2", verr.ID)
	require.Equal(s.T(), "demand.men", verr.Field)
}

// TestNegativeCapacity fails fast and names the shelter.
func (s *InstanceSuite) TestNegativeCapacity() {
	ss := s.shelters()
	ss[1].Capacity = -3
	_, err := core.NewInstance(s.hotspots(), ss, s.matrix)
	var verr *core.ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Equal(s.T(), "S1", verr.ID)
	require.Equal(s.T(), "capacity", verr.Field)
}

// TestBadDesignation rejects values outside the fixed set.
func (s *InstanceSuite) TestBadDesignation() {
	ss := s.shelters()
	ss[0].Designation = eligibility.Designation(99)
	_, err := core.NewInstance(s.hotspots(), ss, s.matrix)
	require.ErrorIs(s.T(), err, core.ErrInvalidInput)
	require.Contains(s.T(), err.Error(), "designation")
}

// TestDuplicateIDs rejects repeated identifiers.
func (s *InstanceSuite) TestDuplicateIDs() {
	hs := append(s.hotspots(), core.Hotspot{ID: "H1"})
	_, err := core.NewInstance(hs, s.shelters(), s.matrix)
	require.ErrorIs(s.T(), err, core.ErrInvalidInput)
	require.Contains(s.T(), err.Error(), "duplicate")
}

// TestMissingDistance reports the uncovered pair.
func (s *InstanceSuite) TestMissingDistance() {
	m, err := distance.NewMatrix([]string{"H1", "H2"}, []string{"S1", "S2"})
	require.NoError(s.T(), err)
	require.NoError(s.T(), m.Set("H1", "S1", 1))
	_, err = core.NewInstance(s.hotspots(), s.shelters(), m)
	var verr *core.ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Equal(s.T(), "distance", verr.Entity)
	require.Equal(s.T(), "H1→S2", verr.ID)
}

// TestUnknownHotspotInProvider reports a provider that lacks a row.
func (s *InstanceSuite) TestUnknownHotspotInProvider() {
	hs := append(s.hotspots(), core.Hotspot{ID: "H3", Demand: fixture.Demand(1, 1)})
	_, err := core.NewInstance(hs, s.shelters(), s.matrix)
	require.ErrorIs(s.T(), err, core.ErrInvalidInput)
	require.Contains(s.T(), err.Error(), "H3")
}

// TestEmptyInputs rejects instances without hotspots, shelters or distances.
func (s *InstanceSuite) TestEmptyInputs() {
	_, err := core.NewInstance(nil, s.shelters(), s.matrix)
	require.ErrorIs(s.T(), err, core.ErrInvalidInput)
	_, err = core.NewInstance(s.hotspots(), nil, s.matrix)
	require.ErrorIs(s.T(), err, core.ErrInvalidInput)
	_, err = core.NewInstance(s.hotspots(), s.shelters(), nil)
	require.ErrorIs(s.T(), err, core.ErrInvalidInput)
}

// TestInputsNotAliased ensures later caller mutations do not leak in.
func (s *InstanceSuite) TestInputsNotAliased() {
	hs := s.hotspots()
	inst, err := core.NewInstance(hs, s.shelters(), s.matrix)
	require.NoError(s.T(), err)
	hs[0].Demand[eligibility.Men] = 1000
	require.EqualValues(s.T(), 5, inst.Demand(1, eligibility.Men))
}

func TestInstanceSuite(t *testing.T) {
	suite.Run(t, new(InstanceSuite))
}
