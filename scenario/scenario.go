// SPDX-License-Identifier: MIT

package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/shelterflow/core"
	"github.com/katalvlaran/shelterflow/distance"
	"github.com/katalvlaran/shelterflow/eligibility"
)

// ErrUnknownPeriod is returned by BuildPeriod for a name not in the file.
var ErrUnknownPeriod = errors.New("scenario: unknown period")

// Demand maps a gender label ("men", "women", ...) to a count.
type Demand map[string]int64

// Hotspot is the file form of core.Hotspot.
type Hotspot struct {
	ID     string  `yaml:"id"`
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
	Demand Demand  `yaml:"demand"`
	// Total, when present, must equal the sum of Demand.
	Total *int64 `yaml:"total,omitempty"`
}

// Shelter is the file form of core.Shelter.
type Shelter struct {
	ID          string  `yaml:"id"`
	Lat         float64 `yaml:"lat"`
	Lon         float64 `yaml:"lon"`
	Capacity    int64   `yaml:"capacity"`
	Designation string  `yaml:"designation"`
}

// Period replaces hotspot demand; hotspots it omits have zero demand.
type Period struct {
	Name   string            `yaml:"name"`
	Demand map[string]Demand `yaml:"demand"`
}

// Scenario is one decoded scenario file.
type Scenario struct {
	Name      string                        `yaml:"name"`
	Hotspots  []Hotspot                     `yaml:"hotspots"`
	Shelters  []Shelter                     `yaml:"shelters"`
	Distances map[string]map[string]float64 `yaml:"distances"`
	Periods   []Period                      `yaml:"periods,omitempty"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading file: %w", err)
	}

	return Decode(bytes.NewReader(data))
}

// Decode parses a scenario from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenario: empty document")
		}
		return nil, fmt.Errorf("scenario: parsing YAML: %w", err)
	}

	return &sc, nil
}

// Encode writes sc as YAML.
func (sc *Scenario) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return fmt.Errorf("scenario: encoding YAML: %w", err)
	}

	return enc.Close()
}

// PeriodNames lists the periods in file order.
func (sc *Scenario) PeriodNames() []string {
	out := make([]string, len(sc.Periods))
	for i, p := range sc.Periods {
		out[i] = p.Name
	}

	return out
}

// Build validates the scenario with its base demand.
func (sc *Scenario) Build() (*core.Instance, error) {
	return sc.build(nil)
}

// BuildPeriod validates the scenario with the demand of the named period.
func (sc *Scenario) BuildPeriod(name string) (*core.Instance, error) {
	for i := range sc.Periods {
		if sc.Periods[i].Name == name {
			return sc.build(&sc.Periods[i])
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, name)
}

// build converts file records to the core model.
//
// Steps:
//  1. Parse gender labels and designations; check declared totals.
//  2. Overlay period demand when p != nil, rejecting unknown hotspots.
//  3. Build the distance matrix from the nested table.
//  4. Delegate entity validation to core.NewInstance.
func (sc *Scenario) build(p *Period) (*core.Instance, error) {
	hotspots := make([]core.Hotspot, len(sc.Hotspots))
	hIDs := make([]string, len(sc.Hotspots))
	known := make(map[string]int, len(sc.Hotspots))
	for i, h := range sc.Hotspots {
		d, err := parseDemand(h.ID, "demand", h.Demand)
		if err != nil {
			return nil, err
		}
		if h.Total != nil {
			var sum int64
			for _, v := range d {
				sum += v
			}
			if sum != *h.Total {
				return nil, &core.ValidationError{Entity: "hotspot", ID: h.ID, Field: "total",
					Reason: fmt.Sprintf("declared %d but genders sum to %d", *h.Total, sum)}
			}
		}
		hotspots[i] = core.Hotspot{ID: h.ID, Location: core.Location{Lat: h.Lat, Lon: h.Lon}, Demand: d}
		hIDs[i] = h.ID
		known[h.ID] = i
	}

	if p != nil {
		for i := range hotspots {
			hotspots[i].Demand = [eligibility.NumGenders]int64{}
		}
		ids := make([]string, 0, len(p.Demand))
		for id := range p.Demand {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			i, ok := known[id]
			if !ok {
				return nil, &core.ValidationError{Entity: "period", ID: p.Name, Field: "demand." + id,
					Reason: "hotspot not declared in scenario"}
			}
			d, err := parseDemand(id, "period "+p.Name, p.Demand[id])
			if err != nil {
				return nil, err
			}
			hotspots[i].Demand = d
		}
	}

	shelters := make([]core.Shelter, len(sc.Shelters))
	sIDs := make([]string, len(sc.Shelters))
	for j, s := range sc.Shelters {
		des, err := eligibility.ParseDesignation(s.Designation)
		if err != nil {
			return nil, &core.ValidationError{Entity: "shelter", ID: s.ID, Field: "designation", Reason: err.Error()}
		}
		shelters[j] = core.Shelter{ID: s.ID, Location: core.Location{Lat: s.Lat, Lon: s.Lon},
			Capacity: s.Capacity, Designation: des}
		sIDs[j] = s.ID
	}

	m, err := distance.FromRows(hIDs, sIDs, sc.Distances)
	if err != nil {
		return nil, &core.ValidationError{Entity: "distance", Field: "table", Reason: err.Error()}
	}

	return core.NewInstance(hotspots, shelters, m)
}

// parseDemand converts gender labels; repeated genders (e.g. "f" and
// "women") are summed.
func parseDemand(id, field string, in Demand) ([eligibility.NumGenders]int64, error) {
	var out [eligibility.NumGenders]int64
	labels := make([]string, 0, len(in))
	for k := range in {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	for _, label := range labels {
		g, err := eligibility.ParseGender(label)
		if err != nil {
			return out, &core.ValidationError{Entity: "hotspot", ID: id, Field: field, Reason: err.Error()}
		}
		out[g] += in[label]
	}

	return out, nil
}
