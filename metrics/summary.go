// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/shelterflow/eligibility"
)

// ErrNoTrials is returned by Summarize for an empty input.
var ErrNoTrials = errors.New("metrics: no trials to summarize")

// Stat describes one figure across trials. N counts the trials where the
// figure is defined; when N is 0 the other fields are zero.
type Stat struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"` // unbiased; 0 when N < 2
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// GenderSummary is the per-gender part of a Summary.
type GenderSummary struct {
	Unsheltered   Stat `json:"unsheltered"`
	TotalDistance Stat `json:"total_distance"`
	MeanDistance  Stat `json:"mean_distance"`
}

// Summary aggregates repeated trials.
type Summary struct {
	Trials        int                                   `json:"trials"`
	Unsheltered   Stat                                  `json:"unsheltered"`
	TotalDistance Stat                                  `json:"total_distance"`
	MeanDistance  Stat                                  `json:"mean_distance"`
	ByGender      [eligibility.NumGenders]GenderSummary `json:"by_gender"`
}

// Summarize folds per-trial metrics into mean, variance and range.
// Mean distances enter only from trials where they are defined.
func Summarize(trials []Metrics) (Summary, error) {
	if len(trials) == 0 {
		return Summary{}, ErrNoTrials
	}

	var (
		n     = len(trials)
		unsh  = make([]float64, 0, n)
		total = make([]float64, 0, n)
		means = make([]float64, 0, n)
	)
	for _, m := range trials {
		unsh = append(unsh, float64(m.Unsheltered))
		total = append(total, m.TotalDistance)
		if m.MeanDistance != nil {
			means = append(means, *m.MeanDistance)
		}
	}

	s := Summary{
		Trials:        n,
		Unsheltered:   describe(unsh),
		TotalDistance: describe(total),
		MeanDistance:  describe(means),
	}
	for _, g := range eligibility.Genders {
		unsh, total, means = unsh[:0], total[:0], means[:0]
		for _, m := range trials {
			gm := m.ByGender[g]
			unsh = append(unsh, float64(gm.Unsheltered))
			total = append(total, gm.TotalDistance)
			if gm.MeanDistance != nil {
				means = append(means, *gm.MeanDistance)
			}
		}
		s.ByGender[g] = GenderSummary{
			Unsheltered:   describe(unsh),
			TotalDistance: describe(total),
			MeanDistance:  describe(means),
		}
	}

	return s, nil
}

// describe computes a Stat over xs.
func describe(xs []float64) Stat {
	if len(xs) == 0 {
		return Stat{}
	}
	st := Stat{N: len(xs), Min: floats.Min(xs), Max: floats.Max(xs)}
	if len(xs) == 1 {
		st.Mean = xs[0]
		return st
	}
	st.Mean, st.Variance = stat.MeanVariance(xs, nil)
	st.StdDev = stat.StdDev(xs, nil)

	return st
}
