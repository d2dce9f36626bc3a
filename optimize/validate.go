// SPDX-License-Identifier: MIT

package optimize

import (
	"math"

	"github.com/katalvlaran/shelterflow/core"
)

// validate checks the instance pointer and option ranges.
//
// Complexity: O(1).
func validate(inst *core.Instance, opts Options) error {
	if inst == nil {
		return ErrNilInstance
	}
	// Rounding to the nearest integer is only unambiguous below one half.
	if math.IsNaN(opts.Epsilon) || opts.Epsilon <= 0 || opts.Epsilon >= 0.5 {
		return ErrBadEpsilon
	}
	if opts.TimeLimit < 0 {
		return ErrBadTimeLimit
	}
	if opts.MaxIterations < 0 {
		return ErrBadIterations
	}
	switch opts.Backend {
	case BackendNetwork, BackendSimplex:
	default:
		return ErrUnsupportedBackend
	}

	return nil
}

// roundIntegral rounds v to the nearest integer, failing with ErrFractional
// when v lies farther than eps from it.
func roundIntegral(v, eps float64) (int64, error) {
	r := math.Round(v)
	if math.Abs(v-r) > eps {
		return 0, ErrFractional
	}

	return int64(r), nil
}
