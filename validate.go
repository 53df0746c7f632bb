/*
Copyright © 2023 the emisprof authors.
This file is part of emisprof.

emisprof is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

emisprof is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with emisprof.  If not, see <http://www.gnu.org/licenses/>.*/

package emisprof

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedProfile happens when a vertical profile violates one of
// the invariants checked by CheckValidVerticalProfile.
var ErrMalformedProfile = errors.New("emisprof: malformed vertical profile")

// ratioSumTolerance is the allowed deviation from 1 for the ratio sums
// of a profile group. Group rows are usually the result of floating
// point arithmetic, so exact equality is not required for them.
const ratioSumTolerance = 1.e-8

// CheckValidVerticalProfile checks that p meets the profile invariants:
//
//   - heights must be strictly positive;
//   - heights must be strictly increasing;
//   - ratios must all be >= 0;
//   - the ratios of each profile must sum to 1;
//   - ratios and heights must have matching lengths;
//   - neither ratios nor heights may contain NaN values.
//
// It returns an error wrapping ErrMalformedProfile describing the first
// violated invariant, or nil if p is valid. It never modifies p.
func CheckValidVerticalProfile(p Profiler) error {
	switch pp := p.(type) {
	case *VerticalProfile:
		if len(pp.Ratios) != len(pp.Height) {
			return fmt.Errorf("%w: %d ratios for %d height levels",
				ErrMalformedProfile, len(pp.Ratios), len(pp.Height))
		}
		if err := checkHeights(pp.Height); err != nil {
			return err
		}
		// A single profile is expected to hold the ratios as they were
		// specified, so its sum must be exactly 1.
		return checkRatios(pp.Ratios, 0, 0)
	case *VerticalProfiles:
		n, m := pp.Ratios.Dims()
		if m != len(pp.Height) {
			return fmt.Errorf("%w: %d ratio columns for %d height levels",
				ErrMalformedProfile, m, len(pp.Height))
		}
		if err := checkHeights(pp.Height); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := checkRatios(pp.Ratio(i), i, ratioSumTolerance); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported profile type %T", ErrMalformedProfile, p)
	}
}

func checkHeights(h []float64) error {
	for i, v := range h {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: height level %d is NaN", ErrMalformedProfile, i)
		}
		if v <= 0 {
			return fmt.Errorf("%w: height level %d is %g m but must be positive",
				ErrMalformedProfile, i, v)
		}
		if i > 0 && v <= h[i-1] {
			return fmt.Errorf("%w: height levels must be strictly increasing but level %d (%g m) is not above level %d (%g m)",
				ErrMalformedProfile, i, v, i-1, h[i-1])
		}
	}
	return nil
}

func checkRatios(r []float64, row int, tolerance float64) error {
	sum := 0.
	for i, v := range r {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: ratio %d of profile %d is NaN",
				ErrMalformedProfile, i, row)
		}
		if v < 0 {
			return fmt.Errorf("%w: ratio %d of profile %d is %g but must not be negative",
				ErrMalformedProfile, i, row, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > tolerance {
		return fmt.Errorf("%w: ratios of profile %d sum to %g instead of 1",
			ErrMalformedProfile, row, sum)
	}
	return nil
}
