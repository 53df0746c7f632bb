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
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ResampleVerticalProfiles conservatively resamples the given profiles,
// which may each have their own height levels, onto a single set of
// levels and returns them as one profile group. If levels is empty, the
// unified scale is the sorted union of all distinct heights found in the
// inputs; otherwise the profiles are resampled onto the given levels,
// which must be sorted in increasing order.
//
// The profile order in the result matches the order of the arguments.
// The inputs are never modified, and the result meets all the invariants
// checked by CheckValidVerticalProfile whenever the inputs do.
func ResampleVerticalProfiles(levels []float64, profiles ...Profiler) (*VerticalProfiles, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("emisprof: resampling vertical profiles: no profiles given")
	}
	if len(levels) == 0 {
		levels = unionLevels(profiles)
	} else {
		l := make([]float64, len(levels))
		copy(l, levels)
		levels = l
	}

	n := 0
	for _, p := range profiles {
		n += p.ProfileCount()
	}
	o := mat.NewDense(n, len(levels), nil)
	row := 0
	for _, p := range profiles {
		w, err := InterpolationWeights(p.Levels(), levels)
		if err != nil {
			return nil, err
		}
		for i := 0; i < p.ProfileCount(); i++ {
			r := p.Ratio(i)
			var v mat.VecDense
			v.MulVec(w, mat.NewVecDense(len(r), r))
			newRatios := make([]float64, len(levels))
			for k := range newRatios {
				newRatios[k] = v.AtVec(k)
			}
			o.SetRow(row, newRatios)
			row++
		}
	}
	return &VerticalProfiles{Ratios: o, Height: levels}, nil
}

// unionLevels returns the sorted union of the distinct height levels of
// the given profiles.
func unionLevels(profiles []Profiler) []float64 {
	var all []float64
	for _, p := range profiles {
		all = append(all, p.Levels()...)
	}
	sort.Float64s(all)
	var o []float64
	for i, v := range all {
		if i == 0 || v != all[i-1] {
			o = append(o, v)
		}
	}
	return o
}
