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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyLevels happens when an empty height level sequence is given
// to InterpolationWeights.
var ErrEmptyLevels = errors.New("emisprof: empty height level sequence")

// InterpolationWeights returns the matrix of overlap weights between two
// sets of layer top heights, each sorted in increasing order. The result
// has one row per level in `to` and one column per level in `from`, and
// multiplying it with a ratio vector defined on `from` gives the ratio
// vector on `to` that describes the same vertical distribution
// integrated over the new layers.
//
// The weights are conservative: total mass is preserved exactly even
// when layer boundaries do not line up, with any mass above the top
// level of `to` folded into its uppermost layer. No shape within a
// layer is assumed, so the result is piecewise constant rather than
// smooth; callers wanting shape-aware interpolation should resample at
// finer-than-native resolution deliberately.
func InterpolationWeights(from, to []float64) (*mat.Dense, error) {
	if len(from) == 0 || len(to) == 0 {
		return nil, fmt.Errorf("%w: from has %d levels and to has %d levels",
			ErrEmptyLevels, len(from), len(to))
	}

	// Walk the two sets of layer boundaries simultaneously, attributing
	// the length of each overlap to the current (to, from) layer pair.
	// Both partitions start at the ground (height 0).
	w := mat.NewDense(len(to), len(from), nil)
	i, j := 0, 0
	last := 0.
	for i < len(from) && j < len(to) {
		f := from[i]
		t := to[j]
		if f <= t {
			w.Set(j, i, f-last)
			i++
			last = f
		} else {
			w.Set(j, i, t-last)
			j++
			last = t
		}
	}

	if j == len(to) {
		// Mass above the top level of `to` goes into its uppermost layer.
		for ; i < len(from); i++ {
			w.Set(len(to)-1, i, w.At(len(to)-1, i)+from[i]-last)
			last = from[i]
		}
	}
	// If `from` ran out first instead, the remaining `to` layers are
	// above the input's coverage and keep zero weight.

	// Normalize each column by its total attributed length, so that a
	// full input layer redistributes to full mass.
	for i := 0; i < len(from); i++ {
		col := mat.Col(nil, i, w)
		sum := floats.Sum(col)
		for j, v := range col {
			w.Set(j, i, v/sum)
		}
	}
	return w, nil
}
