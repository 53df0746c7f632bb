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

// Package emisprof manipulates vertical emission-distribution profiles
// for use in atmospheric modeling. A vertical profile describes the
// fraction of an emitted quantity that is released in each layer of the
// atmosphere, and the main operation provided here is conservative
// resampling of profiles onto new sets of height levels.
package emisprof

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Version gives the version of this library.
const Version = "0.1.0"

// ErrIncompatibleLevels happens when combining profile groups that do not
// share the same height levels. Profiles with different levels must be
// resampled onto a common scale before they can be combined.
var ErrIncompatibleLevels = errors.New("emisprof: incompatible height levels")

// heightTolerance is the allowed relative difference between height
// levels that are considered equal when combining profile groups.
const heightTolerance = 1.e-9

// A Profiler holds one or more vertical emission profiles that share a
// single set of height levels.
type Profiler interface {
	// Levels returns the layer top heights [m].
	Levels() []float64

	// ProfileCount returns the number of profiles held.
	ProfileCount() int

	// Ratio returns a copy of the emission ratios of profile i.
	Ratio(i int) []float64
}

// VerticalProfile describes how emissions from a single source category
// are distributed among atmospheric layers.
type VerticalProfile struct {
	// Ratios gives the proportion of emissions that is released in
	// each layer. The ratios must sum to 1.
	Ratios []float64

	// Height gives the top of each layer [m]. The first layer spans
	// from the ground to Height[0], the second layer from Height[0] to
	// Height[1], and so on. There are no emissions above the last height.
	Height []float64
}

// Levels returns the layer top heights [m].
func (p *VerticalProfile) Levels() []float64 { return p.Height }

// ProfileCount returns the number of profiles held by the receiver,
// which is always 1.
func (p *VerticalProfile) ProfileCount() int { return 1 }

// Ratio returns a copy of the emission ratios of profile i.
func (p *VerticalProfile) Ratio(i int) []float64 {
	if i != 0 {
		panic(fmt.Errorf("emisprof: profile index %d out of range for a single profile", i))
	}
	o := make([]float64, len(p.Ratios))
	copy(o, p.Ratios)
	return o
}

// VerticalProfiles holds a group of vertical emission profiles that
// share one set of height levels.
type VerticalProfiles struct {
	// Ratios holds one profile per row, so it has shape
	// (number of profiles, number of layers).
	Ratios *mat.Dense

	// Height gives the top of each layer [m], as in VerticalProfile.
	Height []float64
}

// newVerticalProfiles returns a zero-filled profile group holding n
// profiles on the given height levels.
func newVerticalProfiles(n int, height []float64) *VerticalProfiles {
	return &VerticalProfiles{
		Ratios: mat.NewDense(n, len(height), nil),
		Height: height,
	}
}

// NProfiles returns the number of profiles held by the receiver.
func (p *VerticalProfiles) NProfiles() int {
	r, _ := p.Ratios.Dims()
	return r
}

// Len returns the number of profiles held by the receiver.
func (p *VerticalProfiles) Len() int { return p.NProfiles() }

// Levels returns the layer top heights [m].
func (p *VerticalProfiles) Levels() []float64 { return p.Height }

// ProfileCount returns the number of profiles held by the receiver.
func (p *VerticalProfiles) ProfileCount() int { return p.NProfiles() }

// Ratio returns a copy of the emission ratios of profile i.
func (p *VerticalProfiles) Ratio(i int) []float64 {
	return mat.Row(nil, i, p.Ratios)
}

// Copy returns a deep copy of the receiver.
func (p *VerticalProfiles) Copy() *VerticalProfiles {
	h := make([]float64, len(p.Height))
	copy(h, p.Height)
	return &VerticalProfiles{
		Ratios: mat.DenseCopyOf(p.Ratios),
		Height: h,
	}
}

// Profile returns an owned copy of profile i. Modifying the result does
// not affect the receiver.
func (p *VerticalProfiles) Profile(i int) *VerticalProfile {
	h := make([]float64, len(p.Height))
	copy(h, p.Height)
	return &VerticalProfile{
		Ratios: mat.Row(nil, i, p.Ratios),
		Height: h,
	}
}

// Combine returns a new profile group holding the profiles of the
// receiver followed by the profiles of p2. It returns
// ErrIncompatibleLevels if the two groups do not share the same height
// levels; in that case they must first be resampled onto a common scale
// using ResampleVerticalProfiles.
func (p *VerticalProfiles) Combine(p2 *VerticalProfiles) (*VerticalProfiles, error) {
	if len(p.Height) != len(p2.Height) ||
		!floats.EqualApprox(p.Height, p2.Height, heightTolerance) {
		return nil, fmt.Errorf("%w: %v != %v", ErrIncompatibleLevels, p.Height, p2.Height)
	}
	n1, m := p.Ratios.Dims()
	n2, _ := p2.Ratios.Dims()
	o := mat.NewDense(n1+n2, m, nil)
	for i := 0; i < n1; i++ {
		o.SetRow(i, p.Ratio(i))
	}
	for i := 0; i < n2; i++ {
		o.SetRow(n1+i, p2.Ratio(i))
	}
	h := make([]float64, len(p.Height))
	copy(h, p.Height)
	return &VerticalProfiles{Ratios: o, Height: h}, nil
}

// CombineVerticalProfiles combines the given profile groups, which must
// all share the same height levels, into a single group. The profile
// order in the result matches the order of the arguments.
func CombineVerticalProfiles(profiles []*VerticalProfiles) (*VerticalProfiles, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("emisprof: combining vertical profiles: no profiles given")
	}
	o := profiles[0].Copy()
	for _, p := range profiles[1:] {
		var err error
		o, err = o.Combine(p)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}
