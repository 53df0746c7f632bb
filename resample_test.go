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
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestResampleVerticalProfiles(t *testing.T) {
	p := &VerticalProfile{Ratios: []float64{0.4, 0.6}, Height: []float64{20, 90}}
	o, err := ResampleVerticalProfiles([]float64{50, 90}, p)
	if err != nil {
		t.Fatal(err)
	}

	// All of the first input layer's mass (0.4) ends up below 50 m,
	// along with 3/7 of the second layer's.
	want := []float64{0.4 + 0.6*3./7., 0.6 * 4. / 7.}
	have := o.Ratio(0)
	if !floats.EqualApprox(have, want, 1.e-12) {
		t.Errorf("resampled ratios: have %v, want %v", have, want)
	}
	if sum := floats.Sum(have); math.Abs(sum-1) > 1.e-9 {
		t.Errorf("resampled ratios sum to %g, want 1", sum)
	}
	if err := CheckValidVerticalProfile(o); err != nil {
		t.Error(err)
	}
}

func TestResampleVerticalProfiles_identity(t *testing.T) {
	p := &VerticalProfile{
		Ratios: []float64{0, 0.0025, 0.51, 0.453, 0.0325, 0.002},
		Height: []float64{20, 92, 184, 324, 522, 781},
	}
	o, err := ResampleVerticalProfiles(p.Height, p)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(o.Ratio(0), p.Ratios, 1.e-12) {
		t.Errorf("identity resampling: have %v, want %v", o.Ratio(0), p.Ratios)
	}
}

func TestResampleVerticalProfiles_refineThenCoarsen(t *testing.T) {
	// Resampling onto a strict refinement of the original levels and
	// back must reproduce the original ratios.
	p := &VerticalProfile{Ratios: []float64{0.4, 0.6}, Height: []float64{20, 90}}
	fine, err := ResampleVerticalProfiles([]float64{10, 20, 50, 90}, p)
	if err != nil {
		t.Fatal(err)
	}
	coarse, err := ResampleVerticalProfiles([]float64{20, 90}, fine)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(coarse.Ratio(0), p.Ratios, 1.e-12) {
		t.Errorf("refine then coarsen: have %v, want %v", coarse.Ratio(0), p.Ratios)
	}
}

func TestResampleVerticalProfiles_unionLevels(t *testing.T) {
	p1 := &VerticalProfile{Ratios: []float64{0.4, 0.6}, Height: []float64{20, 90}}
	p2 := &VerticalProfile{Ratios: []float64{0.3, 0.7}, Height: []float64{50, 100}}
	o, err := ResampleVerticalProfiles(nil, p1, p2)
	if err != nil {
		t.Fatal(err)
	}
	wantLevels := []float64{20, 50, 90, 100}
	if !reflect.DeepEqual(o.Height, wantLevels) {
		t.Errorf("union levels: have %v, want %v", o.Height, wantLevels)
	}
	if o.NProfiles() != 2 {
		t.Errorf("profiles: have %d, want 2", o.NProfiles())
	}
	for i := 0; i < o.NProfiles(); i++ {
		if sum := floats.Sum(o.Ratio(i)); math.Abs(sum-1) > 1.e-9 {
			t.Errorf("profile %d sums to %g, want 1", i, sum)
		}
	}
	if err := CheckValidVerticalProfile(o); err != nil {
		t.Error(err)
	}
}

func TestResampleVerticalProfiles_order(t *testing.T) {
	group := &VerticalProfiles{
		Ratios: mat.NewDense(2, 2, []float64{
			1, 0,
			0, 1,
		}),
		Height: []float64{20, 90},
	}
	single := &VerticalProfile{Ratios: []float64{0.5, 0.5}, Height: []float64{20, 90}}

	o, err := ResampleVerticalProfiles([]float64{20, 90}, group, single)
	if err != nil {
		t.Fatal(err)
	}
	if o.NProfiles() != 3 {
		t.Fatalf("profiles: have %d, want 3", o.NProfiles())
	}
	wantRows := [][]float64{{1, 0}, {0, 1}, {0.5, 0.5}}
	for i, want := range wantRows {
		if !floats.EqualApprox(o.Ratio(i), want, 1.e-12) {
			t.Errorf("row %d: have %v, want %v", i, o.Ratio(i), want)
		}
	}
}

func TestResampleVerticalProfiles_inputsUnchanged(t *testing.T) {
	p := &VerticalProfile{Ratios: []float64{0.4, 0.6}, Height: []float64{20, 90}}
	if _, err := ResampleVerticalProfiles([]float64{50, 90, 200}, p); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p.Ratios, []float64{0.4, 0.6}) ||
		!reflect.DeepEqual(p.Height, []float64{20, 90}) {
		t.Errorf("resampling changed its input: %v", p)
	}
}

func TestResampleVerticalProfiles_massConservation(t *testing.T) {
	p := &VerticalProfile{
		Ratios: []float64{0, 0.0025, 0.51, 0.453, 0.0325, 0.002},
		Height: []float64{20, 92, 184, 324, 522, 781},
	}
	targets := [][]float64{
		{50},
		{10, 700},
		{20, 92, 184, 324, 522, 781},
		{1, 2, 3, 4, 5, 2000},
		{30.5, 100.1, 200.7, 1500},
	}
	for _, levels := range targets {
		o, err := ResampleVerticalProfiles(levels, p)
		if err != nil {
			t.Fatal(err)
		}
		if sum := floats.Sum(o.Ratio(0)); math.Abs(sum-1) > 1.e-9 {
			t.Errorf("levels %v: ratios sum to %g, want 1", levels, sum)
		}
	}
}

func TestResampleVerticalProfiles_noProfiles(t *testing.T) {
	if _, err := ResampleVerticalProfiles([]float64{20, 90}); err == nil {
		t.Errorf("resampling no profiles: have nil error")
	}
}
