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
	"strings"

	"github.com/ctessum/cdf"
)

// WriteNetCDF writes the profiles to rw as a NetCDF (version 3) file
// with dimensions (profile, level) and variables "height" and "ratios".
// If keys is not nil it must hold one entry per profile; the profile
// labels are then stored in the global "profiles" attribute in row
// order.
func (p *VerticalProfiles) WriteNetCDF(rw cdf.ReaderWriterAt, keys []ProfileKey) error {
	if keys != nil && len(keys) != p.NProfiles() {
		return fmt.Errorf("emisprof: writing NetCDF: have %d profile keys for %d profiles",
			len(keys), p.NProfiles())
	}

	h := cdf.NewHeader([]string{"profile", "level"}, []int{p.NProfiles(), len(p.Height)})
	h.AddVariable("height", []string{"level"}, []float64{0})
	h.AddAttribute("height", "description", "layer top height; the first layer spans from the ground to the first height")
	h.AddAttribute("height", "units", "m")
	h.AddVariable("ratios", []string{"profile", "level"}, []float64{0})
	h.AddAttribute("ratios", "description", "fraction of emissions released in each layer")
	h.AddAttribute("ratios", "units", "-")
	if keys != nil {
		labels := make([]string, len(keys))
		for i, k := range keys {
			labels[i] = k.String()
		}
		h.AddAttribute("", "profiles", strings.Join(labels, ";"))
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("emisprof: writing NetCDF header: %v", err)
	}

	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("emisprof: creating NetCDF file: %v", err)
	}
	hw := f.Writer("height", []int{0}, []int{len(p.Height)})
	if _, err := hw.Write(p.Height); err != nil {
		return fmt.Errorf("emisprof: writing NetCDF heights: %v", err)
	}
	ratios := make([]float64, 0, p.NProfiles()*len(p.Height))
	for i := 0; i < p.NProfiles(); i++ {
		ratios = append(ratios, p.Ratio(i)...)
	}
	rw2 := f.Writer("ratios", []int{0, 0}, []int{p.NProfiles(), len(p.Height)})
	if _, err := rw2.Write(ratios); err != nil {
		return fmt.Errorf("emisprof: writing NetCDF ratios: %v", err)
	}
	return nil
}
