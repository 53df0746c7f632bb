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

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// AllocateVertically distributes the gridded emissions in emis among the
// layers described by p, returning an array with shape
// (number of layers, number of grid cells). emis must be one-dimensional,
// with one element per grid cell.
func AllocateVertically(p *VerticalProfile, emis *sparse.SparseArray) (*sparse.DenseArray, error) {
	if len(emis.Shape) != 1 {
		return nil, fmt.Errorf("emisprof: allocating emissions vertically: emissions must be one-dimensional but have shape %v", emis.Shape)
	}
	o := sparse.ZerosDense(len(p.Ratios), emis.Shape[0])
	for _, i := range emis.Nonzero() {
		v := emis.Get1d(i)
		for l, r := range p.Ratios {
			o.Set(v*r, l, i)
		}
	}
	return o, nil
}

// LayerTotals splits the dimensioned emission total among the layers of
// p. The results have the same units as total.
func (p *VerticalProfile) LayerTotals(total *unit.Unit) []*unit.Unit {
	o := make([]*unit.Unit, len(p.Ratios))
	for i, r := range p.Ratios {
		o[i] = unit.Mul(total, unit.New(r, unit.Dimless))
	}
	return o
}
