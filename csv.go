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
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// A ProfileKey identifies which source category, and optionally which
// emitted substance, a profile applies to.
type ProfileKey struct {
	Category  string
	Substance string
}

func (k ProfileKey) String() string {
	if k.Substance == "" {
		return k.Category
	}
	return k.Category + "/" + k.Substance
}

// ReadCSV reads vertical profiles from a CSV table in the format:
//
//	Category,Substance,20m,92m,184m,324m,522m,781m,1106m
//	Public_Power,CO2,0,0,0.0025,0.51,0.453,0.0325,0.002
//	Industry,CO2,0.06,0.16,0.75,0.03,0,0,0
//
// Columns whose name is a number followed by a length unit ("m" or
// "km") hold the emission ratios for the layer topping out at that
// height; they may appear in any order and are sorted by increasing
// height before the profile group is built. The first remaining column
// gives the source category and a column named "Substance", if present,
// gives the emitted substance. One ProfileKey per profile is returned
// alongside the profiles, in row order.
func ReadCSV(r io.Reader) (*VerticalProfiles, []ProfileKey, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	lines, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("emisprof: reading profile CSV: %v", err)
	}
	if len(lines) < 2 {
		return nil, nil, fmt.Errorf("emisprof: reading profile CSV: need a header line and at least one profile")
	}

	type heightColumn struct {
		height float64
		column int
	}
	var heightCols []heightColumn
	catCol, subCol := -1, -1
	for i, name := range lines[0] {
		if h, ok := parseHeight(name); ok {
			heightCols = append(heightCols, heightColumn{height: h, column: i})
		} else if strings.EqualFold(strings.TrimSpace(name), "substance") {
			subCol = i
		} else if catCol == -1 {
			catCol = i
		}
	}
	if len(heightCols) == 0 {
		return nil, nil, fmt.Errorf("emisprof: reading profile CSV: no height level columns in header %v", lines[0])
	}
	if catCol == -1 {
		return nil, nil, fmt.Errorf("emisprof: reading profile CSV: no category column in header %v", lines[0])
	}
	sort.Slice(heightCols, func(i, j int) bool {
		return heightCols[i].height < heightCols[j].height
	})

	height := make([]float64, len(heightCols))
	for i, hc := range heightCols {
		height[i] = hc.height
	}
	profiles := newVerticalProfiles(len(lines)-1, height)
	keys := make([]ProfileKey, len(lines)-1)
	for i, line := range lines[1:] {
		for j, hc := range heightCols {
			v, err := strconv.ParseFloat(strings.TrimSpace(line[hc.column]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("emisprof: reading profile CSV line %d: %v", i+2, err)
			}
			profiles.Ratios.Set(i, j, v)
		}
		keys[i] = ProfileKey{Category: strings.TrimSpace(line[catCol])}
		if subCol != -1 {
			keys[i].Substance = strings.TrimSpace(line[subCol])
		}
	}
	return profiles, keys, nil
}

// WriteCSV writes the profiles to w in the format accepted by ReadCSV.
// keys must hold one entry per profile; substance columns are only
// written if at least one key has a substance.
func (p *VerticalProfiles) WriteCSV(w io.Writer, keys []ProfileKey) error {
	if len(keys) != p.NProfiles() {
		return fmt.Errorf("emisprof: writing profile CSV: have %d profile keys for %d profiles",
			len(keys), p.NProfiles())
	}
	substances := false
	for _, k := range keys {
		if k.Substance != "" {
			substances = true
			break
		}
	}

	header := []string{"Category"}
	if substances {
		header = append(header, "Substance")
	}
	for _, h := range p.Height {
		header = append(header, strconv.FormatFloat(h, 'g', -1, 64)+"m")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("emisprof: writing profile CSV: %v", err)
	}
	for i := 0; i < p.NProfiles(); i++ {
		line := []string{keys[i].Category}
		if substances {
			line = append(line, keys[i].Substance)
		}
		for _, v := range p.Ratio(i) {
			line = append(line, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("emisprof: writing profile CSV: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("emisprof: writing profile CSV: %v", err)
	}
	return nil
}

// parseHeight interprets a column name such as "92m" or "1.2km" as a
// layer top height in meters.
func parseHeight(name string) (float64, bool) {
	name = strings.TrimSpace(name)
	factor := 1.
	switch {
	case strings.HasSuffix(name, "km"):
		name = strings.TrimSuffix(name, "km")
		factor = 1000
	case strings.HasSuffix(name, "m"):
		name = strings.TrimSuffix(name, "m")
	default:
		return 0, false
	}
	v, err := strconv.ParseFloat(name, 64)
	if err != nil {
		return 0, false
	}
	return v * factor, true
}
