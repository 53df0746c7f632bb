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

package profutil

import (
	"os"
	"reflect"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/emisprof"
	"gonum.org/v1/gonum/floats"
)

func TestReadProfiles(t *testing.T) {
	type config struct {
		Profiles ProfileConfig
	}
	r, err := os.Open("testdata/example_config.toml")
	if err != nil {
		t.Fatal(err)
	}

	c := new(config)

	// Read the configuration file into the configuration variable.
	if _, err = toml.DecodeReader(r, c); err != nil {
		t.Fatal(err)
	}

	profiles, keys, err := c.Profiles.ReadProfiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("sectors: have %d, want 2", len(profiles))
	}

	wantLevels := []float64{50, 90, 200}
	for sector, p := range profiles {
		if !reflect.DeepEqual(p.Height, wantLevels) {
			t.Errorf("%s heights: have %v, want %v", sector, p.Height, wantLevels)
		}
		if err := emisprof.CheckValidVerticalProfile(p); err != nil {
			t.Errorf("%s: %v", sector, err)
		}
	}

	power := profiles["power"]
	if power.NProfiles() != 2 {
		t.Fatalf("power profiles: have %d, want 2", power.NProfiles())
	}
	wantPower := [][]float64{
		{0.25 * 30. / 72., 0.25 * 40. / 72., 0.25*2./72. + 0.75},
		{0.1 + 0.4*30./72., 0.4 * 40. / 72., 0.4*2./72. + 0.5},
	}
	for i, want := range wantPower {
		if have := power.Ratio(i); !floats.EqualApprox(have, want, 1.e-12) {
			t.Errorf("power profile %d: have %v, want %v", i, have, want)
		}
	}
	wantPowerKeys := []emisprof.ProfileKey{
		{Category: "Public_Power", Substance: "CO2"},
		{Category: "Public_Power", Substance: "CH4"},
	}
	if !reflect.DeepEqual(keys["power"], wantPowerKeys) {
		t.Errorf("power keys: have %v, want %v", keys["power"], wantPowerKeys)
	}

	surface := profiles["surface"]
	if surface.NProfiles() != 2 {
		t.Fatalf("surface profiles: have %d, want 2", surface.NProfiles())
	}
	wantSurface := [][]float64{
		{0.9 + 0.1*3./7., 0.1 * 4. / 7., 0}, // Traffic
		{0.75, 0.2, 0.05},                   // Heating
	}
	for i, want := range wantSurface {
		if have := surface.Ratio(i); !floats.EqualApprox(have, want, 1.e-12) {
			t.Errorf("surface profile %d: have %v, want %v", i, have, want)
		}
	}
	wantSurfaceKeys := []emisprof.ProfileKey{
		{Category: "Traffic"},
		{Category: "Heating"},
	}
	if !reflect.DeepEqual(keys["surface"], wantSurfaceKeys) {
		t.Errorf("surface keys: have %v, want %v", keys["surface"], wantSurfaceKeys)
	}
}

func TestReadProfiles_missingFile(t *testing.T) {
	c := &ProfileConfig{
		VerticalProfileFiles: map[string][]string{
			"power": {"testdata/no_such_file.csv"},
		},
	}
	if _, _, err := c.ReadProfiles(); err == nil {
		t.Errorf("reading a missing file: have nil error")
	}
}
