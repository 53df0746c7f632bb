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

// Package profutil provides utilities for loading vertical emission
// profiles based on configuration information.
package profutil

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/emisprof"
)

// ProfileConfig holds vertical emission profile configuration
// information.
type ProfileConfig struct {
	// VerticalProfileFiles lists CSV files containing vertical emission
	// profiles in the format accepted by emisprof.ReadCSV. The file
	// names can include environment variables.
	// The format is map[sector name][list of files].
	VerticalProfileFiles map[string][]string

	// SpecifiedLevels optionally gives the height levels [m] that all
	// profiles should be resampled to, sorted in increasing order. If
	// it is empty, each sector uses the union of the levels found in
	// its files.
	SpecifiedLevels []float64

	loadCacheOnce sync.Once
	loadCache     *requestcache.Cache
}

// profileFile holds the contents of one parsed profile file.
type profileFile struct {
	profiles *emisprof.VerticalProfiles
	keys     []emisprof.ProfileKey
}

// loadFile loads and parses a profile file, utilizing a cache to avoid
// parsing the same file more than once.
func (c *ProfileConfig) loadFile(filename string) (*profileFile, error) {
	c.loadCacheOnce.Do(func() {
		c.loadCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			filename := req.(string)
			f, err := os.Open(filename)
			if err != nil {
				return nil, fmt.Errorf("profutil: opening profile file: %v", err)
			}
			defer f.Close()
			profiles, keys, err := emisprof.ReadCSV(f)
			if err != nil {
				return nil, err
			}
			return &profileFile{profiles: profiles, keys: keys}, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	r := c.loadCache.NewRequest(context.Background(), filename, filename)
	fI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return fI.(*profileFile), nil
}

// ReadProfiles reads in the configured vertical profile files and
// resamples each sector's profiles onto a single set of height levels.
// The returned profile groups and profile keys are keyed by sector
// name; the keys of each sector follow its file and row order.
func (c *ProfileConfig) ReadProfiles() (map[string]*emisprof.VerticalProfiles, map[string][]emisprof.ProfileKey, error) {
	profiles := make(map[string]*emisprof.VerticalProfiles)
	keys := make(map[string][]emisprof.ProfileKey)
	for sector, files := range c.VerticalProfileFiles {
		var sectorProfiles []emisprof.Profiler
		var sectorKeys []emisprof.ProfileKey
		for _, file := range files {
			pf, err := c.loadFile(os.ExpandEnv(file))
			if err != nil {
				return nil, nil, fmt.Errorf("profutil: reading profiles for sector %s: %v", sector, err)
			}
			if err := emisprof.CheckValidVerticalProfile(pf.profiles); err != nil {
				return nil, nil, fmt.Errorf("profutil: reading profiles for sector %s from %s: %v", sector, file, err)
			}
			sectorProfiles = append(sectorProfiles, pf.profiles)
			sectorKeys = append(sectorKeys, pf.keys...)
		}
		if len(sectorProfiles) == 0 {
			continue
		}
		resampled, err := emisprof.ResampleVerticalProfiles(c.SpecifiedLevels, sectorProfiles...)
		if err != nil {
			return nil, nil, fmt.Errorf("profutil: resampling profiles for sector %s: %v", sector, err)
		}
		profiles[sector] = resampled
		keys[sector] = sectorKeys
	}
	return profiles, keys, nil
}
