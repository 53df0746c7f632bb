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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/emisprof"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})

	// Options are the configuration options available to the commands.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "levels",
			usage: `
              levels gives the height levels [m] to resample the profiles to,
              sorted in increasing order. If it is empty, the union of the
              levels found in the input files is used.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{resampleCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path to the output file. A name ending in ".nc"
              selects NetCDF output; otherwise CSV is written.`,
			shorthand:  "o",
			defaultVal: "resampled.csv",
			flagsets:   []*pflag.FlagSet{resampleCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("EMISPROF")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(resampleCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("emisprof: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "emisprof",
	Short: "A processor for vertical emission-distribution profiles.",
	Long: `emisprof reads vertical emission-distribution profiles and
conservatively resamples them onto new sets of height levels.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format
'EMISPROF_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of emisprof.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("emisprof v%s\n", emisprof.Version)
	},
	DisableAutoGenTag: true,
}

var resampleCmd = &cobra.Command{
	Use:   "resample [profile files]",
	Short: "Resample vertical profiles onto a unified set of height levels.",
	Long: `resample reads the given CSV vertical profile files, resamples all
of the profiles they contain onto one set of height levels, and writes
the result to the output file. If no levels are given, the unified scale
is the union of all levels found in the inputs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("emisprof: no profile files given")
		}
		levels, err := parseLevels(Cfg.GetStringSlice("levels"))
		if err != nil {
			return err
		}
		return Resample(args, levels, Cfg.GetString("output"))
	},
	DisableAutoGenTag: true,
}

// Resample reads the profiles in the given files, resamples them onto
// levels (or onto the union of the input levels if levels is empty),
// and writes the result to outFile.
func Resample(files []string, levels []float64, outFile string) error {
	var profiles []emisprof.Profiler
	var keys []emisprof.ProfileKey
	for _, file := range files {
		f, err := os.Open(os.ExpandEnv(file))
		if err != nil {
			return fmt.Errorf("emisprof: opening profile file: %v", err)
		}
		p, k, err := emisprof.ReadCSV(f)
		f.Close()
		if err != nil {
			return err
		}
		if err := emisprof.CheckValidVerticalProfile(p); err != nil {
			return fmt.Errorf("emisprof: profile file %s: %v", file, err)
		}
		profiles = append(profiles, p)
		keys = append(keys, k...)
	}

	o, err := emisprof.ResampleVerticalProfiles(levels, profiles...)
	if err != nil {
		return err
	}
	if err := emisprof.CheckValidVerticalProfile(o); err != nil {
		return err
	}

	w, err := os.Create(os.ExpandEnv(outFile))
	if err != nil {
		return fmt.Errorf("emisprof: creating output file: %v", err)
	}
	defer w.Close()
	if strings.HasSuffix(outFile, ".nc") {
		err = o.WriteNetCDF(w, keys)
	} else {
		err = o.WriteCSV(w, keys)
	}
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"profiles": o.NProfiles(),
		"levels":   len(o.Height),
		"output":   outFile,
	}).Info("finished resampling vertical profiles")
	return nil
}

// parseLevels converts the height levels given on the command line to
// numbers.
func parseLevels(levels []string) ([]float64, error) {
	o := make([]float64, len(levels))
	for i, l := range levels {
		v, err := cast.ToFloat64E(l)
		if err != nil {
			return nil, fmt.Errorf("emisprof: parsing height level %q: %v", l, err)
		}
		o[i] = v
	}
	return o, nil
}
