// seehuhn.de/go/mapfile - a library for reading and writing map files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the per-format policies of the converter, read from an
// optional TOML file.
type Config struct {
	OCD OCDConfig `toml:"ocd"`
}

// OCDConfig selects the import and export policies of the legacy binary
// format.
type OCDConfig struct {
	ImportSpotColors      bool `toml:"import-spot-colors"`
	RegistrationAsRegular bool `toml:"registration-as-regular"`
}

func defaultConfig() *Config {
	return &Config{
		OCD: OCDConfig{
			ImportSpotColors: true,
		},
	}
}

// loadConfig reads the named TOML file on top of the defaults.
func loadConfig(fname string) (*Config, error) {
	cfg := defaultConfig()
	if fname == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return cfg, nil
}
