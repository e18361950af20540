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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.OCD.ImportSpotColors)
	assert.False(t, cfg.OCD.RegistrationAsRegular)
}

func TestLoadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "mapconv.toml")
	err := os.WriteFile(fname, []byte(`
[ocd]
import-spot-colors = false
registration-as-regular = true
`), 0o666)
	require.NoError(t, err)

	cfg, err := loadConfig(fname)
	require.NoError(t, err)
	assert.False(t, cfg.OCD.ImportSpotColors)
	assert.True(t, cfg.OCD.RegistrationAsRegular)
}

func TestPartialConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "mapconv.toml")
	err := os.WriteFile(fname, []byte(`
[ocd]
registration-as-regular = true
`), 0o666)
	require.NoError(t, err)

	cfg, err := loadConfig(fname)
	require.NoError(t, err)
	assert.True(t, cfg.OCD.ImportSpotColors,
		"unset keys keep their defaults")
	assert.True(t, cfg.OCD.RegistrationAsRegular)
}

func TestMissingConfig(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "no-such-file.toml"))
	assert.Error(t, err)
}
