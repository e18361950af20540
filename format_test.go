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

package mapfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/symbol"

	_ "seehuhn.de/go/mapfile/obf"
	_ "seehuhn.de/go/mapfile/ocd"
	_ "seehuhn.de/go/mapfile/omap"
)

func dispatchMap(t *testing.T) *mapfile.Map {
	t.Helper()
	m := mapfile.New()
	black := &color.Color{Name: "black", Kind: color.CMYK, K: 1, Opacity: 1}
	if err := m.AddColor(black, 0); err != nil {
		t.Fatal(err)
	}
	dot := &symbol.Symbol{
		Number: "100", Name: "dot",
		Payload: &symbol.PointSymbol{
			Elements: []symbol.Element{{
				Kind:     symbol.ElementCircle,
				Color:    black,
				Diameter: 0.6,
				Filled:   true,
				Coords:   []vec.Vec2{{X: 0, Y: 0}},
			}},
		},
	}
	if err := m.AddSymbol(dot); err != nil {
		t.Fatal(err)
	}
	m.Parts[0].Objects = []*mapfile.Object{
		{SymbolID: dot.ID, Path: []mapfile.Coord{{X: 1000, Y: 2000}}},
	}
	return m
}

func TestDispatch(t *testing.T) {
	dir := t.TempDir()
	m := dispatchMap(t)

	for _, ext := range []string{".omap", ".obf", ".ocd"} {
		fname := filepath.Join(dir, "test"+ext)
		if _, err := mapfile.Save(fname, m); err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		m2, _, err := mapfile.Load(fname)
		if err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		if diff := cmp.Diff(m, m2); diff != "" {
			t.Errorf("%s: map changed (-want +got):\n%s", ext, diff)
		}
	}
}

// Load selects the format by file signature first; the extension is only a
// fallback.
func TestDispatchBySignature(t *testing.T) {
	dir := t.TempDir()
	m := dispatchMap(t)

	src := filepath.Join(dir, "test.obf")
	if _, err := mapfile.Save(src, m); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	disguised := filepath.Join(dir, "test.dat")
	if err := os.WriteFile(disguised, data, 0o666); err != nil {
		t.Fatal(err)
	}

	m2, _, err := mapfile.Load(disguised)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, m2); diff != "" {
		t.Errorf("map changed (-want +got):\n%s", diff)
	}
}

func TestDispatchUnknown(t *testing.T) {
	dir := t.TempDir()

	fname := filepath.Join(dir, "test.dat")
	if err := os.WriteFile(fname, []byte("just some text\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	_, _, err := mapfile.Load(fname)
	if !errors.Is(err, mapfile.ErrFormatNotRecognized) {
		t.Errorf("got %v, want ErrFormatNotRecognized", err)
	}

	if _, err := mapfile.Save(filepath.Join(dir, "test.xyz"), dispatchMap(t)); !errors.Is(err, mapfile.ErrFormatNotRecognized) {
		t.Errorf("got %v, want ErrFormatNotRecognized", err)
	}
}
