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

package mapfile

import (
	"testing"

	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/symbol"
)

func TestColorLifecycle(t *testing.T) {
	m := New()

	black := &color.Color{Name: "black", Kind: color.CMYK, K: 1, Opacity: 1}
	brown := &color.Color{Name: "brown", Kind: color.Spot, Opacity: 1}
	if err := m.AddColor(black, 0); err != nil {
		t.Fatal(err)
	}
	if err := m.AddColor(brown, 0); err != nil {
		t.Fatal(err)
	}
	if m.Colors[0] != brown || m.Colors[1] != black {
		t.Fatal("wrong color order")
	}
	if black.Priority != 1 || brown.Priority != 0 {
		t.Error("priorities not renumbered")
	}

	sym := &symbol.Symbol{Number: "101", Payload: &symbol.LineSymbol{Color: black, Width: 0.35}}
	if err := m.AddSymbol(sym); err != nil {
		t.Fatal(err)
	}

	if err := m.DeleteColor(black.ID); err == nil {
		t.Error("deleting a referenced color must fail")
	}
	if err := m.DeleteColor(brown.ID); err != nil {
		t.Errorf("deleting an unused color failed: %v", err)
	}
	if black.Priority != 0 {
		t.Error("priorities not renumbered after delete")
	}
}

func TestRegistrationSingleton(t *testing.T) {
	m := New()
	if err := m.AddColor(color.NewRegistration(), 0); err != nil {
		t.Fatal(err)
	}
	if err := m.AddColor(color.NewRegistration(), 0); err == nil {
		t.Error("second registration color must be refused")
	}
}

func TestSymbolLifecycle(t *testing.T) {
	m := New()

	dot := &symbol.Symbol{Number: "101", Payload: &symbol.PointSymbol{}}
	if err := m.AddSymbol(dot); err != nil {
		t.Fatal(err)
	}
	line := &symbol.Symbol{
		Number:  "102",
		Payload: &symbol.LineSymbol{Width: 0.35, DashSymbolID: dot.ID},
	}
	if err := m.AddSymbol(line); err != nil {
		t.Fatal(err)
	}

	// dot is referenced by line
	if err := m.DeleteSymbol(dot.ID, false); err == nil {
		t.Error("deleting a referenced symbol must fail")
	}

	m.Parts[0].Objects = append(m.Parts[0].Objects,
		&Object{SymbolID: line.ID, Path: []Coord{{}, {X: 1000}}},
		&Object{SymbolID: line.ID, Path: []Coord{{}, {Y: 1000}}},
	)
	if err := m.DeleteSymbol(line.ID, false); err == nil {
		t.Error("deleting a symbol with objects must fail without cascade")
	}
	if err := m.DeleteSymbol(line.ID, true); err != nil {
		t.Fatal(err)
	}
	if len(m.Parts[0].Objects) != 0 {
		t.Error("cascade did not remove the objects")
	}

	if err := m.DeleteSymbol(dot.ID, false); err != nil {
		t.Errorf("deleting the now unused symbol failed: %v", err)
	}
}

func TestDuplicateSymbol(t *testing.T) {
	m := New()
	s := &symbol.Symbol{
		Number: "505", Name: "footpath",
		Payload: &symbol.LineSymbol{
			Width: 0.35,
			Dash:  &symbol.Dash{Length: 2, BreakLength: 0.5, GroupSize: 1},
		},
	}
	if err := m.AddSymbol(s); err != nil {
		t.Fatal(err)
	}
	dup, err := m.DuplicateSymbol(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if dup.ID == s.ID {
		t.Error("duplicate got the same ID")
	}
	if dup.Name != s.Name {
		t.Error("duplicate lost attributes")
	}

	// editing the copy must not change the original
	p := dup.Payload.(*symbol.LineSymbol)
	p.Width = 9.9
	p.Dash.Length = 7
	orig := s.Payload.(*symbol.LineSymbol)
	if orig.Width != 0.35 {
		t.Errorf("editing the duplicate changed the original: width = %g", orig.Width)
	}
	if orig.Dash.Length != 2 {
		t.Error("the duplicate shares its dash pattern with the original")
	}
}

func TestPartInvariant(t *testing.T) {
	m := New()
	if err := m.DeletePart(m.Parts[0].Name); err == nil {
		t.Error("deleting the last part must fail")
	}
	if _, err := m.AddPart(m.Parts[0].Name); err == nil {
		t.Error("duplicate part name must be refused")
	}
	if _, err := m.AddPart("second"); err != nil {
		t.Fatal(err)
	}
	if err := m.DeletePart("second"); err != nil {
		t.Error(err)
	}
}

func TestValidate(t *testing.T) {
	m := New()
	black := &color.Color{Name: "black", Kind: color.CMYK, K: 1, Opacity: 1}
	if err := m.AddColor(black, 0); err != nil {
		t.Fatal(err)
	}
	s := &symbol.Symbol{Number: "101", Payload: &symbol.PointSymbol{}}
	if err := m.AddSymbol(s); err != nil {
		t.Fatal(err)
	}
	m.Parts[0].Objects = append(m.Parts[0].Objects, &Object{SymbolID: s.ID, Path: []Coord{{}}})
	if err := m.Validate(); err != nil {
		t.Errorf("valid map rejected: %v", err)
	}

	m.Parts[0].Objects = append(m.Parts[0].Objects, &Object{SymbolID: 999, Path: []Coord{{}}})
	if err := m.Validate(); err == nil {
		t.Error("dangling object reference not detected")
	}
}
