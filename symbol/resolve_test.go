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

package symbol

import (
	"errors"
	"testing"
)

func symbolSet() map[int]*Symbol {
	return map[int]*Symbol{
		1: {ID: 1, Number: "101", Name: "dot", Payload: &PointSymbol{}},
		2: {ID: 2, Number: "102", Name: "path", Payload: &LineSymbol{Width: 0.35}},
	}
}

func TestResolveOK(t *testing.T) {
	symbols := symbolSet()
	symbols[3] = &Symbol{
		ID:     3,
		Number: "103",
		Payload: &LineSymbol{
			Width:        0.25,
			Mid:          &MidSymbol{SymbolID: 1, PerSpot: 1, Spacing: 2},
			DashSymbolID: 1,
		},
	}
	symbols[4] = &Symbol{
		ID:     4,
		Number: "104",
		Payload: &AreaSymbol{
			Fills: []Fill{
				{Kind: FillHatch, SymbolID: 2, Spacing: 1.5},
				{Kind: FillPattern, SymbolID: 1, Spacing: 3, ColumnSpacing: 3},
			},
		},
	}
	symbols[5] = &Symbol{
		ID:     5,
		Number: "105",
		Payload: &CombinedSymbol{
			Parts: []CombinedPart{
				{SymbolID: 2},
				{Private: &Symbol{Number: "105.1", Payload: &LineSymbol{Width: 0.18, StartSymbolID: 1}}},
			},
		},
	}

	if err := Resolve(symbols); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveMissing(t *testing.T) {
	symbols := symbolSet()
	symbols[3] = &Symbol{
		ID:      3,
		Payload: &LineSymbol{EndSymbolID: 99},
	}

	err := Resolve(symbols)
	var dangling *DanglingRefError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingRefError, got %v", err)
	}
	if dangling.RefID != 99 || dangling.Want != Point || dangling.Got != 0 {
		t.Errorf("wrong error details: %v", dangling)
	}
}

func TestResolveWrongKind(t *testing.T) {
	symbols := symbolSet()
	// hatch fills must reference line symbols, not point symbols
	symbols[3] = &Symbol{
		ID: 3,
		Payload: &AreaSymbol{
			Fills: []Fill{{Kind: FillHatch, SymbolID: 1, Spacing: 1}},
		},
	}

	err := Resolve(symbols)
	var dangling *DanglingRefError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingRefError, got %v", err)
	}
	if dangling.Want != Line || dangling.Got != Point {
		t.Errorf("wrong error details: %v", dangling)
	}
}

func TestResolveEmptyCombined(t *testing.T) {
	symbols := symbolSet()
	symbols[3] = &Symbol{ID: 3, Payload: &CombinedSymbol{}}

	if err := Resolve(symbols); err == nil {
		t.Error("expected error for combined symbol without parts")
	}
}
