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
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"
)

func TestClone(t *testing.T) {
	orig := &Symbol{
		ID: 1, Number: "519", Name: "fence with posts",
		Payload: &CombinedSymbol{
			Parts: []CombinedPart{
				{SymbolID: 2},
				{Private: &Symbol{
					Number: "519.1",
					Payload: &LineSymbol{
						Width: 0.18,
						Dash:  &Dash{Length: 2, BreakLength: 0.5, GroupSize: 1},
						Mid:   &MidSymbol{SymbolID: 2, PerSpot: 1},
					},
				}},
			},
		},
	}
	dup := orig.Clone()
	if diff := cmp.Diff(orig, dup); diff != "" {
		t.Fatalf("clone differs from the original (-want +got):\n%s", diff)
	}

	private := dup.Payload.(*CombinedSymbol).Parts[1].Private.Payload.(*LineSymbol)
	private.Dash.Length = 7
	private.Mid.PerSpot = 3
	before := orig.Payload.(*CombinedSymbol).Parts[1].Private.Payload.(*LineSymbol)
	if before.Dash.Length != 2 || before.Mid.PerSpot != 1 {
		t.Error("the clone shares nested state with the original")
	}
}

func TestClonePayloads(t *testing.T) {
	point := &PointSymbol{
		Elements: []Element{
			{Kind: ElementLine, LineWidth: 0.18, Coords: []vec.Vec2{{X: -0.5}, {X: 0.5}}},
		},
	}
	dupPoint := point.Clone().(*PointSymbol)
	dupPoint.Elements[0].Coords[0].X = 99
	if point.Elements[0].Coords[0].X != -0.5 {
		t.Error("point clone shares element coordinates")
	}

	area := &AreaSymbol{
		Fills: []Fill{{Kind: FillHatch, SymbolID: 2, Spacing: 1.5}},
	}
	dupArea := area.Clone().(*AreaSymbol)
	dupArea.Fills[0].Spacing = 99
	if area.Fills[0].Spacing != 1.5 {
		t.Error("area clone shares its fill list")
	}

	text := &TextSymbol{
		FontFamily: "Arial", FontSize: 4.2,
		TabStops: []float64{10, 25.5},
	}
	dupText := text.Clone().(*TextSymbol)
	dupText.TabStops[0] = 99
	if text.TabStops[0] != 10 {
		t.Error("text clone shares its tab stops")
	}
}
