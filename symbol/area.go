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
	"strconv"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mapfile/color"
)

// FillKind distinguishes the two kinds of structured area fills.
type FillKind int

const (
	// FillHatch fills the area with parallel lines drawn using a
	// referenced line symbol.
	FillHatch FillKind = iota + 1

	// FillPattern fills the area with a grid of copies of a referenced
	// point symbol.
	FillPattern
)

func (k FillKind) String() string {
	switch k {
	case FillHatch:
		return "hatch"
	case FillPattern:
		return "pattern"
	}
	return "symbol.FillKind(" + strconv.Itoa(int(k)) + ")"
}

// Fill is one element of an area symbol's fill list.  Fills are drawn in
// list order on top of the base color.
type Fill struct {
	Kind FillKind

	// SymbolID references a line symbol for FillHatch, and a point symbol
	// for FillPattern.
	SymbolID int

	// Spacing is the distance between hatch lines, or between pattern
	// rows, in millimeters.
	Spacing float64

	// ColumnSpacing is the distance between pattern columns, in
	// millimeters.  Only used for FillPattern.
	ColumnSpacing float64

	// Offset shifts the pattern grid, in millimeters.  Only used for
	// FillPattern.
	Offset vec.Vec2

	// Rotation is the fill direction in degrees counterclockwise.
	Rotation float64

	// RotatePerObject marks the rotation as adjustable per object rather
	// than fixed by the symbol.
	RotatePerObject bool

	// ShiftedRows offsets every second pattern row by half a column.
	// Only used for FillPattern.
	ShiftedRows bool
}

// AreaSymbol is the payload of an area symbol.
type AreaSymbol struct {
	// Color is the base fill color.  It may be nil if the area consists
	// of structured fills only.
	Color *color.Color

	Fills []Fill
}

// Kind implements the [Payload] interface.
func (s *AreaSymbol) Kind() Kind { return Area }
