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

	"seehuhn.de/go/mapfile/color"
)

// CapStyle describes how line ends are drawn.
type CapStyle int

const (
	CapFlat CapStyle = iota
	CapRound
	CapSquare

	// CapPointed draws a triangular tail of length LineSymbol.CapLength.
	CapPointed
)

func (c CapStyle) String() string {
	switch c {
	case CapFlat:
		return "flat"
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	case CapPointed:
		return "pointed"
	}
	return "symbol.CapStyle(" + strconv.Itoa(int(c)) + ")"
}

// JoinStyle describes how line corners are drawn.
type JoinStyle int

const (
	JoinBevel JoinStyle = iota
	JoinMiter
	JoinRound
)

func (j JoinStyle) String() string {
	switch j {
	case JoinBevel:
		return "bevel"
	case JoinMiter:
		return "miter"
	case JoinRound:
		return "round"
	}
	return "symbol.JoinStyle(" + strconv.Itoa(int(j)) + ")"
}

// Dash describes the dash pattern of a line or border.  All lengths are in
// millimeters on paper.
type Dash struct {
	// Length is the length of one dash.
	Length float64

	// BreakLength is the gap between two dashes, or between two dash
	// groups if GroupSize is larger than one.
	BreakLength float64

	// GroupSize is the number of dashes per group, between 1 and 4.
	GroupSize int

	// GroupBreakLength is the gap between the dashes inside one group.
	// It is ignored if GroupSize is 1.
	GroupBreakLength float64

	// HalfOuterDashes requests that the dashes at the start and end of
	// the line are drawn at half length, so that dash points fall onto
	// dash centers.
	HalfOuterDashes bool
}

// MidSymbol places copies of a point symbol at regular spots along the line.
type MidSymbol struct {
	// SymbolID references a point symbol of the same map.
	SymbolID int

	// PerSpot is the number of copies placed at each spot.
	PerSpot int

	// Spacing is the distance between two copies at the same spot, in
	// millimeters.
	Spacing float64

	// MinCount is the minimum number of spots on an open path.
	MinCount int

	// MinCountClosed is the minimum number of spots on a closed path.
	MinCountClosed int
}

// Border is one of the up to two border lines of a line symbol.
type Border struct {
	Color *color.Color

	// Width is the border line width in millimeters.
	Width float64

	// Shift is the distance of the border from the main line, in
	// millimeters.
	Shift float64

	Dashed      bool
	DashLength  float64
	BreakLength float64
}

// LineSymbol is the payload of a line symbol.
type LineSymbol struct {
	Color *color.Color

	// Width is the line width in millimeters.
	Width float64

	// MinLength is the minimum length of objects drawn with this symbol,
	// in millimeters.  Zero means no minimum.
	MinLength float64

	Cap CapStyle

	// CapLength is the tail length for CapPointed, in millimeters.
	CapLength float64

	Join JoinStyle

	// Dash is nil for solid lines.
	Dash *Dash

	// Mid is nil if no symbols are repeated along the line.
	Mid *MidSymbol

	// StartSymbolID, EndSymbolID and DashSymbolID reference point symbols
	// drawn at the line start, the line end, and at dash points.  A zero
	// value means no symbol.
	StartSymbolID int
	EndSymbolID   int
	DashSymbolID  int

	// BorderLeft and BorderRight are nil if the line has no borders.  The
	// two sides may differ.
	BorderLeft  *Border
	BorderRight *Border
}

// Kind implements the [Payload] interface.
func (s *LineSymbol) Kind() Kind { return Line }
