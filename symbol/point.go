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

// ElementKind enumerates the drawing primitives of a point symbol.
type ElementKind int

const (
	// ElementLine is an open polyline.
	ElementLine ElementKind = iota + 1

	// ElementArea is a filled polygon.
	ElementArea

	// ElementCircle is a circle, filled or outlined.
	ElementCircle
)

func (k ElementKind) String() string {
	switch k {
	case ElementLine:
		return "line"
	case ElementArea:
		return "area"
	case ElementCircle:
		return "circle"
	}
	return "symbol.ElementKind(" + strconv.Itoa(int(k)) + ")"
}

// Element is one drawing primitive of a point symbol.  Coordinates are in
// millimeters, relative to the symbol's anchor point.
type Element struct {
	Kind ElementKind

	Color *color.Color

	// LineWidth is the stroke width for ElementLine and for the outline
	// of an unfilled ElementCircle, in millimeters.
	LineWidth float64

	// Diameter is the outer diameter of an ElementCircle, in millimeters.
	Diameter float64

	// Filled selects a solid dot instead of a ring for ElementCircle.
	Filled bool

	// Coords are the vertices of lines and areas.  For circles, the
	// single entry is the center.
	Coords []vec.Vec2
}

// PointSymbol is the payload of a point symbol.
type PointSymbol struct {
	Elements []Element

	// Rotatable allows objects to rotate the symbol.  If false, the
	// symbol's orientation is fixed.
	Rotatable bool
}

// Kind implements the [Payload] interface.
func (s *PointSymbol) Kind() Kind { return Point }
