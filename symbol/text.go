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

// FramingMode describes the optional framing drawn around text glyphs.
type FramingMode int

const (
	FramingNone FramingMode = iota

	// FramingLine outlines each glyph with a contour of width
	// TextSymbol.FramingWidth.
	FramingLine

	// FramingShadow repeats the text, shifted by TextSymbol.FramingOffset,
	// behind the main text.
	FramingShadow
)

func (m FramingMode) String() string {
	switch m {
	case FramingNone:
		return "none"
	case FramingLine:
		return "line"
	case FramingShadow:
		return "shadow"
	}
	return "symbol.FramingMode(" + strconv.Itoa(int(m)) + ")"
}

// TextSymbol is the payload of a text symbol.
type TextSymbol struct {
	// FontFamily is the font family name, e.g. "Arial".
	FontFamily string

	// FontSize is the font size in millimeters on paper.
	FontSize float64

	Color *color.Color

	Bold      bool
	Italic    bool
	Underline bool

	// LineSpacing is a factor relative to the font's default line height.
	LineSpacing float64

	// ParagraphSpacing is the extra space between paragraphs, in
	// millimeters.
	ParagraphSpacing float64

	// CharacterSpacing is extra space between characters, as a fraction
	// of the width of a space character.
	CharacterSpacing float64

	// Kerning enables pair kerning.
	Kerning bool

	Framing FramingMode

	// FramingWidth is the contour width for FramingLine, in millimeters.
	FramingWidth float64

	FramingColor *color.Color

	// FramingOffset is the shadow offset for FramingShadow, in
	// millimeters.
	FramingOffset vec.Vec2

	// TabStops are custom tabulator positions in millimeters, in
	// increasing order.  An empty slice selects default tab stops.
	TabStops []float64

	// LineBelow draws a horizontal line below each paragraph.  This
	// exists for compatibility with the OCAD text model.
	LineBelow         bool
	LineBelowColor    *color.Color
	LineBelowWidth    float64
	LineBelowDistance float64
}

// Kind implements the [Payload] interface.
func (s *TextSymbol) Kind() Kind { return Text }
