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

// Package obf implements the structured binary interchange format.
//
// An obf file starts with the signature "OBMF" and a version number,
// followed by a sequence of tagged chunks.  Chunk payloads are MessagePack
// encoded records.  The format cannot represent everything the native
// model can; unsupported constructs are approximated deterministically on
// export, with a warning for each change.
package obf

import "bytes"

// file layout constants
var magic = []byte("OBMF")

const (
	// versionMin and versionMax delimit the supported sub-version range
	// of the format's third generation.
	versionMin = 300
	versionMax = 305
)

// chunk tags
var (
	chunkInfo    = [4]byte{'I', 'N', 'F', 'O'}
	chunkGeoref  = [4]byte{'G', 'E', 'O', 'R'}
	chunkColors  = [4]byte{'C', 'L', 'R', 'S'}
	chunkSymbols = [4]byte{'S', 'Y', 'M', 'S'}
	chunkParts   = [4]byte{'P', 'R', 'T', 'S'}
)

// Format reads and writes the structured binary format.
type Format struct{}

func (*Format) Name() string { return "obf" }

func (*Format) Extensions() []string { return []string{".obf"} }

func (*Format) Match(head []byte) bool {
	return bytes.HasPrefix(head, magic)
}

// The records below define the chunk payloads.

type infoRec struct {
	Scale int    `msgpack:"scale"`
	Notes string `msgpack:"notes,omitempty"`
}

type georefRec struct {
	CRS         string  `msgpack:"crs,omitempty"`
	ScaleFactor float64 `msgpack:"scale_factor"`
	Declination float64 `msgpack:"declination"`
	RefX        float64 `msgpack:"ref_x"`
	RefY        float64 `msgpack:"ref_y"`
}

type colorRec struct {
	ID         int            `msgpack:"id"`
	Name       string         `msgpack:"name"`
	Kind       string         `msgpack:"kind"`
	CMYK       [4]float64     `msgpack:"cmyk"`
	Opacity    float64        `msgpack:"opacity"`
	Knockout   bool           `msgpack:"knockout,omitempty"`
	Priority   int            `msgpack:"priority"`
	Components []componentRec `msgpack:"components,omitempty"`
}

type componentRec struct {
	Spot     int     `msgpack:"spot"`
	Fraction float64 `msgpack:"fraction"`
}

type symbolRec struct {
	ID          int          `msgpack:"id"`
	Kind        string       `msgpack:"kind"`
	Number      string       `msgpack:"number"`
	Name        string       `msgpack:"name,omitempty"`
	Description string       `msgpack:"description,omitempty"`
	Point       *pointRec    `msgpack:"point,omitempty"`
	Line        *lineRec     `msgpack:"line,omitempty"`
	Area        *areaRec     `msgpack:"area,omitempty"`
	Text        *textRec     `msgpack:"text,omitempty"`
	Combined    *combinedRec `msgpack:"combined,omitempty"`
}

type pointRec struct {
	Rotatable bool         `msgpack:"rotatable,omitempty"`
	Elements  []elementRec `msgpack:"elements,omitempty"`
}

type elementRec struct {
	Kind      string       `msgpack:"kind"`
	Color     int          `msgpack:"color"`
	LineWidth float64      `msgpack:"line_width,omitempty"`
	Diameter  float64      `msgpack:"diameter,omitempty"`
	Filled    bool         `msgpack:"filled,omitempty"`
	Coords    [][2]float64 `msgpack:"coords,omitempty"`
}

type lineRec struct {
	Color       int         `msgpack:"color"`
	Width       float64     `msgpack:"width"`
	MinLength   float64     `msgpack:"min_length,omitempty"`
	Cap         string      `msgpack:"cap"`
	CapLength   float64     `msgpack:"cap_length,omitempty"`
	Join        string      `msgpack:"join"`
	Dash        *dashRec    `msgpack:"dash,omitempty"`
	Mid         *midRec     `msgpack:"mid,omitempty"`
	StartSymbol int         `msgpack:"start_symbol,omitempty"`
	EndSymbol   int         `msgpack:"end_symbol,omitempty"`
	DashSymbol  int         `msgpack:"dash_symbol,omitempty"`
	Borders     []borderRec `msgpack:"borders,omitempty"`
}

type dashRec struct {
	Length           float64 `msgpack:"length"`
	BreakLength      float64 `msgpack:"break_length"`
	GroupSize        int     `msgpack:"group_size"`
	GroupBreakLength float64 `msgpack:"group_break_length,omitempty"`
	HalfOuterDashes  bool    `msgpack:"half_outer_dashes,omitempty"`
}

type midRec struct {
	Symbol         int     `msgpack:"symbol"`
	PerSpot        int     `msgpack:"per_spot"`
	Spacing        float64 `msgpack:"spacing"`
	MinCount       int     `msgpack:"min_count,omitempty"`
	MinCountClosed int     `msgpack:"min_count_closed,omitempty"`
}

type borderRec struct {
	Side        string  `msgpack:"side"`
	Color       int     `msgpack:"color"`
	Width       float64 `msgpack:"width"`
	Shift       float64 `msgpack:"shift"`
	Dashed      bool    `msgpack:"dashed,omitempty"`
	DashLength  float64 `msgpack:"dash_length,omitempty"`
	BreakLength float64 `msgpack:"break_length,omitempty"`
}

type areaRec struct {
	Color int       `msgpack:"color,omitempty"`
	Fills []fillRec `msgpack:"fills,omitempty"`
}

type fillRec struct {
	Kind            string  `msgpack:"kind"`
	Symbol          int     `msgpack:"symbol"`
	Spacing         float64 `msgpack:"spacing"`
	ColumnSpacing   float64 `msgpack:"column_spacing,omitempty"`
	OffsetX         float64 `msgpack:"offset_x,omitempty"`
	OffsetY         float64 `msgpack:"offset_y,omitempty"`
	Rotation        float64 `msgpack:"rotation,omitempty"`
	RotatePerObject bool    `msgpack:"rotate_per_object,omitempty"`
	ShiftedRows     bool    `msgpack:"shifted_rows,omitempty"`
}

type textRec struct {
	FontFamily       string    `msgpack:"font_family"`
	FontSize         float64   `msgpack:"font_size"`
	Color            int       `msgpack:"color"`
	Bold             bool      `msgpack:"bold,omitempty"`
	Italic           bool      `msgpack:"italic,omitempty"`
	Underline        bool      `msgpack:"underline,omitempty"`
	LineSpacing      float64   `msgpack:"line_spacing"`
	ParagraphSpacing float64   `msgpack:"paragraph_spacing,omitempty"`
	CharSpacing      float64   `msgpack:"char_spacing,omitempty"`
	Kerning          bool      `msgpack:"kerning,omitempty"`
	Framing          string    `msgpack:"framing,omitempty"`
	FramingWidth     float64   `msgpack:"framing_width,omitempty"`
	FramingColor     int       `msgpack:"framing_color,omitempty"`
	TabStops         []float64 `msgpack:"tab_stops,omitempty"`
}

type combinedRec struct {
	Parts []combinedPartRec `msgpack:"parts"`
}

type combinedPartRec struct {
	Symbol  int        `msgpack:"symbol,omitempty"`
	Private *symbolRec `msgpack:"private,omitempty"`
}

type partRec struct {
	Name    string      `msgpack:"name"`
	Objects []objectRec `msgpack:"objects,omitempty"`
}

type objectRec struct {
	Symbol   int               `msgpack:"symbol"`
	Color    int               `msgpack:"color,omitempty"`
	Rotation float64           `msgpack:"rotation,omitempty"`
	Text     string            `msgpack:"text,omitempty"`
	Coords   []coordRec        `msgpack:"coords"`
	Tags     map[string]string `msgpack:"tags,omitempty"`
}

type coordRec struct {
	X     int32 `msgpack:"x"`
	Y     int32 `msgpack:"y"`
	Flags uint8 `msgpack:"flags,omitempty"`
}
