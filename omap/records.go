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

package omap

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mapfile"
)

// The XML records below mirror the on-disk structure of the native format.
// They are shared between the reader and the writer; the conversion to and
// from the model types lives in read.go and write.go.

type xmlGeoref struct {
	ScaleFactor float64       `xml:"scale-factor,attr"`
	Declination float64       `xml:"declination,attr,omitempty"`
	RefX        float64       `xml:"ref-x,attr,omitempty"`
	RefY        float64       `xml:"ref-y,attr,omitempty"`
	Projected   *xmlProjected `xml:"projected"`
}

type xmlProjected struct {
	Language string `xml:"language,attr"`
	CRS      string `xml:",chardata"`
}

type xmlColors struct {
	Count  int        `xml:"count,attr"`
	Colors []xmlColor `xml:"color"`
}

type xmlColor struct {
	ID         int            `xml:"id,attr"`
	Name       string         `xml:"name,attr"`
	Kind       string         `xml:"kind,attr"`
	C          float64        `xml:"c,attr"`
	M          float64        `xml:"m,attr"`
	Y          float64        `xml:"y,attr"`
	K          float64        `xml:"k,attr"`
	Opacity    float64        `xml:"opacity,attr"`
	Knockout   bool           `xml:"knockout,attr,omitempty"`
	Priority   int            `xml:"priority,attr"`
	Components []xmlComponent `xml:"component"`
}

type xmlComponent struct {
	Spot     int     `xml:"spot,attr"`
	Fraction float64 `xml:"fraction,attr"`
}

type xmlSymbol struct {
	ID          int          `xml:"id,attr"`
	Kind        string       `xml:"kind,attr"`
	Number      string       `xml:"number,attr"`
	Name        string       `xml:"name,attr,omitempty"`
	Description string       `xml:"description,omitempty"`
	Point       *xmlPoint    `xml:"point"`
	Line        *xmlLine     `xml:"line"`
	Area        *xmlArea     `xml:"area"`
	Text        *xmlText     `xml:"text"`
	Combined    *xmlCombined `xml:"combined"`
}

type xmlPoint struct {
	Rotatable bool         `xml:"rotatable,attr,omitempty"`
	Elements  []xmlElement `xml:"element"`
}

type xmlElement struct {
	Kind      string  `xml:"kind,attr"`
	Color     int     `xml:"color,attr"`
	LineWidth float64 `xml:"line-width,attr,omitempty"`
	Diameter  float64 `xml:"diameter,attr,omitempty"`
	Filled    bool    `xml:"filled,attr,omitempty"`
	Coords    string  `xml:"coords"`
}

type xmlLine struct {
	Color       int         `xml:"color,attr"`
	Width       float64     `xml:"width,attr"`
	MinLength   float64     `xml:"min-length,attr,omitempty"`
	Cap         string      `xml:"cap,attr"`
	CapLength   float64     `xml:"cap-length,attr,omitempty"`
	Join        string      `xml:"join,attr"`
	StartSymbol int         `xml:"start-symbol,attr,omitempty"`
	EndSymbol   int         `xml:"end-symbol,attr,omitempty"`
	DashSymbol  int         `xml:"dash-symbol,attr,omitempty"`
	Dash        *xmlDash    `xml:"dash"`
	Mid         *xmlMid     `xml:"midsymbol"`
	Borders     []xmlBorder `xml:"border"`
}

type xmlDash struct {
	Length           float64 `xml:"length,attr"`
	BreakLength      float64 `xml:"break-length,attr"`
	GroupSize        int     `xml:"group-size,attr,omitempty"`
	GroupBreakLength float64 `xml:"group-break-length,attr,omitempty"`
	HalfOuterDashes  bool    `xml:"half-outer-dashes,attr,omitempty"`
}

type xmlMid struct {
	Symbol         int     `xml:"symbol,attr"`
	PerSpot        int     `xml:"per-spot,attr"`
	Spacing        float64 `xml:"spacing,attr"`
	MinCount       int     `xml:"min-count,attr,omitempty"`
	MinCountClosed int     `xml:"min-count-closed,attr,omitempty"`
}

type xmlBorder struct {
	Side        string  `xml:"side,attr"`
	Color       int     `xml:"color,attr"`
	Width       float64 `xml:"width,attr"`
	Shift       float64 `xml:"shift,attr"`
	Dashed      bool    `xml:"dashed,attr,omitempty"`
	DashLength  float64 `xml:"dash-length,attr,omitempty"`
	BreakLength float64 `xml:"break-length,attr,omitempty"`
}

type xmlArea struct {
	Color int       `xml:"color,attr,omitempty"`
	Fills []xmlFill `xml:"fill"`
}

type xmlFill struct {
	Kind            string  `xml:"kind,attr"`
	Symbol          int     `xml:"symbol,attr"`
	Spacing         float64 `xml:"spacing,attr"`
	ColumnSpacing   float64 `xml:"column-spacing,attr,omitempty"`
	OffsetX         float64 `xml:"offset-x,attr,omitempty"`
	OffsetY         float64 `xml:"offset-y,attr,omitempty"`
	Rotation        float64 `xml:"rotation,attr,omitempty"`
	RotatePerObject bool    `xml:"rotate-per-object,attr,omitempty"`
	ShiftedRows     bool    `xml:"shifted-rows,attr,omitempty"`
}

type xmlText struct {
	FontFamily       string        `xml:"font-family,attr"`
	FontSize         float64       `xml:"font-size,attr"`
	Color            int           `xml:"color,attr"`
	Bold             bool          `xml:"bold,attr,omitempty"`
	Italic           bool          `xml:"italic,attr,omitempty"`
	Underline        bool          `xml:"underline,attr,omitempty"`
	LineSpacing      float64       `xml:"line-spacing,attr"`
	ParagraphSpacing float64       `xml:"paragraph-spacing,attr,omitempty"`
	CharSpacing      float64       `xml:"character-spacing,attr,omitempty"`
	Kerning          bool          `xml:"kerning,attr,omitempty"`
	Framing          string        `xml:"framing,attr,omitempty"`
	FramingWidth     float64       `xml:"framing-width,attr,omitempty"`
	FramingColor     int           `xml:"framing-color,attr,omitempty"`
	FramingOffsetX   float64       `xml:"framing-offset-x,attr,omitempty"`
	FramingOffsetY   float64       `xml:"framing-offset-y,attr,omitempty"`
	TabStops         string        `xml:"tab-stops,attr,omitempty"`
	LineBelow        *xmlLineBelow `xml:"linebelow"`
}

type xmlLineBelow struct {
	Color    int     `xml:"color,attr"`
	Width    float64 `xml:"width,attr"`
	Distance float64 `xml:"distance,attr"`
}

type xmlCombined struct {
	Parts []xmlCombinedPart `xml:"part"`
}

type xmlCombinedPart struct {
	Symbol  int        `xml:"symbol,attr,omitempty"`
	Private *xmlSymbol `xml:"private"`
}

type xmlObject struct {
	Symbol   int       `xml:"symbol,attr"`
	Color    int       `xml:"color,attr,omitempty"`
	Rotation float64   `xml:"rotation,attr,omitempty"`
	Text     string    `xml:"text,omitempty"`
	Coords   xmlCoords `xml:"coords"`
	Tags     *xmlTags  `xml:"tags"`
}

type xmlCoords struct {
	Count int    `xml:"count,attr"`
	Data  string `xml:",chardata"`
}

type xmlTags struct {
	Tags []xmlTag `xml:"t"`
}

type xmlTag struct {
	Key   string `xml:"k,attr"`
	Value string `xml:",chardata"`
}

type xmlUndo struct {
	Count int       `xml:"count,attr"`
	Steps []xmlStep `xml:"step"`
}

type xmlStep struct {
	Kind string `xml:"kind,attr"`
	Data string `xml:",chardata"`
}

// coordsToString encodes a path as a compact coordinate string, one "x y"
// pair per coordinate with optional flag letters, separated by semicolons.
func coordsToString(path []mapfile.Coord) string {
	b := &strings.Builder{}
	for i, c := range path {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(b, "%d %d", c.X, c.Y)
		if c.Flags != 0 {
			b.WriteByte(' ')
			if c.Flags&mapfile.CurveStart != 0 {
				b.WriteByte('c')
			}
			if c.Flags&mapfile.DashPoint != 0 {
				b.WriteByte('d')
			}
			if c.Flags&mapfile.HolePoint != 0 {
				b.WriteByte('h')
			}
			if c.Flags&mapfile.ClosePoint != 0 {
				b.WriteByte('p')
			}
		}
	}
	return b.String()
}

// coordsFromString is the inverse of coordsToString.
func coordsFromString(s string) ([]mapfile.Coord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var path []mapfile.Coord
	for _, item := range strings.Split(s, ";") {
		fields := strings.Fields(item)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("malformed coordinate %q", item)
		}
		x, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed coordinate %q", item)
		}
		y, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed coordinate %q", item)
		}
		c := mapfile.Coord{X: int32(x), Y: int32(y)}
		if len(fields) == 3 {
			for _, r := range fields[2] {
				switch r {
				case 'c':
					c.Flags |= mapfile.CurveStart
				case 'd':
					c.Flags |= mapfile.DashPoint
				case 'h':
					c.Flags |= mapfile.HolePoint
				case 'p':
					c.Flags |= mapfile.ClosePoint
				default:
					return nil, fmt.Errorf("unknown coordinate flag %q", string(r))
				}
			}
		}
		path = append(path, c)
	}
	return path, nil
}

// vecsToString encodes symbol-local coordinates, in millimeters.
func vecsToString(coords []vec.Vec2) string {
	b := &strings.Builder{}
	for i, v := range coords {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.FormatFloat(v.X, 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v.Y, 'g', -1, 64))
	}
	return b.String()
}

// vecsFromString is the inverse of vecsToString.
func vecsFromString(s string) ([]vec.Vec2, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var res []vec.Vec2
	for _, item := range strings.Split(s, ";") {
		fields := strings.Fields(item)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed coordinate %q", item)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed coordinate %q", item)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed coordinate %q", item)
		}
		res = append(res, vec.Vec2{X: x, Y: y})
	}
	return res, nil
}

// floatsToString encodes a list of millimeter values, space separated.
func floatsToString(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// floatsFromString is the inverse of floatsToString.
func floatsFromString(s string) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	res := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}
