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

package ocd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/internal/approx"
	"seehuhn.de/go/mapfile/symbol"
)

// Write encodes a map in the legacy binary format, using the newest tested
// version.  Features the format cannot store are approximated or dropped,
// with a warning for each change.
func (f *Format) Write(w io.Writer, m *mapfile.Map, d *diagnostic.Collector) error {
	if err := m.Validate(); err != nil {
		return err
	}
	for _, c := range m.Colors {
		if c.Kind == color.Registration && !f.RegistrationAsRegular {
			return fmt.Errorf("the file format cannot store the registration color %q; "+
				"enable the RegistrationAsRegular option to export it as a regular color",
				c.Name)
		}
	}

	if m.Georef != nil {
		d.Warn(diagnostic.Location{},
			"the file format cannot store georeferencing information, georeferencing removed")
	}

	e := &encoder{d: d}

	var notes bytes.Buffer
	e.buf = &notes
	e.str(m.Notes, "map notes")

	var colors bytes.Buffer
	e.buf = &colors
	for _, c := range m.Colors {
		e.color(c)
	}

	var symbols bytes.Buffer
	e.buf = &symbols
	for _, s := range m.Symbols {
		e.symbol(s)
	}

	var parts bytes.Buffer
	e.buf = &parts
	for _, part := range m.Parts {
		e.part(part)
	}

	hdr := fileHeader{
		Magic:       fileMagic,
		Version:     versionMax,
		Scale:       uint32(m.Scale),
		ColorCount:  uint32(len(m.Colors)),
		SymbolCount: uint32(len(m.Symbols)),
		PartCount:   uint32(len(m.Parts)),
	}
	hdr.NotesOff = headerSize
	hdr.ColorOff = hdr.NotesOff + uint32(notes.Len())
	hdr.SymbolOff = hdr.ColorOff + uint32(colors.Len())
	hdr.PartOff = hdr.SymbolOff + uint32(symbols.Len())

	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	for _, buf := range []*bytes.Buffer{&notes, &colors, &symbols, &parts} {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

type encoder struct {
	buf *bytes.Buffer
	d   *diagnostic.Collector
}

func (e *encoder) u8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) s32(v int32) {
	e.u32(uint32(v))
}

func (e *encoder) mm(v float64) {
	e.s32(toUnits(v))
}

func (e *encoder) bool(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

// pmil encodes a fraction in the range 0..1 as an integer per-mille value.
func (e *encoder) pmil(v float64) {
	e.u16(uint16(math.Round(v * 1000)))
}

// str writes a length-prefixed Windows-1252 string, truncating overlong
// values.  what names the field in the truncation warning.
func (e *encoder) str(s string, what string) {
	stored, marked, truncated := approx.TruncateString(s, maxString)
	if truncated {
		e.d.Warn(diagnostic.Location{},
			"the %s does not fit into the file format, truncated after %d characters: %q",
			what, maxString, marked)
	}
	raw := make([]byte, 0, len(stored))
	for _, r := range stored {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		raw = append(raw, b)
	}
	e.u8(uint8(len(raw)))
	e.buf.Write(raw)
}

func colorID(c *color.Color) int32 {
	if c == nil {
		return 0
	}
	return int32(c.ID)
}

func (e *encoder) color(c *color.Color) {
	kind := c.Kind
	if kind == color.Registration {
		kind = color.CMYK
		e.d.Warn(diagnostic.Location{},
			"registration color %q exported as a regular color", c.Name)
	}
	e.s32(int32(c.ID))
	e.u8(uint8(kind))
	e.pmil(c.C)
	e.pmil(c.M)
	e.pmil(c.Y)
	e.pmil(c.K)
	e.pmil(c.Opacity)
	e.bool(c.Knockout)
	e.str(c.Name, "color name")
	e.u8(uint8(len(c.Components)))
	for _, comp := range c.Components {
		e.s32(int32(comp.Spot.ID))
		e.pmil(comp.Fraction)
	}
}

func (e *encoder) symbol(s *symbol.Symbol) {
	var body bytes.Buffer
	sub := &encoder{buf: &body, d: e.d}
	sub.s32(int32(s.ID))
	sub.u8(uint8(s.Kind()))
	sub.str(s.Number, "symbol number")
	sub.str(s.Name, "symbol name")
	sub.str(s.Description, "symbol description")
	switch payload := s.Payload.(type) {
	case *symbol.PointSymbol:
		sub.pointPayload(payload)
	case *symbol.LineSymbol:
		sub.linePayload(s, payload)
	case *symbol.AreaSymbol:
		sub.areaPayload(payload)
	case *symbol.TextSymbol:
		sub.textPayload(s, payload)
	case *symbol.CombinedSymbol:
		sub.combinedPayload(payload)
	}
	e.u32(uint32(body.Len()))
	e.buf.Write(body.Bytes())
}

func (e *encoder) pointPayload(p *symbol.PointSymbol) {
	e.bool(p.Rotatable)
	e.u16(uint16(len(p.Elements)))
	for _, el := range p.Elements {
		e.u8(uint8(el.Kind))
		e.s32(colorID(el.Color))
		e.mm(el.LineWidth)
		e.mm(el.Diameter)
		e.bool(el.Filled)
		e.u16(uint16(len(el.Coords)))
		for _, xy := range el.Coords {
			e.mm(xy.X)
			e.mm(xy.Y)
		}
	}
}

var capBytes = map[symbol.CapStyle]uint8{
	symbol.CapFlat:    0,
	symbol.CapRound:   1,
	symbol.CapPointed: 2,
}

var joinBytes = map[symbol.JoinStyle]uint8{
	symbol.JoinBevel: 0,
	symbol.JoinMiter: 1,
	symbol.JoinRound: 2,
}

func (e *encoder) linePayload(s *symbol.Symbol, l *symbol.LineSymbol) {
	cap, join, changed := approx.CapJoin(l.Cap, l.Join)
	if changed {
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): cap/join combination %s/%s is not supported, using %s/%s",
			s.Number, s.Name, l.Cap, l.Join, cap, join)
	}

	e.s32(colorID(l.Color))
	e.mm(l.Width)
	e.mm(l.MinLength)
	e.u8(capBytes[cap])
	e.u8(joinBytes[join])
	e.mm(l.CapLength) // begin and end pointed cap lengths are kept equal
	e.mm(l.CapLength)
	e.s32(int32(l.StartSymbolID))
	e.s32(int32(l.EndSymbolID))
	e.s32(int32(l.DashSymbolID))

	var flags uint8
	if l.Dash != nil {
		flags |= lineDashed
	}
	if l.Mid != nil {
		flags |= lineMid
	}
	if l.BorderLeft != nil {
		flags |= lineBorderLeft
	}
	if l.BorderRight != nil {
		flags |= lineBorderRight
	}
	e.u8(flags)

	if l.Dash != nil {
		groupSize, changed := approx.GroupSize(l.Dash.GroupSize)
		if changed {
			e.d.Warn(diagnostic.Location{},
				"symbol %s (%s): dash groups of size %d are not supported, using %d",
				s.Number, s.Name, l.Dash.GroupSize, groupSize)
		}
		e.mm(l.Dash.Length)
		e.mm(l.Dash.BreakLength)
		e.mm(l.Dash.Length) // end dash length and gap are kept equal to the main values
		e.mm(l.Dash.BreakLength)
		e.u8(uint8(groupSize))
		e.mm(l.Dash.GroupBreakLength)
		e.bool(l.Dash.HalfOuterDashes)
	}
	if l.Mid != nil {
		e.s32(int32(l.Mid.SymbolID))
		e.u8(uint8(l.Mid.PerSpot))
		e.mm(l.Mid.Spacing)
		e.u8(uint8(l.Mid.MinCount))
		e.u8(uint8(l.Mid.MinCountClosed))
	}
	if l.BorderLeft != nil {
		e.border(l.BorderLeft)
	}
	if l.BorderRight != nil {
		e.border(l.BorderRight)
	}
}

func (e *encoder) border(b *symbol.Border) {
	e.s32(colorID(b.Color))
	e.mm(b.Width)
	e.mm(b.Shift)
	e.bool(b.Dashed)
	e.mm(b.DashLength)
	e.mm(b.BreakLength)
}

func (e *encoder) areaPayload(a *symbol.AreaSymbol) {
	e.s32(colorID(a.Color))
	e.u8(uint8(len(a.Fills)))
	for _, fill := range a.Fills {
		e.u8(uint8(fill.Kind))
		e.s32(int32(fill.SymbolID))
		e.mm(fill.Spacing)
		e.mm(fill.ColumnSpacing)
		e.mm(fill.Offset.X)
		e.mm(fill.Offset.Y)
		e.mm(fill.Rotation) // stored in 1/1000 degree
		e.bool(fill.RotatePerObject)
		rowOffset := 0.0
		if fill.ShiftedRows {
			rowOffset = fill.ColumnSpacing / 2
			if rowOffset == 0 {
				rowOffset = fill.Spacing / 2
			}
		}
		e.mm(rowOffset)
	}
}

func (e *encoder) textPayload(s *symbol.Symbol, t *symbol.TextSymbol) {
	if t.Underline {
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): ignoring underline (true)", s.Number, s.Name)
	}
	if t.Kerning {
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): ignoring kerning (true)", s.Number, s.Name)
	}
	if t.Framing != symbol.FramingNone {
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): ignoring framing (%s)", s.Number, s.Name, t.Framing)
	}
	if t.CharacterSpacing != 0 {
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): the character spacing %g is kept, but other programs render it differently",
			s.Number, s.Name, t.CharacterSpacing)
	}

	e.s32(colorID(t.Color))
	e.str(t.FontFamily, "font name")
	e.mm(t.FontSize)
	e.bool(t.Bold)
	e.bool(t.Italic)
	e.mm(t.LineSpacing)
	e.mm(t.ParagraphSpacing)
	e.mm(t.CharacterSpacing)
	e.bool(t.LineBelow)
	if t.LineBelow {
		e.s32(colorID(t.LineBelowColor))
		e.mm(t.LineBelowWidth)
		e.mm(t.LineBelowDistance)
	}
	e.u8(uint8(len(t.TabStops)))
	for _, tab := range t.TabStops {
		e.mm(tab)
	}
}

func (e *encoder) combinedPayload(c *symbol.CombinedSymbol) {
	e.u8(uint8(len(c.Parts)))
	for _, part := range c.Parts {
		e.s32(int32(part.SymbolID))
		if part.SymbolID == 0 {
			e.symbol(part.Private)
		}
	}
}

func (e *encoder) part(part *mapfile.Part) {
	e.str(part.Name, "part name")
	e.u32(uint32(len(part.Objects)))
	for i, obj := range part.Objects {
		e.object(part.Name, i+1, obj)
	}
}

func (e *encoder) object(partName string, index int, obj *mapfile.Object) {
	if obj.ColorID != 0 {
		e.d.Warn(diagnostic.Location{},
			"object %d in part %q: ignoring color override (%d)",
			index, partName, obj.ColorID)
	}
	if len(obj.Tags) > 0 {
		e.d.Warn(diagnostic.Location{},
			"object %d in part %q: ignoring tags (%d entries)",
			index, partName, len(obj.Tags))
	}

	var body bytes.Buffer
	sub := &encoder{buf: &body, d: e.d}
	sub.s32(int32(obj.SymbolID))
	if obj.Text != "" {
		sub.u8(objText)
	} else {
		sub.u8(objPath)
	}
	sub.mm(obj.Rotation) // stored in 1/1000 degree
	sub.str(obj.Text, fmt.Sprintf("text of object %d in part %q", index, partName))
	sub.u32(uint32(len(obj.Path)))
	for _, c := range obj.Path {
		sub.s32(packCoord(c.X, uint8(c.Flags)))
		sub.s32(packCoord(c.Y, 0))
	}
	e.u32(uint32(body.Len()))
	e.buf.Write(body.Bytes())
}
