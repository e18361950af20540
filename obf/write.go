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

package obf

import (
	"encoding/binary"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/internal/approx"
	"seehuhn.de/go/mapfile/symbol"
)

// Write encodes a map in the structured binary format, using the newest
// supported sub-version.  Constructs the format cannot store are
// approximated or dropped, with a warning for each change.
func (f *Format) Write(w io.Writer, m *mapfile.Map, d *diagnostic.Collector) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if _, err := w.Write(magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(versionMax)); err != nil {
		return err
	}

	e := &writer{w: w, d: d}

	e.writeChunk(chunkInfo, infoRec{Scale: m.Scale, Notes: m.Notes})
	if m.Georef != nil {
		e.writeChunk(chunkGeoref, georefRec{
			CRS:         m.Georef.CRSSpec,
			ScaleFactor: m.Georef.GridScaleFactor,
			Declination: m.Georef.Declination,
			RefX:        m.Georef.RefX,
			RefY:        m.Georef.RefY,
		})
	}

	var colors []colorRec
	for _, c := range m.Colors {
		colors = append(colors, fromColor(c))
	}
	e.writeChunk(chunkColors, colors)

	var symbols []symbolRec
	for _, s := range m.Symbols {
		symbols = append(symbols, e.fromSymbol(s))
	}
	e.writeChunk(chunkSymbols, symbols)

	var parts []partRec
	for _, part := range m.Parts {
		rp := partRec{Name: part.Name}
		for _, obj := range part.Objects {
			ro := objectRec{
				Symbol:   obj.SymbolID,
				Color:    obj.ColorID,
				Rotation: obj.Rotation,
				Text:     obj.Text,
				Tags:     obj.Tags,
			}
			for _, c := range obj.Path {
				ro.Coords = append(ro.Coords, coordRec{
					X:     c.X,
					Y:     c.Y,
					Flags: uint8(c.Flags),
				})
			}
			rp.Objects = append(rp.Objects, ro)
		}
		parts = append(parts, rp)
	}
	e.writeChunk(chunkParts, parts)

	return e.err
}

type writer struct {
	w   io.Writer
	d   *diagnostic.Collector
	err error
}

func (e *writer) writeChunk(tag [4]byte, payload interface{}) {
	if e.err != nil {
		return
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		e.err = err
		return
	}
	if _, err := e.w.Write(tag[:]); err != nil {
		e.err = err
		return
	}
	if err := binary.Write(e.w, binary.LittleEndian, uint32(len(data))); err != nil {
		e.err = err
		return
	}
	_, e.err = e.w.Write(data)
}

func fromColor(c *color.Color) colorRec {
	rec := colorRec{
		ID:       c.ID,
		Name:     c.Name,
		Kind:     c.Kind.String(),
		CMYK:     [4]float64{c.C, c.M, c.Y, c.K},
		Opacity:  c.Opacity,
		Knockout: c.Knockout,
		Priority: c.Priority,
	}
	for _, comp := range c.Components {
		rec.Components = append(rec.Components, componentRec{
			Spot:     comp.Spot.ID,
			Fraction: comp.Fraction,
		})
	}
	return rec
}

func colorID(c *color.Color) int {
	if c == nil {
		return 0
	}
	return c.ID
}

func (e *writer) fromSymbol(s *symbol.Symbol) symbolRec {
	rec := symbolRec{
		ID:          s.ID,
		Kind:        s.Kind().String(),
		Number:      s.Number,
		Name:        s.Name,
		Description: s.Description,
	}
	switch payload := s.Payload.(type) {
	case *symbol.PointSymbol:
		rec.Point = e.fromPoint(payload)
	case *symbol.LineSymbol:
		rec.Line = e.fromLine(s, payload)
	case *symbol.AreaSymbol:
		rec.Area = e.fromArea(payload)
	case *symbol.TextSymbol:
		rec.Text = e.fromText(s, payload)
	case *symbol.CombinedSymbol:
		rec.Combined = e.fromCombined(payload)
	}
	return rec
}

func (e *writer) fromPoint(p *symbol.PointSymbol) *pointRec {
	rec := &pointRec{Rotatable: p.Rotatable}
	for _, el := range p.Elements {
		re := elementRec{
			Kind:      el.Kind.String(),
			Color:     colorID(el.Color),
			LineWidth: el.LineWidth,
			Diameter:  el.Diameter,
			Filled:    el.Filled,
		}
		for _, xy := range el.Coords {
			re.Coords = append(re.Coords, [2]float64{xy.X, xy.Y})
		}
		rec.Elements = append(rec.Elements, re)
	}
	return rec
}

func (e *writer) fromLine(s *symbol.Symbol, l *symbol.LineSymbol) *lineRec {
	cap, join, changed := approx.CapJoin(l.Cap, l.Join)
	if changed {
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): cap/join combination %s/%s is not supported, using %s/%s",
			s.Number, s.Name, l.Cap, l.Join, cap, join)
	}
	rec := &lineRec{
		Color:       colorID(l.Color),
		Width:       l.Width,
		MinLength:   l.MinLength,
		Cap:         cap.String(),
		CapLength:   l.CapLength,
		Join:        join.String(),
		StartSymbol: l.StartSymbolID,
		EndSymbol:   l.EndSymbolID,
		DashSymbol:  l.DashSymbolID,
	}
	if l.Dash != nil {
		groupSize, changed := approx.GroupSize(l.Dash.GroupSize)
		if changed {
			e.d.Warn(diagnostic.Location{},
				"symbol %s (%s): dash groups of size %d are not supported, using %d",
				s.Number, s.Name, l.Dash.GroupSize, groupSize)
		}
		rec.Dash = &dashRec{
			Length:           l.Dash.Length,
			BreakLength:      l.Dash.BreakLength,
			GroupSize:        groupSize,
			GroupBreakLength: l.Dash.GroupBreakLength,
			HalfOuterDashes:  l.Dash.HalfOuterDashes,
		}
	}
	if l.Mid != nil {
		rec.Mid = &midRec{
			Symbol:         l.Mid.SymbolID,
			PerSpot:        l.Mid.PerSpot,
			Spacing:        l.Mid.Spacing,
			MinCount:       l.Mid.MinCount,
			MinCountClosed: l.Mid.MinCountClosed,
		}
	}
	if l.BorderLeft != nil {
		rec.Borders = append(rec.Borders, fromBorder("left", l.BorderLeft))
	}
	if l.BorderRight != nil {
		rec.Borders = append(rec.Borders, fromBorder("right", l.BorderRight))
	}
	return rec
}

func fromBorder(side string, b *symbol.Border) borderRec {
	return borderRec{
		Side:        side,
		Color:       colorID(b.Color),
		Width:       b.Width,
		Shift:       b.Shift,
		Dashed:      b.Dashed,
		DashLength:  b.DashLength,
		BreakLength: b.BreakLength,
	}
}

func (e *writer) fromArea(a *symbol.AreaSymbol) *areaRec {
	rec := &areaRec{Color: colorID(a.Color)}
	for _, fill := range a.Fills {
		rec.Fills = append(rec.Fills, fillRec{
			Kind:            fill.Kind.String(),
			Symbol:          fill.SymbolID,
			Spacing:         fill.Spacing,
			ColumnSpacing:   fill.ColumnSpacing,
			OffsetX:         fill.Offset.X,
			OffsetY:         fill.Offset.Y,
			Rotation:        fill.Rotation,
			RotatePerObject: fill.RotatePerObject,
			ShiftedRows:     fill.ShiftedRows,
		})
	}
	return rec
}

func (e *writer) fromText(s *symbol.Symbol, t *symbol.TextSymbol) *textRec {
	rec := &textRec{
		FontFamily:       t.FontFamily,
		FontSize:         t.FontSize,
		Color:            colorID(t.Color),
		Bold:             t.Bold,
		Italic:           t.Italic,
		Underline:        t.Underline,
		LineSpacing:      t.LineSpacing,
		ParagraphSpacing: t.ParagraphSpacing,
		CharSpacing:      t.CharacterSpacing,
		Kerning:          t.Kerning,
		FramingWidth:     t.FramingWidth,
		FramingColor:     colorID(t.FramingColor),
		TabStops:         t.TabStops,
	}
	switch t.Framing {
	case symbol.FramingNone:
		// nothing to do
	case symbol.FramingShadow:
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): shadow framing is not supported, framing removed",
			s.Number, s.Name)
	default:
		rec.Framing = t.Framing.String()
		if t.FramingOffset.X != 0 || t.FramingOffset.Y != 0 {
			e.d.Warn(diagnostic.Location{},
				"symbol %s (%s): framing offsets are not supported, offset removed",
				s.Number, s.Name)
		}
	}
	if t.LineBelow {
		e.d.Warn(diagnostic.Location{},
			"symbol %s (%s): the line-below decoration is not supported, decoration removed",
			s.Number, s.Name)
	}
	return rec
}

func (e *writer) fromCombined(c *symbol.CombinedSymbol) *combinedRec {
	rec := &combinedRec{}
	for _, part := range c.Parts {
		rp := combinedPartRec{Symbol: part.SymbolID}
		if part.Private != nil {
			private := e.fromSymbol(part.Private)
			rp.Private = &private
		}
		rec.Parts = append(rec.Parts, rp)
	}
	return rec
}
