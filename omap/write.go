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
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/symbol"
)

type xmlMap struct {
	XMLName xml.Name   `xml:"map"`
	Version int        `xml:"version,attr"`
	Scale   int        `xml:"scale,attr"`
	Notes   string     `xml:"notes,omitempty"`
	Georef  *xmlGeoref `xml:"georeferencing"`
	Colors  xmlColors  `xml:"colors"`
	Symbols xmlSymbols `xml:"symbols"`
	Parts   xmlParts   `xml:"parts"`
	Undo    *xmlUndo   `xml:"undo"`
}

type xmlSymbols struct {
	Count   int         `xml:"count,attr"`
	Symbols []xmlSymbol `xml:"symbol"`
}

type xmlParts struct {
	Count int       `xml:"count,attr"`
	Parts []xmlPart `xml:"part"`
}

type xmlPart struct {
	Name    string     `xml:"name,attr"`
	Objects xmlObjects `xml:"objects"`
}

type xmlObjects struct {
	Count   int         `xml:"count,attr"`
	Objects []xmlObject `xml:"object"`
}

// Write encodes m in the native XML format.  The encoding is lossless;
// no diagnostics are normally produced.
func (f *Format) Write(w io.Writer, m *mapfile.Map, d *diagnostic.Collector) error {
	if err := m.Validate(); err != nil {
		return err
	}

	doc := &xmlMap{
		Version: versionCurrent,
		Scale:   m.Scale,
		Notes:   m.Notes,
	}
	if m.Georef != nil {
		doc.Georef = fromGeoref(m.Georef)
	}

	doc.Colors.Count = len(m.Colors)
	for _, c := range m.Colors {
		doc.Colors.Colors = append(doc.Colors.Colors, fromColor(c))
	}

	doc.Symbols.Count = len(m.Symbols)
	for _, s := range m.Symbols {
		rec, err := fromSymbol(s)
		if err != nil {
			return err
		}
		doc.Symbols.Symbols = append(doc.Symbols.Symbols, *rec)
	}

	doc.Parts.Count = len(m.Parts)
	for _, part := range m.Parts {
		rp := xmlPart{Name: part.Name}
		rp.Objects.Count = len(part.Objects)
		for _, obj := range part.Objects {
			rp.Objects.Objects = append(rp.Objects.Objects, fromObject(obj))
		}
		doc.Parts.Parts = append(doc.Parts.Parts, rp)
	}

	if len(m.Undo) > 0 {
		undo := &xmlUndo{Count: len(m.Undo)}
		for _, step := range m.Undo {
			undo.Steps = append(undo.Steps, xmlStep{Kind: step.Kind, Data: step.Data})
		}
		doc.Undo = undo
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func fromGeoref(g *mapfile.Georeferencing) *xmlGeoref {
	rec := &xmlGeoref{
		ScaleFactor: g.GridScaleFactor,
		Declination: g.Declination,
		RefX:        g.RefX,
		RefY:        g.RefY,
	}
	if g.CRSSpec != "" {
		rec.Projected = &xmlProjected{Language: "PROJ", CRS: g.CRSSpec}
	}
	return rec
}

func fromColor(c *color.Color) xmlColor {
	rec := xmlColor{
		ID:       c.ID,
		Name:     c.Name,
		Kind:     c.Kind.String(),
		C:        c.C,
		M:        c.M,
		Y:        c.Y,
		K:        c.K,
		Opacity:  c.Opacity,
		Knockout: c.Knockout,
		Priority: c.Priority,
	}
	for _, comp := range c.Components {
		rec.Components = append(rec.Components, xmlComponent{
			Spot:     comp.Spot.ID,
			Fraction: comp.Fraction,
		})
	}
	return rec
}

// colorID returns the reference attribute value for a color, with zero
// meaning "no color".
func colorID(c *color.Color) int {
	if c == nil {
		return 0
	}
	return c.ID
}

func fromSymbol(s *symbol.Symbol) (*xmlSymbol, error) {
	rec := &xmlSymbol{
		ID:          s.ID,
		Kind:        s.Kind().String(),
		Number:      s.Number,
		Name:        s.Name,
		Description: s.Description,
	}
	switch p := s.Payload.(type) {
	case *symbol.PointSymbol:
		rec.Point = fromPoint(p)
	case *symbol.LineSymbol:
		rec.Line = fromLine(p)
	case *symbol.AreaSymbol:
		rec.Area = fromArea(p)
	case *symbol.TextSymbol:
		rec.Text = fromText(p)
	case *symbol.CombinedSymbol:
		combined, err := fromCombined(p)
		if err != nil {
			return nil, err
		}
		rec.Combined = combined
	default:
		return nil, fmt.Errorf("symbol %d has no payload", s.ID)
	}
	return rec, nil
}

func fromPoint(p *symbol.PointSymbol) *xmlPoint {
	rec := &xmlPoint{Rotatable: p.Rotatable}
	for _, el := range p.Elements {
		rec.Elements = append(rec.Elements, xmlElement{
			Kind:      el.Kind.String(),
			Color:     colorID(el.Color),
			LineWidth: el.LineWidth,
			Diameter:  el.Diameter,
			Filled:    el.Filled,
			Coords:    vecsToString(el.Coords),
		})
	}
	return rec
}

func fromLine(p *symbol.LineSymbol) *xmlLine {
	rec := &xmlLine{
		Color:       colorID(p.Color),
		Width:       p.Width,
		MinLength:   p.MinLength,
		Cap:         p.Cap.String(),
		CapLength:   p.CapLength,
		Join:        p.Join.String(),
		StartSymbol: p.StartSymbolID,
		EndSymbol:   p.EndSymbolID,
		DashSymbol:  p.DashSymbolID,
	}
	if p.Dash != nil {
		rec.Dash = &xmlDash{
			Length:           p.Dash.Length,
			BreakLength:      p.Dash.BreakLength,
			GroupSize:        p.Dash.GroupSize,
			GroupBreakLength: p.Dash.GroupBreakLength,
			HalfOuterDashes:  p.Dash.HalfOuterDashes,
		}
	}
	if p.Mid != nil {
		rec.Mid = &xmlMid{
			Symbol:         p.Mid.SymbolID,
			PerSpot:        p.Mid.PerSpot,
			Spacing:        p.Mid.Spacing,
			MinCount:       p.Mid.MinCount,
			MinCountClosed: p.Mid.MinCountClosed,
		}
	}
	if p.BorderLeft != nil {
		rec.Borders = append(rec.Borders, fromBorder("left", p.BorderLeft))
	}
	if p.BorderRight != nil {
		rec.Borders = append(rec.Borders, fromBorder("right", p.BorderRight))
	}
	return rec
}

func fromBorder(side string, b *symbol.Border) xmlBorder {
	return xmlBorder{
		Side:        side,
		Color:       colorID(b.Color),
		Width:       b.Width,
		Shift:       b.Shift,
		Dashed:      b.Dashed,
		DashLength:  b.DashLength,
		BreakLength: b.BreakLength,
	}
}

func fromArea(p *symbol.AreaSymbol) *xmlArea {
	rec := &xmlArea{Color: colorID(p.Color)}
	for _, fill := range p.Fills {
		rec.Fills = append(rec.Fills, xmlFill{
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

func fromText(p *symbol.TextSymbol) *xmlText {
	rec := &xmlText{
		FontFamily:       p.FontFamily,
		FontSize:         p.FontSize,
		Color:            colorID(p.Color),
		Bold:             p.Bold,
		Italic:           p.Italic,
		Underline:        p.Underline,
		LineSpacing:      p.LineSpacing,
		ParagraphSpacing: p.ParagraphSpacing,
		CharSpacing:      p.CharacterSpacing,
		Kerning:          p.Kerning,
		FramingWidth:     p.FramingWidth,
		FramingColor:     colorID(p.FramingColor),
		FramingOffsetX:   p.FramingOffset.X,
		FramingOffsetY:   p.FramingOffset.Y,
		TabStops:         floatsToString(p.TabStops),
	}
	if p.Framing != symbol.FramingNone {
		rec.Framing = p.Framing.String()
	}
	if p.LineBelow {
		rec.LineBelow = &xmlLineBelow{
			Color:    colorID(p.LineBelowColor),
			Width:    p.LineBelowWidth,
			Distance: p.LineBelowDistance,
		}
	}
	return rec
}

func fromCombined(p *symbol.CombinedSymbol) (*xmlCombined, error) {
	rec := &xmlCombined{}
	for _, part := range p.Parts {
		rp := xmlCombinedPart{Symbol: part.SymbolID}
		if part.Private != nil {
			private, err := fromSymbol(part.Private)
			if err != nil {
				return nil, err
			}
			rp.Private = private
		}
		rec.Parts = append(rec.Parts, rp)
	}
	return rec, nil
}

func fromObject(obj *mapfile.Object) xmlObject {
	rec := xmlObject{
		Symbol:   obj.SymbolID,
		Color:    obj.ColorID,
		Rotation: obj.Rotation,
		Text:     obj.Text,
		Coords: xmlCoords{
			Count: len(obj.Path),
			Data:  coordsToString(obj.Path),
		},
	}
	if len(obj.Tags) > 0 {
		tags := &xmlTags{}
		keys := maps.Keys(obj.Tags)
		slices.Sort(keys)
		for _, k := range keys {
			tags.Tags = append(tags.Tags, xmlTag{Key: k, Value: obj.Tags[k]})
		}
		rec.Tags = tags
	}
	return rec
}
