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
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/symbol"
)

// Read decodes a map from the native XML format.
func (f *Format) Read(r io.ReadSeeker, d *diagnostic.Collector) (*mapfile.Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &reader{
		data: data,
		dec:  xml.NewDecoder(bytes.NewReader(data)),
		d:    d,
		m:    &mapfile.Map{},
	}
	return p.readMap()
}

type reader struct {
	data []byte
	dec  *xml.Decoder
	d    *diagnostic.Collector
	m    *mapfile.Map

	colors map[int]*color.Color
}

func (p *reader) readMap() (*mapfile.Map, error) {
	root, err := p.findRoot()
	if err != nil {
		return nil, err
	}
	if err := p.checkVersion(root); err != nil {
		return nil, err
	}
	p.m.Scale = attrInt(root, "scale", 15000)

	sawParts := false
	err = p.children(root, func(se xml.StartElement) error {
		switch se.Name.Local {
		case "notes":
			return p.dec.DecodeElement(&p.m.Notes, &se)
		case "georeferencing":
			return p.readGeoref(se)
		case "colors":
			return p.readColors(se)
		case "symbols":
			return p.readSymbols(se)
		case "parts":
			sawParts = true
			return p.readParts(se)
		case "undo":
			return p.readUndo(se)
		default:
			return p.dec.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	if !sawParts {
		return nil, &mapfile.MalformedFileError{Err: errors.New("missing map parts")}
	}

	if err := p.m.Validate(); err != nil {
		return nil, &mapfile.MalformedFileError{Err: err}
	}
	return p.m, nil
}

// findRoot skips to the document element and checks that it is <map>.
func (p *reader) findRoot() (xml.StartElement, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return xml.StartElement{}, &mapfile.MalformedFileError{Err: err}
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local != "map" {
				return xml.StartElement{}, &mapfile.MalformedFileError{
					Err: fmt.Errorf("unexpected root element <%s>", se.Name.Local),
				}
			}
			return se, nil
		}
	}
}

// checkVersion applies the three-way version gate.
func (p *reader) checkVersion(root xml.StartElement) error {
	verString := attrString(root, "version")
	if verString == "" {
		return &mapfile.MalformedFileError{Err: errors.New("missing file format version")}
	}
	ver, err := strconv.Atoi(verString)
	if err != nil || ver <= 0 {
		return &mapfile.MalformedFileError{
			Err: fmt.Errorf("unsupported file format version %q", verString),
		}
	}
	if ver < versionMin {
		return &mapfile.VersionError{
			Format:  "omap",
			Version: ver,
			Min:     versionMin,
			Max:     versionCurrent,
		}
	}
	if ver > versionCurrent {
		p.d.Warn(diagnostic.Location{},
			"this file was created with a newer program version; some features may not be loaded or saved correctly")
	}
	return nil
}

// children calls fn for every child element of the element whose start tag
// has already been consumed.  fn must consume the child element.
func (p *reader) children(parent xml.StartElement, fn func(se xml.StartElement) error) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return &mapfile.MalformedFileError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *reader) loc(off int64) diagnostic.Location {
	line, col := lineCol(p.data, off)
	return diagnostic.Location{Line: line, Column: col}
}

func (p *reader) readGeoref(se xml.StartElement) error {
	var rec xmlGeoref
	if err := p.dec.DecodeElement(&rec, &se); err != nil {
		p.d.Error(diagnostic.Location{}, "error while loading the georeferencing: %v", err)
		return nil
	}
	g := &mapfile.Georeferencing{
		GridScaleFactor: rec.ScaleFactor,
		Declination:     rec.Declination,
		RefX:            rec.RefX,
		RefY:            rec.RefY,
	}
	if rec.Projected != nil {
		crs := strings.TrimSpace(rec.Projected.CRS)
		switch {
		case rec.Projected.Language != "PROJ":
			p.d.Warn(diagnostic.Location{},
				"unsupported coordinate reference system specification language %q; falling back to local coordinates",
				rec.Projected.Language)
		case !strings.HasPrefix(crs, "+proj="):
			p.d.Warn(diagnostic.Location{},
				"unsupported coordinate reference system %q; falling back to local coordinates",
				crs)
		default:
			g.CRSSpec = crs
		}
	}
	p.m.Georef = g
	return nil
}

func (p *reader) readColors(se xml.StartElement) error {
	var rec xmlColors
	if err := p.dec.DecodeElement(&rec, &se); err != nil {
		return &mapfile.MalformedFileError{Err: err}
	}
	if rec.Count != len(rec.Colors) {
		return &mapfile.CountMismatchError{
			Collection: "colors",
			Expected:   rec.Count,
			Found:      len(rec.Colors),
		}
	}

	p.colors = make(map[int]*color.Color, len(rec.Colors))
	for _, rc := range rec.Colors {
		if _, seen := p.colors[rc.ID]; seen {
			return &mapfile.DuplicateIDError{What: "color", ID: rc.ID}
		}
		kind, err := color.ParseKind(rc.Kind)
		if err != nil {
			return &mapfile.MalformedFileError{Err: err}
		}
		c := &color.Color{
			ID:       rc.ID,
			Name:     rc.Name,
			Kind:     kind,
			C:        rc.C,
			M:        rc.M,
			Y:        rc.Y,
			K:        rc.K,
			Opacity:  rc.Opacity,
			Knockout: rc.Knockout,
			Priority: rc.Priority,
		}
		p.colors[rc.ID] = c
		p.m.Colors = append(p.m.Colors, c)
	}

	// The spot color bindings are a separate load step: a bad binding
	// does not invalidate the color table.
	for _, rc := range rec.Colors {
		c := p.colors[rc.ID]
		for _, comp := range rc.Components {
			spot := p.colors[comp.Spot]
			if spot == nil || spot.Kind != color.Spot {
				p.d.Error(diagnostic.Location{},
					"error while loading the spot color bindings: color %d references missing spot color %d",
					rc.ID, comp.Spot)
				continue
			}
			c.Components = append(c.Components, color.Component{
				Spot:     spot,
				Fraction: comp.Fraction,
			})
		}
	}
	return nil
}

func (p *reader) readSymbols(se xml.StartElement) error {
	expected := attrInt(se, "count", -1)
	found := 0
	err := p.children(se, func(child xml.StartElement) error {
		if child.Name.Local != "symbol" {
			return p.dec.Skip()
		}
		off := p.dec.InputOffset()
		found++

		// Capture the element without interpreting its attributes, so
		// that bad attribute values inside one symbol stay local to that
		// symbol.  Only structural XML errors abort the import here.
		var raw rawSymbol
		if err := p.dec.DecodeElement(&raw, &child); err != nil {
			return &mapfile.MalformedFileError{Pos: off, Err: err}
		}
		line, col := lineCol(p.data, off)
		rec, err := raw.decode()
		if err != nil {
			p.d.Error(p.loc(off),
				"error while loading a symbol of type %s at line %d column %d: %v",
				raw.kind(), line, col, err)
			return nil
		}
		sym, err := p.toSymbol(rec)
		if err != nil {
			p.d.Error(p.loc(off),
				"error while loading a symbol of type %s at line %d column %d: %v",
				rec.Kind, line, col, err)
			return nil
		}
		if p.m.Symbol(sym.ID) != nil {
			return &mapfile.DuplicateIDError{What: "symbol", ID: sym.ID, Line: line, Column: col}
		}
		p.m.Symbols = append(p.m.Symbols, sym)
		return nil
	})
	if err != nil {
		return err
	}
	if expected >= 0 && found != expected {
		return &mapfile.CountMismatchError{
			Collection: "symbols",
			Expected:   expected,
			Found:      found,
		}
	}

	// resolution pass: drop symbols with dangling nested references
	ids := p.m.SymbolsByID()
	var kept []*symbol.Symbol
	for _, s := range p.m.Symbols {
		if err := symbol.ResolveSymbol(ids, s); err != nil {
			p.d.Error(diagnostic.Location{},
				"error while loading a symbol of type %s: %v", s.Kind(), err)
			continue
		}
		kept = append(kept, s)
	}
	p.m.Symbols = kept
	return nil
}

// rawSymbol holds one <symbol> element in undecoded form.
type rawSymbol struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Inner []byte     `xml:",innerxml"`
}

// decode re-parses the captured element as an xmlSymbol.
func (raw *rawSymbol) decode() (*xmlSymbol, error) {
	buf := &bytes.Buffer{}
	buf.WriteString("<symbol")
	for _, a := range raw.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name.Local)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
	buf.Write(raw.Inner)
	buf.WriteString("</symbol>")

	rec := &xmlSymbol{}
	if err := xml.Unmarshal(buf.Bytes(), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// kind returns the symbol's kind attribute, for diagnostics.
func (raw *rawSymbol) kind() string {
	for _, a := range raw.Attrs {
		if a.Name.Local == "kind" {
			return a.Value
		}
	}
	return "unknown"
}

func (p *reader) readParts(se xml.StartElement) error {
	expected := attrInt(se, "count", -1)
	found := 0
	err := p.children(se, func(child xml.StartElement) error {
		if child.Name.Local != "part" {
			return p.dec.Skip()
		}
		found++
		part := &mapfile.Part{Name: attrString(child, "name")}
		p.m.Parts = append(p.m.Parts, part)
		return p.children(child, func(sub xml.StartElement) error {
			if sub.Name.Local != "objects" {
				return p.dec.Skip()
			}
			return p.readObjects(sub, part)
		})
	})
	if err != nil {
		return err
	}
	if expected >= 0 && found != expected {
		return &mapfile.CountMismatchError{
			Collection: "map parts",
			Expected:   expected,
			Found:      found,
		}
	}
	return nil
}

func (p *reader) readObjects(se xml.StartElement, part *mapfile.Part) error {
	expected := attrInt(se, "count", -1)
	found := 0
	symbols := p.m.SymbolsByID()
	err := p.children(se, func(child xml.StartElement) error {
		if child.Name.Local != "object" {
			return p.dec.Skip()
		}
		off := p.dec.InputOffset()
		found++
		var rec xmlObject
		if err := p.dec.DecodeElement(&rec, &child); err != nil {
			return &mapfile.MalformedFileError{Pos: off, Err: err}
		}

		path, err := coordsFromString(rec.Coords.Data)
		if err != nil {
			return &mapfile.MalformedFileError{Pos: off, Err: err}
		}
		if rec.Coords.Count != len(path) {
			return &mapfile.CountMismatchError{
				Collection: "coordinates",
				Expected:   rec.Coords.Count,
				Found:      len(path),
			}
		}

		obj := &mapfile.Object{
			SymbolID: rec.Symbol,
			ColorID:  rec.Color,
			Path:     path,
			Rotation: rec.Rotation,
			Text:     rec.Text,
		}

		line, col := lineCol(p.data, off)
		sym, ok := symbols[rec.Symbol]
		if !ok {
			p.d.Error(p.loc(off),
				"unable to find symbol for object at %d:%d", line, col)
			return nil
		}
		if !obj.CompatibleWith(sym.Kind()) {
			p.d.Error(p.loc(off),
				"dropping object with mismatched %s symbol at %d:%d",
				sym.Kind(), line, col)
			return nil
		}
		if rec.Color != 0 && p.colors[rec.Color] == nil {
			p.d.Error(p.loc(off),
				"unable to find color %d for object at %d:%d", rec.Color, line, col)
			return nil
		}
		if rec.Tags != nil && len(rec.Tags.Tags) > 0 {
			obj.Tags = make(map[string]string, len(rec.Tags.Tags))
			for _, tag := range rec.Tags.Tags {
				obj.Tags[tag.Key] = tag.Value
			}
		}
		part.Objects = append(part.Objects, obj)
		return nil
	})
	if err != nil {
		return err
	}
	if expected >= 0 && found != expected {
		return &mapfile.CountMismatchError{
			Collection: "objects",
			Expected:   expected,
			Found:      found,
		}
	}
	return nil
}

func (p *reader) readUndo(se xml.StartElement) error {
	var rec xmlUndo
	if err := p.dec.DecodeElement(&rec, &se); err != nil {
		p.d.Error(diagnostic.Location{}, "error while loading the undo history: %v", err)
		return nil
	}
	if rec.Count != len(rec.Steps) {
		p.d.Error(diagnostic.Location{},
			"error while loading the undo history: expected %d steps, found %d",
			rec.Count, len(rec.Steps))
		return nil
	}
	for _, step := range rec.Steps {
		p.m.Undo = append(p.m.Undo, mapfile.UndoStep{
			Kind: step.Kind,
			Data: strings.TrimSpace(step.Data),
		})
	}
	return nil
}

func (p *reader) toSymbol(rec *xmlSymbol) (*symbol.Symbol, error) {
	s := &symbol.Symbol{
		ID:          rec.ID,
		Number:      rec.Number,
		Name:        rec.Name,
		Description: rec.Description,
	}
	kind, err := symbol.ParseKind(rec.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case symbol.Point:
		if rec.Point == nil {
			return nil, errors.New("missing point symbol payload")
		}
		s.Payload, err = p.toPoint(rec.Point)
	case symbol.Line:
		if rec.Line == nil {
			return nil, errors.New("missing line symbol payload")
		}
		s.Payload, err = p.toLine(rec.Line)
	case symbol.Area:
		if rec.Area == nil {
			return nil, errors.New("missing area symbol payload")
		}
		s.Payload, err = p.toArea(rec.Area)
	case symbol.Text:
		if rec.Text == nil {
			return nil, errors.New("missing text symbol payload")
		}
		s.Payload, err = p.toText(rec.Text)
	case symbol.Combined:
		if rec.Combined == nil {
			return nil, errors.New("missing combined symbol payload")
		}
		s.Payload, err = p.toCombined(rec.Combined)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// colorRef resolves a color attribute.  Zero means "no color".
func (p *reader) colorRef(id int) (*color.Color, error) {
	if id == 0 {
		return nil, nil
	}
	c := p.colors[id]
	if c == nil {
		return nil, fmt.Errorf("unknown color %d", id)
	}
	return c, nil
}

func (p *reader) toPoint(rec *xmlPoint) (*symbol.PointSymbol, error) {
	res := &symbol.PointSymbol{Rotatable: rec.Rotatable}
	for _, re := range rec.Elements {
		kind, err := symbol.ParseElementKind(re.Kind)
		if err != nil {
			return nil, err
		}
		c, err := p.colorRef(re.Color)
		if err != nil {
			return nil, err
		}
		coords, err := vecsFromString(re.Coords)
		if err != nil {
			return nil, err
		}
		if kind == symbol.ElementCircle && len(coords) != 1 {
			return nil, errors.New("circle element needs exactly one coordinate")
		}
		res.Elements = append(res.Elements, symbol.Element{
			Kind:      kind,
			Color:     c,
			LineWidth: re.LineWidth,
			Diameter:  re.Diameter,
			Filled:    re.Filled,
			Coords:    coords,
		})
	}
	return res, nil
}

func (p *reader) toLine(rec *xmlLine) (*symbol.LineSymbol, error) {
	c, err := p.colorRef(rec.Color)
	if err != nil {
		return nil, err
	}
	cap, err := symbol.ParseCapStyle(rec.Cap)
	if err != nil {
		return nil, err
	}
	join, err := symbol.ParseJoinStyle(rec.Join)
	if err != nil {
		return nil, err
	}
	res := &symbol.LineSymbol{
		Color:         c,
		Width:         rec.Width,
		MinLength:     rec.MinLength,
		Cap:           cap,
		CapLength:     rec.CapLength,
		Join:          join,
		StartSymbolID: rec.StartSymbol,
		EndSymbolID:   rec.EndSymbol,
		DashSymbolID:  rec.DashSymbol,
	}
	if rec.Dash != nil {
		groupSize := rec.Dash.GroupSize
		if groupSize == 0 {
			groupSize = 1
		}
		if groupSize < 1 || groupSize > 4 {
			return nil, fmt.Errorf("invalid dash group size %d", groupSize)
		}
		res.Dash = &symbol.Dash{
			Length:           rec.Dash.Length,
			BreakLength:      rec.Dash.BreakLength,
			GroupSize:        groupSize,
			GroupBreakLength: rec.Dash.GroupBreakLength,
			HalfOuterDashes:  rec.Dash.HalfOuterDashes,
		}
	}
	if rec.Mid != nil {
		res.Mid = &symbol.MidSymbol{
			SymbolID:       rec.Mid.Symbol,
			PerSpot:        rec.Mid.PerSpot,
			Spacing:        rec.Mid.Spacing,
			MinCount:       rec.Mid.MinCount,
			MinCountClosed: rec.Mid.MinCountClosed,
		}
	}
	for i := range rec.Borders {
		rb := &rec.Borders[i]
		bc, err := p.colorRef(rb.Color)
		if err != nil {
			return nil, err
		}
		border := &symbol.Border{
			Color:       bc,
			Width:       rb.Width,
			Shift:       rb.Shift,
			Dashed:      rb.Dashed,
			DashLength:  rb.DashLength,
			BreakLength: rb.BreakLength,
		}
		switch rb.Side {
		case "left":
			res.BorderLeft = border
		case "right":
			res.BorderRight = border
		default:
			return nil, fmt.Errorf("unknown border side %q", rb.Side)
		}
	}
	return res, nil
}

func (p *reader) toArea(rec *xmlArea) (*symbol.AreaSymbol, error) {
	c, err := p.colorRef(rec.Color)
	if err != nil {
		return nil, err
	}
	res := &symbol.AreaSymbol{Color: c}
	for _, rf := range rec.Fills {
		kind, err := symbol.ParseFillKind(rf.Kind)
		if err != nil {
			return nil, err
		}
		res.Fills = append(res.Fills, symbol.Fill{
			Kind:            kind,
			SymbolID:        rf.Symbol,
			Spacing:         rf.Spacing,
			ColumnSpacing:   rf.ColumnSpacing,
			Offset:          vec.Vec2{X: rf.OffsetX, Y: rf.OffsetY},
			Rotation:        rf.Rotation,
			RotatePerObject: rf.RotatePerObject,
			ShiftedRows:     rf.ShiftedRows,
		})
	}
	return res, nil
}

func (p *reader) toText(rec *xmlText) (*symbol.TextSymbol, error) {
	c, err := p.colorRef(rec.Color)
	if err != nil {
		return nil, err
	}
	framing := symbol.FramingNone
	if rec.Framing != "" {
		framing, err = symbol.ParseFramingMode(rec.Framing)
		if err != nil {
			return nil, err
		}
	}
	framingColor, err := p.colorRef(rec.FramingColor)
	if err != nil {
		return nil, err
	}
	tabStops, err := floatsFromString(rec.TabStops)
	if err != nil {
		return nil, err
	}
	res := &symbol.TextSymbol{
		FontFamily:       rec.FontFamily,
		FontSize:         rec.FontSize,
		Color:            c,
		Bold:             rec.Bold,
		Italic:           rec.Italic,
		Underline:        rec.Underline,
		LineSpacing:      rec.LineSpacing,
		ParagraphSpacing: rec.ParagraphSpacing,
		CharacterSpacing: rec.CharSpacing,
		Kerning:          rec.Kerning,
		Framing:          framing,
		FramingWidth:     rec.FramingWidth,
		FramingColor:     framingColor,
		FramingOffset:    vec.Vec2{X: rec.FramingOffsetX, Y: rec.FramingOffsetY},
		TabStops:         tabStops,
	}
	if rec.LineBelow != nil {
		lc, err := p.colorRef(rec.LineBelow.Color)
		if err != nil {
			return nil, err
		}
		res.LineBelow = true
		res.LineBelowColor = lc
		res.LineBelowWidth = rec.LineBelow.Width
		res.LineBelowDistance = rec.LineBelow.Distance
	}
	return res, nil
}

func (p *reader) toCombined(rec *xmlCombined) (*symbol.CombinedSymbol, error) {
	res := &symbol.CombinedSymbol{}
	for _, rp := range rec.Parts {
		part := symbol.CombinedPart{SymbolID: rp.Symbol}
		if rp.Private != nil {
			private, err := p.toSymbol(rp.Private)
			if err != nil {
				return nil, err
			}
			part.Private = private
		}
		res.Parts = append(res.Parts, part)
	}
	return res, nil
}

func attrString(se xml.StartElement, name string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func attrInt(se xml.StartElement, name string, missing int) int {
	s := attrString(se, name)
	if s == "" {
		return missing
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return missing
	}
	return v
}

func lineCol(data []byte, off int64) (line, col int) {
	line, col = 1, 1
	if off > int64(len(data)) {
		off = int64(len(data))
	}
	for i := int64(0); i < off; i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
