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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/symbol"
)

func init() {
	mapfile.Register(&Format{})
}

// Read decodes a map from the structured binary format.
func (f *Format) Read(r io.ReadSeeker, d *diagnostic.Collector) (*mapfile.Map, error) {
	p := &reader{r: r, d: d, m: &mapfile.Map{}}
	return p.readMap()
}

type reader struct {
	r   io.ReadSeeker
	d   *diagnostic.Collector
	m   *mapfile.Map
	pos int64

	colors map[int]*color.Color
}

func (p *reader) readMap() (*mapfile.Map, error) {
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(p.r, head); err != nil {
		return nil, &mapfile.MalformedFileError{Err: err}
	}
	if !bytes.Equal(head, magic) {
		return nil, &mapfile.MalformedFileError{Err: errors.New("missing OBMF signature")}
	}
	var version uint16
	if err := binary.Read(p.r, binary.LittleEndian, &version); err != nil {
		return nil, &mapfile.MalformedFileError{Err: err}
	}
	if version < versionMin || version > versionMax {
		return nil, &mapfile.VersionError{
			Format:  "obf",
			Version: int(version),
			Min:     versionMin,
			Max:     versionMax,
		}
	}
	p.pos = int64(len(magic)) + 2

	seen := make(map[[4]byte]bool)
	for {
		var tag [4]byte
		if _, err := io.ReadFull(p.r, tag[:]); err == io.EOF {
			break
		} else if err != nil {
			return nil, &mapfile.MalformedFileError{Pos: p.pos, Err: err}
		}
		var length uint32
		if err := binary.Read(p.r, binary.LittleEndian, &length); err != nil {
			return nil, &mapfile.MalformedFileError{Pos: p.pos, Err: err}
		}
		payload := make([]byte, length)
		if _, err := io.ReadFull(p.r, payload); err != nil {
			return nil, &mapfile.MalformedFileError{Pos: p.pos, Err: err}
		}
		chunkPos := p.pos
		p.pos += 8 + int64(length)
		seen[tag] = true

		var err error
		switch tag {
		case chunkInfo:
			err = p.readInfo(payload)
		case chunkGeoref:
			err = p.readGeoref(payload)
		case chunkColors:
			err = p.readColors(payload)
		case chunkSymbols:
			err = p.readSymbols(payload, chunkPos)
		case chunkParts:
			err = p.readParts(payload, chunkPos)
		default:
			p.d.Warn(diagnostic.Location{Offset: chunkPos},
				"ignoring unknown chunk %q", string(tag[:]))
		}
		if err != nil {
			return nil, err
		}
	}

	for _, tag := range [][4]byte{chunkInfo, chunkColors, chunkSymbols, chunkParts} {
		if !seen[tag] {
			return nil, &mapfile.MalformedFileError{
				Err: fmt.Errorf("missing %q chunk", string(tag[:])),
			}
		}
	}

	if err := p.m.Validate(); err != nil {
		return nil, &mapfile.MalformedFileError{Err: err}
	}
	return p.m, nil
}

func (p *reader) readInfo(payload []byte) error {
	var rec infoRec
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return &mapfile.MalformedFileError{Err: err}
	}
	p.m.Scale = rec.Scale
	if p.m.Scale == 0 {
		p.m.Scale = 15000
	}
	p.m.Notes = rec.Notes
	return nil
}

func (p *reader) readGeoref(payload []byte) error {
	var rec georefRec
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		p.d.Error(diagnostic.Location{}, "error while loading the georeferencing: %v", err)
		return nil
	}
	p.m.Georef = &mapfile.Georeferencing{
		CRSSpec:         rec.CRS,
		GridScaleFactor: rec.ScaleFactor,
		Declination:     rec.Declination,
		RefX:            rec.RefX,
		RefY:            rec.RefY,
	}
	return nil
}

func (p *reader) readColors(payload []byte) error {
	var recs []colorRec
	if err := msgpack.Unmarshal(payload, &recs); err != nil {
		return &mapfile.MalformedFileError{Err: err}
	}
	p.colors = make(map[int]*color.Color, len(recs))
	for _, rc := range recs {
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
			C:        rc.CMYK[0],
			M:        rc.CMYK[1],
			Y:        rc.CMYK[2],
			K:        rc.CMYK[3],
			Opacity:  rc.Opacity,
			Knockout: rc.Knockout,
			Priority: rc.Priority,
		}
		p.colors[rc.ID] = c
		p.m.Colors = append(p.m.Colors, c)
	}
	// spot color bindings
	for _, rc := range recs {
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

func (p *reader) readSymbols(payload []byte, chunkPos int64) error {
	var recs []symbolRec
	if err := msgpack.Unmarshal(payload, &recs); err != nil {
		return &mapfile.MalformedFileError{Pos: chunkPos, Err: err}
	}
	loc := diagnostic.Location{Offset: chunkPos}
	for i := range recs {
		rec := &recs[i]
		sym, err := p.toSymbol(rec)
		if err != nil {
			p.d.Error(loc, "error while loading a symbol of type %s: %v", rec.Kind, err)
			continue
		}
		if p.m.Symbol(sym.ID) != nil {
			return &mapfile.DuplicateIDError{What: "symbol", ID: sym.ID, Pos: chunkPos}
		}
		p.m.Symbols = append(p.m.Symbols, sym)
	}

	ids := p.m.SymbolsByID()
	var kept []*symbol.Symbol
	for _, s := range p.m.Symbols {
		if err := symbol.ResolveSymbol(ids, s); err != nil {
			p.d.Error(loc, "error while loading a symbol of type %s: %v", s.Kind(), err)
			continue
		}
		kept = append(kept, s)
	}
	p.m.Symbols = kept
	return nil
}

func (p *reader) readParts(payload []byte, chunkPos int64) error {
	var recs []partRec
	if err := msgpack.Unmarshal(payload, &recs); err != nil {
		return &mapfile.MalformedFileError{Pos: chunkPos, Err: err}
	}
	loc := diagnostic.Location{Offset: chunkPos}
	symbols := p.m.SymbolsByID()
	for _, rp := range recs {
		part := &mapfile.Part{Name: rp.Name}
		for i := range rp.Objects {
			ro := &rp.Objects[i]
			obj := &mapfile.Object{
				SymbolID: ro.Symbol,
				Rotation: ro.Rotation,
				Text:     ro.Text,
				Tags:     ro.Tags,
			}
			for _, rc := range ro.Coords {
				obj.Path = append(obj.Path, mapfile.Coord{
					X:     rc.X,
					Y:     rc.Y,
					Flags: mapfile.CoordFlags(rc.Flags),
				})
			}

			sym, ok := symbols[ro.Symbol]
			if !ok {
				p.d.Error(loc, "unable to find symbol %d for object %d in part %q",
					ro.Symbol, i+1, rp.Name)
				p.d.Count(diagnostic.SkippedObjects)
				continue
			}
			if !obj.CompatibleWith(sym.Kind()) {
				p.d.Error(loc, "dropping object %d in part %q: geometry does not match a %s symbol",
					i+1, rp.Name, sym.Kind())
				p.d.Count(diagnostic.SkippedObjects)
				continue
			}

			// Unlike unresolved symbol references, an unresolved
			// color reference does not invalidate the object.
			if ro.Color != 0 {
				if p.colors[ro.Color] == nil {
					p.d.Warn(loc, "no color with id %d, color ignored", ro.Color)
				} else {
					obj.ColorID = ro.Color
				}
			}

			part.Objects = append(part.Objects, obj)
		}
		p.m.Parts = append(p.m.Parts, part)
	}
	return nil
}

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

func (p *reader) toSymbol(rec *symbolRec) (*symbol.Symbol, error) {
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

func (p *reader) toPoint(rec *pointRec) (*symbol.PointSymbol, error) {
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
		el := symbol.Element{
			Kind:      kind,
			Color:     c,
			LineWidth: re.LineWidth,
			Diameter:  re.Diameter,
			Filled:    re.Filled,
		}
		for _, xy := range re.Coords {
			el.Coords = append(el.Coords, vec.Vec2{X: xy[0], Y: xy[1]})
		}
		if kind == symbol.ElementCircle && len(el.Coords) != 1 {
			return nil, errors.New("circle element needs exactly one coordinate")
		}
		res.Elements = append(res.Elements, el)
	}
	return res, nil
}

func (p *reader) toLine(rec *lineRec) (*symbol.LineSymbol, error) {
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
		if rec.Dash.GroupSize < 1 || rec.Dash.GroupSize > 4 {
			return nil, fmt.Errorf("invalid dash group size %d", rec.Dash.GroupSize)
		}
		res.Dash = &symbol.Dash{
			Length:           rec.Dash.Length,
			BreakLength:      rec.Dash.BreakLength,
			GroupSize:        rec.Dash.GroupSize,
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

func (p *reader) toArea(rec *areaRec) (*symbol.AreaSymbol, error) {
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

func (p *reader) toText(rec *textRec) (*symbol.TextSymbol, error) {
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
	return &symbol.TextSymbol{
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
		TabStops:         rec.TabStops,
	}, nil
}

func (p *reader) toCombined(rec *combinedRec) (*symbol.CombinedSymbol, error) {
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
