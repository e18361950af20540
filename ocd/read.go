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
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/internal/approx"
	"seehuhn.de/go/mapfile/symbol"
)

func init() {
	mapfile.Register(&Format{ImportSpotColors: true})
}

// errUntested aborts the decoding of a single record when the file version
// is newer than the newest tested version.  The record is skipped and
// counted instead of failing the whole import.
var errUntested = errors.New("untested construct")

// Read decodes a map from the legacy binary format.
func (f *Format) Read(r io.ReadSeeker, d *diagnostic.Collector) (*mapfile.Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize {
		return nil, &mapfile.MalformedFileError{Err: io.ErrUnexpectedEOF}
	}
	var hdr fileHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &hdr); err != nil {
		return nil, &mapfile.MalformedFileError{Err: err}
	}
	if hdr.Magic != fileMagic {
		return nil, &mapfile.MalformedFileError{Err: errors.New("missing file signature")}
	}
	if hdr.Version < versionMin {
		return nil, &mapfile.VersionError{
			Format:  "ocd",
			Version: int(hdr.Version),
			Min:     versionMin,
			Max:     versionMax,
		}
	}

	p := &parser{
		data:     data,
		d:        d,
		f:        f,
		untested: hdr.Version > versionMax,
		m:        &mapfile.Map{Scale: int(hdr.Scale)},
	}
	if p.untested {
		d.Warn(diagnostic.Location{},
			"file version %d is newer than the newest tested version %d, trying to continue",
			hdr.Version, versionMax)
	}
	if p.m.Scale == 0 {
		p.m.Scale = 15000
	}

	p.readNotes(hdr)
	p.readColors(hdr)
	p.readSymbols(hdr)
	p.readParts(hdr)
	if p.err != nil {
		return nil, p.err
	}

	if err := p.m.Validate(); err != nil {
		return nil, &mapfile.MalformedFileError{Err: err}
	}
	return p.m, nil
}

type parser struct {
	data     []byte
	pos      int
	err      error
	d        *diagnostic.Collector
	f        *Format
	untested bool

	m            *mapfile.Map
	colors       map[int]*color.Color
	skippedSpots map[int]bool
}

// unknown reports an unknown construct.  For tested file versions this is
// fatal; for untested versions the construct is counted and skipped.
func (p *parser) unknown(pos int, format string, args ...interface{}) error {
	if p.untested {
		p.d.Count(diagnostic.UntestedVersion)
		return errUntested
	}
	return &mapfile.MalformedFileError{
		Pos: int64(pos),
		Err: fmt.Errorf(format, args...),
	}
}

func (p *parser) need(n int) bool {
	if p.err != nil {
		return false
	}
	if p.pos+n > len(p.data) || p.pos+n < p.pos {
		p.err = &mapfile.MalformedFileError{
			Pos: int64(p.pos),
			Err: io.ErrUnexpectedEOF,
		}
		return false
	}
	return true
}

func (p *parser) u8() uint8 {
	if !p.need(1) {
		return 0
	}
	v := p.data[p.pos]
	p.pos++
	return v
}

func (p *parser) u16() uint16 {
	if !p.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(p.data[p.pos:])
	p.pos += 2
	return v
}

func (p *parser) u32() uint32 {
	if !p.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(p.data[p.pos:])
	p.pos += 4
	return v
}

func (p *parser) s32() int32 {
	return int32(p.u32())
}

func (p *parser) mm() float64 {
	return fromUnits(p.s32())
}

func (p *parser) bool() bool {
	return p.u8() != 0
}

// str reads a length-prefixed Windows-1252 string.
func (p *parser) str() string {
	n := int(p.u8())
	if !p.need(n) {
		return ""
	}
	raw := p.data[p.pos : p.pos+n]
	p.pos += n
	runes := make([]rune, n)
	for i, b := range raw {
		runes[i] = charmap.Windows1252.DecodeByte(b)
	}
	return string(runes)
}

// seek positions the parser at an absolute section offset.
func (p *parser) seek(off uint32) bool {
	if p.err != nil {
		return false
	}
	if int64(off) > int64(len(p.data)) {
		p.err = &mapfile.MalformedFileError{
			Pos: int64(off),
			Err: errors.New("section offset outside the file"),
		}
		return false
	}
	p.pos = int(off)
	return true
}

func (p *parser) readNotes(hdr fileHeader) {
	if hdr.NotesOff == 0 || !p.seek(hdr.NotesOff) {
		return
	}
	p.m.Notes = p.str()
}

func (p *parser) readColors(hdr fileHeader) {
	if !p.seek(hdr.ColorOff) {
		return
	}
	p.colors = make(map[int]*color.Color)
	p.skippedSpots = make(map[int]bool)

	type binding struct {
		color    *color.Color
		spot     int
		fraction float64
	}
	var bindings []binding

	for i := 0; i < int(hdr.ColorCount) && p.err == nil; i++ {
		recPos := p.pos
		id := int(p.s32())
		kindByte := p.u8()
		c := &color.Color{
			ID:      id,
			C:       float64(p.u16()) / 1000,
			M:       float64(p.u16()) / 1000,
			Y:       float64(p.u16()) / 1000,
			K:       float64(p.u16()) / 1000,
			Opacity: float64(p.u16()) / 1000,
		}
		c.Knockout = p.bool()
		c.Name = p.str()
		numComponents := int(p.u8())
		for j := 0; j < numComponents; j++ {
			spot := int(p.s32())
			fraction := float64(p.u16()) / 1000
			bindings = append(bindings, binding{c, spot, fraction})
		}
		if p.err != nil {
			return
		}

		switch kindByte {
		case uint8(color.Spot), uint8(color.CMYK), uint8(color.RGB):
			c.Kind = color.Kind(kindByte)
		default:
			err := p.unknown(recPos, "unknown color kind %d", kindByte)
			if err == errUntested {
				c.Kind = color.CMYK
			} else {
				p.err = err
				return
			}
		}

		if c.Kind == color.Spot && !p.f.ImportSpotColors {
			p.skippedSpots[id] = true
			p.d.Count(diagnostic.SkippedSeparations)
			continue
		}
		if c.Name == color.RegistrationName {
			c.Kind = color.Registration
			p.d.Warn(diagnostic.Location{Offset: int64(recPos)},
				"color %q imported as a special color", c.Name)
		}
		if _, seen := p.colors[id]; seen {
			p.err = &mapfile.DuplicateIDError{What: "color", ID: id, Pos: int64(recPos)}
			return
		}
		c.Priority = len(p.m.Colors)
		p.colors[id] = c
		p.m.Colors = append(p.m.Colors, c)
	}

	for _, b := range bindings {
		if p.colors[b.color.ID] == nil {
			continue // the mixture itself was skipped
		}
		spot := p.colors[b.spot]
		if spot == nil {
			if !p.skippedSpots[b.spot] {
				p.d.Error(diagnostic.Location{},
					"error while loading the spot color bindings: color %d references missing spot color %d",
					b.color.ID, b.spot)
			}
			continue
		}
		if spot.Kind != color.Spot {
			p.d.Error(diagnostic.Location{},
				"error while loading the spot color bindings: color %d is not a spot color", b.spot)
			continue
		}
		b.color.Components = append(b.color.Components, color.Component{
			Spot:     spot,
			Fraction: b.fraction,
		})
	}
}

func (p *parser) readSymbols(hdr fileHeader) {
	if !p.seek(hdr.SymbolOff) {
		return
	}
	for i := 0; i < int(hdr.SymbolCount) && p.err == nil; i++ {
		recPos := p.pos
		size := p.u32()
		if !p.need(int(size)) {
			return
		}
		end := p.pos + int(size)

		sym, err := p.symbolRecord(recPos)
		if err == errUntested {
			p.pos = end
			continue
		} else if err != nil {
			p.err = err
			return
		}
		p.pos = end

		if p.m.Symbol(sym.ID) != nil {
			p.err = &mapfile.DuplicateIDError{
				What: "symbol",
				ID:   sym.ID,
				Pos:  int64(recPos),
			}
			return
		}
		p.m.Symbols = append(p.m.Symbols, sym)
	}
	if p.err != nil {
		return
	}

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
}

// symbolRecord parses one symbol, without the leading size field.
func (p *parser) symbolRecord(recPos int) (*symbol.Symbol, error) {
	s := &symbol.Symbol{
		ID: int(p.s32()),
	}
	kindByte := p.u8()
	s.Number = p.str()
	s.Name = p.str()
	s.Description = p.str()
	if p.err != nil {
		return nil, p.err
	}

	var err error
	switch symbol.Kind(kindByte) {
	case symbol.Point:
		s.Payload, err = p.pointPayload()
	case symbol.Line:
		s.Payload, err = p.linePayload(s, recPos)
	case symbol.Area:
		s.Payload, err = p.areaPayload(s, recPos)
	case symbol.Text:
		s.Payload, err = p.textPayload(s, recPos)
	case symbol.Combined:
		s.Payload, err = p.combinedPayload(recPos)
	default:
		err = p.unknown(recPos, "unknown symbol kind %d", kindByte)
	}
	if err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	return s, nil
}

func (p *parser) colorRef() *color.Color {
	id := int(p.s32())
	if id == 0 {
		return nil
	}
	return p.colors[id] // nil for skipped separations; caught by Validate
}

func (p *parser) pointPayload() (*symbol.PointSymbol, error) {
	res := &symbol.PointSymbol{
		Rotatable: p.bool(),
	}
	numElements := int(p.u16())
	for i := 0; i < numElements && p.err == nil; i++ {
		elPos := p.pos
		kindByte := p.u8()
		el := symbol.Element{
			Color:     p.colorRef(),
			LineWidth: p.mm(),
			Diameter:  p.mm(),
			Filled:    p.bool(),
		}
		numCoords := int(p.u16())
		for j := 0; j < numCoords && p.err == nil; j++ {
			el.Coords = append(el.Coords, vec.Vec2{X: p.mm(), Y: p.mm()})
		}

		switch symbol.ElementKind(kindByte) {
		case symbol.ElementLine, symbol.ElementArea, symbol.ElementCircle:
			el.Kind = symbol.ElementKind(kindByte)
		default:
			if err := p.unknown(elPos, "unknown element kind %d", kindByte); err != errUntested {
				return nil, err
			}
			continue
		}
		res.Elements = append(res.Elements, el)
	}
	return res, nil
}

var capStyles = map[uint8]symbol.CapStyle{
	0: symbol.CapFlat,
	1: symbol.CapRound,
	2: symbol.CapPointed,
}

var joinStyles = map[uint8]symbol.JoinStyle{
	0: symbol.JoinBevel,
	1: symbol.JoinMiter,
	2: symbol.JoinRound,
}

const (
	lineDashed = 1 << iota
	lineMid
	lineBorderLeft
	lineBorderRight
)

func (p *parser) linePayload(s *symbol.Symbol, recPos int) (*symbol.LineSymbol, error) {
	res := &symbol.LineSymbol{
		Color:     p.colorRef(),
		Width:     p.mm(),
		MinLength: p.mm(),
	}
	capByte := p.u8()
	joinByte := p.u8()
	capLenBegin := p.mm()
	capLenEnd := p.mm()
	res.StartSymbolID = int(p.s32())
	res.EndSymbolID = int(p.s32())
	res.DashSymbolID = int(p.s32())
	flags := p.u8()

	var ok bool
	if res.Cap, ok = capStyles[capByte]; !ok {
		return nil, p.unknown(recPos, "unknown cap style %d", capByte)
	}
	if res.Join, ok = joinStyles[joinByte]; !ok {
		return nil, p.unknown(recPos, "unknown join style %d", joinByte)
	}

	if res.Cap == symbol.CapPointed {
		chosen, changed := approx.PointedCapLength(capLenBegin, capLenEnd)
		if changed {
			p.d.Warn(diagnostic.Location{Offset: int64(recPos)},
				"symbol %s: differing pointed cap lengths %g and %g at the line ends, using %g",
				s.Number, capLenBegin, capLenEnd, chosen)
		}
		res.CapLength = chosen
	}

	if flags&lineDashed != 0 {
		mainLen := p.mm()
		mainGap := p.mm()
		endLen := p.mm()
		endGap := p.mm()
		groupSize := int(p.u8())
		groupGap := p.mm()
		halfOuter := p.bool()

		length, gap, changed := approx.DashEnds(mainLen, mainGap, endLen, endGap)
		if changed {
			p.d.Warn(diagnostic.Location{Offset: int64(recPos)},
				"symbol %s: differing dash dimensions at the line ends, using length %g and gap %g",
				s.Number, length, gap)
		}
		if groupSize < 1 || groupSize > 4 {
			return nil, p.unknown(recPos, "invalid dash group size %d", groupSize)
		}
		res.Dash = &symbol.Dash{
			Length:           length,
			BreakLength:      gap,
			GroupSize:        groupSize,
			GroupBreakLength: groupGap,
			HalfOuterDashes:  halfOuter,
		}
	}
	if flags&lineMid != 0 {
		res.Mid = &symbol.MidSymbol{
			SymbolID:       int(p.s32()),
			PerSpot:        int(p.u8()),
			Spacing:        p.mm(),
			MinCount:       int(p.u8()),
			MinCountClosed: int(p.u8()),
		}
	}
	if flags&lineBorderLeft != 0 {
		res.BorderLeft = p.border()
	}
	if flags&lineBorderRight != 0 {
		res.BorderRight = p.border()
	}
	return res, nil
}

func (p *parser) border() *symbol.Border {
	return &symbol.Border{
		Color:       p.colorRef(),
		Width:       p.mm(),
		Shift:       p.mm(),
		Dashed:      p.bool(),
		DashLength:  p.mm(),
		BreakLength: p.mm(),
	}
}

func (p *parser) areaPayload(s *symbol.Symbol, recPos int) (*symbol.AreaSymbol, error) {
	res := &symbol.AreaSymbol{
		Color: p.colorRef(),
	}
	numFills := int(p.u8())
	for i := 0; i < numFills && p.err == nil; i++ {
		fillPos := p.pos
		kindByte := p.u8()
		fill := symbol.Fill{
			SymbolID:      int(p.s32()),
			Spacing:       p.mm(),
			ColumnSpacing: p.mm(),
			Offset:        vec.Vec2{X: p.mm(), Y: p.mm()},
			Rotation:      p.mm(), // stored in 1/1000 degree
		}
		fill.RotatePerObject = p.bool()
		rowOffset := p.mm()

		switch symbol.FillKind(kindByte) {
		case symbol.FillHatch, symbol.FillPattern:
			fill.Kind = symbol.FillKind(kindByte)
		default:
			if err := p.unknown(fillPos, "unknown fill kind %d", kindByte); err != errUntested {
				return nil, err
			}
			continue
		}
		if fill.Kind == symbol.FillPattern && rowOffset != 0 {
			// The format stores a plain offset; it cannot say how the
			// rows are arranged.
			fill.ShiftedRows = true
			p.d.Warn(diagnostic.Location{Offset: int64(recPos)},
				"symbol %s (%s): pattern rows are offset by %g mm, assuming a shifted-rows arrangement",
				s.Number, s.Name, rowOffset)
		}
		res.Fills = append(res.Fills, fill)
	}
	return res, nil
}

func (p *parser) textPayload(s *symbol.Symbol, recPos int) (*symbol.TextSymbol, error) {
	res := &symbol.TextSymbol{
		Color:      p.colorRef(),
		FontFamily: p.str(),
		FontSize:   p.mm(),
	}
	res.Bold = p.bool()
	res.Italic = p.bool()
	res.LineSpacing = p.mm()
	res.ParagraphSpacing = p.mm()
	res.CharacterSpacing = p.mm()
	if p.bool() {
		res.LineBelow = true
		res.LineBelowColor = p.colorRef()
		res.LineBelowWidth = p.mm()
		res.LineBelowDistance = p.mm()
	}
	numTabs := int(p.u8())
	for i := 0; i < numTabs && p.err == nil; i++ {
		res.TabStops = append(res.TabStops, p.mm())
	}

	if res.CharacterSpacing != 0 {
		p.d.Warn(diagnostic.Location{Offset: int64(recPos)},
			"symbol %s (%s): the character spacing %g is kept, but other programs render it differently",
			s.Number, s.Name, res.CharacterSpacing)
	}
	return res, nil
}

func (p *parser) combinedPayload(recPos int) (*symbol.CombinedSymbol, error) {
	res := &symbol.CombinedSymbol{}
	numParts := int(p.u8())
	for i := 0; i < numParts && p.err == nil; i++ {
		shared := int(p.s32())
		part := symbol.CombinedPart{SymbolID: shared}
		if shared == 0 {
			subPos := p.pos
			size := p.u32()
			if !p.need(int(size)) {
				return nil, p.err
			}
			end := p.pos + int(size)
			private, err := p.symbolRecord(subPos)
			if err != nil {
				return nil, err
			}
			p.pos = end
			part.Private = private
		}
		res.Parts = append(res.Parts, part)
	}
	return res, nil
}

func (p *parser) readParts(hdr fileHeader) {
	if !p.seek(hdr.PartOff) {
		return
	}
	if hdr.PartCount == 0 {
		p.err = &mapfile.MalformedFileError{Err: errors.New("map without parts")}
		return
	}
	symbols := p.m.SymbolsByID()
	for i := 0; i < int(hdr.PartCount) && p.err == nil; i++ {
		part := &mapfile.Part{Name: p.str()}
		numObjects := int(p.u32())
		for j := 0; j < numObjects && p.err == nil; j++ {
			obj := p.object(symbols, j+1, part.Name)
			if obj != nil {
				part.Objects = append(part.Objects, obj)
			}
		}
		p.m.Parts = append(p.m.Parts, part)
	}
}

// object parses one object record.  A nil result means the object was
// skipped; the parser continues with the next record.
func (p *parser) object(symbols map[int]*symbol.Symbol, index int, partName string) *mapfile.Object {
	recPos := p.pos
	size := p.u32()
	if !p.need(int(size)) {
		return nil
	}
	end := p.pos + int(size)
	defer func() { p.pos = end }()

	loc := diagnostic.Location{Offset: int64(recPos)}
	skip := func(format string, args ...interface{}) *mapfile.Object {
		p.d.Error(loc, format, args...)
		p.d.Count(diagnostic.SkippedObjects)
		return nil
	}

	obj := &mapfile.Object{
		SymbolID: int(p.s32()),
	}
	kindByte := p.u8()
	obj.Rotation = p.mm() // stored in 1/1000 degree
	obj.Text = p.str()
	numCoords := int(p.u32())
	for j := 0; j < numCoords && p.err == nil; j++ {
		xPacked := p.s32()
		yPacked := p.s32()
		x, flags := unpackCoord(xPacked)
		y, _ := unpackCoord(yPacked)
		obj.Path = append(obj.Path, mapfile.Coord{
			X:     x,
			Y:     y,
			Flags: mapfile.CoordFlags(flags),
		})
	}
	if p.err != nil {
		return nil
	}

	switch kindByte {
	case objPath:
		// nothing special
	case objText:
		if n := len(obj.Path); n != 1 && n != 4 {
			return skip("skipping text object %d in part %q: unknown coordinate layout (%d coordinates)",
				index, partName, n)
		}
	case objRectangle:
		if n := len(obj.Path); n != 4 {
			return skip("skipping rectangle object %d in part %q: %d corners instead of 4",
				index, partName, n)
		}
	default:
		if p.untested {
			p.d.Count(diagnostic.UntestedVersion)
			return nil
		}
		return skip("skipping object %d in part %q: unknown object kind %d",
			index, partName, kindByte)
	}

	sym, ok := symbols[obj.SymbolID]
	if !ok {
		return skip("unable to find symbol %d for object %d in part %q",
			obj.SymbolID, index, partName)
	}
	if !obj.CompatibleWith(sym.Kind()) {
		return skip("dropping object %d in part %q: geometry does not match a %s symbol",
			index, partName, sym.Kind())
	}
	return obj
}
