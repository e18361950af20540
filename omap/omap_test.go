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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/symbol"
)

// testMap builds a map using every feature the native format stores.
func testMap(t *testing.T) *mapfile.Map {
	t.Helper()
	m := mapfile.New()
	m.Scale = 10000
	m.Notes = "field work 2025"
	m.Georef = &mapfile.Georeferencing{
		CRSSpec:         "+proj=utm +zone=32 +datum=WGS84",
		GridScaleFactor: 1.0003,
		Declination:     2.5,
		RefX:            652000,
		RefY:            5189000,
	}

	black := &color.Color{Name: "black", Kind: color.CMYK, K: 1, Opacity: 1}
	green := &color.Color{Name: "green", Kind: color.Spot, C: 0.76, Y: 0.9, Opacity: 1}
	mix := &color.Color{Name: "green 50%", Kind: color.Spot, C: 0.38, Y: 0.45, Opacity: 1}
	reg := color.NewRegistration()
	for _, c := range []*color.Color{black, green, mix, reg} {
		if err := m.AddColor(c, len(m.Colors)); err != nil {
			t.Fatal(err)
		}
	}
	mix.Components = []color.Component{{Spot: green, Fraction: 0.5}}

	dot := &symbol.Symbol{
		Number: "101", Name: "knoll",
		Payload: &symbol.PointSymbol{
			Rotatable: true,
			Elements: []symbol.Element{
				{Kind: symbol.ElementCircle, Color: black, LineWidth: 0.18, Diameter: 0.6, Coords: []vec.Vec2{{X: 0, Y: 0}}},
				{Kind: symbol.ElementLine, Color: black, LineWidth: 0.18, Coords: []vec.Vec2{{X: -0.5, Y: 0}, {X: 0.5, Y: 0}}},
				{Kind: symbol.ElementArea, Color: green, Coords: []vec.Vec2{{X: 0, Y: -0.4}, {X: 0.4, Y: 0.4}, {X: -0.4, Y: 0.4}}},
			},
		},
	}
	if err := m.AddSymbol(dot); err != nil {
		t.Fatal(err)
	}

	path := &symbol.Symbol{
		Number: "505", Name: "footpath", Description: "a small path",
		Payload: &symbol.LineSymbol{
			Color:     black,
			Width:     0.35,
			MinLength: 1.2,
			Cap:       symbol.CapPointed,
			CapLength: 1.1,
			Join:      symbol.JoinBevel,
			Dash: &symbol.Dash{
				Length:           2,
				BreakLength:      0.5,
				GroupSize:        3,
				GroupBreakLength: 0.25,
				HalfOuterDashes:  true,
			},
			Mid:           &symbol.MidSymbol{SymbolID: dot.ID, PerSpot: 2, Spacing: 0.4, MinCount: 1, MinCountClosed: 2},
			StartSymbolID: dot.ID,
			DashSymbolID:  dot.ID,
			BorderLeft:    &symbol.Border{Color: green, Width: 0.12, Shift: 0.3},
			BorderRight:   &symbol.Border{Color: black, Width: 0.12, Shift: 0.3, Dashed: true, DashLength: 1, BreakLength: 0.5},
		},
	}
	if err := m.AddSymbol(path); err != nil {
		t.Fatal(err)
	}

	forest := &symbol.Symbol{
		Number: "405", Name: "forest",
		Payload: &symbol.AreaSymbol{
			Color: green,
			Fills: []symbol.Fill{
				{Kind: symbol.FillHatch, SymbolID: path.ID, Spacing: 1.5, Rotation: 45},
				{
					Kind: symbol.FillPattern, SymbolID: dot.ID,
					Spacing: 3, ColumnSpacing: 2.5,
					Offset:          vec.Vec2{X: 0.5, Y: 0.25},
					RotatePerObject: true,
					ShiftedRows:     true,
				},
			},
		},
	}
	if err := m.AddSymbol(forest); err != nil {
		t.Fatal(err)
	}

	label := &symbol.Symbol{
		Number: "701", Name: "control number",
		Payload: &symbol.TextSymbol{
			FontFamily:       "Arial",
			FontSize:         4.2,
			Color:            black,
			Bold:             true,
			Underline:        true,
			LineSpacing:      1.1,
			ParagraphSpacing: 0.8,
			CharacterSpacing: 0.07,
			Kerning:          true,
			Framing:          symbol.FramingShadow,
			FramingColor:     green,
			FramingOffset:    vec.Vec2{X: 0.2, Y: 0.2},
			TabStops:         []float64{10, 25.5},
			LineBelow:        true,
			LineBelowColor:   black,
			LineBelowWidth:   0.1, LineBelowDistance: 0.5,
		},
	}
	if err := m.AddSymbol(label); err != nil {
		t.Fatal(err)
	}

	combo := &symbol.Symbol{
		Number: "519", Name: "fence with posts",
		Payload: &symbol.CombinedSymbol{
			Parts: []symbol.CombinedPart{
				{SymbolID: path.ID},
				{Private: &symbol.Symbol{
					Number:  "519.1",
					Payload: &symbol.LineSymbol{Color: black, Width: 0.18, Cap: symbol.CapFlat, Join: symbol.JoinMiter},
				}},
			},
		},
	}
	if err := m.AddSymbol(combo); err != nil {
		t.Fatal(err)
	}

	m.Parts[0].Name = "main"
	m.Parts[0].Objects = []*mapfile.Object{
		{SymbolID: dot.ID, Path: []mapfile.Coord{{X: 1500, Y: -2500}}, Rotation: 45},
		{
			SymbolID: path.ID,
			Path: []mapfile.Coord{
				{X: 0, Y: 0},
				{X: 1000, Y: 0, Flags: mapfile.CurveStart},
				{X: 2000, Y: 500},
				{X: 3000, Y: 500},
				{X: 4000, Y: 0, Flags: mapfile.DashPoint},
			},
			Tags: map[string]string{"source": "survey", "status": "checked"},
		},
		{
			SymbolID: label.ID,
			ColorID:  black.ID,
			Path:     []mapfile.Coord{{X: 500, Y: 500}},
			Text:     "31",
		},
	}
	if _, err := m.AddPart("draft"); err != nil {
		t.Fatal(err)
	}
	m.Part("draft").Objects = []*mapfile.Object{
		{SymbolID: forest.ID, Path: []mapfile.Coord{
			{X: 0, Y: 0},
			{X: 5000, Y: 0},
			{X: 5000, Y: 5000, Flags: mapfile.ClosePoint},
		}},
	}

	m.Undo = []mapfile.UndoStep{
		{Kind: "object-added", Data: "part=main;index=2"},
		{Kind: "symbol-changed", Data: "id=2"},
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	m := testMap(t)
	f := &Format{}

	buf := &bytes.Buffer{}
	d := diagnostic.New()
	if err := f.Write(buf, m, d); err != nil {
		t.Fatal(err)
	}
	if !d.Empty() {
		t.Errorf("unexpected diagnostics on write: %v", d.Entries())
	}

	d2 := diagnostic.New()
	m2, err := f.Read(bytes.NewReader(buf.Bytes()), d2)
	if err != nil {
		t.Fatal(err)
	}
	if !d2.Empty() {
		t.Errorf("unexpected diagnostics on read: %v", d2.Entries())
	}
	if diff := cmp.Diff(m, m2); diff != "" {
		t.Errorf("round trip changed the map (-want +got):\n%s", diff)
	}
}

func TestMatch(t *testing.T) {
	f := &Format{}
	if !f.Match([]byte("<?xml version=\"1.0\"?>")) {
		t.Error("xml head not matched")
	}
	if !f.Match([]byte("\xef\xbb\xbf<?xml vers")) {
		t.Error("BOM head not matched")
	}
	if f.Match([]byte("OBMF\x2c\x01")) {
		t.Error("binary head matched")
	}
}

const minimalHead = `<?xml version="1.0" encoding="UTF-8"?>`

func decodeString(t *testing.T, body string) (*mapfile.Map, *diagnostic.Collector, error) {
	t.Helper()
	f := &Format{}
	d := diagnostic.New()
	m, err := f.Read(strings.NewReader(minimalHead+body), d)
	return m, d, err
}

func TestVersionGate(t *testing.T) {
	const body = `
<colors count="0"></colors>
<symbols count="0"></symbols>
<parts count="1"><part name="p"></part></parts>
</map>`

	// minimum supported version loads
	if _, d, err := decodeString(t, `<map version="2" scale="15000">`+body); err != nil {
		t.Errorf("version 2: %v", err)
	} else if !d.Empty() {
		t.Errorf("version 2: unexpected diagnostics")
	}

	// below minimum fails with a version error
	_, _, err := decodeString(t, `<map version="1" scale="15000">`+body)
	var verr *mapfile.VersionError
	if !errors.As(err, &verr) || !verr.TooOld() {
		t.Errorf("version 1: expected too-old VersionError, got %v", err)
	}

	// above current loads with a warning
	_, d, err := decodeString(t, `<map version="10" scale="15000">`+body)
	if err != nil {
		t.Errorf("version 10: %v", err)
	} else if len(d.Warnings()) == 0 {
		t.Error("version 10: missing forward compatibility warning")
	}

	// malformed version is fatal
	_, _, err = decodeString(t, `<map version="new" scale="15000">`+body)
	var merr *mapfile.MalformedFileError
	if !errors.As(err, &merr) {
		t.Errorf("bad version: expected MalformedFileError, got %v", err)
	}
}

func TestCountMismatch(t *testing.T) {
	body := `<map version="9" scale="15000">
<colors count="3">
 <color id="1" name="black" kind="cmyk" c="0" m="0" y="0" k="1" opacity="1" priority="0"></color>
 <color id="2" name="blue" kind="cmyk" c="1" m="0.5" y="0" k="0" opacity="1" priority="1"></color>
</colors>
<symbols count="0"></symbols>
<parts count="1"><part name="p"></part></parts>
</map>`
	m, _, err := decodeString(t, body)
	var cerr *mapfile.CountMismatchError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if cerr.Expected != 3 || cerr.Found != 2 {
		t.Errorf("wrong counts: %v", cerr)
	}
	if m != nil {
		t.Error("map returned despite fatal error")
	}
}

func TestSkipAndContinue(t *testing.T) {
	body := `<map version="9" scale="15000">
<colors count="1">
 <color id="1" name="black" kind="cmyk" c="0" m="0" y="0" k="1" opacity="1" priority="0"></color>
</colors>
<symbols count="1">
 <symbol id="1" kind="point" number="101"><point></point></symbol>
</symbols>
<parts count="1"><part name="p"><objects count="5">
 <object symbol="1"><coords count="1">0 0</coords></object>
 <object symbol="1"><coords count="1">100 100</coords></object>
 <object symbol="99"><coords count="1">200 200</coords></object>
 <object symbol="1"><coords count="1">300 300</coords></object>
 <object symbol="1"><coords count="1">400 400</coords></object>
</objects></part></parts>
</map>`
	m, d, err := decodeString(t, body)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(m.Parts[0].Objects); n != 4 {
		t.Errorf("wrong number of objects: %d", n)
	}
	errs := d.Errors()
	if len(errs) != 1 {
		t.Fatalf("wrong number of recoverable errors: %v", errs)
	}
	if !strings.Contains(errs[0], "unable to find symbol for object") {
		t.Errorf("wrong message: %q", errs[0])
	}
}

func TestDuplicateSymbolID(t *testing.T) {
	body := `<map version="9" scale="15000">
<colors count="0"></colors>
<symbols count="2">
 <symbol id="7" kind="point" number="101"><point></point></symbol>
 <symbol id="7" kind="point" number="102"><point></point></symbol>
</symbols>
<parts count="1"><part name="p"></part></parts>
</map>`
	_, _, err := decodeString(t, body)
	var derr *mapfile.DuplicateIDError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	if derr.ID != 7 || derr.Line == 0 {
		t.Errorf("wrong error details: %v", derr)
	}
}

func TestBadSymbolIsSkipped(t *testing.T) {
	body := `<map version="9" scale="15000">
<colors count="0"></colors>
<symbols count="2">
 <symbol id="1" kind="line" number="101"><line color="99" width="0.35" cap="flat" join="bevel"></line></symbol>
 <symbol id="2" kind="point" number="102"><point></point></symbol>
</symbols>
<parts count="1"><part name="p"></part></parts>
</map>`
	m, d, err := decodeString(t, body)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Symbols) != 1 || m.Symbols[0].ID != 2 {
		t.Errorf("wrong surviving symbols: %v", m.Symbols)
	}
	errs := d.Errors()
	if len(errs) != 1 || !strings.Contains(errs[0], "error while loading a symbol of type line at line") {
		t.Errorf("wrong diagnostics: %v", errs)
	}
}

func TestBadSymbolAttributeIsSkipped(t *testing.T) {
	body := `<map version="9" scale="15000">
<colors count="1">
 <color id="1" name="black" kind="cmyk" c="0" m="0" y="0" k="1" opacity="1" priority="0"></color>
</colors>
<symbols count="2">
 <symbol id="1" kind="line" number="101"><line color="1" width="abc" cap="flat" join="bevel"></line></symbol>
 <symbol id="2" kind="point" number="102"><point></point></symbol>
</symbols>
<parts count="1"><part name="p"></part></parts>
</map>`
	m, d, err := decodeString(t, body)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Symbols) != 1 || m.Symbols[0].ID != 2 {
		t.Errorf("wrong surviving symbols: %v", m.Symbols)
	}
	errs := d.Errors()
	if len(errs) != 1 || !strings.Contains(errs[0], "error while loading a symbol of type line at line") {
		t.Errorf("wrong diagnostics: %v", errs)
	}
}

func TestCRSFallback(t *testing.T) {
	body := `<map version="9" scale="15000">
<georeferencing scale-factor="1"><projected language="WKT">GEOGCS[something]</projected></georeferencing>
<colors count="0"></colors>
<symbols count="0"></symbols>
<parts count="1"><part name="p"></part></parts>
</map>`
	m, d, err := decodeString(t, body)
	if err != nil {
		t.Fatal(err)
	}
	if m.Georef == nil || m.Georef.CRSSpec != "" {
		t.Error("expected fallback to local coordinates")
	}
	warnings := d.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "WKT") {
		t.Errorf("warning must name the offending specification: %v", warnings)
	}
}
