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

package mapfile

import (
	"errors"
	"fmt"

	"seehuhn.de/go/mapfile/color"
	"seehuhn.de/go/mapfile/symbol"
)

// Part is a named, ordered subset of a map's objects.  Parts organize
// large maps into independently toggleable layers.
type Part struct {
	// Name is unique within the map.
	Name string

	Objects []*Object
}

// Georeferencing relates paper coordinates to the real world.  The codecs
// store and restore this information but do not interpret it.
type Georeferencing struct {
	// CRSSpec describes the projected coordinate reference system as a
	// PROJ specification string.  An empty string means an unreferenced,
	// local map.
	CRSSpec string

	// GridScaleFactor is the combined scale factor of the projection at
	// the reference point.
	GridScaleFactor float64

	// Declination is the magnetic declination at the reference point, in
	// degrees.
	Declination float64

	// RefX, RefY is the reference point in projected coordinates.
	RefX, RefY float64
}

// UndoStep is one opaque entry of the saved undo history.  Only the native
// format stores undo history.
type UndoStep struct {
	Kind string
	Data string
}

// Map is the in-memory representation of one map file.
type Map struct {
	// Scale is the denominator of the map scale, e.g. 15000.
	Scale int

	// Notes is free-form text attached to the map.
	Notes string

	// Georef is nil for maps without georeferencing information.
	Georef *Georeferencing

	// Colors is ordered by priority: Colors[i].Priority == i holds after
	// Normalize.
	Colors []*color.Color

	Symbols []*symbol.Symbol

	// Parts contains at least one entry.
	Parts []*Part

	// Undo is the saved undo history, if any.
	Undo []UndoStep
}

// New creates an empty map with a single default part.
func New() *Map {
	return &Map{
		Scale: 15000,
		Parts: []*Part{{Name: "default part"}},
	}
}

// Color returns the color with the given ID, or nil.
func (m *Map) Color(id int) *color.Color {
	for _, c := range m.Colors {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Symbol returns the symbol with the given ID, or nil.
func (m *Map) Symbol(id int) *symbol.Symbol {
	for _, s := range m.Symbols {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SymbolsByID returns the map's symbols keyed by ID, for use with
// [symbol.Resolve].
func (m *Map) SymbolsByID() map[int]*symbol.Symbol {
	res := make(map[int]*symbol.Symbol, len(m.Symbols))
	for _, s := range m.Symbols {
		res[s.ID] = s
	}
	return res
}

// Part returns the part with the given name, or nil.
func (m *Map) Part(name string) *Part {
	for _, p := range m.Parts {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddColor inserts c into the color table at priority pos.  The priorities
// of the following colors shift up by one.  If c has no ID yet, a fresh ID
// is assigned.
func (m *Map) AddColor(c *color.Color, pos int) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Kind == color.Registration {
		for _, old := range m.Colors {
			if old.Kind == color.Registration {
				return errors.New("map already has a registration color")
			}
		}
	}
	if c.ID != 0 && m.Color(c.ID) != nil {
		return &DuplicateIDError{What: "color", ID: c.ID}
	}
	if c.ID == 0 {
		c.ID = m.nextColorID()
	}
	if pos < 0 || pos > len(m.Colors) {
		pos = len(m.Colors)
	}
	m.Colors = append(m.Colors, nil)
	copy(m.Colors[pos+1:], m.Colors[pos:])
	m.Colors[pos] = c
	m.renumberColors()
	return nil
}

// DeleteColor removes the color with the given ID.  The deletion is
// refused while any symbol or object still references the color.
func (m *Map) DeleteColor(id int) error {
	c := m.Color(id)
	if c == nil {
		return fmt.Errorf("no color with ID %d", id)
	}
	if user := m.colorUser(c); user != "" {
		return fmt.Errorf("color %q is still used by %s", c.Name, user)
	}
	for i, old := range m.Colors {
		if old == c {
			m.Colors = append(m.Colors[:i], m.Colors[i+1:]...)
			break
		}
	}
	m.renumberColors()
	return nil
}

// AddSymbol appends s to the symbol set.  If s has no ID yet, a fresh ID
// is assigned.
func (m *Map) AddSymbol(s *symbol.Symbol) error {
	if s.Payload == nil {
		return errors.New("symbol without payload")
	}
	if s.ID != 0 && m.Symbol(s.ID) != nil {
		return &DuplicateIDError{What: "symbol", ID: s.ID}
	}
	if s.ID == 0 {
		s.ID = m.nextSymbolID()
	}
	m.Symbols = append(m.Symbols, s)
	return nil
}

// DuplicateSymbol adds a deep copy of the symbol with the given ID and
// returns the copy.  The copy gets a fresh ID and can be edited without
// affecting the original.
func (m *Map) DuplicateSymbol(id int) (*symbol.Symbol, error) {
	orig := m.Symbol(id)
	if orig == nil {
		return nil, fmt.Errorf("no symbol with ID %d", id)
	}
	dup := orig.Clone()
	dup.ID = m.nextSymbolID()
	m.Symbols = append(m.Symbols, dup)
	return dup, nil
}

// DeleteSymbol removes the symbol with the given ID.  If cascade is true,
// all objects drawn with the symbol are removed as well; otherwise the
// deletion is refused while such objects exist.  Deletion is always
// refused while another symbol references this one.
func (m *Map) DeleteSymbol(id int, cascade bool) error {
	s := m.Symbol(id)
	if s == nil {
		return fmt.Errorf("no symbol with ID %d", id)
	}
	if other := m.symbolUser(id); other != nil {
		return fmt.Errorf("symbol %d is still used by symbol %d", id, other.ID)
	}

	inUse := false
	for _, part := range m.Parts {
		for _, obj := range part.Objects {
			if obj.SymbolID == id {
				inUse = true
			}
		}
	}
	if inUse && !cascade {
		return fmt.Errorf("symbol %d is still used by objects", id)
	}
	if inUse {
		for _, part := range m.Parts {
			kept := part.Objects[:0]
			for _, obj := range part.Objects {
				if obj.SymbolID != id {
					kept = append(kept, obj)
				}
			}
			part.Objects = kept
		}
	}

	for i, old := range m.Symbols {
		if old == s {
			m.Symbols = append(m.Symbols[:i], m.Symbols[i+1:]...)
			break
		}
	}
	return nil
}

// AddPart appends a new, empty part with the given name.
func (m *Map) AddPart(name string) (*Part, error) {
	if m.Part(name) != nil {
		return nil, fmt.Errorf("map already has a part named %q", name)
	}
	p := &Part{Name: name}
	m.Parts = append(m.Parts, p)
	return p, nil
}

// DeletePart removes the named part and all its objects.  The last
// remaining part cannot be deleted.
func (m *Map) DeletePart(name string) error {
	if len(m.Parts) <= 1 {
		return errors.New("cannot delete the last map part")
	}
	for i, p := range m.Parts {
		if p.Name == name {
			m.Parts = append(m.Parts[:i], m.Parts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no part named %q", name)
}

// Validate checks the referential integrity of the whole map: unique IDs
// and priorities, resolvable symbol and color references, and at least one
// part.
func (m *Map) Validate() error {
	if len(m.Parts) == 0 {
		return errors.New("map without parts")
	}

	colorIDs := make(map[int]bool)
	priorities := make(map[int]bool)
	registration := false
	for _, c := range m.Colors {
		if err := c.Validate(); err != nil {
			return err
		}
		if colorIDs[c.ID] {
			return &DuplicateIDError{What: "color", ID: c.ID}
		}
		colorIDs[c.ID] = true
		if priorities[c.Priority] {
			return fmt.Errorf("duplicate color priority %d", c.Priority)
		}
		priorities[c.Priority] = true
		if c.Kind == color.Registration {
			if registration {
				return errors.New("more than one registration color")
			}
			registration = true
		}
	}

	symbols := make(map[int]*symbol.Symbol, len(m.Symbols))
	numbers := make(map[string]bool)
	for _, s := range m.Symbols {
		if _, seen := symbols[s.ID]; seen {
			return &DuplicateIDError{What: "symbol", ID: s.ID}
		}
		symbols[s.ID] = s
		if s.Number != "" {
			if numbers[s.Number] {
				return fmt.Errorf("duplicate symbol number %q", s.Number)
			}
			numbers[s.Number] = true
		}
	}
	if err := symbol.Resolve(symbols); err != nil {
		return err
	}

	names := make(map[string]bool)
	for _, p := range m.Parts {
		if names[p.Name] {
			return fmt.Errorf("duplicate part name %q", p.Name)
		}
		names[p.Name] = true
		for _, obj := range p.Objects {
			if _, ok := symbols[obj.SymbolID]; !ok {
				return fmt.Errorf("object references missing symbol %d", obj.SymbolID)
			}
			if obj.ColorID != 0 && !colorIDs[obj.ColorID] {
				return fmt.Errorf("object references missing color %d", obj.ColorID)
			}
		}
	}
	return nil
}

func (m *Map) nextColorID() int {
	next := 1
	for _, c := range m.Colors {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

func (m *Map) nextSymbolID() int {
	next := 1
	for _, s := range m.Symbols {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

func (m *Map) renumberColors() {
	for i, c := range m.Colors {
		c.Priority = i
	}
}

// colorUser returns a description of one user of c, or "" if c is unused.
func (m *Map) colorUser(c *color.Color) string {
	for _, other := range m.Colors {
		for _, comp := range other.Components {
			if comp.Spot == c {
				return fmt.Sprintf("color %q", other.Name)
			}
		}
	}
	for _, s := range m.Symbols {
		if symbolUsesColor(s, c) {
			return fmt.Sprintf("symbol %d", s.ID)
		}
	}
	for _, part := range m.Parts {
		for _, obj := range part.Objects {
			if obj.ColorID == c.ID {
				return "an object"
			}
		}
	}
	return ""
}

func symbolUsesColor(s *symbol.Symbol, c *color.Color) bool {
	switch p := s.Payload.(type) {
	case *symbol.PointSymbol:
		for _, el := range p.Elements {
			if el.Color == c {
				return true
			}
		}
	case *symbol.LineSymbol:
		if p.Color == c {
			return true
		}
		for _, b := range []*symbol.Border{p.BorderLeft, p.BorderRight} {
			if b != nil && b.Color == c {
				return true
			}
		}
	case *symbol.AreaSymbol:
		if p.Color == c {
			return true
		}
	case *symbol.TextSymbol:
		if p.Color == c || p.FramingColor == c || p.LineBelowColor == c {
			return true
		}
	case *symbol.CombinedSymbol:
		for _, part := range p.Parts {
			if part.Private != nil && symbolUsesColor(part.Private, c) {
				return true
			}
		}
	}
	return false
}

// symbolUser returns a symbol which references the symbol with the given
// ID, or nil.
func (m *Map) symbolUser(id int) *symbol.Symbol {
	for _, s := range m.Symbols {
		if s.ID == id {
			continue
		}
		if symbolUsesSymbol(s, id) {
			return s
		}
	}
	return nil
}

func symbolUsesSymbol(s *symbol.Symbol, id int) bool {
	switch p := s.Payload.(type) {
	case *symbol.LineSymbol:
		if p.Mid != nil && p.Mid.SymbolID == id {
			return true
		}
		if p.StartSymbolID == id || p.EndSymbolID == id || p.DashSymbolID == id {
			return true
		}
	case *symbol.AreaSymbol:
		for _, fill := range p.Fills {
			if fill.SymbolID == id {
				return true
			}
		}
	case *symbol.CombinedSymbol:
		for _, part := range p.Parts {
			if part.SymbolID == id {
				return true
			}
			if part.Private != nil && symbolUsesSymbol(part.Private, id) {
				return true
			}
		}
	}
	return false
}
