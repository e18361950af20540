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

// Package symbol implements the drawing symbols of a map.
//
// A symbol describes how objects referencing it are drawn.  There are five
// kinds of symbols: point, line, area, text and combined symbols.  The kind
// is given by the dynamic type of the symbol's payload.
//
// Symbols can reference other symbols, for example the point symbol
// repeated along a dashed line.  Such references are stored as symbol
// identifiers rather than pointers, and are checked by [Resolve] after all
// symbols of a map have been constructed.
package symbol

import (
	"errors"
	"strconv"
)

// Kind enumerates the five symbol kinds.
type Kind int

const (
	Point Kind = iota + 1
	Line
	Area
	Text
	Combined
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Line:
		return "line"
	case Area:
		return "area"
	case Text:
		return "text"
	case Combined:
		return "combined"
	}
	return "symbol.Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "point":
		return Point, nil
	case "line":
		return Line, nil
	case "area":
		return Area, nil
	case "text":
		return Text, nil
	case "combined":
		return Combined, nil
	}
	return 0, errors.New("unknown symbol kind " + strconv.Quote(s))
}

// Payload holds the kind-specific attributes of a symbol.  The possible
// dynamic types are [*PointSymbol], [*LineSymbol], [*AreaSymbol],
// [*TextSymbol] and [*CombinedSymbol].
type Payload interface {
	Kind() Kind

	// Clone returns a deep copy of the payload.  Referenced colors are
	// shared between the original and the copy.
	Clone() Payload
}

// Symbol is one entry of a map's symbol set.
type Symbol struct {
	// ID is a stable identifier, unique among the symbols of a map.
	// It is preserved across load and save.
	ID int

	// Number is the human-facing symbol code, for example "101" or
	// "516.1".  Numbers are unique among the symbols of a map.
	Number string

	// Name is the display name of the symbol.
	Name string

	// Description is an optional, longer help text.
	Description string

	Payload Payload
}

// Kind returns the symbol's kind, or 0 if the symbol has no payload.
func (s *Symbol) Kind() Kind {
	if s.Payload == nil {
		return 0
	}
	return s.Payload.Kind()
}

// Clone returns a deep copy of the symbol.  The copy shares no mutable
// state with the original, except for referenced colors.
func (s *Symbol) Clone() *Symbol {
	dup := *s
	if s.Payload != nil {
		dup.Payload = s.Payload.Clone()
	}
	return &dup
}
