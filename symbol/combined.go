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

package symbol

// CombinedPart is one component of a combined symbol.  Exactly one of
// SymbolID and Private must be set.
type CombinedPart struct {
	// SymbolID references a shared symbol of the same map.  Zero if the
	// part is private.
	SymbolID int

	// Private is a sub-symbol owned by the combined symbol.  It does not
	// appear in the map's symbol set.
	Private *Symbol
}

// CombinedSymbol is the payload of a combined symbol.  It draws its parts
// on top of each other, in list order.
type CombinedSymbol struct {
	// Parts has at least one entry.
	Parts []CombinedPart
}

// Kind implements the [Payload] interface.
func (s *CombinedSymbol) Kind() Kind { return Combined }
