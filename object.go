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

import "seehuhn.de/go/mapfile/symbol"

// Object is one geometric object of a map.
type Object struct {
	// SymbolID references the symbol the object is drawn with.  The
	// symbol must exist in the same map, and its kind must be compatible
	// with the object's geometry.
	SymbolID int

	// ColorID optionally overrides the symbol's color for this object.
	// Zero means no override.  Not all file formats can store this.
	ColorID int

	// Path is the object's geometry.  Point objects have a single
	// coordinate.
	Path []Coord

	// Rotation is the orientation of rotatable point objects, in degrees
	// counterclockwise.
	Rotation float64

	// Text is the content of text objects.
	Text string

	// Tags are free-form key/value annotations.  Keys are unique; a nil
	// map means no tags.
	Tags map[string]string
}

// CompatibleWith reports whether the object's geometry can be drawn with a
// symbol of the given kind.
func (obj *Object) CompatibleWith(kind symbol.Kind) bool {
	n := len(obj.Path)
	switch kind {
	case symbol.Point:
		return n == 1
	case symbol.Text:
		return n == 1 || n == 4
	case symbol.Line, symbol.Area, symbol.Combined:
		return n >= 2
	}
	return false
}
