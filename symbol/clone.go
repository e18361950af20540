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

import (
	"golang.org/x/exp/slices"
)

// Clone implements the [Payload] interface.
func (s *PointSymbol) Clone() Payload {
	dup := *s
	dup.Elements = slices.Clone(s.Elements)
	for i := range dup.Elements {
		dup.Elements[i].Coords = slices.Clone(dup.Elements[i].Coords)
	}
	return &dup
}

// Clone implements the [Payload] interface.
func (s *LineSymbol) Clone() Payload {
	dup := *s
	if s.Dash != nil {
		d := *s.Dash
		dup.Dash = &d
	}
	if s.Mid != nil {
		m := *s.Mid
		dup.Mid = &m
	}
	if s.BorderLeft != nil {
		b := *s.BorderLeft
		dup.BorderLeft = &b
	}
	if s.BorderRight != nil {
		b := *s.BorderRight
		dup.BorderRight = &b
	}
	return &dup
}

// Clone implements the [Payload] interface.
func (s *AreaSymbol) Clone() Payload {
	dup := *s
	dup.Fills = slices.Clone(s.Fills)
	return &dup
}

// Clone implements the [Payload] interface.
func (s *TextSymbol) Clone() Payload {
	dup := *s
	dup.TabStops = slices.Clone(s.TabStops)
	return &dup
}

// Clone implements the [Payload] interface.
func (s *CombinedSymbol) Clone() Payload {
	dup := *s
	dup.Parts = slices.Clone(s.Parts)
	for i, part := range dup.Parts {
		if part.Private != nil {
			dup.Parts[i].Private = part.Private.Clone()
		}
	}
	return &dup
}
