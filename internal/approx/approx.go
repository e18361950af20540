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

// Package approx holds the approximation rules shared by the binary
// interchange codecs.
//
// Each rule is a pure function of the feature value, so that the rules can
// be tested in isolation from file parsing.  The rules are deterministic:
// converting the same map twice yields the same approximations and the
// same diagnostics.
package approx

import "seehuhn.de/go/mapfile/symbol"

// PointedCapLength reconciles differing pointed-cap lengths at the two line
// ends.  The begin length always wins.  changed is true if end differed
// and a warning should be recorded citing begin, end and the chosen value.
func PointedCapLength(begin, end float64) (chosen float64, changed bool) {
	return begin, begin != end
}

// DashEnds collapses separate dash length/gap values at the line ends into
// the main values.  changed is true if a warning should be recorded.
func DashEnds(length, gap, endLength, endGap float64) (l, g float64, changed bool) {
	return length, gap, endLength != length || endGap != gap
}

// MaxGroupSize is the largest dash group size the binary interchange
// formats can represent.
const MaxGroupSize = 2

// GroupSize truncates dash group sizes to MaxGroupSize.  changed is true
// if a warning citing the original count should be recorded.
func GroupSize(n int) (int, bool) {
	if n > MaxGroupSize {
		return MaxGroupSize, true
	}
	return n, false
}

// CapJoin returns the closest cap/join combination representable in the
// binary interchange formats.  The formats support flat and pointed caps
// with bevel joins, round caps with round joins, and flat caps with miter
// joins.  changed is true if the combination was replaced.
func CapJoin(cap symbol.CapStyle, join symbol.JoinStyle) (symbol.CapStyle, symbol.JoinStyle, bool) {
	c, j := cap, join
	if c == symbol.CapSquare {
		c = symbol.CapFlat
	}
	switch {
	case c == symbol.CapRound && j != symbol.JoinRound:
		j = symbol.JoinRound
	case c != symbol.CapRound && j == symbol.JoinRound:
		j = symbol.JoinBevel
	case c == symbol.CapPointed && j == symbol.JoinMiter:
		j = symbol.JoinBevel
	}
	return c, j, c != cap || j != join
}

// TruncationMarker is inserted into diagnostic messages at the point where
// an overlong string was cut.  The stored string never contains the
// marker.
const TruncationMarker = "..."

// TruncateString shortens s to at most max runes.  marked is the original
// string with TruncationMarker inserted at the cut, for use in the
// diagnostic message; it equals s if nothing was cut.
func TruncateString(s string, max int) (stored, marked string, truncated bool) {
	runes := []rune(s)
	if len(runes) <= max {
		return s, s, false
	}
	stored = string(runes[:max])
	marked = stored + TruncationMarker + string(runes[max:])
	return stored, marked, true
}
