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
	"errors"
	"strconv"
)

// ParseCapStyle is the inverse of CapStyle.String.
func ParseCapStyle(s string) (CapStyle, error) {
	switch s {
	case "flat":
		return CapFlat, nil
	case "round":
		return CapRound, nil
	case "square":
		return CapSquare, nil
	case "pointed":
		return CapPointed, nil
	}
	return 0, errors.New("unknown cap style " + strconv.Quote(s))
}

// ParseJoinStyle is the inverse of JoinStyle.String.
func ParseJoinStyle(s string) (JoinStyle, error) {
	switch s {
	case "bevel":
		return JoinBevel, nil
	case "miter":
		return JoinMiter, nil
	case "round":
		return JoinRound, nil
	}
	return 0, errors.New("unknown join style " + strconv.Quote(s))
}

// ParseFramingMode is the inverse of FramingMode.String.
func ParseFramingMode(s string) (FramingMode, error) {
	switch s {
	case "none":
		return FramingNone, nil
	case "line":
		return FramingLine, nil
	case "shadow":
		return FramingShadow, nil
	}
	return 0, errors.New("unknown framing mode " + strconv.Quote(s))
}

// ParseFillKind is the inverse of FillKind.String.
func ParseFillKind(s string) (FillKind, error) {
	switch s {
	case "hatch":
		return FillHatch, nil
	case "pattern":
		return FillPattern, nil
	}
	return 0, errors.New("unknown fill kind " + strconv.Quote(s))
}

// ParseElementKind is the inverse of ElementKind.String.
func ParseElementKind(s string) (ElementKind, error) {
	switch s {
	case "line":
		return ElementLine, nil
	case "area":
		return ElementArea, nil
	case "circle":
		return ElementCircle, nil
	}
	return 0, errors.New("unknown element kind " + strconv.Quote(s))
}
