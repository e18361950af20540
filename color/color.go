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

// Package color implements the printable colors of a map.
//
// Every drawing color of a map is one entry in the map's ordered color
// table.  The position in the table is the color's Priority and defines the
// overprint order in professional print output.
package color

import (
	"errors"
	"fmt"
	"strconv"
)

// RegistrationName is the reserved name of the registration color.  A color
// with this name in an imported file is mapped to the Registration sentinel.
const RegistrationName = "Registration black"

// Kind describes how a color is reproduced in print.
type Kind int

const (
	// Spot is a named ink, printed as its own separation plate.
	Spot Kind = iota

	// CMYK is a color mixed from the four process components.
	CMYK

	// RGB is a screen-only color without a defined print reproduction.
	RGB

	// Registration is the reserved sentinel color which appears on every
	// separation plate.  At most one color of a map may use this kind.
	Registration
)

func (k Kind) String() string {
	switch k {
	case Spot:
		return "spot"
	case CMYK:
		return "cmyk"
	case RGB:
		return "rgb"
	case Registration:
		return "registration"
	}
	return "color.Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "spot":
		return Spot, nil
	case "cmyk":
		return CMYK, nil
	case "rgb":
		return RGB, nil
	case "registration":
		return Registration, nil
	}
	return 0, errors.New("unknown color kind " + strconv.Quote(s))
}

// Component is one ingredient of a spot color mixture.
type Component struct {
	// Spot is the pure spot color being mixed in.
	Spot *Color

	// Fraction is the halftone value of the ink, in the range from 0 to 1.
	Fraction float64
}

// Color is one entry of a map's color table.
type Color struct {
	// ID is a stable identifier, unique among the colors of a map.
	ID int

	// Name is the display name of the color.
	Name string

	Kind Kind

	// C, M, Y, K are the process components, each in the range from 0 to
	// 1.  For spot colors they describe the preview approximation.
	C, M, Y, K float64

	// Opacity is the display opacity, in the range from 0 (fully
	// transparent) to 1 (opaque).
	Opacity float64

	// Knockout marks a color which erases the colors beneath it instead
	// of overprinting them.
	Knockout bool

	// Components describes a spot color mixture.  It is only used for
	// Kind == Spot, and is empty for a pure spot color.
	Components []Component

	// Priority is the position in the map's color table.  Priorities are
	// unique within a map and define the overprint/draw order.
	Priority int
}

// NewRegistration returns the registration sentinel color.
func NewRegistration() *Color {
	return &Color{
		Name:    RegistrationName,
		Kind:    Registration,
		C:       1,
		M:       1,
		Y:       1,
		K:       1,
		Opacity: 1,
	}
}

func (c *Color) String() string {
	return fmt.Sprintf("%d %q (%s)", c.ID, c.Name, c.Kind)
}

// Validate checks the component ranges of the color.
func (c *Color) Validate() error {
	for _, v := range [...]float64{c.C, c.M, c.Y, c.K, c.Opacity} {
		if v < 0 || v > 1 {
			return fmt.Errorf("color %q: component %g out of range", c.Name, v)
		}
	}
	if len(c.Components) > 0 && c.Kind != Spot {
		return fmt.Errorf("color %q: spot components on a %s color", c.Name, c.Kind)
	}
	for _, comp := range c.Components {
		if comp.Spot == nil {
			return fmt.Errorf("color %q: missing spot color reference", c.Name)
		}
		if comp.Fraction < 0 || comp.Fraction > 1 {
			return fmt.Errorf("color %q: fraction %g out of range", c.Name, comp.Fraction)
		}
	}
	return nil
}
