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

import "math"

// CoordFlags mark properties of a single path coordinate.
type CoordFlags uint8

const (
	// CurveStart marks the first of three coordinates describing a cubic
	// bezier arc to the coordinate after them.
	CurveStart CoordFlags = 1 << iota

	// DashPoint forces a dash, or a dash symbol, at this coordinate.
	DashPoint

	// HolePoint starts a new hole outline in an area object.
	HolePoint

	// ClosePoint marks the end of a closed outline.
	ClosePoint
)

// Coord is one vertex of an object's path.  X and Y are in units of
// 1/1000 mm on paper; y grows downwards.
type Coord struct {
	X, Y  int32
	Flags CoordFlags
}

// CoordFromMM quantizes a paper position given in millimeters.
func CoordFromMM(x, y float64) Coord {
	return Coord{
		X: int32(math.Round(x * 1000)),
		Y: int32(math.Round(y * 1000)),
	}
}

// XMM returns the x coordinate in millimeters.
func (c Coord) XMM() float64 { return float64(c.X) / 1000 }

// YMM returns the y coordinate in millimeters.
func (c Coord) YMM() float64 { return float64(c.Y) / 1000 }
