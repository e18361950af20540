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

// Package ocd implements the legacy binary map file format.
//
// The format is little-endian throughout.  A fixed-size header holds the
// version and the offsets of the color, symbol and part tables.  Strings
// are length-prefixed Windows-1252, at most 255 bytes.  Coordinates are
// stored in units of 1/100 mm with flag bits packed into the low byte;
// converting from the native 1/1000 mm resolution loses precision.
//
// The format predates many features of the native model.  Importing and
// exporting is best effort: features without a representation are
// approximated or dropped, and every change is reported through the
// diagnostics collector.
package ocd

import (
	"encoding/binary"
	"math"
)

const (
	fileMagic = 0x0CAD

	// versionMin and versionMax delimit the tested version range.  Older
	// files are rejected; newer files are read in a reduced, "untested"
	// mode where unknown constructs are skipped instead of aborting.
	versionMin = 7
	versionMax = 8

	// maxString is the longest string the length-prefixed encoding can
	// hold.  Longer strings are truncated on export.
	maxString = 255
)

// fileHeader is the fixed structure at the start of every file.  All
// offsets are absolute byte positions.
type fileHeader struct {
	Magic       uint16
	Version     uint16
	SubVersion  uint16
	_           uint16
	Scale       uint32
	NotesOff    uint32
	ColorOff    uint32
	ColorCount  uint32
	SymbolOff   uint32
	SymbolCount uint32
	PartOff     uint32
	PartCount   uint32
}

const headerSize = 40

// record kind bytes
const (
	objPath      = 0
	objText      = 1
	objRectangle = 2
)

// Format reads and writes the legacy binary format.  The exported fields
// select import and export policies; the Format value registered with the
// package mapfile uses the defaults given below.
type Format struct {
	// ImportSpotColors controls whether color separation definitions are
	// imported.  When false, skipped separations are counted and reported
	// as a single warning.  The registered default is true.
	ImportSpotColors bool

	// RegistrationAsRegular allows exporting a map which contains the
	// registration color.  The format cannot mark a color as the
	// registration sentinel; with this option the color is written as a
	// regular color and a warning is recorded.  Without it, exporting
	// such a map fails.
	RegistrationAsRegular bool
}

func (*Format) Name() string { return "ocd" }

func (*Format) Extensions() []string { return []string{".ocd"} }

func (*Format) Match(head []byte) bool {
	return len(head) >= 2 && binary.LittleEndian.Uint16(head) == fileMagic
}

// toUnits converts millimeters to the 1/1000 mm integers used for symbol
// dimensions.
func toUnits(mm float64) int32 {
	return int32(math.Round(mm * 1000))
}

func fromUnits(u int32) float64 {
	return float64(u) / 1000
}

// packCoord converts a path coordinate from 1/1000 mm to the packed
// 1/100 mm representation.  The low byte holds the flag bits.
func packCoord(v int32, flags uint8) int32 {
	hundredths := int32(math.Round(float64(v) / 10))
	return hundredths<<8 | int32(flags)
}

func unpackCoord(packed int32) (v int32, flags uint8) {
	return (packed >> 8) * 10, uint8(packed & 0xff)
}
