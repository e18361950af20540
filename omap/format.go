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

// Package omap implements the native XML save format.
//
// This is the only format with a lossless round-trip guarantee: a map
// written by this package is restored without structural differences when
// read back.  In exchange, the reader is strict: declared collection
// counts must match the file contents, and files older than format
// version 2 are rejected.
package omap

import (
	"bytes"

	"seehuhn.de/go/mapfile"
)

func init() {
	mapfile.Register(&Format{})
}

const (
	// versionMin is the oldest file format version this package reads.
	versionMin = 2

	// versionCurrent is the version written by this package.  Files with
	// a newer version are read best-effort, with a warning.
	versionCurrent = 9
)

// Format reads and writes the native XML format.
type Format struct{}

func (*Format) Name() string { return "omap" }

func (*Format) Extensions() []string { return []string{".omap", ".xmap"} }

func (*Format) Match(head []byte) bool {
	head = bytes.TrimPrefix(head, []byte{0xEF, 0xBB, 0xBF})
	return bytes.HasPrefix(head, []byte("<?xml")) ||
		bytes.HasPrefix(head, []byte("<map"))
}
