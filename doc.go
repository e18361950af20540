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

// Package mapfile reads and writes map files for desktop map-drawing
// applications.
//
// The package defines an in-memory map model ([Map], [Part], [Object],
// together with the sub-packages color and symbol) and a registry of file
// formats which convert between this model and on-disk encodings.  Three
// formats are provided as sub-packages:
//
//   - omap: the native, versioned XML save format.  Loading a file
//     written by this library restores the map without loss.
//   - ocd: a legacy binary interchange format, supported for versions
//     7 and 8.  Import and export are best-effort; constructs without an
//     exact counterpart are approximated deterministically.
//   - obf: a newer structured binary interchange format.
//
// All decode and encode operations report reduced-fidelity conversions and
// skipped items through a [seehuhn.de/go/mapfile/diagnostic.Collector],
// which is returned to the caller.  Malformed content never panics: fatal
// problems abort the one operation with an error, everything else is
// accumulated as diagnostics.
package mapfile
