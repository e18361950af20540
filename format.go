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

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/mapfile/diagnostic"
)

// Format converts between the in-memory map model and one on-disk
// encoding.  Implementations are provided by the sub-packages omap, ocd
// and obf, which register themselves on import.
type Format interface {
	// Name is the short name of the format, e.g. "omap".
	Name() string

	// Extensions lists the file name extensions of the format, including
	// the leading dot.
	Extensions() []string

	// Match reports whether the start of a file looks like this format.
	// head holds at least the first [SniffLen] bytes of the file, less if
	// the file is shorter.
	Match(head []byte) bool

	// Read decodes a map.  Recoverable problems are recorded in d;
	// fatal problems are returned as an error and no map is returned.
	Read(r io.ReadSeeker, d *diagnostic.Collector) (*Map, error)

	// Write encodes a map.  Recoverable problems are recorded in d.
	Write(w io.Writer, m *Map, d *diagnostic.Collector) error
}

// SniffLen is the number of bytes from the start of a file used for
// format detection.
const SniffLen = 16

var formats []Format

// Register makes a file format available to [Load] and [Save].  The codec
// sub-packages call this from their init functions.
func Register(f Format) {
	formats = append(formats, f)
}

// FormatFor returns the registered format matching the given file head, or
// failing that, the given file name extension.  It returns nil if no
// format matches.
func FormatFor(head []byte, fname string) Format {
	for _, f := range formats {
		if f.Match(head) {
			return f
		}
	}
	ext := strings.ToLower(filepath.Ext(fname))
	for _, f := range formats {
		for _, fext := range f.Extensions() {
			if ext == fext {
				return f
			}
		}
	}
	return nil
}

// Load reads the named map file, selecting the format by file signature
// first and file name extension second.  The returned collector holds the
// diagnostics of the operation; it is non-nil even on error.
func Load(fname string) (*Map, *diagnostic.Collector, error) {
	d := diagnostic.New()

	fd, err := os.Open(fname)
	if err != nil {
		return nil, d, err
	}
	defer fd.Close()

	head := make([]byte, SniffLen)
	n, err := io.ReadFull(fd, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, d, err
	}
	head = head[:n]

	f := FormatFor(head, fname)
	if f == nil {
		return nil, d, ErrFormatNotRecognized
	}
	if _, err := fd.Seek(0, io.SeekStart); err != nil {
		return nil, d, err
	}

	m, err := f.Read(fd, d)
	if err != nil {
		return nil, d, err
	}
	return m, d, nil
}

// Save writes m to the named file, selecting the format by file name
// extension.
func Save(fname string, m *Map) (*diagnostic.Collector, error) {
	d := diagnostic.New()

	f := FormatFor(nil, fname)
	if f == nil {
		return d, ErrFormatNotRecognized
	}

	fd, err := os.Create(fname)
	if err != nil {
		return d, err
	}
	if err := f.Write(fd, m, d); err != nil {
		fd.Close()
		return d, err
	}
	return d, fd.Close()
}
