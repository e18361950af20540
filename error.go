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
	"errors"
	"fmt"
	"strconv"
)

// ErrFormatNotRecognized is returned by Load when neither the file
// signature nor the file name extension matches a registered format.
var ErrFormatNotRecognized = errors.New("file format not recognized")

// MalformedFileError indicates that a file could not be parsed.
type MalformedFileError struct {
	Pos int64
	Err error
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid map file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// VersionError indicates that the version of a file is outside the range
// supported by its format.
type VersionError struct {
	// Format is the name of the file format.
	Format string

	// Version is the version found in the file.
	Version int

	// Min and Max delimit the supported range.
	Min, Max int
}

// TooOld reports whether the file predates the supported range.
func (err *VersionError) TooOld() bool {
	return err.Version < err.Min
}

func (err *VersionError) Error() string {
	if err.TooOld() {
		return fmt.Sprintf("%s version %d is no longer supported; use an older program release to load and re-save the file",
			err.Format, err.Version)
	}
	return fmt.Sprintf("unsupported %s version %d", err.Format, err.Version)
}

// CountMismatchError indicates that an ordered collection did not contain
// the number of entries announced by its header field.
type CountMismatchError struct {
	// Collection names the collection, e.g. "colors".
	Collection string

	Expected, Found int
}

func (err *CountMismatchError) Error() string {
	return fmt.Sprintf("expected %d %s, found %d",
		err.Expected, err.Collection, err.Found)
}

// DuplicateIDError indicates that two entries of a file claim the same
// identifier.
type DuplicateIDError struct {
	// What names the entry kind, e.g. "symbol".
	What string

	ID int

	// Pos is the byte offset of the second claim, or 0 if unknown.
	Pos int64

	// Line and Column locate the second claim in text formats.
	Line, Column int
}

func (err *DuplicateIDError) Error() string {
	msg := fmt.Sprintf("duplicate %s identifier %d", err.What, err.ID)
	if err.Line > 0 {
		return msg + fmt.Sprintf(" (at line %d column %d)", err.Line, err.Column)
	}
	if err.Pos > 0 {
		return msg + fmt.Sprintf(" (at byte %d)", err.Pos)
	}
	return msg
}
