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

// Package diagnostic collects per-item warnings and errors during a single
// decode or encode operation.
//
// A Collector is created for each call into a codec and returned to the
// caller together with the result.  Fatal conditions are not stored in the
// Collector; they abort the operation and are reported through the
// function's error return value instead.
package diagnostic

import (
	"fmt"
	"strconv"
)

// Severity distinguishes informational warnings from recoverable errors.
type Severity int

const (
	// Warning marks reduced-fidelity imports and exports.  The operation
	// as a whole still succeeds.
	Warning Severity = iota

	// Error marks a single item (an object, a symbol, a template
	// reference) which could not be processed and was skipped.
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "diagnostic.Severity(" + strconv.Itoa(int(s)) + ")"
}

// Location identifies where in the input a diagnostic was raised.  For text
// formats Line and Column are set; for binary formats only Offset is
// meaningful.  The zero Location means "no position information".
type Location struct {
	Line   int
	Column int
	Offset int64
}

func (loc Location) String() string {
	if loc.Line > 0 {
		return "line " + strconv.Itoa(loc.Line) + " column " + strconv.Itoa(loc.Column)
	}
	if loc.Offset > 0 {
		return "byte " + strconv.FormatInt(loc.Offset, 10)
	}
	return ""
}

// IsZero reports whether loc carries no position information.
func (loc Location) IsZero() bool {
	return loc.Line == 0 && loc.Column == 0 && loc.Offset == 0
}

// Entry is one diagnostic message.
type Entry struct {
	Severity Severity
	Message  string
	Location Location
}

func (e Entry) String() string {
	if e.Location.IsZero() {
		return e.Severity.String() + ": " + e.Message
	}
	return e.Severity.String() + ": " + e.Message + " (at " + e.Location.String() + ")"
}

// Category identifies a class of diagnostics which is reported as a single
// counted entry rather than one entry per affected item.
type Category int

const (
	// SkippedSeparations counts color separation definitions which were
	// not imported because spot color import is disabled.
	SkippedSeparations Category = iota

	// SkippedObjects counts objects which could not be imported.
	SkippedObjects

	// UntestedVersion counts constructs which were ignored because the
	// file version is newer than the newest tested version.
	UntestedVersion

	numCategories
)

var categoryMessages = [numCategories]struct {
	one  string
	many string
}{
	SkippedSeparations: {
		one:  "1 color separation was skipped, reopen the file with spot color import enabled",
		many: "%d color separations were skipped, reopen the file with spot color import enabled",
	},
	SkippedObjects: {
		one:  "1 object could not be imported",
		many: "%d objects could not be imported",
	},
	UntestedVersion: {
		one:  "1 construct was ignored because this file version is untested",
		many: "%d constructs were ignored because this file version is untested",
	},
}

// Collector accumulates the diagnostics of one decode or encode call.
// The zero value is not usable; use New.
type Collector struct {
	entries []Entry
	counts  [numCategories]int
}

// New creates an empty Collector for a single operation.
func New() *Collector {
	return &Collector{}
}

// Warn records a reduced-fidelity warning.
func (c *Collector) Warn(loc Location, format string, args ...interface{}) {
	c.entries = append(c.entries, Entry{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// Error records a recoverable per-item error.
func (c *Collector) Error(loc Location, format string, args ...interface{}) {
	c.entries = append(c.entries, Entry{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// Count increments the counter for a deduplicated category.  All increments
// of the same category collapse into a single entry in the output of
// Entries.
func (c *Collector) Count(cat Category) {
	c.counts[cat]++
}

// CategoryCount returns how often cat has been counted.
func (c *Collector) CategoryCount(cat Category) int {
	return c.counts[cat]
}

// Entries returns all itemized diagnostics, followed by one aggregated entry
// for every category with a non-zero count.
func (c *Collector) Entries() []Entry {
	res := make([]Entry, len(c.entries), len(c.entries)+int(numCategories))
	copy(res, c.entries)
	for cat := Category(0); cat < numCategories; cat++ {
		n := c.counts[cat]
		if n == 0 {
			continue
		}
		msg := categoryMessages[cat].one
		if n > 1 {
			msg = fmt.Sprintf(categoryMessages[cat].many, n)
		}
		res = append(res, Entry{Severity: Warning, Message: msg})
	}
	return res
}

// Warnings returns the messages of all warning entries.
func (c *Collector) Warnings() []string {
	var res []string
	for _, e := range c.Entries() {
		if e.Severity == Warning {
			res = append(res, e.Message)
		}
	}
	return res
}

// Errors returns the messages of all recoverable error entries.
func (c *Collector) Errors() []string {
	var res []string
	for _, e := range c.Entries() {
		if e.Severity == Error {
			res = append(res, e.Message)
		}
	}
	return res
}

// Empty reports whether no diagnostics have been recorded.
func (c *Collector) Empty() bool {
	if len(c.entries) > 0 {
		return false
	}
	for _, n := range c.counts {
		if n > 0 {
			return false
		}
	}
	return true
}
