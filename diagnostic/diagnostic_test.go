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

package diagnostic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAggregation(t *testing.T) {
	c := New()
	c.Warn(Location{}, "imported as a special color")
	for i := 0; i < 3; i++ {
		c.Count(SkippedSeparations)
	}
	c.Count(SkippedObjects)

	expected := []Entry{
		{Severity: Warning, Message: "imported as a special color"},
		{Severity: Warning, Message: "3 color separations were skipped, reopen the file with spot color import enabled"},
		{Severity: Warning, Message: "1 object could not be imported"},
	}
	if d := cmp.Diff(expected, c.Entries()); d != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", d)
	}
}

func TestSeverities(t *testing.T) {
	c := New()
	c.Error(Location{Line: 12, Column: 3}, "unable to find symbol for object")
	c.Warn(Location{Offset: 99}, "dash group count 4 is not supported")

	if len(c.Errors()) != 1 {
		t.Errorf("wrong number of errors: %d", len(c.Errors()))
	}
	if len(c.Warnings()) != 1 {
		t.Errorf("wrong number of warnings: %d", len(c.Warnings()))
	}

	entries := c.Entries()
	if entries[0].String() != "error: unable to find symbol for object (at line 12 column 3)" {
		t.Errorf("wrong entry string %q", entries[0].String())
	}
	if entries[1].String() != "warning: dash group count 4 is not supported (at byte 99)" {
		t.Errorf("wrong entry string %q", entries[1].String())
	}
}

func TestEmpty(t *testing.T) {
	c := New()
	if !c.Empty() {
		t.Error("new collector is not empty")
	}
	if len(c.Entries()) != 0 {
		t.Error("new collector has entries")
	}
	c.Count(UntestedVersion)
	if c.Empty() {
		t.Error("collector with counted category reports empty")
	}
}
