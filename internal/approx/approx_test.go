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

package approx

import (
	"strings"
	"testing"

	"seehuhn.de/go/mapfile/symbol"
)

func TestPointedCapLength(t *testing.T) {
	chosen, changed := PointedCapLength(3.0, 5.0)
	if chosen != 3.0 || !changed {
		t.Errorf("got %g, %t", chosen, changed)
	}
	chosen, changed = PointedCapLength(3.0, 3.0)
	if chosen != 3.0 || changed {
		t.Errorf("got %g, %t", chosen, changed)
	}
}

func TestGroupSize(t *testing.T) {
	cases := []struct {
		in, out int
		changed bool
	}{
		{1, 1, false},
		{2, 2, false},
		{3, 2, true},
		{4, 2, true},
	}
	for _, test := range cases {
		out, changed := GroupSize(test.in)
		if out != test.out || changed != test.changed {
			t.Errorf("GroupSize(%d) = %d, %t", test.in, out, changed)
		}
	}
}

func TestCapJoin(t *testing.T) {
	cases := []struct {
		cap     symbol.CapStyle
		join    symbol.JoinStyle
		wantC   symbol.CapStyle
		wantJ   symbol.JoinStyle
		changed bool
	}{
		{symbol.CapFlat, symbol.JoinBevel, symbol.CapFlat, symbol.JoinBevel, false},
		{symbol.CapFlat, symbol.JoinMiter, symbol.CapFlat, symbol.JoinMiter, false},
		{symbol.CapRound, symbol.JoinRound, symbol.CapRound, symbol.JoinRound, false},
		{symbol.CapPointed, symbol.JoinBevel, symbol.CapPointed, symbol.JoinBevel, false},
		{symbol.CapSquare, symbol.JoinMiter, symbol.CapFlat, symbol.JoinMiter, true},
		{symbol.CapSquare, symbol.JoinRound, symbol.CapFlat, symbol.JoinBevel, true},
		{symbol.CapRound, symbol.JoinMiter, symbol.CapRound, symbol.JoinRound, true},
		{symbol.CapFlat, symbol.JoinRound, symbol.CapFlat, symbol.JoinBevel, true},
		{symbol.CapPointed, symbol.JoinMiter, symbol.CapPointed, symbol.JoinBevel, true},
	}
	for _, test := range cases {
		c, j, changed := CapJoin(test.cap, test.join)
		if c != test.wantC || j != test.wantJ || changed != test.changed {
			t.Errorf("CapJoin(%s, %s) = %s, %s, %t",
				test.cap, test.join, c, j, changed)
		}
	}
}

func TestTruncateString(t *testing.T) {
	long := strings.Repeat("a", 300)
	stored, marked, truncated := TruncateString(long, 255)
	if !truncated {
		t.Fatal("not truncated")
	}
	if len(stored) != 255 {
		t.Errorf("stored length %d", len(stored))
	}
	if strings.Contains(stored, TruncationMarker) {
		t.Error("marker leaked into the stored string")
	}
	if marked[252:261] != "aaa"+TruncationMarker+"aaa" {
		t.Errorf("marker not at the truncation point: %q", marked[250:262])
	}

	stored, marked, truncated = TruncateString("short", 255)
	if truncated || stored != "short" || marked != "short" {
		t.Error("short string modified")
	}
}

func TestDashEnds(t *testing.T) {
	l, g, changed := DashEnds(2, 0.5, 3, 0.5)
	if l != 2 || g != 0.5 || !changed {
		t.Errorf("got %g, %g, %t", l, g, changed)
	}
	_, _, changed = DashEnds(2, 0.5, 2, 0.5)
	if changed {
		t.Error("unchanged values flagged")
	}
}
