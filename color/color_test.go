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

package color

import "testing"

func TestKindStrings(t *testing.T) {
	for _, kind := range []Kind{Spot, CMYK, RGB, Registration} {
		s := kind.String()
		k2, err := ParseKind(s)
		if err != nil {
			t.Errorf("%s: %v", s, err)
			continue
		}
		if k2 != kind {
			t.Errorf("round trip failed: %d != %d", int(k2), int(kind))
		}
	}
	if _, err := ParseKind("grayscale"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		c    *Color
		ok   bool
	}{
		{"plain", &Color{Name: "black", Kind: CMYK, K: 1, Opacity: 1}, true},
		{"registration", NewRegistration(), true},
		{"range", &Color{Name: "bad", Kind: CMYK, K: 1.5}, false},
		{"components on cmyk", &Color{
			Name:       "bad",
			Kind:       CMYK,
			Components: []Component{{Spot: &Color{Kind: Spot}, Fraction: 0.5}},
		}, false},
		{"dangling component", &Color{
			Name:       "bad",
			Kind:       Spot,
			Components: []Component{{Fraction: 0.5}},
		}, false},
		{"mixture", &Color{
			Name: "green 50%",
			Kind: Spot,
			Components: []Component{
				{Spot: &Color{Name: "green", Kind: Spot}, Fraction: 0.5},
			},
			Opacity: 1,
		}, true},
	}
	for _, test := range cases {
		err := test.c.Validate()
		if (err == nil) != test.ok {
			t.Errorf("%s: unexpected result %v", test.name, err)
		}
	}
}
