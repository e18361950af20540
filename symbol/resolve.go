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

package symbol

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DanglingRefError reports a symbol reference which does not resolve to a
// symbol of the expected kind.
type DanglingRefError struct {
	// Symbol is the symbol containing the reference.
	Symbol *Symbol

	// RefID is the unresolved symbol identifier.
	RefID int

	// Want is the expected kind of the referenced symbol, or 0 if any
	// kind is acceptable.
	Want Kind

	// Got is the actual kind found, or 0 if no symbol with RefID exists.
	Got Kind
}

func (e *DanglingRefError) Error() string {
	if e.Got == 0 {
		if e.Want == 0 {
			return fmt.Sprintf("symbol %d: reference to missing symbol %d",
				e.Symbol.ID, e.RefID)
		}
		return fmt.Sprintf("symbol %d: reference to missing %s symbol %d",
			e.Symbol.ID, e.Want, e.RefID)
	}
	return fmt.Sprintf("symbol %d: symbol %d is a %s symbol, expected %s",
		e.Symbol.ID, e.RefID, e.Got, e.Want)
}

// Resolve checks all nested symbol references of the given symbols.  The
// map is keyed by symbol ID.  All dangling or mis-kinded references are
// reported, joined into a single error.
func Resolve(symbols map[int]*Symbol) error {
	ids := maps.Keys(symbols)
	slices.Sort(ids)

	var all []error
	for _, id := range ids {
		all = append(all, resolveSymbol(symbols, symbols[id])...)
	}
	return errors.Join(all...)
}

// ResolveSymbol checks the nested references of a single symbol against
// the given symbol set.  Codecs use this to drop offending symbols one at
// a time instead of failing the whole import.
func ResolveSymbol(symbols map[int]*Symbol, s *Symbol) error {
	return errors.Join(resolveSymbol(symbols, s)...)
}

func resolveSymbol(symbols map[int]*Symbol, s *Symbol) []error {
	check := func(refID int, want Kind) error {
		if refID == 0 {
			return nil
		}
		ref, ok := symbols[refID]
		if !ok {
			return &DanglingRefError{Symbol: s, RefID: refID, Want: want}
		}
		if want != 0 && ref.Kind() != want {
			return &DanglingRefError{Symbol: s, RefID: refID, Want: want, Got: ref.Kind()}
		}
		return nil
	}

	var res []error
	add := func(err error) {
		if err != nil {
			res = append(res, err)
		}
	}

	switch p := s.Payload.(type) {
	case *LineSymbol:
		if p.Mid != nil {
			add(check(p.Mid.SymbolID, Point))
		}
		add(check(p.StartSymbolID, Point))
		add(check(p.EndSymbolID, Point))
		add(check(p.DashSymbolID, Point))
	case *AreaSymbol:
		for _, fill := range p.Fills {
			switch fill.Kind {
			case FillHatch:
				add(check(fill.SymbolID, Line))
			case FillPattern:
				add(check(fill.SymbolID, Point))
			}
		}
	case *CombinedSymbol:
		if len(p.Parts) == 0 {
			res = append(res, fmt.Errorf("symbol %d: combined symbol without parts", s.ID))
		}
		for _, part := range p.Parts {
			if part.Private != nil {
				if part.SymbolID != 0 {
					res = append(res, fmt.Errorf("symbol %d: part is both shared and private", s.ID))
					continue
				}
				res = append(res, resolveSymbol(symbols, part.Private)...)
				continue
			}
			if part.SymbolID == 0 {
				res = append(res, fmt.Errorf("symbol %d: empty combined symbol part", s.ID))
				continue
			}
			add(check(part.SymbolID, 0))
		}
	}
	return res
}
