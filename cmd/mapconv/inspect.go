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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect file",
	Short: "show summary information about a map file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fname := args[0]

		m, d, err := loadMap(fname)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "scale: 1:%d\n", m.Scale)
		if m.Georef != nil {
			fmt.Fprintf(w, "crs: %s\n", m.Georef.CRSSpec)
		}
		fmt.Fprintf(w, "colors: %d\n", len(m.Colors))
		fmt.Fprintf(w, "symbols: %d\n", len(m.Symbols))
		numObjects := 0
		for _, part := range m.Parts {
			numObjects += len(part.Objects)
		}
		fmt.Fprintf(w, "parts: %d\n", len(m.Parts))
		for _, part := range m.Parts {
			fmt.Fprintf(w, "  %q: %d objects\n", part.Name, len(part.Objects))
		}
		fmt.Fprintf(w, "objects: %d\n", numObjects)

		printDiagnostics(w, fname, d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
