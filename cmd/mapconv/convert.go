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
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert input output",
	Short: "convert a map file to another format",
	Long: `Convert reads the input map file and writes it in the format
selected by the output file name extension.  The conversion always
passes through the native in-memory model; features the output format
cannot store are approximated and reported.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]

		m, d, err := loadMap(input)
		if err != nil {
			return err
		}
		printDiagnostics(cmd.OutOrStdout(), input, d)

		d, err = saveMap(output, m)
		if err != nil {
			return err
		}
		printDiagnostics(cmd.OutOrStdout(), output, d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
