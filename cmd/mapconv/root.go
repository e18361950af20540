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
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"seehuhn.de/go/mapfile"
	"seehuhn.de/go/mapfile/diagnostic"
	"seehuhn.de/go/mapfile/ocd"

	_ "seehuhn.de/go/mapfile/obf"
	_ "seehuhn.de/go/mapfile/omap"
)

var (
	configFile string
	verbose    bool

	cfg *Config
)

var rootCmd = &cobra.Command{
	Use:   "mapconv",
	Short: "convert between map file formats",
	Long: `Mapconv converts map files between the native format and the
binary interchange formats.  Conversions which cannot be performed
exactly report the approximations that were made.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"TOML file with per-format policies")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"list every diagnostic instead of a summary")
}

// formatFor wraps mapfile.FormatFor, substituting a format value which
// carries the policies from the config file.
func formatFor(head []byte, fname string) mapfile.Format {
	f := mapfile.FormatFor(head, fname)
	if _, ok := f.(*ocd.Format); ok {
		f = &ocd.Format{
			ImportSpotColors:      cfg.OCD.ImportSpotColors,
			RegistrationAsRegular: cfg.OCD.RegistrationAsRegular,
		}
	}
	return f
}

func loadMap(fname string) (*mapfile.Map, *diagnostic.Collector, error) {
	d := diagnostic.New()

	fd, err := os.Open(fname)
	if err != nil {
		return nil, d, err
	}
	defer fd.Close()

	head := make([]byte, mapfile.SniffLen)
	n, err := io.ReadFull(fd, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, d, err
	}

	f := formatFor(head[:n], fname)
	if f == nil {
		return nil, d, fmt.Errorf("%s: %w", fname, mapfile.ErrFormatNotRecognized)
	}
	if _, err := fd.Seek(0, io.SeekStart); err != nil {
		return nil, d, err
	}
	m, err := f.Read(fd, d)
	return m, d, err
}

func saveMap(fname string, m *mapfile.Map) (*diagnostic.Collector, error) {
	d := diagnostic.New()

	f := formatFor(nil, fname)
	if f == nil {
		return d, fmt.Errorf("%s: %w", fname, mapfile.ErrFormatNotRecognized)
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

// printDiagnostics writes a summary of the collected diagnostics, or the
// full list with --verbose.  Severities are colored when stdout is a
// terminal.
func printDiagnostics(w io.Writer, what string, d *diagnostic.Collector) {
	entries := d.Entries()
	if len(entries) == 0 {
		return
	}
	if !verbose {
		numWarnings := len(d.Warnings())
		numErrors := len(d.Errors())
		switch {
		case numErrors == 0:
			fmt.Fprintf(w, "%s: %d warnings\n", what, numWarnings)
		default:
			fmt.Fprintf(w, "%s: %d warnings, %d errors\n", what, numWarnings, numErrors)
		}
		return
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	for _, e := range entries {
		sev := e.Severity.String()
		if isTTY {
			switch e.Severity {
			case diagnostic.Warning:
				sev = "\x1b[33m" + sev + "\x1b[0m"
			case diagnostic.Error:
				sev = "\x1b[31m" + sev + "\x1b[0m"
			}
		}
		if e.Location.IsZero() {
			fmt.Fprintf(w, "%s: %s: %s\n", what, sev, e.Message)
		} else {
			fmt.Fprintf(w, "%s: %s: %s (at %s)\n", what, sev, e.Message, e.Location)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
