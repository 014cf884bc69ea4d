/*
 * main.go, part of gotrz.
 *
 * Copyright 2021 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// trzinfo prints the contents of a TRZ trajectory: header, atom and frame counts,
// time step and statistics of the thermodynamic quantities of each frame.
// The per-frame quantities can also be stored in an SQLite database and plotted.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	chem "github.com/rmera/gotrz"
	"github.com/rmera/gotrz/flags"
	"github.com/rmera/gotrz/internal/thermo"
	"github.com/rmera/gotrz/traj/gro"
	"github.com/rmera/gotrz/traj/stf"
	"github.com/rmera/gotrz/traj/trz"
	"github.com/rmera/gotrz/units"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "trzinfo:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("trzinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	natoms := fs.Int("natoms", 0, "Number of atoms per frame. If not given, it's taken from -gro, or from the first frame")
	groFile := fs.String("gro", "", "GRO file with the topology of the system")
	configDir := fs.String("config", "", "Directory with a gotrz.cfg.json file")
	convert := fs.Bool("convert", true, "Convert lengths, velocities and times from the TRZ units to the configured ones")
	perFrame := fs.Bool("frames", false, "Print the quantities of every frame")
	dbFile := fs.String("db", "", "Store the quantities of every frame in this SQLite database")
	plotFile := fs.String("plot", "", "Plot the quantities in -fields versus time to this file")
	plotFields := fs.String("fields", "etot,epot,ekin", "Comma-separated quantities to plot")
	acfField := fs.String("acf", "", "Print the autocorrelation function of this quantity")
	histField := fs.String("hist", "", "Print the distribution of this quantity")
	bins := fs.Int("bins", 10, "Number of bins for -hist")
	histJSON := fs.String("histjson", "", "Also write the -hist distribution to this JSON file")
	rgACF := fs.Bool("rgacf", false, "Print the autocorrelation function of the radius of gyration")
	stfFile := fs.String("stf", "", "Export the coordinates to this STF file")
	prec := fs.Int("prec", stf.DefaultPrec, "Precision for -stf")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: trzinfo [flags] trajectory.trz\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one trajectory must be given")
	}
	trajFile := fs.Arg(0)

	if *configDir != "" {
		if err := flags.Load(*configDir); err != nil {
			return err
		}
	}
	logger := newLogger(stderr)
	trz.Logger = logger
	thermo.Logger = logger
	stf.Logger = logger

	// -convert only overrides the configuration if it was given.
	var convertUnits []bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "convert" {
			convertUnits = append(convertUnits, *convert)
		}
	})

	n, top, err := atomCount(*natoms, *groFile, trajFile, logger)
	if err != nil {
		return err
	}
	traj, err := trz.New(trajFile, n, convertUnits...)
	if err != nil {
		return err
	}
	defer traj.Close()

	printHeader(stdout, traj)
	if top != nil {
		m, unknown := top.Mass()
		fmt.Fprintf(stdout, "Mass:       %.2f amu\n", m)
		if unknown > 0 {
			logger.Warn().Int("atoms", unknown).Msg("Atoms of unknown mass not counted")
		}
	}
	recs, err := thermo.Collect(traj)
	if err != nil {
		logger.Error().Err(err).Int("frames", len(recs)).Msg("Trajectory could not be read completely")
		if len(recs) == 0 {
			return err
		}
	}
	if *perFrame {
		printRecords(stdout, recs)
	}
	fmt.Fprintln(stdout)
	for _, f := range thermo.Fields()[1:] {
		s, err := thermo.Summarize(recs, f)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, s)
	}
	if *acfField != "" {
		if err := printACF(stdout, recs, *acfField); err != nil {
			return err
		}
	}
	if *histField != "" {
		f, err := thermo.ParseField(*histField)
		if err != nil {
			return err
		}
		D, err := thermo.Distribution(recs, f, *bins)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nDistribution of %s\n%s\n", f, D)
		if *histJSON != "" {
			j, err := json.Marshal(D)
			if err != nil {
				return err
			}
			if err := os.WriteFile(*histJSON, j, 0o644); err != nil {
				return err
			}
		}
	}
	if *rgACF {
		acf, err := thermo.GyrationAutocorrelation(traj)
		if err != nil {
			return fmt.Errorf("autocorrelation of the radius of gyration: %w", err)
		}
		printSeries(stdout, "Autocorrelation of the radius of gyration", acf)
	}
	if *dbFile != "" {
		S, err := thermo.OpenStore(*dbFile)
		if err != nil {
			return err
		}
		defer S.Close()
		if err := S.Insert(filepath.Base(trajFile), recs); err != nil {
			return err
		}
		logger.Info().Str("db", *dbFile).Int("frames", len(recs)).Msg("Stored frames")
	}
	if *plotFile != "" {
		var fields []thermo.Field
		for _, s := range strings.Split(*plotFields, ",") {
			f, err := thermo.ParseField(s)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
		if err := thermo.Plot(recs, fields, *plotFile); err != nil {
			return err
		}
		logger.Info().Str("plot", *plotFile).Msg("Plot saved")
	}
	if *stfFile != "" {
		if *prec <= 0 {
			return fmt.Errorf("-prec must be positive, got %d", *prec)
		}
		if err := exportSTF(traj, *stfFile, *prec); err != nil {
			return err
		}
		logger.Info().Str("stf", *stfFile).Int("prec", *prec).Msg("Coordinates exported")
	}
	return nil
}

func newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(flags.LogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

// atomCount returns natoms if positive, otherwise the count in the GRO file, or, if there
// is none, the one declared in the trajectory. If a GRO file is given, its topology is also returned.
func atomCount(natoms int, groFile, trajFile string, logger zerolog.Logger) (int, *chem.Topology, error) {
	var top *chem.Topology
	if groFile != "" {
		G, err := gro.FileRead(groFile)
		if err != nil {
			return 0, nil, err
		}
		top = G.Top
	}
	switch {
	case natoms > 0:
		return natoms, top, nil
	case top != nil:
		return top.Len(), top, nil
	}
	n, err := trz.ProbeNumAtoms(trajFile)
	if err != nil {
		return 0, nil, err
	}
	logger.Warn().Int("natoms", n).Msg("No topology given, using the atom count declared in the trajectory")
	return n, nil, nil
}

func printHeader(w io.Writer, traj *trz.TRZObj) {
	h := traj.Header()
	fmt.Fprintf(w, "File:       %s\n", traj.Filename())
	fmt.Fprintf(w, "Title:      %s\n", h.Title)
	fmt.Fprintf(w, "Byte order: %s\n", h.ByteOrder)
	fmt.Fprintf(w, "Records:    %d\n", h.NRec)
	fmt.Fprintf(w, "Atoms:      %d\n", traj.NumAtoms())
	fmt.Fprintf(w, "Frames:     %d\n", traj.NumFrames())
	fmt.Fprintf(w, "Time step:  %g\n", traj.Delta())
	if traj.ConvertUnits() {
		C := flags.Converter()
		fmt.Fprintf(w, "Units:      %s, %s, %s\n", C.Length, C.Velocity, C.Time)
	} else {
		fmt.Fprintf(w, "Units:      %s, %s, %s\n", trz.NativeLength, trz.NativeVelocity, trz.NativeTime)
	}
}

func printRecords(w io.Writer, recs []thermo.Record) {
	fmt.Fprintf(w, "\n%6s %10s %10s", "frame", "step", "time")
	for _, f := range thermo.Fields()[1:] {
		fmt.Fprintf(w, " %12s", f)
	}
	fmt.Fprintln(w)
	for _, r := range recs {
		fmt.Fprintf(w, "%6d %10d %10.3f", r.Index, r.Step, r.Time)
		for _, f := range thermo.Fields()[1:] {
			v, _ := r.Value(f)
			fmt.Fprintf(w, " %12.4f", v)
		}
		fmt.Fprintln(w)
	}
}

func printACF(w io.Writer, recs []thermo.Record, field string) error {
	f, err := thermo.ParseField(field)
	if err != nil {
		return err
	}
	acf, err := thermo.Autocorrelation(recs, f)
	if err != nil {
		return fmt.Errorf("autocorrelation of %s: %w", f, err)
	}
	printSeries(w, "Autocorrelation of "+string(f), acf)
	return nil
}

func printSeries(w io.Writer, title string, s []float64) {
	fmt.Fprintf(w, "\n%s\n", title)
	for i, v := range s {
		fmt.Fprintf(w, "%6d %9.4f\n", i, v)
	}
}

// exportSTF writes the coordinates of every frame of traj, in Angstrom, to the STF file name.
func exportSTF(traj *trz.TRZObj, name string, prec int) error {
	length := trz.NativeLength
	if traj.ConvertUnits() {
		length = flags.Converter().Length
	}
	factor, err := units.Factor(units.Length, length, units.Angstrom)
	if err != nil {
		return err
	}
	if err := traj.Rewind(); err != nil {
		return err
	}
	header := map[string]string{
		"prec":   strconv.Itoa(prec),
		"source": filepath.Base(traj.Filename()),
	}
	if t := strings.TrimSpace(strings.ReplaceAll(traj.Header().Title, "\n", " ")); t != "" {
		header["title"] = t
	}
	W, err := stf.NewWriter(name, traj.NumAtoms(), header)
	if err != nil {
		return err
	}
	if _, err := stf.Write(W, traj, factor); err != nil {
		W.Close()
		return err
	}
	return W.Close()
}
