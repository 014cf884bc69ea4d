/*
 * gro.go, part of gotrz.
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

// Package gro reads Gromacs GRO coordinate files. A GRO file is the usual
// companion of a TRZ trajectory, as it provides the atom list (and so the
// atom count) that TRZ files lack.
package gro

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	chem "github.com/rmera/gotrz"
	"github.com/rmera/gotrz/flags"
	"github.com/rmera/gotrz/units"
	v3 "github.com/rmera/gotrz/v3"
)

// File is the content of a GRO file.
type File struct {
	Top        *chem.Topology
	Coords     *v3.Matrix
	Velocities *v3.Matrix //nil if the file has no velocities
	UnitCell   [9]float64 //row major, as in the TRZ frames.
}

// FileRead reads the GRO file name. Lengths are converted from nm to the
// configured units if flags.ConvertLengths() is true, as the TRZ reader does.
func FileRead(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	G, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if !flags.ConvertLengths() {
		return G, nil
	}
	C := flags.Converter()
	if err := units.PositionsFromNative(C, units.Nanometer, G.Coords.RawMatrix().Data, G.UnitCell[:]); err != nil {
		return nil, err
	}
	if G.Velocities != nil {
		if err := units.VelocitiesFromNative(C, units.NmPs, G.Velocities.RawMatrix().Data); err != nil {
			return nil, err
		}
	}
	return G, nil
}

// NumAtoms returns the atom count declared in the GRO file name, reading only its first 2 lines.
func NumAtoms(name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	r := bufio.NewReader(f)
	if _, err := r.ReadString('\n'); err != nil {
		return 0, fmt.Errorf("Ill formatted GRO file %s: %w", name, err)
	}
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("Ill formatted GRO file %s: %w", name, err)
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return 0, fmt.Errorf("Ill formatted GRO file %s: wrong atom count %q", name, strings.TrimSpace(line))
	}
	return natoms, nil
}

// Read reads a GRO file from r. Coordinates and box are returned in nm, velocities in nm/ps.
func Read(r io.Reader) (*File, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 1024), 1024*1024)
	next := func() (string, bool) {
		if !s.Scan() {
			return "", false
		}
		return s.Text(), true
	}
	title, ok := next()
	if !ok {
		return nil, fmt.Errorf("Ill formatted GRO file: empty")
	}
	line, ok := next()
	if !ok {
		return nil, fmt.Errorf("Ill formatted GRO file: no atom count")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, fmt.Errorf("Ill formatted GRO file: wrong atom count %q", strings.TrimSpace(line))
	}
	atoms := make([]*chem.Atom, natoms)
	coords := make([]float64, 3*natoms)
	var vels []float64
	for i := 0; i < natoms; i++ {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("Ill formatted GRO file: %d atoms declared, %d found", natoms, i)
		}
		at, c, v, err := readAtomLine(line)
		if err != nil {
			return nil, fmt.Errorf("Ill formatted GRO file: line %d: %w", i+3, err)
		}
		atoms[i] = at
		copy(coords[3*i:], c[:])
		if i == 0 && v != nil {
			vels = make([]float64, 3*natoms)
		}
		if vels != nil {
			if v == nil {
				return nil, fmt.Errorf("Ill formatted GRO file: line %d: missing velocities", i+3)
			}
			copy(vels[3*i:], v[:])
		}
	}
	G := new(File)
	G.Top, _ = chem.NewTopology(atoms, strings.TrimSpace(title))
	G.Coords, _ = v3.NewMatrix(coords)
	if vels != nil {
		G.Velocities, _ = v3.NewMatrix(vels)
	}
	if line, ok = next(); ok {
		if G.UnitCell, err = readBox(line); err != nil {
			return nil, fmt.Errorf("Ill formatted GRO file: box: %w", err)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return G, nil
}

// readAtomLine parses the fixed columns of a GRO atom line: residue number (0-5),
// residue name (5-10), atom name (10-15), atom number (15-20), and then
// x, y and z in 8-character fields, optionally followed by the velocities.
func readAtomLine(line string) (*chem.Atom, [3]float64, *[3]float64, error) {
	var c [3]float64
	if len(line) < 44 {
		return nil, c, nil, fmt.Errorf("line too short (%d characters)", len(line))
	}
	var err error
	at := new(chem.Atom)
	if at.MolID, err = strconv.Atoi(strings.TrimSpace(line[0:5])); err != nil {
		return nil, c, nil, err
	}
	at.MolName = strings.TrimSpace(line[5:10])
	at.Name = strings.TrimSpace(line[10:15])
	// Atom numbers wrap around after 99999, so they are not trusted.
	at.ID, _ = strconv.Atoi(strings.TrimSpace(line[15:20]))
	at.Symbol = symbolFromName(at.Name)
	at.Mass, _ = chem.SymbolMass(at.Symbol)
	for k := 0; k < 3; k++ {
		if c[k], err = strconv.ParseFloat(strings.TrimSpace(line[20+8*k:28+8*k]), 64); err != nil {
			return nil, c, nil, err
		}
	}
	if len(strings.TrimSpace(line[44:])) == 0 {
		return at, c, nil, nil
	}
	// velocities are written with one more decimal than coordinates.
	fields := strings.Fields(line[44:])
	if len(fields) < 3 {
		return nil, c, nil, fmt.Errorf("incomplete velocities")
	}
	v := new([3]float64)
	for k := 0; k < 3; k++ {
		if v[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
			return nil, c, nil, err
		}
	}
	return at, c, v, nil
}

// readBox parses the last line of a GRO file, which has either 3 numbers
// (v1(x) v2(y) v3(z)) or 9 (v1(x) v2(y) v3(z) v1(y) v1(z) v2(x) v2(z) v3(x) v3(y)).
func readBox(line string) ([9]float64, error) {
	var cell [9]float64
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 9 {
		return cell, fmt.Errorf("%d values, expected 3 or 9", len(fields))
	}
	vals := make([]float64, 9)
	for i, f := range fields {
		var err error
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			return cell, err
		}
	}
	// position of each value in the row-major unit cell
	order := [9]int{0, 4, 8, 1, 2, 3, 5, 6, 7}
	for i, v := range vals {
		cell[order[i]] = v
	}
	return cell, nil
}

// symbolFromName guesses the element from an atom name, taking the first letter.
// 2-letter symbols are only used for a few ions whose name is the symbol ("CA" is a carbon).
func symbolFromName(name string) string {
	switch strings.ToUpper(name) {
	case "CL", "NA", "MG", "ZN", "FE", "CU", "MN", "BR":
		return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	}
	for _, r := range name {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return ""
}
