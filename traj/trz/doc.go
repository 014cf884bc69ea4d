/*
 * doc.go, part of gotrz.
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

/*
Package trz reads IBIsCO/YASP binary trajectories (TRZ files).

A TRZ file does not store the number of atoms in its header, so it must be
taken from a topology (see github.com/rmera/gotrz/traj/gro) and given to New.
Frames are read sequentially. Each read overwrites the reader's current Frame,
so Copy a Frame if you need to keep it.

******************** Format ***************************************************

Each line below is a single Fortran unformatted write, so it is surrounded by
two 4-byte length markers holding the size of its content. The size of the content
is given in brackets. Integers and reals use the byte order of the machine that
wrote the file; the reader detects it from the first marker, which must be 80.

	Header (100 bytes in total)
	  title (80 chars)                                         [80]
	  nrec (int4)                                              [4]
	Frame (280 + 24*natoms bytes in total)
	  nframe, ntrj*nframe, natoms (3*int4), treal (real8)      [20]
	  boxx, 0.0, 0.0, 0.0, boxy, 0.0, 0.0, 0.0, boxz (9*real8) [72]
	  pressure, pt11, pt12, pt22, pt13, pt23, pt33 (7*real8)   [56]
	  6 (int4), etot, ptot, ek, t, 0.0, 0.0 (6*real8)          [52]
	  rx (natoms*real4)                                        [4*natoms]
	  ry                                                       [4*natoms]
	  rz                                                       [4*natoms]
	  vx                                                       [4*natoms]
	  vy                                                       [4*natoms]
	  vz                                                       [4*natoms]

Lengths are in nm, velocities in nm/ps, time in ps, pressure in kPa, energies
in kJ/mol and temperature in K. By default lengths and velocities are converted
to Angstrom and Angstrom/ps (see github.com/rmera/gotrz/flags).

Files ending in .zst, .gz, .flate or .lzw are decompressed on the fly.

********************************************************************************
*/
package trz
