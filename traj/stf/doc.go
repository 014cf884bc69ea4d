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
Package stf reads and writes the simple trajectory format (STF), a compressed text format
meant to be easy to read and write from any language. gotrz uses it to export the
coordinates of TRZ trajectories.

An STF file may only contain ASCII symbols. It starts with a header, where each line
is a key=value pair. The header must contain at least the precision, an integer
greater than 0, with the key "prec":

	prec=2

The header ends with a line that starts with "**", followed by one or more spaces
and the number of atoms per frame.

After the header, the file has one line per atom, per frame. Each line contains the
x, y and z cartesian coordinates of the atom, in Angstrom, multiplied by 10 to the
power of the precision and rounded to an integer.

Each frame ends with a line starting with "*", optionally followed by whitespace and
the 9 elements of the box vectors, in Angstrom. The "**" sequence may only appear at
the end of the header.

The file is compressed. The format is taken from the extension: zstd for .stf and
anything not listed below, gzip for .stz, flate for .str and lzw for .stl.
*/
package stf
