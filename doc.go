/*
 * doc.go, part of gotrz.
 *
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
 *
 */

/*Package chem is the root package of gotrz. It provides the atom and topology
structures and the interfaces that the trajectory readers in the traj/ subpackages
implement.

	**Layout**

    traj/trz reads IBIsCO/YASP binary (TRZ) trajectories: coordinates, velocities,
	box, pressure, energies and temperature, one frame at a time.

    traj/gro reads the atom list of a GRO file, which is the usual source of the
	atom count a TRZ trajectory needs, and the element and mass of each atom.

    traj/stf writes and reads the compressed text STF format, used to export
	TRZ coordinates.

    v3 implements the Nx3 coordinate matrix, based on gonum's Dense.

    units and flags hold the unit tables and the process-wide options
	(for instance, whether lengths are converted from nm to Angstrom).

The end of a trajectory is reported as an error that implements LastFrameError, so
a typeswitch (or errors.Is with the reader's sentinel) separates it from real failures.*/
package chem
