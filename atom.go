/*
 * atom.go, part of gotrz.
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

package chem

import "fmt"

// Atom contains the topological information of one atom. Coordinates live
// in trajectory frames, not here.
type Atom struct {
	Name    string
	ID      int
	MolName string
	MolID   int
	Symbol  string
	Mass    float64 //amu, zero if unknown
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	n := *A
	return &n
}

/*****Topology type***/

// Topology contains the atoms of a system, which are not expected to change in time.
// It satisfies Atomer, so its Len() can be used as the atom count for a trajectory.
type Topology struct {
	Atoms []*Atom
	Title string
}

// NewTopology returns a topology with the given atoms.
// It returns error if ats is nil.
func NewTopology(ats []*Atom, title string) (*Topology, error) {
	if ats == nil {
		return nil, fmt.Errorf("Supplied a nil Topology")
	}
	return &Topology{Atoms: ats, Title: title}, nil
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Mass returns the total mass of the topology, in amu, and the number of atoms
// with unknown (zero) mass, which are not counted.
func (T *Topology) Mass() (float64, int) {
	var m float64
	var unknown int
	for _, a := range T.Atoms {
		if a.Mass <= 0 {
			unknown++
			continue
		}
		m += a.Mass
	}
	return m, unknown
}
