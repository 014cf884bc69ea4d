/*
 * frame.go, part of gotrz.
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

package trz

import (
	"fmt"
	"math"

	chem "github.com/rmera/gotrz"
	v3 "github.com/rmera/gotrz/v3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame contains the state of the system in one frame of a TRZ trajectory.
// Positions and velocities are kept as they are stored on disk: all the x
// components, then all the y, then all the z.
type Frame struct {
	Index int //1 for the first frame read, 0 if nothing has been read.
	Step  int //The simulation step, as written in the file.

	Time float64 //ps, not necessarily starting from 0

	// 3x3 matrix, row major. The diagonal holds the box lengths,
	// the rest, the tilt factors.
	UnitCell [9]float64

	Pressure       float64    //kPa
	PressureTensor [6]float64 //xx, xy, yy, xz, yz, zz

	TotalEnergy     float64 //kJ/mol
	PotentialEnergy float64
	KineticEnergy   float64
	Temperature     float64 //K

	natoms int
	pos    [3][]float32
	vel    [3][]float32
}

// NewFrame returns a zeroed frame for natoms atoms. natoms must be positive.
func NewFrame(natoms int) (*Frame, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("can't create a frame for %d atoms", natoms), "", []string{"NewFrame"}, true, ErrInvalidArgument}
	}
	F := &Frame{natoms: natoms}
	F.pos = axes(natoms)
	F.vel = axes(natoms)
	return F, nil
}

// axes allocates the three per-axis blocks for natoms atoms in one
// contiguous slice.
func axes(natoms int) [3][]float32 {
	var ret [3][]float32
	data := make([]float32, 3*natoms)
	for i := range ret {
		ret[i] = data[i*natoms : (i+1)*natoms : (i+1)*natoms]
	}
	return ret
}

// CopyFrame returns a deep copy of src. No storage is shared between src and the copy.
func CopyFrame(src *Frame) *Frame {
	return src.Copy()
}

// Copy returns a deep copy of the frame.
func (F *Frame) Copy() *Frame {
	if F == nil {
		panic("Attempted to copy a nil frame")
	}
	C := *F
	C.pos = axes(F.natoms)
	C.vel = axes(F.natoms)
	for i := 0; i < 3; i++ {
		copy(C.pos[i], F.pos[i])
		copy(C.vel[i], F.vel[i])
	}
	return &C
}

// FrameFromArray creates a frame with the positions in data, which is a row-major
// array with the given shape. The shape must have exactly 2 dimensions, and its first
// one is the number of atoms. Only the first 3 columns are used.
// Velocities and the rest of the fields are left zeroed.
func FrameFromArray(data []float64, shape ...int) (*Frame, error) {
	if len(shape) != 2 {
		return nil, Error{fmt.Sprintf("array can only have 2 dimensions, got %d", len(shape)), "", []string{"FrameFromArray"}, true, ErrInvalidArgument}
	}
	r, c := shape[0], shape[1]
	if r <= 0 || c <= 0 || r*c != len(data) {
		return nil, Error{fmt.Sprintf("shape %v doesn't match an array of %d elements", shape, len(data)), "", []string{"FrameFromArray"}, true, ErrInvalidArgument}
	}
	F, err := NewFrame(r)
	if err != nil {
		return nil, errDecorate(err, "FrameFromArray")
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c && j < 3; j++ {
			F.pos[j][i] = float32(data[i*c+j])
		}
	}
	return F, nil
}

// FrameFromMatrix creates a frame with the positions in the rows of m (for
// instance, a *v3.Matrix). See FrameFromArray.
func FrameFromMatrix(m mat.Matrix) (*Frame, error) {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, Error{"empty matrix", "", []string{"FrameFromMatrix"}, true, ErrInvalidArgument}
	}
	F, err := NewFrame(r)
	if err != nil {
		return nil, errDecorate(err, "FrameFromMatrix")
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c && j < 3; j++ {
			F.pos[j][i] = float32(m.At(i, j))
		}
	}
	return F, nil
}

// Len returns the number of atoms in the frame.
func (F *Frame) Len() int {
	return F.natoms
}

// Axis returns the k component (0 for x, 1 for y, 2 for z) of the position of every atom.
// The returned slice is the frame's own storage.
func (F *Frame) Axis(k int) []float32 {
	return F.pos[k]
}

// VelocityAxis returns the k component of the velocity of every atom.
// The returned slice is the frame's own storage.
func (F *Frame) VelocityAxis(k int) []float32 {
	return F.vel[k]
}

// Position returns the position of the ith atom.
func (F *Frame) Position(i int) r3.Vec {
	return r3.Vec{X: float64(F.pos[0][i]), Y: float64(F.pos[1][i]), Z: float64(F.pos[2][i])}
}

// SetPosition sets the position of the ith atom.
func (F *Frame) SetPosition(i int, p r3.Vec) {
	F.pos[0][i] = float32(p.X)
	F.pos[1][i] = float32(p.Y)
	F.pos[2][i] = float32(p.Z)
}

// Velocity returns the velocity of the ith atom.
func (F *Frame) Velocity(i int) r3.Vec {
	return r3.Vec{X: float64(F.vel[0][i]), Y: float64(F.vel[1][i]), Z: float64(F.vel[2][i])}
}

// Coords puts the positions of the frame in out, one atom per row.
func (F *Frame) Coords(out *v3.Matrix) error {
	return fillMatrix(out, F.pos, "Coords")
}

// Velocities puts the velocities of the frame in out, one atom per row.
func (F *Frame) Velocities(out *v3.Matrix) error {
	return fillMatrix(out, F.vel, "Velocities")
}

func fillMatrix(out *v3.Matrix, blocks [3][]float32, caller string) error {
	if out == nil {
		return Error{"Given nil matrix", "", []string{caller}, true, ErrInvalidArgument}
	}
	n := len(blocks[0])
	if out.NVecs() != n {
		return Error{fmt.Sprintf("%s: %d vectors in matrix, but %d atoms in frame", NotEnoughSpace, out.NVecs(), n), "", []string{caller}, true, ErrInvalidArgument}
	}
	for i := 0; i < n; i++ {
		out.SetVec(i, float64(blocks[0][i]), float64(blocks[1][i]), float64(blocks[2][i]))
	}
	return nil
}

// BoxVectors returns the three vectors defining the (triclinic) simulation box,
// i.e. the three rows of the unit cell.
func (F *Frame) BoxVectors() [3]r3.Vec {
	c := F.UnitCell
	return [3]r3.Vec{
		{X: c[0], Y: c[1], Z: c[2]},
		{X: c[3], Y: c[4], Z: c[5]},
		{X: c[6], Y: c[7], Z: c[8]},
	}
}

// Dimensions returns the box as the lengths of its 3 vectors, a, b and c, followed by
// the angles alpha (between b and c), beta (between a and c) and gamma (between a and b)
// in degrees. If any of the vectors has zero length, all the values are zero.
func (F *Frame) Dimensions() [6]float64 {
	var ret [6]float64
	v := F.BoxVectors()
	a, b, c := r3.Norm(v[0]), r3.Norm(v[1]), r3.Norm(v[2])
	if a == 0 || b == 0 || c == 0 {
		return ret
	}
	ret[0], ret[1], ret[2] = a, b, c
	ret[3] = angle(v[1], v[2], b, c)
	ret[4] = angle(v[0], v[2], a, c)
	ret[5] = angle(v[0], v[1], a, b)
	return ret
}

func angle(p, q r3.Vec, np, nq float64) float64 {
	cos := r3.Dot(p, q) / (np * nq)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * chem.Rad2Deg
}
