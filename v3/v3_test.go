/*
 * v3_test.go, part of gotrz.
 *
 * Copyright 2013 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	require.NoError(Te, err)
	assert.Equal(Te, 3, A.NVecs())
	View := A.VecView(1)
	View.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(1, 0))
	assert.Equal(Te, 100.0, a[3], "the matrix should not copy its data")
}

func TestNewMatrixBadLength(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	_, ok := err.(errorInt)
	assert.True(Te, ok)
	_, err = NewMatrix(nil)
	require.Error(Te, err)
}

func TestZerosSetVec(Te *testing.T) {
	Z := Zeros(2)
	Z.SetVec(1, 1, 2, 3)
	assert.Equal(Te, []float64{0, 0, 0, 1, 2, 3}, Z.RawMatrix().Data)
	D := Matrix2Dense(Z)
	assert.Same(Te, Z.Dense, D)
}

func TestDense2Matrix(Te *testing.T) {
	M := Dense2Matrix(mat.NewDense(2, 3, nil))
	assert.Equal(Te, 2, M.NVecs())
	assert.Panics(Te, func() { Dense2Matrix(mat.NewDense(2, 2, nil)) })
}
