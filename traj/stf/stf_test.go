/*
 * stf_test.go, part of gotrz.
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

package stf

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chem "github.com/rmera/gotrz"
	"github.com/rmera/gotrz/internal/trztest"
	"github.com/rmera/gotrz/traj/trz"
	v3 "github.com/rmera/gotrz/v3"
)

func TestRoundTrip(Te *testing.T) {
	for _, ext := range []string{".stf", ".stz", ".str", ".stl"} {
		name := filepath.Join(Te.TempDir(), "test"+ext)
		W, err := NewWriter(name, 2, map[string]string{"title": "water", "prec": "3"})
		require.NoError(Te, err, ext)
		assert.Equal(Te, 3, W.Prec())
		c1, err := v3.NewMatrix([]float64{1.25, -0.5, 3, 0.0004, 10.1236, -7})
		require.NoError(Te, err)
		box := []float64{10, 0, 0, 0, 20, 0, 0, 0, 30.5}
		require.NoError(Te, W.WNext(c1, box))
		require.NoError(Te, W.WNext(c1))
		require.NoError(Te, W.Close())
		assert.Error(Te, W.WNext(c1))

		R, header, err := New(name)
		require.NoError(Te, err, ext)
		assert.Equal(Te, map[string]string{"title": "water"}, header)
		assert.Equal(Te, 2, R.Len())
		assert.Equal(Te, 3, R.Prec())
		out := v3.Zeros(2)
		gotBox := make([]float64, 9)
		require.NoError(Te, R.Next(out, gotBox))
		assert.InDeltaSlice(Te, []float64{1.25, -0.5, 3, 0, 10.124, -7}, out.RawMatrix().Data, 1e-9)
		assert.InDeltaSlice(Te, box, gotBox, 1e-9)
		// the second frame has no box
		require.NoError(Te, R.Next(nil, gotBox))
		assert.Equal(Te, make([]float64, 9), gotBox)
		err = R.Next(out)
		_, ok := err.(chem.LastFrameError)
		assert.True(Te, ok, "expected end of trajectory, got %v", err)
		assert.False(Te, R.Readable())
	}
}

func TestWriterErrors(Te *testing.T) {
	dir := Te.TempDir()
	_, err := NewWriter(filepath.Join(dir, "a.stf"), 0, nil)
	assert.Error(Te, err)
	_, err = NewWriter(filepath.Join(dir, "b.stf"), 1, map[string]string{"a=b": "c"})
	assert.Error(Te, err)
	_, err = NewWriter(filepath.Join(dir, "nodir", "c.stf"), 1, nil)
	assert.Error(Te, err)

	W, err := NewWriter(filepath.Join(dir, "d.stf"), 2, map[string]string{"prec": "none"})
	require.NoError(Te, err)
	defer W.Close()
	assert.Equal(Te, DefaultPrec, W.Prec())
	assert.Error(Te, W.WNext(nil))
	assert.Error(Te, W.WNext(v3.Zeros(3)))
}

func TestWrongAtoms(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "wrong.stf")
	W, err := NewWriter(name, 2, nil)
	require.NoError(Te, err)
	require.NoError(Te, W.WNext(v3.Zeros(2)))
	require.NoError(Te, W.Close())

	R, _, err := New(name)
	require.NoError(Te, err)
	defer R.Close()
	assert.Error(Te, R.Next(v3.Zeros(3)))
}

func TestWriteFromTRZ(Te *testing.T) {
	frames := trztest.Sample(3, 4)
	path := trztest.WriteFile(Te, "src.trz", trztest.Encode(binary.LittleEndian, "src", frames))
	src, err := trz.New(path, 3, false)
	require.NoError(Te, err)
	defer src.Close()

	name := filepath.Join(Te.TempDir(), "out.stf")
	W, err := NewWriter(name, 3, map[string]string{"source": "src.trz"})
	require.NoError(Te, err)
	n, err := Write(W, src, 10)
	require.NoError(Te, err)
	assert.Equal(Te, 4, n)
	require.NoError(Te, W.Close())

	R, header, err := New(name)
	require.NoError(Te, err)
	defer R.Close()
	assert.Equal(Te, "src.trz", header["source"])
	out := v3.Zeros(3)
	box := make([]float64, 9)
	for i, F := range frames {
		require.NoError(Te, R.Next(out, box))
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				assert.InDelta(Te, 10*float64(F.Pos[k][j]), out.At(j, k), 1e-9, "frame %d atom %d", i, j)
			}
		}
		for j := range box {
			assert.InDelta(Te, 10*F.Cell[j], box[j], 1e-9)
		}
	}
	err = R.Next(nil)
	_, ok := err.(chem.LastFrameError)
	assert.True(Te, ok)

	W, err = NewWriter(filepath.Join(Te.TempDir(), "bad.stf"), 2, nil)
	require.NoError(Te, err)
	defer W.Close()
	_, err = Write(W, src, 1)
	assert.Error(Te, err)
}
