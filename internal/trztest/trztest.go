// Package trztest writes small TRZ files for tests.
package trztest

import (
	"bytes"
	"compress/lzw"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// Frame is what the writer puts in one frame.
type Frame struct {
	Step     int32
	Time     float64
	Cell     [9]float64
	Pressure float64
	Tensor   [6]float64
	Energy   [6]float64 //total, potential, kinetic, temperature and 2 unused
	Pos      [3][]float32
	Vel      [3][]float32
}

func (F Frame) NAtoms() int { return len(F.Pos[0]) }

// Sample returns n frames of natoms atoms with distinct values everywhere.
// Frame i has time 1.5+0.5i.
func Sample(natoms, n int) []Frame {
	ret := make([]Frame, n)
	for i := range ret {
		f := float64(i)
		F := Frame{
			Step:     int32(100 * (i + 1)),
			Time:     1.5 + 0.5*f,
			Cell:     [9]float64{3 + f, 0, 0, 0.1, 4 + f, 0, 0.2, 0.3, 5 + f},
			Pressure: 101.3 + f,
			Tensor:   [6]float64{1, 2, 3, 4, 5, 6 + f},
			Energy:   [6]float64{-100 - f, -150 - f, 50, 300 + f, 0, 0},
		}
		for k := 0; k < 3; k++ {
			F.Pos[k] = make([]float32, natoms)
			F.Vel[k] = make([]float32, natoms)
			for j := 0; j < natoms; j++ {
				F.Pos[k][j] = float32(f + 0.25*float64(j) + float64(k))
				F.Vel[k][j] = float32(-0.5*f + 0.125*float64(j) - float64(k))
			}
		}
		ret[i] = F
	}
	return ret
}

// Pulsing returns n frames of 2 atoms, the first at the origin and the second at x=1 in
// even frames and x=2 in odd ones (counting from 0), so the radius of gyration alternates
// between 0.5 and 1. Everything else is as in Sample.
func Pulsing(n int) []Frame {
	frames := Sample(2, n)
	for i := range frames {
		for k := 0; k < 3; k++ {
			clear(frames[i].Pos[k])
		}
		frames[i].Pos[0][1] = float32(1 + i%2)
	}
	return frames
}

// Scenario returns a frame with 2 atoms at the origin and at (1,1,1), in a cubic box of side 10,
// at time 1.5.
func Scenario() Frame {
	return Frame{
		Step: 1,
		Time: 1.5,
		Cell: [9]float64{10, 0, 0, 0, 10, 0, 0, 0, 10},
		Pos:  [3][]float32{{0, 1}, {0, 1}, {0, 1}},
		Vel:  [3][]float32{{0, 0}, {0, 0}, {0, 0}},
	}
}

// PutRecord writes data as one Fortran record, surrounded by its length markers.
func PutRecord(w *bytes.Buffer, order binary.ByteOrder, data ...any) {
	var payload bytes.Buffer
	for _, d := range data {
		if err := binary.Write(&payload, order, d); err != nil {
			panic(err)
		}
	}
	binary.Write(w, order, int32(payload.Len()))
	w.Write(payload.Bytes())
	binary.Write(w, order, int32(payload.Len()))
}

// Encode returns a TRZ file with the given frames.
func Encode(order binary.ByteOrder, title string, frames []Frame) []byte {
	var b bytes.Buffer
	t := []byte(strings.Repeat(" ", 80))
	copy(t, title)
	PutRecord(&b, order, t)
	PutRecord(&b, order, int32(len(frames)))
	for _, F := range frames {
		PutRecord(&b, order, F.Step, 10*F.Step, int32(F.NAtoms()), F.Time)
		PutRecord(&b, order, F.Cell)
		PutRecord(&b, order, F.Pressure, F.Tensor)
		PutRecord(&b, order, int32(6), F.Energy)
		for k := 0; k < 3; k++ {
			PutRecord(&b, order, F.Pos[k])
		}
		for k := 0; k < 3; k++ {
			PutRecord(&b, order, F.Vel[k])
		}
	}
	return b.Bytes()
}

// WriteFile writes data to a file called name in a temporary directory, compressing
// it according to the extension (.zst, .zstd, .gz, .z, .flate or .lzw), and returns the path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	var w io.WriteCloser
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		w, err = zstd.NewWriter(f)
	case ".gz":
		w = gzip.NewWriter(f)
	case ".flate", ".z":
		w, err = flate.NewWriter(f, flate.BestCompression)
	case ".lzw":
		w = lzw.NewWriter(f, lzw.MSB, 8)
	}
	require.NoError(t, err)
	if w == nil {
		_, err = f.Write(data)
		require.NoError(t, err)
		return path
	}
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}
