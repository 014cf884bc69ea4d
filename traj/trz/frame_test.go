package trz

import (
	"encoding/binary"
	"testing"

	v3 "github.com/rmera/gotrz/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewFrame(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := NewFrame(n)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	F, err := NewFrame(4)
	require.NoError(t, err)
	assert.Equal(t, 4, F.Len())
	assert.Zero(t, F.Index)
	for k := 0; k < 3; k++ {
		assert.Len(t, F.Axis(k), 4)
		assert.Len(t, F.VelocityAxis(k), 4)
	}
	// the blocks must not overlap
	F.Axis(0)[3] = 1
	assert.Zero(t, F.Axis(1)[0])
	grown := append(F.Axis(0), 9)
	assert.Len(t, grown, 5)
	assert.Zero(t, F.Axis(1)[0])
}

func TestCopyFrame(t *testing.T) {
	path := writeTRZ(t, "copy.trz", encodeTRZ(binary.LittleEndian, "", sampleFrames(3, 2)))
	traj, err := New(path, 3, false)
	require.NoError(t, err)
	defer traj.Close()
	require.NoError(t, traj.Next(nil))
	C := CopyFrame(traj.Frame())
	pos, vel, cell, tm := C.Position(2), C.Velocity(2), C.UnitCell, C.Time
	require.NoError(t, traj.Next(nil))
	assert.NotEqual(t, pos, traj.Frame().Position(2))
	assert.Equal(t, 1, C.Index)
	assert.Equal(t, pos, C.Position(2))
	assert.Equal(t, vel, C.Velocity(2))
	assert.Equal(t, cell, C.UnitCell)
	assert.Equal(t, tm, C.Time)
	C.SetPosition(0, r3.Vec{X: 7})
	assert.NotEqual(t, C.Position(0), traj.Frame().Position(0))
	assert.Panics(t, func() {
		var F *Frame
		F.Copy()
	})
}

func TestFrameFromArray(t *testing.T) {
	data := []float64{0, 0, 0, 1, 1, 1, 2, 3, 4}
	_, err := FrameFromArray(data, 9)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FrameFromArray(data)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FrameFromArray(data, 3, 3, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FrameFromArray(data, 2, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FrameFromArray(nil, 0, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	F, err := FrameFromArray(data, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, F.Len())
	assert.Equal(t, r3.Vec{X: 2, Y: 3, Z: 4}, F.Position(2))
	assert.Equal(t, []float32{0, 1, 2}, F.Axis(0))
	for i := 0; i < 3; i++ {
		assert.Equal(t, r3.Vec{}, F.Velocity(i))
	}
	assert.Zero(t, F.Index)
	assert.Zero(t, F.Time)

	// extra columns are ignored
	F, err = FrameFromArray([]float64{1, 2, 3, 99, 4, 5, 6, 99}, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 4, Y: 5, Z: 6}, F.Position(1))
}

func TestFrameFromMatrix(t *testing.T) {
	m, err := v3.NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	F, err := FrameFromMatrix(m)
	require.NoError(t, err)
	assert.Equal(t, 2, F.Len())
	assert.Equal(t, r3.Vec{X: 4, Y: 5, Z: 6}, F.Position(1))

	out := v3.Zeros(2)
	require.NoError(t, F.Coords(out))
	assert.Equal(t, m.RawMatrix().Data, out.RawMatrix().Data)
	require.NoError(t, F.Velocities(out))
	assert.Equal(t, make([]float64, 6), out.RawMatrix().Data)
	assert.ErrorIs(t, F.Coords(v3.Zeros(3)), ErrInvalidArgument)
	assert.ErrorIs(t, F.Coords(nil), ErrInvalidArgument)
}

func TestDimensions(t *testing.T) {
	F, _ := NewFrame(1)
	assert.Equal(t, [6]float64{}, F.Dimensions())

	F.UnitCell = [9]float64{10, 0, 0, 0, 20, 0, 0, 0, 30}
	d := F.Dimensions()
	assert.InDeltaSlice(t, []float64{10, 20, 30, 90, 90, 90}, d[:], 1e-9)

	// hexagonal cell
	F.UnitCell = [9]float64{10, 0, 0, 5, 8.660254037844386, 0, 0, 0, 15}
	d = F.Dimensions()
	assert.InDeltaSlice(t, []float64{10, 10, 15, 90, 90, 60}, d[:], 1e-9)

	v := F.BoxVectors()
	assert.Equal(t, r3.Vec{X: 5, Y: 8.660254037844386}, v[1])
	assert.Equal(t, r3.Vec{Z: 15}, v[2])
}
