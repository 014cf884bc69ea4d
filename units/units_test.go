package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		kind, from, to string
		want           float64
	}{
		{Length, Nanometer, Angstrom, 10},
		{Length, Angstrom, Nanometer, 0.1},
		{Length, "pm", "nm", 1e-3},
		{Velocity, NmPs, AngstromPs, 10},
		{Velocity, AngstromPs, "m/s", 100},
		{Time, Picosecond, "fs", 1000},
		{Time, "ns", Picosecond, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"_"+tt.from+"_"+tt.to, func(t *testing.T) {
			f, err := Factor(tt.kind, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, f, 1e-9*tt.want)
		})
	}
}

func TestFactorUnknown(t *testing.T) {
	_, err := Factor(Length, "furlong", Angstrom)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "furlong")
	_, err = Factor("mass", "kg", "g")
	require.Error(t, err)
	assert.False(t, IsValid("mass", "kg"))
	assert.True(t, IsValid(Velocity, "nm/ps"))
	assert.Nil(t, ValidUnits("mass"))
}

func TestConverter(t *testing.T) {
	x := []float32{1, 2.5}
	cell := []float64{3, 0, 0}
	v := []float32{0.5}
	require.NoError(t, PositionsFromNative(Default, Nanometer, x))
	require.NoError(t, PositionsFromNative(Default, Nanometer, cell))
	require.NoError(t, VelocitiesFromNative(Default, NmPs, v))
	assert.Equal(t, []float32{10, 25}, x)
	assert.Equal(t, []float64{30, 0, 0}, cell)
	assert.Equal(t, []float32{5}, v)

	tm, err := Default.TimeFromNative(2, Picosecond)
	require.NoError(t, err)
	assert.Equal(t, 2.0, tm)

	bad := Converter{Length: "parsec", Velocity: AngstromPs, Time: Picosecond}
	assert.Error(t, bad.Validate())
	assert.NoError(t, Default.Validate())
	assert.Error(t, PositionsFromNative(bad, Nanometer, x))
}
