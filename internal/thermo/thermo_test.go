package thermo

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rmera/gotrz/internal/trztest"
	"github.com/rmera/gotrz/traj/trz"
	v3 "github.com/rmera/gotrz/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, n int) []Record {
	t.Helper()
	path := trztest.WriteFile(t, "thermo.trz", trztest.Encode(binary.LittleEndian, "thermo", trztest.Sample(3, n)))
	traj, err := trz.New(path, 3, false)
	require.NoError(t, err)
	t.Cleanup(func() { traj.Close() })
	recs, err := Collect(traj)
	require.NoError(t, err)
	return recs
}

func TestCollect(t *testing.T) {
	recs := collect(t, 4)
	require.Len(t, recs, 4)
	for i, r := range recs {
		assert.Equal(t, i+1, r.Index)
		assert.Equal(t, 100*(i+1), r.Step)
		assert.InDelta(t, 1.5+0.5*float64(i), r.Time, 1e-12)
		assert.InDelta(t, 300+float64(i), r.Temperature, 1e-12)
		assert.InDelta(t, -150-float64(i), r.PotentialEnergy, 1e-12)
		assert.InDelta(t, 3+float64(i), r.A, 1e-12)
		// triangular cell, the volume is the product of the diagonal
		assert.InDelta(t, (3+float64(i))*(4+float64(i))*(5+float64(i)), r.Volume, 1e-9)
	}
}

func TestSummarize(t *testing.T) {
	recs := collect(t, 4)
	s, err := Summarize(recs, Temperature)
	require.NoError(t, err)
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 301.5, s.Mean, 1e-12)
	assert.InDelta(t, 1.2909944487358056, s.StdDev, 1e-12)
	assert.Equal(t, 300.0, s.Min)
	assert.Equal(t, 303.0, s.Max)
	assert.Contains(t, s.String(), "temp")

	s, err = Summarize(recs[:1], KineticEnergy)
	require.NoError(t, err)
	assert.Equal(t, Summary{Field: KineticEnergy, N: 1, Mean: 50, Min: 50, Max: 50}, s)

	_, err = Summarize(nil, Time)
	assert.Error(t, err)
	_, err = Summarize(recs, Field("mass"))
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	for _, f := range Fields() {
		g, err := ParseField(" " + string(f) + " ")
		require.NoError(t, err)
		assert.Equal(t, f, g)
		_, err = Record{}.Value(f)
		assert.NoError(t, err)
	}
	f, err := ParseField("ETOT")
	require.NoError(t, err)
	assert.Equal(t, TotalEnergy, f)
	_, err = ParseField("density")
	assert.Error(t, err)
}

func TestAutocorrelationDistribution(t *testing.T) {
	recs := collect(t, 6)
	acf, err := Autocorrelation(recs, Temperature)
	require.NoError(t, err)
	require.Len(t, acf, 6)
	assert.InDelta(t, 1, acf[0], 1e-9)
	_, err = Autocorrelation(recs, KineticEnergy)
	assert.Error(t, err, "the kinetic energy is constant")

	D, err := Distribution(recs, Temperature, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.0 / 6, 2.0 / 6, 2.0 / 6}, D.View(), 1e-12)
	_, err = Distribution(recs, Temperature, 0)
	assert.Error(t, err)
	_, err = Distribution(nil, Temperature, 3)
	assert.Error(t, err)
}

func TestPlot(t *testing.T) {
	recs := collect(t, 5)
	name := filepath.Join(t.TempDir(), "energies.png")
	require.NoError(t, Plot(recs, []Field{TotalEnergy, PotentialEnergy}, name))
	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
	assert.Error(t, Plot(nil, []Field{Temperature}, name))
	assert.Error(t, Plot(recs, nil, name))
	assert.Error(t, Plot(recs, []Field{"mass"}, name))
}

func TestStore(t *testing.T) {
	recs := collect(t, 3)
	S, err := OpenStore(filepath.Join(t.TempDir(), "thermo.db"))
	require.NoError(t, err)
	defer S.Close()
	require.NoError(t, S.Insert("run1", recs))
	require.NoError(t, S.Insert("run2", recs[:1]))
	// inserting again replaces
	require.NoError(t, S.Insert("run1", recs))

	got, err := S.Records("run1")
	require.NoError(t, err)
	if diff := cmp.Diff(recs, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	names, err := S.Trajectories()
	require.NoError(t, err)
	assert.Equal(t, []string{"run1", "run2"}, names)
	none, err := S.Records("run3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGyrationAutocorrelation(t *testing.T) {
	c, err := v3.NewMatrix([]float64{0, 0, 0, 2, 0, 0})
	require.NoError(t, err)
	rg, err := RadiusOfGyration(c)
	require.NoError(t, err)
	assert.InDelta(t, 1, rg, 1e-12)
	_, err = RadiusOfGyration(nil)
	assert.Error(t, err)

	path := trztest.WriteFile(t, "pulse.trz", trztest.Encode(binary.LittleEndian, "", trztest.Pulsing(4)))
	traj, err := trz.New(path, 2, false)
	require.NoError(t, err)
	defer traj.Close()
	acf, err := GyrationAutocorrelation(traj)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -0.75, 0.5, -0.25}, acf, 1e-9)
	assert.Equal(t, trz.HeaderRead, traj.State())

	// the radius of gyration of the sample frames doesn't change
	path = trztest.WriteFile(t, "still.trz", trztest.Encode(binary.LittleEndian, "", trztest.Sample(3, 3)))
	still, err := trz.New(path, 3, false)
	require.NoError(t, err)
	defer still.Close()
	_, err = GyrationAutocorrelation(still)
	assert.Error(t, err)
}
