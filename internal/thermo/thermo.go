/*
 * thermo.go, part of gotrz.
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

// Package thermo collects the per-frame scalar quantities of a TRZ trajectory
// (time, pressure, energies, temperature, box) and summarizes, plots and stores them.
package thermo

import (
	"fmt"
	"math"
	"strings"

	"github.com/rmera/gotrz/chemstat"
	"github.com/rmera/gotrz/histo"
	"github.com/rmera/gotrz/traj/trz"
	v3 "github.com/rmera/gotrz/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Record contains the scalar quantities of one frame.
type Record struct {
	Index           int
	Step            int
	Time            float64
	Pressure        float64
	TotalEnergy     float64
	PotentialEnergy float64
	KineticEnergy   float64
	Temperature     float64
	A, B, C         float64 //box lengths
	Volume          float64
}

// Field names one of the quantities in a Record.
type Field string

const (
	Time            Field = "time"
	Pressure        Field = "pressure"
	TotalEnergy     Field = "etot"
	PotentialEnergy Field = "epot"
	KineticEnergy   Field = "ekin"
	Temperature     Field = "temp"
	A               Field = "a"
	B               Field = "b"
	C               Field = "c"
	Volume          Field = "volume"
)

// Fields returns all the fields, in the order they are printed.
func Fields() []Field {
	return []Field{Time, Pressure, TotalEnergy, PotentialEnergy, KineticEnergy, Temperature, A, B, C, Volume}
}

// ParseField returns the field called s (case insensitive).
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Fields() {
		if v == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Value returns the value of the field f in the record.
func (R Record) Value(f Field) (float64, error) {
	switch f {
	case Time:
		return R.Time, nil
	case Pressure:
		return R.Pressure, nil
	case TotalEnergy:
		return R.TotalEnergy, nil
	case PotentialEnergy:
		return R.PotentialEnergy, nil
	case KineticEnergy:
		return R.KineticEnergy, nil
	case Temperature:
		return R.Temperature, nil
	case A:
		return R.A, nil
	case B:
		return R.B, nil
	case C:
		return R.C, nil
	case Volume:
		return R.Volume, nil
	}
	return 0, fmt.Errorf("unknown field %q", f)
}

// FromFrame returns the record for the frame F.
func FromFrame(F *trz.Frame) Record {
	d := F.Dimensions()
	return Record{
		Index:           F.Index,
		Step:            F.Step,
		Time:            F.Time,
		Pressure:        F.Pressure,
		TotalEnergy:     F.TotalEnergy,
		PotentialEnergy: F.PotentialEnergy,
		KineticEnergy:   F.KineticEnergy,
		Temperature:     F.Temperature,
		A:               d[0],
		B:               d[1],
		C:               d[2],
		Volume:          volume(F.UnitCell),
	}
}

// volume is the absolute value of the determinant of the box vectors.
func volume(cell [9]float64) float64 {
	v := mat.Det(mat.NewDense(3, 3, cell[:]))
	if v < 0 {
		return -v
	}
	return v
}

// Collect reads the whole trajectory, from the first frame, and returns one record per frame.
// The trajectory is left rewound.
func Collect(traj *trz.TRZObj) ([]Record, error) {
	recs := make([]Record, 0, 100)
	for F := range traj.Frames() {
		recs = append(recs, FromFrame(F))
	}
	if err := traj.Err(); err != nil {
		return recs, err
	}
	return recs, nil
}

// Series returns the values of the field f in all the records.
func Series(recs []Record, f Field) ([]float64, error) {
	ret := make([]float64, len(recs))
	for i, r := range recs {
		v, err := r.Value(f)
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}

// Summary contains simple statistics of one field.
type Summary struct {
	Field  Field
	N      int
	Mean   float64
	StdDev float64 //sample standard deviation, 0 if N is 1.
	Min    float64
	Max    float64
}

func (S Summary) String() string {
	return fmt.Sprintf("%-8s n=%d mean=%.4f sd=%.4f min=%.4f max=%.4f", S.Field, S.N, S.Mean, S.StdDev, S.Min, S.Max)
}

// Summarize returns the statistics of the field f over the records.
func Summarize(recs []Record, f Field) (Summary, error) {
	s := Summary{Field: f}
	data, err := Series(recs, f)
	if err != nil {
		return s, err
	}
	if len(data) == 0 {
		return s, fmt.Errorf("no records to summarize")
	}
	s.N = len(data)
	if s.N == 1 {
		s.Mean = data[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	}
	s.Min = floats.Min(data)
	s.Max = floats.Max(data)
	return s, nil
}

// Autocorrelation returns the normalized autocorrelation function of the field f,
// for lags of 0 to len(recs)-1 frames.
func Autocorrelation(recs []Record, f Field) ([]float64, error) {
	data, err := Series(recs, f)
	if err != nil {
		return nil, err
	}
	return chemstat.Autocorrelation(data)
}

// RadiusOfGyration returns the radius of gyration of the points in c, all with the same weight.
func RadiusOfGyration(c *v3.Matrix) (float64, error) {
	if c == nil || c.NVecs() == 0 {
		return 0, fmt.Errorf("no coordinates for a radius of gyration")
	}
	col := make([]float64, c.NVecs())
	var rg2 float64
	for k := 0; k < 3; k++ {
		mat.Col(col, k, c)
		_, sd := stat.PopMeanStdDev(col, nil)
		rg2 += sd * sd
	}
	return math.Sqrt(rg2), nil
}

// GyrationAutocorrelation returns the normalized autocorrelation function of the radius of
// gyration of the whole system along traj. traj is rewound before and after reading it.
func GyrationAutocorrelation(traj *trz.TRZObj) ([]float64, error) {
	if err := traj.Rewind(); err != nil {
		return nil, err
	}
	defer traj.Rewind()
	return chemstat.MDCorrelation(traj, traj, RadiusOfGyration, RadiusOfGyration, traj.NumFrames(), true)
}

// Distribution returns a normalized histogram of the values of the field f, with
// nbins bins spanning the range of the values.
func Distribution(recs []Record, f Field, nbins int) (*histo.Data, error) {
	if nbins <= 0 {
		return nil, fmt.Errorf("number of bins must be positive, got %d", nbins)
	}
	data, err := Series(recs, f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no records for a distribution")
	}
	D := histo.NewData(histo.Dividers(floats.Min(data), floats.Max(data), nbins), data)
	D.Normalize()
	return D, nil
}
