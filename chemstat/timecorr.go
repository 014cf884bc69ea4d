// Package chemstat computes time correlation functions of the quantities
// obtained along a trajectory.
package chemstat

import (
	"errors"
	"fmt"
	"math/cmplx"

	chem "github.com/rmera/gotrz"
	v3 "github.com/rmera/gotrz/v3"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// ErrConstantSeries is returned when the correlation of a series without variance is requested.
var ErrConstantSeries = errors.New("series has no variance")

func cmplxMulConj(dst, b []complex128) {
	if len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: Both slices should have the same len %d, %d", len(dst), len(b)))
	}
	for i, v := range b {
		dst[i] *= cmplx.Conj(v)
	}
}

func cmplxRealScale(dst []complex128, sc float64) []complex128 {
	for i, v := range dst {
		dst[i] = v * complex(sc, 0)
	}
	return dst
}

// mapfunc applies f to the coordinates of every remaining frame in t, and appends the results to c.
func mapfunc(t chem.Traj, coord *v3.Matrix, c []float64, f func(c *v3.Matrix) (float64, error)) ([]float64, error) {
	for err := t.Next(coord); ; err = t.Next(coord) {
		if err != nil {
			if _, ok := err.(chem.LastFrameError); ok {
				break
			}
			return c, err
		}
		v, err := f(coord)
		if err != nil {
			return c, err
		}
		c = append(c, v)
	}
	return c, nil
}

// MDCorrelation finds the cross-correlation function for the quantities produced by f1 and f2 on
// trajectories t1 and t2, which are read until their end. If t1, t2, f1 and f2 are the same, you obtain the
// autocorrelation function. In that case, you can slightly lessen the computational cost by setting auto to true,
// and t2 is not read. trjlen is a hint for the number of frames, it can be 0.
func MDCorrelation(t1, t2 chem.Traj, f1, f2 func(c *v3.Matrix) (float64, error), trjlen int, auto ...bool) ([]float64, error) {
	if trjlen <= 0 {
		trjlen = 1000
	}
	c1, err := mapfunc(t1, v3.Zeros(t1.Len()), make([]float64, 0, trjlen), f1)
	if err != nil {
		return nil, err
	}
	if len(auto) > 0 && auto[0] {
		return CrossCorrMem(c1, c1, nil, nil)
	}
	c2, err := mapfunc(t2, v3.Zeros(t2.Len()), make([]float64, 0, len(c1)), f2)
	if err != nil {
		return nil, err
	}
	if len(c1) != len(c2) {
		return nil, fmt.Errorf("trajectories have different lengths: %d, %d", len(c1), len(c2))
	}
	return CrossCorrMem(c1, c2, nil, nil)
}

// Autocorrelation returns the normalized autocorrelation function of the series c, for
// lags from 0 to len(c)-1. The value at lag 0 is 1.
func Autocorrelation(c []float64) ([]float64, error) {
	return CrossCorrMem(c, c, nil, nil)
}

// CrossCorrMem returns the normalized cross-correlation of c1 and c2, which must have the same length N,
// for lags from 0 to N-1:
//
//	C(k) = sum_t (c1(t+k)-<c1>)(c2(t)-<c2>) / (N s1 s2)
//
// where s1 and s2 are the population standard deviations. The series are zero-padded to 2N, so the
// correlation is not periodic. c1pad and c2pad are used as workspace if they have length 2N, and
// the result is put in dst if it is given and has enough capacity.
func CrossCorrMem(c1, c2 []float64, c1pad, c2pad []complex128, dst ...[]float64) ([]float64, error) {
	if len(c1) != len(c2) {
		return nil, fmt.Errorf("series have different lengths: %d, %d", len(c1), len(c2))
	}
	if len(c1) < 2 {
		return nil, fmt.Errorf("at least 2 points are needed, got %d", len(c1))
	}
	var ret []float64
	if len(dst) > 0 && cap(dst[0]) >= len(c1) {
		ret = dst[0][:0]
	} else {
		ret = make([]float64, 0, len(c1))
	}
	c1mean, c1std := stat.PopMeanStdDev(c1, nil)
	c2mean, c2std := stat.PopMeanStdDev(c2, nil)
	if c1std == 0 || c2std == 0 {
		return nil, ErrConstantSeries
	}
	if len(c1pad) != 2*len(c1) {
		c1pad = make([]complex128, 2*len(c1))
	}
	if len(c2pad) != 2*len(c2) {
		c2pad = make([]complex128, 2*len(c2))
	}
	for i, v := range c1 {
		c1pad[i] = complex(v-c1mean, 0)
		c2pad[i] = complex(c2[i]-c2mean, 0)
	}
	for i := len(c1); i < len(c1pad); i++ {
		c1pad[i] = 0
		c2pad[i] = 0
	}
	f := fourier.NewCmplxFFT(len(c1pad))
	f.Coefficients(c1pad, c1pad)
	f.Coefficients(c2pad, c2pad)
	cmplxMulConj(c1pad, c2pad)
	f.Sequence(c1pad, c1pad)
	cmplxRealScale(c1pad, 1.0/float64(len(c1pad))) //normalization of the FFT

	norm := c1std * c2std * float64(len(c1))
	for _, v := range c1pad[:len(c1)] {
		ret = append(ret, real(v)/norm)
	}
	return ret, nil
}
