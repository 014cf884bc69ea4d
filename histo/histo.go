// Package histo builds histograms of the values a quantity takes along a trajectory.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dividers returns n+1 evenly spaced bin limits, from min to max. If min and max are
// equal, the bins are centered around them, with width 1.
func Dividers(min, max float64, n int) []float64 {
	if n <= 0 {
		panic("gotrz/histo.Dividers: number of bins must be positive")
	}
	if min > max {
		min, max = max, min
	}
	if min == max {
		min -= 0.5 * float64(n)
		max += 0.5 * float64(n)
	}
	// stat.Histogram excludes values equal to the last divider
	max = math.Nextafter(max, math.Inf(1))
	return floats.Span(make([]float64, n+1), min, max)
}

// Data is a histogram.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

func (D *Data) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		ID:         D.id,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("gotrz/histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

// ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

// String prints a -hopefully- pretty string representation of
// the histogram, one bin per line.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	lines := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		lines = append(lines, fmt.Sprintf("%10.3f - %10.3f %9.3f", D.dividers[i], D.dividers[i+1], v))
	}
	return ret + strings.Join(lines, "\n")
}

// NewData returns a new histogram from the dividers and rawdata given.
// rawdata can be nil. In that case, an empty histogram is created.
// If an ID for the histogram is given, it will be set. If not, the ID will
// be set to -1. rawdata is not modified.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	if len(dividers) < 2 {
		panic("gotrz/histo.NewData: at least 2 dividers are needed")
	}
	d := new(Data)
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

// AddData adds the given data point(s) to the histogram. Points out of
// the range of the dividers are counted in the total, but not in any bin.
func (D *Data) AddData(point ...float64) {
	var norma bool
	if D.normalized {
		norma = true
		D.UnNormalize()
	}
	for _, v := range point {
		j := sort.SearchFloat64s(D.dividers, v)
		if j < len(D.dividers) && D.dividers[j] == v {
			j++
		}
		// v is in [dividers[j-1], dividers[j])
		if j > 0 && j < len(D.dividers) {
			D.histo[j-1]++
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

// Total returns the number of points added to the histogram.
func (D *Data) Total() int {
	return D.total
}

// Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

// Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

// UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

// normalizes or un-normalizes the histogram depending
// on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

// Copy copies the bins of the histogram into dest, if given and large enough,
// or into a new slice.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	copy(d, D.histo)
	return d
}

// View returns the bins of the histogram. Changing the slice changes the histogram.
func (D *Data) View() []float64 {
	return D.histo
}

// Sum returns the sum of the bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

// ReHisto replaces the contents of the histogram with those
// obtained from rawdata, using the given dividers.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	data := make([]float64, len(rawdata))
	copy(data, rawdata)
	sort.Float64s(data)
	// stat.Histogram just panics instead of omitting the values that are off limits
	// so we remove them here before the call.
	in := data
	maxi := sort.SearchFloat64s(in, dividers[len(dividers)-1])
	in = in[:maxi]
	mini := sort.SearchFloat64s(in, dividers[0])
	in = in[mini:]
	if len(D.dividers) != len(dividers) {
		D.dividers = make([]float64, len(dividers))
	}
	copy(D.dividers, dividers)
	D.total = len(data)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, in, nil)
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	if len(dest) > 0 && len(dest[0]) >= N {
		return dest[0][:N]
	}
	return make([]float64, N)
}
