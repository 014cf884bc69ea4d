// Package units holds the unit tables used to convert trajectory data from the
// units stored on disk ("native" units) to the units the caller works with.
//
// Every factor is given relative to the base unit of its kind (Angstrom,
// Angstrom/ps and ps), so that value_in_b = value_in_a * factor[b] / factor[a].
package units

import (
	"fmt"
	"sort"
	"strings"
)

// Unit kinds
const (
	Length   = "length"
	Velocity = "speed"
	Time     = "time"
)

// Base units
const (
	Angstrom   = "Angstrom"
	Nanometer  = "nm"
	AngstromPs = "Angstrom/ps"
	NmPs       = "nm/ps"
	Picosecond = "ps"
)

var lengthFactors = map[string]float64{
	"Angstrom":   1.0,
	"angstrom":   1.0,
	"A":          1.0,
	"Å":          1.0,
	"nm":         1.0 / 10,
	"nanometer":  1.0 / 10,
	"pm":         1e2,
	"picometer":  1e2,
	"fm":         1e5,
	"femtometer": 1e5,
}

var velocityFactors = map[string]float64{
	"Angstrom/ps":          1.0,
	"A/ps":                 1.0,
	"Å/ps":                 1.0,
	"Angstrom/picosecond":  1.0,
	"angstrom/picosecond":  1.0,
	"Angstrom/AKMA":        4.888821e-2,
	"nm/ps":                0.1,
	"nanometer/picosecond": 0.1,
	"Angstrom/fs":          1e-3,
	"Angstrom/femtosecond": 1e-3,
	"pm/ps":                1e2,
	"nm/ns":                1e2,
	"m/s":                  1e2,
}

var timeFactors = map[string]float64{
	"ps":          1.0,
	"picosecond":  1.0,
	"fs":          1e3,
	"femtosecond": 1e3,
	"ns":          1e-3,
	"nanosecond":  1e-3,
	"s":           1e-12,
	"second":      1e-12,
	"AKMA":        1 / 4.888821e-2,
}

func table(kind string) (map[string]float64, error) {
	switch kind {
	case Length:
		return lengthFactors, nil
	case Velocity:
		return velocityFactors, nil
	case Time:
		return timeFactors, nil
	default:
		return nil, fmt.Errorf("unknown unit kind %q", kind)
	}
}

// IsValid checks if unit is a known unit of the given kind.
func IsValid(kind, unit string) bool {
	t, err := table(kind)
	if err != nil {
		return false
	}
	_, ok := t[unit]
	return ok
}

// ValidUnits returns the sorted names of all the known units of a kind, for error messages.
func ValidUnits(kind string) []string {
	t, err := table(kind)
	if err != nil {
		return nil
	}
	ret := make([]string, 0, len(t))
	for k := range t {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Factor returns the number by which a quantity of the given kind expressed in
// from has to be multiplied to express it in to.
func Factor(kind, from, to string) (float64, error) {
	t, err := table(kind)
	if err != nil {
		return 0, err
	}
	ff, ok := t[from]
	if !ok {
		return 0, fmt.Errorf("unknown %s unit %q, valid units: %s", kind, from, strings.Join(ValidUnits(kind), ", "))
	}
	ft, ok := t[to]
	if !ok {
		return 0, fmt.Errorf("unknown %s unit %q, valid units: %s", kind, to, strings.Join(ValidUnits(kind), ", "))
	}
	return ft / ff, nil
}

// Convert converts x, a quantity of the given kind, from units from to units to.
func Convert(x float64, kind, from, to string) (float64, error) {
	f, err := Factor(kind, from, to)
	if err != nil {
		return 0, err
	}
	return x * f, nil
}

// Scale multiplies in place every element of xs by f.
func Scale[T float32 | float64](xs []T, f float64) {
	if f == 1 {
		return
	}
	for i := range xs {
		xs[i] = T(float64(xs[i]) * f)
	}
}
