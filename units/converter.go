package units

// Converter converts native trajectory data, in place, to a target unit system.
type Converter struct {
	Length   string
	Velocity string
	Time     string
}

// Default is the unit system used when nothing else is configured.
var Default = Converter{Length: Angstrom, Velocity: AngstromPs, Time: Picosecond}

// Validate returns an error if any of the units in C is unknown.
func (C Converter) Validate() error {
	if _, err := Factor(Length, Angstrom, C.Length); err != nil {
		return err
	}
	if _, err := Factor(Velocity, AngstromPs, C.Velocity); err != nil {
		return err
	}
	_, err := Factor(Time, Picosecond, C.Time)
	return err
}

// PositionsFromNative converts every given block of lengths from native to C.Length.
func PositionsFromNative[T float32 | float64](C Converter, native string, blocks ...[]T) error {
	f, err := Factor(Length, native, C.Length)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		Scale(b, f)
	}
	return nil
}

// VelocitiesFromNative converts every given block of velocities from native to C.Velocity.
func VelocitiesFromNative[T float32 | float64](C Converter, native string, blocks ...[]T) error {
	f, err := Factor(Velocity, native, C.Velocity)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		Scale(b, f)
	}
	return nil
}

// TimeFromNative returns t, given in native units, in C.Time.
func (C Converter) TimeFromNative(t float64, native string) (float64, error) {
	return Convert(t, Time, native, C.Time)
}
