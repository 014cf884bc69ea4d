package trz

import (
	"github.com/rmera/gotrz/internal/trztest"
)

type testFrame = trztest.Frame

var (
	sampleFrames  = trztest.Sample
	scenarioFrame = trztest.Scenario
	encodeTRZ     = trztest.Encode
	writeTRZ      = trztest.WriteFile
	putRecord     = trztest.PutRecord
)

// want returns the Frame that reading tf without unit conversion must produce.
func want(tf testFrame, index int) *Frame {
	F, _ := NewFrame(tf.NAtoms())
	F.Index = index
	F.Step = int(tf.Step)
	F.Time = tf.Time
	F.UnitCell = tf.Cell
	F.Pressure = tf.Pressure
	F.PressureTensor = tf.Tensor
	F.TotalEnergy = tf.Energy[0]
	F.PotentialEnergy = tf.Energy[1]
	F.KineticEnergy = tf.Energy[2]
	F.Temperature = tf.Energy[3]
	for k := 0; k < 3; k++ {
		copy(F.pos[k], tf.Pos[k])
		copy(F.vel[k], tf.Vel[k])
	}
	return F
}
