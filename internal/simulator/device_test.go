package simulator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrial_DataLine(t *testing.T) {
	tr := Trial{MassG: 150, LBC: 2, LBT: 3, AngleDeg: 21.5, MuS: 0.39391, MuD: 0.3012}
	assert.Equal(t, "150.0;2;3;21.50;0.3939;0.3012", tr.DataLine())
}

func TestTrial_Forces(t *testing.T) {
	tr := Trial{MassG: 1000, AngleDeg: 0, MuS: 0.5, MuD: 0.25}
	normal, static, dynamic := tr.Forces()
	assert.InDelta(t, gravity, normal, 1e-9)
	assert.InDelta(t, gravity/2, static, 1e-9)
	assert.InDelta(t, gravity/4, dynamic, 1e-9)

	tilted := Trial{MassG: 1000, AngleDeg: 60, MuS: 1}
	normal, _, _ = tilted.Forces()
	assert.InDelta(t, gravity*math.Cos(math.Pi/3), normal, 1e-9)
}

func TestExecute_Parameters(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sim

	tests := []struct {
		command string
		want    string
	}{
		{command: "m 250", want: "mass set to 250.0 g"},
		{command: "m -1", want: "invalid mass: -1"},
		{command: "lbc 4", want: "lbc set to 4"},
		{command: "LBT 2", want: "lbt set to 2"},
		{command: "u 700", want: "u set to 700"},
		{command: "j x", want: "invalid value for j: x"},
		{command: "z", want: "load cell zeroed"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			lines, trial := s.execute(tt.command)
			assert.Nil(t, trial)
			assert.Equal(t, []string{tt.want}, lines)
		})
	}

	assert.Equal(t, settings{massG: 250, lbc: 4, lbt: 2, upMS: 700, downMS: 500}, s.settings)

	lines, trial := s.execute("s")
	if assert.NotNil(t, trial) {
		assert.Equal(t, 250.0, trial.MassG)
		assert.Equal(t, 4, trial.LBC)
		assert.Equal(t, []string{"trial started", DataHeader, trial.DataLine(), "trial finished"}, lines)
	}
}
