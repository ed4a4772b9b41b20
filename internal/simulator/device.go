package simulator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const gravity = 9.80665

// Trial is one recorded friction measurement
type Trial struct {
	MassG    float64
	LBC      int
	LBT      int
	AngleDeg float64
	MuS      float64
	MuD      float64
	Stamp    string
}

// DataHeader is the column header the device prints before data lines
const DataHeader = "massa_g;LBC;LBT;angulo_deg;mu_s;mu_d"

// DataLine renders the trial the way the device prints it on the serial line
func (t Trial) DataLine() string {
	return fmt.Sprintf("%.1f;%d;%d;%.2f;%.4f;%.4f", t.MassG, t.LBC, t.LBT, t.AngleDeg, t.MuS, t.MuD)
}

// Forces returns the normal force and the static/dynamic friction forces in newtons
func (t Trial) Forces() (normal, static, dynamic float64) {
	normal = t.MassG / 1000 * gravity * math.Cos(t.AngleDeg*math.Pi/180)
	return normal, t.MuS * normal, t.MuD * normal
}

// settings holds the parameters the operator set with parameterized commands
type settings struct {
	massG  float64
	lbc    int
	lbt    int
	upMS   int
	downMS int
}

func defaultSettings() settings {
	return settings{massG: 100, lbc: 1, lbt: 1, upMS: 500, downMS: 500}
}

// execute applies one instruction line and returns the lines the device answers with.
// A non-nil trial is returned when the instruction ran a measurement.
func (s *Server) execute(command string) ([]string, *Trial) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, nil
	}
	keyword := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch keyword {
	case "s":
		t := s.measure()
		return []string{
			"trial started",
			DataHeader,
			t.DataLine(),
			"trial finished",
		}, &t
	case "z":
		return []string{"load cell zeroed"}, nil
	case "m":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v <= 0 {
			return []string{"invalid mass: " + arg}, nil
		}
		s.settings.massG = v
		return []string{fmt.Sprintf("mass set to %.1f g", v)}, nil
	case "lbc", "lbt", "u", "j":
		v, err := strconv.Atoi(arg)
		if err != nil || v < 0 {
			return []string{fmt.Sprintf("invalid value for %s: %s", keyword, arg)}, nil
		}
		switch keyword {
		case "lbc":
			s.settings.lbc = v
		case "lbt":
			s.settings.lbt = v
		case "u":
			s.settings.upMS = v
		case "j":
			s.settings.downMS = v
		}
		return []string{fmt.Sprintf("%s set to %d", keyword, v)}, nil
	}
	return []string{"unknown command: " + command}, nil
}

// measure simulates a ramp run: the plate tilts until the sample slips
func (s *Server) measure() Trial {
	angle := 12 + s.rng.Float64()*18
	muS := math.Tan(angle * math.Pi / 180)
	muD := muS * (0.7 + s.rng.Float64()*0.2)
	return Trial{
		MassG:    s.settings.massG,
		LBC:      s.settings.lbc,
		LBT:      s.settings.lbt,
		AngleDeg: angle,
		MuS:      muS,
		MuD:      muD,
		Stamp:    s.now().Format("2006-01-02_15-04-05"),
	}
}
