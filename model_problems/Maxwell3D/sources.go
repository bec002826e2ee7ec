package Maxwell3D

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

type SourceType uint8

const (
	Impulse       SourceType = iota // Amplitude at a single step
	Sinusoid                        // A sin(w t + phi), optionally ramped in
	GaussianPulse                   // Modulated Gaussian centred on Delay with width Width
)

var (
	SourceNames = map[string]SourceType{
		"impulse":  Impulse,
		"sinusoid": Sinusoid,
		"cw":       Sinusoid,
		"gaussian": GaussianPulse,
		"pulse":    GaussianPulse,
	}
	SourcePrintNames = []string{"Impulse", "Sinusoid", "GaussianPulse"}
)

func (st SourceType) String() string {
	if int(st) < len(SourcePrintNames) {
		return SourcePrintNames[st]
	}
	return fmt.Sprintf("SourceType(%d)", uint8(st))
}

func NewSourceType(label string) (st SourceType, err error) {
	var ok bool
	if st, ok = SourceNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unable to use source type named %q", label)
	}
	return
}

/*
Source is a point excitation added to the first half of Component at sample
(I,J,K). For a Sinusoid, Width is the raised cosine ramp length (0 for none);
for a GaussianPulse it is the 1/e half width and Delay the centre time.
*/
type Source struct {
	Type      SourceType
	Component types.FieldComponent
	I, J, K   int
	Amplitude float64
	Omega     float64
	Phase     float64
	Delay     float64
	Width     float64
	Step      int // Impulse step
}

// IsEmpty is true for a source that never contributes.
func (s Source) IsEmpty() bool {
	return s.Amplitude == 0
}

// Value of the source for advance number step, at time t.
func (s Source) Value(step int, t float64) (val float64) {
	switch s.Type {
	case Impulse:
		if step == s.Step {
			val = s.Amplitude
		}
	case Sinusoid:
		val = s.Amplitude * math.Sin(s.Omega*t+s.Phase) * utils.RaisedCosineRamp(t, s.Width)
	case GaussianPulse:
		tt := (t - s.Delay) / s.Width
		val = s.Amplitude * math.Exp(-tt*tt) * math.Cos(s.Omega*(t-s.Delay)+s.Phase)
	}
	return
}

func (s Source) validate(dims types.IJK) (err error) {
	switch {
	case !dims.Contains(s.I, s.J, s.K):
		err = fmt.Errorf("%w: %s source at (%d,%d,%d) outside %s grid",
			types.ErrDimensionMismatch, s.Component, s.I, s.J, s.K, dims)
	case s.Omega < 0 || (s.Type == GaussianPulse && s.Width <= 0) || s.Width < 0:
		err = fmt.Errorf("%w: %s source has omega %v, width %v",
			types.ErrNonPhysicalParameter, s.Type, s.Omega, s.Width)
	}
	return
}
