package materials

import (
	"fmt"
	"math"

	"github.com/notargets/gofdtd/types"
)

/*
Absorber grades an extra loss rate and a coordinate stretch into the outer
cells at both ends of each axis. Only the split halves driven by an axis see
that axis' grading, which is what lets an obliquely incident wave enter the
absorbing cells without reflecting:

	rate(x)  = RateMax * depth(x)^Order
	kappa(x) = 1 + (KappaMax - 1) * depth(x)^Order
	RateMax  = -(Order + 1) ln(Reflection) / (2 Cells spacing)

depth runs from 0 at the inner face of the absorbing cells to 1 at the last
sample. Zero values of Order, Reflection and KappaMax take the defaults.
*/
type Absorber struct {
	Cells      [3]int  `json:"Cells"` // absorbing cells at each end of x, y and z
	Order      float64 `json:"Order"`
	Reflection float64 `json:"Reflection"` // normal incidence reflection of the graded layer
	KappaMax   float64 `json:"KappaMax"`
}

const (
	DefaultAbsorberOrder      = 3
	DefaultAbsorberReflection = 1.e-6
)

func (a Absorber) IsEmpty() bool {
	return a.Cells == [3]int{}
}

func (a Absorber) withDefaults() (b Absorber) {
	b = a
	if b.Order == 0 {
		b.Order = DefaultAbsorberOrder
	}
	if b.Reflection == 0 {
		b.Reflection = DefaultAbsorberReflection
	}
	if b.KappaMax == 0 {
		b.KappaMax = 1
	}
	return
}

// Validate checks the absorber against the grid: both ends must fit and a
// periodic axis cannot absorb.
func (a Absorber) Validate(dims types.IJK, bc [2]types.Boundary) (err error) {
	b := a.withDefaults()
	if b.Order < 1 || b.Reflection <= 0 || b.Reflection >= 1 || b.KappaMax < 1 {
		return fmt.Errorf("%w: absorber order %v, reflection %v, kappa %v",
			types.ErrNonPhysicalParameter, b.Order, b.Reflection, b.KappaMax)
	}
	for _, axis := range []types.AxialDirection{types.X, types.Y, types.Z} {
		n := b.Cells[axis]
		switch {
		case n < 0 || 2*n >= dims.Along(axis):
			return fmt.Errorf("%w: %d absorbing cells at each end of a %d sample %s axis",
				types.ErrDimensionMismatch, n, dims.Along(axis), axis)
		case n > 0 && axis != types.Z && bc[axis].Type == types.BC_Periodic:
			return fmt.Errorf("%w: periodic %s axis cannot absorb", types.ErrNonPhysicalParameter, axis)
		}
	}
	return
}

/*
Profile returns the rate and stretch along one axis of N samples, at the
sample positions n (E halves) and n+1/2 (H halves). An axis without
absorbing cells returns nil slices.
*/
func (a Absorber) Profile(axis types.AxialDirection, N int, spacing float64) (eRate, eKappa, hRate, hKappa []float64) {
	b := a.withDefaults()
	L := b.Cells[axis]
	if L == 0 {
		return
	}
	var (
		rateMax = -(b.Order + 1) * math.Log(b.Reflection) / (2 * float64(L) * spacing)
		inner   = float64(N - 1 - L)
		grade   = func(x float64) (rate, kappa float64) {
			var depth float64
			switch {
			case x < float64(L):
				depth = (float64(L) - x) / float64(L)
			case x > inner:
				depth = (x - inner) / float64(L)
			}
			depth = math.Min(depth, 1)
			p := math.Pow(depth, b.Order)
			return rateMax * p, 1 + (b.KappaMax-1)*p
		}
	)
	eRate, eKappa = make([]float64, N), make([]float64, N)
	hRate, hKappa = make([]float64, N), make([]float64, N)
	for n := 0; n < N; n++ {
		eRate[n], eKappa[n] = grade(float64(n))
		hRate[n], hKappa[n] = grade(float64(n) + 0.5)
	}
	return
}
