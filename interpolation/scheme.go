package interpolation

import (
	"fmt"
	"math"
	"sort"
)

/*
Scheme is a stencil on a line of samples placed at integer positions. Offsets
are relative to u, the first sample above the target, so a scheme with
Below = L and Above = R reads samples u-L ... u+R-1 and is valid wherever at
least L samples lie below the target and R lie at or above it.
*/
type Scheme struct {
	Name         string
	Order        int // Formal order of accuracy
	Below, Above int
	Offsets      []int
	bary         []float64 // Barycentric weights of the offsets
}

func newScheme(name string, order, below, above int) (s *Scheme) {
	s = &Scheme{
		Name:    name,
		Order:   order,
		Below:   below,
		Above:   above,
		Offsets: make([]int, below+above),
		bary:    make([]float64, below+above),
	}
	for n := range s.Offsets {
		s.Offsets[n] = n - below
	}
	for j := range s.bary {
		s.bary[j] = 1.
		for i := range s.bary {
			if i != j {
				s.bary[j] /= float64(s.Offsets[j] - s.Offsets[i])
			}
		}
	}
	return
}

func (s *Scheme) Footprint() int { return len(s.Offsets) }

func (s *Scheme) asymmetry() int {
	if s.Below > s.Above {
		return s.Below - s.Above
	}
	return s.Above - s.Below
}

func (s *Scheme) String() string {
	return fmt.Sprintf("%s[order %d, %d below, %d above]", s.Name, s.Order, s.Below, s.Above)
}

/*
BetterThan is the preference order of the catalogue: higher order first, then
the smaller footprint, then the more centred stencil, then the one reaching
less far below the target. It is total over distinct (order, below, above).
*/
func (s *Scheme) BetterThan(o *Scheme) bool {
	switch {
	case s.Order != o.Order:
		return s.Order > o.Order
	case s.Footprint() != o.Footprint():
		return s.Footprint() < o.Footprint()
	case s.asymmetry() != o.asymmetry():
		return s.asymmetry() < o.asymmetry()
	default:
		return s.Below < o.Below
	}
}

// Valid reports whether the scheme fits with nBelow samples under the target
// and nAbove at or above it.
func (s *Scheme) Valid(nBelow, nAbove int) bool {
	return s.Below <= nBelow && s.Above <= nAbove
}

/*
Weights returns the Lagrange weights of the offsets for a target at u-1+frac,
0 < frac < 1, evaluated in barycentric form.
*/
func (s *Scheme) Weights(frac float64) (w []float64) {
	var (
		t = frac - 1
		l = 1.
	)
	w = make([]float64, len(s.Offsets))
	for j, o := range s.Offsets {
		if math.Abs(t-float64(o)) < 1.e-12 {
			w[j] = 1
			for i := range w {
				if i != j {
					w[i] = 0
				}
			}
			return
		}
		l *= t - float64(o)
	}
	for j, o := range s.Offsets {
		w[j] = l * s.bary[j] / (t - float64(o))
	}
	return
}

// Native is the trivial stencil used when the target is a sample point.
var Native = &Scheme{Name: "native", Order: 1, Above: 1, Offsets: []int{0}, bary: []float64{1}}

/*
Catalogue returns the stencil family in preference order, best first:
one-sided nearest sample (order 1), linear (2), cubic centred and one-sided
(4), six point centred (6) and the eight point band limited family with every
shift (8). Schemes above maxOrder are left out; maxOrder <= 0 keeps all.
*/
func Catalogue(maxOrder int) (schemes []*Scheme) {
	all := []*Scheme{
		newScheme("nearest-below", 1, 1, 0),
		newScheme("nearest-above", 1, 0, 1),
		newScheme("linear", 2, 1, 1),
		newScheme("cubic", 4, 2, 2),
		newScheme("cubic-left", 4, 3, 1),
		newScheme("cubic-right", 4, 1, 3),
		newScheme("six-point", 6, 3, 3),
	}
	for L := 1; L < 8; L++ {
		all = append(all, newScheme(fmt.Sprintf("bli-%d", L), 8, L, 8-L))
	}
	for _, s := range all {
		if maxOrder <= 0 || s.Order <= maxOrder {
			schemes = append(schemes, s)
		}
	}
	sort.SliceStable(schemes, func(i, j int) bool {
		return schemes[i].BetterThan(schemes[j])
	})
	return
}
