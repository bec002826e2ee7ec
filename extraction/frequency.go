package extraction

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

// FrequencyVector is a list of target angular frequencies.
type FrequencyVector []float64

func NewFrequencyVector(omegas ...float64) (fv FrequencyVector, err error) {
	for n, w := range omegas {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			err = fmt.Errorf("%w: frequency %d is %v", types.ErrNonPhysicalParameter, n, w)
			return
		}
	}
	fv = append(FrequencyVector(nil), omegas...)
	return
}

// Linspace fills n frequencies evenly from lo to hi inclusive.
func Linspace(lo, hi float64, n int) (fv FrequencyVector) {
	if n < 2 {
		return FrequencyVector{lo}[:max(n, 0)]
	}
	fv = make(FrequencyVector, n)
	floats.Span(fv, lo, hi)
	return
}

// Max is the largest frequency, zero for an empty vector.
func (fv FrequencyVector) Max() (wMax float64) {
	if len(fv) != 0 {
		wMax = math.Max(floats.Max(fv), 0)
	}
	return
}

// Unique returns the sorted distinct frequencies; values within round off
// of the previous one are dropped.
func (fv FrequencyVector) Unique() (u FrequencyVector) {
	s := append(FrequencyVector(nil), fv...)
	sort.Float64s(s)
	for i, w := range s {
		if i == 0 || !utils.NearlyEqual(w, s[i-1], 1.e-12) {
			u = append(u, w)
		}
	}
	return
}

/*
NyquistLimit is the largest time step that resolves every frequency of the
vector, pi / Max. Zero frequencies impose no limit.
*/
func (fv FrequencyVector) NyquistLimit() float64 {
	if wMax := fv.Max(); wMax > 0 {
		return math.Pi / wMax
	}
	return math.Inf(1)
}
