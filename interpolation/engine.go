package interpolation

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
)

// Schemes never reach further than this on either side of the target.
const maxReach = 8

type stencil struct {
	scheme   *Scheme
	midpoint []float64 // Weights for frac = 1/2, the staggered to node case
}

/*
Engine holds a catalogue and the best scheme for every (samples below,
samples above) pair, both counts clipped to maxReach. The table is built once
so Recombine never compares schemes.
*/
type Engine struct {
	MaxOrder int
	Schemes  []*Scheme
	lookup   [maxReach + 1][maxReach + 1]stencil
}

func NewEngine(maxOrder int) (e *Engine) {
	e = &Engine{
		MaxOrder: maxOrder,
		Schemes:  Catalogue(maxOrder),
	}
	for nb := 0; nb <= maxReach; nb++ {
		for na := 0; na <= maxReach; na++ {
			st := &e.lookup[nb][na]
			for _, s := range e.Schemes {
				if s.Valid(nb, na) {
					st.scheme = s
					st.midpoint = s.Weights(0.5)
					break
				}
			}
		}
	}
	return
}

func clip(n int) int {
	switch {
	case n < 0:
		return 0
	case n > maxReach:
		return maxReach
	}
	return n
}

/*
Best returns the preferred scheme with nBelow samples under the target and
nAbove at or above it. When nothing fits, which only happens with no samples
on either side, it returns nil.
*/
func (e *Engine) Best(nBelow, nAbove int) *Scheme {
	return e.lookup[clip(nBelow)][clip(nAbove)].scheme
}

// SchemeForDistance is Best for a target d samples from the nearest boundary
// on both sides.
func (e *Engine) SchemeForDistance(d int) *Scheme {
	return e.Best(d, d)
}

/*
Stencil picks the scheme for position x on a line of N samples at positions
0 .. N-1. It returns u, the first sample above x, and the weights to apply at
u+Offsets. A target on a sample point uses the Native stencil.
*/
func (e *Engine) Stencil(N int, x float64) (u int, s *Scheme, w []float64) {
	if N < 1 {
		panic("interpolation on an empty line")
	}
	fl := math.Floor(x)
	if fl == x && fl >= 0 && int(fl) < N {
		return int(fl), Native, Native.bary
	}
	u = int(fl) + 1
	if u < 0 {
		u = 0
	}
	if u > N {
		u = N
	}
	st := e.lookup[clip(u)][clip(N-u)]
	s, w = st.scheme, st.midpoint
	if frac := x - fl; frac != 0.5 {
		w = s.Weights(frac)
	}
	return
}

/*
Recombine interpolates samples (at positions 0 .. len-1) to position x. A
target on a sample point is exact. Near the ends of the line the engine
degrades to lower order stencils down to the nearest sample; the returned
scheme tells the caller which order was achieved.
*/
func (e *Engine) Recombine(samples []float64, x float64) (val float64, s *Scheme) {
	var (
		u int
		w []float64
	)
	u, s, w = e.Stencil(len(samples), x)
	for n, o := range s.Offsets {
		val += w[n] * samples[u+o]
	}
	return
}

/*
Operator builds the N x N line operator taking N staggered samples, sample s
at s+1/2, to the N nodes. Node 0 lies on the boundary plane and gets the
nearest sample fallback. The per-node schemes are returned alongside.
*/
func (e *Engine) Operator(N int) (op *sparse.CSR, schemes []*Scheme) {
	dok := sparse.NewDOK(N, N)
	schemes = make([]*Scheme, N)
	for n := 0; n < N; n++ {
		st := e.lookup[clip(n)][clip(N-n)]
		for j, o := range st.scheme.Offsets {
			dok.Set(n, n+o, st.midpoint[j])
		}
		schemes[n] = st.scheme
	}
	op = dok.ToCSR()
	return
}

// Apply multiplies a line of staggered samples by an operator from Operator.
func Apply(op *sparse.CSR, samples []float64) (nodes []float64) {
	r, c := op.Dims()
	if c != len(samples) {
		panic(fmt.Errorf("operator is %dx%d, have %d samples", r, c, len(samples)))
	}
	nodes = make([]float64, r)
	op.MulVecTo(nodes, false, samples)
	return
}
