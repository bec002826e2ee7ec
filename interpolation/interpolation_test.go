package interpolation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueOrder(t *testing.T) {
	cat := Catalogue(0)
	require.Len(t, cat, 14)
	assert.Equal(t, "bli-4", cat[0].Name)
	assert.Equal(t, "bli-3", cat[1].Name)
	assert.Equal(t, "bli-5", cat[2].Name)
	assert.Equal(t, "nearest-above", cat[12].Name)
	assert.Equal(t, "nearest-below", cat[13].Name)
	for i := 0; i < len(cat)-1; i++ {
		assert.True(t, cat[i].BetterThan(cat[i+1]), "%s vs %s", cat[i], cat[i+1])
		assert.False(t, cat[i+1].BetterThan(cat[i]))
		assert.True(t, cat[i].Order >= cat[i+1].Order)
	}
	for _, s := range Catalogue(4) {
		assert.True(t, s.Order <= 4)
	}
	assert.Len(t, Catalogue(1), 2)
}

func TestLookupMatchesPairwise(t *testing.T) {
	for _, maxOrder := range []int{0, 1, 2, 4, 6} {
		e := NewEngine(maxOrder)
		for nb := 0; nb < 12; nb++ {
			for na := 0; na < 12; na++ {
				var best *Scheme
				for _, s := range e.Schemes {
					if s.Valid(nb, na) && (best == nil || s.BetterThan(best)) {
						best = s
					}
				}
				assert.True(t, best == e.Best(nb, na), "%d %d %d", maxOrder, nb, na)
			}
		}
	}
	e := NewEngine(0)
	assert.Nil(t, e.Best(0, 0))
	assert.Equal(t, "nearest-above", e.Best(0, 5).Name)
	assert.Equal(t, "nearest-below", e.Best(3, 0).Name)
	assert.Equal(t, "linear", e.Best(2, 1).Name)
	assert.Equal(t, "cubic-left", e.Best(3, 1).Name)
	assert.Equal(t, "bli-1", e.Best(1, 7).Name)
	assert.Equal(t, "bli-4", e.SchemeForDistance(100).Name)
	assert.Equal(t, 6, e.SchemeForDistance(3).Order)
	assert.Equal(t, 4, NewEngine(5).SchemeForDistance(100).Order)
}

func TestWeights(t *testing.T) {
	{ // Centred eight point midpoint weights
		e := NewEngine(0)
		w := e.Best(4, 4).Weights(0.5)
		expected := []float64{-5, 49, -245, 1225, 1225, -245, 49, -5}
		for n := range expected {
			assert.InDelta(t, expected[n]/2048, w[n], 1.e-15)
		}
	}
	{ // Every scheme reproduces polynomials below its order and sums to one
		f := func(s float64, deg int) float64 {
			v := (s - 9.5) / 4
			return math.Pow(v, float64(deg)) + 0.3*math.Pow(v, float64(deg/2)) + 1
		}
		for _, s := range Catalogue(0) {
			samples := make([]float64, 20)
			for n := range samples {
				samples[n] = f(float64(n), s.Order-1)
			}
			for _, frac := range []float64{0.5, 0.3, 0.85} {
				var (
					u   = 10
					x   = float64(u-1) + frac
					sum float64
					val float64
				)
				w := s.Weights(frac)
				for j, o := range s.Offsets {
					sum += w[j]
					val += w[j] * samples[u+o]
				}
				assert.InDelta(t, 1, sum, 1.e-12)
				assert.InDelta(t, f(x, s.Order-1), val, 1.e-10, "%s frac %v", s, frac)
			}
		}
	}
}

func TestRecombine(t *testing.T) {
	var (
		e       = NewEngine(0)
		samples = make([]float64, 16)
	)
	r := rand.New(rand.NewSource(1))
	for n := range samples {
		samples[n] = r.Float64()
	}
	{ // On a sample point the stencil is trivial and exact
		for n := range samples {
			v, s := e.Recombine(samples, float64(n))
			assert.Equal(t, samples[n], v)
			assert.True(t, s == Native)
			assert.Equal(t, 1, s.Order)
		}
	}
	{ // Below the first sample (a boundary plane) the nearest sample is used
		v, s := e.Recombine(samples, -0.5)
		assert.Equal(t, samples[0], v)
		assert.Equal(t, 1, s.Order)
		v, s = e.Recombine(samples, 15.5)
		assert.Equal(t, samples[15], v)
		assert.Equal(t, 1, s.Order)
	}
	{ // Order degrades towards the ends of the line
		_, s := e.Recombine(samples, 7.5)
		assert.Equal(t, 8, s.Order)
		_, s = e.Recombine(samples, 0.5)
		assert.Equal(t, 8, s.Order)
		assert.Equal(t, "bli-1", s.Name)
		_, s = e.Recombine(samples[:3], 0.5)
		assert.Equal(t, 2, s.Order)
		_, s = e.Recombine(samples[:2], 0.25)
		assert.Equal(t, "linear", s.Name)
	}
	{ // Smooth data converges at the interior
		line := make([]float64, 32)
		for n := range line {
			line[n] = math.Sin(0.2 * float64(n))
		}
		v, _ := e.Recombine(line, 15.5)
		assert.InDelta(t, math.Sin(0.2*15.5), v, 1.e-8)
	}
}

func TestOperator(t *testing.T) {
	var (
		e       = NewEngine(0)
		N       = 12
		samples = make([]float64, N)
	)
	r := rand.New(rand.NewSource(7))
	for n := range samples {
		samples[n] = r.NormFloat64()
	}
	op, schemes := e.Operator(N)
	nr, nc := op.Dims()
	assert.Equal(t, N, nr)
	assert.Equal(t, N, nc)
	nodes := Apply(op, samples)
	require.Len(t, nodes, N)
	// Each call accumulates into a fresh line
	assert.Equal(t, nodes, Apply(op, samples))
	for n := 0; n < N; n++ {
		v, s := e.Recombine(samples, float64(n)-0.5)
		assert.InDelta(t, v, nodes[n], 1.e-13)
		assert.True(t, s == schemes[n])
	}
	assert.Equal(t, 1, schemes[0].Order)
	assert.Equal(t, 8, schemes[N/2].Order)
	assert.Panics(t, func() { Apply(op, samples[:3]) })
}
