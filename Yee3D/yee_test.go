package Yee3D

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofdtd/materials"
	"github.com/notargets/gofdtd/types"
)

var pec = [2]types.Boundary{{Type: types.BC_PEC}, {Type: types.BC_PEC}}

func newVacuumGrid(t *testing.T, dims types.IJK, bc [2]types.Boundary) *SplitFieldGrid {
	g, err := NewSplitFieldGrid(dims, 1, 1, 1, bc, materials.NewUniformStack(dims.K, materials.Vacuum()), 0)
	require.NoError(t, err)
	return g
}

func randomE(g *SplitFieldGrid, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for _, fc := range types.ElectricComponents {
		g.SetInitial(fc, func(x, y, z float64) float64 { return r.Float64() - 0.5 })
	}
}

func TestPointSource(t *testing.T) {
	var (
		dims = types.IJK{I: 4, J: 4, K: 4}
		g    = newVacuumGrid(t, dims, pec)
		dt   = g.Layers.CourantLimit(1, 1, 1)
		src  = []SourceTerm{{Component: types.Ez, I: 2, J: 2, K: 2, Value: 1}}
	)
	assert.InDelta(t, 1/math.Sqrt(3), dt, 1.e-15)
	require.NoError(t, g.Advance(dt, src))
	assert.Equal(t, 1, g.Step)
	assert.Equal(t, 1., g.Value(types.Ez, 2, 2, 2))
	assert.Equal(t, 1., g.Half(types.Ez, types.First).At(2, 2, 2))
	assert.Equal(t, 0., g.Half(types.Ez, types.Second).At(2, 2, 2))
	expected := map[types.FieldComponent]map[[3]int]float64{
		types.Hx: {{2, 2, 2}: dt, {2, 1, 2}: -dt},
		types.Hy: {{2, 2, 2}: -dt, {1, 2, 2}: dt},
		types.Ez: {{2, 2, 2}: 1},
	}
	for _, fc := range types.AllComponents {
		for k := 0; k < 4; k++ {
			for j := 0; j < 4; j++ {
				for i := 0; i < 4; i++ {
					assert.InDelta(t, expected[fc][[3]int{i, j, k}], g.Value(fc, i, j, k), 1.e-15,
						"%s (%d,%d,%d)", fc, i, j, k)
				}
			}
		}
	}
	// Hx comes from the y derivative (first half), Hy from the x derivative (second half)
	assert.Equal(t, 0., g.Half(types.Hx, types.Second).At(2, 2, 2))
	assert.Equal(t, 0., g.Half(types.Hy, types.First).At(2, 2, 2))
	// The next E update sees the curl of the four H samples
	require.NoError(t, g.Advance(dt, nil))
	assert.InDelta(t, 1-4*dt*dt, g.Value(types.Ez, 2, 2, 2), 1.e-14)
	assert.InDelta(t, -1./3, g.Value(types.Ez, 2, 2, 2), 1.e-14)
}

func TestBlochFactor(t *testing.T) {
	bc := [2]types.Boundary{{Type: types.BC_Periodic, Bloch: -1}, {Type: types.BC_PEC}}
	g := newVacuumGrid(t, types.IJK{I: 4, J: 4, K: 4}, bc)
	dt := 0.5
	require.NoError(t, g.Advance(dt, []SourceTerm{{Component: types.Ez, I: 0, J: 2, K: 2, Value: 1}}))
	// Hyx at the last x sample reads Ez across the periodic face
	assert.InDelta(t, -dt, g.Half(types.Hy, types.Second).At(3, 2, 2), 1.e-15)
	assert.Equal(t, 0., g.Half(types.Hy, types.First).At(3, 2, 2))
	assert.InDelta(t, -dt, g.Value(types.Hy, 0, 2, 2), 1.e-15)
	// The y derivative is unaffected
	assert.InDelta(t, dt, g.Value(types.Hx, 0, 2, 2), 1.e-15)
	assert.InDelta(t, -dt, g.Value(types.Hx, 0, 1, 2), 1.e-15)
}

func TestEnergyConservation(t *testing.T) {
	layers := []materials.Layer{
		{EpsInf: 1, Mu: 1}, {EpsInf: 2, Mu: 1.2}, {EpsInf: 1.5, Mu: 1}, {EpsInf: 3, Mu: 2},
	}
	for _, bc := range [][2]types.Boundary{
		pec,
		{{Type: types.BC_Periodic, Bloch: 1}, {Type: types.BC_Periodic, Bloch: -1}},
		{{Type: types.BC_PEC}, {Type: types.BC_Periodic, Bloch: 1}},
	} {
		g, err := NewSplitFieldGrid(types.IJK{I: 6, J: 5, K: 4}, 0.5, 0.4, 0.3, bc,
			materials.NewLayerStack(layers...), 2)
		require.NoError(t, err)
		randomE(g, 5)
		var (
			dt = 0.95 * g.Layers.CourantLimit(g.Dx, g.Dy, g.Dz)
			W0 = g.Energy()
		)
		require.True(t, W0 > 0)
		for n := 0; n < 300; n++ {
			require.NoError(t, g.Advance(dt, nil))
		}
		assert.InDelta(t, 1, g.Energy()/W0, 1.e-11, "%v", bc)
		assert.True(t, g.Snapshot().Frobenius(types.Hz) > 0)
	}
	{ // Conductivity removes energy
		g, err := NewSplitFieldGrid(types.IJK{I: 6, J: 5, K: 4}, 1, 1, 1, pec,
			materials.NewUniformStack(4, materials.Layer{EpsInf: 1, Mu: 1, Sigma: 0.3}), 0)
		require.NoError(t, err)
		randomE(g, 6)
		W0 := g.Energy()
		for n := 0; n < 100; n++ {
			require.NoError(t, g.Advance(0.5, nil))
		}
		assert.True(t, g.Energy() < 0.5*W0)
	}
}

func TestSplitSum(t *testing.T) {
	g := newVacuumGrid(t, types.IJK{I: 5, J: 6, K: 7}, pec)
	randomE(g, 9)
	for n := 0; n < 10; n++ {
		require.NoError(t, g.Advance(0.4, []SourceTerm{{Component: types.Hz, I: 1, J: 2, K: 3, Value: 0.1}}))
	}
	snap := g.Snapshot()
	for _, fc := range types.AllComponents {
		first, second := g.Half(fc, types.First), g.Half(fc, types.Second)
		for k := 0; k < 7; k++ {
			for j := 0; j < 6; j++ {
				for i := 0; i < 5; i++ {
					sum := first.At(i, j, k) + second.At(i, j, k)
					assert.Equal(t, sum, g.Value(fc, i, j, k))
					assert.Equal(t, sum, snap.At(fc, i, j, k))
				}
			}
		}
	}
}

func TestDegeneratePoles(t *testing.T) {
	var (
		dims   = types.IJK{I: 4, J: 5, K: 3}
		padded = materials.Layer{EpsInf: 1, Mu: 1, Poles: []materials.Pole{{}}}
	)
	a := newVacuumGrid(t, dims, pec)
	b, err := NewSplitFieldGrid(dims, 1, 1, 1, pec, materials.NewUniformStack(3, padded), 0)
	require.NoError(t, err)
	require.NotNil(t, b.Layers.Dispersion)
	randomE(a, 2)
	randomE(b, 2)
	for n := 0; n < 20; n++ {
		require.NoError(t, a.Advance(0.5, nil))
		require.NoError(t, b.Advance(0.5, nil))
	}
	sa, sb := a.Snapshot(), b.Snapshot()
	for _, fc := range types.AllComponents {
		assert.Empty(t, cmp.Diff(sa.Component(fc).Data(), sb.Component(fc).Data()), "%s", fc)
	}
	assert.Equal(t, 0., b.Current().Half(types.X, types.First).Frobenius())
}

func TestDispersiveLayer(t *testing.T) {
	var (
		dims  = types.IJK{I: 6, J: 6, K: 4}
		pole  = materials.Pole{Omega0: 2, Gamma: 0.2, DeltaEps: 1.5}
		layer = materials.Layer{EpsInf: 1, Mu: 1, Poles: []materials.Pole{pole}}
	)
	g, err := NewSplitFieldGrid(dims, 1, 1, 1, pec, materials.NewUniformStack(4, layer), 0)
	require.NoError(t, err)
	randomE(g, 4)
	// dt = 0.5 is close to the Courant limit and puts Omega0 dt at 1
	dt := 0.5
	require.True(t, dt < g.Layers.CourantLimit(1, 1, 1))
	W0 := g.Energy()
	for n := 0; n < 1000; n++ {
		require.NoError(t, g.Advance(dt, nil))
		W := g.Energy()
		require.False(t, math.IsNaN(W) || math.IsInf(W, 0), "step %d", n)
		require.True(t, W < 2*W0, "step %d: W/W0 = %v", n, W/W0)
	}
	// Energy moves into the lossy oscillators and never comes back in excess
	assert.True(t, g.Energy() < W0)
	assert.True(t, g.Current().Half(types.X, types.First).Frobenius() > 0)
	// A time step past the recurrence stability limit is refused
	err = g.Advance(1.2, nil)
	assert.True(t, errors.Is(err, types.ErrNonPhysicalParameter))
	assert.Equal(t, 1000, g.Step)
}

func TestDispersiveStabilitySweep(t *testing.T) {
	// Stiff and lossless poles run at 0.99 of the Courant limit stay bounded
	for _, pole := range []materials.Pole{
		{Omega0: 3, Gamma: 0, DeltaEps: 4},
		{Omega0: 1.5, Gamma: 2, DeltaEps: 10},
		{Omega0: 0.5, Gamma: 0.05, DeltaEps: 0.5},
	} {
		layer := materials.Layer{EpsInf: 1, Mu: 1, Sigma: 0.01, Poles: []materials.Pole{pole}}
		g, err := NewSplitFieldGrid(types.IJK{I: 5, J: 5, K: 4}, 1, 1, 1, pec, materials.NewUniformStack(4, layer), 0)
		require.NoError(t, err)
		randomE(g, 11)
		var (
			dt = 0.99 * g.Layers.CourantLimit(1, 1, 1)
			W0 = g.Energy()
		)
		for n := 0; n < 2000; n++ {
			require.NoError(t, g.Advance(dt, nil))
		}
		W := g.Energy()
		assert.False(t, math.IsNaN(W), "%+v", pole)
		assert.True(t, W < 2*W0, "%+v: W/W0 = %v", pole, W/W0)
	}
}

func TestAbsorber(t *testing.T) {
	var (
		dims     = types.IJK{I: 1, J: 1, K: 120}
		periodic = [2]types.Boundary{{Type: types.BC_Periodic, Bloch: 1}, {Type: types.BC_Periodic, Bloch: 1}}
		dt       = 0.5
	)
	// A zero mean pulse launched from the middle of a z line reaches both ends
	// and what the ends return is back inside the line by step 300
	run := func(a materials.Absorber) (ratio float64) {
		g := newVacuumGrid(t, dims, periodic)
		if !a.IsEmpty() {
			require.NoError(t, g.SetAbsorber(a))
		}
		var Wref float64
		for n := 0; n < 300; n++ {
			var src []SourceTerm
			if n <= 80 {
				u := float64(n-40) / 10
				src = []SourceTerm{{Component: types.Ex, I: 0, J: 0, K: 60, Value: -2 * u * math.Exp(-u*u)}}
			}
			require.NoError(t, g.Advance(dt, src))
			if n == 80 {
				Wref = g.Energy()
			}
		}
		require.True(t, Wref > 0)
		return g.Energy() / Wref
	}
	assert.InDelta(t, 1, run(materials.Absorber{}), 1.e-9)
	assert.True(t, run(materials.Absorber{Cells: [3]int{0, 0, 12}}) < 1.e-6)
	assert.True(t, run(materials.Absorber{Cells: [3]int{0, 0, 12}, KappaMax: 3}) < 1.e-6)

	g := newVacuumGrid(t, dims, periodic)
	err := g.SetAbsorber(materials.Absorber{Cells: [3]int{1, 0, 12}})
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	err = g.SetAbsorber(materials.Absorber{Cells: [3]int{0, 0, 60}})
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	g = newVacuumGrid(t, types.IJK{I: 8, J: 8, K: 8}, periodic)
	err = g.SetAbsorber(materials.Absorber{Cells: [3]int{2, 0, 0}})
	assert.True(t, errors.Is(err, types.ErrNonPhysicalParameter))
}

func TestConfigurationErrors(t *testing.T) {
	dims := types.IJK{I: 3, J: 3, K: 4}
	_, err := NewSplitFieldGrid(dims, 1, 1, 1, pec, materials.NewUniformStack(3, materials.Vacuum()), 0)
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	_, err = NewSplitFieldGrid(dims, 1, 1, 1, pec, nil, 0)
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	_, err = NewSplitFieldGrid(dims, 1, 0, 1, pec, materials.NewUniformStack(4, materials.Vacuum()), 0)
	assert.True(t, errors.Is(err, types.ErrNonPhysicalParameter))
	bad := [2]types.Boundary{{Type: types.BC_Periodic, Bloch: 0.5}, {Type: types.BC_PEC}}
	_, err = NewSplitFieldGrid(dims, 1, 1, 1, bad, materials.NewUniformStack(4, materials.Vacuum()), 0)
	assert.True(t, errors.Is(err, types.ErrNonPhysicalParameter))

	g := newVacuumGrid(t, dims, pec)
	err = g.Advance(0.3, []SourceTerm{{Component: types.Ex, I: 3, J: 0, K: 0, Value: 1}})
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	// A pole added after the grid was built has no dispersion state to run on
	require.NoError(t, g.Layers.SetLayer(1, materials.Layer{EpsInf: 1, Mu: 1,
		Poles: []materials.Pole{{Omega0: 1, Gamma: 0.1, DeltaEps: 1}}}))
	err = g.Advance(0.3, nil)
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	assert.Equal(t, 0, g.Step)
}

func TestSnapshot(t *testing.T) {
	g := newVacuumGrid(t, types.IJK{I: 4, J: 4, K: 4}, pec)
	randomE(g, 8)
	snap := g.Snapshot()
	saved := snap.Component(types.Ez)
	for n := 0; n < 5; n++ {
		require.NoError(t, g.Advance(0.5, nil))
	}
	assert.Empty(t, cmp.Diff(saved.Data(), snap.Component(types.Ez).Data()))
	assert.NotEmpty(t, cmp.Diff(saved.Data(), g.Snapshot().Component(types.Ez).Data()))
	later := g.Snapshot()
	assert.NotEqual(t, snap.ID, later.ID)
	assert.Equal(t, 5, later.Step)
	assert.InDelta(t, 2.5, later.Time, 1.e-15)

	fs := later.Sample(1, 2, 3)
	assert.Equal(t, later.At(types.Hy, 1, 2, 3), fs.Component(types.Hy))
	ex, hx := fs[types.Ex], fs[types.Hx]
	fs.MultiplyE(2)
	fs.MultiplyH(-1)
	assert.Equal(t, 2*ex, fs[types.Ex])
	assert.Equal(t, -hx, fs[types.Hx])
}

func TestInterpolateToCentre(t *testing.T) {
	var (
		dims = types.IJK{I: 12, J: 10, K: 3}
		dx   = 0.1
	)
	g, err := NewSplitFieldGrid(dims, dx, 0.2, 0.3, pec, materials.NewUniformStack(3, materials.Vacuum()), 0)
	require.NoError(t, err)
	g.SetInitial(types.Ex, func(x, y, z float64) float64 { return 2*x + 1 })
	g.SetInitial(types.Ey, func(x, y, z float64) float64 { return y * y })
	g.SetInitial(types.Hz, func(x, y, z float64) float64 { return x * y })
	{
		v, order := g.InterpolateToCentreOf(types.Ex, 6, 5, 1)
		assert.InDelta(t, 2*6*dx+1, v, 1.e-12)
		assert.Equal(t, 8, order)
		v, order = g.InterpolateToCentreOf(types.Ex, 0, 5, 1)
		assert.InDelta(t, 2*0.5*dx+1, v, 1.e-12)
		assert.Equal(t, 1, order)
		v, order = g.InterpolateToCentreOf(types.Hz, 6, 5, 1)
		assert.InDelta(t, 6*dx*5*0.2, v, 1.e-12)
		assert.Equal(t, 8, order)
		ex, ey, order := g.InterpolateTransverseElectric(6, 5, 1)
		assert.InDelta(t, 2*6*dx+1, ex, 1.e-12)
		assert.InDelta(t, 1., ey, 1.e-12)
		assert.Equal(t, 8, order)
		_, order = g.InterpolateNode(6, 5, 1)
		assert.Equal(t, 2, order)
		assert.Panics(t, func() { g.InterpolateToCentreOf(types.Ex, 12, 0, 0) })
	}
	{ // The sparse line operators agree with pointwise recombination
		lo, hi := types.IJK{I: 0, J: 1, K: 0}, types.IJK{I: 12, J: 9, K: 3}
		for _, fc := range []types.FieldComponent{types.Ex, types.Ey, types.Hz} {
			R, order, err := g.InterpolateOverRange(fc, lo, hi)
			require.NoError(t, err)
			minOrder := math.MaxInt
			for k := lo.K; k < hi.K; k++ {
				for j := lo.J; j < hi.J; j++ {
					for i := lo.I; i < hi.I; i++ {
						v, o := g.InterpolateToCentreOf(fc, i, j, k)
						assert.InDelta(t, v, R.At(i-lo.I, j-lo.J, k-lo.K), 1.e-12)
						minOrder = min(minOrder, o)
					}
				}
			}
			assert.Equal(t, minOrder, order, "%s", fc)
		}
		_, _, err := g.InterpolateOverRange(types.Ex, hi, lo)
		assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	}
	{
		g.SetSchemeOrder(2)
		_, order := g.InterpolateToCentreOf(types.Ex, 6, 5, 1)
		assert.Equal(t, 2, order)
	}
}
