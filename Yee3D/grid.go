package Yee3D

import (
	"fmt"

	"github.com/notargets/gofdtd/interpolation"
	"github.com/notargets/gofdtd/materials"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

// SplitField is one vector field held as its two additive halves.
type SplitField [2]utils.XYZTensor3D

func NewSplitField(dims types.IJK) SplitField {
	return SplitField{utils.NewXYZTensor3D(dims), utils.NewXYZTensor3D(dims)}
}

// Half returns the storage of one half of the component along axis.
func (sf SplitField) Half(axis types.AxialDirection, h types.SplitHalf) utils.Tensor3D {
	return sf[h].Component(axis)
}

// At is the physical value, the sum of both halves.
func (sf SplitField) At(axis types.AxialDirection, ind int) float64 {
	return sf[0].Component(axis).Data()[ind] + sf[1].Component(axis).Data()[ind]
}

func (sf SplitField) Zero() {
	sf[0].Zero()
	sf[1].Zero()
}

/*
SplitFieldGrid holds the split E, H and J (polarisation current) fields of a
Yee grid, each double buffered. Node (i,j,k) is the common point of the six
staggered components, see types.FieldComponent.Staggered. The z (layer) axis
is always PEC; x and y are PEC or periodic with a Bloch factor.
*/
type SplitFieldGrid struct {
	Dims       types.IJK
	Dx, Dy, Dz float64
	BC         [2]types.Boundary // x and y
	Layers     *materials.LayerStack
	E, H, J    [2]SplitField // [buffer]
	eCur, hCur int
	Step       int     // Completed advances
	Time       float64 // Time of the current E
	pm         *utils.PartitionMap
	interp     *interpolation.Engine
	operators  map[int]*lineOperator
	Absorber   materials.Absorber
	profiles   [3]absorberProfile
}

// absorberProfile is the grading along one axis; nil slices when the axis
// does not absorb.
type absorberProfile struct {
	eRate, eKappa []float64
	hRate, hKappa []float64
}

func NewSplitFieldGrid(dims types.IJK, dx, dy, dz float64, bc [2]types.Boundary,
	layers *materials.LayerStack, procLimit int) (g *SplitFieldGrid, err error) {
	switch {
	case dims.I < 1 || dims.J < 1 || dims.K < 1:
		err = fmt.Errorf("%w: grid dimensions must be positive, have %s", types.ErrDimensionMismatch, dims)
	case dx <= 0 || dy <= 0 || dz <= 0:
		err = fmt.Errorf("%w: grid spacing must be positive, have %v, %v, %v",
			types.ErrNonPhysicalParameter, dx, dy, dz)
	case layers == nil || layers.Len() != dims.K:
		nl := 0
		if layers != nil {
			nl = layers.Len()
		}
		err = fmt.Errorf("%w: grid has %d k-slices, layer stack has %d layers",
			types.ErrDimensionMismatch, dims.K, nl)
	}
	if err != nil {
		return
	}
	for n, b := range bc {
		if err = b.Validate(types.AxialDirection(n)); err != nil {
			return
		}
	}
	if layers.NPoles() > 0 {
		if err = layers.AllocateDispersion(dims); err != nil {
			return
		}
	}
	g = &SplitFieldGrid{
		Dims:      dims,
		Dx:        dx,
		Dy:        dy,
		Dz:        dz,
		BC:        bc,
		Layers:    layers,
		pm:        utils.NewPartitionMap(utils.ParallelDegree(procLimit, dims.K), dims.K),
		interp:    interpolation.NewEngine(0),
		operators: make(map[int]*lineOperator),
	}
	for n := 0; n < 2; n++ {
		g.E[n] = NewSplitField(dims)
		g.H[n] = NewSplitField(dims)
		g.J[n] = NewSplitField(dims)
	}
	return
}

// SetAbsorber grades absorbing cells into the ends of the axes it names.
func (g *SplitFieldGrid) SetAbsorber(a materials.Absorber) (err error) {
	if err = a.Validate(g.Dims, g.BC); err != nil {
		return
	}
	g.Absorber = a
	for _, axis := range []types.AxialDirection{types.X, types.Y, types.Z} {
		p := &g.profiles[axis]
		p.eRate, p.eKappa, p.hRate, p.hKappa = a.Profile(axis, g.Dims.Along(axis), g.Spacing(axis))
	}
	return
}

// SetSchemeOrder caps the interpolation order used to recombine fields.
func (g *SplitFieldGrid) SetSchemeOrder(maxOrder int) {
	g.interp = interpolation.NewEngine(maxOrder)
	g.operators = make(map[int]*lineOperator)
}

func (g *SplitFieldGrid) Spacing(axis types.AxialDirection) float64 {
	switch axis {
	case types.X:
		return g.Dx
	case types.Y:
		return g.Dy
	}
	return g.Dz
}

func (g *SplitFieldGrid) stride(axis types.AxialDirection) int {
	switch axis {
	case types.X:
		return 1
	case types.Y:
		return g.Dims.I
	}
	return g.Dims.I * g.Dims.J
}

func (g *SplitFieldGrid) Electric() SplitField { return g.E[g.eCur] }

func (g *SplitFieldGrid) Magnetic() SplitField { return g.H[g.hCur] }

func (g *SplitFieldGrid) Current() SplitField { return g.J[g.eCur] }

func (g *SplitFieldGrid) field(fc types.FieldComponent) SplitField {
	if fc.IsElectric() {
		return g.Electric()
	}
	return g.Magnetic()
}

// Value is the physical (summed) value of a component at its sample (i,j,k).
func (g *SplitFieldGrid) Value(fc types.FieldComponent, i, j, k int) float64 {
	t := g.field(fc).Half(fc.Axis(), types.First)
	return g.field(fc).At(fc.Axis(), t.Index(i, j, k))
}

// Half returns a copy of one half of a component.
func (g *SplitFieldGrid) Half(fc types.FieldComponent, h types.SplitHalf) utils.Tensor3D {
	return g.field(fc).Half(fc.Axis(), h).Copy()
}

// Position is the physical location of sample (i,j,k) of a component.
func (g *SplitFieldGrid) Position(fc types.FieldComponent, i, j, k int) (x, y, z float64) {
	pos := [3]float64{float64(i), float64(j), float64(k)}
	for _, axis := range fc.Staggered() {
		pos[axis] += 0.5
	}
	return pos[0] * g.Dx, pos[1] * g.Dy, pos[2] * g.Dz
}

/*
SetInitial loads fn, evaluated at each sample position, into the first half
of a component and clears the second. Both buffers are written so the
starting field is its own predecessor.
*/
func (g *SplitFieldGrid) SetInitial(fc types.FieldComponent, fn func(x, y, z float64) float64) {
	var (
		axis    = fc.Axis()
		buffers = g.H
	)
	if fc.IsElectric() {
		buffers = g.E
	}
	first := buffers[0].Half(axis, types.First)
	for k := 0; k < g.Dims.K; k++ {
		for j := 0; j < g.Dims.J; j++ {
			for i := 0; i < g.Dims.I; i++ {
				first.Set(i, j, k, fn(g.Position(fc, i, j, k)))
			}
		}
	}
	buffers[0].Half(axis, types.Second).Zero()
	copy(buffers[1].Half(axis, types.First).Data(), first.Data())
	buffers[1].Half(axis, types.Second).Zero()
}

// Reset zeroes all fields, the dispersion state and the clock.
func (g *SplitFieldGrid) Reset() {
	for n := 0; n < 2; n++ {
		g.E[n].Zero()
		g.H[n].Zero()
		g.J[n].Zero()
	}
	if g.Layers.Dispersion != nil {
		g.Layers.Dispersion.Zero()
	}
	g.Step, g.Time = 0, 0
}

/*
Energy is the discrete electromagnetic energy

	W = 1/2 sum (EpsInf E.E + Mu H_prev.H) dV

with H_prev the magnetic field half a step before the current one. For a
lossless, non-dispersive grid without sources W is constant to round off.
*/
func (g *SplitFieldGrid) Energy() (W float64) {
	var (
		E     = g.Electric()
		H     = g.Magnetic()
		Hprev = g.H[1-g.hCur]
		slabs = E.Half(types.X, types.First)
	)
	for k := 0; k < g.Dims.K; k++ {
		l, err := g.Layers.Layer(k)
		if err != nil {
			panic(err)
		}
		var (
			we, wh     float64
			begin, end = slabs.SlabRange(k, k+1)
		)
		for _, axis := range []types.AxialDirection{types.X, types.Y, types.Z} {
			for ind := begin; ind < end; ind++ {
				e := E.At(axis, ind)
				we += e * e
				wh += H.At(axis, ind) * Hprev.At(axis, ind)
			}
		}
		W += l.EpsInf*we + l.Mu*wh
	}
	W *= 0.5 * g.Dx * g.Dy * g.Dz
	return
}
