package Yee3D

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gofdtd/interpolation"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

type lineOperator struct {
	op      *sparse.CSR
	schemes []*interpolation.Scheme
}

func (g *SplitFieldGrid) operatorFor(n int) (lo *lineOperator) {
	var ok bool
	if lo, ok = g.operators[n]; !ok {
		lo = &lineOperator{}
		lo.op, lo.schemes = g.interp.Operator(n)
		g.operators[n] = lo
	}
	return
}

func (g *SplitFieldGrid) checkNode(i, j, k int) {
	if !g.Dims.Contains(i, j, k) {
		panic(fmt.Errorf("node (%d,%d,%d) outside %s grid", i, j, k, g.Dims))
	}
}

/*
InterpolateToCentreOf recombines a component onto node (i,j,k): the halves
are summed and the staggered samples interpolated along each staggered axis,
a tensor product for the magnetic components. The returned order is the
lowest scheme order used; 1 means the node sits on a boundary plane.
*/
func (g *SplitFieldGrid) InterpolateToCentreOf(fc types.FieldComponent, i, j, k int) (val float64, order int) {
	g.checkNode(i, j, k)
	var (
		sf   = g.field(fc)
		axis = fc.Axis()
		t    = sf.Half(axis, types.First)
	)
	sample := func(pos [3]int) float64 {
		return sf.At(axis, t.Index(pos[0], pos[1], pos[2]))
	}
	return g.interpolateAlong(sample, [3]int{i, j, k}, fc.Staggered())
}

func (g *SplitFieldGrid) interpolateAlong(sample func(pos [3]int) float64, pos [3]int,
	axes []types.AxialDirection) (val float64, order int) {
	if len(axes) == 0 {
		return sample(pos), math.MaxInt
	}
	var (
		axis    = axes[0]
		u, s, w = g.interp.Stencil(g.Dims.Along(axis), float64(pos[axis])-0.5)
	)
	order = s.Order
	for n, o := range s.Offsets {
		p := pos
		p[axis] = u + o
		v, ord := g.interpolateAlong(sample, p, axes[1:])
		val += w[n] * v
		if ord < order {
			order = ord
		}
	}
	return
}

// InterpolateNode recombines all six components onto node (i,j,k).
func (g *SplitFieldGrid) InterpolateNode(i, j, k int) (fs FieldSample, order int) {
	order = math.MaxInt
	for _, fc := range types.AllComponents {
		var ord int
		if fs[fc], ord = g.InterpolateToCentreOf(fc, i, j, k); ord < order {
			order = ord
		}
	}
	return
}

// InterpolateTransverseElectric returns Ex and Ey at node (i,j,k).
func (g *SplitFieldGrid) InterpolateTransverseElectric(i, j, k int) (ex, ey float64, order int) {
	var ox, oy int
	ex, ox = g.InterpolateToCentreOf(types.Ex, i, j, k)
	ey, oy = g.InterpolateToCentreOf(types.Ey, i, j, k)
	order = min(ox, oy)
	return
}

// InterpolateTransverseMagnetic returns Hx and Hy at node (i,j,k).
func (g *SplitFieldGrid) InterpolateTransverseMagnetic(i, j, k int) (hx, hy float64, order int) {
	var ox, oy int
	hx, ox = g.InterpolateToCentreOf(types.Hx, i, j, k)
	hy, oy = g.InterpolateToCentreOf(types.Hy, i, j, k)
	order = min(ox, oy)
	return
}

/*
InterpolateOverRange recombines a component onto every node of the box
[lo, hi), applying the sparse line operator along each staggered axis of the
whole grid before cropping.
*/
func (g *SplitFieldGrid) InterpolateOverRange(fc types.FieldComponent, lo, hi types.IJK) (R utils.Tensor3D, order int, err error) {
	if !g.Dims.Contains(lo.I, lo.J, lo.K) || !g.Dims.Contains(hi.I-1, hi.J-1, hi.K-1) ||
		hi.I <= lo.I || hi.J <= lo.J || hi.K <= lo.K {
		err = fmt.Errorf("%w: range %s to %s outside %s grid", types.ErrDimensionMismatch, lo, hi, g.Dims)
		return
	}
	sf := g.field(fc)
	S := sf.Half(fc.Axis(), types.First).Sum(sf.Half(fc.Axis(), types.Second))
	order = math.MaxInt
	for _, axis := range fc.Staggered() {
		lop := g.operatorFor(g.Dims.Along(axis))
		S = g.applyAlong(S, axis, lop)
		for n := lo.Along(axis); n < hi.Along(axis); n++ {
			order = min(order, lop.schemes[n].Order)
		}
	}
	R = utils.NewTensor3D(types.IJK{I: hi.I - lo.I, J: hi.J - lo.J, K: hi.K - lo.K})
	for k := lo.K; k < hi.K; k++ {
		for j := lo.J; j < hi.J; j++ {
			for i := lo.I; i < hi.I; i++ {
				R.Set(i-lo.I, j-lo.J, k-lo.K, S.At(i, j, k))
			}
		}
	}
	return
}

func (g *SplitFieldGrid) applyAlong(S utils.Tensor3D, axis types.AxialDirection, lop *lineOperator) (R utils.Tensor3D) {
	var (
		n      = g.Dims.Along(axis)
		stride = g.stride(axis)
		line   = make([]float64, n)
		src    = S.Data()
	)
	R = utils.NewTensor3D(g.Dims)
	dst := R.Data()
	for ind := range src {
		pos := [3]int{}
		pos[0], pos[1], pos[2] = S.IJK(ind)
		if pos[axis] != 0 {
			continue
		}
		for m := range line {
			line[m] = src[ind+m*stride]
		}
		for m, v := range interpolation.Apply(lop.op, line) {
			dst[ind+m*stride] = v
		}
	}
	return
}
