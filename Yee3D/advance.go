package Yee3D

import (
	"fmt"

	"github.com/notargets/gofdtd/materials"
	"github.com/notargets/gofdtd/types"
)

// SourceTerm adds Value to the first half of Component at sample (I,J,K)
// during one advance.
type SourceTerm struct {
	Component types.FieldComponent
	I, J, K   int
	Value     float64
}

var halves = []types.SplitHalf{types.First, types.Second}

// remaining is the axis orthogonal to both a and d.
func remaining(a, d types.AxialDirection) types.AxialDirection {
	return 3 - a - d
}

/*
neighbour returns the flat index of the sample one step along axis in
direction dir (+1 or -1) and the factor its value carries: 1 inside the
grid, 0 past a PEC boundary and the Bloch factor across a periodic one.
*/
func (g *SplitFieldGrid) neighbour(ind, i, j, k int, axis types.AxialDirection, dir int) (nb int, factor float64) {
	var (
		pos = [3]int{i, j, k}[axis] + dir
		n   = g.Dims.Along(axis)
		s   = g.stride(axis)
	)
	if pos >= 0 && pos < n {
		return ind + dir*s, 1
	}
	if axis == types.Z || g.BC[axis].Type == types.BC_PEC {
		return ind, 0
	}
	// Wrap to the opposite face
	return ind - dir*(n-1)*s, g.BC[axis].Bloch
}

/*
Advance moves the grid one step of dt. The E phase updates every E half from
its own derivative of H, solved jointly with the per pole polarisation
currents of that half; after a barrier the buffers swap, electric sources
are added and the H phase updates every H half from the new E. Magnetic sources are added after
the second swap. The only failure is a coefficient table, dispersion state or
source that does not fit the grid, reported before any field is touched.
*/
func (g *SplitFieldGrid) Advance(dt float64, sources []SourceTerm) (err error) {
	var (
		ct *materials.CoefficientTable
		ds = g.Layers.Dispersion
	)
	if ct, err = g.Layers.Table(dt); err != nil {
		return
	}
	if ct.Layers() != g.Dims.K {
		return fmt.Errorf("%w: coefficient table has %d rows, grid has %d k-slices",
			types.ErrDimensionMismatch, ct.Layers(), g.Dims.K)
	}
	if ct.NPoles > 0 && (ds == nil || ds.Dims != g.Dims || ds.NPoles != ct.NPoles) {
		return fmt.Errorf("%w: dispersion state does not match %s grid with %d poles",
			types.ErrDimensionMismatch, g.Dims, ct.NPoles)
	}
	for _, s := range sources {
		if !g.Dims.Contains(s.I, s.J, s.K) {
			return fmt.Errorf("%w: %s source at (%d,%d,%d) outside %s grid",
				types.ErrDimensionMismatch, s.Component, s.I, s.J, s.K, g.Dims)
		}
	}
	rows := ct.Rows()

	g.pm.Parallel(func(_, kMin, kMax int) {
		g.updateE(rows, ds, dt, kMin, kMax)
	})
	g.eCur = 1 - g.eCur
	if ct.NPoles > 0 {
		ds.Rotate()
	}
	g.inject(sources, true)

	g.pm.Parallel(func(_, kMin, kMax int) {
		g.updateH(rows, kMin, kMax)
	})
	g.hCur = 1 - g.hCur
	g.inject(sources, false)

	g.Step++
	g.Time += dt
	return
}

func (g *SplitFieldGrid) inject(sources []SourceTerm, electric bool) {
	for _, s := range sources {
		if s.Component.IsElectric() != electric {
			continue
		}
		g.field(s.Component).Half(s.Component.Axis(), types.First).Add(s.I, s.J, s.K, s.Value)
	}
}

// along is the sample index of (i,j,k) along axis.
func along(i, j, k int, axis types.AxialDirection) int {
	switch axis {
	case types.X:
		return i
	case types.Y:
		return j
	}
	return k
}

/*
updateE advances every E half together with the polarisation currents that
belong to it. The buffer about to receive E_next still holds E_prev, which
the current recurrence reads before the cell is overwritten.
*/
func (g *SplitFieldGrid) updateE(rows []materials.Coefficients, ds *materials.DispersionState,
	dt float64, kMin, kMax int) {
	var (
		Ecur, Enext        = g.E[g.eCur], g.E[1-g.eCur]
		Jfield             = g.J[1-g.eCur]
		Hcur               = g.H[g.hCur]
		ni, nj             = g.Dims.I, g.Dims.J
		np                 int
		jPrev, jCur, jNext []float64
	)
	if ds != nil {
		np = ds.NPoles
		jPrev, jCur, jNext = ds.Levels()
	}
	for _, fc := range types.ElectricComponents {
		a := fc.Axis()
		for _, h := range halves {
			var (
				d      = fc.Derivative(h)
				m      = remaining(a, d)
				sign   = 1.
				h0, h1 = Hcur.Half(m, types.First).Data(), Hcur.Half(m, types.Second).Data()
				ecur   = Ecur.Half(a, h).Data()
				enext  = Enext.Half(a, h).Data()
				jfield = Jfield.Half(a, h).Data()
				inv    = 1 / g.Spacing(d)
				prof   = g.profiles[d]
				poff   []int
			)
			if h == types.Second {
				sign = -1
			}
			for p := 0; p < np; p++ {
				poff = append(poff, ds.Offset(p, materials.HalfIndex(fc, h)))
			}
			for k := kMin; k < kMax; k++ {
				c := rows[k]
				for j := 0; j < nj; j++ {
					for i := 0; i < ni; i++ {
						ind := i + ni*(j+nj*k)
						curl := h0[ind] + h1[ind]
						if nb, f := g.neighbour(ind, i, j, k, d, -1); f != 0 {
							curl -= f * (h0[nb] + h1[nb])
						}
						curl *= sign * inv
						ca, cc, cb := c.Ca, c.Cc, c.Cb
						if prof.eRate != nil {
							if n := along(i, j, k, d); prof.eRate[n] != 0 || prof.eKappa[n] != 1 {
								ca, cc, cb = c.Electric(prof.eRate[n], prof.eKappa[n])
							}
						}
						var (
							eprev = enext[ind]
							jsum  float64
						)
						for p, off := range poff {
							jsum += (1+c.Alpha[p])*jCur[off+ind] + c.Beta[p]*jPrev[off+ind]
						}
						en := ca*ecur[ind] + cc*eprev + cb*(curl-0.5*jsum)
						var jtot float64
						for p, off := range poff {
							jn := c.Alpha[p]*jCur[off+ind] + c.Beta[p]*jPrev[off+ind] +
								c.Gamma[p]*(en-eprev)/(2*dt)
							jNext[off+ind] = jn
							jtot += jn
						}
						enext[ind] = en
						jfield[ind] = jtot
					}
				}
			}
		}
	}
}

func (g *SplitFieldGrid) updateH(rows []materials.Coefficients, kMin, kMax int) {
	var (
		Ecur        = g.E[g.eCur]
		Hcur, Hnext = g.H[g.hCur], g.H[1-g.hCur]
		ni, nj      = g.Dims.I, g.Dims.J
	)
	for _, fc := range types.MagneticComponents {
		a := fc.Axis()
		for _, h := range halves {
			var (
				d      = fc.Derivative(h)
				m      = remaining(a, d)
				sign   = -1.
				e0, e1 = Ecur.Half(m, types.First).Data(), Ecur.Half(m, types.Second).Data()
				hcur   = Hcur.Half(a, h).Data()
				hnext  = Hnext.Half(a, h).Data()
				inv    = 1 / g.Spacing(d)
				prof   = g.profiles[d]
			)
			if h == types.Second {
				sign = 1
			}
			for k := kMin; k < kMax; k++ {
				c := rows[k]
				for j := 0; j < nj; j++ {
					for i := 0; i < ni; i++ {
						ind := i + ni*(j+nj*k)
						curl := -(e0[ind] + e1[ind])
						if nb, f := g.neighbour(ind, i, j, k, d, 1); f != 0 {
							curl += f * (e0[nb] + e1[nb])
						}
						da, db := c.Da, c.Db
						if prof.hRate != nil {
							if n := along(i, j, k, d); prof.hRate[n] != 0 || prof.hKappa[n] != 1 {
								da, db = c.Magnetic(prof.hRate[n], prof.hKappa[n])
							}
						}
						hnext[ind] = da*hcur[ind] + db*sign*inv*curl
					}
				}
			}
		}
	}
}
