package materials

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofdtd/types"
)

const (
	colCa = iota
	colCb
	colCc
	colDa
	colDb
	colEps
	colMu
	colSigma
	colSigmaM
	colGammaSum
	nFixedCols
)

/*
CoefficientTable is the coefficient matrix for one time step: one row per
layer, columns Ca, Cb, Cc, Da, Db and the layer's own material values,
followed by (Alpha, Beta, Gamma) per pole.
Tables are never modified after construction.
*/
type CoefficientTable struct {
	DT     float64
	NPoles int
	M      *mat.Dense
}

func (ct *CoefficientTable) Layers() (nl int) {
	nl, _ = ct.M.Dims()
	return
}

func (ct *CoefficientTable) Row(layer int) (c Coefficients) {
	c = Coefficients{
		DT:       ct.DT,
		Ca:       ct.M.At(layer, colCa),
		Cb:       ct.M.At(layer, colCb),
		Cc:       ct.M.At(layer, colCc),
		Da:       ct.M.At(layer, colDa),
		Db:       ct.M.At(layer, colDb),
		Alpha:    make([]float64, ct.NPoles),
		Beta:     make([]float64, ct.NPoles),
		Gamma:    make([]float64, ct.NPoles),
		EpsInf:   ct.M.At(layer, colEps),
		Mu:       ct.M.At(layer, colMu),
		Sigma:    ct.M.At(layer, colSigma),
		SigmaM:   ct.M.At(layer, colSigmaM),
		GammaSum: ct.M.At(layer, colGammaSum),
	}
	for n := 0; n < ct.NPoles; n++ {
		col := nFixedCols + 3*n
		c.Alpha[n] = ct.M.At(layer, col)
		c.Beta[n] = ct.M.At(layer, col+1)
		c.Gamma[n] = ct.M.At(layer, col+2)
	}
	return
}

// Rows unpacks the table, one Coefficients per layer.
func (ct *CoefficientTable) Rows() (rows []Coefficients) {
	rows = make([]Coefficients, ct.Layers())
	for k := range rows {
		rows[k] = ct.Row(k)
	}
	return
}

/*
LayerStack maps a depth index k to its layer, owns the cached coefficient
table and the dispersion arena. The cache is read on every step and rebuilt
only when dt or a layer changes, so it sits behind an RWMutex.
*/
type LayerStack struct {
	mu         sync.RWMutex
	layers     []Layer
	table      *CoefficientTable
	Dispersion *DispersionState
}

func NewLayerStack(layers ...Layer) (ls *LayerStack) {
	ls = &LayerStack{
		layers: make([]Layer, len(layers)),
	}
	for k, l := range layers {
		ls.layers[k] = l.clone()
	}
	return
}

// NewUniformStack repeats one layer K times.
func NewUniformStack(K int, l Layer) (ls *LayerStack) {
	layers := make([]Layer, K)
	for k := range layers {
		layers[k] = l
	}
	return NewLayerStack(layers...)
}

func (l Layer) clone() (c Layer) {
	c = l
	c.Poles = append([]Pole(nil), l.Poles...)
	return
}

func (ls *LayerStack) Len() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.layers)
}

func (ls *LayerStack) checkIndex(layer int) (err error) {
	if layer < 0 || layer >= len(ls.layers) {
		err = fmt.Errorf("%w: %d, have %d layers", types.ErrInvalidLayerIndex, layer, len(ls.layers))
	}
	return
}

func (ls *LayerStack) Layer(layer int) (l Layer, err error) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	if err = ls.checkIndex(layer); err != nil {
		return
	}
	l = ls.layers[layer].clone()
	return
}

// SetLayer replaces one layer and invalidates the cached coefficients.
func (ls *LayerStack) SetLayer(layer int, l Layer) (err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err = ls.checkIndex(layer); err != nil {
		return
	}
	ls.layers[layer] = l.clone()
	ls.table = nil
	return
}

// NPoles is the largest pole count of any layer; shorter layers are padded
// with degenerate poles.
func (ls *LayerStack) NPoles() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.nPoles()
}

func (ls *LayerStack) nPoles() (np int) {
	for _, l := range ls.layers {
		if len(l.Poles) > np {
			np = len(l.Poles)
		}
	}
	return
}

func (ls *LayerStack) IsDispersive(nearZeroTolerance float64) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	for _, l := range ls.layers {
		if l.IsDispersive(nearZeroTolerance) {
			return true
		}
	}
	return false
}

// Validate checks every layer against dt.
func (ls *LayerStack) Validate(dt float64) (err error) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.validate(dt)
}

func (ls *LayerStack) validate(dt float64) (err error) {
	if len(ls.layers) == 0 {
		return fmt.Errorf("%w: layer stack is empty", types.ErrDimensionMismatch)
	}
	for k, l := range ls.layers {
		if err = l.Validate(dt); err != nil {
			return fmt.Errorf("layer %d: %w", k, err)
		}
	}
	return
}

/*
Table returns the coefficient table for dt, building it on first use or when
dt differs from the cached one. A changed layer has already cleared the
cache, so a returned table is never stale.
*/
func (ls *LayerStack) Table(dt float64) (ct *CoefficientTable, err error) {
	ls.mu.RLock()
	ct = ls.table
	ls.mu.RUnlock()
	if ct != nil && ct.DT == dt {
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.table != nil && ls.table.DT == dt {
		return ls.table, nil
	}
	if err = ls.validate(dt); err != nil {
		return nil, err
	}
	var (
		np   = ls.nPoles()
		nl   = len(ls.layers)
		data = make([]float64, nl*(nFixedCols+3*np))
	)
	ct = &CoefficientTable{
		DT:     dt,
		NPoles: np,
		M:      mat.NewDense(nl, nFixedCols+3*np, data),
	}
	for k, l := range ls.layers {
		c := l.coefficients(dt, np)
		ct.M.Set(k, colCa, c.Ca)
		ct.M.Set(k, colCb, c.Cb)
		ct.M.Set(k, colCc, c.Cc)
		ct.M.Set(k, colDa, c.Da)
		ct.M.Set(k, colDb, c.Db)
		ct.M.Set(k, colEps, c.EpsInf)
		ct.M.Set(k, colMu, c.Mu)
		ct.M.Set(k, colSigma, c.Sigma)
		ct.M.Set(k, colSigmaM, c.SigmaM)
		ct.M.Set(k, colGammaSum, c.GammaSum)
		for n := 0; n < np; n++ {
			col := nFixedCols + 3*n
			ct.M.Set(k, col, c.Alpha[n])
			ct.M.Set(k, col+1, c.Beta[n])
			ct.M.Set(k, col+2, c.Gamma[n])
		}
	}
	ls.table = ct
	return
}

// CoefficientsFor returns the (cached) coefficients of one layer for dt.
func (ls *LayerStack) CoefficientsFor(layer int, dt float64) (c Coefficients, err error) {
	var (
		l  Layer
		ct *CoefficientTable
	)
	if l, err = ls.Layer(layer); err != nil {
		return
	}
	if err = l.Validate(dt); err != nil {
		err = fmt.Errorf("layer %d: %w", layer, err)
		return
	}
	if ct, err = ls.Table(dt); err != nil {
		return
	}
	c = ct.Row(layer)
	return
}

/*
CourantLimit is the largest stable time step of the Yee update for the given
spacing, using the fastest (lowest EpsInf*Mu) layer.
*/
func (ls *LayerStack) CourantLimit(dx, dy, dz float64) (dtMax float64) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	var (
		inv  = math.Sqrt(1/(dx*dx) + 1/(dy*dy) + 1/(dz*dz))
		nMin = math.Inf(1)
	)
	for _, l := range ls.layers {
		if n := math.Sqrt(l.EpsInf * l.Mu); n < nMin {
			nMin = n
		}
	}
	return nMin / inv
}

// AllocateDispersion creates the auxiliary polarisation arena for a grid.
func (ls *LayerStack) AllocateDispersion(dims types.IJK) (err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if dims.K != len(ls.layers) {
		return fmt.Errorf("%w: grid has %d k-slices, layer stack has %d layers",
			types.ErrDimensionMismatch, dims.K, len(ls.layers))
	}
	ls.Dispersion = NewDispersionState(dims, ls.nPoles())
	return
}
