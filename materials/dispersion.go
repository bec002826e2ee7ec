package materials

import (
	"fmt"

	"github.com/notargets/gofdtd/types"
)

// NumElectricHalves is the number of split E sub-components (Exy ... Ezy).
const NumElectricHalves = 6

/*
DispersionState holds the polarisation current J of every (pole, E half,
cell) at three time levels. The three levels rotate after each step so no
copying is needed; a cell's J_next is written only by the worker that owns
the cell.
*/
type DispersionState struct {
	Dims   types.IJK
	NPoles int
	levels [3][]float64
	cur    int
}

func NewDispersionState(dims types.IJK, nPoles int) (ds *DispersionState) {
	ds = &DispersionState{
		Dims:   dims,
		NPoles: nPoles,
	}
	size := nPoles * NumElectricHalves * dims.Cells()
	for n := range ds.levels {
		ds.levels[n] = make([]float64, size)
	}
	return
}

// HalfIndex numbers the electric split halves 0..5.
func HalfIndex(fc types.FieldComponent, h types.SplitHalf) int {
	if !fc.IsElectric() {
		panic(fmt.Errorf("no dispersion state for %s", fc))
	}
	return 2*int(fc) + int(h)
}

// Offset is the start of the (pole, half) block in each level.
func (ds *DispersionState) Offset(pole, half int) int {
	return (pole*NumElectricHalves + half) * ds.Dims.Cells()
}

// Levels returns J at steps n-1, n and the slot for n+1.
func (ds *DispersionState) Levels() (prev, cur, next []float64) {
	return ds.levels[(ds.cur+2)%3], ds.levels[ds.cur], ds.levels[(ds.cur+1)%3]
}

func (ds *DispersionState) Rotate() {
	ds.cur = (ds.cur + 1) % 3
}

// PolarizationCurrent reads J at the current level.
func (ds *DispersionState) PolarizationCurrent(pole int, fc types.FieldComponent, h types.SplitHalf, cell int) float64 {
	return ds.levels[ds.cur][ds.Offset(pole, HalfIndex(fc, h))+cell]
}

func (ds *DispersionState) Zero() {
	for n := range ds.levels {
		for i := range ds.levels[n] {
			ds.levels[n][i] = 0
		}
	}
}

// DispersionCheckpoint is a deep copy of the arena at one step.
type DispersionCheckpoint struct {
	Dims   types.IJK
	NPoles int
	Prev   []float64
	Cur    []float64
}

func (ds *DispersionState) Checkpoint() (cp *DispersionCheckpoint) {
	prev, cur, _ := ds.Levels()
	cp = &DispersionCheckpoint{
		Dims:   ds.Dims,
		NPoles: ds.NPoles,
		Prev:   append([]float64(nil), prev...),
		Cur:    append([]float64(nil), cur...),
	}
	return
}

func (ds *DispersionState) Restore(cp *DispersionCheckpoint) (err error) {
	if cp.Dims != ds.Dims || cp.NPoles != ds.NPoles {
		return fmt.Errorf("%w: checkpoint is %s with %d poles, state is %s with %d poles",
			types.ErrDimensionMismatch, cp.Dims, cp.NPoles, ds.Dims, ds.NPoles)
	}
	prev, cur, next := ds.Levels()
	copy(prev, cp.Prev)
	copy(cur, cp.Cur)
	for i := range next {
		next[i] = 0
	}
	return
}
