package Yee3D

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

/*
Snapshot is a capture of the six physical (summed) components at one step.
It shares nothing with the grid and is never modified after creation.
*/
type Snapshot struct {
	ID     uuid.UUID
	Step   int
	Time   float64 // Time of E; H lags by half a step
	Dims   types.IJK
	fields [6]utils.Tensor3D
}

func (g *SplitFieldGrid) Snapshot() (s *Snapshot) {
	s = &Snapshot{
		ID:   uuid.New(),
		Step: g.Step,
		Time: g.Time,
		Dims: g.Dims,
	}
	for _, fc := range types.AllComponents {
		sf := g.field(fc)
		s.fields[fc] = sf.Half(fc.Axis(), types.First).Sum(sf.Half(fc.Axis(), types.Second))
	}
	return
}

func (s *Snapshot) At(fc types.FieldComponent, i, j, k int) float64 {
	return s.fields[fc].At(i, j, k)
}

// Component returns a copy of one component.
func (s *Snapshot) Component(fc types.FieldComponent) utils.Tensor3D {
	return s.fields[fc].Copy()
}

func (s *Snapshot) Frobenius(fc types.FieldComponent) float64 {
	return s.fields[fc].Frobenius()
}

// Sample gathers the six components stored at index (i,j,k), each at its own
// staggered position.
func (s *Snapshot) Sample(i, j, k int) (fs FieldSample) {
	for _, fc := range types.AllComponents {
		fs[fc] = s.fields[fc].At(i, j, k)
	}
	return
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot %s step %d t = %8.5f on %s", s.ID, s.Step, s.Time, s.Dims)
}

// FieldSample holds Ex, Ey, Ez, Hx, Hy, Hz at one point.
type FieldSample [6]float64

func (fs FieldSample) Component(fc types.FieldComponent) float64 { return fs[fc] }

// MultiplyE scales the electric components in place.
func (fs *FieldSample) MultiplyE(factor float64) {
	for _, fc := range types.ElectricComponents {
		fs[fc] *= factor
	}
}

// MultiplyH scales the magnetic components in place.
func (fs *FieldSample) MultiplyH(factor float64) {
	for _, fc := range types.MagneticComponents {
		fs[fc] *= factor
	}
}
