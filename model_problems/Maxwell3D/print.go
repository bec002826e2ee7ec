package Maxwell3D

import (
	"fmt"
	"time"

	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

func (s *Simulation) PrintInitialization() {
	if len(s.Title) != 0 {
		fmt.Printf("\"%s\"\n", s.Title)
	}
	fmt.Printf("Grid %s, dx = %8.5f, dy = %8.5f, dz = %8.5f\n", s.Dims, s.Dx, s.Dy, s.Dz)
	fmt.Printf("BCs: x = %s, y = %s, z = PEC\n", s.BC[0].Type, s.BC[1].Type)
	if !s.Absorber.IsEmpty() {
		fmt.Printf("Absorbing cells %v\n", s.Absorber.Cells)
	}
	fmt.Printf("dt = %8.6f, Courant limit = %8.6f, Steps = %d\n",
		s.DT, s.grid.Layers.CourantLimit(s.Dx, s.Dy, s.Dz), s.Steps)
	fmt.Printf("Poles = %d, %d sources, %d detectors, %d frequencies\n",
		s.grid.Layers.NPoles(), len(s.sources), len(s.detectors), len(s.frequencies))
	for n, d := range s.detectors {
		fmt.Printf("Detector[%s] at (%d,%d,%d), interpolation order %d\n", d.Name, d.I, d.J, d.K, s.orders[n])
	}
	fmt.Printf("    iter    time")
	fmt.Printf("     Energy    |Ex|max    |Ey|max    |Ez|max\n")
}

func (s *Simulation) PrintUpdate() {
	format := "%11.4e"
	fmt.Printf("%8d%8.4f", s.step, s.grid.Time)
	fmt.Printf(format, s.grid.Energy())
	E := s.grid.Electric()
	for _, axis := range []types.AxialDirection{types.X, types.Y, types.Z} {
		fmt.Printf(format, E.Half(axis, types.First).Sum(E.Half(axis, types.Second)).MaxAbs())
	}
	fmt.Printf("\n")
}

func (s *Simulation) PrintFinal() {
	rate := float64(s.elapsed.Microseconds()) / float64(s.Dims.Cells()*s.step)
	fmt.Printf("\nRate of execution = %8.5f us/(cell*iteration) over %d iterations, %s elapsed\n",
		rate, s.step, s.elapsed.Round(time.Millisecond))
	fmt.Printf("%s\n", utils.GetMemUsage())
}
