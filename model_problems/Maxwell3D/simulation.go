package Maxwell3D

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/notargets/gofdtd/Yee3D"
	"github.com/notargets/gofdtd/extraction"
	"github.com/notargets/gofdtd/materials"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

type State uint8

const (
	Configuring State = iota
	Stepping
	Finalized
)

func (s State) String() string {
	return [...]string{"Configuring", "Stepping", "Finalized"}[s]
}

// Detector names a node at which all six components are recombined and
// extracted.
type Detector struct {
	Name    string
	I, J, K int
}

// Result holds the extracted phasors of one detector at one frequency.
type Result struct {
	Detector string
	Omega    float64
	E, H     [3]complex128
}

type layerOverride struct {
	k int
	l materials.Layer
}

/*
Simulation drives a SplitFieldGrid through Steps advances. It is configured
in the Configuring state, locked by Start, and finalizes after the last step.
Each step advances the grid, recombines every detector onto its node and
feeds the recombined E and H to two extractors; E is sampled one step after
the advance index and H half a step later.
*/
type Simulation struct {
	Dims         types.IJK
	Dx, Dy, Dz   float64
	DT           float64 // 0 selects Courant times the stability limit
	Courant      float64
	Steps        int
	BC           [2]types.Boundary
	Absorber     materials.Absorber
	MaxOrder     int
	ProcLimit    int
	Verbose      bool
	LogFrequency int
	Title        string
	state        State
	layers       []materials.Layer
	overrides    []layerOverride
	sources      []Source
	detectors    []Detector
	initial      map[types.FieldComponent]func(x, y, z float64) float64
	frequencies  extraction.FrequencyVector
	grid         *Yee3D.SplitFieldGrid
	eExt, hExt   *extraction.Extractor
	orders       []int
	step         int
	elapsed      time.Duration
	terms        []Yee3D.SourceTerm
}

func NewSimulation(dims types.IJK, dx, dy, dz float64, steps int) (s *Simulation) {
	s = &Simulation{
		Dims:         dims,
		Dx:           dx,
		Dy:           dy,
		Dz:           dz,
		Courant:      0.95,
		Steps:        steps,
		LogFrequency: 100,
		initial:      make(map[types.FieldComponent]func(x, y, z float64) float64),
	}
	return
}

func (s *Simulation) State() State { return s.state }

func (s *Simulation) configuring() (err error) {
	if s.state != Configuring {
		err = fmt.Errorf("%w: simulation is %s", types.ErrNotConfiguring, s.state)
	}
	return
}

// SetLayers replaces the whole stack, one layer per k-slice.
func (s *Simulation) SetLayers(layers ...materials.Layer) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.layers = append([]materials.Layer(nil), layers...)
	return
}

// SetLayer overrides one layer; the index is checked at Start.
func (s *Simulation) SetLayer(k int, l materials.Layer) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.overrides = append(s.overrides, layerOverride{k: k, l: l})
	return
}

func (s *Simulation) SetBoundary(axis types.AxialDirection, b types.Boundary) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	if axis == types.Z {
		if b.Type != types.BC_PEC {
			err = fmt.Errorf("%w: the z axis is always PEC", types.ErrNonPhysicalParameter)
		}
		return
	}
	s.BC[axis] = b
	return
}

// SetAbsorber grades absorbing cells into the ends of the axes; it is
// checked against the grid and boundaries at Start.
func (s *Simulation) SetAbsorber(a materials.Absorber) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.Absorber = a
	return
}

func (s *Simulation) AddSource(src Source) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.sources = append(s.sources, src)
	return
}

func (s *Simulation) AddDetector(d Detector) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.detectors = append(s.detectors, d)
	return
}

func (s *Simulation) SetInitial(fc types.FieldComponent, fn func(x, y, z float64) float64) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.initial[fc] = fn
	return
}

// SetFrequencies fixes the extraction frequencies. Without a call the
// frequencies of the sources are used.
func (s *Simulation) SetFrequencies(omegas ...float64) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.frequencies, err = extraction.NewFrequencyVector(omegas...)
	return
}

func (s *Simulation) SetTimeStep(dt float64) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.DT = dt
	return
}

func (s *Simulation) SetSchemeOrder(maxOrder int) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.MaxOrder = maxOrder
	return
}

func (s *Simulation) SetParallelDegree(procLimit int) (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	s.ProcLimit = procLimit
	return
}

/*
Start validates the configuration, builds the grid and extractors and moves
to Stepping. Nothing is stepped when it fails, and the simulation stays in
Configuring so the configuration can be corrected.
*/
func (s *Simulation) Start() (err error) {
	if err = s.configuring(); err != nil {
		return
	}
	if s.Steps < 1 {
		return fmt.Errorf("%w: step count must be positive, have %d", types.ErrNonPhysicalParameter, s.Steps)
	}
	var (
		ls     *materials.LayerStack
		layers = s.layers
	)
	if len(layers) == 0 && s.Dims.K > 0 {
		layers = make([]materials.Layer, s.Dims.K)
		for k := range layers {
			layers[k] = materials.Vacuum()
		}
	}
	if len(layers) != s.Dims.K {
		return fmt.Errorf("%w: %d layers for %d k-slices", types.ErrDimensionMismatch, len(layers), s.Dims.K)
	}
	ls = materials.NewLayerStack(layers...)
	for _, o := range s.overrides {
		if err = ls.SetLayer(o.k, o.l); err != nil {
			return
		}
	}
	dt := s.DT
	dtMax := ls.CourantLimit(s.Dx, s.Dy, s.Dz)
	if dt == 0 {
		dt = s.Courant * dtMax
	}
	if dt > dtMax || math.IsNaN(dt) {
		return fmt.Errorf("%w: time step %v exceeds the Courant limit %v",
			types.ErrNonPhysicalParameter, dt, dtMax)
	}
	if err = ls.Validate(dt); err != nil {
		return
	}
	var grid *Yee3D.SplitFieldGrid
	if grid, err = Yee3D.NewSplitFieldGrid(s.Dims, s.Dx, s.Dy, s.Dz, s.BC, ls, s.ProcLimit); err != nil {
		return
	}
	grid.SetSchemeOrder(s.MaxOrder)
	if !s.Absorber.IsEmpty() {
		if err = grid.SetAbsorber(s.Absorber); err != nil {
			return
		}
	}
	for _, src := range s.sources {
		if err = src.validate(s.Dims); err != nil {
			return
		}
	}
	for _, d := range s.detectors {
		if !s.Dims.Contains(d.I, d.J, d.K) {
			return fmt.Errorf("%w: detector %q at (%d,%d,%d) outside %s grid",
				types.ErrDimensionMismatch, d.Name, d.I, d.J, d.K, s.Dims)
		}
	}
	freqs := s.frequencies
	if len(freqs) == 0 {
		freqs = s.sourceFrequencies()
	}
	if dt >= freqs.NyquistLimit() {
		return fmt.Errorf("%w: frequency %v is above the Nyquist limit of dt = %v",
			types.ErrNonPhysicalParameter, freqs.Max(), dt)
	}
	if len(freqs) > 0 && len(s.detectors) > 0 {
		nq := 3 * len(s.detectors)
		if s.eExt, err = extraction.NewExtractor(freqs, nq, dt, 1, 0, s.Steps, s.ProcLimit); err != nil {
			return
		}
		if s.hExt, err = extraction.NewExtractor(freqs, nq, dt, 1.5, 0, s.Steps, s.ProcLimit); err != nil {
			return
		}
	}
	for fc, fn := range s.initial {
		grid.SetInitial(fc, fn)
	}
	s.grid, s.DT, s.frequencies = grid, dt, freqs
	s.orders = make([]int, len(s.detectors))
	for n, d := range s.detectors {
		_, s.orders[n] = grid.InterpolateNode(d.I, d.J, d.K)
	}
	s.state = Stepping
	if s.Verbose {
		s.PrintInitialization()
	}
	return
}

func (s *Simulation) sourceFrequencies() (fv extraction.FrequencyVector) {
	for _, src := range s.sources {
		if src.Type != Impulse && src.Omega > 0 && !src.IsEmpty() {
			fv = append(fv, src.Omega)
		}
	}
	return fv.Unique()
}

/*
Step performs one cycle: advance, recombination at the detectors and
frequency accumulation. Cancellation is checked before the cycle starts and
never inside it. Fields are checked for divergence every LogFrequency steps
and on the last one; the last step finalizes even when it diverged.
*/
func (s *Simulation) Step(ctx context.Context) (err error) {
	switch s.state {
	case Configuring:
		return fmt.Errorf("%w: call Start before stepping", types.ErrNotStarted)
	case Finalized:
		return fmt.Errorf("%w: after %d steps", types.ErrAlreadyFinalized, s.step)
	}
	if err = ctx.Err(); err != nil {
		return
	}
	start := time.Now()
	var (
		n     = s.step
		dt    = s.DT
		terms = s.terms[:0]
	)
	for _, src := range s.sources {
		if src.IsEmpty() {
			continue
		}
		t := (float64(n) + 1) * dt
		if !src.Component.IsElectric() {
			t += 0.5 * dt
		}
		terms = append(terms, Yee3D.SourceTerm{
			Component: src.Component,
			I:         src.I,
			J:         src.J,
			K:         src.K,
			Value:     src.Value(n, t),
		})
	}
	s.terms = terms
	if err = s.grid.Advance(dt, terms); err != nil {
		return
	}
	if s.eExt != nil {
		var (
			nq    = 3 * len(s.detectors)
			eVals = make([]float64, nq)
			hVals = make([]float64, nq)
		)
		for d, det := range s.detectors {
			fs, _ := s.grid.InterpolateNode(det.I, det.J, det.K)
			for c := 0; c < 3; c++ {
				eVals[3*d+c] = fs[c]
				hVals[3*d+c] = fs[3+c]
			}
		}
		if err = s.eExt.Accumulate(eVals, n); err != nil {
			return
		}
		if err = s.hExt.Accumulate(hVals, n); err != nil {
			return
		}
	}
	s.step++
	s.elapsed += time.Since(start)
	if s.Verbose && (s.step == 1 || s.step == s.Steps || (s.LogFrequency > 0 && s.step%s.LogFrequency == 0)) {
		s.PrintUpdate()
	}
	if s.step == s.Steps || (s.LogFrequency > 0 && s.step%s.LogFrequency == 0) {
		E := s.grid.Electric()
		if utils.IsNan(E[0]) || utils.IsNan(E[1]) {
			err = fmt.Errorf("%w: fields diverged at step %d", types.ErrNonPhysicalParameter, s.step)
		}
	}
	if s.step >= s.Steps {
		s.state = Finalized
		if s.Verbose && err == nil {
			s.PrintFinal()
		}
	}
	return
}

/*
Run steps until the simulation finalizes or ctx is cancelled. A cancelled
run stops between two steps, leaving fields and accumulators consistent, and
can be resumed with another Run.
*/
func (s *Simulation) Run(ctx context.Context) (err error) {
	for s.state == Stepping {
		if err = s.Step(ctx); err != nil {
			return
		}
	}
	if s.state == Configuring {
		err = fmt.Errorf("%w: call Start before running", types.ErrNotStarted)
	}
	return
}

// StepsTaken is the number of completed cycles.
func (s *Simulation) StepsTaken() int { return s.step }

func (s *Simulation) Frequencies() extraction.FrequencyVector { return s.frequencies }

func (s *Simulation) Grid() *Yee3D.SplitFieldGrid { return s.grid }

func (s *Simulation) Snapshot() (snap *Yee3D.Snapshot, err error) {
	if s.state == Configuring {
		return nil, fmt.Errorf("%w: no fields before Start", types.ErrNotStarted)
	}
	return s.grid.Snapshot(), nil
}

// SchemeOrders is the lowest interpolation order used at each detector.
func (s *Simulation) SchemeOrders() (orders []int, err error) {
	if s.state == Configuring {
		return nil, fmt.Errorf("%w: schemes are chosen at Start", types.ErrNotStarted)
	}
	return append([]int(nil), s.orders...), nil
}

/*
Results returns the extracted phasors per detector and frequency, detector
major. Before the last step the values are partial and not converged.
*/
func (s *Simulation) Results() (results []Result, err error) {
	if s.state == Configuring {
		return nil, fmt.Errorf("%w: no results before Start", types.ErrNotStarted)
	}
	if s.eExt == nil {
		return
	}
	var (
		ep = s.eExt.Extract()
		hp = s.hExt.Extract()
	)
	for d, det := range s.detectors {
		for f := range ep {
			r := Result{Detector: det.Name, Omega: ep[f].Omega}
			for c := 0; c < 3; c++ {
				r.E[c] = ep[f].Values[3*d+c]
				r.H[c] = hp[f].Values[3*d+c]
			}
			results = append(results, r)
		}
	}
	return
}
