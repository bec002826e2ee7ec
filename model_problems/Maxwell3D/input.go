package Maxwell3D

import (
	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/extraction"
	"github.com/notargets/gofdtd/types"
)

// NewFromInput builds a Simulation in the Configuring state from parsed
// input parameters.
func NewFromInput(ip *InputParameters.InputParameters3D) (s *Simulation, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	dims := types.IJK{I: ip.Grid[0], J: ip.Grid[1], K: ip.Grid[2]}
	s = NewSimulation(dims, ip.Spacing[0], ip.Spacing[1], ip.Spacing[2], ip.Steps)
	s.Title = ip.Title
	if ip.Courant != 0 {
		s.Courant = ip.Courant
	}
	s.DT = ip.TimeStep
	s.MaxOrder = ip.SchemeOrder
	if ip.LogFrequency > 0 {
		s.LogFrequency = ip.LogFrequency
	}
	layers, err := ip.ExpandLayers(dims.K)
	if err != nil {
		return nil, err
	}
	if len(layers) != 0 {
		_ = s.SetLayers(layers...)
	}
	for n, b := range ip.Boundaries() {
		if err = s.SetBoundary(types.AxialDirection(n), b); err != nil {
			return nil, err
		}
	}
	if !ip.Absorber.IsEmpty() {
		_ = s.SetAbsorber(ip.Absorber)
	}
	for _, ss := range ip.Sources {
		var src Source
		if src, err = sourceFromSpec(ss); err != nil {
			return nil, err
		}
		_ = s.AddSource(src)
	}
	for _, ds := range ip.Detectors {
		_ = s.AddDetector(Detector{Name: ds.Name, I: ds.Node[0], J: ds.Node[1], K: ds.Node[2]})
	}
	omegas := ip.Frequencies
	if fr := ip.FrequencyRange; fr.N > 0 {
		span := extraction.Linspace(fr.Min, fr.Max, fr.N)
		omegas = append(extraction.FrequencyVector(omegas), span...).Unique()
	}
	if len(omegas) != 0 {
		if err = s.SetFrequencies(omegas...); err != nil {
			return nil, err
		}
	}
	return
}

func sourceFromSpec(ss InputParameters.SourceSpec) (src Source, err error) {
	if src.Type, err = NewSourceType(ss.Type); err != nil {
		return
	}
	if src.Component, err = types.NewFieldComponent(ss.Component); err != nil {
		return
	}
	src.I, src.J, src.K = ss.Node[0], ss.Node[1], ss.Node[2]
	src.Amplitude = ss.Amplitude
	src.Omega = ss.Omega
	src.Phase = ss.Phase
	src.Delay = ss.Delay
	src.Width = ss.Width
	src.Step = ss.Step
	return
}
