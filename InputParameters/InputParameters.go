package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofdtd/materials"
	"github.com/notargets/gofdtd/types"
)

// LayerRun is a material repeated over Thickness consecutive k-slices.
type LayerRun struct {
	Thickness int `json:"Thickness"`
	materials.Layer
}

// BoundarySpec is one transverse axis; an empty Type is PEC.
type BoundarySpec struct {
	Type  string  `json:"Type"`
	Bloch float64 `json:"Bloch"`
}

// Boundaries holds the x and y axes. The keys avoid the bare y, which YAML
// reads as a boolean.
type Boundaries struct {
	XAxis BoundarySpec `json:"XAxis"`
	YAxis BoundarySpec `json:"YAxis"`
}

// FrequencyRange spans N frequencies from Min to Max inclusive.
type FrequencyRange struct {
	Min float64 `json:"Min"`
	Max float64 `json:"Max"`
	N   int     `json:"N"`
}

type SourceSpec struct {
	Type      string  `json:"Type"`      // impulse, sinusoid, gaussian
	Component string  `json:"Component"` // Ex ... Hz
	Node      [3]int  `json:"Node"`
	Amplitude float64 `json:"Amplitude"`
	Omega     float64 `json:"Omega"`
	Phase     float64 `json:"Phase"`
	Delay     float64 `json:"Delay"`
	Width     float64 `json:"Width"`
	Step      int     `json:"Step"`
}

type DetectorSpec struct {
	Name string `json:"Name"`
	Node [3]int `json:"Node"`
}

// Parameters obtained from the YAML input file
type InputParameters3D struct {
	Title          string             `json:"Title"`
	Grid           [3]int             `json:"Grid"`
	Spacing        [3]float64         `json:"Spacing"`
	Courant        float64            `json:"Courant"`
	TimeStep       float64            `json:"TimeStep"`
	Steps          int                `json:"Steps"`
	SchemeOrder    int                `json:"SchemeOrder"`
	LogFrequency   int                `json:"LogFrequency"`
	Frequencies    []float64          `json:"Frequencies"`
	FrequencyRange FrequencyRange     `json:"FrequencyRange"` // Appended to Frequencies
	BCs            Boundaries         `json:"BCs"`
	Absorber       materials.Absorber `json:"Absorber"`
	Layers         []LayerRun         `json:"Layers"`
	Sources        []SourceSpec       `json:"Sources"`
	Detectors      []DetectorSpec     `json:"Detectors"`
}

func (ip *InputParameters3D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate checks the shape of the input; material values are checked when
// the simulation starts.
func (ip *InputParameters3D) Validate() (err error) {
	for n, d := range ip.Grid {
		if d < 1 {
			return fmt.Errorf("%w: Grid[%d] = %d", types.ErrDimensionMismatch, n, d)
		}
		if ip.Spacing[n] <= 0 {
			return fmt.Errorf("%w: Spacing[%d] = %v", types.ErrNonPhysicalParameter, n, ip.Spacing[n])
		}
	}
	if ip.Steps < 1 {
		return fmt.Errorf("%w: Steps = %d", types.ErrNonPhysicalParameter, ip.Steps)
	}
	if ip.Courant < 0 || ip.Courant > 1 || ip.TimeStep < 0 {
		return fmt.Errorf("%w: Courant = %v, TimeStep = %v", types.ErrNonPhysicalParameter, ip.Courant, ip.TimeStep)
	}
	for _, spec := range []BoundarySpec{ip.BCs.XAxis, ip.BCs.YAxis} {
		if _, err = spec.flag(); err != nil {
			return
		}
	}
	if fr := ip.FrequencyRange; fr.N < 0 || (fr.N > 0 && (fr.Min < 0 || fr.Max < fr.Min)) {
		return fmt.Errorf("%w: frequency range %+v", types.ErrNonPhysicalParameter, fr)
	}
	return
}

func (spec BoundarySpec) flag() (types.BCFLAG, error) {
	if spec.Type == "" {
		return types.BC_PEC, nil
	}
	return types.NewBCFLAG(spec.Type)
}

// ExpandLayers unrolls the layer runs into one layer per k-slice. An input
// without layers returns nil; otherwise the thicknesses must add up to K.
func (ip *InputParameters3D) ExpandLayers(K int) (layers []materials.Layer, err error) {
	if len(ip.Layers) == 0 {
		return
	}
	for n, lr := range ip.Layers {
		if lr.Thickness < 1 {
			return nil, fmt.Errorf("%w: layer run %d has thickness %d", types.ErrDimensionMismatch, n, lr.Thickness)
		}
		for i := 0; i < lr.Thickness; i++ {
			layers = append(layers, lr.Layer)
		}
	}
	if len(layers) != K {
		return nil, fmt.Errorf("%w: layer thicknesses add up to %d, grid has %d k-slices",
			types.ErrDimensionMismatch, len(layers), K)
	}
	return
}

// Boundaries converts a validated BCs section; axes not mentioned stay PEC.
func (ip *InputParameters3D) Boundaries() (bcs [2]types.Boundary) {
	for n, spec := range []BoundarySpec{ip.BCs.XAxis, ip.BCs.YAxis} {
		bc, err := spec.flag()
		if err != nil {
			panic(err)
		}
		bcs[n] = types.Boundary{Type: bc, Bloch: spec.Bloch}
	}
	return
}

func (ip *InputParameters3D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%v\t\t= Grid\n", ip.Grid)
	fmt.Printf("%v\t= Spacing\n", ip.Spacing)
	fmt.Printf("%8.5f\t\t= Courant\n", ip.Courant)
	fmt.Printf("%8.5f\t\t= TimeStep\n", ip.TimeStep)
	fmt.Printf("[%d]\t\t\t= Steps\n", ip.Steps)
	fmt.Printf("[%d]\t\t\t= Scheme Order\n", ip.SchemeOrder)
	fmt.Printf("%v\t= Frequencies\n", ip.Frequencies)
	if ip.FrequencyRange.N > 0 {
		fmt.Printf("%+v\t= Frequency Range\n", ip.FrequencyRange)
	}
	fmt.Printf("BCs[XAxis] = %+v\n", ip.BCs.XAxis)
	fmt.Printf("BCs[YAxis] = %+v\n", ip.BCs.YAxis)
	if !ip.Absorber.IsEmpty() {
		fmt.Printf("%+v\t= Absorber\n", ip.Absorber)
	}
	for n, lr := range ip.Layers {
		fmt.Printf("Layers[%d] = %d x %+v\n", n, lr.Thickness, lr.Layer)
	}
	for n, s := range ip.Sources {
		fmt.Printf("Sources[%d] = %+v\n", n, s)
	}
	for n, d := range ip.Detectors {
		fmt.Printf("Detectors[%d] = %+v\n", n, d)
	}
}
