package types

import (
	"fmt"
	"strings"
)

type AxialDirection uint8

const (
	X AxialDirection = iota
	Y
	Z
)

func (d AxialDirection) String() string {
	switch d {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("AxialDirection(%d)", uint8(d))
}

// FieldComponent indexes the six physical components in the order used by
// every container in the module: 0 = Ex, 1 = Ey, 2 = Ez, 3 = Hx, 4 = Hy, 5 = Hz.
type FieldComponent uint8

const (
	Ex FieldComponent = iota
	Ey
	Ez
	Hx
	Hy
	Hz
)

var (
	AllComponents      = []FieldComponent{Ex, Ey, Ez, Hx, Hy, Hz}
	ElectricComponents = []FieldComponent{Ex, Ey, Ez}
	MagneticComponents = []FieldComponent{Hx, Hy, Hz}
	componentNames     = []string{"Ex", "Ey", "Ez", "Hx", "Hy", "Hz"}
)

func (fc FieldComponent) String() string {
	if int(fc) < len(componentNames) {
		return componentNames[fc]
	}
	return fmt.Sprintf("FieldComponent(%d)", uint8(fc))
}

func NewFieldComponent(name string) (fc FieldComponent, err error) {
	for i, n := range componentNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return FieldComponent(i), nil
		}
	}
	err = fmt.Errorf("unknown field component %q", name)
	return
}

func (fc FieldComponent) IsElectric() bool { return fc <= Ez }

func (fc FieldComponent) Axis() AxialDirection { return AxialDirection(fc % 3) }

/*
SplitHalf names the two additive halves of a component. The first half of a
component is driven by the derivative along Derivative(First), the second by
the remaining transverse axis:

	Ex = Exy + Exz, Ey = Eyz + Eyx, Ez = Ezx + Ezy

and identically for H.
*/
type SplitHalf uint8

const (
	First SplitHalf = iota
	Second
)

var derivativeAxes = [3][2]AxialDirection{
	{Y, Z}, // x components
	{Z, X}, // y components
	{X, Y}, // z components
}

// Derivative returns the axis whose spatial derivative updates this half.
func (fc FieldComponent) Derivative(h SplitHalf) AxialDirection {
	return derivativeAxes[fc.Axis()][h]
}

// HalfDrivenBy is the inverse of Derivative.
func (fc FieldComponent) HalfDrivenBy(axis AxialDirection) (h SplitHalf, ok bool) {
	for _, h = range []SplitHalf{First, Second} {
		if fc.Derivative(h) == axis {
			return h, true
		}
	}
	return
}

func (fc FieldComponent) HalfName(h SplitHalf) string {
	return fc.String() + fc.Derivative(h).String()
}

/*
Staggered returns the axes along which the component is offset by half a
cell from the node (i,j,k):

	Ex (i+½,j,k)   Ey (i,j+½,k)   Ez (i,j,k+½)
	Hx (i,j+½,k+½) Hy (i+½,j,k+½) Hz (i+½,j+½,k)
*/
func (fc FieldComponent) Staggered() (axes []AxialDirection) {
	if fc.IsElectric() {
		return []AxialDirection{fc.Axis()}
	}
	d := derivativeAxes[fc.Axis()]
	return []AxialDirection{d[0], d[1]}
}

type IJK struct {
	I, J, K int
}

func (d IJK) Cells() int { return d.I * d.J * d.K }

func (d IJK) Along(axis AxialDirection) int {
	switch axis {
	case X:
		return d.I
	case Y:
		return d.J
	}
	return d.K
}

func (d IJK) Contains(i, j, k int) bool {
	return i >= 0 && i < d.I && j >= 0 && j < d.J && k >= 0 && k < d.K
}

func (d IJK) String() string { return fmt.Sprintf("%dx%dx%d", d.I, d.J, d.K) }
