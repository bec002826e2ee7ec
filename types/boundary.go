package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_PEC      BCFLAG = iota // Tangential E vanishes, samples outside the grid read as zero
	BC_Periodic               // Wrapped neighbours, multiplied by the Bloch factor
)

var BCNameMap = map[string]BCFLAG{
	"pec":      BC_PEC,
	"wall":     BC_PEC,
	"metal":    BC_PEC,
	"periodic": BC_Periodic,
	"bloch":    BC_Periodic,
}

func (bc BCFLAG) String() string {
	switch bc {
	case BC_PEC:
		return "PEC"
	case BC_Periodic:
		return "Periodic"
	}
	return fmt.Sprintf("BCFLAG(%d)", uint8(bc))
}

func NewBCFLAG(name string) (bc BCFLAG, err error) {
	var ok bool
	if bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown boundary type %q", name)
	}
	return
}

// Boundary describes the treatment of one transverse axis. The z axis is the
// layer (depth) axis and is always PEC.
type Boundary struct {
	Type  BCFLAG
	Bloch float64 // +1 periodic, -1 anti-periodic; ignored for PEC
}

func (b Boundary) Validate(axis AxialDirection) (err error) {
	if b.Type == BC_Periodic && b.Bloch != 1 && b.Bloch != -1 {
		err = fmt.Errorf("%w: Bloch factor on the %s axis must be +1 or -1, have %v",
			ErrNonPhysicalParameter, axis, b.Bloch)
	}
	return
}
