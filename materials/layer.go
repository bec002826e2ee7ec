package materials

import (
	"fmt"
	"math"

	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

/*
Pole is one Lorentz resonance of the susceptibility

	chi(w) = DeltaEps * Omega0^2 / (Omega0^2 - w^2 + i*Gamma*w)

realised in the time domain through the polarisation current J = P':

	J'' + Gamma J' + Omega0^2 J = DeltaEps Omega0^2 E'

The zero Pole is the degenerate pole carried by non-dispersive layers.
*/
type Pole struct {
	Omega0   float64 `json:"Omega0"`   // Resonance (angular) frequency
	Gamma    float64 `json:"Gamma"`    // Damping
	DeltaEps float64 `json:"DeltaEps"` // Oscillator strength
}

// Layer holds the material of one depth slice.
type Layer struct {
	EpsInf float64 `json:"Epsilon"` // High frequency relative permittivity
	Mu     float64 `json:"Mu"`      // Relative permeability
	Sigma  float64 `json:"Sigma"`   // Electric conductivity
	SigmaM float64 `json:"SigmaM"`  // Magnetic conductivity
	Poles  []Pole  `json:"Poles"`
}

func Vacuum() Layer { return Layer{EpsInf: 1, Mu: 1} }

func (l Layer) IsDispersive(nearZeroTolerance float64) bool {
	for _, p := range l.Poles {
		if math.Abs(p.DeltaEps*p.Omega0*p.Omega0) > nearZeroTolerance {
			return true
		}
	}
	return false
}

// StaticPermittivity is the w -> 0 limit EpsInf + sum(DeltaEps).
func (l Layer) StaticPermittivity() (eps float64) {
	eps = l.EpsInf
	for _, p := range l.Poles {
		eps += p.DeltaEps
	}
	return
}

// Permittivity evaluates the complex relative permittivity at angular
// frequency w, for phasors X with field = Re(X exp(+iwt)) as produced by the
// extraction package.
func (l Layer) Permittivity(w float64) (eps complex128) {
	eps = complex(l.EpsInf, 0)
	for _, p := range l.Poles {
		w02 := p.Omega0 * p.Omega0
		if w02 == 0 {
			continue
		}
		eps += complex(p.DeltaEps*w02, 0) / complex(w02-w*w, p.Gamma*w)
	}
	if l.Sigma != 0 && w != 0 {
		eps -= complex(0, l.Sigma/w)
	}
	return
}

// Validate checks the layer against a time step. The recurrence for a pole
// has characteristic roots inside the unit circle only for Gamma >= 0 and
// Omega0*dt < 2; with the field solved jointly with the currents nothing
// tighter than the Courant limit of EpsInf applies.
func (l Layer) Validate(dt float64) (err error) {
	switch {
	case dt <= 0 || math.IsNaN(dt):
		err = fmt.Errorf("%w: time step must be positive, have %v", types.ErrNonPhysicalParameter, dt)
	case l.EpsInf <= 0:
		err = fmt.Errorf("%w: permittivity must be positive, have %v", types.ErrNonPhysicalParameter, l.EpsInf)
	case l.Mu <= 0:
		err = fmt.Errorf("%w: permeability must be positive, have %v", types.ErrNonPhysicalParameter, l.Mu)
	case l.Sigma < 0 || l.SigmaM < 0:
		err = fmt.Errorf("%w: conductivities must be non-negative, have %v, %v",
			types.ErrNonPhysicalParameter, l.Sigma, l.SigmaM)
	}
	if err != nil {
		return
	}
	for n, p := range l.Poles {
		switch {
		case p.Omega0 < 0 || p.Gamma < 0 || p.DeltaEps < 0:
			err = fmt.Errorf("%w: pole %d has negative parameters %+v", types.ErrNonPhysicalParameter, n, p)
		case p.Omega0*dt >= 2:
			err = fmt.Errorf("%w: pole %d unstable, Omega0*dt = %8.5f >= 2 (dt must be < %8.5f)",
				types.ErrNonPhysicalParameter, n, p.Omega0*dt, 2/p.Omega0)
		}
		if err != nil {
			return
		}
	}
	return
}

/*
Coefficients are the update multipliers of one layer for one time step. The
polarisation current of each pole is advanced from the centred difference of
E, and E is solved jointly with it:

	J_next = Alpha J + Beta J_prev + Gamma (E_next - E_prev) / (2 dt)   (per pole)
	E_next = Ca E + Cc E_prev + Cb (dH - sum((1+Alpha) J + Beta J_prev) / 2)
	H_next = Da H + Db dE
*/
type Coefficients struct {
	DT                 float64
	Ca, Cb, Cc         float64
	Da, Db             float64
	Alpha, Beta, Gamma []float64

	EpsInf, Mu    float64
	Sigma, SigmaM float64
	GammaSum      float64
}

/*
Electric returns Ca, Cc and Cb for an E half that carries an extra loss rate
and stretch, as inside an absorbing boundary. The rate is scaled by EpsInf
and the stretch multiplies EpsInf, which leaves the layer impedance alone.
*/
func (c Coefficients) Electric(rate, kappa float64) (ca, cc, cb float64) {
	var (
		eps  = c.EpsInf * kappa
		loss = (c.Sigma + c.EpsInf*rate) * c.DT / 2
		g4   = c.GammaSum / 4
		den  = eps + loss + g4
	)
	return (eps - loss) / den, g4 / den, c.DT / den
}

// Magnetic is Electric for an H half, with Mu and SigmaM.
func (c Coefficients) Magnetic(rate, kappa float64) (da, db float64) {
	var (
		mu   = c.Mu * kappa
		loss = (c.SigmaM + c.Mu*rate) * c.DT / 2
		den  = mu + loss
	)
	return (mu - loss) / den, c.DT / den
}

func (l Layer) coefficients(dt float64, nPoles int) (c Coefficients) {
	c = Coefficients{
		DT:     dt,
		Alpha:  make([]float64, nPoles),
		Beta:   make([]float64, nPoles),
		Gamma:  make([]float64, nPoles),
		EpsInf: l.EpsInf,
		Mu:     l.Mu,
		Sigma:  l.Sigma,
		SigmaM: l.SigmaM,
	}
	for n := 0; n < nPoles; n++ {
		var p Pole
		if n < len(l.Poles) {
			p = l.Poles[n]
		}
		var (
			g    = p.Gamma * dt / 2
			w2t2 = utils.POW(p.Omega0*dt, 2)
		)
		c.Alpha[n] = (2 - w2t2) / (1 + g)
		c.Beta[n] = (g - 1) / (1 + g)
		c.Gamma[n] = p.DeltaEps * w2t2 / (1 + g)
		c.GammaSum += c.Gamma[n]
	}
	c.Ca, c.Cc, c.Cb = c.Electric(0, 1)
	c.Da, c.Db = c.Magnetic(0, 1)
	return
}
