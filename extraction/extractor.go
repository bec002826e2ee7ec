package extraction

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

// Work (frequencies x quantities) above which Accumulate runs in parallel.
const parallelWork = 4096

/*
Phasor is the extracted complex amplitude of every quantity at one angular
frequency. A sampled signal A cos(w t + phi) extracts, over whole periods, to
(A/2) exp(i phi) with the kernel exp(-i w t).
*/
type Phasor struct {
	Omega  float64
	Values []complex128
}

/*
Extractor accumulates a running discrete Fourier transform of NQuantities
real samples at every frequency. Sample n is taken at time
(n + TimeOffset)*DT, the offset carrying the half step staggering of the
sampled field. Steps must arrive as FirstStep, FirstStep+1, ... with no
repeats or gaps.
*/
type Extractor struct {
	Frequencies FrequencyVector
	NQuantities int
	DT          float64
	TimeOffset  float64
	FirstStep   int
	acc         [][]complex128 // [freq][quantity]
	phase       [][]complex128 // [freq][step - FirstStep], precomputed
	next, count int
	pm          *utils.PartitionMap
}

/*
NewExtractor precomputes nSteps phase factors per frequency; steps past the
table are computed as they arrive. procLimit bounds the parallel degree, 0
means one worker per CPU.
*/
func NewExtractor(freqs FrequencyVector, nQuantities int, dt, timeOffset float64,
	firstStep, nSteps, procLimit int) (e *Extractor, err error) {
	switch {
	case nQuantities < 1 || len(freqs) == 0:
		err = fmt.Errorf("%w: need at least one frequency and one quantity, have %d and %d",
			types.ErrDimensionMismatch, len(freqs), nQuantities)
	case dt <= 0 || math.IsNaN(dt):
		err = fmt.Errorf("%w: time step must be positive, have %v", types.ErrNonPhysicalParameter, dt)
	}
	if err != nil {
		return
	}
	if nSteps < 0 {
		nSteps = 0
	}
	e = &Extractor{
		Frequencies: append(FrequencyVector(nil), freqs...),
		NQuantities: nQuantities,
		DT:          dt,
		TimeOffset:  timeOffset,
		FirstStep:   firstStep,
		acc:         make([][]complex128, len(freqs)),
		phase:       make([][]complex128, len(freqs)),
		next:        firstStep,
	}
	for f, w := range e.Frequencies {
		e.acc[f] = make([]complex128, nQuantities)
		e.phase[f] = make([]complex128, nSteps)
		for n := range e.phase[f] {
			e.phase[f][n] = e.kernel(w, firstStep+n)
		}
	}
	if len(freqs)*nQuantities > parallelWork {
		nf := len(freqs)
		e.pm = utils.NewPartitionMap(utils.ParallelDegree(procLimit, nf), nf)
	}
	return
}

func (e *Extractor) kernel(w float64, step int) complex128 {
	t := (float64(step) + e.TimeOffset) * e.DT
	return cmplx.Exp(complex(0, -w*t))
}

func (e *Extractor) phaseAt(f, step int) complex128 {
	if n := step - e.FirstStep; n < len(e.phase[f]) {
		return e.phase[f][n]
	}
	return e.kernel(e.Frequencies[f], step)
}

// NextStep is the only step index Accumulate will accept.
func (e *Extractor) NextStep() int { return e.next }

// Steps is the number of samples accumulated so far.
func (e *Extractor) Steps() int { return e.count }

/*
Accumulate adds one sample per quantity, weighted by the phase of step, into
every frequency. A step other than NextStep is rejected with
ErrPhaseAlignmentViolation and nothing is changed.
*/
func (e *Extractor) Accumulate(samples []float64, step int) (err error) {
	if step != e.next {
		return fmt.Errorf("%w: accumulate called with step %d, expected %d",
			types.ErrPhaseAlignmentViolation, step, e.next)
	}
	if len(samples) != e.NQuantities {
		return fmt.Errorf("%w: have %d samples for %d quantities",
			types.ErrDimensionMismatch, len(samples), e.NQuantities)
	}
	add := func(fMin, fMax int) {
		for f := fMin; f < fMax; f++ {
			ph := e.phaseAt(f, step)
			acc := e.acc[f]
			for q, s := range samples {
				acc[q] += complex(s, 0) * ph
			}
		}
	}
	if e.pm == nil {
		add(0, len(e.Frequencies))
	} else {
		e.pm.Parallel(func(_, fMin, fMax int) { add(fMin, fMax) })
	}
	e.next++
	e.count++
	return
}

/*
Extract returns the accumulators scaled by 1/Steps. It does not change the
extractor, so repeated calls return the same values, and before the first
sample every value is zero.
*/
func (e *Extractor) Extract() (phasors []Phasor) {
	phasors = make([]Phasor, len(e.Frequencies))
	var scale complex128
	if e.count > 0 {
		scale = complex(1/float64(e.count), 0)
	}
	for f, w := range e.Frequencies {
		phasors[f] = Phasor{
			Omega:  w,
			Values: make([]complex128, e.NQuantities),
		}
		for q, a := range e.acc[f] {
			phasors[f].Values[q] = a * scale
		}
	}
	return
}

// Reset clears the accumulators and rewinds to FirstStep.
func (e *Extractor) Reset() {
	for f := range e.acc {
		for q := range e.acc[f] {
			e.acc[f][q] = 0
		}
	}
	e.next, e.count = e.FirstStep, 0
}
