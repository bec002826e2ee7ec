package utils

import (
	"math"
)

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 4 || pp < -4 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	}
	if flipped {
		y = 1. / y
	}
	return
}

// RaisedCosineRamp rises smoothly from 0 at t=0 to 1 at t=width.
func RaisedCosineRamp(t, width float64) float64 {
	switch {
	case width <= 0 || t >= width:
		return 1
	case t <= 0:
		return 0
	}
	return 0.5 * (1 - math.Cos(math.Pi*t/width))
}

func NearlyEqual(a, b, tol float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}
