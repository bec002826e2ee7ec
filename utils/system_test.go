package utils

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gofdtd/types"
)

func TestSystemAndMath(t *testing.T) {
	{
		T := NewTensor3D(types.IJK{I: 2, J: 2, K: 2})
		assert.False(t, IsNan(T))
		T.Set(1, 1, 1, math.Inf(-1))
		assert.True(t, IsNan(T))
		assert.True(t, IsNan([]complex128{0, cmplx.NaN()}))
		assert.False(t, IsNan(1.))
		assert.NotEmpty(t, GetMemUsage())
	}
	{
		for p := -6; p <= 6; p++ {
			assert.InDelta(t, math.Pow(1.3, float64(p)), POW(1.3, p), 1.e-12)
		}
		assert.Equal(t, 0., RaisedCosineRamp(-1, 10))
		assert.InDelta(t, 0.5, RaisedCosineRamp(5, 10), 1.e-15)
		assert.Equal(t, 1., RaisedCosineRamp(11, 10))
		assert.Equal(t, 1., RaisedCosineRamp(0, 0))
		assert.True(t, NearlyEqual(1e6, 1e6+1e-4, 1e-9))
		assert.False(t, NearlyEqual(1, 1.1, 1e-3))
	}
}
