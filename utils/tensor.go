package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofdtd/types"
)

/*
Tensor3D is a dense I x J x K array of samples. Storage is flat with i
fastest and k slowest, so a range of k indices (a slab) is contiguous and can
be handed to one worker.
*/
type Tensor3D struct {
	Dims types.IJK
	data []float64
}

func NewTensor3D(dims types.IJK) (T Tensor3D) {
	if dims.I <= 0 || dims.J <= 0 || dims.K <= 0 {
		panic(fmt.Errorf("tensor dimensions must be positive, have %s", dims))
	}
	T = Tensor3D{
		Dims: dims,
		data: make([]float64, dims.Cells()),
	}
	return
}

func (T Tensor3D) Index(i, j, k int) int {
	return i + T.Dims.I*(j+T.Dims.J*k)
}

func (T Tensor3D) IJK(ind int) (i, j, k int) {
	var (
		ni, nj = T.Dims.I, T.Dims.J
	)
	i = ind % ni
	j = (ind / ni) % nj
	k = ind / (ni * nj)
	return
}

func (T Tensor3D) At(i, j, k int) float64 { return T.data[T.Index(i, j, k)] }

func (T Tensor3D) Set(i, j, k int, val float64) { T.data[T.Index(i, j, k)] = val }

func (T Tensor3D) Add(i, j, k int, val float64) { T.data[T.Index(i, j, k)] += val }

// Data exposes the backing slice; writers must own the tensor.
func (T Tensor3D) Data() []float64 { return T.data }

// SlabRange returns the flat index range covering k in [kMin, kMax).
func (T Tensor3D) SlabRange(kMin, kMax int) (begin, end int) {
	var (
		slab = T.Dims.I * T.Dims.J
	)
	return kMin * slab, kMax * slab
}

func (T Tensor3D) Zero() {
	for i := range T.data {
		T.data[i] = 0
	}
}

func (T Tensor3D) Copy() (R Tensor3D) {
	R = NewTensor3D(T.Dims)
	copy(R.data, T.data)
	return
}

// Frobenius is sqrt(sum |t[k][j][i]|^2).
func (T Tensor3D) Frobenius() float64 { return floats.Norm(T.data, 2) }

func (T Tensor3D) MaxAbs() float64 { return floats.Norm(T.data, math.Inf(1)) }

// Sum returns the elementwise sum of the receiver and A as a new tensor.
func (T Tensor3D) Sum(A Tensor3D) (R Tensor3D) {
	if A.Dims != T.Dims {
		panic(fmt.Errorf("sum of tensors of different shape: %s and %s", T.Dims, A.Dims))
	}
	R = NewTensor3D(T.Dims)
	floats.AddTo(R.data, T.data, A.data)
	return
}

// XYZTensor3D groups the three Cartesian components of one vector field.
type XYZTensor3D struct {
	X, Y, Z Tensor3D
}

func NewXYZTensor3D(dims types.IJK) (T XYZTensor3D) {
	return XYZTensor3D{
		X: NewTensor3D(dims),
		Y: NewTensor3D(dims),
		Z: NewTensor3D(dims),
	}
}

func (T XYZTensor3D) Component(d types.AxialDirection) Tensor3D {
	switch d {
	case types.X:
		return T.X
	case types.Y:
		return T.Y
	case types.Z:
		return T.Z
	}
	panic(fmt.Errorf("have no element %s", d))
}

func (T XYZTensor3D) Zero() {
	T.X.Zero()
	T.Y.Zero()
	T.Z.Zero()
}
