package tensor

import "fmt"

// Element is the set of Go types a tensor can hold.
type Element interface {
	~float32 | ~int32 | ~uint8
}

// Accessor2 is a bounds-checked view of a 2D host tensor.
type Accessor2[T Element] struct {
	data []T
	rows int
	cols int
}

// At returns element (i, j).
func (a Accessor2[T]) At(i, j int) T {
	a.check(i, j)
	return a.data[i*a.cols+j]
}

// Set writes element (i, j).
func (a Accessor2[T]) Set(i, j int, v T) {
	a.check(i, j)
	a.data[i*a.cols+j] = v
}

// Row returns row i as a slice aliasing the tensor.
func (a Accessor2[T]) Row(i int) []T {
	if i < 0 || i >= a.rows {
		panic(fmt.Sprintf("tensor: row %d out of range [0,%d)", i, a.rows))
	}
	return a.data[i*a.cols : (i+1)*a.cols]
}

// Rows returns the first dimension.
func (a Accessor2[T]) Rows() int { return a.rows }

// Cols returns the second dimension.
func (a Accessor2[T]) Cols() int { return a.cols }

func (a Accessor2[T]) check(i, j int) {
	if i < 0 || i >= a.rows || j < 0 || j >= a.cols {
		panic(fmt.Sprintf("tensor: index (%d,%d) out of range [%d,%d]", i, j, a.rows, a.cols))
	}
}

// Float32Accessor2D returns a 2D accessor over a host float32 tensor.
func (t Tensor) Float32Accessor2D() Accessor2[float32] {
	t.must2D()
	return Accessor2[float32]{data: t.Float32s(), rows: t.shape[0], cols: t.shape[1]}
}

// Int32Accessor2D returns a 2D accessor over a host int32 tensor.
func (t Tensor) Int32Accessor2D() Accessor2[int32] {
	t.must2D()
	return Accessor2[int32]{data: t.Int32s(), rows: t.shape[0], cols: t.shape[1]}
}

// Uint8Accessor2D returns a 2D accessor over a host uint8 tensor.
func (t Tensor) Uint8Accessor2D() Accessor2[uint8] {
	t.must2D()
	return Accessor2[uint8]{data: t.Uint8s(), rows: t.shape[0], cols: t.shape[1]}
}

func (t Tensor) must2D() {
	t.mustValid()
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: 2D accessor on shape %v", t.shape))
	}
}
