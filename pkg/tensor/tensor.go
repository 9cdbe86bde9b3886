// Package tensor provides an n-dimensional typed buffer that lives either
// in host memory or on an accelerator backend.
//
// Tensors are always dense and row-major. Copying a Tensor value shares
// its storage; use Clone for an independent copy. Misuse (wrong dtype,
// out-of-range index, host access to accelerator memory) panics.
package tensor

import (
	"fmt"
	"unsafe"
)

// Tensor is a typed n-dimensional array. The zero value is invalid.
type Tensor struct {
	shape  []int
	dtype  DType
	device Device
	host   []byte
	buf    Buffer
}

// Empty allocates an uninitialized tensor. Host memory is zeroed.
func Empty(shape []int, device Device, dtype DType) Tensor {
	if dtype.Size() == 0 {
		panic(fmt.Sprintf("tensor: cannot allocate dtype %v", dtype))
	}
	n := numel(shape)
	t := Tensor{
		shape:  append([]int(nil), shape...),
		dtype:  dtype,
		device: device,
	}
	nbytes := n * dtype.Size()
	if device.IsAccelerator() {
		t.buf = device.backend.Alloc(nbytes)
	} else {
		t.host = allocHost(nbytes)
	}
	return t
}

// Zeros allocates a zero-filled tensor.
func Zeros(shape []int, device Device, dtype DType) Tensor {
	h := Empty(shape, CPU, dtype)
	if device.IsAccelerator() {
		return h.To(device)
	}
	return h
}

// Ones allocates a tensor filled with ones.
func Ones(shape []int, device Device, dtype DType) Tensor {
	h := Empty(shape, CPU, dtype)
	switch dtype {
	case Float32:
		s := h.Float32s()
		for i := range s {
			s[i] = 1
		}
	case Int32:
		s := h.Int32s()
		for i := range s {
			s[i] = 1
		}
	case UInt8:
		s := h.Uint8s()
		for i := range s {
			s[i] = 1
		}
	}
	if device.IsAccelerator() {
		return h.To(device)
	}
	return h
}

// FromFloat32 copies data into a new host float32 tensor of the given shape.
func FromFloat32(data []float32, shape ...int) Tensor {
	t := Empty(shape, CPU, Float32)
	if len(data) != t.Numel() {
		panic(fmt.Sprintf("tensor: %d values for shape %v", len(data), shape))
	}
	copy(t.Float32s(), data)
	return t
}

// FromInt32 copies data into a new host int32 tensor of the given shape.
func FromInt32(data []int32, shape ...int) Tensor {
	t := Empty(shape, CPU, Int32)
	if len(data) != t.Numel() {
		panic(fmt.Sprintf("tensor: %d values for shape %v", len(data), shape))
	}
	copy(t.Int32s(), data)
	return t
}

// IsValid reports whether the tensor has been allocated.
func (t Tensor) IsValid() bool {
	return t.dtype != Invalid
}

// Shape returns a copy of the tensor's dimensions.
func (t Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// NDim returns the number of dimensions.
func (t Tensor) NDim() int {
	return len(t.shape)
}

// Dim returns the size of dimension i.
func (t Tensor) Dim(i int) int {
	if i < 0 || i >= len(t.shape) {
		panic(fmt.Sprintf("tensor: dim %d out of range for shape %v", i, t.shape))
	}
	return t.shape[i]
}

// DType returns the element type.
func (t Tensor) DType() DType {
	return t.dtype
}

// Device returns where the tensor's memory lives.
func (t Tensor) Device() Device {
	return t.device
}

// Numel returns the total element count. Invalid tensors have zero.
func (t Tensor) Numel() int {
	if !t.IsValid() {
		return 0
	}
	return numel(t.shape)
}

// IsContiguous always reports true; tensors here are dense row-major.
func (t Tensor) IsContiguous() bool {
	return true
}

// Contiguous returns a row-major tensor with the same contents.
func (t Tensor) Contiguous() Tensor {
	return t
}

// To returns the tensor on device. A tensor already on device is returned
// as-is; otherwise the contents are copied.
func (t Tensor) To(device Device) Tensor {
	t.mustValid()
	if t.device == device {
		return t
	}

	nbytes := t.Numel() * t.dtype.Size()
	src := t.host
	if t.device.IsAccelerator() {
		src = allocHost(nbytes)
		t.buf.Download(src)
	}

	out := Tensor{
		shape:  append([]int(nil), t.shape...),
		dtype:  t.dtype,
		device: device,
	}
	if device.IsAccelerator() {
		out.buf = device.backend.Alloc(nbytes)
		out.buf.Upload(src)
	} else {
		out.host = src
	}
	return out
}

// Clone returns an independent copy on the same device.
func (t Tensor) Clone() Tensor {
	t.mustValid()
	if t.device.IsAccelerator() {
		return t.To(CPU).To(t.device)
	}
	out := Empty(t.shape, CPU, t.dtype)
	copy(out.host, t.host)
	return out
}

// Release frees accelerator memory. It is a no-op for host tensors.
func (t Tensor) Release() {
	if t.buf != nil {
		t.buf.Release()
	}
}

// Buffer returns the accelerator storage, or nil for host tensors.
// Backends use it to hand their own buffers to native APIs.
func (t Tensor) Buffer() Buffer {
	return t.buf
}

// Float32s returns the host storage as a flat float32 slice.
func (t Tensor) Float32s() []float32 {
	t.mustHost(Float32)
	if len(t.host) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.host[0])), len(t.host)/4)
}

// Int32s returns the host storage as a flat int32 slice.
func (t Tensor) Int32s() []int32 {
	t.mustHost(Int32)
	if len(t.host) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.host[0])), len(t.host)/4)
}

// Uint8s returns the host storage as a flat byte slice.
func (t Tensor) Uint8s() []uint8 {
	t.mustHost(UInt8)
	return t.host
}

// Bytes returns the raw host storage regardless of dtype.
func (t Tensor) Bytes() []byte {
	t.mustValid()
	if t.device.IsAccelerator() {
		panic("tensor: host access to accelerator tensor")
	}
	return t.host
}

// String describes the tensor without its contents.
func (t Tensor) String() string {
	if !t.IsValid() {
		return "Tensor(invalid)"
	}
	return fmt.Sprintf("Tensor(shape=%v, dtype=%v, device=%v)", t.shape, t.dtype, t.device)
}

func (t Tensor) mustValid() {
	if !t.IsValid() {
		panic("tensor: use of invalid tensor")
	}
}

func (t Tensor) mustHost(dtype DType) {
	t.mustValid()
	if t.device.IsAccelerator() {
		panic(fmt.Sprintf("tensor: host access to tensor on %v", t.device))
	}
	if t.dtype != dtype {
		panic(fmt.Sprintf("tensor: %v access to %v tensor", dtype, t.dtype))
	}
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			panic(fmt.Sprintf("tensor: negative dimension in shape %v", shape))
		}
		n *= d
	}
	return n
}

// allocHost returns zeroed host memory aligned for 4-byte element views.
func allocHost(nbytes int) []byte {
	if nbytes == 0 {
		return []byte{}
	}
	words := make([]uint64, (nbytes+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), nbytes)
}
