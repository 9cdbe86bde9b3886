package tensor

import (
	"strings"
	"testing"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestZeroValueInvalid(t *testing.T) {
	var tn Tensor
	if tn.IsValid() {
		t.Error("zero Tensor should be invalid")
	}
	if tn.Numel() != 0 {
		t.Errorf("Numel() = %d, want 0", tn.Numel())
	}
	if got := tn.String(); got != "Tensor(invalid)" {
		t.Errorf("String() = %q", got)
	}
}

func TestEmptyShape(t *testing.T) {
	tn := Empty([]int{4, 3}, CPU, Float32)
	if !tn.IsValid() {
		t.Fatal("expected valid tensor")
	}
	if tn.NDim() != 2 || tn.Dim(0) != 4 || tn.Dim(1) != 3 {
		t.Errorf("Shape() = %v, want [4 3]", tn.Shape())
	}
	if tn.Numel() != 12 {
		t.Errorf("Numel() = %d, want 12", tn.Numel())
	}
	if tn.DType() != Float32 {
		t.Errorf("DType() = %v, want float32", tn.DType())
	}
	if tn.Device() != CPU {
		t.Errorf("Device() = %v, want cpu", tn.Device())
	}
	for i, v := range tn.Float32s() {
		if v != 0 {
			t.Fatalf("element %d = %v, want 0", i, v)
		}
	}
}

func TestZeroElementTensorIsValid(t *testing.T) {
	tn := Empty([]int{0, 3}, CPU, Float32)
	if !tn.IsValid() {
		t.Error("zero-element tensor should still be valid")
	}
	if tn.Numel() != 0 {
		t.Errorf("Numel() = %d, want 0", tn.Numel())
	}
	if len(tn.Float32s()) != 0 {
		t.Error("expected empty view")
	}
}

func TestShapeIsCopied(t *testing.T) {
	shape := []int{2, 3}
	tn := Empty(shape, CPU, Int32)
	shape[0] = 99
	got := tn.Shape()
	got[1] = 42
	if tn.Dim(0) != 2 || tn.Dim(1) != 3 {
		t.Errorf("shape aliased caller slice: %v", tn.Shape())
	}
}

func TestOnes(t *testing.T) {
	for _, dt := range []DType{Float32, Int32, UInt8} {
		tn := Ones([]int{2, 2}, CPU, dt)
		switch dt {
		case Float32:
			for _, v := range tn.Float32s() {
				if v != 1 {
					t.Errorf("%v: got %v", dt, v)
				}
			}
		case Int32:
			for _, v := range tn.Int32s() {
				if v != 1 {
					t.Errorf("%v: got %v", dt, v)
				}
			}
		case UInt8:
			for _, v := range tn.Uint8s() {
				if v != 1 {
					t.Errorf("%v: got %v", dt, v)
				}
			}
		}
	}
}

func TestFromFloat32(t *testing.T) {
	tn := FromFloat32([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	acc := tn.Float32Accessor2D()
	if acc.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %v, want 6", acc.At(1, 2))
	}
	if row := acc.Row(0); row[0] != 1 || row[2] != 3 {
		t.Errorf("Row(0) = %v", row)
	}
	mustPanic(t, "wrong count", func() { FromFloat32([]float32{1, 2}, 2, 3) })
}

func TestAccessorBounds(t *testing.T) {
	acc := FromInt32([]int32{0, 1, 2}, 1, 3).Int32Accessor2D()
	acc.Set(0, 1, 7)
	if acc.At(0, 1) != 7 {
		t.Errorf("At(0,1) = %v, want 7", acc.At(0, 1))
	}
	mustPanic(t, "row", func() { acc.At(1, 0) })
	mustPanic(t, "col", func() { acc.At(0, 3) })
	mustPanic(t, "negative", func() { acc.Set(-1, 0, 1) })
}

func TestDTypeMismatchPanics(t *testing.T) {
	tn := Empty([]int{1, 3}, CPU, Int32)
	mustPanic(t, "float view of int32", func() { tn.Float32s() })
	mustPanic(t, "1D accessor", func() { Empty([]int{3}, CPU, Float32).Float32Accessor2D() })
	mustPanic(t, "invalid", func() { Tensor{}.To(CPU) })
}

func TestSameDeviceIsIdentity(t *testing.T) {
	tn := FromFloat32([]float32{1, 2, 3}, 1, 3)
	same := tn.To(CPU)
	same.Float32s()[0] = 9
	if tn.Float32s()[0] != 9 {
		t.Error("To(same device) should share storage")
	}
}

func TestAcceleratorRoundTrip(t *testing.T) {
	sim := NewSimulatedBackend("sim0")
	dev := On(sim)

	host := FromFloat32([]float32{0.5, -1, 3.25, 7}, 2, 2)
	onDev := host.To(dev)
	if onDev.Device() != dev {
		t.Fatalf("Device() = %v, want %v", onDev.Device(), dev)
	}
	if onDev.Device().Residency() != Accelerator {
		t.Error("expected accelerator residency")
	}
	if sim.Uploads() != 1 {
		t.Errorf("Uploads() = %d, want 1", sim.Uploads())
	}

	// Host copy is independent of the device copy.
	host.Float32s()[0] = 100

	back := onDev.To(CPU)
	want := []float32{0.5, -1, 3.25, 7}
	for i, v := range back.Float32s() {
		if v != want[i] {
			t.Errorf("element %d = %v, want %v", i, v, want[i])
		}
	}
	if sim.Downloads() != 1 {
		t.Errorf("Downloads() = %d, want 1", sim.Downloads())
	}

	mustPanic(t, "host access on device", func() { onDev.Float32s() })

	onDev.Release()
	if sim.Live() != 0 {
		t.Errorf("Live() = %d, want 0", sim.Live())
	}
}

func TestAcceleratorToAccelerator(t *testing.T) {
	a := On(NewSimulatedBackend("a"))
	b := On(NewSimulatedBackend("b"))
	tn := FromInt32([]int32{4, 5, 6}, 1, 3).To(a).To(b)
	if tn.Device() != b {
		t.Errorf("Device() = %v, want b", tn.Device())
	}
	got := tn.To(CPU).Int32s()
	if got[0] != 4 || got[2] != 6 {
		t.Errorf("values = %v", got)
	}
}

func TestClone(t *testing.T) {
	tn := FromFloat32([]float32{1, 2, 3}, 1, 3)
	c := tn.Clone()
	c.Float32s()[0] = 5
	if tn.Float32s()[0] != 1 {
		t.Error("Clone shares storage")
	}

	sim := NewSimulatedBackend("sim")
	dc := tn.To(On(sim)).Clone()
	if dc.Device().Backend() != sim {
		t.Error("Clone changed device")
	}
}

func TestZerosOnAccelerator(t *testing.T) {
	dev := On(NewSimulatedBackend("sim"))
	tn := Zeros([]int{3, 2}, dev, Float32)
	if tn.Device() != dev {
		t.Fatal("expected accelerator tensor")
	}
	for _, v := range tn.To(CPU).Float32s() {
		if v != 0 {
			t.Errorf("got %v, want 0", v)
		}
	}
}

func TestStringDescribesDevice(t *testing.T) {
	tn := Empty([]int{2, 3}, On(NewSimulatedBackend("sim7")), Float32)
	s := tn.String()
	if !strings.Contains(s, "sim7") || !strings.Contains(s, "float32") {
		t.Errorf("String() = %q", s)
	}
}

func TestBuffer(t *testing.T) {
	host := FromFloat32([]float32{1, 2}, 2)
	if host.Buffer() != nil {
		t.Error("host tensor has a buffer")
	}

	sim := NewSimulatedBackend("sim")
	dev := host.To(On(sim))
	defer dev.Release()
	buf := dev.Buffer()
	if buf == nil {
		t.Fatal("accelerator tensor has no buffer")
	}
	if buf.Len() != 8 {
		t.Errorf("Len() = %d, want 8", buf.Len())
	}
}
