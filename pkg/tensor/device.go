package tensor

// Residency says where a tensor's memory lives.
type Residency uint8

const (
	Host Residency = iota
	Accelerator
)

// String returns "host" or "accelerator".
func (r Residency) String() string {
	if r == Accelerator {
		return "accelerator"
	}
	return "host"
}

// Backend owns accelerator memory. Implementations must be comparable
// (pointer types) because devices are compared with ==.
type Backend interface {
	Name() string
	Alloc(nbytes int) Buffer
}

// Buffer is a block of accelerator memory of fixed length.
// Upload and Download always transfer the whole buffer.
type Buffer interface {
	Len() int
	Upload(src []byte)
	Download(dst []byte)
	Release()
}

// Device identifies a memory residency. The zero value is the host.
type Device struct {
	backend Backend
}

// CPU is the host device.
var CPU = Device{}

// On returns the accelerator device backed by b.
func On(b Backend) Device {
	if b == nil {
		panic("tensor: nil backend")
	}
	return Device{backend: b}
}

// Residency reports whether the device is the host or an accelerator.
func (d Device) Residency() Residency {
	if d.backend == nil {
		return Host
	}
	return Accelerator
}

// IsAccelerator reports whether the device is not the host.
func (d Device) IsAccelerator() bool {
	return d.backend != nil
}

// Backend returns the accelerator backend, or nil for the host.
func (d Device) Backend() Backend {
	return d.backend
}

// String returns "cpu" or the backend name.
func (d Device) String() string {
	if d.backend == nil {
		return "cpu"
	}
	return d.backend.Name()
}
