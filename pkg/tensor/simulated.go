package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// SimulatedBackend is an in-process accelerator. Its memory is only
// reachable through Upload and Download, so code that forgets a transfer
// fails the same way it would on a real device. It is used when no GPU is
// available and in tests.
type SimulatedBackend struct {
	name      string
	uploads   atomic.Int64
	downloads atomic.Int64

	mu   sync.Mutex
	live int
}

// NewSimulatedBackend creates a simulated accelerator with the given name.
func NewSimulatedBackend(name string) *SimulatedBackend {
	return &SimulatedBackend{name: name}
}

// Name returns the backend name.
func (b *SimulatedBackend) Name() string {
	return b.name
}

// Alloc reserves nbytes of simulated device memory.
func (b *SimulatedBackend) Alloc(nbytes int) Buffer {
	b.mu.Lock()
	b.live++
	b.mu.Unlock()
	return &simBuffer{backend: b, mem: make([]byte, nbytes)}
}

// Uploads returns the number of host-to-device transfers so far.
func (b *SimulatedBackend) Uploads() int64 { return b.uploads.Load() }

// Downloads returns the number of device-to-host transfers so far.
func (b *SimulatedBackend) Downloads() int64 { return b.downloads.Load() }

// Live returns the number of allocated, unreleased buffers.
func (b *SimulatedBackend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

type simBuffer struct {
	backend  *SimulatedBackend
	mem      []byte
	released bool
}

func (s *simBuffer) Len() int { return len(s.mem) }

func (s *simBuffer) Upload(src []byte) {
	s.mustLive()
	if len(src) != len(s.mem) {
		panic(fmt.Sprintf("tensor: upload of %d bytes into %d-byte buffer", len(src), len(s.mem)))
	}
	copy(s.mem, src)
	s.backend.uploads.Add(1)
}

func (s *simBuffer) Download(dst []byte) {
	s.mustLive()
	if len(dst) != len(s.mem) {
		panic(fmt.Sprintf("tensor: download of %d-byte buffer into %d bytes", len(s.mem), len(dst)))
	}
	copy(dst, s.mem)
	s.backend.downloads.Add(1)
}

func (s *simBuffer) Release() {
	if s.released {
		return
	}
	s.released = true
	s.mem = nil
	s.backend.mu.Lock()
	s.backend.live--
	s.backend.mu.Unlock()
}

func (s *simBuffer) mustLive() {
	if s.released {
		panic("tensor: use of released buffer")
	}
}
