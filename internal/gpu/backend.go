package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshkit/pkg/tensor"
)

// Backend stores tensors in GL buffer objects.
type Backend struct {
	ctx *Context

	live      atomic.Int64
	uploads   atomic.Int64
	downloads atomic.Int64
}

// NewBackend returns a tensor backend on ctx.
func NewBackend(ctx *Context) *Backend {
	return &Backend{ctx: ctx}
}

// Name returns "gl".
func (b *Backend) Name() string { return "gl" }

// Device returns the tensor device for this backend.
func (b *Backend) Device() tensor.Device { return tensor.On(b) }

// Alloc creates an uninitialized buffer object of nbytes.
func (b *Backend) Alloc(nbytes int) tensor.Buffer {
	buf := &buffer{owner: b, n: nbytes}
	gl.GenBuffers(1, &buf.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, nbytes, nil, gl.STATIC_DRAW)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if err := checkError("alloc"); err != nil {
		gl.DeleteBuffers(1, &buf.id)
		panic(fmt.Sprintf("gpu: %d byte buffer: %v", nbytes, err))
	}
	b.live.Add(1)
	return buf
}

// Live returns the number of unreleased buffers.
func (b *Backend) Live() int { return int(b.live.Load()) }

// Uploads returns the number of host to device transfers.
func (b *Backend) Uploads() int64 { return b.uploads.Load() }

// Downloads returns the number of device to host transfers.
func (b *Backend) Downloads() int64 { return b.downloads.Load() }

// BufferID returns the GL buffer name behind t when t lives on b.
func (b *Backend) BufferID(t tensor.Tensor) (uint32, bool) {
	if !t.IsValid() {
		return 0, false
	}
	buf, ok := t.Buffer().(*buffer)
	if !ok || buf.owner != b || buf.id == 0 {
		return 0, false
	}
	return buf.id, true
}

type buffer struct {
	owner *Backend
	id    uint32
	n     int
}

func (s *buffer) Len() int { return s.n }

func (s *buffer) Upload(src []byte) {
	s.check(len(src))
	s.owner.uploads.Add(1)
	if s.n == 0 {
		return
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, s.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, 0, s.n, gl.Ptr(src))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (s *buffer) Download(dst []byte) {
	s.check(len(dst))
	s.owner.downloads.Add(1)
	if s.n == 0 {
		return
	}
	gl.BindBuffer(gl.COPY_READ_BUFFER, s.id)
	gl.GetBufferSubData(gl.COPY_READ_BUFFER, 0, s.n, gl.Ptr(dst))
	gl.BindBuffer(gl.COPY_READ_BUFFER, 0)
}

func (s *buffer) Release() {
	if s.id == 0 {
		return
	}
	gl.DeleteBuffers(1, &s.id)
	s.id = 0
	s.owner.live.Add(-1)
}

func (s *buffer) check(n int) {
	if s.id == 0 {
		panic("gpu: use of released buffer")
	}
	if n != s.n {
		panic(fmt.Sprintf("gpu: transfer of %d bytes to %d byte buffer", n, s.n))
	}
}

// Context returns the GL context the buffers belong to.
func (b *Backend) Context() *Context { return b.ctx }
