package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/tensor"
)

// Vertex attribute locations used by VertexArray.
const (
	LocPosition = 0
	LocNormal   = 1
	LocTexCoord = 2
	LocColor    = 3
	LocTangent  = 4
)

// attribute describes one vertex stream of a mesh.
type attribute struct {
	loc   uint32
	name  string
	comps int32
	t     tensor.Tensor
}

// layout lists the streams present in d, positions first.
func layout(d *mesh.Data) []attribute {
	attrs := []attribute{{loc: LocPosition, name: "position", comps: 3, t: d.Vertices()}}
	optional := []struct {
		loc   uint32
		name  string
		comps int32
		a     mesh.Attribute
	}{
		{LocNormal, "normal", 3, d.Normals()},
		{LocTexCoord, "texcoord", 2, d.TexCoords()},
		{LocColor, "color", 4, d.Colors()},
		{LocTangent, "tangent", 4, d.Tangents()},
	}
	for _, o := range optional {
		if t, ok := o.a.Tensor(); ok {
			attrs = append(attrs, attribute{loc: o.loc, name: o.name, comps: o.comps, t: t})
		}
	}
	return attrs
}

// VertexArray is a drawable upload of a mesh.
type VertexArray struct {
	VAO        uint32
	IndexCount int32
	Generation uint32

	owned []uint32 // buffers created for host tensors
}

// Draw issues one indexed draw of the whole mesh.
func (va *VertexArray) Draw() {
	gl.BindVertexArray(va.VAO)
	gl.DrawElements(gl.TRIANGLES, va.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (va *VertexArray) delete() {
	if va.VAO != 0 {
		gl.DeleteVertexArrays(1, &va.VAO)
		va.VAO = 0
	}
	if len(va.owned) > 0 {
		gl.DeleteBuffers(int32(len(va.owned)), &va.owned[0])
		va.owned = nil
	}
}

// VertexCache keeps one VertexArray per mesh and rebuilds it when the
// mesh generation changes. Tensors already on the cache's backend are
// bound in place; host tensors are copied into new buffers.
type VertexCache struct {
	backend *Backend
	entries map[*mesh.Data]*VertexArray

	builds int
}

// NewVertexCache creates a cache. backend may be nil when every mesh is
// host resident.
func NewVertexCache(backend *Backend) *VertexCache {
	return &VertexCache{
		backend: backend,
		entries: make(map[*mesh.Data]*VertexArray),
	}
}

// Get returns the vertex array for d, uploading it if it is new or stale.
func (c *VertexCache) Get(d *mesh.Data) (*VertexArray, error) {
	gen := d.Generation()
	if va, ok := c.entries[d]; ok {
		if va.Generation == gen {
			return va, nil
		}
		va.delete()
		delete(c.entries, d)
	}

	va, err := c.build(d, gen)
	if err != nil {
		return nil, err
	}
	c.entries[d] = va
	c.builds++
	return va, nil
}

// Builds returns how many uploads the cache has performed.
func (c *VertexCache) Builds() int { return c.builds }

// Evict drops the upload of d.
func (c *VertexCache) Evict(d *mesh.Data) {
	if va, ok := c.entries[d]; ok {
		va.delete()
		delete(c.entries, d)
	}
}

// Close deletes every cached vertex array.
func (c *VertexCache) Close() {
	for d, va := range c.entries {
		va.delete()
		delete(c.entries, d)
	}
}

func (c *VertexCache) build(d *mesh.Data, gen uint32) (*VertexArray, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("upload mesh: %w", err)
	}

	va := &VertexArray{Generation: gen, IndexCount: int32(d.FaceCount() * 3)}
	gl.GenVertexArrays(1, &va.VAO)
	gl.BindVertexArray(va.VAO)

	shared := 0
	for _, a := range layout(d) {
		c.bind(va, gl.ARRAY_BUFFER, a.t, &shared)
		gl.VertexAttribPointerWithOffset(a.loc, a.comps, gl.FLOAT, false, a.comps*4, 0)
		gl.EnableVertexAttribArray(a.loc)
	}
	c.bind(va, gl.ELEMENT_ARRAY_BUFFER, d.Indices(), &shared)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := checkError("upload mesh"); err != nil {
		va.delete()
		return nil, err
	}

	logger.Debug("uploaded mesh",
		zap.Int("vertices", d.VertexCount()),
		zap.Int("faces", d.FaceCount()),
		zap.Int("shared_buffers", shared),
		zap.Int("copied_buffers", len(va.owned)),
		zap.Uint32("generation", gen),
	)
	return va, nil
}

// bind attaches t to target, reusing its GL buffer when it lives on the
// cache's backend.
func (c *VertexCache) bind(va *VertexArray, target uint32, t tensor.Tensor, shared *int) {
	if c.backend != nil {
		if id, ok := c.backend.BufferID(t); ok {
			gl.BindBuffer(target, id)
			*shared++
			return
		}
	}

	host := t.To(tensor.CPU).Bytes()
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)
	var ptr unsafe.Pointer
	if len(host) > 0 {
		ptr = unsafe.Pointer(&host[0])
	}
	gl.BufferData(target, len(host), ptr, gl.STATIC_DRAW)
	va.owned = append(va.owned, id)
}

// UploadTexture creates a mipmapped RGBA texture from img.
func UploadTexture(img mesh.TextureImage) (uint32, error) {
	if img.Channels != 4 || len(img.Pixels) != img.Width*img.Height*4 || img.Width == 0 || img.Height == 0 {
		return 0, fmt.Errorf("upload texture: %dx%d with %d channels and %d bytes",
			img.Width, img.Height, img.Channels, len(img.Pixels))
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Width), int32(img.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pixels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := checkError("upload texture"); err != nil {
		gl.DeleteTextures(1, &texID)
		return 0, err
	}
	return texID, nil
}

// TextureSet tracks uploaded textures so they can be freed together
// before the context goes away.
type TextureSet struct {
	ids []uint32
}

// Upload uploads img and remembers its id.
func (s *TextureSet) Upload(img mesh.TextureImage) (uint32, error) {
	id, err := UploadTexture(img)
	if err != nil {
		return 0, err
	}
	s.ids = append(s.ids, id)
	return id, nil
}

// Len returns how many textures are held.
func (s *TextureSet) Len() int { return len(s.ids) }

// Close deletes every held texture.
func (s *TextureSet) Close() {
	if len(s.ids) > 0 {
		gl.DeleteTextures(int32(len(s.ids)), &s.ids[0])
		s.ids = nil
	}
}
