package halfedge

import (
	"fmt"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Color is an 8-bit RGBA color. Stores with ColorRGB report alpha 255.
type Color [4]uint8

// ColorFormat says which channels a store keeps for vertex colors.
type ColorFormat uint8

const (
	ColorRGB ColorFormat = iota
	ColorRGBA
)

// HasAlpha reports whether the format keeps an alpha channel.
func (f ColorFormat) HasAlpha() bool {
	return f == ColorRGBA
}

// property is a reference-counted per-element attribute column.
type property[T any] struct {
	refs int
	data []T
}

func (p *property[T]) request(n int) {
	if p.refs == 0 {
		p.data = make([]T, n)
	}
	p.refs++
}

func (p *property[T]) release() {
	if p.refs == 0 {
		return
	}
	p.refs--
	if p.refs == 0 {
		p.data = nil
	}
}

func (p *property[T]) available() bool {
	return p.refs > 0
}

func (p *property[T]) grow() {
	if p.refs > 0 {
		var zero T
		p.data = append(p.data, zero)
	}
}

func (p *property[T]) mustAvailable(name string) {
	if p.refs == 0 {
		panic(fmt.Sprintf("halfedge: %s not requested", name))
	}
}

// RequestVertexNormals allocates per-vertex normal storage.
func (m *Mesh) RequestVertexNormals() { m.vertexNormals.request(len(m.points)) }

// ReleaseVertexNormals drops one request for vertex normals.
func (m *Mesh) ReleaseVertexNormals() { m.vertexNormals.release() }

// HasVertexNormals reports whether vertex normals are requested.
func (m *Mesh) HasVertexNormals() bool { return m.vertexNormals.available() }

// RequestFaceNormals allocates per-face normal storage.
func (m *Mesh) RequestFaceNormals() { m.faceNormals.request(len(m.faces)) }

// ReleaseFaceNormals drops one request for face normals.
func (m *Mesh) ReleaseFaceNormals() { m.faceNormals.release() }

// HasFaceNormals reports whether face normals are requested.
func (m *Mesh) HasFaceNormals() bool { return m.faceNormals.available() }

// RequestVertexTexCoords2D allocates per-vertex 2D texture coordinates.
func (m *Mesh) RequestVertexTexCoords2D() { m.vertexTexCoords.request(len(m.points)) }

// ReleaseVertexTexCoords2D drops one request for texture coordinates.
func (m *Mesh) ReleaseVertexTexCoords2D() { m.vertexTexCoords.release() }

// HasVertexTexCoords2D reports whether texture coordinates are requested.
func (m *Mesh) HasVertexTexCoords2D() bool { return m.vertexTexCoords.available() }

// RequestVertexColors allocates per-vertex colors in the given format.
// Requesting a different format while colors are held panics.
func (m *Mesh) RequestVertexColors(format ColorFormat) {
	if m.vertexColors.available() && m.colorFormat != format {
		panic("halfedge: vertex colors already requested with a different format")
	}
	m.colorFormat = format
	m.vertexColors.request(len(m.points))
}

// ReleaseVertexColors drops one request for vertex colors.
func (m *Mesh) ReleaseVertexColors() { m.vertexColors.release() }

// HasVertexColors reports whether vertex colors are requested.
func (m *Mesh) HasVertexColors() bool { return m.vertexColors.available() }

// ColorFormat returns the format of the vertex color storage.
func (m *Mesh) ColorFormat() ColorFormat { return m.colorFormat }

// Normal returns the normal of v.
func (m *Mesh) Normal(v VertexHandle) math.Vec3 {
	m.checkVertex(v)
	m.vertexNormals.mustAvailable("vertex normals")
	return m.vertexNormals.data[v]
}

// SetNormal sets the normal of v.
func (m *Mesh) SetNormal(v VertexHandle, n math.Vec3) {
	m.checkVertex(v)
	m.vertexNormals.mustAvailable("vertex normals")
	m.vertexNormals.data[v] = n
}

// FaceNormal returns the normal of f.
func (m *Mesh) FaceNormal(f FaceHandle) math.Vec3 {
	m.checkFace(f)
	m.faceNormals.mustAvailable("face normals")
	return m.faceNormals.data[f]
}

// SetFaceNormal sets the normal of f.
func (m *Mesh) SetFaceNormal(f FaceHandle, n math.Vec3) {
	m.checkFace(f)
	m.faceNormals.mustAvailable("face normals")
	m.faceNormals.data[f] = n
}

// TexCoord2D returns the texture coordinate of v.
func (m *Mesh) TexCoord2D(v VertexHandle) math.Vec2 {
	m.checkVertex(v)
	m.vertexTexCoords.mustAvailable("vertex texcoords")
	return m.vertexTexCoords.data[v]
}

// SetTexCoord2D sets the texture coordinate of v.
func (m *Mesh) SetTexCoord2D(v VertexHandle, tc math.Vec2) {
	m.checkVertex(v)
	m.vertexTexCoords.mustAvailable("vertex texcoords")
	m.vertexTexCoords.data[v] = tc
}

// Color returns the color of v. Alpha is 255 for ColorRGB stores.
func (m *Mesh) Color(v VertexHandle) Color {
	m.checkVertex(v)
	m.vertexColors.mustAvailable("vertex colors")
	c := m.vertexColors.data[v]
	if !m.colorFormat.HasAlpha() {
		c[3] = 255
	}
	return c
}

// SetColor sets the color of v. Alpha is dropped for ColorRGB stores.
func (m *Mesh) SetColor(v VertexHandle, c Color) {
	m.checkVertex(v)
	m.vertexColors.mustAvailable("vertex colors")
	m.vertexColors.data[v] = c
}
