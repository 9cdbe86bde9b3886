package mesh

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/halfedge"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/tensor"
)

// FromTopology converts a triangulated half-edge mesh into columnar form.
// Vertex handle i becomes row i of every per-vertex tensor, and faces keep
// the store's iteration order and winding. Vertex normals, texture
// coordinates and colors are copied when the store holds them; colors
// are scaled from bytes to [0,1] with alpha 1 for stores without alpha.
//
// It panics if the store has no vertices or no faces, or if a face is
// not a triangle.
func FromTopology(t *halfedge.Mesh) *Data {
	nv := t.NVertices()
	nf := t.NFaces()
	if nv == 0 || nf == 0 {
		panic(fmt.Sprintf("mesh: topology needs vertices and faces, got %d/%d", nv, nf))
	}
	if nv > gomath.MaxInt32 {
		panic(fmt.Sprintf("mesh: %d vertices exceed int32 indices", nv))
	}

	vertices := tensor.Empty([]int{nv, 3}, tensor.CPU, tensor.Float32)
	vacc := vertices.Float32Accessor2D()
	for i := 0; i < nv; i++ {
		p := t.Point(halfedge.VertexHandle(i))
		vacc.Set(i, 0, p.X)
		vacc.Set(i, 1, p.Y)
		vacc.Set(i, 2, p.Z)
	}

	indices := tensor.Empty([]int{nf, 3}, tensor.CPU, tensor.Int32)
	iacc := indices.Int32Accessor2D()
	fi := 0
	for f := range t.Faces() {
		corner := 0
		for v := range t.FaceVertices(f) {
			if corner >= 3 {
				panic(fmt.Sprintf("mesh: face %d is not a triangle", f))
			}
			iacc.Set(fi, corner, int32(v))
			corner++
		}
		if corner != 3 {
			panic(fmt.Sprintf("mesh: face %d has %d vertices, want 3", f, corner))
		}
		fi++
	}

	d := New(vertices, indices)

	if t.HasVertexNormals() {
		normals := tensor.Empty([]int{nv, 3}, tensor.CPU, tensor.Float32)
		nacc := normals.Float32Accessor2D()
		for i := 0; i < nv; i++ {
			n := t.Normal(halfedge.VertexHandle(i))
			nacc.Set(i, 0, n.X)
			nacc.Set(i, 1, n.Y)
			nacc.Set(i, 2, n.Z)
		}
		d.normals = Present(normals)
	}

	if t.HasVertexTexCoords2D() {
		texcoords := tensor.Empty([]int{nv, 2}, tensor.CPU, tensor.Float32)
		tacc := texcoords.Float32Accessor2D()
		for i := 0; i < nv; i++ {
			tc := t.TexCoord2D(halfedge.VertexHandle(i))
			tacc.Set(i, 0, tc.X)
			tacc.Set(i, 1, tc.Y)
		}
		d.texcoords = Present(texcoords)
	}

	if t.HasVertexColors() {
		alpha := t.ColorFormat().HasAlpha()
		colors := tensor.Empty([]int{nv, 4}, tensor.CPU, tensor.Float32)
		cacc := colors.Float32Accessor2D()
		for i := 0; i < nv; i++ {
			c := t.Color(halfedge.VertexHandle(i))
			cacc.Set(i, 0, float32(c[0])/255)
			cacc.Set(i, 1, float32(c[1])/255)
			cacc.Set(i, 2, float32(c[2])/255)
			if alpha {
				cacc.Set(i, 3, float32(c[3])/255)
			} else {
				cacc.Set(i, 3, 1)
			}
		}
		d.colors = Present(colors)
	}

	log.Debug("converted topology to mesh",
		zap.Int("vertices", nv),
		zap.Int("faces", nf),
		zap.Bool("normals", d.HasNormals()),
		zap.Bool("texcoords", d.HasTexCoords()),
		zap.Bool("colors", d.HasColors()),
	)
	return d
}

// ToTopology builds a half-edge mesh from d. Vertex row i becomes vertex
// handle i and each index row becomes one face with the same winding.
// Present normals, texture coordinates and colors are copied; colors are
// stored as RGBA bytes, scaled by 255 and clamped to [0,255]. Tangents
// have no counterpart in the store and are dropped.
//
// d's tensors are read through host copies; d itself is not modified. It
// panics if an index is outside [0,V) or an attribute row count differs
// from V.
func ToTopology(d *Data) *halfedge.Mesh {
	return toTopology(d, true)
}

func toTopology(d *Data, withAttributes bool) *halfedge.Mesh {
	mustGeometry(d.vertices, d.indices)

	nv := d.VertexCount()
	nf := d.FaceCount()
	if nv > gomath.MaxInt32 {
		panic(fmt.Sprintf("mesh: %d vertices exceed int32 handles", nv))
	}

	vacc := d.vertices.To(tensor.CPU).Contiguous().Float32Accessor2D()
	iacc := d.indices.To(tensor.CPU).Contiguous().Int32Accessor2D()

	m := halfedge.New()

	var normals, texcoords, colors tensor.Accessor2[float32]
	hasNormals := withAttributes && d.HasNormals()
	hasTexCoords := withAttributes && d.HasTexCoords()
	hasColors := withAttributes && d.HasColors()
	if hasNormals {
		normals = hostAttribute(d.normals, "normals", nv, 3)
		m.RequestVertexNormals()
	}
	if hasTexCoords {
		texcoords = hostAttribute(d.texcoords, "texcoords", nv, 2)
		m.RequestVertexTexCoords2D()
	}
	if hasColors {
		colors = hostAttribute(d.colors, "colors", nv, 4)
		m.RequestVertexColors(halfedge.ColorRGBA)
	}

	for i := 0; i < nv; i++ {
		vh := m.AddVertex(math.V3(vacc.At(i, 0), vacc.At(i, 1), vacc.At(i, 2)))
		if int(vh) != i {
			panic(fmt.Sprintf("mesh: vertex %d got handle %d", i, vh))
		}
		if hasNormals {
			m.SetNormal(vh, math.V3(normals.At(i, 0), normals.At(i, 1), normals.At(i, 2)))
		}
		if hasTexCoords {
			m.SetTexCoord2D(vh, math.Vec2{X: texcoords.At(i, 0), Y: texcoords.At(i, 1)})
		}
		if hasColors {
			m.SetColor(vh, halfedge.Color{
				colorByte(colors.At(i, 0)),
				colorByte(colors.At(i, 1)),
				colorByte(colors.At(i, 2)),
				colorByte(colors.At(i, 3)),
			})
		}
	}

	for f := 0; f < nf; f++ {
		var corners [3]halfedge.VertexHandle
		for c := 0; c < 3; c++ {
			idx := iacc.At(f, c)
			if idx < 0 || int(idx) >= nv {
				panic(fmt.Sprintf("mesh: face %d corner %d index %d outside [0,%d)", f, c, idx, nv))
			}
			corners[c] = halfedge.VertexHandle(idx)
		}
		m.AddFace(corners[0], corners[1], corners[2])
	}

	log.Debug("converted mesh to topology",
		zap.Int("vertices", nv),
		zap.Int("faces", nf),
		zap.Bool("normals", hasNormals),
		zap.Bool("texcoords", hasTexCoords),
		zap.Bool("colors", hasColors),
	)
	return m
}

// hostAttribute returns a host accessor for a present attribute, checking
// its shape against the vertex count.
func hostAttribute(a Attribute, name string, rows, cols int) tensor.Accessor2[float32] {
	t := a.MustTensor()
	if t.NDim() != 2 || t.Dim(0) != rows || t.Dim(1) != cols || t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("mesh: %s is %v, want [%d,%d] float32", name, t, rows, cols))
	}
	return t.To(tensor.CPU).Contiguous().Float32Accessor2D()
}

// colorByte maps a normalized channel to a byte, saturating outside [0,1].
func colorByte(c float32) uint8 {
	v := c * 255
	if !(v >= 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
