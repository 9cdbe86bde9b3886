package halfedge

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Weighting selects how face normals are combined into vertex normals.
type Weighting uint8

const (
	// WeightUniform sums unit face normals.
	WeightUniform Weighting = iota
	// WeightArea weights each face normal by the face's area.
	WeightArea
	// WeightAngle weights each face normal by the corner angle at the vertex.
	WeightAngle
)

// String returns the weighting name.
func (w Weighting) String() string {
	switch w {
	case WeightUniform:
		return "uniform"
	case WeightArea:
		return "area"
	case WeightAngle:
		return "angle"
	default:
		return fmt.Sprintf("Weighting(%d)", w)
	}
}

// ParseWeighting converts a name to a Weighting.
func ParseWeighting(s string) (Weighting, error) {
	switch strings.ToLower(s) {
	case "", "uniform":
		return WeightUniform, nil
	case "area":
		return WeightArea, nil
	case "angle":
		return WeightAngle, nil
	default:
		return WeightUniform, fmt.Errorf("unknown normal weighting %q", s)
	}
}

// SetWeighting sets the policy used by UpdateVertexNormals.
func (m *Mesh) SetWeighting(w Weighting) { m.weighting = w }

// Weighting returns the policy used by UpdateVertexNormals.
func (m *Mesh) Weighting() Weighting { return m.weighting }

// CalcFaceNormal computes the unit normal of f from its winding. Triangles
// use (p1-p0)x(p2-p0); larger polygons use Newell's method. Degenerate
// faces yield the zero vector.
func (m *Mesh) CalcFaceNormal(f FaceHandle) math.Vec3 {
	return m.faceNormalRaw(f).Normalize()
}

// faceNormalRaw returns the unnormalized face normal, whose length is
// twice the face area.
func (m *Mesh) faceNormalRaw(f FaceHandle) math.Vec3 {
	h0 := m.FaceHalfedge(f)
	h1 := m.halfedges[h0].next
	h2 := m.halfedges[h1].next
	if m.halfedges[h2].next == h0 {
		p0 := m.points[m.halfedges[h2].to]
		p1 := m.points[m.halfedges[h0].to]
		p2 := m.points[m.halfedges[h1].to]
		return p1.Sub(p0).Cross(p2.Sub(p0))
	}

	var n math.Vec3
	for h := range m.FaceHalfedges(f) {
		a := m.points[m.halfedges[h^1].to]
		b := m.points[m.halfedges[h].to]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// UpdateFaceNormals recomputes every face normal.
func (m *Mesh) UpdateFaceNormals() {
	m.faceNormals.mustAvailable("face normals")
	for f := range m.Faces() {
		m.faceNormals.data[f] = m.CalcFaceNormal(f)
	}
}

// CalcVertexNormal accumulates the normals of v's faces under the
// store's weighting and normalizes the sum. Isolated vertices get the
// zero vector.
func (m *Mesh) CalcVertexNormal(v VertexHandle) math.Vec3 {
	var sum math.Vec3
	for h := range m.VertexOutgoing(v) {
		f := m.halfedges[h].face
		if !f.IsValid() {
			continue
		}
		switch m.weighting {
		case WeightArea:
			sum = sum.Add(m.faceNormalRaw(f))
		case WeightAngle:
			p := m.points[v]
			next := m.points[m.halfedges[h].to]
			prev := m.points[m.halfedges[m.halfedges[h].prev^1].to]
			angle := next.Sub(p).Angle(prev.Sub(p))
			sum = sum.Add(m.faceNormal(f).Scale(angle))
		default:
			sum = sum.Add(m.faceNormal(f))
		}
	}
	return sum.Normalize()
}

// faceNormal returns the stored face normal when available.
func (m *Mesh) faceNormal(f FaceHandle) math.Vec3 {
	if m.faceNormals.available() {
		return m.faceNormals.data[f]
	}
	return m.CalcFaceNormal(f)
}

// UpdateVertexNormals recomputes every vertex normal. Stored face normals
// are used when face normals are requested, so call UpdateFaceNormals
// first.
func (m *Mesh) UpdateVertexNormals() {
	m.vertexNormals.mustAvailable("vertex normals")
	for v := range m.Vertices() {
		m.vertexNormals.data[v] = m.CalcVertexNormal(v)
	}
}

// UpdateNormals recomputes face normals and then vertex normals. Both
// attributes must be requested.
func (m *Mesh) UpdateNormals() {
	m.UpdateFaceNormals()
	m.UpdateVertexNormals()
}
