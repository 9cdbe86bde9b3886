// Package halfedge implements an arena-based half-edge polygon mesh.
//
// Vertices, half-edges and faces live in parallel slices indexed by their
// handles. Half-edges are allocated in pairs: half-edges 2e and 2e+1 form
// edge e and are each other's opposite. A half-edge with no face lies on
// the boundary; boundary half-edges carry no next/prev links.
//
// Optional per-element attributes (normals, texture coordinates, colors)
// must be requested before use. Contract violations panic.
package halfedge

import (
	"fmt"
	"iter"

	"github.com/Faultbox/meshkit/pkg/math"
)

type halfedge struct {
	to   VertexHandle
	face FaceHandle
	next HalfedgeHandle
	prev HalfedgeHandle
}

type directedEdge struct {
	from, to VertexHandle
}

// Mesh is a half-edge polygon mesh. The zero value is not usable; call New.
type Mesh struct {
	points    []math.Vec3
	outgoing  [][]HalfedgeHandle
	halfedges []halfedge
	faces     []HalfedgeHandle
	edgeIndex map[directedEdge]HalfedgeHandle

	vertexNormals   property[math.Vec3]
	faceNormals     property[math.Vec3]
	vertexTexCoords property[math.Vec2]
	vertexColors    property[Color]
	colorFormat     ColorFormat

	weighting Weighting
}

// New creates an empty mesh.
func New() *Mesh {
	return &Mesh{edgeIndex: make(map[directedEdge]HalfedgeHandle)}
}

// NVertices returns the number of vertices.
func (m *Mesh) NVertices() int { return len(m.points) }

// NFaces returns the number of faces.
func (m *Mesh) NFaces() int { return len(m.faces) }

// NHalfedges returns the number of half-edges, boundary ones included.
func (m *Mesh) NHalfedges() int { return len(m.halfedges) }

// NEdges returns the number of edges.
func (m *Mesh) NEdges() int { return len(m.halfedges) / 2 }

// AddVertex appends a vertex at p and returns its handle, which always
// equals the previous vertex count.
func (m *Mesh) AddVertex(p math.Vec3) VertexHandle {
	vh := VertexHandle(len(m.points))
	m.points = append(m.points, p)
	m.outgoing = append(m.outgoing, nil)
	m.vertexNormals.grow()
	m.vertexTexCoords.grow()
	m.vertexColors.grow()
	return vh
}

// AddFace adds a triangle with winding a -> b -> c.
func (m *Mesh) AddFace(a, b, c VertexHandle) FaceHandle {
	return m.AddPolygon(a, b, c)
}

// AddPolygon adds a face through vs in order. It panics if fewer than
// three vertices are given, a handle is invalid, or a vertex repeats.
//
// A directed edge already used by another face (non-manifold input) is
// given a fresh edge that is not linked to its neighbours, so the face
// is still stored and its vertices still see it.
func (m *Mesh) AddPolygon(vs ...VertexHandle) FaceHandle {
	n := len(vs)
	if n < 3 {
		panic(fmt.Sprintf("halfedge: face needs at least 3 vertices, got %d", n))
	}
	for i, v := range vs {
		m.checkVertex(v)
		for _, w := range vs[:i] {
			if w == v {
				panic(fmt.Sprintf("halfedge: vertex %d repeated in face %v", v, vs))
			}
		}
	}

	fh := FaceHandle(len(m.faces))
	hs := make([]HalfedgeHandle, n)
	for i := range vs {
		hs[i] = m.claimHalfedge(vs[i], vs[(i+1)%n])
		m.halfedges[hs[i]].face = fh
	}
	for i, h := range hs {
		m.halfedges[h].next = hs[(i+1)%n]
		m.halfedges[h].prev = hs[(i+n-1)%n]
	}

	m.faces = append(m.faces, hs[0])
	m.faceNormals.grow()
	return fh
}

// claimHalfedge returns a face-free half-edge from a to b, reusing the
// boundary half-edge of an existing edge when there is one.
func (m *Mesh) claimHalfedge(a, b VertexHandle) HalfedgeHandle {
	key := directedEdge{a, b}
	if h, ok := m.edgeIndex[key]; ok && !m.halfedges[h].face.IsValid() {
		return h
	}

	h := HalfedgeHandle(len(m.halfedges))
	o := h + 1
	m.halfedges = append(m.halfedges,
		halfedge{to: b, face: InvalidFace, next: InvalidHalfedge, prev: InvalidHalfedge},
		halfedge{to: a, face: InvalidFace, next: InvalidHalfedge, prev: InvalidHalfedge},
	)
	m.outgoing[a] = append(m.outgoing[a], h)
	m.outgoing[b] = append(m.outgoing[b], o)

	if _, ok := m.edgeIndex[key]; !ok {
		m.edgeIndex[key] = h
	}
	rev := directedEdge{b, a}
	if _, ok := m.edgeIndex[rev]; !ok {
		m.edgeIndex[rev] = o
	}
	return h
}

// Point returns the position of v.
func (m *Mesh) Point(v VertexHandle) math.Vec3 {
	m.checkVertex(v)
	return m.points[v]
}

// SetPoint moves v to p.
func (m *Mesh) SetPoint(v VertexHandle, p math.Vec3) {
	m.checkVertex(v)
	m.points[v] = p
}

// Vertices iterates vertex handles in handle order.
func (m *Mesh) Vertices() iter.Seq[VertexHandle] {
	return func(yield func(VertexHandle) bool) {
		for i := range m.points {
			if !yield(VertexHandle(i)) {
				return
			}
		}
	}
}

// Faces iterates face handles in handle order.
func (m *Mesh) Faces() iter.Seq[FaceHandle] {
	return func(yield func(FaceHandle) bool) {
		for i := range m.faces {
			if !yield(FaceHandle(i)) {
				return
			}
		}
	}
}

// IsTriangles reports whether every face has exactly three vertices.
func (m *Mesh) IsTriangles() bool {
	for f := range m.Faces() {
		if m.Valence(f) != 3 {
			return false
		}
	}
	return true
}

func (m *Mesh) checkVertex(v VertexHandle) {
	if v < 0 || int(v) >= len(m.points) {
		panic(fmt.Sprintf("halfedge: invalid vertex handle %d (have %d)", v, len(m.points)))
	}
}

func (m *Mesh) checkFace(f FaceHandle) {
	if f < 0 || int(f) >= len(m.faces) {
		panic(fmt.Sprintf("halfedge: invalid face handle %d (have %d)", f, len(m.faces)))
	}
}

func (m *Mesh) checkHalfedge(h HalfedgeHandle) {
	if h < 0 || int(h) >= len(m.halfedges) {
		panic(fmt.Sprintf("halfedge: invalid halfedge handle %d (have %d)", h, len(m.halfedges)))
	}
}
