package halfedge

import "iter"

// ToVertex returns the vertex h points to.
func (m *Mesh) ToVertex(h HalfedgeHandle) VertexHandle {
	m.checkHalfedge(h)
	return m.halfedges[h].to
}

// FromVertex returns the vertex h starts at.
func (m *Mesh) FromVertex(h HalfedgeHandle) VertexHandle {
	return m.ToVertex(m.Opposite(h))
}

// Opposite returns the other half of h's edge.
func (m *Mesh) Opposite(h HalfedgeHandle) HalfedgeHandle {
	m.checkHalfedge(h)
	return h ^ 1
}

// Next returns the next half-edge around h's face, or InvalidHalfedge
// on the boundary.
func (m *Mesh) Next(h HalfedgeHandle) HalfedgeHandle {
	m.checkHalfedge(h)
	return m.halfedges[h].next
}

// Prev returns the previous half-edge around h's face, or InvalidHalfedge
// on the boundary.
func (m *Mesh) Prev(h HalfedgeHandle) HalfedgeHandle {
	m.checkHalfedge(h)
	return m.halfedges[h].prev
}

// HalfedgeFace returns the face h belongs to, or InvalidFace.
func (m *Mesh) HalfedgeFace(h HalfedgeHandle) FaceHandle {
	m.checkHalfedge(h)
	return m.halfedges[h].face
}

// Edge returns the edge h is part of.
func (m *Mesh) Edge(h HalfedgeHandle) EdgeHandle {
	m.checkHalfedge(h)
	return EdgeHandle(h >> 1)
}

// EdgeHalfedge returns half-edge i (0 or 1) of e.
func (m *Mesh) EdgeHalfedge(e EdgeHandle, i int) HalfedgeHandle {
	h := HalfedgeHandle(e)<<1 | HalfedgeHandle(i&1)
	m.checkHalfedge(h)
	return h
}

// FaceHalfedge returns the first half-edge of f. Its from-vertex is the
// first vertex f was added with.
func (m *Mesh) FaceHalfedge(f FaceHandle) HalfedgeHandle {
	m.checkFace(f)
	return m.faces[f]
}

// IsBoundary reports whether h has no face.
func (m *Mesh) IsBoundary(h HalfedgeHandle) bool {
	return !m.HalfedgeFace(h).IsValid()
}

// IsBoundaryVertex reports whether v is isolated or touches a boundary
// half-edge.
func (m *Mesh) IsBoundaryVertex(v VertexHandle) bool {
	m.checkVertex(v)
	if len(m.outgoing[v]) == 0 {
		return true
	}
	for _, h := range m.outgoing[v] {
		if m.halfedges[h].face < 0 || m.halfedges[h^1].face < 0 {
			return true
		}
	}
	return false
}

// FaceHalfedges iterates the half-edges of f in winding order.
func (m *Mesh) FaceHalfedges(f FaceHandle) iter.Seq[HalfedgeHandle] {
	start := m.FaceHalfedge(f)
	return func(yield func(HalfedgeHandle) bool) {
		h := start
		for {
			if !yield(h) {
				return
			}
			h = m.halfedges[h].next
			if h == start {
				return
			}
		}
	}
}

// FaceVertices iterates the vertices of f in the order they were given
// to AddPolygon.
func (m *Mesh) FaceVertices(f FaceHandle) iter.Seq[VertexHandle] {
	return func(yield func(VertexHandle) bool) {
		for h := range m.FaceHalfedges(f) {
			if !yield(m.halfedges[h^1].to) {
				return
			}
		}
	}
}

// Valence returns the number of vertices of f.
func (m *Mesh) Valence(f FaceHandle) int {
	n := 0
	for range m.FaceHalfedges(f) {
		n++
	}
	return n
}

// VertexOutgoing iterates the half-edges starting at v, boundary ones
// included.
func (m *Mesh) VertexOutgoing(v VertexHandle) iter.Seq[HalfedgeHandle] {
	m.checkVertex(v)
	return func(yield func(HalfedgeHandle) bool) {
		for _, h := range m.outgoing[v] {
			if !yield(h) {
				return
			}
		}
	}
}

// VertexVertices iterates the neighbours of v.
func (m *Mesh) VertexVertices(v VertexHandle) iter.Seq[VertexHandle] {
	return func(yield func(VertexHandle) bool) {
		for h := range m.VertexOutgoing(v) {
			if !yield(m.halfedges[h].to) {
				return
			}
		}
	}
}

// VertexFaces iterates the faces incident to v.
func (m *Mesh) VertexFaces(v VertexHandle) iter.Seq[FaceHandle] {
	return func(yield func(FaceHandle) bool) {
		for h := range m.VertexOutgoing(v) {
			if f := m.halfedges[h].face; f.IsValid() {
				if !yield(f) {
					return
				}
			}
		}
	}
}
