package halfedge

// Handles are plain indices into the store's arenas. A freshly built
// store assigns them densely in insertion order starting at 0, and
// nothing is ever deleted, so the i-th AddVertex returns VertexHandle(i)
// and the i-th AddFace returns FaceHandle(i). Converters rely on this.

// VertexHandle references a vertex.
type VertexHandle int32

// HalfedgeHandle references a directed half-edge.
type HalfedgeHandle int32

// EdgeHandle references an undirected edge (a pair of half-edges).
type EdgeHandle int32

// FaceHandle references a face.
type FaceHandle int32

// Invalid handle values.
const (
	InvalidVertex   VertexHandle   = -1
	InvalidHalfedge HalfedgeHandle = -1
	InvalidEdge     EdgeHandle     = -1
	InvalidFace     FaceHandle     = -1
)

// IsValid reports whether h is not the invalid sentinel.
func (h VertexHandle) IsValid() bool { return h >= 0 }

// IsValid reports whether h is not the invalid sentinel.
func (h HalfedgeHandle) IsValid() bool { return h >= 0 }

// IsValid reports whether h is not the invalid sentinel.
func (h EdgeHandle) IsValid() bool { return h >= 0 }

// IsValid reports whether h is not the invalid sentinel.
func (h FaceHandle) IsValid() bool { return h >= 0 }

// Idx returns the handle as an int index.
func (h VertexHandle) Idx() int { return int(h) }

// Idx returns the handle as an int index.
func (h FaceHandle) Idx() int { return int(h) }
