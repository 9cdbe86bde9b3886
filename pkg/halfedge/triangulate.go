package halfedge

// Triangulate returns a copy of m whose polygons are split into triangle
// fans around each polygon's first vertex. Vertex handles, positions and
// vertex attributes are unchanged. Face handles of the result follow the
// order of m's faces; face normals are carried to every fan triangle.
func (m *Mesh) Triangulate() *Mesh {
	out := New()
	out.weighting = m.weighting
	for _, p := range m.points {
		out.AddVertex(p)
	}

	if m.vertexNormals.available() {
		out.RequestVertexNormals()
		copy(out.vertexNormals.data, m.vertexNormals.data)
	}
	if m.vertexTexCoords.available() {
		out.RequestVertexTexCoords2D()
		copy(out.vertexTexCoords.data, m.vertexTexCoords.data)
	}
	if m.vertexColors.available() {
		out.RequestVertexColors(m.colorFormat)
		copy(out.vertexColors.data, m.vertexColors.data)
	}
	if m.faceNormals.available() {
		out.RequestFaceNormals()
	}

	vs := make([]VertexHandle, 0, 8)
	for f := range m.Faces() {
		vs = vs[:0]
		for v := range m.FaceVertices(f) {
			vs = append(vs, v)
		}
		for i := 1; i+1 < len(vs); i++ {
			nf := out.AddFace(vs[0], vs[i], vs[i+1])
			if m.faceNormals.available() {
				out.faceNormals.data[nf] = m.faceNormals.data[f]
			}
		}
	}
	return out
}
