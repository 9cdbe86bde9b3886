package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/halfedge"
	"github.com/Faultbox/meshkit/pkg/tensor"
)

// ComputeNormals replaces the mesh normals with smooth vertex normals
// derived from face connectivity, using the half-edge store's default
// weighting. See ComputeNormalsWith.
func (d *Data) ComputeNormals() {
	d.ComputeNormalsWith(halfedge.WeightUniform)
}

// ComputeNormalsWith builds a transient half-edge store from the
// positions and indices, lets it average face normals into vertex
// normals under w, and stores the result as a new [V,3] normals tensor
// on the same device as the vertices. The generation grows by exactly one.
//
// Existing normals, texture coordinates and colors are ignored. Vertices
// with no faces get a zero normal. It panics on malformed geometry.
func (d *Data) ComputeNormalsWith(w halfedge.Weighting) {
	mustGeometry(d.vertices, d.indices)
	device := d.vertices.Device()

	topo := toTopology(d, false)
	topo.SetWeighting(w)
	topo.RequestVertexNormals()
	topo.RequestFaceNormals()
	topo.UpdateNormals()

	nv := d.VertexCount()
	normals := tensor.Empty([]int{nv, 3}, tensor.CPU, tensor.Float32)
	nacc := normals.Float32Accessor2D()
	for i := 0; i < nv; i++ {
		n := topo.Normal(halfedge.VertexHandle(i))
		nacc.Set(i, 0, n.X)
		nacc.Set(i, 1, n.Y)
		nacc.Set(i, 2, n.Z)
	}

	if device.IsAccelerator() {
		normals = normals.To(device)
	}

	replace(d.normals.t, normals)
	d.normals = Present(normals)
	gen := d.gen.bump()

	log.Debug("computed vertex normals",
		zap.Int("vertices", nv),
		zap.Int("faces", d.FaceCount()),
		zap.Stringer("weighting", w),
		zap.Stringer("device", device),
		zap.Uint32("generation", gen),
	)
}
