// Package mesh holds the columnar triangle mesh used for GPU upload and
// its conversion to and from a half-edge topology store.
//
// Misuse by trusted callers (bad shapes, out-of-range indices,
// non-triangular faces) panics. Code that accepts external input should
// call NewChecked or Data.Validate first; those return errors instead.
package mesh

import (
	"fmt"
	"slices"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/tensor"
)

// Attribute is an optional per-vertex tensor. It is either absent or
// present with at least one element; there is no allocated-but-empty state.
type Attribute struct {
	t       tensor.Tensor
	present bool
}

// Absent returns the empty attribute.
func Absent() Attribute {
	return Attribute{}
}

// Present wraps t. Invalid or zero-element tensors yield Absent.
func Present(t tensor.Tensor) Attribute {
	if !t.IsValid() || t.Numel() == 0 {
		return Attribute{}
	}
	return Attribute{t: t, present: true}
}

// IsPresent reports whether the attribute holds data.
func (a Attribute) IsPresent() bool {
	return a.present
}

// Tensor returns the data and whether it is present.
func (a Attribute) Tensor() (tensor.Tensor, bool) {
	return a.t, a.present
}

// MustTensor returns the data and panics if the attribute is absent.
func (a Attribute) MustTensor() tensor.Tensor {
	if !a.present {
		panic("mesh: attribute is absent")
	}
	return a.t
}

func (a Attribute) to(device tensor.Device) Attribute {
	if !a.present {
		return a
	}
	return Attribute{t: copyTo(a.t, device), present: true}
}

// copyTo returns a copy of t on device that shares no storage with t.
func copyTo(t tensor.Tensor, device tensor.Device) tensor.Tensor {
	if t.Device() == device {
		return t.Clone()
	}
	return t.To(device)
}

// replace releases prev unless next holds the same storage.
func replace(prev, next tensor.Tensor) {
	if b := prev.Buffer(); b != nil && b != next.Buffer() {
		prev.Release()
	}
}

// Data is a columnar triangle mesh. Row i of every per-vertex attribute
// describes the same vertex as row i of the vertex positions.
//
// Data must not be copied by value; pass *Data and use To for an
// explicit duplicate. A Data has a single writer; concurrent readers of
// an unchanging mesh are safe.
//
// The mesh owns the tensors handed to it. Replacing or clearing one
// releases its accelerator memory, so callers must not keep using a
// tensor after swapping it out.
type Data struct {
	vertices tensor.Tensor // [V,3] float32
	indices  tensor.Tensor // [F,3] int32

	normals   Attribute // [V,3] float32
	tangents  Attribute // [V,4] float32, xyz + handedness
	texcoords Attribute // [V,2] float32
	colors    Attribute // [V,4] float32, RGBA in [0,1]

	Materials     []Material
	Submeshes     []Submesh
	TextureImages []TextureImage

	gen generation
}

// New creates a mesh from [V,3] float32 positions and [F,3] int32
// triangle indices. It panics on any other shape or dtype.
func New(vertices, indices tensor.Tensor) *Data {
	mustGeometry(vertices, indices)
	return &Data{vertices: vertices, indices: indices}
}

// NewChecked is New for untrusted input: it reports bad shapes and
// out-of-range indices as errors instead of panicking.
func NewChecked(vertices, indices tensor.Tensor) (*Data, error) {
	if err := checkGeometry(vertices, indices); err != nil {
		return nil, err
	}
	d := &Data{vertices: vertices, indices: indices}
	if err := d.checkIndexRange(); err != nil {
		return nil, err
	}
	return d, nil
}

func mustGeometry(vertices, indices tensor.Tensor) {
	if err := checkGeometry(vertices, indices); err != nil {
		panic("mesh: " + err.Error())
	}
}

// Vertices returns the [V,3] position tensor.
func (d *Data) Vertices() tensor.Tensor { return d.vertices }

// Indices returns the [F,3] triangle index tensor.
func (d *Data) Indices() tensor.Tensor { return d.indices }

// VertexCount returns V, or 0 when there are no vertices.
func (d *Data) VertexCount() int {
	if !d.vertices.IsValid() {
		return 0
	}
	return d.vertices.Dim(0)
}

// FaceCount returns F, or 0 when there are no indices.
func (d *Data) FaceCount() int {
	if !d.indices.IsValid() {
		return 0
	}
	return d.indices.Dim(0)
}

// Normals returns the per-vertex normals.
func (d *Data) Normals() Attribute { return d.normals }

// Tangents returns the per-vertex tangents.
func (d *Data) Tangents() Attribute { return d.tangents }

// TexCoords returns the per-vertex texture coordinates.
func (d *Data) TexCoords() Attribute { return d.texcoords }

// Colors returns the per-vertex colors.
func (d *Data) Colors() Attribute { return d.colors }

// HasNormals reports whether normals are present.
func (d *Data) HasNormals() bool { return d.normals.IsPresent() }

// HasTangents reports whether tangents are present.
func (d *Data) HasTangents() bool { return d.tangents.IsPresent() }

// HasTexCoords reports whether texture coordinates are present.
func (d *Data) HasTexCoords() bool { return d.texcoords.IsPresent() }

// HasColors reports whether colors are present.
func (d *Data) HasColors() bool { return d.colors.IsPresent() }

// SetGeometry replaces positions and indices. Attributes whose row count
// no longer matches are the caller's responsibility.
func (d *Data) SetGeometry(vertices, indices tensor.Tensor) {
	mustGeometry(vertices, indices)
	replace(d.vertices, vertices)
	replace(d.indices, indices)
	d.vertices = vertices
	d.indices = indices
	d.gen.bump()
}

// SetNormals stores [V,3] normals. An empty tensor clears them.
func (d *Data) SetNormals(t tensor.Tensor) {
	replace(d.normals.t, t)
	d.normals = Present(t)
	d.gen.bump()
}

// SetTangents stores [V,4] tangents. An empty tensor clears them.
func (d *Data) SetTangents(t tensor.Tensor) {
	replace(d.tangents.t, t)
	d.tangents = Present(t)
	d.gen.bump()
}

// SetTexCoords stores [V,2] texture coordinates. An empty tensor clears them.
func (d *Data) SetTexCoords(t tensor.Tensor) {
	replace(d.texcoords.t, t)
	d.texcoords = Present(t)
	d.gen.bump()
}

// SetColors stores [V,4] RGBA colors. An empty tensor clears them.
func (d *Data) SetColors(t tensor.Tensor) {
	replace(d.colors.t, t)
	d.colors = Present(t)
	d.gen.bump()
}

// ClearNormals drops the normals.
func (d *Data) ClearNormals() { d.SetNormals(tensor.Tensor{}) }

// ClearTangents drops the tangents.
func (d *Data) ClearTangents() { d.SetTangents(tensor.Tensor{}) }

// ClearTexCoords drops the texture coordinates.
func (d *Data) ClearTexCoords() { d.SetTexCoords(tensor.Tensor{}) }

// ClearColors drops the colors.
func (d *Data) ClearColors() { d.SetColors(tensor.Tensor{}) }

// Generation returns the mutation counter. It starts at 0 and grows by
// one for every change to vertex or attribute content.
func (d *Data) Generation() uint32 {
	return d.gen.load()
}

// MarkDirty bumps the generation after in-place edits of the mesh's tensors.
func (d *Data) MarkDirty() {
	d.gen.bump()
}

// Watch subscribes to generation changes. Call Close on the watcher when done.
func (d *Data) Watch() *Watcher {
	return d.gen.watch()
}

// To returns a copy of the mesh with every tensor on device. The copy
// never shares storage with d, even when d already lives on device, so
// either mesh may be released independently. Absent attributes stay
// absent; materials, submeshes and texture images are copied and the
// generation is carried over.
func (d *Data) To(device tensor.Device) *Data {
	out := &Data{
		normals:       d.normals.to(device),
		tangents:      d.tangents.to(device),
		texcoords:     d.texcoords.to(device),
		colors:        d.colors.to(device),
		Materials:     slices.Clone(d.Materials),
		Submeshes:     slices.Clone(d.Submeshes),
		TextureImages: make([]TextureImage, len(d.TextureImages)),
	}
	if d.vertices.IsValid() {
		out.vertices = copyTo(d.vertices, device)
	}
	if d.indices.IsValid() {
		out.indices = copyTo(d.indices, device)
	}
	for i, img := range d.TextureImages {
		out.TextureImages[i] = img.clone()
	}
	out.gen.value.Store(d.gen.load())
	return out
}

// Device returns where the vertex positions live.
func (d *Data) Device() tensor.Device {
	return d.vertices.Device()
}

// Release frees accelerator memory held by the mesh's tensors.
func (d *Data) Release() {
	d.vertices.Release()
	d.indices.Release()
	for _, a := range []Attribute{d.normals, d.tangents, d.texcoords, d.colors} {
		if t, ok := a.Tensor(); ok {
			t.Release()
		}
	}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the box extent.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Bounds returns the bounding box of the vertex positions. A mesh with
// no vertices has a zero box.
func (d *Data) Bounds() Bounds {
	if d.VertexCount() == 0 {
		return Bounds{}
	}
	acc := d.vertices.To(tensor.CPU).Float32Accessor2D()
	first := math.V3(acc.At(0, 0), acc.At(0, 1), acc.At(0, 2))
	b := Bounds{Min: first, Max: first}
	for i := 1; i < acc.Rows(); i++ {
		p := math.V3(acc.At(i, 0), acc.At(i, 1), acc.At(i, 2))
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// String summarizes the mesh.
func (d *Data) String() string {
	return fmt.Sprintf("MeshData(vertices=%d, faces=%d, normals=%t, texcoords=%t, colors=%t, device=%v, gen=%d)",
		d.VertexCount(), d.FaceCount(), d.HasNormals(), d.HasTexCoords(), d.HasColors(), d.Device(), d.Generation())
}
