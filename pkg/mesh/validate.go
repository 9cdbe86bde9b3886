package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshkit/pkg/tensor"
)

// Validation errors.
var (
	ErrNoGeometry       = errors.New("mesh has no vertices or indices")
	ErrVertexShape      = errors.New("vertices must be [V,3] float32")
	ErrIndexShape       = errors.New("indices must be [F,3] int32")
	ErrAttributeShape   = errors.New("attribute shape does not match vertex count")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrSubmeshRange     = errors.New("submesh outside index buffer")
	ErrMaterialIndex    = errors.New("submesh material index out of range")
	ErrTextureReference = errors.New("material references missing texture image")
)

func checkGeometry(vertices, indices tensor.Tensor) error {
	if !vertices.IsValid() || !indices.IsValid() {
		return ErrNoGeometry
	}
	if vertices.NDim() != 2 || vertices.Dim(1) != 3 || vertices.DType() != tensor.Float32 {
		return fmt.Errorf("%w: got %v", ErrVertexShape, vertices)
	}
	if indices.NDim() != 2 || indices.Dim(1) != 3 || indices.DType() != tensor.Int32 {
		return fmt.Errorf("%w: got %v", ErrIndexShape, indices)
	}
	return nil
}

// Validate checks everything the bridge and renderers assume: geometry
// shapes, attribute row counts, index range, submesh ranges and material
// references. Loaders call it before handing a mesh to trusted code.
func (d *Data) Validate() error {
	if err := checkGeometry(d.vertices, d.indices); err != nil {
		return err
	}

	nv := d.VertexCount()
	attrs := []struct {
		name string
		attr Attribute
		cols int
	}{
		{"normals", d.normals, 3},
		{"tangents", d.tangents, 4},
		{"texcoords", d.texcoords, 2},
		{"colors", d.colors, 4},
	}
	for _, a := range attrs {
		t, ok := a.attr.Tensor()
		if !ok {
			continue
		}
		if t.NDim() != 2 || t.Dim(0) != nv || t.Dim(1) != a.cols || t.DType() != tensor.Float32 {
			return fmt.Errorf("%w: %s is %v, want [%d,%d] float32", ErrAttributeShape, a.name, t, nv, a.cols)
		}
	}

	if err := d.checkIndexRange(); err != nil {
		return err
	}

	total := d.FaceCount() * 3
	for i, s := range d.Submeshes {
		if s.StartIndex < 0 || s.IndexCount < 0 || s.StartIndex+s.IndexCount > total {
			return fmt.Errorf("%w: submesh %d covers [%d,%d) of %d", ErrSubmeshRange, i, s.StartIndex, s.StartIndex+s.IndexCount, total)
		}
		if len(d.Materials) > 0 && (s.MaterialIndex < 0 || s.MaterialIndex >= len(d.Materials)) {
			return fmt.Errorf("%w: submesh %d uses material %d of %d", ErrMaterialIndex, i, s.MaterialIndex, len(d.Materials))
		}
	}

	for i, m := range d.Materials {
		for _, id := range []uint32{m.AlbedoTex, m.NormalTex, m.MetallicRoughnessTex, m.EmissiveTex, m.AOTex} {
			if id != 0 && int(id) > len(d.TextureImages) {
				return fmt.Errorf("%w: material %d (%q) uses texture %d of %d", ErrTextureReference, i, m.Name, id, len(d.TextureImages))
			}
		}
	}
	return nil
}

func (d *Data) checkIndexRange() error {
	nv := int32(d.VertexCount())
	idx := d.indices.To(tensor.CPU).Int32s()
	for i, v := range idx {
		if v < 0 || v >= nv {
			return fmt.Errorf("%w: face %d corner %d is %d, vertex count %d", ErrIndexOutOfRange, i/3, i%3, v, nv)
		}
	}
	return nil
}
