package mesh

import (
	"errors"
	"testing"

	"github.com/Faultbox/meshkit/pkg/tensor"
)

func TestNewChecked(t *testing.T) {
	verts := tensor.FromFloat32(make([]float32, 9), 3, 3)

	tests := []struct {
		name    string
		verts   tensor.Tensor
		indices tensor.Tensor
		want    error
	}{
		{"ok", verts, tensor.FromInt32([]int32{0, 1, 2}, 1, 3), nil},
		{"missing", tensor.Tensor{}, tensor.FromInt32([]int32{0, 1, 2}, 1, 3), ErrNoGeometry},
		{"vertex shape", tensor.FromFloat32(make([]float32, 8), 2, 4), tensor.FromInt32([]int32{0, 1, 2}, 1, 3), ErrVertexShape},
		{"index shape", verts, tensor.FromInt32([]int32{0, 1}, 1, 2), ErrIndexShape},
		{"index range", verts, tensor.FromInt32([]int32{0, 1, 3}, 1, 3), ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewChecked(tt.verts, tt.indices)
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewChecked() error = %v, want %v", err, tt.want)
			}
			if tt.want == nil && d.FaceCount() != 1 {
				t.Errorf("FaceCount() = %d, want 1", d.FaceCount())
			}
			if tt.want != nil && d != nil {
				t.Error("NewChecked() returned a mesh with an error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Data)
		want   error
	}{
		{"valid", func(*Data) {}, nil},
		{"normal rows", func(d *Data) {
			d.SetNormals(tensor.Ones([]int{2, 3}, tensor.CPU, tensor.Float32))
		}, ErrAttributeShape},
		{"color cols", func(d *Data) {
			d.SetColors(tensor.Ones([]int{4, 3}, tensor.CPU, tensor.Float32))
		}, ErrAttributeShape},
		{"submesh range", func(d *Data) {
			d.Submeshes = []Submesh{{StartIndex: 3, IndexCount: 6}}
		}, ErrSubmeshRange},
		{"material index", func(d *Data) {
			d.Materials = []Material{DefaultMaterial()}
			d.Submeshes = []Submesh{{StartIndex: 0, IndexCount: 6, MaterialIndex: 1}}
		}, ErrMaterialIndex},
		{"texture reference", func(d *Data) {
			mat := DefaultMaterial()
			mat.AlbedoTex = 1
			d.Materials = []Material{mat}
		}, ErrTextureReference},
		{"texture present", func(d *Data) {
			mat := DefaultMaterial()
			mat.AlbedoTex = 1
			d.Materials = []Material{mat}
			d.TextureImages = []TextureImage{{Pixels: make([]uint8, 4), Width: 1, Height: 1, Channels: 4}}
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := makeQuad()
			tt.mutate(d)
			if err := d.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateIndexOnAccelerator(t *testing.T) {
	sim := tensor.NewSimulatedBackend("sim")
	verts := tensor.FromFloat32(make([]float32, 9), 3, 3)
	d := New(verts, tensor.FromInt32([]int32{2, 1, 7}, 1, 3)).To(tensor.On(sim))
	if err := d.Validate(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Validate() = %v, want %v", err, ErrIndexOutOfRange)
	}
}
