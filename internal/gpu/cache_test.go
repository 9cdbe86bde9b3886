package gpu

import (
	"runtime"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/tensor"
)

func TestLayout(t *testing.T) {
	verts := tensor.FromFloat32(make([]float32, 9), 3, 3)
	d := mesh.New(verts, tensor.FromInt32([]int32{0, 1, 2}, 1, 3))

	if got := layout(d); len(got) != 1 || got[0].loc != LocPosition || got[0].comps != 3 {
		t.Fatalf("layout() = %+v, want positions only", got)
	}

	d.SetColors(tensor.Ones([]int{3, 4}, tensor.CPU, tensor.Float32))
	d.SetNormals(tensor.Zeros([]int{3, 3}, tensor.CPU, tensor.Float32))

	got := layout(d)
	want := []struct {
		loc   uint32
		comps int32
	}{
		{LocPosition, 3},
		{LocNormal, 3},
		{LocColor, 4},
	}
	if len(got) != len(want) {
		t.Fatalf("layout() has %d streams, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].loc != w.loc || got[i].comps != w.comps {
			t.Errorf("stream %d = %s at %d with %d comps, want %d with %d",
				i, got[i].name, got[i].loc, got[i].comps, w.loc, w.comps)
		}
	}
}

func TestBufferIDRejectsForeignTensors(t *testing.T) {
	b := &Backend{}
	if _, ok := b.BufferID(tensor.Ones([]int{2, 3}, tensor.CPU, tensor.Float32)); ok {
		t.Error("host tensor reported a GL buffer")
	}
	sim := tensor.NewSimulatedBackend("sim")
	if _, ok := b.BufferID(tensor.Ones([]int{2, 3}, tensor.On(sim), tensor.Float32)); ok {
		t.Error("simulated tensor reported a GL buffer")
	}
	if _, ok := b.BufferID(tensor.Tensor{}); ok {
		t.Error("invalid tensor reported a GL buffer")
	}
}

func TestUploadTextureRejectsBadImages(t *testing.T) {
	tests := []struct {
		name string
		img  mesh.TextureImage
	}{
		{"empty", mesh.TextureImage{Channels: 4}},
		{"rgb", mesh.TextureImage{Pixels: make([]uint8, 12), Width: 2, Height: 2, Channels: 3}},
		{"short", mesh.TextureImage{Pixels: make([]uint8, 8), Width: 2, Height: 2, Channels: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var set TextureSet
			if _, err := set.Upload(tt.img); err == nil {
				t.Fatal("Upload() succeeded, want error")
			}
			if set.Len() != 0 {
				t.Errorf("Len() = %d after failed upload, want 0", set.Len())
			}
			set.Close()
		})
	}
}

func TestTextureSetClose(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx, err := Open()
	if err != nil {
		t.Skipf("no GL context: %v", err)
	}
	defer ctx.Close()

	img := mesh.TextureImage{Pixels: make([]uint8, 2*2*4), Width: 2, Height: 2, Channels: 4}
	var set TextureSet
	var ids []uint32
	for range 3 {
		id, err := set.Upload(img)
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if !gl.IsTexture(id) {
			t.Fatalf("texture %d not live after upload", id)
		}
		ids = append(ids, id)
	}
	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}

	set.Close()
	if set.Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", set.Len())
	}
	for _, id := range ids {
		if gl.IsTexture(id) {
			t.Errorf("texture %d still live after Close", id)
		}
	}
}
