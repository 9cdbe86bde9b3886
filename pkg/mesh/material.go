package mesh

// Material describes surface appearance. Texture ids are 1-based indices
// into Data.TextureImages; zero means no texture.
type Material struct {
	Name        string
	BaseColor   [4]float32
	Emissive    [3]float32
	Metallic    float32
	Roughness   float32
	AO          float32
	DoubleSided bool

	AlbedoTex            uint32
	NormalTex            uint32
	MetallicRoughnessTex uint32
	EmissiveTex          uint32
	AOTex                uint32

	AlbedoTexPath            string
	NormalTexPath            string
	MetallicRoughnessTexPath string
}

// DefaultMaterial returns a white, fully rough, non-metallic material.
func DefaultMaterial() Material {
	return Material{
		BaseColor: [4]float32{1, 1, 1, 1},
		Roughness: 1,
		AO:        1,
	}
}

// HasAlbedoTexture reports whether an albedo texture is bound.
func (m Material) HasAlbedoTexture() bool { return m.AlbedoTex != 0 }

// HasNormalTexture reports whether a normal map is bound.
func (m Material) HasNormalTexture() bool { return m.NormalTex != 0 }

// HasMetallicRoughnessTexture reports whether a metallic/roughness map is bound.
func (m Material) HasMetallicRoughnessTexture() bool { return m.MetallicRoughnessTex != 0 }

// Submesh is a range of the index buffer drawn with one material.
// StartIndex and IndexCount count individual indices, not triangles.
type Submesh struct {
	StartIndex    int
	IndexCount    int
	MaterialIndex int
}

// TextureImage is a decoded 8-bit image, row-major, Channels bytes per pixel.
type TextureImage struct {
	Pixels   []uint8
	Width    int
	Height   int
	Channels int
}

// clone returns a deep copy of the image.
func (t TextureImage) clone() TextureImage {
	t.Pixels = append([]uint8(nil), t.Pixels...)
	return t
}
