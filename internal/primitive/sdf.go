package primitive

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/pkg/halfedge"
	"github.com/Faultbox/meshkit/pkg/math"
)

// ErrEmptySurface is returned when tessellation yields no usable triangles.
var ErrEmptySurface = errors.New("solid produced no surface")

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 64

// DefaultWeld is the distance below which tessellated vertices are merged.
const DefaultWeld = 1e-5

// SolidNames lists the solids Solid accepts.
func SolidNames() []string {
	return []string{"box", "cylinder", "sphere"}
}

// Solid returns a named signed distance field sized to fit a cube of
// edge length size centered on the origin.
func Solid(name string, size float64) (sdf.SDF3, error) {
	if size <= 0 {
		return nil, fmt.Errorf("solid size %g must be positive", size)
	}
	var (
		s   sdf.SDF3
		err error
	)
	switch strings.ToLower(name) {
	case "box":
		s, err = sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	case "sphere":
		s, err = sdf.Sphere3D(size / 2)
	case "cylinder":
		s, err = sdf.Cylinder3D(size, size/2, 0)
	default:
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownShape, name, strings.Join(SolidNames(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return s, nil
}

// Tessellate runs uniform marching cubes over s and welds the triangle
// soup into a half-edge mesh. Vertices closer than weld are merged, and
// triangles that collapse under the weld are dropped.
func Tessellate(s sdf.SDF3, cells int, weld float64) (*halfedge.Mesh, error) {
	if cells <= 0 {
		cells = DefaultCells
	}
	if weld <= 0 {
		weld = DefaultWeld
	}

	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	m := halfedge.New()
	index := make(map[[3]int64]halfedge.VertexHandle, len(tris))
	vertex := func(p v3.Vec) halfedge.VertexHandle {
		key := [3]int64{
			int64(gomath.Round(p.X / weld)),
			int64(gomath.Round(p.Y / weld)),
			int64(gomath.Round(p.Z / weld)),
		}
		if vh, ok := index[key]; ok {
			return vh
		}
		vh := m.AddVertex(math.V3(float32(p.X), float32(p.Y), float32(p.Z)))
		index[key] = vh
		return vh
	}

	dropped := 0
	for _, tri := range tris {
		a, b, c := vertex(tri[0]), vertex(tri[1]), vertex(tri[2])
		if a == b || b == c || a == c {
			dropped++
			continue
		}
		m.AddFace(a, b, c)
	}

	logger.Debug("tessellated solid",
		zap.Int("cells", cells),
		zap.Int("triangles", len(tris)),
		zap.Int("vertices", m.NVertices()),
		zap.Int("faces", m.NFaces()),
		zap.Int("dropped", dropped),
	)

	if m.NFaces() == 0 {
		return nil, ErrEmptySurface
	}
	return m, nil
}

// SolidMesh builds and tessellates a named solid.
func SolidMesh(name string, size float64, cells int) (*halfedge.Mesh, error) {
	s, err := Solid(name, size)
	if err != nil {
		return nil, err
	}
	return Tessellate(s, cells, DefaultWeld)
}
