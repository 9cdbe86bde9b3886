// Package primitive builds half-edge meshes for tests and the command
// line tool: small hand-made shapes and tessellated signed distance
// field solids.
package primitive

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Faultbox/meshkit/pkg/halfedge"
	"github.com/Faultbox/meshkit/pkg/math"
)

// ErrUnknownShape is returned for names ByName and Solid do not know.
var ErrUnknownShape = errors.New("unknown shape")

// Triangle returns a single counter-clockwise triangle in the XY plane.
func Triangle() *halfedge.Mesh {
	m := halfedge.New()
	a := m.AddVertex(math.V3(0, 0, 0))
	b := m.AddVertex(math.V3(1, 0, 0))
	c := m.AddVertex(math.V3(0, 1, 0))
	m.AddFace(a, b, c)
	return m
}

// Quad returns a unit square in the XY plane split along its diagonal.
func Quad() *halfedge.Mesh {
	m := halfedge.New()
	a := m.AddVertex(math.V3(0, 0, 0))
	b := m.AddVertex(math.V3(1, 0, 0))
	c := m.AddVertex(math.V3(1, 1, 0))
	d := m.AddVertex(math.V3(0, 1, 0))
	m.AddFace(a, b, c)
	m.AddFace(a, c, d)
	return m
}

// Tetrahedron returns a closed tetrahedron with outward-facing triangles.
func Tetrahedron() *halfedge.Mesh {
	m := halfedge.New()
	v0 := m.AddVertex(math.V3(0, 0, 0))
	v1 := m.AddVertex(math.V3(1, 0, 0))
	v2 := m.AddVertex(math.V3(0, 1, 0))
	v3 := m.AddVertex(math.V3(0, 0, 1))
	m.AddFace(v0, v2, v1)
	m.AddFace(v0, v1, v3)
	m.AddFace(v0, v3, v2)
	m.AddFace(v1, v2, v3)
	return m
}

// Cube returns an axis-aligned cube of the given edge length centered on
// the origin. Its six faces are quads; call Triangulate before bridging.
func Cube(size float32) *halfedge.Mesh {
	h := size / 2
	m := halfedge.New()
	var v [8]halfedge.VertexHandle
	for i := range v {
		x, y, z := -h, -h, -h
		if i&1 != 0 {
			x = h
		}
		if i&2 != 0 {
			y = h
		}
		if i&4 != 0 {
			z = h
		}
		v[i] = m.AddVertex(math.V3(x, y, z))
	}
	m.AddPolygon(v[0], v[2], v[3], v[1]) // -z
	m.AddPolygon(v[4], v[5], v[7], v[6]) // +z
	m.AddPolygon(v[0], v[1], v[5], v[4]) // -y
	m.AddPolygon(v[2], v[6], v[7], v[3]) // +y
	m.AddPolygon(v[0], v[4], v[6], v[2]) // -x
	m.AddPolygon(v[1], v[3], v[7], v[5]) // +x
	return m
}

var builders = map[string]func() *halfedge.Mesh{
	"triangle":    Triangle,
	"quad":        Quad,
	"tetrahedron": Tetrahedron,
	"cube":        func() *halfedge.Mesh { return Cube(1) },
}

// Names lists the shapes ByName accepts.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName builds a hand-made shape by name, triangulated.
func ByName(name string) (*halfedge.Mesh, error) {
	build, ok := builders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownShape, name, strings.Join(Names(), ", "))
	}
	m := build()
	if !m.IsTriangles() {
		m = m.Triangulate()
	}
	return m, nil
}
