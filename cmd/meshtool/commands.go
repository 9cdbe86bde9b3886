package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/gpu"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/primitive"
	"github.com/Faultbox/meshkit/internal/texture"
	"github.com/Faultbox/meshkit/pkg/halfedge"
	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/tensor"
)

// loadShape builds a hand-made shape or tessellates a named solid.
func loadShape(cfg *config.Config, name string) (*halfedge.Mesh, error) {
	if slices.Contains(primitive.SolidNames(), strings.ToLower(name)) {
		return primitive.SolidMesh(name, cfg.Primitive.Size, cfg.Primitive.Cells)
	}
	return primitive.ByName(name)
}

// loadMesh builds a shape and moves it onto the configured device.
func loadMesh(cfg *config.Config, dev *device, name string) (*mesh.Data, error) {
	topo, err := loadShape(cfg, name)
	if err != nil {
		return nil, err
	}
	host := mesh.FromTopology(topo)
	if err := host.Validate(); err != nil {
		return nil, err
	}
	return host.To(dev.Device), nil
}

func weighting(cfg *config.Config) halfedge.Weighting {
	// Load already validated the name.
	w, _ := halfedge.ParseWeighting(cfg.Normals.Weighting)
	return w
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: meshtool info <shape>")
	}
	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer dev.close()

	d, err := loadMesh(cfg, dev, args[0])
	if err != nil {
		return err
	}
	defer d.Release()

	b := d.Bounds()
	fmt.Printf("Shape:    %s\n", args[0])
	fmt.Printf("Vertices: %d\n", d.VertexCount())
	fmt.Printf("Faces:    %d\n", d.FaceCount())
	fmt.Printf("Device:   %v\n", d.Device())
	fmt.Printf("Bounds:   %v .. %v\n", b.Min.Array(), b.Max.Array())
	fmt.Printf("Size:     %v\n", b.Size().Array())
	fmt.Printf("Normals:  %t\n", d.HasNormals())
	return nil
}

func cmdNormals(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("normals", flag.ExitOnError)
	limit := fs.Int("n", 0, "Print at most N normals (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: meshtool normals [-n N] <shape>")
	}
	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer dev.close()

	d, err := loadMesh(cfg, dev, fs.Arg(0))
	if err != nil {
		return err
	}
	defer d.Release()

	w := weighting(cfg)
	d.ComputeNormalsWith(w)

	normals := d.Normals().MustTensor().To(tensor.CPU).Float32Accessor2D()
	fmt.Printf("Vertex normals (%s weighting, generation %d):\n", w, d.Generation())
	for i := 0; i < normals.Rows(); i++ {
		if *limit > 0 && i >= *limit {
			fmt.Printf("  ... %d more\n", normals.Rows()-i)
			break
		}
		fmt.Printf("  %4d  % .6f % .6f % .6f\n", i, normals.At(i, 0), normals.At(i, 1), normals.At(i, 2))
	}
	return nil
}

func cmdRoundTrip(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: meshtool roundtrip <shape>")
	}
	topo, err := loadShape(cfg, args[0])
	if err != nil {
		return err
	}

	first := mesh.FromTopology(topo)
	second := mesh.FromTopology(mesh.ToTopology(first))

	verts := slices.Equal(first.Vertices().Float32s(), second.Vertices().Float32s())
	faces := slices.Equal(first.Indices().Int32s(), second.Indices().Int32s())

	fmt.Printf("Shape:     %s (%d vertices, %d faces)\n", args[0], first.VertexCount(), first.FaceCount())
	fmt.Printf("Positions: %s\n", verdict(verts))
	fmt.Printf("Indices:   %s\n", verdict(faces))
	if !verts || !faces {
		return fmt.Errorf("round trip of %s changed the mesh", args[0])
	}
	return nil
}

func verdict(ok bool) string {
	if ok {
		return "identical"
	}
	return "CHANGED"
}

func cmdSDF(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sdf", flag.ExitOnError)
	shape := fs.String("shape", cfg.Primitive.Shape, "Solid: "+strings.Join(primitive.SolidNames(), ", "))
	size := fs.Float64("size", cfg.Primitive.Size, "Edge length of the bounding cube")
	fs.Parse(args)

	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer dev.close()

	solid, err := primitive.Solid(*shape, *size)
	if err != nil {
		return err
	}
	topo, err := primitive.Tessellate(solid, cfg.Primitive.Cells, primitive.DefaultWeld)
	if err != nil {
		return err
	}
	d := mesh.FromTopology(topo).To(dev.Device)
	defer d.Release()

	// A consumer waits for the new generation the way a render thread would.
	watcher := d.Watch()
	defer watcher.Close()

	d.ComputeNormalsWith(weighting(cfg))
	gen := <-watcher.C()

	fmt.Printf("Solid:      %s (size %g, %d cells)\n", *shape, *size, cfg.Primitive.Cells)
	fmt.Printf("Vertices:   %d\n", d.VertexCount())
	fmt.Printf("Faces:      %d\n", d.FaceCount())
	fmt.Printf("Device:     %v\n", d.Device())
	fmt.Printf("Generation: %d\n", gen)

	if dev.gl != nil {
		cache := gpu.NewVertexCache(dev.gl)
		defer cache.Close()
		va, err := cache.Get(d)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded:   VAO %d, %d indices\n", va.VAO, va.IndexCount)
	}
	return nil
}

func cmdTexture(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: meshtool texture <file>...")
	}
	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}
	defer dev.close()

	k := cfg.Textures.Key
	loader := texture.NewLoader(texture.Options{
		ColorKey:  cfg.Textures.ColorKey,
		Key:       color.RGBA{R: k[0], G: k[1], B: k[2], A: 255},
		Tolerance: cfg.Textures.Tolerance,
		MaxSize:   cfg.Textures.MaxSize,
		FlipY:     cfg.Textures.FlipY,
	}, logger.Named("texture"))

	var uploaded gpu.TextureSet
	defer uploaded.Close()

	failed := 0
	for _, path := range args {
		tex, err := loader.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: %dx%d, %d channels, %d bytes\n", path, tex.Width, tex.Height, tex.Channels, len(tex.Pixels))

		if dev.gl != nil {
			id, err := uploaded.Upload(*tex)
			if err != nil {
				return err
			}
			logger.Debug("texture uploaded", zap.String("path", path), zap.Uint32("id", id))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d textures failed", failed, len(args))
	}
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	user := fs.Bool("user", false, "Write to the user config directory")
	fs.Parse(args)

	if *user {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.UserPath())
		return nil
	}

	path := fs.Arg(0)
	if path == "" {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		return nil
	}

	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
