// meshtool builds, converts and inspects meshes from the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	err = logger.InitWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File: logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		},
		Console: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	mesh.SetLogger(logger.Named("mesh"))

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, args := args[0], args[1:]

	var run func(*config.Config, []string) error
	switch command {
	case "info":
		run = cmdInfo
	case "normals":
		run = cmdNormals
	case "roundtrip":
		run = cmdRoundTrip
	case "sdf":
		run = cmdSDF
	case "texture", "tex":
		run = cmdTexture
	case "config":
		run = cmdConfig
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Debug("running command", zap.String("command", command), zap.String("device", cfg.Device.Kind))
	if err := run(cfg, args); err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - mesh data model utility

Usage:
  meshtool [global options] <command> [options]

Global options:
  -config <path>     Config file (default ./meshtool.yaml)
  -debug             Enable debug logging
  -device <kind>     Tensor device: cpu, sim or gl
  -weighting <name>  Normal weighting: uniform, area or angle
  -cells <n>         Marching cubes resolution for SDF solids

Commands:
  info <shape>               Show a mesh summary
  normals [-n N] <shape>     Compute and print vertex normals
  roundtrip <shape>          Check the half-edge conversion is lossless
  sdf [-shape s] [-size x]   Tessellate an SDF solid and compute normals
  texture <file>...          Decode images into RGBA textures
  config [-user] [path]      Print or write the effective config

Shapes:
  triangle, quad, tetrahedron, cube, box, sphere, cylinder

Examples:
  meshtool info cube
  meshtool -device sim normals tetrahedron
  meshtool -cells 32 sdf -shape cylinder -size 2
  meshtool texture albedo.png skin.tga`)
}
