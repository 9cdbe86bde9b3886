package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagDevice    = flag.String("device", "", "Tensor device: cpu, sim or gl")
	flagWeighting = flag.String("weighting", "", "Vertex normal weighting: uniform, area or angle")
	flagCells     = flag.Int("cells", 0, "Marching cubes resolution for SDF solids")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDevice != "" {
		cfg.Device.Kind = *flagDevice
	}
	if *flagWeighting != "" {
		cfg.Normals.Weighting = *flagWeighting
	}
	if *flagCells > 0 {
		cfg.Primitive.Cells = *flagCells
	}
}
