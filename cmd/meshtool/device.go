package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/gpu"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/pkg/tensor"
)

// device is the tensor device selected by -device plus what it needs
// torn down.
type device struct {
	tensor.Device
	gl    *gpu.Backend
	close func()
}

func openDevice(cfg *config.Config) (*device, error) {
	switch cfg.Device.Kind {
	case config.DeviceCPU:
		return &device{Device: tensor.CPU, close: func() {}}, nil
	case config.DeviceSim:
		sim := tensor.NewSimulatedBackend("sim")
		return &device{
			Device: tensor.On(sim),
			close: func() {
				logger.Debug("simulated device closed",
					zap.Int64("uploads", sim.Uploads()),
					zap.Int64("downloads", sim.Downloads()),
					zap.Int("live", sim.Live()),
				)
			},
		}, nil
	case config.DeviceGL:
		ctx, err := gpu.Open()
		if err != nil {
			return nil, err
		}
		b := gpu.NewBackend(ctx)
		return &device{
			Device: b.Device(),
			gl:     b,
			close: func() {
				if n := b.Live(); n > 0 {
					logger.Warn("GL buffers still live at shutdown", zap.Int("buffers", n))
				}
				ctx.Close()
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown device %q", cfg.Device.Kind)
	}
}
