package stirrer

import (
	"sync"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeStirrer, "simulation", newSimulation)
}

// Simulation records stirrer state in memory.
type Simulation struct {
	mu sync.Mutex
	on bool
}

func newSimulation(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	return &Simulation{}, nil
}

func (s *Simulation) StirrerOn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = true
	return nil
}

func (s *Simulation) StirrerOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = false
	return nil
}

// Running reports whether the stirrer is on. Used by telemetry and
// tests.
func (s *Simulation) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on
}
