package gcode

import (
	"sync"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeGcode, "simulation", newSimulation)
}

// Simulation records g-code commands instead of sending them to a
// board. Dispenser tests inspect the recorded stream.
type Simulation struct {
	mu       sync.Mutex
	commands []string
}

func newSimulation(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	return &Simulation{}, nil
}

func (s *Simulation) WriteGcode(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, command)
	return nil
}

// Commands returns a copy of every command written so far.
func (s *Simulation) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.commands))
	copy(out, s.commands)
	return out
}
