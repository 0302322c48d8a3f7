package gpiochip

import (
	"sync"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeGPIO, "simulation", newSimulation)
}

// Simulation is an in-memory GPIO chip. Pins default to low and
// remember the last level written.
type Simulation struct {
	mu   sync.Mutex
	pins map[int]bool
}

func newSimulation(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	return &Simulation{pins: make(map[int]bool)}, nil
}

// SetPin drives the numbered pin high or low.
func (s *Simulation) SetPin(pin int, high bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins[pin] = high
	return nil
}

// Pin reports the last level written to the numbered pin.
// Unwritten pins read low.
func (s *Simulation) Pin(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pins[pin]
}
