package thermometer

import (
	"sync"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeThermometer, "simulation", newSimulation)
}

// defaultStartTemperature is the ambient the simulated rig starts at.
const defaultStartTemperature = 24.0

// Simulation is an in-memory thermometer. It holds whatever
// temperature was last written; the simulated temperature controller
// nudges it on each read to model heating and cooling.
type Simulation struct {
	mu      sync.Mutex
	celsius float64
}

func newSimulation(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	start, err := desc.FloatParamDefault("temp", defaultStartTemperature)
	if err != nil {
		return nil, err
	}
	return &Simulation{celsius: start}, nil
}

// Temperature returns the current simulated reading.
func (s *Simulation) Temperature() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.celsius, nil
}

// Nudge shifts the simulated temperature by delta degrees.
func (s *Simulation) Nudge(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.celsius += delta
}

// SetTemperature overrides the simulated reading. Used by tests to
// put the rig in a known state.
func (s *Simulation) SetTemperature(celsius float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.celsius = celsius
}
