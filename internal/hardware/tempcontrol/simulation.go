package tempcontrol

import (
	"fmt"
	"sync"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeTempController, "simulation", newSimulation)
}

// Per-read temperature deltas for the simulated jacket. Each
// Temperature() call moves the simulated reading one step, so control
// loops see the rig respond without any real time passing.
const (
	simHeatStep  = 1.0
	simCoolStep  = -1.0
	simDriftStep = 0.1

	simAmbient = 24.0
)

// nudger is implemented by the simulated thermometer.
type nudger interface {
	Nudge(delta float64)
}

// Simulation models the reactor jacket in memory. Actuator switches
// are recorded, and each temperature read advances the simulated
// temperature: up while heating, down while cooling, drifting toward
// ambient otherwise.
type Simulation struct {
	mu         sync.Mutex
	heater     bool
	heaterPump bool
	cooler     bool

	therm   hardware.Thermometer
	minTemp float64
	maxTemp float64
	pid     *hardware.PIDConfig
}

func newSimulation(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	therm, err := thermometerDep(desc, deps)
	if err != nil {
		return nil, err
	}

	minTemp, err := desc.FloatParamDefault("minTemp", -20)
	if err != nil {
		return nil, err
	}
	maxTemp, err := desc.FloatParamDefault("maxTemp", 50)
	if err != nil {
		return nil, err
	}
	pid, err := desc.PIDParam()
	if err != nil {
		return nil, err
	}

	return &Simulation{
		therm:   therm,
		minTemp: minTemp,
		maxTemp: maxTemp,
		pid:     pid,
	}, nil
}

// thermometerDep finds the thermometer among a controller's resolved
// dependencies. Shared by all backends in this package.
func thermometerDep(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Thermometer, error) {
	for _, dep := range deps {
		if therm, ok := dep.(hardware.Thermometer); ok {
			return therm, nil
		}
	}
	return nil, fmt.Errorf("%w: %s requires a thermometer dependency", hardware.ErrBadParameter, desc.ID)
}

func (s *Simulation) HeaterOn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heater = true
	return nil
}

func (s *Simulation) HeaterOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heater = false
	return nil
}

func (s *Simulation) HeaterPumpOn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heaterPump = true
	return nil
}

func (s *Simulation) HeaterPumpOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heaterPump = false
	return nil
}

func (s *Simulation) CoolerOn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooler = true
	return nil
}

func (s *Simulation) CoolerOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooler = false
	return nil
}

// Temperature reads the thermometer, then advances the simulation one
// step based on current actuator state.
func (s *Simulation) Temperature() (float64, error) {
	reading, err := s.therm.Temperature()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	heater, cooler := s.heater, s.cooler
	s.mu.Unlock()

	if n, ok := s.therm.(nudger); ok {
		switch {
		case heater:
			n.Nudge(simHeatStep)
		case cooler:
			n.Nudge(simCoolStep)
		case reading > simAmbient:
			n.Nudge(-simDriftStep)
		case reading < simAmbient:
			n.Nudge(simDriftStep)
		}
	}

	return reading, nil
}

func (s *Simulation) PIDConfig() *hardware.PIDConfig {
	return s.pid
}

func (s *Simulation) TemperatureBounds() (float64, float64) {
	return s.minTemp, s.maxTemp
}

// State reports the current actuator switches. Used by telemetry and
// tests.
func (s *Simulation) State() (heater, heaterPump, cooler bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heater, s.heaterPump, s.cooler
}
