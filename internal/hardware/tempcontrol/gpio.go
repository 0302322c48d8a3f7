package tempcontrol

import (
	"fmt"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeTempController, "gpio", newGPIO)
}

// GPIO switches heater, heater pump and cooler relays through a gpio
// chip dependency, and reads temperature from a thermometer
// dependency.
//
// Required params: heaterPin, heaterPumpPin, coolerPin.
// Optional: minTemp, maxTemp, pid.
type GPIO struct {
	chip  hardware.GPIOChip
	therm hardware.Thermometer

	heaterPin     int
	heaterPumpPin int
	coolerPin     int

	minTemp float64
	maxTemp float64
	pid     *hardware.PIDConfig
}

func newGPIO(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	therm, err := thermometerDep(desc, deps)
	if err != nil {
		return nil, err
	}

	chip, err := chipDep(desc, deps)
	if err != nil {
		return nil, err
	}

	heaterPin, err := desc.IntParam("heaterPin")
	if err != nil {
		return nil, err
	}
	heaterPumpPin, err := desc.IntParam("heaterPumpPin")
	if err != nil {
		return nil, err
	}
	coolerPin, err := desc.IntParam("coolerPin")
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

	g := &GPIO{
		chip:          chip,
		therm:         therm,
		heaterPin:     heaterPin,
		heaterPumpPin: heaterPumpPin,
		coolerPin:     coolerPin,
		minTemp:       minTemp,
		maxTemp:       maxTemp,
		pid:           pid,
	}

	// Known-safe initial state: everything off.
	for _, pin := range []int{heaterPin, heaterPumpPin, coolerPin} {
		if err := chip.SetPin(pin, false); err != nil {
			return nil, fmt.Errorf("initialising pin %d: %w", pin, err)
		}
	}

	return g, nil
}

// chipDep finds the gpio chip among a device's resolved dependencies.
func chipDep(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.GPIOChip, error) {
	for _, dep := range deps {
		if chip, ok := dep.(hardware.GPIOChip); ok {
			return chip, nil
		}
	}
	return nil, fmt.Errorf("%w: %s requires a gpio dependency", hardware.ErrBadParameter, desc.ID)
}

func (g *GPIO) HeaterOn() error      { return g.chip.SetPin(g.heaterPin, true) }
func (g *GPIO) HeaterOff() error     { return g.chip.SetPin(g.heaterPin, false) }
func (g *GPIO) HeaterPumpOn() error  { return g.chip.SetPin(g.heaterPumpPin, true) }
func (g *GPIO) HeaterPumpOff() error { return g.chip.SetPin(g.heaterPumpPin, false) }
func (g *GPIO) CoolerOn() error      { return g.chip.SetPin(g.coolerPin, true) }
func (g *GPIO) CoolerOff() error     { return g.chip.SetPin(g.coolerPin, false) }

func (g *GPIO) Temperature() (float64, error) {
	return g.therm.Temperature()
}

func (g *GPIO) PIDConfig() *hardware.PIDConfig {
	return g.pid
}

func (g *GPIO) TemperatureBounds() (float64, float64) {
	return g.minTemp, g.maxTemp
}

// Close drives all actuator pins low.
func (g *GPIO) Close() error {
	var firstErr error
	for _, pin := range []int{g.heaterPin, g.heaterPumpPin, g.coolerPin} {
		if err := g.chip.SetPin(pin, false); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
