package tasks

import "github.com/opencell/reactor-core/internal/hardware"

// Facade is everything a task needs from the rig. reactor.Core
// satisfies it; tests substitute fakes.
type Facade interface {
	Uptime() float64

	Temperature() (float64, error)
	HeaterOn() error
	HeaterOff() error
	HeaterPumpOn() error
	HeaterPumpOff() error
	CoolerOn() error
	CoolerOff() error

	StirrerOn() error
	StirrerOff() error

	Dispense(pump string, volume, duration float64) (float64, error)
	PumpLimits(pump string) (hardware.PumpLimits, error)
	PIDConfig() *hardware.PIDConfig
}
