package reactor

import (
	"fmt"
	"sync"
	"time"

	"github.com/opencell/reactor-core/internal/hardware"
)

// Logger is the minimal logging interface this package needs.
// Compatible with logging.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Error(msg string, args ...any) {}

// Core is the hardware facade for one rig. It binds the three
// capability roles out of a constructed device graph and adds the
// speed-scaled virtual clock that control tasks run against.
//
// Heater and cooler are mutually exclusive: turning either on first
// switches the other off, under a single lock, so no interleaving can
// leave both energized.
type Core struct {
	graph *hardware.Graph

	temp      hardware.TemperatureController
	stir      hardware.Stirrer
	dispenser hardware.ReagentDispenser

	clock   Clock
	start   time.Time
	speedup float64

	// Last commanded actuator state, tracked here because backends do
	// not expose reads. mu guards it together with the heater/cooler
	// exclusion.
	mu         sync.Mutex
	heater     bool
	heaterPump bool
	cooler     bool
	stirrer    bool

	logger Logger
}

// ActuatorState is a snapshot of the commanded actuator switches.
type ActuatorState struct {
	Heater     bool `json:"heater"`
	HeaterPump bool `json:"heater_pump"`
	Cooler     bool `json:"cooler"`
	Stirrer    bool `json:"stirrer"`
}

// NewCore builds the device graph from descriptors and binds the
// facade roles. speedup scales virtual time; values <= 0 mean real
// time. The load is all-or-nothing: any build or binding failure
// tears down whatever was constructed and returns the error.
func NewCore(descriptors []hardware.DeviceDescriptor, speedup float64, clk Clock, logger Logger) (*Core, error) {
	if logger == nil {
		logger = noopLogger{}
	}
	if clk == nil {
		clk = RealClock()
	}
	if speedup <= 0 {
		speedup = 1
	}

	graph, err := hardware.Build(descriptors, logger)
	if err != nil {
		return nil, err
	}

	c := &Core{
		graph:   graph,
		clock:   clk,
		start:   clk.Now(),
		speedup: speedup,
		logger:  logger,
	}

	if c.temp, err = bindRole[hardware.TemperatureController](graph, hardware.RoleTemperatureController); err != nil {
		graph.Close()
		return nil, err
	}
	if c.stir, err = bindRole[hardware.Stirrer](graph, hardware.RoleStirrer); err != nil {
		graph.Close()
		return nil, err
	}
	if c.dispenser, err = bindRole[hardware.ReagentDispenser](graph, hardware.RoleReagentDispenser); err != nil {
		graph.Close()
		return nil, err
	}

	logger.Info("reactor core ready", "devices", graph.Len(), "speedup", speedup)
	return c, nil
}

// bindRole resolves a well-known device id and asserts its capability.
func bindRole[T any](graph *hardware.Graph, role string) (T, error) {
	var zero T
	dev, ok := graph.Device(role)
	if !ok {
		return zero, fmt.Errorf("%w: %q", hardware.ErrMissingRole, role)
	}
	bound, ok := dev.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q does not provide the required capability", hardware.ErrMissingRole, role)
	}
	return bound, nil
}

// Uptime returns seconds of virtual time since the core was built.
func (c *Core) Uptime() float64 {
	return c.clock.Now().Sub(c.start).Seconds() * c.speedup
}

// Sleep pauses for the given number of virtual seconds. At speedup N
// the real pause is seconds/N.
func (c *Core) Sleep(seconds float64) {
	if seconds <= 0 {
		return
	}
	c.clock.Sleep(time.Duration(seconds / c.speedup * float64(time.Second)))
}

// Speedup returns the virtual time multiplier.
func (c *Core) Speedup() float64 {
	return c.speedup
}

// Temperature reads the reactor temperature in Celsius.
func (c *Core) Temperature() (float64, error) {
	return c.temp.Temperature()
}

// HeaterOn energizes the heater, switching the cooler off first.
func (c *Core) HeaterOn() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.temp.CoolerOff(); err != nil {
		return err
	}
	c.cooler = false
	if err := c.temp.HeaterOn(); err != nil {
		return err
	}
	c.heater = true
	return nil
}

func (c *Core) HeaterOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.temp.HeaterOff(); err != nil {
		return err
	}
	c.heater = false
	return nil
}

// CoolerOn energizes the cooler, switching the heater off first.
func (c *Core) CoolerOn() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.temp.HeaterOff(); err != nil {
		return err
	}
	c.heater = false
	if err := c.temp.CoolerOn(); err != nil {
		return err
	}
	c.cooler = true
	return nil
}

func (c *Core) CoolerOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.temp.CoolerOff(); err != nil {
		return err
	}
	c.cooler = false
	return nil
}

func (c *Core) HeaterPumpOn() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.temp.HeaterPumpOn(); err != nil {
		return err
	}
	c.heaterPump = true
	return nil
}

func (c *Core) HeaterPumpOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.temp.HeaterPumpOff(); err != nil {
		return err
	}
	c.heaterPump = false
	return nil
}

func (c *Core) StirrerOn() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stir.StirrerOn(); err != nil {
		return err
	}
	c.stirrer = true
	return nil
}

func (c *Core) StirrerOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stir.StirrerOff(); err != nil {
		return err
	}
	c.stirrer = false
	return nil
}

// Actuators reports the last commanded state of every actuator.
func (c *Core) Actuators() ActuatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ActuatorState{
		Heater:     c.heater,
		HeaterPump: c.heaterPump,
		Cooler:     c.cooler,
		Stirrer:    c.stirrer,
	}
}

// Dispense delivers volume millilitres from the named pump. A
// positive duration asks the pump to spread the delivery over that
// many seconds; zero means as fast as the pump allows. Returns the
// measured duration in seconds.
func (c *Core) Dispense(pump string, volume, duration float64) (float64, error) {
	took, err := c.dispenser.Dispense(pump, volume, duration)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("dispensed", "pump", pump, "volume_ml", volume, "took_s", took)
	return took, nil
}

// PumpLimits reports the named pump's speed range in mL/s.
func (c *Core) PumpLimits(pump string) (hardware.PumpLimits, error) {
	return c.dispenser.PumpLimits(pump)
}

// PIDConfig returns the controller's tuned gains, or nil when the
// configuration does not provide any.
func (c *Core) PIDConfig() *hardware.PIDConfig {
	return c.temp.PIDConfig()
}

// TemperatureBounds returns the controller's safe operating range.
func (c *Core) TemperatureBounds() (float64, float64) {
	return c.temp.TemperatureBounds()
}

// TurnOffEverything drives all actuators to their safe state. Every
// actuator is attempted even if an earlier one fails; the first
// failure is returned.
func (c *Core) TurnOffEverything() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, off := range []struct {
		name    string
		fn      func() error
		tracked *bool
	}{
		{"heater", c.temp.HeaterOff, &c.heater},
		{"heater pump", c.temp.HeaterPumpOff, &c.heaterPump},
		{"cooler", c.temp.CoolerOff, &c.cooler},
		{"stirrer", c.stir.StirrerOff, &c.stirrer},
	} {
		if err := off.fn(); err != nil {
			c.logger.Error("failed to switch off", "actuator", off.name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		*off.tracked = false
	}
	return firstErr
}

// Close turns all actuators off and tears down the device graph.
func (c *Core) Close() error {
	err := c.TurnOffEverything()
	c.graph.Close()
	return err
}
