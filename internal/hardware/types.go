package hardware

// Device type names used in descriptor files.
//
// Each maps to a capability interface below. The gcode and gpio types
// are infrastructure devices: they exist so that dispensers and
// pin-switched controllers can declare them as dependencies.
const (
	TypeThermometer      = "thermometer"
	TypeTempController   = "tempController"
	TypeStirrer          = "stirrer"
	TypeReagentDispenser = "reagentDispenser"
	TypeGcode            = "grbl"
	TypeGPIO             = "gpio"
)

// Well-known device ids the reactor facade binds to.
// A configuration missing any of these fails to load.
const (
	RoleTemperatureController = "reactor-temperature-controller"
	RoleStirrer               = "reactor-stirrer"
	RoleReagentDispenser      = "reactor-reagent-dispenser"
)

// DeviceDescriptor declares one device in the hardware configuration.
//
// Identity is ID, unique within a configuration. Dependencies name
// descriptor ids that must be constructed first; their instances are
// passed to this device's constructor. Params carries the remaining
// implementation-specific YAML keys (pins, serial paths, pump ratios,
// temperature bounds, PID tuning).
type DeviceDescriptor struct {
	ID             string         `yaml:"id"`
	Type           string         `yaml:"type"`
	Implementation string         `yaml:"implementation"`
	Dependencies   []string       `yaml:"dependencies"`
	Params         map[string]any `yaml:",inline"`
}

// Device is any constructed device instance. Callers type-assert the
// capability interface they need; the graph builder checks role
// bindings at load time so tasks never see a failed assertion.
//
// Devices holding OS resources (serial ports, GPIO lines) also
// implement io.Closer and are closed in reverse construction order
// when the graph is torn down.
type Device any

// PumpLimits is the physically valid speed range of one pump channel,
// in millilitres per second.
type PumpLimits struct {
	// MinSpeed is the slowest continuous rate the pump can sustain.
	MinSpeed float64

	// MaxSpeed is the fastest rate. Always greater than MinSpeed.
	MaxSpeed float64
}

// PIDConfig is the tuning for the time-proportioning PID temperature
// controller. Nil where a controller has no tuning configured.
type PIDConfig struct {
	P float64
	I float64
	D float64
}

// Thermometer reads the reactor temperature.
type Thermometer interface {
	// Temperature returns the current reading in degrees Celsius.
	Temperature() (float64, error)
}

// TemperatureController drives the reactor jacket.
//
// Heater/cooler mutual exclusion is NOT enforced here; the reactor
// facade turns the opposing actuator off before engaging one. Backends
// only switch what they are told to switch.
type TemperatureController interface {
	Thermometer

	HeaterOn() error
	HeaterOff() error

	// The heater-circulation pump moves heat-exchange fluid through
	// the jacket. It is independent of the heater element itself.
	HeaterPumpOn() error
	HeaterPumpOff() error

	CoolerOn() error
	CoolerOff() error

	// PIDConfig returns the controller's PID tuning, or nil if the
	// configuration does not provide one.
	PIDConfig() *PIDConfig

	// TemperatureBounds returns the safe operating range (min, max)
	// in degrees Celsius.
	TemperatureBounds() (float64, float64)
}

// Stirrer agitates the reaction vessel.
type Stirrer interface {
	StirrerOn() error
	StirrerOff() error
}

// ReagentDispenser delivers reagent volumes on named pump channels.
type ReagentDispenser interface {
	// Dispense delivers volume millilitres on the named pump. When
	// duration is greater than zero the dispense targets that many
	// seconds; zero means run at the device's natural maximum rate.
	// Returns the measured (or estimated) dispense duration in seconds.
	Dispense(pump string, volume, duration float64) (float64, error)

	// PumpLimits returns the speed limits for the named pump, or an
	// error if the pump is not a configured channel.
	PumpLimits(pump string) (PumpLimits, error)
}

// GcodeDevice accepts raw gcode commands. Motorised dispensers declare
// a gcode device dependency and translate volumes to axis moves.
type GcodeDevice interface {
	// WriteGcode sends one command and waits for acknowledgement.
	WriteGcode(command string) error
}

// GPIOChip switches digital output pins. Pin-switched backends
// (gpio temperature controller, gpio stirrer) declare a chip
// dependency and address pins by number.
type GPIOChip interface {
	// SetPin drives the numbered pin high (true) or low (false).
	SetPin(pin int, high bool) error
}
