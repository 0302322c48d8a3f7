package hardware

import (
	"errors"
	"fmt"
)

// Sentinel errors for hardware configuration failures.
// Use errors.Is() to check for these in calling code.
var (
	// ErrUnknownImplementation is returned when no constructor is
	// registered for a descriptor's (type, implementation) pair.
	ErrUnknownImplementation = errors.New("hardware: unknown implementation")

	// ErrMissingDependency is returned when a descriptor names a
	// dependency id absent from the configuration.
	ErrMissingDependency = errors.New("hardware: missing dependency")

	// ErrDependencyCycle is returned when descriptors depend on each
	// other in a cycle.
	ErrDependencyCycle = errors.New("hardware: dependency cycle")

	// ErrDuplicateDevice is returned when two descriptors share an id.
	ErrDuplicateDevice = errors.New("hardware: duplicate device id")

	// ErrMissingRole is returned when a required role binding
	// (reactor-temperature-controller, reactor-stirrer,
	// reactor-reagent-dispenser) is absent from the graph.
	ErrMissingRole = errors.New("hardware: missing role binding")

	// ErrBadParameter is returned by device constructors for missing
	// or invalid implementation-specific parameters.
	ErrBadParameter = errors.New("hardware: bad parameter")

	// ErrUnknownPump is returned by dispensers for a pump name not
	// present in their configuration.
	ErrUnknownPump = errors.New("hardware: unknown pump")
)

// ConfigError is the failure type for device graph construction.
// It names the offending descriptor and wraps the underlying cause,
// so callers can both log a useful message and errors.Is() against
// the sentinels above.
//
// A ConfigError is fatal to the whole load: no partial device set is
// ever exposed.
type ConfigError struct {
	// DeviceID is the id of the descriptor that failed, or empty when
	// the failure is not attributable to a single device.
	DeviceID string

	// Err is the underlying cause.
	Err error
}

func (e *ConfigError) Error() string {
	if e.DeviceID == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("device %q: %v", e.DeviceID, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// newConfigError wraps err in a ConfigError for the named device.
func newConfigError(deviceID string, err error) *ConfigError {
	return &ConfigError{DeviceID: deviceID, Err: err}
}
