package gpiochip

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeGPIO, "rpi", newRPi)
}

// hostInit runs periph host initialisation once per process, no matter
// how many chips are declared.
var hostInit sync.Once

// RPi drives Raspberry Pi header pins through periph.io. Pins are
// resolved lazily by BCM number on first use and cached.
type RPi struct {
	mu   sync.Mutex
	pins map[int]gpio.PinIO
}

func newRPi(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	var initErr error
	hostInit.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("initialising periph host: %w", initErr)
	}

	return &RPi{pins: make(map[int]gpio.PinIO)}, nil
}

// SetPin drives the numbered BCM pin high or low.
func (r *RPi) SetPin(pin int, high bool) error {
	p, err := r.pin(pin)
	if err != nil {
		return err
	}

	level := gpio.Low
	if high {
		level = gpio.High
	}
	if err := p.Out(level); err != nil {
		return fmt.Errorf("setting GPIO%d: %w", pin, err)
	}
	return nil
}

func (r *RPi) pin(number int) (gpio.PinIO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pins[number]; ok {
		return p, nil
	}

	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", number))
	if p == nil {
		return nil, fmt.Errorf("%w: GPIO%d not found", hardware.ErrBadParameter, number)
	}

	r.pins[number] = p
	return p, nil
}

// Close drives every pin this chip touched back to low.
func (r *RPi) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for number, p := range r.pins {
		if err := p.Out(gpio.Low); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("releasing GPIO%d: %w", number, err)
		}
	}
	return firstErr
}
