package stirrer

import (
	"errors"
	"testing"

	"github.com/opencell/reactor-core/internal/hardware"
)

type fakeChip struct {
	pins map[int]bool
}

func (f *fakeChip) SetPin(pin int, high bool) error {
	f.pins[pin] = high
	return nil
}

func TestSimulationOnOff(t *testing.T) {
	sim := &Simulation{}

	if sim.Running() {
		t.Error("stirrer should start off")
	}
	sim.StirrerOn()
	if !sim.Running() {
		t.Error("stirrer should be on")
	}
	sim.StirrerOff()
	if sim.Running() {
		t.Error("stirrer should be off")
	}
}

func TestGPIOSwitchesPin(t *testing.T) {
	chip := &fakeChip{pins: make(map[int]bool)}
	desc := hardware.DeviceDescriptor{
		ID:             "stirrer-1",
		Type:           hardware.TypeStirrer,
		Implementation: "gpio_stirrer",
		Dependencies:   []string{"chip"},
		Params:         map[string]any{"pin": 23},
	}

	dev, err := newGPIO(desc, map[string]hardware.Device{"chip": chip})
	if err != nil {
		t.Fatalf("newGPIO: %v", err)
	}
	s := dev.(*GPIO)

	if chip.pins[23] {
		t.Error("pin high after construction")
	}
	s.StirrerOn()
	if !chip.pins[23] {
		t.Error("pin should be high after StirrerOn")
	}
	s.StirrerOff()
	if chip.pins[23] {
		t.Error("pin should be low after StirrerOff")
	}

	s.StirrerOn()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if chip.pins[23] {
		t.Error("pin should be low after Close")
	}
}

func TestGPIORequiresPin(t *testing.T) {
	chip := &fakeChip{pins: make(map[int]bool)}
	desc := hardware.DeviceDescriptor{ID: "stirrer-1"}

	_, err := newGPIO(desc, map[string]hardware.Device{"chip": chip})
	if !errors.Is(err, hardware.ErrBadParameter) {
		t.Errorf("expected ErrBadParameter, got %v", err)
	}
}

func TestGPIORequiresChip(t *testing.T) {
	desc := hardware.DeviceDescriptor{
		ID:     "stirrer-1",
		Params: map[string]any{"pin": 23},
	}

	_, err := newGPIO(desc, nil)
	if !errors.Is(err, hardware.ErrBadParameter) {
		t.Errorf("expected ErrBadParameter, got %v", err)
	}
}
