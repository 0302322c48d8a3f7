package tempcontrol

import (
	"errors"
	"math"
	"testing"

	"github.com/opencell/reactor-core/internal/hardware"
)

// fakeThermometer implements hardware.Thermometer plus the nudger
// interface the simulation uses to model heat transfer.
type fakeThermometer struct {
	celsius float64
}

func (f *fakeThermometer) Temperature() (float64, error) { return f.celsius, nil }
func (f *fakeThermometer) Nudge(delta float64)           { f.celsius += delta }

// fakeChip records pin levels in memory.
type fakeChip struct {
	pins map[int]bool
}

func newFakeChip() *fakeChip { return &fakeChip{pins: make(map[int]bool)} }

func (f *fakeChip) SetPin(pin int, high bool) error {
	f.pins[pin] = high
	return nil
}

func simController(t *testing.T, therm *fakeThermometer, params map[string]any) *Simulation {
	t.Helper()
	desc := hardware.DeviceDescriptor{
		ID:             "jacket",
		Type:           hardware.TypeTempController,
		Implementation: "simulation",
		Dependencies:   []string{"therm"},
		Params:         params,
	}
	dev, err := newSimulation(desc, map[string]hardware.Device{"therm": therm})
	if err != nil {
		t.Fatalf("newSimulation: %v", err)
	}
	return dev.(*Simulation)
}

func TestSimulationHeatingRaisesReading(t *testing.T) {
	therm := &fakeThermometer{celsius: 20}
	sim := simController(t, therm, nil)

	if err := sim.HeaterOn(); err != nil {
		t.Fatalf("HeaterOn: %v", err)
	}

	first, _ := sim.Temperature()
	second, _ := sim.Temperature()
	third, _ := sim.Temperature()

	if first != 20 {
		t.Errorf("first read = %v, want 20", first)
	}
	if second <= first || third <= second {
		t.Errorf("readings should rise while heating: %v, %v, %v", first, second, third)
	}
}

func TestSimulationCoolingLowersReading(t *testing.T) {
	therm := &fakeThermometer{celsius: 30}
	sim := simController(t, therm, nil)

	if err := sim.CoolerOn(); err != nil {
		t.Fatalf("CoolerOn: %v", err)
	}

	first, _ := sim.Temperature()
	second, _ := sim.Temperature()

	if second >= first {
		t.Errorf("readings should fall while cooling: %v, %v", first, second)
	}
}

func TestSimulationDriftsTowardAmbient(t *testing.T) {
	hot := &fakeThermometer{celsius: simAmbient + 5}
	sim := simController(t, hot, nil)
	sim.Temperature()
	if got := hot.celsius; got >= simAmbient+5 {
		t.Errorf("hot rig should drift down, got %v", got)
	}

	cold := &fakeThermometer{celsius: simAmbient - 5}
	sim = simController(t, cold, nil)
	sim.Temperature()
	if got := cold.celsius; got <= simAmbient-5 {
		t.Errorf("cold rig should drift up, got %v", got)
	}
}

func TestSimulationStateAndBounds(t *testing.T) {
	therm := &fakeThermometer{celsius: 20}
	sim := simController(t, therm, map[string]any{
		"minTemp": -10.0,
		"maxTemp": 80.0,
		"pid":     map[string]any{"p": 0.5, "i": 0.1, "d": 2.0},
	})

	sim.HeaterOn()
	sim.HeaterPumpOn()
	heater, pump, cooler := sim.State()
	if !heater || !pump || cooler {
		t.Errorf("state = %v %v %v, want heater and pump on", heater, pump, cooler)
	}

	sim.HeaterOff()
	sim.HeaterPumpOff()
	sim.CoolerOn()
	heater, pump, cooler = sim.State()
	if heater || pump || !cooler {
		t.Errorf("state = %v %v %v, want only cooler on", heater, pump, cooler)
	}

	lo, hi := sim.TemperatureBounds()
	if lo != -10 || hi != 80 {
		t.Errorf("bounds = %v, %v, want -10, 80", lo, hi)
	}

	pid := sim.PIDConfig()
	if pid == nil {
		t.Fatal("expected pid config")
	}
	if math.Abs(pid.P-0.5) > 1e-9 || math.Abs(pid.I-0.1) > 1e-9 || math.Abs(pid.D-2.0) > 1e-9 {
		t.Errorf("pid = %+v", pid)
	}
}

func TestSimulationRequiresThermometer(t *testing.T) {
	desc := hardware.DeviceDescriptor{ID: "jacket"}
	if _, err := newSimulation(desc, nil); !errors.Is(err, hardware.ErrBadParameter) {
		t.Errorf("expected ErrBadParameter, got %v", err)
	}
}

func TestGPIOSwitchesPins(t *testing.T) {
	therm := &fakeThermometer{celsius: 20}
	chip := newFakeChip()
	desc := hardware.DeviceDescriptor{
		ID:             "jacket",
		Type:           hardware.TypeTempController,
		Implementation: "gpio",
		Dependencies:   []string{"chip", "therm"},
		Params: map[string]any{
			"heaterPin":     17,
			"heaterPumpPin": 27,
			"coolerPin":     22,
		},
	}

	dev, err := newGPIO(desc, map[string]hardware.Device{"chip": chip, "therm": therm})
	if err != nil {
		t.Fatalf("newGPIO: %v", err)
	}
	ctl := dev.(*GPIO)

	// Constructor must leave everything off.
	for _, pin := range []int{17, 27, 22} {
		if chip.pins[pin] {
			t.Errorf("pin %d high after construction", pin)
		}
	}

	ctl.HeaterOn()
	ctl.HeaterPumpOn()
	if !chip.pins[17] || !chip.pins[27] {
		t.Error("heater pins should be high")
	}

	ctl.CoolerOn()
	if !chip.pins[22] {
		t.Error("cooler pin should be high")
	}

	if got, _ := ctl.Temperature(); got != 20 {
		t.Errorf("Temperature = %v, want 20", got)
	}

	if err := ctl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, pin := range []int{17, 27, 22} {
		if chip.pins[pin] {
			t.Errorf("pin %d high after Close", pin)
		}
	}
}

func TestGPIORequiresPinParams(t *testing.T) {
	therm := &fakeThermometer{}
	chip := newFakeChip()
	desc := hardware.DeviceDescriptor{
		ID:     "jacket",
		Params: map[string]any{"heaterPin": 17},
	}

	_, err := newGPIO(desc, map[string]hardware.Device{"chip": chip, "therm": therm})
	if !errors.Is(err, hardware.ErrBadParameter) {
		t.Errorf("expected ErrBadParameter, got %v", err)
	}
}
