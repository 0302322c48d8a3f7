package thermometer

import (
	"errors"
	"math"
	"testing"

	"github.com/opencell/reactor-core/internal/hardware"
)

func TestParseW1Slave(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
		wantErr bool
	}{
		{
			name: "valid reading",
			content: "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n" +
				"72 01 4b 46 7f ff 0e 10 57 t=23125\n",
			want: 23.125,
		},
		{
			name: "negative reading",
			content: "5e ff 4b 46 7f ff 02 10 a3 : crc=a3 YES\n" +
				"5e ff 4b 46 7f ff 02 10 a3 t=-10125\n",
			want: -10.125,
		},
		{
			name: "crc failure",
			content: "72 01 4b 46 7f ff 0e 10 57 : crc=57 NO\n" +
				"72 01 4b 46 7f ff 0e 10 57 t=23125\n",
			wantErr: true,
		},
		{
			name: "missing t field",
			content: "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n" +
				"72 01 4b 46 7f ff 0e 10 57\n",
			wantErr: true,
		},
		{
			name:    "truncated file",
			content: "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseW1Slave(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimulationStartTemperature(t *testing.T) {
	desc := hardware.DeviceDescriptor{
		ID:             "therm-1",
		Type:           hardware.TypeThermometer,
		Implementation: "simulation",
		Params:         map[string]any{"temp": 42.0},
	}

	dev, err := newSimulation(desc, nil)
	if err != nil {
		t.Fatalf("newSimulation: %v", err)
	}

	sim := dev.(*Simulation)
	got, err := sim.Temperature()
	if err != nil {
		t.Fatalf("Temperature: %v", err)
	}
	if got != 42.0 {
		t.Errorf("start temperature = %v, want 42", got)
	}
}

func TestSimulationDefaultsToAmbient(t *testing.T) {
	dev, err := newSimulation(hardware.DeviceDescriptor{ID: "therm-1"}, nil)
	if err != nil {
		t.Fatalf("newSimulation: %v", err)
	}

	got, _ := dev.(*Simulation).Temperature()
	if got != defaultStartTemperature {
		t.Errorf("default temperature = %v, want %v", got, defaultStartTemperature)
	}
}

func TestSimulationNudge(t *testing.T) {
	sim := &Simulation{celsius: 20}

	sim.Nudge(1.5)
	sim.Nudge(-0.5)

	got, _ := sim.Temperature()
	if math.Abs(got-21.0) > 1e-9 {
		t.Errorf("after nudges got %v, want 21", got)
	}

	sim.SetTemperature(-5)
	got, _ = sim.Temperature()
	if got != -5 {
		t.Errorf("after SetTemperature got %v, want -5", got)
	}
}

func TestSimulationRejectsBadStartParam(t *testing.T) {
	desc := hardware.DeviceDescriptor{
		ID:     "therm-1",
		Params: map[string]any{"temp": "warm"},
	}

	if _, err := newSimulation(desc, nil); !errors.Is(err, hardware.ErrBadParameter) {
		t.Errorf("expected ErrBadParameter, got %v", err)
	}
}
