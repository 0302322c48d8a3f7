package hardware

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeHardwareFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hardware.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write hardware config: %v", err)
	}
	return path
}

func TestLoadDescriptors(t *testing.T) {
	path := writeHardwareFile(t, `
devices:
  - id: reactor-thermometer
    type: thermometer
    implementation: simulation
  - id: reactor-temperature-controller
    type: tempController
    implementation: simulation
    dependencies: [reactor-thermometer]
    maxTemp: 50
    minTemp: -20
    pid:
      p: 0.5
      i: 0.12
      d: 1.1
`)

	descriptors, err := LoadDescriptors(path)
	if err != nil {
		t.Fatalf("LoadDescriptors() error = %v", err)
	}

	if len(descriptors) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(descriptors))
	}

	ctrl := descriptors[1]
	if ctrl.ID != "reactor-temperature-controller" {
		t.Errorf("ID = %q", ctrl.ID)
	}
	if ctrl.Type != "tempController" || ctrl.Implementation != "simulation" {
		t.Errorf("type/impl = %q/%q", ctrl.Type, ctrl.Implementation)
	}
	if len(ctrl.Dependencies) != 1 || ctrl.Dependencies[0] != "reactor-thermometer" {
		t.Errorf("Dependencies = %v", ctrl.Dependencies)
	}

	maxTemp, err := ctrl.FloatParam("maxTemp")
	if err != nil {
		t.Fatalf("FloatParam(maxTemp) error = %v", err)
	}
	if maxTemp != 50 {
		t.Errorf("maxTemp = %v, want 50", maxTemp)
	}

	pid, err := ctrl.PIDParam()
	if err != nil {
		t.Fatalf("PIDParam() error = %v", err)
	}
	if pid == nil {
		t.Fatal("PIDParam() = nil, want config")
	}
	if pid.P != 0.5 || pid.I != 0.12 || pid.D != 1.1 {
		t.Errorf("PID = %+v", pid)
	}
}

func TestLoadDescriptors_MissingFile(t *testing.T) {
	_, err := LoadDescriptors("/nonexistent/hardware.yaml")
	if err == nil {
		t.Error("LoadDescriptors() expected error for missing file")
	}
}

func TestLoadDescriptors_DuplicateID(t *testing.T) {
	path := writeHardwareFile(t, `
devices:
  - id: twin
    type: stirrer
    implementation: simulation
  - id: twin
    type: stirrer
    implementation: simulation
`)

	_, err := LoadDescriptors(path)
	if !errors.Is(err, ErrDuplicateDevice) {
		t.Errorf("LoadDescriptors() error = %v, want ErrDuplicateDevice", err)
	}
}

func TestLoadDescriptors_MissingType(t *testing.T) {
	path := writeHardwareFile(t, `
devices:
  - id: incomplete
    implementation: simulation
`)

	_, err := LoadDescriptors(path)
	if !errors.Is(err, ErrBadParameter) {
		t.Errorf("LoadDescriptors() error = %v, want ErrBadParameter", err)
	}
}

func TestDescriptorParams(t *testing.T) {
	desc := DeviceDescriptor{
		ID: "params-test",
		Params: map[string]any{
			"device":  "/dev/ttyUSB0",
			"pin":     17,
			"mmPerMl": 3.5,
			"pumps": map[string]any{
				"X": map[string]any{"mmPerMl": 3.5},
			},
		},
	}

	t.Run("string param", func(t *testing.T) {
		got, err := desc.StringParam("device")
		if err != nil || got != "/dev/ttyUSB0" {
			t.Errorf("StringParam() = %q, %v", got, err)
		}
	})

	t.Run("int param", func(t *testing.T) {
		got, err := desc.IntParam("pin")
		if err != nil || got != 17 {
			t.Errorf("IntParam() = %d, %v", got, err)
		}
	})

	t.Run("float param from int", func(t *testing.T) {
		got, err := desc.FloatParam("pin")
		if err != nil || got != 17 {
			t.Errorf("FloatParam() = %v, %v", got, err)
		}
	})

	t.Run("float param", func(t *testing.T) {
		got, err := desc.FloatParam("mmPerMl")
		if err != nil || got != 3.5 {
			t.Errorf("FloatParam() = %v, %v", got, err)
		}
	})

	t.Run("map param", func(t *testing.T) {
		got, err := desc.MapParam("pumps")
		if err != nil {
			t.Fatalf("MapParam() error = %v", err)
		}
		if _, ok := got["X"]; !ok {
			t.Error("MapParam() missing pump X")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := desc.StringParam("ghost")
		if !errors.Is(err, ErrBadParameter) {
			t.Errorf("StringParam(ghost) error = %v, want ErrBadParameter", err)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := desc.StringParam("pin")
		if !errors.Is(err, ErrBadParameter) {
			t.Errorf("StringParam(pin) error = %v, want ErrBadParameter", err)
		}
	})

	t.Run("default used when absent", func(t *testing.T) {
		got, err := desc.FloatParamDefault("ghost", 2.5)
		if err != nil || got != 2.5 {
			t.Errorf("FloatParamDefault() = %v, %v", got, err)
		}
	})
}
