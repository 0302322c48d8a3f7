package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("REACTOR_CONFIG")
	defer os.Setenv("REACTOR_CONFIG", originalEnv)

	os.Setenv("REACTOR_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
site:
  id: test-rig

database:
  path: ""
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

telemetry:
  enabled: false

logging:
  level: info
  format: text
  output: stdout

hardware:
  config_file: configs/hardware.yaml
  speedup: 1.0

api:
  host: "127.0.0.1"
  port: 8080
  timeouts:
    read: 30
    write: 60
    idle: 120
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("REACTOR_CONFIG")
	defer os.Setenv("REACTOR_CONFIG", originalEnv)
	os.Setenv("REACTOR_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("REACTOR_CONFIG")
	defer os.Setenv("REACTOR_CONFIG", originalEnv)

	os.Unsetenv("REACTOR_CONFIG")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("REACTOR_CONFIG")
	defer os.Setenv("REACTOR_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("REACTOR_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_StartupAndShutdown runs the full node on a simulated rig and
// cancels after startup. MQTT and InfluxDB stay disabled so the test
// needs no external services.
func TestRun_StartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	hardwarePath := filepath.Join(tmpDir, "hardware.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	hardwareContent := `devices:
  - id: reactor-thermometer
    type: thermometer
    implementation: simulation
    temp: 21.0
  - id: reactor-temperature-controller
    type: tempController
    implementation: simulation
    dependencies: [reactor-thermometer]
    maxTemp: 50
    minTemp: -20
  - id: reactor-stirrer
    type: stirrer
    implementation: simulation
  - id: reactor-reagent-dispenser
    type: reagentDispenser
    implementation: simulation
    pumps:
      X:
        minSpeed: 0.1
        maxSpeed: 5.0
`
	if err := os.WriteFile(hardwarePath, []byte(hardwareContent), 0600); err != nil {
		t.Fatalf("failed to write hardware config: %v", err)
	}

	configContent := `
site:
  id: test-rig

database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

telemetry:
  enabled: true
  interval_seconds: 1

logging:
  level: error
  format: text
  output: stderr

hardware:
  config_file: "` + hardwarePath + `"
  speedup: 60.0

api:
  host: "127.0.0.1"
  port: 18099
  timeouts:
    read: 30
    write: 60
    idle: 120
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("REACTOR_CONFIG")
	defer os.Setenv("REACTOR_CONFIG", originalEnv)
	os.Setenv("REACTOR_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() returned error: %v", err)
	}
}
