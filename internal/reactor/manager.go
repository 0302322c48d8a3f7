package reactor

import (
	"sync"

	"github.com/opencell/reactor-core/internal/hardware"
)

// State describes the manager's view of the hardware.
type State string

const (
	StateStarting      State = "starting"
	StateReady         State = "ready"
	StateFailedToStart State = "failed_to_start"
)

// Manager owns the current Core and handles hardware configuration
// reloads. Reload is wholesale: the new configuration is loaded and a
// complete new Core built before the old one is torn down, so a
// failed reload leaves the running rig exactly as it was, with the
// error retained for diagnostics.
type Manager struct {
	configPath string
	speedup    float64
	clock      Clock
	logger     Logger

	mu      sync.Mutex
	core    *Core
	state   State
	lastErr error
}

// NewManager creates a manager for the hardware configuration at
// configPath. Call Start to perform the initial load.
func NewManager(configPath string, speedup float64, clk Clock, logger Logger) *Manager {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{
		configPath: configPath,
		speedup:    speedup,
		clock:      clk,
		logger:     logger,
		state:      StateStarting,
	}
}

// Start performs the initial hardware load. On failure the manager
// enters the failed_to_start state and retains the error; no partial
// device set is exposed.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	core, err := m.build()
	if err != nil {
		m.state = StateFailedToStart
		m.lastErr = err
		m.logger.Error("hardware failed to start", "error", err)
		return err
	}

	m.core = core
	m.state = StateReady
	m.lastErr = nil
	return nil
}

// Reload rebuilds the hardware from the configuration file and swaps
// it in. On failure the previous Core keeps running and the error is
// returned and retained.
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	core, err := m.build()
	if err != nil {
		m.lastErr = err
		m.logger.Error("hardware reload failed, keeping previous configuration", "error", err)
		return err
	}

	if m.core != nil {
		if err := m.core.Close(); err != nil {
			m.logger.Error("closing previous core", "error", err)
		}
	}

	m.core = core
	m.state = StateReady
	m.lastErr = nil
	m.logger.Info("hardware reloaded", "config", m.configPath)
	return nil
}

// build loads descriptors and constructs a Core. Caller holds m.mu.
func (m *Manager) build() (*Core, error) {
	descriptors, err := hardware.LoadDescriptors(m.configPath)
	if err != nil {
		return nil, err
	}
	return NewCore(descriptors, m.speedup, m.clock, m.logger)
}

// Core returns the current facade, or ErrNotInitialized when no
// configuration has loaded successfully yet.
func (m *Manager) Core() (*Core, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.core == nil {
		return nil, ErrNotInitialized
	}
	return m.core, nil
}

// Status reports the manager state and the last load error, if any.
func (m *Manager) Status() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.lastErr
}

// Close tears down the current Core.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.core == nil {
		return nil
	}
	err := m.core.Close()
	m.core = nil
	return err
}
