package hardware

import (
	"fmt"
	"io"
	"sort"
)

// Logger is the minimal logging interface this package needs.
// Compatible with logging.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Debug(msg string, args ...any) {}

// Graph holds a fully constructed set of devices. Every device's
// dependencies were constructed before the device itself; Close tears
// the set down in reverse construction order.
type Graph struct {
	devices map[string]Device
	order   []string
	logger  Logger
}

// Build constructs all devices from the descriptor list.
//
// Descriptors are topologically sorted by their dependencies (Kahn's
// algorithm), then constructed in order with resolved dependency
// instances. The load is all-or-nothing: on any failure, devices built
// so far are closed and a ConfigError naming the offending descriptor
// is returned.
//
// Failure modes:
//   - a dependency id absent from the configuration (ErrMissingDependency)
//   - a dependency cycle (ErrDependencyCycle, citing a device on the cycle)
//   - no constructor registered for (type, implementation) (ErrUnknownImplementation)
//   - the constructor itself failing (bad parameter, I/O error opening
//     a device), wrapped with the descriptor id
func Build(descriptors []DeviceDescriptor, logger Logger) (*Graph, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	byID := make(map[string]DeviceDescriptor, len(descriptors))
	for _, d := range descriptors {
		if _, dup := byID[d.ID]; dup {
			return nil, newConfigError(d.ID, ErrDuplicateDevice)
		}
		byID[d.ID] = d
	}

	order, err := constructionOrder(descriptors, byID)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		devices: make(map[string]Device, len(order)),
		logger:  logger,
	}

	for _, id := range order {
		desc := byID[id]

		ctor, ok := lookup(desc.Type, desc.Implementation)
		if !ok {
			g.Close()
			return nil, newConfigError(id, fmt.Errorf("%w: (%s, %s)",
				ErrUnknownImplementation, desc.Type, desc.Implementation))
		}

		deps := make(map[string]Device, len(desc.Dependencies))
		for _, depID := range desc.Dependencies {
			deps[depID] = g.devices[depID]
		}

		dev, err := ctor(desc, deps)
		if err != nil {
			g.Close()
			return nil, newConfigError(id, err)
		}

		g.devices[id] = dev
		g.order = append(g.order, id)
		logger.Debug("device constructed",
			"id", id,
			"type", desc.Type,
			"implementation", desc.Implementation,
		)
	}

	logger.Info("hardware graph built", "devices", len(g.order))
	return g, nil
}

// constructionOrder topologically sorts descriptor ids so every device
// follows its dependencies. Kahn's algorithm: repeatedly take a device
// whose dependencies are all satisfied; anything left over is on a
// cycle.
func constructionOrder(descriptors []DeviceDescriptor, byID map[string]DeviceDescriptor) ([]string, error) {
	pending := make(map[string]int, len(descriptors)) // id -> unmet dependency count
	dependents := make(map[string][]string)           // id -> ids waiting on it

	for _, d := range descriptors {
		pending[d.ID] = len(d.Dependencies)
		for _, depID := range d.Dependencies {
			if _, ok := byID[depID]; !ok {
				return nil, newConfigError(d.ID, fmt.Errorf("%w: %q", ErrMissingDependency, depID))
			}
			dependents[depID] = append(dependents[depID], d.ID)
		}
	}

	// Seed with devices that have no dependencies, in a stable order
	// so construction is deterministic run to run.
	var ready []string
	for id, count := range pending {
		if count == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(descriptors))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unblocked []string
		for _, depID := range dependents[id] {
			pending[depID]--
			if pending[depID] == 0 {
				unblocked = append(unblocked, depID)
			}
		}
		sort.Strings(unblocked)
		ready = append(ready, unblocked...)
	}

	if len(order) != len(descriptors) {
		// Some device never became ready: it is on (or behind) a cycle.
		var stuck []string
		for id := range pending {
			if pending[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, newConfigError(stuck[0], fmt.Errorf("%w: involving %v", ErrDependencyCycle, stuck))
	}

	return order, nil
}

// Device returns the constructed device with the given id.
func (g *Graph) Device(id string) (Device, bool) {
	dev, ok := g.devices[id]
	return dev, ok
}

// IDs returns device ids in construction order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of constructed devices.
func (g *Graph) Len() int {
	return len(g.order)
}

// Close tears down all devices in reverse construction order.
// Devices implementing io.Closer are closed; close failures are
// logged and do not stop the teardown.
func (g *Graph) Close() {
	for i := len(g.order) - 1; i >= 0; i-- {
		id := g.order[i]
		if closer, ok := g.devices[id].(io.Closer); ok {
			if err := closer.Close(); err != nil {
				g.logger.Info("device close failed", "id", id, "error", err)
			}
		}
		delete(g.devices, id)
	}
	g.order = nil
}
