// Package hardware provides the device abstraction layer for Reactor Core.
//
// This package manages:
//   - Capability interfaces every backend implements (thermometer,
//     temperature controller, stirrer, reagent dispenser, gcode device,
//     GPIO chip)
//   - The device descriptor schema loaded from hardware.yaml
//   - A constructor registry keyed by (type, implementation)
//   - Dependency-ordered device graph construction with cycle detection
//
// # Architecture
//
// Devices are declared as a flat list of descriptors. Each descriptor
// names its type, the concrete implementation to use, the ids of devices
// it depends on, and implementation-specific parameters:
//
//	devices:
//	  - id: reactor-thermometer
//	    type: thermometer
//	    implementation: simulation
//	  - id: reactor-temperature-controller
//	    type: tempController
//	    implementation: simulation
//	    dependencies: [reactor-thermometer]
//	    maxTemp: 50
//	    minTemp: -20
//
// Build topologically sorts the descriptors and constructs each device
// after its dependencies, handing every constructor its resolved
// dependency instances. Construction is all-or-nothing: any unknown
// implementation, missing dependency, cycle, or constructor failure
// aborts the whole load with a ConfigError naming the offending device.
//
// # Backends
//
// Concrete implementations live in subpackages (simulation, gpio,
// serial, grbl based) and register themselves in init():
//
//	func init() {
//	    hardware.Register("stirrer", "simulation", newSimulation)
//	}
//
// Importers pull in the backends they need with blank imports, the same
// way database/sql drivers are wired.
package hardware
