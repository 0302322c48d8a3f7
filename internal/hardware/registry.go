package hardware

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds one device from its descriptor and its resolved
// dependencies. The deps map is keyed by dependency id and contains
// only instances that are already fully constructed.
type Constructor func(desc DeviceDescriptor, deps map[string]Device) (Device, error)

// registryKey identifies a constructor by device type and
// implementation name.
type registryKey struct {
	deviceType     string
	implementation string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[registryKey]Constructor)
)

// Register makes a constructor available for the given
// (type, implementation) pair. Backends call this from init(), so
// importing a backend package is all it takes to enable it:
//
//	import _ "github.com/opencell/reactor-core/internal/hardware/stirrer"
//
// Register panics if called twice for the same pair or with a nil
// constructor; both are programming errors caught at startup.
func Register(deviceType, implementation string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if ctor == nil {
		panic(fmt.Sprintf("hardware: Register(%s, %s) with nil constructor", deviceType, implementation))
	}

	key := registryKey{deviceType: deviceType, implementation: implementation}
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("hardware: Register called twice for (%s, %s)", deviceType, implementation))
	}

	registry[key] = ctor
}

// lookup returns the constructor for a (type, implementation) pair.
func lookup(deviceType, implementation string) (Constructor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ctor, ok := registry[registryKey{deviceType: deviceType, implementation: implementation}]
	return ctor, ok
}

// Implementations returns the registered implementation names for a
// device type, sorted. Used for diagnostics and the API's capability
// listing.
func Implementations(deviceType string) []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var names []string
	for key := range registry {
		if key.deviceType == deviceType {
			names = append(names, key.implementation)
		}
	}
	sort.Strings(names)
	return names
}
