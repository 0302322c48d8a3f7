package reactor

import "errors"

var (
	// ErrNotInitialized is returned when the facade is requested
	// before a hardware configuration has been loaded successfully.
	ErrNotInitialized = errors.New("reactor: hardware not initialized")
)
