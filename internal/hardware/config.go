package hardware

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// descriptorFile is the on-disk shape of hardware.yaml.
type descriptorFile struct {
	Devices []DeviceDescriptor `yaml:"devices"`
}

// LoadDescriptors reads the device descriptor list from a YAML file.
//
// Only structural validation happens here (readable file, parseable
// YAML, non-empty ids, unique ids). Semantic validation (known
// implementations, resolvable dependencies, acyclic graph) happens
// in Build, because it needs the registry.
//
// Parameters:
//   - path: Path to the hardware YAML file (hardware.config_file)
//
// Returns:
//   - []DeviceDescriptor: Parsed descriptors in file order
//   - error: If the file cannot be read or parsed, or ids collide
func LoadDescriptors(path string) ([]DeviceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hardware config: %w", err)
	}

	var file descriptorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing hardware config: %w", err)
	}

	seen := make(map[string]bool, len(file.Devices))
	for _, d := range file.Devices {
		if d.ID == "" {
			return nil, newConfigError("", fmt.Errorf("%w: descriptor without id", ErrBadParameter))
		}
		if d.Type == "" || d.Implementation == "" {
			return nil, newConfigError(d.ID, fmt.Errorf("%w: type and implementation are required", ErrBadParameter))
		}
		if seen[d.ID] {
			return nil, newConfigError(d.ID, ErrDuplicateDevice)
		}
		seen[d.ID] = true
	}

	return file.Devices, nil
}

// FloatParam reads a numeric implementation-specific parameter.
// YAML numbers arrive as int or float64 depending on their spelling,
// so both are accepted.
func (d DeviceDescriptor) FloatParam(key string) (float64, error) {
	v, ok := d.Params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s requires %q", ErrBadParameter, d.ID, key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s: %q must be a number, got %T", ErrBadParameter, d.ID, key, v)
	}
}

// FloatParamDefault reads a numeric parameter, falling back to def
// when the key is absent. A present-but-malformed value is still an
// error.
func (d DeviceDescriptor) FloatParamDefault(key string, def float64) (float64, error) {
	if _, ok := d.Params[key]; !ok {
		return def, nil
	}
	return d.FloatParam(key)
}

// IntParam reads an integer implementation-specific parameter.
func (d DeviceDescriptor) IntParam(key string) (int, error) {
	v, ok := d.Params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s requires %q", ErrBadParameter, d.ID, key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s: %q must be an integer, got %T", ErrBadParameter, d.ID, key, v)
	}
}

// StringParam reads a string implementation-specific parameter.
func (d DeviceDescriptor) StringParam(key string) (string, error) {
	v, ok := d.Params[key]
	if !ok {
		return "", fmt.Errorf("%w: %s requires %q", ErrBadParameter, d.ID, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: %q must be a string, got %T", ErrBadParameter, d.ID, key, v)
	}
	return s, nil
}

// MapParam reads a nested mapping parameter (e.g. per-pump settings).
// yaml.v3 decodes nested mappings as map[string]any.
func (d DeviceDescriptor) MapParam(key string) (map[string]any, error) {
	v, ok := d.Params[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s requires %q", ErrBadParameter, d.ID, key)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %q must be a mapping, got %T", ErrBadParameter, d.ID, key, v)
	}
	return m, nil
}

// PIDParam reads an optional "pid" mapping with p/i/d gains.
// Returns nil (no error) when the key is absent.
func (d DeviceDescriptor) PIDParam() (*PIDConfig, error) {
	v, ok := d.Params["pid"]
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: \"pid\" must be a mapping, got %T", ErrBadParameter, d.ID, v)
	}

	cfg := &PIDConfig{}
	gains := map[string]*float64{"p": &cfg.P, "i": &cfg.I, "d": &cfg.D}
	for key, dst := range gains {
		gv, ok := m[key]
		if !ok {
			continue
		}
		switch n := gv.(type) {
		case float64:
			*dst = n
		case int:
			*dst = float64(n)
		default:
			return nil, fmt.Errorf("%w: %s: pid.%s must be a number, got %T", ErrBadParameter, d.ID, key, gv)
		}
	}
	return cfg, nil
}
