package hardware

import (
	"errors"
	"fmt"
	"testing"
)

// fakeDevice records its construction inputs so tests can verify
// ordering and dependency resolution.
type fakeDevice struct {
	id     string
	deps   map[string]Device
	closed bool
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}

// built tracks construction order across a single Build call.
var built []string

func init() {
	Register("testdev", "ok", func(desc DeviceDescriptor, deps map[string]Device) (Device, error) {
		built = append(built, desc.ID)
		return &fakeDevice{id: desc.ID, deps: deps}, nil
	})
	Register("testdev", "boom", func(desc DeviceDescriptor, deps map[string]Device) (Device, error) {
		return nil, fmt.Errorf("construction exploded")
	})
}

func TestBuild_OrdersByDependencies(t *testing.T) {
	built = nil

	descriptors := []DeviceDescriptor{
		{ID: "top", Type: "testdev", Implementation: "ok", Dependencies: []string{"mid"}},
		{ID: "mid", Type: "testdev", Implementation: "ok", Dependencies: []string{"base"}},
		{ID: "base", Type: "testdev", Implementation: "ok"},
	}

	g, err := Build(descriptors, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer g.Close()

	want := []string{"base", "mid", "top"}
	if len(built) != len(want) {
		t.Fatalf("built %v devices, want %v", built, want)
	}
	for i, id := range want {
		if built[i] != id {
			t.Errorf("construction order[%d] = %q, want %q", i, built[i], id)
		}
	}

	// Dependencies must be handed to the constructor already built.
	top, _ := g.Device("top")
	dev := top.(*fakeDevice)
	if _, ok := dev.deps["mid"]; !ok {
		t.Error("top device did not receive its mid dependency")
	}
}

func TestBuild_MissingDependency(t *testing.T) {
	descriptors := []DeviceDescriptor{
		{ID: "needy", Type: "testdev", Implementation: "ok", Dependencies: []string{"ghost"}},
	}

	_, err := Build(descriptors, nil)
	if err == nil {
		t.Fatal("Build() expected error for missing dependency")
	}

	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("Build() error = %v, want ErrMissingDependency", err)
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Build() error is not a *ConfigError: %v", err)
	}
	if cfgErr.DeviceID != "needy" {
		t.Errorf("ConfigError.DeviceID = %q, want %q", cfgErr.DeviceID, "needy")
	}
}

func TestBuild_DependencyCycle(t *testing.T) {
	descriptors := []DeviceDescriptor{
		{ID: "a", Type: "testdev", Implementation: "ok", Dependencies: []string{"b"}},
		{ID: "b", Type: "testdev", Implementation: "ok", Dependencies: []string{"a"}},
	}

	_, err := Build(descriptors, nil)
	if err == nil {
		t.Fatal("Build() expected error for dependency cycle")
	}

	if !errors.Is(err, ErrDependencyCycle) {
		t.Errorf("Build() error = %v, want ErrDependencyCycle", err)
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Build() error is not a *ConfigError: %v", err)
	}
	if cfgErr.DeviceID != "a" && cfgErr.DeviceID != "b" {
		t.Errorf("ConfigError.DeviceID = %q, want a device on the cycle", cfgErr.DeviceID)
	}
}

func TestBuild_UnknownImplementation(t *testing.T) {
	descriptors := []DeviceDescriptor{
		{ID: "mystery", Type: "testdev", Implementation: "nonexistent"},
	}

	_, err := Build(descriptors, nil)
	if err == nil {
		t.Fatal("Build() expected error for unknown implementation")
	}

	if !errors.Is(err, ErrUnknownImplementation) {
		t.Errorf("Build() error = %v, want ErrUnknownImplementation", err)
	}
}

func TestBuild_ConstructorFailureClosesPartialGraph(t *testing.T) {
	built = nil

	descriptors := []DeviceDescriptor{
		{ID: "first", Type: "testdev", Implementation: "ok"},
		{ID: "second", Type: "testdev", Implementation: "boom", Dependencies: []string{"first"}},
	}

	_, err := Build(descriptors, nil)
	if err == nil {
		t.Fatal("Build() expected error for failing constructor")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Build() error is not a *ConfigError: %v", err)
	}
	if cfgErr.DeviceID != "second" {
		t.Errorf("ConfigError.DeviceID = %q, want %q", cfgErr.DeviceID, "second")
	}
}

func TestBuild_DuplicateID(t *testing.T) {
	descriptors := []DeviceDescriptor{
		{ID: "twin", Type: "testdev", Implementation: "ok"},
		{ID: "twin", Type: "testdev", Implementation: "ok"},
	}

	_, err := Build(descriptors, nil)
	if !errors.Is(err, ErrDuplicateDevice) {
		t.Errorf("Build() error = %v, want ErrDuplicateDevice", err)
	}
}

func TestGraph_Close(t *testing.T) {
	built = nil

	descriptors := []DeviceDescriptor{
		{ID: "dev-a", Type: "testdev", Implementation: "ok"},
		{ID: "dev-b", Type: "testdev", Implementation: "ok", Dependencies: []string{"dev-a"}},
	}

	g, err := Build(descriptors, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	devA, _ := g.Device("dev-a")
	devB, _ := g.Device("dev-b")

	g.Close()

	if !devA.(*fakeDevice).closed || !devB.(*fakeDevice).closed {
		t.Error("Close() did not close all devices")
	}

	if g.Len() != 0 {
		t.Errorf("Len() after Close() = %d, want 0", g.Len())
	}
}

func TestImplementations(t *testing.T) {
	impls := Implementations("testdev")

	found := map[string]bool{}
	for _, name := range impls {
		found[name] = true
	}

	if !found["ok"] || !found["boom"] {
		t.Errorf("Implementations(testdev) = %v, want ok and boom present", impls)
	}
}
