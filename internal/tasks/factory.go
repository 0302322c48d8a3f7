package tasks

import "fmt"

// Task kinds accepted by New. These are the step kinds recipes refer
// to.
const (
	KindHeat         = "heat"
	KindCool         = "cool"
	KindMaintainHeat = "maintain_heat"
	KindMaintainCool = "maintain_cool"
	KindMaintainPID  = "maintain_pid"
	KindStir         = "stir"
	KindPump         = "pump"
)

// Params is the union of per-kind task options.
type Params struct {
	// Target is the target temperature in Celsius (heat, cool,
	// maintain_*).
	Target float64 `json:"target"`

	// Tolerance is the half-width of the temperature band in Celsius
	// (maintain_*).
	Tolerance float64 `json:"tolerance"`

	// Time is a duration in virtual seconds: how long to maintain or
	// stir, or the target delivery time for pump (zero means as fast
	// as the pump allows).
	Time float64 `json:"time"`

	// Pump is the dispenser channel name (pump).
	Pump string `json:"pump"`

	// Volume is the amount to dispense in millilitres (pump).
	Volume float64 `json:"volume"`
}

// New builds a task of the given kind against the facade.
func New(kind string, hw Facade, p Params) (*Task, error) {
	switch kind {
	case KindHeat:
		return Heat(hw, p.Target), nil
	case KindCool:
		return Cool(hw, p.Target), nil
	case KindMaintainHeat:
		return MaintainHeat(hw, p.Target, p.Tolerance, p.Time), nil
	case KindMaintainCool:
		return MaintainCool(hw, p.Target, p.Tolerance, p.Time), nil
	case KindMaintainPID:
		return MaintainPID(hw, p.Target, p.Tolerance, p.Time), nil
	case KindStir:
		return Stir(hw, p.Time), nil
	case KindPump:
		return Pump(hw, p.Pump, p.Volume, p.Time), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Kinds lists every kind New accepts.
func Kinds() []string {
	return []string{
		KindHeat, KindCool,
		KindMaintainHeat, KindMaintainCool, KindMaintainPID,
		KindStir, KindPump,
	}
}
