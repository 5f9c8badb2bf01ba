package core

// ControlSystem identifies one of the independent controllers of the car.
type ControlSystem int

const (
	Steering ControlSystem = iota
	Acceleration
	Gear
)

func (c ControlSystem) String() string {
	switch c {
	case Steering:
		return "STEERING"
	case Acceleration:
		return "ACCELERATION"
	case Gear:
		return "GEAR"
	}
	return "UNKNOWN"
}

// ParseControlSystem accepts the canonical names as well as the short
// forms used on the command line (steer, accel, gear).
func ParseControlSystem(s string) (ControlSystem, bool) {
	switch s {
	case "STEERING", "steering", "steer":
		return Steering, true
	case "ACCELERATION", "acceleration", "accel":
		return Acceleration, true
	case "GEAR", "gear":
		return Gear, true
	}
	return 0, false
}
