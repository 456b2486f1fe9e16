package kernel

// Axis selects the direction a derivative kernel responds to.
type Axis int

const (
	// AxisX responds to horizontal intensity changes (vertical edges).
	AxisX Axis = iota
	// AxisY responds to vertical intensity changes (horizontal edges).
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "unknown"
	}
}
