package intcode

import "fmt"

// Mode defines how a parameter value is interpreted.
type Mode int8

// Parameter modes.
const (
	PositionMode  Mode = 0 // parameter is an address
	ImmediateMode Mode = 1 // parameter is the value
	RelativeMode  Mode = 2 // parameter plus relative base is an address
)

// Valid returns whether the mode is a known parameter mode.
func (m Mode) Valid() bool {
	return m >= PositionMode && m <= RelativeMode
}

func (m Mode) String() string {
	switch m {
	case PositionMode:
		return "position"
	case ImmediateMode:
		return "immediate"
	case RelativeMode:
		return "relative"
	default:
		return fmt.Sprintf("mode(%d)", int8(m))
	}
}

// address resolves the address a position or relative mode parameter refers to.
func (m *Machine) address(mode Mode, raw int64) (int, error) {
	var addr int64
	switch mode {
	case PositionMode:
		addr = raw
	case RelativeMode:
		addr = raw + m.relativeBase
	case ImmediateMode:
		return 0, ErrImmediateWrite
	default:
		return 0, ErrInvalidMode
	}
	if addr < 0 {
		return 0, ErrNegativeAddress
	}
	if addr >= maxCells {
		return 0, ErrAddressOutOfRange
	}
	return int(addr), nil
}

// param returns the value of the 1-based parameter index of the current instruction.
func (m *Machine) param(ins Instruction, index int) (int64, error) {
	raw, err := m.memory.read(m.ip + index)
	if err != nil {
		return 0, err
	}

	mode := ins.Modes[index-1]
	if mode == ImmediateMode {
		return raw, nil
	}

	addr, err := m.address(mode, raw)
	if err != nil {
		return 0, err
	}
	return m.memory.read(addr)
}

// store writes value to the address referenced by the 1-based parameter index of
// the current instruction.
func (m *Machine) store(ins Instruction, index int, value int64) error {
	raw, err := m.memory.read(m.ip + index)
	if err != nil {
		return err
	}

	addr, err := m.address(ins.Modes[index-1], raw)
	if err != nil {
		return err
	}
	return m.memory.write(addr, value)
}
