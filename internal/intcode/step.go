package intcode

// Step executes the instruction at the instruction pointer.
// Failed instructions leave the instruction pointer unchanged.
func (m *Machine) Step() error {
	if m.halted {
		return ErrHalted
	}

	cell, err := m.memory.read(m.ip)
	if err != nil {
		return &ExecError{Address: m.ip, Opcode: cell, Err: err}
	}

	ins, err := Decode(cell)
	if err == nil {
		err = m.execute(ins)
	}
	if err != nil {
		return &ExecError{Address: m.ip, Opcode: cell, Err: err}
	}
	return nil
}

func (m *Machine) execute(ins Instruction) error {
	switch ins.Code {
	case OpAdd:
		return m.arithmetic(ins, func(a, b int64) int64 { return a + b })

	case OpMul:
		return m.arithmetic(ins, func(a, b int64) int64 { return a * b })

	case OpLessThan:
		return m.arithmetic(ins, func(a, b int64) int64 { return boolToCell(a < b) })

	case OpEquals:
		return m.arithmetic(ins, func(a, b int64) int64 { return boolToCell(a == b) })

	case OpInput:
		return m.input(ins)

	case OpOutput:
		value, err := m.param(ins, 1)
		if err != nil {
			return err
		}
		m.outputs = append(m.outputs, value)

	case OpJumpIfTrue:
		return m.jump(ins, func(v int64) bool { return v != 0 })

	case OpJumpIfFalse:
		return m.jump(ins, func(v int64) bool { return v == 0 })

	case OpAdjustBase:
		delta, err := m.param(ins, 1)
		if err != nil {
			return err
		}
		m.relativeBase += delta

	case OpHalt:
		m.halted = true
		return nil

	default:
		return ErrInvalidOpcode
	}

	m.ip += ins.Size()
	return nil
}

// arithmetic executes a three parameter instruction that stores op(a, b) in c.
func (m *Machine) arithmetic(ins Instruction, op func(a, b int64) int64) error {
	a, err := m.param(ins, 1)
	if err != nil {
		return err
	}
	b, err := m.param(ins, 2)
	if err != nil {
		return err
	}
	if err := m.store(ins, 3, op(a, b)); err != nil {
		return err
	}
	m.ip += ins.Size()
	return nil
}

func (m *Machine) jump(ins Instruction, cond func(int64) bool) error {
	value, err := m.param(ins, 1)
	if err != nil {
		return err
	}
	target, err := m.param(ins, 2)
	if err != nil {
		return err
	}

	if !cond(value) {
		m.ip += ins.Size()
		return nil
	}
	if target < 0 {
		return ErrNegativeAddress
	}
	if target >= maxCells {
		return ErrAddressOutOfRange
	}
	m.ip = int(target)
	return nil
}

// input stores the next input value. With more than one queued value the front
// value is consumed, the last remaining value is only peeked if keepLastInput is set.
func (m *Machine) input(ins Instruction) error {
	var value int64
	consume := false

	switch {
	case len(m.inputs) > 1, len(m.inputs) == 1 && !m.keepLastInput:
		value = m.inputs[0]
		consume = true
	case len(m.inputs) == 1:
		value = m.inputs[0]
	case m.hasDefaultInput:
		value = m.defaultInput
	default:
		return ErrInputStarved
	}

	if err := m.store(ins, 1, value); err != nil {
		return err
	}
	if consume {
		m.inputs = m.inputs[1:]
	}
	m.ip += ins.Size()
	return nil
}

func boolToCell(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
