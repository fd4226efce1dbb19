// Package intcode implements the Intcode virtual machine: a self-modifying
// program running on a flat, growable memory of signed 64-bit cells with an
// input queue and an output log.
package intcode

// Machine is an Intcode virtual machine. A machine is not safe for concurrent use.
type Machine struct {
	memory       Memory
	ip           int   // instruction pointer
	relativeBase int64 // offset for relative mode parameters

	inputs  []int64
	outputs []int64
	halted  bool

	keepLastInput   bool
	defaultInput    int64
	hasDefaultInput bool
}

// Option configures a machine on creation.
type Option func(*Machine)

// WithKeepLastInput sets whether the last remaining input value is peeked
// instead of consumed by input instructions.
func WithKeepLastInput(keep bool) Option {
	return func(m *Machine) {
		m.keepLastInput = keep
	}
}

// WithDefaultInput sets the value read by input instructions when the input queue is empty.
func WithDefaultInput(value int64) Option {
	return func(m *Machine) {
		m.SetDefaultInput(value)
	}
}

// WithInput queues the given input values.
func WithInput(values ...int64) Option {
	return func(m *Machine) {
		m.AddInput(values...)
	}
}

// New returns a machine that executes a copy of the given program.
// The last input is kept by default.
func New(program []int64, opts ...Option) *Machine {
	m := &Machine{
		memory:        NewMemory(program),
		keepLastInput: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Clone returns an independent copy of the complete machine state.
func (m *Machine) Clone() *Machine {
	c := *m
	c.memory = m.memory.clone()
	c.inputs = append([]int64(nil), m.inputs...)
	c.outputs = append([]int64(nil), m.outputs...)
	return &c
}

// AddInput appends values to the input queue.
func (m *Machine) AddInput(values ...int64) {
	m.inputs = append(m.inputs, values...)
}

// ClearInputs empties the input queue.
func (m *Machine) ClearInputs() {
	m.inputs = nil
}

// PendingInputs returns the number of queued input values.
func (m *Machine) PendingInputs() int {
	return len(m.inputs)
}

// SetDefaultInput sets the value read by input instructions when the input queue is empty.
func (m *Machine) SetDefaultInput(value int64) {
	m.defaultInput = value
	m.hasDefaultInput = true
}

// ClearDefaultInput removes the default input, an empty input queue starves
// input instructions again.
func (m *Machine) ClearDefaultInput() {
	m.defaultInput = 0
	m.hasDefaultInput = false
}

// SetKeepLastInput sets whether the last remaining input value is peeked
// instead of consumed by input instructions.
func (m *Machine) SetKeepLastInput(keep bool) {
	m.keepLastInput = keep
}

// KeepLastInput returns whether the last remaining input value is peeked
// instead of consumed.
func (m *Machine) KeepLastInput() bool {
	return m.keepLastInput
}

// LastOutput returns the most recent output value.
func (m *Machine) LastOutput() (int64, bool) {
	if len(m.outputs) == 0 {
		return 0, false
	}
	return m.outputs[len(m.outputs)-1], true
}

// Outputs returns a copy of all output values.
func (m *Machine) Outputs() []int64 {
	return append([]int64(nil), m.outputs...)
}

// ClearOutputs empties the output log.
func (m *Machine) ClearOutputs() {
	m.outputs = m.outputs[:0]
}

// Halted returns whether the halt instruction was executed.
func (m *Machine) Halted() bool {
	return m.halted
}

// InstructionPointer returns the address of the next instruction.
func (m *Machine) InstructionPointer() int {
	return m.ip
}

// RelativeBase returns the current relative base.
func (m *Machine) RelativeBase() int64 {
	return m.relativeBase
}

// Read returns the memory cell at addr, growing the memory if needed.
func (m *Machine) Read(addr int) (int64, error) {
	return m.memory.read(addr)
}

// Write sets the memory cell at addr, growing the memory if needed.
func (m *Machine) Write(addr int, value int64) error {
	return m.memory.write(addr, value)
}

// Memory returns a copy of the memory cells.
func (m *Machine) Memory() []int64 {
	return m.memory.Cells()
}

// RunUntilHalt steps the machine until it halts.
func (m *Machine) RunUntilHalt() error {
	for !m.halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntilOutputOrHalt steps the machine until it appended one new output
// value or halted.
func (m *Machine) RunUntilOutputOrHalt() error {
	outputs := len(m.outputs)
	for !m.halted && len(m.outputs) == outputs {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
