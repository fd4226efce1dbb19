package intcode

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

const quine = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"

// echoIncrement reads a value to address 20, outputs value+1 and loops.
const echoIncrement = "3,20,1001,20,1,20,4,20,1105,1,0"

func mustParse(t *testing.T, text string, opts ...Option) *Machine {
	t.Helper()
	m, err := Parse(text, opts...)
	assert.NoError(t, err)
	return m
}

func TestMachine_Arithmetic(t *testing.T) {
	tests := []struct {
		name    string
		program string
		address int
		want    int64
	}{
		{"add and multiply", "1,9,10,3,2,3,11,0,99,30,40,50", 0, 3500},
		{"add", "1,0,0,0,99", 0, 2},
		{"multiply", "2,3,0,3,99", 3, 6},
		{"multiply beyond halt", "2,4,4,5,99,0", 5, 9801},
		{"self modifying", "1,1,1,4,99,5,6,0,99", 0, 30},
		{"immediate mode", "1002,4,3,4,33", 4, 99},
		{"negative immediate", "1101,100,-1,4,0", 4, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, tt.program)
			assert.NoError(t, m.RunUntilHalt())
			assert.True(t, m.Halted())

			value, err := m.Read(tt.address)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestMachine_Comparison(t *testing.T) {
	tests := []struct {
		name    string
		program string
		input   int64
		want    int64
	}{
		{"position equal 8", "3,9,8,9,10,9,4,9,99,-1,8", 8, 1},
		{"position equal 7", "3,9,8,9,10,9,4,9,99,-1,8", 7, 0},
		{"position less than 8", "3,9,7,9,10,9,4,9,99,-1,8", 5, 1},
		{"immediate equal 8", "3,3,1108,-1,8,3,4,3,99", 8, 1},
		{"immediate less than 8", "3,3,1107,-1,8,3,4,3,99", 9, 0},
		{"position jump zero", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 0, 0},
		{"immediate jump non zero", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, tt.program, WithInput(tt.input))
			assert.NoError(t, m.RunUntilHalt())

			out, ok := m.LastOutput()
			assert.True(t, ok)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMachine_Quine(t *testing.T) {
	program, err := ParseProgram(quine)
	assert.NoError(t, err)

	m := New(program)
	assert.NoError(t, m.RunUntilHalt())
	assert.Equal(t, program, m.Outputs())
	assert.True(t, m.memory.Len() > len(program))
}

func TestMachine_LargeNumbers(t *testing.T) {
	m := mustParse(t, "1102,34915192,34915192,7,4,7,99,0")
	assert.NoError(t, m.RunUntilHalt())
	out, ok := m.LastOutput()
	assert.True(t, ok)
	assert.Equal(t, int64(1219070632396864), out)

	m = mustParse(t, "104,1125899906842624,99")
	assert.NoError(t, m.RunUntilHalt())
	out, _ = m.LastOutput()
	assert.Equal(t, int64(1125899906842624), out)
}

func TestMachine_Deterministic(t *testing.T) {
	run := func() []int64 {
		m := mustParse(t, quine)
		assert.NoError(t, m.RunUntilHalt())
		return m.Outputs()
	}
	assert.Equal(t, run(), run())
}

func TestMachine_Growth(t *testing.T) {
	m := mustParse(t, "1101,2,3,50,99")
	assert.NoError(t, m.RunUntilHalt())

	memory := m.Memory()
	assert.Equal(t, 51, len(memory))
	assert.Equal(t, int64(5), memory[50])
	for i := 5; i < 50; i++ {
		assert.Equal(t, int64(0), memory[i])
	}
}

func TestMachine_RelativeBase(t *testing.T) {
	// arb 10, then in and out through relative address 11
	m := mustParse(t, "109,10,203,1,204,1,99", WithInput(42))
	assert.NoError(t, m.RunUntilHalt())
	assert.Equal(t, int64(10), m.RelativeBase())
	out, _ := m.LastOutput()
	assert.Equal(t, int64(42), out)
	assert.Equal(t, 12, len(m.Memory()))
}

func TestMachine_KeepLastInput(t *testing.T) {
	const program = "3,20,3,21,4,20,4,21,99"

	t.Run("keep last input", func(t *testing.T) {
		m := mustParse(t, program, WithInput(5))
		assert.True(t, m.KeepLastInput())
		assert.NoError(t, m.RunUntilHalt())
		assert.Equal(t, []int64{5, 5}, m.Outputs())
		assert.Equal(t, 1, m.PendingInputs())
	})

	t.Run("consume last input", func(t *testing.T) {
		m := mustParse(t, program, WithInput(5), WithKeepLastInput(false))
		err := m.RunUntilHalt()
		assert.True(t, errors.Is(err, ErrInputStarved))
		assert.Equal(t, 2, m.InstructionPointer())
		assert.Equal(t, 0, m.PendingInputs())
	})

	t.Run("fifo before last input", func(t *testing.T) {
		m := mustParse(t, program, WithInput(1, 2))
		assert.NoError(t, m.RunUntilHalt())
		assert.Equal(t, []int64{1, 2}, m.Outputs())
	})
}

func TestMachine_InputStarvedRetry(t *testing.T) {
	m := mustParse(t, "3,20,4,20,99", WithKeepLastInput(false))

	err := m.Step()
	assert.True(t, errors.Is(err, ErrInputStarved))
	assert.Equal(t, 0, m.InstructionPointer())
	assert.False(t, m.Halted())

	var execErr *ExecError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, 0, execErr.Address)
	assert.Equal(t, int64(OpInput), execErr.Opcode)

	m.AddInput(7)
	assert.NoError(t, m.RunUntilHalt())
	assert.Equal(t, []int64{7}, m.Outputs())
}

func TestMachine_DefaultInput(t *testing.T) {
	m := mustParse(t, "3,20,3,21,4,20,4,21,99", WithDefaultInput(-1), WithKeepLastInput(false))
	m.AddInput(3)
	assert.NoError(t, m.RunUntilHalt())
	assert.Equal(t, []int64{3, -1}, m.Outputs())

	m = mustParse(t, "3,20,4,20,99", WithDefaultInput(4))
	m.ClearDefaultInput()
	assert.True(t, errors.Is(m.Step(), ErrInputStarved))
}

func TestMachine_RunUntilOutputOrHalt(t *testing.T) {
	m := mustParse(t, "104,1,104,2,99")

	assert.NoError(t, m.RunUntilOutputOrHalt())
	assert.Equal(t, []int64{1}, m.Outputs())
	assert.NoError(t, m.RunUntilOutputOrHalt())
	assert.Equal(t, []int64{1, 2}, m.Outputs())
	assert.False(t, m.Halted())

	assert.NoError(t, m.RunUntilOutputOrHalt())
	assert.True(t, m.Halted())
	assert.Equal(t, 2, len(m.Outputs()))

	// returns immediately once halted
	assert.NoError(t, m.RunUntilOutputOrHalt())
}

func TestMachine_LastOutputIdempotent(t *testing.T) {
	m := mustParse(t, "104,7,99")
	_, ok := m.LastOutput()
	assert.False(t, ok)

	assert.NoError(t, m.RunUntilOutputOrHalt())
	first, ok := m.LastOutput()
	assert.True(t, ok)
	second, ok := m.LastOutput()
	assert.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(7), second)

	m.ClearOutputs()
	_, ok = m.LastOutput()
	assert.False(t, ok)
}

func TestMachine_CooperativeFeedback(t *testing.T) {
	run := func() (int64, int64) {
		a := mustParse(t, echoIncrement, WithKeepLastInput(false), WithInput(0))
		b := a.Clone()
		b.inputs = nil

		var lastA, lastB int64
		for range 5 {
			assert.NoError(t, a.RunUntilOutputOrHalt())
			lastA, _ = a.LastOutput()
			b.AddInput(lastA)

			assert.NoError(t, b.RunUntilOutputOrHalt())
			lastB, _ = b.LastOutput()
			a.AddInput(lastB)
		}
		return lastA, lastB
	}

	a1, b1 := run()
	a2, b2 := run()
	assert.Equal(t, int64(9), a1)
	assert.Equal(t, int64(10), b1)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestMachine_Clone(t *testing.T) {
	m := mustParse(t, echoIncrement, WithKeepLastInput(false), WithInput(1, 2))
	assert.NoError(t, m.RunUntilOutputOrHalt())

	memory := m.Memory()
	ip := m.InstructionPointer()
	outputs := m.Outputs()

	c := m.Clone()
	c.AddInput(10)
	assert.NoError(t, c.RunUntilOutputOrHalt())
	assert.NoError(t, c.RunUntilOutputOrHalt())
	assert.NoError(t, c.Write(100, 1))

	assert.Equal(t, memory, m.Memory())
	assert.Equal(t, ip, m.InstructionPointer())
	assert.Equal(t, outputs, m.Outputs())
	assert.Equal(t, 1, m.PendingInputs())
	assert.False(t, m.Halted())
	assert.Equal(t, []int64{2, 3, 11}, c.Outputs())
}

func TestMachine_ClearInputs(t *testing.T) {
	m := mustParse(t, "3,0,4,0,99", WithInput(1, 2))
	m.ClearInputs()
	assert.Equal(t, 0, m.PendingInputs())

	m.AddInput(5)
	assert.NoError(t, m.RunUntilHalt())
	assert.Equal(t, []int64{5}, m.Outputs())
}

func TestMachine_CloneRelativeBaseAndHalt(t *testing.T) {
	m := mustParse(t, "109,3,109,4,204,-7,99")
	assert.NoError(t, m.Step())
	assert.Equal(t, int64(3), m.RelativeBase())

	c := m.Clone()
	assert.NoError(t, c.RunUntilHalt())
	assert.Equal(t, int64(7), c.RelativeBase())
	assert.True(t, c.Halted())
	assert.Equal(t, []int64{109}, c.Outputs())

	assert.Equal(t, int64(3), m.RelativeBase())
	assert.Equal(t, 2, m.InstructionPointer())
	assert.False(t, m.Halted())
	assert.Equal(t, 0, len(m.Outputs()))

	assert.NoError(t, m.RunUntilHalt())
	assert.Equal(t, c.Outputs(), m.Outputs())
	assert.Equal(t, c.RelativeBase(), m.RelativeBase())
	assert.Equal(t, c.InstructionPointer(), m.InstructionPointer())
}

func TestMachine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		program string
		want    error
	}{
		{"invalid opcode", "42,0,0,0", ErrInvalidOpcode},
		{"negative opcode", "-1", ErrInvalidOpcode},
		{"invalid mode", "301,0,0,0,99", ErrInvalidMode},
		{"negative read address", "4,-1,99", ErrNegativeAddress},
		{"negative relative address", "204,-1,99", ErrNegativeAddress},
		{"negative jump target", "1105,1,-1", ErrNegativeAddress},
		{"immediate write", "11101,1,1,0,99", ErrImmediateWrite},
		{"immediate input", "103,0,99", ErrImmediateWrite},
		{"write beyond memory limit", "1101,1,1,1125899906842624,99", ErrAddressOutOfRange},
		{"read beyond memory limit", "4,9223372036854775806,99", ErrAddressOutOfRange},
		{"relative address beyond memory limit", "22201,0,0,67108864,99", ErrAddressOutOfRange},
		{"jump beyond memory limit", "1105,1,67108864", ErrAddressOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, tt.program, WithInput(1))
			err := m.RunUntilHalt()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			assert.Equal(t, 0, m.InstructionPointer())
		})
	}
}

func TestMachine_StepHalted(t *testing.T) {
	m := mustParse(t, "99")
	assert.NoError(t, m.Step())
	assert.True(t, m.Halted())
	assert.Equal(t, 0, m.InstructionPointer())
	assert.True(t, errors.Is(m.Step(), ErrHalted))
}

func TestMachine_PatchMemory(t *testing.T) {
	m := mustParse(t, "1,0,0,0,99,3,4")
	assert.NoError(t, m.Write(1, 5))
	assert.NoError(t, m.Write(2, 6))
	assert.NoError(t, m.RunUntilHalt())

	value, err := m.Read(0)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), value)

	assert.True(t, errors.Is(m.Write(-1, 0), ErrNegativeAddress))
	_, err = m.Read(-5)
	assert.True(t, errors.Is(err, ErrNegativeAddress))
}
