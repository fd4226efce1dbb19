package intcode

// Opcode values of the instruction set.
const (
	OpAdd          = 1
	OpMul          = 2
	OpInput        = 3
	OpOutput       = 4
	OpJumpIfTrue   = 5
	OpJumpIfFalse  = 6
	OpLessThan     = 7
	OpEquals       = 8
	OpAdjustBase   = 9
	OpHalt         = 99
	opcodeModulus  = 100
	maxParamsCount = 3
)

// Opcode describes an instruction of the instruction set.
type Opcode struct {
	Code   int64
	Name   string
	Params int // number of parameters following the opcode cell

	// Write is the 1-based index of the parameter that is written to,
	// 0 if the instruction does not write memory.
	Write int

	Jump bool // instruction can set the instruction pointer
	Halt bool // instruction stops execution
}

// Size returns the number of memory cells the instruction occupies.
func (o Opcode) Size() int {
	return 1 + o.Params
}

// Opcodes maps all supported opcode values to their description.
var Opcodes = map[int64]Opcode{
	OpAdd:         {Code: OpAdd, Name: "add", Params: 3, Write: 3},
	OpMul:         {Code: OpMul, Name: "mul", Params: 3, Write: 3},
	OpInput:       {Code: OpInput, Name: "in", Params: 1, Write: 1},
	OpOutput:      {Code: OpOutput, Name: "out", Params: 1},
	OpJumpIfTrue:  {Code: OpJumpIfTrue, Name: "jnz", Params: 2, Jump: true},
	OpJumpIfFalse: {Code: OpJumpIfFalse, Name: "jz", Params: 2, Jump: true},
	OpLessThan:    {Code: OpLessThan, Name: "lt", Params: 3, Write: 3},
	OpEquals:      {Code: OpEquals, Name: "eq", Params: 3, Write: 3},
	OpAdjustBase:  {Code: OpAdjustBase, Name: "arb", Params: 1},
	OpHalt:        {Code: OpHalt, Name: "hlt", Halt: true},
}

// Instruction is a decoded opcode cell.
type Instruction struct {
	Opcode
	Modes [maxParamsCount]Mode
}

// Decode splits an opcode cell into its opcode and the parameter modes.
// Mode digits are validated only for the parameters the opcode uses.
func Decode(cell int64) (Instruction, error) {
	op, ok := LookupOpcode(cell)
	if !ok {
		return Instruction{}, ErrInvalidOpcode
	}

	ins := Instruction{Opcode: op}
	modes := cell / opcodeModulus
	for i := 0; i < op.Params; i++ {
		mode := Mode(modes % 10)
		if !mode.Valid() {
			return Instruction{}, ErrInvalidMode
		}
		ins.Modes[i] = mode
		modes /= 10
	}
	return ins, nil
}

// LookupOpcode returns the opcode description for an opcode cell,
// ignoring the parameter mode digits.
func LookupOpcode(cell int64) (Opcode, bool) {
	if cell < 0 {
		return Opcode{}, false
	}
	op, ok := Opcodes[cell%opcodeModulus]
	return op, ok
}

// Encode returns the canonical opcode cell of the instruction, with mode
// digits only for the parameters the opcode uses.
func (ins Instruction) Encode() int64 {
	cell := ins.Code
	factor := int64(opcodeModulus)
	for i := 0; i < ins.Params; i++ {
		cell += int64(ins.Modes[i]) * factor
		factor *= 10
	}
	return cell
}

// OpcodeByName returns the opcode description for an instruction name.
func OpcodeByName(name string) (Opcode, bool) {
	for _, op := range Opcodes {
		if op.Name == name {
			return op, true
		}
	}
	return Opcode{}, false
}
