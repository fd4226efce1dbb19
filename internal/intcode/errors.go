package intcode

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyProgram is returned when the program text contains no cells.
	ErrEmptyProgram = errors.New("empty program")
	// ErrInvalidOpcode is returned for an opcode that is not part of the instruction set.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrInvalidMode is returned for a parameter mode digit other than 0, 1 or 2.
	ErrInvalidMode = errors.New("invalid parameter mode")
	// ErrNegativeAddress is returned when an operand resolves to a negative address.
	ErrNegativeAddress = errors.New("negative address")
	// ErrAddressOutOfRange is returned when an operand resolves to an address
	// beyond the maximum memory size.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrImmediateWrite is returned when an instruction writes through an immediate mode operand.
	ErrImmediateWrite = errors.New("write through immediate mode parameter")
	// ErrInputStarved is returned when an input instruction executes with an empty
	// input queue and no default input. The machine state is left unchanged so the
	// instruction can be retried after more input was added.
	ErrInputStarved = errors.New("input queue is empty")
	// ErrHalted is returned when stepping a machine that already halted.
	ErrHalted = errors.New("machine is halted")
)

// ParseError describes a program cell that could not be parsed.
type ParseError struct {
	Index int    // index of the cell in the program
	Text  string // text of the cell
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing cell %d '%s': %v", e.Index, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExecError describes a failure while executing the instruction at Address.
type ExecError struct {
	Address int   // address of the instruction
	Opcode  int64 // full opcode cell including parameter modes
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("executing opcode %d at address %d: %v", e.Opcode, e.Address, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
