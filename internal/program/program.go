// Package program represents a disassembled Intcode program.
package program

import (
	"fmt"
	"strings"
)

// OffsetType is a bit set describing how a memory cell is used.
type OffsetType uint8

const (
	UnknownOffset   OffsetType = 0
	CodeOffset      OffsetType = 1 << (iota - 1) // cell is part of a reachable instruction
	DataOffset                                   // cell is output as data
	CodeAsData                                   // instruction that is output as data, see Offset.Comment
	JumpDestination                              // immediate target of a jump instruction
)

// Offset defines the content of a memory cell of a program that can represent data or code.
type Offset struct {
	Cells []int64 // data cell or all cells that are part of the instruction

	Type OffsetType

	Label   string // name of label if identified as a jump destination
	Code    string // listing output of this instruction
	Comment string
}

// RawComment returns the cells of the offset as comma separated values.
func (o Offset) RawComment() string {
	values := make([]string, len(o.Cells))
	for i, cell := range o.Cells {
		values[i] = fmt.Sprint(cell)
	}
	return strings.Join(values, ",")
}

// IsType returns whether any of the given type bits is set.
func (o *Offset) IsType(typ OffsetType) bool {
	return o.Type&typ != 0
}

// SetType adds the type bits to the offset.
func (o *Offset) SetType(typ OffsetType) {
	o.Type |= typ
}

// ClearType removes the type bits from the offset.
func (o *Offset) ClearType(typ OffsetType) {
	o.Type &^= typ
}

// Program defines a disassembled program that contains code or data.
type Program struct {
	Offsets []Offset

	Labels map[string]int // label name to address
}

// New creates a new program initialized with a memory size.
func New(size int) *Program {
	return &Program{
		Offsets: make([]Offset, size),
		Labels:  map[string]int{},
	}
}

// CodeCells returns the number of cells that are part of reachable instructions.
func (p *Program) CodeCells() int {
	count := 0
	for _, offset := range p.Offsets {
		if offset.IsType(CodeOffset) {
			count++
		}
	}
	return count
}
