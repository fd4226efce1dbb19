// Package disasm implements a static Intcode disassembler that follows the
// execution flow from address 0. Self-modifying programs can execute
// instructions that are not visible statically, those cells are output as data.
package disasm

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/intcodevm/internal/intcode"
	"github.com/retroenv/intcodevm/internal/options"
	"github.com/retroenv/intcodevm/internal/program"
	"github.com/retroenv/intcodevm/internal/writer"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// offset extends program.Offset with disassembler specific fields.
type offset struct {
	program.Offset

	opcode     intcode.Opcode
	params     []string // formatted parameters
	branchFrom []int    // addresses of all jumps to this offset
}

// Disasm implements an Intcode disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	memory  []int64
	offsets []offset

	branchDestinations set.Set[int] // set of all addresses that are jumped to

	offsetsToParse      []int
	offsetsToParseAdded set.Set[int]
}

// New creates a new disassembler for a copy of the given memory.
func New(logger *log.Logger, memory []int64, options options.Disassembler) (*Disasm, error) {
	if len(memory) == 0 {
		return nil, intcode.ErrEmptyProgram
	}

	dis := &Disasm{
		logger:              logger,
		options:             options,
		memory:              append([]int64(nil), memory...),
		offsets:             make([]offset, len(memory)),
		branchDestinations:  set.New[int](),
		offsetsToParseAdded: set.New[int](),
	}
	return dis, nil
}

// Process disassembles the program and writes the listing to the writer.
func (dis *Disasm) Process(ctx context.Context, w io.Writer) (*program.Program, error) {
	dis.addAddressToParse(0, -1)
	if err := dis.followExecutionFlow(ctx); err != nil {
		return nil, err
	}
	dis.processJumpDestinations()

	app := dis.convertToProgram()
	dis.logger.Debug("Disassembly finished",
		log.Int("cells", len(app.Offsets)),
		log.Int("code_cells", app.CodeCells()),
		log.Int("labels", len(app.Labels)))

	fileWriter := writer.New(app, w, writer.Options{
		OffsetComments: dis.options.OffsetComments,
		RawComments:    dis.options.RawComments,
	})
	if err := fileWriter.Write(); err != nil {
		return nil, fmt.Errorf("writing listing: %w", err)
	}
	return app, nil
}

// followExecutionFlow parses instructions and follows the execution flow to parse all code.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("following execution flow: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]

		offsetInfo := &dis.offsets[address]
		if offsetInfo.IsType(program.CodeOffset) {
			if len(offsetInfo.Cells) > 0 {
				continue // parsed already
			}
			dis.handleJumpIntoInstruction(address)
		}

		ins, ok := dis.decodeInstruction(address)
		if !ok {
			continue
		}

		if dis.checkInstructionOverlap(address, ins) {
			continue
		}

		offsetInfo.opcode = ins.Opcode
		offsetInfo.Cells = dis.memory[address : address+ins.Size()]
		offsetInfo.params = dis.formatParams(address, ins)
		offsetInfo.Code = formatCode(ins.Name, offsetInfo.params)
		dis.changeAddressRangeToCode(address, ins.Size())

		// unused mode digits can not be expressed in the listing notation
		if cell := dis.memory[address]; cell != ins.Encode() {
			offsetInfo.SetType(program.CodeAsData)
			offsetInfo.Comment = fmt.Sprintf("non-canonical encoding %d: %s", cell, offsetInfo.Code)
		}

		if ins.Halt {
			continue
		}
		if ins.Jump {
			dis.processJump(address, ins)
			continue
		}
		dis.addAddressToParse(address+ins.Size(), address)
	}
	return nil
}

// decodeInstruction decodes the instruction at the address and returns whether
// it is a valid instruction that fits into the program.
func (dis *Disasm) decodeInstruction(address int) (intcode.Instruction, bool) {
	offsetInfo := &dis.offsets[address]
	cell := dis.memory[address]

	ins, err := intcode.Decode(cell)
	if err != nil {
		offsetInfo.Comment = fmt.Sprintf("reached %v", err)
		dis.logger.Debug("Invalid instruction on execution path",
			log.Int("address", address),
			log.Err(err))
		return intcode.Instruction{}, false
	}

	if address+ins.Size() > len(dis.memory) {
		offsetInfo.Comment = "truncated instruction " + ins.Name
		return intcode.Instruction{}, false
	}
	return ins, true
}

// processJump queues the fall-through address unless the jump is unconditional and
// queues the target if it is an immediate value inside the program.
func (dis *Disasm) processJump(address int, ins intcode.Instruction) {
	condition := dis.memory[address+1]
	conditionKnown := ins.Modes[0] == intcode.ImmediateMode
	alwaysTaken := conditionKnown && (condition != 0) == (ins.Code == intcode.OpJumpIfTrue)
	neverTaken := conditionKnown && !alwaysTaken

	if !alwaysTaken {
		dis.addAddressToParse(address+ins.Size(), address)
	}
	if neverTaken || ins.Modes[1] != intcode.ImmediateMode {
		return
	}

	target := dis.memory[address+2]
	if target < 0 || target >= int64(len(dis.memory)) {
		dis.offsets[address].Comment = fmt.Sprintf("jump target %d outside of program", target)
		return
	}

	dest := int(target)
	dis.branchDestinations.Add(dest)
	dis.offsets[dest].branchFrom = append(dis.offsets[dest].branchFrom, address)
	dis.addAddressToParse(dest, address)
}

// addAddressToParse adds an address to the list to be processed if the address has not been processed yet.
func (dis *Disasm) addAddressToParse(address, from int) {
	if address < 0 || address >= len(dis.memory) {
		if from >= 0 {
			dis.logger.Debug("Execution flow leaves program",
				log.Int("address", address),
				log.Int("from", from))
		}
		return
	}
	if dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

// converts the internal disassembly representation to a program type that will be used by
// the writer to generate the listing.
func (dis *Disasm) convertToProgram() *program.Program {
	app := program.New(len(dis.offsets))

	for i := range dis.offsets {
		offsetInfo := dis.offsets[i].Offset
		if !offsetInfo.IsType(program.CodeOffset) {
			offsetInfo.SetType(program.DataOffset)
			offsetInfo.Cells = dis.memory[i : i+1]
		}
		if offsetInfo.Label != "" {
			app.Labels[offsetInfo.Label] = i
		}
		app.Offsets[i] = offsetInfo
	}
	return app
}
