package disasm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/retroenv/intcodevm/internal/intcode"
	"github.com/retroenv/intcodevm/internal/program"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/exp/maps"
)

const labelNaming = "_label_%04d"

// processJumpDestinations processes all jump destinations and updates the jumps with
// the generated jump destination label name.
func (dis *Disasm) processJumpDestinations() {
	branchDestinations := maps.Keys(dis.branchDestinations)
	slices.Sort(branchDestinations)

	for _, address := range branchDestinations {
		offsetInfo := &dis.offsets[address]
		name := fmt.Sprintf(labelNaming, address)
		offsetInfo.Label = name
		offsetInfo.SetType(program.JumpDestination)

		for _, from := range offsetInfo.branchFrom {
			source := &dis.offsets[from]
			// the jump can have been converted to data after it was parsed
			if !source.IsType(program.CodeOffset) || len(source.Cells) == 0 {
				continue
			}
			source.params[1] = name
			source.Code = formatCode(source.opcode.Name, source.params)
		}
	}
}

// handleJumpIntoInstruction converts an instruction that has a jump destination
// inside its parameter cells into data.
func (dis *Disasm) handleJumpIntoInstruction(address int) {
	start := address - 1
	for start > 0 && len(dis.offsets[start].Cells) == 0 {
		start--
	}

	offsetInfo := &dis.offsets[start]
	size := len(offsetInfo.Cells)
	offsetInfo.Comment = "jump into instruction detected: " + offsetInfo.Code
	offsetInfo.Code = ""
	offsetInfo.SetType(program.CodeAsData)

	for i := start; i < start+size; i++ {
		dis.offsets[i].ClearType(program.CodeOffset)
		dis.offsets[i].Cells = nil
	}

	dis.logger.Debug("Jump into instruction detected",
		log.Int("address", address),
		log.Int("instruction", start))
}

// checkInstructionOverlap returns whether the parameters of the instruction overlap
// an already parsed instruction or an already processed jump destination. In that
// case the instruction is marked as data. Pending jump destinations are handled by
// handleJumpIntoInstruction once they are processed.
func (dis *Disasm) checkInstructionOverlap(address int, ins intcode.Instruction) bool {
	for i := 1; i < ins.Size(); i++ {
		var reason string
		switch {
		case dis.offsets[address+i].IsType(program.CodeOffset):
			reason = "overlapping instruction: "
		case dis.branchDestinations.Contains(address+i) && !slices.Contains(dis.offsetsToParse, address+i):
			reason = "jump destination inside instruction: "
		default:
			continue
		}

		offsetInfo := &dis.offsets[address]
		offsetInfo.SetType(program.CodeAsData)
		offsetInfo.Comment = reason + formatCode(ins.Name, dis.formatParams(address, ins))
		return true
	}
	return false
}

// changeAddressRangeToCode sets a range of addresses to code type.
func (dis *Disasm) changeAddressRangeToCode(address, size int) {
	for i := address; i < address+size; i++ {
		dis.offsets[i].SetType(program.CodeOffset)
	}
}

// formatParams returns the parameters of the instruction at address in listing notation:
// position mode as [address], relative mode as [rb+offset] and immediate values as is.
func (dis *Disasm) formatParams(address int, ins intcode.Instruction) []string {
	params := make([]string, ins.Params)
	for i := range params {
		raw := dis.memory[address+1+i]
		switch ins.Modes[i] {
		case intcode.PositionMode:
			params[i] = fmt.Sprintf("[%d]", raw)
		case intcode.RelativeMode:
			params[i] = fmt.Sprintf("[rb%+d]", raw)
		default:
			params[i] = fmt.Sprint(raw)
		}
	}
	return params
}

func formatCode(name string, params []string) string {
	if len(params) == 0 {
		return name
	}
	return name + " " + strings.Join(params, ", ")
}
