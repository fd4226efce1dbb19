// Package assembler assembles a program listing back into Intcode memory cells.
package assembler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/intcodevm/internal/intcode"
)

const (
	commentPrefix   = ";"
	dataDirective   = ".data"
	labelSuffix     = ":"
	relativePrefix  = "rb"
	paramsSeparator = ","
)

// Errors returned for invalid listings.
var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrParameterCount     = errors.New("wrong number of parameters")
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrDuplicateLabel     = errors.New("duplicate label")
	ErrUnknownLabel       = errors.New("unknown label")
)

// statement is a parsed listing line that emits memory cells.
type statement struct {
	line    int
	address int
	data    bool
	opcode  intcode.Opcode
	params  []string
}

// size returns the number of memory cells the statement occupies.
func (s statement) size() int {
	if s.data {
		return len(s.params)
	}
	return s.opcode.Size()
}

// Assemble reads a listing and returns the memory cells it describes.
func Assemble(r io.Reader) ([]int64, error) {
	statements, labels, err := parse(r)
	if err != nil {
		return nil, err
	}

	var memory []int64
	for _, st := range statements {
		cells, err := encode(st, labels)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", st.line, err)
		}
		memory = append(memory, cells...)
	}
	return memory, nil
}

// parse reads all statements and assigns addresses to the labels.
func parse(r io.Reader) ([]statement, map[string]int, error) {
	var statements []statement
	labels := map[string]int{}
	address := 0

	scanner := bufio.NewScanner(r)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := scanner.Text()
		if i := strings.Index(line, commentPrefix); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, ok := strings.CutSuffix(line, labelSuffix); ok {
			if _, exists := labels[name]; exists {
				return nil, nil, fmt.Errorf("line %d: %w '%s'", lineNumber, ErrDuplicateLabel, name)
			}
			labels[name] = address
			continue
		}

		st, err := parseStatement(line)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		st.line = lineNumber
		st.address = address
		address += st.size()
		statements = append(statements, st)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading listing: %w", err)
	}
	return statements, labels, nil
}

func parseStatement(line string) (statement, error) {
	name, rest, _ := strings.Cut(line, " ")
	var params []string
	if rest = strings.TrimSpace(rest); rest != "" {
		for _, param := range strings.Split(rest, paramsSeparator) {
			params = append(params, strings.TrimSpace(param))
		}
	}

	if name == dataDirective {
		if len(params) == 0 {
			return statement{}, fmt.Errorf("%w: data directive without values", ErrParameterCount)
		}
		return statement{data: true, params: params}, nil
	}

	op, ok := intcode.OpcodeByName(name)
	if !ok {
		return statement{}, fmt.Errorf("%w '%s'", ErrUnknownInstruction, name)
	}
	if len(params) != op.Params {
		return statement{}, fmt.Errorf("%w: %s expects %d, got %d", ErrParameterCount, name, op.Params, len(params))
	}
	return statement{opcode: op, params: params}, nil
}

// encode returns the memory cells of a statement.
func encode(st statement, labels map[string]int) ([]int64, error) {
	if st.data {
		cells := make([]int64, len(st.params))
		for i, param := range st.params {
			value, err := strconv.ParseInt(param, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w '%s': %w", ErrInvalidParameter, param, err)
			}
			cells[i] = value
		}
		return cells, nil
	}

	ins := intcode.Instruction{Opcode: st.opcode}
	cells := make([]int64, st.opcode.Size())
	for i, param := range st.params {
		mode, value, err := encodeParam(param, labels)
		if err != nil {
			return nil, err
		}
		ins.Modes[i] = mode
		cells[1+i] = value
	}
	cells[0] = ins.Encode()
	return cells, nil
}

// encodeParam returns the addressing mode and the cell value of a parameter:
// [address] for position mode, [rb+offset] for relative mode and a number or
// label name for immediate mode.
func encodeParam(param string, labels map[string]int) (intcode.Mode, int64, error) {
	if inner, ok := strings.CutPrefix(param, "["); ok {
		inner, ok = strings.CutSuffix(inner, "]")
		if !ok {
			return 0, 0, fmt.Errorf("%w '%s'", ErrInvalidParameter, param)
		}

		mode := intcode.PositionMode
		if offset, ok := strings.CutPrefix(inner, relativePrefix); ok {
			mode = intcode.RelativeMode
			inner = offset
		}
		value, err := strconv.ParseInt(inner, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w '%s': %w", ErrInvalidParameter, param, err)
		}
		return mode, value, nil
	}

	value, err := strconv.ParseInt(param, 10, 64)
	if err == nil {
		return intcode.ImmediateMode, value, nil
	}

	address, ok := labels[param]
	if !ok {
		return 0, 0, fmt.Errorf("%w '%s'", ErrUnknownLabel, param)
	}
	return intcode.ImmediateMode, int64(address), nil
}
