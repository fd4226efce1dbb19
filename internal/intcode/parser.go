package intcode

import (
	"strconv"
	"strings"
)

// ParseProgram parses a comma separated list of base-10 integers.
func ParseProgram(text string) ([]int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyProgram
	}

	fields := strings.Split(text, ",")
	program := make([]int64, len(fields))
	for i, field := range fields {
		field = strings.TrimSpace(field)
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, &ParseError{Index: i, Text: field, Err: err}
		}
		program[i] = value
	}
	return program, nil
}

// Parse parses the program text and returns a machine that executes it.
func Parse(text string, opts ...Option) (*Machine, error) {
	program, err := ParseProgram(text)
	if err != nil {
		return nil, err
	}
	return New(program, opts...), nil
}
