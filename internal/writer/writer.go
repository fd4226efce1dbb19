// Package writer implements the listing output of a disassembled program.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/intcodevm/internal/program"
)

const dataCellsPerLine = 8

// Writer writes a program listing.
type Writer struct {
	app     *program.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	OffsetComments bool // prefix comments with the address of the line
	RawComments    bool // output the raw cells of instructions in comments
}

// New creates a new writer.
func New(app *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		app:     app,
		options: options,
		writer:  writer,
	}
}

// Write writes all code offsets, data cells, labels and their comments.
func (w Writer) Write() error {
	var previousLineWasCode bool
	endIndex := len(w.app.Offsets)

	for i := 0; i < endIndex; i++ {
		offset := w.app.Offsets[i]

		if err := w.writeLabel(i, offset); err != nil {
			return err
		}

		// print an empty line in case of data after code and vice versa
		isCode := offset.IsType(program.CodeOffset | program.CodeAsData)
		if i > 0 && offset.Label == "" && isCode != previousLineWasCode {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = isCode

		adjustment, err := w.writeOffset(i, endIndex, offset)
		if err != nil {
			return err
		}
		i += adjustment
	}
	return nil
}

// writeOffset writes the offset and returns the number of following offsets
// that were written as part of it.
func (w Writer) writeOffset(index, endIndex int, offset program.Offset) (int, error) {
	switch {
	case offset.IsType(program.CodeOffset) && len(offset.Cells) == 0:
		return 0, nil

	case offset.IsType(program.CodeAsData):
		line := dataLine(offset.Cells)
		if err := w.writeLine(index, line, offset.RawComment(), offset.Comment); err != nil {
			return 0, fmt.Errorf("writing code as data: %w", err)
		}
		return max(len(offset.Cells)-1, 0), nil

	case offset.IsType(program.CodeOffset):
		if err := w.writeLine(index, offset.Code, offset.RawComment(), offset.Comment); err != nil {
			return 0, fmt.Errorf("writing code line: %w", err)
		}
		return len(offset.Cells) - 1, nil

	default:
		count, err := w.bundleDataWrites(index, endIndex)
		if err != nil {
			return 0, err
		}
		return count - 1, nil
	}
}

// bundleDataWrites writes up to dataCellsPerLine consecutive data cells that are
// not interrupted by a label or comment and returns the number of written cells.
// A data cell with a comment is written on its own line.
func (w Writer) bundleDataWrites(startIndex, endIndex int) (int, error) {
	var cells []int64

	comment := w.app.Offsets[startIndex].Comment

	for i := startIndex; i < endIndex && len(cells) < dataCellsPerLine; i++ {
		offset := w.app.Offsets[i]
		if i > startIndex && (offset.Label != "" || offset.Comment != "" || comment != "") {
			break
		}
		if offset.IsType(program.CodeOffset|program.CodeAsData) || len(offset.Cells) == 0 {
			break
		}
		cells = append(cells, offset.Cells[0])
	}

	if len(cells) == 0 {
		return 1, nil
	}
	if err := w.writeLine(startIndex, dataLine(cells), "", comment); err != nil {
		return 0, fmt.Errorf("writing data line: %w", err)
	}
	return len(cells), nil
}

func (w Writer) writeLabel(index int, offset program.Offset) error {
	if offset.Label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w.writer, "%s:\n", offset.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

// writeLine writes a listing line with its optional comment parts.
func (w Writer) writeLine(index int, line, raw, comment string) error {
	var parts []string
	switch {
	case w.options.OffsetComments && w.options.RawComments && raw != "":
		parts = append(parts, fmt.Sprintf("%04d: %s", index, raw))
	case w.options.OffsetComments:
		parts = append(parts, fmt.Sprintf("%04d", index))
	case w.options.RawComments && raw != "":
		parts = append(parts, raw)
	}
	if comment != "" {
		parts = append(parts, comment)
	}

	if len(parts) == 0 {
		_, err := fmt.Fprintf(w.writer, "  %s\n", line)
		return err
	}
	_, err := fmt.Fprintf(w.writer, "  %-30s ; %s\n", line, strings.Join(parts, " "))
	return err
}

func dataLine(cells []int64) string {
	values := make([]string, len(cells))
	for i, cell := range cells {
		values[i] = fmt.Sprint(cell)
	}
	return ".data " + strings.Join(values, ", ")
}
