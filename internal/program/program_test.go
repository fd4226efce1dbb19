package program

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestOffset_Types(t *testing.T) {
	offset := &Offset{}
	assert.False(t, offset.IsType(CodeOffset|DataOffset))

	offset.SetType(CodeOffset | JumpDestination)
	assert.True(t, offset.IsType(CodeOffset))
	assert.True(t, offset.IsType(JumpDestination))
	assert.True(t, offset.IsType(DataOffset|JumpDestination))
	assert.False(t, offset.IsType(DataOffset))

	offset.ClearType(CodeOffset)
	assert.False(t, offset.IsType(CodeOffset))
	assert.True(t, offset.IsType(JumpDestination))

	offset.ClearType(DataOffset)
	assert.Equal(t, JumpDestination, offset.Type)
}

func TestOffset_RawComment(t *testing.T) {
	tests := []struct {
		name     string
		cells    []int64
		expected string
	}{
		{"single cell", []int64{99}, "99"},
		{"instruction", []int64{1002, 4, 3, 4}, "1002,4,3,4"},
		{"negative values", []int64{204, -1}, "204,-1"},
		{"no cells", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := Offset{Cells: tt.cells}
			assert.Equal(t, tt.expected, offset.RawComment())
		})
	}
}

func TestProgram_CodeCells(t *testing.T) {
	app := New(4)
	app.Offsets[0].SetType(CodeOffset)
	app.Offsets[1].SetType(CodeOffset)
	app.Offsets[2].SetType(DataOffset)
	app.Offsets[3].SetType(CodeAsData | DataOffset)

	assert.Equal(t, 2, app.CodeCells())
	assert.NotNil(t, app.Labels)
}
