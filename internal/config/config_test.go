package config

import (
	"testing"

	"github.com/retroenv/intcodevm/internal/intcode"
	"github.com/retroenv/intcodevm/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}

func TestMachineOptions(t *testing.T) {
	defaultInput := int64(-1)
	opts := options.Flags{
		Inputs:       []int64{4},
		KeepLast:     false,
		DefaultInput: &defaultInput,
	}

	m := intcode.New([]int64{3, 10, 3, 11, 4, 10, 4, 11, 99}, MachineOptions(opts)...)
	assert.False(t, m.KeepLastInput())
	assert.Equal(t, 1, m.PendingInputs())
	assert.NoError(t, m.RunUntilHalt())
	assert.Equal(t, []int64{4, -1}, m.Outputs())
}

func TestMachineOptions_Defaults(t *testing.T) {
	m := intcode.New([]int64{3, 0, 99}, MachineOptions(options.Flags{KeepLast: true})...)
	assert.True(t, m.KeepLastInput())
	assert.Equal(t, 0, m.PendingInputs())
}
