// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/intcodevm/internal/intcode"
	"github.com/retroenv/intcodevm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// MachineOptions returns the virtual machine options for the program options.
func MachineOptions(opts options.Flags) []intcode.Option {
	machineOpts := []intcode.Option{
		intcode.WithKeepLastInput(opts.KeepLast),
	}
	if len(opts.Inputs) > 0 {
		machineOpts = append(machineOpts, intcode.WithInput(opts.Inputs...))
	}
	if opts.DefaultInput != nil {
		machineOpts = append(machineOpts, intcode.WithDefaultInput(*opts.DefaultInput))
	}
	return machineOpts
}
