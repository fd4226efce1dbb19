// Package app provides the main application helpers for the virtual machine runner.
package app

import (
	"fmt"

	"github.com/retroenv/intcodevm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the input file and the loaded program.
func PrintInfo(logger *log.Logger, opts options.Program, cells int) {
	if opts.Quiet {
		return
	}

	switch opts.Mode {
	case options.RunMode:
		logger.Info("Running program",
			log.String("file", opts.Input),
			log.Int("cells", cells),
			log.Int("inputs", len(opts.Inputs)),
		)

	case options.AmplifyMode, options.FeedbackMode:
		logger.Info("Searching amplifier phase settings",
			log.String("file", opts.Input),
			log.Int("cells", cells),
			log.String("mode", string(opts.Mode)),
			log.String("phases", fmt.Sprint(opts.Phases)),
		)

	case options.DisasmMode:
		logger.Info("Disassembling program",
			log.String("file", opts.Input),
			log.Int("cells", cells),
		)
	}
}
