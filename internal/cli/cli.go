// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/retroenv/intcodevm/internal/options"
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	opts := options.Program{
		Flags: options.Flags{
			Mode:     options.RunMode,
			KeepLast: true,
		},
	}
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		return opts, options.Disassembler{}, &UsageError{flags: flags, msg: msg}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Disassembler{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Disassembler{}, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	disasmOptions := createDisasmOptions(opts)
	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: intcodevm [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = options.Mode(strings.ToLower(string(opts.Mode)))
	if !slices.Contains(options.Modes, opts.Mode) {
		names := make([]string, len(options.Modes))
		for i, mode := range options.Modes {
			names[i] = string(mode)
		}
		return fmt.Errorf("unsupported mode: %s. Valid options: %s", opts.Mode, strings.Join(names, ", "))
	}

	if opts.AssembleTest && opts.Mode != options.DisasmMode {
		return fmt.Errorf("verification is only supported in %s mode", options.DisasmMode)
	}

	if len(opts.Inputs) > 0 && (opts.Mode == options.AmplifyMode || opts.Mode == options.FeedbackMode) {
		return fmt.Errorf("input values are not supported in %s mode, amplifiers read their phase setting and signal", opts.Mode)
	}

	if opts.MaxSteps < 0 {
		return fmt.Errorf("invalid maximum steps %d", opts.MaxSteps)
	}

	// default phase settings of the amplifier controller software
	if len(opts.Phases) == 0 {
		switch opts.Mode {
		case options.AmplifyMode:
			opts.Phases = []int64{0, 1, 2, 3, 4}
		case options.FeedbackMode:
			opts.Phases = []int64{5, 6, 7, 8, 9}
		}
	}
	return nil
}

// createDisasmOptions creates disassembler options based on program options
func createDisasmOptions(opts options.Program) options.Disassembler {
	disasmOptions := options.NewDisassembler()
	disasmOptions.OffsetComments = !opts.NoOffsets
	disasmOptions.RawComments = !opts.NoRawComments
	return disasmOptions
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.Func("m", "mode to execute (run/amplify/feedback/disasm), default run", func(s string) error {
		opts.Mode = options.Mode(s)
		return nil
	})
	flags.Func("input", "comma separated list of values to queue as program input", func(s string) error {
		values, err := parseValues(s)
		opts.Inputs = append(opts.Inputs, values...)
		return err
	})
	flags.Func("phases", "comma separated list of amplifier phase settings", func(s string) error {
		values, err := parseValues(s)
		opts.Phases = values
		return err
	})
	flags.Func("patch", "comma separated list of addr=value memory cells to overwrite before running", func(s string) error {
		patches, err := parsePatches(s)
		opts.Patches = append(opts.Patches, patches...)
		return err
	})
	flags.Func("default-input", "value to read when the input queue is empty", func(s string) error {
		value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return err
		}
		opts.DefaultInput = &value
		return nil
	})
	flags.BoolVar(&opts.KeepLast, "keep-last", true, "peek the last remaining input value instead of consuming it")
	flags.IntVar(&opts.MaxSteps, "max-steps", 0, "maximum number of instructions to execute, 0 for no limit")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify the generated listing by assembling it and check if it matches the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output addresses in listing comments")
	flags.BoolVar(&opts.NoRawComments, "norawcomments", false, "do not output raw instruction cells in listing comments")
}

func parseValues(s string) ([]int64, error) {
	var values []int64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value '%s': %w", field, err)
		}
		values = append(values, value)
	}
	return values, nil
}

func parsePatches(s string) ([]options.Patch, error) {
	var patches []options.Patch
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		addr, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("patch '%s' is not in addr=value format", field)
		}
		address, err := strconv.Atoi(strings.TrimSpace(addr))
		if err != nil || address < 0 {
			return nil, fmt.Errorf("invalid patch address '%s'", addr)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid patch value '%s': %w", value, err)
		}
		patches = append(patches, options.Patch{Address: address, Value: v})
	}
	return patches, nil
}
