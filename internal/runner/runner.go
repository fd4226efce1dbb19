// Package runner orchestrates loading an Intcode program and executing the selected mode.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/intcodevm/internal/amplifier"
	"github.com/retroenv/intcodevm/internal/app"
	"github.com/retroenv/intcodevm/internal/config"
	"github.com/retroenv/intcodevm/internal/disasm"
	"github.com/retroenv/intcodevm/internal/intcode"
	"github.com/retroenv/intcodevm/internal/options"
	"github.com/retroenv/intcodevm/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// ErrStepLimit is returned when the program did not halt within the configured step limit.
var ErrStepLimit = errors.New("step limit reached")

// contextCheckInterval is the number of executed instructions between context checks.
const contextCheckInterval = 1024

// Runner orchestrates a single program execution.
type Runner struct {
	logger *log.Logger
}

// New creates a new runner.
func New(logger *log.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Execute loads the program file and runs it in the configured mode.
func (r *Runner) Execute(ctx context.Context, opts options.Program, disasmOpts options.Disassembler, writer io.Writer) error {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	memory, err := intcode.ParseProgram(string(data))
	if err != nil {
		return fmt.Errorf("parsing program: %w", err)
	}

	return r.ExecuteWithProgram(ctx, memory, opts, disasmOpts, writer)
}

// ExecuteWithProgram runs an already parsed program in the configured mode.
// This is useful for testing and programmatic usage where the program is already in memory.
func (r *Runner) ExecuteWithProgram(ctx context.Context, memory []int64, opts options.Program,
	disasmOpts options.Disassembler, writer io.Writer) error {

	machine := intcode.New(memory, config.MachineOptions(opts.Flags)...)
	if err := applyPatches(machine, opts.Patches); err != nil {
		return err
	}

	app.PrintInfo(r.logger, opts, len(memory))

	switch opts.Mode {
	case options.RunMode:
		return r.run(ctx, machine, opts.MaxSteps, writer)

	case options.AmplifyMode:
		return r.amplify(ctx, machine, opts.Phases, amplifier.SeriesMode, writer)

	case options.FeedbackMode:
		return r.amplify(ctx, machine, opts.Phases, amplifier.FeedbackMode, writer)

	case options.DisasmMode:
		return r.disassemble(ctx, machine.Memory(), opts, disasmOpts, writer)

	default:
		return fmt.Errorf("unsupported mode '%s'", opts.Mode)
	}
}

func applyPatches(machine *intcode.Machine, patches []options.Patch) error {
	for _, patch := range patches {
		if err := machine.Write(patch.Address, patch.Value); err != nil {
			return fmt.Errorf("patching address %d: %w", patch.Address, err)
		}
	}
	return nil
}

// run steps the machine until it halts and writes every output value on its own line.
func (r *Runner) run(ctx context.Context, machine *intcode.Machine, maxSteps int, writer io.Writer) error {
	var steps int
	for !machine.Halted() {
		if maxSteps > 0 && steps >= maxSteps {
			return fmt.Errorf("%w: %d instructions executed", ErrStepLimit, steps)
		}
		if steps%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("running program: %w", err)
			}
		}

		if err := machine.Step(); err != nil {
			return fmt.Errorf("running program: %w", err)
		}
		steps++
	}

	r.logger.Debug("Program halted",
		log.Int("steps", steps),
		log.Int("outputs", len(machine.Outputs())),
		log.Int("memory", len(machine.Memory())))

	for _, value := range machine.Outputs() {
		if _, err := fmt.Fprintln(writer, value); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}

func (r *Runner) amplify(ctx context.Context, machine *intcode.Machine, phases []int64,
	mode amplifier.Mode, writer io.Writer) error {

	result, err := amplifier.MaxSignal(ctx, machine, phases, mode)
	if err != nil {
		return fmt.Errorf("searching phase settings: %w", err)
	}

	order := make([]string, len(result.Phases))
	for i, phase := range result.Phases {
		order[i] = strconv.FormatInt(phase, 10)
	}

	if _, err := fmt.Fprintf(writer, "signal: %d\nphases: %s\n", result.Signal, strings.Join(order, ",")); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (r *Runner) disassemble(ctx context.Context, memory []int64, opts options.Program,
	disasmOpts options.Disassembler, writer io.Writer) error {

	dis, err := disasm.New(r.logger, memory, disasmOpts)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}

	var listing bytes.Buffer
	if opts.AssembleTest {
		writer = io.MultiWriter(writer, &listing)
	}

	if _, err := dis.Process(ctx, writer); err != nil {
		return fmt.Errorf("processing disassembly: %w", err)
	}

	// Verify output (if requested)
	if opts.AssembleTest {
		if err := verification.VerifyOutput(r.logger, memory, &listing); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		r.logger.Info("Verification successful")
	}
	return nil
}
