// Package amplifier drives chains of Intcode machines that pass their output
// signal on to the next machine, either once in series or repeatedly in a
// feedback loop.
package amplifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/intcodevm/internal/intcode"
)

// Mode defines how the amplifiers are connected.
type Mode string

// Supported connection modes.
const (
	SeriesMode   Mode = "series"
	FeedbackMode Mode = "feedback"
)

// ErrNoSignal is returned when the last amplifier never produced an output.
var ErrNoSignal = errors.New("last amplifier produced no output")

// Result is the best signal found for a set of phase settings.
type Result struct {
	Signal int64
	Phases []int64 // phase order that produced the signal
}

// newAmplifiers returns one independent copy of the template per phase setting,
// each with its phase setting as the only queued input.
func newAmplifiers(template *intcode.Machine, phases []int64) []*intcode.Machine {
	amps := make([]*intcode.Machine, len(phases))
	for i, phase := range phases {
		amp := template.Clone()
		amp.SetKeepLastInput(false)
		amp.ClearInputs()
		amp.AddInput(phase)
		amps[i] = amp
	}
	return amps
}

// Series runs one amplifier per phase setting to halt, each receiving the
// output of the previous one as signal, and returns the output of the last one.
func Series(ctx context.Context, template *intcode.Machine, phases []int64, signal int64) (int64, error) {
	for i, amp := range newAmplifiers(template, phases) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		amp.SetDefaultInput(signal)
		if err := amp.RunUntilHalt(); err != nil {
			return 0, fmt.Errorf("running amplifier %d: %w", i, err)
		}

		output, ok := amp.LastOutput()
		if !ok {
			return 0, fmt.Errorf("amplifier %d: %w", i, ErrNoSignal)
		}
		signal = output
	}
	return signal, nil
}

// Feedback connects the output of the last amplifier to the input of the first
// one and schedules the amplifiers round-robin, each running until it produced
// one output or halted. It returns the last output of the last amplifier once
// an amplifier halts.
func Feedback(ctx context.Context, template *intcode.Machine, phases []int64, signal int64) (int64, error) {
	amps := newAmplifiers(template, phases)
	if len(amps) == 0 {
		return 0, ErrNoSignal
	}

	var result int64
	hasResult := false

	for i := 0; ; i = (i + 1) % len(amps) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		amp := amps[i]
		amp.SetDefaultInput(signal)
		if err := amp.RunUntilOutputOrHalt(); err != nil {
			return 0, fmt.Errorf("running amplifier %d: %w", i, err)
		}
		if amp.Halted() {
			break
		}

		signal, _ = amp.LastOutput()
		if i == len(amps)-1 {
			result = signal
			hasResult = true
		}
	}

	if !hasResult {
		return 0, ErrNoSignal
	}
	return result, nil
}

// MaxSignal tries every order of the given phase settings and returns the
// highest resulting signal for an initial signal of 0.
func MaxSignal(ctx context.Context, template *intcode.Machine, phases []int64, mode Mode) (Result, error) {
	var run func(context.Context, *intcode.Machine, []int64, int64) (int64, error)
	switch mode {
	case SeriesMode:
		run = Series
	case FeedbackMode:
		run = Feedback
	default:
		return Result{}, fmt.Errorf("unsupported amplifier mode '%s'", mode)
	}
	if len(phases) == 0 {
		return Result{}, errors.New("no phase settings given")
	}

	var best Result
	found := false
	err := permutations(phases, func(order []int64) error {
		signal, err := run(ctx, template, order, 0)
		if err != nil {
			return fmt.Errorf("phase order %v: %w", order, err)
		}
		if !found || signal > best.Signal {
			best = Result{
				Signal: signal,
				Phases: append([]int64(nil), order...),
			}
			found = true
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return best, nil
}

// permutations calls fn with every order of values, generated by Heap's algorithm.
// The slice passed to fn is reused between calls.
func permutations(values []int64, fn func([]int64) error) error {
	order := append([]int64(nil), values...)
	c := make([]int, len(order))

	if err := fn(order); err != nil {
		return err
	}

	for i := 1; i < len(order); {
		if c[i] >= i {
			c[i] = 0
			i++
			continue
		}

		if i%2 == 0 {
			order[0], order[i] = order[i], order[0]
		} else {
			order[c[i]], order[i] = order[i], order[c[i]]
		}
		if err := fn(order); err != nil {
			return err
		}
		c[i]++
		i = 1
	}
	return nil
}
