// Package verification verifies that the generated listing recreates the input program.
package verification

import (
	"fmt"
	"io"
	"strconv"

	"github.com/retroenv/intcodevm/internal/assembler"
	"github.com/retroenv/retrogolib/log"
)

const maxLoggedMismatches = 10

// VerifyOutput assembles the listing and verifies that it recreates the exact input memory.
func VerifyOutput(logger *log.Logger, memory []int64, listing io.Reader) error {
	output, err := assembler.Assemble(listing)
	if err != nil {
		return fmt.Errorf("assembling listing: %w", err)
	}

	if err := checkBufferEqual(logger, memory, output); err != nil {
		return fmt.Errorf("comparing memory: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []int64) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs <= maxLoggedMismatches {
			logger.Error("Offset mismatch",
				log.Int("offset", i),
				log.String("expected", strconv.FormatInt(input[i], 10)),
				log.String("got", strconv.FormatInt(output[i], 10)))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
