// Package options contains the program options.
package options

// Mode names the operation performed on the loaded program.
type Mode string

// Supported modes.
const (
	RunMode      Mode = "run"
	AmplifyMode  Mode = "amplify"
	FeedbackMode Mode = "feedback"
	DisasmMode   Mode = "disasm"
)

// Modes lists all supported modes.
var Modes = []Mode{RunMode, AmplifyMode, FeedbackMode, DisasmMode}

// Patch overwrites a memory cell before the program runs.
type Patch struct {
	Address int
	Value   int64
}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input program file"`
	Output string `flag:"o" usage:"output file (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	Mode         Mode    `flag:"m" usage:"mode: run, amplify, feedback, disasm" default:"run"`
	Inputs       []int64 `flag:"input" usage:"comma separated input values"`
	Phases       []int64 `flag:"phases" usage:"comma separated amplifier phase settings"`
	Patches      []Patch `flag:"patch" usage:"comma separated addr=value memory patches"`
	KeepLast     bool    `flag:"keep-last" usage:"peek the last remaining input instead of consuming it" default:"true"`
	DefaultInput *int64  `flag:"default-input" usage:"value read when the input queue is empty"`
	MaxSteps     int     `flag:"max-steps" usage:"maximum number of executed instructions, 0 for no limit"`
	AssembleTest bool    `flag:"verify" usage:"verify listing by reassembling and comparing to input"`
	Debug        bool    `flag:"debug" usage:"enable debug logging"`
	Quiet        bool    `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	NoOffsets     bool `flag:"nooffsets" usage:"omit addresses in listing comments"`
	NoRawComments bool `flag:"norawcomments" usage:"omit raw instruction cells in listing comments"`
}

// Program options of the virtual machine runner.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	OffsetComments bool
	RawComments    bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		OffsetComments: true,
		RawComments:    true,
	}
}
