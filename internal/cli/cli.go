// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chopper/v2/internal/chip8"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ParseFlags parses command line arguments, without the program name, into
// the frontend options.
func ParseFlags(name string, args []string) (config.Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts config.Options
	quirks := readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{name: name, flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return opts, &UsageError{name: name, flags: flags}
	}
	if err := validateArgs(rest); err != nil {
		err.name, err.flags = name, flags
		return opts, err
	}
	opts.ROM = rest[0]
	qs := quirks.resolve()
	opts.Quirks = &qs
	opts.Defaults()
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	name  string
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "no CHIP-8 program given"
	}
	return e.msg
}

// ShowUsage prints the usage line and all flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: %s [options] <CHIP-8 program>\n\n", e.name)
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks that the program is the last argument.
func validateArgs(args []string) *UsageError {
	for i, arg := range args {
		if i > 0 && len(arg) > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the program, please pass the program as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{msg: fmt.Sprintf("only one program can be run, got %d", len(args))}
	}
	return nil
}

type quirkFlags struct {
	index bool
	sub   bool
	shift bool
	jump  bool
	vf    bool
}

func (q quirkFlags) resolve() chip8.Quirks {
	var qs chip8.Quirks
	qs = qs.With(chip8.QuirkMemoryMovesIndex, q.index)
	qs = qs.With(chip8.QuirkSubtractOffByOne, q.sub)
	qs = qs.With(chip8.QuirkShiftUsesVY, q.shift)
	qs = qs.With(chip8.QuirkJumpUsesVX, q.jump)
	qs = qs.With(chip8.QuirkVFReset, q.vf)
	return qs
}

func readOptionFlags(flags *flag.FlagSet, opts *config.Options) *quirkFlags {
	flags.StringVar(&opts.Machine, "machine", "chip8", "machine to emulate (chip8)")
	flags.IntVar(&opts.ClockHz, "clock", chip8.DefaultClockHz, "instructions executed per second")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 picks one")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction (needs -debug)")

	flags.StringVar(&opts.Title, "title", "", "window title")
	flags.IntVar(&opts.Scale, "scale", 20, "window scale")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the buzzer")
	flags.StringVar(&opts.Wav, "wav", "", "record the buzzer to a WAV file")

	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.DurationVar(&opts.Duration, "duration", 0, "emulated time to run in headless mode")
	flags.StringVar(&opts.Expect, "expect", "", "assert framebuffer CRC32 (hex) in headless mode")

	q := &quirkFlags{}
	flags.BoolVar(&q.index, "quirk-index", chip8.DefaultQuirks.Has(chip8.QuirkMemoryMovesIndex), "Fx55/Fx65 advance I past the last register")
	flags.BoolVar(&q.sub, "quirk-sub", false, "borrowing SUB/SUBN compute 0xFF-(rhs-lhs)")
	flags.BoolVar(&q.shift, "quirk-shift", false, "8xy6/8xyE shift Vy instead of Vx")
	flags.BoolVar(&q.jump, "quirk-jump", false, "Bnnn adds Vx instead of V0")
	flags.BoolVar(&q.vf, "quirk-vf", false, "OR/AND/XOR reset VF")
	return q
}

// PrintBanner logs the program name and build version unless running quietly.
func PrintBanner(logger *log.Logger, name string, opts config.Options, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))
}
