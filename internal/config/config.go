// Package config handles application configuration and setup
package config

import (
	"fmt"
	"time"

	"github.com/mnafees/chopper/v2/emulator"
	"github.com/mnafees/chopper/v2/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Options contains all settings shared by the frontends.
type Options struct {
	ROM     string // path of the program to run
	Machine string // machine kind, see emulator.Kinds

	ClockHz int
	// Quirks selects interpreter behaviour, nil selects chip8.DefaultQuirks.
	Quirks  *chip8.Quirks
	Seed    int64
	Trace   bool // log every executed instruction

	Title string // window title
	Scale int    // integer upscaling factor
	Mute  bool
	Wav   string // record the buzzer to this WAV file

	Debug bool
	Quiet bool

	// headless
	Duration time.Duration // emulated time to run
	Expect   string        // expected framebuffer CRC32 hex
}

// Defaults fills missing fields with reasonable defaults.
func (o *Options) Defaults() {
	if o.Machine == "" {
		o.Machine = string(emulator.Chip8)
	}
	if o.ClockHz <= 0 {
		o.ClockHz = chip8.DefaultClockHz
	}
	if o.Quirks == nil {
		quirks := chip8.DefaultQuirks
		o.Quirks = &quirks
	}
	if o.Title == "" {
		o.Title = "Chopper | CHIP-8 Emulator"
	}
	if o.Scale <= 0 {
		o.Scale = 20
	}
	if o.Duration <= 0 {
		o.Duration = 5 * time.Second
	}
}

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

// NewMachine creates the machine selected by the options and loads the ROM.
func NewMachine(logger *log.Logger, opts Options) (emulator.Machine, error) {
	opts.Defaults()
	kind, err := emulator.ParseKind(opts.Machine)
	if err != nil {
		return nil, err
	}

	var m emulator.Machine
	switch kind {
	case emulator.Chip8:
		vm := chip8.New(logger, chip8.Config{
			ClockHz: opts.ClockHz,
			Quirks:  *opts.Quirks,
			Seed:    opts.Seed,
			Trace:   opts.Trace,
		})
		if opts.ROM != "" {
			if err := vm.LoadProgramFile(opts.ROM); err != nil {
				return nil, err
			}
		}
		m = chip8.NewMachine(vm)
	default:
		return nil, fmt.Errorf("machine %s has no constructor", kind)
	}

	logger.Info("Machine created",
		log.String("machine", m.Name()),
		log.String("rom", opts.ROM))
	return m, nil
}
