package sdl

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/chopper/v2/emulator"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA

	frameDelay = 2 // ms to sleep between loop iterations
)

// IO is the input/output abstraction layer for the machine
type IO struct {
	logger  *log.Logger
	opts    config.Options
	machine emulator.Machine

	window  *sdl.Window
	surface *sdl.Surface
	speaker *speaker
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(logger *log.Logger, machine emulator.Machine, opts config.Options) *IO {
	opts.Defaults()
	return &IO{
		logger:  logger,
		opts:    opts,
		machine: machine,
	}
}

// SetupWindow initialises SDL, sets up the main window and opens the audio device
func (io *IO) SetupWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	width, height := io.machine.ScreenSize()
	scale := int32(io.opts.Scale)
	window, err := sdl.CreateWindow(io.opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width)*scale, int32(height)*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window: %w", err)
	}

	io.speaker, err = newSpeaker(io.logger, io.opts)
	if err != nil {
		return fmt.Errorf("opening audio: %w", err)
	}
	return nil
}

// Run sets up the window and runs the loop. SDL is shut down on return,
// also when the setup fails halfway.
func Run(ctx context.Context, logger *log.Logger, machine emulator.Machine, opts config.Options) error {
	io := NewIO(logger, machine, opts)
	defer io.Destroy()

	if err := io.SetupWindow(); err != nil {
		return err
	}
	return io.Loop(ctx)
}

// Destroy should be called before quitting the application. It is safe to
// call after a failed or partial SetupWindow.
func (io *IO) Destroy() {
	if io.speaker != nil {
		if err := io.speaker.close(); err != nil {
			io.logger.Error("Closing audio failed", log.Err(err))
		}
		io.speaker = nil
	}
	if io.window != nil {
		_ = io.window.Destroy()
		io.window = nil
		io.surface = nil
	}
	sdl.Quit()
}

// Loop is the main application loop. It returns when the window is closed,
// the context is cancelled or the machine faults.
func (io *IO) Loop(ctx context.Context) error {
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch t := event.(type) {
			case *sdl.KeyboardEvent:
				if t.Repeat != 0 {
					continue
				}
				key := rune(t.Keysym.Sym)
				switch t.GetType() {
				case sdl.KEYDOWN:
					io.machine.KeyDown(key)
				case sdl.KEYUP:
					io.machine.KeyUp(key)
				}
			case *sdl.QuitEvent:
				return nil
			}
		}

		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		redraw, err := io.machine.Advance(elapsed)
		if redraw {
			if err := io.draw(); err != nil {
				return err
			}
		}
		if err != nil {
			return err
		}

		if err := io.speaker.play(elapsed, io.machine.Sounding()); err != nil {
			return err
		}
		sdl.Delay(frameDelay)
	}
}

// Draws the current framebuffer on screen
func (io *IO) draw() error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("drawing screen: %w", err)
	}

	width, _ := io.machine.ScreenSize()
	size := int32(io.opts.Scale)
	for i, on := range io.machine.Pixels() {
		if !on {
			continue
		}
		x, y := int32(i%width), int32(i/width)
		rect := &sdl.Rect{X: x * size, Y: y * size, W: size, H: size}
		if err := io.surface.FillRect(rect, spriteColor); err != nil {
			return fmt.Errorf("drawing pixel: %w", err)
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window: %w", err)
	}
	return nil
}
