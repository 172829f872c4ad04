// Package inspector implements a terminal debugger showing the machine
// memory, registers, stack and disassembly while single stepping or running
// the program with breakpoints.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/mnafees/chopper/v2/emulator"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	tickInterval = time.Second / 60
	statusLines  = 8
	helpText     = "space step  r run/pause  b breakpoint  q quit  keypad: 1-4, shift+QWER ASDF ZXCV"
)

// keypad keys typed in the inspector. Lowercase q and r are commands, so the
// letters of the keypad layout are typed with shift.
var keypadKeys = []rune("1234QWERASDFZXCV")

// Inspector drives a machine from a terminal user interface.
type Inspector struct {
	logger  *log.Logger
	machine emulator.Machine

	slice       time.Duration // time advanced per executed instruction
	running     bool
	breakpoints set.Set[uint32]
	held        []rune // keys released on the next instruction
	messages    []string
}

// New returns an inspector for the machine, paused at the first instruction.
func New(logger *log.Logger, machine emulator.Machine, opts config.Options) *Inspector {
	opts.Defaults()
	return &Inspector{
		logger:      logger,
		machine:     machine,
		slice:       time.Second / time.Duration(opts.ClockHz),
		breakpoints: set.New[uint32](),
	}
}

// Run shows the user interface until the user quits or ctx is cancelled.
func (in *Inspector) Run(ctx context.Context) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("creating terminal ui: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(in.layout)
	if err := in.bindKeys(g); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go in.tick(ctx, g, done)

	in.printf("%s loaded, paused at $%03X", in.machine.Name(), in.machine.State().PC)
	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

// tick advances a running machine at the host frame rate. All machine access
// happens on the gocui main loop through g.Update.
func (in *Inspector) tick(ctx context.Context, g *gocui.Gui, done <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
			return
		case <-ticker.C:
			g.Update(func(*gocui.Gui) error {
				if in.running {
					in.run(tickInterval)
				}
				return nil
			})
		}
	}
}

func (in *Inspector) bindKeys(g *gocui.Gui) error {
	bindings := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, quit},
		{'q', quit},
		{gocui.KeySpace, in.onStep},
		{'r', in.onToggleRun},
		{'b', in.onToggleBreakpoint},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}

	for _, r := range keypadKeys {
		if err := g.SetKeybinding("", r, gocui.ModNone, in.onKeypad(r)); err != nil {
			return err
		}
	}
	return nil
}

func quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}

func (in *Inspector) onStep(*gocui.Gui, *gocui.View) error {
	in.running = false
	in.step()
	return nil
}

func (in *Inspector) onToggleRun(*gocui.Gui, *gocui.View) error {
	in.running = !in.running
	if in.running {
		in.printf("running")
	} else {
		in.printf("paused at $%03X", in.machine.State().PC)
	}
	return nil
}

func (in *Inspector) onToggleBreakpoint(*gocui.Gui, *gocui.View) error {
	in.toggleBreakpoint(in.machine.State().PC)
	return nil
}

func (in *Inspector) onKeypad(r rune) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		in.press(r)
		return nil
	}
}

// press taps a key: terminals report no key releases, so the key is held
// until the next instruction executed.
func (in *Inspector) press(r rune) {
	in.machine.KeyDown(r)
	in.held = append(in.held, r)
	in.printf("key %c pressed", r)
}

func (in *Inspector) releaseKeys() {
	for _, r := range in.held {
		in.machine.KeyUp(r)
	}
	in.held = in.held[:0]
}

func (in *Inspector) toggleBreakpoint(addr uint32) {
	if in.breakpoints.Contains(addr) {
		in.breakpoints.Remove(addr)
		in.printf("breakpoint at $%03X removed", addr)
		return
	}
	in.breakpoints.Add(addr)
	in.printf("breakpoint at $%03X set", addr)
}

// step executes a single instruction, advancing time by one instruction
// period so that the timers keep their pace.
func (in *Inspector) step() {
	_, err := in.machine.Advance(in.slice)
	in.releaseKeys()
	if err != nil {
		in.running = false
		in.printf("error: %v", err)
	}
}

// run executes the instructions falling into elapsed and pauses on a
// breakpoint or a fault.
func (in *Inspector) run(elapsed time.Duration) {
	for ; elapsed >= in.slice && in.running; elapsed -= in.slice {
		in.step()
		if pc := in.machine.State().PC; in.running && in.breakpoints.Contains(pc) {
			in.running = false
			in.printf("breakpoint hit at $%03X", pc)
		}
	}
}

func (in *Inspector) printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	in.messages = append(in.messages, msg)
	if len(in.messages) > statusLines {
		in.messages = in.messages[len(in.messages)-statusLines:]
	}
	in.logger.Debug(msg)
}

// layout places the panels and refreshes their content from a state
// snapshot. gocui calls it on every redraw.
func (in *Inspector) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	midX := maxX / 2
	memBottom := maxY - statusLines - 3
	if memBottom < 8 {
		memBottom = 8
	}
	st := in.machine.State()

	v, err := setView(g, "memory", "Memory", 0, 0, midX+8, memBottom/2)
	if err != nil {
		return err
	}
	_, rows := v.Size()
	renderMemory(v, st, rows)

	if v, err = setView(g, "registers", "Registers", 0, memBottom/2+1, midX/2+4, memBottom); err != nil {
		return err
	}
	renderRegisters(v, st)

	if v, err = setView(g, "stack", "Stack", midX/2+5, memBottom/2+1, midX+8, memBottom); err != nil {
		return err
	}
	renderStack(v, st)

	if v, err = setView(g, "instructions", "Instructions", midX+9, 0, maxX-1, memBottom); err != nil {
		return err
	}
	_, rows = v.Size()
	renderInstructions(v, in.machine.Disassemble(st.PC, rows), st.PC, in.breakpoints)

	if v, err = setView(g, "status", helpText, 0, memBottom+1, maxX-1, maxY-1); err != nil {
		return err
	}
	for _, msg := range in.messages {
		fmt.Fprintln(v, msg)
	}
	return nil
}

// setView creates or resizes a view and clears its content.
func setView(g *gocui.Gui, name, title string, x0, y0, x1, y1 int) (*gocui.View, error) {
	v, err := g.SetView(name, x0, y0, x1, y1)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return nil, err
		}
		v.Title = title
	}
	v.Clear()
	return v, nil
}
