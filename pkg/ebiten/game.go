// Package ebiten implements a frontend based on the Ebitengine game library.
package ebiten

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mnafees/chopper/v2/emulator"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/log"
)

var (
	screenColor = [3]byte{0x1A, 0x23, 0x7E}
	spriteColor = [3]byte{0x9F, 0xA8, 0xDA}
)

// keys lists the host keys that are forwarded to the machine.
var keys = map[ebiten.Key]rune{
	ebiten.Key1: '1', ebiten.Key2: '2', ebiten.Key3: '3', ebiten.Key4: '4',
	ebiten.KeyQ: 'q', ebiten.KeyW: 'w', ebiten.KeyE: 'e', ebiten.KeyR: 'r',
	ebiten.KeyA: 'a', ebiten.KeyS: 's', ebiten.KeyD: 'd', ebiten.KeyF: 'f',
	ebiten.KeyZ: 'z', ebiten.KeyX: 'x', ebiten.KeyC: 'c', ebiten.KeyV: 'v',
}

// Game implements ebiten.Game for an emulated machine.
type Game struct {
	ctx     context.Context
	logger  *log.Logger
	opts    config.Options
	machine emulator.Machine

	width, height int
	frame         []byte // RGBA framebuffer
	tex           *ebiten.Image
	speaker       *speaker
}

// NewGame creates the game and sets up the window.
func NewGame(logger *log.Logger, machine emulator.Machine, opts config.Options) (*Game, error) {
	opts.Defaults()
	width, height := machine.ScreenSize()

	g := &Game{
		logger:  logger,
		opts:    opts,
		machine: machine,
		width:   width,
		height:  height,
		frame:   make([]byte, width*height*4),
	}
	g.render()

	var err error
	g.speaker, err = newSpeaker(logger, opts)
	if err != nil {
		return nil, fmt.Errorf("opening audio: %w", err)
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(width*opts.Scale, height*opts.Scale)
	return g, nil
}

// Run runs the game loop until the window is closed or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	g.ctx = ctx
	defer func() {
		if err := g.speaker.close(); err != nil {
			g.logger.Error("Closing audio failed", log.Err(err))
		}
	}()
	return ebiten.RunGame(g)
}

// Update forwards input and advances the machine by one tick.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if err := g.saveScreenshot(); err != nil {
			g.logger.Error("Saving screenshot failed", log.Err(err))
		}
	}

	for key, r := range keys {
		if inpututil.IsKeyJustPressed(key) {
			g.machine.KeyDown(r)
		}
		if inpututil.IsKeyJustReleased(key) {
			g.machine.KeyUp(r)
		}
	}

	elapsed := time.Second / time.Duration(ebiten.TPS())
	redraw, err := g.machine.Advance(elapsed)
	if redraw {
		g.render()
	}
	g.speaker.update(elapsed, g.machine.Sounding())
	return err
}

// Draw copies the framebuffer to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.tex == nil {
		g.tex = ebiten.NewImage(g.width, g.height)
	}
	g.tex.WritePixels(g.frame)
	screen.DrawImage(g.tex, nil)
}

// Layout returns the native machine resolution, ebiten scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// render converts the machine pixels into the RGBA framebuffer.
func (g *Game) render() {
	for i, on := range g.machine.Pixels() {
		c := screenColor
		if on {
			c = spriteColor
		}
		copy(g.frame[i*4:], c[:])
		g.frame[i*4+3] = 0xFF
	}
}

func (g *Game) saveScreenshot() error {
	img := &image.RGBA{
		Pix:    make([]byte, len(g.frame)),
		Stride: 4 * g.width,
		Rect:   image.Rect(0, 0, g.width, g.height),
	}
	copy(img.Pix, g.frame)

	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	g.logger.Info("Screenshot saved", log.String("file", name))
	return nil
}
