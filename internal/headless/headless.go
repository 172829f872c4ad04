// Package headless runs a machine without a window for a fixed amount of
// emulated time and summarises the final framebuffer, for scripted checks of
// programs.
package headless

import (
	"context"
	"fmt"
	"hash/crc32"
	"strings"
	"time"

	"github.com/mnafees/chopper/v2/emulator"
	"github.com/mnafees/chopper/v2/internal/audio"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/log"
)

// frame is the emulated time advanced per loop iteration.
const frame = time.Second / 60

// Result describes the machine state after a headless run.
type Result struct {
	Elapsed time.Duration // emulated time
	Wall    time.Duration // host time the run took
	CRC     uint32        // CRC32 (IEEE) of the framebuffer
	Screen  string        // framebuffer as text, '#' for set pixels
}

// Run advances the machine for opts.Duration of emulated time as fast as the
// host allows. It stops early when ctx is cancelled or the machine faults.
func Run(ctx context.Context, logger *log.Logger, machine emulator.Machine, opts config.Options) (Result, error) {
	opts.Defaults()

	var (
		beeper   *audio.Beeper
		recorder *audio.Recorder
	)
	if opts.Wav != "" {
		beeper = audio.NewBeeper(audio.SampleRate, audio.ToneHz)
		recorder = audio.NewRecorder(logger, opts.Wav, audio.SampleRate)
	}

	start := time.Now()
	var elapsed time.Duration
	var runErr error
	for elapsed < opts.Duration {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		step := min(frame, opts.Duration-elapsed)
		if _, err := machine.Advance(step); err != nil {
			runErr = err
			break
		}
		elapsed += step
		if recorder != nil {
			recorder.Add(beeper.Generate(step, machine.Sounding()))
		}
	}

	if recorder != nil {
		if err := recorder.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}

	width, _ := machine.ScreenSize()
	pixels := machine.Pixels()
	res := Result{
		Elapsed: elapsed,
		Wall:    time.Since(start),
		CRC:     Checksum(pixels),
		Screen:  Render(pixels, width),
	}
	logger.Info("Headless run finished",
		log.String("emulated", elapsed.String()),
		log.String("wall", res.Wall.Truncate(time.Millisecond).String()),
		log.String("fb_crc32", fmt.Sprintf("%08x", res.CRC)))
	return res, runErr
}

// Checksum returns the CRC32 of the framebuffer, one byte per pixel.
func Checksum(pixels []bool) uint32 {
	buf := make([]byte, len(pixels))
	for i, on := range pixels {
		if on {
			buf[i] = 1
		}
	}
	return crc32.ChecksumIEEE(buf)
}

// Render draws the framebuffer as text lines of width characters.
func Render(pixels []bool, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	for i, on := range pixels {
		if on {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
		if i%width == width-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Verify compares a checksum with an expected hex value. The expected value
// may have a 0x prefix and any case.
func Verify(crc uint32, expect string) error {
	want := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(expect)), "0x")
	got := fmt.Sprintf("%08x", crc)
	if got != want {
		return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
	}
	return nil
}
