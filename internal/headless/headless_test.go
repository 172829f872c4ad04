package headless

import (
	"context"
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mnafees/chopper/v2/internal/chip8"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newMachine(t *testing.T, program ...byte) *chip8.Machine {
	t.Helper()
	vm := chip8.New(log.NewTestLogger(t), chip8.DefaultConfig())
	assert.NoError(t, vm.LoadProgram(program))
	return chip8.NewMachine(vm)
}

func TestRender(t *testing.T) {
	pixels := []bool{true, false, false, true, true, true}
	assert.Equal(t, "#..\n###\n", Render(pixels, 3))
	assert.Equal(t, "", Render(pixels, 0))
}

func TestChecksum(t *testing.T) {
	pixels := []bool{false, true, true}
	assert.Equal(t, crc32.ChecksumIEEE([]byte{0, 1, 1}), Checksum(pixels))
}

func TestVerify(t *testing.T) {
	crc := uint32(0x1a2b3c4d)
	assert.NoError(t, Verify(crc, "1a2b3c4d"))
	assert.NoError(t, Verify(crc, "0x1A2B3C4D"))
	assert.ErrorContains(t, Verify(crc, "deadbeef"), "checksum mismatch")
}

func TestRunDrawsGlyph(t *testing.T) {
	// I = glyph 0, draw it at (0, 0), loop forever
	m := newMachine(t,
		0xA0, 0x00, // LD I, $000
		0xD0, 0x05, // DRW V0, V0, 5
		0x12, 0x04, // JP $204
	)
	opts := config.Options{Duration: 100 * time.Millisecond}

	res, err := Run(context.Background(), log.NewTestLogger(t), m, opts)
	assert.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, res.Elapsed)
	assert.Equal(t, "####", res.Screen[:4])
	assert.Equal(t, Checksum(m.Pixels()), res.CRC)
}

func TestRunStopsOnFault(t *testing.T) {
	m := newMachine(t, 0x00, 0xEE) // RET with an empty stack
	opts := config.Options{Duration: time.Second}

	res, err := Run(context.Background(), log.NewTestLogger(t), m, opts)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.True(t, res.Elapsed < time.Second)
}

func TestRunRecordsWav(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.wav")
	m := newMachine(t,
		0x60, 0x3C, // LD V0, $3C
		0xF0, 0x18, // LD ST, V0
		0x12, 0x04, // JP $204
	)
	opts := config.Options{Duration: 50 * time.Millisecond, Wav: filename}

	_, err := Run(context.Background(), log.NewTestLogger(t), m, opts)
	assert.NoError(t, err)

	info, err := os.Stat(filename)
	assert.NoError(t, err)
	assert.True(t, info.Size() > 44)
}
