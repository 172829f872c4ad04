package ebiten

import (
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	buzzer "github.com/mnafees/chopper/v2/internal/audio"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/log"
)

const playerBuffer = 40 * time.Millisecond

// toneStream implements io.Reader by producing the buzzer tone as 16-bit
// little endian stereo frames. It is read from the audio goroutine.
type toneStream struct {
	beeper   *buzzer.Beeper
	sounding *atomic.Bool
}

func (s *toneStream) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	samples := make([]int16, frames)
	s.beeper.Fill(samples, s.sounding.Load())
	return copy(p, buzzer.Stereo(samples)), nil
}

type speaker struct {
	sounding atomic.Bool
	player   *audio.Player

	beeper   *buzzer.Beeper // drives the recorder from the game loop
	recorder *buzzer.Recorder
}

func newSpeaker(logger *log.Logger, opts config.Options) (*speaker, error) {
	s := &speaker{}
	if opts.Wav != "" {
		s.beeper = buzzer.NewBeeper(buzzer.SampleRate, buzzer.ToneHz)
		s.recorder = buzzer.NewRecorder(logger, opts.Wav, buzzer.SampleRate)
	}
	if opts.Mute {
		return s, nil
	}

	ctx := audio.NewContext(buzzer.SampleRate)
	stream := &toneStream{
		beeper:   buzzer.NewBeeper(buzzer.SampleRate, buzzer.ToneHz),
		sounding: &s.sounding,
	}
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		return nil, err
	}
	player.SetBufferSize(playerBuffer)
	player.Play()
	s.player = player
	return s, nil
}

func (s *speaker) update(elapsed time.Duration, sounding bool) {
	s.sounding.Store(sounding)
	if s.recorder != nil {
		s.recorder.Add(s.beeper.Generate(elapsed, sounding))
	}
}

func (s *speaker) close() error {
	if s.player != nil {
		if err := s.player.Close(); err != nil {
			return err
		}
	}
	if s.recorder != nil {
		return s.recorder.Close()
	}
	return nil
}
