package sdl

import (
	"fmt"
	"time"

	"github.com/mnafees/chopper/v2/internal/audio"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	deviceSamples = 1024
	maxQueued     = 4 * deviceSamples * 4 // bytes of stereo S16 frames
)

// speaker queues the buzzer tone on an SDL audio device and optionally
// records it.
type speaker struct {
	id       sdl.AudioDeviceID
	beeper   *audio.Beeper
	recorder *audio.Recorder
}

func newSpeaker(logger *log.Logger, opts config.Options) (*speaker, error) {
	s := &speaker{
		beeper: audio.NewBeeper(audio.SampleRate, audio.ToneHz),
	}
	if opts.Wav != "" {
		s.recorder = audio.NewRecorder(logger, opts.Wav, audio.SampleRate)
	}
	if opts.Mute {
		return s, nil
	}

	spec := &sdl.AudioSpec{
		Freq:     audio.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  deviceSamples,
	}
	var actual sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return nil, err
	}
	s.id = id
	sdl.PauseAudioDevice(s.id, false)

	logger.Debug("Audio device opened",
		log.Int("frequency", int(actual.Freq)),
		log.Int("samples", int(actual.Samples)))
	return s, nil
}

// play generates the tone for the elapsed time and queues it, dropping audio
// when the device falls too far behind.
func (s *speaker) play(elapsed time.Duration, sounding bool) error {
	samples := s.beeper.Generate(elapsed, sounding)
	if len(samples) == 0 {
		return nil
	}
	if s.recorder != nil {
		s.recorder.Add(samples)
	}
	if s.id == 0 || sdl.GetQueuedAudioSize(s.id) > maxQueued {
		return nil
	}
	if err := sdl.QueueAudio(s.id, audio.Stereo(samples)); err != nil {
		return fmt.Errorf("queueing audio: %w", err)
	}
	return nil
}

func (s *speaker) close() error {
	if s.id != 0 {
		sdl.CloseAudioDevice(s.id)
	}
	if s.recorder != nil {
		return s.recorder.Close()
	}
	return nil
}
