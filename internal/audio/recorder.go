package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

const (
	bitDepth  = 16
	pcmFormat = 1 // WAVE_FORMAT_PCM
)

// Recorder buffers mono samples in memory and writes them as a WAV file on
// Close. Audio data is held in its entirety until then, so it is meant for
// short sessions and tests.
type Recorder struct {
	logger   *log.Logger
	filename string
	rate     int
	samples  []int
}

// NewRecorder creates a recorder that writes to filename on Close.
func NewRecorder(logger *log.Logger, filename string, sampleRate int) *Recorder {
	return &Recorder{
		logger:   logger,
		filename: filename,
		rate:     sampleRate,
	}
}

// Add appends samples to the recording.
func (r *Recorder) Add(samples []int16) {
	for _, s := range samples {
		r.samples = append(r.samples, int(s))
	}
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	return len(r.samples)
}

// Close encodes the buffered samples and writes the file.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, r.rate, bitDepth, 1, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  r.rate,
		},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}

	r.logger.Info("Audio recorded",
		log.String("file", r.filename),
		log.Int("samples", len(r.samples)))
	return nil
}
