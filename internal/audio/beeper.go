// Package audio produces the buzzer tone of machines that only know "sound on"
// and "sound off", and can record it to disk as a WAV file.
package audio

import (
	"encoding/binary"
	"time"
)

// Default tone settings
const (
	SampleRate = 44100
	ToneHz     = 440
	Volume     = 6000 // peak amplitude of the 16-bit square wave
)

// Beeper generates a square wave while the buzzer is on and silence otherwise.
// The wave phase is kept across calls so consecutive chunks join without clicks.
// A Beeper is not safe for concurrent use.
type Beeper struct {
	rate   int
	tone   int
	volume int16

	phase   int           // samples into the current wave period
	pending time.Duration // time not yet converted into samples
}

// NewBeeper returns a beeper producing a tone of toneHz at the given sample rate.
func NewBeeper(sampleRate, toneHz int) *Beeper {
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	if toneHz <= 0 {
		toneHz = ToneHz
	}
	return &Beeper{
		rate:   sampleRate,
		tone:   toneHz,
		volume: Volume,
	}
}

// SampleRate returns the sample rate of the generated samples.
func (b *Beeper) SampleRate() int {
	return b.rate
}

// Fill writes len(buf) mono samples.
func (b *Beeper) Fill(buf []int16, sounding bool) {
	period := b.rate / b.tone
	half := period / 2
	for i := range buf {
		if !sounding {
			buf[i] = 0
			continue
		}
		if b.phase < half {
			buf[i] = b.volume
		} else {
			buf[i] = -b.volume
		}
		b.phase++
		if b.phase >= period {
			b.phase = 0
		}
	}
	if !sounding {
		b.phase = 0
	}
}

// Generate returns the mono samples covering the elapsed time. Fractions of a
// sample are carried to the next call.
func (b *Beeper) Generate(elapsed time.Duration, sounding bool) []int16 {
	b.pending += elapsed
	n := int(b.pending * time.Duration(b.rate) / time.Second)
	if n <= 0 {
		return nil
	}
	b.pending -= time.Duration(n) * time.Second / time.Duration(b.rate)

	buf := make([]int16, n)
	b.Fill(buf, sounding)
	return buf
}

// Stereo encodes mono samples as interleaved 16-bit little endian stereo
// frames, as expected by most audio backends.
func Stereo(samples []int16) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(s))
	}
	return out
}
