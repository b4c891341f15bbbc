// Package audio plays the timeout chime through the system speaker.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is the speaker rate used by [Speaker].
const SampleRate = beep.SampleRate(44100)

// Tone describes one chime: a sine at Freq with a linear attack and release.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
	// Volume is a linear gain in [0, 1]. Zero is silent.
	Volume float64
}

// DefaultTone is a short A5 ping.
var DefaultTone = Tone{
	Freq:     880,
	Duration: 180 * time.Millisecond,
	Attack:   5 * time.Millisecond,
	Release:  120 * time.Millisecond,
	Volume:   0.5,
}

// Stream returns a finite streamer rendering t at rate. It fails when Freq
// is not below the Nyquist frequency of rate.
func (t Tone) Stream(rate beep.SampleRate) (beep.Streamer, error) {
	osc, err := generators.SineTone(rate, t.Freq)
	if err != nil {
		return nil, fmt.Errorf("audio: tone %.0f Hz: %w", t.Freq, err)
	}
	total := rate.N(t.Duration)
	env := &envelope{
		streamer: beep.Take(total, osc),
		total:    total,
		attack:   min(rate.N(t.Attack), total),
		release:  min(rate.N(t.Release), total),
	}
	return gain(env, t.Volume), nil
}

// envelope applies a linear attack and release to a finite stream.
type envelope struct {
	streamer beep.Streamer
	pos      int
	total    int
	attack   int
	release  int
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := e.level()
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) level() float64 {
	vol := 1.0
	if e.attack > 0 && e.pos < e.attack {
		vol = float64(e.pos) / float64(e.attack)
	}
	if left := e.total - e.pos; e.release > 0 && left < e.release {
		vol = math.Min(vol, float64(left)/float64(e.release))
	}
	return vol
}

func (e *envelope) Err() error { return e.streamer.Err() }

// gain wraps s in a volume effect. log2(0) is -Inf, so zero maps to Silent.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(vol, 1))}
}
