package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Speaker plays tones on the default audio device. Play never blocks the
// caller: tones are queued on a mixer the speaker goroutine drains.
type Speaker struct {
	mu          sync.Mutex
	tone        Tone
	mixer       *beep.Mixer
	initialized bool
	plays       int
}

// NewSpeaker opens the audio device.
func NewSpeaker(tone Tone) (*Speaker, error) {
	if _, err := tone.Stream(SampleRate); err != nil {
		return nil, err
	}
	s := &Speaker{tone: tone, mixer: &beep.Mixer{}}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("audio: open speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return s, nil
}

// Play queues one tone.
func (s *Speaker) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	stream, err := s.tone.Stream(SampleRate)
	if err != nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(stream)
	speaker.Unlock()
	s.plays++
}

// Plays returns how many tones were queued.
func (s *Speaker) Plays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays
}

// Close silences queued tones. Later Play calls are dropped.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

// Silent is a chime that plays nothing. It counts calls so callers can
// still observe when the tone would have sounded.
type Silent struct {
	mu    sync.Mutex
	plays int
}

// Play records the call.
func (s *Silent) Play() {
	s.mu.Lock()
	s.plays++
	s.mu.Unlock()
}

// Plays returns how many times Play was called.
func (s *Silent) Plays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays
}
