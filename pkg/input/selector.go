package input

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoPresets is returned when a selector has nothing to select.
var ErrNoPresets = errors.New("input: no presets")

// Selector cycles through an ascending list of minute presets with
// wraparound. When zero is not allowed during cycling, a zero preset is
// skipped by Step but can still be chosen explicitly with Set.
type Selector struct {
	presets   []int
	allowZero bool
	index     int
}

// NewSelector validates presets and selects the home preset.
func NewSelector(presets []int, allowZero bool) (*Selector, error) {
	if len(presets) == 0 {
		return nil, ErrNoPresets
	}
	for i, m := range presets {
		if m < 0 {
			return nil, fmt.Errorf("input: negative preset %d", m)
		}
		if i > 0 && m <= presets[i-1] {
			return nil, fmt.Errorf("input: presets must be strictly ascending, got %d after %d", m, presets[i-1])
		}
	}
	s := &Selector{presets: slices.Clone(presets), allowZero: allowZero}
	s.Home()
	return s, nil
}

// Home selects the first non-zero preset and returns it. Zero is the
// timeout sentinel, reached only by cycling past an end or by Set.
func (s *Selector) Home() int {
	s.index = 0
	if i := slices.IndexFunc(s.presets, func(m int) bool { return m != 0 }); i >= 0 {
		s.index = i
	}
	return s.Minutes()
}

// Presets returns a copy of the preset list.
func (s *Selector) Presets() []int {
	return slices.Clone(s.presets)
}

// Minutes returns the selected preset.
func (s *Selector) Minutes() int {
	return s.presets[s.index]
}

// Step moves delta positions with wraparound and returns the new selection.
func (s *Selector) Step(delta int) int {
	dir := 1
	if delta < 0 {
		dir, delta = -1, -delta
	}
	n := len(s.presets)
	for ; delta > 0; delta-- {
		s.index = (s.index + dir + n) % n
		if !s.allowZero && s.presets[s.index] == 0 && n > 1 {
			s.index = (s.index + dir + n) % n
		}
	}
	return s.Minutes()
}

// Set selects the preset nearest to minutes and returns it.
func (s *Selector) Set(minutes int) int {
	s.index = s.nearestIndex(minutes)
	return s.Minutes()
}

// Nearest returns the preset closest to minutes. Ties resolve to the larger
// preset.
func (s *Selector) Nearest(minutes int) int {
	return s.presets[s.nearestIndex(minutes)]
}

func (s *Selector) nearestIndex(minutes int) int {
	best := 0
	for i, p := range s.presets {
		if abs(p-minutes) <= abs(s.presets[best]-minutes) {
			best = i
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
