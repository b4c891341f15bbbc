package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/dialtimer/pkg/dial"
)

// Snapshot captures the controller mode, the render cache and the draw
// calls recorded since the previous capture.
type Snapshot struct {
	Mode       string     `json:"mode"`
	Selected   int        `json:"selected"`
	Cache      CacheState `json:"cache"`
	DisplayOps []string   `json:"displayOps,omitempty"`
}

// CacheState is the serialized render cache, rounded so snapshots are
// stable across platforms.
type CacheState struct {
	WedgeValid   bool    `json:"wedgeValid"`
	WedgeEndDeg  float64 `json:"wedgeEndDeg"`
	WedgeColor   string  `json:"wedgeColor,omitempty"`
	PointerValid bool    `json:"pointerValid"`
	PointerDeg   float64 `json:"pointerDeg"`
	BlinkVisible bool    `json:"blinkVisible"`
	Text         string  `json:"text,omitempty"`
}

// CaptureSnapshot captures the current state and resets the recorder.
func (d *DeviceTester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{
		Mode:     d.Controller.Mode().String(),
		Selected: d.Controller.Selected(),
		Cache:    captureCache(d.Controller.Renderer().Cache()),
	}
	for _, op := range d.Recorder.Ops() {
		snap.DisplayOps = append(snap.DisplayOps, op.String())
	}
	d.Recorder.Reset()
	return snap
}

func captureCache(c dial.Cache) CacheState {
	s := CacheState{
		WedgeValid:   c.WedgeValid,
		WedgeEndDeg:  round2(c.WedgeEndDeg),
		PointerValid: c.PointerValid,
		PointerDeg:   round2(c.PointerAngleDeg),
		BlinkVisible: c.BlinkVisible,
		Text:         c.Text,
	}
	if c.WedgeValid {
		s.WedgeColor = c.WedgeColor.Hex()
	}
	return s
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// DIALTIMER_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("DIALTIMER_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: DIALTIMER_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: DIALTIMER_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns the
// empty string if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := 0; i < max(len(expectedLines), len(actualLines)); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}
	return buf.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
