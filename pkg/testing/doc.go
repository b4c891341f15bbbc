// Package testing provides a device test harness for the dial timer.
//
// # Quick Start
//
// Create a tester, drive input, advance time, and make assertions:
//
//	func TestStartsCountdown(t *testing.T) {
//	    dev := dialtest.NewDeviceTester(t, timer.DefaultConfig())
//	    dev.Controller.SelectMinutes(25)
//	    dev.Advance(2 * time.Second)
//
//	    if dev.Mode() != timer.Running {
//	        t.Errorf("mode = %s, want running", dev.Mode())
//	    }
//	}
//
// The tester ticks the controller at its configured period while advancing
// a [FakeClock], records every draw call, and paints them into a software
// framebuffer so tests can compare pixels as well as operations.
//
// # Snapshot Testing
//
// Capture and compare the mode, render cache and draw calls:
//
//	snapshot := dev.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/pause.snapshot.json")
//
// Update snapshots with:
//
//	DIALTIMER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import dialtest "github.com/go-drift/dialtimer/pkg/testing"
package testing
