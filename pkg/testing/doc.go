// Package testing drives a runtime headlessly for tests.
//
// # Quick Start
//
// Build a view from test-owned state, pump frames, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    count := 0
//	    tester := xilemtest.NewTesterWithT(t, func() view.View {
//	        return view.Column(
//	            view.Label{Text: fmt.Sprint(count)},
//	            view.Button{Label: "+", OnClick: func() { count++ }},
//	        )
//	    })
//
//	    tester.Tap(xilemtest.ByText("+"))
//	    tester.Pump()
//
//	    if !tester.Find(xilemtest.ByText("1")).Exists() {
//	        t.Error("expected label 1")
//	    }
//	}
//
// Input helpers only queue events; they take effect on the next Pump.
//
// # Time
//
// The tester's FakeClock drives both animation frames and widget timers:
//
//	tester.Clock().Advance(100 * time.Millisecond)
//	tester.Pump()
//
// # Snapshots
//
// Capture and compare the retained tree and paint commands:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	XILEM_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import xilemtest "github.com/go-drift/xilem/pkg/testing"
package testing
