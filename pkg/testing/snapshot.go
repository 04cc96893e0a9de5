package testing

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/xilem/pkg/inspect"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "XILEM_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the retained tree and the paint commands of the last
// frame.
type Snapshot struct {
	Tree       *inspect.TreeNode `json:"tree"`
	DisplayOps []string          `json:"displayOps,omitempty"`
}

// CaptureSnapshot captures the current retained tree and the paint
// commands of the most recent frame.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	if s := inspect.Capture(t.Tree(), 0); s.Root != nil {
		snap.Tree = s.Root
	}
	if t.last != nil {
		for _, c := range t.last.Commands {
			snap.DisplayOps = append(snap.DisplayOps, c.String())
		}
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When XILEM_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	want, err := loadJSON(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := cmp.Diff(want, normalize(s)); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got):\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
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

// Diff compares the JSON forms of other (want) and s (got). It returns ""
// when they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(normalize(other), normalize(s))
}

// normalize round-trips a snapshot through JSON so that values the file
// format cannot distinguish compare equal.
func normalize(s *Snapshot) any {
	data, err := marshalSnapshot(s)
	if err != nil {
		return err.Error()
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err.Error()
	}
	return v
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// loadJSON reads a golden file in the generic form normalize produces.
// Non-finite floats are stored as strings and would not decode into a
// Snapshot.
func loadJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
