package store

import (
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with one passing and one faulted outcome.
func createTestRun(id string, started time.Time) Run {
	return Run{
		ID:        id,
		StartedAt: started,
		Passed:    1,
		Total:     2,
		Took:      3 * time.Millisecond,
		Outcomes: []Outcome{
			{Ordinal: 0, Name: "adds", Passed: true, Asserts: 2, Elapsed: time.Millisecond},
			{Ordinal: 1, Name: "crashes", Fault: "segmentation fault (SIGSEGV) at 0x0"},
		},
	}
}
