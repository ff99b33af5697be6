// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/tfx/internal/report"
	"github.com/desertthunder/tfx/internal/services"
)

// MockTrackService is a test double for [services.TrackService] that maps
// each input ID through Results, falling back to a failed record.
type MockTrackService struct {
	Results map[string]report.TrackResult
	Calls   int
}

func (m *MockTrackService) Fetch(ctx context.Context, ids []string, opts services.FetchOpts) []report.TrackResult {
	m.Calls++
	out := make([]report.TrackResult, len(ids))
	for i, id := range ids {
		if r, ok := m.Results[id]; ok {
			out[i] = r
		} else {
			out[i] = report.Failed(id, "track not found")
		}
	}
	return out
}

func (m *MockTrackService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
	})
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
