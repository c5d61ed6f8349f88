package upload

import (
	"context"
	"testing"
	"time"

	"github.com/qadesk/cli/internal/api"
)

// simClock drives the simulator through time without sleeping
type simClock struct {
	t time.Time
}

func (c *simClock) now() time.Time { return c.t }

func (c *simClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSimulator() (*Simulator, *simClock) {
	clock := &simClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSimulator()
	s.now = clock.now
	return s, clock
}

func TestSimulator_StageThresholds(t *testing.T) {
	s, clock := newTestSimulator()
	s.UploadStarted(1)

	cases := []struct {
		elapsed  time.Duration
		stage    api.Stage
		progress int
		message  string
	}{
		{0, api.StageProcessing, 0, "Processing document..."},
		{1500 * time.Millisecond, api.StageProcessing, 50, "Processing document..."},
		{2900 * time.Millisecond, api.StageProcessing, 90, "Processing document..."},
		{3 * time.Second, api.StageEmbedding, 90, "Generating embeddings..."},
		{4500 * time.Millisecond, api.StageEmbedding, 95, "Generating embeddings..."},
		{6 * time.Second, api.StageCompleted, 100, "Document processed successfully"},
	}

	start := clock.t
	for _, tc := range cases {
		clock.t = start.Add(tc.elapsed)
		status, err := s.GetProcessingStatus(context.Background(), 1)
		if err != nil {
			t.Fatalf("elapsed %v: %v", tc.elapsed, err)
		}
		if status.Status != tc.stage {
			t.Errorf("elapsed %v: stage = %s, want %s", tc.elapsed, status.Status, tc.stage)
		}
		if status.Progress != tc.progress {
			t.Errorf("elapsed %v: progress = %d, want %d", tc.elapsed, status.Progress, tc.progress)
		}
		if status.Message != tc.message {
			t.Errorf("elapsed %v: message = %q, want %q", tc.elapsed, status.Message, tc.message)
		}
	}
}

func TestSimulator_ProgressNeverExceedsStageCap(t *testing.T) {
	s, clock := newTestSimulator()
	s.UploadStarted(2)

	clock.advance(2999 * time.Millisecond)
	status, _ := s.GetProcessingStatus(context.Background(), 2)
	if status.Progress > 90 {
		t.Fatalf("processing progress = %d, must stay at or under 90", status.Progress)
	}

	clock.advance(2999 * time.Millisecond)
	status, _ = s.GetProcessingStatus(context.Background(), 2)
	if status.Status != api.StageEmbedding || status.Progress > 95 {
		t.Fatalf("embedding status = %+v, progress must stay at or under 95", status)
	}
}

func TestSimulator_UnknownDocumentStartsFresh(t *testing.T) {
	s, _ := newTestSimulator()

	// Never announced via UploadStarted: first observation anchors the clock
	status, err := s.GetProcessingStatus(context.Background(), 99)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != api.StageProcessing || status.Progress != 0 {
		t.Fatalf("first observation = %+v, want processing 0%%", status)
	}
}

func TestSimulator_UploadStartedAnchorsSequence(t *testing.T) {
	s, clock := newTestSimulator()

	s.UploadStarted(3)
	clock.advance(10 * time.Second)

	// The sequence is anchored to the recorded start, so by now it is done
	status, err := s.GetProcessingStatus(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != api.StageCompleted || status.Progress != 100 {
		t.Fatalf("status = %+v, want completed 100%%", status)
	}

	// Completion evicts the entry; a later poll for the same ID starts over
	status, err = s.GetProcessingStatus(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != api.StageProcessing {
		t.Fatalf("status after eviction = %+v, want a fresh processing sequence", status)
	}
}

func TestSimulator_RepeatedUploadStartedKeepsFirstAnchor(t *testing.T) {
	s, clock := newTestSimulator()

	s.UploadStarted(4)
	clock.advance(2 * time.Second)
	s.UploadStarted(4)

	clock.advance(1 * time.Second)
	status, err := s.GetProcessingStatus(context.Background(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != api.StageEmbedding {
		t.Fatalf("status = %+v, want embedding (3s after the first anchor)", status)
	}
}
