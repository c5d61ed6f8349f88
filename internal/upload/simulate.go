package upload

import (
	"context"
	"sync"
	"time"

	"github.com/qadesk/cli/internal/api"
)

// Simulator is a degraded-mode stand-in for the processing-status endpoint.
// It derives a plausible processing -> embedding -> completed sequence from
// the elapsed time since a document's upload started. It sits behind the
// same StatusFetcher interface as the real client, so a coordinator using
// it cannot tell the difference and it can be removed without touching
// call sites.
type Simulator struct {
	mu      sync.Mutex
	started map[int64]time.Time
	now     func() time.Time
}

// NewSimulator creates a status simulator
func NewSimulator() *Simulator {
	return &Simulator{
		started: make(map[int64]time.Time),
		now:     time.Now,
	}
}

// UploadStarted records the real upload start time for a document. Without
// it the simulator falls back to first-observation time, which only shifts
// the simulated sequence later.
func (s *Simulator) UploadStarted(docID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.started[docID]; !ok {
		s.started[docID] = s.now()
	}
}

// GetProcessingStatus returns a simulated status based on elapsed time
func (s *Simulator) GetProcessingStatus(_ context.Context, docID int64) (*api.ProcessingStatus, error) {
	s.mu.Lock()
	start, ok := s.started[docID]
	if !ok {
		start = s.now()
		s.started[docID] = start
	}
	elapsed := s.now().Sub(start)
	if elapsed >= 6*time.Second {
		delete(s.started, docID)
	}
	s.mu.Unlock()

	ms := elapsed.Milliseconds()
	switch {
	case elapsed < 3*time.Second:
		return &api.ProcessingStatus{
			ID:       docID,
			Status:   api.StageProcessing,
			Progress: clampProgress(int(ms/30), 90),
			Message:  "Processing document...",
		}, nil
	case elapsed < 6*time.Second:
		return &api.ProcessingStatus{
			ID:       docID,
			Status:   api.StageEmbedding,
			Progress: clampProgress(90+int((ms-3000)/60), 95),
			Message:  "Generating embeddings...",
		}, nil
	default:
		return &api.ProcessingStatus{
			ID:       docID,
			Status:   api.StageCompleted,
			Progress: 100,
			Message:  "Document processed successfully",
		}, nil
	}
}

func clampProgress(v, max int) int {
	if v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}
