package bot

import (
	"sync"
	"time"

	"github.com/tradewatch/insiderbot/internal/pipeline"
)

// RunInfo is a snapshot of the most recent pipeline run, exposed by the ops
// status endpoint.
type RunInfo struct {
	RunID         string    `json:"run_id,omitempty"`
	FinishedAt    time.Time `json:"finished_at"`
	DaysBack      int       `json:"days_back"`
	Transactions  int       `json:"transactions"`
	FetchFailures int       `json:"fetch_failures"`
	UniverseSize  int       `json:"universe_size"`
	Error         string    `json:"error,omitempty"`
}

// Status tracks process uptime and the outcome of the most recent run. It is
// the only state shared between command invocations and exists purely for
// observability.
type Status struct {
	mu        sync.RWMutex
	startedAt time.Time
	lastRun   *RunInfo
}

// NewStatus creates a Status anchored at the current time.
func NewStatus() *Status {
	return &Status{startedAt: time.Now()}
}

// RecordSuccess stores the outcome of a completed run.
func (s *Status) RecordSuccess(report *pipeline.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = &RunInfo{
		RunID:         report.RunID,
		FinishedAt:    time.Now(),
		DaysBack:      report.DaysBack,
		Transactions:  len(report.Transactions),
		FetchFailures: len(report.FetchFailures),
		UniverseSize:  report.UniverseSize,
	}
}

// RecordFailure stores a failed run outcome.
func (s *Status) RecordFailure(daysBack int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = &RunInfo{
		FinishedAt: time.Now(),
		DaysBack:   daysBack,
		Error:      err.Error(),
	}
}

// Uptime returns the time elapsed since process start.
func (s *Status) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startedAt)
}

// LastRun returns a copy of the most recent run info, or nil when no run has
// completed yet.
func (s *Status) LastRun() *RunInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRun == nil {
		return nil
	}
	info := *s.lastRun
	return &info
}
