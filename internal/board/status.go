package board

import (
	"sync"

	"tarediiran-industries.com/departure-board/internal/web/board_web"
)

// Status holds the outcome of the most recent cycle. The refresh loop writes
// it and the web server reads it.
type Status struct {
	mu       sync.RWMutex
	last     CycleResult
	success  CycleResult
	cycles   int
	failures int
}

func NewStatus() *Status {
	return &Status{}
}

func (status *Status) Record(result CycleResult) {
	status.mu.Lock()
	defer status.mu.Unlock()

	status.last = result
	status.cycles++
	if result.OK() {
		status.success = result
	} else {
		status.failures++
	}
}

func (status *Status) Last() CycleResult {
	status.mu.RLock()
	defer status.mu.RUnlock()
	return status.last
}

func (status *Status) Snapshot() board_web.CycleSnapshot {
	status.mu.RLock()
	defer status.mu.RUnlock()

	snapshot := board_web.CycleSnapshot{
		Started:     status.last.Started,
		Duration:    status.last.Duration,
		LastSuccess: status.success.Started,
		Cycles:      status.cycles,
		Failures:    status.failures,
	}
	if status.last.Err != nil {
		snapshot.Error = status.last.Err.Error()
	}
	for _, departure := range status.success.Metro {
		snapshot.Rows = append(snapshot.Rows, departure.String())
	}
	for _, departure := range status.success.Rail {
		snapshot.Rows = append(snapshot.Rows, departure.String())
	}
	return snapshot
}
