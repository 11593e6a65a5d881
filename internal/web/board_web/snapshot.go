package board_web

import "time"

// CycleSnapshot is a read-only copy of the refresh loop's last outcome.
type CycleSnapshot struct {
	Started     time.Time
	Duration    time.Duration
	Error       string
	Rows        []string
	LastSuccess time.Time
	Cycles      int
	Failures    int
}

type StatusSource interface {
	Snapshot() CycleSnapshot
}
