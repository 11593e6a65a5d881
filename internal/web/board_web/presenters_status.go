package board_web

import (
	"fmt"
	"time"
)

// BuildStatusVM reports healthy once a cycle has succeeded and the most
// recent cycle did not fail.
func BuildStatusVM(snapshot CycleSnapshot, now time.Time) StatusVM {
	rows := snapshot.Rows
	if rows == nil {
		rows = []string{}
	}

	vm := StatusVM{
		Healthy:     !snapshot.LastSuccess.IsZero() && snapshot.Error == "",
		UpdatedAt:   now.Format("15:04:05"),
		LastRun:     "never",
		LastSuccess: "never",
		Duration:    snapshot.Duration.Round(time.Millisecond).String(),
		Error:       snapshot.Error,
		Cycles:      snapshot.Cycles,
		Failures:    snapshot.Failures,
		Rows:        rows,
	}
	if !snapshot.Started.IsZero() {
		vm.LastRun = formatAge(now, snapshot.Started)
	}
	if !snapshot.LastSuccess.IsZero() {
		vm.LastSuccess = formatAge(now, snapshot.LastSuccess)
	}
	return vm
}

func formatAge(now, then time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs ago", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}
