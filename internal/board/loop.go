package board

import (
	"context"
	"fmt"
	"time"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/transit"
)

type DepartureSource interface {
	Departures(ctx context.Context) ([]transit.Departure, error)
}

type Recorder interface {
	Record(ctx context.Context, takenAt time.Time, departures map[string][]transit.Departure) error
}

// SetupStep is best-effort work done once before the first cycle. A failing
// step is logged and the board runs with whatever the other steps provided.
type SetupStep struct {
	Name string
	Run  func(ctx context.Context) error
}

type SetupReport struct {
	Failed map[string]error
}

func (report SetupReport) OK() bool {
	return len(report.Failed) == 0
}

type CycleResult struct {
	Started  time.Time
	Duration time.Duration
	Metro    []transit.Departure
	Rail     []transit.Departure
	Err      error
}

func (result CycleResult) OK() bool {
	return !result.Started.IsZero() && result.Err == nil
}

type Loop struct {
	// Either source may be nil when that service is not configured.
	Metro DepartureSource
	Rail  DepartureSource

	Fragments *FragmentRenderer
	Board     *Board
	// Overrides the renderer's static fragments slot by slot. Slots beyond its
	// length keep the built-in fragment.
	StaticRows []string

	Setup  []SetupStep
	Opener Opener
	// Page handed to Opener. Empty means the output file as a file:// URL.
	OpenURL  string
	Recorder Recorder
	Status   *Status
	Metrics  *common.Metrics

	// Zero runs exactly one cycle.
	Interval time.Duration
	Now      func() time.Time
}

func (loop *Loop) now() time.Time {
	if loop.Now == nil {
		return time.Now()
	}
	return loop.Now()
}

func (loop *Loop) RunSetup(ctx context.Context) SetupReport {
	report := SetupReport{Failed: map[string]error{}}

	for _, step := range loop.Setup {
		if err := step.Run(ctx); err != nil {
			common.GetLogger().Warnf("Setup step %s failed, continuing without it: %v", step.Name, err)
			report.Failed[step.Name] = err
		}
	}

	return report
}

func (loop *Loop) fetch(ctx context.Context) (metro []transit.Departure, rail []transit.Departure, err error) {
	if loop.Metro != nil {
		metro, err = loop.Metro.Departures(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("metro: %w", err)
		}
	}
	if loop.Rail != nil {
		rail, err = loop.Rail.Departures(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("rail: %w", err)
		}
	}
	return metro, rail, nil
}

// Compose lays out the board slots: two metro rows, two rail rows, then the
// static pair.
func (loop *Loop) Compose(metro []transit.Departure, rail []transit.Departure) ([]string, error) {
	metroRows, err := loop.Fragments.MetroRows(metro)
	if err != nil {
		return nil, err
	}
	railRows, err := loop.Fragments.RailRows(rail)
	if err != nil {
		return nil, err
	}

	staticRows, err := loop.Fragments.StaticRows()
	if err != nil {
		return nil, err
	}
	copy(staticRows, loop.StaticRows)

	fragments := make([]string, 0, len(metroRows)+len(railRows)+len(staticRows))
	fragments = append(fragments, metroRows...)
	fragments = append(fragments, railRows...)
	return append(fragments, staticRows...), nil
}

// RunCycle fetches, extracts and renders once. The output file is only
// touched when every stage succeeds.
func (loop *Loop) RunCycle(ctx context.Context) CycleResult {
	result := CycleResult{Started: loop.now()}
	benchmarker := common.NewBenchmarker("refresh-cycle")
	defer benchmarker.Close()

	result.Err = loop.runStages(ctx, &result)
	result.Duration = benchmarker.Elapsed()
	return result
}

func (loop *Loop) runStages(ctx context.Context, result *CycleResult) error {
	var err error
	result.Metro, result.Rail, err = loop.fetch(ctx)
	if err != nil {
		return err
	}

	fragments, err := loop.Compose(result.Metro, result.Rail)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := loop.Board.Write(fragments); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func (loop *Loop) afterCycle(ctx context.Context, result CycleResult) {
	logger := common.GetLogger()

	if loop.Status != nil {
		loop.Status.Record(result)
	}

	if !result.OK() {
		loop.Metrics.IncCycle("failed")
		logger.Errorf("Refresh cycle failed, keeping previous board: %v", result.Err)
		return
	}
	loop.Metrics.IncCycle("ok")
	logger.Infof("Rendered %s in %s (%d metro, %d rail rows)",
		loop.Board.OutputPath, result.Duration, len(result.Metro), len(result.Rail))

	if loop.Opener != nil {
		if err := loop.openBoard(); err != nil {
			logger.Warnf("Could not open board in browser: %v", err)
		}
	}

	if loop.Recorder != nil {
		departures := map[string][]transit.Departure{"metro": result.Metro, "rail": result.Rail}
		if err := loop.Recorder.Record(ctx, result.Started, departures); err != nil {
			logger.Warnf("Could not record board history: %v", err)
		}
	}
}

func (loop *Loop) openBoard() error {
	if loop.OpenURL != "" {
		return loop.Opener.Open(loop.OpenURL)
	}
	path, err := loop.Board.AbsOutputPath()
	if err != nil {
		return err
	}
	return loop.Opener.Open("file://" + path)
}

// Run does the setup, then cycles until ctx is cancelled. Cancellation is
// only observed between cycles, so a stage in flight always completes.
func (loop *Loop) Run(ctx context.Context) error {
	logger := common.GetLogger()
	loop.RunSetup(ctx)

	work := context.WithoutCancel(ctx)
	for {
		if ctx.Err() != nil {
			logger.Info("Stop requested, exiting.")
			return nil
		}

		result := loop.RunCycle(work)
		loop.afterCycle(work, result)

		if loop.Interval <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Info("Stop requested, exiting.")
			return nil
		case <-time.After(loop.Interval):
		}
	}
}
