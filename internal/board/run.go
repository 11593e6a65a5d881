package board

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/config"
	"tarediiran-industries.com/departure-board/internal/db"
	"tarediiran-industries.com/departure-board/internal/web/board_web"
)

func Run(cfg config.Config) int {
	defer common.SyncLogger()
	logger := common.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	var metrics *common.Metrics
	if cfg.Telemetry != "" {
		telemetry := common.NewTelemetryServer(cfg.Telemetry)
		metrics = common.NewMetrics(telemetry.GetRegistry())
		if err := telemetry.Start(); err != nil {
			logger.Warnf("Telemetry disabled: %v", err)
		} else {
			defer telemetry.Stop()
		}
	}

	loop, err := NewLoop(cfg, metrics)
	if err != nil {
		logger.Errorf("Could not set up board: %v", err)
		return -1
	}
	loop.Status = NewStatus()

	if cfg.Database != "" {
		recorder, err := db.NewHistoryRecorder(ctx, cfg.Database)
		if err != nil {
			logger.Warnf("History disabled: %v", err)
		} else {
			defer recorder.Close()
			loop.Recorder = recorder
		}
	}

	var serving sync.WaitGroup
	if cfg.Listen != "" {
		server, err := board_web.NewBoardWebServer(cfg.Listen, cfg.OutputPath, cfg.AssetsDir, loop.Status)
		if err != nil {
			logger.Errorf("Could not set up board web server: %v", err)
			return -1
		}
		loop.OpenURL = servedBoardURL(loop.Interval, server)

		serving.Add(1)
		go func() {
			defer serving.Done()
			server.Serve(ctx)
		}()
	}

	logger.Infof("Departure board %s starting (rail %q, metro %q, refresh %s)",
		common.Version, cfg.RailCode, cfg.MetroCode, cfg.Refresh())

	err = loop.Run(ctx)

	stop()
	serving.Wait()

	if err != nil {
		logger.Errorf("Board stopped: %v", err)
		return -1
	}
	logger.Info("Finished.")
	return 0
}

// servedBoardURL is the page the browser should open while the web server is
// up. A single-cycle run shuts the server down right after rendering, so it
// gets the file path instead.
func servedBoardURL(interval time.Duration, server *board_web.BoardWebServer) string {
	if interval <= 0 {
		return ""
	}
	return server.URL()
}
