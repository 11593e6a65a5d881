package board

import (
	"context"
	"fmt"

	"tarediiran-industries.com/departure-board/internal/arrivals"
	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/config"
	"tarediiran-industries.com/departure-board/internal/credential"
	"tarediiran-industries.com/departure-board/internal/metro"
	"tarediiran-industries.com/departure-board/internal/realtime"
	"tarediiran-industries.com/departure-board/internal/reference"
	"tarediiran-industries.com/departure-board/internal/transit"
)

// RailStage reads the reference tables, fetches trip updates and extracts
// the departures for one station pair.
type RailStage struct {
	Fetcher   *realtime.Fetcher
	Store     *reference.Store
	Extractor *arrivals.Extractor
}

func NewRailStage(cfg config.Config, client *common.FeedClient) (*RailStage, error) {
	stations, err := arrivals.ParseStationPair(cfg.RailCode)
	if err != nil {
		return nil, err
	}

	return &RailStage{
		Fetcher:   realtime.NewFetcher(cfg.RailFeedURL, client),
		Store:     reference.NewStore(cfg.ReferenceDir),
		Extractor: arrivals.NewExtractor(stations, cfg.TerminalNames),
	}, nil
}

func (stage *RailStage) Departures(ctx context.Context) ([]transit.Departure, error) {
	tables, err := stage.Store.Tables()
	if err != nil {
		return nil, fmt.Errorf("reference tables: %w", err)
	}

	tripUpdates, err := stage.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return stage.Extractor.Extract(tables, tripUpdates)
}

type MetroStage struct {
	Client      *metro.Client
	StationCode string
}

func (stage *MetroStage) Departures(ctx context.Context) ([]transit.Departure, error) {
	return stage.Client.Departures(ctx, stage.StationCode)
}

// BundleStep refreshes the static bundle and drops cached tables when new
// files were unpacked.
func BundleStep(bundle *reference.Bundle, store *reference.Store) SetupStep {
	return SetupStep{
		Name: "static-bundle",
		Run: func(ctx context.Context) error {
			refreshed, err := bundle.Refresh(ctx)
			if err != nil {
				return err
			}
			if refreshed {
				store.Invalidate()
			}
			return nil
		},
	}
}

// CredentialStep decrypts the metro API key into client when no plaintext
// key was configured. The key stays in memory.
func CredentialStep(cfg config.Config, client *metro.Client) SetupStep {
	return SetupStep{
		Name: "metro-credential",
		Run: func(ctx context.Context) error {
			if client.APIKey != "" {
				return nil
			}
			if cfg.MetroKeyFile == "" {
				return metro.ErrMissingAPIKey
			}

			apiKey, err := credential.DecryptKeyFile(cfg.MetroKeyFile, cfg.MetroPassFile)
			if err != nil {
				return err
			}
			client.APIKey = apiKey
			return nil
		},
	}
}

// NewLoop wires the configured services into a refresh loop. A service with
// no station code is left out and its slots show placeholders.
func NewLoop(cfg config.Config, metrics *common.Metrics) (*Loop, error) {
	fragments, err := NewFragmentRenderer(cfg.EscapeNames)
	if err != nil {
		return nil, err
	}

	client := common.NewFeedClient(cfg.HTTPTimeout(), metrics)
	loop := &Loop{
		Fragments:  fragments,
		Board:      &Board{TemplatePath: cfg.TemplatePath, OutputPath: cfg.OutputPath},
		StaticRows: cfg.StaticRows,
		Metrics:    metrics,
		Interval:   cfg.Refresh(),
	}
	if cfg.OpenBrowser {
		loop.Opener = BrowserOpener{}
	}

	if cfg.RailCode != "" {
		rail, err := NewRailStage(cfg, client)
		if err != nil {
			return nil, err
		}
		loop.Rail = rail
		if cfg.StaticBundleURL != "" {
			bundle := reference.NewBundle(cfg.StaticBundleURL, cfg.ReferenceDir, client)
			loop.Setup = append(loop.Setup, BundleStep(bundle, rail.Store))
		}
	}

	if cfg.MetroCode != "" {
		metroClient := metro.NewClient(cfg.MetroBaseURL, cfg.MetroAPIKey, client)
		loop.Metro = &MetroStage{Client: metroClient, StationCode: cfg.MetroCode}
		loop.Setup = append(loop.Setup, CredentialStep(cfg, metroClient))
	}

	return loop, nil
}
