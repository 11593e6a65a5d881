package reference

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"tarediiran-industries.com/departure-board/internal/common"
)

const bundleEndpoint = "static-bundle"

// Bundle is the upstream static GTFS zip and the local directory it unpacks to.
type Bundle struct {
	URL    string
	Dir    string
	Client *common.FeedClient

	// Upper bound on download retries. Zero means a single attempt.
	MaxElapsed time.Duration
}

func NewBundle(url string, dir string, client *common.FeedClient) *Bundle {
	return &Bundle{
		URL:        url,
		Dir:        dir,
		Client:     client,
		MaxElapsed: 2 * time.Minute,
	}
}

func (bundle *Bundle) UpstreamModified(ctx context.Context) (time.Time, error) {
	header, err := bundle.Client.Head(ctx, bundleEndpoint, bundle.URL)
	if err != nil {
		return time.Time{}, err
	}

	lastModified := header.Get("Last-Modified")
	if lastModified == "" {
		return time.Time{}, fmt.Errorf("%s: no Last-Modified header", bundle.URL)
	}

	modified, err := http.ParseTime(lastModified)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse Last-Modified %q: %w", lastModified, err)
	}
	return modified, nil
}

// IsStale reports whether the local copy is missing or older than upstream.
func (bundle *Bundle) IsStale(ctx context.Context) (bool, error) {
	upstream, err := bundle.UpstreamModified(ctx)
	if err != nil {
		return false, err
	}

	local, err := LocalModTime(bundle.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}

	return local.Before(upstream), nil
}

// Refresh downloads and unpacks the bundle when the local copy is stale.
func (bundle *Bundle) Refresh(ctx context.Context) (bool, error) {
	stale, err := bundle.IsStale(ctx)
	if err != nil {
		return false, err
	}
	if !stale {
		common.GetLogger().Debugf("Static bundle %s is up to date", bundle.Dir)
		return false, nil
	}

	zipPath, err := bundle.DownloadToTempFile(ctx)
	if err != nil {
		return false, err
	}
	defer os.Remove(zipPath)

	count, err := UnzipInto(zipPath, bundle.Dir)
	if err != nil {
		return false, err
	}

	common.GetLogger().Infof("Refreshed static bundle %s -> %s (%d files)", bundle.URL, bundle.Dir, count)
	return true, nil
}

func (bundle *Bundle) DownloadToTempFile(ctx context.Context) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 2 * time.Second
	policy.MaxElapsedTime = bundle.MaxElapsed

	var retry backoff.BackOff = policy
	if bundle.MaxElapsed <= 0 {
		retry = &backoff.StopBackOff{}
	}

	return backoff.RetryNotifyWithData(
		func() (string, error) {
			tmpFile, err := os.CreateTemp("", "board-bundle-*.zip")
			if err != nil {
				return "", backoff.Permanent(err)
			}
			defer tmpFile.Close()

			if _, err := bundle.Client.Download(ctx, bundleEndpoint, bundle.URL, tmpFile); err != nil {
				os.Remove(tmpFile.Name())
				return "", fmt.Errorf("download %s: %w", bundle.URL, err)
			}

			common.GetLogger().Debugf("Downloaded %s -> %s", bundle.URL, tmpFile.Name())
			return tmpFile.Name(), nil
		},
		backoff.WithContext(retry, ctx),
		func(err error, wait time.Duration) {
			common.GetLogger().Warnf("Static bundle download failed, retrying in %s: %v", wait, err)
		},
	)
}

// UnzipInto extracts the .txt members of a GTFS zip into dir, flattening any
// directory structure inside the archive.
func UnzipInto(zipPath string, dir string) (int, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	count := 0
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		baseName := filepath.Base(file.Name)
		if !strings.HasSuffix(strings.ToLower(baseName), ".txt") {
			common.GetLogger().Debugf("Unrecognized file %s - skipping", file.Name)
			continue
		}

		if err := extractFile(file, filepath.Join(dir, baseName)); err != nil {
			return count, fmt.Errorf("extract %s: %w", file.Name, err)
		}
		count++
	}

	return count, nil
}

func extractFile(file *zip.File, dstPath string) error {
	fileInArchive, err := file.Open()
	if err != nil {
		return err
	}
	defer fileInArchive.Close()

	dstFile, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, fileInArchive); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
