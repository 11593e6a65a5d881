package common

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello"))
		case "/missing":
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	metrics := NewMetrics(prometheus.NewRegistry())
	client := NewFeedClient(time.Second, metrics)

	body, err := client.Get(context.Background(), "ok", server.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.HttpBytesTotal.WithLabelValues("ok")))

	_, err = client.Get(context.Background(), "missing", server.URL+"/missing")
	require.ErrorIs(t, err, ErrHTTPStatus)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HttpErrorsTotal.WithLabelValues("missing")))
}

func TestFeedClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewFeedClient(time.Second, nil)
	_, err := client.Get(context.Background(), "gone", url)
	require.Error(t, err)
}

func TestFeedClientHeadAndDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		if r.Method == http.MethodHead {
			return
		}
		w.Write([]byte("zipbytes"))
	}))
	defer server.Close()

	client := NewFeedClient(0, nil)
	assert.Equal(t, DefaultHTTPTimeout, client.Client.Timeout)

	header, err := client.Head(context.Background(), "bundle", server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", header.Get("Last-Modified"))

	var buf bytes.Buffer
	written, err := client.Download(context.Background(), "bundle", server.URL, &buf)
	require.NoError(t, err)
	assert.EqualValues(t, 8, written)
	assert.Equal(t, "zipbytes", buf.String())
}

func TestNilMetricsAreNoops(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveTTFB("x", time.Second)
	metrics.ObserveBody("x", time.Second, 1)
	metrics.IncError("x")
	metrics.IncCycle("ok")
}
