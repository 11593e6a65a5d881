package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"tarediiran-industries.com/departure-board/internal/credential"
	"tarediiran-industries.com/departure-board/internal/realtime/realtimetest"
)

var referenceFiles = map[string]string{
	"stops.txt":  "stop_id,stop_name\n12018,COLLEGE PARK NB\n12015,COLLEGE PARK SB\n11980,BALTIMORE PENN\n",
	"trips.txt":  "trip_id,route_id,service_id,trip_short_name,trip_headsign\nT1,R1,WKDY,P401,Baltimore\nT2,R2,WKDY,B801,Dorsey\n",
	"routes.txt": "route_id,agency_id,route_short_name,route_long_name\nR1,MARC,Penn,PENN LINE\nR2,MARC,Camden,CAMDEN LINE\n",
}

// writeConfig lays out a reference dir plus a toml config pointing at it.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	referenceDir := filepath.Join(dir, "marc")
	require.NoError(t, os.MkdirAll(referenceDir, 0o755))
	for name, content := range referenceFiles {
		require.NoError(t, os.WriteFile(filepath.Join(referenceDir, name), []byte(content), 0o644))
	}

	path := filepath.Join(dir, "board.toml")
	content := fmt.Sprintf("reference_dir = %q\nmetro_pass_file = %q\nmetro_key_file = %q\n%s\n",
		referenceDir, filepath.Join(dir, "file_key.key"), filepath.Join(dir, "metro_api.enc"), extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file_key.key"), []byte("hunter2\n"), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&BoardCtlApp{})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReferenceListings(t *testing.T) {
	configPath := writeConfig(t, "")

	out, err := run(t, "--toml", configPath, "stations", "--match", "college")
	require.NoError(t, err)
	assert.Contains(t, out, "12015")
	assert.Contains(t, out, "COLLEGE PARK NB")
	assert.NotContains(t, out, "BALTIMORE")

	out, err = run(t, "--toml", configPath, "trips", "--route", "R2")
	require.NoError(t, err)
	assert.Contains(t, out, "B801")
	assert.NotContains(t, out, "P401")

	out, err = run(t, "--toml", configPath, "routes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "PENN LINE")
	assert.Contains(t, lines[2], "CAMDEN LINE")
}

func TestReferenceListingMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.toml")
	require.NoError(t, os.WriteFile(path, []byte(`reference_dir = "/nonexistent"`), 0o644))

	_, err := run(t, "--toml", path, "stations")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	payload, err := proto.Marshal(realtimetest.BuildFeed([]realtimetest.TripSpec{{
		TripID:   "T1",
		RouteID:  "R1",
		Relation: gtfs.TripDescriptor_SCHEDULED,
		Stops: []realtimetest.StopArrival{
			{StopID: "12018", At: time.Now().Add(10*time.Minute + 30*time.Second)},
			{StopID: "11980", At: time.Now().Add(40 * time.Minute)},
		},
	}}))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestArrivals(t *testing.T) {
	server := feedServer(t)
	configPath := writeConfig(t, fmt.Sprintf("rail_feed_url = %q", server.URL))

	out, err := run(t, "--toml", configPath, "arrivals", "--rail-code", "12018-12015")
	require.NoError(t, err)
	assert.Equal(t, "Baltimore Penn: 10\n", out)

	out, err = run(t, "--toml", configPath, "arrivals", "--rail-code", "99999-99998")
	require.NoError(t, err)
	assert.Equal(t, "No upcoming departures.\n", out)

	_, err = run(t, "--toml", configPath, "arrivals")
	require.Error(t, err)
}

func TestFeedDump(t *testing.T) {
	server := feedServer(t)
	configPath := writeConfig(t, fmt.Sprintf("rail_feed_url = %q", server.URL))

	out, err := run(t, "--toml", configPath, "feed", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"tripId"`)
	assert.Contains(t, out, `"T1"`)
}

func TestMetroWithEncryptedKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "abc123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"Trains":[{"DestinationName":"Shady Grove","Line":"RD","Min":"5"},{"DestinationName":"Glenmont","Line":"RD","Min":"BRD"}]}`))
	}))
	defer server.Close()

	t.Setenv("WMATA_API_KEY", "")
	configPath := writeConfig(t, fmt.Sprintf("metro_base_url = %q\nmetro_code = \"E09\"", server.URL))

	out, err := run(t, "--toml", configPath, "encrypt-key", "--key", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "metro_api.enc")

	keyPath := filepath.Join(filepath.Dir(configPath), "metro_api.enc")
	apiKey, err := credential.DecryptKeyFile(keyPath, filepath.Join(filepath.Dir(configPath), "file_key.key"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", apiKey)

	out, err = run(t, "--toml", configPath, "metro")
	require.NoError(t, err)
	assert.Equal(t, "Shady Grove: 5\n", out)
}

func TestEncryptKeyNeedsKey(t *testing.T) {
	t.Setenv("WMATA_API_KEY", "")
	configPath := writeConfig(t, "")

	_, err := run(t, "--toml", configPath, "encrypt-key")
	require.ErrorContains(t, err, "WMATA_API_KEY")
}

func TestHealth(t *testing.T) {
	upstream := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", upstream.Format(http.TimeFormat))
	}))
	defer server.Close()

	configPath := writeConfig(t, fmt.Sprintf("static_bundle_url = %q", server.URL))

	out, err := run(t, "--toml", configPath, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "upstream: "+upstream.Format(time.RFC3339))
	assert.Contains(t, out, "stale:    true")
}

func TestHistoryNeedsDatabase(t *testing.T) {
	configPath := writeConfig(t, "")

	_, err := run(t, "--toml", configPath, "history")
	require.ErrorContains(t, err, "no database configured")
}
