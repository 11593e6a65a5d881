package arrivals

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarediiran-industries.com/departure-board/internal/realtime"
	"tarediiran-industries.com/departure-board/internal/realtime/realtimetest"
	"tarediiran-industries.com/departure-board/internal/reference"
	"tarediiran-industries.com/departure-board/internal/transit"
)

const (
	collegeParkNB = "12018"
	collegeParkSB = "12015"
	baltimorePenn = "11980"
	washington    = "11958"
)

var terminalNames = map[string]string{
	washington:    "Washington",
	baltimorePenn: "Baltimore Penn",
}

func loadTables(t *testing.T) *reference.Tables {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		reference.StopsFile:  "stop_id,stop_name\n12018,COLLEGE PARK NB\n12015,COLLEGE PARK SB\n11980,BALTIMORE PENN\n11958,WASHINGTON UNION\n",
		reference.TripsFile:  "trip_id,route_id,trip_short_name,trip_headsign\nT1,R1,P401,Baltimore\nT2,R1,P402,Washington\nT3,R1,P403,Dorsey\nT4,R1,P404,Camden\n",
		reference.RoutesFile: "route_id,route_long_name\nR1,CAMDEN LINE\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	tables, err := reference.LoadTables(dir)
	require.NoError(t, err)
	return tables
}

func fixedExtractor(now time.Time) *Extractor {
	extractor := NewExtractor(StationPair{collegeParkNB, collegeParkSB}, terminalNames)
	extractor.Now = func() time.Time { return now }
	return extractor
}

func extract(t *testing.T, extractor *Extractor, trips []realtimetest.TripSpec) ([]transit.Departure, error) {
	t.Helper()
	return extractor.Extract(loadTables(t), realtime.TripUpdatesFromFeed(realtimetest.BuildFeed(trips)))
}

func TestExtractSingleArrivalUsesHeadsign(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	departures, err := extract(t, fixedExtractor(now), []realtimetest.TripSpec{
		{TripID: "T1", RouteID: "R1", Stops: []realtimetest.StopArrival{
			{StopID: collegeParkNB, At: now.Add(10 * time.Minute)},
		}},
	})
	require.NoError(t, err)

	require.Len(t, departures, 1)
	assert.Equal(t, "Baltimore: 10", departures[0].String())
}

func TestExtractTerminalNameOverridesHeadsign(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	departures, err := extract(t, fixedExtractor(now), []realtimetest.TripSpec{
		{TripID: "T1", RouteID: "R1", Stops: []realtimetest.StopArrival{
			{StopID: collegeParkNB, At: now.Add(7 * time.Minute)},
			{StopID: baltimorePenn, At: now.Add(50 * time.Minute)},
		}},
	})
	require.NoError(t, err)

	require.Len(t, departures, 1)
	assert.Equal(t, "Baltimore Penn", departures[0].Destination)
	assert.Equal(t, []int{7}, departures[0].Minutes)
}

func TestExtractArrivalBoundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name    string
		at      time.Time
		want    []int
		present bool
	}{
		{name: "past", at: now.Add(-time.Minute)},
		{name: "exactly now", at: now},
		{name: "one second ahead", at: now.Add(time.Second), want: []int{0}, present: true},
		{name: "ninety seconds ahead", at: now.Add(90 * time.Second), want: []int{1}, present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			departures, err := extract(t, fixedExtractor(now), []realtimetest.TripSpec{
				{TripID: "T2", RouteID: "R1", Stops: []realtimetest.StopArrival{{StopID: collegeParkSB, At: tt.at}}},
			})
			require.NoError(t, err)
			if !tt.present {
				assert.Empty(t, departures)
				return
			}
			require.Len(t, departures, 1)
			assert.Equal(t, tt.want, departures[0].Minutes)
		})
	}
}

func TestExtractIgnoresOtherStationsAndMissingArrivals(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	departures, err := extract(t, fixedExtractor(now), []realtimetest.TripSpec{
		{TripID: "T1", RouteID: "R1", Stops: []realtimetest.StopArrival{
			{StopID: collegeParkNB},
			{StopID: "99999", At: now.Add(5 * time.Minute)},
		}},
		{TripID: "T3", RouteID: "R1"},
	})
	require.NoError(t, err)
	assert.Empty(t, departures)
}

func TestExtractGroupsInFeedOrderAndLimitsRows(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	at := func(minutes int) time.Time { return now.Add(time.Duration(minutes)*time.Minute + 5*time.Second) }

	departures, err := extract(t, fixedExtractor(now), []realtimetest.TripSpec{
		{TripID: "T3", RouteID: "R1", Stops: []realtimetest.StopArrival{{StopID: collegeParkSB, At: at(25)}}},
		{TripID: "T1", RouteID: "R1", Stops: []realtimetest.StopArrival{{StopID: collegeParkNB, At: at(40)}}},
		{TripID: "T3", RouteID: "R1", Stops: []realtimetest.StopArrival{{StopID: collegeParkSB, At: at(3)}}},
		{TripID: "T3", RouteID: "R1", Stops: []realtimetest.StopArrival{{StopID: collegeParkSB, At: at(12)}}},
		{TripID: "T4", RouteID: "R1", Stops: []realtimetest.StopArrival{{StopID: collegeParkNB, At: at(1)}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []transit.Departure{
		{Destination: "Dorsey", Line: "R1", Minutes: []int{3, 12}},
		{Destination: "Baltimore", Line: "R1", Minutes: []int{40}},
	}, departures)
}

func TestExtractLookupMissFailsCycle(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name string
		trip realtimetest.TripSpec
	}{
		{name: "unknown trip", trip: realtimetest.TripSpec{TripID: "T9", RouteID: "R1"}},
		{name: "unknown route", trip: realtimetest.TripSpec{TripID: "T1", RouteID: "R9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extract(t, fixedExtractor(now), []realtimetest.TripSpec{tt.trip})
			require.ErrorIs(t, err, reference.ErrLookupMiss)
		})
	}
}

func TestParseStationPair(t *testing.T) {
	pair, err := ParseStationPair(" 11989-11988 ")
	require.NoError(t, err)
	assert.Equal(t, StationPair{"11989", "11988"}, pair)
	assert.True(t, pair.Contains("11988"))
	assert.Equal(t, "11989-11988", pair.String())

	for _, bad := range []string{"", "11989", "11989-", "1-2-3"} {
		_, err := ParseStationPair(bad)
		assert.Error(t, err, strings.TrimSpace(bad))
	}
}
