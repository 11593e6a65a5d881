package realtime

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/realtime/realtimetest"
	"tarediiran-industries.com/departure-board/internal/transit"
)

func serveFeed(t *testing.T, feedMessage *gtfs.FeedMessage) *httptest.Server {
	t.Helper()
	body, err := proto.Marshal(feedMessage)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchKeepsTripUpdatesInWireOrder(t *testing.T) {
	arrival := time.Unix(1_700_000_600, 0)
	feedMessage := realtimetest.BuildFeed([]realtimetest.TripSpec{
		{TripID: "T2", RouteID: "R1", Relation: gtfs.TripDescriptor_CANCELED, Stops: []realtimetest.StopArrival{{StopID: "12018"}}},
		{TripID: "T1", RouteID: "R1", Stops: []realtimetest.StopArrival{{StopID: "12018", At: arrival}, {StopID: "11980"}}},
	})
	feedMessage.Entity = append(feedMessage.Entity, &gtfs.FeedEntity{
		Id:        proto.String("alert"),
		IsDeleted: proto.Bool(false),
	})

	server := serveFeed(t, feedMessage)
	fetcher := NewFetcher(server.URL, common.NewFeedClient(time.Second, nil))

	tripUpdates, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, tripUpdates, 2)

	assert.Equal(t, "T2", tripUpdates[0].TripID)
	assert.Equal(t, transit.Canceled, tripUpdates[0].ScheduleRelationship)
	assert.Nil(t, tripUpdates[0].StopTimeUpdates[0].Arrival)

	assert.Equal(t, "T1", tripUpdates[1].TripID)
	assert.Equal(t, transit.Scheduled, tripUpdates[1].ScheduleRelationship)
	require.Len(t, tripUpdates[1].StopTimeUpdates, 2)
	require.NotNil(t, tripUpdates[1].StopTimeUpdates[0].Arrival)
	assert.True(t, arrival.Equal(*tripUpdates[1].StopTimeUpdates[0].Arrival))
	assert.Equal(t, "11980", tripUpdates[1].StopTimeUpdates[1].StopID)
}

func TestFetchMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a protobuf</html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, common.NewFeedClient(time.Second, nil))
	_, err := fetcher.Fetch(context.Background())
	require.Error(t, err)
}

func TestPrintProtobuf(t *testing.T) {
	feedMessage := realtimetest.BuildFeed([]realtimetest.TripSpec{{TripID: "T1", RouteID: "R1"}})

	var out bytes.Buffer
	require.NoError(t, PrintProtobuf(&out, feedMessage))
	assert.Contains(t, out.String(), `"tripId"`)
	assert.Contains(t, out.String(), `"T1"`)
}
