package realtime

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/transit"
)

const feedEndpoint = "rail-trip-updates"

type Fetcher struct {
	URL    string
	Client *common.FeedClient
}

func NewFetcher(url string, client *common.FeedClient) *Fetcher {
	return &Fetcher{URL: url, Client: client}
}

func (fetcher *Fetcher) FetchFeed(ctx context.Context) (*gtfs.FeedMessage, error) {
	body, err := fetcher.Client.Get(ctx, feedEndpoint, fetcher.URL)
	if err != nil {
		return nil, err
	}

	feedMessage := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feedMessage); err != nil {
		return nil, fmt.Errorf("decode realtime feed: %w", err)
	}

	return feedMessage, nil
}

// Fetch returns the feed's trip updates in wire order.
func (fetcher *Fetcher) Fetch(ctx context.Context) ([]transit.TripUpdate, error) {
	feedMessage, err := fetcher.FetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	tripUpdates := TripUpdatesFromFeed(feedMessage)
	common.GetLogger().Debugf("Sampled realtime feed %s: %d entities, %d trip updates",
		fetcher.URL, len(feedMessage.GetEntity()), len(tripUpdates))
	return tripUpdates, nil
}

func TripUpdatesFromFeed(feedMessage *gtfs.FeedMessage) []transit.TripUpdate {
	tripUpdates := make([]transit.TripUpdate, 0, len(feedMessage.GetEntity()))

	for _, entity := range feedMessage.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}
		tripUpdates = append(tripUpdates, convertTripUpdate(tripUpdate))
	}

	return tripUpdates
}

func convertTripUpdate(tripUpdate *gtfs.TripUpdate) transit.TripUpdate {
	trip := tripUpdate.GetTrip()

	record := transit.TripUpdate{
		TripID:               trip.GetTripId(),
		RouteID:              trip.GetRouteId(),
		ScheduleRelationship: transit.ScheduleRelationship(trip.GetScheduleRelationship()),
		StopTimeUpdates:      make([]transit.StopTimeUpdate, 0, len(tripUpdate.GetStopTimeUpdate())),
	}

	for _, stopTimeUpdate := range tripUpdate.GetStopTimeUpdate() {
		update := transit.StopTimeUpdate{StopID: stopTimeUpdate.GetStopId()}
		if arrival := stopTimeUpdate.GetArrival(); arrival != nil {
			at := time.Unix(arrival.GetTime(), 0)
			update.Arrival = &at
		}
		record.StopTimeUpdates = append(record.StopTimeUpdates, update)
	}

	return record
}

func PrintProtobuf(out io.Writer, message proto.Message) error {
	options := protojson.MarshalOptions{Multiline: true}
	jsonBytes, err := options.Marshal(message)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(jsonBytes))
	return err
}
