// Package realtimetest builds GTFS-realtime feed messages for tests.
package realtimetest

import (
	"strconv"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// StopArrival describes one stop-time update for BuildFeed. A zero At leaves
// the arrival event unset.
type StopArrival struct {
	StopID string
	At     time.Time
}

type TripSpec struct {
	TripID   string
	RouteID  string
	Relation gtfs.TripDescriptor_ScheduleRelationship
	Stops    []StopArrival
}

// BuildFeed assembles a FeedMessage from trip specs. It backs the tests of
// every package that consumes the realtime feed.
func BuildFeed(trips []TripSpec) *gtfs.FeedMessage {
	feedMessage := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(uint64(time.Now().Unix())),
		},
	}

	for i, trip := range trips {
		stopTimeUpdates := make([]*gtfs.TripUpdate_StopTimeUpdate, 0, len(trip.Stops))
		for _, stop := range trip.Stops {
			stopTimeUpdate := &gtfs.TripUpdate_StopTimeUpdate{StopId: proto.String(stop.StopID)}
			if !stop.At.IsZero() {
				stopTimeUpdate.Arrival = &gtfs.TripUpdate_StopTimeEvent{Time: proto.Int64(stop.At.Unix())}
			}
			stopTimeUpdates = append(stopTimeUpdates, stopTimeUpdate)
		}

		relation := trip.Relation
		feedMessage.Entity = append(feedMessage.Entity, &gtfs.FeedEntity{
			Id: proto.String(strconv.Itoa(i + 1)),
			TripUpdate: &gtfs.TripUpdate{
				Trip: &gtfs.TripDescriptor{
					TripId:               proto.String(trip.TripID),
					RouteId:              proto.String(trip.RouteID),
					ScheduleRelationship: &relation,
				},
				StopTimeUpdate: stopTimeUpdates,
			},
		})
	}

	return feedMessage
}
