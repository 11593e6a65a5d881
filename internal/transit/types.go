package transit

import (
	"time"
)

type Station struct {
	StopID string
	Name   string
}

type Trip struct {
	TripID    string
	RouteID   string
	ShortName string
	Headsign  string
}

type Route struct {
	RouteID  string
	LongName string
}

// ScheduleRelationship mirrors the GTFS-realtime TripDescriptor enum by value.
// Value 4 is unused on the wire and reads as "null".
type ScheduleRelationship int32

const (
	Scheduled ScheduleRelationship = iota
	Added
	Unscheduled
	Canceled
	Null
	Replacement
	Duplicated
	Deleted
)

var scheduleRelationshipNames = []string{
	"scheduled",
	"added",
	"unscheduled",
	"canceled",
	"null",
	"replacement",
	"duplicated",
	"deleted",
}

func (relationship ScheduleRelationship) String() string {
	if relationship < 0 || int(relationship) >= len(scheduleRelationshipNames) {
		return "null"
	}
	return scheduleRelationshipNames[relationship]
}

type TripUpdate struct {
	TripID               string
	RouteID              string
	ScheduleRelationship ScheduleRelationship
	StopTimeUpdates      []StopTimeUpdate
}

type StopTimeUpdate struct {
	StopID string
	// Nil when the update carries no arrival event.
	Arrival *time.Time
}

type MetroPrediction struct {
	DestinationName string `json:"DestinationName"`
	Line            string `json:"Line"`
	Min             string `json:"Min"`
	LocationCode    string `json:"LocationCode,omitempty"`
	LocationName    string `json:"LocationName,omitempty"`
	Group           string `json:"Group,omitempty"`
	Car             string `json:"Car,omitempty"`
}
