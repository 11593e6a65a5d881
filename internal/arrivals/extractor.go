// Package arrivals turns realtime trip updates into per-destination rows of
// upcoming arrival times at a pair of watched stations.
package arrivals

import (
	"fmt"
	"strings"
	"time"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/reference"
	"tarediiran-industries.com/departure-board/internal/transit"
)

// StationPair is the two platform stop IDs of one station, usually one per
// direction.
type StationPair [2]string

func ParseStationPair(code string) (StationPair, error) {
	parts := strings.Split(strings.TrimSpace(code), "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return StationPair{}, fmt.Errorf("station pair %q: want two stop IDs joined by '-'", code)
	}
	return StationPair{parts[0], parts[1]}, nil
}

func (pair StationPair) Contains(stopID string) bool {
	return pair[0] == stopID || pair[1] == stopID
}

func (pair StationPair) String() string {
	return pair[0] + "-" + pair[1]
}

type Extractor struct {
	Stations StationPair

	// Display names for terminal stops, keyed by stop ID. A trip whose last
	// stop-time update is a known terminal is grouped under that name instead
	// of its headsign.
	TerminalNames map[string]string

	Now func() time.Time
}

func NewExtractor(stations StationPair, terminalNames map[string]string) *Extractor {
	return &Extractor{
		Stations:      stations,
		TerminalNames: terminalNames,
		Now:           time.Now,
	}
}

// Extract groups upcoming arrivals by destination. Any trip or route ID that
// does not resolve fails the whole extraction with reference.ErrLookupMiss.
func (extractor *Extractor) Extract(tables *reference.Tables, tripUpdates []transit.TripUpdate) ([]transit.Departure, error) {
	logger := common.GetLogger()
	now := extractor.Now()
	grouper := transit.NewGrouper()

	for _, tripUpdate := range tripUpdates {
		trip, err := tables.Trip(tripUpdate.TripID)
		if err != nil {
			return nil, err
		}
		route, err := tables.Route(tripUpdate.RouteID)
		if err != nil {
			return nil, err
		}

		logger.Debugf("Trip update for %s %s line %s to %s",
			tripUpdate.ScheduleRelationship, firstWord(route.LongName), trip.ShortName, trip.Headsign)

		if len(tripUpdate.StopTimeUpdates) == 0 {
			continue
		}
		destination := extractor.destinationFor(tripUpdate, trip)

		for _, stopTimeUpdate := range tripUpdate.StopTimeUpdates {
			if stopTimeUpdate.Arrival == nil || !stopTimeUpdate.Arrival.After(now) {
				continue
			}

			logger.Debugf("Arriving %s at %s", stopTimeUpdate.Arrival.Format(time.DateTime), tables.StationName(stopTimeUpdate.StopID))
			if !extractor.Stations.Contains(stopTimeUpdate.StopID) {
				continue
			}

			minutes := int(stopTimeUpdate.Arrival.Sub(now) / time.Minute)
			grouper.Add(destination, minutes, route.RouteID)
		}
	}

	return grouper.Departures(transit.MaxDestinations, transit.MaxTimes), nil
}

func (extractor *Extractor) destinationFor(tripUpdate transit.TripUpdate, trip transit.Trip) string {
	last := tripUpdate.StopTimeUpdates[len(tripUpdate.StopTimeUpdates)-1]
	if name, ok := extractor.TerminalNames[last.StopID]; ok {
		return name
	}
	return trip.Headsign
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
