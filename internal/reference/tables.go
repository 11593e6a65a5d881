package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/transit"
)

var ErrLookupMiss = errors.New("reference lookup miss")

const (
	StopsFile  = "stops.txt"
	TripsFile  = "trips.txt"
	RoutesFile = "routes.txt"
)

var ReferenceFiles = []string{StopsFile, TripsFile, RoutesFile}

// Record is one CSV row keyed by header name. Columns missing from a short
// row read as empty strings.
type Record map[string]string

type Table map[string]Record

type Tables struct {
	Stops  Table
	Trips  Table
	Routes Table
}

// ReadKeyedCSV reads a headed CSV file into a table keyed by each row's first
// column value. Later rows with a duplicate key replace earlier ones.
func ReadKeyedCSV(filePath string) (Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readKeyedCSV(file)
}

func readKeyedCSV(in io.Reader) (Table, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	table := Table{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		record := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		table[row[0]] = record
	}

	return table, nil
}

func LoadTables(dirPath string) (*Tables, error) {
	benchmarker := common.NewBenchmarker("load-reference-tables")
	defer benchmarker.Close()

	tables := &Tables{}
	targets := []struct {
		fileName string
		table    *Table
	}{
		{StopsFile, &tables.Stops},
		{TripsFile, &tables.Trips},
		{RoutesFile, &tables.Routes},
	}

	for _, target := range targets {
		path := filepath.Join(dirPath, target.fileName)
		table, err := common.RuntimeBenchmark("read "+target.fileName, func() (Table, error) {
			return ReadKeyedCSV(path)
		})
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", target.fileName, err)
		}
		*target.table = table
	}

	return tables, nil
}

// LocalModTime returns the newest modification time among the reference files
// in dirPath.
func LocalModTime(dirPath string) (time.Time, error) {
	var newest time.Time
	for _, fileName := range ReferenceFiles {
		info, err := os.Stat(filepath.Join(dirPath, fileName))
		if err != nil {
			return time.Time{}, err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	return newest, nil
}

func (tables *Tables) Trip(tripID string) (transit.Trip, error) {
	record, ok := tables.Trips[tripID]
	if !ok {
		return transit.Trip{}, fmt.Errorf("%w: trip %q", ErrLookupMiss, tripID)
	}
	return transit.Trip{
		TripID:    tripID,
		RouteID:   record["route_id"],
		ShortName: record["trip_short_name"],
		Headsign:  record["trip_headsign"],
	}, nil
}

func (tables *Tables) Route(routeID string) (transit.Route, error) {
	record, ok := tables.Routes[routeID]
	if !ok {
		return transit.Route{}, fmt.Errorf("%w: route %q", ErrLookupMiss, routeID)
	}
	return transit.Route{
		RouteID:  routeID,
		LongName: record["route_long_name"],
	}, nil
}

func (tables *Tables) Station(stopID string) (transit.Station, error) {
	record, ok := tables.Stops[stopID]
	if !ok {
		return transit.Station{}, fmt.Errorf("%w: stop %q", ErrLookupMiss, stopID)
	}
	return transit.Station{
		StopID: stopID,
		Name:   record["stop_name"],
	}, nil
}

// StationName falls back to the stop ID when the stop is unknown.
func (tables *Tables) StationName(stopID string) string {
	station, err := tables.Station(stopID)
	if err != nil || station.Name == "" {
		return stopID
	}
	return station.Name
}
