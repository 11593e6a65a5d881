package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tarediiran-industries.com/departure-board/internal/transit"
)

func TestBoardRowRecords(t *testing.T) {
	rows := BoardRowRecords(7, map[string][]transit.Departure{
		"rail": {
			{Destination: "Baltimore", Line: "R1", Minutes: []int{10, 40}},
		},
		"metro": {
			{Destination: "Shady Grove", Line: "RD", Minutes: []int{5}},
			{Destination: "Glenmont", Line: "RD", Minutes: []int{2, 9}},
		},
	})

	assert.Equal(t, [][]any{
		{int64(7), "metro", 0, "Shady Grove", "RD", []int32{5}},
		{int64(7), "metro", 1, "Glenmont", "RD", []int32{2, 9}},
		{int64(7), "rail", 0, "Baltimore", "R1", []int32{10, 40}},
	}, rows)
}

func TestBoardRowRecordsEmpty(t *testing.T) {
	assert.Empty(t, BoardRowRecords(1, map[string][]transit.Departure{"metro": nil}))
}

func TestNilDatabaseClose(t *testing.T) {
	var database *Database
	assert.NoError(t, database.Close())
}
