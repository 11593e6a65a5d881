package transit

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// The board has two row slots per service and shows two times per row.
	MaxDestinations = 2
	MaxTimes        = 2
)

// Departure is the data behind one display row: a destination and its
// soonest arrival times in minutes.
type Departure struct {
	Destination string `json:"destination"`
	Line        string `json:"line,omitempty"`
	Minutes     []int  `json:"minutes"`
}

func (departure Departure) TimesText() string {
	parts := make([]string, len(departure.Minutes))
	for i, minutes := range departure.Minutes {
		parts[i] = strconv.Itoa(minutes)
	}
	return strings.Join(parts, ", ")
}

func (departure Departure) String() string {
	return departure.Destination + ": " + departure.TimesText()
}

type groupEntry struct {
	minutes int
	line    string
}

// Grouper collects arrivals by destination, remembering the order in which
// destinations were first seen. Entries within a destination stay sorted by
// minutes; equal minutes keep insertion order.
type Grouper struct {
	order  []string
	groups map[string][]groupEntry
}

func NewGrouper() *Grouper {
	return &Grouper{groups: map[string][]groupEntry{}}
}

func (grouper *Grouper) Add(destination string, minutes int, line string) {
	entries, ok := grouper.groups[destination]
	if !ok {
		grouper.order = append(grouper.order, destination)
	}

	at := sort.Search(len(entries), func(i int) bool {
		return entries[i].minutes > minutes
	})
	entries = append(entries, groupEntry{})
	copy(entries[at+1:], entries[at:])
	entries[at] = groupEntry{minutes: minutes, line: line}
	grouper.groups[destination] = entries
}

func (grouper *Grouper) Len() int {
	return len(grouper.order)
}

// Departures returns at most maxDestinations groups in first-seen order, each
// truncated to its maxTimes soonest entries.
func (grouper *Grouper) Departures(maxDestinations, maxTimes int) []Departure {
	count := min(len(grouper.order), maxDestinations)
	departures := make([]Departure, 0, count)

	for _, destination := range grouper.order[:count] {
		entries := grouper.groups[destination]
		shown := entries[:min(len(entries), maxTimes)]

		departure := Departure{
			Destination: destination,
			Line:        entries[0].line,
			Minutes:     make([]int, len(shown)),
		}
		for i, entry := range shown {
			departure.Minutes[i] = entry.minutes
		}
		departures = append(departures, departure)
	}

	return departures
}
