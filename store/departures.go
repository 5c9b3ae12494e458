package store

import (
	"sort"

	"github.com/tidbyt-labs/pyroutech/model"
)

// DepartureEvent is a single boardable departure from a stop: the
// stop_time row plus the trip's route for display.
type DepartureEvent struct {
	model.StopTime
	RouteShortName string
}

// Departures lists the boardable departures from stopID at or after
// afterSec (seconds since midnight), in departure order. It is a
// read-only convenience over the same per-stop index the Connection
// Builder walks; it performs no search of its own and never
// participates in Plan. limit <= 0 means unbounded.
func (fs *FeedStore) Departures(stopID string, afterSec int32, limit int) []DepartureEvent {
	sts := fs.stopTimesByStop[stopID]
	start := sort.Search(len(sts), func(i int) bool {
		return sts[i].DepartureSec >= afterSec
	})

	events := make([]DepartureEvent, 0, len(sts)-start)
	for _, st := range sts[start:] {
		tripSts := fs.stopTimesByTrip[st.TripID]
		if tripSts[len(tripSts)-1].StopSequence == st.StopSequence {
			// A trip's final stop_time is an arrival only.
			continue
		}
		_, shortName, _ := fs.TripRoute(st.TripID)
		events = append(events, DepartureEvent{StopTime: st, RouteShortName: shortName})
		if limit > 0 && len(events) >= limit {
			break
		}
	}

	return events
}
