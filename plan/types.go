// Package plan implements the time-dependent journey search: building
// a day's connections from a FeedStore, running the pruned
// label-setting connection scan, and reconstructing human-readable
// journeys from the scan's predecessor chains.
package plan

// Connection is one directed hop between two consecutive stops of a
// single trip, at fixed departure/arrival times (seconds since
// midnight of the query date; values may exceed 86400 for
// post-midnight service).
type Connection struct {
	TripID    string
	RouteID   string
	FromStop  string
	ToStop    string
	DepSec    int32
	ArrSec    int32
}

// labelRef is an arena index into a Planner's label pool.
// originRef is the sentinel predecessor of every label seeded at an
// origin stop.
type labelRef int32

const originRef labelRef = -1

// label is the planner's internal (stop, arrival_time, via) tuple.
// Arena-indexed rather than pointer-linked, per spec.md §9: the
// predecessor chain can never cycle, and the whole arena is dropped
// at once when a search ends.
type label struct {
	stop        string
	arrSec      int32
	viaTrip     string // "" for an Origin label
	predecessor labelRef
	depFromPred int32 // departure time boarded at predecessor; earliestSec for Origin
	hops        int32 // predecessor chain length, for tie-breaking
}

func (l label) isOrigin() bool {
	return l.viaTrip == ""
}

// RouteSegment is one ride of a single trip within a returned
// journey.
type RouteSegment struct {
	TripID         string
	RouteShortName string
	BoardStopID    string
	BoardStopName  string
	AlightStopID   string
	AlightStopName string
	BoardSec       int32
	AlightSec      int32
	WaitBeforeSec  int32
}

// Journey is an ordered sequence of ride segments from an origin stop
// set to a destination stop set.
type Journey struct {
	Segments []RouteSegment
}

// ArrivalSec is the arrival time of the journey's last segment.
func (j Journey) ArrivalSec() int32 {
	if len(j.Segments) == 0 {
		return 0
	}
	return j.Segments[len(j.Segments)-1].AlightSec
}
