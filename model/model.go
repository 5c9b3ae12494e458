// Package model holds the row-level types produced by gtfsio and
// consumed by store and plan. These mirror the GTFS text format
// closely; seconds-since-midnight, not wall clock types, are used for
// all timetable times so that values past 24:00:00 (post-midnight
// service) survive unchanged.
package model

// LocationType distinguishes boardable platforms from their parent
// stations. Entrances, generic nodes and boarding areas are grouped
// under Other since the planner never boards or alights at them.
type LocationType int8

const (
	LocationTypePlatform LocationType = iota
	LocationTypeStation
	LocationTypeEntranceExit
	LocationTypeGenericNode
	LocationTypeBoardingArea
)

func (l LocationType) Other() bool {
	return l != LocationTypePlatform && l != LocationTypeStation
}

type ExceptionType int8

const (
	ExceptionTypeAdded   ExceptionType = 1
	ExceptionTypeRemoved ExceptionType = 2
)

type Agency struct {
	ID       string
	Name     string
	Timezone string
}

type Stop struct {
	ID           string
	Name         string
	ParentID     string
	LocationType LocationType
}

type Route struct {
	ID        string
	ShortName string
	LongName  string
}

// DisplayName prefers ShortName, since riders know routes by their
// short line code ("IC 3") over the descriptive long name.
func (r Route) DisplayName() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	return r.LongName
}

type Trip struct {
	ID        string
	RouteID   string
	ServiceID string
}

// Calendar is the weekly recurrence rule for a service_id. Weekday is
// a bitmask with bit time.Monday..time.Sunday (Go's time.Weekday
// values, Sunday==0) set when the service runs that day.
type Calendar struct {
	ServiceID string
	Weekday   uint8
	StartDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
}

type CalendarDate struct {
	ServiceID     string
	Date          string // YYYYMMDD
	ExceptionType ExceptionType
}

// StopTime is one row of stop_times.txt. ArrivalSec/DepartureSec are
// seconds since midnight of the service date; GTFS permits values
// >= 86400 to express trips running past midnight, and those values
// are kept as-is throughout the planner.
type StopTime struct {
	TripID       string
	StopID       string
	StopSequence uint32
	ArrivalSec   int32
	DepartureSec int32
}
