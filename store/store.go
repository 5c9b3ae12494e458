// Package store owns the normalised, immutable in-memory timetable
// built from a GTFS feed directory: stops, trips, routes, calendars
// and the sorted stop_times, plus the lookups the planner needs
// (name -> candidate stops, stop -> parent/children, trip ->
// route/service, date -> active service set).
//
// A FeedStore is built once by Load and never mutated afterwards, so
// it can be shared read-only across concurrent queries without
// locking.
package store

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/gtfsio"
	"github.com/tidbyt-labs/pyroutech/model"
)

// FeedStore is the immutable, queryable view of a GTFS feed.
type FeedStore struct {
	stops  map[string]model.Stop
	routes map[string]model.Route
	trips  map[string]model.Trip

	calendars     map[string]model.Calendar
	calendarDates map[string][]model.CalendarDate

	// stopTimesByTrip holds each trip's stop_times sorted by
	// stop_sequence ascending, exactly the order BuildConnections
	// needs to walk adjacent pairs.
	stopTimesByTrip map[string][]model.StopTime

	// stopTimesByStop holds, per stop, its stop_times sorted by
	// departure_sec ascending. Used by Departures.
	stopTimesByStop map[string][]model.StopTime

	childrenByParent map[string][]string

	// normalizedNames[stopID] is the NFKC-normalised, casefolded
	// stop name, precomputed so ResolveStation never redoes
	// normalisation work per query.
	normalizedNames map[string]string

	agencyTimezone *time.Location
}

type Options struct {
	// CacheDir, if set, enables the on-disk snapshot cache (see
	// cache.go): repeat loads of the same feed directory skip
	// re-parsing stop_times.txt when the directory is unchanged.
	CacheDir string
}

// Load reads the GTFS feed rooted at dir and builds an immutable
// FeedStore. It fails with *gtfsio.MissingFileError or
// *gtfsio.BadFormatError (wrapping the offending 1-based CSV line)
// if the feed is malformed.
func Load(dir string, opts ...Options) (*FeedStore, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	var raw *gtfsio.RawFeed
	var err error

	if opt.CacheDir != "" {
		raw, err = loadWithCache(dir, opt.CacheDir)
	} else {
		raw, err = gtfsio.ParseDir(dir)
	}
	if err != nil {
		return nil, err
	}

	return build(raw)
}

func build(raw *gtfsio.RawFeed) (*FeedStore, error) {
	fs := &FeedStore{
		stops:            make(map[string]model.Stop, len(raw.Stops)),
		routes:           make(map[string]model.Route, len(raw.Routes)),
		trips:            make(map[string]model.Trip, len(raw.Trips)),
		calendars:        make(map[string]model.Calendar, len(raw.Calendars)),
		calendarDates:    make(map[string][]model.CalendarDate),
		stopTimesByTrip:  make(map[string][]model.StopTime),
		stopTimesByStop:  make(map[string][]model.StopTime),
		childrenByParent: make(map[string][]string),
		normalizedNames:  make(map[string]string, len(raw.Stops)),
		agencyTimezone:   time.UTC,
	}

	for _, a := range raw.Agencies {
		if a.Timezone != "" {
			loc, err := time.LoadLocation(a.Timezone)
			if err != nil {
				return nil, errors.Wrapf(err, "loading agency timezone %q", a.Timezone)
			}
			fs.agencyTimezone = loc
			break
		}
	}

	for _, s := range raw.Stops {
		fs.stops[s.ID] = s
		fs.normalizedNames[s.ID] = normalizeName(s.Name)
		if s.ParentID != "" {
			fs.childrenByParent[s.ParentID] = append(fs.childrenByParent[s.ParentID], s.ID)
		}
	}

	for _, r := range raw.Routes {
		fs.routes[r.ID] = r
	}

	for _, t := range raw.Trips {
		fs.trips[t.ID] = t
	}

	for _, c := range raw.Calendars {
		fs.calendars[c.ServiceID] = c
	}

	for _, cd := range raw.CalendarDates {
		fs.calendarDates[cd.ServiceID] = append(fs.calendarDates[cd.ServiceID], cd)
	}

	for _, st := range raw.StopTimes {
		fs.stopTimesByTrip[st.TripID] = append(fs.stopTimesByTrip[st.TripID], st)
		fs.stopTimesByStop[st.StopID] = append(fs.stopTimesByStop[st.StopID], st)
	}
	for tripID, sts := range fs.stopTimesByTrip {
		sort.Slice(sts, func(i, j int) bool { return sts[i].StopSequence < sts[j].StopSequence })
		fs.stopTimesByTrip[tripID] = sts
	}
	for stopID, sts := range fs.stopTimesByStop {
		sort.Slice(sts, func(i, j int) bool { return sts[i].DepartureSec < sts[j].DepartureSec })
		fs.stopTimesByStop[stopID] = sts
	}

	return fs, nil
}

// Timezone is the feed's agency timezone, or UTC if agency.txt was
// absent or carried no timezone.
func (fs *FeedStore) Timezone() *time.Location {
	return fs.agencyTimezone
}

// StopName returns the display name of a stop, or "" if unknown.
func (fs *FeedStore) StopName(stopID string) string {
	return fs.stops[stopID].Name
}

// Stop returns the stop record and whether it exists.
func (fs *FeedStore) Stop(stopID string) (model.Stop, bool) {
	s, ok := fs.stops[stopID]
	return s, ok
}

// TripRoute returns the route_id and display name for a trip_id.
func (fs *FeedStore) TripRoute(tripID string) (routeID string, shortName string, ok bool) {
	t, ok := fs.trips[tripID]
	if !ok {
		return "", "", false
	}
	r, ok := fs.routes[t.RouteID]
	if !ok {
		return t.RouteID, "", true
	}
	return t.RouteID, r.DisplayName(), true
}

// TripServiceID returns the service_id for a trip_id.
func (fs *FeedStore) TripServiceID(tripID string) (string, bool) {
	t, ok := fs.trips[tripID]
	return t.ServiceID, ok
}

// StopTimesForTrip returns a trip's stop_times sorted by
// stop_sequence ascending. The caller must not mutate the slice.
func (fs *FeedStore) StopTimesForTrip(tripID string) []model.StopTime {
	return fs.stopTimesByTrip[tripID]
}

// AllTrips calls f once per trip_id known to the feed. Order is
// unspecified; BuildConnections sorts its output so this does not
// affect determinism.
func (fs *FeedStore) AllTrips(f func(tripID string)) {
	for id := range fs.trips {
		f(id)
	}
}

// ActiveServices returns the set of service_id active on the given
// date (YYYYMMDD), per the calendar + calendar_dates rule in the
// GTFS spec: active iff within [start,end] with the weekday bit set
// and not removed that day, or explicitly added that day.
func (fs *FeedStore) ActiveServices(date string) (map[string]bool, error) {
	wd, err := weekdayOf(date)
	if err != nil {
		return nil, err
	}

	active := map[string]bool{}
	for serviceID, cal := range fs.calendars {
		if date < cal.StartDate || date > cal.EndDate {
			continue
		}
		if cal.Weekday&(1<<uint(wd)) == 0 {
			continue
		}
		active[serviceID] = true
	}

	for serviceID, exceptions := range fs.calendarDates {
		for _, ex := range exceptions {
			if ex.Date != date {
				continue
			}
			switch ex.ExceptionType {
			case model.ExceptionTypeAdded:
				active[serviceID] = true
			case model.ExceptionTypeRemoved:
				delete(active, serviceID)
			}
		}
	}

	return active, nil
}

func weekdayOf(date string) (time.Weekday, error) {
	t, err := time.ParseInLocation("20060102", date, time.UTC)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing date %q", date)
	}
	return t.Weekday(), nil
}

// ResolveStation implements spec's three-step station name matching:
// exact match wins over substring match, which wins over no match.
// Results that share a parent station are collapsed to that parent,
// and the returned set is expanded to the parent plus every platform
// whose parent_id equals it (spec.md §4.1's "station vs platform"
// expansion).
func (fs *FeedStore) ResolveStation(query string) (map[string]bool, error) {
	normQuery := normalizeName(query)
	if normQuery == "" {
		return nil, &StationNotFoundError{Query: query}
	}

	var exact, substr []string
	for stopID, normName := range fs.normalizedNames {
		if normName == normQuery {
			exact = append(exact, stopID)
		} else if strings.Contains(normName, normQuery) {
			substr = append(substr, stopID)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = substr
	}
	if len(matches) == 0 {
		return nil, &StationNotFoundError{Query: query}
	}

	return fs.expandToParentAreas(matches), nil
}

// expandToParentAreas collapses any matched platform to its parent
// station, then returns that parent plus every sibling platform, for
// every matched stop. Stops without a parent pass through unchanged.
func (fs *FeedStore) expandToParentAreas(stopIDs []string) map[string]bool {
	result := map[string]bool{}
	for _, id := range stopIDs {
		stop, ok := fs.stops[id]
		if !ok {
			continue
		}
		parentID := stop.ParentID
		if parentID == "" {
			result[id] = true
			if children, ok := fs.childrenByParent[id]; ok {
				for _, c := range children {
					result[c] = true
				}
			}
			continue
		}
		result[parentID] = true
		for _, c := range fs.childrenByParent[parentID] {
			result[c] = true
		}
	}
	return result
}

