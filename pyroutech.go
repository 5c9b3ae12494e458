// Package pyroutech computes the K earliest-arrival public transit
// journeys between two named stations, on a given service date and
// earliest departure time, from a static GTFS feed already loaded
// into a *store.FeedStore.
package pyroutech

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidbyt-labs/pyroutech/plan"
	"github.com/tidbyt-labs/pyroutech/store"
)

// Journey and RouteSegment are re-exported from plan so callers never
// need to import it directly.
type Journey = plan.Journey
type RouteSegment = plan.RouteSegment

const defaultMaxRoutes = 5

// Option configures a single FindRoute call.
type Option func(*queryConfig)

type queryConfig struct {
	maxRoutes      int
	minTransferSec int32
	ctx            context.Context
}

// WithMaxRoutes overrides the default of 5 returned journeys.
func WithMaxRoutes(n int) Option {
	return func(c *queryConfig) { c.maxRoutes = n }
}

// WithMinTransferSec sets the minimum dwell time required to switch
// trips at the same stop (MTT). Defaults to 0.
func WithMinTransferSec(sec int32) Option {
	return func(c *queryConfig) { c.minTransferSec = sec }
}

// WithContext threads a cancellable context through to the planner's
// cooperative cancellation check.
func WithContext(ctx context.Context) Option {
	return func(c *queryConfig) { c.ctx = ctx }
}

// FindRoute resolves startName and endName against fs, computes the
// active services for date, and returns up to maxRoutes journeys
// (default 5) departing no earlier than timeOfDay, sorted by arrival
// time ascending. date accepts "YYYY-MM-DD" or "YYYYMMDD"; timeOfDay
// accepts "HH:MM". An empty result is not an error — it means no
// journey was found.
func FindRoute(fs *store.FeedStore, startName, endName, date, timeOfDay string, opts ...Option) ([]Journey, error) {
	cfg := queryConfig{
		maxRoutes: defaultMaxRoutes,
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dateKey, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	earliestSec, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, err
	}

	originSet, err := resolveUnambiguous(fs, startName)
	if err != nil {
		return nil, err
	}
	destSet, err := resolveUnambiguous(fs, endName)
	if err != nil {
		return nil, err
	}

	activeServices, err := fs.ActiveServices(dateKey)
	if err != nil {
		return nil, err
	}

	tripIDs := []string{}
	fs.AllTrips(func(id string) { tripIDs = append(tripIDs, id) })

	conns := plan.BuildConnections(
		tripIDs,
		func(tripID string) string {
			serviceID, _ := fs.TripServiceID(tripID)
			return serviceID
		},
		func(tripID string) []plan.StopTimeRow {
			sts := fs.StopTimesForTrip(tripID)
			rows := make([]plan.StopTimeRow, len(sts))
			for i, st := range sts {
				rows[i] = plan.StopTimeRow{StopID: st.StopID, ArrivalSec: st.ArrivalSec, DepartureSec: st.DepartureSec}
			}
			return rows
		},
		func(tripID string) string {
			routeID, _, _ := fs.TripRoute(tripID)
			return routeID
		},
		activeServices,
		earliestSec,
	)

	labels, err := plan.Plan(cfg.ctx, conns, originSet, destSet, earliestSec, plan.Options{
		K:              cfg.maxRoutes,
		MinTransferSec: cfg.minTransferSec,
	})
	if err != nil {
		return nil, err
	}

	journeys := plan.BuildJourneys(labels, fs.StopName, func(tripID string) (string, string) {
		routeID, shortName, _ := fs.TripRoute(tripID)
		return routeID, shortName
	})

	return journeys, nil
}

// resolveUnambiguous resolves name to its expanded stop set and
// rejects it if the matches span more than one distinct boarding
// area (parent station, or an unparented stop standing alone).
// Platforms sharing a single parent are never ambiguous.
func resolveUnambiguous(fs *store.FeedStore, name string) (map[string]bool, error) {
	stopIDs, err := fs.ResolveStation(name)
	if err != nil {
		return nil, &ErrStationNotFound{Name: name}
	}

	areas := map[string]bool{}
	for id := range stopIDs {
		stop, ok := fs.Stop(id)
		if !ok {
			continue
		}
		area := id
		if stop.ParentID != "" {
			area = stop.ParentID
		}
		areas[area] = true
	}

	if len(areas) > 1 {
		candidates := make([]string, 0, len(areas))
		for area := range areas {
			candidates = append(candidates, fs.StopName(area))
		}
		sort.Strings(candidates)
		return nil, &ErrAmbiguousStation{Name: name, Candidates: candidates}
	}

	return stopIDs, nil
}

// ParseDate accepts "YYYY-MM-DD" or "YYYYMMDD" and returns the date
// key (YYYYMMDD) store.FeedStore.ActiveServices expects.
func ParseDate(date string) (string, error) {
	compact := strings.ReplaceAll(date, "-", "")
	if len(compact) != 8 {
		return "", &ErrBadDate{Input: date}
	}
	if _, err := time.ParseInLocation("20060102", compact, time.UTC); err != nil {
		return "", &ErrBadDate{Input: date}
	}
	return compact, nil
}

// ParseTimeOfDay accepts "HH:MM" (HH may be >= 24 for post-midnight
// departures) and returns seconds since midnight.
func ParseTimeOfDay(t string) (int32, error) {
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, &ErrBadTime{Input: t}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, &ErrBadTime{Input: t}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, &ErrBadTime{Input: t}
	}
	return int32(h*3600 + m*60), nil
}
