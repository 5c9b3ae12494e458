package plan

import "sort"

// BuildConnections walks every trip whose service_id is in
// activeServices, turning each adjacent pair of stop_times rows into
// one Connection. Connections departing before earliestSec are
// dropped up front. The result is sorted by (dep_sec, arr_sec,
// trip_id) ascending, which is both the order the Planner's scan
// requires and the tie-break spec.md §4.2 specifies for determinism.
//
// stopTimesForTrip must return each trip's rows already sorted by
// stop_sequence ascending (store.FeedStore.StopTimesForTrip
// guarantees this). tripRouteID resolves a trip_id to its route_id.
func BuildConnections(
	trips []string,
	tripServiceID func(tripID string) string,
	stopTimesForTrip func(tripID string) []StopTimeRow,
	tripRouteID func(tripID string) string,
	activeServices map[string]bool,
	earliestSec int32,
) []Connection {
	conns := []Connection{}

	for _, tripID := range trips {
		if !activeServices[tripServiceID(tripID)] {
			continue
		}

		rows := stopTimesForTrip(tripID)
		if len(rows) < 2 {
			continue
		}

		routeID := tripRouteID(tripID)

		for i := 0; i+1 < len(rows); i++ {
			dep := rows[i].DepartureSec
			if dep < earliestSec {
				continue
			}
			conns = append(conns, Connection{
				TripID:   tripID,
				RouteID:  routeID,
				FromStop: rows[i].StopID,
				ToStop:   rows[i+1].StopID,
				DepSec:   dep,
				ArrSec:   rows[i+1].ArrivalSec,
			})
		}
	}

	sort.Slice(conns, func(i, j int) bool {
		a, b := conns[i], conns[j]
		if a.DepSec != b.DepSec {
			return a.DepSec < b.DepSec
		}
		if a.ArrSec != b.ArrSec {
			return a.ArrSec < b.ArrSec
		}
		return a.TripID < b.TripID
	})

	return conns
}

// StopTimeRow is the subset of model.StopTime the Connection Builder
// needs; kept local to plan so this package does not depend on
// store's internal layout beyond a narrow function signature.
type StopTimeRow struct {
	StopID       string
	ArrivalSec   int32
	DepartureSec int32
}
