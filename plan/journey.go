package plan

import (
	"strconv"
	"strings"
)

type edge struct {
	tripID     string
	boardStop  string
	boardSec   int32
	alightStop string
	alightSec  int32
}

// BuildJourneys walks each label's predecessor chain back to its
// Origin, reverses it into boarding order, coalesces consecutive
// same-trip edges into a single RouteSegment, fills in display names
// via stopName/tripRoute, and drops duplicate journeys per spec.md
// §4.4's dedup key. labels is assumed already ordered best-first (as
// Plan returns it); that order is preserved in the output, minus
// dropped duplicates.
func BuildJourneys(labels []Label, stopName func(stopID string) string, tripRoute func(tripID string) (routeID, shortName string)) []Journey {
	journeys := make([]Journey, 0, len(labels))
	seen := map[string]bool{}

	for _, jl := range labels {
		edges := walkEdges(jl.arena, jl.ref)
		if len(edges) == 0 {
			continue
		}

		segments := coalesce(edges, stopName, tripRoute)

		key := dedupKey(segments)
		if seen[key] {
			continue
		}
		seen[key] = true

		journeys = append(journeys, Journey{Segments: segments})
	}

	return journeys
}

// walkEdges follows predecessor pointers from ref back to the Origin
// label, returning the edges in boarding (chronological) order.
func walkEdges(arena []label, ref labelRef) []edge {
	edges := []edge{}
	cur := ref
	for {
		l := arena[cur]
		if l.isOrigin() {
			break
		}
		pred := arena[l.predecessor]
		edges = append(edges, edge{
			tripID:     l.viaTrip,
			boardStop:  pred.stop,
			boardSec:   l.depFromPred,
			alightStop: l.stop,
			alightSec:  l.arrSec,
		})
		cur = l.predecessor
	}

	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return edges
}

// coalesce merges consecutive edges of the same trip (a continuing
// ride, never a transfer) into one RouteSegment spanning the earliest
// boarding and latest alighting of the run.
func coalesce(edges []edge, stopName func(string) string, tripRoute func(string) (string, string)) []RouteSegment {
	segments := make([]RouteSegment, 0, len(edges))

	i := 0
	for i < len(edges) {
		start := i
		for i+1 < len(edges) && edges[i+1].tripID == edges[start].tripID && edges[i+1].boardStop == edges[i].alightStop {
			i++
		}

		_, shortName := tripRoute(edges[start].tripID)

		seg := RouteSegment{
			TripID:         edges[start].tripID,
			RouteShortName: shortName,
			BoardStopID:    edges[start].boardStop,
			BoardStopName:  stopName(edges[start].boardStop),
			AlightStopID:   edges[i].alightStop,
			AlightStopName: stopName(edges[i].alightStop),
			BoardSec:       edges[start].boardSec,
			AlightSec:      edges[i].alightSec,
		}
		if len(segments) > 0 {
			seg.WaitBeforeSec = seg.BoardSec - segments[len(segments)-1].AlightSec
		}
		segments = append(segments, seg)

		i++
	}

	return segments
}

// dedupKey is spec.md §4.4's duplicate key: ordered trip_id list,
// board stops, alight stops, and the first segment's board_sec.
func dedupKey(segments []RouteSegment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.TripID)
		b.WriteByte('|')
		b.WriteString(s.BoardStopID)
		b.WriteByte('|')
		b.WriteString(s.AlightStopID)
		b.WriteByte(';')
	}
	if len(segments) > 0 {
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(int(segments[0].BoardSec)))
	}
	return b.String()
}
