package plan

import (
	"context"
	"math"
	"sort"
)

// maxLabelsPerStop (B in spec.md §4.3) bounds how many Pareto-ish best
// labels are kept per stop. Four is enough headroom for the
// differently-arriving, differently-boarded alternatives a K<=5
// journey search ever needs to compare.
const maxLabelsPerStop = 4

// cancelCheckInterval is how many connections the scan processes
// between checks of the cancellation signal, per spec.md §5.
const cancelCheckInterval = 1 << 16

// Options configures a single Plan call.
type Options struct {
	// K is the number of destination arrivals to return. Defaults
	// to 5 if <= 0, mirroring find_route's default.
	K int

	// MinTransferSec is the minimum dwell time required to switch
	// from one trip to a different one at the same stop (MTT in
	// spec.md §4.3). Continuing the same trip never pays this.
	// Boarding directly from an Origin label never pays this
	// either. Defaults to 0.
	MinTransferSec int32
}

// Plan runs the pruned label-setting connection scan over conns (which
// must already be sorted by (dep_sec, arr_sec, trip_id), as
// BuildConnections guarantees) and returns up to opts.K labels at
// stops in destStops, sorted by arrival time ascending.
//
// originStops seeds a synthetic Origin label at earliestSec for every
// stop in the set. ctx is checked cooperatively every
// cancelCheckInterval connections scanned; on cancellation Plan
// returns ErrCancelled.
func Plan(ctx context.Context, conns []Connection, originStops, destStops map[string]bool, earliestSec int32, opts Options) ([]Label, error) {
	k := opts.K
	if k <= 0 {
		k = 5
	}

	p := &planner{
		minTransfer: opts.MinTransferSec,
		k:           k,
		byStop:      make(map[string][]labelRef),
		arena:       make([]label, 0, len(conns)),
		destStops:   destStops,
	}

	for stopID := range originStops {
		p.insert(stopID, label{
			stop:        stopID,
			arrSec:      earliestSec,
			viaTrip:     "",
			predecessor: originRef,
			depFromPred: earliestSec,
			hops:        0,
		})
	}

	kthBest := int32(math.MaxInt32)

	for i, c := range conns {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ErrCancelled
			default:
			}
		}

		if c.DepSec > kthBest {
			// Every remaining connection departs after the
			// worst of our K best destination arrivals; since
			// conns is sorted by dep_sec, nothing after this
			// point can improve on what's already found.
			break
		}

		boardRef, ok := p.bestBoardable(c.FromStop, c.DepSec, c.TripID)
		if !ok {
			continue
		}
		boardLabel := p.arena[boardRef]

		candidate := label{
			stop:        c.ToStop,
			arrSec:      c.ArrSec,
			viaTrip:     c.TripID,
			predecessor: boardRef,
			depFromPred: c.DepSec,
			hops:        boardLabel.hops + 1,
		}
		p.insert(c.ToStop, candidate)

		if destStops[c.ToStop] {
			if best := p.kthBestDestArrival(k); best < kthBest {
				kthBest = best
			}
		}
	}

	return p.destinationLabels(k), nil
}

type planner struct {
	minTransfer int32
	k           int
	byStop      map[string][]labelRef
	arena       []label
	destStops   map[string]bool
}

// bestBoardable finds the best label at stop with arr_sec <= depSec
// that can legally board tripID at depSec: either it is an Origin
// label, it already rode tripID (free continuation), or at least
// minTransfer seconds separate its arrival from depSec.
func (p *planner) bestBoardable(stop string, depSec int32, tripID string) (labelRef, bool) {
	refs := p.byStop[stop]
	var best labelRef = -1
	for _, ref := range refs {
		l := p.arena[ref]
		if l.arrSec > depSec {
			continue
		}
		sameTrip := l.viaTrip == tripID
		if !l.isOrigin() && !sameTrip && depSec-l.arrSec < p.minTransfer {
			continue
		}
		if best == -1 || p.betterBoard(l, p.arena[best]) {
			best = ref
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// betterBoard prefers the later arrival (minimizes dead time before
// boarding), matching the Open Question resolution in spec.md §9:
// "keep labels with strictly earlier arr_sec" for dominance among
// kept labels, but when choosing which boardable label to use, a
// later (closer to depSec) arrival is always at least as good and
// never blocks a later, better-arriving label from being preferred.
func (p *planner) betterBoard(a, b label) bool {
	return a.arrSec > b.arrSec
}

// insert adds candidate to stop's label set under the B-bounded
// dominance rule: a candidate is dropped if a kept label with the same
// via_trip and predecessor arrives no later; labels on different trips
// or via different predecessors are kept side by side. Among labels
// with the same arr_sec,
// spec.md §9 breaks ties toward a later departure from predecessor
// (shorter ride). The set is capped at maxLabelsPerStop, keeping the
// maxLabelsPerStop-best by arr_sec ascending.
func (p *planner) insert(stop string, candidate label) {
	refs := p.byStop[stop]

	for _, ref := range refs {
		existing := p.arena[ref]
		if existing.viaTrip == candidate.viaTrip && existing.predecessor == candidate.predecessor && existing.arrSec <= candidate.arrSec {
			// Dominated: same trip and predecessor, no
			// earlier arrival.
			return
		}
	}

	newRef := labelRef(len(p.arena))
	p.arena = append(p.arena, candidate)
	refs = append(refs, newRef)

	sort.Slice(refs, func(i, j int) bool {
		return p.labelLess(p.arena[refs[i]], p.arena[refs[j]])
	})

	if len(refs) > maxLabelsPerStop {
		refs = refs[:maxLabelsPerStop]
	}

	p.byStop[stop] = refs
}

// labelLess orders labels at a stop: earlier arrival first; ties
// broken by later departure from predecessor (shorter ride), then
// fewer hops, then lexicographically smaller trip_id, per spec.md
// §4.3's tie-break rules.
func (p *planner) labelLess(a, b label) bool {
	if a.arrSec != b.arrSec {
		return a.arrSec < b.arrSec
	}
	if a.depFromPred != b.depFromPred {
		return a.depFromPred > b.depFromPred
	}
	if a.hops != b.hops {
		return a.hops < b.hops
	}
	return a.viaTrip < b.viaTrip
}

// kthBestDestArrival returns the k-th best arrival time currently
// known across all destination stops — the A* pruning bound from
// spec.md §4.3 — or math.MaxInt32 (no pruning) if fewer than k exist.
func (p *planner) kthBestDestArrival(k int) int32 {
	arrivals := []int32{}
	for stop := range p.destStops {
		for _, ref := range p.byStop[stop] {
			arrivals = append(arrivals, p.arena[ref].arrSec)
		}
	}
	if len(arrivals) < k {
		// Fewer than K candidate arrivals known so far: no valid
		// pruning bound yet, since a later connection could still
		// contribute one of the first K results.
		return math.MaxInt32
	}
	sort.Slice(arrivals, func(i, j int) bool { return arrivals[i] < arrivals[j] })
	return arrivals[k-1]
}

// Label pairs a destination label with its owning planner so
// BuildJourneys can walk its predecessor chain after Plan returns.
type Label struct {
	arena []label
	ref   labelRef
}

func (p *planner) destinationLabels(k int) []Label {
	type scored struct {
		ref labelRef
		lbl label
	}

	all := []scored{}
	for stop := range p.destStops {
		for _, ref := range p.byStop[stop] {
			all = append(all, scored{ref: ref, lbl: p.arena[ref]})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return p.labelLess(all[i].lbl, all[j].lbl)
	})

	if len(all) > k {
		all = all[:k]
	}

	out := make([]Label, 0, len(all))
	for _, s := range all {
		out = append(out, Label{arena: p.arena, ref: s.ref})
	}
	return out
}
