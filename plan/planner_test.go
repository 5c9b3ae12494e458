package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDirectTrip(t *testing.T) {
	conns := []Connection{
		{TripID: "t1", FromStop: "a", ToStop: "b", DepSec: 100, ArrSec: 200},
	}

	labels, err := Plan(context.Background(), conns, map[string]bool{"a": true}, map[string]bool{"b": true}, 0, Options{K: 5})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, int32(200), labels[0].arena[labels[0].ref].arrSec)
}

func TestPlanMissFirstCatchSecond(t *testing.T) {
	conns := []Connection{
		{TripID: "early", FromStop: "a", ToStop: "b", DepSec: 50, ArrSec: 150},
		{TripID: "late", FromStop: "a", ToStop: "b", DepSec: 200, ArrSec: 300},
	}

	// Earliest departure is after the early trip already left.
	labels, err := Plan(context.Background(), conns, map[string]bool{"a": true}, map[string]bool{"b": true}, 100, Options{K: 5})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "late", labels[0].arena[labels[0].ref].viaTrip)
}

func TestPlanTransferRequiresMinTransferTime(t *testing.T) {
	conns := []Connection{
		{TripID: "t1", FromStop: "a", ToStop: "b", DepSec: 0, ArrSec: 100},
		{TripID: "t2", FromStop: "b", ToStop: "c", DepSec: 150, ArrSec: 200},
	}

	// MTT of 100 makes the 50s gap at b infeasible.
	labels, err := Plan(context.Background(), conns, map[string]bool{"a": true}, map[string]bool{"c": true}, 0, Options{K: 5, MinTransferSec: 100})
	require.NoError(t, err)
	assert.Empty(t, labels)

	// MTT of 50 makes it exactly feasible.
	labels, err = Plan(context.Background(), conns, map[string]bool{"a": true}, map[string]bool{"c": true}, 0, Options{K: 5, MinTransferSec: 50})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, int32(200), labels[0].arena[labels[0].ref].arrSec)
}

func TestPlanSameTripContinuationIgnoresMinTransferTime(t *testing.T) {
	conns := []Connection{
		{TripID: "t1", FromStop: "a", ToStop: "b", DepSec: 0, ArrSec: 100},
		{TripID: "t1", FromStop: "b", ToStop: "c", DepSec: 100, ArrSec: 150},
	}

	labels, err := Plan(context.Background(), conns, map[string]bool{"a": true}, map[string]bool{"c": true}, 0, Options{K: 5, MinTransferSec: 9999})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, int32(150), labels[0].arena[labels[0].ref].arrSec)
}

// TestPlanDoesNotPruneBeforeKResultsKnown guards against a regression
// where the search would stop scanning once any destination arrival
// was seen, instead of waiting for K of them.
func TestPlanDoesNotPruneBeforeKResultsKnown(t *testing.T) {
	conns := []Connection{
		{TripID: "t1", FromStop: "a", ToStop: "b", DepSec: 10, ArrSec: 20},
		{TripID: "t2", FromStop: "a", ToStop: "b", DepSec: 100, ArrSec: 110},
		{TripID: "t3", FromStop: "a", ToStop: "b", DepSec: 200, ArrSec: 210},
	}

	labels, err := Plan(context.Background(), conns, map[string]bool{"a": true}, map[string]bool{"b": true}, 0, Options{K: 3})
	require.NoError(t, err)
	require.Len(t, labels, 3)
	assert.Equal(t, int32(20), labels[0].arena[labels[0].ref].arrSec)
	assert.Equal(t, int32(110), labels[1].arena[labels[1].ref].arrSec)
	assert.Equal(t, int32(210), labels[2].arena[labels[2].ref].arrSec)
}

func TestPlanCancellation(t *testing.T) {
	conns := []Connection{{TripID: "t", FromStop: "a", ToStop: "b", DepSec: 0, ArrSec: 0}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The cancellation check runs before the first connection (i=0),
	// so this is cancelled before it can produce a result.
	_, err := Plan(ctx, conns, map[string]bool{"a": true}, map[string]bool{"b": true}, 0, Options{})
	assert.ErrorIs(t, err, ErrCancelled)
}
