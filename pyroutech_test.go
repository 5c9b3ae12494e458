package pyroutech_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidbyt-labs/pyroutech"
	"github.com/tidbyt-labs/pyroutech/testutil"
)

func baseFiles() map[string][]string {
	return map[string][]string{
		"stops.txt": {
			"stop_id,stop_name,location_type,parent_station",
			"a,A,0,",
			"b,B,0,",
			"c,C,0,",
		},
		"routes.txt": {
			"route_id,route_short_name,route_long_name",
			"r1,1,",
			"r2,2,",
		},
		"calendar.txt": {
			"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
			"weekday,1,1,1,1,1,1,1,20251201,20251231",
		},
	}
}

func TestDirectSingleTrip(t *testing.T) {
	files := baseFiles()
	files["trips.txt"] = []string{"trip_id,route_id,service_id", "t1,r1,weekday"}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,a,1,08:00:00,08:00:00",
		"t1,b,2,09:30:00,09:30:00",
	}
	fs := testutil.BuildStore(t, files)

	journeys, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "08:00", pyroutech.WithMaxRoutes(1))
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Segments, 1)

	seg := journeys[0].Segments[0]
	assert.Equal(t, int32(28800), seg.BoardSec)
	assert.Equal(t, int32(34200), seg.AlightSec)
	assert.Equal(t, int32(5400), seg.AlightSec-seg.BoardSec)
}

func TestMissFirstCatchSecond(t *testing.T) {
	files := baseFiles()
	files["trips.txt"] = []string{
		"trip_id,route_id,service_id",
		"t1,r1,weekday",
		"t2,r2,weekday",
	}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,a,1,08:00:00,08:00:00",
		"t1,b,2,09:30:00,09:30:00",
		"t2,a,1,08:10:00,08:10:00",
		"t2,b,2,09:20:00,09:20:00",
	}
	fs := testutil.BuildStore(t, files)

	journeys, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "08:05", pyroutech.WithMaxRoutes(2))
	require.NoError(t, err)
	// t1 leaves at 08:00, before the 08:05 query time, so only t2 can
	// be caught.
	require.Len(t, journeys, 1)

	assert.Equal(t, int32(33600), journeys[0].ArrivalSec())
	assert.Equal(t, "t2", journeys[0].Segments[0].TripID)
}

func TestTransferRequired(t *testing.T) {
	files := baseFiles()
	files["trips.txt"] = []string{
		"trip_id,route_id,service_id",
		"t1,r1,weekday",
		"t2,r2,weekday",
	}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,a,1,08:00:00,08:00:00",
		"t1,c,2,08:40:00,08:40:00",
		"t2,c,1,08:45:00,08:45:00",
		"t2,b,2,09:30:00,09:30:00",
	}
	fs := testutil.BuildStore(t, files)

	journeys, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "08:00", pyroutech.WithMaxRoutes(1))
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Segments, 2)
	assert.Equal(t, int32(300), journeys[0].Segments[1].WaitBeforeSec)
}

func TestTransferInfeasibleUnderMinTransferTime(t *testing.T) {
	files := baseFiles()
	files["trips.txt"] = []string{
		"trip_id,route_id,service_id",
		"t1,r1,weekday",
		"t2,r2,weekday",
	}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,a,1,08:00:00,08:00:00",
		"t1,c,2,08:40:00,08:40:00",
		"t2,c,1,08:45:00,08:45:00",
		"t2,b,2,09:30:00,09:30:00",
	}
	fs := testutil.BuildStore(t, files)

	journeys, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "08:00", pyroutech.WithMaxRoutes(1), pyroutech.WithMinTransferSec(600))
	require.NoError(t, err)
	assert.Empty(t, journeys)
}

func TestPostMidnightService(t *testing.T) {
	files := baseFiles()
	files["trips.txt"] = []string{"trip_id,route_id,service_id", "t3,r1,weekday"}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t3,a,1,25:10:00,25:10:00",
		"t3,b,2,26:00:00,26:00:00",
	}
	fs := testutil.BuildStore(t, files)

	journeys, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "24:00", pyroutech.WithMaxRoutes(1))
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	seg := journeys[0].Segments[0]
	assert.Equal(t, int32(90600), seg.BoardSec)
	assert.Equal(t, int32(93600), seg.AlightSec)
}

func TestStationExpansion(t *testing.T) {
	files := baseFiles()
	files["stops.txt"] = []string{
		"stop_id,stop_name,location_type,parent_station",
		"s,S,1,",
		"p1,S Platform 1,0,s",
		"p2,S Platform 2,0,s",
		"b,B,0,",
	}
	files["trips.txt"] = []string{"trip_id,route_id,service_id", "t1,r1,weekday"}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,p1,1,08:00:00,08:00:00",
		"t1,b,2,08:30:00,08:30:00",
	}
	fs := testutil.BuildStore(t, files)

	journeys, err := pyroutech.FindRoute(fs, "S", "B", "2025-12-15", "08:00", pyroutech.WithMaxRoutes(1))
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.Contains(t, []string{"p1", "p2"}, journeys[0].Segments[0].BoardStopID)
}

func TestServiceException(t *testing.T) {
	files := baseFiles()
	// Service X is not active on a Monday by its weekday mask alone.
	files["calendar.txt"] = []string{
		"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
		"x,0,0,0,0,0,0,0,20251201,20251231",
	}
	files["calendar_dates.txt"] = []string{
		"service_id,date,exception_type",
		"x,20251215,1",
	}
	files["trips.txt"] = []string{"trip_id,route_id,service_id", "t1,r1,x"}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,a,1,08:00:00,08:00:00",
		"t1,b,2,08:30:00,08:30:00",
	}
	fs := testutil.BuildStore(t, files)

	journeys, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "00:00", pyroutech.WithMaxRoutes(1))
	require.NoError(t, err)
	require.Len(t, journeys, 1, "trip added via calendar_dates exception must be usable")

	// Removing it via exception_type=2 must suppress it again.
	files["calendar_dates.txt"] = []string{
		"service_id,date,exception_type",
		"x,20251215,2",
	}
	files["calendar.txt"] = []string{
		"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
		"x,1,1,1,1,1,1,1,20251201,20251231",
	}
	fs = testutil.BuildStore(t, files)

	journeys, err = pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "00:00", pyroutech.WithMaxRoutes(1))
	require.NoError(t, err)
	assert.Empty(t, journeys, "trip removed via calendar_dates exception must be skipped")
}

func TestFindRouteRejectsBadDateAndTime(t *testing.T) {
	files := baseFiles()
	files["trips.txt"] = []string{"trip_id,route_id,service_id", "t1,r1,weekday"}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,a,1,08:00:00,08:00:00",
		"t1,b,2,08:30:00,08:30:00",
	}
	fs := testutil.BuildStore(t, files)

	_, err := pyroutech.FindRoute(fs, "A", "B", "not-a-date", "08:00")
	var badDate *pyroutech.ErrBadDate
	require.ErrorAs(t, err, &badDate)

	_, err = pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "not-a-time")
	var badTime *pyroutech.ErrBadTime
	require.ErrorAs(t, err, &badTime)

	_, err = pyroutech.FindRoute(fs, "nowhere", "B", "2025-12-15", "08:00")
	var notFound *pyroutech.ErrStationNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestFindRouteIsIdempotent(t *testing.T) {
	files := baseFiles()
	files["trips.txt"] = []string{"trip_id,route_id,service_id", "t1,r1,weekday"}
	files["stop_times.txt"] = []string{
		"trip_id,stop_id,stop_sequence,arrival_time,departure_time",
		"t1,a,1,08:00:00,08:00:00",
		"t1,b,2,08:30:00,08:30:00",
	}
	fs := testutil.BuildStore(t, files)

	first, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "08:00")
	require.NoError(t, err)
	second, err := pyroutech.FindRoute(fs, "A", "B", "2025-12-15", "08:00")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
