package gtfsio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHMS(t *testing.T) {
	sec, err := parseHMS("08:05:00")
	require.NoError(t, err)
	assert.Equal(t, int32(8*3600+5*60), sec)

	// Post-midnight service is preserved, not wrapped.
	sec, err = parseHMS("25:10:00")
	require.NoError(t, err)
	assert.Equal(t, int32(25*3600+10*60), sec)

	_, err = parseHMS("08:70:00")
	assert.Error(t, err)

	_, err = parseHMS("08:05")
	assert.Error(t, err)
}

func TestParseStopTimes(t *testing.T) {
	stopIDs := map[string]bool{"a": true, "b": true, "c": true}
	tripIDs := map[string]bool{"t1": true}

	for _, tc := range []struct {
		name    string
		content string
		err     string
	}{
		{
			"well_formed",
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
				"t1,a,1,08:00:00,08:00:00\n" +
				"t1,b,2,08:10:00,08:11:00\n" +
				"t1,c,3,08:20:00,08:20:00\n",
			"",
		},
		{
			"unknown_trip",
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
				"missing,a,1,08:00:00,08:00:00\n",
			"unknown trip_id",
		},
		{
			"unknown_stop",
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
				"t1,missing,1,08:00:00,08:00:00\n",
			"unknown stop_id",
		},
		{
			"non_increasing_sequence",
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
				"t1,a,2,08:00:00,08:00:00\n" +
				"t1,b,1,08:10:00,08:10:00\n",
			"must strictly increase",
		},
		{
			"decreasing_departure",
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
				"t1,a,1,08:10:00,08:10:00\n" +
				"t1,b,2,08:00:00,08:00:00\n",
			"must not decrease",
		},
		{
			"departure_before_arrival",
			"trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
				"t1,a,1,08:10:00,08:00:00\n",
			"departure_time before arrival_time",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "stop_times.txt", tc.content)

			sts, err := parseStopTimes(path, stopIDs, tripIDs)
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, sts, 3)
		})
	}
}
