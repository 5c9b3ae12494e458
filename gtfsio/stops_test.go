package gtfsio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidbyt-labs/pyroutech/model"
)

func TestParseStops(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		stops   []model.Stop
		err     string
	}{
		{
			"platform_and_station",
			"stop_id,stop_name,location_type,parent_station\n" +
				"ps,Station,1,\n" +
				"s,Platform,0,ps\n",
			[]model.Stop{
				{ID: "ps", Name: "Station", LocationType: model.LocationTypeStation},
				{ID: "s", Name: "Platform", LocationType: model.LocationTypePlatform, ParentID: "ps"},
			},
			"",
		},
		{
			"missing_stop_name",
			"stop_id,stop_name,location_type,parent_station\n" +
				"s,,0,\n",
			nil,
			"empty stop_name",
		},
		{
			"repeated_stop_id",
			"stop_id,stop_name,location_type,parent_station\n" +
				"s,A,0,\ns,B,0,\n",
			nil,
			"repeated stop_id",
		},
		{
			"station_with_parent",
			"stop_id,stop_name,location_type,parent_station\n" +
				"ps,Station,1,other\n" +
				"other,Other,1,\n",
			nil,
			"has a parent_station",
		},
		{
			"unknown_parent",
			"stop_id,stop_name,location_type,parent_station\n" +
				"s,A,0,missing\n",
			nil,
			"unknown parent_station",
		},
		{
			"bad_location_type",
			"stop_id,stop_name,location_type,parent_station\n" +
				"s,A,9,\n",
			nil,
			"invalid location_type",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "stops.txt", tc.content)

			stops, _, err := parseStops(path)
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.stops, stops)
		})
	}
}
