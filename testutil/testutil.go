// Package testutil builds throwaway GTFS feed directories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tidbyt-labs/pyroutech/store"
)

// BuildFeedDir writes files (keyed by GTFS filename, valued by CSV
// lines including the header) into a fresh temp directory, filling in
// defaults for any mandatory file the caller omitted, and returns the
// directory path.
func BuildFeedDir(t testing.TB, files map[string][]string) string {
	if files["agency.txt"] == nil {
		files["agency.txt"] = []string{"agency_id,agency_name,agency_timezone", "agency,Test Agency,UTC"}
	}
	if files["calendar.txt"] == nil && files["calendar_dates.txt"] == nil {
		files["calendar.txt"] = []string{"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date"}
	}
	if files["routes.txt"] == nil {
		files["routes.txt"] = []string{"route_id,route_short_name,route_long_name"}
	}
	if files["trips.txt"] == nil {
		files["trips.txt"] = []string{"trip_id,route_id,service_id"}
	}
	if files["stops.txt"] == nil {
		files["stops.txt"] = []string{"stop_id,stop_name,location_type,parent_station"}
	}
	if files["stop_times.txt"] == nil {
		files["stop_times.txt"] = []string{"trip_id,stop_id,stop_sequence,arrival_time,departure_time"}
	}

	dir := t.TempDir()
	for name, lines := range files {
		path := filepath.Join(dir, name)
		content := strings.Join(lines, "\n") + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return dir
}

// BuildStore is BuildFeedDir followed by store.Load.
func BuildStore(t testing.TB, files map[string][]string) *store.FeedStore {
	dir := BuildFeedDir(t, files)
	fs, err := store.Load(dir)
	require.NoError(t, err)
	return fs
}
