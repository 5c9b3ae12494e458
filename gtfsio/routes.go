package gtfsio

import (
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/model"
)

type routeCSV struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
}

// parseRoutes returns the parsed routes and the set of known route
// IDs, used by parseTrips to validate route_id references.
func parseRoutes(path string) ([]model.Route, map[string]bool, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	file := filepath.Base(path)

	rows := []*routeCSV{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, nil, &BadFormatError{File: file, Line: 1, Cause: errors.Wrap(err, "unmarshaling routes.txt")}
	}

	routeIDs := map[string]bool{}
	routes := make([]model.Route, 0, len(rows))

	for i, r := range rows {
		line := i + 2

		if r.ID == "" {
			return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.New("empty route_id")}
		}
		if routeIDs[r.ID] {
			return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("repeated route_id '%s'", r.ID)}
		}
		routeIDs[r.ID] = true

		if r.ShortName == "" && r.LongName == "" {
			return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("route_id '%s' has neither short nor long name", r.ID)}
		}

		routes = append(routes, model.Route{
			ID:        r.ID,
			ShortName: r.ShortName,
			LongName:  r.LongName,
		})
	}

	return routes, routeIDs, nil
}
