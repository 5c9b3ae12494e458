package gtfsio

import (
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/model"
)

type tripCSV struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
}

func parseTrips(path string, routeIDs, serviceIDs map[string]bool) ([]model.Trip, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file := filepath.Base(path)

	rows := []*tripCSV{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, &BadFormatError{File: file, Line: 1, Cause: errors.Wrap(err, "unmarshaling trips.txt")}
	}

	tripIDs := map[string]bool{}
	trips := make([]model.Trip, 0, len(rows))

	for i, t := range rows {
		line := i + 2

		if t.ID == "" {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.New("empty trip_id")}
		}
		if tripIDs[t.ID] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("repeated trip_id '%s'", t.ID)}
		}
		tripIDs[t.ID] = true

		if !routeIDs[t.RouteID] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("trip '%s' references unknown route_id '%s'", t.ID, t.RouteID)}
		}
		if !serviceIDs[t.ServiceID] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("trip '%s' references unknown service_id '%s'", t.ID, t.ServiceID)}
		}

		trips = append(trips, model.Trip{
			ID:        t.ID,
			RouteID:   t.RouteID,
			ServiceID: t.ServiceID,
		})
	}

	return trips, nil
}
