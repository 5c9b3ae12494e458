package gtfsio

import (
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/model"
)

type stopCSV struct {
	ID            string `csv:"stop_id"`
	Name          string `csv:"stop_name"`
	ParentStation string `csv:"parent_station"`
	LocationType  string `csv:"location_type"`
}

// parseStops returns the parsed stops and the set of known stop IDs,
// used by parseStopTimes to validate stop_id references.
func parseStops(path string) ([]model.Stop, map[string]bool, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	file := filepath.Base(path)

	rows := []*stopCSV{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, nil, &BadFormatError{File: file, Line: 1, Cause: errors.Wrap(err, "unmarshaling stops.txt")}
	}

	type parentRef struct {
		stopID, parentID string
		line             int
	}

	stopIDs := map[string]bool{}
	parentRefs := []parentRef{}
	stops := make([]model.Stop, 0, len(rows))

	for i, s := range rows {
		line := i + 2

		if s.ID == "" {
			return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.New("empty stop_id")}
		}
		if stopIDs[s.ID] {
			return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("repeated stop_id '%s'", s.ID)}
		}
		stopIDs[s.ID] = true

		locationType := model.LocationTypePlatform
		if s.LocationType != "" {
			switch s.LocationType {
			case "0":
				locationType = model.LocationTypePlatform
			case "1":
				locationType = model.LocationTypeStation
			case "2":
				locationType = model.LocationTypeEntranceExit
			case "3":
				locationType = model.LocationTypeGenericNode
			case "4":
				locationType = model.LocationTypeBoardingArea
			default:
				return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("invalid location_type '%s'", s.LocationType)}
			}
		}

		if !locationType.Other() && s.Name == "" {
			return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("empty stop_name for stop_id '%s'", s.ID)}
		}

		if locationType == model.LocationTypeStation && s.ParentStation != "" {
			return nil, nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("station '%s' has a parent_station", s.ID)}
		}

		if s.ParentStation != "" {
			parentRefs = append(parentRefs, parentRef{stopID: s.ID, parentID: s.ParentStation, line: line})
		}

		stops = append(stops, model.Stop{
			ID:           s.ID,
			Name:         s.Name,
			ParentID:     s.ParentStation,
			LocationType: locationType,
		})
	}

	for _, ref := range parentRefs {
		if !stopIDs[ref.parentID] {
			return nil, nil, &BadFormatError{
				File:  file,
				Line:  ref.line,
				Cause: errors.Errorf("stop '%s' references unknown parent_station '%s'", ref.stopID, ref.parentID),
			}
		}
	}

	return stops, stopIDs, nil
}
