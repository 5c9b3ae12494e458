// Package gtfsio turns a directory of GTFS text files into the row
// types in package model. It does no timetable-level reasoning (no
// sorting, no index building, no calendar evaluation) — that is
// store's job. gtfsio only validates individual rows and cross-file
// references (trip -> route/service, stop -> parent, etc).
package gtfsio

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"github.com/tidbyt-labs/pyroutech/model"
)

// RawFeed holds every row read from a GTFS feed directory, before any
// sorting or indexing.
type RawFeed struct {
	Agencies      []model.Agency
	Stops         []model.Stop
	Routes        []model.Route
	Trips         []model.Trip
	Calendars     []model.Calendar
	CalendarDates []model.CalendarDate
	StopTimes     []model.StopTime
}

var mandatoryFiles = []string{
	"stops.txt",
	"stop_times.txt",
	"trips.txt",
	"routes.txt",
}

// ParseDir reads the mandatory GTFS files (stops, stop_times, trips,
// routes, and at least one of calendar/calendar_dates) from dir, plus
// agency.txt if present. It returns *MissingFileError if a mandatory
// file is absent, or *BadFormatError for the first row that fails
// validation.
func ParseDir(dir string) (*RawFeed, error) {
	for _, name := range mandatoryFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, &MissingFileError{File: name}
		}
	}

	hasCalendar := fileExists(filepath.Join(dir, "calendar.txt"))
	hasCalendarDates := fileExists(filepath.Join(dir, "calendar_dates.txt"))
	if !hasCalendar && !hasCalendarDates {
		return nil, &MissingFileError{File: "calendar.txt or calendar_dates.txt"}
	}

	// LazyCSVReader tolerates the sloppy quoting real-world feeds
	// occasionally produce; bom.NewReader strips a leading UTF-8
	// BOM some exporters emit.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	feed := &RawFeed{}

	agencyIDs := map[string]bool{}
	if fileExists(filepath.Join(dir, "agency.txt")) {
		agencies, err := parseAgency(filepath.Join(dir, "agency.txt"))
		if err != nil {
			return nil, err
		}
		feed.Agencies = agencies
		for _, a := range agencies {
			agencyIDs[a.ID] = true
		}
	}

	stops, stopIDs, err := parseStops(filepath.Join(dir, "stops.txt"))
	if err != nil {
		return nil, err
	}
	feed.Stops = stops

	routes, routeIDs, err := parseRoutes(filepath.Join(dir, "routes.txt"))
	if err != nil {
		return nil, err
	}
	feed.Routes = routes

	serviceIDs := map[string]bool{}
	if hasCalendar {
		calendars, err := parseCalendar(filepath.Join(dir, "calendar.txt"))
		if err != nil {
			return nil, err
		}
		feed.Calendars = calendars
		for _, c := range calendars {
			serviceIDs[c.ServiceID] = true
		}
	}
	if hasCalendarDates {
		calendarDates, err := parseCalendarDates(filepath.Join(dir, "calendar_dates.txt"))
		if err != nil {
			return nil, err
		}
		feed.CalendarDates = calendarDates
		for _, cd := range calendarDates {
			serviceIDs[cd.ServiceID] = true
		}
	}

	trips, err := parseTrips(filepath.Join(dir, "trips.txt"), routeIDs, serviceIDs)
	if err != nil {
		return nil, err
	}
	feed.Trips = trips

	tripIDs := make(map[string]bool, len(trips))
	for _, t := range trips {
		tripIDs[t.ID] = true
	}

	stopTimes, err := parseStopTimes(filepath.Join(dir, "stop_times.txt"), stopIDs, tripIDs)
	if err != nil {
		return nil, err
	}
	feed.StopTimes = stopTimes

	return feed, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return f, nil
}
