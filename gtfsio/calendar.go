package gtfsio

import (
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/model"
)

type calendarCSV struct {
	ServiceID string `csv:"service_id"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
	Monday    int8   `csv:"monday"`
	Tuesday   int8   `csv:"tuesday"`
	Wednesday int8   `csv:"wednesday"`
	Thursday  int8   `csv:"thursday"`
	Friday    int8   `csv:"friday"`
	Saturday  int8   `csv:"saturday"`
	Sunday    int8   `csv:"sunday"`
}

func parseCalendar(path string) ([]model.Calendar, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file := filepath.Base(path)

	rows := []*calendarCSV{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, &BadFormatError{File: file, Line: 1, Cause: errors.Wrap(err, "unmarshaling calendar.txt")}
	}

	serviceIDs := map[string]bool{}
	calendars := make([]model.Calendar, 0, len(rows))

	for i, c := range rows {
		line := i + 2

		if c.ServiceID == "" {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.New("empty service_id")}
		}
		if serviceIDs[c.ServiceID] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("repeated service_id '%s'", c.ServiceID)}
		}
		serviceIDs[c.ServiceID] = true

		weekday, err := parseWeekdayMask(c)
		if err != nil {
			return nil, &BadFormatError{File: file, Line: line, Cause: err}
		}

		if _, err := time.ParseInLocation("20060102", c.StartDate, time.UTC); err != nil {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Wrap(err, "parsing start_date")}
		}
		if _, err := time.ParseInLocation("20060102", c.EndDate, time.UTC); err != nil {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Wrap(err, "parsing end_date")}
		}

		calendars = append(calendars, model.Calendar{
			ServiceID: c.ServiceID,
			Weekday:   weekday,
			StartDate: c.StartDate,
			EndDate:   c.EndDate,
		})
	}

	return calendars, nil
}

func parseWeekdayMask(c *calendarCSV) (uint8, error) {
	var mask uint8
	days := []struct {
		name string
		val  int8
		bit  time.Weekday
	}{
		{"monday", c.Monday, time.Monday},
		{"tuesday", c.Tuesday, time.Tuesday},
		{"wednesday", c.Wednesday, time.Wednesday},
		{"thursday", c.Thursday, time.Thursday},
		{"friday", c.Friday, time.Friday},
		{"saturday", c.Saturday, time.Saturday},
		{"sunday", c.Sunday, time.Sunday},
	}
	for _, d := range days {
		switch d.val {
		case 1:
			mask |= 1 << uint(d.bit)
		case 0:
			// not served
		default:
			return 0, errors.Errorf("invalid %s value '%d'", d.name, d.val)
		}
	}
	return mask, nil
}
