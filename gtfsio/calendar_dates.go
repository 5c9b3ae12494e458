package gtfsio

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/model"
)

type calendarDateCSV struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int8   `csv:"exception_type"`
}

func parseCalendarDates(path string) ([]model.CalendarDate, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file := filepath.Base(path)

	rows := []*calendarDateCSV{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, &BadFormatError{File: file, Line: 1, Cause: errors.Wrap(err, "unmarshaling calendar_dates.txt")}
	}

	seen := map[string]bool{}
	calendarDates := make([]model.CalendarDate, 0, len(rows))

	for i, cd := range rows {
		line := i + 2

		if cd.ExceptionType != int8(model.ExceptionTypeAdded) && cd.ExceptionType != int8(model.ExceptionTypeRemoved) {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("invalid exception_type '%d'", cd.ExceptionType)}
		}

		if _, err := time.ParseInLocation("20060102", cd.Date, time.UTC); err != nil {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Wrap(err, "parsing date")}
		}

		key := fmt.Sprintf("%s/%s", cd.ServiceID, cd.Date)
		if seen[key] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("duplicate service/date '%s'", key)}
		}
		seen[key] = true

		calendarDates = append(calendarDates, model.CalendarDate{
			ServiceID:     cd.ServiceID,
			Date:          cd.Date,
			ExceptionType: model.ExceptionType(cd.ExceptionType),
		})
	}

	return calendarDates, nil
}
