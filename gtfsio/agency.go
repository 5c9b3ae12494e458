package gtfsio

import (
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/model"
)

type agencyCSV struct {
	ID       string `csv:"agency_id"`
	Name     string `csv:"agency_name"`
	Timezone string `csv:"agency_timezone"`
}

func parseAgency(path string) ([]model.Agency, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file := filepath.Base(path)

	rows := []*agencyCSV{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, &BadFormatError{File: file, Line: 1, Cause: errors.Wrap(err, "unmarshaling agency.txt")}
	}

	agencies := make([]model.Agency, 0, len(rows))
	for i, a := range rows {
		if a.Name == "" {
			return nil, &BadFormatError{File: file, Line: i + 2, Cause: errors.New("empty agency_name")}
		}
		agencies = append(agencies, model.Agency{
			ID:       a.ID,
			Name:     a.Name,
			Timezone: a.Timezone,
		})
	}

	return agencies, nil
}
