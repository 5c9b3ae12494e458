package gtfsio

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/model"
)

type stopTimeCSV struct {
	TripID       string `csv:"trip_id"`
	ArrivalTime  string `csv:"arrival_time"`
	Departure    string `csv:"departure_time"`
	StopID       string `csv:"stop_id"`
	StopSequence uint32 `csv:"stop_sequence"`
}

// parseHMS parses a GTFS "HH:MM:SS" value into seconds since
// midnight. HH may exceed 23 to represent post-midnight service; that
// value is preserved rather than wrapped into [0, 86400).
func parseHMS(s string) (int32, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("malformed time '%s'", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(err, "parsing hours in '%s'", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Wrapf(err, "parsing minutes in '%s'", s)
	}
	if m < 0 || m > 59 {
		return 0, errors.Errorf("invalid minutes in '%s'", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, errors.Wrapf(err, "parsing seconds in '%s'", s)
	}
	if sec < 0 || sec > 59 {
		return 0, errors.Errorf("invalid seconds in '%s'", s)
	}
	return int32(h*3600 + m*60 + sec), nil
}

func parseStopTimes(path string, stopIDs, tripIDs map[string]bool) ([]model.StopTime, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file := filepath.Base(path)

	rows := []*stopTimeCSV{}
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, &BadFormatError{File: file, Line: 1, Cause: errors.Wrap(err, "unmarshaling stop_times.txt")}
	}

	stopTimes := make([]model.StopTime, 0, len(rows))
	lastSeqByTrip := map[string]uint32{}
	lastDepByTrip := map[string]int32{}
	seenSeq := map[string]bool{}

	for i, st := range rows {
		line := i + 2

		if st.TripID == "" {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.New("empty trip_id")}
		}
		if !tripIDs[st.TripID] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("unknown trip_id '%s'", st.TripID)}
		}
		if !stopIDs[st.StopID] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("unknown stop_id '%s'", st.StopID)}
		}

		arrival, err := parseHMS(st.ArrivalTime)
		if err != nil {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Wrap(err, "arrival_time")}
		}
		departure, err := parseHMS(st.Departure)
		if err != nil {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Wrap(err, "departure_time")}
		}
		if departure < arrival {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("departure_time before arrival_time for trip '%s'", st.TripID)}
		}

		seqKey := st.TripID + "/" + strconv.FormatUint(uint64(st.StopSequence), 10)
		if seenSeq[seqKey] {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("repeated stop_sequence %d for trip '%s'", st.StopSequence, st.TripID)}
		}
		seenSeq[seqKey] = true

		if lastSeq, ok := lastSeqByTrip[st.TripID]; ok && st.StopSequence <= lastSeq {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("stop_sequence must strictly increase within trip '%s'", st.TripID)}
		}
		lastSeqByTrip[st.TripID] = st.StopSequence

		if lastDep, ok := lastDepByTrip[st.TripID]; ok && departure < lastDep {
			return nil, &BadFormatError{File: file, Line: line, Cause: errors.Errorf("departure_time must not decrease within trip '%s'", st.TripID)}
		}
		lastDepByTrip[st.TripID] = departure

		stopTimes = append(stopTimes, model.StopTime{
			TripID:       st.TripID,
			StopID:       st.StopID,
			StopSequence: st.StopSequence,
			ArrivalSec:   arrival,
			DepartureSec: departure,
		})
	}

	return stopTimes, nil
}
