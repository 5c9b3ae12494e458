package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/tidbyt-labs/pyroutech/gtfsio"
	"github.com/tidbyt-labs/pyroutech/model"
)

// loadWithCache parses feedDir, consulting an on-disk SQLite snapshot
// under cacheDir first. The snapshot is keyed by a hash of the name,
// size and modification time of every GTFS file present, so any edit to
// the feed directory invalidates it automatically. This never changes
// planner results; it only spares a full gocsv pass over large
// stop_times.txt files on repeat loads of an unchanged feed.
func loadWithCache(feedDir, cacheDir string) (*gtfsio.RawFeed, error) {
	key, err := hashDir(feedDir)
	if err != nil {
		return nil, errors.Wrap(err, "hashing feed directory")
	}

	db, err := openCacheDB(cacheDir)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if raw, ok, err := readSnapshot(db, key); err != nil {
		return nil, err
	} else if ok {
		return raw, nil
	}

	raw, err := gtfsio.ParseDir(feedDir)
	if err != nil {
		return nil, err
	}

	if err := writeSnapshot(db, key, raw); err != nil {
		return nil, err
	}

	return raw, nil
}

func hashDir(dir string) (string, error) {
	h := sha256.New()
	for _, name := range []string{
		"agency.txt", "stops.txt", "routes.txt", "trips.txt",
		"stop_times.txt", "calendar.txt", "calendar_dates.txt",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%s:%d:%d\n", name, info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func openCacheDB(cacheDir string) (*sql.DB, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache directory")
	}

	db, err := sql.Open("sqlite3", filepath.Join(cacheDir, "feed_cache.db"))
	if err != nil {
		return nil, errors.Wrap(err, "opening cache database")
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS snapshot_row (
    feed_hash TEXT NOT NULL,
    kind      TEXT NOT NULL,
    a         TEXT,
    b         TEXT,
    c         TEXT,
    d         INTEGER,
    e         INTEGER,
    f         INTEGER
);
CREATE INDEX IF NOT EXISTS snapshot_row_hash ON snapshot_row(feed_hash, kind);
`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating snapshot_row table")
	}

	return db, nil
}

// readSnapshot reconstructs a RawFeed from the cached rows for
// feedHash, or reports ok=false if nothing is cached yet.
func readSnapshot(db *sql.DB, feedHash string) (*gtfsio.RawFeed, bool, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM snapshot_row WHERE feed_hash = ?`, feedHash).Scan(&count); err != nil {
		return nil, false, errors.Wrap(err, "checking snapshot cache")
	}
	if count == 0 {
		return nil, false, nil
	}

	raw := &gtfsio.RawFeed{}

	rows, err := db.Query(`SELECT kind, a, b, c, d, e, f FROM snapshot_row WHERE feed_hash = ?`, feedHash)
	if err != nil {
		return nil, false, errors.Wrap(err, "reading snapshot cache")
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var a, b, c sql.NullString
		var d, e, f sql.NullInt64
		if err := rows.Scan(&kind, &a, &b, &c, &d, &e, &f); err != nil {
			return nil, false, errors.Wrap(err, "scanning snapshot row")
		}

		switch kind {
		case "agency":
			raw.Agencies = append(raw.Agencies, model.Agency{ID: a.String, Name: b.String, Timezone: c.String})
		case "stop":
			raw.Stops = append(raw.Stops, model.Stop{ID: a.String, Name: b.String, ParentID: c.String, LocationType: model.LocationType(d.Int64)})
		case "route":
			raw.Routes = append(raw.Routes, model.Route{ID: a.String, ShortName: b.String, LongName: c.String})
		case "trip":
			raw.Trips = append(raw.Trips, model.Trip{ID: a.String, RouteID: b.String, ServiceID: c.String})
		case "calendar":
			raw.Calendars = append(raw.Calendars, model.Calendar{ServiceID: a.String, StartDate: b.String, EndDate: c.String, Weekday: uint8(d.Int64)})
		case "calendar_date":
			raw.CalendarDates = append(raw.CalendarDates, model.CalendarDate{ServiceID: a.String, Date: b.String, ExceptionType: model.ExceptionType(d.Int64)})
		case "stop_time":
			raw.StopTimes = append(raw.StopTimes, model.StopTime{
				TripID: a.String, StopID: b.String,
				StopSequence: uint32(d.Int64), ArrivalSec: int32(e.Int64), DepartureSec: int32(f.Int64),
			})
		}
	}

	return raw, true, rows.Err()
}

func writeSnapshot(db *sql.DB, feedHash string, raw *gtfsio.RawFeed) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning snapshot transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`INSERT INTO snapshot_row (feed_hash, kind, a, b, c, d, e, f) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing snapshot insert")
	}
	defer stmt.Close()

	for _, a := range raw.Agencies {
		if _, err = stmt.Exec(feedHash, "agency", a.ID, a.Name, a.Timezone, nil, nil, nil); err != nil {
			return errors.Wrap(err, "writing agency snapshot row")
		}
	}
	for _, s := range raw.Stops {
		if _, err = stmt.Exec(feedHash, "stop", s.ID, s.Name, s.ParentID, int64(s.LocationType), nil, nil); err != nil {
			return errors.Wrap(err, "writing stop snapshot row")
		}
	}
	for _, r := range raw.Routes {
		if _, err = stmt.Exec(feedHash, "route", r.ID, r.ShortName, r.LongName, nil, nil, nil); err != nil {
			return errors.Wrap(err, "writing route snapshot row")
		}
	}
	for _, t := range raw.Trips {
		if _, err = stmt.Exec(feedHash, "trip", t.ID, t.RouteID, t.ServiceID, nil, nil, nil); err != nil {
			return errors.Wrap(err, "writing trip snapshot row")
		}
	}
	for _, c := range raw.Calendars {
		if _, err = stmt.Exec(feedHash, "calendar", c.ServiceID, c.StartDate, c.EndDate, int64(c.Weekday), nil, nil); err != nil {
			return errors.Wrap(err, "writing calendar snapshot row")
		}
	}
	for _, cd := range raw.CalendarDates {
		if _, err = stmt.Exec(feedHash, "calendar_date", cd.ServiceID, cd.Date, nil, int64(cd.ExceptionType), nil, nil); err != nil {
			return errors.Wrap(err, "writing calendar_date snapshot row")
		}
	}
	for _, st := range raw.StopTimes {
		if _, err = stmt.Exec(feedHash, "stop_time", st.TripID, st.StopID, nil, int64(st.StopSequence), int64(st.ArrivalSec), int64(st.DepartureSec)); err != nil {
			return errors.Wrap(err, "writing stop_time snapshot row")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing snapshot transaction")
	}
	return nil
}
