package data

import (
	"database/sql"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/routelab/routerisk/pkg/feature"
)

const (
	insertReferenceSQL = `INSERT INTO reference (lat, lng, month, hour, minute, label) VALUES (?, ?, ?, ?, ?, ?)`
	selectReferenceSQL = `SELECT lat, lng, month, hour, minute FROM reference ORDER BY id`
	deleteReferenceSQL = `DELETE FROM reference`
	countReferenceSQL  = `SELECT COUNT(*) FROM reference`

	// pandas writes its index as an unnamed leading column
	indexColumn = "Unnamed: 0"
)

// ImportReference replaces the reference table with rows from the training
// pipeline's CSV export. The file carries a header, optionally a leading
// index column, the feature columns in schema order, and the label last.
// Returns the number of rows imported.
func ImportReference(db *sql.DB, r io.Reader) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read reference header")
	}

	skip := 0
	if len(header) > 0 && (header[0] == indexColumn || header[0] == "") {
		skip = 1
	}
	want := feature.NumColumns + 1 // features plus trailing label
	if len(header)-skip != want {
		return 0, errors.Errorf("reference has %d columns, want %d", len(header)-skip, want)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin reference import")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(deleteReferenceSQL); err != nil {
		return 0, errors.Wrap(err, "failed to clear reference table")
	}

	stmt, err := tx.Prepare(insertReferenceSQL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare reference insert statement")
	}
	defer stmt.Close()

	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrapf(err, "failed to read reference row %d", rows+1)
		}

		vals := make([]any, 0, want)
		for _, s := range rec[skip:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "non-numeric value in reference row %d", rows+1)
			}
			vals = append(vals, v)
		}
		if _, err := stmt.Exec(vals...); err != nil {
			return 0, errors.Wrap(err, "failed to insert reference row")
		}
		rows++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit reference import")
	}

	log.WithFields(log.Fields{"rows": rows}).Debug("reference table imported")
	return rows, nil
}

// ReferenceRows returns the feature columns of the reference table in
// schema order, for fitting the scaler. Labels are not included.
func ReferenceRows(db *sql.DB) ([][]float64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rs, err := db.Query(selectReferenceSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query reference table")
	}
	defer rs.Close()

	var out [][]float64
	for rs.Next() {
		row := make([]float64, feature.NumColumns)
		if err := rs.Scan(&row[0], &row[1], &row[2], &row[3], &row[4]); err != nil {
			return nil, errors.Wrap(err, "failed to scan reference row")
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating reference rows")
	}

	return out, nil
}

// CountReference returns the number of rows in the reference table.
func CountReference(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	var count int
	if err := db.QueryRow(countReferenceSQL).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count reference rows")
	}
	return count, nil
}
