package data

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	insertRunSQL      = `INSERT INTO run (scored_at, routes, points, duration_ms) VALUES (?, ?, ?, ?)`
	insertRunScoreSQL = `INSERT INTO run_score (run_id, route_idx, score, fallback) VALUES (?, ?, ?, ?)`

	selectRunsSQL = `SELECT id, scored_at, routes, points, duration_ms
		FROM run
		ORDER BY id DESC
		LIMIT ?`

	selectRunScoresSQL = `SELECT route_idx, score, fallback
		FROM run_score
		WHERE run_id = ?
		ORDER BY route_idx`
)

// Run is one recorded scoring invocation.
type Run struct {
	ID         int64      `json:"id,omitempty"`
	ScoredAt   time.Time  `json:"scored_at"`
	Routes     int        `json:"routes"`
	Points     int        `json:"points"`
	DurationMS int64      `json:"duration_ms"`
	Scores     []RunScore `json:"scores,omitempty"`
}

// RunScore is one route's score within a run.
type RunScore struct {
	Route    int     `json:"route"`
	Score    float64 `json:"score"`
	Fallback bool    `json:"fallback,omitempty"`
}

// SaveRun records a scoring run and its per-route scores.
func SaveRun(db *sql.DB, r *Run) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if r == nil {
		return 0, errors.New("run required")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin run insert")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(insertRunSQL, r.ScoredAt.UTC().Format(time.RFC3339), r.Routes, r.Points, r.DurationMS)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get run id")
	}

	stmt, err := tx.Prepare(insertRunScoreSQL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare run score insert statement")
	}
	defer stmt.Close()

	for _, s := range r.Scores {
		if _, err := stmt.Exec(id, s.Route, s.Score, s.Fallback); err != nil {
			return 0, errors.Wrap(err, "failed to insert run score")
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit run")
	}

	return id, nil
}

// ListRuns returns the most recent scoring runs, newest first, with their
// per-route scores attached.
func ListRuns(db *sql.DB, limit int) ([]*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit < 1 {
		return nil, errors.Errorf("invalid limit: %d", limit)
	}

	rs, err := db.Query(selectRunsSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rs.Close()

	var list []*Run
	for rs.Next() {
		var r Run
		var at string
		if err := rs.Scan(&r.ID, &at, &r.Routes, &r.Points, &r.DurationMS); err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		r.ScoredAt, err = time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid run timestamp: %s", at)
		}
		list = append(list, &r)
	}
	if err := rs.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating run rows")
	}

	for _, r := range list {
		if r.Scores, err = getRunScores(db, r.ID); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func getRunScores(db *sql.DB, runID int64) ([]RunScore, error) {
	rs, err := db.Query(selectRunScoresSQL, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query scores for run: %d", runID)
	}
	defer rs.Close()

	var scores []RunScore
	for rs.Next() {
		var s RunScore
		if err := rs.Scan(&s.Route, &s.Score, &s.Fallback); err != nil {
			return nil, errors.Wrap(err, "failed to scan run score row")
		}
		scores = append(scores, s)
	}
	if err := rs.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating run score rows")
	}

	return scores, nil
}
