package data

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pythlabs/godscore/pkg/monitor"
)

const (
	insertMonitorEntrySQL = `INSERT INTO monitor_log (
			id,
			profile_count,
			average,
			median,
			std_dev,
			alert,
			recommendations,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectMonitorEntriesSQL = `SELECT
			id,
			profile_count,
			average,
			median,
			std_dev,
			alert,
			recommendations,
			created_at
		FROM monitor_log
		ORDER BY created_at DESC
		LIMIT ?
	`
)

// MonitorEntry is one persisted monitor run.
type MonitorEntry struct {
	ID              string  `json:"id" yaml:"id" db:"id"`
	ProfileCount    int     `json:"profile_count" yaml:"profileCount" db:"profile_count"`
	Average         float64 `json:"average" yaml:"average" db:"average"`
	Median          float64 `json:"median" yaml:"median" db:"median"`
	StdDev          float64 `json:"std_dev" yaml:"stdDev" db:"std_dev"`
	Alert           bool    `json:"alert" yaml:"alert" db:"alert"`
	Recommendations string  `json:"recommendations" yaml:"recommendations" db:"recommendations"`
	CreatedAt       string  `json:"created_at" yaml:"createdAt" db:"created_at"`
}

// SaveMonitorEntry appends one monitor report to the audit log.
func SaveMonitorEntry(db *sqlx.DB, r *monitor.Report) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil {
		return errors.New("report required")
	}

	e := MonitorEntry{
		ID:              uuid.NewString(),
		ProfileCount:    r.Snapshot.Count,
		Average:         r.Snapshot.Average,
		Median:          r.Snapshot.Median,
		StdDev:          r.Snapshot.StdDev,
		Alert:           r.Alert,
		Recommendations: strings.Join(r.Recommendations, "; "),
		CreatedAt:       timeNow(),
	}

	if _, err := db.Exec(db.Rebind(insertMonitorEntrySQL),
		e.ID, e.ProfileCount, e.Average, e.Median, e.StdDev,
		boolToInt(e.Alert), e.Recommendations, e.CreatedAt); err != nil {
		return fmt.Errorf("error saving monitor entry: %w", err)
	}
	return nil
}

// ListMonitorEntries returns the most recent monitor runs, newest first.
func ListMonitorEntries(db *sqlx.DB, limit int) ([]*MonitorEntry, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	list := make([]*MonitorEntry, 0)
	if err := db.Select(&list, db.Rebind(selectMonitorEntriesSQL), limit); err != nil {
		return nil, fmt.Errorf("error listing monitor entries: %w", err)
	}
	return list, nil
}
