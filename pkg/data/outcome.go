package data

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pythlabs/godscore/pkg/calibration"
)

const (
	insertOutcomeSQL = `INSERT INTO match_outcome (
			id,
			profile_id,
			god_score,
			outcome,
			outcome_quality,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectCalibrationSamplesSQL = `SELECT
			god_score,
			outcome,
			outcome_quality
		FROM match_outcome
		ORDER BY created_at
	`
)

// Outcome names accepted by SaveOutcome, roughly ordered by quality.
var validOutcomes = []string{"invested", "meeting", "interested", "passed"}

// MatchOutcome records what happened after a scored profile was matched.
type MatchOutcome struct {
	ID             string  `json:"id" yaml:"id" db:"id"`
	ProfileID      string  `json:"profile_id" yaml:"profileID" db:"profile_id"`
	GodScore       int     `json:"god_score" yaml:"godScore" db:"god_score"`
	OutcomeQuality float64 `json:"outcome_quality" yaml:"outcomeQuality" db:"outcome_quality"`
	Outcome        string  `json:"outcome" yaml:"outcome" db:"outcome"`
	CreatedAt      string  `json:"created_at" yaml:"createdAt" db:"created_at"`
}

// SaveOutcome records one match outcome. The score at match time is
// captured on the outcome row so later rescores cannot rewrite history.
func SaveOutcome(db *sqlx.DB, o *MatchOutcome) error {
	if db == nil {
		return errDBNotInitialized
	}
	if o == nil || o.ProfileID == "" {
		return errors.New("outcome with profile_id required")
	}
	if !Contains(validOutcomes, o.Outcome) {
		return fmt.Errorf("invalid outcome: %s", o.Outcome)
	}
	if o.OutcomeQuality < 0 || o.OutcomeQuality > 1 {
		return fmt.Errorf("outcome_quality must be between 0 and 1, got %f", o.OutcomeQuality)
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt == "" {
		o.CreatedAt = timeNow()
	}

	if o.GodScore == 0 {
		p, err := GetProfile(db, o.ProfileID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("profile not found: %s", o.ProfileID)
		}
		if p.GodScore != nil {
			o.GodScore = *p.GodScore
		}
	}

	if _, err := db.Exec(db.Rebind(insertOutcomeSQL),
		o.ID, o.ProfileID, o.GodScore, o.Outcome, o.OutcomeQuality, o.CreatedAt); err != nil {
		return fmt.Errorf("error saving outcome for %s: %w", o.ProfileID, err)
	}
	return nil
}

// GetCalibrationSamples returns every recorded outcome in insert order.
func GetCalibrationSamples(db *sqlx.DB) ([]calibration.Sample, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	samples := make([]calibration.Sample, 0)
	if err := db.Select(&samples, selectCalibrationSamplesSQL); err != nil {
		return nil, fmt.Errorf("error getting calibration samples: %w", err)
	}
	return samples, nil
}
