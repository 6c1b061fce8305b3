package data

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pythlabs/godscore/pkg/scoring"
)

const (
	insertProfileSQL = `INSERT INTO profile (
			id,
			name,
			source_url,
			raw_text,
			has_revenue,
			customer_count,
			funding_amount,
			created_at,
			updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			source_url = EXCLUDED.source_url,
			raw_text = EXCLUDED.raw_text,
			has_revenue = EXCLUDED.has_revenue,
			customer_count = EXCLUDED.customer_count,
			funding_amount = EXCLUDED.funding_amount,
			updated_at = EXCLUDED.updated_at
	`

	selectProfileSQL = `SELECT
			id,
			name,
			source_url,
			raw_text,
			has_revenue,
			customer_count,
			funding_amount,
			god_score,
			data_tier,
			team_score,
			traction_score,
			market_score,
			product_score,
			vision_score,
			config_version,
			scored_at,
			created_at,
			updated_at
		FROM profile
		WHERE id = ?
	`

	selectProfilePageSQL = `SELECT
			id,
			name,
			source_url,
			raw_text,
			has_revenue,
			customer_count,
			funding_amount,
			god_score,
			data_tier,
			team_score,
			traction_score,
			market_score,
			product_score,
			vision_score,
			config_version,
			scored_at,
			created_at,
			updated_at
		FROM profile
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	countProfileSQL = `SELECT COUNT(*) FROM profile`

	updateScoreSQL = `UPDATE profile SET
			god_score = ?,
			data_tier = ?,
			team_score = ?,
			traction_score = ?,
			market_score = ?,
			product_score = ?,
			vision_score = ?,
			config_version = ?,
			scored_at = ?,
			updated_at = ?
		WHERE id = ?
	`

	selectScoresSQL = `SELECT god_score
		FROM profile
		WHERE god_score IS NOT NULL
	`

	selectTopProfilesSQL = `SELECT
			id,
			name,
			god_score,
			data_tier
		FROM profile
		WHERE god_score IS NOT NULL
		ORDER BY god_score DESC, id
		LIMIT ?
	`

	selectTierCountsSQL = `SELECT
			data_tier AS tier,
			COUNT(*) AS profiles,
			AVG(god_score) AS avg_score
		FROM profile
		WHERE data_tier IS NOT NULL
		GROUP BY data_tier
		ORDER BY data_tier
	`
)

// Profile is one startup pitch as imported, plus the last scoring pass.
type Profile struct {
	ID            string  `json:"id" yaml:"id" db:"id"`
	Name          string  `json:"name" yaml:"name" db:"name"`
	SourceURL     string  `json:"source_url,omitempty" yaml:"sourceURL,omitempty" db:"source_url"`
	RawText       string  `json:"raw_text,omitempty" yaml:"rawText,omitempty" db:"raw_text"`
	HasRevenue    bool    `json:"has_revenue,omitempty" yaml:"hasRevenue,omitempty" db:"has_revenue"`
	CustomerCount int64   `json:"customer_count,omitempty" yaml:"customerCount,omitempty" db:"customer_count"`
	FundingAmount float64 `json:"funding_amount,omitempty" yaml:"fundingAmount,omitempty" db:"funding_amount"`

	GodScore      *int    `json:"god_score,omitempty" yaml:"godScore,omitempty" db:"god_score"`
	DataTier      *string `json:"data_tier,omitempty" yaml:"dataTier,omitempty" db:"data_tier"`
	TeamScore     *int    `json:"team_score,omitempty" yaml:"teamScore,omitempty" db:"team_score"`
	TractionScore *int    `json:"traction_score,omitempty" yaml:"tractionScore,omitempty" db:"traction_score"`
	MarketScore   *int    `json:"market_score,omitempty" yaml:"marketScore,omitempty" db:"market_score"`
	ProductScore  *int    `json:"product_score,omitempty" yaml:"productScore,omitempty" db:"product_score"`
	VisionScore   *int    `json:"vision_score,omitempty" yaml:"visionScore,omitempty" db:"vision_score"`
	ConfigVersion *string `json:"config_version,omitempty" yaml:"configVersion,omitempty" db:"config_version"`
	ScoredAt      *string `json:"scored_at,omitempty" yaml:"scoredAt,omitempty" db:"scored_at"`

	CreatedAt string `json:"created_at" yaml:"createdAt" db:"created_at"`
	UpdatedAt string `json:"updated_at" yaml:"updatedAt" db:"updated_at"`
}

// ProfileListItem is the short row returned by ranking queries.
type ProfileListItem struct {
	ID       string `json:"id" yaml:"id" db:"id"`
	Name     string `json:"name" yaml:"name" db:"name"`
	GodScore int    `json:"god_score" yaml:"godScore" db:"god_score"`
	DataTier string `json:"data_tier" yaml:"dataTier" db:"data_tier"`
}

// TierCount is one row of the per-tier summary.
type TierCount struct {
	Tier     string  `json:"tier" yaml:"tier" db:"tier"`
	Profiles int     `json:"profiles" yaml:"profiles" db:"profiles"`
	AvgScore float64 `json:"avg_score" yaml:"avgScore" db:"avg_score"`
}

// SaveProfile inserts or updates one profile. Score columns are left
// alone, a changed pitch only becomes visible after the next rescore.
func SaveProfile(db *sqlx.DB, p *Profile) error {
	if db == nil {
		return errDBNotInitialized
	}
	if p == nil || p.ID == "" {
		return errors.New("profile with id required")
	}

	now := timeNow()
	if p.CreatedAt == "" {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if _, err := db.Exec(db.Rebind(insertProfileSQL),
		p.ID, p.Name, p.SourceURL, p.RawText,
		boolToInt(p.HasRevenue), p.CustomerCount, p.FundingAmount,
		p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("error saving profile %s: %w", p.ID, err)
	}
	return nil
}

// GetProfile returns one profile by ID, nil when not found.
func GetProfile(db *sqlx.DB, id string) (*Profile, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var p Profile
	err := db.Get(&p, db.Rebind(selectProfileSQL), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting profile %s: %w", id, err)
	}
	return &p, nil
}

// ListProfiles returns one page of profiles in stable ID order.
func ListProfiles(db *sqlx.DB, limit, offset int) ([]*Profile, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	list := make([]*Profile, 0)
	if err := db.Select(&list, db.Rebind(selectProfilePageSQL), limit, offset); err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	return list, nil
}

// CountProfiles returns the total number of stored profiles.
func CountProfiles(db *sqlx.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	var n int
	if err := db.Get(&n, countProfileSQL); err != nil {
		return 0, fmt.Errorf("error counting profiles: %w", err)
	}
	return n, nil
}

// UpdateScore persists one scoring pass on an existing profile.
func UpdateScore(db *sqlx.DB, id string, c *scoring.Composite, configVersion string) error {
	if db == nil {
		return errDBNotInitialized
	}
	if c == nil {
		return errors.New("composite required")
	}

	now := timeNow()
	res, err := db.Exec(db.Rebind(updateScoreSQL),
		c.Total, string(c.Tier),
		c.Team, c.Traction, c.Market, c.Product, c.Vision,
		configVersion, now, now, id)
	if err != nil {
		return fmt.Errorf("error updating score for %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// GetScores returns every persisted composite score, for the monitor.
func GetScores(db *sqlx.DB) ([]int, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	scores := make([]int, 0)
	if err := db.Select(&scores, selectScoresSQL); err != nil {
		return nil, fmt.Errorf("error getting scores: %w", err)
	}
	return scores, nil
}

// TopProfiles returns the highest-scored profiles.
func TopProfiles(db *sqlx.DB, limit int) ([]*ProfileListItem, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	list := make([]*ProfileListItem, 0)
	if err := db.Select(&list, db.Rebind(selectTopProfilesSQL), limit); err != nil {
		return nil, fmt.Errorf("error getting top profiles: %w", err)
	}
	return list, nil
}

// TierCounts summarizes the scored population per data tier.
func TierCounts(db *sqlx.DB) ([]*TierCount, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	list := make([]*TierCount, 0)
	if err := db.Select(&list, selectTierCountsSQL); err != nil {
		return nil, fmt.Errorf("error getting tier counts: %w", err)
	}
	return list, nil
}
