package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/pythlabs/godscore/pkg/config"
	"github.com/pythlabs/godscore/pkg/metrics"
	"github.com/pythlabs/godscore/pkg/scoring"
	"github.com/pythlabs/godscore/pkg/signal"
)

const (
	rescorePageSize = 100

	// DefaultRescoreWorkers bounds concurrent scoring goroutines.
	DefaultRescoreWorkers = 4
)

// RescoreResult summarizes one batch scoring pass.
type RescoreResult struct {
	Processed int `json:"processed" yaml:"processed"`
	Updated   int `json:"updated" yaml:"updated"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
}

// RescoreAll recomputes the score for every stored profile. Unchanged
// scores below the material threshold are skipped unless force is set.
// A profile that fails to score or persist is logged and counted in
// Failed, the rest of the batch continues.
// Scoring itself is pure so profiles fan out across workers, writes go
// through the shared connection pool.
func RescoreAll(ctx context.Context, db *sqlx.DB, cfg *config.Scoring, workers int, force bool) (*RescoreResult, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if cfg == nil {
		cfg = config.DefaultScoring()
	}
	if workers < 1 {
		workers = DefaultRescoreWorkers
	}

	total, err := CountProfiles(db)
	if err != nil {
		return nil, err
	}
	slog.Debug("rescoring profiles", "total", total, "workers", workers, "force", force)

	res := &RescoreResult{}
	var mu sync.Mutex

	for offset := 0; offset < total; offset += rescorePageSize {
		page, err := ListProfiles(db, rescorePageSize, offset)
		if err != nil {
			return nil, err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for _, p := range page {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				c, err := ScoreProfile(p, cfg)
				if err != nil {
					metrics.ScoreErrors.Inc()
					slog.Warn("failed to score profile", "id", p.ID, "error", err)
					mu.Lock()
					res.Processed++
					res.Failed++
					mu.Unlock()
					return nil
				}

				old := 0
				if p.GodScore != nil {
					old = *p.GodScore
				}
				if p.GodScore != nil && !scoring.Material(old, c.Total, cfg, force) {
					metrics.ScoresSkipped.Inc()
					mu.Lock()
					res.Processed++
					res.Skipped++
					mu.Unlock()
					return nil
				}

				if err := UpdateScore(db, p.ID, c, cfg.Version); err != nil {
					metrics.ScoreErrors.Inc()
					slog.Warn("failed to persist score", "id", p.ID, "error", err)
					mu.Lock()
					res.Processed++
					res.Failed++
					mu.Unlock()
					return nil
				}
				metrics.RecordScore(string(c.Tier), c.Total)

				mu.Lock()
				res.Processed++
				res.Updated++
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("error rescoring page at offset %d: %w", offset, err)
		}

		if total >= 10 && (offset/rescorePageSize)%10 == 0 {
			slog.Debug("rescore progress", "processed", res.Processed, "of", total)
		}
	}

	return res, nil
}

// ScoreProfile runs the full extract-classify-score pipeline for one
// profile. Known structured fields on the profile override anything the
// extractor missed in the raw text. Text too short to score yields the
// no-evidence tier instead of an error.
func ScoreProfile(p *Profile, cfg *config.Scoring) (*scoring.Composite, error) {
	if p == nil {
		return nil, errors.New("profile required")
	}
	if cfg == nil {
		cfg = config.DefaultScoring()
	}

	s, err := signal.Extract(p.RawText, p.SourceURL)
	if errors.Is(err, signal.ErrTextTooShort) {
		s = &signal.Signals{}
	} else if err != nil {
		return nil, fmt.Errorf("error extracting signals for %s: %w", p.ID, err)
	}

	if p.HasRevenue {
		s.HasRevenue = true
	}
	if p.CustomerCount > s.CustomerCount {
		s.CustomerCount = p.CustomerCount
		s.HasCustomers = true
	}
	if p.FundingAmount > s.FundingAmount {
		s.FundingAmount = p.FundingAmount
	}

	tier := scoring.Classify(s)
	return scoring.Score(s, tier, cfg), nil
}
