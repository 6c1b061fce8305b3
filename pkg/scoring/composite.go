package scoring

import (
	"math"

	"github.com/pythlabs/godscore/pkg/config"
	"github.com/pythlabs/godscore/pkg/signal"
)

// Composite is the persisted scoring output for one profile. It is
// recomputed whole on every pass; there is no partial update.
type Composite struct {
	Total      int  `json:"total_god_score" yaml:"totalGodScore"`
	Components `yaml:",inline"`
	Tier       Tier `json:"data_tier" yaml:"dataTier"`
}

// Score runs the full component-and-aggregate pass for one set of
// signals. Deterministic: identical signals and tier always produce an
// identical composite, so score drift can only come from changed input.
func Score(s *signal.Signals, tier Tier, cfg *config.Scoring) *Composite {
	c := ScoreComponents(s, tier, cfg)

	var total int
	switch tier {
	case TierA:
		total = c.Sum()
		if total >= cfg.TierA.QualityBonusAt {
			total += cfg.TierA.QualityBonus
		}
	case TierB:
		if s == nil {
			s = &signal.Signals{}
		}
		total = tierBTotal(s, cfg)
	default:
		total = c.Sum()
	}

	total = max(0, min(tier.Cap(), total))

	return &Composite{
		Total:      total,
		Components: c,
		Tier:       tier,
	}
}

// Material reports whether a recomputed total differs enough from the
// previous one to be worth persisting. Force bypasses the threshold so
// full backfills rewrite every row.
func Material(oldTotal, newTotal int, cfg *config.Scoring, force bool) bool {
	if force {
		return true
	}
	return math.Abs(float64(newTotal)-float64(oldTotal)) >= cfg.MaterialDelta
}
