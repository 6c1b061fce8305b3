package scoring

import (
	"math"

	"github.com/pythlabs/godscore/pkg/config"
	"github.com/pythlabs/godscore/pkg/signal"
)

// Components are the five sub-scores making up a composite. Every value
// is non-negative and clamped to its own tier-dependent ceiling before
// summation, so no single component can dominate the total.
type Components struct {
	Team     int `json:"team_score" yaml:"teamScore"`
	Traction int `json:"traction_score" yaml:"tractionScore"`
	Market   int `json:"market_score" yaml:"marketScore"`
	Product  int `json:"product_score" yaml:"productScore"`
	Vision   int `json:"vision_score" yaml:"visionScore"`
}

// Sum returns the raw component total before any tier clamp or bonus.
func (c Components) Sum() int {
	return c.Team + c.Traction + c.Market + c.Product + c.Vision
}

// ScoreComponents computes the five sub-scores for the given signals and
// tier using the configured weight table. Pure: missing signals
// contribute zero, never negative.
func ScoreComponents(s *signal.Signals, tier Tier, cfg *config.Scoring) Components {
	if s == nil {
		s = &signal.Signals{}
	}

	switch tier {
	case TierA:
		return scoreTierA(s, cfg)
	case TierB:
		return scoreTierB(s, cfg)
	default:
		return tierCComponents()
	}
}

// scoreTierA builds each component from a fixed base plus per-signal
// bonuses, each independently clamped.
func scoreTierA(s *signal.Signals, cfg *config.Scoring) Components {
	w := cfg.TierA

	vision := w.VisionBase
	if len(s.ProblemSignals) > 0 {
		vision += w.ProblemBonus
	}
	if len(s.VisionSignals) > 0 {
		vision += w.VisionBonus
	}
	vision = min(w.VisionCap, vision)

	market := 0
	if len(s.Sectors) > 0 {
		for _, sector := range s.Sectors {
			market = max(market, cfg.SectorWeight(sector))
		}
		market += w.MarketSectorBonus
	}
	market = min(w.MarketCap, market)

	traction := 0
	if s.HasRevenue {
		traction += w.RevenueBonus
	}
	if s.HasCustomers {
		traction += w.CustomersBonus
	}
	if s.CustomerCount > int64(w.CustomerCountMin) {
		traction += w.CustomerCountBonus
	}
	if s.GrowthRate > 0 {
		traction += w.GrowthBonus
	}
	if s.FundingAmount >= w.FundingMajorAmount {
		traction += w.FundingMajorBonus
	} else if s.FundingAmount >= w.FundingMinorAmount {
		traction += w.FundingMinorBonus
	}
	traction = min(w.TractionCap, traction)

	team := 0
	if s.HasTechnicalCofounder {
		team += w.TechCofounderBonus
	}
	if n := len(s.CredentialSignals); n > 0 {
		team += min(w.CredentialCap, n*w.CredentialBonus)
	}
	if n := len(s.GritSignals); n > 0 {
		team += min(w.GritCap, n*w.GritBonus)
	}
	team = min(w.TeamCap, team)

	product := 0
	if s.IsLaunched {
		product += w.LaunchedBonus
	}
	if s.HasDemo {
		product += w.DemoBonus
	}
	product = min(w.ProductCap, product)

	return Components{
		Team:     team,
		Traction: traction,
		Market:   market,
		Product:  product,
		Vision:   vision,
	}
}

// scoreTierB returns the coarse component split for a blended tier B
// score. The authoritative tier B total comes from tierBTotal, this
// breakdown only has to be plausible next to it.
func scoreTierB(s *signal.Signals, cfg *config.Scoring) Components {
	w := cfg.TierB

	market := cfg.SectorWeightDefault
	if len(s.Sectors) > 0 {
		market = cfg.SectorWeight(s.Sectors[0])
	}
	market = min(w.MarketCap, market)

	traction := w.TractionBase
	if s.IsLaunched {
		traction = w.TractionLaunched
	}

	team := w.TeamBase
	if s.HasTechnicalCofounder {
		team = w.TeamCofounder
	}

	product := w.ProductBase
	if s.IsLaunched {
		product = w.ProductLaunched
	}
	if s.HasDemo {
		product += w.ProductDemo
	}

	return Components{
		Team:     team,
		Traction: traction,
		Market:   market,
		Product:  product,
		Vision:   w.Vision,
	}
}

// tierBTotal blends one base score with additive per-signal bonuses.
// Sector strength can only raise the base, never stack.
func tierBTotal(s *signal.Signals, cfg *config.Scoring) int {
	w := cfg.TierB
	base := float64(w.Base)

	for _, sector := range s.Sectors {
		weight := 0
		if v, ok := cfg.SectorWeights[sector]; ok {
			weight = v
		}
		base = math.Max(base, float64(w.Base)+float64(weight)/2)
	}

	if s.IsLaunched {
		base += float64(w.LaunchedBonus)
	}
	if s.HasDemo {
		base += float64(w.DemoBonus)
	}
	if s.HasCustomers {
		base += float64(w.CustomersBonus)
	}
	if s.HasTechnicalCofounder {
		base += float64(w.TechCofounderBonus)
	}
	if len(s.TeamSignals) > 0 {
		base += float64(w.TeamSignalBonus)
	}

	return min(TierB.Cap(), int(math.Round(base)))
}

// tierCComponents are fixed: no usable evidence yields the same minimal
// values for everyone, summing to exactly the tier C cap.
func tierCComponents() Components {
	return Components{
		Team:     6,
		Traction: 8,
		Market:   10,
		Product:  6,
		Vision:   10,
	}
}
