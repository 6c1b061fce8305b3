package scoring

import "github.com/pythlabs/godscore/pkg/signal"

// Tier is the confidence level assigned to a scoring pass based on how
// much corroborating evidence the extractor found. The tier caps the
// maximum achievable composite score.
type Tier string

const (
	// TierA means rich data: hard numbers or several execution signals.
	TierA Tier = "A"
	// TierB means soft signals only: sector, team, or launch evidence.
	TierB Tier = "B"
	// TierC means no usable evidence.
	TierC Tier = "C"

	// Execution signals required before soft evidence counts as rich.
	tierAExecutionMin = 3
)

// Cap returns the maximum composite score achievable at this tier.
func (t Tier) Cap() int {
	switch t {
	case TierA:
		return 100
	case TierB:
		return 55
	default:
		return 40
	}
}

// Classify assigns a data tier from extracted signals. It is a total
// function: any input, including nil, maps to a tier.
func Classify(s *signal.Signals) Tier {
	if s == nil {
		return TierC
	}

	rich := s.FundingAmount > 0 ||
		s.CustomerCount > 0 ||
		s.HasRevenue ||
		len(s.ExecutionSignals) >= tierAExecutionMin
	if rich {
		return TierA
	}

	soft := len(s.Sectors) > 0 ||
		len(s.TeamSignals) > 0 ||
		s.IsLaunched ||
		s.HasCustomers
	if soft {
		return TierB
	}

	return TierC
}
