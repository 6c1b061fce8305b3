package signal

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const (
	// MinTextLength is the shortest input the extractor accepts. Anything
	// below this carries too little evidence to pattern-match.
	MinTextLength = 100
)

// ErrTextTooShort is returned when the input text is below MinTextLength.
// Callers should skip the profile or fall back to the lowest data tier.
var ErrTextTooShort = errors.New("text too short for signal extraction")

// Signals are the structured facts heuristically extracted from raw
// profile text. A boolean is true only when an explicit pattern matched;
// a false value means "not evidenced", not "known false".
type Signals struct {
	Sectors []string `json:"sectors,omitempty" yaml:"sectors,omitempty"`

	IsLaunched            bool `json:"is_launched,omitempty" yaml:"isLaunched,omitempty"`
	HasDemo               bool `json:"has_demo,omitempty" yaml:"hasDemo,omitempty"`
	HasCustomers          bool `json:"has_customers,omitempty" yaml:"hasCustomers,omitempty"`
	HasRevenue            bool `json:"has_revenue,omitempty" yaml:"hasRevenue,omitempty"`
	HasTechnicalCofounder bool `json:"has_technical_cofounder,omitempty" yaml:"hasTechnicalCofounder,omitempty"`

	// Numeric estimates, zero when not evidenced.
	FundingAmount float64 `json:"funding_amount,omitempty" yaml:"fundingAmount,omitempty"`
	CustomerCount int64   `json:"customer_count,omitempty" yaml:"customerCount,omitempty"`
	GrowthRate    float64 `json:"growth_rate,omitempty" yaml:"growthRate,omitempty"`

	TeamSignals       []string `json:"team_signals,omitempty" yaml:"teamSignals,omitempty"`
	CredentialSignals []string `json:"credential_signals,omitempty" yaml:"credentialSignals,omitempty"`
	GritSignals       []string `json:"grit_signals,omitempty" yaml:"gritSignals,omitempty"`
	ExecutionSignals  []string `json:"execution_signals,omitempty" yaml:"executionSignals,omitempty"`
	ProblemSignals    []string `json:"problem_signals,omitempty" yaml:"problemSignals,omitempty"`
	VisionSignals     []string `json:"vision_signals,omitempty" yaml:"visionSignals,omitempty"`
}

// Extract runs every rule category over the raw text and returns the
// matched signals. sourceURL is optional and only contributes domain
// hints. The function is pure: no I/O, identical input yields identical
// output. A single malformed numeric token is discarded, it never fails
// the extraction.
func Extract(text, sourceURL string) (*Signals, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinTextLength {
		return nil, fmt.Errorf("%w: got %d characters, need %d", ErrTextTooShort, len(trimmed), MinTextLength)
	}

	s := &Signals{}

	for _, r := range sectorRules {
		if r.Pattern.MatchString(trimmed) {
			s.Sectors = appendUnique(s.Sectors, r.Name, SectorMax)
		}
	}
	if sourceURL != "" && aiDomainRule.MatchString(sourceURL) {
		s.Sectors = appendUnique(s.Sectors, "AI/ML", SectorMax)
	}

	s.IsLaunched = launchedRule.Pattern.MatchString(trimmed)
	s.HasDemo = demoRule.Pattern.MatchString(trimmed)
	s.HasCustomers = customersRule.Pattern.MatchString(trimmed)
	s.HasRevenue = revenueRule.Pattern.MatchString(trimmed)
	s.HasTechnicalCofounder = techCofounderRule.Pattern.MatchString(trimmed)

	for _, r := range credentialRules {
		if r.Pattern.MatchString(trimmed) {
			s.CredentialSignals = appendUnique(s.CredentialSignals, r.Name, len(credentialRules))
			s.TeamSignals = appendUnique(s.TeamSignals, r.Name, len(credentialRules)+1)
		}
	}
	if s.HasTechnicalCofounder {
		s.TeamSignals = appendUnique(s.TeamSignals, techCofounderRule.Name, len(credentialRules)+1)
	}

	for _, r := range gritRules {
		if r.Pattern.MatchString(trimmed) {
			s.GritSignals = appendUnique(s.GritSignals, r.Name, len(gritRules))
		}
	}
	for _, r := range problemRules {
		if r.Pattern.MatchString(trimmed) {
			s.ProblemSignals = appendUnique(s.ProblemSignals, r.Name, len(problemRules))
		}
	}
	for _, r := range visionRules {
		if r.Pattern.MatchString(trimmed) {
			s.VisionSignals = appendUnique(s.VisionSignals, r.Name, len(visionRules))
		}
	}

	s.FundingAmount = extractFunding(trimmed)
	s.CustomerCount = extractCustomerCount(trimmed)
	s.GrowthRate = extractGrowthRate(trimmed)

	if s.IsLaunched {
		s.ExecutionSignals = append(s.ExecutionSignals, launchedRule.Name)
	}
	if s.HasDemo {
		s.ExecutionSignals = append(s.ExecutionSignals, demoRule.Name)
	}
	if s.HasCustomers {
		s.ExecutionSignals = append(s.ExecutionSignals, customersRule.Name)
	}
	if s.HasRevenue {
		s.ExecutionSignals = append(s.ExecutionSignals, revenueRule.Name)
	}

	return s, nil
}

// extractFunding returns the first parseable raise amount in dollars, or
// zero when none is evidenced.
func extractFunding(text string) float64 {
	for _, r := range fundingRules {
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, ok := parseAmount(m[1], m[2])
		if !ok {
			slog.Debug("discarding malformed funding token", "rule", r.Name, "token", m[1])
			continue
		}
		if amount > 0 {
			return amount
		}
	}
	return 0
}

func extractCustomerCount(text string) int64 {
	m := customerCountRule.Pattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	amount, ok := parseAmount(m[1], m[2])
	if !ok {
		slog.Debug("discarding malformed customer count token", "token", m[1])
		return 0
	}
	return int64(amount)
}

func extractGrowthRate(text string) float64 {
	m := growthRateRule.Pattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	rate, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		slog.Debug("discarding malformed growth rate token", "token", m[1])
		return 0
	}
	return rate
}

// parseAmount normalizes a captured number plus unit suffix to an absolute
// value. Malformed numbers report ok=false so the caller can discard just
// this field.
func parseAmount(num, unit string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil || n < 0 {
		return 0, false
	}

	switch strings.ToLower(unit) {
	case "k", "thousand":
		n *= 1_000
	case "m", "mn", "million":
		n *= 1_000_000
	case "b", "billion":
		n *= 1_000_000_000
	}
	return n, true
}

func appendUnique(list []string, val string, max int) []string {
	if len(list) >= max {
		return list
	}
	for _, item := range list {
		if item == val {
			return list
		}
	}
	return append(list, val)
}
