package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scoring is the versioned weight and threshold configuration consumed by
// the scorer, the aggregator, and the distribution monitor. All tunables
// live here so calibration experiments can run against multiple
// configurations side by side instead of mutating package constants.
type Scoring struct {
	Version string `json:"version" yaml:"version"`

	// SectorWeights maps a detected sector to its market weight.
	SectorWeights map[string]int `json:"sector_weights" yaml:"sectorWeights"`

	// SectorWeightDefault applies to sectors missing from the table.
	SectorWeightDefault int `json:"sector_weight_default" yaml:"sectorWeightDefault"`

	TierA TierAWeights `json:"tier_a" yaml:"tierA"`
	TierB TierBWeights `json:"tier_b" yaml:"tierB"`

	// MaterialDelta is the minimum score change a batch rescore persists.
	MaterialDelta float64 `json:"material_delta" yaml:"materialDelta"`

	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`
}

// TierAWeights holds the per-component bonus table used when rich data is
// available. Component caps sum past 100 on purpose, the composite clamp
// is the tier cap.
type TierAWeights struct {
	VisionBase         int `json:"vision_base" yaml:"visionBase"`
	ProblemBonus       int `json:"problem_bonus" yaml:"problemBonus"`
	VisionBonus        int `json:"vision_bonus" yaml:"visionBonus"`
	VisionCap          int `json:"vision_cap" yaml:"visionCap"`
	MarketSectorBonus  int `json:"market_sector_bonus" yaml:"marketSectorBonus"`
	MarketCap          int `json:"market_cap" yaml:"marketCap"`
	RevenueBonus       int `json:"revenue_bonus" yaml:"revenueBonus"`
	CustomersBonus     int `json:"customers_bonus" yaml:"customersBonus"`
	CustomerCountBonus int `json:"customer_count_bonus" yaml:"customerCountBonus"`
	CustomerCountMin   int `json:"customer_count_min" yaml:"customerCountMin"`
	GrowthBonus        int `json:"growth_bonus" yaml:"growthBonus"`

	// Funding bonuses keyed on the extracted amount in dollars.
	FundingMajorAmount float64 `json:"funding_major_amount" yaml:"fundingMajorAmount"`
	FundingMajorBonus  int     `json:"funding_major_bonus" yaml:"fundingMajorBonus"`
	FundingMinorAmount float64 `json:"funding_minor_amount" yaml:"fundingMinorAmount"`
	FundingMinorBonus  int     `json:"funding_minor_bonus" yaml:"fundingMinorBonus"`
	TractionCap        int     `json:"traction_cap" yaml:"tractionCap"`

	TechCofounderBonus int `json:"tech_cofounder_bonus" yaml:"techCofounderBonus"`
	CredentialBonus    int `json:"credential_bonus" yaml:"credentialBonus"`
	CredentialCap      int `json:"credential_cap" yaml:"credentialCap"`
	GritBonus          int `json:"grit_bonus" yaml:"gritBonus"`
	GritCap            int `json:"grit_cap" yaml:"gritCap"`
	TeamCap            int `json:"team_cap" yaml:"teamCap"`

	LaunchedBonus int `json:"launched_bonus" yaml:"launchedBonus"`
	DemoBonus     int `json:"demo_bonus" yaml:"demoBonus"`
	ProductCap    int `json:"product_cap" yaml:"productCap"`

	// QualityBonus applies only when the raw pre-bonus sum reaches
	// QualityBonusAt.
	QualityBonusAt int `json:"quality_bonus_at" yaml:"qualityBonusAt"`
	QualityBonus   int `json:"quality_bonus" yaml:"qualityBonus"`
}

// TierBWeights holds the single blended score used when only soft signals
// are available, plus the coarse component split displayed next to it.
type TierBWeights struct {
	Base               int `json:"base" yaml:"base"`
	LaunchedBonus      int `json:"launched_bonus" yaml:"launchedBonus"`
	DemoBonus          int `json:"demo_bonus" yaml:"demoBonus"`
	CustomersBonus     int `json:"customers_bonus" yaml:"customersBonus"`
	TechCofounderBonus int `json:"tech_cofounder_bonus" yaml:"techCofounderBonus"`
	TeamSignalBonus    int `json:"team_signal_bonus" yaml:"teamSignalBonus"`

	// Component split values. The blended total stays authoritative,
	// these only shape the per-component breakdown.
	MarketCap        int `json:"market_cap" yaml:"marketCap"`
	TractionBase     int `json:"traction_base" yaml:"tractionBase"`
	TractionLaunched int `json:"traction_launched" yaml:"tractionLaunched"`
	TeamBase         int `json:"team_base" yaml:"teamBase"`
	TeamCofounder    int `json:"team_cofounder" yaml:"teamCofounder"`
	ProductBase      int `json:"product_base" yaml:"productBase"`
	ProductLaunched  int `json:"product_launched" yaml:"productLaunched"`
	ProductDemo      int `json:"product_demo" yaml:"productDemo"`
	Vision           int `json:"vision" yaml:"vision"`
}

// Thresholds bound the acceptable population score distribution.
type Thresholds struct {
	TargetMin float64 `json:"target_min" yaml:"targetMin"`
	TargetMax float64 `json:"target_max" yaml:"targetMax"`
	HardLow   float64 `json:"hard_low" yaml:"hardLow"`
	HardHigh  float64 `json:"hard_high" yaml:"hardHigh"`

	// Standard deviation bounds for differentiation checks.
	StdDevLow  float64 `json:"std_dev_low" yaml:"stdDevLow"`
	StdDevHigh float64 `json:"std_dev_high" yaml:"stdDevHigh"`

	// Bounds on the strong+elite share of the population, in percent.
	StrongShareLow  float64 `json:"strong_share_low" yaml:"strongShareLow"`
	StrongShareHigh float64 `json:"strong_share_high" yaml:"strongShareHigh"`
}

// DefaultScoring returns the canonical weight table.
func DefaultScoring() *Scoring {
	return &Scoring{
		Version: "v1",
		SectorWeights: map[string]int{
			"AI/ML":         15,
			"FinTech":       12,
			"HealthTech":    12,
			"CleanTech":     10,
			"DevTools":      10,
			"SaaS":          8,
			"Cybersecurity": 8,
			"E-Commerce":    6,
			"LegalTech":     6,
			"Gaming":        5,
		},
		SectorWeightDefault: 5,
		TierA: TierAWeights{
			VisionBase:         5,
			ProblemBonus:       10,
			VisionBonus:        10,
			VisionCap:          25,
			MarketSectorBonus:  5,
			MarketCap:          25,
			RevenueBonus:       15,
			CustomersBonus:     8,
			CustomerCountBonus: 5,
			CustomerCountMin:   10,
			GrowthBonus:        5,
			FundingMajorAmount: 10_000_000,
			FundingMajorBonus:  10,
			FundingMinorAmount: 1_000_000,
			FundingMinorBonus:  5,
			TractionCap:        25,
			TechCofounderBonus: 10,
			CredentialBonus:    3,
			CredentialCap:      10,
			GritBonus:          2,
			GritCap:            5,
			TeamCap:            25,
			LaunchedBonus:      15,
			DemoBonus:          5,
			ProductCap:         20,
			QualityBonusAt:     60,
			QualityBonus:       5,
		},
		TierB: TierBWeights{
			Base:               40,
			LaunchedBonus:      4,
			DemoBonus:          2,
			CustomersBonus:     3,
			TechCofounderBonus: 2,
			TeamSignalBonus:    2,
			MarketCap:          20,
			TractionBase:       8,
			TractionLaunched:   15,
			TeamBase:           8,
			TeamCofounder:      15,
			ProductBase:        5,
			ProductLaunched:    10,
			ProductDemo:        5,
			Vision:             12,
		},
		MaterialDelta: 1.0,
		Thresholds: Thresholds{
			TargetMin:       55,
			TargetMax:       65,
			HardLow:         48,
			HardHigh:        70,
			StdDevLow:       10,
			StdDevHigh:      20,
			StrongShareLow:  5,
			StrongShareHigh: 20,
		},
	}
}

// SectorWeight returns the weight for a sector, falling back to the
// configured default for sectors missing from the table.
func (s *Scoring) SectorWeight(sector string) int {
	if w, ok := s.SectorWeights[sector]; ok {
		return w
	}
	return s.SectorWeightDefault
}

// Load reads a scoring configuration from a YAML file, applied over the
// defaults so partial files only override what they name.
func Load(path string) (*Scoring, error) {
	if path == "" {
		return DefaultScoring(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	s := DefaultScoring()
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return s, nil
}

// Validate rejects configurations that would make scoring nonsensical.
func (s *Scoring) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("version is required")
	}
	if s.MaterialDelta < 0 {
		return fmt.Errorf("materialDelta must not be negative")
	}
	t := s.Thresholds
	if t.HardLow > t.TargetMin || t.TargetMin > t.TargetMax || t.TargetMax > t.HardHigh {
		return fmt.Errorf("thresholds must be ordered hardLow <= targetMin <= targetMax <= hardHigh")
	}
	return nil
}
