package calibration

import (
	"fmt"
	"time"
)

const (
	// ActionInsufficientData means no investment outcomes exist yet.
	ActionInsufficientData = "INSUFFICIENT_DATA"
	// ActionScoresTooHigh means invested startups average above the band.
	ActionScoresTooHigh = "SCORES_TOO_HIGH"
	// ActionScoresTooLow means invested startups average below the band.
	ActionScoresTooLow = "SCORES_TOO_LOW"
	// ActionPoorDifferentiation means winners and losers score alike.
	ActionPoorDifferentiation = "POOR_DIFFERENTIATION"
	// ActionSystemWorkingWell means the score separates outcomes.
	ActionSystemWorkingWell = "SYSTEM_WORKING_WELL"

	// qualityCutoff marks an outcome as a success.
	qualityCutoff = 0.6

	investedHighBand = 85.0
	investedLowBand  = 60.0
	separationMin    = 10.0
)

// Sample pairs a historical score with the outcome observed after the
// match was made.
type Sample struct {
	GodScore       int     `json:"god_score" yaml:"godScore" db:"god_score"`
	Outcome        string  `json:"outcome" yaml:"outcome" db:"outcome"`
	OutcomeQuality float64 `json:"outcome_quality" yaml:"outcomeQuality" db:"outcome_quality"`
}

// Success reports whether the observed outcome quality clears the cutoff.
func (s Sample) Success() bool {
	return s.OutcomeQuality >= qualityCutoff
}

// Bucket aggregates outcomes for one score range.
type Bucket struct {
	Label          string  `json:"label" yaml:"label"`
	Low            int     `json:"low" yaml:"low"`
	High           int     `json:"high" yaml:"high"`
	Total          int     `json:"total" yaml:"total"`
	Successes      int     `json:"successes" yaml:"successes"`
	Invested       int     `json:"invested" yaml:"invested"`
	AvgQuality     float64 `json:"avg_quality" yaml:"avgQuality"`
	SuccessRate    float64 `json:"success_rate" yaml:"successRate"`
	InvestmentRate float64 `json:"investment_rate" yaml:"investmentRate"`

	qualitySum float64
}

// Recommendation is the single calibration verdict for a sample set.
type Recommendation struct {
	Action     string  `json:"action" yaml:"action"`
	Reasoning  string  `json:"reasoning" yaml:"reasoning"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Analysis is the full calibration report.
type Analysis struct {
	GeneratedAt    time.Time      `json:"generated_at" yaml:"generatedAt"`
	SampleCount    int            `json:"sample_count" yaml:"sampleCount"`
	InvestedCount  int            `json:"invested_count" yaml:"investedCount"`
	InvestedAvg    float64        `json:"invested_avg" yaml:"investedAvg"`
	PassedAvg      float64        `json:"passed_avg" yaml:"passedAvg"`
	Separation     float64        `json:"separation" yaml:"separation"`
	Buckets        []Bucket       `json:"buckets" yaml:"buckets"`
	Recommendation Recommendation `json:"recommendation" yaml:"recommendation"`
}

// bucketRanges are inclusive on both ends, first bucket catches the floor.
var bucketRanges = []struct {
	low, high int
}{
	{0, 50},
	{51, 60},
	{61, 70},
	{71, 80},
	{81, 90},
	{91, 100},
}

// Analyze runs the calibration pass over historical samples. Pure: it
// reads nothing but its arguments and always returns exactly one
// recommendation.
func Analyze(samples []Sample) *Analysis {
	a := &Analysis{
		GeneratedAt: time.Now().UTC(),
		SampleCount: len(samples),
		Buckets:     makeBuckets(),
	}

	var investedSum, passedSum float64
	var passedCount int

	for _, s := range samples {
		for i := range a.Buckets {
			b := &a.Buckets[i]
			if s.GodScore >= b.Low && s.GodScore <= b.High {
				b.Total++
				b.qualitySum += s.OutcomeQuality
				if s.Success() {
					b.Successes++
				}
				if s.Outcome == "invested" {
					b.Invested++
				}
				break
			}
		}

		switch s.Outcome {
		case "invested":
			a.InvestedCount++
			investedSum += float64(s.GodScore)
		case "passed":
			passedCount++
			passedSum += float64(s.GodScore)
		}
	}

	for i := range a.Buckets {
		if b := &a.Buckets[i]; b.Total > 0 {
			b.AvgQuality = b.qualitySum / float64(b.Total)
			b.SuccessRate = float64(b.Successes) / float64(b.Total)
			b.InvestmentRate = float64(b.Invested) / float64(b.Total)
		}
	}

	if a.InvestedCount > 0 {
		a.InvestedAvg = investedSum / float64(a.InvestedCount)
	}
	if passedCount > 0 {
		a.PassedAvg = passedSum / float64(passedCount)
	}
	if a.InvestedCount > 0 && passedCount > 0 {
		a.Separation = a.InvestedAvg - a.PassedAvg
	}

	a.Recommendation = recommend(a, passedCount)

	return a
}

// recommend applies the calibration rules in priority order, first hit
// wins.
func recommend(a *Analysis, passedCount int) Recommendation {
	if a.InvestedCount == 0 {
		return Recommendation{
			Action:     ActionInsufficientData,
			Reasoning:  "no investment outcomes recorded yet, collect more match outcomes before adjusting weights",
			Confidence: 0,
		}
	}

	// Small invested pools make the averages noisy.
	conf := 0.5
	if a.InvestedCount > 10 {
		conf = 0.8
	}

	if a.InvestedAvg > investedHighBand {
		return Recommendation{
			Action: ActionScoresTooHigh,
			Reasoning: fmt.Sprintf(
				"invested startups average %.1f, above %.0f, the scale is compressed at the top, consider raising the normalization divisor",
				a.InvestedAvg, investedHighBand),
			Confidence: conf,
		}
	}

	if a.InvestedAvg < investedLowBand {
		return Recommendation{
			Action: ActionScoresTooLow,
			Reasoning: fmt.Sprintf(
				"invested startups average %.1f, below %.0f, strong companies are being underscored, consider lowering the normalization divisor",
				a.InvestedAvg, investedLowBand),
			Confidence: conf,
		}
	}

	if passedCount > 0 && a.Separation < separationMin {
		conf = 0.5
		if a.SampleCount > 50 {
			conf = 0.75
		}
		return Recommendation{
			Action: ActionPoorDifferentiation,
			Reasoning: fmt.Sprintf(
				"invested and passed startups score %.1f apart, below the %.0f point minimum, the score is not separating outcomes",
				a.Separation, separationMin),
			Confidence: conf,
		}
	}

	conf = 0.7
	if a.SampleCount > 50 {
		conf = 0.9
	}
	return Recommendation{
		Action: ActionSystemWorkingWell,
		Reasoning: fmt.Sprintf(
			"invested startups average %.1f with %.1f points of separation from passes, no adjustment needed",
			a.InvestedAvg, a.Separation),
		Confidence: conf,
	}
}

func makeBuckets() []Bucket {
	buckets := make([]Bucket, 0, len(bucketRanges))
	for _, r := range bucketRanges {
		buckets = append(buckets, Bucket{
			Label: fmt.Sprintf("%d-%d", r.low, r.high),
			Low:   r.low,
			High:  r.high,
		})
	}
	return buckets
}
