package monitor

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pythlabs/godscore/pkg/config"
)

// Band boundaries over the 0-100 score range, inclusive on both ends.
const (
	weakHigh    = 48
	averageHigh = 64
	solidHigh   = 77
	strongHigh  = 88
)

// Snapshot is the point-in-time shape of the scored population.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Count     int       `json:"count" yaml:"count"`
	Average   float64   `json:"average" yaml:"average"`
	Median    float64   `json:"median" yaml:"median"`
	StdDev    float64   `json:"std_dev" yaml:"stdDev"`
	Min       int       `json:"min" yaml:"min"`
	Max       int       `json:"max" yaml:"max"`

	// Band counts over the whole population.
	Weak        int `json:"weak" yaml:"weak"`
	AverageBand int `json:"average_band" yaml:"averageBand"`
	Solid       int `json:"solid" yaml:"solid"`
	Strong      int `json:"strong" yaml:"strong"`
	Elite       int `json:"elite" yaml:"elite"`
}

// StrongShare returns the strong-plus-elite share of the population in
// percent.
func (s *Snapshot) StrongShare() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Strong+s.Elite) / float64(s.Count) * 100
}

// Report is the monitor output: the snapshot plus the verdict.
type Report struct {
	Snapshot        Snapshot `json:"snapshot" yaml:"snapshot"`
	Alert           bool     `json:"alert" yaml:"alert"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Compute summarizes a score population. An empty population yields a
// zero snapshot, not an error, so the monitor can run on a fresh store.
func Compute(scores []int) Snapshot {
	s := Snapshot{Timestamp: time.Now().UTC(), Count: len(scores)}
	if len(scores) == 0 {
		return s
	}

	sorted := make([]int, len(scores))
	copy(sorted, scores)
	sort.Ints(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]

	var sum float64
	for _, v := range scores {
		sum += float64(v)
		switch {
		case v <= weakHigh:
			s.Weak++
		case v <= averageHigh:
			s.AverageBand++
		case v <= solidHigh:
			s.Solid++
		case v <= strongHigh:
			s.Strong++
		default:
			s.Elite++
		}
	}
	s.Average = sum / float64(len(scores))

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		s.Median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		s.Median = float64(sorted[mid])
	}

	var sq float64
	for _, v := range scores {
		d := float64(v) - s.Average
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(scores)))

	return s
}

// Check evaluates a snapshot against the configured thresholds. Alert
// is raised only when the average breaches a hard bound; everything
// else surfaces as a recommendation.
func Check(s Snapshot, t config.Thresholds) *Report {
	r := &Report{Snapshot: s}
	if s.Count == 0 {
		r.Recommendations = append(r.Recommendations,
			"no scored profiles yet, run a scoring pass before monitoring")
		return r
	}

	switch {
	case s.Average > t.HardHigh:
		r.Alert = true
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"average %.1f is above the hard ceiling %.0f, raise the normalization divisor to pull the distribution down",
			s.Average, t.HardHigh))
	case s.Average < t.HardLow:
		r.Alert = true
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"average %.1f is below the hard floor %.0f, lower the normalization divisor to lift the distribution",
			s.Average, t.HardLow))
	case s.Average > t.TargetMax:
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"average %.1f drifted above the %.0f-%.0f target band, watch for further inflation",
			s.Average, t.TargetMin, t.TargetMax))
	case s.Average < t.TargetMin:
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"average %.1f drifted below the %.0f-%.0f target band, watch for further deflation",
			s.Average, t.TargetMin, t.TargetMax))
	}

	if s.StdDev < t.StdDevLow {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"standard deviation %.1f is under %.0f, scores are bunching and losing differentiation",
			s.StdDev, t.StdDevLow))
	} else if s.StdDev > t.StdDevHigh {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"standard deviation %.1f is over %.0f, scores may be noisier than the evidence supports",
			s.StdDev, t.StdDevHigh))
	}

	share := s.StrongShare()
	if share > t.StrongShareHigh {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"%.1f%% of profiles score strong or above, over the %.0f%% ceiling, the top bands are too easy to reach",
			share, t.StrongShareHigh))
	} else if share < t.StrongShareLow {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf(
			"%.1f%% of profiles score strong or above, under the %.0f%% floor, the top bands may be out of reach",
			share, t.StrongShareLow))
	}

	if len(r.Recommendations) == 0 {
		r.Recommendations = append(r.Recommendations,
			"distribution is inside all configured bounds, no action needed")
	}

	return r
}
