package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/tyche/pkg/domain/types"
)

// Interval is a closed range [Min, Max] for a sampled variable. A degenerate
// interval with Min == Max yields a constant.
type Interval struct {
	Min float64
	Max float64
}

// Validate checks that the interval is not inverted
func (x Interval) Validate(name string) error {
	if x.Min > x.Max {
		return goerr.New("interval min must not exceed max",
			goerr.V("name", name),
			goerr.V("min", x.Min),
			goerr.V("max", x.Max),
			goerr.T(types.TagInvalidArgument))
	}
	return nil
}

// Width returns Max - Min
func (x Interval) Width() float64 {
	return x.Max - x.Min
}

// SimulationInput describes a Monte Carlo run: three sampled variables over
// closed intervals, a fixed asset value, and an iteration count.
//
// Unlike RiskInput, the asset value is not required to be positive here:
// exposure percentage is not part of the simulation output.
type SimulationInput struct {
	AssetValue           float64
	ThreatEventFrequency Interval
	Vulnerability        Interval
	LossMagnitude        Interval
	Iterations           int
}

// Validate checks the simulation preconditions
func (x SimulationInput) Validate() error {
	if x.Iterations < 1 {
		return goerr.New("iterations must be at least 1",
			goerr.V("iterations", x.Iterations),
			goerr.T(types.TagInvalidArgument))
	}
	if err := x.ThreatEventFrequency.Validate("threat_event_frequency"); err != nil {
		return err
	}
	if err := x.Vulnerability.Validate("vulnerability"); err != nil {
		return err
	}
	if err := x.LossMagnitude.Validate("loss_magnitude"); err != nil {
		return err
	}
	return nil
}

// Percentiles is the fixed percentile set extracted from the sampled ALE
// distribution.
type Percentiles struct {
	P10 float64
	P25 float64
	P50 float64
	P75 float64
	P90 float64
	P95 float64
	P99 float64
}

// RiskDistribution counts sampled outcomes per risk level. The four counts
// partition all iterations exactly.
type RiskDistribution struct {
	Low      int
	Medium   int
	High     int
	Critical int
}

// Total returns the sum of all bucket counts
func (d RiskDistribution) Total() int {
	return d.Low + d.Medium + d.High + d.Critical
}

// Confidence95 is the 95% empirical interval given by the 2.5th and 97.5th
// percentiles of sampled ALE.
type Confidence95 struct {
	Lower float64
	Upper float64
}

// SimulationResult aggregates the sampled ALE distribution. It is computed
// once per request, never mutated afterward, and not persisted.
type SimulationResult struct {
	Iterations int

	MeanALE   float64
	MedianALE float64
	StdDev    float64
	MinALE    float64
	MaxALE    float64

	Percentiles      Percentiles
	RiskDistribution RiskDistribution
	Confidence95     Confidence95
}

// Rounded returns a copy with currency amounts rounded to two decimal places
func (r SimulationResult) Rounded() SimulationResult {
	out := r
	out.MeanALE = round2(r.MeanALE)
	out.MedianALE = round2(r.MedianALE)
	out.StdDev = round2(r.StdDev)
	out.MinALE = round2(r.MinALE)
	out.MaxALE = round2(r.MaxALE)
	out.Percentiles = Percentiles{
		P10: round2(r.Percentiles.P10),
		P25: round2(r.Percentiles.P25),
		P50: round2(r.Percentiles.P50),
		P75: round2(r.Percentiles.P75),
		P90: round2(r.Percentiles.P90),
		P95: round2(r.Percentiles.P95),
		P99: round2(r.Percentiles.P99),
	}
	out.Confidence95 = Confidence95{
		Lower: round2(r.Confidence95.Lower),
		Upper: round2(r.Confidence95.Upper),
	}
	return out
}
