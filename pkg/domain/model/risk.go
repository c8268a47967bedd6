package model

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/tyche/pkg/domain/types"
)

// RiskInput holds the four FAIR factors for a single deterministic
// evaluation. Values are immutable once constructed.
//
// Vulnerability is a probability and expected to be within [0, 1], but it is
// intentionally not clamped: out-of-range values propagate arithmetically.
type RiskInput struct {
	AssetValue           float64
	ThreatEventFrequency float64
	Vulnerability        float64
	LossMagnitude        float64
}

// Validate checks the evaluation preconditions
func (x RiskInput) Validate() error {
	if x.AssetValue <= 0 {
		return goerr.New("asset value must be greater than 0",
			goerr.V("asset_value", x.AssetValue),
			goerr.T(types.TagInvalidArgument))
	}
	return nil
}

// RiskMetrics is the derived FAIR metric set. It is a read-only record
// computed by the evaluator; RiskLevel carries the color and priority tags
// via its methods.
type RiskMetrics struct {
	AssetValue           float64
	ThreatEventFrequency float64
	Vulnerability        float64
	LossMagnitude        float64

	LossEventFrequency     float64
	SingleLossExpectancy   float64
	AnnualLossExpectancy   float64
	RiskExposurePercentage float64
	RiskLevel              types.RiskLevel
}

// Rounded returns a copy with presentation rounding applied: two decimal
// places for currency amounts and percentages, three for rates and
// probabilities. Rounding is a boundary concern and never feeds back into
// the calculation.
func (m RiskMetrics) Rounded() RiskMetrics {
	return RiskMetrics{
		AssetValue:           round2(m.AssetValue),
		ThreatEventFrequency: round2(m.ThreatEventFrequency),
		Vulnerability:        round3(m.Vulnerability),
		LossMagnitude:        round2(m.LossMagnitude),

		LossEventFrequency:     round3(m.LossEventFrequency),
		SingleLossExpectancy:   round2(m.SingleLossExpectancy),
		AnnualLossExpectancy:   round2(m.AnnualLossExpectancy),
		RiskExposurePercentage: round2(m.RiskExposurePercentage),
		RiskLevel:              m.RiskLevel,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
