// Package fair implements the FAIR (Factor Analysis of Information Risk)
// calculation engine: a deterministic formula evaluator and a Monte Carlo
// simulator over ranged inputs. Both are pure computations over immutable
// inputs and safe for concurrent use without synchronization.
package fair

import (
	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
)

// Evaluate converts the four FAIR factors into the derived metric set:
//
//	LEF = TEF x Vulnerability
//	SLE = LossMagnitude
//	ALE = LEF x SLE
//
// The asset value must be positive. Vulnerability outside [0, 1] is not
// rejected or clamped; it propagates arithmetically.
func Evaluate(input model.RiskInput) (*model.RiskMetrics, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	lef := input.ThreatEventFrequency * input.Vulnerability
	ale := lef * input.LossMagnitude

	var exposure float64
	if input.AssetValue > 0 {
		exposure = ale / input.AssetValue * 100
	}

	return &model.RiskMetrics{
		AssetValue:           input.AssetValue,
		ThreatEventFrequency: input.ThreatEventFrequency,
		Vulnerability:        input.Vulnerability,
		LossMagnitude:        input.LossMagnitude,

		LossEventFrequency:     lef,
		SingleLossExpectancy:   input.LossMagnitude,
		AnnualLossExpectancy:   ale,
		RiskExposurePercentage: exposure,
		RiskLevel:              types.RiskLevelOf(ale),
	}, nil
}
