package fair_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/service/fair"
)

func almostEqual(t *testing.T, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > 1e-6 {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("concrete scenario", func(t *testing.T) {
		metrics, err := fair.Evaluate(model.RiskInput{
			AssetValue:           1000000,
			ThreatEventFrequency: 6,
			Vulnerability:        0.3,
			LossMagnitude:        75000,
		})
		gt.NoError(t, err).Required()

		almostEqual(t, metrics.LossEventFrequency, 1.8)
		almostEqual(t, metrics.SingleLossExpectancy, 75000)
		almostEqual(t, metrics.AnnualLossExpectancy, 135000)
		almostEqual(t, metrics.RiskExposurePercentage, 13.5)
		gt.Value(t, metrics.RiskLevel).Equal(types.RiskLevelHigh)
	})

	t.Run("formula identities", func(t *testing.T) {
		input := model.RiskInput{
			AssetValue:           250000,
			ThreatEventFrequency: 3.7,
			Vulnerability:        0.42,
			LossMagnitude:        8100,
		}
		metrics, err := fair.Evaluate(input)
		gt.NoError(t, err).Required()

		almostEqual(t, metrics.LossEventFrequency, input.ThreatEventFrequency*input.Vulnerability)
		almostEqual(t, metrics.AnnualLossExpectancy, metrics.LossEventFrequency*input.LossMagnitude)
	})

	t.Run("risk level boundaries", func(t *testing.T) {
		// TEF=1 and vulnerability=1 make ALE equal the loss magnitude
		cases := []struct {
			ale      float64
			expected types.RiskLevel
		}{
			{9999.99, types.RiskLevelLow},
			{10000, types.RiskLevelMedium},
			{49999.99, types.RiskLevelMedium},
			{50000, types.RiskLevelHigh},
			{199999.99, types.RiskLevelHigh},
			{200000, types.RiskLevelCritical},
		}
		for _, tc := range cases {
			metrics, err := fair.Evaluate(model.RiskInput{
				AssetValue:           1000000,
				ThreatEventFrequency: 1,
				Vulnerability:        1,
				LossMagnitude:        tc.ale,
			})
			gt.NoError(t, err).Required()
			gt.Value(t, metrics.RiskLevel).Equal(tc.expected)
		}
	})

	t.Run("zero asset value fails", func(t *testing.T) {
		_, err := fair.Evaluate(model.RiskInput{
			AssetValue:           0,
			ThreatEventFrequency: 1,
			Vulnerability:        0.5,
			LossMagnitude:        1000,
		})
		gt.Value(t, err).NotNil()
		gt.Bool(t, goerr.HasTag(err, types.TagInvalidArgument)).True()
	})

	t.Run("negative asset value fails", func(t *testing.T) {
		_, err := fair.Evaluate(model.RiskInput{
			AssetValue:           -500,
			ThreatEventFrequency: 1,
			Vulnerability:        0.5,
			LossMagnitude:        1000,
		})
		gt.Value(t, err).NotNil()
		gt.Bool(t, goerr.HasTag(err, types.TagInvalidArgument)).True()
	})

	t.Run("out-of-range vulnerability propagates unclamped", func(t *testing.T) {
		metrics, err := fair.Evaluate(model.RiskInput{
			AssetValue:           100000,
			ThreatEventFrequency: 2,
			Vulnerability:        1.5,
			LossMagnitude:        1000,
		})
		gt.NoError(t, err).Required()
		almostEqual(t, metrics.LossEventFrequency, 3.0)
		almostEqual(t, metrics.AnnualLossExpectancy, 3000)
	})
}
