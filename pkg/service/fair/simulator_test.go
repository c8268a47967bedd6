package fair_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/service/fair"
)

func testSimulationInput(iterations int) model.SimulationInput {
	return model.SimulationInput{
		AssetValue:           1000000,
		ThreatEventFrequency: model.Interval{Min: 1, Max: 10},
		Vulnerability:        model.Interval{Min: 0.1, Max: 0.9},
		LossMagnitude:        model.Interval{Min: 10000, Max: 100000},
		Iterations:           iterations,
	}
}

func TestSimulate(t *testing.T) {
	t.Run("fixed seed is repeatable", func(t *testing.T) {
		ctx := context.Background()
		input := testSimulationInput(10000)

		r1, err := fair.Simulate(ctx, input, fair.WithSeed(42))
		gt.NoError(t, err).Required()
		r2, err := fair.Simulate(ctx, input, fair.WithSeed(42))
		gt.NoError(t, err).Required()

		gt.Value(t, *r1).Equal(*r2)

		r3, err := fair.Simulate(ctx, input, fair.WithSeed(43))
		gt.NoError(t, err).Required()
		gt.Bool(t, *r1 == *r3).False()
	})

	t.Run("bucket counts sum to iteration count", func(t *testing.T) {
		ctx := context.Background()
		const n = 10001

		result, err := fair.Simulate(ctx, testSimulationInput(n), fair.WithSeed(7))
		gt.NoError(t, err).Required()

		gt.Number(t, result.Iterations).Equal(n)
		gt.Number(t, result.RiskDistribution.Total()).Equal(n)
	})

	t.Run("percentiles are monotonic within min and max", func(t *testing.T) {
		ctx := context.Background()

		result, err := fair.Simulate(ctx, testSimulationInput(5000), fair.WithSeed(11))
		gt.NoError(t, err).Required()

		p := result.Percentiles
		ordered := []float64{
			result.MinALE,
			p.P10, p.P25, p.P50, p.P75, p.P90, p.P95, p.P99,
			result.MaxALE,
		}
		for i := 1; i < len(ordered); i++ {
			if ordered[i-1] > ordered[i] {
				t.Errorf("percentile ordering violated at index %d: %v > %v", i, ordered[i-1], ordered[i])
			}
		}

		gt.Value(t, result.Confidence95.Lower <= result.Confidence95.Upper).Equal(true)
	})

	t.Run("degenerate intervals yield constant outcome", func(t *testing.T) {
		ctx := context.Background()
		const n = 1000

		result, err := fair.Simulate(ctx, model.SimulationInput{
			AssetValue:           1000000,
			ThreatEventFrequency: model.Interval{Min: 5, Max: 5},
			Vulnerability:        model.Interval{Min: 0.5, Max: 0.5},
			LossMagnitude:        model.Interval{Min: 20000, Max: 20000},
			Iterations:           n,
		})
		gt.NoError(t, err).Required()

		// Every outcome is 5 * 0.5 * 20000 = 50000
		gt.Value(t, result.MeanALE).Equal(50000.0)
		gt.Value(t, result.MedianALE).Equal(50000.0)
		gt.Value(t, result.MinALE).Equal(50000.0)
		gt.Value(t, result.MaxALE).Equal(50000.0)
		gt.Value(t, result.StdDev).Equal(0.0)
		gt.Value(t, result.Percentiles.P10).Equal(50000.0)
		gt.Value(t, result.Percentiles.P99).Equal(50000.0)
		gt.Number(t, result.RiskDistribution.High).Equal(n)
		gt.Number(t, result.RiskDistribution.Low).Equal(0)
		gt.Number(t, result.RiskDistribution.Medium).Equal(0)
		gt.Number(t, result.RiskDistribution.Critical).Equal(0)
	})

	t.Run("samples stay within their intervals", func(t *testing.T) {
		ctx := context.Background()
		input := testSimulationInput(5000)

		result, err := fair.Simulate(ctx, input, fair.WithSeed(3))
		gt.NoError(t, err).Required()

		maxALE := input.ThreatEventFrequency.Max * input.Vulnerability.Max * input.LossMagnitude.Max
		minALE := input.ThreatEventFrequency.Min * input.Vulnerability.Min * input.LossMagnitude.Min
		gt.Bool(t, result.MinALE >= minALE).True()
		gt.Bool(t, result.MaxALE <= maxALE).True()
	})

	t.Run("mean of wide uniform run is plausible", func(t *testing.T) {
		ctx := context.Background()

		// E[ALE] = E[tef] * E[vuln] * E[loss] = 5.5 * 0.5 * 55000 = 151250
		result, err := fair.Simulate(ctx, testSimulationInput(200000), fair.WithSeed(1))
		gt.NoError(t, err).Required()

		expected := 5.5 * 0.5 * 55000
		if math.Abs(result.MeanALE-expected) > expected*0.05 {
			t.Errorf("mean ALE %v deviates more than 5%% from expected %v", result.MeanALE, expected)
		}
	})

	t.Run("zero iterations fails", func(t *testing.T) {
		_, err := fair.Simulate(context.Background(), testSimulationInput(0))
		gt.Value(t, err).NotNil()
		gt.Bool(t, goerr.HasTag(err, types.TagInvalidArgument)).True()
	})

	t.Run("inverted range fails", func(t *testing.T) {
		input := testSimulationInput(100)
		input.ThreatEventFrequency = model.Interval{Min: 10, Max: 1}

		_, err := fair.Simulate(context.Background(), input)
		gt.Value(t, err).NotNil()
		gt.Bool(t, goerr.HasTag(err, types.TagInvalidArgument)).True()
	})

	t.Run("canceled context aborts the run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fair.Simulate(ctx, testSimulationInput(100000), fair.WithBatchSize(64))
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, context.Canceled)).True()
	})

	t.Run("single iteration", func(t *testing.T) {
		result, err := fair.Simulate(context.Background(), testSimulationInput(1), fair.WithSeed(9))
		gt.NoError(t, err).Required()

		gt.Number(t, result.Iterations).Equal(1)
		gt.Value(t, result.MeanALE).Equal(result.MedianALE)
		gt.Value(t, result.MinALE).Equal(result.MaxALE)
		gt.Value(t, result.StdDev).Equal(0.0)
		gt.Number(t, result.RiskDistribution.Total()).Equal(1)
	})
}
