package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/model/config"
	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/repository/memory"
	"github.com/secmon-lab/tyche/pkg/service/fair"
	"github.com/secmon-lab/tyche/pkg/usecase"
)

func TestSimulationUseCase_Run(t *testing.T) {
	t.Run("run returns rounded result", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		result, err := uc.Simulation.Run(ctx, model.SimulationInput{
			AssetValue:           1000000,
			ThreatEventFrequency: model.Interval{Min: 5, Max: 5},
			Vulnerability:        model.Interval{Min: 0.5, Max: 0.5},
			LossMagnitude:        model.Interval{Min: 20000, Max: 20000},
			Iterations:           100,
		}, fair.WithSeed(42))
		gt.NoError(t, err).Required()

		gt.Number(t, result.Iterations).Equal(100)
		gt.Value(t, result.MeanALE).Equal(50000.0)
		gt.Number(t, result.RiskDistribution.High).Equal(100)
	})

	t.Run("iteration bound is enforced", func(t *testing.T) {
		cfg := config.Default()
		cfg.Simulation.MaxIterations = 1000
		uc := usecase.New(memory.New(), usecase.WithAppConfig(cfg))
		ctx := context.Background()

		_, err := uc.Simulation.Run(ctx, model.SimulationInput{
			AssetValue:           1000000,
			ThreatEventFrequency: model.Interval{Min: 1, Max: 10},
			Vulnerability:        model.Interval{Min: 0.1, Max: 0.9},
			LossMagnitude:        model.Interval{Min: 10000, Max: 100000},
			Iterations:           1001,
		})
		gt.Value(t, err).NotNil()
		gt.Bool(t, goerr.HasTag(err, types.TagInvalidArgument)).True()
	})

	t.Run("default iterations come from config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Simulation.DefaultIterations = 2500
		uc := usecase.New(memory.New(), usecase.WithAppConfig(cfg))

		gt.Number(t, uc.Simulation.DefaultIterations()).Equal(2500)
	})

	t.Run("zero iterations is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Simulation.Run(ctx, model.SimulationInput{
			AssetValue:           1000000,
			ThreatEventFrequency: model.Interval{Min: 1, Max: 10},
			Vulnerability:        model.Interval{Min: 0.1, Max: 0.9},
			LossMagnitude:        model.Interval{Min: 10000, Max: 100000},
			Iterations:           0,
		})
		gt.Value(t, err).NotNil()
		gt.Bool(t, goerr.HasTag(err, types.TagInvalidArgument)).True()
	})
}
