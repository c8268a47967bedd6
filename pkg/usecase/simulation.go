package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/model/config"
	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/service/fair"
)

type SimulationUseCase struct {
	cfg config.SimulationConfig
}

func NewSimulationUseCase(cfg config.SimulationConfig) *SimulationUseCase {
	return &SimulationUseCase{
		cfg: cfg,
	}
}

// DefaultIterations returns the iteration count callers should use when a
// request leaves it unspecified. Defaulting is a boundary concern: an
// explicit iteration count of 0 is still rejected by the simulator.
func (uc *SimulationUseCase) DefaultIterations() int {
	return uc.cfg.DefaultIterations
}

// Run executes a Monte Carlo simulation with the service-level iteration
// bound applied. Results are rounded for presentation and never persisted.
func (uc *SimulationUseCase) Run(ctx context.Context, input model.SimulationInput, opts ...fair.SimulateOption) (*model.SimulationResult, error) {
	if uc.cfg.MaxIterations > 0 && input.Iterations > uc.cfg.MaxIterations {
		return nil, goerr.New("iteration count exceeds the configured maximum",
			goerr.V("iterations", input.Iterations),
			goerr.V("max", uc.cfg.MaxIterations),
			goerr.T(types.TagInvalidArgument))
	}

	result, err := fair.Simulate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}

	rounded := result.Rounded()
	return &rounded, nil
}
