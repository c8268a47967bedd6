package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/tyche/pkg/domain/interfaces"
	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/service/fair"
)

type RiskUseCase struct {
	repo interfaces.Repository
}

func NewRiskUseCase(repo interfaces.Repository) *RiskUseCase {
	return &RiskUseCase{
		repo: repo,
	}
}

// Assess evaluates the FAIR formula for the given input, applies
// presentation rounding, and persists the result as an assessment record.
func (uc *RiskUseCase) Assess(ctx context.Context, name string, input model.RiskInput) (*model.Assessment, error) {
	metrics, err := fair.Evaluate(input)
	if err != nil {
		return nil, err
	}

	assessment := &model.Assessment{
		Name:    name,
		Input:   input,
		Metrics: metrics.Rounded(),
	}

	created, err := uc.repo.Assessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save assessment")
	}

	return created, nil
}

func (uc *RiskUseCase) GetAssessment(ctx context.Context, id int64) (*model.Assessment, error) {
	assessment, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}
	return assessment, nil
}

func (uc *RiskUseCase) ListAssessments(ctx context.Context) ([]*model.Assessment, error) {
	assessments, err := uc.repo.Assessment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}
	return assessments, nil
}

func (uc *RiskUseCase) DeleteAssessment(ctx context.Context, id int64) error {
	if err := uc.repo.Assessment().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}
	return nil
}
