package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/tyche/pkg/service/report"
	"github.com/secmon-lab/tyche/pkg/utils/async"
)

type ReportUseCase struct {
	generator *report.Generator
}

func NewReportUseCase(generator *report.Generator) *ReportUseCase {
	return &ReportUseCase{
		generator: generator,
	}
}

// Generate renders a PDF report and returns its file path. Old reports
// beyond the retention count are pruned in the background.
func (uc *ReportUseCase) Generate(ctx context.Context, data *report.Data) (string, error) {
	path, err := uc.generator.Generate(ctx, data)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate report")
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.generator.Prune(ctx)
	})

	return path, nil
}
