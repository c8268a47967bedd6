package usecase

import (
	"github.com/secmon-lab/tyche/pkg/domain/interfaces"
	"github.com/secmon-lab/tyche/pkg/domain/model/config"
	"github.com/secmon-lab/tyche/pkg/service/report"
)

type UseCases struct {
	repo   interfaces.Repository
	appCfg *config.AppConfig

	Risk       *RiskUseCase
	Simulation *SimulationUseCase
	Report     *ReportUseCase
}

type Option func(*UseCases)

func WithAppConfig(cfg *config.AppConfig) Option {
	return func(uc *UseCases) {
		uc.appCfg = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		appCfg: config.Default(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Risk = NewRiskUseCase(repo)
	uc.Simulation = NewSimulationUseCase(uc.appCfg.Simulation)
	uc.Report = NewReportUseCase(report.New(uc.appCfg.Report))

	return uc
}
