package report

import (
	"time"

	"github.com/secmon-lab/tyche/pkg/domain/model"
)

// Data is everything a report renders: the deterministic metric set and an
// optional Monte Carlo section.
type Data struct {
	Metrics     *model.RiskMetrics
	Simulation  *model.SimulationResult
	GeneratedAt time.Time
}
