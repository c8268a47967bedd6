package model

import "time"

// Assessment is a persisted record of a deterministic risk evaluation.
// Simulation results are intentionally never persisted.
type Assessment struct {
	ID        int64
	Name      string
	Input     RiskInput
	Metrics   RiskMetrics
	CreatedAt time.Time
}
