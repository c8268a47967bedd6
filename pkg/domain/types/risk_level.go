package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// RiskLevel represents a qualitative risk classification derived from
// Annual Loss Expectancy
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelCritical RiskLevel = "Critical"
)

// ALE thresholds in currency units. Each level covers a half-open interval
// [lower, upper) so the four levels partition the non-negative real line.
const (
	ThresholdMedium   = 10000.0
	ThresholdHigh     = 50000.0
	ThresholdCritical = 200000.0
)

// RiskLevelOf classifies an Annual Loss Expectancy into a risk level
func RiskLevelOf(ale float64) RiskLevel {
	switch {
	case ale < ThresholdMedium:
		return RiskLevelLow
	case ale < ThresholdHigh:
		return RiskLevelMedium
	case ale < ThresholdCritical:
		return RiskLevelHigh
	default:
		return RiskLevelCritical
	}
}

// Color returns the display color associated with the risk level
func (l RiskLevel) Color() string {
	switch l {
	case RiskLevelLow:
		return "green"
	case RiskLevelMedium:
		return "yellow"
	case RiskLevelHigh:
		return "orange"
	case RiskLevelCritical:
		return "red"
	default:
		return ""
	}
}

// Priority returns the response priority tag associated with the risk level
func (l RiskLevel) Priority() string {
	switch l {
	case RiskLevelLow:
		return "P4"
	case RiskLevelMedium:
		return "P3"
	case RiskLevelHigh:
		return "P2"
	case RiskLevelCritical:
		return "P1"
	default:
		return ""
	}
}

// Validate checks if the RiskLevel is one of the known levels
func (l RiskLevel) Validate() error {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return nil
	default:
		return goerr.New("unknown risk level", goerr.V("level", string(l)))
	}
}

// String returns the string representation of RiskLevel
func (l RiskLevel) String() string {
	return string(l)
}
