package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
	"github.com/secmon-lab/tyche/pkg/service/fair"
)

func cmdCalc() *cli.Command {
	var assetValue, tef, vuln, loss float64

	return &cli.Command{
		Name:  "calc",
		Usage: "Run a one-shot FAIR risk calculation",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:        "asset-value",
				Usage:       "Value of the asset at risk (currency units)",
				Required:    true,
				Destination: &assetValue,
			},
			&cli.FloatFlag{
				Name:        "tef",
				Usage:       "Threat event frequency (events per year)",
				Required:    true,
				Destination: &tef,
			},
			&cli.FloatFlag{
				Name:        "vulnerability",
				Usage:       "Probability of a threat event becoming a loss event (0-1)",
				Required:    true,
				Destination: &vuln,
			},
			&cli.FloatFlag{
				Name:        "loss-magnitude",
				Usage:       "Expected loss per event (currency units)",
				Required:    true,
				Destination: &loss,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			metrics, err := fair.Evaluate(model.RiskInput{
				AssetValue:           assetValue,
				ThreatEventFrequency: tef,
				Vulnerability:        vuln,
				LossMagnitude:        loss,
			})
			if err != nil {
				return err
			}

			m := metrics.Rounded()
			fmt.Printf("Loss Event Frequency (LEF):   %.3f /year\n", m.LossEventFrequency)
			fmt.Printf("Single Loss Expectancy (SLE): $%.2f\n", m.SingleLossExpectancy)
			fmt.Printf("Annual Loss Expectancy (ALE): $%.2f\n", m.AnnualLossExpectancy)
			fmt.Printf("Risk Exposure:                %.2f%% of asset value\n", m.RiskExposurePercentage)
			fmt.Printf("Risk Level:                   ")
			levelColor(m.RiskLevel).Printf("%s (%s)\n", m.RiskLevel, m.RiskLevel.Priority())

			return nil
		},
	}
}

func levelColor(level types.RiskLevel) *color.Color {
	switch level {
	case types.RiskLevelLow:
		return color.New(color.FgGreen)
	case types.RiskLevelMedium:
		return color.New(color.FgYellow)
	case types.RiskLevelHigh:
		return color.New(color.FgHiRed)
	case types.RiskLevelCritical:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Reset)
	}
}
