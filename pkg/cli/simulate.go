package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/tyche/pkg/cli/config"
	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/repository/memory"
	"github.com/secmon-lab/tyche/pkg/service/fair"
	"github.com/secmon-lab/tyche/pkg/usecase"
)

func cmdSimulate() *cli.Command {
	var assetValue float64
	var tefMin, tefMax, vulnMin, vulnMax, lossMin, lossMax float64
	var iterations int
	var seed uint
	var appCfg config.App

	flags := []cli.Flag{
		&cli.FloatFlag{
			Name:        "asset-value",
			Usage:       "Value of the asset at risk (currency units)",
			Destination: &assetValue,
		},
		&cli.FloatFlag{
			Name:        "tef-min",
			Usage:       "Minimum threat event frequency",
			Value:       1,
			Destination: &tefMin,
		},
		&cli.FloatFlag{
			Name:        "tef-max",
			Usage:       "Maximum threat event frequency",
			Value:       10,
			Destination: &tefMax,
		},
		&cli.FloatFlag{
			Name:        "vuln-min",
			Usage:       "Minimum vulnerability probability",
			Value:       0.1,
			Destination: &vulnMin,
		},
		&cli.FloatFlag{
			Name:        "vuln-max",
			Usage:       "Maximum vulnerability probability",
			Value:       0.9,
			Destination: &vulnMax,
		},
		&cli.FloatFlag{
			Name:        "loss-min",
			Usage:       "Minimum loss magnitude per event",
			Value:       10000,
			Destination: &lossMin,
		},
		&cli.FloatFlag{
			Name:        "loss-max",
			Usage:       "Maximum loss magnitude per event",
			Value:       100000,
			Destination: &lossMax,
		},
		&cli.IntFlag{
			Name:        "iterations",
			Usage:       "Number of simulation iterations",
			Value:       10000,
			Destination: &iterations,
		},
		&cli.UintFlag{
			Name:        "seed",
			Usage:       "Random seed for a repeatable run (random when 0)",
			Destination: &seed,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:  "simulate",
		Usage: "Run a one-shot Monte Carlo risk simulation",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}
			uc := usecase.New(memory.New(), usecase.WithAppConfig(cfg))

			var opts []fair.SimulateOption
			if seed != 0 {
				opts = append(opts, fair.WithSeed(uint64(seed)))
			}

			r, err := uc.Simulation.Run(ctx, model.SimulationInput{
				AssetValue:           assetValue,
				ThreatEventFrequency: model.Interval{Min: tefMin, Max: tefMax},
				Vulnerability:        model.Interval{Min: vulnMin, Max: vulnMax},
				LossMagnitude:        model.Interval{Min: lossMin, Max: lossMax},
				Iterations:           iterations,
			}, opts...)
			if err != nil {
				return err
			}

			fmt.Printf("Iterations:     %d\n", r.Iterations)
			fmt.Printf("Mean ALE:       $%.2f\n", r.MeanALE)
			fmt.Printf("Median ALE:     $%.2f\n", r.MedianALE)
			fmt.Printf("Std Deviation:  $%.2f\n", r.StdDev)
			fmt.Printf("Min / Max ALE:  $%.2f / $%.2f\n", r.MinALE, r.MaxALE)
			fmt.Printf("95%% CI:         $%.2f - $%.2f\n", r.Confidence95.Lower, r.Confidence95.Upper)
			fmt.Println()
			fmt.Printf("Percentiles:\n")
			fmt.Printf("  10th: $%.2f\n", r.Percentiles.P10)
			fmt.Printf("  25th: $%.2f\n", r.Percentiles.P25)
			fmt.Printf("  50th: $%.2f\n", r.Percentiles.P50)
			fmt.Printf("  75th: $%.2f\n", r.Percentiles.P75)
			fmt.Printf("  90th: $%.2f\n", r.Percentiles.P90)
			fmt.Printf("  95th: $%.2f\n", r.Percentiles.P95)
			fmt.Printf("  99th: $%.2f\n", r.Percentiles.P99)
			fmt.Println()
			d := r.RiskDistribution
			fmt.Printf("Risk distribution:\n")
			levelColor("Low").Printf("  Low:      %d\n", d.Low)
			levelColor("Medium").Printf("  Medium:   %d\n", d.Medium)
			levelColor("High").Printf("  High:     %d\n", d.High)
			levelColor("Critical").Printf("  Critical: %d\n", d.Critical)

			return nil
		},
	}
}
