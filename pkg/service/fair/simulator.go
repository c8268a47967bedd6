package fair

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/tyche/pkg/domain/model"
	"github.com/secmon-lab/tyche/pkg/domain/types"
)

const defaultBatchSize = 4096

type simulatorConfig struct {
	rng       *rand.Rand
	batchSize int
}

// SimulateOption configures a single Simulate call
type SimulateOption func(*simulatorConfig)

// WithSeed makes the run bit-for-bit repeatable: the same seed and input
// always produce the same result.
func WithSeed(seed uint64) SimulateOption {
	return func(cfg *simulatorConfig) {
		cfg.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithRand injects an explicit randomness source. The source is drawn from
// sequentially, so it does not need to be safe for concurrent use.
func WithRand(rng *rand.Rand) SimulateOption {
	return func(cfg *simulatorConfig) {
		cfg.rng = rng
	}
}

// WithBatchSize overrides the number of trials processed between
// cancellation checks
func WithBatchSize(n int) SimulateOption {
	return func(cfg *simulatorConfig) {
		if n > 0 {
			cfg.batchSize = n
		}
	}
}

// Simulate runs a Monte Carlo simulation: it draws Iterations independent
// uniform samples for threat event frequency, vulnerability and loss
// magnitude over their intervals, applies the ALE formula to each sampled
// triple, and reduces the outcomes to summary statistics.
//
// Sampling is sequential so a fixed seed yields a repeatable sequence; the
// formula application is parallelized across batches. The context is checked
// between batches so a long run can be aborted.
func Simulate(ctx context.Context, input model.SimulationInput, opts ...SimulateOption) (*model.SimulationResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cfg := &simulatorConfig{batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(randomSeed(), randomSeed()))
	}

	n := input.Iterations
	tef := make([]float64, n)
	vuln := make([]float64, n)
	loss := make([]float64, n)

	for start := 0; start < n; start += cfg.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "simulation canceled during sampling")
		}
		for i := start; i < min(start+cfg.batchSize, n); i++ {
			tef[i] = sample(cfg.rng, input.ThreatEventFrequency)
			vuln[i] = sample(cfg.rng, input.Vulnerability)
			loss[i] = sample(cfg.rng, input.LossMagnitude)
		}
	}

	// Trials are mutually independent; each batch writes a disjoint slice
	// range, so no locking is needed.
	ales := make([]float64, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < n; start += cfg.batchSize {
		end := min(start+cfg.batchSize, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return goerr.Wrap(err, "simulation canceled")
			}
			for i := start; i < end; i++ {
				ales[i] = tef[i] * vuln[i] * loss[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(n, ales), nil
}

func sample(rng *rand.Rand, iv model.Interval) float64 {
	if iv.Width() == 0 {
		return iv.Min
	}
	return iv.Min + rng.Float64()*iv.Width()
}

// reduce folds the outcome vector into the result record. All aggregations
// are commutative and associative, so outcome ordering does not affect any
// statistic.
func reduce(n int, ales []float64) *model.SimulationResult {
	sorted := make([]float64, len(ales))
	copy(sorted, ales)
	sort.Float64s(sorted)

	mu := mean(ales)

	var dist model.RiskDistribution
	for _, ale := range ales {
		switch types.RiskLevelOf(ale) {
		case types.RiskLevelLow:
			dist.Low++
		case types.RiskLevelMedium:
			dist.Medium++
		case types.RiskLevelHigh:
			dist.High++
		case types.RiskLevelCritical:
			dist.Critical++
		}
	}

	return &model.SimulationResult{
		Iterations: n,

		MeanALE:   mu,
		MedianALE: percentile(sorted, 50),
		StdDev:    stddev(ales, mu),
		MinALE:    sorted[0],
		MaxALE:    sorted[len(sorted)-1],

		Percentiles: model.Percentiles{
			P10: percentile(sorted, 10),
			P25: percentile(sorted, 25),
			P50: percentile(sorted, 50),
			P75: percentile(sorted, 75),
			P90: percentile(sorted, 90),
			P95: percentile(sorted, 95),
			P99: percentile(sorted, 99),
		},
		RiskDistribution: dist,
		Confidence95: model.Confidence95{
			Lower: percentile(sorted, 2.5),
			Upper: percentile(sorted, 97.5),
		},
	}
}

func randomSeed() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return binary.LittleEndian.Uint64(buf[:])
}
