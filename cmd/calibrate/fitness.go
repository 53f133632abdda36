package main

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/pthm-cable/lumen/beat"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/ecosystem"
)

// FitnessEvaluator runs headless simulations to score a parameter set.
// Fitness is the negative of the stability score, so the optimizer
// minimizes toward the most balanced ecosystem.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	evalCount   int
	bestFitness float64
	lastQuality float64
}

// NewFitnessEvaluator creates an evaluator with the given seeds.
func NewFitnessEvaluator(params *ParamVector, baseConfig *config.Config, maxTicks int, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseConfig,
		bestFitness: 1e9,
	}
}

type seedResult struct {
	quality float64
}

// Evaluate runs the simulation for each seed in parallel and returns
// the mean fitness across seeds.
func (fe *FitnessEvaluator) Evaluate(normalized []float64) float64 {
	raw := fe.params.Clamp(fe.params.Denormalize(normalized))

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(i int, seed int64) {
			defer wg.Done()
			results[i] = fe.runSeed(raw, seed)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		total += r.quality
	}
	quality := total / float64(len(fe.seeds))
	fitness := -quality

	fe.mu.Lock()
	fe.evalCount++
	fe.lastQuality = quality
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		slog.Info("new best",
			"eval", fe.evalCount,
			"fitness", fitness,
			"quality", quality,
		)
	}
	fe.mu.Unlock()

	return fitness
}

// runSeed simulates one seed and scores how well the ecosystem held
// itself in balance without the observer stepping in.
func (fe *FitnessEvaluator) runSeed(raw []float64, seed int64) seedResult {
	cfg := fe.cloneConfig()
	fe.params.ApplyToConfig(cfg, raw)

	rng := rand.New(rand.NewSource(seed))
	eng := beat.NewEngine(
		cfg.Beat.BaseTempo, cfg.Beat.TempoSwing, cfg.Beat.DropWindow,
		cfg.Beat.ChaosDropProb, cfg.Beat.AccumDecay,
		rng,
	)
	world := ecosystem.NewWorld(cfg, seed)

	dt := cfg.Derived.DT32
	simTime := 0.0
	var stabilitySum float64
	var stabilitySamples int
	var interventions int
	survivedTicks := fe.maxTicks

	sampleEvery := int(1 / cfg.Simulation.DT)
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	for tick := 0; tick < fe.maxTicks; tick++ {
		simTime += float64(dt)
		bs := eng.Advance(simTime)
		world.Step(dt, bs)

		ev := world.Events()
		interventions += ev.Interventions

		// Sample stability once per simulated second.
		if tick%sampleEvery == 0 {
			stabilitySum += world.Stability()
			stabilitySamples++
		}

		if tick%60 == 0 {
			snap := world.Latest()
			if snap != nil && speciesExtinct(snap.SpeciesCounts) {
				survivedTicks = tick
				break
			}
		}
	}

	meanStability := 0.0
	if stabilitySamples > 0 {
		meanStability = stabilitySum / float64(stabilitySamples)
	}
	survival := float64(survivedTicks) / float64(fe.maxTicks)

	// Interventions mean the ecosystem needed rescuing. A balanced
	// parameter set should not trigger any.
	interventionPenalty := 1.0 / (1.0 + 0.25*float64(interventions))

	quality := survival * meanStability * interventionPenalty
	return seedResult{quality: quality}
}

func speciesExtinct(counts [3]int) bool {
	for _, c := range counts {
		if c == 0 {
			return true
		}
	}
	return false
}

// cloneConfig copies the base config so parallel evaluations never
// share mutable state.
func (fe *FitnessEvaluator) cloneConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}

// EvalCount returns the number of completed evaluations.
func (fe *FitnessEvaluator) EvalCount() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.evalCount
}

// LastQuality returns the quality of the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}
