package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/lumen/config"
)

func main() {
	configPath := flag.String("config", "", "Base config.yaml (empty = use defaults)")
	maxEvals := flag.Int("max-evals", 200, "Maximum fitness evaluations")
	maxTicks := flag.Int("max-ticks", 18000, "Simulation ticks per evaluation (18000 = 5 min at 60 tps)")
	numSeeds := flag.Int("seeds", 3, "Seeds per evaluation")
	outputDir := flag.String("output-dir", "calibrate_output", "Directory for eval log and best config")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	baseConfig, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		slog.Error("failed to create output dir", "error", err)
		os.Exit(1)
	}

	params := NewParamVector()
	seeds := make([]int64, *numSeeds)
	for i := range seeds {
		seeds[i] = int64(1000 + i*7919)
	}

	evaluator := NewFitnessEvaluator(params, baseConfig, *maxTicks, seeds)

	evalLog, err := os.Create(filepath.Join(*outputDir, "evals.csv"))
	if err != nil {
		slog.Error("failed to create eval log", "error", err)
		os.Exit(1)
	}
	defer evalLog.Close()

	csvw := csv.NewWriter(evalLog)
	header := []string{"eval", "fitness", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	csvw.Write(header)
	csvw.Flush()

	var bestX []float64
	bestFitness := 1e9

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fitness := evaluator.Evaluate(x)

			raw := params.Clamp(params.Denormalize(x))
			row := []string{
				fmt.Sprintf("%d", evaluator.EvalCount()),
				fmt.Sprintf("%.6f", fitness),
				fmt.Sprintf("%.6f", evaluator.LastQuality()),
			}
			for _, v := range raw {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
			csvw.Write(row)
			csvw.Flush()

			if fitness < bestFitness {
				bestFitness = fitness
				bestX = append([]float64(nil), x...)
			}
			return fitness
		},
	}

	dim := params.Dim()
	popSize := 4 + int(3.0*float64(dim)/2.0)

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	initX := params.Normalize(params.DefaultVector())

	slog.Info("starting calibration",
		"dim", dim,
		"population", popSize,
		"max_evals", *maxEvals,
		"ticks_per_eval", *maxTicks,
		"seeds", *numSeeds,
	)
	start := time.Now()

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		// CMA-ES can stop on its own convergence criteria, which Minimize
		// reports as an error. The best point found is still valid.
		slog.Warn("optimizer stopped", "reason", err)
	}

	if result != nil && result.F < bestFitness {
		bestFitness = result.F
		bestX = append([]float64(nil), result.X...)
	}
	if bestX == nil {
		slog.Error("no evaluations completed")
		os.Exit(1)
	}

	bestRaw := params.Clamp(params.Denormalize(bestX))
	slog.Info("calibration finished",
		"evals", evaluator.EvalCount(),
		"best_fitness", bestFitness,
		"elapsed", time.Since(start).Round(time.Second).String(),
	)
	for i, spec := range params.Specs {
		slog.Info("best param", "name", spec.Name, "path", spec.Path, "value", bestRaw[i])
	}

	bestConfig, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to reload config", "error", err)
		os.Exit(1)
	}
	params.ApplyToConfig(bestConfig, bestRaw)

	outPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestConfig.WriteYAML(outPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		os.Exit(1)
	}
	slog.Info("wrote best config", "path", outPath)
}
