package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/sim"
	"github.com/pthm-cable/phototaxis/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// Evaluation is the seed-averaged outcome of one parameter vector.
type Evaluation struct {
	Fitness      float64   // lower is better
	Quality      float64   // exploration score in [0, 1]
	Survival     float64   // mean survival ticks
	Arrivals     []int     // arrivals per light summed over seeds
	FinalWeights []float64 // mean final weight per light
	Failed       int       // seeds whose config was rejected
}

// Evaluate runs every seed in parallel, each on its own config and world,
// and averages the results. Rejected configs score zero survival.
func (fe *FitnessEvaluator) Evaluate(x []float64) Evaluation {
	runs := make([]seedRun, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runs[i] = fe.runSimulation(x, seed)
		}()
	}
	wg.Wait()

	numLights := len(fe.baseConfig.Lights)
	ev := Evaluation{
		Arrivals:     make([]int, numLights),
		FinalWeights: make([]float64, numLights),
	}
	n := float64(len(fe.seeds))
	if n == 0 {
		return ev
	}
	for _, r := range runs {
		if !r.ok {
			ev.Failed++
			continue
		}
		s := r.summary
		quality := computeQuality(s)
		ev.Fitness += computeFitness(s, fe.maxTicks, quality) / n
		ev.Quality += quality / n
		ev.Survival += float64(survivalTicks(s, fe.maxTicks)) / n
		for j := range ev.Arrivals {
			if j < len(s.Arrivals) {
				ev.Arrivals[j] += s.Arrivals[j]
			}
			if j < len(r.weights) {
				ev.FinalWeights[j] += r.weights[j] / n
			}
		}
	}
	return ev
}

// seedRun is one finished headless run.
type seedRun struct {
	summary telemetry.Summary
	weights []float64 // weight table at the end of the run
	ok      bool
}

// runSimulation executes a single headless run and summarizes it.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) seedRun {
	cfg := fe.configFor(x)
	if err := cfg.Finalize(); err != nil {
		return seedRun{}
	}

	w, err := sim.Run(cfg, seed, fe.maxTicks)
	if err != nil {
		return seedRun{}
	}
	return seedRun{summary: telemetry.Summarize(w.History()), weights: w.Weights().Snapshot(), ok: true}
}

// configFor returns a copy of the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	return cfg
}

// survivalTicks is the depletion tick, or maxTicks if the organism lasted.
func survivalTicks(s telemetry.Summary, maxTicks int) int {
	if s.DepletedAt >= 0 {
		return s.DepletedAt
	}
	return maxTicks
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(s telemetry.Summary, maxTicks int, quality float64) float64 {
	survival := float64(survivalTicks(s, maxTicks))
	return -(survival * (1.0 + 0.2*quality))
}

// computeQuality scores exploration in [0, 1]: the share of lights
// reached at least once, scaled by how evenly arrivals are spread.
func computeQuality(s telemetry.Summary) float64 {
	if len(s.Arrivals) == 0 {
		return 0
	}

	visited := 0
	total := 0
	for _, n := range s.Arrivals {
		if n > 0 {
			visited++
		}
		total += n
	}
	if total == 0 {
		return 0
	}

	// Normalized entropy of the arrival distribution
	entropy := 0.0
	for _, n := range s.Arrivals {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		entropy -= p * math.Log(p)
	}
	evenness := 1.0
	if len(s.Arrivals) > 1 {
		evenness = entropy / math.Log(float64(len(s.Arrivals)))
	}

	coverage := float64(visited) / float64(len(s.Arrivals))
	return clamp01(0.5*coverage + 0.5*evenness)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
