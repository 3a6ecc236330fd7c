// Command optimize tunes energy, learning and speed parameters with CMA-ES
// so the organism survives longer while still spreading its visits over the
// lights. Each evaluation is logged to optimize_log.csv and the best
// parameters are re-run over fresh seeds before best_config.yaml is written.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/phototaxis/config"
	"github.com/pthm-cable/phototaxis/sim"
)

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	Survival     float64 `csv:"survival_ticks"`
	Quality      float64 `csv:"quality"`
	Arrivals     string  `csv:"arrivals"`
	FinalWeights string  `csv:"final_weights"`
	Failed       int     `csv:"failed_seeds"`
	EnergyGain   float64 `csv:"energy_gain"`
	EnergyDecay  float64 `csv:"energy_decay"`
	LearningRate float64 `csv:"learning_rate"`
	Speed        float64 `csv:"speed"`
}

// tuner is the CMA-ES objective. It logs every evaluation and remembers the
// best parameters seen, which need not be the optimizer's final point.
type tuner struct {
	params   *ParamVector
	eval     *FitnessEvaluator
	maxEvals int

	log         io.Writer
	wroteHeader bool
	progress    io.Writer

	evals   int
	best    EvalRecord
	bestRaw []float64
	start   time.Time
}

func (t *tuner) objective(x []float64) float64 {
	raw := t.params.Clamp(t.params.Denormalize(x))
	ev := t.eval.Evaluate(raw)
	t.evals++

	rec := t.record(raw, ev)
	if t.bestRaw == nil || rec.Fitness < t.best.Fitness {
		t.best, t.bestRaw = rec, raw
	}
	if err := t.writeRecord(rec); err != nil {
		slog.Warn("failed to log evaluation", "eval", rec.Eval, "error", err)
	}

	elapsed := time.Since(t.start)
	eta := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	fmt.Fprintf(t.progress, "eval %d/%d: survived %s ticks, arrivals %s, weights %s, quality %.2f | best %s ticks | eta %s\n",
		t.evals, t.maxEvals,
		humanize.CommafWithDigits(rec.Survival, 0), rec.Arrivals, rec.FinalWeights, rec.Quality,
		humanize.CommafWithDigits(t.best.Survival, 0), eta.Round(time.Second))
	return ev.Fitness
}

// record describes an evaluation using the config values actually run.
func (t *tuner) record(raw []float64, ev Evaluation) EvalRecord {
	cfg := t.eval.configFor(raw)
	return EvalRecord{
		Eval:         t.evals,
		Fitness:      ev.Fitness,
		Survival:     ev.Survival,
		Quality:      ev.Quality,
		Arrivals:     joinInts(ev.Arrivals),
		FinalWeights: joinFloats(ev.FinalWeights),
		Failed:       ev.Failed,
		EnergyGain:   cfg.Energy.Gain,
		EnergyDecay:  cfg.Energy.Decay,
		LearningRate: cfg.Learning.Rate,
		Speed:        cfg.Organism.Speed,
	}
}

// writeRecord appends rec, with a header before the first row.
func (t *tuner) writeRecord(rec EvalRecord) error {
	rows := []EvalRecord{rec}
	if t.wroteHeader {
		return gocsv.MarshalWithoutHeaders(&rows, t.log)
	}
	t.wroteHeader = true
	return gocsv.Marshal(&rows, t.log)
}

// joinInts renders per-light counts as "3/0/12".
func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}

// joinFloats renders per-light weights as "40.0/71.4/50.0".
func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strings.Join(parts, "/")
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 20000, "Tick cap per run")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = 4 + 3 ln(dim))")
	verifySeeds := flag.Int("verify-seeds", 20, "Fresh seeds used to compare the base and best configs")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		slog.Error("-output is required")
		return 2
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		return 1
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		return 1
	}
	defer logFile.Close()

	// Training seeds stay clear of the verification seeds, which start at 1.
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	params := NewParamVector(baseCfg)
	t := &tuner{
		params:   params,
		eval:     NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg),
		maxEvals: *maxEvals,
		log:      logFile,
		progress: os.Stdout,
		start:    time.Now(),
	}

	fmt.Printf("CMA-ES over %d parameters, %d seeds per evaluation, %s ticks per run\n",
		params.Dim(), *seeds, humanize.Comma(int64(*maxTicks)))

	// CmaEsChol picks 4 + 3 ln(dim) itself when Population is zero.
	_, err = optimize.Minimize(
		optimize.Problem{Func: t.objective},
		params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: *maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: *population},
	)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if t.bestRaw == nil {
		slog.Error("no evaluations completed")
		return 1
	}

	fmt.Printf("\n%d evaluations in %s\n", t.evals, time.Since(t.start).Round(time.Second))
	fmt.Printf("best: gain %.4f, decay %.4f, learning rate %.4f, speed %.4f\n",
		t.best.EnergyGain, t.best.EnergyDecay, t.best.LearningRate, t.best.Speed)

	bestCfg := t.eval.configFor(t.bestRaw)
	if err := bestCfg.Finalize(); err != nil {
		slog.Error("best config is invalid", "error", err)
		return 1
	}
	for _, c := range []struct {
		name string
		cfg  *config.Config
	}{{"base", baseCfg}, {"best", bestCfg}} {
		records, err := sim.Sweep(c.cfg, 1, *verifySeeds, *maxTicks)
		if err != nil {
			slog.Error("verification failed", "config", c.name, "error", err)
			return 1
		}
		fmt.Printf("\n%s config over %d fresh seeds:\n", c.name, *verifySeeds)
		sim.Aggregate(records, len(c.cfg.Lights)).Report(os.Stdout, c.cfg.Lights, *maxTicks)
	}

	outPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(outPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		return 1
	}
	fmt.Printf("\nbest config saved to %s\n", outPath)
	return 0
}
