package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/optim"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// resolveConfig applies preset, then config file, then changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	p := &cfg.Params
	if f.Changed("rows") {
		p.Rows = rows
	}
	if f.Changed("cols") {
		p.Cols = cols
	}
	if f.Changed("spacing") {
		p.Spacing = spacing
	}
	if f.Changed("pin") {
		p.Pin = cloth.PinMode(pin)
	}
	if f.Changed("gravity") {
		p.Gravity = gravity
	}
	if f.Changed("damping") {
		p.Damping = damping
	}
	if f.Changed("stiffness") {
		p.Stiffness = stiffness
	}
	if f.Changed("tear") {
		p.TearThreshold = tearThreshold
	}
	if f.Changed("iterations") {
		p.Iterations = iterations
	}
	for _, kv := range overrides {
		name, v, err := parseAssign(kv)
		if err != nil {
			return nil, err
		}
		if err := p.Set(name, v); err != nil {
			return nil, err
		}
	}

	if f.Lookup("steps") != nil && f.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if f.Lookup("dt") != nil && f.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if f.Lookup("script") != nil && f.Changed("script") {
		cfg.Run.Script = scriptFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseAssign(kv string) (string, float64, error) {
	name, val, ok := strings.Cut(kv, "=")
	if !ok {
		return "", 0, fmt.Errorf("expected name=value, got %q", kv)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(name), v, nil
}

// ticksFor expands the run block into ticks: the script if one is set,
// otherwise Steps frames with no input.
func ticksFor(cfg *config.Config) ([]sim.Tick, error) {
	if cfg.Run.Script == "" {
		return sim.Ticks(cfg.Params, cfg.Run.Steps, cfg.Run.Dt), nil
	}
	s, err := automation.LoadScript(cfg.Run.Script)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return s.Ticks(cfg.Params)
}

func defaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewSag(),
		metrics.NewEnergy(),
		metrics.NewMaxStretch(),
		metrics.NewIntegrity(),
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ticks, err := ticksFor(cfg)
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "cloth"
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := sim.New(cfg.Params,
		sim.WithLogger(slog.Default()),
		sim.WithMetrics(defaultMetrics()...),
		sim.WithStateValidation(),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%dx%d, %d steps)...\n", name, cfg.Params.Rows, cfg.Params.Cols, len(ticks))
	start := time.Now()
	result, err := s.Run(ctx, ticks)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg.Params, cfg.Run.Dt, cfg.Run.Script, result)
	if err != nil {
		return err
	}

	if svgFile != "" {
		f, err := os.Create(svgFile)
		if err != nil {
			return err
		}
		if err := export.WriteSVG(f, s.Frame(), 800, 600); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("frame: %s\n", svgFile)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  time: %.3fs  broken: %d/%d\n",
		result.Steps, result.Time, s.Mesh().BrokenCount(), s.Mesh().Len())
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	opt := sim.WithLogger(slog.Default())
	if useMenu {
		return viz.RunMenu(recordFile, opt)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	name := preset
	if name == "" {
		name = "cloth"
	}
	return viz.Run(name, cfg.Params, recordFile, opt)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tSTEPS\tSIM TIME\tBROKEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.2fs\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Rows, run.Params.Cols,
			run.Steps,
			run.Time,
			run.Broken,
		)
	}
	return w.Flush()
}

var columns = map[string]func(sim.Sample) float64{
	"dt":          func(s sim.Sample) float64 { return s.Dt },
	"intact":      func(s sim.Sample) float64 { return float64(s.Intact) },
	"broken":      func(s sim.Sample) float64 { return float64(s.Broken) },
	"torn":        func(s sim.Sample) float64 { return float64(s.Torn) },
	"cut":         func(s sim.Sample) float64 { return float64(s.Cut) },
	"sag":         func(s sim.Sample) float64 { return s.Sag },
	"energy":      func(s sim.Sample) float64 { return s.Energy },
	"max_stretch": func(s sim.Sample) float64 { return s.MaxStretch },
}

func columnList() string {
	return strings.Join(sortedKeys(columns), "|")
}

func sampleColumn(samples []sim.Sample, name string) ([]float64, error) {
	get, ok := columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q (available: %s)", name, columnList())
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out, nil
}

func loadColumn(runID string) (*storage.RunMetadata, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no data to plot")
	}
	data, err := sampleColumn(samples, column)
	if err != nil {
		return nil, nil, err
	}
	return meta, data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, data, err := loadColumn(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d\n", meta.Params.Rows, meta.Params.Cols)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(column+" vs step"),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, data, err := loadColumn(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s (%s)\n\n", meta.ID, column)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 2 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	sum := analysis.Summarize(data)
	fmt.Printf("mean: %.4f  stddev: %.4f  min: %.4f  max: %.4f\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if s := analysis.SettleStep(data, settleTol); s >= 0 {
		fmt.Printf("settled (±%g) from step %d\n", settleTol, s)
	} else {
		fmt.Println("never settled")
	}
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("presets:")
		for _, name := range config.ListPresets() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	return yaml.NewEncoder(os.Stdout).Encode(cfg)
}

func parseRange(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("expected name=v1,v2,..., got %q", arg)
	}
	var vals []float64
	for _, s := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", name, err)
		}
		vals = append(vals, v)
	}
	return strings.TrimSpace(name), vals, nil
}

func tuneParamsCmd(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ticks, err := ticksFor(cfg)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, arg := range tuneParams {
		name, vals, err := parseRange(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	e := sim.NewEnsemble(cfg.Params, ticks)
	e.Metrics = defaultMetrics
	e.Options = []sim.Option{sim.WithLogger(slog.Default()), sim.WithStateValidation()}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, ranges)
	fmt.Printf("searching %d combinations over %d steps...\n", len(gs.Combinations()), len(ticks))
	res, err := gs.Search(ctx, e, tuneMetric)
	if res != nil {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
		for _, tr := range res.Trials {
			vals := make([]string, len(names))
			for i, n := range names {
				vals[i] = strconv.FormatFloat(tr.Params[n], 'g', -1, 64)
			}
			result := fmt.Sprintf("%.6f", tr.Value)
			if tr.Err != nil {
				result = "error: " + tr.Err.Error()
			}
			fmt.Fprintf(w, "%s\t%s\n", strings.Join(vals, "\t"), result)
		}
		if ferr := w.Flush(); ferr != nil {
			return ferr
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f\n", tuneMetric, res.Value)
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, res.Best[n])
	}
	return nil
}

func benchCloth(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sizes := [][2]int{{10, 10}, {25, 40}, {50, 80}}
	iters := []int{1, 5, 20}
	const benchSteps = 200

	fmt.Printf("benchmarking %d steps per case\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tPARTICLES\tSPRINGS\tITERS\tTIME\tSTEPS/SEC")

	for _, sz := range sizes {
		for _, it := range iters {
			p := cfg.Params
			p.Rows, p.Cols, p.Iterations = sz[0], sz[1], it

			s, err := sim.New(p)
			if err != nil {
				return err
			}
			start := time.Now()
			if _, err := s.Run(context.Background(), sim.Ticks(p, benchSteps, config.DefaultDt)); err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%dx%d\t%d\t%d\t%d\t%v\t%.0f\n",
				sz[0], sz[1], s.Grid().Len(), s.Mesh().Len(), it,
				elapsed, float64(benchSteps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
