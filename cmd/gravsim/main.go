package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	configFile     string
	preset         string
	logLevel       string
	logFile        string
	theme          string
	steps          int
	dt             float64
	seed           int64
	numBodies      int
	collisions     bool
	gravity        float64
	speedThreshold float64
	outFile        string
	svgScale       float64
	runs           int
	seedStart      int64
	parallel       int
	noPlot         bool
	saveRun        bool
	dataDir        string
	csvFile        string
	sweepParams    []string
	sweepMetric    string
	sweepMaximize  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "2D n-body gravity simulator",
		Long:  "gravsim integrates point masses under Newtonian gravity inside a reflecting arena and draws them in the terminal.",
		RunE:  runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML config file (overrides --preset)")
	pf.StringVarP(&preset, "preset", "p", "corners", "named scenario preset")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "color theme for the live view ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.IntVarP(&steps, "steps", "n", config.DefaultSteps, "number of integration steps")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "time step in seconds")
	pf.Int64Var(&seed, "seed", 0, "random scenario seed")
	pf.IntVarP(&numBodies, "bodies", "b", 0, "body count for the random scenario")
	pf.BoolVar(&collisions, "collisions", false, "enable elastic collisions")
	pf.Float64VarP(&gravity, "g", "G", sim.DefaultG, "gravitational constant")
	pf.Float64Var(&speedThreshold, "speed-threshold", 0, "enable the stability metric with this speed limit")
	pf.StringVar(&dataDir, "data-dir", "./gravsim-runs", "directory for stored runs")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and print metrics",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the metric plots")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run under --data-dir")
	runCmd.Flags().StringVar(&csvFile, "csv", "", "write the sampled metric series to this CSV file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [metric]",
		Short: "plot a stored metric series",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run the configured steps and write the final frame as SVG",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "gravsim.svg", "output file")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 1, "pixels per world unit")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the scenario over consecutive seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent runs (0 = GOMAXPROCS)")

	sweepCmd := &cobra.Command{
		Use:     "sweep",
		Short:   "grid search physics parameters against a metric",
		Example: "  gravsim sweep -p random --param softening=1,5,10 --param dt=0.01,0.02 --metric min_separation --maximize",
		Args:    cobra.NoArgs,
		RunE:    runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to optimize")
	sweepCmd.Flags().BoolVar(&sweepMaximize, "maximize", false, "maximize instead of minimize")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "pick a preset from a menu and watch it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := newLogger(true)
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunBrowser(experiment.Options{Logger: logger, SpeedThreshold: speedThreshold}, theme)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCENARIO\tBODIES\tCOLLISIONS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", name, p.Scenario.Kind, bodyCount(p), p.Physics.Collisions)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, snapshotCmd, ensembleCmd, sweepCmd, browseCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file or preset, then applies any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Scenario.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.Scenario.Count = numBodies
	}
	if flags.Changed("collisions") {
		cfg.Physics.Collisions = collisions
	}
	if flags.Changed("g") {
		cfg.Physics.G = gravity
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. The live views own the terminal, so
// they log nowhere unless --log-file is given.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "gravsim",
	})
	return logger, closeFn, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := viz.NewModel(cfg, experiment.Options{Logger: logger, SpeedThreshold: speedThreshold})
	if err != nil {
		return err
	}
	return viz.Run(m.WithTheme(theme))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	exp, err := experiment.New(cfg, experiment.Options{Logger: logger, SpeedThreshold: speedThreshold})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running", "scenario", cfg.Scenario.Kind, "bodies", len(exp.GetSimulator().Bodies()), "steps", cfg.Run.Steps, "dt", cfg.Run.Dt)
	start := time.Now()

	result, err := exp.Run(ctx)
	if result != nil {
		printResult(result, time.Since(start))
	}
	if err != nil {
		return err
	}

	if csvFile != "" {
		f, err := os.Create(csvFile)
		if err != nil {
			return fmt.Errorf("create %s: %w", csvFile, err)
		}
		defer f.Close()
		if err := storage.WriteSeriesCSV(f, result); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, len(exp.GetSimulator().Bodies()), result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tSTEPS\tDT\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.Dt,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	names := []string{"energy", "min_separation"}
	if len(args) > 1 {
		names = args[1:]
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%d bodies, %d steps)\n", meta.Scenario, meta.Bodies, meta.Steps)
	for _, name := range names {
		data := finite(series[name])
		if len(data) < 2 {
			return fmt.Errorf("no data to plot for %q", name)
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(12), asciigraph.Width(70), asciigraph.Caption(name)))
	}
	return nil
}

func printResult(r *sim.Result, elapsed time.Duration) {
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", r.StepsTaken)
	if n := len(r.Times); n > 0 {
		fmt.Printf("time: %.4fs\n", r.Times[n-1])
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(r.Metrics) {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, r.Metrics[name])
	}
	w.Flush()

	if noPlot {
		return
	}
	for _, name := range []string{"energy", "min_separation"} {
		series := finite(r.Series[name])
		if len(series) < 2 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(series, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption(name)))
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	exp, err := experiment.New(cfg, experiment.Options{Logger: logger})
	if err != nil {
		return err
	}
	if _, err := exp.Run(cmd.Context()); err != nil {
		return err
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", outFile, err)
	}
	defer f.Close()

	opts := export.DefaultSVGOptions()
	opts.Scale = svgScale
	opts.GridSpacing = cfg.View.GridSpacing
	opts.GridAlpha = cfg.View.GridAlpha
	opts.Grid = cfg.View.Grid
	opts.Trails = cfg.View.Trails
	if err := export.SnapshotSVG(f, exp.GetSimulator(), opts); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	logger.Info("snapshot written", "file", outFile, "t", exp.GetSimulator().Time())
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ens := sim.NewEnsemble(experiment.Factory(cfg, experiment.Options{SpeedThreshold: speedThreshold}))
	if parallel > 0 {
		ens.SetLimit(parallel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("ensemble", "runs", runs, "seed_start", seedStart, "scenario", cfg.Scenario.Kind)
	start := time.Now()
	results, err := ens.Run(ctx, runs, seedStart, cfg.SimRunConfig())
	if err != nil {
		return err
	}
	logger.Info("ensemble done", "elapsed", time.Since(start))

	var names []string
	if len(results) > 0 {
		names = sortedKeys(results[0].Metrics)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED\tSTEPS")
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d", seedStart+int64(i), r.StepsTaken)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4g", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.ParamNames())
	}
	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Maximize = sweepMaximize

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, value, trials, err := g.Search(ctx, cfg, experiment.Options{SpeedThreshold: speedThreshold}, sweepMetric)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), sweepMetric)
	for _, t := range trials {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", t.Params[n])
		}
		if t.Err != nil {
			logger.Warn("trial failed", "params", t.Params, "err", t.Err)
			fmt.Fprintln(w, "error")
			continue
		}
		fmt.Fprintf(w, "%.6g\n", t.Value)
	}
	w.Flush()
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6g at", sweepMetric, value)
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best[n])
	}
	fmt.Println()
	return nil
}

// parseParam splits "name=v1,v2,..." into a name and its values.
func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2", s)
	}
	parts := strings.Split(list, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid value %q for %s: %w", p, name, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func bodyCount(c *config.Config) string {
	switch c.Scenario.Kind {
	case config.KindList:
		return fmt.Sprint(len(c.Scenario.Bodies))
	case config.KindRandom:
		return fmt.Sprint(c.Scenario.Count)
	case config.KindFigureEight:
		return "3"
	case config.KindCorners:
		return "5"
	case config.KindBinary:
		return "2"
	}
	return "?"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsInf(x, 0) && !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
