package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logFormat  string
	verbose    bool
	configFile string
	preset     string

	// run
	steps      int
	dt         float64
	scriptFile string
	svgFile    string
	runName    string
	overrides  []string

	// cloth
	rows          int
	cols          int
	spacing       float64
	pin           string
	gravity       float64
	damping       float64
	stiffness     float64
	tearThreshold float64
	iterations    int

	// live
	recordFile string
	useMenu    bool

	// plot / analyze
	column    string
	settleTol float64

	// tune
	tuneParams []string
	tuneMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clothsim",
		Short:         "interactive 2D cloth simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu("", sim.WithLogger(slog.Default()))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".clothsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text|json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store the samples",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	paramFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	runCmd.Flags().StringVar(&scriptFile, "script", "", "input script to replay (yaml)")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final frame as svg")
	runCmd.Flags().StringVar(&runName, "name", "", "run name")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "open the interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	paramFlags(liveCmd)
	liveCmd.Flags().StringVar(&recordFile, "record", "", "record the session as an input script")
	liveCmd.Flags().BoolVar(&useMenu, "menu", false, "pick a preset first")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a sample column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "sag", "column to plot ("+columnList()+")")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "sway frequency and settling analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "sag", "column to analyze")
	analyzeCmd.Flags().Float64Var(&settleTol, "tol", 0.5, "settling tolerance")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  tuneParamsCmd,
	}
	paramFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	tuneCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	tuneCmd.Flags().StringVar(&scriptFile, "script", "", "input script to replay (yaml)")
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "sag", "metric to minimise")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput",
		Args:  cobra.NoArgs,
		RunE:  benchCloth,
	}
	paramFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, presetsCmd, tuneCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch logFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format %q", logFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// paramFlags registers the config sources and the common cloth flags.
func paramFlags(cmd *cobra.Command) {
	d := sim.DefaultParams()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "name=value parameter override (repeatable)")
	cmd.Flags().IntVar(&rows, "rows", d.Rows, "particle rows")
	cmd.Flags().IntVar(&cols, "cols", d.Cols, "particle columns")
	cmd.Flags().Float64Var(&spacing, "spacing", d.Spacing, "rest spacing")
	cmd.Flags().StringVar(&pin, "pin", string(d.Pin), "pin mode (top|corners|left|none)")
	cmd.Flags().Float64Var(&gravity, "gravity", d.Gravity, "gravity")
	cmd.Flags().Float64Var(&damping, "damping", d.Damping, "velocity damping")
	cmd.Flags().Float64Var(&stiffness, "stiffness", d.Stiffness, "spring stiffness")
	cmd.Flags().Float64Var(&tearThreshold, "tear", d.TearThreshold, "tear threshold (multiple of rest length)")
	cmd.Flags().IntVar(&iterations, "iterations", d.Iterations, "relaxation passes per step")
}
