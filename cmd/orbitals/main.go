package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/san-kum/orbitals/internal/analysis"
	"github.com/san-kum/orbitals/internal/config"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/palette"
	"github.com/san-kum/orbitals/internal/pipeline"
	"github.com/san-kum/orbitals/internal/viz"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	// Parameter flags
	samples       int
	radius        float64
	seed          int64
	orbitalName   string
	principal     int
	angular       int
	label         string
	threshold     float64
	coloring      string
	positiveColor string
	negativeColor string
	pointSize     float64
	rotation      float64
	theme         string
	// Config file
	configFile string
	// Preset name
	preset string
	// Frame rate for live view
	frameRate int
	// render output
	bins       int
	plane      string
	artWidth   int
	artHeight  int
	cpuProfile string
	// config init
	force bool
)

// main registers commands and flags, launches the live viewer when no
// subcommand is given, and exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitals",
		Short:         "hydrogen orbital point clouds in the terminal",
		SilenceErrors: true,
		RunE:          runLive,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(os.Stderr, verbose))
	}
	addParamFlags(rootCmd)
	rootCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "spin a point cloud in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addParamFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "build one point cloud and print its statistics",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addParamFlags(renderCmd)
	renderCmd.Flags().IntVar(&bins, "bins", 40, "radial profile bins")
	renderCmd.Flags().StringVar(&plane, "plane", "xz", "projection plane (xy, xz, yz, none)")
	renderCmd.Flags().IntVar(&artWidth, "width", 72, "projection width")
	renderCmd.Flags().IntVar(&artHeight, "height", 28, "projection height")
	renderCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list available orbitals",
		Args:  cobra.NoArgs,
		RunE:  listOrbitals,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time full and partial rebuilds",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(liveCmd, renderCmd, listCmd, presetsCmd, benchCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&samples, "samples", pipeline.DefaultSampleCount, "candidate points")
	cmd.Flags().Float64Var(&radius, "radius", pipeline.DefaultMaxRadius, "sampling radius")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&orbitalName, "orbital", "3dz2", "orbital name (see list)")
	cmd.Flags().IntVar(&principal, "n", 3, "principal number")
	cmd.Flags().IntVar(&angular, "l", 2, "angular number")
	cmd.Flags().StringVar(&label, "label", orbital.LabelZ2, "orientation label")
	cmd.Flags().Float64Var(&threshold, "threshold", pipeline.DefaultThreshold, "fraction of low-density points to drop")
	cmd.Flags().StringVar(&coloring, "coloring", palette.Exponential.String(), "coloring mode (constant, linear, exponential)")
	cmd.Flags().StringVar(&positiveColor, "positive-color", "#ff0000", "positive phase color")
	cmd.Flags().StringVar(&negativeColor, "negative-color", "#00ff00", "negative phase color")
	cmd.Flags().StringVar(&theme, "theme", "", "phase color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	cmd.Flags().Float64Var(&pointSize, "point-size", pipeline.DefaultPointSize, "point size")
	cmd.Flags().Float64Var(&rotation, "rotation", pipeline.DefaultRotationRate, "rotation per frame (radians)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveParams layers defaults, preset, config file and explicit flags, in
// that order. The config file is read over the preset, so fields it omits
// keep the preset's values.
func resolveParams(cmd *cobra.Command) (pipeline.Params, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return pipeline.Params{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return pipeline.Params{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("samples") {
		cfg.SampleCount = samples
	}
	if flags.Changed("radius") {
		cfg.MaxRadius = radius
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("orbital") {
		orb, err := orbital.ParseName(orbitalName)
		if err != nil {
			return pipeline.Params{}, err
		}
		cfg.Orbital = orb.Selector()
	}
	if flags.Changed("n") {
		cfg.Orbital.N = principal
	}
	if flags.Changed("l") {
		cfg.Orbital.L = angular
	}
	if flags.Changed("label") {
		cfg.Orbital.Label = label
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("coloring") {
		cfg.Coloring = coloring
	}
	if flags.Changed("theme") {
		t, ok := viz.GetTheme(theme)
		if !ok {
			return pipeline.Params{}, fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
		}
		cfg.PositiveColor, cfg.NegativeColor = config.HexColor(t.Positive), config.HexColor(t.Negative)
	}
	if flags.Changed("positive-color") {
		c, err := config.ParseHexColor(positiveColor)
		if err != nil {
			return pipeline.Params{}, err
		}
		cfg.PositiveColor = c
	}
	if flags.Changed("negative-color") {
		c, err := config.ParseHexColor(negativeColor)
		if err != nil {
			return pipeline.Params{}, err
		}
		cfg.NegativeColor = c
	}
	if flags.Changed("point-size") {
		cfg.PointSize = pointSize
	}
	if flags.Changed("rotation") {
		cfg.RotationRate = rotation
	}

	return cfg.Params()
}

func runLive(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	slog.Info("building point cloud", "orbital", p.Selector, "samples", p.SampleCount)
	start := time.Now()
	// Rebuild logs would tear the alternate screen.
	o, err := pipeline.New(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	slog.Debug("first snapshot ready", "retained", o.Snapshot().Count, "elapsed", time.Since(start))

	return viz.Run(o, frameRate)
}

func runRender(cmd *cobra.Command, args []string) error {
	if cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet).Stop()
	}

	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}
	o, err := pipeline.New(p, slog.Default())
	if err != nil {
		return err
	}
	snap := o.Snapshot()
	sum := analysis.Summarize(snap)

	fmt.Printf("orbital: %s (%s)\n", snap.Orbital, p.Selector)
	fmt.Printf("samples: %d, threshold %.2f, coloring %s\n", p.SampleCount, p.Threshold, p.Mode)
	fmt.Printf("built in %v\n\n", snap.Elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RETAINED\tPOSITIVE\tNEGATIVE\tMEAN R\tSTD R\tMAX R\tMAX DENSITY")
	fmt.Fprintf(w, "%d\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.4g\n",
		sum.Count, sum.Positive, sum.Negative, sum.MeanRadius, sum.StdRadius, sum.MaxRadius, sum.MaxDensity)
	if err := w.Flush(); err != nil {
		return err
	}

	if sum.Count == 0 {
		fmt.Println("\nno points retained")
		return nil
	}

	profileData := analysis.RadialProfile(snap.Retained, bins, p.MaxRadius)
	fmt.Println()
	graph := asciigraph.Plot(profileData,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("radial profile, peak near r=%.0f", analysis.PeakRadius(profileData, p.MaxRadius))),
	)
	fmt.Println(graph)

	if plane == "none" {
		return nil
	}
	pl, err := analysis.ParsePlane(plane)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s projection (+ positive, - negative phase)\n", pl)
	fmt.Print(analysis.Project(snap.Retained, pl).ToASCII(artWidth, artHeight))
	return nil
}

func listOrbitals(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tL\tLABEL")
	for _, o := range orbital.All() {
		sel := o.Selector()
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", o.Name(), sel.N, sel.L, sel.Label)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tORBITAL\tSAMPLES\tTHRESHOLD\tCOLORING")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", name, cfg.Orbital, cfg.SampleCount, cfg.Threshold, cfg.Coloring)
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	counts := []int{10000, 100000, 1000000}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fmt.Println("benchmarking pipeline rebuilds")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLES\tFULL\tFILTER\tCOLOR\tDISPLAY\tPOINTS/SEC")

	for _, n := range counts {
		p := pipeline.DefaultParams()
		p.SampleCount = n

		start := time.Now()
		o, err := pipeline.New(p, logger)
		if err != nil {
			return err
		}
		full := time.Since(start)

		filter, err := timed(func() (*pipeline.Snapshot, error) { return o.SetThreshold(0.9) })
		if err != nil {
			return err
		}
		color, err := timed(func() (*pipeline.Snapshot, error) { return o.SetMode(palette.Linear) })
		if err != nil {
			return err
		}
		display, err := timed(func() (*pipeline.Snapshot, error) { return o.SetPointSize(2) })
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%d\t%v\t%v\t%v\t%v\t%.0f\n",
			n, full.Round(time.Microsecond), filter.Round(time.Microsecond), color.Round(time.Microsecond),
			display.Round(time.Microsecond), float64(n)/full.Seconds())
	}

	return w.Flush()
}

func timed(fn func() (*pipeline.Snapshot, error)) (time.Duration, error) {
	start := time.Now()
	_, err := fn()
	return time.Since(start), err
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "orbitals.yaml"
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	slog.Info("wrote config", "path", path, "preset", preset)
	return nil
}
