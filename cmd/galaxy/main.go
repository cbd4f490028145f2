package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/galaxy/internal/analysis"
	"github.com/san-kum/galaxy/internal/automation"
	"github.com/san-kum/galaxy/internal/config"
	"github.com/san-kum/galaxy/internal/export"
	"github.com/san-kum/galaxy/internal/galaxy"
	"github.com/san-kum/galaxy/internal/gui"
	"github.com/san-kum/galaxy/internal/storage"
	"github.com/san-kum/galaxy/internal/sweep"
	"github.com/san-kum/galaxy/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string

	// galaxy parameters
	count           int
	size            float64
	radius          float64
	branches        int
	spin            float64
	randomness      float64
	randomnessPower float64
	layout          string
	colored         bool
	insideColor     string
	outsideColor    string
	seed            int64

	snapshotName string
	exportPath   string
	exportFormat string
	exportView   string
	bins         int
	sweepAxes    []string
	metric       string
	minimize     bool
	exportDir    string
	trials       int
	benchMax     int
	theme        string
	asJSON       bool

	cfg *config.Config
)

// main registers the commands and runs the root command; the GUI opens when
// no subcommand is given. Exits 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:               "galaxy",
		Short:             "procedural spiral galaxy generator",
		PersistentPreRunE: setup,
		RunE:              runGUI,
		SilenceUsage:      true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	addParamFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [variant]",
		Short: "open the interactive window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addParamFlags(guiCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal preview",
		RunE:  runTUI,
	}
	addParamFlags(tuiCmd)
	tuiCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	generateCmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"snapshot"},
		Short:   "generate a galaxy and save a snapshot",
		RunE:    runGenerate,
	}
	addParamFlags(generateCmd)
	generateCmd.Flags().StringVar(&snapshotName, "name", "", "snapshot name (default: layout)")
	generateCmd.Flags().StringVarP(&exportPath, "output", "o", "", "also export to this file (svg, json, ply)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list snapshots",
		RunE:  listSnapshots,
	}

	showCmd := &cobra.Command{
		Use:   "show [snapshot_id]",
		Short: "print snapshot metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showSnapshot,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [snapshot_id]",
		Short: "delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openStore().Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [snapshot_id]",
		Short: "plot the radial and angular profile",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSnapshot,
	}
	plotCmd.Flags().IntVar(&bins, "bins", 40, "radial bins")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [snapshot_id]",
		Short: "statistics and arm spectrum",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeField,
	}
	addParamFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	exportCmd := &cobra.Command{
		Use:   "export [snapshot_id]",
		Short: "export a snapshot to svg, json or ply",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSnapshot,
	}
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "output file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", fmt.Sprintf("format %v (default: from extension)", export.Formats))
	exportCmd.Flags().StringVar(&exportView, "view", "top", "svg view: top or projected")
	_ = exportCmd.MarkFlagRequired("output")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over parameters",
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepAxes, "param", nil, "axis key=lo:hi:step or key=v1,v2 (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "arm_contrast", "metric to score")
	sweepCmd.Flags().BoolVar(&minimize, "minimize", false, "pick the lowest score")
	sweepCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = sweepCmd.MarkFlagRequired("param")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for scenario exports")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "metric spread over random seeds",
		RunE:  runEnsemble,
	}
	addParamFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&trials, "trials", 10, "number of seeds")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark generation",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchMax, "max", 1_000_000, "largest particle count")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, generateCmd, listCmd, showCmd, deleteCmd, plotCmd,
		analyzeCmd, exportCmd, presetsCmd, sweepCmd, batchCmd, ensembleCmd, benchCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	d := galaxy.DefaultParams()
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", fmt.Sprintf("start from a preset %v", config.ListPresets()))
	f.IntVar(&count, "count", d.Count, "number of particles")
	f.Float64Var(&size, "size", d.Size, "particle size")
	f.Float64Var(&radius, "radius", d.Radius, "galaxy radius")
	f.IntVar(&branches, "branches", d.Branches, "number of spiral arms")
	f.Float64Var(&spin, "spin", d.Spin, "arm curvature")
	f.Float64Var(&randomness, "randomness", d.Randomness, "jitter scale")
	f.Float64Var(&randomnessPower, "randomness-power", d.RandomnessPower, "jitter concentration exponent")
	f.StringVar(&layout, "layout", string(d.Layout), "spiral or scatter")
	f.BoolVar(&colored, "colored", d.Colored, "color particles by radius")
	f.StringVar(&insideColor, "inside-color", d.InsideColor, "core color")
	f.StringVar(&outsideColor, "outside-color", d.OutsideColor, "rim color")
	f.Int64Var(&seed, "seed", 0, "random seed (0: from clock)")
}

// setup configures logging and loads the config file.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if !cmd.Flags().Changed("data") {
		dataDir = cfg.DataDir
	}
	if !cmd.Flags().Changed("log-level") {
		logLevel = cfg.LogLevel
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.Debug("config", "file", configFile, "data", dataDir)
	return nil
}

// resolveParams applies, in order: defaults, preset (or variant argument),
// the config file's galaxy keys, then flags that were set explicitly.
func resolveParams(cmd *cobra.Command, variant string) (galaxy.Params, error) {
	p := galaxy.DefaultParams()

	if name := variant; name != "" || preset != "" {
		if name == "" {
			name = preset
		}
		pr, err := config.Preset(name)
		if err != nil {
			return p, err
		}
		p = pr
	}

	if cfg != nil {
		if err := cfg.ApplyGalaxy(&p); err != nil {
			return p, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("count") {
		p.Count = count
	}
	if fl.Changed("size") {
		p.Size = size
	}
	if fl.Changed("radius") {
		p.Radius = radius
	}
	if fl.Changed("branches") {
		p.Branches = branches
	}
	if fl.Changed("spin") {
		p.Spin = spin
	}
	if fl.Changed("randomness") {
		p.Randomness = randomness
	}
	if fl.Changed("randomness-power") {
		p.RandomnessPower = randomnessPower
	}
	if fl.Changed("layout") {
		p.Layout = galaxy.Layout(layout)
	}
	if fl.Changed("colored") {
		p.Colored = colored
	}
	if fl.Changed("inside-color") {
		p.InsideColor = insideColor
	}
	if fl.Changed("outside-color") {
		p.OutsideColor = outsideColor
	}
	if fl.Changed("seed") {
		p.Seed = seed
	}
	return p, p.Validate()
}

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func runGUI(cmd *cobra.Command, args []string) error {
	variant := ""
	if len(args) > 0 {
		variant = args[0]
	}
	p, err := resolveParams(cmd, variant)
	if err != nil {
		return err
	}
	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}
	return gui.Run(cfg, p, st)
}

func runTUI(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd, "")
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.RunTUI(p)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd, "")
	if err != nil {
		return err
	}
	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("generating %d particles (%s)...\n", p.Count, p.Layout)
	start := time.Now()
	f, err := galaxy.Generate(cmd.Context(), p)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	metrics := analysis.Metrics(f)
	id, err := st.Save(snapshotName, f, metrics)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("snapshot id: %s\n", id)
	fmt.Printf("seed: %d\n", f.Params.Seed)
	printMetrics(metrics)

	if exportPath != "" {
		if err := export.WriteFile(exportPath, "", f, metrics); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", exportPath)
	}
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	snaps, err := openStore().List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tLAYOUT\tBRANCHES\tSEED")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%d\n",
			s.ID,
			s.Name,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Count,
			s.Params.Layout,
			s.Params.Branches,
			s.Params.Seed,
		)
	}
	return w.Flush()
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	meta, err := openStore().Load(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func plotSnapshot(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	f, err := st.LoadField(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("snapshot: %s\n", meta.ID)
	fmt.Printf("particles: %d\n\n", f.Len())

	prof := analysis.RadialProfile(f, bins)
	if len(prof.Density) < 2 {
		return fmt.Errorf("not enough particles to plot")
	}
	fmt.Println(asciigraph.Plot(prof.Density,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("radial density (0 to %.2f)", prof.Edges[len(prof.Edges)-1])),
	))
	fmt.Println()

	hist := analysis.AngularHistogram(f, 80)
	fmt.Println(asciigraph.Plot(hist,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("particles per angle (spin removed)"),
	))
	return nil
}

func analyzeField(cmd *cobra.Command, args []string) error {
	var (
		f    *galaxy.Field
		name string
		err  error
	)
	if len(args) == 1 {
		name = args[0]
		f, err = openStore().LoadField(name)
	} else {
		var p galaxy.Params
		if p, err = resolveParams(cmd, ""); err != nil {
			return err
		}
		name = fmt.Sprintf("%s (seed %d)", p.Layout, p.Seed)
		if preset != "" {
			name = preset
		}
		f, err = galaxy.Generate(cmd.Context(), p)
	}
	if err != nil {
		return err
	}

	sum := analysis.Summarize(f)
	spec := analysis.ArmSpectrum(f, analysis.DefaultAngularBins)

	if asJSON {
		data, err := json.MarshalIndent(struct {
			Summary  analysis.Summary  `json:"summary"`
			Spectrum analysis.Spectrum `json:"spectrum"`
		}{sum, spec}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("analysis: %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "particles\t%d\n", sum.Count)
	fmt.Fprintf(w, "mean radius\t%.4f ± %.4f\n", sum.MeanRadius, sum.StdRadius)
	fmt.Fprintf(w, "median radius\t%.4f\n", sum.MedianRadius)
	fmt.Fprintf(w, "max radius\t%.4f\n", sum.MaxRadius)
	fmt.Fprintf(w, "height\t%.4f ± %.4f\n", sum.MeanHeight, sum.StdHeight)
	fmt.Fprintf(w, "arms\t%d\n", spec.Dominant)
	fmt.Fprintf(w, "arm contrast\t%.4f\n", spec.Contrast)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(spec.Power) > 2 {
		n := min(len(spec.Power), 33)
		fmt.Println()
		fmt.Println(asciigraph.Plot(spec.Power[1:n],
			asciigraph.Height(10),
			asciigraph.Width(64),
			asciigraph.Caption("angular power by harmonic"),
		))
	}
	return nil
}

func exportSnapshot(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	f, err := st.LoadField(args[0])
	if err != nil {
		return err
	}

	format := exportFormat
	if format == "" {
		format = export.FormatFromPath(exportPath)
	}

	if exportView == "projected" && format == "svg" {
		canvas := viz.NewCanvas(120, 60)
		viz.RenderField(canvas, f, viz.NewCamera())
		if err := os.WriteFile(exportPath, []byte(export.CanvasToSVG(canvas, 4)), 0644); err != nil {
			return err
		}
	} else if err := export.WriteFile(exportPath, format, f, meta.Metrics); err != nil {
		return err
	}

	fmt.Printf("exported %s to %s\n", meta.ID, exportPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tLAYOUT\tBRANCHES\tSPIN\tRANDOMNESS\tCOLORED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%.2f\t%.2f\t%v\n",
			name, p.Count, p.Layout, p.Branches, p.Spin, p.Randomness, p.Colored)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveParams(cmd, "")
	if err != nil {
		return err
	}
	if base.Seed == 0 {
		// Every cell shares one seed so only the swept values differ.
		base.Seed = time.Now().UnixNano()
	}

	axes := make([]sweep.Axis, 0, len(sweepAxes))
	for _, s := range sweepAxes {
		axis, err := sweep.ParseAxis(s)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
	}

	g := sweep.NewGridSearch(axes)
	g.Minimize = minimize
	log.Info("sweeping", "cells", len(g.Cells()), "metric", metric, "seed", base.Seed)

	start := time.Now()
	res, err := g.Search(cmd.Context(), base, metric)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	keys := make([]string, len(axes))
	for i, a := range axes {
		keys[i] = a.Key
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(keys, "\t"))+"\t"+strings.ToUpper(metric))
	for _, pt := range res.Points {
		for _, k := range keys {
			fmt.Fprintf(w, "%g\t", pt.Values[k])
		}
		fmt.Fprintf(w, "%.6f\n", pt.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6f at", metric, res.Best.Score)
	for _, k := range keys {
		fmt.Printf(" %s=%g", k, res.Best.Values[k])
	}
	fmt.Printf(" (%v)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, st, exportDir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSNAPSHOT\tPARTICLES\tARMS\tCONTRAST\tTIME\tEXPORT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.0f\t%.4f\t%v\t%s\n",
			r.Step, r.SnapshotID, r.Params.Count, r.Metrics["arms"], r.Metrics["arm_contrast"],
			r.Elapsed.Round(time.Microsecond), r.ExportPath)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd, "")
	if err != nil {
		return err
	}
	res, err := automation.RunEnsemble(cmd.Context(), automation.EnsembleConfig{
		Params:    p,
		NumTrials: trials,
		Seed:      p.Seed,
	})
	if err != nil {
		return err
	}

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%d seeds\n\n", len(res.Seeds))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range names {
		s := res.Metrics[name]
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, s.Mean, s.Std, s.Min, s.Max)
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	fmt.Println("benchmarking generation")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAYOUT\tPARTICLES\tCOLORED\tTIME\tPARTICLES/SEC")

	for _, l := range []galaxy.Layout{galaxy.LayoutSpiral, galaxy.LayoutScatter} {
		for n := 1000; n <= benchMax; n *= 10 {
			for _, c := range []bool{false, true} {
				p := galaxy.DefaultParams()
				p.Layout, p.Count, p.Colored, p.Seed = l, n, c, 42

				start := time.Now()
				if _, err := galaxy.Generate(context.Background(), p); err != nil {
					return err
				}
				elapsed := time.Since(start)

				fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%.0f\n",
					l, n, c, elapsed.Round(time.Microsecond), float64(n)/elapsed.Seconds())
			}
		}
	}
	return w.Flush()
}
