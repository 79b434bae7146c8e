package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/config"
	"github.com/san-kum/spinsim/internal/export"
	"github.com/san-kum/spinsim/internal/llg"
	"github.com/san-kum/spinsim/internal/mag"
	"github.com/san-kum/spinsim/internal/manifold"
	"github.com/san-kum/spinsim/internal/sim"
	"github.com/san-kum/spinsim/internal/storage"
	"github.com/san-kum/spinsim/internal/sweep"
	"github.com/san-kum/spinsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	gridSize int
	numSteps int
	dt       float64
	seed     int64
	pattern  string
	noise    float64
	method   string
	alpha    float64
	dmi      float64
	bz       float64
	k0       float64
	epsK     float64

	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepCount int

	threshold float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spinsim",
		Short: "LLG thin-film simulator with skyrmion data encoding",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report the lowest-energy value",
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dmi", "parameter to sweep (dmi|anisotropy|field|damping|modulation|dt)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 2e-3, "range start")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 6e-3, "range end")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 5, "number of values")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's energy history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "skyrmion and spectral analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&threshold, "threshold", 0.3, "core detection threshold on |m_z|")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as SVG images",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			for _, n := range names {
				c := config.GetPreset(n)
				fmt.Printf("%-20s grid=%d steps=%d D=%.1e K0=%.1e Bz=%+.3f alpha=%.1f\n",
					n, c.GridSize, c.NumSteps, c.D, c.K0, c.Bz, c.Alpha)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name (see presets command)")
	cmd.Flags().IntVar(&gridSize, "grid", 0, "grid size override")
	cmd.Flags().IntVar(&numSteps, "steps", 0, "step count override")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step override (s)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&pattern, "pattern", "", "data manifold pattern (gaussian_bumps|sinusoid|checkerboard|random|perlin|none)")
	cmd.Flags().Float64Var(&noise, "noise", -1, "initialization noise override")
	cmd.Flags().StringVar(&method, "method", "", "integration method (euler|heun)")
	cmd.Flags().Float64Var(&alpha, "alpha", -1, "damping override")
	cmd.Flags().Float64Var(&dmi, "dmi", 0, "DMI constant override (J/m²)")
	cmd.Flags().Float64Var(&bz, "field", 0, "external field override (T)")
	cmd.Flags().Float64Var(&k0, "k0", 0, "base anisotropy override (J/m³)")
	cmd.Flags().Float64Var(&epsK, "modulation", -1, "anisotropy modulation override")
}

// buildConfig resolves preset/config-file/flag precedence, flags last.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if gridSize > 0 {
		cfg.GridSize = gridSize
	}
	if numSteps > 0 {
		cfg.NumSteps = numSteps
	}
	if dt > 0 {
		cfg.Dt = dt
	}
	if pattern != "" {
		cfg.Pattern = pattern
	}
	if noise >= 0 {
		cfg.Noise = noise
	}
	if method != "" {
		cfg.Method = method
	}
	if alpha >= 0 {
		cfg.Alpha = alpha
	}
	if dmi != 0 {
		cfg.D = dmi
	}
	if cmd.Flags().Changed("field") {
		cfg.Bz = bz
	}
	if k0 != 0 {
		cfg.K0 = k0
	}
	if epsK >= 0 {
		cfg.EpsK = epsK
	}
	cfg.Seed = seed
	return cfg, nil
}

func buildSimulator(cfg *config.Config) (*sim.Simulator, *mag.ScalarField, error) {
	p := cfg.Params()
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}

	var data *mag.ScalarField
	if cfg.Pattern != "" && cfg.Pattern != "none" {
		var err error
		data, err = manifold.Generate(cfg.Pattern, p.GridSize, cfg.Seed)
		if err != nil {
			return nil, nil, err
		}
	}

	opts := cfg.InitOptions()
	opts.Rng = rand.New(rand.NewSource(cfg.Seed))
	opts.Manifold = data

	st, err := mag.NewState(p, opts)
	if err != nil {
		return nil, nil, err
	}

	var stepper llg.Stepper
	switch cfg.Method {
	case "", "euler":
		stepper = llg.NewEuler(p)
	case "heun":
		stepper = llg.NewHeun(p)
	default:
		return nil, nil, fmt.Errorf("unknown method %q", cfg.Method)
	}

	simulator, err := sim.New(st, stepper)
	if err != nil {
		return nil, nil, err
	}
	return simulator, data, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	simulator, data, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("grid %d×%d  dt %.2e  steps %d  method %s  pattern %s\n",
		cfg.GridSize, cfg.GridSize, cfg.Dt, cfg.NumSteps, cfg.Method, cfg.Pattern)

	simulator.AddObserver(sim.ObserverFunc(func(step int, e, dt float64) {
		fmt.Printf("step %6d/%d  energy %.6e  dt %.3e\n", step+1, cfg.NumSteps, e, dt)
	}))

	result, err := simulator.Run(context.Background(), 0)
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg.Seed, cfg.Method, cfg.Pattern, result)
	if err != nil {
		return err
	}

	printSummary(result, data)
	fmt.Printf("saved as %s\n", runID)
	return nil
}

func printSummary(result *sim.Result, data *mag.ScalarField) {
	mz := result.Final.Component(2)
	stats := analysis.DetectSkyrmions(mz, 0.3)

	fmt.Printf("final energy %.6e J/m²  (ex %.3e  dmi %.3e  anis %.3e  zee %.3e)\n",
		result.FinalEnergy.Total, result.FinalEnergy.Exchange, result.FinalEnergy.DMI,
		result.FinalEnergy.Anisotropy, result.FinalEnergy.Zeeman)
	fmt.Printf("final dt %.3e  halvings %d  softenings %d\n",
		result.FinalDt, result.Halvings, result.Softenings)
	fmt.Printf("skyrmion cores %d  topological charge %+.2f  m_z mean %.3f std %.3f\n",
		stats.Count, analysis.TotalCharge(result.Final), mz.Mean(), mz.Std())
	if data != nil {
		fmt.Printf("data-magnetization correlation %.4f\n", analysis.Correlation(data, mz))
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	simulator, _, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan viz.Frame, 1)
	simulator.SetProgressInterval(maxInt(cfg.NumSteps/400, 1))
	simulator.AddObserver(sim.ObserverFunc(func(step int, e, dt float64) {
		select {
		case frames <- viz.Frame{Step: step, Energy: e, Dt: dt, Mz: simulator.State().Mz()}:
		case <-ctx.Done():
		}
	}))

	errCh := make(chan error, 1)
	go func() {
		_, runErr := simulator.Run(ctx, 0)
		close(frames)
		errCh <- runErr
	}()

	if err := viz.Run(frames, cancel); err != nil {
		return err
	}

	runErr := <-errCh
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if sweepCount < 2 {
		return fmt.Errorf("sweep needs at least 2 values")
	}

	values := make([]float64, sweepCount)
	for i := range values {
		values[i] = sweepFrom + (sweepTo-sweepFrom)*float64(i)/float64(sweepCount-1)
	}

	sw, err := sweep.New([]string{sweepParam}, [][]float64{values})
	if err != nil {
		return err
	}

	score := func(ctx context.Context, p mag.Params) (float64, error) {
		opts := cfg.InitOptions()
		opts.Rng = rand.New(rand.NewSource(cfg.Seed))
		st, err := mag.NewState(p, opts)
		if err != nil {
			return 0, err
		}
		simulator, err := sim.New(st, llg.NewEuler(p))
		if err != nil {
			return 0, err
		}
		result, err := simulator.Run(ctx, 0)
		if err != nil {
			return 0, err
		}
		return result.FinalEnergy.Total, nil
	}

	fmt.Printf("sweeping %s over %d values in [%g, %g]\n", sweepParam, sweepCount, sweepFrom, sweepTo)
	best, bestScore, err := sw.Run(context.Background(), cfg.Params(), score)
	if err != nil {
		return err
	}
	fmt.Printf("best %s = %g  (final energy %.6e J/m²)\n", sweepParam, best[sweepParam], bestScore)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGRID\tSTEPS\tFINAL ENERGY\tFINAL DT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4e\t%.3e\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.GridSize, r.StepsTaken, r.FinalEnergy, r.FinalDt)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	history, err := store.LoadEnergy(args[0])
	if err != nil {
		return err
	}
	if len(history) < 2 {
		return fmt.Errorf("run %s has no energy history", args[0])
	}

	values := make([]float64, len(history))
	for i, s := range history {
		values[i] = s.Energy
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: energy (J/m²) over %d samples", args[0], len(values))),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)

	mz, err := store.LoadMz(args[0])
	if err != nil {
		return err
	}
	stats := analysis.DetectSkyrmions(mz, threshold)

	fmt.Printf("skyrmion cores: %d\n", stats.Count)
	if stats.Count > 0 {
		fmt.Printf("mean core size: %.2f cells (std %.2f)\n", stats.MeanSize, stats.StdSize)
	}
	fmt.Printf("m_z mean %.4f  std %.4f\n", mz.Mean(), mz.Std())

	history, err := store.LoadEnergy(args[0])
	if err == nil && len(history) > 4 {
		if period := analysis.DominantPeriod(history); period > 0 {
			fmt.Printf("dominant energy oscillation period: %.1f steps\n", period)
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runDir := filepath.Join(dataDir, args[0])

	mz, err := store.LoadMz(args[0])
	if err != nil {
		return err
	}
	svgPath := filepath.Join(runDir, "m_z_final.svg")
	if err := os.WriteFile(svgPath, []byte(export.MzHeatmapSVG(mz, 4)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgPath)

	history, err := store.LoadEnergy(args[0])
	if err == nil && len(history) >= 2 {
		energyPath := filepath.Join(runDir, "energy.svg")
		if err := os.WriteFile(energyPath, []byte(export.EnergySVG(history, 640, 240)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", energyPath)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
