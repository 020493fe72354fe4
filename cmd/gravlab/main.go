package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravlab/internal/analysis"
	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/export"
	"github.com/san-kum/gravlab/internal/metrics"
	"github.com/san-kum/gravlab/internal/nbody"
	"github.com/san-kum/gravlab/internal/sampler"
	"github.com/san-kum/gravlab/internal/storage"
	"github.com/san-kum/gravlab/internal/tui"
	"github.com/san-kum/gravlab/internal/viz"
)

var (
	dataDir    string
	bodies     int
	totalMass  float64
	gconst     float64
	softening  float64
	dt         float64
	steps      int
	seed       int64
	workers    int
	initKind   string
	radius     float64
	velScale   float64
	separation float64
	ringSpeed  float64
	configFile string
	preset     string
	runs       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravlab",
		Short: "direct-summation gravitational n-body lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's diagnostic series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's energy series CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [out.svg]",
		Short: "render a run's trajectory to SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the energy series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the force evaluator and integrator",
		RunE:  benchCore,
	}
	benchCmd.Flags().IntVar(&workers, "workers", 0, "force-evaluation workers (0 = all cores)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run several seeded realizations in parallel",
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of realizations")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, analyzeCmd, benchCmd, ensembleCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&bodies, "bodies", config.DefaultBodies, "number of bodies")
	cmd.Flags().Float64Var(&totalMass, "mass", config.DefaultTotalMass, "total mass")
	cmd.Flags().Float64Var(&gconst, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&softening, "softening", config.DefaultSoftening, "softening length")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "force-evaluation workers (0 = all cores)")
	cmd.Flags().StringVar(&initKind, "init", "cluster", "initial state (cluster|binary|ring)")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultRadius, "cluster/ring radius")
	cmd.Flags().Float64Var(&velScale, "vel-scale", config.DefaultVelScale, "cluster velocity scale")
	cmd.Flags().Float64Var(&separation, "separation", 2.0, "binary separation")
	cmd.Flags().Float64Var(&ringSpeed, "speed", 0.5, "ring tangential speed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file, and flags, with explicit flags
// winning over both.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if flags.Changed("mass") {
		cfg.TotalMass = totalMass
	}
	if flags.Changed("g") {
		cfg.G = gconst
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("init") {
		cfg.InitState.Kind = initKind
	}
	if flags.Changed("radius") {
		cfg.InitState.Radius = radius
	}
	if flags.Changed("vel-scale") {
		cfg.InitState.VelScale = velScale
	}
	if flags.Changed("separation") {
		cfg.InitState.Separation = separation
	}
	if flags.Changed("speed") {
		cfg.InitState.Speed = ringSpeed
	}
	if cfg.Seed == 0 || flags.Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

func makeInitialState(cfg *config.Config) ([]nbody.Vec3, []nbody.Vec3, error) {
	switch cfg.InitState.Kind {
	case "cluster", "":
		pos, vel := sampler.NewCluster(cfg.Bodies, cfg.InitState.Radius, cfg.InitState.VelScale, cfg.Seed).Sample()
		return pos, vel, nil
	case "binary":
		if cfg.Bodies != 2 {
			return nil, nil, fmt.Errorf("binary init requires exactly 2 bodies, got %d", cfg.Bodies)
		}
		pos, vel := sampler.Binary(cfg.G, cfg.TotalMass, cfg.InitState.Separation, cfg.Softening)
		return pos, vel, nil
	case "ring":
		pos, vel := sampler.Ring(cfg.Bodies, cfg.InitState.Radius, cfg.InitState.Speed)
		return pos, vel, nil
	default:
		return nil, nil, fmt.Errorf("unknown initial state: %s", cfg.InitState.Kind)
	}
}

func buildSimulator(cfg *config.Config) (*nbody.Simulator, error) {
	sim, err := nbody.New(cfg.Core())
	if err != nil {
		return nil, err
	}
	sim.AddMetric(metrics.NewEnergyDrift())
	sim.AddMetric(metrics.NewMomentumDrift())
	sim.AddMetric(metrics.NewMeanVirial())
	return sim, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sim, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	pos, vel, err := makeInitialState(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %d bodies for %d steps (dt=%g)...\n", cfg.Bodies, cfg.Steps, cfg.Dt)
	start := time.Now()

	result, err := sim.Run(context.Background(), pos, vel)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "initial kinetic\t%.6f\n", result.InitialKinetic)
	fmt.Fprintf(w, "initial potential\t%.6f\n", result.InitialPotential)
	if n := result.StepsTaken; n > 0 {
		fmt.Fprintf(w, "final total energy\t%.6f\n", result.Total[n-1])
		fmt.Fprintf(w, "final virial ratio\t%.4f\n", result.Virial[n-1])
	}
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "%s\t%.6g\n", name, val)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if graph := viz.PlotSeries(result.Total, "total energy"); graph != "" {
		fmt.Println()
		fmt.Println(graph)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tSTEPS\tDT\tINIT\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4g\t%s\t%.3g\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.Dt,
			run.Init,
			run.Metrics["energy_drift"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Total) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d  steps: %d  dt: %g\n\n", meta.Bodies, meta.Steps, meta.Dt)

	for _, p := range []struct {
		data    []float64
		caption string
	}{
		{series.Kinetic, "kinetic energy"},
		{series.Potential, "potential energy"},
		{series.Total, "total energy"},
		{series.Virial, "virial ratio 2T/|U|"},
	} {
		fmt.Println(viz.PlotSeries(p.data, p.caption))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	f, err := os.Open(filepath.Join(dataDir, args[0], "energies.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID, outPath := args[0], args[1]

	st := storage.New(dataDir)
	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(frames, 800, 600)
	if svg == "" {
		return fmt.Errorf("no trajectory data in %s", runID)
	}

	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d frames)\n", outPath, len(frames))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Total) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("bodies: %d  dt: %g\n\n", meta.Bodies, meta.Dt)

	padded := analysis.PadPowerOfTwo(series.Kinetic)
	ps := analysis.PowerSpectrum(padded)

	fmt.Println(viz.PlotSeries(ps[:len(ps)/4], "power spectrum (kinetic energy)"))
	fmt.Println()

	freq := analysis.DominantFrequency(series.Kinetic, meta.Dt)
	fmt.Printf("dominant frequency: %.3f per time unit\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f time units\n", 1.0/freq)
	}

	return nil
}

func benchCore(cmd *cobra.Command, args []string) error {
	sizes := []int{50, 100, 200, 400}
	const benchSteps = 100

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		cfg := nbody.DefaultConfig()
		cfg.Bodies = n
		cfg.Steps = benchSteps
		cfg.Workers = workers

		sim, err := nbody.New(cfg)
		if err != nil {
			return err
		}

		pos, vel := sampler.NewCluster(n, 1.0, 0.1, 42).Sample()

		start := time.Now()
		if _, err := sim.Run(context.Background(), pos, vel); err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n",
			n, benchSteps, elapsed, float64(benchSteps)/elapsed.Seconds())
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.InitState.Kind != "cluster" && cfg.InitState.Kind != "" {
		return fmt.Errorf("ensemble runs use cluster initial states")
	}

	core := cfg.Core()
	ens := nbody.NewEnsemble(core, runs, cfg.Seed, func(seed int64) ([]nbody.Vec3, []nbody.Vec3) {
		return sampler.NewCluster(cfg.Bodies, cfg.InitState.Radius, cfg.InitState.VelScale, seed).Sample()
	})

	fmt.Printf("running %d realizations of %d bodies...\n", runs, cfg.Bodies)
	start := time.Now()

	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	drifts := make([]float64, 0, len(results))
	virials := make([]float64, 0, len(results))
	for _, r := range results {
		n := r.StepsTaken
		if n == 0 {
			continue
		}
		e0, eN := r.Total[0], r.Total[n-1]
		if e0 != 0 {
			drifts = append(drifts, math.Abs(eN-e0)/math.Abs(e0))
		}
		virials = append(virials, r.Virial[n-1])
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tMEAN\tSTDDEV")
	mean, std := meanStd(drifts)
	fmt.Fprintf(w, "energy drift\t%.3g\t%.3g\n", mean, std)
	mean, std = meanStd(virials)
	fmt.Fprintf(w, "final virial\t%.4f\t%.4f\n", mean, std)
	return w.Flush()
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	std = math.Sqrt(std / float64(len(xs)))
	return mean, std
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sim, err := buildSimulator(cfg)
	if err != nil {
		return err
	}

	pos, vel, err := makeInitialState(cfg)
	if err != nil {
		return err
	}

	scale := 2 * cfg.InitState.Radius
	if cfg.InitState.Kind == "binary" {
		scale = cfg.InitState.Separation
	}
	if scale <= 0 {
		scale = 2
	}

	return tui.Run(sim, pos, vel, scale)
}
