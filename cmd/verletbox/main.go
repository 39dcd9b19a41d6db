package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verletbox/internal/config"
	"github.com/san-kum/verletbox/internal/metrics"
	"github.com/san-kum/verletbox/internal/render"
	"github.com/san-kum/verletbox/internal/session"
	"github.com/san-kum/verletbox/internal/storage"
	"github.com/san-kum/verletbox/internal/verlet"
	"github.com/san-kum/verletbox/internal/viz"
)

var (
	dataDir     string
	configFile  string
	frameDt     float64
	frames      int
	substeps    int
	gravityX    float64
	gravityY    float64
	arenaRadius float64
	spawnCount  int
	perFrame    int
	radiusMin   float64
	radiusMax   float64
	seed        int64
	spatial     bool
	cellSize    float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "verletbox",
		Short: "2d verlet particle sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive sandbox when no command given.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verletbox", "data directory")

	addSimFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&frameDt, "dt", config.DefaultFrameDt, "frame time budget (s)")
		cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
		cmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "substeps per frame")
		cmd.Flags().Float64Var(&gravityX, "gravity-x", 0, "gravity x component")
		cmd.Flags().Float64Var(&gravityY, "gravity-y", config.DefaultGravityY, "gravity y component")
		cmd.Flags().Float64Var(&arenaRadius, "arena-radius", config.DefaultArenaR, "circular arena radius")
		cmd.Flags().IntVar(&spawnCount, "spawn", config.DefaultSpawnCount, "particles spawned up front")
		cmd.Flags().IntVar(&perFrame, "per-frame", 0, "particles spawned each frame")
		cmd.Flags().Float64Var(&radiusMin, "radius-min", config.DefaultRadiusMin, "minimum particle radius")
		cmd.Flags().Float64Var(&radiusMax, "radius-max", config.DefaultRadiusMax, "maximum particle radius")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
		cmd.Flags().BoolVar(&spatial, "spatial", false, "use spatial hash broad phase")
		cmd.Flags().Float64Var(&cellSize, "cell-size", 0, "spatial hash cell size")
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run headless simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive sandbox (click to spawn, wheel for substeps)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run aggregates",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solver across particle counts",
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "substeps per frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig layers preset, config file, and explicitly-set flags, in
// that order of increasing precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if len(args) > 0 {
		preset := config.GetPreset(args[0])
		if preset == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		clone := *preset
		cfg = &clone
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.FrameDt = frameDt
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("substeps") {
		cfg.Substeps = substeps
	}
	if cmd.Flags().Changed("gravity-x") {
		cfg.Gravity.X = gravityX
	}
	if cmd.Flags().Changed("gravity-y") {
		cfg.Gravity.Y = gravityY
	}
	if cmd.Flags().Changed("arena-radius") {
		cfg.Arena.Shape = "circle"
		cfg.Arena.Radius = arenaRadius
	}
	if cmd.Flags().Changed("spawn") {
		cfg.Spawn.Count = spawnCount
	}
	if cmd.Flags().Changed("per-frame") {
		cfg.Spawn.PerFrame = perFrame
	}
	if cmd.Flags().Changed("radius-min") {
		cfg.Spawn.RadiusMin = radiusMin
	}
	if cmd.Flags().Changed("radius-max") {
		cfg.Spawn.RadiusMax = radiusMax
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("spatial") {
		cfg.Spatial = spatial
	}
	if cmd.Flags().Changed("cell-size") {
		cfg.CellSize = cellSize
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// spawnPos samples a spawn location comfortably inside the arena.
func spawnPos(cfg *config.Config, rng *rand.Rand) (x, y float64) {
	switch cfg.Arena.Shape {
	case "box":
		spanX := cfg.Arena.MaxX - cfg.Arena.MinX - 2*cfg.Spawn.RadiusMax
		spanY := cfg.Arena.MaxY - cfg.Arena.MinY - 2*cfg.Spawn.RadiusMax
		return cfg.Arena.MinX + cfg.Spawn.RadiusMax + rng.Float64()*spanX,
			cfg.Arena.MinY + cfg.Spawn.RadiusMax + rng.Float64()*spanY
	default:
		angle := rng.Float64() * 2 * math.Pi
		r := rng.Float64() * (cfg.Arena.Radius - cfg.Spawn.RadiusMax)
		if r < 0 {
			r = 0
		}
		return cfg.Arena.CenterX + r*math.Cos(angle), cfg.Arena.CenterY + r*math.Sin(angle)
	}
}

func newSession(cfg *config.Config, rng *rand.Rand) (*session.Session, error) {
	solver, err := cfg.BuildSolver()
	if err != nil {
		return nil, err
	}
	sess := session.New(verlet.NewWorld(), solver, cfg.MaxFrameDt)

	for i := 0; i < cfg.Spawn.Count; i++ {
		x, y := spawnPos(cfg, rng)
		radius := cfg.Spawn.RadiusMin + rng.Float64()*(cfg.Spawn.RadiusMax-cfg.Spawn.RadiusMin)
		sess.Queue(session.Spawn{Pos: verlet.Vec2{X: x, Y: y}, Radius: radius})
	}
	return sess, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	sess, err := newSession(cfg, rng)
	if err != nil {
		return err
	}

	runMetrics := []metrics.Collector{
		metrics.NewMeanSpeed(),
		metrics.NewKineticEnergy(),
		metrics.NewMaxOverlap(),
	}

	fmt.Printf("simulating %d frames...\n", cfg.Frames)
	start := time.Now()

	samples := make([]storage.FrameSample, 0, cfg.Frames)
	t := 0.0
	for frame := 0; frame < cfg.Frames; frame++ {
		for i := 0; i < cfg.Spawn.PerFrame; i++ {
			x, y := spawnPos(cfg, rng)
			radius := cfg.Spawn.RadiusMin + rng.Float64()*(cfg.Spawn.RadiusMax-cfg.Spawn.RadiusMin)
			sess.Queue(session.Spawn{Pos: verlet.Vec2{X: x, Y: y}, Radius: radius})
		}

		sess.Step(cfg.FrameDt)
		t += sess.LastDt()

		substepDt := sess.Solver().SubstepDt(sess.LastDt())
		for _, m := range runMetrics {
			m.Observe(sess.World(), substepDt)
		}

		frameMean := metrics.NewMeanSpeed()
		frameKinetic := metrics.NewKineticEnergy()
		frameOverlap := metrics.NewMaxOverlap()
		frameMean.Observe(sess.World(), substepDt)
		frameKinetic.Observe(sess.World(), substepDt)
		frameOverlap.Observe(sess.World(), substepDt)

		samples = append(samples, storage.FrameSample{
			Frame:         frame,
			Time:          t,
			Particles:     sess.World().Count(),
			MeanSpeed:     frameMean.Value(),
			KineticEnergy: frameKinetic.Value(),
			MaxOverlap:    frameOverlap.Value(),
		})
	}

	elapsed := time.Since(start)

	metricValues := make(map[string]float64, len(runMetrics))
	for _, m := range runMetrics {
		metricValues[m.Name()] = m.Value()
	}

	meta := storage.RunMetadata{
		Seed:      cfg.Seed,
		FrameDt:   cfg.FrameDt,
		Substeps:  sess.Solver().Substeps(),
		Frames:    cfg.Frames,
		Particles: sess.World().Count(),
		Spatial:   cfg.Spatial,
		Metrics:   metricValues,
	}

	runID, err := st.Save(meta, samples)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("particles: %d\n", sess.World().Count())
	fmt.Println("\nmetrics:")
	for name, val := range metricValues {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	factory := func() *session.Session {
		rng := rand.New(rand.NewSource(cfg.Seed))
		sess, err := newSession(cfg, rng)
		if err != nil {
			// Config was validated before we got here.
			panic(err)
		}
		sess.Step(cfg.FrameDt)
		return sess
	}

	m := viz.NewModel(factory, render.DefaultPalette(),
		cfg.Spawn.RadiusMin, cfg.Spawn.RadiusMax, cfg.MaxFrameDt, cfg.Seed)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
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
	fmt.Fprintln(w, "ID\tTIME\tFRAMES\tPARTICLES\tSUBSTEPS\tSPATIAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Particles,
			run.Substeps,
			run.Spatial,
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

	samples, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		extract func(storage.FrameSample) float64
	}{
		{"mean speed", func(s storage.FrameSample) float64 { return s.MeanSpeed }},
		{"kinetic energy", func(s storage.FrameSample) float64 { return s.KineticEnergy }},
		{"max residual overlap", func(s storage.FrameSample) float64 { return s.MaxOverlap }},
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.extract(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, samples)
}

func benchSolver(cmd *cobra.Command, args []string) error {
	counts := []int{64, 256, 1024}
	const benchFrames = 120

	fmt.Println("benchmarking solver")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tMODE\tFRAMES\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		for _, mode := range []string{"exhaustive", "spatial"} {
			cfg := config.DefaultConfig()
			cfg.Seed = 42
			cfg.Substeps = substeps
			cfg.Spawn.Count = n
			cfg.Spawn.RadiusMin = 3
			cfg.Spawn.RadiusMax = 5
			if mode == "spatial" {
				cfg.Spatial = true
				cfg.CellSize = 2 * cfg.Spawn.RadiusMax
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(cfg.Seed))
			sess, err := newSession(cfg, rng)
			if err != nil {
				return err
			}

			start := time.Now()
			for frame := 0; frame < benchFrames; frame++ {
				sess.Step(cfg.FrameDt)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n",
				n, mode, benchFrames, elapsed,
				float64(benchFrames)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
