package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/batch"
	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/gui"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
	"github.com/spf13/cobra"
)

const debugLogFile = "orrery-debug.log"

var (
	dataDir    string
	configFile string
	preset     string
	frameRate  int
	theme      string
	debug      bool

	frames      int
	stopOnNaN   bool
	record      bool
	bodyName    string
	coordinate  string
	outFile     string
	svgWidth    int
	svgHeight   int
	snapshotAt  int
	overwrite   bool
	divergeStep int
	factors     []float64
	workers     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "orrery",
		Short:        "2D n-body gravity simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orrery", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset system")
	rootCmd.PersistentFlags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a per-frame trace to "+debugLogFile)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the system in the terminal",
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().StringVar(&theme, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
		c.Flags().BoolVar(&record, "record", false, "save the trajectory when the view exits")
	}

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run the system in a desktop window",
		RunE:  runWindow,
	}
	windowCmd.Flags().BoolVar(&record, "record", false, "save the trajectory when the window closes")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless for a fixed number of frames and save the trajectory",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 600, "number of frames (0 runs until interrupted)")
	runCmd.Flags().BoolVar(&stopOnNaN, "stop-on-nan", false, "fail once any body state is NaN or Inf")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&bodyName, "body", "", "only plot this body")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a body coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&bodyName, "body", "", "body to analyse (default: last body)")
	analyzeCmd.Flags().StringVar(&coordinate, "coord", "x", "coordinate (x, y, vx, vy)")

	divergeCmd := &cobra.Command{
		Use:   "diverge",
		Short: "estimate separation growth of nearby configurations",
		RunE:  runDivergence,
	}
	divergeCmd.Flags().IntVar(&divergeStep, "steps", 600, "number of steps")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run every preset headless in parallel and compare metrics",
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")
	batchCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "parallel runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "scale one body's initial velocity and compare energy drift",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")
	sweepCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "parallel runs")
	sweepCmd.Flags().StringVar(&bodyName, "body", "", "body to vary (default: last body)")
	sweepCmd.Flags().Float64SliceVar(&factors, "factors", []float64{0.5, 0.75, 1, 1.25, 1.5}, "velocity scale factors")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run's trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  trajectorySVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame of the system to SVG",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().IntVar(&snapshotAt, "frames", 0, "frames to advance before drawing")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				cfg := config.GetPreset(p)
				fmt.Printf("  %-8s %s (%d bodies)\n", p, cfg.Name, len(cfg.Bodies))
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the current configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(liveCmd, windowCmd, runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd,
		exportJSONCmd, analyzeCmd, divergeCmd, batchCmd, sweepCmd, svgCmd, snapshotCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the preset, then the config file, then changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
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

	if cmd.Flags().Changed("fps") {
		cfg.FPS = frameRate
	}
	if f := cmd.Flags().Lookup("theme"); f != nil && f.Changed {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

// setupLogging sends log output to the debug file, or discards it.
func setupLogging() (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(debugLogFile, "orrery")
	if err != nil {
		return nil, err
	}
	return func() { f.Close() }, nil
}

func attachCommon(drv *frame.Driver) []metrics.Metric {
	if debug {
		drv.AddObserver(frame.NewLogObserver(log.Default()))
	}
	ms := metrics.Defaults()
	for _, m := range ms {
		drv.AddObserver(m)
	}
	return ms
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	sys := cfg.System()
	canvas := viz.NewCanvas(80, 24)
	drv := frame.New(sys, canvas, clock.New(nil), cfg.FrameOptions())
	ms := attachCommon(drv)

	var rec *storage.Recorder
	if record {
		rec = storage.NewRecorder(sys)
		drv.AddObserver(rec)
	}

	log.Printf("live: %s, %d bodies at %d fps", cfg.Name, sys.Len(), cfg.FPS)

	p := tea.NewProgram(viz.NewModel(drv, canvas, viz.GetTheme(cfg.Theme)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	if rec != nil {
		return saveRun(cfg, drv, rec, ms)
	}
	return nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	sys := cfg.System()
	observers := make([]frame.Observer, 0)
	if debug {
		observers = append(observers, frame.NewLogObserver(log.Default()))
	}

	var rec *storage.Recorder
	if record {
		rec = storage.NewRecorder(sys)
		observers = append(observers, rec)
	}

	gui.Run(sys, cfg.FrameOptions(), observers...)

	if rec != nil {
		traj := rec.Trajectory()
		meta := storage.RunMetadata{
			System:  cfg.Name,
			FPS:     cfg.FPS,
			Frames:  len(traj.Samples) - 1,
			Elapsed: traj.Times[len(traj.Times)-1],
		}
		return save(meta, traj)
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	sys := cfg.System()
	opts := cfg.FrameOptions()
	opts.StopOnNonFinite = stopOnNaN

	interval := time.Second / time.Duration(cfg.FPS)
	drv := frame.New(sys, export.NewSVGSurface(), clock.New(clock.NewStepSource(time.Now(), interval)), opts)
	ms := attachCommon(drv)
	rec := storage.NewRecorder(sys)
	drv.AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s for %d frames...\n", cfg.Name, frames)
	start := time.Now()

	runErr := drv.Run(ctx, frames)
	var cycleErr *frame.CycleError
	if runErr != nil && !errors.As(runErr, &cycleErr) {
		return runErr
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	if cycleErr != nil {
		fmt.Printf("stopped: %v\n", cycleErr)
	}

	if err := saveRun(cfg, drv, rec, ms); err != nil {
		return err
	}
	return runErr
}

func saveRun(cfg *config.Config, drv *frame.Driver, rec *storage.Recorder, ms []metrics.Metric) error {
	meta := storage.RunMetadata{
		System:  cfg.Name,
		FPS:     cfg.FPS,
		Frames:  drv.Frames(),
		Elapsed: drv.SimTime(),
		Metrics: metrics.Collect(ms),
	}
	if err := save(meta, rec.Trajectory()); err != nil {
		return err
	}

	fmt.Printf("frames: %d\n", drv.Frames())
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6g\n", m.Name(), m.Value())
	}
	return nil
}

func save(meta storage.RunMetadata, traj *storage.Trajectory) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runID, err := st.Save(meta, traj)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
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
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tFRAMES\tFPS\tELAPSED\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2fs\t%d\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FPS,
			run.Elapsed,
			len(run.Bodies),
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}

	if len(traj.Samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, traj, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d\n\n", len(traj.Samples))

	for i, name := range traj.Bodies {
		if bodyName != "" && name != bodyName {
			continue
		}
		for _, coord := range []string{"x", "y"} {
			data := traj.Series(i, coord)
			if len(data) > 200 {
				data = downsample(data, 200)
			}

			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s %s", name, coord)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func downsample(data []float64, n int) []float64 {
	out := make([]float64, n)
	step := float64(len(data)) / float64(n)
	for i := range out {
		out[i] = data[int(float64(i)*step)]
	}
	return out
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
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, traj)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	body := len(traj.Bodies) - 1
	if bodyName != "" {
		body = traj.BodyIndex(bodyName)
		if body < 0 {
			return fmt.Errorf("unknown body %q (available: %v)", bodyName, traj.Bodies)
		}
	}

	data := traj.Series(body, coordinate)
	if len(data) < 4 {
		return fmt.Errorf("need at least 4 samples, have %d", len(data))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("body: %s (%s)\n\n", traj.Bodies[body], coordinate)

	ps := analysis.PowerSpectrum(data)
	plotData := ps
	if len(plotData) > 8 {
		plotData = plotData[:len(plotData)/4]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s %s)", traj.Bodies[body], coordinate)),
	)
	fmt.Println(graph)
	fmt.Println()

	// sample spacing in simulated seconds
	dt := 1.0 / float64(max(meta.FPS, 1))
	if meta.Frames > 0 && meta.Elapsed > 0 {
		dt = meta.Elapsed / float64(meta.Frames)
	}

	period := analysis.DominantPeriod(data, dt)
	if period == 0 {
		fmt.Println("no dominant period")
		return nil
	}
	fmt.Printf("dominant period: %.3f s (%.1f days)\n", period, period*physics.Timestep/86400)
	return nil
}

func runDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	elapsed := 1.0 / float64(cfg.FPS)
	rate := analysis.Divergence(cfg.System(), elapsed, divergeStep, 1e-3)

	fmt.Printf("system: %s\n", cfg.Name)
	fmt.Printf("steps: %d at %.4fs\n", divergeStep, elapsed)
	fmt.Printf("divergence rate: %.6g per step (%.6g per s)\n", rate, rate/elapsed)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	if frames <= 0 {
		return fmt.Errorf("--frames must be positive")
	}

	jobs := make([]batch.Job, 0)
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		if cmd.Flags().Changed("fps") {
			cfg.FPS = frameRate
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		jobs = append(jobs, batch.Job{Name: name, System: cfg.System(), Options: cfg.FrameOptions()})
	}

	fmt.Printf("running %d presets for %d frames on %d workers...\n\n", len(jobs), frames, workers)
	results := batch.Run(cmd.Context(), jobs, frames, workers)
	return printResults(results, func(i int) string { return results[i].Name })
}

func runSweep(cmd *cobra.Command, args []string) error {
	if frames <= 0 {
		return fmt.Errorf("--frames must be positive")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sys := cfg.System()
	body := sys.Len() - 1
	if bodyName != "" {
		body = sys.BodyIndex(bodyName)
		if body < 0 {
			return fmt.Errorf("unknown body %q", bodyName)
		}
	}

	jobs := batch.VelocitySweep(cfg.Name, sys, body, factors, cfg.FrameOptions())
	fmt.Printf("sweeping %s velocity over %v for %d frames...\n\n", sys.Bodies[body].Name, factors, frames)

	results := batch.Run(cmd.Context(), jobs, frames, workers)
	if err := printResults(results, func(i int) string { return fmt.Sprintf("x%g", factors[i]) }); err != nil {
		return err
	}

	if best := batch.Best(results, "energy_drift"); best >= 0 {
		fmt.Printf("\nlowest energy drift: x%g (%.3e)\n", factors[best], results[best].Metrics["energy_drift"])
	}
	return nil
}

func printResults(results []batch.Result, label func(int) string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tFRAMES\tENERGY\tENERGY_DRIFT\tMOMENTUM_DRIFT\tSTATUS")

	for i, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%.4e\t%.3e\t%.3e\t%s\n",
			label(i),
			r.Frames,
			r.Metrics["energy"],
			r.Metrics["energy_drift"],
			r.Metrics["momentum_drift"],
			status,
		)
	}

	return w.Flush()
}

func trajectorySVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := export.TrajectoryToSVG(traj, svgWidth, svgHeight, config.DefaultBackground)
	if out == "" {
		return fmt.Errorf("not enough samples to draw")
	}
	return writeOutput(out)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	surf := export.NewSVGSurface()
	interval := time.Second / time.Duration(cfg.FPS)
	drv := frame.New(cfg.System(), surf, clock.New(clock.NewStepSource(time.Now(), interval)), cfg.FrameOptions())

	if snapshotAt > 0 {
		if err := drv.Run(context.Background(), snapshotAt); err != nil {
			return err
		}
	}
	drv.Render()

	return writeOutput(surf.String())
}

func writeOutput(s string) error {
	if outFile == "" {
		fmt.Println(s)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(s), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "orrery.yaml"
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
