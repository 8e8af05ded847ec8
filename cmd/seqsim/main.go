package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/seqsim/internal/automation"
	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/config"
	"github.com/san-kum/seqsim/internal/export"
	"github.com/san-kum/seqsim/internal/fixture"
	"github.com/san-kum/seqsim/internal/metrics"
	"github.com/san-kum/seqsim/internal/scene"
	"github.com/san-kum/seqsim/internal/script"
	"github.com/san-kum/seqsim/internal/storage"
	"github.com/san-kum/seqsim/internal/store"
	"github.com/san-kum/seqsim/internal/timeline"
	"github.com/san-kum/seqsim/internal/tui"
	"github.com/san-kum/seqsim/internal/viz"
	"github.com/san-kum/seqsim/internal/watch"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	dt       float64
	duration float64
	rate     float64
	loop     bool

	live       bool
	frameRate  int
	scriptsDir string
	jsonOut    string
	svgOut     string
	noSave     bool

	outDir   string
	entity   string
	width    int
	height   int
	watchFs  bool
	themeArg string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "seqsim",
		Short:         "keyframe timeline sequencer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".seqsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run [sequence|file]",
		Short: "bake a sequence and save the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runSequence,
	}
	playbackFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "draw the scene while baking")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for live view")
	runCmd.Flags().StringVar(&scriptsDir, "scripts", "", "directory of event scripts")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the bake as JSON (- for stdout)")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write entity paths as SVG")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	bakeCmd := &cobra.Command{
		Use:   "bake [sequence|file] ...",
		Short: "bake several sequences concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  bakeMany,
	}
	playbackFlags(bakeCmd)
	bakeCmd.Flags().StringVar(&outDir, "out", "", "write each bake as JSON into this directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot entity paths of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&entity, "entity", "", "only plot this entity")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and events",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	curveCmd := &cobra.Command{
		Use:   "curve [sequence|file] [group] [track]",
		Short: "plot a track's curves over the sequence",
		Args:  cobra.ExactArgs(3),
		RunE:  plotCurve,
	}
	curveCmd.Flags().IntVar(&width, "width", 80, "plot width")
	curveCmd.Flags().IntVar(&height, "height", 10, "plot height")

	playCmd := &cobra.Command{
		Use:   "play [sequence|file]",
		Short: "play a sequence interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  playSequence,
	}
	playbackFlags(playCmd)
	playCmd.Flags().BoolVar(&watchFs, "watch", false, "reload the fixture file when it changes")
	playCmd.Flags().StringVar(&scriptsDir, "scripts", "", "directory of event scripts")
	playCmd.Flags().StringVar(&themeArg, "theme", "night", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	validateCmd := &cobra.Command{
		Use:   "validate [sequence|file]",
		Short: "check a sequence for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE:  validateSequence,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRATE\tLOOP\tDT\tLOOKAHEAD")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2f\t%v\t%.4f\t%.1f\n", name, c.Rate, c.Loop, c.Dt, c.Lookahead)
			}
			return w.Flush()
		},
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "list built-in sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := catalog.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
			}
			return w.Flush()
		},
	}
	catalogCmd.AddCommand(&cobra.Command{
		Use:   "export [name] [path]",
		Short: "write a built-in sequence as a fixture file",
		Args:  cobra.ExactArgs(2),
		RunE:  exportCatalog,
	})

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a batch of bakes from a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	rootCmd.AddCommand(runCmd, bakeCmd, listCmd, plotCmd, exportCmd, curveCmd, playCmd, validateCmd, presetsCmd, catalogCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func playbackFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 0, "bake duration (0 uses the sequence length)")
	cmd.Flags().Float64Var(&rate, "rate", config.DefaultRate, "playback rate")
	cmd.Flags().BoolVar(&loop, "loop", false, "loop playback")
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadConfig layers the preset or config file under the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			if s := timeline.Suggest(preset, config.ListPresets()); s != "" {
				return nil, fmt.Errorf("unknown preset: %s (did you mean %s?)", preset, s)
			}
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
	} else {
		var err error
		if cfg, err = config.LoadLayered(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.DurationOverride = duration
	}
	if flags.Changed("rate") {
		cfg.Rate = rate
	}
	if flags.Changed("loop") {
		cfg.Loop = loop
	}
	return cfg, nil
}

// resolveSequence treats arg as a fixture file when it looks like one and
// as a catalog name otherwise.
func resolveSequence(arg string) (*fixture.Fixture, error) {
	ext := strings.ToLower(filepath.Ext(arg))
	if ext == ".yaml" || ext == ".yml" {
		return fixture.Load(arg)
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return fixture.Load(arg)
	}
	return catalog.NewRegistry().Get(arg)
}

func bakeConfig(cfg *config.Config, fx *fixture.Fixture) bake.Config {
	return bake.Config{
		Dt:       cfg.Dt,
		Duration: cfg.BakeDuration(fx.Data.Length()),
		Settings: cfg.Playback(),
	}
}

func runSequence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fx, err := resolveSequence(args[0])
	if err != nil {
		return err
	}
	log := logger()

	baker := bake.New(fx)
	baker.SetLogger(log)
	for _, m := range metrics.Default(fx.Data) {
		baker.AddMetric(m)
	}

	var handlers *script.Handlers
	if scriptsDir != "" {
		if handlers, err = script.Load(scriptsDir); err != nil {
			return err
		}
		handlers.SetLogger(log)
		baker.OnBuild(func(w *scene.World) { handlers.SetFlags(w) })
		baker.AddEventSink(handlers.Sink(nil))
	}

	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(os.Stdout, fx.Data.Name, frameRate)
		renderer.SetPace(time.Duration(cfg.Dt * float64(time.Second)))
		baker.AddObserver(renderer)
		renderer.Start()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	bcfg := bakeConfig(cfg, fx)
	fmt.Fprintf(os.Stderr, "baking %s...\n", fx.Data.Name)
	start := time.Now()
	result, err := baker.Run(ctx, bcfg)
	if renderer != nil {
		renderer.Stop()
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if jsonOut == "-" {
		return store.ExportJSONStdout(bcfg, result)
	}
	if jsonOut != "" {
		if err := store.ExportJSON(jsonOut, bcfg, result); err != nil {
			return err
		}
	}
	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.PathsToSVG(result, 800, 600)), 0644); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(preset, bcfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Printf("events: %d\n", len(result.Events))
	if result.Loops > 0 {
		fmt.Printf("loops: %d\n", result.Loops)
	}
	printMetrics(result.Metrics)

	if handlers != nil {
		for _, l := range handlers.Lines() {
			fmt.Printf("  [%6.2fs] %s: %s\n", l.Time, l.Event, l.Text)
		}
	}
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func bakeMany(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	jobs := make([]bake.Job, 0, len(args))
	for _, arg := range args {
		fx, err := resolveSequence(arg)
		if err != nil {
			return err
		}
		jobs = append(jobs, bake.Job{Name: arg, Fixture: fx, Config: bakeConfig(cfg, fx)})
	}

	ens := bake.NewEnsemble(jobs, func(j bake.Job) []bake.Metric { return metrics.Default(j.Fixture.Data) })
	ens.SetLogger(logger())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("baked %d sequences in %v\n\n", len(results), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tSEQUENCE\tFRAMES\tEVENTS\tLOOPS\tCUTS")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.0f\n",
			jobs[i].Name, res.Sequence, len(res.Frames), len(res.Events), res.Loops, res.Metrics["cut_count"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if outDir == "" {
		return nil
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	for i, res := range results {
		path := filepath.Join(outDir, res.Sequence+".json")
		if err := store.ExportJSON(path, jobs[i].Config, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
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
	fmt.Fprintln(w, "ID\tSEQUENCE\tTIME\tDURATION\tDT\tFRAMES\tEVENTS\tPRESET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%s\n",
			run.ID,
			run.Sequence,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Frames,
			run.Events,
			run.Preset,
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

	rows, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	byEntity := make(map[string][]storage.SampleRow)
	var order []string
	for _, row := range rows {
		if entity != "" && row.Entity != entity {
			continue
		}
		if _, ok := byEntity[row.Entity]; !ok {
			order = append(order, row.Entity)
		}
		byEntity[row.Entity] = append(byEntity[row.Entity], row)
	}
	if len(order) == 0 {
		return fmt.Errorf("no samples for entity %q", entity)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("sequence: %s\n", meta.Sequence)
	fmt.Printf("samples: %d\n\n", len(rows))

	for _, name := range order {
		series := make([][]float64, 3)
		for _, row := range byEntity[name] {
			for i := range 3 {
				series[i] = append(series[i], row.Location[i])
			}
		}
		fmt.Println(viz.PlotSeries(series, width, height, name+" x/y/z vs time"))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	events, err := st.LoadEvents(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*storage.RunMetadata
		EventLog any `json:"event_log"`
	}{meta, events})
}

func plotCurve(cmd *cobra.Command, args []string) error {
	fx, err := resolveSequence(args[0])
	if err != nil {
		return err
	}
	g := fx.Data.FindGroup(args[1])
	if g == nil {
		names := make([]string, len(fx.Data.Groups))
		for i, grp := range fx.Data.Groups {
			names[i] = grp.Name
		}
		if s := timeline.Suggest(args[1], names); s != "" {
			return fmt.Errorf("unknown group: %s (did you mean %s?)", args[1], s)
		}
		return fmt.Errorf("unknown group: %s", args[1])
	}

	var tr timeline.Track
	names := make([]string, 0, len(g.Tracks))
	for _, t := range g.Tracks {
		names = append(names, t.Info().Name)
		if t.Info().Name == args[2] {
			tr = t
		}
	}
	if tr == nil {
		if s := timeline.Suggest(args[2], names); s != "" {
			return fmt.Errorf("unknown track: %s (did you mean %s?)", args[2], s)
		}
		return fmt.Errorf("unknown track: %s", args[2])
	}

	series, labels := viz.TrackSeries(tr, 0, fx.Data.Length(), width)
	if series == nil {
		return fmt.Errorf("track %s has no curves to plot", args[2])
	}
	caption := fmt.Sprintf("%s/%s (%s) over %.2fs", g.Name, args[2], strings.Join(labels, ", "), fx.Data.Length())
	if len(series) == 1 {
		fmt.Println(viz.Plot(series[0], width, height, caption))
	} else {
		fmt.Println(viz.PlotSeries(series, width, height, caption))
	}
	return nil
}

func playSequence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fx, err := resolveSequence(args[0])
	if err != nil {
		return err
	}
	log := logger()

	opts := tui.Options{Settings: cfg.Playback(), Theme: themeArg, Logger: log}
	if scriptsDir != "" {
		if opts.Scripts, err = script.Load(scriptsDir); err != nil {
			return err
		}
		opts.Scripts.SetLogger(log)
	}

	if !watchFs {
		return tui.Run(fx, opts, nil)
	}
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("--watch needs a fixture file: %w", err)
	}

	w, err := watch.New(args[0], watch.DefaultDebounce)
	if err != nil {
		return err
	}
	w.SetLogger(log)
	if scriptsDir != "" {
		if err := w.AddScripts(scriptsDir); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("watcher stopped", "err", err)
		}
	}()

	msgs := make(chan tea.Msg)
	go func() {
		defer close(msgs)
		for r := range w.Reloads() {
			msgs <- reloadMsg(r, log)
		}
	}()

	return tui.Run(fx, opts, msgs)
}

func reloadMsg(r watch.Reload, log *slog.Logger) tea.Msg {
	if r.Err != nil {
		return tui.ErrorMsg{Err: r.Err}
	}
	msg := tui.ReloadMsg{Fixture: r.Fixture}
	if scriptsDir != "" {
		h, err := script.Load(scriptsDir)
		if err != nil {
			return tui.ErrorMsg{Err: err}
		}
		h.SetLogger(log)
		msg.Scripts = h
	}
	return msg
}

func validateSequence(cmd *cobra.Command, args []string) error {
	var data *timeline.SequenceData
	ext := strings.ToLower(filepath.Ext(args[0]))
	if ext == ".yaml" || ext == ".yml" {
		f, err := fixture.Read(args[0])
		if err != nil {
			return err
		}
		fx, err := f.Decode()
		if err != nil {
			return err
		}
		data = fx.Data
	} else {
		fx, err := catalog.NewRegistry().Get(args[0])
		if err != nil {
			return err
		}
		data = fx.Data
	}

	err := data.Validate()
	if err != nil {
		var problems []error
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			problems = joined.Unwrap()
		} else {
			problems = []error{err}
		}
		for _, p := range problems {
			fmt.Printf("error: %v\n", p)
		}
	}
	for _, w := range data.Warnings() {
		fmt.Printf("warning: %s\n", w)
	}
	if err != nil {
		return fmt.Errorf("%s is invalid", data.Name)
	}
	fmt.Printf("%s: ok (%d groups, %.2fs)\n", data.Name, len(data.Groups), data.Length())
	return nil
}

func exportCatalog(cmd *cobra.Command, args []string) error {
	fx, err := catalog.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}
	if err := fixture.Write(args[1], fixture.Encode(fx.Data, fx.Scene)); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	runner := automation.NewRunner(catalog.NewRegistry(), st)
	runner.SetLogger(logger())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if batch.Name != "" {
		fmt.Printf("batch: %s\n", batch.Name)
	}
	start := time.Now()
	outcomes, err := runner.Run(ctx, batch)
	if err != nil {
		return err
	}
	fmt.Printf("completed %d bakes in %v\n\n", len(outcomes), time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tPRESET\tFRAMES\tEVENTS\tRUN")
	for _, o := range outcomes {
		id := o.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", o.Job, o.Preset, len(o.Result.Frames), len(o.Result.Events), id)
	}
	return w.Flush()
}
