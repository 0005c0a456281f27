package cmd

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/trace"
)

// runEntry is the run row recorded into the database.
type runEntry struct {
	RunID   string
	Trace   string
	Records uint64
	Loads   uint64
	Stores  uint64
}

// statsEntry is one per-cache, per-access-type stats row.
type statsEntry struct {
	RunID    string
	Cache    string
	Type     string
	Hits     uint64
	Misses   uint64
	Accesses uint64
}

var runFlags = struct {
	tracePath   string
	cacheSpecs  []string
	dbPath      string
	samplePd    uint64
	monitorPort int
	openBrowser bool
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trace against the configured caches",
	Long: `Run replays a memory-access trace against every configured cache ` +
		`and prints the hit/miss statistics. With --db, the run and its ` +
		`final statistics are recorded into a SQLite database, together ` +
		`with sampled per-access rows. With --monitor-port, a web server ` +
		`exposes the live counters while the trace plays.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runTrace()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.tracePath, "trace", "t", "",
		"trace file to replay, '-' for stdin (env CACHESIM_TRACE)")
	runCmd.Flags().StringArrayVarP(&runFlags.cacheSpecs, "cache", "c", nil,
		"cache spec name:size:line:assoc[:strategy[:alloc]], repeatable")
	runCmd.Flags().StringVar(&runFlags.dbPath, "db", "",
		"record results into this SQLite database (env CACHESIM_DB)")
	runCmd.Flags().Uint64Var(&runFlags.samplePd, "sample-period", 1000,
		"record one access row out of every n, 0 disables access rows")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"serve the live monitor on this port, 0 disables")
	runCmd.Flags().BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitor in the default browser")
}

func runTrace() error {
	tracePath := flagOrEnv(runFlags.tracePath, "CACHESIM_TRACE")
	if tracePath == "" {
		return fmt.Errorf("no trace given, use --trace or CACHESIM_TRACE")
	}

	caches, err := buildCaches()
	if err != nil {
		return err
	}

	traceFile, traceName, err := openTrace(tracePath)
	if err != nil {
		return err
	}
	defer traceFile.Close()

	var recorder datarecording.DataRecorder

	dbPath := flagOrEnv(runFlags.dbPath, "CACHESIM_DB")
	if dbPath != "" {
		recorder = datarecording.New(dbPath)
		prepareRecording(recorder, caches)
	}

	player := trace.NewPlayer(caches...)

	monitor := setupMonitor(caches, player)

	summary, err := player.Play(trace.NewReader(traceFile))
	if err != nil {
		return fmt.Errorf("replaying %s: %w", traceName, err)
	}

	for _, c := range caches {
		fmt.Print(c.StatsLong(""))
		fmt.Println()
	}

	fmt.Printf("Replayed %d records (%d loads, %d stores) from %s\n",
		summary.Records, summary.Loads, summary.Stores, traceName)

	if recorder != nil {
		recordRun(recorder, traceName, summary, caches)
	}

	if monitor != nil {
		// Leave the final counters up until the user is done reading.
		fmt.Fprintln(os.Stderr, "Monitor still serving, Ctrl-C to exit.")
		select {}
	}

	return nil
}

func buildCaches() ([]*cache.Cache, error) {
	specs := runFlags.cacheSpecs
	if len(specs) == 0 {
		specs = []string{"L1D:32KB:64:4:lru:allocate"}
	}

	caches := make([]*cache.Cache, 0, len(specs))
	for _, spec := range specs {
		name, builder, err := parseCacheSpec(spec)
		if err != nil {
			return nil, err
		}

		caches = append(caches, builder.Build(name))
	}

	return caches, nil
}

func openTrace(path string) (*os.File, string, error) {
	if path == "-" {
		return os.Stdin, "stdin", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening trace: %w", err)
	}

	return f, path, nil
}

func prepareRecording(
	recorder datarecording.DataRecorder,
	caches []*cache.Cache,
) {
	recorder.CreateTable("runs", runEntry{})
	recorder.CreateTable("cache_stats", statsEntry{})

	if runFlags.samplePd > 0 {
		hook := trace.NewDBHook(recorder, runFlags.samplePd)
		for _, c := range caches {
			c.AcceptHook(hook)
		}
	}
}

func setupMonitor(
	caches []*cache.Cache,
	player *trace.Player,
) *monitoring.Monitor {
	if runFlags.monitorPort == 0 {
		return nil
	}

	monitor := monitoring.NewMonitor().WithPortNumber(runFlags.monitorPort)
	for _, c := range caches {
		monitor.RegisterCache(c)
	}

	bar := monitor.CreateProgressBar("trace replay", 0)
	player.WithProgress(100000, func(played uint64) {
		bar.SetFinished(played)
	})

	monitor.StartServer()

	if runFlags.openBrowser {
		monitor.OpenBrowser()
	}

	return monitor
}

func recordRun(
	recorder datarecording.DataRecorder,
	traceName string,
	summary trace.Summary,
	caches []*cache.Cache,
) {
	runID := newRunID()

	recorder.InsertData("runs", runEntry{
		RunID:   runID,
		Trace:   traceName,
		Records: summary.Records,
		Loads:   summary.Loads,
		Stores:  summary.Stores,
	})

	for _, c := range caches {
		for _, t := range []cache.AccessType{
			cache.AccessTypeLoad,
			cache.AccessTypeStore,
		} {
			recorder.InsertData("cache_stats", statsEntry{
				RunID:    runID,
				Cache:    c.Name(),
				Type:     t.String(),
				Hits:     c.Hits(t),
				Misses:   c.Misses(t),
				Accesses: c.Accesses(t),
			})
		}
	}

	recorder.Flush()
}

func newRunID() string {
	return xid.New().String()
}

func flagOrEnv(flagValue, envName string) string {
	if flagValue != "" {
		return flagValue
	}

	return os.Getenv(envName)
}
