package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"EquityScout/internal/chart"
	"EquityScout/internal/config"
	"EquityScout/internal/fetch"
	"EquityScout/internal/recorder"
	"EquityScout/internal/scan"
	"EquityScout/internal/scheduler"
	"EquityScout/internal/store"
	"EquityScout/internal/util"
)

const usage = `usage: scout <command> [flags]

commands:
  sync SYMBOLS...   fetch daily history and save it locally
  list              list locally available symbols
  scan              screen local data against filter criteria
  chart SYMBOL      print a candlestick table for a symbol
  head SYMBOL       show the first rows of a symbol's data
  daemon            run scheduled sync + scan until interrupted
`

type app struct {
	cfg   *config.Config
	store *store.CSVStore
	log   zerolog.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	log := util.NewLogger(cfg.LogLevel)
	st, err := store.NewCSVStore(cfg.Data.DailyDir)
	if err != nil {
		log.Fatal().Err(err).Msg("init store")
	}
	a := &app{cfg: cfg, store: st, log: log}

	var runErr error
	switch os.Args[1] {
	case "sync":
		runErr = a.runSync(os.Args[2:])
	case "list":
		runErr = a.runList()
	case "scan":
		runErr = a.runScan(os.Args[2:])
	case "chart":
		runErr = a.runChart(os.Args[2:])
	case "head":
		runErr = a.runHead(os.Args[2:])
	case "daemon":
		runErr = a.runDaemon()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}

func (a *app) newFetcher() (fetch.Fetcher, error) {
	return fetch.NewTiingoFetcher(a.cfg.Tiingo.APIKey, a.cfg.Tiingo.BaseURL, a.cfg.Proxy)
}

func (a *app) newRecorder() recorder.Recorder {
	if a.cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	r, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath)
	if err != nil {
		a.log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return r
}

func (a *app) startDate(override string) (time.Time, error) {
	s := override
	if s == "" {
		s = a.cfg.Sync.StartDate
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad start date %q: %w", s, err)
	}
	return t, nil
}

func (a *app) runSync(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	startFlag := fs.String("start", "", "fetch history from this date (YYYY-MM-DD)")
	fs.Parse(args)
	symbols := fs.Args()
	if len(symbols) == 0 {
		return fmt.Errorf("sync: at least one symbol is required")
	}

	fetcher, err := a.newFetcher()
	if err != nil {
		return err
	}
	start, err := a.startDate(*startFlag)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncer := fetch.NewSyncer(fetcher, a.store, a.cfg.Sync.Workers, a.log)
	results := syncer.Sync(ctx, symbols, start)

	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			color.Red("failed  %s: %v", r.Symbol, r.Err)
			failed++
		case r.Bars == 0:
			color.Yellow("empty   %s", r.Symbol)
		default:
			color.Green("synced  %s (%d bars)", r.Symbol, r.Bars)
		}
	}
	if failed > 0 {
		return fmt.Errorf("sync: %d of %d symbols failed", failed, len(results))
	}
	return nil
}

func (a *app) runList() error {
	symbols, err := a.store.List()
	if err != nil {
		return err
	}
	fmt.Printf("Found %d symbols locally:\n", len(symbols))
	for _, s := range symbols {
		fmt.Println(s)
	}
	return nil
}

func (a *app) runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	minPrice := fs.Float64("min-price", 0, "minimum close price")
	minVolume := fs.Float64("min-volume", 0, "minimum volume")
	minRVol := fs.Float64("min-rvol", 0, "minimum relative volume (20-day)")
	minADR := fs.Float64("min-adr", 0, "minimum average daily range % (20-day)")
	gapUp := fs.Float64("gap-up", 0, "minimum gap-up % over previous high")
	trendTemplate := fs.Bool("trend-template", false, "apply the trend template")
	sortKey := fs.String("sort", "", "sort column (symbol, date, close, volume, or an indicator)")
	recipeName := fs.String("recipe", "", "load filter values from a saved recipe")
	saveRecipe := fs.String("save-recipe", "", "save the effective filter values under this name")
	fs.Parse(args)

	// Only flags the user actually passed may override the recipe.
	explicit := scan.Recipe{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-price":
			explicit.MinPrice = minPrice
		case "min-volume":
			explicit.MinVolume = minVolume
		case "min-rvol":
			explicit.MinRelativeVolume = minRVol
		case "min-adr":
			explicit.MinADR = minADR
		case "gap-up":
			explicit.GapUp = gapUp
		case "trend-template":
			explicit.TrendTemplate = *trendTemplate
		case "sort":
			explicit.Sort = *sortKey
		}
	})

	recipe := explicit
	if *recipeName != "" {
		base, err := scan.LoadRecipe(a.cfg.Data.RecipesDir, *recipeName)
		if err != nil {
			return err
		}
		recipe = base.Merge(explicit)
	}

	if *saveRecipe != "" {
		path, err := scan.SaveRecipe(a.cfg.Data.RecipesDir, *saveRecipe, recipe)
		if err != nil {
			return err
		}
		a.log.Info().Str("path", path).Msg("recipe saved")
	}

	engine := scan.NewEngine(a.store, a.log)
	rows, err := engine.Scan(recipe.Filters())
	if err != nil {
		return err
	}
	scan.SortRows(rows, recipe.Sort)

	rec := a.newRecorder()
	defer rec.Close()
	record := &recorder.ScanRecord{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Filters:   recipe.Summary(),
		Universe:  engine.Universe(),
		Matches:   rows,
	}
	if err := rec.RecordScan(record); err != nil {
		a.log.Warn().Err(err).Msg("record scan failed")
	}

	chart.RenderScanRows(os.Stdout, rows, chart.IndicatorColumns(rows))
	return nil
}

func (a *app) runChart(args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	resample := fs.String("resample", "1d", "bucket interval: 1d, 1w, or 1mo")
	period := fs.String("period", "1y", "lookback window, e.g. 1y, 6mo, 90d")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("chart: exactly one symbol is required")
	}

	iv, err := chart.ParseInterval(*resample)
	if err != nil {
		return err
	}
	p, err := chart.ParsePeriod(*period)
	if err != nil {
		return err
	}

	symbol := fs.Arg(0)
	series, err := a.store.Load(symbol)
	if err != nil {
		return fmt.Errorf("no data for %s (run 'scout sync %s' first): %w", symbol, symbol, err)
	}
	series = chart.Resample(chart.Lookback(series, p), iv)
	chart.RenderCandles(os.Stdout, series)
	return nil
}

func (a *app) runHead(args []string) error {
	fs := flag.NewFlagSet("head", flag.ExitOnError)
	n := fs.Int("n", 10, "number of rows to display")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("head: exactly one symbol is required")
	}

	series, err := a.store.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if *n < series.Len() {
		series.Bars = series.Bars[:*n]
	}
	chart.RenderCandles(os.Stdout, series)
	return nil
}

func (a *app) runDaemon() error {
	fetcher, err := a.newFetcher()
	if err != nil {
		return err
	}
	start, err := a.startDate("")
	if err != nil {
		return err
	}

	recipe := scan.Recipe{}
	if a.cfg.ScanRecipe != "" {
		recipe, err = scan.LoadRecipe(a.cfg.Data.RecipesDir, a.cfg.ScanRecipe)
		if err != nil {
			return err
		}
	}

	rec := a.newRecorder()
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncer := fetch.NewSyncer(fetcher, a.store, a.cfg.Sync.Workers, a.log)
	engine := scan.NewEngine(a.store, a.log)
	sched := scheduler.NewScheduler(ctx, syncer, engine, rec, recipe, a.cfg.Watchlist, start, a.log)
	if err := sched.RegisterAll(a.cfg.Schedule.SyncCron, a.cfg.Schedule.ScanCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		a.log.Info().Msg("RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	a.log.Info().Msg("daemon running, press Ctrl+C to stop")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return nil
}
