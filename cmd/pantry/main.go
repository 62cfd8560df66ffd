// PantryMind: kitchen inventory with FIFO batch consumption.
//
// Without a command it opens the terminal UI. The consume, cook and info
// commands work on the same database from scripts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pantrymind/pantrymind/internal/config"
	"github.com/pantrymind/pantrymind/internal/database"
	"github.com/pantrymind/pantrymind/internal/database/seed"
	"github.com/pantrymind/pantrymind/internal/services/consumption"
	"github.com/pantrymind/pantrymind/internal/services/pantry"
	"github.com/pantrymind/pantrymind/internal/tui"
	"github.com/pantrymind/pantrymind/internal/util"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const usage = `usage: pantry [flags] [command]

commands:
  tui                              open the terminal UI (default)
  consume [-preview] ITEM QTY [UNIT]  use stock of one item
  cook [-preview] RECIPE.yaml      use every ingredient of a recipe
  info ITEM                        show an item's batches in use order
  seed [-name NAME]                create a demo kitchen
  backup                           write a copy of the database to the backup directory

flags:
`

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		kitchenID   = flag.String("kitchen", "", "Kitchen ID (defaults to the configured or only kitchen)")
		migrateOnly = flag.Bool("migrate-only", false, "Run migrations and exit")
		showVersion = flag.Bool("version", false, "Show version and exit")
		debugMode   = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("PantryMind version %s (built %s)\n", Version, BuildTime)
		fmt.Printf("config: %s\n", config.ConfigPath(*configPath))
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	opts := runOptions{
		configPath:  *configPath,
		kitchenID:   *kitchenID,
		migrateOnly: *migrateOnly,
		debug:       *debugMode,
		args:        flag.Args(),
	}
	if err := run(ctx, opts); err != nil {
		slog.Error("application error", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath  string
	kitchenID   string
	migrateOnly bool
	debug       bool
	args        []string
}

func run(ctx context.Context, opts runOptions) error {
	cfg, cfgPath, err := config.Load(opts.configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return fmt.Errorf("resolving paths: %w", err)
	}

	closeLog, err := setupLogging(cfg.Logging.Level, paths.LogFile, opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("PantryMind starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
	)

	db, err := database.Open(paths.Database, &cfg.Database, paths.Backups)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		slog.Info("closing database")
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	result, err := migrator.MigrateUp(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if len(result.Applied) > 0 {
		slog.Info("applied migrations",
			"count", len(result.Applied),
			"to_version", result.TargetVersion,
		)
	}

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	if opts.migrateOnly {
		slog.Info("migrations complete, exiting")
		return nil
	}

	command, args := "tui", []string(nil)
	if len(opts.args) > 0 {
		command, args = opts.args[0], opts.args[1:]
	}

	switch command {
	case "seed":
		return runSeed(ctx, db, args)
	case "backup":
		path, err := db.Backup(ctx)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	clock := util.SystemClock{Location: cfg.Kitchen.Location()}
	svc := pantry.NewService(db.DB, clock)

	engine, shutdown, err := newEngine(ctx, db, cfg, clock)
	if err != nil {
		return err
	}
	defer shutdown()

	kitchenID, err := resolveKitchen(ctx, svc, opts.kitchenID, cfg.Kitchen.DefaultKitchenID)
	if err != nil {
		return err
	}

	cmds := &cli{
		svc:       svc,
		engine:    engine,
		kitchenID: kitchenID,
		userID:    cfg.Kitchen.DefaultUserID,
		out:       os.Stdout,
	}

	switch command {
	case "tui":
		tui.Version = Version
		tui.BuildTime = BuildTime

		slog.Info("starting TUI", "kitchen_id", kitchenID)
		if err := tui.Run(ctx, svc, engine, cfg, clock, kitchenID); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
	case "consume":
		return cmds.consume(ctx, args)
	case "cook":
		return cmds.cook(ctx, args)
	case "info":
		return cmds.info(ctx, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	slog.Info("PantryMind shutdown complete")
	return nil
}

// setupLogging installs the default slog logger, writing JSON to logPath or
// text to stderr. The returned func closes the log file, if any.
func setupLogging(level config.LogLevel, logPath string, debug bool) (func(), error) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	} else {
		switch level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}

	var logHandler slog.Handler
	closeFn := func() {}

	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFn = func() { logFile.Close() }

		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})
	}

	slog.SetDefault(slog.New(logHandler))
	return closeFn, nil
}

// newEngine builds the consumption coordinator with the configured locker
// and, when enabled, a Prometheus endpoint.
func newEngine(ctx context.Context, db *database.DB, cfg *config.Config, clock util.Clock) (*consumption.Coordinator, func(), error) {
	var cleanups []func()
	shutdown := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var locker consumption.ItemLocker
	switch cfg.Locking.Backend {
	case config.LockBackendRedis:
		client, err := consumption.NewRedisClient(ctx, &cfg.Locking)
		if err != nil {
			return nil, nil, fmt.Errorf("creating redis locker: %w", err)
		}
		cleanups = append(cleanups, func() { client.Close() })
		locker = consumption.NewRedisLocker(client, &cfg.Locking)
		slog.Info("using redis item locks", "addr", cfg.Locking.RedisAddr)
	default:
		locker = consumption.NewLocalLocker()
	}

	var metrics *consumption.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = consumption.NewMetrics(reg, cfg.Metrics.Namespace)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		cleanups = append(cleanups, func() {
			sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			srv.Shutdown(sctx)
		})
	}

	engine := consumption.NewCoordinator(consumption.NewDBStore(db), consumption.Options{
		Locker:             locker,
		Metrics:            metrics,
		Clock:              clock,
		Logger:             slog.Default().With("component", "consumption"),
		MaxCommitRetries:   cfg.Engine.MaxCommitRetries,
		LockTimeout:        cfg.Engine.LockTimeoutDuration(),
		SuppressUnitReview: !cfg.Engine.FlagUnknownUnits,
	})
	return engine, shutdown, nil
}

// resolveKitchen picks the kitchen to work in: the flag, then the
// configured default, then the only kitchen in the database.
func resolveKitchen(ctx context.Context, svc *pantry.Service, flagID, configured string) (string, error) {
	for _, id := range []string{flagID, configured} {
		if id == "" {
			continue
		}
		if _, err := svc.GetKitchen(ctx, id); err != nil {
			return "", fmt.Errorf("kitchen %s: %w", id, err)
		}
		return id, nil
	}

	kitchens, err := svc.ListKitchens(ctx)
	if err != nil {
		return "", fmt.Errorf("listing kitchens: %w", err)
	}
	switch len(kitchens) {
	case 0:
		return "", errors.New("no kitchens yet; run 'pantry seed' or create one first")
	case 1:
		return kitchens[0].ID, nil
	default:
		return "", fmt.Errorf("%d kitchens found; choose one with -kitchen", len(kitchens))
	}
}

func runSeed(ctx context.Context, db *database.DB, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	name := fs.String("name", "Demo Kitchen", "Kitchen name")
	randomSeed := fs.Int64("seed", 42, "Random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	seedCfg := seed.DefaultConfig(*name)
	seedCfg.RandomSeed = *randomSeed

	kitchen, err := seed.NewGenerator(db.DB, seedCfg).Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating seed data: %w", err)
	}

	fmt.Printf("created kitchen %q (%s)\n", kitchen.Name, kitchen.ID)
	return nil
}
