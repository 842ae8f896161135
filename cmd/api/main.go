package main

import (
	appconfig "MatchTracker/internal/config"
	"MatchTracker/internal/data"
	"MatchTracker/internal/gamehub"
	"MatchTracker/internal/live"
	"context"
	"database/sql"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type config struct {
	version string
	port    int
	env     string
	store   string
	backup  string
	rules   string
	db      struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	cors struct {
		trustedOrigins []string
	}
}

type application struct {
	logger   zerolog.Logger
	config   config
	rules    appconfig.Rules
	store    data.Store
	sessions *live.Registry
	hubs     *gamehub.HubModel
	wg       sync.WaitGroup
}

func main() {
	_ = godotenv.Load()

	var cfg config

	// Server Config
	cfg.version = "1.0.0"
	flag.IntVar(&cfg.port, "port", appconfig.GetEnvAsInt("TRACKER_PORT", 8008), "http server port")
	flag.StringVar(&cfg.env, "env", appconfig.GetEnv("TRACKER_ENV", "development"),
		"Environment (development|staging|production)")
	flag.StringVar(&cfg.rules, "rules", appconfig.GetEnv("TRACKER_RULES", ""),
		"Match rules file (yaml)")

	// Store Config
	flag.StringVar(&cfg.store, "store", appconfig.GetEnv("TRACKER_STORE", "postgres"),
		"Store backend (postgres|memory)")
	flag.StringVar(&cfg.backup, "backup-file", appconfig.GetEnv("TRACKER_BACKUP_FILE", ""),
		"Backup file loaded at start and written at shutdown by the memory store")

	// Database Config
	flag.StringVar(&cfg.db.dsn, "db-dsn", appconfig.GetEnv("TRACKER_DB_DSN", ""),
		"DB connection string")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m",
		"PostgreSQL max connection idle time")

	// Limiter Config
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 10, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 20, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	// CORS Config
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		origins := strings.Fields(val)
		if i := slices.Index(origins, "*"); i != -1 {
			return errors.New("cannot set CORS trusted origin to \"*\"")
		}
		cfg.cors.trustedOrigins = origins
		return nil
	})

	// Version
	displayVersion := flag.Bool("version", false, "Show API version and immediately exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version: %s\n", cfg.version)
		os.Exit(0)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	rules, err := appconfig.LoadRules(cfg.rules)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load match rules")
	}

	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.store).Msg("failed to open store")
	}
	defer cleanup()

	app := &application{
		logger: logger,
		config: cfg,
		rules:  rules,
		store:  store,
	}
	app.sessions = live.NewRegistry(store, live.Options{
		Rules:  rules,
		Logger: logger,
	})
	app.hubs = gamehub.NewHubModel(app.sessions, logger)

	expvar.NewString("version").Set(cfg.version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("live_games", expvar.Func(func() any {
		return app.hubs.Active()
	}))
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	err = app.serve()
	if err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// openStore returns the configured store and a func releasing it. The memory store is seeded
// from the backup file when one exists and written back to it on release.
func openStore(cfg config, logger zerolog.Logger) (data.Store, func(), error) {
	switch cfg.store {
	case "postgres":
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		expvar.Publish("database", expvar.Func(func() any {
			return db.Stats()
		}))
		logger.Info().Msg("database connection pool established")

		store := data.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil

	case "memory":
		store := data.NewMemoryStore()
		if cfg.backup == "" {
			return store, func() {}, nil
		}
		if err := loadBackup(store, cfg.backup); err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := saveBackup(store, cfg.backup); err != nil {
				logger.Error().Err(err).Str("file", cfg.backup).Msg("failed to write backup")
				return
			}
			logger.Info().Str("file", cfg.backup).Msg("backup written")
		}, nil
	}

	return nil, nil, fmt.Errorf("unknown store %q", cfg.store)
}

func loadBackup(store data.Store, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	backup, err := data.ReadBackup(f)
	if err != nil {
		return err
	}
	return store.Import(context.Background(), backup)
}

var backupMu sync.Mutex

func saveBackup(store data.Store, path string) error {
	backupMu.Lock()
	defer backupMu.Unlock()

	backup, err := store.Export(context.Background())
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := backup.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	duration, err := time.ParseDuration(cfg.db.maxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}
