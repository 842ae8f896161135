// Command trackerctl maintains a match tracker store from the command line.
//
// Usage:
//
//	trackerctl migrate
//	trackerctl backup export --out backup.json
//	trackerctl backup import --in backup.json
//	trackerctl report game 12 --format csv
//	trackerctl report team 1 --from-backup backup.json
//	trackerctl rules check rules.yaml
package main

import (
	"MatchTracker/internal/config"
	"MatchTracker/internal/data"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

type storeFlags struct {
	dsn        string
	fromBackup string
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags storeFlags

	root := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Match tracker maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", config.GetEnv("TRACKER_DB_DSN", ""),
		"PostgreSQL connection string")
	root.PersistentFlags().StringVar(&flags.fromBackup, "from-backup", "",
		"Read from a backup file instead of the database")

	root.AddCommand(migrateCmd(&flags))
	root.AddCommand(backupCmd(&flags))
	root.AddCommand(reportCmd(&flags))
	root.AddCommand(rulesCmd())
	return root
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(flags, func(ctx context.Context, store *data.PostgresStore) error {
				start := time.Now()
				if err := store.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				logger.Info().Dur("duration", time.Since(start)).Msg("schema up to date")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withStore opens the backup file named by --from-backup into a memory store, or the
// database otherwise.
func withStore(flags *storeFlags, fn func(ctx context.Context, store data.Store) error) error {
	if flags.fromBackup == "" {
		return withDB(flags, func(ctx context.Context, store *data.PostgresStore) error {
			return fn(ctx, store)
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store, err := readBackupFile(ctx, flags.fromBackup)
	if err != nil {
		return err
	}
	return fn(ctx, store)
}

func withDB(flags *storeFlags, fn func(ctx context.Context, store *data.PostgresStore) error) error {
	if flags.dsn == "" {
		return errors.New("a database is required: set --dsn or TRACKER_DB_DSN")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	db, err := sql.Open("postgres", flags.dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	return fn(ctx, data.NewPostgresStore(db))
}

func readBackupFile(ctx context.Context, path string) (*data.MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	backup, err := data.ReadBackup(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	store := data.NewMemoryStore()
	if err := store.Import(ctx, backup); err != nil {
		return nil, err
	}
	return store, nil
}
