package main

import (
	"MatchTracker/internal/data"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func backupCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the whole store",
	}
	cmd.AddCommand(backupExportCmd(flags))
	cmd.AddCommand(backupImportCmd(flags))
	return cmd
}

func backupExportCmd(flags *storeFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(flags, func(ctx context.Context, store data.Store) error {
				backup, err := store.Export(ctx)
				if err != nil {
					return err
				}

				if out == "" {
					return backup.Write(cmd.OutOrStdout())
				}
				f, err := os.Create(out)
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

				logger.Info().Str("file", out).Int("games", len(backup.Data.Games)).
					Int("events", len(backup.Data.GameEvents)).Msg("backup exported")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (stdout when empty)")
	return cmd
}

func backupImportCmd(flags *storeFlags) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the database contents with a backup document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return errors.New("--in is required")
			}
			if flags.fromBackup != "" {
				return errors.New("import writes to the database and cannot be combined with --from-backup")
			}

			return withDB(flags, func(ctx context.Context, store *data.PostgresStore) error {
				f, err := os.Open(in)
				if err != nil {
					return err
				}
				defer f.Close()

				backup, err := data.ReadBackup(f)
				if err != nil {
					return fmt.Errorf("read %s: %w", in, err)
				}
				if err := store.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				if err := store.Import(ctx, backup); err != nil {
					return fmt.Errorf("import: %w", err)
				}

				logger.Info().Str("file", in).Int("teams", len(backup.Data.Teams)).
					Int("games", len(backup.Data.Games)).Msg("backup imported")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Backup file to import")
	return cmd
}
