package main

import (
	"MatchTracker/internal/data"
	"MatchTracker/internal/report"
	"context"
	json2 "encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func reportCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print game, player or team reports",
	}
	cmd.AddCommand(reportGameCmd(flags))
	cmd.AddCommand(reportPlayerCmd(flags))
	cmd.AddCommand(reportTeamCmd(flags))
	return cmd
}

func reportGameCmd(flags *storeFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "game <id>",
		Short: "Print the post-game review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q (json|csv)", format)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withStore(flags, func(ctx context.Context, store data.Store) error {
				rep, err := report.Game(ctx, store, id)
				if err != nil {
					return fmt.Errorf("game %d: %w", id, err)
				}
				if format == "json" {
					return writeJSON(cmd.OutOrStdout(), rep)
				}

				team, err := store.GetTeam(ctx, rep.Game.TeamID)
				if err != nil {
					return err
				}
				return rep.WriteCSV(cmd.OutOrStdout(), team.Name)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json|csv)")
	return cmd
}

func reportPlayerCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "player <id>",
		Short: "Print the season totals of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withStore(flags, func(ctx context.Context, store data.Store) error {
				rep, err := report.Player(ctx, store, id)
				if err != nil {
					return fmt.Errorf("player %d: %w", id, err)
				}
				return writeJSON(cmd.OutOrStdout(), rep)
			})
		},
	}
}

func reportTeamCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "team <id>",
		Short: "Print the season record and leaderboards of a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withStore(flags, func(ctx context.Context, store data.Store) error {
				rep, err := report.Team(ctx, store, id)
				if err != nil {
					return fmt.Errorf("team %d: %w", id, err)
				}
				return writeJSON(cmd.OutOrStdout(), rep)
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json2.NewEncoder(w)
	encoder.SetIndent("", "\t")
	return encoder.Encode(v)
}
