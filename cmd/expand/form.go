package main

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-features/internal/config"
	"github.com/riskibarqy/football-features/internal/domain/playerstats"
	"github.com/riskibarqy/football-features/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-features/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-features/internal/platform/logging"
	"github.com/riskibarqy/football-features/internal/usecase"
	"github.com/spf13/cobra"
)

func formCmd() *cobra.Command {
	var (
		history, leagueID, output, format string
		playerIDs, aggs, columns          []string
		periods                           []int
		limit                             int
		onlyAgg                           bool
	)
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Build player form features from a match history export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				var items []playerstats.MatchHistory
				if history == "" {
					items = memory.SeedMatchHistory()
					logger.Warn("no --history given, using the bundled sample")
				} else {
					f, err := os.Open(history)
					if err != nil {
						return errors.Wrapf(err, "open match history %s", history)
					}
					items, err = memory.LoadMatchHistoryCSV(f)
					_ = f.Close()
					if err != nil {
						return err
					}
				}

				repo := cache.NewPlayerStatsRepository(memory.NewPlayerStatsRepository(items), 0)
				service := usecase.NewPlayerFormService(repo, logger, cfg.ExpandParallelism)
				table, err := service.BuildFormTable(ctx, usecase.PlayerFormQuery{
					LeagueID:              leagueID,
					PlayerIDs:             playerIDs,
					HistoryLimit:          limit,
					Periods:               periods,
					Aggs:                  aggs,
					Columns:               columns,
					LatestPeriodAvailable: cfg.ExpandLatestAvailable,
					Suffix:                cfg.ExpandSuffix,
					OnlyAggColumns:        onlyAgg,
				})
				if err != nil {
					return err
				}
				return writeOutput(output, format, cfg, table)
			})
		},
	}
	cmd.Flags().StringVar(&history, "history", "", "Match history CSV export")
	cmd.Flags().StringVar(&leagueID, "league", memory.LeagueIDLiga1Indonesia, "League id")
	cmd.Flags().StringSliceVar(&playerIDs, "player", nil, "Player ids, defaults to every player in the league")
	cmd.Flags().IntSliceVar(&periods, "period", []int{-1, -3, -5}, "Window periods; negative periods cover the matches before each fixture")
	cmd.Flags().StringSliceVar(&aggs, "agg", []string{"nanmean"}, "Aggregations")
	cmd.Flags().StringSliceVar(&columns, "column", nil, "Stat columns, defaults to all")
	cmd.Flags().IntVar(&limit, "limit", 0, "Matches loaded per player, 0 for all")
	cmd.Flags().BoolVar(&onlyAgg, "only-agg", false, "Keep only key and feature columns")
	cmd.Flags().StringVar(&output, "output", "", "Output table path")
	cmd.Flags().StringVar(&format, "format", "", "Output format (csv|json)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
