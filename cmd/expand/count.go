package main

import (
	"context"

	"github.com/riskibarqy/football-features/internal/config"
	"github.com/riskibarqy/football-features/internal/featureexpand"
	"github.com/riskibarqy/football-features/internal/platform/logging"
	"github.com/riskibarqy/football-features/internal/tableio"
	"github.com/spf13/cobra"
)

func countCmd() *cobra.Command {
	var (
		input, output, format string
		keys                  []string
	)
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count rows per distinct key tuple",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, func(_ context.Context, cfg config.Config, logger *logging.Logger) error {
				table, err := tableio.ReadFile(input, "")
				if err != nil {
					return err
				}
				counts, err := featureexpand.CountBy(table, keys...)
				if err != nil {
					return err
				}
				logger.Info("counted groups", "groups", counts.Len())
				return writeOutput(output, format, cfg, counts)
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Input table (.csv or .json)")
	cmd.Flags().StringSliceVar(&keys, "by", nil, "Key columns")
	cmd.Flags().StringVar(&output, "output", "", "Output table path")
	cmd.Flags().StringVar(&format, "format", "", "Output format (csv|json)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("by")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
