package main

import (
	"context"
	"time"

	"github.com/riskibarqy/football-features/internal/config"
	"github.com/riskibarqy/football-features/internal/featureexpand"
	"github.com/riskibarqy/football-features/internal/jobspec"
	"github.com/riskibarqy/football-features/internal/platform/logging"
	"github.com/riskibarqy/football-features/internal/tableio"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var (
		input, jobPath, output, format string
		parallelism                    int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Expand a CSV or JSON table with the windows described by a job file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				start := time.Now()
				table, err := tableio.ReadFile(input, "")
				if err != nil {
					return err
				}
				job, err := jobspec.Load(jobPath)
				if err != nil {
					return err
				}

				var override *int
				if cmd.Flags().Changed("parallelism") {
					override = &parallelism
				}
				req, err := resolveRequest(job, cfg, override)
				if err != nil {
					return err
				}

				out, err := featureexpand.NewExpander(logger).Expand(ctx, table, req)
				if err != nil {
					return err
				}
				if err := writeOutput(output, format, cfg, out); err != nil {
					return err
				}
				logger.Info("expansion written",
					"input", input,
					"output", output,
					"rows", out.Len(),
					"columns", len(out.Names()),
					"duration", time.Since(start),
				)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Input table (.csv or .json)")
	cmd.Flags().StringVar(&jobPath, "job", "", "Expansion job file (.yaml)")
	cmd.Flags().StringVar(&output, "output", "", "Output table path")
	cmd.Flags().StringVar(&format, "format", "", "Output format (csv|json); defaults to the output extension, then EXPAND_OUTPUT_FORMAT")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "Column workers, overrides the job and EXPAND_PARALLELISM")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// resolveRequest fills the job's unset fields from cfg. A parallelism given on
// the command line wins over both the job and cfg.
func resolveRequest(job *jobspec.Job, cfg config.Config, parallelism *int) (featureexpand.Request, error) {
	req, err := job.Request(jobspec.Defaults{
		Suffix:                cfg.ExpandSuffix,
		LatestPeriodAvailable: cfg.ExpandLatestAvailable,
		Parallelism:           cfg.ExpandParallelism,
	})
	if err != nil {
		return featureexpand.Request{}, err
	}
	if parallelism != nil {
		req.Parallelism = *parallelism
	}
	return req, nil
}

// writeOutput resolves the format from the flag, the file extension and the
// configured default, in that order.
func writeOutput(path, format string, cfg config.Config, table *featureexpand.Table) error {
	var resolved tableio.Format
	switch {
	case format != "":
		f, err := tableio.ParseFormat(format)
		if err != nil {
			return err
		}
		resolved = f
	default:
		f, err := tableio.FormatFromPath(path)
		if err != nil {
			f, err = tableio.ParseFormat(cfg.ExpandOutputFormat)
			if err != nil {
				return err
			}
		}
		resolved = f
	}
	return tableio.WriteFile(path, resolved, table)
}
