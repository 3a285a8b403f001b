package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/football-features/internal/config"
	"github.com/riskibarqy/football-features/internal/platform/logging"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "expand",
		Short:         "Rolling-window feature expansion for panel tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd())
	root.AddCommand(formCmd())
	root.AddCommand(countCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "expand: %v\n", err)
		os.Exit(1)
	}
}

// withConfig loads .env and the environment, installs the process logger and
// hands both to fn.
func withConfig(cmd *cobra.Command, fn func(ctx context.Context, cfg config.Config, logger *logging.Logger) error) error {
	if err := config.LoadDotEnv("../.env", ".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Logger().With("command", cmd.Name())
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	return fn(cmd.Context(), cfg, logger)
}
