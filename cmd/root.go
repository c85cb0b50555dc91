package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"autosync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "autosync",
	Short: "Sync the AutoGestor vehicle feed into a WooCommerce catalog",
	Long: `autosync mirrors the dealer's vehicle inventory into the WooCommerce
product catalog. Without a subcommand it runs one full sync: create missing
products, update drifted ones, then remove duplicates and orphans.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console logger at debug level gives ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// runSync performs a single run. A failed run is logged, never returned:
// the process exits 0 so a scheduler does not retry a half-applied run.
func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.service.Run(ctx)
	if err != nil {
		a.log.Error("Sync run did not complete", zap.Error(err))
		return nil
	}
	a.log.Info("Sync run completed",
		zap.String("run_id", report.RunID),
		zap.Int("failed", report.Applied.Failed+report.Summary.Failures),
	)
	return nil
}
