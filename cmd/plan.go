package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"autosync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var planJSON bool

// planCmd prints what a run would change without changing it.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the reconcile plan without mutating the catalog",
	Long: `Loads the vehicle feed and the full catalog listing and reports the
creates, updates, duplicate and orphan deletions a run would perform.

Examples:
  # Summary and actions through the logger
  autosync plan

  # Full plan as JSON on stdout
  autosync plan --json`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Write the full plan as JSON to stdout")
	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := a.service.Plan(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build plan: %w", err)
	}

	if planJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	printPlan(a.log, plan)
	return nil
}

// printPlan logs the summary, then one line per action and failure.
func printPlan(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary
	l.Info("Reconcile plan",
		zap.Int("sources", s.Sources),
		zap.Int("targets", s.Targets),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("creates", s.Creates),
		zap.Int("updates", s.Updates),
		zap.Int("duplicate_deletes", s.DuplicateDeletes),
		zap.Int("orphan_deletes", s.OrphanDeletes),
		zap.Int("source_duplicates", s.SourceDuplicates),
		zap.Int("failures", s.Failures),
	)

	for _, a := range plan.Actions {
		l.Info("Planned action",
			zap.String("type", string(a.Type)),
			zap.String("sku", a.Key),
			zap.String("target_id", a.TargetID),
			zap.String("reason", a.Reason),
		)
	}
	for _, f := range plan.Failures {
		l.Warn("Skipped record", zap.String("sku", f.Key), zap.String("reason", f.Reason))
	}

	if len(plan.Actions) == 0 {
		l.Info("Catalog is in sync, nothing to do")
	}
}
