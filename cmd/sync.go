package cmd

import (
	"fmt"
	"strings"

	"class-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunSync bool

// syncCmd runs one sync in the foreground.
var syncCmd = &cobra.Command{
	Use:   "sync [assignments|resources|due-check]",
	Short: "Run one sync and print its summary",
	Long: `Runs one sync against every configured Canvas account.

  assignments  create and update assignment records (default)
  resources    create and update module item records
  due-check    update due date, grade and status of existing assignments

Examples:
  # Plan an assignment sync without writing
  class-sync sync --dry-run

  # Refresh module items
  class-sync sync resources`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: kindNames(),
	RunE:      runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Plan every action and log it without writing")
	RootCmd.AddCommand(syncCmd)
}

func kindNames() []string {
	names := make([]string, 0, len(reconcile.Kinds))
	for _, k := range reconcile.Kinds {
		names = append(names, string(k))
	}
	return names
}

func parseKindArg(args []string) (reconcile.Kind, error) {
	if len(args) == 0 {
		return reconcile.KindAssignments, nil
	}
	kind, ok := reconcile.ParseKind(args[0])
	if !ok {
		return "", fmt.Errorf("unknown sync kind %q (want %s)", args[0], strings.Join(kindNames(), ", "))
	}
	return kind, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args)
	if err != nil {
		return err
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	summary, err := a.service.Run(cmd.Context(), kind, dryRunSync)
	if err != nil {
		return fmt.Errorf("sync %s: %w", kind, err)
	}

	a.logger.Info("Sync report",
		zap.String("run_id", summary.RunID),
		zap.String("kind", string(summary.Kind)),
		zap.Bool("dry_run", summary.DryRun),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Duration()),
	)
	if summary.DryRun {
		a.logger.Info("Dry-run mode: No changes were made.")
	}
	return nil
}
