package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runsKind  string
	runsLimit int
)

// runsCmd lists recorded runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded sync runs",
	Long:  `Lists the newest runs from the database ledger and the report archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runsKind != "" {
			if _, err := parseKindArg([]string{runsKind}); err != nil {
				return err
			}
		}

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		h, err := a.service.History(cmd.Context(), runsKind, runsLimit)
		if err != nil {
			return err
		}
		if len(h.Ledger) == 0 && len(h.Archive) == 0 {
			a.logger.Info("No recorded runs. Connect a database or enable the storage archive to keep history.")
			return nil
		}
		for _, r := range h.Ledger {
			a.logger.Info("Run",
				zap.String("run_id", r.ID),
				zap.String("kind", r.Kind),
				zap.Time("started_at", r.StartedAt),
				zap.Int("created", r.Created),
				zap.Int("updated", r.Updated),
				zap.Int("skipped", r.Skipped),
				zap.Int("failed", r.Failed),
				zap.Bool("dry_run", r.DryRun),
			)
		}
		for _, key := range h.Archive {
			a.logger.Info("Archived report", zap.String("key", key))
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsKind, "kind", "", "Only runs of this kind")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum entries per source")
	RootCmd.AddCommand(runsCmd)
}
