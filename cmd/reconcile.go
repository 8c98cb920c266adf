package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"audio-loader/core/reconcile"
	"audio-loader/feature/integrity/files"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	purgeFiles  bool
	dryRunFiles bool
	yesConfirm  bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile cooked files between the catalog and storage",
	Long: `Reconcile cooked files to detect files the catalog declares but storage lacks,
and stored files the catalog does not declare. Supports an optional purge of the latter.`,
}

// filesReconcileCmd reconciles one file family with an optional purge.
var filesReconcileCmd = &cobra.Command{
	Use:   "files <family>",
	Short: "Reconcile a file family (report + optionally purge)",
	Long: `Reconcile the soundbanks or media family between the catalog and storage.

Reports cataloged files missing from storage and stored files missing from the
catalog. Optionally purge (delete) the stored files the catalog does not declare.

Examples:
  # Report only
  reconcile files soundbanks

  # Purge unregistered files (with interactive confirmation)
  reconcile files media --purge

  # Purge with auto-confirm (non-interactive)
  reconcile files media --purge --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runFilesReconcile,
}

func init() {
	reconcileCmd.AddCommand(filesReconcileCmd)

	filesReconcileCmd.Flags().BoolVar(&purgeFiles, "purge", false, "Enable purge (delete stored files the catalog does not declare)")
	filesReconcileCmd.Flags().BoolVar(&dryRunFiles, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	filesReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runFilesReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	family, err := files.FamilyByName(args[0])
	if err != nil {
		return err
	}

	svc, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer svc.logger.Sync()

	l := svc.logger.With(zap.String("family", family.Name))
	l.Info("Starting file reconciliation")

	checker := svc.integrity()
	opts := reconcile.ReconcileOptions{
		DoPurge: purgeFiles,
		DryRun:  true,
	}

	// Plan first; nothing is mutated until the plan is confirmed.
	l.Info("Planning reconciliation...")
	plan, err := checker.CheckFiles(ctx, family, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	printReconcileReport(l, plan)

	if !purgeFiles {
		l.Info("No actions requested. Use --purge to delete unregistered files.")
		return nil
	}
	if dryRunFiles {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		l.Info("No actions required based on current flags.")
		return nil
	}

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	opts.DryRun = false
	opts.Confirmed = true

	l.Info("Applying actions...")
	applied, executed, err := checker.Reconcile(ctx, family, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	if len(applied.Actions) != len(plan.Actions) {
		l.Warn("Storage changed since planning", zap.Int("planned", len(plan.Actions)), zap.Int("applied", len(applied.Actions)))
	}

	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("missing_storage", s.MissingStorage),
		zap.Int("orphans", s.Orphans),
	)

	if len(plan.Actions) == 0 {
		return
	}

	l.Info("Planned actions",
		zap.Int("purge_actions", s.PurgeActions),
		zap.Int("total_actions", len(plan.Actions)),
	)

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
