package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"audio-loader/core/reconcile"
	"audio-loader/core/storage"
	"audio-loader/feature/integrity"
	"audio-loader/feature/integrity/files"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the cooked data storage",
	Long:  `Checks the storage folder structure, the catalog schema and that every file the catalog declares is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(context.Background(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the platform folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(context.Background(), true, false, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the catalog database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(context.Background(), false, true, false)
	},
}

// filesCmd compares the catalog with the stored files of one or every family.
var filesCmd = &cobra.Command{
	Use:   "files [family]",
	Short: "Check that cataloged files are stored",
	Long: `Compares the files the catalog declares with the objects under the platform
folder. Outputs counters by default or a detailed JSON report with --json.

Families: soundbanks, media.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		startTime := time.Now()

		jsonOutput, _ := cmd.Flags().GetBool("json")

		families := files.Families
		if len(args) == 1 {
			f, err := files.FamilyByName(args[0])
			if err != nil {
				return err
			}
			families = []files.Family{f}
		}

		svc, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer svc.logger.Sync()

		checker := svc.integrity()
		svc.logger.Info("Checking cataloged files...", zap.String("prefix", checker.Prefix()))

		type fileIssue struct {
			Family         string `json:"family"`
			ID             string `json:"id"`
			Name           string `json:"name"`
			CatalogMissing bool   `json:"catalog_missing"`
			StorageMissing bool   `json:"storage_missing"`
		}

		var issues []fileIssue
		for _, family := range families {
			plan, err := checker.CheckFiles(ctx, family, reconcile.ReconcileOptions{DryRun: true})
			if err != nil {
				return fmt.Errorf("%s check failed: %w", family.Name, err)
			}

			for _, r := range plan.Results {
				if r.CatalogPresent && r.StoragePresent {
					continue
				}
				issues = append(issues, fileIssue{
					Family:         family.Name,
					ID:             r.ID,
					Name:           r.Name,
					CatalogMissing: !r.CatalogPresent,
					StorageMissing: !r.StoragePresent,
				})
			}

			s := plan.Summary
			fmt.Printf("\n=== %s ===\n", family.Name)
			fmt.Printf("Total Files: %d\n", s.TotalItems)
			fmt.Printf("Storage Missing: %d\n", s.MissingStorage)
			fmt.Printf("Unregistered: %d\n", s.Orphans)
		}

		if jsonOutput {
			filename := fmt.Sprintf("integrity_files_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(issues, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			fmt.Printf("\nDetailed JSON saved to: %s (%d files with issues)\n", filename, len(issues))
		}

		executionTime := time.Since(startTime)
		fmt.Printf("Execution Time: %s\n", executionTime.String())

		svc.logger.Info("File integrity check completed",
			zap.Int("issues", len(issues)),
			zap.Duration("execution_time", executionTime),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, schemaCmd, filesCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and missing folders")
	filesCmd.Flags().Bool("json", false, "Save a detailed JSON report")
}

func runIntegrityChecks(ctx context.Context, runStructure, runSchema, runFiles bool) error {
	svc, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer svc.logger.Sync()

	checker := svc.integrity()

	if runStructure {
		if err := checkStructure(ctx, svc, checker); err != nil {
			return err
		}
	}

	if runSchema {
		checkSchema(svc.logger, checker)
	}

	if runFiles {
		for _, family := range files.Families {
			plan, err := checker.CheckFiles(ctx, family, reconcile.ReconcileOptions{DryRun: true})
			if err != nil {
				svc.logger.Warn("File check skipped", zap.String("family", family.Name), zap.Error(err))
				continue
			}
			svc.logger.Info("Cataloged files",
				zap.String("family", family.Name),
				zap.Int("total", plan.Summary.TotalItems),
				zap.Int("storage_missing", plan.Summary.MissingStorage),
				zap.Int("unregistered", plan.Summary.Orphans),
			)
		}
	}
	return nil
}

func checkStructure(ctx context.Context, svc *services, checker *integrity.Service) error {
	logg := svc.logger

	if fixFlag {
		if err := storage.EnsureBucket(ctx, svc.store, svc.cfg.Storage.Bucket, svc.cfg.Storage.Region); err != nil {
			return fmt.Errorf("failed to ensure bucket: %w", err)
		}
	}

	logg.Info("Checking folder structure...", zap.String("prefix", checker.Prefix()))
	missing, err := checker.CheckStructure(ctx)
	if err != nil {
		return fmt.Errorf("structure check failed: %w", err)
	}

	if len(missing) == 0 {
		logg.Info("Structure is intact.")
		return nil
	}

	logg.Warn("Missing folders detected", zap.Strings("missing", missing))
	if !fixFlag {
		logg.Info("Run with --fix to create missing folders.")
		return nil
	}

	logg.Info("Fixing missing folders...")
	if err := checker.FixStructure(ctx, missing); err != nil {
		return fmt.Errorf("failed to fix structure: %w", err)
	}
	logg.Info("Structure fixed successfully.")
	return nil
}

func checkSchema(logg *zap.Logger, checker *integrity.Service) {
	logg.Info("Checking catalog schema integrity...")
	report, err := checker.CheckSchema()
	if err != nil {
		logg.Error("Catalog schema check failed", zap.Error(err))
		return
	}

	if report.Matched {
		logg.Info("Catalog schema matches expected definition.", zap.String("driver", report.Driver))
		return
	}

	logg.Warn("Catalog schema mismatches found", zap.String("driver", report.Driver))
	for table, tblReport := range report.Tables {
		if tblReport.Status == "ok" {
			continue
		}
		if len(tblReport.MissingColumns) > 0 {
			logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
		}
		if len(tblReport.TypeMismatches) > 0 {
			logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
		}
	}
	for _, e := range report.Errors {
		logg.Error("Inspection Error", zap.String("error", e))
	}
}
