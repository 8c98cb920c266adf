package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"audio-loader/core/cooked"
	"audio-loader/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// catalogCmd is the parent command for catalog operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the cooked data catalog",
}

// catalogImportCmd replaces the catalog with a YAML manifest.
var catalogImportCmd = &cobra.Command{
	Use:   "import <manifest.yaml>",
	Short: "Replace the catalog with the content of a cooked data manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		svc, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer svc.logger.Sync()

		summary, err := catalog.ImportManifest(ctx, svc.repo, args[0])
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", args[0], err)
		}

		svc.logger.Info("Catalog imported",
			zap.String("manifest", args[0]),
			zap.Int("soundbanks", summary.SoundBanks),
			zap.Int("media", summary.Media),
			zap.Int("external_sources", summary.ExternalSources),
			zap.Int("objects", summary.Objects),
			zap.Int("group_values", summary.GroupValues),
			zap.Bool("init_bank", summary.InitBank),
		)
		return nil
	},
}

// catalogListCmd lists the records of one kind.
var catalogListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List the catalog records of a kind as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		kind, err := cooked.ParseKind(args[0])
		if err != nil {
			return err
		}

		svc, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		defer svc.logger.Sync()

		summaries, err := svc.repo.ListSummaries(ctx, kind)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summaries: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd)
	RootCmd.AddCommand(catalogCmd)
}
