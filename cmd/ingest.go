package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salescope/internal/config"
	"salescope/internal/dataset"
	"salescope/internal/store"
	"salescope/internal/ui"
)

var ingestInputDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Create the schema and load CSV files into SQLite",
	Long: `Create the five e-commerce tables if they do not exist and bulk-load
the CSV files. Loading is an idempotent upsert by primary key, so re-running
the command replaces rows instead of duplicating them.`,
	Run: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestInputDir, "dir", "d", "", "Directory containing the CSV files")
}

func runIngest(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	inputDir := appConfig.Generate.OutputDir
	if ingestInputDir != "" {
		inputDir = ingestInputDir
	}

	ui.ShowHeader("Salescope - Data Ingestion")

	spinner := ui.NewSpinner("Reading CSV files...")
	spinner.Start()

	ds, err := dataset.ReadDataset(inputDir)
	if err != nil {
		spinner.Stop(false, "Failed to read CSV files")
		ui.ShowError(err)
		return
	}
	spinner.Stop(true, fmt.Sprintf("Read %d CSV files from %s", len(dataset.Files), inputDir))

	cfg := storeConfig(appConfig)
	if err := store.ValidateConfig(cfg); err != nil {
		ui.ShowError(err)
		return
	}

	if _, err := os.Stat(cfg.Path); err == nil {
		ok, err := ui.Confirm(
			fmt.Sprintf("Database %s already exists. Load into it (matching rows are replaced)?", cfg.Path), true)
		if err != nil || !ok {
			ui.ShowWarning("Ingestion cancelled.")
			return
		}
	}

	db := store.NewStore(cfg)
	if err := db.Connect(); err != nil {
		ui.ShowError(err)
		return
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		ui.ShowError(err)
		return
	}
	ui.ShowInfo("Schema created")

	spinner = ui.NewSpinner("Importing data...")
	spinner.Start()

	counts, err := db.LoadDataset(ctx, ds, func(table string) {
		spinner.UpdateMessage(fmt.Sprintf("Importing %s...", table))
	})
	if err != nil {
		spinner.Stop(false, "Import failed")
		ui.ShowError(err)
		return
	}
	spinner.Stop(true, "Data import completed")

	for _, table := range store.Tables {
		ui.PrintKeyValue(table, fmt.Sprintf("%d imported", counts[table]))
	}

	ui.ShowSuccess(fmt.Sprintf("Database saved to %s", cfg.Path))
}
