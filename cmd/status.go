package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salescope/internal/config"
	"salescope/internal/store"
	"salescope/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database file info and row counts",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	cfg := storeConfig(appConfig)

	ui.ShowHeader("Salescope - Database Status")

	info, err := os.Stat(cfg.Path)
	if os.IsNotExist(err) {
		ui.ShowWarning(fmt.Sprintf("Database %s does not exist. Run 'salescope ingest' first.", cfg.Path))
		return
	}

	ui.PrintKeyValue("Database", cfg.Path)
	if err == nil {
		ui.PrintKeyValue("Size", fmt.Sprintf("%d bytes", info.Size()))
		ui.PrintKeyValue("Modified", info.ModTime().Format("2006-01-02 15:04:05"))
	}

	db := store.NewStore(cfg)
	if err := db.Connect(); err != nil {
		ui.ShowError(err)
		return
	}
	defer db.Close()

	counts, err := db.TableCounts(ctx)
	if err != nil {
		ui.ShowError(err)
		return
	}

	ui.ShowSection("Row Counts")
	total := 0
	for _, table := range store.Tables {
		ui.PrintKeyValue(table, fmt.Sprintf("%d", counts[table]))
		total += counts[table]
	}
	ui.PrintKeyValue("total", fmt.Sprintf("%d", total))

	if config.Exists() {
		ui.ShowInfo(fmt.Sprintf("Config file: %s", config.GetConfigFile()))
	} else {
		ui.ShowInfo("No config file. Run 'salescope setup' to create one.")
	}
}
