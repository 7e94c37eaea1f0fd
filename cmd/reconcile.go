package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salescope/internal/config"
	"salescope/internal/report"
	"salescope/internal/store"
	"salescope/internal/ui"
)

var reconcileMismatchesOnly bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare order totals against recorded payments",
	Long: `Recompute each order's total from its line items and compare it against
the recorded payment amount. Orders without payments and payments without
orders are listed separately.`,
	Run: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(&reconcileMismatchesOnly, "mismatches-only", false, "Only show orders whose payment does not match")
}

func runReconcile(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	cfg := storeConfig(appConfig)
	db := store.NewStore(cfg)
	if err := db.Connect(); err != nil {
		ui.ShowError(err)
		return
	}
	defer db.Close()

	ui.ShowHeader("Salescope - Payment Reconciliation")

	reconciler := report.NewReconciler(db.DB())
	result, err := reconciler.Run(ctx)
	if err != nil {
		ui.ShowError(err)
		return
	}

	report.RenderReconcile(result, reconcileMismatchesOnly)
}
