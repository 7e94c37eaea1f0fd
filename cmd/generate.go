package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"salescope/internal/config"
	"salescope/internal/dataset"
	"salescope/internal/ui"
)

var (
	generateOutputDir string
	generateCustomers int
	generateProducts  int
	generateOrders    int
	generateSeed      uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic e-commerce CSV files",
	Long: `Generate randomized but referentially consistent CSV files for
customers, products, orders, order items and payments. Payment amounts sum
each order's line items, so a fresh dataset reconciles cleanly.`,
	Run: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOutputDir, "out", "o", "", "Output directory for CSV files")
	generateCmd.Flags().IntVar(&generateCustomers, "customers", 0, "Number of customers")
	generateCmd.Flags().IntVar(&generateProducts, "products", 0, "Number of products")
	generateCmd.Flags().IntVar(&generateOrders, "orders", 0, "Number of orders")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "Random seed for reproducible output (0 = random)")
}

func runGenerate(cmd *cobra.Command, args []string) {
	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	gen := appConfig.Generate
	if generateOutputDir != "" {
		gen.OutputDir = generateOutputDir
	}
	if generateCustomers > 0 {
		gen.Customers = generateCustomers
	}
	if generateProducts > 0 {
		gen.Products = generateProducts
	}
	if generateOrders > 0 {
		gen.Orders = generateOrders
	}
	seed := uint64(gen.Seed)
	if generateSeed != 0 {
		seed = generateSeed
	}

	startDate, err := time.Parse("2006-01-02", gen.StartDate)
	if err != nil {
		ui.ShowError(fmt.Errorf("invalid generate.start_date %q: %w", gen.StartDate, err))
		return
	}
	endDate, err := time.Parse("2006-01-02", gen.EndDate)
	if err != nil {
		ui.ShowError(fmt.Errorf("invalid generate.end_date %q: %w", gen.EndDate, err))
		return
	}

	ui.ShowHeader("Salescope - Data Generator")

	generator := dataset.NewGenerator(dataset.GeneratorConfig{
		Customers:        gen.Customers,
		Products:         gen.Products,
		Orders:           gen.Orders,
		MinItemsPerOrder: gen.MinItemsPerOrder,
		MaxItemsPerOrder: gen.MaxItemsPerOrder,
		StartDate:        startDate,
		EndDate:          endDate,
		Seed:             seed,
	})

	spinner := ui.NewSpinner("Generating dataset...")
	spinner.Start()

	ds, err := generator.Generate()
	if err != nil {
		spinner.Stop(false, "Generation failed")
		ui.ShowError(err)
		return
	}

	if err := os.MkdirAll(gen.OutputDir, 0750); err != nil {
		spinner.Stop(false, "Generation failed")
		ui.ShowError(fmt.Errorf("failed to create output directory: %w", err))
		return
	}

	if err := dataset.WriteDataset(gen.OutputDir, ds); err != nil {
		spinner.Stop(false, "Generation failed")
		ui.ShowError(err)
		return
	}

	spinner.Stop(true, "All CSV files generated")

	ui.PrintKeyValue(dataset.CustomersFile, fmt.Sprintf("%d records", len(ds.Customers)))
	ui.PrintKeyValue(dataset.ProductsFile, fmt.Sprintf("%d records", len(ds.Products)))
	ui.PrintKeyValue(dataset.OrdersFile, fmt.Sprintf("%d records", len(ds.Orders)))
	ui.PrintKeyValue(dataset.OrderItemsFile, fmt.Sprintf("%d records", len(ds.OrderItems)))
	ui.PrintKeyValue(dataset.PaymentsFile, fmt.Sprintf("%d records", len(ds.Payments)))

	ui.ShowSuccess(fmt.Sprintf("Dataset written to %s", gen.OutputDir))
}
