package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salescope/internal/config"
	"salescope/internal/report"
	"salescope/internal/store"
	"salescope/internal/ui"
	"salescope/pkg/models"
)

var (
	forecastMonths    int
	forecastCompat    bool
	forecastChart     bool
	forecastChartFile string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Analyze monthly sales trends and project future revenue",
	Long: `Aggregate revenue by month, compute month-over-month growth, and project
future revenue from the average growth. Use --chart to also write a PNG with
revenue, growth, and forecast panels to the configured chart file, or
--chart-file to pick the output path directly.`,
	Run: runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)

	forecastCmd.Flags().IntVarP(&forecastMonths, "months", "m", 0, "Number of months to forecast")
	forecastCmd.Flags().BoolVar(&forecastCompat, "compat", false, "Use the self-join query instead of window functions")
	forecastCmd.Flags().BoolVar(&forecastChart, "chart", false, "Write a PNG chart to the configured chart file")
	forecastCmd.Flags().StringVar(&forecastChartFile, "chart-file", "", "Write a PNG chart to this file (implies --chart)")
}

// resolveChartPath picks the chart output path: an explicit --chart-file wins,
// --chart alone falls back to the configured default, otherwise no chart.
func resolveChartPath(appConfig *models.Config, chart bool, chartFile string) string {
	if chartFile != "" {
		return chartFile
	}
	if chart {
		return appConfig.Forecast.ChartFile
	}
	return ""
}

func runForecast(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	appConfig, err := config.Load()
	if err != nil {
		ui.ShowError(fmt.Errorf("failed to load configuration: %w", err))
		return
	}

	months := appConfig.Forecast.Months
	if forecastMonths > 0 {
		months = forecastMonths
	}

	cfg := storeConfig(appConfig)
	db := store.NewStore(cfg)
	if err := db.Connect(); err != nil {
		ui.ShowError(err)
		return
	}
	defer db.Close()

	ui.ShowHeader("Salescope - Sales Trend Analysis")

	analyzer := report.NewAnalyzer(db.DB())
	analyzer.Compat = forecastCompat
	analyzer.ForecastMonths = months

	result, err := analyzer.Run(ctx)
	if err != nil {
		ui.ShowError(err)
		return
	}

	report.RenderTrend(result)

	chartPath := resolveChartPath(appConfig, forecastChart, forecastChartFile)
	if chartPath == "" {
		return
	}
	if len(result.Rows) == 0 {
		ui.ShowWarning("No data to chart")
		return
	}

	spinner := ui.NewSpinner("Rendering chart...")
	spinner.Start()
	if err := report.RenderChart(result, chartPath); err != nil {
		spinner.Stop(false, "Chart rendering failed")
		ui.ShowError(err)
		return
	}
	spinner.Stop(true, fmt.Sprintf("Chart saved to %s", chartPath))
}
