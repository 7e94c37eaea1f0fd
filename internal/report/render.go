package report

import (
	"fmt"

	"github.com/fatih/color"

	"salescope/internal/ui"
)

// RenderTrend prints the full trend report as tables
func RenderTrend(report *TrendReport) {
	ui.ShowSection("Monthly Revenue Trend Analysis")

	if len(report.Rows) == 0 {
		ui.ShowWarning("No revenue data found. Run 'salescope ingest' first.")
		return
	}

	table := ui.NewResultTable([]string{
		"Month", "Revenue", "Orders", "Prev Month", "Change", "% Change", "Trend", "Forecast",
	})
	for _, row := range report.Rows {
		table.Append([]string{
			row.Month,
			fmt.Sprintf("$%.2f", row.Revenue),
			fmt.Sprintf("%d", row.OrderCount),
			fmt.Sprintf("$%.2f", row.PreviousRevenue),
			fmt.Sprintf("$%.2f", row.Change),
			fmt.Sprintf("%.2f%%", row.PercentChange),
			colorTrend(row.Trend),
			fmt.Sprintf("$%.2f", row.ForecastNext),
		})
	}
	table.Render()

	ui.ShowSection("Summary Statistics")
	s := report.Summary
	ui.PrintKeyValue("Total Months Analyzed", fmt.Sprintf("%d", s.Months))
	ui.PrintKeyValue("Total Revenue", fmt.Sprintf("$%.2f", s.TotalRevenue))
	ui.PrintKeyValue("Average Monthly Revenue", fmt.Sprintf("$%.2f", s.AvgRevenue))
	ui.PrintKeyValue("Minimum Monthly Revenue", fmt.Sprintf("$%.2f", s.MinRevenue))
	ui.PrintKeyValue("Maximum Monthly Revenue", fmt.Sprintf("$%.2f", s.MaxRevenue))
	ui.PrintKeyValue("Average Monthly Change", fmt.Sprintf("$%.2f", s.AvgChange))
	ui.PrintKeyValue("Average % Change", fmt.Sprintf("%.2f%%", s.AvgPercentChange))

	ui.ShowSection("Overall Trend Analysis")
	ui.PrintKeyValue("Overall Slope", fmt.Sprintf("$%.2f per month", report.Overall.Slope))
	ui.PrintKeyValue("Average Monthly Revenue", fmt.Sprintf("$%.2f", report.Overall.AvgRevenue))
	ui.PrintKeyValue("Trend Direction", report.Overall.Direction)

	ui.ShowSection(fmt.Sprintf("Sales Forecast (Next %d Months)", len(report.Forecasts)))
	forecastTable := ui.NewResultTable([]string{"Period", "Forecasted Revenue"})
	for _, point := range report.Forecasts {
		forecastTable.Append([]string{point.Period, fmt.Sprintf("$%.2f", point.Revenue)})
	}
	forecastTable.Render()
}

// RenderReconcile prints the reconciliation report as tables
func RenderReconcile(report *ReconcileReport, mismatchesOnly bool) {
	ui.ShowSection("Payment Amount vs Order Total")

	total := len(report.Rows)
	if total == 0 {
		ui.ShowWarning("No orders found. Run 'salescope ingest' first.")
		return
	}

	matching := report.Matching()
	mismatching := report.Mismatching()
	ui.PrintKeyValue("Total Orders", fmt.Sprintf("%d", total))
	ui.PrintKeyValue("Matching", fmt.Sprintf("%d (%.1f%%)", matching, percent(matching, total)))
	ui.PrintKeyValue("Mismatching", fmt.Sprintf("%d (%.1f%%)", mismatching, percent(mismatching, total)))
	fmt.Println()

	table := ui.NewResultTable([]string{
		"Order ID", "Order Total", "Payment Amount", "Status", "Difference",
	})
	for _, row := range report.Rows {
		if mismatchesOnly && row.Matched {
			continue
		}
		status := color.GreenString("MATCH")
		if !row.Matched {
			status = color.RedString("MISMATCH")
		}
		table.Append([]string{
			fmt.Sprintf("%d", row.OrderID),
			fmt.Sprintf("$%.2f", row.OrderTotal),
			fmt.Sprintf("$%.2f", row.PaymentAmount),
			status,
			fmt.Sprintf("$%.2f", row.Difference),
		})
	}
	table.Render()

	ui.ShowSection("Orders Without Payments")
	if len(report.UnpaidOrders) == 0 {
		fmt.Println("All orders have payments.")
	} else {
		unpaid := ui.NewResultTable([]string{"Order ID", "Order Total"})
		for _, o := range report.UnpaidOrders {
			unpaid.Append([]string{fmt.Sprintf("%d", o.OrderID), fmt.Sprintf("$%.2f", o.OrderTotal)})
		}
		unpaid.Render()
		fmt.Printf("\nTotal orders without payments: %d\n", len(report.UnpaidOrders))
	}

	ui.ShowSection("Payments Without Orders")
	if len(report.OrphanPayments) == 0 {
		fmt.Println("All payments are linked to orders.")
	} else {
		orphans := ui.NewResultTable([]string{"Payment ID", "Order ID", "Amount"})
		for _, p := range report.OrphanPayments {
			orphans.Append([]string{
				fmt.Sprintf("%d", p.PaymentID),
				fmt.Sprintf("%d", p.OrderID),
				fmt.Sprintf("$%.2f", p.Amount),
			})
		}
		orphans.Render()
		fmt.Printf("\nTotal orphan payments: %d\n", len(report.OrphanPayments))
	}
}

func colorTrend(trend string) string {
	switch trend {
	case TrendGrowing:
		return color.GreenString(trend)
	case TrendDeclining:
		return color.RedString(trend)
	default:
		return trend
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
