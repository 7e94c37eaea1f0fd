package report

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"salescope/internal/common"
	"salescope/pkg/errors"
)

var (
	chartBlue   = color.RGBA{R: 0x2e, G: 0x86, B: 0xab, A: 0xff}
	chartGreen  = color.RGBA{R: 0x28, G: 0xa7, B: 0x45, A: 0xff}
	chartRed    = color.RGBA{R: 0xdc, G: 0x35, B: 0x45, A: 0xff}
	chartOrange = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
)

// RenderChart writes a 2x2 PNG panel: revenue over time, month-to-month
// change, revenue with trend line and forecast, and percentage change.
func RenderChart(report *TrendReport, path string) error {
	if len(report.Rows) == 0 {
		return errors.New(errors.ErrCodeSQLNoResults, "No revenue data to chart").
			WithSuggestions("Run 'salescope ingest' to load data first")
	}

	revenuePlot, err := revenueOverTime(report)
	if err != nil {
		return chartErr(err)
	}
	changePlot, err := changeBars(report)
	if err != nil {
		return chartErr(err)
	}
	forecastPlot, err := trendWithForecast(report)
	if err != nil {
		return chartErr(err)
	}
	percentPlot, err := percentBars(report)
	if err != nil {
		return chartErr(err)
	}

	plots := [][]*plot.Plot{
		{revenuePlot, changePlot},
		{forecastPlot, percentPlot},
	}

	img := vgimg.New(14*vg.Inch, 10*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2, Cols: 2,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	if err := common.EnsureDir(path); err != nil {
		return chartErr(err)
	}
	f, err := os.Create(path) // #nosec G304 - output path chosen by the user
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeChartRender, "Failed to create chart file").
			WithContext("path", path)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrap(err, errors.ErrCodeChartRender, "Failed to write chart PNG")
	}
	return nil
}

func revenueOverTime(report *TrendReport) (*plot.Plot, error) {
	p := newMonthPlot(report, "Monthly Revenue Over Time", "Revenue ($)")

	pts := make(plotter.XYs, len(report.Rows))
	for i, row := range report.Rows {
		pts[i] = plotter.XY{X: float64(i), Y: row.Revenue}
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = chartBlue
	line.Width = vg.Points(2)
	points.Color = chartBlue

	avg := horizontalLine(report.Overall.AvgRevenue, len(report.Rows))
	avg.Color = chartRed
	avg.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(line, points, avg)
	p.Legend.Add("Monthly Revenue", line)
	p.Legend.Add(fmt.Sprintf("Average: $%.0f", report.Overall.AvgRevenue), avg)
	return p, nil
}

func changeBars(report *TrendReport) (*plot.Plot, error) {
	p := newMonthPlot(report, "Month-to-Month Revenue Change", "Revenue Change ($)")

	values := make([]float64, len(report.Rows))
	for i, row := range report.Rows {
		values[i] = row.Change
	}
	if err := addSignedBars(p, values); err != nil {
		return nil, err
	}
	return p, nil
}

func trendWithForecast(report *TrendReport) (*plot.Plot, error) {
	p := newForecastPlot(report, "Revenue Trend with Forecast", "Revenue ($)")

	historical := make(plotter.XYs, len(report.Rows))
	for i, row := range report.Rows {
		historical[i] = plotter.XY{X: float64(i), Y: row.Revenue}
	}
	histLine, histPoints, err := plotter.NewLinePoints(historical)
	if err != nil {
		return nil, err
	}
	histLine.Color = chartBlue
	histLine.Width = vg.Points(2)
	histPoints.Color = chartBlue

	// Least-squares fit over the historical points
	slope, intercept := leastSquares(report.Rows)
	fit := make(plotter.XYs, len(report.Rows))
	for i := range fit {
		fit[i] = plotter.XY{X: float64(i), Y: intercept + slope*float64(i)}
	}
	trendLine, err := plotter.NewLine(fit)
	if err != nil {
		return nil, err
	}
	trendLine.Color = chartOrange
	trendLine.Width = vg.Points(2)
	trendLine.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}

	// Forecast continues from the last historical point
	forecast := make(plotter.XYs, 0, len(report.Forecasts)+1)
	last := len(report.Rows) - 1
	forecast = append(forecast, plotter.XY{X: float64(last), Y: report.Rows[last].Revenue})
	for i, point := range report.Forecasts {
		forecast = append(forecast, plotter.XY{X: float64(last + i + 1), Y: point.Revenue})
	}
	forecastLine, forecastPoints, err := plotter.NewLinePoints(forecast)
	if err != nil {
		return nil, err
	}
	forecastLine.Color = chartGreen
	forecastLine.Width = vg.Points(2)
	forecastLine.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	forecastPoints.Color = chartGreen
	forecastPoints.Shape = draw.BoxGlyph{}

	p.Add(histLine, histPoints, trendLine, forecastLine, forecastPoints)
	p.Legend.Add("Historical Revenue", histLine)
	p.Legend.Add("Trend Line", trendLine)
	p.Legend.Add("Forecast", forecastLine)
	return p, nil
}

func percentBars(report *TrendReport) (*plot.Plot, error) {
	p := newMonthPlot(report, "Month-to-Month Percentage Change", "Percentage Change (%)")

	values := make([]float64, len(report.Rows))
	for i, row := range report.Rows {
		values[i] = row.PercentChange
	}
	if err := addSignedBars(p, values); err != nil {
		return nil, err
	}
	return p, nil
}

// addSignedBars draws positive values green and negative values red
func addSignedBars(p *plot.Plot, values []float64) error {
	pos := make(plotter.Values, len(values))
	neg := make(plotter.Values, len(values))
	for i, v := range values {
		if v >= 0 {
			pos[i] = v
		} else {
			neg[i] = v
		}
	}

	width := vg.Points(10)
	posBars, err := plotter.NewBarChart(pos, width)
	if err != nil {
		return err
	}
	posBars.Color = chartGreen
	posBars.LineStyle.Width = 0

	negBars, err := plotter.NewBarChart(neg, width)
	if err != nil {
		return err
	}
	negBars.Color = chartRed
	negBars.LineStyle.Width = 0

	p.Add(posBars, negBars, horizontalLine(0, len(values)))
	return nil
}

// newMonthPlot builds a plot with month labels on X every third month
func newMonthPlot(report *TrendReport, title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.X.Tick.Marker = plot.ConstantTicks(monthTicks(report.Rows, 0))
	return p
}

// newForecastPlot extends the X axis with the forecast period labels
func newForecastPlot(report *TrendReport, title, yLabel string) *plot.Plot {
	p := newMonthPlot(report, title, yLabel)
	p.X.Tick.Marker = plot.ConstantTicks(monthTicks(report.Rows, len(report.Forecasts)))
	return p
}

// monthTicks labels every third month to keep the axis readable
func monthTicks(rows []MonthlyTrend, extra int) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(rows)+extra)
	for i, row := range rows {
		tick := plot.Tick{Value: float64(i)}
		if i%3 == 0 {
			tick.Label = row.Month
		}
		ticks = append(ticks, tick)
	}
	for i := 0; i < extra; i++ {
		ticks = append(ticks, plot.Tick{
			Value: float64(len(rows) + i),
			Label: fmt.Sprintf("+%d", i+1),
		})
	}
	return ticks
}

func horizontalLine(y float64, n int) *plotter.Line {
	line, _ := plotter.NewLine(plotter.XYs{
		{X: 0, Y: y},
		{X: float64(n - 1), Y: y},
	})
	line.Color = color.Black
	return line
}

func leastSquares(rows []MonthlyTrend) (slope, intercept float64) {
	n := float64(len(rows))
	if n < 2 {
		if n == 1 {
			return 0, rows[0].Revenue
		}
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, row := range rows {
		x := float64(i)
		sumX += x
		sumY += row.Revenue
		sumXY += x * row.Revenue
		sumXX += x * x
	}

	slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func chartErr(err error) error {
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeChartRender, "Failed to render chart")
}
