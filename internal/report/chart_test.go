package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrendReport() *TrendReport {
	raw := []monthlyRow{
		{Month: "2006-01", TotalRevenue: 1000, OrderCount: 10, HasPrevious: 0},
		{Month: "2006-02", TotalRevenue: 1500, OrderCount: 12, PreviousRevenue: 1000, HasPrevious: 1},
		{Month: "2006-03", TotalRevenue: 1200, OrderCount: 9, PreviousRevenue: 1500, HasPrevious: 1},
		{Month: "2006-04", TotalRevenue: 1700, OrderCount: 14, PreviousRevenue: 1200, HasPrevious: 1},
	}

	report := &TrendReport{Rows: analyze(raw)}
	report.Summary = summarize(report.Rows)
	report.Overall = overallTrend(report.Rows)
	report.Forecasts = forecast(report.Rows, 3)
	return report
}

func TestRenderChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.png")

	require.NoError(t, RenderChart(testTrendReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	// PNG signature
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, data[:8])
}

func TestRenderChartEmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.png")

	err := RenderChart(&TrendReport{}, path)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLeastSquares(t *testing.T) {
	rows := []MonthlyTrend{
		{Revenue: 100},
		{Revenue: 200},
		{Revenue: 300},
	}

	slope, intercept := leastSquares(rows)
	assert.InDelta(t, 100.0, slope, 1e-9)
	assert.InDelta(t, 100.0, intercept, 1e-9)

	slope, intercept = leastSquares(rows[:1])
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 100.0, intercept)
}
