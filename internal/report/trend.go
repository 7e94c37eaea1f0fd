package report

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"salescope/pkg/errors"
)

// monthlyWindowQuery buckets line-item revenue per month and pairs each month
// with its predecessor through a LAG window function. YYYY-MM strings sort
// chronologically, so ORDER BY month is the series order.
const monthlyWindowQuery = `
WITH monthly_revenue AS (
    SELECT
        strftime('%Y-%m', o.order_date) AS month,
        SUM(oi.quantity * oi.price) AS total_revenue,
        COUNT(DISTINCT o.order_id) AS order_count
    FROM orders o
    INNER JOIN order_items oi ON o.order_id = oi.order_id
    GROUP BY strftime('%Y-%m', o.order_date)
)
SELECT
    month,
    total_revenue,
    order_count,
    COALESCE(LAG(total_revenue) OVER (ORDER BY month), 0) AS previous_revenue,
    CASE WHEN LAG(total_revenue) OVER (ORDER BY month) IS NULL THEN 0 ELSE 1 END AS has_previous
FROM monthly_revenue
ORDER BY month;`

// monthlyCompatQuery is the self-join fallback for engines without window
// functions. The join handles the December to January boundary explicitly.
const monthlyCompatQuery = `
WITH monthly_revenue AS (
    SELECT
        strftime('%Y-%m', o.order_date) AS month,
        CAST(strftime('%Y', o.order_date) AS INTEGER) AS year,
        CAST(strftime('%m', o.order_date) AS INTEGER) AS month_num,
        SUM(oi.quantity * oi.price) AS total_revenue,
        COUNT(DISTINCT o.order_id) AS order_count
    FROM orders o
    INNER JOIN order_items oi ON o.order_id = oi.order_id
    GROUP BY strftime('%Y-%m', o.order_date)
)
SELECT
    m1.month,
    m1.total_revenue,
    m1.order_count,
    COALESCE(m2.total_revenue, 0) AS previous_revenue,
    CASE WHEN m2.month IS NULL THEN 0 ELSE 1 END AS has_previous
FROM monthly_revenue m1
LEFT JOIN monthly_revenue m2 ON (
    (m2.year = m1.year AND m2.month_num = m1.month_num - 1) OR
    (m2.year = m1.year - 1 AND m1.month_num = 1 AND m2.month_num = 12)
)
ORDER BY m1.year, m1.month_num;`

type monthlyRow struct {
	Month           string  `db:"month"`
	TotalRevenue    float64 `db:"total_revenue"`
	OrderCount      int     `db:"order_count"`
	PreviousRevenue float64 `db:"previous_revenue"`
	HasPrevious     int     `db:"has_previous"`
}

// Analyzer runs the monthly revenue trend analysis
type Analyzer struct {
	db *sqlx.DB

	// Compat switches the month pairing from a window function to a
	// self-join for engines without window function support
	Compat bool

	// ForecastMonths is how many future months to extrapolate
	ForecastMonths int
}

// NewAnalyzer creates an analyzer over an open database
func NewAnalyzer(db *sqlx.DB) *Analyzer {
	return &Analyzer{db: db, ForecastMonths: 3}
}

// Run executes the trend query and derives deltas, summary statistics,
// the overall slope and the linear forecast.
func (a *Analyzer) Run(ctx context.Context) (*TrendReport, error) {
	query := monthlyWindowQuery
	if a.Compat {
		query = monthlyCompatQuery
	}

	var raw []monthlyRow
	if err := a.db.SelectContext(ctx, &raw, query); err != nil {
		return nil, errors.SQLError("Failed to run monthly revenue query", query, err)
	}

	report := &TrendReport{Rows: analyze(raw)}
	report.Summary = summarize(report.Rows)
	report.Overall = overallTrend(report.Rows)
	report.Forecasts = forecast(report.Rows, a.ForecastMonths)
	return report, nil
}

// analyze turns raw month rows into trend rows with deltas and markers
func analyze(raw []monthlyRow) []MonthlyTrend {
	rows := make([]MonthlyTrend, 0, len(raw))
	var changeSum float64
	for i, r := range raw {
		row := MonthlyTrend{
			Month:           r.Month,
			Revenue:         round2(r.TotalRevenue),
			OrderCount:      r.OrderCount,
			PreviousRevenue: round2(r.PreviousRevenue),
			HasPrevious:     r.HasPrevious != 0,
		}

		// Previous revenue is coalesced to 0, so the first month's change
		// is its full revenue, matching the legacy reports
		row.Change = round2(r.TotalRevenue - r.PreviousRevenue)
		if row.HasPrevious && r.PreviousRevenue > 0 {
			row.PercentChange = round2((r.TotalRevenue - r.PreviousRevenue) * 100.0 / r.PreviousRevenue)
		}

		switch {
		case row.Change > 0:
			row.Trend = TrendGrowing
		case row.Change < 0:
			row.Trend = TrendDeclining
		default:
			row.Trend = TrendStable
		}

		changeSum += row.Change
		row.RunningAvgChange = round2(changeSum / float64(i+1))
		row.ForecastNext = round2(row.Revenue + row.RunningAvgChange)

		rows = append(rows, row)
	}
	return rows
}

// summarize computes the aggregate statistics block
func summarize(rows []MonthlyTrend) TrendSummary {
	s := TrendSummary{Months: len(rows)}
	if len(rows) == 0 {
		return s
	}

	s.MinRevenue = math.Inf(1)
	s.MaxRevenue = math.Inf(-1)

	var changeSum, pctSum float64
	changed := 0
	for _, row := range rows {
		s.TotalRevenue += row.Revenue
		s.MinRevenue = math.Min(s.MinRevenue, row.Revenue)
		s.MaxRevenue = math.Max(s.MaxRevenue, row.Revenue)
		if row.HasPrevious {
			changeSum += row.Change
			pctSum += row.PercentChange
			changed++
		}
	}

	s.TotalRevenue = round2(s.TotalRevenue)
	s.AvgRevenue = round2(s.TotalRevenue / float64(len(rows)))
	if changed > 0 {
		s.AvgChange = round2(changeSum / float64(changed))
		s.AvgPercentChange = round2(pctSum / float64(changed))
	}
	return s
}

// overallTrend computes the coarse slope across the whole series
func overallTrend(rows []MonthlyTrend) OverallTrend {
	t := OverallTrend{Direction: "Stable"}
	if len(rows) == 0 {
		return t
	}

	minRev := math.Inf(1)
	maxRev := math.Inf(-1)
	var total float64
	for _, row := range rows {
		minRev = math.Min(minRev, row.Revenue)
		maxRev = math.Max(maxRev, row.Revenue)
		total += row.Revenue
	}

	t.AvgRevenue = round2(total / float64(len(rows)))
	if len(rows) > 1 {
		t.Slope = round2((maxRev - minRev) / float64(len(rows)-1))
	}

	switch {
	case t.Slope > 0:
		t.Direction = "Positive Trend (Growing)"
	case t.Slope < 0:
		t.Direction = "Negative Trend (Declining)"
	}
	return t
}

// forecast extrapolates months linearly from the average month-over-month
// change, anchored at the last observed month
func forecast(rows []MonthlyTrend, months int) []ForecastPoint {
	if months <= 0 || len(rows) == 0 {
		return nil
	}

	var changeSum float64
	changed := 0
	for _, row := range rows {
		if row.HasPrevious {
			changeSum += row.Change
			changed++
		}
	}
	avgGrowth := 0.0
	if changed > 0 {
		avgGrowth = changeSum / float64(changed)
	}

	last := rows[len(rows)-1].Revenue
	points := make([]ForecastPoint, months)
	for i := range points {
		points[i] = ForecastPoint{
			Period:  fmt.Sprintf("Forecast Month %d", i+1),
			Revenue: round2(last + avgGrowth*float64(i+1)),
		}
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
