package report

// Trend direction markers, matching the legacy report output
const (
	TrendGrowing   = "↑ Growing"
	TrendDeclining = "↓ Declining"
	TrendStable    = "→ Stable"
)

// MonthlyTrend is one analyzed month of revenue
type MonthlyTrend struct {
	Month            string  // YYYY-MM
	Revenue          float64 // sum of quantity * price over the month's line items
	OrderCount       int
	PreviousRevenue  float64
	HasPrevious      bool    // false for the first month of the series
	Change           float64 // Revenue - PreviousRevenue (0 for the first month)
	PercentChange    float64 // 0 when there is no previous month or it was 0
	Trend            string
	RunningAvgChange float64 // Average change up to and including this month
	ForecastNext     float64 // Revenue + RunningAvgChange
}

// TrendSummary aggregates the analyzed months
type TrendSummary struct {
	Months           int
	TotalRevenue     float64
	AvgRevenue       float64
	MinRevenue       float64
	MaxRevenue       float64
	AvgChange        float64 // Over months that have a previous month
	AvgPercentChange float64
}

// OverallTrend is the coarse slope over the whole series
type OverallTrend struct {
	Slope      float64 // (max - min revenue) / (max - min month sequence)
	AvgRevenue float64
	Direction  string
}

// ForecastPoint is one extrapolated future month
type ForecastPoint struct {
	Period  string // "Forecast Month N"
	Revenue float64
}

// TrendReport is the full output of the forecast command
type TrendReport struct {
	Rows      []MonthlyTrend
	Summary   TrendSummary
	Overall   OverallTrend
	Forecasts []ForecastPoint
}

// ReconcileRow compares one order's line-item total against its payment
type ReconcileRow struct {
	OrderID       int
	OrderDate     string
	Status        string
	OrderTotal    float64
	PaymentAmount float64
	HasPayment    bool
	Difference    float64
	Matched       bool
}

// OrphanPayment is a payment row whose order does not exist
type OrphanPayment struct {
	PaymentID int     `db:"payment_id"`
	OrderID   int     `db:"order_id"`
	Amount    float64 `db:"amount"`
}

// UnpaidOrder is an order with no payment row
type UnpaidOrder struct {
	OrderID    int     `db:"order_id"`
	OrderTotal float64 `db:"order_total"`
}

// ReconcileReport is the full output of the reconcile command
type ReconcileReport struct {
	Rows           []ReconcileRow
	UnpaidOrders   []UnpaidOrder
	OrphanPayments []OrphanPayment
}

// Matching returns how many rows matched
func (r *ReconcileReport) Matching() int {
	n := 0
	for _, row := range r.Rows {
		if row.Matched {
			n++
		}
	}
	return n
}

// Mismatching returns how many rows did not match
func (r *ReconcileReport) Mismatching() int {
	return len(r.Rows) - r.Matching()
}
