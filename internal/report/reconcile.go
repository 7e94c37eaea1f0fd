package report

import (
	"context"
	"math"

	"github.com/jmoiron/sqlx"

	"salescope/pkg/errors"
)

// Amounts within this tolerance are considered equal
const matchTolerance = 0.01

// reconcileQuery compares each order's line-item total with its payment.
// LEFT JOINs keep orders that have no items or no payment.
const reconcileQuery = `
SELECT
    o.order_id,
    o.order_date,
    COALESCE(o.status, '') AS status,
    COALESCE(SUM(oi.quantity * oi.price), 0) AS order_total,
    COALESCE(p.amount, 0) AS payment_amount,
    CASE WHEN p.payment_id IS NULL THEN 0 ELSE 1 END AS has_payment
FROM orders o
LEFT JOIN order_items oi ON o.order_id = oi.order_id
LEFT JOIN payments p ON o.order_id = p.order_id
GROUP BY o.order_id, o.order_date, o.status, p.payment_id, p.amount
ORDER BY o.order_id;`

// unpaidOrdersQuery finds orders without any payment row
const unpaidOrdersQuery = `
SELECT
    o.order_id,
    COALESCE(SUM(oi.quantity * oi.price), 0) AS order_total
FROM orders o
LEFT JOIN order_items oi ON o.order_id = oi.order_id
LEFT JOIN payments p ON o.order_id = p.order_id
WHERE p.payment_id IS NULL
GROUP BY o.order_id
ORDER BY o.order_id;`

// orphanPaymentsQuery finds payments pointing at a missing order
const orphanPaymentsQuery = `
SELECT
    p.payment_id,
    p.order_id,
    p.amount
FROM payments p
LEFT JOIN orders o ON p.order_id = o.order_id
WHERE o.order_id IS NULL
ORDER BY p.payment_id;`

type reconcileRow struct {
	OrderID       int     `db:"order_id"`
	OrderDate     string  `db:"order_date"`
	Status        string  `db:"status"`
	OrderTotal    float64 `db:"order_total"`
	PaymentAmount float64 `db:"payment_amount"`
	HasPayment    int     `db:"has_payment"`
}

// Reconciler runs the payment-vs-order-total comparison
type Reconciler struct {
	db *sqlx.DB
}

// NewReconciler creates a reconciler over an open database
func NewReconciler(db *sqlx.DB) *Reconciler {
	return &Reconciler{db: db}
}

// Run produces the full reconciliation report
func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	var raw []reconcileRow
	if err := r.db.SelectContext(ctx, &raw, reconcileQuery); err != nil {
		return nil, errors.SQLError("Failed to run reconciliation query", reconcileQuery, err)
	}

	report := &ReconcileReport{Rows: make([]ReconcileRow, 0, len(raw))}
	for _, row := range raw {
		diff := math.Abs(row.OrderTotal - row.PaymentAmount)
		report.Rows = append(report.Rows, ReconcileRow{
			OrderID:       row.OrderID,
			OrderDate:     row.OrderDate,
			Status:        row.Status,
			OrderTotal:    round2(row.OrderTotal),
			PaymentAmount: round2(row.PaymentAmount),
			HasPayment:    row.HasPayment != 0,
			Difference:    round2(diff),
			Matched:       diff < matchTolerance,
		})
	}

	if err := r.db.SelectContext(ctx, &report.UnpaidOrders, unpaidOrdersQuery); err != nil {
		return nil, errors.SQLError("Failed to find orders without payments", unpaidOrdersQuery, err)
	}

	if err := r.db.SelectContext(ctx, &report.OrphanPayments, orphanPaymentsQuery); err != nil {
		return nil, errors.SQLError("Failed to find orphan payments", orphanPaymentsQuery, err)
	}

	return report, nil
}
