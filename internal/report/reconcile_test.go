package report

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescope/pkg/errors"
)

func reconcileRows(rows ...[]driverValue) *sqlmock.Rows {
	result := sqlmock.NewRows([]string{
		"order_id", "order_date", "status", "order_total", "payment_amount", "has_payment",
	})
	for _, row := range rows {
		result.AddRow(row[0], row[1], row[2], row[3], row[4], row[5])
	}
	return result
}

func TestReconcilerRun(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("CASE WHEN p.payment_id IS NULL").WillReturnRows(reconcileRows(
		[]driverValue{1, "2006-01-05", "delivered", 100.0, 100.0, 1},
		[]driverValue{2, "2006-01-09", "pending", 250.0, 200.0, 1},
		[]driverValue{3, "2006-02-01", "shipped", 80.0, 80.005, 1},
		[]driverValue{4, "2006-02-12", "cancelled", 60.0, 0.0, 0},
	))
	mock.ExpectQuery("WHERE p.payment_id IS NULL").WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "order_total"}).AddRow(4, 60.0))
	mock.ExpectQuery("WHERE o.order_id IS NULL").WillReturnRows(
		sqlmock.NewRows([]string{"payment_id", "order_id", "amount"}).AddRow(99, 1234, 42.0))

	report, err := NewReconciler(db).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Rows, 4)

	assert.True(t, report.Rows[0].Matched)
	assert.False(t, report.Rows[1].Matched)
	assert.Equal(t, 50.0, report.Rows[1].Difference)
	// Sub-cent drift counts as matched
	assert.True(t, report.Rows[2].Matched)
	assert.False(t, report.Rows[3].Matched)
	assert.False(t, report.Rows[3].HasPayment)

	assert.Equal(t, 2, report.Matching())
	assert.Equal(t, 2, report.Mismatching())

	require.Len(t, report.UnpaidOrders, 1)
	assert.Equal(t, 4, report.UnpaidOrders[0].OrderID)

	require.Len(t, report.OrphanPayments, 1)
	assert.Equal(t, 99, report.OrphanPayments[0].PaymentID)
	assert.Equal(t, 1234, report.OrphanPayments[0].OrderID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcilerRunEmpty(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("CASE WHEN p.payment_id IS NULL").WillReturnRows(reconcileRows())
	mock.ExpectQuery("WHERE p.payment_id IS NULL").WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "order_total"}))
	mock.ExpectQuery("WHERE o.order_id IS NULL").WillReturnRows(
		sqlmock.NewRows([]string{"payment_id", "order_id", "amount"}))

	report, err := NewReconciler(db).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Empty(t, report.UnpaidOrders)
	assert.Empty(t, report.OrphanPayments)
	assert.Equal(t, 0, report.Matching())
	assert.Equal(t, 0, report.Mismatching())
}

func TestReconcilerRunMissingSchema(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("CASE WHEN p.payment_id IS NULL").
		WillReturnError(fmt.Errorf("no such table: orders"))

	_, err := NewReconciler(db).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSQLNoResults, errors.GetErrorCode(err))
}
