package store

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescope/pkg/errors"
	"salescope/pkg/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStoreWithDB(sqlx.NewDb(db, "sqlite")), mock
}

func TestNewStore(t *testing.T) {
	config := Config{Path: "test.db", BusyTimeout: 5 * time.Second}
	s := NewStore(config)

	assert.NotNil(t, s)
	assert.Equal(t, config, s.config)
	assert.False(t, s.connected)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(Config{Path: "ecommerce.db"}))
	assert.Error(t, ValidateConfig(Config{}))
}

func TestEnsureSchema(t *testing.T) {
	s, mock := newMockStore(t)

	for _, table := range Tables {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	err := s.EnsureSchema(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaNotConnected(t *testing.T) {
	s := NewStore(Config{Path: "test.db"})

	err := s.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConnectionFailed, errors.GetErrorCode(err))
}

func TestUpsertCustomers(t *testing.T) {
	s, mock := newMockStore(t)

	customers := []models.Customer{
		{CustomerID: 1, Name: "Ada Lovelace", Email: "ada@example.com",
			Phone: "555-0100", City: "London", Country: "United Kingdom"},
		{CustomerID: 2, Name: "Alan Turing", Email: "alan@example.com",
			Phone: "555-0101", City: "Manchester", Country: "United Kingdom"},
	}

	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT OR REPLACE INTO customers")
	for _, c := range customers {
		prepared.ExpectExec().
			WithArgs(c.CustomerID, c.Name, c.Email, c.Phone, c.City, c.Country).
			WillReturnResult(sqlmock.NewResult(int64(c.CustomerID), 1))
	}
	mock.ExpectCommit()

	n, err := s.UpsertCustomers(context.Background(), customers)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertOrdersStoresISODates(t *testing.T) {
	s, mock := newMockStore(t)

	orders := []models.Order{
		{OrderID: 1, CustomerID: 3,
			OrderDate: time.Date(2006, 3, 15, 0, 0, 0, 0, time.UTC),
			Status:    "delivered"},
	}

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT OR REPLACE INTO orders").
		ExpectExec().
		WithArgs(1, 3, "2006-03-15", "delivered").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	n, err := s.UpsertOrders(context.Background(), orders)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEmptySliceSkipsTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	n, err := s.UpsertProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRollsBackOnRowError(t *testing.T) {
	s, mock := newMockStore(t)

	products := []models.Product{
		{ProductID: 1, Name: "Widget", Category: "Electronics", Price: 9.99},
		{ProductID: 2, Name: "Gadget", Category: "Electronics", Price: 19.99},
	}

	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT OR REPLACE INTO products")
	prepared.ExpectExec().
		WithArgs(1, "Widget", "Electronics", 9.99).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prepared.ExpectExec().
		WithArgs(2, "Gadget", "Electronics", 19.99).
		WillReturnError(fmt.Errorf("constraint failed"))
	mock.ExpectRollback()

	_, err := s.UpsertProducts(context.Background(), products)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSQLExecution, errors.GetErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadDataset(t *testing.T) {
	s, mock := newMockStore(t)

	ds := &models.Dataset{
		Customers: []models.Customer{{CustomerID: 1, Name: "Ada"}},
		Products:  []models.Product{{ProductID: 1, Name: "Widget", Price: 9.99}},
		Orders: []models.Order{{OrderID: 1, CustomerID: 1,
			OrderDate: time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC), Status: "pending"}},
		OrderItems: []models.OrderItem{{ItemID: 1, OrderID: 1, ProductID: 1, Quantity: 2, Price: 9.99}},
		Payments: []models.Payment{{PaymentID: 1, Amount: 19.98, OrderID: 1, Method: "paypal",
			PaymentDate: time.Date(2006, 1, 4, 0, 0, 0, 0, time.UTC)}},
	}

	for _, table := range Tables {
		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT OR REPLACE INTO " + table).
			ExpectExec().
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
	}

	var reported []string
	counts, err := s.LoadDataset(context.Background(), ds, func(table string) {
		reported = append(reported, table)
	})
	require.NoError(t, err)
	for _, table := range Tables {
		assert.Equal(t, 1, counts[table], table)
	}
	assert.Equal(t, Tables, reported) // progress fires once per table, in load order
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadDatasetNilProgress(t *testing.T) {
	s, mock := newMockStore(t)

	ds := &models.Dataset{Customers: []models.Customer{{CustomerID: 1, Name: "Ada"}}}

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT OR REPLACE INTO customers").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	counts, err := s.LoadDataset(context.Background(), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["customers"])
}

func TestTableCounts(t *testing.T) {
	s, mock := newMockStore(t)

	want := map[string]int{
		"customers":   100,
		"products":    50,
		"orders":      200,
		"order_items": 587,
		"payments":    200,
	}

	for _, table := range Tables {
		mock.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(want[table]))
	}

	counts, err := s.TableCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableCountsMissingTable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers")).
		WillReturnError(fmt.Errorf("no such table: customers"))

	_, err := s.TableCounts(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSQLNoResults, errors.GetErrorCode(err))
}

func TestCloseIdempotent(t *testing.T) {
	s := NewStore(Config{Path: "test.db"})
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
