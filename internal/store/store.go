package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"salescope/pkg/errors"
	"salescope/pkg/models"
)

const isoDate = "2006-01-02"

// Config holds SQLite connection configuration
type Config struct {
	Path        string
	BusyTimeout time.Duration
	Timeout     time.Duration
}

// Store provides access to the e-commerce SQLite database
type Store struct {
	db        *sqlx.DB
	config    Config
	connected bool
}

// NewStore creates a new store for the configured database file
func NewStore(config Config) *Store {
	return &Store{config: config}
}

// NewStoreWithDB wraps an existing connection, used by tests
func NewStoreWithDB(db *sqlx.DB) *Store {
	return &Store{db: db, connected: true}
}

// Connect opens the database file and verifies the connection
func (s *Store) Connect() error {
	if s.connected {
		return nil
	}

	return errors.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		busy := s.config.BusyTimeout
		if busy == 0 {
			busy = 5 * time.Second
		}
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
			s.config.Path, busy.Milliseconds())

		db, err := sqlx.Open("sqlite", dsn)
		if err != nil {
			return errors.ConnectionError("Failed to open database", err).
				WithContext("path", s.config.Path)
		}

		// SQLite allows a single writer; more connections just contend
		db.SetMaxOpenConns(1)

		connCtx, cancel := s.getContext()
		defer cancel()

		if err := db.PingContext(connCtx); err != nil {
			db.Close()
			return errors.ConnectionError("Failed to connect to database", err).
				WithContext("path", s.config.Path).
				AsRecoverable()
		}

		s.db = db
		s.connected = true
		return nil
	})
}

// Close closes the database connection
func (s *Store) Close() error {
	if !s.connected {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	s.connected = false
	return nil
}

// DB returns the underlying connection
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// EnsureSchema creates the five tables if they do not exist
func (s *Store) EnsureSchema(ctx context.Context) error {
	if !s.connected {
		return errors.New(errors.ErrCodeConnectionFailed, "Not connected to database").
			WithSuggestions("Call Connect() before creating the schema")
	}

	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.SQLError("Failed to create schema", stmt, err).
				WithContext("path", s.config.Path)
		}
	}
	return nil
}

// LoadDataset upserts every record set inside a single transaction per table.
// Re-running the load with the same primary keys replaces the existing rows.
// The progress callback, if not nil, is called with each table name before
// that table loads.
func (s *Store) LoadDataset(ctx context.Context, ds *models.Dataset, progress func(table string)) (map[string]int, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to database")
	}

	steps := []struct {
		table string
		load  func() (int, error)
	}{
		{"customers", func() (int, error) { return s.UpsertCustomers(ctx, ds.Customers) }},
		{"products", func() (int, error) { return s.UpsertProducts(ctx, ds.Products) }},
		{"orders", func() (int, error) { return s.UpsertOrders(ctx, ds.Orders) }},
		{"order_items", func() (int, error) { return s.UpsertOrderItems(ctx, ds.OrderItems) }},
		{"payments", func() (int, error) { return s.UpsertPayments(ctx, ds.Payments) }},
	}

	counts := make(map[string]int, len(Tables))
	for _, step := range steps {
		if progress != nil {
			progress(step.table)
		}
		n, err := step.load()
		if err != nil {
			return counts, err
		}
		counts[step.table] = n
	}

	return counts, nil
}

// UpsertCustomers bulk-loads customers, replacing rows on primary key conflict
func (s *Store) UpsertCustomers(ctx context.Context, customers []models.Customer) (int, error) {
	const query = `INSERT OR REPLACE INTO customers
        (customer_id, customer_name, email, phone_number, city, country)
        VALUES (?, ?, ?, ?, ?, ?)`

	return s.bulkExec(ctx, query, len(customers), func(i int) []interface{} {
		c := customers[i]
		return []interface{}{c.CustomerID, c.Name, c.Email, c.Phone, c.City, c.Country}
	})
}

// UpsertProducts bulk-loads products
func (s *Store) UpsertProducts(ctx context.Context, products []models.Product) (int, error) {
	const query = `INSERT OR REPLACE INTO products
        (product_id, product_name, category, price)
        VALUES (?, ?, ?, ?)`

	return s.bulkExec(ctx, query, len(products), func(i int) []interface{} {
		p := products[i]
		return []interface{}{p.ProductID, p.Name, p.Category, p.Price}
	})
}

// UpsertOrders bulk-loads orders, storing dates as ISO 8601
func (s *Store) UpsertOrders(ctx context.Context, orders []models.Order) (int, error) {
	const query = `INSERT OR REPLACE INTO orders
        (order_id, customer_id, order_date, status)
        VALUES (?, ?, ?, ?)`

	return s.bulkExec(ctx, query, len(orders), func(i int) []interface{} {
		o := orders[i]
		return []interface{}{o.OrderID, o.CustomerID, o.OrderDate.Format(isoDate), o.Status}
	})
}

// UpsertOrderItems bulk-loads order line items
func (s *Store) UpsertOrderItems(ctx context.Context, items []models.OrderItem) (int, error) {
	const query = `INSERT OR REPLACE INTO order_items
        (item_id, order_id, product_id, quantity, price)
        VALUES (?, ?, ?, ?, ?)`

	return s.bulkExec(ctx, query, len(items), func(i int) []interface{} {
		it := items[i]
		return []interface{}{it.ItemID, it.OrderID, it.ProductID, it.Quantity, it.Price}
	})
}

// UpsertPayments bulk-loads payments, storing dates as ISO 8601
func (s *Store) UpsertPayments(ctx context.Context, payments []models.Payment) (int, error) {
	const query = `INSERT OR REPLACE INTO payments
        (payment_id, amount, order_id, payment_method, payment_date)
        VALUES (?, ?, ?, ?, ?)`

	return s.bulkExec(ctx, query, len(payments), func(i int) []interface{} {
		p := payments[i]
		return []interface{}{p.PaymentID, p.Amount, p.OrderID, p.Method, p.PaymentDate.Format(isoDate)}
	})
}

// bulkExec executes a prepared statement for every row inside one transaction
func (s *Store) bulkExec(ctx context.Context, query string, n int, args func(int) []interface{}) (int, error) {
	if n == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to begin transaction")
	}

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return 0, errors.SQLError("Failed to prepare statement", query, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			tx.Rollback()
			return 0, errors.SQLError(
				fmt.Sprintf("Failed to insert row %d", i+1), query, err).
				WithContext("row_index", i+1).
				WithContext("total_rows", n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeSQLTransaction, "Failed to commit transaction")
	}

	return n, nil
}

// TableCounts returns the row count of every table in schema order
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to database")
	}

	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var n int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := s.db.GetContext(ctx, &n, query); err != nil {
			return nil, errors.SQLError(
				fmt.Sprintf("Failed to count rows in %s", table), query, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (s *Store) getContext() (context.Context, context.CancelFunc) {
	timeout := s.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ValidateConfig validates the store configuration
func ValidateConfig(config Config) error {
	if config.Path == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}
