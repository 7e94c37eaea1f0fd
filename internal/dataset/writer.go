package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"salescope/pkg/errors"
	"salescope/pkg/models"
)

// File names written and read by the dataset package
const (
	CustomersFile  = "customers.csv"
	ProductsFile   = "products.csv"
	OrdersFile     = "orders.csv"
	OrderItemsFile = "order_items.csv"
	PaymentsFile   = "payments.csv"
)

// Files lists the CSV files in load order
var Files = []string{CustomersFile, ProductsFile, OrdersFile, OrderItemsFile, PaymentsFile}

// The legacy exports used "phone number" (with a space) as a header; the
// reader and writer both keep that spelling for compatibility.
var (
	customersHeader  = []string{"customer_id", "customer_name", "email", "phone number", "city", "country"}
	productsHeader   = []string{"product_id", "product_name", "category", "price"}
	ordersHeader     = []string{"order_id", "customer_id", "order_date", "status"}
	orderItemsHeader = []string{"item_id", "order_id", "product_id", "quantity", "price"}
	paymentsHeader   = []string{"payment_id", "amount", "order_id", "payment_method", "payment_date"}
)

// WriteDataset writes all five CSV files into dir
func WriteDataset(dir string, ds *models.Dataset) error {
	writers := []struct {
		file  string
		write func(string) error
	}{
		{CustomersFile, func(p string) error { return writeCustomers(p, ds.Customers) }},
		{ProductsFile, func(p string) error { return writeProducts(p, ds.Products) }},
		{OrdersFile, func(p string) error { return writeOrders(p, ds.Orders) }},
		{OrderItemsFile, func(p string) error { return writeOrderItems(p, ds.OrderItems) }},
		{PaymentsFile, func(p string) error { return writePayments(p, ds.Payments) }},
	}

	for _, w := range writers {
		if err := w.write(filepath.Join(dir, w.file)); err != nil {
			return err
		}
	}
	return nil
}

func writeCustomers(path string, customers []models.Customer) error {
	rows := make([][]string, len(customers))
	for i, c := range customers {
		rows[i] = []string{
			strconv.Itoa(c.CustomerID), c.Name, c.Email, c.Phone, c.City, c.Country,
		}
	}
	return writeCSV(path, customersHeader, rows)
}

func writeProducts(path string, products []models.Product) error {
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			strconv.Itoa(p.ProductID), p.Name, p.Category, formatAmount(p.Price),
		}
	}
	return writeCSV(path, productsHeader, rows)
}

func writeOrders(path string, orders []models.Order) error {
	rows := make([][]string, len(orders))
	for i, o := range orders {
		rows[i] = []string{
			strconv.Itoa(o.OrderID),
			strconv.Itoa(o.CustomerID),
			o.OrderDate.Format(csvDate),
			o.Status,
		}
	}
	return writeCSV(path, ordersHeader, rows)
}

func writeOrderItems(path string, items []models.OrderItem) error {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{
			strconv.Itoa(it.ItemID),
			strconv.Itoa(it.OrderID),
			strconv.Itoa(it.ProductID),
			strconv.Itoa(it.Quantity),
			formatAmount(it.Price),
		}
	}
	return writeCSV(path, orderItemsHeader, rows)
}

func writePayments(path string, payments []models.Payment) error {
	rows := make([][]string, len(payments))
	for i, p := range payments {
		rows[i] = []string{
			strconv.Itoa(p.PaymentID),
			formatAmount(p.Amount),
			strconv.Itoa(p.OrderID),
			p.Method,
			p.PaymentDate.Format(csvDate),
		}
	}
	return writeCSV(path, paymentsHeader, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path) // #nosec G304 - path built from validated output dir
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCSVWrite,
			fmt.Sprintf("Failed to create %s", filepath.Base(path))).
			WithContext("path", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, errors.ErrCodeCSVWrite, "Failed to write CSV header")
	}
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrap(err, errors.ErrCodeCSVWrite,
			fmt.Sprintf("Failed to write rows to %s", filepath.Base(path)))
	}
	w.Flush()
	return w.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
