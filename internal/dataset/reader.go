package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"salescope/pkg/errors"
	"salescope/pkg/models"
)

// ReadDataset loads all five CSV files from dir
func ReadDataset(dir string) (*models.Dataset, error) {
	ds := &models.Dataset{}
	var err error

	if ds.Customers, err = ReadCustomers(filepath.Join(dir, CustomersFile)); err != nil {
		return nil, err
	}
	if ds.Products, err = ReadProducts(filepath.Join(dir, ProductsFile)); err != nil {
		return nil, err
	}
	if ds.Orders, err = ReadOrders(filepath.Join(dir, OrdersFile)); err != nil {
		return nil, err
	}
	if ds.OrderItems, err = ReadOrderItems(filepath.Join(dir, OrderItemsFile)); err != nil {
		return nil, err
	}
	if ds.Payments, err = ReadPayments(filepath.Join(dir, PaymentsFile)); err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadCustomers parses customers.csv
func ReadCustomers(path string) ([]models.Customer, error) {
	var customers []models.Customer
	err := readCSV(path, customersHeader, func(row map[string]string) error {
		id, err := strconv.Atoi(row["customer_id"])
		if err != nil {
			return errors.ValidationError("customer_id", row["customer_id"], "must be an integer")
		}
		customers = append(customers, models.Customer{
			CustomerID: id,
			Name:       row["customer_name"],
			Email:      row["email"],
			Phone:      row["phone number"],
			City:       row["city"],
			Country:    row["country"],
		})
		return nil
	})
	return customers, err
}

// ReadProducts parses products.csv
func ReadProducts(path string) ([]models.Product, error) {
	var products []models.Product
	err := readCSV(path, productsHeader, func(row map[string]string) error {
		id, err := strconv.Atoi(row["product_id"])
		if err != nil {
			return errors.ValidationError("product_id", row["product_id"], "must be an integer")
		}
		price, err := strconv.ParseFloat(row["price"], 64)
		if err != nil {
			return errors.ValidationError("price", row["price"], "must be a number")
		}
		products = append(products, models.Product{
			ProductID: id,
			Name:      row["product_name"],
			Category:  row["category"],
			Price:     price,
		})
		return nil
	})
	return products, err
}

// ReadOrders parses orders.csv, accepting both supported date formats
func ReadOrders(path string) ([]models.Order, error) {
	var orders []models.Order
	err := readCSV(path, ordersHeader, func(row map[string]string) error {
		id, err := strconv.Atoi(row["order_id"])
		if err != nil {
			return errors.ValidationError("order_id", row["order_id"], "must be an integer")
		}
		customerID, err := strconv.Atoi(row["customer_id"])
		if err != nil {
			return errors.ValidationError("customer_id", row["customer_id"], "must be an integer")
		}
		orderDate, err := ParseDate("order_date", row["order_date"])
		if err != nil {
			return err
		}
		orders = append(orders, models.Order{
			OrderID:    id,
			CustomerID: customerID,
			OrderDate:  orderDate,
			Status:     row["status"],
		})
		return nil
	})
	return orders, err
}

// ReadOrderItems parses order_items.csv
func ReadOrderItems(path string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := readCSV(path, orderItemsHeader, func(row map[string]string) error {
		itemID, err := strconv.Atoi(row["item_id"])
		if err != nil {
			return errors.ValidationError("item_id", row["item_id"], "must be an integer")
		}
		orderID, err := strconv.Atoi(row["order_id"])
		if err != nil {
			return errors.ValidationError("order_id", row["order_id"], "must be an integer")
		}
		productID, err := strconv.Atoi(row["product_id"])
		if err != nil {
			return errors.ValidationError("product_id", row["product_id"], "must be an integer")
		}
		quantity, err := strconv.Atoi(row["quantity"])
		if err != nil {
			return errors.ValidationError("quantity", row["quantity"], "must be an integer")
		}
		price, err := strconv.ParseFloat(row["price"], 64)
		if err != nil {
			return errors.ValidationError("price", row["price"], "must be a number")
		}
		items = append(items, models.OrderItem{
			ItemID:    itemID,
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     price,
		})
		return nil
	})
	return items, err
}

// ReadPayments parses payments.csv, accepting both supported date formats
func ReadPayments(path string) ([]models.Payment, error) {
	var payments []models.Payment
	err := readCSV(path, paymentsHeader, func(row map[string]string) error {
		id, err := strconv.Atoi(row["payment_id"])
		if err != nil {
			return errors.ValidationError("payment_id", row["payment_id"], "must be an integer")
		}
		amount, err := strconv.ParseFloat(row["amount"], 64)
		if err != nil {
			return errors.ValidationError("amount", row["amount"], "must be a number")
		}
		orderID, err := strconv.Atoi(row["order_id"])
		if err != nil {
			return errors.ValidationError("order_id", row["order_id"], "must be an integer")
		}
		paymentDate, err := ParseDate("payment_date", row["payment_date"])
		if err != nil {
			return err
		}
		payments = append(payments, models.Payment{
			PaymentID:   id,
			Amount:      amount,
			OrderID:     orderID,
			Method:      row["payment_method"],
			PaymentDate: paymentDate,
		})
		return nil
	})
	return payments, err
}

// readCSV streams a CSV file, calling handle with a header-keyed map per row.
// The expected header defines which columns must be present; extra columns
// are carried through untouched.
func readCSV(path string, expected []string, handle func(map[string]string) error) error {
	f, err := os.Open(path) // #nosec G304 - path built from validated input dir
	if err != nil {
		return errors.CSVError(fmt.Sprintf("Failed to open %s", filepath.Base(path)), path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return errors.CSVError("Failed to read CSV header", path, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, col := range expected {
		if _, ok := index[col]; !ok {
			return errors.New(errors.ErrCodeCSVFormat,
				fmt.Sprintf("%s is missing required column %q", filepath.Base(path), col)).
				WithContext("file", path)
		}
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.CSVError(fmt.Sprintf("Failed to read row %d", line+1), path, err)
		}
		line++

		row := make(map[string]string, len(header))
		for col, i := range index {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		if err := handle(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeCSVFormat,
				fmt.Sprintf("%s row %d is invalid", filepath.Base(path), line))
		}
	}
	return nil
}
