package dataset

import (
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"salescope/pkg/errors"
	"salescope/pkg/models"
)

// GeneratorConfig controls the shape of the synthetic dataset
type GeneratorConfig struct {
	Customers        int
	Products         int
	Orders           int
	MinItemsPerOrder int
	MaxItemsPerOrder int
	StartDate        time.Time
	EndDate          time.Time
	Seed             uint64 // 0 means non-deterministic
}

// Generator produces referentially consistent e-commerce records
type Generator struct {
	config GeneratorConfig
	faker  *gofakeit.Faker
}

// NewGenerator creates a generator, seeding the faker when requested
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		faker:  gofakeit.New(config.Seed),
	}
}

// Validate checks the generator configuration for impossible shapes
func (g *Generator) Validate() error {
	c := g.config
	if c.Customers <= 0 || c.Products <= 0 || c.Orders <= 0 {
		return errors.ValidationError("counts", c, "customers, products and orders must be positive")
	}
	if c.MinItemsPerOrder <= 0 || c.MaxItemsPerOrder < c.MinItemsPerOrder {
		return errors.ValidationError("items_per_order", c.MaxItemsPerOrder,
			"item range must be positive and max >= min")
	}
	if !c.EndDate.After(c.StartDate) {
		return errors.ValidationError("date_range", c.EndDate, "end date must be after start date")
	}
	return nil
}

// Generate builds the full dataset. Payments sum each order's line items so
// the reconciliation report comes out clean for freshly generated data.
func (g *Generator) Generate() (*models.Dataset, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	ds := &models.Dataset{
		Customers: g.generateCustomers(),
		Products:  g.generateProducts(),
	}
	ds.Orders = g.generateOrders()
	ds.OrderItems = g.generateOrderItems(ds.Orders, ds.Products)
	ds.Payments = g.generatePayments(ds.Orders, ds.OrderItems)

	return ds, nil
}

func (g *Generator) generateCustomers() []models.Customer {
	customers := make([]models.Customer, g.config.Customers)
	for i := range customers {
		customers[i] = models.Customer{
			CustomerID: i + 1,
			Name:       g.faker.Name(),
			Email:      g.faker.Email(),
			Phone:      g.faker.Phone(),
			City:       g.faker.City(),
			Country:    g.faker.Country(),
		}
	}
	return customers
}

func (g *Generator) generateProducts() []models.Product {
	products := make([]models.Product, g.config.Products)
	for i := range products {
		products[i] = models.Product{
			ProductID: i + 1,
			Name:      g.faker.ProductName(),
			Category:  g.faker.RandomString(models.ProductCategories),
			Price:     round2(g.faker.Float64Range(10.0, 1000.0)),
		}
	}
	return products
}

func (g *Generator) generateOrders() []models.Order {
	orders := make([]models.Order, g.config.Orders)
	for i := range orders {
		orderDate := g.faker.DateRange(g.config.StartDate, g.config.EndDate)
		orders[i] = models.Order{
			OrderID:    i + 1,
			CustomerID: g.faker.Number(1, g.config.Customers),
			OrderDate:  orderDate.Truncate(24 * time.Hour),
			Status:     g.faker.RandomString(models.OrderStatuses),
		}
	}
	return orders
}

func (g *Generator) generateOrderItems(orders []models.Order, products []models.Product) []models.OrderItem {
	var items []models.OrderItem
	itemID := 1

	productIDs := make([]int, len(products))
	for i, p := range products {
		productIDs[i] = p.ProductID
	}

	for _, order := range orders {
		count := g.faker.Number(g.config.MinItemsPerOrder, g.config.MaxItemsPerOrder)
		if count > len(productIDs) {
			count = len(productIDs)
		}

		// Distinct products per order
		g.faker.ShuffleInts(productIDs)

		for _, productID := range productIDs[:count] {
			// Price at time of order may drift up to 10% from the catalog price
			base := products[productID-1].Price
			items = append(items, models.OrderItem{
				ItemID:    itemID,
				OrderID:   order.OrderID,
				ProductID: productID,
				Quantity:  g.faker.Number(1, 5),
				Price:     round2(base * g.faker.Float64Range(0.9, 1.1)),
			})
			itemID++
		}
	}

	return items
}

func (g *Generator) generatePayments(orders []models.Order, items []models.OrderItem) []models.Payment {
	totals := make(map[int]float64, len(orders))
	for _, item := range items {
		totals[item.OrderID] += float64(item.Quantity) * item.Price
	}

	payments := make([]models.Payment, len(orders))
	for i, order := range orders {
		// Payment lands 0..7 days after the order, never past the window end
		paymentDate := order.OrderDate.AddDate(0, 0, g.faker.Number(0, 7))
		if paymentDate.After(g.config.EndDate) {
			paymentDate = g.config.EndDate
		}

		payments[i] = models.Payment{
			PaymentID:   i + 1,
			Amount:      round2(totals[order.OrderID]),
			OrderID:     order.OrderID,
			Method:      g.faker.RandomString(models.PaymentMethods),
			PaymentDate: paymentDate,
		}
	}

	return payments
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
