package models

import "time"

// PaymentMethods are the methods the generator draws from
var PaymentMethods = []string{"UPI", "Card", "Wallet", "Net Banking", "Cash on Delivery"}

// OrderStatuses are the statuses the generator draws from
var OrderStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled"}

// ProductCategories are the categories the generator draws from
var ProductCategories = []string{
	"Electronics", "Clothing", "Books", "Home & Kitchen",
	"Sports", "Toys", "Beauty", "Food",
}

type Customer struct {
	CustomerID int    `db:"customer_id"`
	Name       string `db:"customer_name"`
	Email      string `db:"email"`
	Phone      string `db:"phone_number"`
	City       string `db:"city"`
	Country    string `db:"country"`
}

type Product struct {
	ProductID int     `db:"product_id"`
	Name      string  `db:"product_name"`
	Category  string  `db:"category"`
	Price     float64 `db:"price"`
}

type Order struct {
	OrderID    int       `db:"order_id"`
	CustomerID int       `db:"customer_id"`
	OrderDate  time.Time `db:"-"`
	Status     string    `db:"status"`
}

type OrderItem struct {
	ItemID    int     `db:"item_id"`
	OrderID   int     `db:"order_id"`
	ProductID int     `db:"product_id"`
	Quantity  int     `db:"quantity"`
	Price     float64 `db:"price"` // Price at time of order, not the catalog price
}

type Payment struct {
	PaymentID   int       `db:"payment_id"`
	Amount      float64   `db:"amount"`
	OrderID     int       `db:"order_id"`
	Method      string    `db:"payment_method"`
	PaymentDate time.Time `db:"-"`
}

// Dataset bundles the five generated record sets
type Dataset struct {
	Customers  []Customer
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
	Payments   []Payment
}
