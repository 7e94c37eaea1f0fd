package store

// Schema statements for the five e-commerce tables. Dates are stored as
// ISO 8601 text, which SQLite's strftime understands directly.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
        customer_id INTEGER PRIMARY KEY,
        customer_name TEXT NOT NULL,
        email TEXT NOT NULL,
        phone_number TEXT,
        city TEXT,
        country TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS products (
        product_id INTEGER PRIMARY KEY,
        product_name TEXT NOT NULL,
        category TEXT,
        price REAL NOT NULL
    );`,
	`CREATE TABLE IF NOT EXISTS orders (
        order_id INTEGER PRIMARY KEY,
        customer_id INTEGER NOT NULL,
        order_date DATE NOT NULL,
        status TEXT,
        FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
    );`,
	`CREATE TABLE IF NOT EXISTS order_items (
        item_id INTEGER PRIMARY KEY,
        order_id INTEGER NOT NULL,
        product_id INTEGER NOT NULL,
        quantity INTEGER NOT NULL,
        price REAL NOT NULL,
        FOREIGN KEY (order_id) REFERENCES orders(order_id),
        FOREIGN KEY (product_id) REFERENCES products(product_id)
    );`,
	`CREATE TABLE IF NOT EXISTS payments (
        payment_id INTEGER PRIMARY KEY,
        amount REAL NOT NULL,
        order_id INTEGER NOT NULL,
        payment_method TEXT,
        payment_date DATE NOT NULL,
        FOREIGN KEY (order_id) REFERENCES orders(order_id)
    );`,
}

// Tables lists the table names in dependency order
var Tables = []string{"customers", "products", "orders", "order_items", "payments"}
