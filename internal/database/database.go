package database

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Open initializes and returns the primary connection pool using the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings. 25 connections is plenty for a single API instance.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping to verify the connection before the server starts taking requests.
	if err := db.Ping(); err != nil {
		log.Printf("Error connecting to database: %v", err)
		return nil, err
	}

	log.Println("Database connection pool established")
	return db, nil
}

// Migrate creates the schema if it does not exist yet.
// Tables: users, products, orders, order_items.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'customer',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(150) NOT NULL,
			slug VARCHAR(180) NOT NULL,
			description TEXT,
			price DECIMAL(10,2) NOT NULL,
			image_url TEXT,
			category VARCHAR(100),
			stock INT NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders (id),
			FOREIGN KEY (product_id) REFERENCES products (id)
		)`,
		// Indexes for the hot query paths (catalog filters, order history).
		`CREATE INDEX idx_products_category ON products (category)`,
		`CREATE INDEX idx_products_name ON products (name)`,
		`CREATE INDEX idx_orders_user_id ON orders (user_id)`,
		`CREATE INDEX idx_orders_created_at ON orders (created_at)`,
		`CREATE INDEX idx_order_items_order_id ON order_items (order_id)`,
		`CREATE INDEX idx_order_items_product_id ON order_items (product_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			// MySQL has no CREATE INDEX IF NOT EXISTS. A duplicate key name
			// error (1061) on a re-run is fine, anything else is not.
			var me *mysql.MySQLError
			if errors.As(err, &me) && me.Number == 1061 {
				continue
			}
			return err
		}
	}
	return nil
}
