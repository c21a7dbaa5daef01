package database

import (
	"database/sql"
	"log"

	"github.com/devalvin/storefront-golang/internal/models"
	"github.com/gosimple/slug"
)

// seedProduct is one row of the starter catalog.
type seedProduct struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Category    string
	Stock       int
}

var sampleProducts = []seedProduct{
	{
		Name:        "Wireless Headphones",
		Description: "High-quality wireless headphones with noise cancellation and 30-hour battery life",
		Price:       99.99,
		ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400",
		Category:    "Electronics",
		Stock:       50,
	},
	{
		Name:        "Smartphone Pro",
		Description: "Latest smartphone with advanced camera system and 5G connectivity",
		Price:       699.99,
		ImageURL:    "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=400",
		Category:    "Electronics",
		Stock:       30,
	},
	{
		Name:        "Gaming Laptop",
		Description: "High-performance gaming laptop with RTX graphics and 144Hz display",
		Price:       1299.99,
		ImageURL:    "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400",
		Category:    "Electronics",
		Stock:       20,
	},
	{
		Name:        "Smart Watch",
		Description: "Fitness tracking smartwatch with heart rate monitor and GPS",
		Price:       249.99,
		ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400",
		Category:    "Electronics",
		Stock:       75,
	},
	{
		Name:        "Premium T-Shirt",
		Description: "100% cotton premium t-shirt with comfortable fit",
		Price:       29.99,
		ImageURL:    "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400",
		Category:    "Clothing",
		Stock:       200,
	},
	{
		Name:        "Denim Jeans",
		Description: "Classic blue denim jeans with perfect stretch fit",
		Price:       59.99,
		ImageURL:    "https://images.unsplash.com/photo-1542272604-787c3835535d?w=400",
		Category:    "Clothing",
		Stock:       150,
	},
	{
		Name:        "Running Shoes",
		Description: "Lightweight running shoes with superior cushioning",
		Price:       79.99,
		ImageURL:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400",
		Category:    "Clothing",
		Stock:       100,
	},
	{
		Name:        "Winter Jacket",
		Description: "Warm winter jacket with waterproof exterior",
		Price:       129.99,
		ImageURL:    "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=400",
		Category:    "Clothing",
		Stock:       80,
	},
}

// Seed inserts the starter catalog and a default admin account.
// It is a no-op when data already exists, so it is safe to run on every boot.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedProducts(db)
}

func seedAdmin(db *sql.DB) error {
	var id int64
	err := db.QueryRow("SELECT id FROM users WHERE email = ?", "admin@example.com").Scan(&id)
	if err == nil {
		return nil // already there
	}
	if err != sql.ErrNoRows {
		return err
	}

	var password models.Password
	if err := password.Set("Admin123"); err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT INTO users (email, password_hash, name, role) VALUES (?, ?, ?, ?)",
		"admin@example.com", password.Hash, "Admin User", models.RoleAdmin,
	)
	if err != nil {
		return err
	}

	log.Println("Seeded default admin account (admin@example.com)")
	return nil
}

func seedProducts(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	query := `
		INSERT INTO products (name, slug, description, price, image_url, category, stock)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, p := range sampleProducts {
		_, err := db.Exec(query, p.Name, slug.Make(p.Name), p.Description, p.Price, p.ImageURL, p.Category, p.Stock)
		if err != nil {
			return err
		}
	}

	log.Printf("Seeded %d sample products", len(sampleProducts))
	return nil
}
