package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/devalvin/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

//
// --- Catalog Handlers ---
//

// ProductInput is the payload for create and update.
type ProductInput struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    *string `json:"imageUrl" binding:"omitempty,url"`
	Category    *string `json:"category" binding:"omitempty,min=2,max=50"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// GetProducts is the handler for GET /products.
// Supports ?category= (exact match), ?search= (case-insensitive substring on
// name or description) and ?limit=.
func (h *Handlers) GetProducts(c *gin.Context) {
	query := `
		SELECT id, name, slug, description, price, image_url, category, stock, created_at
		FROM products`
	var args []interface{}

	where := ""
	if category := c.Query("category"); category != "" {
		where = " WHERE category = ?"
		args = append(args, category)
	}

	if search := c.Query("search"); search != "" {
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		where += " (LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	query += where + " ORDER BY created_at DESC, id DESC"

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			query += " LIMIT ?"
			args = append(args, limit)
		}
	}

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		log.Printf("Error querying products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price,
			&p.ImageURL, &p.Category, &p.Stock, &p.CreatedAt,
		); err != nil {
			log.Printf("Error scanning product row: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct is the handler for GET /products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	id := c.Param("id")

	var p models.Product
	query := `
		SELECT id, name, slug, description, price, image_url, category, stock, created_at
		FROM products WHERE id = ?`
	err := h.DB.QueryRow(query, id).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price,
		&p.ImageURL, &p.Category, &p.Stock, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("Error fetching product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetCategories is the handler for GET /products/categories/list.
// Returns the distinct set of non-null categories in the catalog.
func (h *Handlers) GetCategories(c *gin.Context) {
	rows, err := h.DB.Query("SELECT DISTINCT category FROM products WHERE category IS NOT NULL")
	if err != nil {
		log.Printf("Error querying categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			log.Printf("Error scanning category row: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, categories)
}

// CreateProduct is the handler for POST /products (admin only).
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationFailed(c, bindingErrors(err))
		return
	}

	query := `
		INSERT INTO products (name, slug, description, price, image_url, category, stock, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query,
		input.Name, slug.Make(input.Name), input.Description, input.Price,
		input.ImageURL, input.Category, input.Stock, time.Now(),
	)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating product"})
		return
	}

	productID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product created successfully",
		"productId": productID,
	})
}

// UpdateProduct is the handler for PUT /products/:id (admin only).
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationFailed(c, bindingErrors(err))
		return
	}

	// Existence check first. RowsAffected is unreliable here: MySQL reports
	// zero affected rows when the update leaves every column unchanged.
	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM products WHERE id = ?", id).Scan(&existingID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("Error fetching product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	query := `
		UPDATE products
		SET name = ?, slug = ?, description = ?, price = ?, image_url = ?, category = ?, stock = ?
		WHERE id = ?`
	_, err = h.DB.Exec(query,
		input.Name, slug.Make(input.Name), input.Description, input.Price,
		input.ImageURL, input.Category, input.Stock, id,
	)
	if err != nil {
		log.Printf("Error updating product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct is the handler for DELETE /products/:id (admin only).
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	result, err := h.DB.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting product"})
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Error reading affected rows: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting product"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
