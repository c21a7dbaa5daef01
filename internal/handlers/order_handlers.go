package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/devalvin/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Order Handlers ---
//

// OrderItemInput is one cart line in the checkout payload.
type OrderItemInput struct {
	ProductID int64   `json:"productId" binding:"required,gt=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gt=0"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	Items       []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	TotalAmount float64          `json:"totalAmount" binding:"required,gt=0"`
}

// CreateOrder is the handler for POST /orders.
//
// The whole placement runs inside one transaction: the order row, every
// order_items row, and every stock decrement commit together or not at all.
// A failure partway through must never leave a partial order visible.
func (h *Handlers) CreateOrder(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationFailed(c, bindingErrors(err))
		return
	}

	// The client computes the total locally; verify it against the line items
	// before touching the database. Allow for float rounding up to a cent.
	var sum float64
	for _, item := range input.Items {
		sum += item.Price * float64(item.Quantity)
	}
	if math.Abs(sum-input.TotalAmount) > 0.009 {
		respondValidationFailed(c, []FieldError{{
			Field:   "totalAmount",
			Message: "totalAmount must equal the sum of item price times quantity",
		}})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		log.Printf("Error starting order transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // Safety net. A no-op once Commit succeeds.

	// 1. Insert the order header. New orders always start as "pending".
	orderQuery := `
		INSERT INTO orders (user_id, total_amount, status, created_at)
		VALUES (?, ?, ?, ?)`
	result, err := tx.Exec(orderQuery, userID, input.TotalAmount, models.OrderStatusPending, time.Now())
	if err != nil {
		log.Printf("Error creating order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		log.Printf("Error reading new order ID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
		return
	}

	// 2. Snapshot each line item and decrement stock.
	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES (?, ?, ?, ?)`

	// The guard on the UPDATE keeps stock from ever going negative: zero
	// affected rows means either an unknown product or not enough stock.
	stockQuery := "UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?"

	for _, item := range input.Items {
		stockResult, err := tx.Exec(stockQuery, item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			log.Printf("Error updating stock for product %d: %v", item.ProductID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating stock"})
			return
		}
		affected, err := stockResult.RowsAffected()
		if err != nil {
			log.Printf("Error reading affected rows: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating stock"})
			return
		}
		if affected == 0 {
			// Distinguish "no such product" from "not enough stock".
			var stock int
			err := tx.QueryRow("SELECT stock FROM products WHERE id = ?", item.ProductID).Scan(&stock)
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{
					"message": fmt.Sprintf("Product %d not found", item.ProductID),
				})
				return
			}
			if err != nil {
				log.Printf("Error checking product %d: %v", item.ProductID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{
				"message": fmt.Sprintf("Not enough stock for product %d", item.ProductID),
			})
			return
		}

		if _, err := tx.Exec(itemQuery, orderID, item.ProductID, item.Quantity, item.Price); err != nil {
			log.Printf("Error creating order item: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order items"})
			return
		}
	}

	// 3. Commit. Any early return above rolled everything back.
	if err := tx.Commit(); err != nil {
		log.Printf("Error committing order transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"orderId": orderID,
	})
}

// OrderLine is one item in an order detail response, with product metadata
// joined in for display.
type OrderLine struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderDetail is an order with its nested line items.
type OrderDetail struct {
	ID          int64       `json:"id"`
	TotalAmount float64     `json:"totalAmount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	Items       []OrderLine `json:"items"`
}

// orderRowsQuery joins orders, order_items, and products for nesting.
const orderRowsQuery = `
	SELECT
		o.id,
		o.total_amount,
		o.status,
		o.created_at,
		oi.product_id,
		oi.quantity,
		oi.price,
		p.name,
		p.image_url
	FROM orders o
	JOIN order_items oi ON o.id = oi.order_id
	JOIN products p ON oi.product_id = p.id`

// collectOrders scans joined rows and groups them into orders, preserving the
// row order the query produced.
func collectOrders(rows *sql.Rows) ([]OrderDetail, error) {
	orders := []OrderDetail{}
	index := map[int64]int{} // order id -> position in orders

	for rows.Next() {
		var (
			o    OrderDetail
			line OrderLine
		)
		if err := rows.Scan(
			&o.ID, &o.TotalAmount, &o.Status, &o.CreatedAt,
			&line.ProductID, &line.Quantity, &line.Price,
			&line.ProductName, &line.ImageURL,
		); err != nil {
			return nil, err
		}

		pos, seen := index[o.ID]
		if !seen {
			o.Items = []OrderLine{}
			orders = append(orders, o)
			pos = len(orders) - 1
			index[o.ID] = pos
		}
		orders[pos].Items = append(orders[pos].Items, line)
	}
	return orders, rows.Err()
}

// GetMyOrders is the handler for GET /orders/my-orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	query := orderRowsQuery + `
	WHERE o.user_id = ?
	ORDER BY o.created_at DESC, o.id DESC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		log.Printf("Error querying orders for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		log.Printf("Error scanning order rows: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderDetails is the handler for GET /orders/:id.
// The user_id filter doubles as the ownership check: another user's order is
// indistinguishable from a missing one.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	orderID := c.Param("id")

	query := orderRowsQuery + `
	WHERE o.id = ? AND o.user_id = ?`

	rows, err := h.DB.Query(query, orderID, userID)
	if err != nil {
		log.Printf("Error querying order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		log.Printf("Error scanning order rows: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, orders[0])
}

// OrderSummary is one row of the admin order listing with customer info.
type OrderSummary struct {
	ID            int64     `json:"id"`
	TotalAmount   float64   `json:"totalAmount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
}

// GetAllOrders is the handler for GET /orders (admin only).
func (h *Handlers) GetAllOrders(c *gin.Context) {
	query := `
		SELECT
			o.id,
			o.total_amount,
			o.status,
			o.created_at,
			u.name,
			u.email
		FROM orders o
		JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC, o.id DESC`

	rows, err := h.DB.Query(query)
	if err != nil {
		log.Printf("Error querying all orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	orders := []OrderSummary{}
	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(
			&o.ID, &o.TotalAmount, &o.Status, &o.CreatedAt,
			&o.CustomerName, &o.CustomerEmail,
		); err != nil {
			log.Printf("Error scanning order summary: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		orders = append(orders, o)
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatusInput is the payload for PUT /orders/:id/status.
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PUT /orders/:id/status (admin only).
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationFailed(c, bindingErrors(err))
		return
	}

	if !models.ValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	// Existence check first; RowsAffected stays zero on a same-value update.
	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM orders WHERE id = ?", orderID).Scan(&existingID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		log.Printf("Error fetching order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if _, err := h.DB.Exec("UPDATE orders SET status = ? WHERE id = ?", input.Status, orderID); err != nil {
		log.Printf("Error updating order %s status: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
}
